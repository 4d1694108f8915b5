package directory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Ratio1/restaurant_directory_go/internal/config"
	"github.com/Ratio1/restaurant_directory_go/internal/httpx"
	"github.com/Ratio1/restaurant_directory_go/pkg/localstore"
	"github.com/Ratio1/restaurant_directory_go/pkg/remote"
)

// NewFromEnv builds a Service from the RESTAURANTS_* environment variables.
// The local store is opened according to RESTAURANTS_STORE_MODE; when it
// cannot be opened the service runs network-only.
func NewFromEnv(ctx context.Context, logger *zap.Logger, opts ...Option) (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}
	return NewFromConfig(ctx, cfg, logger, opts...)
}

// NewFromConfig builds a Service from an already parsed configuration.
func NewFromConfig(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...Option) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}

	retry := httpx.DefaultRetryPolicy
	retry.MaxRetries = cfg.FetchRetries
	rc, err := remote.New(cfg.APIURL,
		httpx.WithTimeout(cfg.HTTPTimeout),
		httpx.WithRetryPolicy(retry),
		httpx.WithLogger(logger.Named("http")),
	)
	if err != nil {
		return nil, fmt.Errorf("directory: init remote client: %w", err)
	}

	store := localstore.Open(ctx, localstore.Options{
		Mode:   cfg.StoreMode,
		Path:   cfg.StorePath,
		Seed:   cfg.StoreSeed,
		Logger: logger.Named("store"),
	})
	logger.Debug("directory configured",
		zap.String("api_url", cfg.APIURL),
		zap.String("store_mode", cfg.StoreMode),
		zap.Bool("cache_available", store.Available()))

	opts = append([]Option{WithLogger(logger)}, opts...)
	return New(rc.WithLogger(logger.Named("remote")), store, opts...), nil
}
