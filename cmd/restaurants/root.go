package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ratio1/restaurant_directory_go/internal/config"
	"github.com/Ratio1/restaurant_directory_go/pkg/directory"
)

type cli struct {
	out io.Writer

	verbose   bool
	asJSON    bool
	apiURL    string
	storeMode string
	storePath string

	logger *zap.Logger
	svc    *directory.Service
}

func newRootCmd(out io.Writer) (*cobra.Command, *cli) {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:   "restaurants",
		Short: "Query the restaurant directory",
		Long: `restaurants answers directory queries from the local cache when it holds
data and from the remote endpoint otherwise.

Configuration comes from RESTAURANTS_* environment variables; the flags
below override them for a single invocation.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&c.asJSON, "json", false, "print JSON instead of a table")
	flags.StringVar(&c.apiURL, "api-url", "", "restaurants endpoint (overrides RESTAURANTS_API_URL)")
	flags.StringVar(&c.storeMode, "store", "", "local store mode: auto, sqlite, memory, disabled")
	flags.StringVar(&c.storePath, "store-path", "", "SQLite cache file (overrides RESTAURANTS_STORE_PATH)")

	root.AddCommand(
		c.listCmd(),
		c.filterCmd(),
		c.getCmd(),
		c.neighborhoodsCmd(),
		c.cuisinesCmd(),
		c.facetsCmd(),
	)
	return root, c
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.APIURL = c.apiURL
	}
	if c.storeMode != "" {
		cfg.StoreMode = c.storeMode
	}
	if c.storePath != "" {
		cfg.StorePath = c.storePath
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if c.verbose {
		level = zapcore.DebugLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	c.logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.svc, err = directory.NewFromConfig(cmd.Context(), cfg, c.logger)
	return err
}

// teardown waits for background cache writes and flushes the logger. It
// runs whether or not the command failed.
func (c *cli) teardown() {
	if c.svc != nil {
		if err := c.svc.Close(); err != nil {
			c.logger.Warn("closing directory", zap.Error(err))
		}
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
