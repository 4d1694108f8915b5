package directory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/Ratio1/restaurant_directory_go/pkg/localstore"
	"github.com/Ratio1/restaurant_directory_go/pkg/metrics"
	"github.com/Ratio1/restaurant_directory_go/pkg/restaurant"
)

// Fetcher retrieves the full collection from the remote source.
// *remote.Client implements it.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]restaurant.Restaurant, error)
}

var errNoRemote = errors.New("directory: no remote source configured")

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records cache and fetch activity on c.
func WithMetrics(c *metrics.Collectors) Option {
	return func(s *Service) {
		s.metrics = c
	}
}

// Service answers restaurant queries over a cache-then-network collection.
// It holds no collection state of its own; every call resolves afresh.
type Service struct {
	remote  Fetcher
	store   *localstore.Store
	logger  *zap.Logger
	metrics *metrics.Collectors

	saves     sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New wires a Service. store may be nil, in which case every resolve goes to
// the remote source.
func New(remote Fetcher, store *localstore.Store, opts ...Option) *Service {
	s := &Service{
		remote: remote,
		store:  store,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CacheAvailable reports whether the service has a local store.
func (s *Service) CacheAvailable() bool {
	return s.store.Available()
}

// ResolveAll returns the stored collection when the local store holds any
// record, and otherwise fetches it from the remote source. A store read
// failure and a remote failure are both returned unchanged.
func (s *Service) ResolveAll(ctx context.Context) ([]restaurant.Restaurant, error) {
	cached, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		s.metrics.Hit()
		s.logger.Debug("restaurants served from cache", zap.Int("count", len(cached)))
		return cached, nil
	}

	s.metrics.Miss()
	if s.remote == nil {
		return nil, &restaurant.NetworkError{Err: errNoRemote}
	}
	fetched, err := s.remote.FetchAll(ctx)
	s.metrics.Fetched(err)
	if err != nil {
		s.logger.Warn("remote fetch failed", zap.Error(err))
		return nil, err
	}
	s.populate(ctx, fetched)
	return fetched, nil
}

// populate writes a fetched collection to the store without blocking the
// caller. Failures are logged and counted only.
func (s *Service) populate(ctx context.Context, fetched []restaurant.Restaurant) {
	if !s.store.Available() || len(fetched) == 0 {
		return
	}
	snapshot := slices.Clone(fetched)
	saveCtx := context.WithoutCancel(ctx)

	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		if err := s.store.SaveAll(saveCtx, snapshot); err != nil {
			s.metrics.WriteFailed()
			s.logger.Warn("caching restaurants failed", zap.Int("count", len(snapshot)), zap.Error(err))
		}
	}()
}

// Wait blocks until every background cache write started so far has
// finished.
func (s *Service) Wait() {
	s.saves.Wait()
}

// Close waits for pending cache writes and closes the local store.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		s.saves.Wait()
		s.closeErr = s.store.Close()
	})
	return s.closeErr
}

// ByID returns the restaurant with the given id, or a *restaurant.NotFoundError.
func (s *Service) ByID(ctx context.Context, id int64) (restaurant.Restaurant, error) {
	all, err := s.ResolveAll(ctx)
	if err != nil {
		return restaurant.Restaurant{}, err
	}
	return FindByID(all, id)
}

// ByCuisine returns the restaurants serving cuisine.
func (s *Service) ByCuisine(ctx context.Context, cuisine string) ([]restaurant.Restaurant, error) {
	all, err := s.ResolveAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByCuisine(all, cuisine), nil
}

// ByNeighborhood returns the restaurants located in neighborhood.
func (s *Service) ByNeighborhood(ctx context.Context, neighborhood string) ([]restaurant.Restaurant, error) {
	all, err := s.ResolveAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByNeighborhood(all, neighborhood), nil
}

// ByCuisineAndNeighborhood applies both facet filters; All disables either.
func (s *Service) ByCuisineAndNeighborhood(ctx context.Context, cuisine, neighborhood string) ([]restaurant.Restaurant, error) {
	all, err := s.ResolveAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByCuisineAndNeighborhood(all, cuisine, neighborhood), nil
}

// Neighborhoods lists the distinct neighborhoods in first-occurrence order.
func (s *Service) Neighborhoods(ctx context.Context) ([]string, error) {
	all, err := s.ResolveAll(ctx)
	if err != nil {
		return nil, err
	}
	return UniqueNeighborhoods(all), nil
}

// Cuisines lists the distinct cuisine types in first-occurrence order.
func (s *Service) Cuisines(ctx context.Context) ([]string, error) {
	all, err := s.ResolveAll(ctx)
	if err != nil {
		return nil, err
	}
	return UniqueCuisines(all), nil
}
