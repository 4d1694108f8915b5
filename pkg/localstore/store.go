package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Ratio1/restaurant_directory_go/internal/devseed"
	"github.com/Ratio1/restaurant_directory_go/pkg/restaurant"
)

// Modes accepted by Options.Mode.
const (
	ModeAuto     = "auto"
	ModeSQLite   = "sqlite"
	ModeMemory   = "memory"
	ModeDisabled = "disabled"
)

// Record is a stored restaurant in its encoded form.
type Record struct {
	ID      int64
	Payload []byte
}

// Backend is the persistence primitive behind a Store.
type Backend interface {
	// UpsertRaw inserts or replaces every record in a single atomic write.
	UpsertRaw(ctx context.Context, records []Record) error
	// AllRaw returns every stored record ordered by id.
	AllRaw(ctx context.Context) ([]Record, error)
	Close() error
}

// Options selects and configures the backend opened by Open.
type Options struct {
	// Mode is one of the Mode constants; empty means ModeAuto.
	Mode string
	// Path is the SQLite database file. ModeAuto uses SQLite only when set.
	Path string
	// Seed optionally names a devseed file preloaded into a memory store.
	Seed   string
	Logger *zap.Logger
}

// Store is a handle on the local restaurant cache.
type Store struct {
	backend Backend
	logger  *zap.Logger
}

// Open returns a store handle, or nil when persistence is unavailable. An
// unavailable store is not an error: failures to open or migrate the backend
// are logged and reported as absence.
func Open(ctx context.Context, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mode := strings.ToLower(strings.TrimSpace(opts.Mode))
	if mode == "" {
		mode = ModeAuto
	}
	logger = logger.With(zap.String("store_mode", mode))

	switch mode {
	case ModeDisabled:
		logger.Debug("local store disabled")
		return nil
	case ModeAuto:
		if strings.TrimSpace(opts.Path) == "" {
			logger.Debug("no store path configured, running network-only")
			return nil
		}
		return openSQLiteStore(ctx, opts.Path, logger)
	case ModeSQLite:
		return openSQLiteStore(ctx, opts.Path, logger)
	case ModeMemory:
		mem := NewMemoryBackend()
		if opts.Seed != "" {
			if err := seedMemory(mem, opts.Seed); err != nil {
				logger.Warn("memory store seed ignored", zap.String("seed", opts.Seed), zap.Error(err))
			}
		}
		return newStore(mem, logger)
	default:
		logger.Warn("unknown store mode, running network-only")
		return nil
	}
}

func openSQLiteStore(ctx context.Context, path string, logger *zap.Logger) *Store {
	backend, err := OpenSQLite(ctx, path)
	if err != nil {
		logger.Warn("local store unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}
	return newStore(backend, logger.With(zap.String("path", path)))
}

func seedMemory(mem *MemoryBackend, path string) error {
	records, err := devseed.LoadRestaurants(path)
	if err != nil {
		return err
	}
	encoded, err := encodeAll(records)
	if err != nil {
		return err
	}
	return mem.UpsertRaw(context.Background(), encoded)
}

// NewWithBackend wraps a custom backend (e.g. a test double).
func NewWithBackend(b Backend) *Store {
	if b == nil {
		return nil
	}
	return newStore(b, zap.NewNop())
}

func newStore(b Backend, logger *zap.Logger) *Store {
	return &Store{backend: b, logger: logger}
}

// Available reports whether the handle is backed by a persistence layer.
func (s *Store) Available() bool {
	return s != nil && s.backend != nil
}

// SaveAll upserts every restaurant keyed by id, replacing stored records
// with the same id. It is a no-op on an absent store.
func (s *Store) SaveAll(ctx context.Context, restaurants []restaurant.Restaurant) error {
	if !s.Available() || len(restaurants) == 0 {
		return nil
	}
	records, err := encodeAll(restaurants)
	if err != nil {
		return err
	}
	if err := s.backend.UpsertRaw(ctx, records); err != nil {
		return fmt.Errorf("localstore: save %d restaurants: %w", len(records), err)
	}
	s.logger.Debug("restaurants cached", zap.Int("count", len(records)))
	return nil
}

// ReadAll returns every stored restaurant ordered by id. An absent store
// yields an empty slice.
func (s *Store) ReadAll(ctx context.Context) ([]restaurant.Restaurant, error) {
	if !s.Available() {
		return []restaurant.Restaurant{}, nil
	}
	records, err := s.backend.AllRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("localstore: read restaurants: %w", err)
	}
	out := make([]restaurant.Restaurant, 0, len(records))
	for _, rec := range records {
		var r restaurant.Restaurant
		if err := json.Unmarshal(rec.Payload, &r); err != nil {
			return nil, fmt.Errorf("localstore: decode restaurant %d: %w", rec.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Close releases the backend. Closing an absent store is a no-op.
func (s *Store) Close() error {
	if !s.Available() {
		return nil
	}
	return s.backend.Close()
}

func encodeAll(restaurants []restaurant.Restaurant) ([]Record, error) {
	records := make([]Record, 0, len(restaurants))
	for _, r := range restaurants {
		payload, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("localstore: encode restaurant %d: %w", r.ID, err)
		}
		records = append(records, Record{ID: r.ID, Payload: payload})
	}
	return records, nil
}
