// Package mock provides an instrumented localstore.Backend for tests: it
// counts calls, can fail reads or writes on demand, and can block writes
// until released.
package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/Ratio1/restaurant_directory_go/pkg/localstore"
)

// Mock implements localstore.Backend in memory.
type Mock struct {
	mu       sync.Mutex
	records  map[int64][]byte
	readErr  error
	writeErr error
	gate     chan struct{}

	reads  int
	writes int
	closed bool
}

// Option configures the mock instance.
type Option func(*Mock)

// WithReadError makes every AllRaw call fail with err.
func WithReadError(err error) Option {
	return func(m *Mock) { m.readErr = err }
}

// WithWriteError makes every UpsertRaw call fail with err.
func WithWriteError(err error) Option {
	return func(m *Mock) { m.writeErr = err }
}

// WithWriteGate blocks UpsertRaw until gate is closed or the write context
// is done.
func WithWriteGate(gate chan struct{}) Option {
	return func(m *Mock) { m.gate = gate }
}

// New creates an empty mock backend.
func New(opts ...Option) *Mock {
	m := &Mock{records: make(map[int64][]byte)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Seed stores records directly, bypassing counters and injected errors.
func (m *Mock) Seed(records []localstore.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range records {
		m.records[rec.ID] = append([]byte(nil), rec.Payload...)
	}
}

func (m *Mock) UpsertRaw(ctx context.Context, records []localstore.Record) error {
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.closed {
		return localstore.ErrClosed
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	for _, rec := range records {
		m.records[rec.ID] = append([]byte(nil), rec.Payload...)
	}
	return nil
}

func (m *Mock) AllRaw(ctx context.Context) ([]localstore.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.closed {
		return nil, localstore.ErrClosed
	}
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([]localstore.Record, 0, len(m.records))
	for id, payload := range m.records {
		out = append(out, localstore.Record{ID: id, Payload: append([]byte(nil), payload...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// IDs returns the stored ids in ascending order.
func (m *Mock) IDs() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Reads returns the number of AllRaw calls.
func (m *Mock) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Writes returns the number of UpsertRaw calls that reached the store.
func (m *Mock) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
