package localstore

import (
	"context"
	"sort"
	"sync"
)

// MemoryBackend keeps records in process memory. It is not durable and is
// meant for development and tests.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[int64][]byte
	closed  bool
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[int64][]byte)}
}

func (m *MemoryBackend) UpsertRaw(ctx context.Context, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for _, rec := range records {
		m.records[rec.ID] = append([]byte(nil), rec.Payload...)
	}
	return nil
}

func (m *MemoryBackend) AllRaw(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make([]Record, 0, len(m.records))
	for id, payload := range m.records {
		out = append(out, Record{ID: id, Payload: append([]byte(nil), payload...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Len returns the number of stored records.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
