package journal

import (
	"context"
	"sync"
)

type MemoryJournal struct {
	mu      sync.Mutex
	records []OrderRecord
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		records: make([]OrderRecord, 0),
	}
}

func (m *MemoryJournal) Record(_ context.Context, rec *OrderRecord) error {
	Prepare(rec)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *rec)
	return nil
}

func (m *MemoryJournal) Records() []OrderRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to avoid race
	out := make([]OrderRecord, len(m.records))
	copy(out, m.records)
	return out
}
