package journal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory keeps the latest entries in process. Used when no database is
// configured.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
	max     int
}

func NewMemory(max int) *Memory {
	if max <= 0 {
		max = maxListLimit
	}
	return &Memory{max: max}
}

func (m *Memory) Record(_ context.Context, e Entry) error {
	if _, err := encodeData(e); err != nil {
		return err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	if len(m.entries) > m.max {
		m.entries = m.entries[len(m.entries)-m.max:]
	}
	return nil
}

func (m *Memory) List(_ context.Context, f Filter) ([]Entry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Entry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := m.entries[i]
		if f.BookingID != 0 && e.BookingID != f.BookingID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
