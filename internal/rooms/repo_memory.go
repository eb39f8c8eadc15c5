package rooms

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory call log for tests and early development.
// It enforces the same one-active-per-group invariant as the Postgres
// partial unique index.
type MemoryRepo struct {
	mu      sync.Mutex
	records []CallRecord
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) InsertActive(_ context.Context, rec CallRecord) (CallRecord, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.GroupID == rec.GroupID && r.Active {
			return r, false, nil
		}
	}
	rec.Active = true
	rec.EndedAt = nil
	m.records = append(m.records, rec)
	return rec, true, nil
}

func (m *MemoryRepo) GetActive(_ context.Context, groupID string) (CallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.GroupID == groupID && r.Active {
			return r, nil
		}
	}
	return CallRecord{}, ErrNotFound
}

func (m *MemoryRepo) EndActive(_ context.Context, groupID string, endedAt time.Time) (CallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.records {
		if m.records[i].GroupID == groupID && m.records[i].Active {
			m.records[i].Active = false
			ended := endedAt
			m.records[i].EndedAt = &ended
			return m.records[i], nil
		}
	}
	return CallRecord{}, ErrNotFound
}

func (m *MemoryRepo) GetByRoomID(_ context.Context, roomID string) (CallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.records {
		if r.RoomID == roomID {
			return r, nil
		}
	}
	return CallRecord{}, ErrNotFound
}

func (m *MemoryRepo) ListByGroup(_ context.Context, groupID string) ([]CallRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []CallRecord
	// newest first, matching the SQL ordering
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].GroupID == groupID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

// ActiveCount reports how many active records exist for a group.
// Test helper for the at-most-one invariant.
func (m *MemoryRepo) ActiveCount(groupID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, r := range m.records {
		if r.GroupID == groupID && r.Active {
			n++
		}
	}
	return n
}
