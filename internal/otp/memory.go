package otp

import (
	"context"
	"sync"
	"time"
)

type record struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is the in-process Store used when no Redis is configured.
// Pending codes do not survive a restart.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{records: make(map[string]record), now: now}
}

func (m *MemoryStore) Put(_ context.Context, email, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[email] = record{code: code, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Consume(_ context.Context, email, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[email]
	if !ok {
		return false, nil
	}
	if !m.now().Before(rec.expiresAt) {
		delete(m.records, email)
		return false, nil
	}
	if rec.code != code {
		return false, nil
	}
	delete(m.records, email)
	return true, nil
}

// Sweep drops expired records and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for email, rec := range m.records {
		if !now.Before(rec.expiresAt) {
			delete(m.records, email)
			removed++
		}
	}
	return removed
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
