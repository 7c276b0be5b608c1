package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"captable/internal/model"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	sweepInterval = 5 * time.Minute
	// Expired links keep answering ErrShareExpired for this long before the
	// sweep forgets them.
	expiredRetention = 24 * time.Hour
)

// MemoryStore keeps scenarios in process memory. Used when no database is
// configured and in tests; contents are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	clock  clockwork.Clock
	byID   map[string]*Record
	shares map[string]ShareLink

	stop chan struct{}
	once sync.Once
}

func NewMemoryStore(clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	m := &MemoryStore{
		clock:  clock,
		byID:   make(map[string]*Record),
		shares: make(map[string]ShareLink),
		stop:   make(chan struct{}),
	}
	go m.sweep()
	return m
}

func (m *MemoryStore) Get(_ context.Context, userID, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[id]
	if !ok || rec.UserID != userID {
		return nil, ErrNotFound
	}
	return rec.clone(), nil
}

func (m *MemoryStore) List(_ context.Context, userID string) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Summary{}
	for _, rec := range m.byID {
		if rec.UserID == userID {
			out = append(out, summarize(*rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, userID string, s model.Scenario) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := m.clock.Now().UTC()
	rec, ok := m.byID[s.ID]
	if ok && rec.UserID != userID {
		return nil, ErrOwnership
	}
	if !ok {
		rec = &Record{UserID: userID, CreatedAt: now}
		m.byID[s.ID] = rec
	}
	rec.Scenario = s.Clone()
	rec.UpdatedAt = now

	return rec.clone(), nil
}

func (m *MemoryStore) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byID[id]
	if !ok || rec.UserID != userID {
		return ErrNotFound
	}
	delete(m.byID, id)
	for token, link := range m.shares {
		if link.ScenarioID == id {
			delete(m.shares, token)
		}
	}
	return nil
}

func (m *MemoryStore) CreateShareLink(_ context.Context, userID, id string, ttl time.Duration) (*ShareLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byID[id]
	if !ok || rec.UserID != userID {
		return nil, ErrNotFound
	}
	link := ShareLink{
		Token:      uuid.NewString(),
		ScenarioID: id,
		ExpiresAt:  m.clock.Now().UTC().Add(ttl),
	}
	m.shares[link.Token] = link
	return &link, nil
}

func (m *MemoryStore) GetShared(_ context.Context, token string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.shares[token]
	if !ok {
		return nil, ErrNotFound
	}
	if !m.clock.Now().Before(link.ExpiresAt) {
		return nil, ErrShareExpired
	}
	rec, ok := m.byID[link.ScenarioID]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.clone(), nil
}

// Close stops the background sweep.
func (m *MemoryStore) Close() {
	m.once.Do(func() { close(m.stop) })
}

// sweep periodically removes share links expired for longer than
// expiredRetention.
func (m *MemoryStore) sweep() {
	ticker := m.clock.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.Chan():
			m.removeExpired()
		}
	}
}

func (m *MemoryStore) removeExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.clock.Now().Add(-expiredRetention)
	removed := 0
	for token, link := range m.shares {
		if !cutoff.Before(link.ExpiresAt) {
			delete(m.shares, token)
			removed++
		}
	}
	return removed
}
