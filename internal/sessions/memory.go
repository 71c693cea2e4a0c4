package sessions

import (
	"context"
	"sort"
	"sync"
	"time"
)

// in-memory session store, used in tests and local development without
// Postgres. creation times are bumped to stay strictly increasing so the
// feed order is deterministic.
type MemoryStore struct {
	mu          sync.RWMutex
	byOwner     map[string][]*Session
	lastCreated time.Time
}

// returns a new in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byOwner: make(map[string][]*Session),
	}
}

// persists a new session record scoped under owner
func (m *MemoryStore) Create(_ context.Context, owner string, kind Kind, prompt, response string) (*Session, error) {
	if err := validateCreate(owner, kind, prompt, response); err != nil {
		return nil, err
	}

	id := generateSessionID()

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if !now.After(m.lastCreated) {
		now = m.lastCreated.Add(time.Microsecond)
	}

	m.lastCreated = now

	session := &Session{
		ID:        id,
		Owner:     owner,
		Kind:      kind,
		Title:     DeriveTitle(prompt),
		Prompt:    prompt,
		Response:  response,
		CreatedAt: now,
	}

	m.byOwner[owner] = append(m.byOwner[owner], session)

	// hand back a copy so callers cannot reach the stored record
	result := *session
	return &result, nil
}

// fetches one session by id under the given owner
func (m *MemoryStore) Get(_ context.Context, owner, id string) (*Session, error) {
	if owner == "" {
		return nil, ErrMissingOwner
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, session := range m.byOwner[owner] {
		if session.ID == id {
			result := *session
			return &result, nil
		}
	}

	return nil, ErrNotFound
}

// returns up to limit sessions for the owner, newest first
func (m *MemoryStore) ListRecent(_ context.Context, owner string, limit int) ([]*Session, error) {
	if owner == "" {
		return nil, ErrMissingOwner
	}

	limit = clampLimit(limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	owned := m.byOwner[owner]
	result := make([]*Session, 0, len(owned))

	for _, session := range owned {
		copied := *session
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}

		// tie-break on id so order is stable within a snapshot
		return result[i].ID > result[j].ID
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
