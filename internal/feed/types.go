package feed

import (
	"context"
	"errors"
	"sync"

	"codeberg.org/promptdesk/server/internal/sessions"
)

var (
	ErrMissingOwner = errors.New("owner is required")
	ErrShutDown     = errors.New("feed hub is shut down")
)

// capacity of each subscription's snapshot channel. when a consumer lags,
// stale snapshots are dropped in favor of the latest one.
const snapshotBuffer = 8

// read side of the session store needed by the feed
type Store interface {
	ListRecent(ctx context.Context, owner string, limit int) ([]*sessions.Session, error)
}

// one live, bounded view over a single owner's sessions. every delivery is a
// full ordered snapshot, newest first, never an incremental diff.
type Subscription struct {
	owner     string
	limit     int
	snapshots chan []*sessions.Session
	hub       *Hub
	once      sync.Once
}

// channel of snapshots. closed by Unsubscribe and by hub shutdown.
func (s *Subscription) Snapshots() <-chan []*sessions.Session {
	return s.snapshots
}

// the owner this subscription is scoped to
func (s *Subscription) Owner() string {
	return s.owner
}

// stops snapshot delivery and releases the subscription. safe to call
// multiple times.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.snapshots)
	})
}

// dispatches per-owner session snapshots to live subscriptions
type Hub struct {
	store Store

	// owner ids whose subscribers need a fresh snapshot
	notify chan string

	shutdown chan struct{}

	mu          sync.RWMutex
	subscribers map[string]map[*Subscription]struct{}
	closed      bool
}
