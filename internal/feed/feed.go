package feed

import (
	"context"
	"time"

	"codeberg.org/promptdesk/server/internal/logger"
	"codeberg.org/promptdesk/server/internal/sessions"
)

// how long a snapshot query may take before the delivery is skipped
const snapshotQueryTimeout = 10 * time.Second

// creates a new feed hub over the given store
func NewHub(store Store) *Hub {
	return &Hub{
		store:       store,
		notify:      make(chan string, 256),
		shutdown:    make(chan struct{}),
		subscribers: make(map[string]map[*Subscription]struct{}),
	}
}

// starts the hub's delivery loop
func (h *Hub) Run() {
	for {
		select {
		case owner := <-h.notify:
			h.deliver(owner)

		case <-h.shutdown:
			h.closeAllSubscriptions()
			return
		}
	}
}

// stops the delivery loop and closes every open subscription
func (h *Hub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}

	h.closed = true
	h.mu.Unlock()

	close(h.shutdown)
}

// establishes a live bounded view over one owner's sessions. the current
// snapshot is delivered immediately; a fresh full snapshot follows every
// change for that owner. the caller must Unsubscribe when the consuming view
// goes away.
func (h *Hub) Subscribe(ctx context.Context, owner string, limit int) (*Subscription, error) {
	if owner == "" {
		return nil, ErrMissingOwner
	}

	if limit <= 0 || limit > sessions.RecentLimit {
		limit = sessions.RecentLimit
	}

	// the initial snapshot is fetched before registration so a subscriber
	// always starts from a consistent state
	initial, err := h.store.ListRecent(ctx, owner, limit)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		owner:     owner,
		limit:     limit,
		snapshots: make(chan []*sessions.Session, snapshotBuffer),
		hub:       h,
	}

	h.mu.Lock()

	if h.closed {
		h.mu.Unlock()
		return nil, ErrShutDown
	}

	if h.subscribers[owner] == nil {
		h.subscribers[owner] = make(map[*Subscription]struct{})
	}

	h.subscribers[owner][sub] = struct{}{}
	sub.push(initial)
	h.mu.Unlock()

	logger.Debug("feed subscription opened",
		"owner_id", owner,
		"limit", limit,
	)

	return sub, nil
}

// signals that the owner's collection changed and subscribers need a fresh
// snapshot. never blocks the caller; delivery happens on the hub loop.
func (h *Hub) Notify(owner string) {
	select {
	case h.notify <- owner:
	default:
		// the queue is saturated - subscribers will catch up on the next
		// notification, every delivery is a full snapshot anyway
		logger.Warn("feed notify queue full, dropping notification",
			"owner_id", owner,
		)
	}
}

// returns the number of open subscriptions for an owner
func (h *Hub) SubscriberCount(owner string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[owner])
}

// queries a fresh snapshot and pushes it to every subscription for the owner
func (h *Hub) deliver(owner string) {
	h.mu.RLock()
	hasSubs := len(h.subscribers[owner]) > 0
	h.mu.RUnlock()

	if !hasSubs {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotQueryTimeout)
	defer cancel()

	snapshot, err := h.store.ListRecent(ctx, owner, sessions.RecentLimit)
	if err != nil {
		logger.ErrorErr(err, "failed to query feed snapshot",
			"owner_id", owner,
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers[owner] {
		bounded := snapshot
		if len(bounded) > sub.limit {
			bounded = bounded[:sub.limit]
		}

		sub.push(bounded)
	}
}

// removes a subscription from the hub
func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	owned, exists := h.subscribers[sub.owner]
	if !exists {
		return
	}

	delete(owned, sub)

	if len(owned) == 0 {
		delete(h.subscribers, sub.owner)
	}

	logger.Debug("feed subscription closed",
		"owner_id", sub.owner,
	)
}

// closes every subscription on shutdown
func (h *Hub) closeAllSubscriptions() {
	h.mu.Lock()
	all := make([]*Subscription, 0)

	for _, owned := range h.subscribers {
		for sub := range owned {
			all = append(all, sub)
		}
	}

	h.subscribers = make(map[string]map[*Subscription]struct{})
	h.mu.Unlock()

	for _, sub := range all {
		sub.once.Do(func() {
			close(sub.snapshots)
		})
	}

	logger.Info("feed hub shut down",
		"subscriptions_closed", len(all),
	)
}

// queues a snapshot without ever blocking the hub. when the consumer lags,
// the oldest queued snapshot is dropped - only the latest state matters.
func (s *Subscription) push(snapshot []*sessions.Session) {
	select {
	case s.snapshots <- snapshot:
		return
	default:
	}

	select {
	case <-s.snapshots:
	default:
	}

	select {
	case s.snapshots <- snapshot:
	default:
	}
}
