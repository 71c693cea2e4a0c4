package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/promptdesk/server/internal/sessions"
)

func newRunningHub(t *testing.T, store Store) *Hub {
	t.Helper()

	hub := NewHub(store)
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	return hub
}

// waits for the next snapshot or fails the test
func nextSnapshot(t *testing.T, sub *Subscription) []*sessions.Session {
	t.Helper()

	select {
	case snapshot, ok := <-sub.Snapshots():
		require.True(t, ok, "snapshot channel closed unexpectedly")
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribe_RequiresOwner(t *testing.T) {
	hub := newRunningHub(t, sessions.NewMemoryStore())

	_, err := hub.Subscribe(context.Background(), "", 10)

	assert.ErrorIs(t, err, ErrMissingOwner)
}

func TestSubscribe_EmptyInitialSnapshot(t *testing.T) {
	hub := newRunningHub(t, sessions.NewMemoryStore())

	sub, err := hub.Subscribe(context.Background(), "u1", 10)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	snapshot := nextSnapshot(t, sub)

	// zero sessions is a normal snapshot, not an error
	assert.Empty(t, snapshot)
}

func TestSubscribe_InitialSnapshotHasExistingSessions(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryStore()

	_, err := store.Create(ctx, "u1", sessions.KindGenerate, "first prompt", "first response")
	require.NoError(t, err)

	hub := newRunningHub(t, store)

	sub, err := hub.Subscribe(ctx, "u1", 10)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	snapshot := nextSnapshot(t, sub)

	require.Len(t, snapshot, 1)
	assert.Equal(t, "first prompt", snapshot[0].Prompt)
}

func TestNotify_DeliversFreshSnapshot(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryStore()
	hub := newRunningHub(t, store)

	sub, err := hub.Subscribe(ctx, "u1", 10)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	assert.Empty(t, nextSnapshot(t, sub))

	created, err := store.Create(ctx, "u1", sessions.KindGenerate, "build a login form", "<form>...</form>")
	require.NoError(t, err)

	hub.Notify("u1")

	snapshot := nextSnapshot(t, sub)
	require.Len(t, snapshot, 1)
	assert.Equal(t, created.ID, snapshot[0].ID)
	assert.Equal(t, "build a login form", snapshot[0].Title)
}

func TestNotify_BoundAndOrder(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryStore()
	hub := newRunningHub(t, store)

	ids := make([]string, 0, 15)

	for i := range 15 {
		s, err := store.Create(ctx, "u1", sessions.KindGenerate, fmt.Sprintf("prompt %02d", i), "response")
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}

	sub, err := hub.Subscribe(ctx, "u1", 10)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	snapshot := nextSnapshot(t, sub)
	require.Len(t, snapshot, 10)

	for i, session := range snapshot {
		assert.Equal(t, ids[14-i], session.ID, "snapshot must be newest first")
	}
}

func TestNotify_OwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryStore()
	hub := newRunningHub(t, store)

	subA, err := hub.Subscribe(ctx, "owner-a", 10)
	require.NoError(t, err)
	defer subA.Unsubscribe()

	assert.Empty(t, nextSnapshot(t, subA))

	_, err = store.Create(ctx, "owner-b", sessions.KindSuggest, "b's prompt", "b's response")
	require.NoError(t, err)
	hub.Notify("owner-b")

	_, err = store.Create(ctx, "owner-a", sessions.KindGenerate, "a's prompt", "a's response")
	require.NoError(t, err)
	hub.Notify("owner-a")

	snapshot := nextSnapshot(t, subA)
	require.Len(t, snapshot, 1)

	for _, session := range snapshot {
		assert.Equal(t, "owner-a", session.Owner)
	}
}

func TestNotify_MultipleSubscribersSameOwner(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryStore()
	hub := newRunningHub(t, store)

	first, err := hub.Subscribe(ctx, "u1", 10)
	require.NoError(t, err)
	defer first.Unsubscribe()

	second, err := hub.Subscribe(ctx, "u1", 10)
	require.NoError(t, err)
	defer second.Unsubscribe()

	nextSnapshot(t, first)
	nextSnapshot(t, second)

	_, err = store.Create(ctx, "u1", sessions.KindDebug, "why does this panic", "nil map write")
	require.NoError(t, err)
	hub.Notify("u1")

	assert.Len(t, nextSnapshot(t, first), 1)
	assert.Len(t, nextSnapshot(t, second), 1)
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	ctx := context.Background()
	store := sessions.NewMemoryStore()
	hub := newRunningHub(t, store)

	sub, err := hub.Subscribe(ctx, "u1", 10)
	require.NoError(t, err)

	nextSnapshot(t, sub)
	sub.Unsubscribe()

	assert.Equal(t, 0, hub.SubscriberCount("u1"))

	// the channel is closed, not left dangling
	_, ok := <-sub.Snapshots()
	assert.False(t, ok)
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	hub := newRunningHub(t, sessions.NewMemoryStore())

	sub, err := hub.Subscribe(context.Background(), "u1", 10)
	require.NoError(t, err)

	sub.Unsubscribe()

	assert.NotPanics(t, func() {
		sub.Unsubscribe()
		sub.Unsubscribe()
	})
}

func TestShutdown_ClosesSubscriptions(t *testing.T) {
	hub := NewHub(sessions.NewMemoryStore())
	go hub.Run()

	sub, err := hub.Subscribe(context.Background(), "u1", 10)
	require.NoError(t, err)

	hub.Shutdown()

	// drain until closed
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.Snapshots():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("subscription channel was not closed on shutdown")
		}
	}
}

func TestSubscribe_AfterShutdown(t *testing.T) {
	hub := NewHub(sessions.NewMemoryStore())
	go hub.Run()
	hub.Shutdown()

	// give the loop a moment to exit
	time.Sleep(50 * time.Millisecond)

	_, err := hub.Subscribe(context.Background(), "u1", 10)
	assert.ErrorIs(t, err, ErrShutDown)
}
