package sessions

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name      string
		prompt    string
		wantSame  bool
		wantRunes int
	}{
		{name: "short prompt kept verbatim", prompt: strings.Repeat("a", 49), wantSame: true, wantRunes: 49},
		{name: "exactly at the bound", prompt: strings.Repeat("a", 50), wantSame: true, wantRunes: 50},
		{name: "one over the bound", prompt: strings.Repeat("a", 51), wantSame: false, wantRunes: 51},
		{name: "far over the bound", prompt: strings.Repeat("a", 200), wantSame: false, wantRunes: 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title := DeriveTitle(tt.prompt)

			if tt.wantSame {
				assert.Equal(t, tt.prompt, title)
			} else {
				assert.Equal(t, tt.prompt[:50]+"…", title)
			}

			assert.Equal(t, tt.wantRunes, utf8.RuneCountInString(title))
		})
	}
}

func TestDeriveTitle_MultibytePrompt(t *testing.T) {
	prompt := strings.Repeat("é", 60)

	title := DeriveTitle(prompt)

	assert.Equal(t, 51, utf8.RuneCountInString(title))
	assert.True(t, strings.HasSuffix(title, "…"))
}

func TestKindValid(t *testing.T) {
	assert.True(t, KindGenerate.Valid())
	assert.True(t, KindDebug.Valid())
	assert.True(t, KindSuggest.Valid())
	assert.False(t, Kind("").Valid())
	assert.False(t, Kind("translate").Valid())
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, "u1", KindGenerate, "build a login form", "<form>...</form>")
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.Owner)
	assert.Equal(t, KindGenerate, created.Kind)
	assert.Equal(t, "build a login form", created.Title)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := store.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Prompt, fetched.Prompt)
	assert.Equal(t, created.Response, fetched.Response)
}

func TestMemoryStore_CreateValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Create(ctx, "", KindGenerate, "p", "r")
	assert.ErrorIs(t, err, ErrMissingOwner)

	_, err = store.Create(ctx, "u1", Kind("bogus"), "p", "r")
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = store.Create(ctx, "u1", KindDebug, "", "r")
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	// a failed generation never produces a record
	_, err = store.Create(ctx, "u1", KindDebug, "p", "")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestMemoryStore_OwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	aSession, err := store.Create(ctx, "owner-a", KindGenerate, "a's prompt", "a's response")
	require.NoError(t, err)

	_, err = store.Create(ctx, "owner-b", KindSuggest, "b's prompt", "b's response")
	require.NoError(t, err)

	// owner B can never see A's session
	_, err = store.Get(ctx, "owner-b", aSession.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	recent, err := store.ListRecent(ctx, "owner-a", RecentLimit)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "owner-a", recent[0].Owner)
}

func TestMemoryStore_ListRecentBoundAndOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ids := make([]string, 0, 15)

	for i := range 15 {
		s, err := store.Create(ctx, "u1", KindGenerate, fmt.Sprintf("prompt %02d", i), "response")
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}

	recent, err := store.ListRecent(ctx, "u1", RecentLimit)
	require.NoError(t, err)
	require.Len(t, recent, RecentLimit)

	// the 10 most recently created, newest first
	for i, session := range recent {
		assert.Equal(t, ids[14-i], session.ID)
	}
}

func TestMemoryStore_ListRecentClampsLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := range 15 {
		_, err := store.Create(ctx, "u1", KindGenerate, fmt.Sprintf("prompt %02d", i), "response")
		require.NoError(t, err)
	}

	recent, err := store.ListRecent(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, recent, RecentLimit)

	recent, err = store.ListRecent(ctx, "u1", 100)
	require.NoError(t, err)
	assert.Len(t, recent, RecentLimit)

	recent, err = store.ListRecent(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

func TestMemoryStore_ListRecentEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	recent, err := store.ListRecent(ctx, "nobody", RecentLimit)

	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, "u1", KindGenerate, "original prompt", "original response")
	require.NoError(t, err)

	// mutating a returned record must not affect the stored one
	created.Prompt = "tampered"
	created.Response = "tampered"

	fetched, err := store.Get(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "original prompt", fetched.Prompt)
	assert.Equal(t, "original response", fetched.Response)

	fetched.Title = "tampered"

	recent, err := store.ListRecent(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "original prompt", recent[0].Title)
}

func TestMemoryStore_MonotonicCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var prev *Session

	for i := range 50 {
		s, err := store.Create(ctx, "u1", KindGenerate, fmt.Sprintf("p%d", i), "r")
		require.NoError(t, err)

		if prev != nil {
			assert.True(t, s.CreatedAt.After(prev.CreatedAt),
				"created_at must be strictly increasing")
		}

		prev = s
	}
}
