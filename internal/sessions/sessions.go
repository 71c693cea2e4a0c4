package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// session kind constants (must match the DB check constraint)
const (
	KindGenerate Kind = "generate"
	KindDebug    Kind = "debug"
	KindSuggest  Kind = "suggest"
)

const (
	// maximum number of sessions a recent-history view may show per owner
	RecentLimit = 10

	// titles keep at most this many runes of the prompt
	titleMaxRunes = 50

	// single-rune truncation marker, so a truncated title is exactly 51 runes
	titleEllipsis = "…"
)

var (
	ErrNotFound      = errors.New("session not found")
	ErrInvalidKind   = errors.New("invalid session kind")
	ErrMissingOwner  = errors.New("owner is required")
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrEmptyResponse = errors.New("response is empty")
)

// identifies which mode produced a session
type Kind string

// reports whether k is one of the closed set of session kinds
func (k Kind) Valid() bool {
	switch k {
	case KindGenerate, KindDebug, KindSuggest:
		return true
	}

	return false
}

// represents one recorded prompt/response exchange. records are write-once:
// no store operation mutates a session after creation.
type Session struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// persistence contract for session records. every operation is scoped to an
// owner - a session is never visible to any other owner.
type Store interface {
	// persists a new session, assigning its id, title, and creation time.
	// only invoked after a successful completion call.
	Create(ctx context.Context, owner string, kind Kind, prompt, response string) (*Session, error)

	// fetches one session by id under the given owner, or ErrNotFound
	Get(ctx context.Context, owner, id string) (*Session, error)

	// returns up to limit sessions for the owner, newest first.
	// an owner with no sessions gets an empty slice, not an error.
	ListRecent(ctx context.Context, owner string, limit int) ([]*Session, error)
}

// derives a display title from the triggering prompt: the first 50 runes,
// with a truncation marker appended when the prompt was longer
func DeriveTitle(prompt string) string {
	runes := []rune(prompt)
	if len(runes) <= titleMaxRunes {
		return prompt
	}

	return string(runes[:titleMaxRunes]) + titleEllipsis
}

// checks the inputs shared by every store implementation
func validateCreate(owner string, kind Kind, prompt, response string) error {
	if owner == "" {
		return ErrMissingOwner
	}

	if !kind.Valid() {
		return ErrInvalidKind
	}

	if prompt == "" {
		return ErrEmptyPrompt
	}

	if response == "" {
		return ErrEmptyResponse
	}

	return nil
}

// bounds a requested feed size to 1..RecentLimit
func clampLimit(limit int) int {
	if limit <= 0 || limit > RecentLimit {
		return RecentLimit
	}

	return limit
}

// returns a new session id for stores without native id generation. the
// format matches the database-assigned uuids so id handling is uniform
// across backends.
func generateSessionID() string {
	return uuid.NewString()
}
