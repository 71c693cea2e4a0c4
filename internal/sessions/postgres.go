package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/promptdesk/server/internal/logger"
)

// Postgres-backed session store. the cache is optional - when present,
// recent-history reads are served from Redis and fall back to Postgres.
type PostgresStore struct {
	db    *pgxpool.Pool
	cache *RecentCache
}

// creates a new Postgres session store. cache may be nil.
func NewPostgresStore(db *pgxpool.Pool, cache *RecentCache) *PostgresStore {
	return &PostgresStore{db: db, cache: cache}
}

// persists a new session record scoped under owner. id and created_at are
// assigned by the database.
func (s *PostgresStore) Create(ctx context.Context, owner string, kind Kind, prompt, response string) (*Session, error) {
	if err := validateCreate(owner, kind, prompt, response); err != nil {
		return nil, err
	}

	var session Session

	err := s.db.QueryRow(
		ctx,
		queryCreateSession,
		owner,
		string(kind),
		DeriveTitle(prompt),
		prompt,
		response,
	).Scan(
		&session.ID,
		&session.Owner,
		&session.Kind,
		&session.Title,
		&session.Prompt,
		&session.Response,
		&session.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	if s.cache != nil {
		// cache push is best-effort, the record is already durable
		if cacheErr := s.cache.Push(ctx, &session); cacheErr != nil {
			logger.Warn("failed to push session to recent cache",
				"owner_id", owner,
				"session_id", session.ID,
				"error", cacheErr,
			)
		}
	}

	return &session, nil
}

// fetches one session by id under the given owner
func (s *PostgresStore) Get(ctx context.Context, owner, id string) (*Session, error) {
	if owner == "" {
		return nil, ErrMissingOwner
	}

	var session Session

	err := s.db.QueryRow(ctx, queryGetSession, id, owner).Scan(
		&session.ID,
		&session.Owner,
		&session.Kind,
		&session.Title,
		&session.Prompt,
		&session.Response,
		&session.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		// a malformed id fails the uuid cast; indistinguishable from a
		// missing session as far as the caller is concerned
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	return &session, nil
}

// returns up to limit sessions for the owner, newest first
func (s *PostgresStore) ListRecent(ctx context.Context, owner string, limit int) ([]*Session, error) {
	if owner == "" {
		return nil, ErrMissingOwner
	}

	limit = clampLimit(limit)

	if s.cache != nil {
		cached, hit, err := s.cache.Recent(ctx, owner)
		if err != nil {
			logger.Warn("recent cache read failed, falling back to postgres",
				"owner_id", owner,
				"error", err,
			)
		} else if hit {
			if len(cached) > limit {
				cached = cached[:limit]
			}

			return cached, nil
		}
	}

	rows, err := s.db.Query(ctx, queryListRecentSessions, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	defer rows.Close()
	result := make([]*Session, 0, limit)

	for rows.Next() {
		var session Session

		err := rows.Scan(
			&session.ID,
			&session.Owner,
			&session.Kind,
			&session.Title,
			&session.Prompt,
			&session.Response,
			&session.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		result = append(result, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	if s.cache != nil && limit == RecentLimit {
		if cacheErr := s.cache.Replace(ctx, owner, result); cacheErr != nil {
			logger.Warn("failed to backfill recent cache",
				"owner_id", owner,
				"error", cacheErr,
			)
		}
	}

	return result, nil
}
