package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key for an owner's recent-session list
	keyRecentSessions = "recent_sessions:%s"

	// recent lists expire if an owner stays idle
	recentCacheTTL = 24 * time.Hour
)

// Redis-backed cache of each owner's newest sessions, kept trimmed to
// RecentLimit entries so feed snapshots avoid a database round trip
type RecentCache struct {
	client *redis.Client
}

// creates a recent-session cache from a Redis URL
func NewRecentCache(redisURL string) (*RecentCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RecentCache{client: client}, nil
}

// closes the Redis connection
func (c *RecentCache) Close() error {
	return c.client.Close()
}

// exposes the underlying Redis client for components that share the
// connection, such as the rate limiter store
func (c *RecentCache) Client() *redis.Client {
	return c.client
}

// prepends a newly created session to its owner's recent list and trims the
// list to the feed bound. an absent key is left untouched: pushing onto an
// expired or lost list would rebuild it with just this entry while the
// database still holds older sessions, so the list stays absent until the
// next database read replaces it in full. every present key therefore holds
// the owner's complete recent history.
func (c *RecentCache) Push(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	key := fmt.Sprintf(keyRecentSessions, session.Owner)
	pipe := c.client.Pipeline()
	pipe.LPushX(ctx, key, data)
	pipe.LTrim(ctx, key, 0, RecentLimit-1)
	pipe.Expire(ctx, key, recentCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push session to redis: %w", err)
	}

	return nil
}

// returns the owner's cached recent sessions, newest first. the second return
// value reports whether the cache held anything for this owner - an empty
// list is a miss and the caller should fall back to the database. because
// Push never creates a key, a present list is always the owner's complete
// recent history, not a partial rebuild.
func (c *RecentCache) Recent(ctx context.Context, owner string) ([]*Session, bool, error) {
	key := fmt.Sprintf(keyRecentSessions, owner)

	entries, err := c.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read recent sessions from redis: %w", err)
	}

	if len(entries) == 0 {
		return nil, false, nil
	}

	result := make([]*Session, 0, len(entries))

	for _, entry := range entries {
		var session Session
		if err := json.Unmarshal([]byte(entry), &session); err != nil {
			// malformed entry - treat the whole list as unusable
			return nil, false, fmt.Errorf("failed to unmarshal cached session: %w", err)
		}

		result = append(result, &session)
	}

	return result, true, nil
}

// replaces the owner's cached list with a fresh snapshot from the database
func (c *RecentCache) Replace(ctx context.Context, owner string, snapshot []*Session) error {
	if len(snapshot) == 0 {
		return nil
	}

	key := fmt.Sprintf(keyRecentSessions, owner)
	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)

	// RPush preserves newest-first order of the snapshot
	for _, session := range snapshot {
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		pipe.RPush(ctx, key, data)
	}

	pipe.LTrim(ctx, key, 0, RecentLimit-1)
	pipe.Expire(ctx, key, recentCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to replace recent sessions in redis: %w", err)
	}

	return nil
}
