package trialflag

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Cookie names shared with the SPA. CookieName carries the same literal the
// front end stored in localStorage; ClientIDCookie identifies an anonymous
// browser so flags are keyed per client instead of one global value.
const (
	CookieName     = "freeDesignUsed"
	CookieValue    = "true"
	ClientIDCookie = "rs_cid"
)

const keyPrefix = "trial:used:"

// RedisStore keeps one trial-used flag per client key. Flags are written
// without expiry; the trial is a once-ever grant.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Used reports whether the flag is set for the given client key. Store
// errors degrade to "not used" and are returned so callers can log them.
func (s *RedisStore) Used(ctx context.Context, clientKey string) (bool, error) {
	if clientKey == "" {
		return false, nil
	}
	val, err := s.client.Get(ctx, keyPrefix+clientKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("trialflag read: %w", err)
	}
	return val == CookieValue, nil
}

// Mark sets the flag for the given client key. Idempotent.
func (s *RedisStore) Mark(ctx context.Context, clientKey string) error {
	if clientKey == "" {
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+clientKey, CookieValue, 0).Err(); err != nil {
		return fmt.Errorf("trialflag write: %w", err)
	}
	return nil
}
