package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// sessionPrefix keys the allow-list entry for a single token ID.
	sessionPrefix = "session:"
	// userSessionsPrefix keys the set of live token IDs per user,
	// used to revoke everything on password change.
	userSessionsPrefix = "user_sessions:"
)

// PutSession registers a token ID in the session allow-list and indexes it
// under the owning user. The entry expires together with the token.
func (c *Cache) PutSession(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, sessionPrefix+tokenID, userID, ttl)
	pipe.SAdd(ctx, userSessionsPrefix+userID, tokenID)
	pipe.Expire(ctx, userSessionsPrefix+userID, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// SessionUser returns the user ID the token was issued to, or an empty
// string if the token is not on the allow-list (revoked or expired).
func (c *Cache) SessionUser(ctx context.Context, tokenID string) (string, error) {
	userID, err := c.client.Get(ctx, sessionPrefix+tokenID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup session: %w", err)
	}
	return userID, nil
}

// DeleteSession revokes a single token.
func (c *Cache) DeleteSession(ctx context.Context, tokenID, userID string) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, sessionPrefix+tokenID)
	pipe.SRem(ctx, userSessionsPrefix+userID, tokenID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteUserSessions revokes every live token for a user except keepTokenID.
// Pass an empty keepTokenID to revoke everything.
func (c *Cache) DeleteUserSessions(ctx context.Context, userID, keepTokenID string) error {
	tokenIDs, err := c.client.SMembers(ctx, userSessionsPrefix+userID).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	pipe := c.client.TxPipeline()
	for _, tokenID := range tokenIDs {
		if tokenID == keepTokenID {
			continue
		}
		pipe.Del(ctx, sessionPrefix+tokenID)
		pipe.SRem(ctx, userSessionsPrefix+userID, tokenID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
