package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	pkgAuth "github.com/polkiloo/rewardportal/internal/pkg/auth"
)

const keyPrefix = "revoked:"

// redisClient is the subset of redis commands the denylist needs.
type redisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisRevoker stores revoked token ids until the token would have expired.
type RedisRevoker struct {
	client redisClient
	now    func() time.Time
}

var _ pkgAuth.Revoker = (*RedisRevoker)(nil)

// NewRedisRevoker builds a revoker on top of an existing client.
func NewRedisRevoker(client redisClient) *RedisRevoker {
	return &RedisRevoker{client: client, now: time.Now}
}

// Revoke denylists tokenID until the given time. Already expired tokens are skipped.
func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID is on the denylist.
func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}

// Close releases the underlying connection pool.
func (r *RedisRevoker) Close() error {
	return r.client.Close()
}

// NopRevoker never revokes anything; tokens stay valid until they expire.
type NopRevoker struct{}

var _ pkgAuth.Revoker = NopRevoker{}

func (NopRevoker) Revoke(context.Context, string, time.Time) error { return nil }

func (NopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }
