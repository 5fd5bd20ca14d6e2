package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// userRevocationPrefix is the prefix for bulk-revocation marker keys
	userRevocationPrefix = "revoked:user:"
)

// RevocationCache tracks bulk revocations so outstanding access tokens can
// be rejected before they expire. Access tokens are stateless, so without
// this marker a token issued before a logout-all stays valid until its exp.
// The marker only needs to live as long as the access token lifetime.
type RevocationCache struct{}

// NewRevocationCache creates a RevocationCache backed by the global Redis client
func NewRevocationCache() *RevocationCache {
	return &RevocationCache{}
}

// RevokeUser marks every access token of the user as revoked for ttl
func (c *RevocationCache) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if RedisClient == nil {
		return errors.New("redis client not initialized")
	}
	return RedisClient.Set(ctx, userRevocationPrefix+userID, "1", ttl).Err()
}

// IsUserRevoked checks whether the user has an active bulk-revocation marker
func (c *RevocationCache) IsUserRevoked(ctx context.Context, userID string) (bool, error) {
	if RedisClient == nil {
		return false, errors.New("redis client not initialized")
	}

	err := RedisClient.Get(ctx, userRevocationPrefix+userID).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return false, err
}
