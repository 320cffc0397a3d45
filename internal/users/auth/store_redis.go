// Copyright (c) 2026 Havenest. All rights reserved.
// Author: canh.tranvu.dev@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trancanh/havenest/internal/platform/constants"
	"github.com/trancanh/havenest/internal/platform/dberr"
)

// RedisConsumedTokenRepository implements [ConsumedTokenRepository] on top
// of Redis SET NX with expiration, giving exactly-once redemption for
// registration tokens without a round trip to PostgreSQL.
type RedisConsumedTokenRepository struct {
	client *redis.Client
}

// NewConsumedTokenRepository creates the Redis-backed consumption ledger.
func NewConsumedTokenRepository(client *redis.Client) *RedisConsumedTokenRepository {
	return &RedisConsumedTokenRepository{client: client}
}

/*
MarkConsumed records a token identifier as redeemed.

Description: Uses SET NX so that concurrent redemptions of the same token
resolve to exactly one winner. The mark expires together with the token,
keeping the keyspace bounded.

Parameters:
  - context: context.Context
  - tokenID: string (JWT "jti" claim)
  - ttl: time.Duration (Remaining lifetime of the token)

Returns:
  - bool: true when this call claimed the token, false when already redeemed
  - error: Connectivity failures
*/
func (repository *RedisConsumedTokenRepository) MarkConsumed(context context.Context, tokenID string, ttl time.Duration) (bool, error) {
	key := constants.RedisPrefixConsumedToken + tokenID

	claimed, err := repository.client.SetNX(context, key, 1, ttl).Result()
	if err != nil {
		return false, dberr.Wrap(err, "")
	}

	return claimed, nil
}
