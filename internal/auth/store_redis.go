// Copyright (c) 2026 Plume. All rights reserved.
// Author: m.charvet.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plumeapp/plume/internal/platform/apperr"
	"github.com/plumeapp/plume/internal/platform/constants"
)

// RedisTokenRepository implements [VolatileTokenRepository] on Redis.
//
// The same implementation backs both password-reset and email-verification
// tokens; only the key prefix differs.
type RedisTokenRepository struct {
	client *redis.Client
	prefix string
}

// NewResetTokenRepository creates the Redis store for password reset tokens.
func NewResetTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: constants.RedisPrefixResetToken}
}

// NewVerificationTokenRepository creates the Redis store for email
// verification tokens.
func NewVerificationTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client, prefix: constants.RedisPrefixVerifyToken}
}

// Set stores a token with its associated userID and TTL.
func (repository *RedisTokenRepository) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := repository.client.Set(ctx, repository.prefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_set_failed: %w", err)
	}
	return nil
}

// Get retrieves the userID for a given token.
//
// Returns apperr.NotFound if the token is absent or expired.
func (repository *RedisTokenRepository) Get(ctx context.Context, token string) (string, error) {
	userID, err := repository.client.Get(ctx, repository.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Token")
		}
		return "", fmt.Errorf("redis_token_get_failed: %w", err)
	}
	return userID, nil
}

// Delete removes a consumed token from Redis.
func (repository *RedisTokenRepository) Delete(ctx context.Context, token string) error {
	if err := repository.client.Del(ctx, repository.prefix+token).Err(); err != nil {
		return fmt.Errorf("redis_token_delete_failed: %w", err)
	}
	return nil
}
