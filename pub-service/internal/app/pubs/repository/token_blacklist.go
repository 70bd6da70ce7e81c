package repository

import (
	"context"
	"fmt"
	"time"

	"pintperfect/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

type redisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist создает черный список токенов в Redis
func NewRedisTokenBlacklist(client *redis.Client) TokenBlacklist {
	return &redisTokenBlacklist{client: client}
}

// Add добавляет токен в черный список до момента его истечения
func (r *redisTokenBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	key := fmt.Sprintf("blacklist:%s", token)

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Токен уже истек, не нужно добавлять в черный список
		return nil
	}

	if err := r.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

func (r *redisTokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpExists)
		return false, fmt.Errorf("failed to check if token is blacklisted: %w", err)
	}
	return exists > 0, nil
}
