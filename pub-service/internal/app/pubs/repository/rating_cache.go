package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"pintperfect/pkg/metrics"
	"pintperfect/pub-service/internal/app/pubs/rating"

	"github.com/redis/go-redis/v9"
)

const (
	ratingCacheKeyPrefix   = "pub_rating"
	ratingVersionKeyPrefix = "pub_rating_version"
)

type redisRatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// cachedAggregate - значение в Redis: агрегат и версия паба, при которой он посчитан
type cachedAggregate struct {
	Aggregate *rating.Aggregate `json:"aggregate"`
	Version   int64             `json:"version"`
}

// NewRedisRatingCache создает кэш агрегатов оценок в Redis.
// Ключ pub_rating:<pubId> хранит JSON агрегата, pub_rating_version:<pubId> - счетчик инвалидаций.
func NewRedisRatingCache(client *redis.Client, ttl time.Duration) RatingCache {
	return &redisRatingCache{client: client, ttl: ttl}
}

func ratingCacheKey(pubID string) string {
	return fmt.Sprintf("%s:%s", ratingCacheKeyPrefix, pubID)
}

func ratingVersionKey(pubID string) string {
	return fmt.Sprintf("%s:%s", ratingVersionKeyPrefix, pubID)
}

// Get читает агрегат и текущую версию одним MGET.
// Значение с устаревшей версией считается промахом.
func (c *redisRatingCache) Get(ctx context.Context, pubID string) (CachedRating, error) {
	values, err := c.client.MGet(ctx, ratingCacheKey(pubID), ratingVersionKey(pubID)).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return CachedRating{}, fmt.Errorf("failed to get rating from cache: %w", err)
	}

	var version int64
	if raw, ok := values[1].(string); ok {
		version, _ = strconv.ParseInt(raw, 10, 64)
	}
	result := CachedRating{Version: version}

	raw, ok := values[0].(string)
	if !ok {
		metrics.RecordCacheMiss(serviceName, ratingCacheKeyPrefix)
		return result, nil
	}

	var entry cachedAggregate
	if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.Aggregate == nil || entry.Version != version {
		// Битое или устаревшее значение считаем промахом
		metrics.RecordCacheMiss(serviceName, ratingCacheKeyPrefix)
		return result, nil
	}

	metrics.RecordCacheHit(serviceName, ratingCacheKeyPrefix)
	result.Aggregate = *entry.Aggregate
	result.Found = true
	return result, nil
}

// Set сохраняет агрегат, посчитанный при версии version
func (c *redisRatingCache) Set(ctx context.Context, pubID string, version int64, agg rating.Aggregate) error {
	data, err := json.Marshal(cachedAggregate{Aggregate: &agg, Version: version})
	if err != nil {
		return fmt.Errorf("failed to marshal rating aggregate: %w", err)
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, ratingCacheKey(pubID), data, c.ttl)
	// Счетчик версии живет дольше значения
	pipe.Expire(ctx, ratingVersionKey(pubID), 2*c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to cache rating: %w", err)
	}
	return nil
}

// Invalidate повышает версию паба и удаляет агрегат; вызывается при каждой записи оценки
func (c *redisRatingCache) Invalidate(ctx context.Context, pubID string) error {
	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, ratingVersionKey(pubID))
	pipe.Expire(ctx, ratingVersionKey(pubID), 2*c.ttl)
	pipe.Del(ctx, ratingCacheKey(pubID))
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to invalidate rating cache: %w", err)
	}
	return nil
}
