package utils

import (
	"context"
	"time"

	"github.com/nikolasamardzija/busNS-rest-api/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheClient holds extracted timetables and the upstream base values.
// The asynq queue lives in its own database (REDIS_QUEUE_DB).
var CacheClient *redis.Client

// NewRedisClient opens a client on the configured server for database db.
func NewRedisClient(db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         config.AppConfig.RedisAddr,
		Password:     config.AppConfig.RedisPassword,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// InitCache connects the cache client and exits when Redis is unreachable.
func InitCache() {
	CacheClient = NewRedisClient(config.AppConfig.RedisCacheDB)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := CacheClient.Ping(ctx).Err(); err != nil {
		GetLogger().Fatal("Redis cache unavailable",
			zap.String("addr", config.AppConfig.RedisAddr),
			zap.Int("db", config.AppConfig.RedisCacheDB),
			zap.Error(err))
	}
}

// GetCacheClient returns the cache client, connecting on first use.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}
