// File: services/timetable/cache.go
package timetable

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	timetableRepo "github.com/nikolasamardzija/busNS-rest-api/database/repository/timetable"
	"github.com/nikolasamardzija/busNS-rest-api/models"

	"github.com/go-redis/redis/v8"
)

const timetablePrefix = "timetable:"

// TimetableCache keeps recently extracted timetables.
type TimetableCache interface {
	// Get returns nil without error on a miss.
	Get(ctx context.Context, key timetableRepo.Key) (*models.Timetable, error)
	Set(ctx context.Context, tt *models.Timetable) error
	Delete(ctx context.Context, key timetableRepo.Key) error
}

type RedisTimetableCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTimetableCache(client *redis.Client, ttl time.Duration) *RedisTimetableCache {
	return &RedisTimetableCache{client: client, ttl: ttl}
}

func cacheKey(k timetableRepo.Key) string {
	return fmt.Sprintf("%s%s:%s:%s", timetablePrefix, k.Direction, k.Day, k.ID)
}

func (c *RedisTimetableCache) Get(ctx context.Context, key timetableRepo.Key) (*models.Timetable, error) {
	data, err := c.client.Get(ctx, cacheKey(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tt models.Timetable
	if err := json.Unmarshal([]byte(data), &tt); err != nil {
		return nil, err
	}
	return &tt, nil
}

func (c *RedisTimetableCache) Set(ctx context.Context, tt *models.Timetable) error {
	b, err := json.Marshal(tt)
	if err != nil {
		return err
	}
	key := timetableRepo.Key{ID: tt.ID, Day: tt.Day, Direction: tt.Direction}
	return c.client.Set(ctx, cacheKey(key), b, c.ttl).Err()
}

func (c *RedisTimetableCache) Delete(ctx context.Context, key timetableRepo.Key) error {
	return c.client.Del(ctx, cacheKey(key)).Err()
}
