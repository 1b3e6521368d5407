package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-schedule/internal/models"
)

const latestSnapshotKey = "schedule:latest"

type Cache struct {
	Client *redis.Client
	Logger *log.Logger
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{
		Client: client,
		Logger: log.Default(),
	}
}

// getSnapshotTTL returns the snapshot cache TTL from environment variables
// or the default value
func (c *Cache) getSnapshotTTL() time.Duration {
	// Default cache TTL is 10 minutes
	defaultTTL := 10 * time.Minute

	ttlStr := os.Getenv("SCHEDULE_CACHE_TTL_MINUTES")
	if ttlStr == "" {
		return defaultTTL
	}

	ttlMin, err := strconv.Atoi(ttlStr)
	if err != nil {
		c.Logger.Println("REDIS: Invalid SCHEDULE_CACHE_TTL_MINUTES value '" + ttlStr + "', using default 10 minutes")
		return defaultTTL
	}

	c.Logger.Println(fmt.Sprintf("REDIS: Using schedule cache TTL of %d minutes from environment", ttlMin))
	return time.Duration(ttlMin) * time.Minute
}

// SetLatest caches the newest published snapshot
func (c *Cache) SetLatest(s models.Schedule) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.Client.Set(context.Background(), latestSnapshotKey, payload, c.getSnapshotTTL()).Err()
}

// GetLatest returns the cached snapshot, or (nil, nil) when the key is absent
func (c *Cache) GetLatest() (*models.Schedule, error) {
	val, err := c.Client.Get(context.Background(), latestSnapshotKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s models.Schedule
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Invalidate drops the cached snapshot
func (c *Cache) Invalidate() error {
	return c.Client.Del(context.Background(), latestSnapshotKey).Err()
}
