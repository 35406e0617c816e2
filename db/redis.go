package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

const (
	postedKeyPrefix = "tweetpost:posted:"
	postedCacheTTL  = 30 * 24 * time.Hour
)

func ConnectRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return fmt.Errorf("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(Ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// CachePosted remembers a dedup key so the next cycle can skip a Postgres
// round-trip. Postgres stays the source of truth.
func CachePosted(hash string) error {
	return Redis.Set(Ctx, postedKeyPrefix+hash, "1", postedCacheTTL).Err()
}

// IsCachedPosted reports whether the dedup key is in the fast-path cache.
// A miss says nothing; callers must still check the database.
func IsCachedPosted(hash string) (bool, error) {
	n, err := Redis.Exists(Ctx, postedKeyPrefix+hash).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
