package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// keyPrefix namespaces page-cache entries so Clear never touches
// anything else living in the same Redis database.
const keyPrefix = "pagecache__"

// RedisStore implements Store on top of Redis. Failures are logged and
// treated as cache misses, a broken cache must never break a page.
type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(options *redis.Options) *RedisStore {
	return &RedisStore{
		redisClient: redis.NewClient(options),
	}
}

var _ Store = &RedisStore{}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := s.redisClient.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Errorf("page cache get: %s", err)
		}
		return nil, false
	}
	return val, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := s.redisClient.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		log.Errorf("page cache set: %s", err)
	}
}

func (s *RedisStore) Clear(ctx context.Context) {
	iter := s.redisClient.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			log.Errorf("page cache clear: %s", err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Errorf("page cache clear: %s", err)
	}
}
