package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/pulsecheck/watchdog/internal/alert"
	goredis "github.com/redis/go-redis/v9"
)

const cooldownPrefix = "cooldown:"

// CooldownStore implements alert.CooldownStore on Redis. SET NX gives the
// atomic check-and-set: exactly one caller per key wins until the TTL
// expires, across all replicas.
type CooldownStore struct {
	rdb *goredis.Client
}

var _ alert.CooldownStore = (*CooldownStore)(nil)

func NewCooldownStore(rdb *goredis.Client) *CooldownStore {
	return &CooldownStore{rdb: rdb}
}

func (s *CooldownStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	set, err := s.rdb.SetNX(ctx, cooldownPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire cooldown: %w", err)
	}
	return set, nil
}

func (s *CooldownStore) Reset(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, cooldownPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to reset cooldowns: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cooldowns: %w", err)
	}
	return nil
}
