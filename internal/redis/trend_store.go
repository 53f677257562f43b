package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pulsecheck/watchdog/internal/domain"
	"github.com/pulsecheck/watchdog/internal/trend"
	goredis "github.com/redis/go-redis/v9"
)

const (
	trendWindowPrefix = "trend:window:"
	trendKeySet       = "trend:keys"
)

// trendMember is the sorted-set member payload. The nonce keeps two
// identical snapshots from collapsing into one member.
type trendMember struct {
	Nonce    string               `json:"nonce"`
	Snapshot domain.TrendSnapshot `json:"snapshot"`
}

// TrendStore implements trend.Store on a Redis sorted set per key, scored by
// the snapshot's unix timestamp in nanoseconds. Pruning happens on every
// append via ZREMRANGEBYSCORE.
type TrendStore struct {
	rdb   *goredis.Client
	clock clockwork.Clock
}

var _ trend.Store = (*TrendStore)(nil)

func NewTrendStore(rdb *goredis.Client, clock clockwork.Clock) *TrendStore {
	return &TrendStore{rdb: rdb, clock: clock}
}

func (s *TrendStore) Append(ctx context.Context, key string, snapshot domain.TrendSnapshot) error {
	payload, err := json.Marshal(trendMember{Nonce: uuid.NewString(), Snapshot: snapshot})
	if err != nil {
		return fmt.Errorf("failed to marshal trend snapshot: %w", err)
	}

	cutoff := s.clock.Now().Add(-trend.RetentionHorizon)
	windowKey := trendWindowPrefix + key

	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, windowKey, goredis.Z{
		Score:  float64(snapshot.Timestamp.UnixNano()),
		Member: payload,
	})
	pipe.ZRemRangeByScore(ctx, windowKey, "-inf", strconv.FormatInt(cutoff.UnixNano(), 10))
	pipe.SAdd(ctx, trendKeySet, key)
	// Keys stop being touched when traffic dries up; the expiry keeps stale
	// windows from lingering forever.
	pipe.Expire(ctx, windowKey, 2*trend.RetentionHorizon)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append trend snapshot: %w", err)
	}
	return nil
}

func (s *TrendStore) Window(ctx context.Context, key string, since time.Time) ([]domain.TrendSnapshot, error) {
	members, err := s.rdb.ZRangeByScore(ctx, trendWindowPrefix+key, &goredis.ZRangeBy{
		Min: strconv.FormatInt(since.UnixNano(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read trend window: %w", err)
	}

	snapshots := make([]domain.TrendSnapshot, 0, len(members))
	for _, raw := range members {
		var member trendMember
		if err := json.Unmarshal([]byte(raw), &member); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trend snapshot: %w", err)
		}
		snapshots = append(snapshots, member.Snapshot)
	}
	return snapshots, nil
}

func (s *TrendStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.rdb.SMembers(ctx, trendKeySet).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list trend keys: %w", err)
	}
	return keys, nil
}

func (s *TrendStore) Reset(ctx context.Context) error {
	keys, err := s.Keys(ctx)
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, key := range keys {
		pipe.Del(ctx, trendWindowPrefix+key)
	}
	pipe.Del(ctx, trendKeySet)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to reset trend windows: %w", err)
	}
	return nil
}
