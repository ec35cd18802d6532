package charts

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/redis/go-redis/v9"
	"github.com/velvetradio/backstage/backstage/database/models"
)

const (
	chartScoreKey    = "backstage:charts:fame"
	chartPositionKey = "backstage:charts:positions"
	snapshotTTL      = 30 * time.Minute
)

// SnapshotStore publishes chart recompute results to Redis so the web
// layer can read positions without touching the row store, with an LRU
// fast path for in-process readers.
type SnapshotStore struct {
	client *redis.Client
	cache  *lru.Cache
}

func NewSnapshotStore(client *redis.Client, cacheSize int) (*SnapshotStore, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &SnapshotStore{client: client, cache: cache}, nil
}

// Publish replaces the chart snapshot atomically: a ZSET ordered by the
// fame-derived score and a position hash keyed by artist ID.
func (s *SnapshotStore) Publish(ctx context.Context, artists []*models.Artist, positions map[snowflake.ID]int) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, chartScoreKey, chartPositionKey)

	members := make([]redis.Z, 0, len(artists))
	fields := make(map[string]string, len(positions))
	for _, artist := range artists {
		members = append(members, redis.Z{
			Score:  rankScore(artist),
			Member: artist.ID.String(),
		})
		fields[artist.ID.String()] = strconv.Itoa(positions[artist.ID])
	}
	if len(members) > 0 {
		pipe.ZAdd(ctx, chartScoreKey, members...)
		pipe.HSet(ctx, chartPositionKey, fields)
	}
	pipe.Expire(ctx, chartScoreKey, snapshotTTL)
	pipe.Expire(ctx, chartPositionKey, snapshotTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to publish chart snapshot: %w", err)
	}

	for id, pos := range positions {
		s.cache.Add(id, pos)
	}
	return nil
}

// GetPosition resolves an artist's chart position, 0 when unranked or
// absent from the snapshot.
func (s *SnapshotStore) GetPosition(ctx context.Context, artistID snowflake.ID) (int, error) {
	if pos, ok := s.cache.Get(artistID); ok {
		return pos.(int), nil
	}

	val, err := s.client.HGet(ctx, chartPositionKey, artistID.String()).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read chart snapshot: %w", err)
	}
	pos, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt chart snapshot entry for %s: %w", artistID, err)
	}
	s.cache.Add(artistID, pos)
	return pos, nil
}

// rankScore folds the ordering key into a single sortable float: fame
// dominates, total streams break ties.
func rankScore(artist *models.Artist) float64 {
	return float64(artist.CurrentFame)*1e12 + float64(artist.TotalStreams)
}
