package donor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const leaderboardKey = "donor:leaderboard"

// LeaderboardCache keeps the ranked donor list in redis so the leaderboard
// endpoint does not hit postgres on every request. A cache miss or a redis
// failure falls through to the repository.
type LeaderboardCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

func NewLeaderboardCache(rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *LeaderboardCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LeaderboardCache{rdb: rdb, ttl: ttl, log: log.With().Str("component", "leaderboard_cache").Logger()}
}

func (c *LeaderboardCache) Get(ctx context.Context) ([]*Donor, bool) {
	raw, err := c.rdb.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("leaderboard cache read failed")
		}
		return nil, false
	}
	var items []*Donor
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.Warn().Err(err).Msg("leaderboard cache payload corrupt, dropping")
		c.rdb.Del(ctx, leaderboardKey)
		return nil, false
	}
	return items, true
}

func (c *LeaderboardCache) Set(ctx context.Context, items []*Donor) {
	raw, err := json.Marshal(items)
	if err != nil {
		c.log.Warn().Err(err).Msg("leaderboard cache encode failed")
		return
	}
	if err := c.rdb.Set(ctx, leaderboardKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("leaderboard cache write failed")
	}
}

// Invalidate drops the cached leaderboard after a donor write.
func (c *LeaderboardCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, leaderboardKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("leaderboard cache invalidate failed")
	}
}
