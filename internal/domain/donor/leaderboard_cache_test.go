package donor

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

func newTestCache(t *testing.T) (*LeaderboardCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewLeaderboardCache(rdb, time.Minute, zerolog.Nop()), mr
}

func TestLeaderboardCache_RoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := cache.Get(ctx)
	assert.False(t, ok, "cold cache must miss")

	want := []*Donor{
		{Name: "Dev", BloodGroup: blood.ONeg, Donations: 10, Ranking: 1},
		{Name: "Mira", BloodGroup: blood.APos, Donations: 7, Ranking: 2},
	}
	cache.Set(ctx, want)

	got, ok := cache.Get(ctx)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "Dev", got[0].Name)
	assert.Equal(t, 2, got[1].Ranking)
}

func TestLeaderboardCache_Expiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, []*Donor{{Name: "Dev"}})
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx)
	assert.False(t, ok, "entry must expire with the ttl")
}

func TestLeaderboardCache_Invalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, []*Donor{{Name: "Dev"}})
	cache.Invalidate(ctx)

	_, ok := cache.Get(ctx)
	assert.False(t, ok)
}

func TestLeaderboardCache_CorruptPayload(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(leaderboardKey, "not-json"))
	_, ok := cache.Get(ctx)
	assert.False(t, ok, "corrupt payload must be treated as a miss")
	assert.False(t, mr.Exists(leaderboardKey), "corrupt payload must be dropped")
}

func TestService_LeaderboardServesFromCache(t *testing.T) {
	cache, _ := newTestCache(t)
	repo := newMockRepo()
	svc := NewService(repo)
	svc.SetLeaderboardCache(cache)
	ctx := context.Background()

	d := validDonor()
	require.NoError(t, svc.Register(ctx, "u1", d))
	repo.donors[d.ID].Donations = 5

	first, err := svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// A repository failure is invisible while the cache is warm.
	repo.failNext = assert.AnError
	second, err := svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, first[0].Name, second[0].Name)
}

func TestService_LeaderboardCacheCoversLargerLimits(t *testing.T) {
	cache, _ := newTestCache(t)
	repo := newMockRepo()
	svc := NewService(repo)
	svc.SetLeaderboardCache(cache)
	ctx := context.Background()

	for i, n := range []int{9, 5, 3} {
		d := validDonor()
		d.Name = string(rune('a' + i))
		require.NoError(t, svc.Register(ctx, d.Name, d))
		repo.donors[d.ID].Donations = n
	}

	// A small first request must not pin the cache to its limit.
	first, err := svc.Leaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)

	repo.failNext = assert.AnError
	second, err := svc.Leaderboard(ctx, 3)
	require.NoError(t, err, "larger limit must be served from the cached snapshot")
	require.Len(t, second, 3)
	assert.Equal(t, 9, second[0].Donations)
	assert.Equal(t, 3, second[2].Donations)
}

func TestService_WriteInvalidatesLeaderboard(t *testing.T) {
	cache, mr := newTestCache(t)
	repo := newMockRepo()
	svc := NewService(repo)
	svc.SetLeaderboardCache(cache)
	ctx := context.Background()

	d := validDonor()
	require.NoError(t, svc.Register(ctx, "u1", d))
	_, err := svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.True(t, mr.Exists(leaderboardKey))

	require.NoError(t, svc.RecordDonation(ctx, "u1", 1))
	assert.False(t, mr.Exists(leaderboardKey), "donation must drop the cached leaderboard")
}
