package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *ResultStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewResultStore(client)
}

func sampleMatch(room string, endedAt int64) *MatchRecord {
	return &MatchRecord{
		RoomCode: room,
		Winner:   "goose",
		Reason:   "all_ducks_eliminated",
		Rounds:   3,
		EndedAt:  endedAt,
		Players: []MatchPlayer{
			{PlayerID: "p1", Name: "alice", Role: "goose", Alive: true},
			{PlayerID: "p2", Name: "bob", Role: "duck", Alive: false},
		},
	}
}

func TestSaveAndLoadMatch(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	ctx := context.Background()

	rec := sampleMatch("123456", 1700000000000)
	require.NoError(t, store.SaveMatch(ctx, rec))

	key := fmt.Sprintf("match:%s:%d", rec.RoomCode, rec.EndedAt)
	loaded, err := store.LoadMatch(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, rec.Winner, loaded.Winner)
	assert.Equal(t, rec.Rounds, loaded.Rounds)
	assert.Len(t, loaded.Players, 2)
}

func TestSaveMatch_NilIsNoop(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	assert.NoError(t, store.SaveMatch(context.Background(), nil))
}

func TestRecentMatches_NewestFirst(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveMatch(ctx, sampleMatch("123456", int64(1000+i))))
	}

	keys, err := store.RecentMatches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.Equal(t, "match:123456:1002", keys[0])
	assert.Equal(t, "match:123456:1000", keys[2])

	// Limit truncates the list
	keys, err = store.RecentMatches(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestRecordPlayerResult_ScoreDeltas(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	ctx := context.Background()

	// Winning duck, then losing goose
	require.NoError(t, store.RecordPlayerResult(ctx, "p1", "alice", true, true))
	require.NoError(t, store.RecordPlayerResult(ctx, "p1", "alice", false, false))

	stats, err := store.GetPlayerStats(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.TotalGames)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.DuckGames)
	assert.Equal(t, 1, stats.DuckWins)
	assert.Equal(t, 1, stats.GooseGames)
	assert.Equal(t, 0, stats.GooseWins)
	assert.Equal(t, WinAsDuck+LoseAsGoose, stats.Score)
}

func TestGetPlayerStats_MissingPlayer(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	stats, err := store.GetPlayerStats(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestLeaderboard_OrderAndRank(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	ctx := context.Background()

	// alice: +15, bob: +30, carol: -10
	require.NoError(t, store.RecordPlayerResult(ctx, "p1", "alice", false, true))
	require.NoError(t, store.RecordPlayerResult(ctx, "p2", "bob", true, true))
	require.NoError(t, store.RecordPlayerResult(ctx, "p3", "carol", false, false))

	entries, err := store.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "p2", entries[0].PlayerID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "p1", entries[1].PlayerID)
	assert.Equal(t, "p3", entries[2].PlayerID)
	assert.Equal(t, 1.0, entries[0].WinRate)
	assert.Equal(t, 0.0, entries[2].WinRate)

	rank, err := store.GetPlayerRank(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rank)

	rank, err = store.GetPlayerRank(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, rank)

	// Limit caps the page size
	entries, err = store.GetLeaderboard(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
