package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickwphillips/commander-collector/internal/config"
	"github.com/rickwphillips/commander-collector/internal/domain"
	"github.com/rickwphillips/commander-collector/internal/stats"
)

type stubSource struct {
	rows  []domain.ResultRow
	err   error
	calls atomic.Int32
}

func (s *stubSource) ListResults(ctx context.Context) ([]domain.ResultRow, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func intPtr(v int) *int { return &v }

func sampleRows() []domain.ResultRow {
	base := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	row := func(game int64, hours int, gameType domain.GameType, player, deck int64, name string, finish int, team *int) domain.ResultRow {
		return domain.ResultRow{
			GameID: game, PlayerID: player, DeckID: deck, FinishPosition: finish,
			TeamNumber: team, PlayedAt: base.Add(time.Duration(hours) * time.Hour),
			GameType: gameType, PlayerName: name, DeckName: name + "'s deck",
			Commander: "Cmdr " + name, Colors: "WU",
		}
	}
	return []domain.ResultRow{
		row(1, 0, domain.GameTypeStandard, 1, 10, "Alice", 1, nil),
		row(1, 0, domain.GameTypeStandard, 2, 20, "Bram", 2, nil),
		row(2, 1, domain.GameTypeStandard, 1, 10, "Alice", 2, nil),
		row(2, 1, domain.GameTypeStandard, 2, 20, "Bram", 1, nil),
		row(2, 1, domain.GameTypeStandard, 3, 30, "Cleo", 3, nil),
		row(3, 2, domain.GameTypeTwoHeadedGiant, 1, 10, "Alice", 1, intPtr(1)),
		row(3, 2, domain.GameTypeTwoHeadedGiant, 2, 20, "Bram", 1, intPtr(1)),
		row(3, 2, domain.GameTypeTwoHeadedGiant, 3, 30, "Cleo", 2, intPtr(2)),
		row(3, 2, domain.GameTypeTwoHeadedGiant, 4, 40, "Dev", 2, intPtr(2)),
	}
}

func newTestService(src ResultSource) *StatsService {
	svc := NewStatsService(src, &config.Config{Stats: stats.DefaultOptions()}, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestStatsService_Advanced(t *testing.T) {
	src := &stubSource{rows: sampleRows()}
	got, err := newTestService(src).Advanced(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, src.calls.Load(), "feed is read once per request")
	assert.NotEmpty(t, got.SnapshotID)
	assert.Equal(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC), got.GeneratedAt)

	assert.Len(t, got.PlayerStreaks, 4)
	assert.Len(t, got.DeckStreaks, 4)
	require.Len(t, got.ColorMeta, 1)
	assert.Equal(t, 9, got.ColorMeta[0].TotalGames)
	require.Len(t, got.GameSizeStats, 3)
	assert.Equal(t, []int{2, 3, 4}, []int{got.GameSizeStats[0].PodSize, got.GameSizeStats[1].PodSize, got.GameSizeStats[2].PodSize})

	require.Len(t, got.TwoHGStats.TeamPairings, 2)
	assert.Equal(t, int64(1), got.TwoHGStats.TeamPairings[0].PlayerA)
	assert.Equal(t, 1, got.TwoHGStats.TeamPairings[0].Wins)
	require.Len(t, got.TwoHGStats.RecentGames, 1)
	assert.Equal(t, "Alice & Bram", got.TwoHGStats.RecentGames[0].Winners)

	again, err := newTestService(src).Advanced(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, got.SnapshotID, again.SnapshotID)
}

func TestStatsService_FeedFailureIsFatal(t *testing.T) {
	svc := newTestService(&stubSource{err: errors.New("connection refused")})
	ctx := context.Background()

	adv, err := svc.Advanced(ctx)
	assert.Nil(t, adv)
	assert.ErrorIs(t, err, ErrFeedUnavailable)

	_, err = svc.HeadToHead(ctx)
	assert.ErrorIs(t, err, ErrFeedUnavailable)

	_, err = svc.HeadToHeadPair(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrFeedUnavailable)

	_, err = svc.Overview(ctx)
	assert.ErrorIs(t, err, ErrFeedUnavailable)

	_, err = svc.PlayerSummary(ctx, 1)
	assert.ErrorIs(t, err, ErrFeedUnavailable)
}

func TestStatsService_HeadToHead(t *testing.T) {
	svc := newTestService(&stubSource{rows: sampleRows()})

	buckets, err := svc.HeadToHead(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets.TwoPlayer, 1)
	assert.Equal(t, 1, buckets.TwoPlayer[0].AWins)
	assert.Equal(t, 0, buckets.TwoPlayer[0].BWins)
	assert.NotEmpty(t, buckets.Multiplayer)

	detail, err := svc.HeadToHeadPair(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, detail.TotalGames)
	assert.Equal(t, 1, detail.PlayerAWins)
	assert.Equal(t, 1, detail.PlayerBWins)
}

func TestStatsService_SamePlayerSkipsFeed(t *testing.T) {
	src := &stubSource{rows: sampleRows()}
	_, err := newTestService(src).HeadToHeadPair(context.Background(), 2, 2)
	assert.ErrorIs(t, err, stats.ErrSamePlayer)
	assert.Zero(t, src.calls.Load())
}

func TestStatsService_Summaries(t *testing.T) {
	svc := newTestService(&stubSource{rows: sampleRows()})
	ctx := context.Background()

	p, err := svc.PlayerSummary(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Cleo", p.PlayerName)
	assert.Equal(t, 2, p.TotalGames)
	assert.Zero(t, p.Wins)

	_, err = svc.PlayerSummary(ctx, 77)
	assert.ErrorIs(t, err, ErrNotFound)

	d, err := svc.DeckSummary(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, d.TotalGames)
	assert.Equal(t, 66.7, d.WinRate)

	_, err = svc.DeckSummary(ctx, 77)
	assert.ErrorIs(t, err, ErrNotFound)

	ov, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, ov.Overall.TotalGames)
	assert.Equal(t, 4, ov.Overall.TotalPlayers)
}
