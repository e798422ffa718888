package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rickwphillips/commander-collector/internal/config"
	"github.com/rickwphillips/commander-collector/internal/constants"
	"github.com/rickwphillips/commander-collector/internal/domain"
	"github.com/rickwphillips/commander-collector/internal/stats"
)

var (
	// ErrFeedUnavailable wraps any failure to read the result feed. No partial
	// aggregate is ever returned alongside it.
	ErrFeedUnavailable = errors.New("result feed unavailable")
	ErrNotFound        = errors.New("not found")
)

// ResultSource is anything that can produce the joined result history.
type ResultSource interface {
	ListResults(ctx context.Context) ([]domain.ResultRow, error)
}

type StatsService struct {
	source ResultSource
	opts   stats.Options
	logger zerolog.Logger
	now    func() time.Time
}

func NewStatsService(source ResultSource, cfg *config.Config, logger zerolog.Logger) *StatsService {
	return &StatsService{
		source: source,
		opts:   cfg.Stats,
		logger: logger.With().Str("component", "stats").Logger(),
		now:    time.Now,
	}
}

func (s *StatsService) load(ctx context.Context) ([]domain.ResultRow, error) {
	start := time.Now()
	rows, err := s.source.ListResults(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read result feed")
		return nil, fmt.Errorf("%w: %v", ErrFeedUnavailable, err)
	}
	s.logger.Debug().Int("rows", len(rows)).Dur("duration", time.Since(start)).Msg("result feed read")
	return rows, nil
}

// Advanced computes every advanced aggregate from one read of the feed. The
// aggregators run concurrently over the same rows.
func (s *StatsService) Advanced(ctx context.Context) (*domain.AdvancedStats, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	snapshotID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate snapshot id: %w", err)
	}

	out := &domain.AdvancedStats{
		SnapshotID:  snapshotID,
		GeneratedAt: s.now().UTC(),
	}

	g, gCtx := errgroup.WithContext(ctx)
	run := func(f func()) {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			f()
			return nil
		})
	}

	run(func() { out.ColorMeta = stats.ColorMeta(rows) })
	run(func() { out.GameSizeStats = stats.PodSizes(rows) })
	run(func() { out.PlayerStreaks = stats.Streaks(rows, stats.ByPlayer, s.opts) })
	run(func() { out.DeckStreaks = stats.Streaks(rows, stats.ByDeck, s.opts) })
	run(func() { out.TwoHGStats = stats.TwoHG(rows, s.opts) })

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute advanced stats: %w", err)
	}

	s.logger.Info().
		Str("snapshot_id", snapshotID).
		Int("rows", len(rows)).
		Int("player_streaks", len(out.PlayerStreaks)).
		Int("deck_streaks", len(out.DeckStreaks)).
		Msg("advanced stats computed")
	return out, nil
}

func (s *StatsService) HeadToHead(ctx context.Context) (*domain.HeadToHeadBuckets, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	buckets := stats.HeadToHead(rows)
	return &buckets, nil
}

// HeadToHeadPair returns the shared history of two players. Asking for the
// same player twice fails with stats.ErrSamePlayer before the feed is read.
func (s *StatsService) HeadToHeadPair(ctx context.Context, playerA, playerB int64) (*domain.HeadToHeadDetail, error) {
	if playerA == playerB {
		return nil, stats.ErrSamePlayer
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	detail, err := stats.HeadToHeadPair(rows, playerA, playerB)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *StatsService) Overview(ctx context.Context) (*domain.Overview, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	overview := stats.Overview(rows, s.opts)
	return &overview, nil
}

func (s *StatsService) PlayerSummary(ctx context.Context, playerID int64) (*domain.PlayerSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	summary, ok := stats.PlayerStats(rows, playerID)
	if !ok {
		return nil, fmt.Errorf("player %d: %w", playerID, ErrNotFound)
	}
	return &summary, nil
}

func (s *StatsService) DeckSummary(ctx context.Context, deckID int64) (*domain.DeckSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	rows, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	summary, ok := stats.DeckStats(rows, deckID)
	if !ok {
		return nil, fmt.Errorf("deck %d: %w", deckID, ErrNotFound)
	}
	return &summary, nil
}
