package fx

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/rickwphillips/commander-collector/internal/api"
	"github.com/rickwphillips/commander-collector/internal/config"
	"github.com/rickwphillips/commander-collector/internal/database"
	"github.com/rickwphillips/commander-collector/internal/logger"
	"github.com/rickwphillips/commander-collector/internal/repository"
	"github.com/rickwphillips/commander-collector/internal/server"
	"github.com/rickwphillips/commander-collector/internal/service"
)

func ProvideConfig() (*config.Config, error) {
	return config.Load(logger.New())
}

// NewResultSource picks the remote feed when FEED_URL is set, otherwise the
// local SQLite store. The returned close func releases whatever was opened.
func NewResultSource(cfg *config.Config, log zerolog.Logger) (service.ResultSource, func() error, error) {
	if cfg.FeedURL != "" {
		log.Info().Str("feed_url", cfg.FeedURL).Msg("using remote result feed")
		return api.NewFeedClient(cfg, log), func() error { return nil }, nil
	}

	db, err := database.New(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("db_path", cfg.DBPath).Msg("using local result store")
	return repository.NewResultRepository(db, log), db.Close, nil
}

func ProvideResultSource(lc fx.Lifecycle, cfg *config.Config, log zerolog.Logger) (service.ResultSource, error) {
	source, closeFn, err := NewResultSource(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := closeFn(); err != nil {
				log.Warn().Err(err).Msg("error closing result source")
			}
			return nil
		},
	})
	return source, nil
}

var Module = fx.Options(
	fx.Provide(ProvideConfig),
	fx.Provide(logger.FromConfig),
	// feed
	fx.Provide(ProvideResultSource),
	// svc
	fx.Provide(service.NewStatsService),
	// server
	fx.Provide(server.NewStatsServer),
)
