package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rickwphillips/commander-collector/internal/config"
	fxmodules "github.com/rickwphillips/commander-collector/internal/fx"
	"github.com/rickwphillips/commander-collector/internal/logger"
	"github.com/rickwphillips/commander-collector/internal/service"
)

// rootOptions are the persistent flags shared by every subcommand. Flags
// override the matching environment variables.
type rootOptions struct {
	dbPath     string
	feedURL    string
	configFile string
	verbose    bool
	asJSON     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "statsctl",
		Short:         "Commander game statistics from the terminal",
		Long:          "Compute streaks, colour meta, pod-size, head-to-head and two-headed giant statistics from the local store or a remote result feed.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to SQLite database (default $DB_PATH or commander.db)")
	cmd.PersistentFlags().StringVar(&opts.feedURL, "feed-url", "", "read results from a remote feed instead of SQLite")
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "TOML file with a [stats] table")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")
	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of tables")

	cmd.AddCommand(
		newStreaksCmd(opts),
		newMetaCmd(opts),
		newPodsCmd(opts),
		newH2HCmd(opts),
		newTeamsCmd(opts),
		newOverviewCmd(opts),
		newImportCmd(opts),
	)
	return cmd
}

func (o *rootOptions) newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	return logger.NewConsole(os.Stderr, level)
}

func (o *rootOptions) loadConfig(log zerolog.Logger) (*config.Config, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.feedURL != "" {
		cfg.FeedURL = o.feedURL
	}
	if o.configFile != "" {
		statsOpts, err := config.LoadStatsOptions(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg.Stats = statsOpts
	}
	return cfg, nil
}

// openService opens the configured result source. The returned func closes
// it.
func (o *rootOptions) openService() (*service.StatsService, func(), error) {
	log := o.newLogger()
	cfg, err := o.loadConfig(log)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	source, closeFn, err := fxmodules.NewResultSource(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open result source: %w", err)
	}
	cleanup := func() {
		if err := closeFn(); err != nil {
			log.Warn().Err(err).Msg("error closing result source")
		}
	}
	return service.NewStatsService(source, cfg, log), cleanup, nil
}

// render prints v as indented JSON when --json is set, otherwise via table.
func (o *rootOptions) render(w io.Writer, v any, table func(io.Writer)) error {
	if !o.asJSON {
		table(w)
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
