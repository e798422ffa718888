package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rickwphillips/commander-collector/internal/database"
	"github.com/rickwphillips/commander-collector/internal/domain"
	"github.com/rickwphillips/commander-collector/internal/report"
	"github.com/rickwphillips/commander-collector/internal/repository"
)

func newStreaksCmd(opts *rootOptions) *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "streaks",
		Short: "Current and longest win streaks with recent form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if by != "player" && by != "deck" {
				return fmt.Errorf("--by must be player or deck, got %q", by)
			}
			svc, cleanup, err := opts.openService()
			if err != nil {
				return err
			}
			defer cleanup()

			adv, err := svc.Advanced(cmd.Context())
			if err != nil {
				return err
			}
			records := adv.PlayerStreaks
			if by == "deck" {
				records = adv.DeckStreaks
			}
			return opts.render(cmd.OutOrStdout(), records, func(w io.Writer) {
				report.PrintStreaks(w, records, by == "deck")
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "player", "group streaks by player or deck")
	return cmd
}

func newMetaCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "meta",
		Short: "Performance by colour identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.openService()
			if err != nil {
				return err
			}
			defer cleanup()

			adv, err := svc.Advanced(cmd.Context())
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), adv.ColorMeta, func(w io.Writer) {
				report.PrintColorMeta(w, adv.ColorMeta)
			})
		},
	}
}

func newPodsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pods",
		Short: "Player results broken down by pod size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.openService()
			if err != nil {
				return err
			}
			defer cleanup()

			adv, err := svc.Advanced(cmd.Context())
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), adv.GameSizeStats, func(w io.Writer) {
				report.PrintPodSizes(w, adv.GameSizeStats)
			})
		},
	}
}

func newH2HCmd(opts *rootOptions) *cobra.Command {
	var playerA, playerB int64
	cmd := &cobra.Command{
		Use:   "h2h",
		Short: "Head-to-head records, or one pair's shared games",
		Long: `Without flags, list every pair of players who have shared a game,
split into 1v1 and multiplayer records. With --player1 and --player2, show
that pair's shared games, newest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (playerA == 0) != (playerB == 0) {
				return fmt.Errorf("--player1 and --player2 must be given together")
			}
			svc, cleanup, err := opts.openService()
			if err != nil {
				return err
			}
			defer cleanup()

			if playerA == 0 {
				buckets, err := svc.HeadToHead(cmd.Context())
				if err != nil {
					return err
				}
				return opts.render(cmd.OutOrStdout(), buckets, func(w io.Writer) {
					report.PrintHeadToHead(w, *buckets)
				})
			}

			detail, err := svc.HeadToHeadPair(cmd.Context(), playerA, playerB)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), detail, func(w io.Writer) {
				report.PrintHeadToHeadDetail(w, *detail)
			})
		},
	}
	cmd.Flags().Int64Var(&playerA, "player1", 0, "first player id")
	cmd.Flags().Int64Var(&playerB, "player2", 0, "second player id")
	return cmd
}

func newTeamsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "Two-headed giant pairings, players and recent games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.openService()
			if err != nil {
				return err
			}
			defer cleanup()

			adv, err := svc.Advanced(cmd.Context())
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), adv.TwoHGStats, func(w io.Writer) {
				report.PrintTwoHG(w, adv.TwoHGStats)
			})
		},
	}
}

func newOverviewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Totals, leaderboards and recent games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := opts.openService()
			if err != nil {
				return err
			}
			defer cleanup()

			overview, err := svc.Overview(cmd.Context())
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), overview, func(w io.Writer) {
				report.PrintOverview(w, *overview)
			})
		},
	}
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dataset.json>",
		Short: "Load players, decks and games into the local store",
		Long: `Upsert a JSON dataset of the form
  {"players": [...], "decks": [...], "games": [{..., "results": [...]}]}
into the SQLite store in a single transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}
			var ds domain.Dataset
			if err := json.Unmarshal(data, &ds); err != nil {
				return fmt.Errorf("parse dataset: %w", err)
			}

			log := opts.newLogger()
			cfg, err := opts.loadConfig(log)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			db, err := database.New(cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := repository.NewResultRepository(db, log).Import(cmd.Context(), ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d players, %d decks, %d games into %s\n",
				len(ds.Players), len(ds.Decks), len(ds.Games), cfg.DBPath)
			return nil
		},
	}
}
