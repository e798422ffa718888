package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rickwphillips/commander-collector/internal/constants"
	"github.com/rickwphillips/commander-collector/internal/domain"
)

const listResultsQuery = `
SELECT
	gr.game_id,
	gr.player_id,
	gr.deck_id,
	gr.finish_position,
	gr.eliminated_turn,
	gr.team_number,
	g.played_at,
	g.game_type,
	g.winning_turn,
	g.notes,
	p.name,
	d.name,
	d.commander,
	d.colors
FROM game_results gr
JOIN games g ON g.id = gr.game_id
JOIN players p ON p.id = gr.player_id
JOIN decks d ON d.id = gr.deck_id
ORDER BY g.played_at DESC, g.id DESC, gr.player_id ASC`

// ResultRepository is the local SQLite result feed.
type ResultRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewResultRepository(sqlDB *sql.DB, logger zerolog.Logger) *ResultRepository {
	return &ResultRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// ListResults returns every recorded result joined with its game, player and
// deck, newest game first.
func (r *ResultRepository) ListResults(ctx context.Context) ([]domain.ResultRow, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, listResultsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.ResultRow, 0)
	for rows.Next() {
		var (
			row            domain.ResultRow
			eliminatedTurn sql.NullInt64
			teamNumber     sql.NullInt64
			winningTurn    sql.NullInt64
			gameType       string
		)
		if err := rows.Scan(
			&row.GameID,
			&row.PlayerID,
			&row.DeckID,
			&row.FinishPosition,
			&eliminatedTurn,
			&teamNumber,
			&row.PlayedAt,
			&gameType,
			&winningTurn,
			&row.Notes,
			&row.PlayerName,
			&row.DeckName,
			&row.Commander,
			&row.Colors,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		row.GameType = domain.GameType(gameType)
		row.EliminatedTurn = nullableInt(eliminatedTurn)
		row.TeamNumber = nullableInt(teamNumber)
		row.WinningTurn = nullableInt(winningTurn)
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	r.logger.Debug().Int("rows", len(results)).Msg("loaded results from database")
	return results, nil
}

// Import upserts a dataset in one transaction. A re-imported game has its
// results replaced, so participants missing from the new list are removed.
// Rows are written as multi-row inserts of up to constants.DBBatchSize rows.
func (r *ResultRepository) Import(ctx context.Context, ds domain.Dataset) error {
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("invalid dataset: %w", err)
	}

	start := time.Now()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertBatches(ctx, tx, batchInsert[domain.Player]{
		head:     "INSERT INTO players (id, name)",
		conflict: "ON CONFLICT(id) DO UPDATE SET name = excluded.name",
		args:     func(p domain.Player) []any { return []any{p.ID, p.Name} },
	}, ds.Players); err != nil {
		return fmt.Errorf("failed to import players: %w", err)
	}

	if err := insertBatches(ctx, tx, batchInsert[domain.Deck]{
		head: "INSERT INTO decks (id, player_id, name, commander, colors)",
		conflict: `ON CONFLICT(id) DO UPDATE SET
			player_id = excluded.player_id,
			name = excluded.name,
			commander = excluded.commander,
			colors = excluded.colors`,
		args: func(d domain.Deck) []any {
			return []any{d.ID, d.PlayerID, d.Name, d.Commander, d.Colors}
		},
	}, ds.Decks); err != nil {
		return fmt.Errorf("failed to import decks: %w", err)
	}

	if err := insertBatches(ctx, tx, batchInsert[domain.Game]{
		head: "INSERT INTO games (id, played_at, game_type, winning_turn, notes)",
		conflict: `ON CONFLICT(id) DO UPDATE SET
			played_at = excluded.played_at,
			game_type = excluded.game_type,
			winning_turn = excluded.winning_turn,
			notes = excluded.notes`,
		args: func(g domain.Game) []any {
			// Validate has already accepted the type.
			gameType, _ := domain.ParseGameType(string(g.GameType))
			return []any{g.ID, g.PlayedAt.UTC(), string(gameType), nullInt(g.WinningTurn), g.Notes}
		},
	}, ds.Games); err != nil {
		return fmt.Errorf("failed to import games: %w", err)
	}

	gameIDs := make([]int64, len(ds.Games))
	for i, g := range ds.Games {
		gameIDs[i] = g.ID
	}
	if err := deleteResults(ctx, tx, gameIDs); err != nil {
		return fmt.Errorf("failed to clear previous results: %w", err)
	}

	type seated struct {
		gameID int64
		domain.GameResult
	}
	var results []seated
	for _, g := range ds.Games {
		for _, res := range g.Results {
			results = append(results, seated{gameID: g.ID, GameResult: res})
		}
	}
	if err := insertBatches(ctx, tx, batchInsert[seated]{
		head: "INSERT INTO game_results (game_id, player_id, deck_id, finish_position, eliminated_turn, team_number)",
		args: func(s seated) []any {
			return []any{s.gameID, s.PlayerID, s.DeckID, s.FinishPosition, nullInt(s.EliminatedTurn), nullInt(s.TeamNumber)}
		},
	}, results); err != nil {
		return fmt.Errorf("failed to import results: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	r.logger.Info().
		Int("players", len(ds.Players)).
		Int("decks", len(ds.Decks)).
		Int("games", len(ds.Games)).
		Int("results", len(results)).
		Dur("duration", time.Since(start)).
		Msg("dataset imported")
	return nil
}

// batchInsert describes a multi-row INSERT: head names the table and
// columns, conflict is an optional trailing ON CONFLICT clause.
type batchInsert[T any] struct {
	head     string
	conflict string
	args     func(T) []any
}

func insertBatches[T any](ctx context.Context, tx *sql.Tx, ins batchInsert[T], items []T) error {
	for i := 0; i < len(items); i += constants.DBBatchSize {
		chunk := items[i:min(i+constants.DBBatchSize, len(items))]

		values := make([]string, 0, len(chunk))
		params := make([]any, 0, len(chunk)*4)
		for _, item := range chunk {
			args := ins.args(item)
			values = append(values, placeholders(len(args)))
			params = append(params, args...)
		}

		query := ins.head + " VALUES " + strings.Join(values, ", ")
		if ins.conflict != "" {
			query += " " + ins.conflict
		}
		if _, err := tx.ExecContext(ctx, query, params...); err != nil {
			return err
		}
	}
	return nil
}

func deleteResults(ctx context.Context, tx *sql.Tx, gameIDs []int64) error {
	for i := 0; i < len(gameIDs); i += constants.DBBatchSize {
		chunk := gameIDs[i:min(i+constants.DBBatchSize, len(gameIDs))]
		params := make([]any, len(chunk))
		for j, id := range chunk {
			params[j] = id
		}
		query := "DELETE FROM game_results WHERE game_id IN " + placeholders(len(chunk))
		if _, err := tx.ExecContext(ctx, query, params...); err != nil {
			return err
		}
	}
	return nil
}

// placeholders returns "(?, ?, ...)" with n parameters.
func placeholders(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
