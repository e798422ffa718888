package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickwphillips/commander-collector/internal/domain"
)

const dataset = `{
  "players": [{"id": 1, "name": "Alice"}, {"id": 2, "name": "Bram"}, {"id": 3, "name": "Cleo"}],
  "decks": [
    {"id": 10, "player_id": 1, "name": "Superfriends", "commander": "Atraxa", "colors": "WUBG"},
    {"id": 20, "player_id": 2, "name": "Goblins", "commander": "Krenko", "colors": "R"},
    {"id": 30, "player_id": 3, "name": "Spells", "commander": "Talrand", "colors": "U"}
  ],
  "games": [
    {"id": 1, "played_at": "2025-01-10T19:00:00Z", "game_type": "standard", "winning_turn": 9,
     "results": [{"player_id": 1, "deck_id": 10, "finish_position": 1},
                 {"player_id": 2, "deck_id": 20, "finish_position": 2, "eliminated_turn": 9},
                 {"player_id": 3, "deck_id": 30, "finish_position": 3, "eliminated_turn": 6}]},
    {"id": 2, "played_at": "2025-01-17T19:00:00Z", "game_type": "standard", "winning_turn": 7,
     "results": [{"player_id": 1, "deck_id": 10, "finish_position": 1},
                 {"player_id": 2, "deck_id": 20, "finish_position": 2, "eliminated_turn": 7}]}
  ]
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setup(t *testing.T) string {
	t.Helper()
	t.Setenv("FEED_URL", "")
	t.Setenv("CONFIG_FILE", "")

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "cli.db")
	dsPath := filepath.Join(dir, "dataset.json")
	require.NoError(t, os.WriteFile(dsPath, []byte(dataset), 0o644))

	out, err := run(t, "import", dsPath, "--db", dbPath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 3 players, 3 decks, 2 games")
	return dbPath
}

func TestStatsctl_Tables(t *testing.T) {
	dbPath := setup(t)

	out, err := run(t, "streaks", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "W2")

	out, err = run(t, "streaks", "--by", "deck", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Superfriends")

	out, err = run(t, "meta", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "WUBG")

	out, err = run(t, "pods", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "2-player pods (1 games)")
	assert.Contains(t, out, "3-player pods (1 games)")

	out, err = run(t, "h2h", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Multiplayer")

	out, err = run(t, "teams", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Team pairings")

	out, err = run(t, "overview", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "8.00 turns")
}

func TestStatsctl_JSON(t *testing.T) {
	dbPath := setup(t)

	out, err := run(t, "h2h", "--player1", "2", "--player2", "1", "--json", "--db", dbPath)
	require.NoError(t, err)

	var detail domain.HeadToHeadDetail
	require.NoError(t, json.Unmarshal([]byte(out), &detail), out)
	assert.Equal(t, 2, detail.TotalGames)
	assert.Equal(t, 0, detail.PlayerAWins)
	assert.Equal(t, 2, detail.PlayerBWins)
	require.Len(t, detail.Games, 2)
	assert.Equal(t, int64(2), detail.Games[0].GameID)
}

func TestStatsctl_Errors(t *testing.T) {
	dbPath := setup(t)

	_, err := run(t, "streaks", "--by", "commander", "--db", dbPath)
	assert.Error(t, err)

	_, err = run(t, "h2h", "--player1", "1", "--db", dbPath)
	assert.Error(t, err)

	_, err = run(t, "h2h", "--player1", "1", "--player2", "1", "--db", dbPath)
	assert.Error(t, err)

	_, err = run(t, "import", filepath.Join(t.TempDir(), "missing.json"), "--db", dbPath)
	assert.Error(t, err)
}
