package stats

import (
	"time"

	"github.com/rickwphillips/commander-collector/internal/domain"
)

var baseTime = time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

// seat is one participant in a fixture game.
type seat struct {
	player int64
	deck   int64
	finish int
	team   int
}

type fixture struct {
	rows   []domain.ResultRow
	nextID int64
}

func (f *fixture) names(id int64) string {
	return map[int64]string{1: "Alice", 2: "Bram", 3: "Cleo", 4: "Dev", 5: "Esme", 6: "Finn"}[id]
}

// add appends one game played `hours` after baseTime.
func (f *fixture) add(hours int, gameType domain.GameType, seats ...seat) int64 {
	f.nextID++
	id := f.nextID
	for _, s := range seats {
		row := domain.ResultRow{
			GameID:         id,
			PlayerID:       s.player,
			DeckID:         s.deck,
			FinishPosition: s.finish,
			PlayedAt:       baseTime.Add(time.Duration(hours) * time.Hour),
			GameType:       gameType,
			PlayerName:     f.names(s.player),
			Colors:         "WU",
		}
		if s.team != 0 {
			row.TeamNumber = intPtr(s.team)
		}
		if s.finish != 1 {
			row.EliminatedTurn = intPtr(5 + s.finish)
		}
		f.rows = append(f.rows, row)
	}
	return id
}

func (f *fixture) standard(hours int, seats ...seat) int64 {
	return f.add(hours, domain.GameTypeStandard, seats...)
}

// history builds one player's games from a most-recent-first W/L string,
// padding each game with a generic opponent so every game has one winner.
func history(player int64, outcomes string) []domain.ResultRow {
	f := &fixture{}
	n := len(outcomes)
	for i, o := range outcomes {
		hours := n - i // first character is the newest game
		if o == 'W' {
			f.standard(hours, seat{player: player, deck: 10 * player, finish: 1}, seat{player: 99, deck: 990, finish: 2})
		} else {
			f.standard(hours, seat{player: player, deck: 10 * player, finish: 2}, seat{player: 99, deck: 990, finish: 1})
		}
	}
	return f.rows
}

func onlyPlayer(rows []domain.ResultRow, player int64) []domain.ResultRow {
	var out []domain.ResultRow
	for _, r := range rows {
		if r.PlayerID == player {
			out = append(out, r)
		}
	}
	return out
}
