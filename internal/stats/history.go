package stats

import (
	"sort"
	"strings"

	"github.com/rickwphillips/commander-collector/internal/domain"
)

// newerFirst orders rows most-recent-first; the game id breaks timestamp ties.
func newerFirst(a, b domain.ResultRow) bool {
	if !a.PlayedAt.Equal(b.PlayedAt) {
		return a.PlayedAt.After(b.PlayedAt)
	}
	return a.GameID > b.GameID
}

// sortedNewestFirst returns a copy of rows ordered by newerFirst.
func sortedNewestFirst(rows []domain.ResultRow) []domain.ResultRow {
	out := make([]domain.ResultRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return newerFirst(out[i], out[j])
	})
	return out
}

// FilterGameType keeps the rows of one game type.
func FilterGameType(rows []domain.ResultRow, gameType domain.GameType) []domain.ResultRow {
	out := make([]domain.ResultRow, 0, len(rows))
	for _, r := range rows {
		if r.GameType == gameType {
			out = append(out, r)
		}
	}
	return out
}

// game is every participant row of one game id.
type game struct {
	id   int64
	rows []domain.ResultRow // ordered by player id
}

func (g game) head() domain.ResultRow {
	return g.rows[0]
}

func (g game) podSize() int {
	return len(g.rows)
}

// groupGames collects rows per game, ordered most-recent-first.
func groupGames(rows []domain.ResultRow) []game {
	idx := make(map[int64]int)
	var games []game
	for _, r := range rows {
		i, ok := idx[r.GameID]
		if !ok {
			i = len(games)
			idx[r.GameID] = i
			games = append(games, game{id: r.GameID})
		}
		games[i].rows = append(games[i].rows, r)
	}
	for i := range games {
		rs := games[i].rows
		sort.SliceStable(rs, func(a, b int) bool {
			return rs[a].PlayerID < rs[b].PlayerID
		})
	}
	sort.SliceStable(games, func(i, j int) bool {
		return newerFirst(games[i].head(), games[j].head())
	})
	return games
}

// summarizeGame joins the distinct winner names, decks and commanders of a
// game in name order.
func summarizeGame(g game) domain.GameSummary {
	var players, decks, commanders []string
	for _, r := range g.rows {
		if !r.IsWin() {
			continue
		}
		players = appendUnique(players, r.PlayerName)
		decks = appendUnique(decks, r.DeckName)
		commanders = appendUnique(commanders, r.Commander)
	}
	head := g.head()
	return domain.GameSummary{
		GameID:            g.id,
		PlayedAt:          head.PlayedAt,
		GameType:          head.GameType,
		WinningTurn:       head.WinningTurn,
		Notes:             head.Notes,
		Winners:           joinSorted(players),
		WinningDecks:      joinSorted(decks),
		WinningCommanders: joinSorted(commanders),
	}
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func joinSorted(list []string) string {
	sort.Strings(list)
	return strings.Join(list, " & ")
}
