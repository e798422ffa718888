package stats

import (
	"sort"

	"github.com/rickwphillips/commander-collector/internal/domain"
)

// playerSummaries returns one summary per player, ordered by player id.
func playerSummaries(rows []domain.ResultRow) []domain.PlayerSummary {
	type acc struct {
		tally
		name string
	}
	players := make(map[int64]*acc)
	for _, r := range sortedNewestFirst(rows) {
		a := players[r.PlayerID]
		if a == nil {
			a = &acc{name: r.PlayerName}
			players[r.PlayerID] = a
		}
		a.add(r)
	}

	out := make([]domain.PlayerSummary, 0, len(players))
	for id, a := range players {
		out = append(out, domain.PlayerSummary{
			PlayerID:          id,
			PlayerName:        a.name,
			TotalGames:        a.games,
			Wins:              a.wins,
			WinRate:           a.winRate(),
			AvgFinishPosition: a.avgFinish(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}

// deckSummaries returns one summary per deck, ordered by deck id.
func deckSummaries(rows []domain.ResultRow) []domain.DeckSummary {
	type acc struct {
		tally
		latest domain.ResultRow
	}
	decks := make(map[int64]*acc)
	for _, r := range sortedNewestFirst(rows) {
		if r.DeckID == 0 {
			continue
		}
		a := decks[r.DeckID]
		if a == nil {
			a = &acc{latest: r}
			decks[r.DeckID] = a
		}
		a.add(r)
	}

	out := make([]domain.DeckSummary, 0, len(decks))
	for id, a := range decks {
		out = append(out, domain.DeckSummary{
			DeckID:            id,
			DeckName:          a.latest.DeckName,
			Commander:         a.latest.Commander,
			Colors:            a.latest.Colors,
			PlayerName:        a.latest.PlayerName,
			TotalGames:        a.games,
			Wins:              a.wins,
			WinRate:           a.winRate(),
			AvgFinishPosition: a.avgFinish(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeckID < out[j].DeckID })
	return out
}

func commanderSummaries(rows []domain.ResultRow) []domain.CommanderSummary {
	type acc struct {
		tally
		decks map[int64]struct{}
	}
	commanders := make(map[string]*acc)
	for _, r := range rows {
		if r.DeckID == 0 || r.Commander == "" {
			continue
		}
		a := commanders[r.Commander]
		if a == nil {
			a = &acc{decks: make(map[int64]struct{})}
			commanders[r.Commander] = a
		}
		a.add(r)
		a.decks[r.DeckID] = struct{}{}
	}

	out := make([]domain.CommanderSummary, 0, len(commanders))
	for name, a := range commanders {
		out = append(out, domain.CommanderSummary{
			Commander:  name,
			TotalGames: a.games,
			Wins:       a.wins,
			WinRate:    a.winRate(),
			DecksUsing: len(a.decks),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Commander < out[j].Commander })
	return out
}

// PlayerStats summarises one player. ok is false when the player has no rows.
func PlayerStats(rows []domain.ResultRow, playerID int64) (summary domain.PlayerSummary, ok bool) {
	for _, s := range playerSummaries(rows) {
		if s.PlayerID == playerID {
			return s, true
		}
	}
	return domain.PlayerSummary{}, false
}

// DeckStats summarises one deck. ok is false when the deck has no rows.
func DeckStats(rows []domain.ResultRow, deckID int64) (summary domain.DeckSummary, ok bool) {
	for _, s := range deckSummaries(rows) {
		if s.DeckID == deckID {
			return s, true
		}
	}
	return domain.DeckSummary{}, false
}

// Overview builds the dashboard summary: totals, the best players, decks and
// commanders with at least MinRankedGames games, and the latest games.
func Overview(rows []domain.ResultRow, opts Options) domain.Overview {
	opts = opts.withDefaults()

	games := groupGames(rows)
	var turnSum, turnGames int
	for _, g := range games {
		if wt := g.head().WinningTurn; wt != nil {
			turnSum += *wt
			turnGames++
		}
	}
	var avgLength *float64
	if turnGames > 0 {
		v := roundTo(float64(turnSum)/float64(turnGames), 2)
		avgLength = &v
	}

	players := playerSummaries(rows)
	decks := deckSummaries(rows)

	topPlayers := make([]domain.PlayerSummary, 0)
	for _, p := range players {
		if p.TotalGames >= opts.MinRankedGames {
			topPlayers = append(topPlayers, p)
		}
	}
	sort.SliceStable(topPlayers, func(i, j int) bool {
		return rankedBefore(topPlayers[i].WinRate, topPlayers[i].Wins, topPlayers[j].WinRate, topPlayers[j].Wins)
	})

	topDecks := make([]domain.DeckSummary, 0)
	for _, d := range decks {
		if d.TotalGames >= opts.MinRankedGames {
			topDecks = append(topDecks, d)
		}
	}
	sort.SliceStable(topDecks, func(i, j int) bool {
		return rankedBefore(topDecks[i].WinRate, topDecks[i].Wins, topDecks[j].WinRate, topDecks[j].Wins)
	})

	topCommanders := make([]domain.CommanderSummary, 0)
	for _, c := range commanderSummaries(rows) {
		if c.TotalGames >= opts.MinRankedGames {
			topCommanders = append(topCommanders, c)
		}
	}
	sort.SliceStable(topCommanders, func(i, j int) bool {
		return rankedBefore(topCommanders[i].WinRate, topCommanders[i].Wins, topCommanders[j].WinRate, topCommanders[j].Wins)
	})

	return domain.Overview{
		Overall: domain.OverallTotals{
			TotalGames:    len(games),
			AvgGameLength: avgLength,
			TotalPlayers:  len(players),
			TotalDecks:    len(decks),
		},
		TopPlayers:    limit(topPlayers, opts.TopPlayers),
		TopDecks:      limit(topDecks, opts.TopDecks),
		TopCommanders: limit(topCommanders, opts.TopCommanders),
		RecentGames:   recentGames(rows, opts.RecentGames),
	}
}

func rankedBefore(rateA float64, winsA int, rateB float64, winsB int) bool {
	if rateA != rateB {
		return rateA > rateB
	}
	return winsA > winsB
}

func limit[T any](list []T, n int) []T {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}
