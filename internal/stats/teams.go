package stats

import (
	"sort"

	"github.com/rickwphillips/commander-collector/internal/domain"
)

// TeamPairings tallies every pair of teammates across two-headed-giant games.
// Rows of other game types and rows without a team number are ignored.
func TeamPairings(rows []domain.ResultRow) []domain.TeamPairingRecord {
	pairs := make(map[pairKey]*pairTally)
	for _, g := range groupGames(FilterGameType(rows, domain.GameTypeTwoHeadedGiant)) {
		teams := make(map[int][]domain.ResultRow)
		for _, r := range g.rows {
			if r.TeamNumber == nil {
				continue
			}
			teams[*r.TeamNumber] = append(teams[*r.TeamNumber], r)
		}
		for _, mates := range teams {
			for i := 0; i < len(mates); i++ {
				for j := i + 1; j < len(mates); j++ {
					a, b := mates[i], mates[j]
					if a.PlayerID == b.PlayerID {
						continue
					}
					k := pairKey{a.PlayerID, b.PlayerID}
					t := pairs[k]
					if t == nil {
						t = &pairTally{aName: a.PlayerName, bName: b.PlayerName}
						pairs[k] = t
					}
					t.games++
					// Teammates share a finish position.
					if a.IsWin() {
						t.aWins++
					}
				}
			}
		}
	}

	records := make([]domain.TeamPairingRecord, 0, len(pairs))
	for k, t := range pairs {
		records = append(records, domain.TeamPairingRecord{
			PlayerA:     k.a,
			PlayerAName: t.aName,
			PlayerB:     k.b,
			PlayerBName: t.bName,
			Games:       t.games,
			Wins:        t.aWins,
			WinRate:     WinRate(t.aWins, t.games),
		})
	}
	sort.Slice(records, func(i, j int) bool {
		ri, rj := records[i], records[j]
		if ri.Wins != rj.Wins {
			return ri.Wins > rj.Wins
		}
		if ri.Games != rj.Games {
			return ri.Games > rj.Games
		}
		if ri.PlayerA != rj.PlayerA {
			return ri.PlayerA < rj.PlayerA
		}
		return ri.PlayerB < rj.PlayerB
	})
	return records
}

// TwoHGPlayers is each player's two-headed-giant record regardless of partner,
// sorted by wins then win rate.
func TwoHGPlayers(rows []domain.ResultRow) []domain.PlayerSummary {
	records := playerSummaries(FilterGameType(rows, domain.GameTypeTwoHeadedGiant))
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Wins != records[j].Wins {
			return records[i].Wins > records[j].Wins
		}
		return records[i].WinRate > records[j].WinRate
	})
	return records
}

// RecentTwoHGGames returns the latest limit two-headed-giant games with the
// winning team's names and decks joined for display.
func RecentTwoHGGames(rows []domain.ResultRow, limit int) []domain.GameSummary {
	return recentGames(FilterGameType(rows, domain.GameTypeTwoHeadedGiant), limit)
}

// TwoHG assembles the two-headed-giant section of the advanced stats.
func TwoHG(rows []domain.ResultRow, opts Options) domain.TwoHGStats {
	opts = opts.withDefaults()
	return domain.TwoHGStats{
		Players:      TwoHGPlayers(rows),
		TeamPairings: TeamPairings(rows),
		RecentGames:  RecentTwoHGGames(rows, opts.RecentTwoHGGames),
	}
}

func recentGames(rows []domain.ResultRow, limit int) []domain.GameSummary {
	games := groupGames(rows)
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}
	out := make([]domain.GameSummary, 0, len(games))
	for _, g := range games {
		out = append(out, summarizeGame(g))
	}
	return out
}
