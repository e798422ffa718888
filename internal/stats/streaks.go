package stats

import (
	"sort"

	"github.com/rickwphillips/commander-collector/internal/domain"
)

// GroupBy selects the subject a streak is computed for.
type GroupBy int

const (
	ByPlayer GroupBy = iota
	ByDeck
)

func (g GroupBy) String() string {
	switch g {
	case ByDeck:
		return "deck"
	default:
		return "player"
	}
}

func (g GroupBy) key(r domain.ResultRow) int64 {
	if g == ByDeck {
		return r.DeckID
	}
	return r.PlayerID
}

// Streaks computes one StreakRecord per distinct subject in rows. Records are
// sorted by longest win streak, descending; ties keep subject id order. Rows
// without a deck are left out of deck streaks.
func Streaks(rows []domain.ResultRow, by GroupBy, opts Options) []domain.StreakRecord {
	opts = opts.withDefaults()

	histories := make(map[int64][]domain.ResultRow)
	for _, r := range sortedNewestFirst(rows) {
		k := by.key(r)
		if by == ByDeck && k == 0 {
			continue
		}
		histories[k] = append(histories[k], r)
	}

	ids := make([]int64, 0, len(histories))
	for id := range histories {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	records := make([]domain.StreakRecord, 0, len(ids))
	for _, id := range ids {
		rec := computeStreak(histories[id], opts)
		rec.SubjectID = id

		latest := histories[id][0]
		rec.PlayerName = latest.PlayerName
		if by == ByDeck {
			rec.DeckID = latest.DeckID
			rec.DeckName = latest.DeckName
			rec.Commander = latest.Commander
			rec.Colors = latest.Colors
		} else {
			rec.PlayerID = latest.PlayerID
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LongestWinStreak > records[j].LongestWinStreak
	})
	return records
}

// computeStreak expects a non-empty history ordered most-recent-first.
func computeStreak(history []domain.ResultRow, opts Options) domain.StreakRecord {
	total := len(history)
	wins := 0
	for _, g := range history {
		if g.IsWin() {
			wins++
		}
	}

	streakType := domain.StreakLoss
	if history[0].IsWin() {
		streakType = domain.StreakWin
	}
	current := 0
	for _, g := range history {
		if g.IsWin() != (streakType == domain.StreakWin) {
			break
		}
		current++
	}

	// Longest run is measured oldest-first.
	longest, run := 0, 0
	for i := total - 1; i >= 0; i-- {
		if !history[i].IsWin() {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}

	sample := min(opts.RecentWindow, total)
	recentWins := 0
	for _, g := range history[:sample] {
		if g.IsWin() {
			recentWins++
		}
	}

	overall := WinRate(wins, total)
	recent := WinRate(recentWins, sample)

	return domain.StreakRecord{
		CurrentStreak:     current,
		CurrentStreakType: streakType,
		LongestWinStreak:  longest,
		RecentWins:        recentWins,
		RecentSampleSize:  sample,
		TotalGames:        total,
		Wins:              wins,
		OverallWinRate:    overall,
		RecentWinRate:     recent,
		Trend:             classifyTrend(total, overall, recent, opts),
	}
}

func classifyTrend(total int, overall, recent float64, opts Options) domain.Trend {
	if total < opts.MinTrendGames {
		return domain.TrendSteady
	}
	switch {
	case recent > overall+opts.TrendMargin:
		return domain.TrendHot
	case recent < overall-opts.TrendMargin:
		return domain.TrendCold
	default:
		return domain.TrendSteady
	}
}
