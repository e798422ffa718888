package stats

import (
	"sort"
	"strings"

	"github.com/rickwphillips/commander-collector/internal/domain"
)

const colorSymbols = "WUBRG"

// ColorCount counts the coloured symbols in a colour identity; colorless
// identities count 0.
func ColorCount(colors string) int {
	n := 0
	for _, c := range colors {
		if strings.ContainsRune(colorSymbols, c) {
			n++
		}
	}
	return n
}

// ColorMeta groups deck results by the exact colour identity string. Keys are
// not normalised: "UB" and "BU" are separate groups.
func ColorMeta(rows []domain.ResultRow) []domain.ColorMetaRecord {
	type group struct {
		tally
		decks map[int64]struct{}
	}
	groups := make(map[string]*group)
	for _, r := range rows {
		if r.DeckID == 0 {
			continue
		}
		g := groups[r.Colors]
		if g == nil {
			g = &group{decks: make(map[int64]struct{})}
			groups[r.Colors] = g
		}
		g.add(r)
		g.decks[r.DeckID] = struct{}{}
	}

	records := make([]domain.ColorMetaRecord, 0, len(groups))
	for colors, g := range groups {
		records = append(records, domain.ColorMetaRecord{
			Colors:            colors,
			ColorCount:        ColorCount(colors),
			DeckCount:         len(g.decks),
			TotalGames:        g.games,
			Wins:              g.wins,
			WinRate:           g.winRate(),
			AvgFinishPosition: g.avgFinish(),
		})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].TotalGames != records[j].TotalGames {
			return records[i].TotalGames > records[j].TotalGames
		}
		return records[i].Colors < records[j].Colors
	})
	return records
}

// PodSizes breaks player performance down by the number of participants in
// each game. A player's numbers under one pod size only count games of that
// size.
func PodSizes(rows []domain.ResultRow) []domain.PodSizeRecord {
	type entry struct {
		tally
		name string
	}
	type bucket struct {
		games   int
		players map[int64]*entry
	}

	buckets := make(map[int]*bucket)
	for _, g := range groupGames(rows) {
		size := g.podSize()
		b := buckets[size]
		if b == nil {
			b = &bucket{players: make(map[int64]*entry)}
			buckets[size] = b
		}
		b.games++
		for _, r := range g.rows {
			e := b.players[r.PlayerID]
			if e == nil {
				// groupGames is newest-first, so the first name seen is the latest.
				e = &entry{name: r.PlayerName}
				b.players[r.PlayerID] = e
			}
			e.add(r)
		}
	}

	records := make([]domain.PodSizeRecord, 0, len(buckets))
	for size, b := range buckets {
		entries := make([]domain.PlayerPodEntry, 0, len(b.players))
		for id, e := range b.players {
			entries = append(entries, domain.PlayerPodEntry{
				PlayerID:          id,
				PlayerName:        e.name,
				GamesPlayed:       e.games,
				Wins:              e.wins,
				WinRate:           e.winRate(),
				AvgFinishPosition: e.avgFinish(),
			})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Wins != entries[j].Wins {
				return entries[i].Wins > entries[j].Wins
			}
			return entries[i].PlayerID < entries[j].PlayerID
		})
		records = append(records, domain.PodSizeRecord{
			PodSize:    size,
			TotalGames: b.games,
			Entries:    entries,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].PodSize < records[j].PodSize
	})
	return records
}
