package stats

import (
	"errors"
	"sort"

	"github.com/rickwphillips/commander-collector/internal/domain"
)

var ErrSamePlayer = errors.New("head-to-head needs two different players")

type pairKey struct {
	a, b int64 // a < b
}

type pairTally struct {
	aName, bName string
	games        int
	aWins, bWins int
}

func (t *pairTally) record(a, b domain.ResultRow) {
	if t.games == 0 {
		t.aName, t.bName = a.PlayerName, b.PlayerName
	}
	t.games++
	switch {
	case a.FinishPosition < b.FinishPosition:
		t.aWins++
	case b.FinishPosition < a.FinishPosition:
		t.bWins++
	}
}

// HeadToHead tallies every pair of players who shared a game. The player who
// finished better is credited, even when neither won the game. Tallies are
// split per game: two-player games feed TwoPlayer, larger pods feed
// Multiplayer, and a pair with both kinds appears in both lists.
func HeadToHead(rows []domain.ResultRow) domain.HeadToHeadBuckets {
	twoPlayer := make(map[pairKey]*pairTally)
	multiplayer := make(map[pairKey]*pairTally)

	for _, g := range groupGames(rows) {
		bucket := multiplayer
		if g.podSize() == 2 {
			bucket = twoPlayer
		}
		// g.rows is sorted by player id, so i < j gives a < b.
		for i := 0; i < len(g.rows); i++ {
			for j := i + 1; j < len(g.rows); j++ {
				a, b := g.rows[i], g.rows[j]
				if a.PlayerID == b.PlayerID {
					continue
				}
				k := pairKey{a.PlayerID, b.PlayerID}
				t := bucket[k]
				if t == nil {
					t = &pairTally{}
					bucket[k] = t
				}
				t.record(a, b)
			}
		}
	}

	return domain.HeadToHeadBuckets{
		TwoPlayer:   pairRecords(twoPlayer),
		Multiplayer: pairRecords(multiplayer),
	}
}

func pairRecords(pairs map[pairKey]*pairTally) []domain.HeadToHeadRecord {
	records := make([]domain.HeadToHeadRecord, 0, len(pairs))
	for k, t := range pairs {
		records = append(records, domain.HeadToHeadRecord{
			PlayerA:     k.a,
			PlayerAName: t.aName,
			PlayerB:     k.b,
			PlayerBName: t.bName,
			Games:       t.games,
			AWins:       t.aWins,
			BWins:       t.bWins,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Games != records[j].Games {
			return records[i].Games > records[j].Games
		}
		if records[i].PlayerA != records[j].PlayerA {
			return records[i].PlayerA < records[j].PlayerA
		}
		return records[i].PlayerB < records[j].PlayerB
	})
	return records
}

// HeadToHeadPair lists every game the two players shared, most recent first,
// with each side's wins. Players are reported in the order given.
func HeadToHeadPair(rows []domain.ResultRow, playerA, playerB int64) (domain.HeadToHeadDetail, error) {
	if playerA == playerB {
		return domain.HeadToHeadDetail{}, ErrSamePlayer
	}

	detail := domain.HeadToHeadDetail{
		PlayerA: playerA,
		PlayerB: playerB,
		Games:   make([]domain.HeadToHeadGame, 0),
	}
	for _, g := range groupGames(rows) {
		var a, b *domain.ResultRow
		for i := range g.rows {
			switch g.rows[i].PlayerID {
			case playerA:
				a = &g.rows[i]
			case playerB:
				b = &g.rows[i]
			}
		}
		if a == nil || b == nil {
			continue
		}

		hg := domain.HeadToHeadGame{
			GameID:        g.id,
			PlayedAt:      a.PlayedAt,
			GameType:      a.GameType,
			PodSize:       g.podSize(),
			PlayerAFinish: a.FinishPosition,
			PlayerBFinish: b.FinishPosition,
			PlayerAWon:    a.FinishPosition < b.FinishPosition,
			PlayerBWon:    b.FinishPosition < a.FinishPosition,
		}
		if hg.PlayerAWon {
			detail.PlayerAWins++
		}
		if hg.PlayerBWon {
			detail.PlayerBWins++
		}
		detail.Games = append(detail.Games, hg)
	}
	detail.TotalGames = len(detail.Games)
	return detail, nil
}
