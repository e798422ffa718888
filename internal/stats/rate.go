package stats

import (
	"math"

	"github.com/rickwphillips/commander-collector/internal/domain"
)

// WinRate returns 100*wins/games rounded to one decimal, or 0 when games is 0.
// Every aggregator reports rates through it.
func WinRate(wins, games int) float64 {
	if games == 0 {
		return 0
	}
	return roundTo(float64(wins)*100/float64(games), 1)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// tally accumulates games, wins and finish positions for one group.
type tally struct {
	games     int
	wins      int
	finishSum int
}

func (t *tally) add(r domain.ResultRow) {
	t.games++
	t.finishSum += r.FinishPosition
	if r.IsWin() {
		t.wins++
	}
}

func (t tally) winRate() float64 {
	return WinRate(t.wins, t.games)
}

// avgFinish averages the raw positions and rounds to two decimals.
func (t tally) avgFinish() float64 {
	if t.games == 0 {
		return 0
	}
	return roundTo(float64(t.finishSum)/float64(t.games), 2)
}
