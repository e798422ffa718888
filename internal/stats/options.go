// Package stats turns a flat history of per-participant game results into
// streaks, meta breakdowns and pairwise records.
//
// Every function here is pure: it reads the rows it is given and returns fresh
// records. Callers may run them concurrently over the same slice.
package stats

// Options tunes the windows and thresholds used by the aggregators.
type Options struct {
	RecentWindow     int     `toml:"recent_window"`       // games in the recent-form window
	TrendMargin      float64 `toml:"trend_margin"`        // percentage points for hot/cold
	MinTrendGames    int     `toml:"min_trend_games"`     // below this a subject is always steady
	RecentTwoHGGames int     `toml:"recent_two_hg_games"` // recent 2HG games to list
	MinRankedGames   int     `toml:"min_ranked_games"`    // games needed to appear in top lists
	TopPlayers       int     `toml:"top_players"`
	TopDecks         int     `toml:"top_decks"`
	TopCommanders    int     `toml:"top_commanders"`
	RecentGames      int     `toml:"recent_games"`
}

func DefaultOptions() Options {
	return Options{
		RecentWindow:     5,
		TrendMargin:      10,
		MinTrendGames:    5,
		RecentTwoHGGames: 10,
		MinRankedGames:   3,
		TopPlayers:       5,
		TopDecks:         5,
		TopCommanders:    10,
		RecentGames:      10,
	}
}

// withDefaults fills zero fields so a partially populated Options still works.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RecentWindow <= 0 {
		o.RecentWindow = d.RecentWindow
	}
	if o.TrendMargin <= 0 {
		o.TrendMargin = d.TrendMargin
	}
	if o.MinTrendGames <= 0 {
		o.MinTrendGames = d.MinTrendGames
	}
	if o.RecentTwoHGGames <= 0 {
		o.RecentTwoHGGames = d.RecentTwoHGGames
	}
	if o.MinRankedGames <= 0 {
		o.MinRankedGames = d.MinRankedGames
	}
	if o.TopPlayers <= 0 {
		o.TopPlayers = d.TopPlayers
	}
	if o.TopDecks <= 0 {
		o.TopDecks = d.TopDecks
	}
	if o.TopCommanders <= 0 {
		o.TopCommanders = d.TopCommanders
	}
	if o.RecentGames <= 0 {
		o.RecentGames = d.RecentGames
	}
	return o
}
