package domain

import (
	"fmt"
	"strings"
	"time"
)

type GameType string

const (
	GameTypeStandard       GameType = "standard"
	GameTypeTwoHeadedGiant GameType = "2hg"
)

// ParseGameType maps a stored or upstream game type to its canonical value.
// Empty means standard; "two_headed_giant" is an alias of "2hg".
func ParseGameType(s string) (GameType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(GameTypeStandard):
		return GameTypeStandard, nil
	case string(GameTypeTwoHeadedGiant), "two_headed_giant":
		return GameTypeTwoHeadedGiant, nil
	default:
		return "", fmt.Errorf("unknown game type %q", s)
	}
}

// ResultRow is one participant's result in one game, joined with the player,
// deck and game it belongs to.
type ResultRow struct {
	GameID         int64
	PlayerID       int64
	DeckID         int64
	FinishPosition int  // 1 = winner
	EliminatedTurn *int // nil for winners
	TeamNumber     *int // 1 or 2, 2HG only
	PlayedAt       time.Time
	GameType       GameType

	PlayerName  string
	DeckName    string
	Commander   string
	Colors      string // "WUBRG" subset, "C" for colorless
	WinningTurn *int
	Notes       string
}

func (r ResultRow) IsWin() bool {
	return r.FinishPosition == 1
}

type StreakType string

const (
	StreakWin  StreakType = "W"
	StreakLoss StreakType = "L"
)

type Trend string

const (
	TrendHot    Trend = "hot"
	TrendCold   Trend = "cold"
	TrendSteady Trend = "steady"
)

type StreakRecord struct {
	SubjectID         int64      `json:"subject_id"`
	CurrentStreak     int        `json:"current_streak"`
	CurrentStreakType StreakType `json:"current_streak_type"`
	LongestWinStreak  int        `json:"longest_win_streak"`
	RecentWins        int        `json:"recent_wins"`
	RecentSampleSize  int        `json:"recent_sample_size"`
	TotalGames        int        `json:"total_games"`
	Wins              int        `json:"wins"`
	OverallWinRate    float64    `json:"overall_win_rate"`
	RecentWinRate     float64    `json:"recent_win_rate"`
	Trend             Trend      `json:"trend"`

	PlayerID   int64  `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
	DeckID     int64  `json:"deck_id,omitempty"`
	DeckName   string `json:"deck_name,omitempty"`
	Commander  string `json:"commander,omitempty"`
	Colors     string `json:"colors,omitempty"`
}

type ColorMetaRecord struct {
	Colors            string  `json:"colors"`
	ColorCount        int     `json:"color_count"`
	DeckCount         int     `json:"deck_count"`
	TotalGames        int     `json:"total_games"`
	Wins              int     `json:"wins"`
	WinRate           float64 `json:"win_rate"`
	AvgFinishPosition float64 `json:"avg_finish_position"`
}

type PlayerPodEntry struct {
	PlayerID          int64   `json:"player_id"`
	PlayerName        string  `json:"player_name"`
	GamesPlayed       int     `json:"games_played"`
	Wins              int     `json:"wins"`
	WinRate           float64 `json:"win_rate"`
	AvgFinishPosition float64 `json:"avg_finish_position"`
}

type PodSizeRecord struct {
	PodSize    int              `json:"pod_size"`
	TotalGames int              `json:"total_games"`
	Entries    []PlayerPodEntry `json:"entries"`
}

type HeadToHeadRecord struct {
	PlayerA     int64  `json:"player_a"`
	PlayerAName string `json:"player_a_name"`
	PlayerB     int64  `json:"player_b"`
	PlayerBName string `json:"player_b_name"`
	Games       int    `json:"games"`
	AWins       int    `json:"a_wins"`
	BWins       int    `json:"b_wins"`
}

type HeadToHeadBuckets struct {
	TwoPlayer   []HeadToHeadRecord `json:"twoPlayer"`
	Multiplayer []HeadToHeadRecord `json:"multiplayer"`
}

type HeadToHeadGame struct {
	GameID        int64     `json:"game_id"`
	PlayedAt      time.Time `json:"played_at"`
	GameType      GameType  `json:"game_type"`
	PodSize       int       `json:"pod_size"`
	PlayerAFinish int       `json:"player_a_finish"`
	PlayerBFinish int       `json:"player_b_finish"`
	PlayerAWon    bool      `json:"player_a_won"`
	PlayerBWon    bool      `json:"player_b_won"`
}

// HeadToHeadDetail is the single-pair view: every shared game plus the totals.
type HeadToHeadDetail struct {
	PlayerA     int64            `json:"player_a"`
	PlayerB     int64            `json:"player_b"`
	TotalGames  int              `json:"total_games"`
	PlayerAWins int              `json:"player_a_wins"`
	PlayerBWins int              `json:"player_b_wins"`
	Games       []HeadToHeadGame `json:"games"`
}

type TeamPairingRecord struct {
	PlayerA     int64   `json:"player_a"`
	PlayerAName string  `json:"player_a_name"`
	PlayerB     int64   `json:"player_b"`
	PlayerBName string  `json:"player_b_name"`
	Games       int     `json:"games"`
	Wins        int     `json:"wins"`
	WinRate     float64 `json:"win_rate"`
}

type PlayerSummary struct {
	PlayerID          int64   `json:"player_id"`
	PlayerName        string  `json:"player_name"`
	TotalGames        int     `json:"total_games"`
	Wins              int     `json:"wins"`
	WinRate           float64 `json:"win_rate"`
	AvgFinishPosition float64 `json:"avg_finish_position"`
}

type DeckSummary struct {
	DeckID            int64   `json:"deck_id"`
	DeckName          string  `json:"deck_name"`
	Commander         string  `json:"commander"`
	Colors            string  `json:"colors"`
	PlayerName        string  `json:"player_name"`
	TotalGames        int     `json:"total_games"`
	Wins              int     `json:"wins"`
	WinRate           float64 `json:"win_rate"`
	AvgFinishPosition float64 `json:"avg_finish_position"`
}

type CommanderSummary struct {
	Commander  string  `json:"commander"`
	TotalGames int     `json:"total_games"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
	DecksUsing int     `json:"decks_using"`
}

// GameSummary names the winners of one game. Multiple winners (2HG) are
// joined with " & ".
type GameSummary struct {
	GameID            int64     `json:"id"`
	PlayedAt          time.Time `json:"played_at"`
	GameType          GameType  `json:"game_type"`
	WinningTurn       *int      `json:"winning_turn"`
	Notes             string    `json:"notes,omitempty"`
	Winners           string    `json:"winners"`
	WinningDecks      string    `json:"winning_decks"`
	WinningCommanders string    `json:"winning_commanders"`
}

type TwoHGStats struct {
	Players      []PlayerSummary     `json:"players"`
	TeamPairings []TeamPairingRecord `json:"teamPairings"`
	RecentGames  []GameSummary       `json:"recentGames"`
}

type AdvancedStats struct {
	SnapshotID    string            `json:"snapshot_id"`
	GeneratedAt   time.Time         `json:"generated_at"`
	ColorMeta     []ColorMetaRecord `json:"colorMeta"`
	GameSizeStats []PodSizeRecord   `json:"gameSizeStats"`
	PlayerStreaks []StreakRecord    `json:"playerStreaks"`
	DeckStreaks   []StreakRecord    `json:"deckStreaks"`
	TwoHGStats    TwoHGStats        `json:"twoHgStats"`
}

type OverallTotals struct {
	TotalGames    int      `json:"total_games"`
	AvgGameLength *float64 `json:"avg_game_length"`
	TotalPlayers  int      `json:"total_players"`
	TotalDecks    int      `json:"total_decks"`
}

type Overview struct {
	Overall       OverallTotals      `json:"overall"`
	TopPlayers    []PlayerSummary    `json:"topPlayers"`
	TopDecks      []DeckSummary      `json:"topDecks"`
	TopCommanders []CommanderSummary `json:"topCommanders"`
	RecentGames   []GameSummary      `json:"recentGames"`
}
