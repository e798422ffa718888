package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/rickwphillips/commander-collector/internal/domain"
)

type ResultsResponse struct {
	Results []FeedRow `json:"results"`
}

// FeedRow is one participant result as the upstream tracker serialises it.
// Timestamps arrive either as RFC 3339 or as SQL DATETIME text.
type FeedRow struct {
	GameID         int64  `json:"game_id"`
	PlayerID       int64  `json:"player_id"`
	DeckID         *int64 `json:"deck_id"`
	FinishPosition int    `json:"finish_position"`
	EliminatedTurn *int   `json:"eliminated_turn"`
	TeamNumber     *int   `json:"team_number"`
	PlayedAt       string `json:"played_at"`
	GameType       string `json:"game_type"`
	PlayerName     string `json:"player_name"`
	DeckName       string `json:"deck_name"`
	Commander      string `json:"commander"`
	Colors         string `json:"colors"`
	WinningTurn    *int   `json:"winning_turn"`
	Notes          string `json:"notes"`
}

var playedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parsePlayedAt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range playedAtLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised played_at %q", s)
}

func (f FeedRow) toDomain() (domain.ResultRow, error) {
	if f.GameID <= 0 || f.PlayerID <= 0 {
		return domain.ResultRow{}, fmt.Errorf("game_id and player_id are required")
	}
	if f.FinishPosition < 1 {
		return domain.ResultRow{}, fmt.Errorf("game %d player %d: finish_position %d", f.GameID, f.PlayerID, f.FinishPosition)
	}
	playedAt, err := parsePlayedAt(f.PlayedAt)
	if err != nil {
		return domain.ResultRow{}, err
	}

	gameType, err := domain.ParseGameType(f.GameType)
	if err != nil {
		return domain.ResultRow{}, fmt.Errorf("game %d: %w", f.GameID, err)
	}

	row := domain.ResultRow{
		GameID:         f.GameID,
		PlayerID:       f.PlayerID,
		FinishPosition: f.FinishPosition,
		EliminatedTurn: f.EliminatedTurn,
		TeamNumber:     f.TeamNumber,
		PlayedAt:       playedAt,
		GameType:       gameType,
		PlayerName:     f.PlayerName,
		DeckName:       f.DeckName,
		Commander:      f.Commander,
		Colors:         f.Colors,
		WinningTurn:    f.WinningTurn,
		Notes:          f.Notes,
	}
	if f.DeckID != nil {
		row.DeckID = *f.DeckID
	}
	return row, nil
}
