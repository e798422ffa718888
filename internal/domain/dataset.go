package domain

import (
	"fmt"
	"time"
)

// Dataset is the import format for seeding the local store: the players,
// decks and recorded games of one group.
type Dataset struct {
	Players []Player `json:"players"`
	Decks   []Deck   `json:"decks"`
	Games   []Game   `json:"games"`
}

type Player struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Deck struct {
	ID        int64  `json:"id"`
	PlayerID  int64  `json:"player_id"`
	Name      string `json:"name"`
	Commander string `json:"commander"`
	Colors    string `json:"colors"`
}

type Game struct {
	ID          int64        `json:"id"`
	PlayedAt    time.Time    `json:"played_at"`
	GameType    GameType     `json:"game_type"`
	WinningTurn *int         `json:"winning_turn"`
	Notes       string       `json:"notes"`
	Results     []GameResult `json:"results"`
}

type GameResult struct {
	PlayerID       int64 `json:"player_id"`
	DeckID         int64 `json:"deck_id"`
	FinishPosition int   `json:"finish_position"`
	EliminatedTurn *int  `json:"eliminated_turn"`
	TeamNumber     *int  `json:"team_number"`
}

// ResultRows flattens the dataset into the joined per-participant rows the
// aggregators consume.
func (d Dataset) ResultRows() []ResultRow {
	players := make(map[int64]Player, len(d.Players))
	for _, p := range d.Players {
		players[p.ID] = p
	}
	decks := make(map[int64]Deck, len(d.Decks))
	for _, dk := range d.Decks {
		decks[dk.ID] = dk
	}

	var rows []ResultRow
	for _, g := range d.Games {
		gameType, _ := ParseGameType(string(g.GameType))
		for _, r := range g.Results {
			deck := decks[r.DeckID]
			rows = append(rows, ResultRow{
				GameID:         g.ID,
				PlayerID:       r.PlayerID,
				DeckID:         r.DeckID,
				FinishPosition: r.FinishPosition,
				EliminatedTurn: r.EliminatedTurn,
				TeamNumber:     r.TeamNumber,
				PlayedAt:       g.PlayedAt,
				GameType:       gameType,
				PlayerName:     players[r.PlayerID].Name,
				DeckName:       deck.Name,
				Commander:      deck.Commander,
				Colors:         deck.Colors,
				WinningTurn:    g.WinningTurn,
				Notes:          g.Notes,
			})
		}
	}
	return rows
}

// Validate checks the references and shapes the store's constraints rely on.
func (d Dataset) Validate() error {
	players := make(map[int64]bool, len(d.Players))
	for _, p := range d.Players {
		if p.ID <= 0 || p.Name == "" {
			return fmt.Errorf("player %d: id and name are required", p.ID)
		}
		players[p.ID] = true
	}
	decks := make(map[int64]bool, len(d.Decks))
	for _, dk := range d.Decks {
		if dk.ID <= 0 || dk.Name == "" {
			return fmt.Errorf("deck %d: id and name are required", dk.ID)
		}
		if !players[dk.PlayerID] {
			return fmt.Errorf("deck %d: unknown player %d", dk.ID, dk.PlayerID)
		}
		decks[dk.ID] = true
	}
	games := make(map[int64]bool, len(d.Games))
	for _, g := range d.Games {
		if g.ID <= 0 || g.PlayedAt.IsZero() {
			return fmt.Errorf("game %d: id and played_at are required", g.ID)
		}
		if games[g.ID] {
			return fmt.Errorf("game %d: listed twice", g.ID)
		}
		games[g.ID] = true
		if _, err := ParseGameType(string(g.GameType)); err != nil {
			return fmt.Errorf("game %d: %w", g.ID, err)
		}
		if len(g.Results) == 0 {
			return fmt.Errorf("game %d: no results", g.ID)
		}
		seen := make(map[int64]bool, len(g.Results))
		for _, r := range g.Results {
			if !players[r.PlayerID] || !decks[r.DeckID] {
				return fmt.Errorf("game %d: unknown player %d or deck %d", g.ID, r.PlayerID, r.DeckID)
			}
			if seen[r.PlayerID] {
				return fmt.Errorf("game %d: player %d listed twice", g.ID, r.PlayerID)
			}
			seen[r.PlayerID] = true
			if r.FinishPosition < 1 {
				return fmt.Errorf("game %d: player %d has finish position %d", g.ID, r.PlayerID, r.FinishPosition)
			}
		}
	}
	return nil
}
