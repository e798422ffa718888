// Package report renders statistics as plain-text tables for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/rickwphillips/commander-collector/internal/domain"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// PrintStreaks writes one row per subject. Deck streaks also show the deck
// owner and commander.
func PrintStreaks(w io.Writer, records []domain.StreakRecord, byDeck bool) {
	table := newTable(w)
	if byDeck {
		table.Header("DECK", "OWNER", "COMMANDER", "CURRENT", "LONGEST W", "RECENT", "OVERALL", "GAMES", "TREND")
	} else {
		table.Header("PLAYER", "CURRENT", "LONGEST W", "RECENT", "OVERALL", "GAMES", "TREND")
	}

	for _, r := range records {
		current := fmt.Sprintf("%s%d", r.CurrentStreakType, r.CurrentStreak)
		recent := fmt.Sprintf("%d/%d %s", r.RecentWins, r.RecentSampleSize, pct(r.RecentWinRate))
		if byDeck {
			table.Append(
				orDash(r.DeckName),
				orDash(r.PlayerName),
				orDash(r.Commander),
				current,
				strconv.Itoa(r.LongestWinStreak),
				recent,
				pct(r.OverallWinRate),
				strconv.Itoa(r.TotalGames),
				string(r.Trend),
			)
			continue
		}
		table.Append(
			orDash(r.PlayerName),
			current,
			strconv.Itoa(r.LongestWinStreak),
			recent,
			pct(r.OverallWinRate),
			strconv.Itoa(r.TotalGames),
			string(r.Trend),
		)
	}
	table.Render()
}

func PrintColorMeta(w io.Writer, records []domain.ColorMetaRecord) {
	table := newTable(w)
	table.Header("COLORS", "#", "DECKS", "GAMES", "WINS", "WIN%", "AVG FINISH")
	for _, r := range records {
		table.Append(
			r.Colors,
			strconv.Itoa(r.ColorCount),
			strconv.Itoa(r.DeckCount),
			strconv.Itoa(r.TotalGames),
			strconv.Itoa(r.Wins),
			pct(r.WinRate),
			fmt.Sprintf("%.2f", r.AvgFinishPosition),
		)
	}
	table.Render()
}

// PrintPodSizes writes one table per pod size, smallest pods first.
func PrintPodSizes(w io.Writer, records []domain.PodSizeRecord) {
	for _, rec := range records {
		fmt.Fprintf(w, "\n--- %d-player pods (%d games) ---\n\n", rec.PodSize, rec.TotalGames)
		table := newTable(w)
		table.Header("PLAYER", "GAMES", "WINS", "WIN%", "AVG FINISH")
		for _, e := range rec.Entries {
			table.Append(
				e.PlayerName,
				strconv.Itoa(e.GamesPlayed),
				strconv.Itoa(e.Wins),
				pct(e.WinRate),
				fmt.Sprintf("%.2f", e.AvgFinishPosition),
			)
		}
		table.Render()
	}
}

func PrintHeadToHead(w io.Writer, buckets domain.HeadToHeadBuckets) {
	sections := []struct {
		title   string
		records []domain.HeadToHeadRecord
	}{
		{"1v1", buckets.TwoPlayer},
		{"Multiplayer", buckets.Multiplayer},
	}
	for _, s := range sections {
		fmt.Fprintf(w, "\n--- %s ---\n\n", s.title)
		if len(s.records) == 0 {
			fmt.Fprintln(w, "  no shared games")
			continue
		}
		table := newTable(w)
		table.Header("PLAYER A", "PLAYER B", "GAMES", "A WINS", "B WINS")
		for _, r := range s.records {
			table.Append(
				r.PlayerAName,
				r.PlayerBName,
				strconv.Itoa(r.Games),
				strconv.Itoa(r.AWins),
				strconv.Itoa(r.BWins),
			)
		}
		table.Render()
	}
}

func PrintHeadToHeadDetail(w io.Writer, d domain.HeadToHeadDetail) {
	fmt.Fprintf(w, "\nPlayer %d vs player %d: %d shared games, %d–%d\n\n",
		d.PlayerA, d.PlayerB, d.TotalGames, d.PlayerAWins, d.PlayerBWins)
	if len(d.Games) == 0 {
		return
	}

	table := newTable(w)
	table.Header("GAME", "DATE", "TYPE", "POD", "A FINISH", "B FINISH", "EDGE")
	for _, g := range d.Games {
		edge := "="
		switch {
		case g.PlayerAWon:
			edge = "A"
		case g.PlayerBWon:
			edge = "B"
		}
		table.Append(
			strconv.FormatInt(g.GameID, 10),
			g.PlayedAt.Format("2006-01-02"),
			string(g.GameType),
			strconv.Itoa(g.PodSize),
			strconv.Itoa(g.PlayerAFinish),
			strconv.Itoa(g.PlayerBFinish),
			edge,
		)
	}
	table.Render()
}

func PrintTwoHG(w io.Writer, s domain.TwoHGStats) {
	fmt.Fprintf(w, "\n--- Team pairings ---\n\n")
	pairs := newTable(w)
	pairs.Header("PLAYER A", "PLAYER B", "GAMES", "WINS", "WIN%")
	for _, p := range s.TeamPairings {
		pairs.Append(p.PlayerAName, p.PlayerBName, strconv.Itoa(p.Games), strconv.Itoa(p.Wins), pct(p.WinRate))
	}
	pairs.Render()

	fmt.Fprintf(w, "\n--- Players ---\n\n")
	players := newTable(w)
	players.Header("PLAYER", "GAMES", "WINS", "WIN%")
	for _, p := range s.Players {
		players.Append(p.PlayerName, strconv.Itoa(p.TotalGames), strconv.Itoa(p.Wins), pct(p.WinRate))
	}
	players.Render()

	fmt.Fprintf(w, "\n--- Recent games ---\n\n")
	printGames(w, s.RecentGames)
}

func PrintOverview(w io.Writer, o domain.Overview) {
	avg := "-"
	if o.Overall.AvgGameLength != nil {
		avg = fmt.Sprintf("%.2f turns", *o.Overall.AvgGameLength)
	}
	fmt.Fprintf(w, "\n=== Overview ===\n\n")
	fmt.Fprintf(w, "  Games      : %d\n", o.Overall.TotalGames)
	fmt.Fprintf(w, "  Avg length : %s\n", avg)
	fmt.Fprintf(w, "  Players    : %d\n", o.Overall.TotalPlayers)
	fmt.Fprintf(w, "  Decks      : %d\n", o.Overall.TotalDecks)

	fmt.Fprintf(w, "\n--- Top players ---\n\n")
	players := newTable(w)
	players.Header("PLAYER", "GAMES", "WINS", "WIN%", "AVG FINISH")
	for _, p := range o.TopPlayers {
		players.Append(p.PlayerName, strconv.Itoa(p.TotalGames), strconv.Itoa(p.Wins), pct(p.WinRate), fmt.Sprintf("%.2f", p.AvgFinishPosition))
	}
	players.Render()

	fmt.Fprintf(w, "\n--- Top decks ---\n\n")
	decks := newTable(w)
	decks.Header("DECK", "OWNER", "COMMANDER", "GAMES", "WINS", "WIN%")
	for _, d := range o.TopDecks {
		decks.Append(d.DeckName, d.PlayerName, d.Commander, strconv.Itoa(d.TotalGames), strconv.Itoa(d.Wins), pct(d.WinRate))
	}
	decks.Render()

	fmt.Fprintf(w, "\n--- Top commanders ---\n\n")
	commanders := newTable(w)
	commanders.Header("COMMANDER", "DECKS", "GAMES", "WINS", "WIN%")
	for _, c := range o.TopCommanders {
		commanders.Append(c.Commander, strconv.Itoa(c.DecksUsing), strconv.Itoa(c.TotalGames), strconv.Itoa(c.Wins), pct(c.WinRate))
	}
	commanders.Render()

	fmt.Fprintf(w, "\n--- Recent games ---\n\n")
	printGames(w, o.RecentGames)
}

func printGames(w io.Writer, games []domain.GameSummary) {
	table := newTable(w)
	table.Header("GAME", "DATE", "TYPE", "TURN", "WINNERS", "DECKS")
	for _, g := range games {
		turn := "-"
		if g.WinningTurn != nil {
			turn = strconv.Itoa(*g.WinningTurn)
		}
		table.Append(
			strconv.FormatInt(g.GameID, 10),
			g.PlayedAt.Format("2006-01-02"),
			string(g.GameType),
			turn,
			orDash(g.Winners),
			orDash(g.WinningDecks),
		)
	}
	table.Render()
}
