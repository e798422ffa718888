package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickwphillips/commander-collector/internal/config"
	"github.com/rickwphillips/commander-collector/internal/domain"
	"github.com/rickwphillips/commander-collector/internal/service"
	"github.com/rickwphillips/commander-collector/internal/stats"
)

type stubSource struct {
	rows []domain.ResultRow
	err  error
}

func (s stubSource) ListResults(ctx context.Context) ([]domain.ResultRow, error) {
	return s.rows, s.err
}

func testRows() []domain.ResultRow {
	at := time.Date(2025, 2, 14, 20, 0, 0, 0, time.UTC)
	return []domain.ResultRow{
		{GameID: 1, PlayerID: 1, DeckID: 10, FinishPosition: 1, PlayedAt: at, GameType: domain.GameTypeStandard, PlayerName: "Alice", DeckName: "Superfriends", Commander: "Atraxa", Colors: "WUBG"},
		{GameID: 1, PlayerID: 2, DeckID: 20, FinishPosition: 2, PlayedAt: at, GameType: domain.GameTypeStandard, PlayerName: "Bram", DeckName: "Goblins", Commander: "Krenko", Colors: "R"},
	}
}

func newTestHandler(src stubSource) http.Handler {
	svc := service.NewStatsService(src, &config.Config{Stats: stats.DefaultOptions()}, zerolog.Nop())
	return NewStatsServer(svc, zerolog.Nop()).Routes()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRoutes_AdvancedStats(t *testing.T) {
	rec := get(t, newTestHandler(stubSource{rows: testRows()}), "/api/advanced-stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	body := decode[map[string]json.RawMessage](t, rec)
	for _, key := range []string{"snapshot_id", "colorMeta", "gameSizeStats", "playerStreaks", "deckStreaks", "twoHgStats"} {
		assert.Contains(t, body, key)
	}

	adv := decode[domain.AdvancedStats](t, rec)
	require.Len(t, adv.PlayerStreaks, 2)
	assert.Equal(t, domain.StreakWin, adv.PlayerStreaks[0].CurrentStreakType)
}

func TestRoutes_HeadToHead(t *testing.T) {
	h := newTestHandler(stubSource{rows: testRows()})

	rec := get(t, h, "/api/head-to-head")
	require.Equal(t, http.StatusOK, rec.Code)
	buckets := decode[domain.HeadToHeadBuckets](t, rec)
	require.Len(t, buckets.TwoPlayer, 1)
	assert.Empty(t, buckets.Multiplayer)

	rec = get(t, h, "/api/head-to-head?player1=2&player2=1")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[domain.HeadToHeadDetail](t, rec)
	assert.Equal(t, int64(2), detail.PlayerA)
	assert.Equal(t, 1, detail.TotalGames)
	assert.Equal(t, 1, detail.PlayerBWins)
}

func TestRoutes_BadRequests(t *testing.T) {
	h := newTestHandler(stubSource{rows: testRows()})

	for _, target := range []string{
		"/api/head-to-head?player1=1&player2=1",
		"/api/head-to-head?player1=1",
		"/api/head-to-head?player1=abc&player2=2",
		"/api/stats?player_id=-4",
		"/api/stats?deck_id=",
	} {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		errBody := decode[ErrorResponse](t, rec)
		assert.Equal(t, http.StatusBadRequest, errBody.Code, target)
		assert.NotEmpty(t, errBody.Message, target)
	}
}

func TestRoutes_Stats(t *testing.T) {
	h := newTestHandler(stubSource{rows: testRows()})

	rec := get(t, h, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	overview := decode[domain.Overview](t, rec)
	assert.Equal(t, 1, overview.Overall.TotalGames)
	require.Len(t, overview.RecentGames, 1)
	assert.Equal(t, "Alice", overview.RecentGames[0].Winners)

	rec = get(t, h, "/api/stats?player_id=2")
	require.Equal(t, http.StatusOK, rec.Code)
	player := decode[domain.PlayerSummary](t, rec)
	assert.Equal(t, "Bram", player.PlayerName)

	rec = get(t, h, "/api/stats?deck_id=10")
	require.Equal(t, http.StatusOK, rec.Code)
	deck := decode[domain.DeckSummary](t, rec)
	assert.Equal(t, 100.0, deck.WinRate)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/stats?player_id=9").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/stats?deck_id=9").Code)
}

func TestRoutes_FeedUnavailable(t *testing.T) {
	h := newTestHandler(stubSource{err: errors.New("database is locked")})

	for _, target := range []string{"/api/advanced-stats", "/api/head-to-head", "/api/stats"} {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
		assert.NotContains(t, rec.Body.String(), "colorMeta", target)
	}
}

func TestRoutes_HealthAndCORS(t *testing.T) {
	h := newTestHandler(stubSource{})

	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Origin", "https://commander.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/nope").Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(stats.ErrSamePlayer))
	assert.Equal(t, http.StatusNotFound, statusFor(service.ErrNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(service.ErrFeedUnavailable))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
