package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/rickwphillips/commander-collector/internal/middleware"
	"github.com/rickwphillips/commander-collector/internal/service"
)

type StatsServer struct {
	statsSvc *service.StatsService
	logger   zerolog.Logger
}

func NewStatsServer(statsSvc *service.StatsService, logger zerolog.Logger) *StatsServer {
	return &StatsServer{statsSvc: statsSvc, logger: logger}
}

// Routes builds the HTTP handler: request ids and logging, panic recovery,
// CORS, then the read-only statistics endpoints.
func (s *StatsServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}).Handler)

	r.Get("/healthz", s.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/advanced-stats", s.AdvancedStats)
		r.Get("/head-to-head", s.HeadToHead)
		r.Get("/stats", s.Stats)
	})
	return r
}

func (s *StatsServer) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *StatsServer) AdvancedStats(w http.ResponseWriter, r *http.Request) {
	out, err := s.statsSvc.Advanced(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// HeadToHead serves the full pair matrix, or one pair's shared history when
// both player1 and player2 are given.
func (s *StatsServer) HeadToHead(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawA, rawB := q.Get("player1"), q.Get("player2")

	if rawA == "" && rawB == "" {
		buckets, err := s.statsSvc.HeadToHead(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, buckets)
		return
	}

	playerA, err := parseID("player1", rawA)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	playerB, err := parseID("player2", rawB)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	detail, err := s.statsSvc.HeadToHeadPair(r.Context(), playerA, playerB)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, detail)
}

// Stats serves the dashboard overview, or a single player (player_id) or
// deck (deck_id) summary. player_id wins when both are given.
func (s *StatsServer) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	switch {
	case q.Has("player_id"):
		id, err := parseID("player_id", q.Get("player_id"))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		summary, err := s.statsSvc.PlayerSummary(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, summary)

	case q.Has("deck_id"):
		id, err := parseID("deck_id", q.Get("deck_id"))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err)
			return
		}
		summary, err := s.statsSvc.DeckSummary(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, summary)

	default:
		overview, err := s.statsSvc.Overview(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, overview)
	}
}

func parseID(name, raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}
