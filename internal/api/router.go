package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/signalbot/internal/middleware"
)

// SessionStatus reports the transport side of the bot
type SessionStatus interface {
	TransportName() string
	Connected() bool
}

// UserCounter reports the number of registered users
type UserCounter interface {
	Count() int
}

// PuzzleIndexer reports today's Wordle number
type PuzzleIndexer interface {
	PuzzleIndex() int
}

// RouterConfig holds configuration for the health router
type RouterConfig struct {
	Logger   *slog.Logger
	Session  SessionStatus
	Registry UserCounter
	Wordle   PuzzleIndexer
}

// Health is the body of GET /health
type Health struct {
	Status    string `json:"status"`
	Transport string `json:"transport"`
	Connected bool   `json:"connected"`
	Users     int    `json:"users"`
	Puzzle    int    `json:"puzzle"`
}

// NewRouter creates the health router
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	r.HandleFunc("/health", healthHandler(cfg)).Methods(http.MethodGet)

	return r
}

func healthHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		body := Health{
			Status:    "ok",
			Transport: cfg.Session.TransportName(),
			Connected: cfg.Session.Connected(),
			Users:     cfg.Registry.Count(),
			Puzzle:    cfg.Wordle.PuzzleIndex(),
		}

		status := http.StatusOK
		if !body.Connected {
			body.Status = "connecting"
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
