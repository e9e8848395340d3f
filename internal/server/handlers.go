package server

import (
	"beatmeat/internal/gamedata"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

type pinger interface {
	Ping() error
}

// Server serves diagnostics for a running session.
type Server struct {
	Snapshot func(ctx context.Context) (gamedata.Snapshot, error)
	Gatherer prometheus.Gatherer
	DB       pinger // nil if no database configured
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := "ok"
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			status = "db_error"
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": status, "error": err.Error()})
			return
		}
	}
	fmt.Fprintf(w, `{"status":"%s"}`, status)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Snapshot(r.Context())
	if err != nil {
		log.Printf("[Diag] snapshot failed: %v\n", err)
		http.Error(w, "Session unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		log.Printf("[Diag] encoding state: %v\n", err)
	}
}
