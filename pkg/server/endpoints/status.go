package endpoints

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/bguard/bguard-suite/pkg/server"
	"github.com/bguard/bguard-suite/pkg/server/store"
)

// StatusResponse represents the response from /status
type StatusResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

// RegisterStatusEndpoints registers the public status and metrics endpoints
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleRoot()).Methods("GET")
	s.Router.HandleFunc("/status", handleStatus(s.HealthStore)).Methods("GET")

	if s.Metrics != nil {
		s.Router.Handle("/metrics", s.Metrics.Handler()).Methods("GET")
	}
}

func version() string {
	if v := os.Getenv("BGUARD_VERSION"); v != "" {
		return v
	}
	return "0.1.0"
}

func handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{
			"name":    "BGuard Suite",
			"version": version(),
		})
	}
}

func handleStatus(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		resp := StatusResponse{Status: "ok", Database: "ok", Version: version()}
		if err := healthStore.CheckConnectivity(ctx); err != nil {
			log.Printf("status: database check failed: %v", err)
			resp.Status = "degraded"
			resp.Database = "unreachable"
			respondWithJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}
