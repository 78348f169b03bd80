package endpoints

import (
	"net/http"
	"time"

	"github.com/monish1402/insurance-llm-system1/pkg/server"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

// ServiceName identifies this service in health payloads.
const ServiceName = "insurance-llm-system"

// HealthResponse is the basic health check payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Database  string `json:"database"`
}

// DetailedHealthResponse adds per-component status and corpus counts.
type DetailedHealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Components map[string]string `json:"components"`
	Documents  int64             `json:"documents"`
	Chunks     int64             `json:"chunks"`
}

// RegisterHealthEndpoints registers the health check endpoints
func RegisterHealthEndpoints(s *server.Server) {
	// The container health probe hits the trailing-slash variant too
	s.Router.HandleFunc("/api/v1/health", handleHealth(s.HealthStore)).Methods("GET")
	s.Router.HandleFunc("/api/v1/health/", handleHealth(s.HealthStore)).Methods("GET")
	s.Router.HandleFunc("/api/v1/health/detailed", handleDetailedHealth(s)).Methods("GET")
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Service:   ServiceName,
			Database:  "connected",
		}
		code := http.StatusOK

		if err := healthStore.CheckConnectivity(); err != nil {
			resp.Status = "unhealthy"
			resp.Database = "disconnected"
			code = http.StatusServiceUnavailable
		}

		respondWithJSON(w, code, resp)
	}
}

func handleDetailedHealth(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := DetailedHealthResponse{
			Status:     "healthy",
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
			Components: map[string]string{},
		}
		code := http.StatusOK

		if err := s.HealthStore.CheckConnectivity(); err != nil {
			resp.Components["database"] = "disconnected"
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		} else {
			resp.Components["database"] = "connected"

			if _, total, err := s.DocumentsStore.ListDocuments(store.DocumentFilter{Limit: 1}); err == nil {
				resp.Documents = total
			}
			if count, err := s.ChunksStore.CountChunks(); err == nil {
				resp.Chunks = count
			}
		}

		switch {
		case s.Cache == nil || !s.Cache.Enabled():
			resp.Components["cache"] = "disabled"
		case s.Cache.Ping(r.Context()) != nil:
			resp.Components["cache"] = "disconnected"
			if resp.Status == "healthy" {
				resp.Status = "degraded"
			}
		default:
			resp.Components["cache"] = "connected"
		}

		if s.LLM == nil {
			resp.Components["llm"] = "disabled"
		} else if err := s.LLM.Ping(r.Context()); err != nil {
			resp.Components["llm"] = "unreachable"
			if resp.Status == "healthy" {
				resp.Status = "degraded"
			}
		} else {
			resp.Components["llm"] = "connected"
		}

		respondWithJSON(w, code, resp)
	}
}
