package endpoints

import (
	"net/http"
	"os"

	"github.com/monish1402/insurance-llm-system1/pkg/server"
)

// RootResponse is the service banner returned at /.
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
	Health  string `json:"health"`
}

// RegisterRootEndpoint registers the service banner endpoint
func RegisterRootEndpoint(s *server.Server) {
	s.Router.HandleFunc("/", handleRoot()).Methods("GET")
}

func handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("INSURANCE_VERSION_DISPLAY")
		if version == "" {
			version = "1.0.0"
		}

		respondWithJSON(w, http.StatusOK, RootResponse{
			Message: "Insurance Document Processing System",
			Version: version,
			Docs:    "/docs",
			Health:  "/api/v1/health",
		})
	}
}
