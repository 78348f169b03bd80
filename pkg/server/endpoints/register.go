package endpoints

import (
	"github.com/monish1402/insurance-llm-system1/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterRootEndpoint(srv)
	RegisterHealthEndpoints(srv)
	RegisterDocsEndpoint(srv)
	RegisterAuthEndpoints(srv)
	RegisterDocumentsEndpoints(srv)
	RegisterQueriesEndpoints(srv)
}
