package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/monish1402/insurance-llm-system1/pkg/audit"
	"github.com/monish1402/insurance-llm-system1/pkg/decision"
	"github.com/monish1402/insurance-llm-system1/pkg/identity"
	"github.com/monish1402/insurance-llm-system1/pkg/model"
	"github.com/monish1402/insurance-llm-system1/pkg/query"
	"github.com/monish1402/insurance-llm-system1/pkg/search"
	"github.com/monish1402/insurance-llm-system1/pkg/server"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

// QueryRequest is the body of POST /api/v1/queries/process.
type QueryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// QueryResponse is the evaluation result for a claims query.
type QueryResponse struct {
	QueryID         string          `json:"query_id"`
	Query           string          `json:"query"`
	Entities        map[string]any  `json:"entities"`
	Intent          string          `json:"intent"`
	QueryConfidence float64         `json:"query_confidence"`
	Decision        model.Decision  `json:"decision"`
	Amount          float64         `json:"amount"`
	Confidence      float64         `json:"confidence"`
	Justification   map[string]any  `json:"justification"`
	SearchResults   []search.Result `json:"search_results"`
	ProcessingTime  float64         `json:"processing_time"`
}

// QueryListResponse is a paginated query history listing.
type QueryListResponse struct {
	Queries []model.QueryLog `json:"queries"`
	Total   int64            `json:"total"`
	Skip    int              `json:"skip"`
	Limit   int              `json:"limit"`
}

// RegisterQueriesEndpoints registers the claims query endpoints
func RegisterQueriesEndpoints(s *server.Server) {
	router := s.Router.PathPrefix("/api/v1/queries").Subrouter()
	router.Use(s.JWTMiddleware.Middleware)

	router.HandleFunc("/process", handleProcessQuery(s)).Methods("POST")
	router.HandleFunc("/history", handleListQueries(s.QueryLogStore)).Methods("GET")
	router.HandleFunc("/{id}", handleGetQuery(s.QueryLogStore)).Methods("GET")
}

func handleProcessQuery(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var req QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		defer func() { _ = r.Body.Close() }()

		if req.Query == "" {
			respondWithError(w, http.StatusBadRequest, "query is required")
			return
		}
		topK := req.TopK
		if topK <= 0 {
			topK = s.Config.MaxSearchResults
		}

		id, _ := identity.Get(r.Context())
		userID := "anonymous"
		if id != nil {
			userID = id.UserID
		}

		parsed := query.Parse(req.Query)

		results, err := s.Search.Search(r.Context(), parsed.NormalizedQuery, parsed.Entities, topK)

		var outcome decision.Result
		if err != nil {
			outcome = decision.ErrorResult(err.Error())
		} else {
			outcome = s.Decider.Decide(r.Context(), parsed.OriginalQuery, parsed.Entities, results)
		}

		elapsed := time.Since(start).Seconds()
		amount := outcome.Amount

		logEntry := &model.QueryLog{
			QueryText:       req.Query,
			ParsedEntities:  model.JSONB(parsed.Entities),
			SearchResults:   toJSONBList(results),
			Decision:        outcome.Decision,
			DecisionAmount:  &amount,
			ConfidenceScore: outcome.Confidence,
			ProcessingTime:  elapsed,
			Justification:   outcome.Justification,
		}
		if err := s.QueryLogStore.CreateQueryLog(logEntry); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to record query")
			return
		}

		audit.Log(audit.QueryDecisionEvent{
			UserID:     userID,
			ClientIP:   clientIP(r),
			QueryID:    logEntry.ID.String(),
			Decision:   outcome.Decision.String(),
			Amount:     outcome.Amount,
			Confidence: outcome.Confidence,
			Success:    outcome.Decision != model.DecisionError,
		})

		// The full result set goes to the query log; the response carries
		// only the top hits.
		topResults := results
		if len(topResults) > 5 {
			topResults = topResults[:5]
		}

		respondWithJSON(w, http.StatusOK, QueryResponse{
			QueryID:         logEntry.ID.String(),
			Query:           req.Query,
			Entities:        parsed.Entities,
			Intent:          parsed.Intent,
			QueryConfidence: parsed.Confidence,
			Decision:        outcome.Decision,
			Amount:          outcome.Amount,
			Confidence:      outcome.Confidence,
			Justification:   outcome.Justification,
			SearchResults:   topResults,
			ProcessingTime:  elapsed,
		})
	}
}

func handleListQueries(queryLogs store.QueryLogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.QueryLogFilter{
			Skip:  queryInt(r, "skip", 0),
			Limit: queryInt(r, "limit", 100),
		}
		if val := r.URL.Query().Get("decision"); val != "" {
			decision, err := model.DecisionString(val)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "invalid decision filter: "+val)
				return
			}
			filter.Decision = &decision
		}

		logs, total, err := queryLogs.ListQueryLogs(filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list queries")
			return
		}

		respondWithJSON(w, http.StatusOK, QueryListResponse{
			Queries: logs,
			Total:   total,
			Skip:    filter.Skip,
			Limit:   filter.Limit,
		})
	}
}

func handleGetQuery(queryLogs store.QueryLogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		queryID, err := uuid.Parse(mux.Vars(r)["id"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid query id")
			return
		}

		logEntry, err := queryLogs.GetQueryLog(queryID)
		if err != nil {
			if errors.Is(err, store.ErrQueryNotFound) {
				respondWithError(w, http.StatusNotFound, "query not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to fetch query")
			return
		}

		respondWithJSON(w, http.StatusOK, logEntry)
	}
}

func toJSONBList(results []search.Result) model.JSONBList {
	list := make(model.JSONBList, 0, len(results))
	for _, result := range results {
		data, err := json.Marshal(result)
		if err != nil {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		list = append(list, entry)
	}
	return list
}
