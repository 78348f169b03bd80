package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/monish1402/insurance-llm-system1/pkg/audit"
	"github.com/monish1402/insurance-llm-system1/pkg/config"
	"github.com/monish1402/insurance-llm-system1/pkg/decision"
	"github.com/monish1402/insurance-llm-system1/pkg/model"
	"github.com/monish1402/insurance-llm-system1/pkg/search"
	"github.com/monish1402/insurance-llm-system1/pkg/server"
	"github.com/monish1402/insurance-llm-system1/pkg/server/middleware"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

type testEnv struct {
	srv       *server.Server
	documents *MockDocumentsStore
	chunks    *MockChunksStore
	queryLogs *MockQueryLogStore
	sessions  *MockSessionsStore
	health    *MockHealthStore
	enqueuer  *MockEnqueuer
	searcher  *MockSearcher
	decider   *MockDecider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	audit.SetEnabled(false)
	t.Cleanup(func() { audit.SetEnabled(true) })

	cfg := &config.Config{
		APIHost:                  "127.0.0.1",
		APIPort:                  8000,
		SecretKey:                "test-secret-key",
		AccessTokenExpireMinutes: 30,
		MaxFileSize:              1 << 20,
		AllowedFileTypes:         []string{"pdf", "docx", "txt"},
		UploadDir:                t.TempDir(),
		MaxSearchResults:         10,
	}

	env := &testEnv{
		documents: &MockDocumentsStore{},
		chunks:    &MockChunksStore{},
		queryLogs: &MockQueryLogStore{},
		sessions:  &MockSessionsStore{},
		health:    &MockHealthStore{},
		enqueuer:  &MockEnqueuer{},
		searcher:  &MockSearcher{},
		decider:   &MockDecider{},
	}

	srv := server.NewServer(cfg, nil)
	srv.DocumentsStore = env.documents
	srv.ChunksStore = env.chunks
	srv.QueryLogStore = env.queryLogs
	srv.SessionsStore = env.sessions
	srv.HealthStore = env.health
	srv.Processor = env.enqueuer
	srv.Search = env.searcher
	srv.Decider = env.decider
	srv.JWTMiddleware = middleware.NewJWTAuthenticator(cfg.SecretKey, nil, false)
	RegisterAll(srv)

	env.srv = srv
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(rec, req)
	return rec
}

func TestRootBanner(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest("GET", "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RootResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Insurance Document Processing System", resp.Message)
	assert.Equal(t, "/docs", resp.Docs)
	assert.Equal(t, "/api/v1/health", resp.Health)
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	env.health.On("CheckConnectivity").Return(nil)

	rec := env.do(httptest.NewRequest("GET", "/api/v1/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, ServiceName, resp.Service)
	assert.Equal(t, "connected", resp.Database)
}

func TestHealthDatabaseDown(t *testing.T) {
	env := newTestEnv(t)
	env.health.On("CheckConnectivity").Return(errors.New("connection refused"))

	rec := env.do(httptest.NewRequest("GET", "/api/v1/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "disconnected", resp.Database)
}

func TestDetailedHealth(t *testing.T) {
	env := newTestEnv(t)
	env.health.On("CheckConnectivity").Return(nil)
	env.documents.On("ListDocuments", store.DocumentFilter{Limit: 1}).
		Return([]model.Document{}, int64(4), nil)
	env.chunks.On("CountChunks").Return(int64(42), nil)

	rec := env.do(httptest.NewRequest("GET", "/api/v1/health/detailed", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DetailedHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "connected", resp.Components["database"])
	assert.Equal(t, "disabled", resp.Components["cache"])
	assert.Equal(t, "disabled", resp.Components["llm"])
	assert.Equal(t, int64(4), resp.Documents)
	assert.Equal(t, int64(42), resp.Chunks)
}

func TestDocsPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest("GET", "/docs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Insurance Document Processing API")
	assert.Contains(t, rec.Body.String(), "<table>")
}

func TestCreateSession(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.On("CreateSession", mock.AnythingOfType("*model.UserSession")).Return(nil)

	body := strings.NewReader(`{"user_id": "claims-agent"}`)
	rec := env.do(httptest.NewRequest("POST", "/api/v1/auth/session", body))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 1800, resp.ExpiresIn)
	assert.NotEmpty(t, resp.SessionID)

	claims, err := middleware.ParseToken("test-secret-key", resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "claims-agent", claims.Subject)
	assert.Equal(t, resp.SessionID, claims.SessionID)
}

func TestWhoamiWithToken(t *testing.T) {
	env := newTestEnv(t)
	env.sessions.On("CreateSession", mock.AnythingOfType("*model.UserSession")).Return(nil)

	rec := env.do(httptest.NewRequest("POST", "/api/v1/auth/session", strings.NewReader(`{"user_id": "claims-agent"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var session SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))

	req := httptest.NewRequest("GET", "/api/v1/auth/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	rec = env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp WhoamiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "claims-agent", resp.UserID)
	assert.Equal(t, session.SessionID, resp.SessionID)
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("document_type", "health_policy"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/api/v1/documents/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadDocument(t *testing.T) {
	env := newTestEnv(t)
	env.documents.On("CreateDocument", mock.AnythingOfType("*model.Document")).Return(nil)
	env.enqueuer.On("Enqueue", mock.AnythingOfType("uuid.UUID")).Return(nil)

	rec := env.do(uploadRequest(t, "policy.txt", "Knee surgery is covered."))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var doc model.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "policy.txt", doc.OriginalFilename)
	assert.Equal(t, "txt", doc.FileType)
	assert.Equal(t, "health_policy", doc.DocumentType)
	assert.Equal(t, model.StatusPending, doc.ProcessingStatus)

	env.documents.AssertExpectations(t)
	env.enqueuer.AssertExpectations(t)
}

func TestUploadDocumentRejectsFileType(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(uploadRequest(t, "malware.exe", "nope"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file type not allowed")
	env.documents.AssertNotCalled(t, "CreateDocument", mock.Anything)
}

func TestUploadDocumentQueueFull(t *testing.T) {
	env := newTestEnv(t)
	env.documents.On("CreateDocument", mock.AnythingOfType("*model.Document")).Return(nil)
	env.documents.On("DeleteDocument", mock.AnythingOfType("uuid.UUID")).Return(nil)
	env.enqueuer.On("Enqueue", mock.AnythingOfType("uuid.UUID")).Return(errors.New("queue full"))

	rec := env.do(uploadRequest(t, "policy.txt", "text"))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	env.documents.AssertCalled(t, "DeleteDocument", mock.AnythingOfType("uuid.UUID"))
}

func TestListDocuments(t *testing.T) {
	env := newTestEnv(t)
	env.documents.On("ListDocuments", store.DocumentFilter{Skip: 5, Limit: 2, DocumentType: "health_policy"}).
		Return([]model.Document{{Filename: "a.pdf"}, {Filename: "b.pdf"}}, int64(9), nil)

	rec := env.do(httptest.NewRequest("GET", "/api/v1/documents?skip=5&limit=2&document_type=health_policy", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DocumentListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Documents, 2)
	assert.Equal(t, int64(9), resp.Total)
	assert.Equal(t, 5, resp.Skip)
	assert.Equal(t, 2, resp.Limit)
}

func TestGetDocumentNotFound(t *testing.T) {
	env := newTestEnv(t)
	docID := uuid.New()
	env.documents.On("GetDocument", docID).Return(nil, store.ErrDocumentNotFound)

	rec := env.do(httptest.NewRequest("GET", "/api/v1/documents/"+docID.String(), nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDocumentInvalidID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest("GET", "/api/v1/documents/not-a-uuid", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteDocument(t *testing.T) {
	env := newTestEnv(t)
	docID := uuid.New()
	env.documents.On("GetDocument", docID).Return(&model.Document{ID: docID, FilePath: "/tmp/does-not-exist"}, nil)
	env.chunks.On("DeleteChunksForDocument", docID).Return(nil)
	env.documents.On("DeleteDocument", docID).Return(nil)

	rec := env.do(httptest.NewRequest("DELETE", "/api/v1/documents/"+docID.String(), nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	env.chunks.AssertExpectations(t)
	env.documents.AssertExpectations(t)
}

func TestProcessQuery(t *testing.T) {
	env := newTestEnv(t)

	results := []search.Result{
		{Text: "Knee surgery is covered up to ₹1,50,000.", SectionType: "benefit", SimilarityScore: 0.9},
	}
	env.searcher.On("Search", mock.AnythingOfType("string"), mock.Anything, 10).
		Return(results, nil)
	env.decider.On("Decide", mock.AnythingOfType("string"), mock.Anything, results).
		Return(decision.Result{
			Decision:      model.DecisionApproved,
			Amount:        150000,
			Confidence:    0.85,
			Justification: model.JSONB{"primary_reason": "Coverage applicable under policy terms"},
		})
	env.queryLogs.On("CreateQueryLog", mock.AnythingOfType("*model.QueryLog")).
		Run(func(args mock.Arguments) {
			entry := args.Get(0).(*model.QueryLog)
			entry.ID = uuid.New()
		}).
		Return(nil)

	body := strings.NewReader(`{"query": "46 year old male, knee surgery in Pune, 3 month old policy"}`)
	rec := env.do(httptest.NewRequest("POST", "/api/v1/queries/process", body))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.QueryID)
	assert.Equal(t, model.DecisionApproved, resp.Decision)
	assert.Equal(t, 150000.0, resp.Amount)
	assert.Equal(t, "knee surgery", resp.Entities["procedure"])
	assert.NotEmpty(t, resp.Intent)
	assert.Len(t, resp.SearchResults, 1)
	assert.Greater(t, resp.ProcessingTime, 0.0)
}

func TestProcessQueryRequiresQuery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest("POST", "/api/v1/queries/process", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "query is required")
}

func TestProcessQuerySearchFailureLogsErrorDecision(t *testing.T) {
	env := newTestEnv(t)

	env.searcher.On("Search", mock.AnythingOfType("string"), mock.Anything, 10).
		Return(nil, errors.New("store unavailable"))
	env.queryLogs.On("CreateQueryLog", mock.AnythingOfType("*model.QueryLog")).Return(nil)

	rec := env.do(httptest.NewRequest("POST", "/api/v1/queries/process", strings.NewReader(`{"query": "knee surgery"}`)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.DecisionError, resp.Decision)
	env.decider.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything, mock.Anything)
}

func TestListQueriesInvalidDecision(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest("GET", "/api/v1/queries/history?decision=bogus", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListQueriesWithDecisionFilter(t *testing.T) {
	env := newTestEnv(t)
	approved := model.DecisionApproved
	env.queryLogs.On("ListQueryLogs", store.QueryLogFilter{Limit: 100, Decision: &approved}).
		Return([]model.QueryLog{{QueryText: "knee surgery"}}, int64(1), nil)

	rec := env.do(httptest.NewRequest("GET", "/api/v1/queries/history?decision=approved", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Queries, 1)
	assert.Equal(t, int64(1), resp.Total)
}

func TestGetQueryNotFound(t *testing.T) {
	env := newTestEnv(t)
	queryID := uuid.New()
	env.queryLogs.On("GetQueryLog", queryID).Return(nil, store.ErrQueryNotFound)

	rec := env.do(httptest.NewRequest("GET", "/api/v1/queries/"+queryID.String(), nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}
