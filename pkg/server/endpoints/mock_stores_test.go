package endpoints

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/monish1402/insurance-llm-system1/pkg/decision"
	"github.com/monish1402/insurance-llm-system1/pkg/model"
	"github.com/monish1402/insurance-llm-system1/pkg/search"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

// MockDocumentsStore implements store.DocumentsStore for testing using testify/mock
type MockDocumentsStore struct {
	mock.Mock
}

func (m *MockDocumentsStore) CreateDocument(doc *model.Document) error {
	args := m.Called(doc)
	return args.Error(0)
}

func (m *MockDocumentsStore) GetDocument(id uuid.UUID) (*model.Document, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentsStore) ListDocuments(filter store.DocumentFilter) ([]model.Document, int64, error) {
	args := m.Called(filter)
	return args.Get(0).([]model.Document), args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentsStore) DeleteDocument(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDocumentsStore) MarkProcessing(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockDocumentsStore) MarkCompleted(id uuid.UUID, content string, metadata model.JSONB) error {
	args := m.Called(id, content, metadata)
	return args.Error(0)
}

func (m *MockDocumentsStore) MarkFailed(id uuid.UUID, errorMessage string) error {
	args := m.Called(id, errorMessage)
	return args.Error(0)
}

// MockChunksStore implements store.ChunksStore for testing using testify/mock
type MockChunksStore struct {
	mock.Mock
}

func (m *MockChunksStore) CreateChunks(chunks []model.DocumentChunk) error {
	args := m.Called(chunks)
	return args.Error(0)
}

func (m *MockChunksStore) ChunksForDocument(documentID uuid.UUID) ([]model.DocumentChunk, error) {
	args := m.Called(documentID)
	return args.Get(0).([]model.DocumentChunk), args.Error(1)
}

func (m *MockChunksStore) ChunksWithEmbeddings(limit int) ([]model.DocumentChunk, error) {
	args := m.Called(limit)
	return args.Get(0).([]model.DocumentChunk), args.Error(1)
}

func (m *MockChunksStore) RecentChunks(limit int) ([]model.DocumentChunk, error) {
	args := m.Called(limit)
	return args.Get(0).([]model.DocumentChunk), args.Error(1)
}

func (m *MockChunksStore) DeleteChunksForDocument(documentID uuid.UUID) error {
	args := m.Called(documentID)
	return args.Error(0)
}

func (m *MockChunksStore) CountChunks() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockQueryLogStore implements store.QueryLogStore for testing using testify/mock
type MockQueryLogStore struct {
	mock.Mock
}

func (m *MockQueryLogStore) CreateQueryLog(entry *model.QueryLog) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockQueryLogStore) GetQueryLog(id uuid.UUID) (*model.QueryLog, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QueryLog), args.Error(1)
}

func (m *MockQueryLogStore) ListQueryLogs(filter store.QueryLogFilter) ([]model.QueryLog, int64, error) {
	args := m.Called(filter)
	return args.Get(0).([]model.QueryLog), args.Get(1).(int64), args.Error(2)
}

// MockSessionsStore implements store.SessionsStore for testing using testify/mock
type MockSessionsStore struct {
	mock.Mock
}

func (m *MockSessionsStore) CreateSession(session *model.UserSession) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockSessionsStore) GetSession(sessionID string) (*model.UserSession, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSession), args.Error(1)
}

func (m *MockSessionsStore) DeleteExpiredSessions() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}

// MockEnqueuer implements server.Enqueuer for testing using testify/mock
type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockSearcher implements server.Searcher for testing using testify/mock
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, queryText string, entities map[string]any, topK int) ([]search.Result, error) {
	args := m.Called(queryText, entities, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]search.Result), args.Error(1)
}

// MockDecider implements server.Decider for testing using testify/mock
type MockDecider struct {
	mock.Mock
}

func (m *MockDecider) Decide(ctx context.Context, queryText string, entities map[string]any, results []search.Result) decision.Result {
	args := m.Called(queryText, entities, results)
	return args.Get(0).(decision.Result)
}
