package gorm

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/monish1402/insurance-llm-system1/pkg/model"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 sqlDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger:                 logger.Default.LogMode(logger.Silent),
			SkipDefaultTransaction: true,
		},
	)
	require.NoError(t, err)

	return db, mock
}

func TestDocumentsStoreGetDocument(t *testing.T) {
	db, mock := newMockDB(t)
	docs := NewDocumentsStore(db)
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "filename", "original_filename", "processing_status"}).
			AddRow(id.String(), "abc123.pdf", "policy.pdf", "completed")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "documents" WHERE id =`)).
			WithArgs(id).
			WillReturnRows(rows)

		doc, err := docs.GetDocument(id)
		require.NoError(t, err)
		assert.Equal(t, "policy.pdf", doc.OriginalFilename)
		assert.Equal(t, model.StatusCompleted, doc.ProcessingStatus)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "documents" WHERE id =`)).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := docs.GetDocument(id)
		assert.ErrorIs(t, err, store.ErrDocumentNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentsStoreDeleteDocumentNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	docs := NewDocumentsStore(db)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "documents" WHERE id =`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := docs.DeleteDocument(id)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentsStoreMarkFailed(t *testing.T) {
	db, mock := newMockDB(t)
	docs := NewDocumentsStore(db)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "documents" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := docs.MarkFailed(id, "extraction failed")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChunksStoreChunksForDocument(t *testing.T) {
	db, mock := newMockDB(t)
	chunks := NewChunksStore(db)
	docID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "document_id", "chunk_index", "chunk_text", "embedding"}).
		AddRow(uuid.New().String(), docID.String(), 0, "Waiting period of 24 months applies.", []byte(`[0.1,0.2]`)).
		AddRow(uuid.New().String(), docID.String(), 1, "Cosmetic surgery is excluded.", nil)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "document_chunks" WHERE document_id =`)).
		WithArgs(docID).
		WillReturnRows(rows)

	result, err := chunks.ChunksForDocument(docID)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, model.Vector{0.1, 0.2}, result[0].Embedding)
	assert.Nil(t, result[1].Embedding)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryLogStoreListFiltersByDecision(t *testing.T) {
	db, mock := newMockDB(t)
	logs := NewQueryLogStore(db)
	decision := model.DecisionApproved

	mock.ExpectQuery(`SELECT count(.+) FROM "query_logs" WHERE decision =`).
		WithArgs("approved").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows([]string{"id", "query_text", "decision"}).
		AddRow(uuid.New().String(), "knee surgery in Pune", "approved")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "query_logs" WHERE decision =`)).
		WithArgs("approved").
		WillReturnRows(rows)

	entries, total, err := logs.ListQueryLogs(store.QueryLogFilter{Limit: 10, Decision: &decision})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, model.DecisionApproved, entries[0].Decision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionsStoreGetSessionExpired(t *testing.T) {
	db, mock := newMockDB(t)
	sessions := NewSessionsStore(db)

	rows := sqlmock.NewRows([]string{"id", "session_id", "expires_at"}).
		AddRow(uuid.New().String(), "abc", time.Now().Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "user_sessions" WHERE session_id =`)).
		WithArgs("abc").
		WillReturnRows(rows)

	_, err := sessions.GetSession("abc")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthStoreCheckConnectivity(t *testing.T) {
	db, mock := newMockDB(t)
	health := NewHealthStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`SELECT 1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, health.CheckConnectivity())
	assert.NoError(t, mock.ExpectationsWereMet())
}
