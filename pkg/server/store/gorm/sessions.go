package gorm

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/monish1402/insurance-llm-system1/pkg/model"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

// Ensure SessionsStore implements store.SessionsStore
var _ store.SessionsStore = (*SessionsStore)(nil)

// SessionsStore implements store.SessionsStore using GORM
type SessionsStore struct {
	db *gorm.DB
}

// NewSessionsStore creates a new SessionsStore
func NewSessionsStore(db *gorm.DB) *SessionsStore {
	return &SessionsStore{db: db}
}

// CreateSession persists a new session record.
func (s *SessionsStore) CreateSession(session *model.UserSession) error {
	return s.db.Create(session).Error
}

// GetSession retrieves a session by its session ID. Expired sessions are
// treated as missing.
func (s *SessionsStore) GetSession(sessionID string) (*model.UserSession, error) {
	var session model.UserSession
	tx := s.db.Where("session_id = ?", sessionID).First(&session)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrSessionNotFound
		}
		return nil, tx.Error
	}
	if session.IsExpired() {
		return nil, store.ErrSessionNotFound
	}
	return &session, nil
}

// DeleteExpiredSessions removes sessions past their expiry.
func (s *SessionsStore) DeleteExpiredSessions() (int64, error) {
	tx := s.db.Where("expires_at < ?", time.Now()).Delete(&model.UserSession{})
	return tx.RowsAffected, tx.Error
}
