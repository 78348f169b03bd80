package store

import (
	"errors"

	"github.com/monish1402/insurance-llm-system1/pkg/model"
)

// ErrSessionNotFound is returned when a session doesn't exist
var ErrSessionNotFound = errors.New("session not found")

// SessionsStore abstracts API session operations
type SessionsStore interface {
	// CreateSession persists a new session record.
	CreateSession(session *model.UserSession) error

	// GetSession retrieves a session by its session ID.
	// Returns ErrSessionNotFound if the session doesn't exist or has expired.
	GetSession(sessionID string) (*model.UserSession, error)

	// DeleteExpiredSessions removes sessions past their expiry and returns
	// how many were deleted.
	DeleteExpiredSessions() (int64, error)
}
