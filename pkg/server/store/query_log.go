package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/monish1402/insurance-llm-system1/pkg/model"
)

// ErrQueryNotFound is returned when a query log entry doesn't exist
var ErrQueryNotFound = errors.New("query not found")

// QueryLogFilter narrows query history listings.
type QueryLogFilter struct {
	Skip     int
	Limit    int
	Decision *model.Decision
}

// QueryLogStore abstracts query history operations
type QueryLogStore interface {
	// CreateQueryLog persists a processed query.
	CreateQueryLog(entry *model.QueryLog) error

	// GetQueryLog retrieves a query log entry by ID.
	// Returns ErrQueryNotFound if the entry doesn't exist.
	GetQueryLog(id uuid.UUID) (*model.QueryLog, error)

	// ListQueryLogs returns history entries matching the filter, newest
	// first, plus the total count.
	ListQueryLogs(filter QueryLogFilter) ([]model.QueryLog, int64, error)
}
