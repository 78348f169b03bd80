package gorm

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monish1402/insurance-llm-system1/pkg/model"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

// Ensure QueryLogStore implements store.QueryLogStore
var _ store.QueryLogStore = (*QueryLogStore)(nil)

// QueryLogStore implements store.QueryLogStore using GORM
type QueryLogStore struct {
	db *gorm.DB
}

// NewQueryLogStore creates a new QueryLogStore
func NewQueryLogStore(db *gorm.DB) *QueryLogStore {
	return &QueryLogStore{db: db}
}

// CreateQueryLog persists a processed query.
func (s *QueryLogStore) CreateQueryLog(entry *model.QueryLog) error {
	return s.db.Create(entry).Error
}

// GetQueryLog retrieves a query log entry by ID.
func (s *QueryLogStore) GetQueryLog(id uuid.UUID) (*model.QueryLog, error) {
	var entry model.QueryLog
	tx := s.db.Where("id = ?", id).First(&entry)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrQueryNotFound
		}
		return nil, tx.Error
	}
	return &entry, nil
}

// ListQueryLogs returns history entries matching the filter, newest first.
func (s *QueryLogStore) ListQueryLogs(filter store.QueryLogFilter) ([]model.QueryLog, int64, error) {
	query := s.db.Model(&model.QueryLog{})
	if filter.Decision != nil {
		query = query.Where("decision = ?", filter.Decision.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.QueryLog
	tx := query.Order("created_at desc").Offset(filter.Skip)
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if err := tx.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
