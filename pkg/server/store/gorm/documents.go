package gorm

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monish1402/insurance-llm-system1/pkg/model"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

// Ensure DocumentsStore implements store.DocumentsStore
var _ store.DocumentsStore = (*DocumentsStore)(nil)

// DocumentsStore implements store.DocumentsStore using GORM
type DocumentsStore struct {
	db *gorm.DB
}

// NewDocumentsStore creates a new DocumentsStore
func NewDocumentsStore(db *gorm.DB) *DocumentsStore {
	return &DocumentsStore{db: db}
}

// CreateDocument persists a new document record.
func (s *DocumentsStore) CreateDocument(doc *model.Document) error {
	return s.db.Create(doc).Error
}

// GetDocument retrieves a document by ID.
func (s *DocumentsStore) GetDocument(id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	tx := s.db.Where("id = ?", id).First(&doc)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrDocumentNotFound
		}
		return nil, tx.Error
	}
	return &doc, nil
}

// ListDocuments returns documents matching the filter plus the total count.
func (s *DocumentsStore) ListDocuments(filter store.DocumentFilter) ([]model.Document, int64, error) {
	query := s.db.Model(&model.Document{})
	if filter.DocumentType != "" {
		query = query.Where("document_type = ?", filter.DocumentType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var docs []model.Document
	tx := query.Order("created_at desc").Offset(filter.Skip)
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if err := tx.Find(&docs).Error; err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// DeleteDocument removes a document record. Chunks cascade.
func (s *DocumentsStore) DeleteDocument(id uuid.UUID) error {
	tx := s.db.Where("id = ?", id).Delete(&model.Document{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrDocumentNotFound
	}
	return nil
}

// MarkProcessing transitions a document to the processing status.
func (s *DocumentsStore) MarkProcessing(id uuid.UUID) error {
	return s.updateStatus(id, map[string]interface{}{
		"processing_status": model.StatusProcessing,
		"updated_at":        time.Now(),
	})
}

// MarkCompleted records extracted content and flips the document to completed.
func (s *DocumentsStore) MarkCompleted(id uuid.UUID, content string, metadata model.JSONB) error {
	return s.updateStatus(id, map[string]interface{}{
		"processing_status": model.StatusCompleted,
		"processed":         true,
		"content":           content,
		"metadata":          metadata,
		"error_message":     "",
		"updated_at":        time.Now(),
	})
}

// MarkFailed records the failure reason.
func (s *DocumentsStore) MarkFailed(id uuid.UUID, errorMessage string) error {
	return s.updateStatus(id, map[string]interface{}{
		"processing_status": model.StatusFailed,
		"error_message":     errorMessage,
		"updated_at":        time.Now(),
	})
}

func (s *DocumentsStore) updateStatus(id uuid.UUID, updates map[string]interface{}) error {
	tx := s.db.Model(&model.Document{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrDocumentNotFound
	}
	return nil
}
