package gorm

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monish1402/insurance-llm-system1/pkg/model"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

// Ensure ChunksStore implements store.ChunksStore
var _ store.ChunksStore = (*ChunksStore)(nil)

// ChunksStore implements store.ChunksStore using GORM
type ChunksStore struct {
	db *gorm.DB
}

// NewChunksStore creates a new ChunksStore
func NewChunksStore(db *gorm.DB) *ChunksStore {
	return &ChunksStore{db: db}
}

// CreateChunks persists a batch of chunks for a document.
func (s *ChunksStore) CreateChunks(chunks []model.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	return s.db.Create(&chunks).Error
}

// ChunksForDocument returns all chunks of a document ordered by index.
func (s *ChunksStore) ChunksForDocument(documentID uuid.UUID) ([]model.DocumentChunk, error) {
	var chunks []model.DocumentChunk
	err := s.db.Where("document_id = ?", documentID).Order("chunk_index asc").Find(&chunks).Error
	return chunks, err
}

// ChunksWithEmbeddings returns chunks that carry an embedding.
func (s *ChunksStore) ChunksWithEmbeddings(limit int) ([]model.DocumentChunk, error) {
	var chunks []model.DocumentChunk
	tx := s.db.Where("embedding IS NOT NULL")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err := tx.Find(&chunks).Error
	return chunks, err
}

// RecentChunks returns the most recently created chunks.
func (s *ChunksStore) RecentChunks(limit int) ([]model.DocumentChunk, error) {
	var chunks []model.DocumentChunk
	tx := s.db.Order("created_at desc")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err := tx.Find(&chunks).Error
	return chunks, err
}

// DeleteChunksForDocument removes all chunks of a document.
func (s *ChunksStore) DeleteChunksForDocument(documentID uuid.UUID) error {
	return s.db.Where("document_id = ?", documentID).Delete(&model.DocumentChunk{}).Error
}

// CountChunks returns the total number of stored chunks.
func (s *ChunksStore) CountChunks() (int64, error) {
	var count int64
	err := s.db.Model(&model.DocumentChunk{}).Count(&count).Error
	return count, err
}
