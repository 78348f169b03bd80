package store

import (
	"github.com/google/uuid"

	"github.com/monish1402/insurance-llm-system1/pkg/model"
)

// ChunksStore abstracts document chunk operations
type ChunksStore interface {
	// CreateChunks persists a batch of chunks for a document.
	CreateChunks(chunks []model.DocumentChunk) error

	// ChunksForDocument returns all chunks of a document ordered by index.
	ChunksForDocument(documentID uuid.UUID) ([]model.DocumentChunk, error)

	// ChunksWithEmbeddings returns chunks that carry an embedding, capped at
	// limit. A limit of 0 means no cap.
	ChunksWithEmbeddings(limit int) ([]model.DocumentChunk, error)

	// RecentChunks returns the most recently created chunks. Used as the
	// search fallback when no embeddings exist yet.
	RecentChunks(limit int) ([]model.DocumentChunk, error)

	// DeleteChunksForDocument removes all chunks of a document.
	DeleteChunksForDocument(documentID uuid.UUID) error

	// CountChunks returns the total number of stored chunks.
	CountChunks() (int64, error)
}
