package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/monish1402/insurance-llm-system1/pkg/model"
)

// ErrDocumentNotFound is returned when a document doesn't exist
var ErrDocumentNotFound = errors.New("document not found")

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	Skip         int
	Limit        int
	DocumentType string
}

// DocumentsStore abstracts document record operations
type DocumentsStore interface {
	// CreateDocument persists a new document record.
	CreateDocument(doc *model.Document) error

	// GetDocument retrieves a document by ID.
	// Returns ErrDocumentNotFound if the document doesn't exist.
	GetDocument(id uuid.UUID) (*model.Document, error)

	// ListDocuments returns documents matching the filter plus the total count.
	ListDocuments(filter DocumentFilter) ([]model.Document, int64, error)

	// DeleteDocument removes a document record. Chunks cascade.
	// Returns ErrDocumentNotFound if the document doesn't exist.
	DeleteDocument(id uuid.UUID) error

	// MarkProcessing transitions a document to the processing status.
	MarkProcessing(id uuid.UUID) error

	// MarkCompleted records extracted content and flips the document to
	// completed.
	MarkCompleted(id uuid.UUID, content string, metadata model.JSONB) error

	// MarkFailed records the failure reason.
	MarkFailed(id uuid.UUID, errorMessage string) error
}
