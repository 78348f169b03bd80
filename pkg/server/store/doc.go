// Package store provides storage abstractions for the API server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// This enables easier testing with mocks and potential support for different
// storage backends.
//
// # Available Stores
//
//   - DocumentsStore: uploaded document records and status transitions
//   - ChunksStore: chunk persistence and embedding retrieval
//   - QueryLogStore: query history
//   - SessionsStore: API session records
//   - HealthStore: connectivity probes
//
// # Usage
//
//	docs := gorm.NewDocumentsStore(db)
//	doc, err := docs.GetDocument(id)
//	if err != nil {
//	    if errors.Is(err, store.ErrDocumentNotFound) {
//	        // Handle not found
//	    }
//	}
package store
