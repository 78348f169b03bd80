// Package processor runs the background document pipeline: extract text,
// chunk it, embed the chunks and persist the results.
package processor

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/monish1402/insurance-llm-system1/pkg/cache"
	"github.com/monish1402/insurance-llm-system1/pkg/extract"
	"github.com/monish1402/insurance-llm-system1/pkg/model"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

// Embedder produces embeddings for batches of chunk texts.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbeddingModel() string
}

// DefaultQueueSize bounds the number of documents waiting for processing.
const DefaultQueueSize = 64

// ErrQueueFull is returned when the processing queue cannot accept more work.
var ErrQueueFull = fmt.Errorf("processing queue is full")

// Service consumes queued documents and processes them.
type Service struct {
	extractor *extract.Extractor
	embedder  Embedder
	cache     *cache.Cache
	documents store.DocumentsStore
	chunks    store.ChunksStore

	queue   chan uuid.UUID
	workers int
	wg      sync.WaitGroup
}

// NewService creates a processing service. embedder and c may be nil; chunks
// are then stored without embeddings.
func NewService(extractor *extract.Extractor, embedder Embedder, c *cache.Cache, documents store.DocumentsStore, chunks store.ChunksStore, workers int) *Service {
	if workers <= 0 {
		workers = 2
	}
	return &Service{
		extractor: extractor,
		embedder:  embedder,
		cache:     c,
		documents: documents,
		chunks:    chunks,
		queue:     make(chan uuid.UUID, DefaultQueueSize),
		workers:   workers,
	}
}

// Start launches the worker goroutines. They exit when the context is
// cancelled or the queue is closed.
func (s *Service) Start(ctx context.Context) {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case id, ok := <-s.queue:
					if !ok {
						return
					}
					if err := s.Process(ctx, id); err != nil {
						log.Printf("Document %s processing failed: %v", id, err)
					}
				}
			}
		}()
	}
}

// Stop closes the queue and waits for in-flight work to finish.
func (s *Service) Stop() {
	close(s.queue)
	s.wg.Wait()
}

// Enqueue schedules a document for background processing.
func (s *Service) Enqueue(id uuid.UUID) error {
	select {
	case s.queue <- id:
		return nil
	default:
		return ErrQueueFull
	}
}

// Process runs the full pipeline for one document synchronously.
func (s *Service) Process(ctx context.Context, id uuid.UUID) error {
	doc, err := s.documents.GetDocument(id)
	if err != nil {
		return err
	}

	if err := s.documents.MarkProcessing(id); err != nil {
		return err
	}

	chunks, err := s.extractor.ExtractFile(doc.FilePath, doc.FileType)
	if err != nil {
		if markErr := s.documents.MarkFailed(id, err.Error()); markErr != nil {
			return markErr
		}
		return err
	}

	embeddings := s.embedChunks(ctx, chunks)

	// Reprocessing replaces any chunks from a previous run
	if err := s.chunks.DeleteChunksForDocument(id); err != nil {
		return s.fail(id, err)
	}

	records := make([]model.DocumentChunk, len(chunks))
	embedded := 0
	for i, chunk := range chunks {
		metadata := model.JSONB(chunk.Metadata)
		if metadata == nil {
			metadata = model.JSONB{}
		}

		records[i] = model.DocumentChunk{
			DocumentID:      id,
			ChunkIndex:      i,
			ChunkText:       chunk.Text,
			ChunkMetadata:   metadata,
			SectionType:     chunk.SectionType,
			PageNumber:      chunk.PageNumber,
			ConfidenceScore: chunk.ConfidenceScore,
		}
		if i < len(embeddings) && len(embeddings[i]) > 0 {
			records[i].Embedding = model.Vector(embeddings[i])
			embedded++
		}
	}

	if len(records) > 0 {
		if err := s.chunks.CreateChunks(records); err != nil {
			return s.fail(id, err)
		}
	}

	metadata := model.JSONB{
		"total_chunks":    len(records),
		"embedded_chunks": embedded,
		"file_type":       doc.FileType,
	}
	return s.documents.MarkCompleted(id, extract.FullText(chunks), metadata)
}

// embedChunks returns one embedding per chunk, consulting the cache first.
// Embedding failures leave the affected chunks without embeddings; search
// falls back gracefully for those.
func (s *Service) embedChunks(ctx context.Context, chunks []extract.Chunk) [][]float32 {
	if s.embedder == nil || len(chunks) == 0 {
		return nil
	}
	modelName := s.embedder.EmbeddingModel()

	embeddings := make([][]float32, len(chunks))
	var missing []string
	var missingIdx []int
	for i, chunk := range chunks {
		if embedding, ok := s.cache.GetEmbedding(ctx, modelName, chunk.Text); ok {
			embeddings[i] = embedding
			continue
		}
		missing = append(missing, chunk.Text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return embeddings
	}

	batch, err := s.embedder.EmbedBatch(ctx, missing)
	if err != nil {
		log.Printf("Embedding batch of %d chunks failed: %v", len(missing), err)
		return embeddings
	}

	for j, embedding := range batch {
		if j >= len(missingIdx) {
			break
		}
		i := missingIdx[j]
		embeddings[i] = embedding
		s.cache.SetEmbedding(ctx, modelName, missing[j], embedding)
	}
	return embeddings
}

func (s *Service) fail(id uuid.UUID, err error) error {
	if markErr := s.documents.MarkFailed(id, err.Error()); markErr != nil {
		return markErr
	}
	return err
}
