// Package search ranks stored document chunks against a claims query using
// embedding similarity plus keyword, section and entity boosts.
package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/monish1402/insurance-llm-system1/pkg/cache"
	"github.com/monish1402/insurance-llm-system1/pkg/model"
	"github.com/monish1402/insurance-llm-system1/pkg/server/store"
)

// fallbackScore is assigned when no embeddings exist and recency ordering is
// used instead.
const fallbackScore = 0.5

// Embedder produces query embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbeddingModel() string
}

// Result is a ranked search hit.
type Result struct {
	ChunkID          string             `json:"chunk_id"`
	Text             string             `json:"text"`
	SectionType      string             `json:"section_type"`
	Metadata         map[string]any     `json:"metadata"`
	PageNumber       int                `json:"page_number"`
	ConfidenceScore  float64            `json:"confidence_score"`
	Filename         string             `json:"filename"`
	DocumentType     string             `json:"document_type"`
	SimilarityScore  float64            `json:"similarity_score"`
	BoostFactors     map[string]float64 `json:"boost_factors"`
	RelevanceFactors []string           `json:"relevance_factors"`
}

// Service runs hybrid semantic search over stored chunks.
type Service struct {
	embedder  Embedder
	cache     *cache.Cache
	chunks    store.ChunksStore
	documents store.DocumentsStore
	threshold float64
}

// NewService creates a search service. cache may be nil.
func NewService(embedder Embedder, c *cache.Cache, chunks store.ChunksStore, documents store.DocumentsStore, threshold float64) *Service {
	return &Service{
		embedder:  embedder,
		cache:     c,
		chunks:    chunks,
		documents: documents,
		threshold: threshold,
	}
}

// Search returns the topK most relevant chunks for a query. Results below
// the similarity threshold are dropped.
func (s *Service) Search(ctx context.Context, queryText string, entities map[string]any, topK int) ([]Result, error) {
	if topK <= 0 {
		topK = 10
	}

	candidates, err := s.vectorSearch(ctx, queryText, topK*2)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		s.applyBoosts(queryText, entities, &candidates[i])
	}

	return s.rankAndFilter(candidates, entities, topK), nil
}

// QueryEmbedding embeds the query text, consulting the cache first.
func (s *Service) QueryEmbedding(ctx context.Context, queryText string) ([]float32, error) {
	modelName := s.embedder.EmbeddingModel()
	if embedding, ok := s.cache.GetEmbedding(ctx, modelName, queryText); ok {
		return embedding, nil
	}

	embedding, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, err
	}
	s.cache.SetEmbedding(ctx, modelName, queryText, embedding)
	return embedding, nil
}

func (s *Service) vectorSearch(ctx context.Context, queryText string, limit int) ([]Result, error) {
	chunks, err := s.chunks.ChunksWithEmbeddings(0)
	if err != nil {
		return nil, err
	}

	// No embedder means embeddings were disabled at startup; stored vectors
	// from earlier runs cannot be compared against the query
	if len(chunks) == 0 || s.embedder == nil {
		return s.recencySearch(limit)
	}

	queryEmbedding, err := s.QueryEmbedding(ctx, queryText)
	if err != nil {
		// Embedding outage degrades to recency ordering rather than failing
		// the whole query
		return s.recencySearch(limit)
	}

	results := make([]Result, 0, len(chunks))
	for _, chunk := range chunks {
		score := CosineSimilarity(queryEmbedding, chunk.Embedding)
		results = append(results, s.toResult(chunk, score))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *Service) recencySearch(limit int) ([]Result, error) {
	chunks, err := s.chunks.RecentChunks(limit)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(chunks))
	for _, chunk := range chunks {
		results = append(results, s.toResult(chunk, fallbackScore))
	}
	return results, nil
}

func (s *Service) toResult(chunk model.DocumentChunk, score float64) Result {
	result := Result{
		ChunkID:         chunk.ID.String(),
		Text:            chunk.ChunkText,
		SectionType:     chunk.SectionType,
		Metadata:        chunk.ChunkMetadata,
		PageNumber:      chunk.PageNumber,
		ConfidenceScore: chunk.ConfidenceScore,
		SimilarityScore: score,
	}
	if result.Metadata == nil {
		result.Metadata = map[string]any{}
	}

	if s.documents != nil {
		if doc, err := s.documents.GetDocument(chunk.DocumentID); err == nil {
			result.Filename = doc.Filename
			result.DocumentType = doc.DocumentType
		}
	}
	return result
}

func (s *Service) applyBoosts(queryText string, entities map[string]any, result *Result) {
	keywordBoost := keywordBoost(queryText, result.Text)
	sectionBoost := sectionBoost(entities, result.SectionType)
	entityBoost := entityBoost(entities, result.Text)

	boosted := result.SimilarityScore + keywordBoost + sectionBoost + entityBoost
	if boosted > 1.0 {
		boosted = 1.0
	}

	result.SimilarityScore = boosted
	result.BoostFactors = map[string]float64{
		"keyword_boost": keywordBoost,
		"section_boost": sectionBoost,
		"entity_boost":  entityBoost,
	}
}

func keywordBoost(queryText, text string) float64 {
	boost := 0.0
	words := strings.Fields(strings.ToLower(queryText))
	textLower := strings.ToLower(text)

	for _, word := range words {
		if strings.Contains(textLower, word) {
			boost += 0.02
		}
	}

	for i := 0; i+1 < len(words); i++ {
		bigram := words[i] + " " + words[i+1]
		if strings.Contains(textLower, bigram) {
			boost += 0.05
		}
	}

	return math.Min(boost, 0.2)
}

// entitySectionMapping maps entity types to the section types they make
// relevant.
var entitySectionMapping = map[string][]string{
	"procedure":       {"benefit", "coverage", "condition"},
	"amount":          {"benefit", "financial", "limitation"},
	"policy_duration": {"limitation", "condition"},
}

func sectionBoost(entities map[string]any, sectionType string) float64 {
	boost := 0.0

	for entityType := range entities {
		for _, relevant := range entitySectionMapping[entityType] {
			if sectionType == relevant {
				boost += 0.1
				break
			}
		}
	}

	switch sectionType {
	case "exclusion":
		boost += 0.05
	case "benefit":
		boost += 0.1
	}

	return math.Min(boost, 0.3)
}

func entityBoost(entities map[string]any, text string) float64 {
	boost := 0.0
	textLower := strings.ToLower(text)

	if procedure, ok := entities["procedure"].(string); ok && procedure != "" {
		if strings.Contains(textLower, strings.ToLower(procedure)) {
			boost += 0.15
		}
	}
	if location, ok := entities["location"].(string); ok && location != "" {
		if strings.Contains(textLower, strings.ToLower(location)) {
			boost += 0.05
		}
	}
	if age, ok := entities["age"]; ok {
		if strings.Contains(textLower, fmt.Sprint(age)) {
			boost += 0.1
		}
	}

	return math.Min(boost, 0.25)
}

func (s *Service) rankAndFilter(results []Result, entities map[string]any, topK int) []Result {
	filtered := results[:0]
	for _, r := range results {
		if r.SimilarityScore >= s.threshold {
			filtered = append(filtered, r)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].SimilarityScore > filtered[j].SimilarityScore
	})

	for i := range filtered {
		filtered[i].RelevanceFactors = explainRelevance(filtered[i], entities)
	}

	if len(filtered) > topK {
		filtered = filtered[:topK]
	}
	return filtered
}

func explainRelevance(result Result, entities map[string]any) []string {
	var factors []string

	if result.SimilarityScore > 0.8 {
		factors = append(factors, "High semantic similarity")
	} else if result.SimilarityScore > 0.6 {
		factors = append(factors, "Good semantic similarity")
	}

	textLower := strings.ToLower(result.Text)
	for entityType, value := range entities {
		text := entityText(value)
		if text != "" && strings.Contains(textLower, strings.ToLower(text)) {
			factors = append(factors, fmt.Sprintf("Contains %s: %s", entityType, text))
		}
	}

	switch result.SectionType {
	case "benefit", "coverage":
		factors = append(factors, "Relevant policy section")
	case "exclusion":
		factors = append(factors, "Important exclusion clause")
	}

	if result.BoostFactors["keyword_boost"] > 0.05 {
		factors = append(factors, "Strong keyword match")
	}

	return factors
}

func entityText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return fmt.Sprint(v)
	case float64:
		return fmt.Sprint(v)
	default:
		return ""
	}
}

// CosineSimilarity computes the cosine of the angle between two embeddings.
// Mismatched or zero vectors score zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
