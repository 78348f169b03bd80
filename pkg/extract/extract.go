// Package extract turns uploaded policy documents into classified text
// chunks ready for embedding.
package extract

import (
	"fmt"
	"strings"
)

// Chunk is a slice of document text with classification metadata.
type Chunk struct {
	Text            string
	Metadata        map[string]any
	SectionType     string
	PageNumber      int
	ConfidenceScore float64
}

// Extractor converts files into chunks.
type Extractor struct {
	chunkSize    int
	chunkOverlap int
}

// NewExtractor creates an Extractor. chunkSize is the target chunk length in
// characters; chunkOverlap is the carried-over overlap between adjacent
// chunks.
func NewExtractor(chunkSize, chunkOverlap int) *Extractor {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	return &Extractor{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// ExtractFile processes a file according to its type.
func (e *Extractor) ExtractFile(path, fileType string) ([]Chunk, error) {
	switch strings.ToLower(fileType) {
	case "pdf":
		return e.extractPDF(path)
	case "docx":
		return e.extractDOCX(path)
	case "txt":
		return e.extractTXT(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}
}

// FullText joins chunk texts for document-level storage.
func FullText(chunks []Chunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, "\n\n")
}
