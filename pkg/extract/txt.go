package extract

import (
	"fmt"
	"os"
)

// extractTXT splits a plain text file into size-based chunks.
func (e *Extractor) extractTXT(path string) ([]Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read txt: %w", err)
	}

	parts := e.splitIntoChunks(string(data))
	if len(parts) == 0 {
		return nil, fmt.Errorf("no text could be extracted from %s", path)
	}

	chunks := make([]Chunk, 0, len(parts))
	for i, part := range parts {
		chunks = append(chunks, Chunk{
			Text: part,
			Metadata: map[string]any{
				"chunk_index":   i,
				"document_type": "TXT",
			},
			SectionType: "general",
		})
	}
	return chunks, nil
}
