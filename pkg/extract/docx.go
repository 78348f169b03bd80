package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// extractDOCX walks the document paragraphs, starting a new chunk at each
// section heading.
func (e *Extractor) extractDOCX(path string) ([]Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var chunks []Chunk
	var currentSection string
	var currentText strings.Builder
	paragraphCount := 0

	flush := func() {
		text := strings.TrimSpace(currentText.String())
		if text == "" {
			return
		}
		chunks = append(chunks, Chunk{
			Text: text,
			Metadata: map[string]any{
				"section_title":   currentSection,
				"document_type":   "DOCX",
				"paragraph_count": paragraphCount,
			},
			SectionType: ClassifySectionType(currentSection),
		})
		currentText.Reset()
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		text := strings.TrimSpace(para.String())
		if text == "" {
			continue
		}
		paragraphCount++

		if IsSectionHeader(text) {
			flush()
			currentSection = text
			continue
		}

		currentText.WriteString(text)
		currentText.WriteString("\n")
	}
	flush()

	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text could be extracted from %s", path)
	}
	return chunks, nil
}
