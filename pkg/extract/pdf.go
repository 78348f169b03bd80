package extract

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// extractPDF processes a PDF page by page. Pages that fail to yield text are
// skipped rather than failing the whole document.
func (e *Extractor) extractPDF(path string) ([]Chunk, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var chunks []Chunk
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		cleaned := CleanText(text)
		if cleaned == "" {
			continue
		}

		chunks = append(chunks, e.extractSections(cleaned, pageNum)...)
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text could be extracted from %s", path)
	}
	return chunks, nil
}
