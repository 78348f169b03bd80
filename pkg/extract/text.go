package extract

import (
	"regexp"
	"strings"
)

var (
	spaceRe   = regexp.MustCompile(`[ \t]+`)
	newlineRe = regexp.MustCompile(`\n+`)

	headerRes = []*regexp.Regexp{
		regexp.MustCompile(`^\d+\.?\s*[A-Z]`),  // numbered sections
		regexp.MustCompile(`^[A-Z][^.]*:$`),    // capitalized headers ending with colon
		regexp.MustCompile(`^SECTION\s+[A-Z]`), // section headers
		regexp.MustCompile(`^PART\s+[A-Z]`),    // part headers
		regexp.MustCompile(`^ARTICLE\s+[A-Z]`), // article headers
	}

	keywordHeaderRe = regexp.MustCompile(`(?i)^(exclusion|benefit|coverage|condition|definition)s?\s*:`)
)

// CleanText normalizes whitespace, keeping line structure for header
// detection.
func CleanText(text string) string {
	text = spaceRe.ReplaceAllString(text, " ")
	text = newlineRe.ReplaceAllString(text, "\n")

	lines := strings.Split(text, "\n")
	filtered := lines[:0]
	for _, line := range lines {
		if len(strings.TrimSpace(line)) > 3 {
			filtered = append(filtered, strings.TrimSpace(line))
		}
	}
	return strings.Join(filtered, "\n")
}

// IsSectionHeader reports whether a line looks like a section heading.
func IsSectionHeader(text string) bool {
	text = strings.TrimSpace(text)
	for _, re := range headerRes {
		if re.MatchString(text) {
			return true
		}
	}
	return keywordHeaderRe.MatchString(text)
}

// ClassifySectionType maps a section title to an insurance section type.
func ClassifySectionType(title string) string {
	if title == "" {
		return "general"
	}

	lower := strings.ToLower(title)
	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("exclusion", "exclude", "not covered", "exception"):
		return "exclusion"
	case contains("benefit", "coverage", "cover", "eligible"):
		return "benefit"
	case contains("condition", "term", "requirement", "clause"):
		return "condition"
	case contains("definition", "meaning", "interpret"):
		return "definition"
	case contains("waiting period", "limit", "deductible", "co-payment"):
		return "limitation"
	case contains("claim", "procedure", "process"):
		return "procedure"
	case contains("premium", "payment", "fee"):
		return "financial"
	default:
		return "general"
	}
}

// extractSections splits page text into titled sections. When no headings
// are found, it falls back to plain size-based chunking.
func (e *Extractor) extractSections(text string, pageNumber int) []Chunk {
	type section struct {
		title   string
		content []string
	}

	var sections []section
	current := section{}
	for _, line := range strings.Split(text, "\n") {
		if IsSectionHeader(line) {
			if len(current.content) > 0 || current.title != "" {
				sections = append(sections, current)
			}
			current = section{title: strings.TrimSpace(line)}
			continue
		}
		current.content = append(current.content, line)
	}
	if len(current.content) > 0 || current.title != "" {
		sections = append(sections, current)
	}

	var chunks []Chunk
	for _, s := range sections {
		content := strings.TrimSpace(strings.Join(s.content, "\n"))
		// Only keep substantial titled content
		if s.title == "" || len(content) <= 50 {
			continue
		}
		chunks = append(chunks, Chunk{
			Text: content,
			Metadata: map[string]any{
				"section_title":     s.title,
				"page_number":       pageNumber,
				"extraction_method": "pattern_matching",
			},
			SectionType:     ClassifySectionType(s.title),
			PageNumber:      pageNumber,
			ConfidenceScore: 0.8,
		})
	}

	if len(chunks) > 0 {
		return chunks
	}

	for i, part := range e.splitIntoChunks(text) {
		chunks = append(chunks, Chunk{
			Text: part,
			Metadata: map[string]any{
				"page_number":       pageNumber,
				"chunk_index":       i,
				"extraction_method": "text_splitting",
			},
			SectionType:     "general",
			PageNumber:      pageNumber,
			ConfidenceScore: 0.5,
		})
	}
	return chunks
}

// splitIntoChunks splits text into word-boundary chunks of roughly chunkSize
// characters, carrying a word overlap between adjacent chunks.
func (e *Extractor) splitIntoChunks(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentLen := 0

	for _, word := range words {
		if currentLen+len(word)+1 > e.chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))

			overlap := e.chunkOverlap / 10
			if overlap > len(current) {
				overlap = len(current)
			}
			if overlap > 0 {
				current = append([]string(nil), current[len(current)-overlap:]...)
			} else {
				current = nil
			}
			currentLen = 0
			for _, w := range current {
				currentLen += len(w) + 1
			}
		}
		current = append(current, word)
		currentLen += len(word) + 1
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}
