package api

import "strings"

type DocumentPage struct {
	Index int
	Text  string
}

// DocumentContent holds the text layer recovered from one uploaded
// document. Pages are ordered by document reading order and the content is
// immutable once produced.
type DocumentContent struct {
	Name  string
	Pages []DocumentPage

	// Windows contains the page-ordered overlapping text windows produced
	// at ingestion time. They are kept alongside the full text for callers
	// that need sub-document granularity.
	Windows []string
}

// Text returns the canonical full text: page texts concatenated in reading
// order, separated by blank lines.
func (dc DocumentContent) Text() string {
	texts := make([]string, 0, len(dc.Pages))
	for _, page := range dc.Pages {
		texts = append(texts, page.Text)
	}
	return strings.Join(texts, "\n\n")
}
