// Copyright 2026 Ayudha Pradipta
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the
// Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

// Package ingest recovers the text layer from uploaded PDF documents.
package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ayudhap/paperdesk/internal/api"
)

const (
	DefaultWindowSize    = 4000
	DefaultWindowOverlap = 200
)

// Document parses the given PDF bytes and returns the recovered content.
// The bytes are staged to a scoped temporary file which is removed on all
// exit paths. Returns api.UnreadableDocumentError when the file cannot be
// parsed or carries no extractable text.
func Document(name string, data []byte) (*api.DocumentContent, error) {
	return DocumentWindowed(name, data, DefaultWindowSize, DefaultWindowOverlap)
}

// DocumentWindowed is Document with explicit window parameters.
func DocumentWindowed(name string, data []byte, windowSize, windowOverlap int) (*api.DocumentContent, error) {
	tmp, err := os.CreateTemp("", "paperdesk-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to stage document '%s': %w", name, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to stage document '%s': %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage document '%s': %w", name, err)
	}

	pages, err := extractPages(tmpPath)
	if err != nil {
		return nil, api.UnreadableDocumentError{Name: name}
	}

	content := &api.DocumentContent{
		Name:  name,
		Pages: pages,
	}

	text := content.Text()
	if strings.TrimSpace(text) == "" {
		return nil, api.UnreadableDocumentError{Name: name}
	}

	content.Windows = SplitWindows(text, windowSize, windowOverlap)
	return content, nil
}

func extractPages(path string) ([]api.DocumentPage, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pages := make([]api.DocumentPage, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// a single broken page does not void the document
			continue
		}

		pages = append(pages, api.DocumentPage{
			Index: i,
			Text:  strings.TrimSpace(text),
		})
	}

	return pages, nil
}

// SplitWindows splits text into overlapping windows of at most size runes,
// each consecutive pair sharing its last overlap runes with the start of
// the next. The last window absorbs the tail. Splitting is deterministic.
func SplitWindows(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		return []string{text}
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	step := size - overlap

	var windows []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end >= len(runes) {
			windows = append(windows, string(runes[start:]))
			break
		}
		windows = append(windows, string(runes[start:end]))
	}

	return windows
}
