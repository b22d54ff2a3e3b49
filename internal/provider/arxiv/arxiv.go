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

// Package arxiv queries the arXiv Atom API. This is the default
// bibliographic search backend.
package arxiv

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ayudhap/paperdesk/internal/api"
	"github.com/ayudhap/paperdesk/internal/http"
)

// apiBase is the arXiv search endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

const (
	defaultLimit = 7
	userAgent    = "paperdesk/0.1"
)

type Searcher struct {
	client http.Client
}

func New() *Searcher {
	c := http.NewClient(
		apiBase,
		http.WithTimeout(30*time.Second),
		http.WithMaxRetries(2),
		http.WithUserAgent(userAgent),
	)
	return &Searcher{client: c}
}

func (s *Searcher) Search(ctx context.Context, req api.PaperSearchRequest) (*api.PaperSearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("empty search query")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	params := url.Values{
		"search_query": {"all:" + req.Query},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(limit)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	var feed atomFeed
	if err := s.client.GetXML(ctx, params, &feed); err != nil {
		return nil, api.SearchUnavailableError{Cause: err}
	}

	papers := make([]*api.CandidatePaper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		paper := &api.CandidatePaper{
			Title:     strings.TrimSpace(entry.Title),
			Abstract:  strings.TrimSpace(entry.Summary),
			Published: parsePublished(entry.Published),
			DOI:       api.DOIUnknown,
			PDFURL:    entry.pdfLink(),
		}

		if entry.DOI != "" {
			paper.DOI = entry.DOI
		}

		for _, a := range entry.Authors {
			paper.Authors = append(paper.Authors, strings.TrimSpace(a.Name))
		}

		papers = append(papers, paper)
	}

	return &api.PaperSearchResponse{
		Query:  req.Query,
		Papers: papers,
	}, nil
}

func parsePublished(raw string) string {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Format("2006-01-02")
	}
	return raw
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	DOI       string       `xml:"doi"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink   `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

func (e atomEntry) pdfLink() string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	return ""
}
