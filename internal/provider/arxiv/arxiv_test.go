package arxiv

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayudhap/paperdesk/internal/api"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Deep Learning for Lung Cancer Detection</title>
    <summary>  We study convolutional networks on CT scans.  </summary>
    <published>2023-01-17T18:05:34Z</published>
    <arxiv:doi>10.1000/example.doi</arxiv:doi>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <link href="http://arxiv.org/abs/2301.07041v1" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2301.07041v1" rel="related" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <title>Attention Is All You Need</title>
    <summary>The dominant sequence transduction models.</summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <link title="pdf" href="http://arxiv.org/pdf/1706.03762v7" rel="related" type="application/pdf"/>
  </entry>
</feed>`

func TestSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		if r.URL.Query().Get("sortBy") != "relevance" {
			t.Errorf("expected sortBy=relevance, got %q", r.URL.Query().Get("sortBy"))
		}
		if r.URL.Query().Get("max_results") != "7" {
			t.Errorf("expected max_results=7, got %q", r.URL.Query().Get("max_results"))
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	orig := apiBase
	apiBase = srv.URL
	defer func() { apiBase = orig }()

	s := New()
	resp, err := s.Search(context.Background(), api.PaperSearchRequest{
		Query: `"lung cancer" AND "deep learning"`,
		Limit: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != `all:"lung cancer" AND "deep learning"` {
		t.Errorf("unexpected search_query: %q", gotQuery)
	}

	if len(resp.Papers) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(resp.Papers))
	}

	first := resp.Papers[0]
	if first.Title != "Deep Learning for Lung Cancer Detection" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	if first.Abstract != "We study convolutional networks on CT scans." {
		t.Errorf("abstract not trimmed: %q", first.Abstract)
	}
	if first.Published != "2023-01-17" {
		t.Errorf("unexpected published date: %q", first.Published)
	}
	if first.DOI != "10.1000/example.doi" {
		t.Errorf("unexpected DOI: %q", first.DOI)
	}
	if first.PDFURL != "http://arxiv.org/pdf/2301.07041v1" {
		t.Errorf("unexpected pdf url: %q", first.PDFURL)
	}
	if len(first.Authors) != 2 || first.Authors[0] != "Ada Lovelace" {
		t.Errorf("unexpected authors: %v", first.Authors)
	}

	second := resp.Papers[1]
	if second.DOI != api.DOIUnknown {
		t.Errorf("expected DOI sentinel for entry without doi, got %q", second.DOI)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	s := New()
	if _, err := s.Search(context.Background(), api.PaperSearchRequest{Query: "   "}); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	orig := apiBase
	apiBase = srv.URL
	defer func() { apiBase = orig }()

	s := New()
	_, err := s.Search(context.Background(), api.PaperSearchRequest{Query: "transformers"})

	var unavailable api.SearchUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected SearchUnavailableError, got %v", err)
	}
}
