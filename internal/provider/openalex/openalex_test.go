package openalex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayudhap/paperdesk/internal/api"
)

func TestReconstructAbstract(t *testing.T) {
	tests := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{
			name:  "empty index",
			index: nil,
			want:  "",
		},
		{
			name:  "single word",
			index: map[string][]int{"hello": {0}},
			want:  "hello",
		},
		{
			name: "ordered reconstruction",
			index: map[string][]int{
				"networks":      {2},
				"convolutional": {1},
				"We":            {0},
				"study":         {3},
			},
			want: "We convolutional networks study",
		},
		{
			name: "repeated word",
			index: map[string][]int{
				"the": {0, 2},
				"and": {1},
			},
			want: "the and the",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reconstructAbstract(tt.index)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

const sampleWorks = `{
  "meta": {"count": 1, "per_page": 7, "page": 1},
  "results": [
    {
      "id": "https://openalex.org/W2741809807",
      "title": "Attention Is All You Need",
      "doi": "https://doi.org/10.48550/arxiv.1706.03762",
      "publication_date": "2017-06-12",
      "publication_year": 2017,
      "authorships": [
        {"author": {"id": "https://openalex.org/A1", "display_name": "Ashish Vaswani"}},
        {"author": {"id": "https://openalex.org/A2", "display_name": ""}}
      ],
      "abstract_inverted_index": {"The": [0], "dominant": [1]},
      "open_access": {"is_oa": true, "oa_status": "green", "oa_url": "https://arxiv.org/pdf/1706.03762"}
    },
    {
      "id": "https://openalex.org/W3",
      "title": "A Paper Without DOI",
      "doi": "",
      "publication_date": "",
      "publication_year": 2019,
      "authorships": [],
      "abstract_inverted_index": null,
      "open_access": {"is_oa": false, "oa_status": "closed", "oa_url": ""}
    }
  ]
}`

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") != "attention transformers" {
			t.Errorf("unexpected search param: %q", r.URL.Query().Get("search"))
		}
		if r.URL.Query().Get("per_page") != "7" {
			t.Errorf("unexpected per_page: %q", r.URL.Query().Get("per_page"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleWorks))
	}))
	defer srv.Close()

	orig := apiBase
	apiBase = srv.URL
	defer func() { apiBase = orig }()

	s := New()
	resp, err := s.Search(context.Background(), api.PaperSearchRequest{
		Query: "attention transformers",
		Limit: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Papers) != 2 {
		t.Fatalf("expected 2 papers, got %d", len(resp.Papers))
	}

	first := resp.Papers[0]
	if first.DOI != "10.48550/arxiv.1706.03762" {
		t.Errorf("expected stripped DOI, got %q", first.DOI)
	}
	if first.Published != "2017-06-12" {
		t.Errorf("unexpected published date: %q", first.Published)
	}
	if len(first.Authors) != 1 || first.Authors[0] != "Ashish Vaswani" {
		t.Errorf("unexpected authors: %v", first.Authors)
	}
	if first.PDFURL != "https://arxiv.org/pdf/1706.03762" {
		t.Errorf("unexpected pdf url: %q", first.PDFURL)
	}

	second := resp.Papers[1]
	if second.DOI != api.DOIUnknown {
		t.Errorf("expected DOI sentinel, got %q", second.DOI)
	}
	if second.Published != "2019-01-01" {
		t.Errorf("expected year fallback date, got %q", second.Published)
	}
}
