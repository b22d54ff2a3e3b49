// Package openalex queries the OpenAlex Works API, the alternative
// bibliographic search backend. Set OPENALEX_MAILTO for polite pool access.
package openalex

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ayudhap/paperdesk/internal/api"
	"github.com/ayudhap/paperdesk/internal/http"
)

// apiBase is the OpenAlex Works search endpoint. Declared as a var so
// tests can substitute an httptest server.
var apiBase = "https://api.openalex.org/works"

const (
	defaultLimit = 7
	userAgent    = "paperdesk/0.1"
)

type Searcher struct {
	client http.Client

	// email is sent as mailto parameter for polite pool access.
	email string
}

func New() *Searcher {
	c := http.NewClient(
		apiBase,
		http.WithTimeout(30*time.Second),
		http.WithMaxRetries(2),
		http.WithUserAgent(userAgent),
	)
	return &Searcher{
		client: c,
		email:  os.Getenv("OPENALEX_MAILTO"),
	}
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
		"search":   {req.Query},
		"per_page": {strconv.Itoa(limit)},
		"page":     {"1"},
	}
	if s.email != "" {
		params.Set("mailto", s.email)
	}

	var oar worksResponse
	if err := s.client.GetJSON(ctx, params, &oar); err != nil {
		return nil, api.SearchUnavailableError{Cause: err}
	}

	papers := make([]*api.CandidatePaper, 0, len(oar.Results))
	for _, work := range oar.Results {
		paper := &api.CandidatePaper{
			Title:     work.Title,
			Abstract:  reconstructAbstract(work.AbstractInvertedIndex),
			Published: work.PublicationDate,
			DOI:       api.DOIUnknown,
			PDFURL:    work.OpenAccess.OAURL,
		}

		if paper.Published == "" && work.PublicationYear > 0 {
			paper.Published = time.Date(work.PublicationYear, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		}

		// OpenAlex reports DOIs as full resolver URLs
		if work.DOI != "" {
			paper.DOI = strings.TrimPrefix(work.DOI, "https://doi.org/")
		}

		for _, authorship := range work.Authorships {
			if authorship.Author.DisplayName != "" {
				paper.Authors = append(paper.Authors, authorship.Author.DisplayName)
			}
		}

		papers = append(papers, paper)
	}

	return &api.PaperSearchResponse{
		Query:  req.Query,
		Papers: papers,
	}, nil
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the positions where it
// appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type worksResponse struct {
	Results []work `json:"results"`
}

type work struct {
	ID                    string           `json:"id"`
	Title                 string           `json:"title"`
	DOI                   string           `json:"doi"`
	PublicationDate       string           `json:"publication_date"`
	PublicationYear       int              `json:"publication_year"`
	Authorships           []authorship     `json:"authorships"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	OpenAccess            openAccess       `json:"open_access"`
}

type authorship struct {
	Author author `json:"author"`
}

type author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAccess struct {
	IsOA     bool   `json:"is_oa"`
	OAStatus string `json:"oa_status"`
	OAURL    string `json:"oa_url"`
}
