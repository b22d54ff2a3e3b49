package api

// DOIUnknown is the identifier sentinel for candidates the search service
// returns without a DOI.
const DOIUnknown = "unknown"

type PaperSearchRequest struct {
	// Required
	Query string

	// Optional
	Limit int
}

type PaperSearchResponse struct {
	Query  string
	Papers []*CandidatePaper
}

// CandidatePaper is one record returned by the external bibliographic
// search, ordered by the service's own relevance ranking. Score is filled
// in after lexical overlap filtering.
type CandidatePaper struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	Published string   `json:"published"`
	Abstract  string   `json:"abstract"`
	DOI       string   `json:"doi"`
	PDFURL    string   `json:"pdf_url"`

	// Score counts the extracted concept terms found in the candidate's
	// title and abstract.
	Score int `json:"score"`
}
