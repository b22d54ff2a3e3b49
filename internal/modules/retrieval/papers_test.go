package retrieval

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/ayudhap/paperdesk/internal/api"
	"github.com/ayudhap/paperdesk/internal/executor"
	"github.com/ayudhap/paperdesk/internal/transport"
)

func TestParseConcepts(t *testing.T) {
	tests := []struct {
		name     string
		concepts string
		want     []string
	}{
		{
			name:     "typical list",
			concepts: "lung cancer detection, CT scan images, CNN deep learning model",
			want:     []string{"lung cancer detection", "ct scan images", "cnn deep learning model"},
		},
		{
			name:     "extra whitespace and empties",
			concepts: " transformers ,, attention , ",
			want:     []string{"transformers", "attention"},
		},
		{
			name:     "empty input",
			concepts: "",
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseConcepts(tt.concepts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestScoreCandidate(t *testing.T) {
	paper := &api.CandidatePaper{
		Title:    "Lung Cancer Detection with Deep Learning",
		Abstract: "We apply convolutional networks to CT scan images of the thorax.",
	}

	terms := []string{"lung cancer detection", "ct scan images", "cnn deep learning model"}
	if got := ScoreCandidate(paper, terms); got != 2 {
		t.Errorf("expected score 2, got %d", got)
	}

	if got := ScoreCandidate(paper, nil); got != 0 {
		t.Errorf("expected score 0 for no terms, got %d", got)
	}
}

func TestRankCandidates(t *testing.T) {
	terms := []string{"alpha", "beta", "gamma"}

	mk := func(title, abstract string) *api.CandidatePaper {
		return &api.CandidatePaper{Title: title, Abstract: abstract}
	}

	papers := []*api.CandidatePaper{
		mk("alpha only", ""),                    // score 1, dropped
		mk("alpha beta", ""),                    // score 2
		mk("alpha beta gamma", ""),              // score 3
		mk("nothing relevant", ""),              // score 0, dropped
		mk("beta gamma paper", "also alpha"),    // score 3
		mk("second beta gamma", "alpha inside"), // score 3
		mk("alpha and beta again", ""),          // score 2
	}

	ranked := RankCandidates(papers, terms, 2, 5)

	if len(ranked) != 5 {
		t.Fatalf("expected 5 ranked papers, got %d", len(ranked))
	}

	// descending score order
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("ranking not descending at %d: %d > %d", i, ranked[i].Score, ranked[i-1].Score)
		}
	}

	// stable: equal scores keep the service relevance order
	wantTitles := []string{
		"alpha beta gamma",
		"beta gamma paper",
		"second beta gamma",
		"alpha beta",
		"alpha and beta again",
	}
	for i, want := range wantTitles {
		if ranked[i].Title != want {
			t.Errorf("position %d: expected %q, got %q", i, want, ranked[i].Title)
		}
	}
}

func TestRankCandidatesTruncates(t *testing.T) {
	terms := []string{"alpha", "beta"}

	var papers []*api.CandidatePaper
	for range 8 {
		papers = append(papers, &api.CandidatePaper{Title: "alpha beta"})
	}

	ranked := RankCandidates(papers, terms, 2, 5)
	if len(ranked) != 5 {
		t.Errorf("expected truncation to 5, got %d", len(ranked))
	}
}

type failingSearcher struct{}

func (failingSearcher) Search(ctx context.Context, req api.PaperSearchRequest) (*api.PaperSearchResponse, error) {
	return nil, api.SearchUnavailableError{Cause: errors.New("connection refused")}
}

type fakeStream struct {
	sent []transport.MessageStreamPayload
}

func (s *fakeStream) Send(ctx context.Context, payload transport.MessageStreamPayload) error {
	s.sent = append(s.sent, payload)
	return nil
}

func (s *fakeStream) Recv(ctx context.Context) (*transport.MessageStreamPayload, error) {
	return nil, io.EOF
}

func (s *fakeStream) Text(ctx context.Context) (string, error) { return "", nil }

func (s *fakeStream) GetID() string { return "fake" }

type fakeTransport struct {
	stream *fakeStream
}

func (t *fakeTransport) GetMessageStream(id string) (transport.MessageStream, error) {
	return t.stream, nil
}

func (t *fakeTransport) SetTrace(ctx context.Context, trace *transport.RequestTrace) error {
	return nil
}

func (t *fakeTransport) GetTrace(ctx context.Context, traceId string) (*transport.RequestTrace, error) {
	return nil, errors.New("not found")
}

func (t *fakeTransport) SetSession(ctx context.Context, session *transport.Session) error {
	return nil
}

func (t *fakeTransport) GetSession(ctx context.Context, sessionId string) (*transport.Session, error) {
	return nil, transport.ErrSessionNotFound
}

func TestSearchFailureDegradesToEmpty(t *testing.T) {
	e := &PapersExecutor{DefaultSearcher: failingSearcher{}}
	ft := &fakeTransport{stream: &fakeStream{}}

	params := executor.NewExecutorParams("task-1", "",
		executor.WithTransport(ft),
		executor.WithArgs(map[string]any{
			"search_query": `"lung cancer" AND "deep learning"`,
			"concepts":     "lung cancer, deep learning",
		}),
	)

	vals, err := e.search(context.Background(), params)
	if err != nil {
		t.Fatalf("search failure must not propagate an error, got %v", err)
	}

	papers, ok := vals["papers"].([]*api.CandidatePaper)
	if !ok {
		t.Fatal("expected papers value")
	}
	if len(papers) != 0 {
		t.Errorf("expected empty result set, got %d papers", len(papers))
	}

	if len(ft.stream.sent) != 1 || ft.stream.sent[0].Status != transport.StatusWarn {
		t.Errorf("expected a single WARN payload, got %+v", ft.stream.sent)
	}
}
