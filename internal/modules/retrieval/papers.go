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

// Package retrieval runs the bibliographic search and ranks the returned
// candidates by lexical overlap with the extracted concepts.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ayudhap/paperdesk/internal/api"
	"github.com/ayudhap/paperdesk/internal/executor"
	"github.com/ayudhap/paperdesk/internal/provider"
	"github.com/ayudhap/paperdesk/internal/registry"
	"github.com/ayudhap/paperdesk/internal/transport"
)

var papersExecutorDescriptor = "retrieval.Papers"

const (
	// DefaultOverfetch is how many candidates the backend is asked for.
	DefaultOverfetch = 7
	// DefaultMinScore is the minimum concept overlap a candidate needs.
	DefaultMinScore = 2
	// DefaultMaxResults caps the final ranked result set.
	DefaultMaxResults = 5
)

func init() {
	exec, err := NewPapersExecutor()
	if err != nil {
		slog.Error("failed to initialize executor", "name", papersExecutorDescriptor, "err", err)
		return
	}

	err = registry.RegisterExecutor(papersExecutorDescriptor, exec)
	if err != nil {
		slog.Error("failed to register executor", "name", papersExecutorDescriptor)
	}
}

type PapersExecutor struct {
	DefaultSearcher provider.PaperSearcher

	operators map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error)
}

func NewPapersExecutor() (*PapersExecutor, error) {
	searcher, err := provider.DefaultPaperSearcher()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize default searcher: %w", err)
	}

	e := &PapersExecutor{
		DefaultSearcher: searcher,
	}
	e.operators = map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error){
		"search": e.search,
	}
	return e, nil
}

func (e PapersExecutor) Execute(ctx context.Context, p *executor.ExecutorParams) *executor.ExecutorResult {
	if p.Operator == "" {
		p.Operator = "search"
	}
	slog.Info("executing", "name", papersExecutorDescriptor, "op", p.Operator, "id", p.GetTaskID())

	opFunc, exists := e.operators[p.Operator]
	if !exists {
		return &executor.ExecutorResult{
			Name:     papersExecutorDescriptor,
			Operator: p.Operator,
			Err: executor.ErrOperatorNotFound{
				ExecutorName: papersExecutorDescriptor,
				OperatorName: p.Operator,
			},
			Values: nil,
		}
	}

	vals, err := opFunc(ctx, p)

	return &executor.ExecutorResult{
		Name:     papersExecutorDescriptor,
		Operator: p.Operator,
		Err:      err,
		Values:   vals,
	}
}

func (e PapersExecutor) search(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	// 'search' requires the following parameter args:
	// search_query - boolean search expression from 'build_query'
	// concepts - comma-separated concept list used for overlap scoring
	query, err := executor.GetTypedArg[string](p, "search_query")
	if err != nil {
		return nil, err
	}

	concepts, err := executor.GetTypedArg[string](p, "concepts")
	if err != nil {
		return nil, err
	}

	limit := executor.IntArgOrDefault(p, "limit", DefaultOverfetch)
	minScore := executor.IntArgOrDefault(p, "min_score", DefaultMinScore)
	maxResults := executor.IntArgOrDefault(p, "max_results", DefaultMaxResults)

	searcher := e.DefaultSearcher
	if backend, argErr := executor.GetTypedArg[string](p, "backend"); argErr == nil {
		t, parseErr := provider.ParseSearcherType(backend)
		if parseErr != nil {
			return nil, parseErr
		}
		if searcher, err = provider.NewPaperSearcher(t); err != nil {
			return nil, err
		}
	}

	msgStream, err := p.Transport.GetMessageStream(p.GetTaskID())
	if err != nil {
		return nil, fmt.Errorf("failed to create message stream: %w", err)
	}

	resp, err := searcher.Search(ctx, api.PaperSearchRequest{
		Query: query,
		Limit: limit,
	})
	if err != nil {
		// a failed search degrades to an empty result set
		slog.Warn("paper search failed", "id", p.GetTaskID(), "query", query, "err", err)
		msgStream.Send(ctx, transport.MessageStreamPayload{
			Content: "bibliographic search is unavailable, no related papers found",
			Status:  transport.StatusWarn,
		})
		return map[string]any{
			"papers": []*api.CandidatePaper{},
		}, nil
	}

	ranked := RankCandidates(resp.Papers, ParseConcepts(concepts), minScore, maxResults)
	slog.Info("ranked candidates", "id", p.GetTaskID(), "received", len(resp.Papers), "kept", len(ranked))

	for i, paper := range ranked {
		msgStream.Send(ctx, transport.MessageStreamPayload{
			ID:     i,
			Type:   transport.MessageTypePaper,
			Status: transport.StatusOK,
			Paper:  paper,
		})
	}

	return map[string]any{
		"papers": ranked,
	}, nil
}

// ParseConcepts splits a comma-separated concept list into lowercased,
// trimmed terms. Empty items are dropped.
func ParseConcepts(concepts string) []string {
	parts := strings.Split(concepts, ",")
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		term := strings.ToLower(strings.TrimSpace(part))
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// ScoreCandidate counts how many concept terms appear as substrings in
// the candidate's title and abstract, case-insensitive.
func ScoreCandidate(paper *api.CandidatePaper, terms []string) int {
	haystack := strings.ToLower(paper.Title + " " + paper.Abstract)

	score := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			score++
		}
	}
	return score
}

// RankCandidates scores all candidates, drops those below minScore,
// stable-sorts the rest by score descending (service relevance order
// breaks ties) and truncates to maxResults.
func RankCandidates(papers []*api.CandidatePaper, terms []string, minScore, maxResults int) []*api.CandidatePaper {
	kept := make([]*api.CandidatePaper, 0, len(papers))
	for _, paper := range papers {
		paper.Score = ScoreCandidate(paper, terms)
		if paper.Score >= minScore {
			kept = append(kept, paper)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	if len(kept) > maxResults {
		kept = kept[:maxResults]
	}
	return kept
}
