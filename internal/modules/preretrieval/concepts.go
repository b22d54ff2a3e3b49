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

// Package preretrieval prepares the bibliographic search: it distills the
// document into key concepts, then turns those concepts into a boolean
// search query.
package preretrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ayudhap/paperdesk/internal/api"
	"github.com/ayudhap/paperdesk/internal/executor"
	"github.com/ayudhap/paperdesk/internal/prompt"
	"github.com/ayudhap/paperdesk/internal/provider"
	"github.com/ayudhap/paperdesk/internal/registry"
)

var conceptsExecutorDescriptor = "pre.Concepts"

// DefaultExcerptLimit caps how much of the document feeds concept
// extraction.
const DefaultExcerptLimit = 10000

func init() {
	exec, err := NewConceptsExecutor()
	if err != nil {
		slog.Error("failed to initialize executor", "name", conceptsExecutorDescriptor, "err", err)
		return
	}

	err = registry.RegisterExecutor(conceptsExecutorDescriptor, exec)
	if err != nil {
		slog.Error("failed to register executor", "name", conceptsExecutorDescriptor)
	}
}

type ConceptsExecutor struct {
	DefaultLMProvider provider.LM

	operators map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error)
}

func NewConceptsExecutor() (*ConceptsExecutor, error) {
	lp, err := provider.DefaultLM()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize default provider: %w", err)
	}

	e := &ConceptsExecutor{
		DefaultLMProvider: lp,
	}
	e.operators = map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error){
		"extract":     e.extract,
		"build_query": e.buildQuery,
	}
	return e, nil
}

func (e ConceptsExecutor) Execute(ctx context.Context, p *executor.ExecutorParams) *executor.ExecutorResult {
	if p.Operator == "" {
		p.Operator = "extract"
	}
	slog.Info("executing", "name", conceptsExecutorDescriptor, "op", p.Operator, "id", p.GetTaskID())

	opFunc, exists := e.operators[p.Operator]
	if !exists {
		return &executor.ExecutorResult{
			Name:     conceptsExecutorDescriptor,
			Operator: p.Operator,
			Err: executor.ErrOperatorNotFound{
				ExecutorName: conceptsExecutorDescriptor,
				OperatorName: p.Operator,
			},
			Values: nil,
		}
	}

	vals, err := opFunc(ctx, p)

	return &executor.ExecutorResult{
		Name:     conceptsExecutorDescriptor,
		Operator: p.Operator,
		Err:      err,
		Values:   vals,
	}
}

func (e ConceptsExecutor) extract(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	// 'extract' requires the following parameter args:
	// document_text - full text of the ingested document
	docText, err := executor.GetTypedArg[string](p, "document_text")
	if err != nil {
		return nil, err
	}

	limit := executor.IntArgOrDefault(p, "excerpt_limit", DefaultExcerptLimit)
	excerpt := docText
	if runes := []rune(docText); len(runes) > limit {
		excerpt = string(runes[:limit])
	}

	composed, err := prompt.Compose(prompt.KindKeywordExtract, map[string]string{
		"Excerpt": excerpt,
	})
	if err != nil {
		return nil, err
	}

	cs, err := e.DefaultLMProvider.Generate(ctx, api.FromInstructions(composed.System, composed.User))
	if err != nil {
		slog.Warn("error creating completion stream, cancelling task", "id", p.GetTaskID())
		return nil, api.GenerationUnavailableError{Cause: err}
	}

	resp, err := api.StreamReadAll(ctx, cs)
	if err != nil {
		return nil, api.GenerationUnavailableError{Cause: err}
	}

	concepts := strings.TrimSpace(resp)
	slog.Info("extracted concepts", "id", p.GetTaskID(), "concepts", concepts)

	return map[string]any{
		"concepts": concepts,
	}, nil
}

func (e ConceptsExecutor) buildQuery(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	// 'build_query' requires the following parameter args:
	// concepts - comma-separated concept list from 'extract'
	concepts, err := executor.GetTypedArg[string](p, "concepts")
	if err != nil {
		return nil, err
	}

	composed, err := prompt.Compose(prompt.KindQueryBuild, map[string]string{
		"Concepts": concepts,
	})
	if err != nil {
		return nil, err
	}

	cs, err := e.DefaultLMProvider.Generate(ctx, api.FromInstructions(composed.System, composed.User))
	if err != nil {
		slog.Warn("error creating completion stream, cancelling task", "id", p.GetTaskID())
		return nil, api.GenerationUnavailableError{Cause: err}
	}

	resp, err := api.StreamReadAll(ctx, cs)
	if err != nil {
		return nil, api.GenerationUnavailableError{Cause: err}
	}

	query := strings.TrimSpace(resp)
	slog.Info("built search query", "id", p.GetTaskID(), "query", query)

	return map[string]any{
		"search_query": query,
	}, nil
}
