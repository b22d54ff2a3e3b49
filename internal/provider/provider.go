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

package provider

import (
	"context"
	"errors"
	"os"

	"github.com/ayudhap/paperdesk/internal/api"
	"github.com/ayudhap/paperdesk/internal/provider/arxiv"
	"github.com/ayudhap/paperdesk/internal/provider/cohere"
	"github.com/ayudhap/paperdesk/internal/provider/gemini"
	"github.com/ayudhap/paperdesk/internal/provider/openai"
	"github.com/ayudhap/paperdesk/internal/provider/openalex"
)

var (
	ErrInvalidLMType       = errors.New("no language model provider found for given type")
	ErrInvalidSearcherType = errors.New("no paper searcher found for given type")
)

type LMType int

const (
	LMTypeOpenAI LMType = iota
	LMTypeGemini
	LMTypeCohere
)

var lmTypeNames = map[string]LMType{
	"openai": LMTypeOpenAI,
	"gemini": LMTypeGemini,
	"cohere": LMTypeCohere,
}

// ParseLMType maps a config value to a provider type.
func ParseLMType(name string) (LMType, error) {
	t, ok := lmTypeNames[name]
	if !ok {
		return 0, ErrInvalidLMType
	}
	return t, nil
}

// LM generates streamed completions from a system/user instruction pair.
type LM interface {
	Generate(ctx context.Context, req *api.GenerationRequest) (api.CompletionStream, error)
}

func NewLM(t LMType) (LM, error) {
	switch t {
	case LMTypeOpenAI:
		return openai.New()
	case LMTypeGemini:
		return gemini.New()
	case LMTypeCohere:
		return cohere.New()
	default:
		return nil, ErrInvalidLMType
	}
}

// DefaultLM builds the language model provider selected by the
// PAPERDESK_PROVIDER environment variable, defaulting to openai.
func DefaultLM() (LM, error) {
	name := os.Getenv("PAPERDESK_PROVIDER")
	if name == "" {
		name = "openai"
	}

	t, err := ParseLMType(name)
	if err != nil {
		return nil, err
	}
	return NewLM(t)
}

type SearcherType int

const (
	SearcherTypeArxiv SearcherType = iota
	SearcherTypeOpenAlex
)

var searcherTypeNames = map[string]SearcherType{
	"arxiv":    SearcherTypeArxiv,
	"openalex": SearcherTypeOpenAlex,
}

func ParseSearcherType(name string) (SearcherType, error) {
	t, ok := searcherTypeNames[name]
	if !ok {
		return 0, ErrInvalidSearcherType
	}
	return t, nil
}

// PaperSearcher queries an external bibliographic service. Results arrive
// in the service's own relevance order.
type PaperSearcher interface {
	Search(ctx context.Context, req api.PaperSearchRequest) (*api.PaperSearchResponse, error)
}

// DefaultPaperSearcher builds the search backend selected by the
// PAPERDESK_SEARCHER environment variable, defaulting to arxiv.
func DefaultPaperSearcher() (PaperSearcher, error) {
	name := os.Getenv("PAPERDESK_SEARCHER")
	if name == "" {
		name = "arxiv"
	}

	t, err := ParseSearcherType(name)
	if err != nil {
		return nil, err
	}
	return NewPaperSearcher(t)
}

func NewPaperSearcher(t SearcherType) (PaperSearcher, error) {
	switch t {
	case SearcherTypeArxiv:
		return arxiv.New(), nil
	case SearcherTypeOpenAlex:
		return openalex.New(), nil
	default:
		return nil, ErrInvalidSearcherType
	}
}
