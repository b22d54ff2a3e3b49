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

// Package prompt composes the instruction pairs sent to language models.
// Every template is parsed once at package init; composing is pure string
// work with no I/O.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

type Kind string

const (
	KindSummary        Kind = "summary"
	KindChat           Kind = "chat"
	KindCitation       Kind = "citation"
	KindKeywordExtract Kind = "keyword_extract"
	KindQueryBuild     Kind = "query_build"
)

// RefusalSentence is the fixed reply the chat persona gives for questions
// it cannot answer from the paper's own content.
const RefusalSentence = "I'm sorry, I can only answer questions about my own content."

const systemSummary = `You are an expert academic assistant. You read scholarly papers and produce structured summaries. Be accurate and concise. When a requested field cannot be determined from the paper, write exactly "Unknown" for that field. Answer in English.`

const userSummary = `Summarize the following academic paper. Produce exactly these nine fields, each on its own labeled line, in this order, separated by blank lines:

Title:
Authors:
Abstract:
Keywords:
Research Method:
Publisher:
Publication Date:
Conclusion:
DOI:

Write "Unknown" for any field the paper does not state. Do not add any other text.

PAPER:
{{.Document}}`

const systemChat = `You ARE the academic paper provided below. Speak in the first person, as the paper itself. Answer questions strictly and only from your own content. If a question cannot be answered from your content, reply with exactly: "` + RefusalSentence + `" Do not speculate and do not use outside knowledge.

PAPER:
{{.Document}}`

const userChat = `{{.Question}}`

const systemCitation = `You are a bibliographic reference generator. Given an academic paper, produce its full citation in exactly seven styles, in this order: APA, MLA, Harvard, IEEE, Chicago, Vancouver, AMA. Precede each citation with a marker line of the form **<Style> Style** (for example **APA Style**). Use bracketed placeholders such as [publisher unknown] for any detail the paper does not state. Output nothing besides the seven marker lines and their citations.`

const userCitation = `Generate the citations for this paper:

{{.Document}}`

const systemKeywordExtract = `You are an expert at identifying the core technical concepts of academic papers. Given an excerpt, extract the 3 to 5 concepts that best characterize the research. Answer with a single comma-separated list ordered from most to least specific, in English, with no preamble and no trailing text.`

const userKeywordExtract = `Extract the key concepts from this paper excerpt:

{{.Excerpt}}`

const systemQueryBuild = `You are an expert at constructing search queries for academic paper databases. Given a list of research concepts, build one concise boolean search expression that would retrieve closely related work. Use at most three boolean operators (AND, OR, ANDNOT). Put multi-word phrases in double quotes. Answer with the query only, no preamble and no explanation.`

const userQueryBuild = `Build a search query from these concepts: {{.Concepts}}`

type kindSpec struct {
	system   *template.Template
	user     *template.Template
	required []string
}

var kinds map[Kind]kindSpec

func init() {
	must := func(name, text string) *template.Template {
		return template.Must(template.New(name).Option("missingkey=error").Parse(text))
	}

	kinds = map[Kind]kindSpec{
		KindSummary: {
			system:   must("summary.system", systemSummary),
			user:     must("summary.user", userSummary),
			required: []string{"Document"},
		},
		KindChat: {
			system:   must("chat.system", systemChat),
			user:     must("chat.user", userChat),
			required: []string{"Document", "Question"},
		},
		KindCitation: {
			system:   must("citation.system", systemCitation),
			user:     must("citation.user", userCitation),
			required: []string{"Document"},
		},
		KindKeywordExtract: {
			system:   must("keyword_extract.system", systemKeywordExtract),
			user:     must("keyword_extract.user", userKeywordExtract),
			required: []string{"Excerpt"},
		},
		KindQueryBuild: {
			system:   must("query_build.system", systemQueryBuild),
			user:     must("query_build.user", userQueryBuild),
			required: []string{"Concepts"},
		},
	}
}

type ErrUnknownKind struct {
	Kind Kind
}

func (e ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown prompt kind '%s'", e.Kind)
}

type ErrMissingVariable struct {
	Kind     Kind
	Variable string
}

func (e ErrMissingVariable) Error() string {
	return fmt.Sprintf("prompt kind '%s' requires variable '%s'", e.Kind, e.Variable)
}

// Prompt is one composed system/user instruction pair.
type Prompt struct {
	System string
	User   string
}

// Compose renders the templates for the given kind. Every required
// variable must be present in vars; extra variables are ignored by kinds
// that do not reference them.
func Compose(kind Kind, vars map[string]string) (*Prompt, error) {
	spec, exists := kinds[kind]
	if !exists {
		return nil, ErrUnknownKind{Kind: kind}
	}

	for _, name := range spec.required {
		if _, ok := vars[name]; !ok {
			return nil, ErrMissingVariable{Kind: kind, Variable: name}
		}
	}

	var sysBuf bytes.Buffer
	if err := spec.system.Execute(&sysBuf, vars); err != nil {
		return nil, fmt.Errorf("failed to render system template for kind '%s': %w", kind, err)
	}

	var userBuf bytes.Buffer
	if err := spec.user.Execute(&userBuf, vars); err != nil {
		return nil, fmt.Errorf("failed to render user template for kind '%s': %w", kind, err)
	}

	return &Prompt{
		System: sysBuf.String(),
		User:   userBuf.String(),
	}, nil
}
