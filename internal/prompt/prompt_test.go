package prompt

import (
	"errors"
	"strings"
	"testing"
)

func TestComposeSummary(t *testing.T) {
	doc := "Attention is all you need. We propose the Transformer."

	p, err := Compose(KindSummary, map[string]string{"Document": doc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := []string{
		"Title:", "Authors:", "Abstract:", "Keywords:", "Research Method:",
		"Publisher:", "Publication Date:", "Conclusion:", "DOI:",
	}
	for _, f := range fields {
		if !strings.Contains(p.User, f) {
			t.Errorf("summary user prompt missing field label %q", f)
		}
	}

	if !strings.Contains(p.User, doc) {
		t.Error("summary user prompt does not include the document text")
	}
	if !strings.Contains(p.System, "Unknown") {
		t.Error("summary system prompt does not state the Unknown sentinel")
	}
}

func TestComposeChat(t *testing.T) {
	p, err := Compose(KindChat, map[string]string{
		"Document": "the paper text",
		"Question": "What is your main contribution?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(p.System, RefusalSentence) {
		t.Error("chat system prompt does not carry the refusal sentence")
	}
	if !strings.Contains(p.System, "the paper text") {
		t.Error("chat system prompt does not embed the document")
	}
	if p.User != "What is your main contribution?" {
		t.Errorf("unexpected chat user prompt: %q", p.User)
	}
}

func TestComposeCitationStyles(t *testing.T) {
	p, err := Compose(KindCitation, map[string]string{"Document": "some paper"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	styles := []string{"APA", "MLA", "Harvard", "IEEE", "Chicago", "Vancouver", "AMA"}
	for _, s := range styles {
		if !strings.Contains(p.System, s) {
			t.Errorf("citation system prompt missing style %q", s)
		}
	}
	if !strings.Contains(p.System, "**APA Style**") {
		t.Error("citation system prompt missing the marker format example")
	}
}

func TestComposeMissingVariable(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		vars    map[string]string
		missing string
	}{
		{"summary no document", KindSummary, map[string]string{}, "Document"},
		{"chat no question", KindChat, map[string]string{"Document": "d"}, "Question"},
		{"citation nil vars", KindCitation, nil, "Document"},
		{"extract no excerpt", KindKeywordExtract, map[string]string{}, "Excerpt"},
		{"query no concepts", KindQueryBuild, map[string]string{}, "Concepts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compose(tt.kind, tt.vars)
			var missingErr ErrMissingVariable
			if !errors.As(err, &missingErr) {
				t.Fatalf("expected ErrMissingVariable, got %v", err)
			}
			if missingErr.Variable != tt.missing {
				t.Errorf("expected missing variable %q, got %q", tt.missing, missingErr.Variable)
			}
		})
	}
}

func TestComposeUnknownKind(t *testing.T) {
	_, err := Compose(Kind("translate"), map[string]string{})
	var unknownErr ErrUnknownKind
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestComposeQueryBuild(t *testing.T) {
	concepts := "lung cancer detection, CT scan images, CNN deep learning model"

	p, err := Compose(KindQueryBuild, map[string]string{"Concepts": concepts})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(p.User, concepts) {
		t.Error("query build user prompt does not include the concept list")
	}
	if !strings.Contains(p.System, "three boolean operators") {
		t.Error("query build system prompt does not bound the operator count")
	}
}
