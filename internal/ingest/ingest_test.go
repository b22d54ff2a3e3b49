package ingest

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/ayudhap/paperdesk/internal/api"
)

func TestSplitWindows(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
		want    []string
	}{
		{
			name: "empty text",
			text: "", size: 10, overlap: 2,
			want: nil,
		},
		{
			name: "shorter than window",
			text: "abc", size: 10, overlap: 2,
			want: []string{"abc"},
		},
		{
			name: "exact window size",
			text: "abcde", size: 5, overlap: 2,
			want: []string{"abcde"},
		},
		{
			name: "two windows with overlap",
			text: "abcdefgh", size: 5, overlap: 2,
			want: []string{"abcde", "defgh"},
		},
		{
			name: "three windows",
			text: "abcdefghijk", size: 5, overlap: 2,
			want: []string{"abcde", "defgh", "ghijk"},
		},
		{
			name: "zero overlap",
			text: "abcdef", size: 3, overlap: 0,
			want: []string{"abc", "def"},
		},
		{
			name: "overlap clamped when not smaller than size",
			text: "abcdef", size: 3, overlap: 3,
			want: []string{"abc", "def"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitWindows(tt.text, tt.size, tt.overlap)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d windows, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("window %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestSplitWindowsOverlapInvariant(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 400)
	size, overlap := 4000, 200

	windows := SplitWindows(text, size, overlap)
	if len(windows) < 2 {
		t.Fatalf("expected multiple windows, got %d", len(windows))
	}

	for i := 1; i < len(windows); i++ {
		prev := []rune(windows[i-1])
		tail := string(prev[len(prev)-overlap:])
		if !strings.HasPrefix(windows[i], tail) {
			t.Errorf("window %d does not start with the %d-rune tail of window %d", i, overlap, i-1)
		}
	}
}

func TestSplitWindowsDeterministic(t *testing.T) {
	text := strings.Repeat("determinism matters ", 500)

	a := SplitWindows(text, 4000, 200)
	b := SplitWindows(text, 4000, 200)

	if len(a) != len(b) {
		t.Fatalf("window counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("window %d differs between runs", i)
		}
	}
}

func TestDocumentLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)

	if _, err := Document("garbage.pdf", []byte("this is not a pdf file")); err == nil {
		t.Fatal("expected an error for garbage input")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no staged files left behind, found %d", len(entries))
	}
}

func TestDocumentRejectsGarbage(t *testing.T) {
	_, err := Document("garbage.pdf", []byte("this is not a pdf file"))

	var unreadable api.UnreadableDocumentError
	if !errors.As(err, &unreadable) {
		t.Fatalf("expected UnreadableDocumentError, got %v", err)
	}
	if unreadable.Name != "garbage.pdf" {
		t.Errorf("expected document name in error, got %q", unreadable.Name)
	}
}
