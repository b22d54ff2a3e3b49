package tasks

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ayudhap/paperdesk/internal/api"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unreadable document names the file",
			err:  api.UnreadableDocumentError{Name: "scan.pdf"},
			want: "document 'scan.pdf' has no extractable text layer",
		},
		{
			name: "unreadable document found through a wrapped chain",
			err:  fmt.Errorf("node failed: %w", api.UnreadableDocumentError{Name: "scan.pdf"}),
			want: "document 'scan.pdf' has no extractable text layer",
		},
		{
			name: "generation unavailable hides the vendor cause",
			err:  api.GenerationUnavailableError{Cause: errors.New("connection refused")},
			want: "text generation is currently unavailable, please try again",
		},
		{
			name: "unclassified error stays generic",
			err:  errors.New("redis gone"),
			want: "workflow execution failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := userMessage(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
