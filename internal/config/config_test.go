package config

import (
	"context"
	"errors"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ayudhap/paperdesk/internal/executor"
	"github.com/ayudhap/paperdesk/internal/registry"
)

type noopExecutor struct{}

func (noopExecutor) Execute(ctx context.Context, params *executor.ExecutorParams) *executor.ExecutorResult {
	return &executor.ExecutorResult{Name: "noop", Operator: params.Operator}
}

const sampleConfig = `
workflows:
  related:
    description: "related work retrieval"
    nodes:
      - module: "test.Noop"
        operator: "extract"
      - module: "test.Noop"
        operator: "search"
        args:
          limit: 7
          min_score: 2
`

func TestParseWorkflows(t *testing.T) {
	if err := registry.RegisterExecutor("test.Noop", noopExecutor{}); err != nil {
		t.Fatalf("failed to register test executor: %v", err)
	}

	var wc WorkflowConfig
	if err := yaml.Unmarshal([]byte(sampleConfig), &wc); err != nil {
		t.Fatalf("failed to parse yaml: %v", err)
	}

	workflows, err := ParseWorkflows(wc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wf, ok := workflows["related"]
	if !ok {
		t.Fatal("expected workflow 'related'")
	}
	if wf.Identifier() != "related" {
		t.Errorf("unexpected identifier: %q", wf.Identifier())
	}
	if wf.Description() != "related work retrieval" {
		t.Errorf("unexpected description: %q", wf.Description())
	}
}

func TestParseWorkflowsUnknownModule(t *testing.T) {
	wc := WorkflowConfig{
		Workflows: map[string]Workflow{
			"broken": {
				Nodes: []WorkflowNode{{Module: "does.NotExist"}},
			},
		},
	}

	_, err := ParseWorkflows(wc)
	if !errors.Is(err, ErrInvalidExecutor) {
		t.Fatalf("expected ErrInvalidExecutor, got %v", err)
	}
}

func TestParseWorkflowsEmptyNodes(t *testing.T) {
	wc := WorkflowConfig{
		Workflows: map[string]Workflow{
			"empty": {},
		},
	}

	_, err := ParseWorkflows(wc)
	if !errors.Is(err, ErrNodeMissingChildren) {
		t.Fatalf("expected ErrNodeMissingChildren, got %v", err)
	}
}
