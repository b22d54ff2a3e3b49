package executor

import (
	"context"
	"errors"
	"testing"
)

// fakeExecutor records the params it was called with and returns a canned
// result.
type fakeExecutor struct {
	name   string
	values map[string]any
	err    error

	gotParams *ExecutorParams
}

func (f *fakeExecutor) Execute(ctx context.Context, params *ExecutorParams) *ExecutorResult {
	f.gotParams = params
	return &ExecutorResult{
		Name:     f.name,
		Operator: params.Operator,
		Err:      f.err,
		Values:   f.values,
	}
}

func TestWorkflowPropagatesValues(t *testing.T) {
	first := &fakeExecutor{
		name: "first",
		values: map[string]any{
			"document_text": "full text of the paper",
			"concepts":      "lung cancer detection, CT scan images",
		},
	}
	second := &fakeExecutor{name: "second", values: map[string]any{}}

	w := NewWorkflow("test", "", []WorkflowNode{
		NewWorkflowNode(first, "ingest", nil),
		NewWorkflowNode(second, "extract", nil),
	})

	params := NewExecutorParams("task-1", "a query")
	res := w.Execute(context.Background(), params)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}

	got, err := GetTypedArg[string](second.gotParams, "document_text")
	if err != nil {
		t.Fatalf("second node missing document_text: %v", err)
	}
	if got != "full text of the paper" {
		t.Errorf("unexpected document_text: %q", got)
	}

	concepts, err := GetTypedArg[string](second.gotParams, "concepts")
	if err != nil {
		t.Fatalf("second node missing concepts: %v", err)
	}
	if concepts != "lung cancer detection, CT scan images" {
		t.Errorf("unexpected concepts: %q", concepts)
	}
}

func TestWorkflowQueryTransformed(t *testing.T) {
	first := &fakeExecutor{
		name:   "first",
		values: map[string]any{"query_transformed": "rewritten"},
	}
	second := &fakeExecutor{name: "second"}

	w := NewWorkflow("test", "", []WorkflowNode{
		NewWorkflowNode(first, "", nil),
		NewWorkflowNode(second, "", nil),
	})

	w.Execute(context.Background(), NewExecutorParams("task-1", "original"))

	if second.gotParams.GetQuery() != "rewritten" {
		t.Errorf("expected transformed query, got %q", second.gotParams.GetQuery())
	}
	if first.gotParams.GetQuery() != "original" {
		t.Errorf("first node should see the original query, got %q", first.gotParams.GetQuery())
	}
}

func TestWorkflowStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	first := &fakeExecutor{name: "first", err: boom}
	second := &fakeExecutor{name: "second"}

	w := NewWorkflow("test", "", []WorkflowNode{
		NewWorkflowNode(first, "", nil),
		NewWorkflowNode(second, "", nil),
	})

	res := w.Execute(context.Background(), NewExecutorParams("task-1", "q"))

	if !errors.Is(res.Err, boom) {
		t.Fatalf("expected node error, got %v", res.Err)
	}
	if second.gotParams != nil {
		t.Error("second node must not run after a failure")
	}
}

func TestWorkflowNodeArgs(t *testing.T) {
	node := &fakeExecutor{name: "node"}

	w := NewWorkflow("test", "", []WorkflowNode{
		NewWorkflowNode(node, "search", map[string]any{"limit": 7}),
	})

	w.Execute(context.Background(), NewExecutorParams("task-1", "q"))

	if node.gotParams.Operator != "search" {
		t.Errorf("expected operator from node config, got %q", node.gotParams.Operator)
	}
	limit, err := GetTypedArg[int](node.gotParams, "limit")
	if err != nil || limit != 7 {
		t.Errorf("expected node arg limit=7, got %v (%v)", limit, err)
	}
}

func TestGetTypedArgErrors(t *testing.T) {
	p := NewExecutorParams("t", "q", WithArgs(map[string]any{"limit": "not an int"}))

	_, err := GetTypedArg[int](p, "missing")
	var argMissing ErrArgMissing
	if !errors.As(err, &argMissing) {
		t.Fatalf("expected ErrArgMissing, got %v", err)
	}

	_, err = GetTypedArg[int](p, "limit")
	var badType ErrInvalidArgumentType
	if !errors.As(err, &badType) {
		t.Fatalf("expected ErrInvalidArgumentType, got %v", err)
	}
	if badType.Expected != "int" || badType.Received != "string" {
		t.Errorf("unexpected type names: %+v", badType)
	}
}
