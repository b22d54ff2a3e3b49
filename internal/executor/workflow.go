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

package executor

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
)

// propagatedValues are the result keys a node may emit to make its output
// available as an argument to every later node in the workflow.
var propagatedValues = []string{
	"document_name",
	"document_text",
	"summary",
	"concepts",
	"search_query",
}

type WorkflowNode struct {
	executor Executor
	operator string
	args     map[string]any
}

func NewWorkflowNode(executor Executor, operator string, args map[string]any) WorkflowNode {
	node := WorkflowNode{
		executor: executor,
		operator: operator,
		args:     args,
	}
	return node
}

func (n *WorkflowNode) Execute(ctx context.Context, params *ExecutorParams) *ExecutorResult {
	return n.executor.Execute(ctx, params)
}

// Workflow is a strictly sequential chain of executor nodes. Each node
// runs to completion before the next starts; values emitted under the
// propagated keys flow forward as arguments.
type Workflow struct {
	identifier  string
	description string

	nodes []WorkflowNode
}

func NewWorkflow(identifier string, description string, nodes []WorkflowNode) *Workflow {
	workflow := &Workflow{
		identifier:  identifier,
		description: description,
		nodes:       nodes,
	}
	return workflow
}

func (w *Workflow) Identifier() string {
	return w.identifier
}

func (w *Workflow) Description() string {
	return w.description
}

// Execute runs the workflow nodes in order, stopping at the first failed
// node and returning its result. On success the final node's result is
// returned.
func (w *Workflow) Execute(ctx context.Context, params *ExecutorParams) *ExecutorResult {
	slog.Info("executing workflow", "workflowId", w.identifier, "id", params.GetTaskID())

	var result *ExecutorResult
	for nodeIdx := 0; nodeIdx < len(w.nodes); nodeIdx++ {
		node := w.nodes[nodeIdx]
		nodeParams := params.Copy()
		nodeParams.Operator = node.operator
		maps.Copy(nodeParams.Args, node.args)

		result = node.executor.Execute(ctx, nodeParams)

		if result.Err != nil {
			slog.Error("failed to execute node", "workflowId", w.identifier,
				"error", fmt.Sprintf("(%T): %v", result.Err, result.Err))
			return result
		}

		for _, key := range propagatedValues {
			if val, ok := result.Values[key]; ok {
				params.Args[key] = val
			}
		}

		if queryTransformed, ok := result.Values["query_transformed"].(string); ok {
			// node executor returned a new transformed query,
			// set it as new query in params
			params = params.WithQuery(queryTransformed)
		}
	}

	if result == nil {
		return &ExecutorResult{Name: w.identifier}
	}

	return result
}
