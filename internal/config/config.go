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

// Package config reads the workflow definition file and turns it into
// executable workflows. Workflows are strictly sequential node chains.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ayudhap/paperdesk/internal/executor"
	"github.com/ayudhap/paperdesk/internal/registry"
)

var (
	ErrNodeMissingChildren = errors.New("workflow must contain at least one node")
	ErrInvalidExecutor     = errors.New("invalid executor")
)

func ReadWorkflowConfig(path string) (WorkflowConfig, error) {
	var wc WorkflowConfig

	file, err := os.ReadFile(path)
	if err != nil {
		return wc, fmt.Errorf("failed to read workflow config '%s': %w", path, err)
	}

	if err := yaml.Unmarshal(file, &wc); err != nil {
		return wc, fmt.Errorf("failed to parse workflow config '%s': %w", path, err)
	}

	return wc, nil
}

func ParseWorkflows(conf WorkflowConfig) (map[string]*executor.Workflow, error) {
	workflows := make(map[string]*executor.Workflow)

	for name, cw := range conf.Workflows {
		nodes, err := parseWorkflowNodes(cw.Nodes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse nodes of workflow '%s': %w", name, err)
		}

		workflows[name] = executor.NewWorkflow(name, cw.Description, nodes)
	}

	return workflows, nil
}

func parseWorkflowNodes(nodes []WorkflowNode) ([]executor.WorkflowNode, error) {
	if len(nodes) == 0 {
		return nil, ErrNodeMissingChildren
	}

	execNodes := make([]executor.WorkflowNode, 0, len(nodes))
	for _, cnode := range nodes {
		exec, err := registry.GetExecutor(cnode.Module)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExecutor, err)
		}

		execNodes = append(execNodes, executor.NewWorkflowNode(exec, cnode.Operator, cnode.Args))
	}

	return execNodes, nil
}
