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

// Package generation hosts the executors that turn document text into
// model-generated artifacts: the structured summary, the paper persona
// chat and the citation set.
package generation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ayudhap/paperdesk/internal/api"
	"github.com/ayudhap/paperdesk/internal/executor"
	"github.com/ayudhap/paperdesk/internal/prompt"
	"github.com/ayudhap/paperdesk/internal/provider"
	"github.com/ayudhap/paperdesk/internal/registry"
	"github.com/ayudhap/paperdesk/internal/transport"
)

var summaryExecutorDescriptor = "generation.Summary"

func init() {
	exec, err := NewSummaryExecutor()
	if err != nil {
		slog.Error("failed to initialize executor", "name", summaryExecutorDescriptor, "err", err)
		return
	}

	err = registry.RegisterExecutor(summaryExecutorDescriptor, exec)
	if err != nil {
		slog.Error("failed to register executor", "name", summaryExecutorDescriptor)
	}
}

type SummaryExecutor struct {
	DefaultLMProvider provider.LM

	operators map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error)
}

func NewSummaryExecutor() (*SummaryExecutor, error) {
	lp, err := provider.DefaultLM()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize default provider: %w", err)
	}

	e := &SummaryExecutor{
		DefaultLMProvider: lp,
	}
	e.operators = map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error){
		"summarize": e.summarize,
	}
	return e, nil
}

func (e SummaryExecutor) Execute(ctx context.Context, p *executor.ExecutorParams) *executor.ExecutorResult {
	if p.Operator == "" {
		p.Operator = "summarize"
	}
	slog.Info("executing", "name", summaryExecutorDescriptor, "op", p.Operator, "id", p.GetTaskID())

	opFunc, exists := e.operators[p.Operator]
	if !exists {
		return &executor.ExecutorResult{
			Name:     summaryExecutorDescriptor,
			Operator: p.Operator,
			Err: executor.ErrOperatorNotFound{
				ExecutorName: summaryExecutorDescriptor,
				OperatorName: p.Operator,
			},
			Values: nil,
		}
	}

	vals, err := opFunc(ctx, p)

	return &executor.ExecutorResult{
		Name:     summaryExecutorDescriptor,
		Operator: p.Operator,
		Err:      err,
		Values:   vals,
	}
}

func (e SummaryExecutor) summarize(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	// 'summarize' requires the following parameter args:
	// document_text - full text of the ingested document
	docText, err := executor.GetTypedArg[string](p, "document_text")
	if err != nil {
		return nil, err
	}

	composed, err := prompt.Compose(prompt.KindSummary, map[string]string{
		"Document": docText,
	})
	if err != nil {
		return nil, err
	}

	msgStream, err := p.Transport.GetMessageStream(p.GetTaskID())
	if err != nil {
		return nil, fmt.Errorf("failed to create message stream: %w", err)
	}

	req := api.FromInstructions(composed.System, composed.User)
	req.ModelName = modelNameArg(p)

	stream, err := e.DefaultLMProvider.Generate(ctx, req)
	if err != nil {
		slog.Warn("error creating completion stream, cancelling task", "id", p.GetTaskID())
		msgStream.Send(ctx, transport.MessageStreamPayload{
			Content: "something went wrong",
			Status:  transport.StatusErr,
		})
		return nil, api.GenerationUnavailableError{Cause: err}
	}
	defer stream.Close()

	output, err := transport.ProcessCompletionStream(ctx, msgStream, stream)
	if err != nil {
		return nil, api.GenerationUnavailableError{Cause: err}
	}

	return map[string]any{
		"summary": output,
	}, nil
}

// modelNameArg reads the optional 'model' node argument.
func modelNameArg(p *executor.ExecutorParams) string {
	if model, err := executor.GetTypedArg[string](p, "model"); err == nil {
		return model
	}
	return ""
}
