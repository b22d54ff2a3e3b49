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

var personaExecutorDescriptor = "generation.Persona"

func init() {
	exec, err := NewPersonaExecutor()
	if err != nil {
		slog.Error("failed to initialize executor", "name", personaExecutorDescriptor, "err", err)
		return
	}

	err = registry.RegisterExecutor(personaExecutorDescriptor, exec)
	if err != nil {
		slog.Error("failed to register executor", "name", personaExecutorDescriptor)
	}
}

// PersonaExecutor answers free-text questions in the voice of the paper
// itself, strictly from the document content.
type PersonaExecutor struct {
	DefaultLMProvider provider.LM

	operators map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error)
}

func NewPersonaExecutor() (*PersonaExecutor, error) {
	lp, err := provider.DefaultLM()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize default provider: %w", err)
	}

	e := &PersonaExecutor{
		DefaultLMProvider: lp,
	}
	e.operators = map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error){
		"chat": e.chat,
	}
	return e, nil
}

func (e PersonaExecutor) Execute(ctx context.Context, p *executor.ExecutorParams) *executor.ExecutorResult {
	if p.Operator == "" {
		p.Operator = "chat"
	}
	slog.Info("executing", "name", personaExecutorDescriptor, "op", p.Operator, "query", p.GetQuery(), "id", p.GetTaskID())

	opFunc, exists := e.operators[p.Operator]
	if !exists {
		return &executor.ExecutorResult{
			Name:     personaExecutorDescriptor,
			Operator: p.Operator,
			Err: executor.ErrOperatorNotFound{
				ExecutorName: personaExecutorDescriptor,
				OperatorName: p.Operator,
			},
			Values: nil,
		}
	}

	vals, err := opFunc(ctx, p)

	return &executor.ExecutorResult{
		Name:     personaExecutorDescriptor,
		Operator: p.Operator,
		Err:      err,
		Values:   vals,
	}
}

func (e PersonaExecutor) chat(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	// 'chat' requires the following parameter args:
	// document_text - full text of the ingested document
	// optionally:
	// history - previous chat messages for this session
	docText, err := executor.GetTypedArg[string](p, "document_text")
	if err != nil {
		return nil, err
	}

	composed, err := prompt.Compose(prompt.KindChat, map[string]string{
		"Document": docText,
		"Question": p.GetQuery(),
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

	if history, err := executor.GetTypedArg[[]*api.ChatMessage](p, "history"); err == nil {
		req.History = history
	}

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
		"answer": output,
	}, nil
}
