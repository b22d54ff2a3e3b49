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

var citationExecutorDescriptor = "generation.Citation"

func init() {
	exec, err := NewCitationExecutor()
	if err != nil {
		slog.Error("failed to initialize executor", "name", citationExecutorDescriptor, "err", err)
		return
	}

	err = registry.RegisterExecutor(citationExecutorDescriptor, exec)
	if err != nil {
		slog.Error("failed to register executor", "name", citationExecutorDescriptor)
	}
}

type CitationExecutor struct {
	DefaultLMProvider provider.LM

	operators map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error)
}

func NewCitationExecutor() (*CitationExecutor, error) {
	lp, err := provider.DefaultLM()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize default provider: %w", err)
	}

	e := &CitationExecutor{
		DefaultLMProvider: lp,
	}
	e.operators = map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error){
		"cite": e.cite,
	}
	return e, nil
}

func (e CitationExecutor) Execute(ctx context.Context, p *executor.ExecutorParams) *executor.ExecutorResult {
	if p.Operator == "" {
		p.Operator = "cite"
	}
	slog.Info("executing", "name", citationExecutorDescriptor, "op", p.Operator, "id", p.GetTaskID())

	opFunc, exists := e.operators[p.Operator]
	if !exists {
		return &executor.ExecutorResult{
			Name:     citationExecutorDescriptor,
			Operator: p.Operator,
			Err: executor.ErrOperatorNotFound{
				ExecutorName: citationExecutorDescriptor,
				OperatorName: p.Operator,
			},
			Values: nil,
		}
	}

	vals, err := opFunc(ctx, p)

	return &executor.ExecutorResult{
		Name:     citationExecutorDescriptor,
		Operator: p.Operator,
		Err:      err,
		Values:   vals,
	}
}

func (e CitationExecutor) cite(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	// 'cite' requires the following parameter args:
	// document_text - full text of the ingested document
	docText, err := executor.GetTypedArg[string](p, "document_text")
	if err != nil {
		return nil, err
	}

	composed, err := prompt.Compose(prompt.KindCitation, map[string]string{
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
		"citations": output,
	}, nil
}
