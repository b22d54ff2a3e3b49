package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ayudhap/paperdesk/internal/api"
	"github.com/ayudhap/paperdesk/internal/executor"
	"github.com/ayudhap/paperdesk/internal/registry"
	"github.com/ayudhap/paperdesk/internal/transport"
)

type TaskHandler struct {
	transport transport.Transport
}

func NewTaskHandler(transport transport.Transport) *TaskHandler {
	return &TaskHandler{
		transport: transport,
	}
}

func (h TaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var query, workflowId, sessionID string
	args := make(map[string]any)

	// session-bound tasks need the ingested document restored from the
	// session before their workflow can run
	needsSession := false

	switch t.Type() {
	case TypeUpload:
		var p uploadTaskPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return err
		}
		slog.Info("received upload task", "session", p.SessionID, "file", p.FileName)

		for k, v := range p.Args {
			args[k] = v
		}
		args["file_name"] = p.FileName
		args["file_content"] = p.FileContent
		sessionID = p.SessionID
		workflowId = DefaultWorkflowUpload

	case TypeChat:
		var p chatTaskPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return err
		}
		slog.Info("received chat task", "session", p.SessionID, "query", p.Query)

		for k, v := range p.Args {
			args[k] = v
		}
		if len(p.History) > 0 {
			args["history"] = p.History
		}
		query = p.Query
		sessionID = p.SessionID
		workflowId = DefaultWorkflowChat
		needsSession = true

	case TypeCitation:
		var p citationTaskPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return err
		}
		slog.Info("received citation task", "session", p.SessionID)

		for k, v := range p.Args {
			args[k] = v
		}
		sessionID = p.SessionID
		workflowId = DefaultWorkflowCitation
		needsSession = true

	case TypeRelated:
		var p relatedTaskPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return err
		}
		slog.Info("received related work task", "session", p.SessionID)

		for k, v := range p.Args {
			args[k] = v
		}
		sessionID = p.SessionID
		workflowId = DefaultWorkflowRelated
		needsSession = true

	default:
		return fmt.Errorf("unrecognized task type (%w)", asynq.SkipRetry)
	}

	id := t.ResultWriter().TaskID()
	ms, err := h.transport.GetMessageStream(id)
	if err != nil {
		slog.Error("failed to initialize message stream", "err", err)
		return fmt.Errorf("failed to initialize message stream: %v (%w)", err, asynq.SkipRetry)
	}

	if needsSession {
		session, err := h.transport.GetSession(ctx, sessionID)
		if errors.Is(err, transport.ErrSessionNotFound) {
			ms.Send(ctx, transport.MessageStreamPayload{
				Content: "no document uploaded for this session",
				Status:  transport.StatusErr,
			})
			return fmt.Errorf("session '%s' not found (%w)", sessionID, asynq.SkipRetry)
		}
		if err != nil {
			return err
		}

		args["document_name"] = session.FileName
		args["document_text"] = session.DocumentText
		if session.Summary != "" {
			args["summary"] = session.Summary
		}
	}

	trace := &transport.RequestTrace{
		ID:        id,
		Status:    transport.TraceStatusRunning,
		StartedAt: time.Now().UnixNano(),
		Query:     query,
		SessionID: sessionID,
	}
	if err := h.transport.SetTrace(ctx, trace); err != nil {
		slog.Error("failed to set trace", "id", id, "err", err)
	}

	workflow, err := registry.GetWorkflow(workflowId)
	if err != nil {
		errf := fmt.Errorf("workflow not found: %v (%w)", err, asynq.SkipRetry)
		slog.Error("workflow not found", "workflowId", workflowId, "err", err)
		ms.Send(ctx, transport.MessageStreamPayload{
			Content: "workflow not found",
			Status:  transport.StatusErr,
		})

		h.completeTrace(ctx, trace, transport.TraceStatusFailed)
		return errf
	}

	params := executor.NewExecutorParams(
		id,
		query,
		executor.WithTransport(h.transport),
		executor.WithArgs(args),
	)

	res := workflow.Execute(ctx, params)
	if res.Err != nil {
		ms.Send(ctx, transport.MessageStreamPayload{
			Content: userMessage(res.Err),
			Status:  transport.StatusErr,
		})

		h.completeTrace(ctx, trace, transport.TraceStatusFailed)
		return fmt.Errorf("workflow execution failed: %v (%w)", res.Err, asynq.SkipRetry)
	}

	if t.Type() == TypeUpload {
		h.storeSession(ctx, sessionID, args, res)
	}

	err = ms.Send(ctx, transport.MessageStreamPayload{
		Content: "task finished",
		Status:  transport.StatusDone,
	})
	if err != nil {
		slog.Warn("failed to write DONE message to stream", "id", id)
	}

	h.completeTrace(ctx, trace, transport.TraceStatusCompleted)
	return nil
}

// userMessage maps a failed workflow's error to the text shown to the
// user. Typed domain errors carry human readable detail; anything else
// stays generic.
func userMessage(err error) string {
	var unreadable api.UnreadableDocumentError
	if errors.As(err, &unreadable) {
		return unreadable.Error()
	}

	var unavailable api.GenerationUnavailableError
	if errors.As(err, &unavailable) {
		return "text generation is currently unavailable, please try again"
	}

	return "workflow execution failed"
}

// storeSession persists the ingested document and its summary. A
// re-upload overwrites the previous session state.
func (h TaskHandler) storeSession(ctx context.Context, sessionID string, args map[string]any, res *executor.ExecutorResult) {
	docText, _ := args["document_text"].(string)
	docName, _ := args["document_name"].(string)
	summary, _ := executor.GetTypedResult[string](res, "summary")

	session := &transport.Session{
		ID:           sessionID,
		FileName:     docName,
		DocumentText: docText,
		Summary:      summary,
	}
	if err := h.transport.SetSession(ctx, session); err != nil {
		slog.Error("failed to store session", "session", sessionID, "err", err)
	}
}

func (h TaskHandler) completeTrace(ctx context.Context, trace *transport.RequestTrace, status int) {
	trace.CompletedAt = time.Now().UnixNano()
	trace.Status = status
	if err := h.transport.SetTrace(ctx, trace); err != nil {
		slog.Error("failed to set trace", "id", trace.ID, "err", err)
	}
}
