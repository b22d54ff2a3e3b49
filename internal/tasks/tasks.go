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

// Package tasks defines the queued task types and the worker-side handler
// that maps each task onto its workflow.
package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/ayudhap/paperdesk/internal/api"
)

const (
	TypeUpload   = "paperdesk:upload"
	TypeChat     = "paperdesk:chat"
	TypeCitation = "paperdesk:citation"
	TypeRelated  = "paperdesk:related"
)

const (
	DefaultWorkflowUpload   = "upload"
	DefaultWorkflowChat     = "chat"
	DefaultWorkflowCitation = "citation"
	DefaultWorkflowRelated  = "related"
)

type uploadTaskPayload struct {
	SessionID   string
	FileName    string
	FileContent string // base64 encoded
	Args        map[string]string
}

type chatTaskPayload struct {
	SessionID string
	Query     string
	History   []*api.ChatMessage
	Args      map[string]string
}

type citationTaskPayload struct {
	SessionID string
	Args      map[string]string
}

type relatedTaskPayload struct {
	SessionID string
	Args      map[string]string
}

// NewUploadTask enqueues a document for ingestion and summarization.
// fileContent carries the base64 encoded PDF bytes.
func NewUploadTask(sessionID, fileName, fileContent string) (*asynq.Task, error) {
	payload, err := json.Marshal(uploadTaskPayload{
		SessionID:   sessionID,
		FileName:    fileName,
		FileContent: fileContent,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeUpload, payload), nil
}

func NewChatTask(sessionID, query string, history []*api.ChatMessage) (*asynq.Task, error) {
	payload, err := json.Marshal(chatTaskPayload{
		SessionID: sessionID,
		Query:     query,
		History:   history,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeChat, payload), nil
}

func NewCitationTask(sessionID string) (*asynq.Task, error) {
	payload, err := json.Marshal(citationTaskPayload{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCitation, payload), nil
}

func NewRelatedTask(sessionID string) (*asynq.Task, error) {
	payload, err := json.Marshal(relatedTaskPayload{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRelated, payload), nil
}
