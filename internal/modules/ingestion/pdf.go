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

package ingestion

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/ayudhap/paperdesk/internal/executor"
	"github.com/ayudhap/paperdesk/internal/ingest"
	"github.com/ayudhap/paperdesk/internal/registry"
)

var pdfExecutorDescriptor = "ingestion.PDF"

func init() {
	e := NewPDFExecutor()
	err := registry.RegisterExecutor(pdfExecutorDescriptor, e)
	if err != nil {
		slog.Error("failed to register executor", "name", pdfExecutorDescriptor)
	}
}

type PDFExecutor struct {
	operators map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error)
}

func NewPDFExecutor() *PDFExecutor {
	e := &PDFExecutor{}
	e.operators = map[string]func(context.Context, *executor.ExecutorParams) (map[string]any, error){
		"ingest_base64": e.ingestBase64,
	}
	return e
}

func (e PDFExecutor) Execute(ctx context.Context, p *executor.ExecutorParams) *executor.ExecutorResult {
	if p.Operator == "" {
		p.Operator = "ingest_base64"
	}
	slog.Info("executing", "name", pdfExecutorDescriptor, "op", p.Operator, "id", p.GetTaskID())

	opFunc, exists := e.operators[p.Operator]
	if !exists {
		return &executor.ExecutorResult{
			Name:     pdfExecutorDescriptor,
			Operator: p.Operator,
			Err: executor.ErrOperatorNotFound{
				ExecutorName: pdfExecutorDescriptor,
				OperatorName: p.Operator,
			},
			Values: nil,
		}
	}

	vals, err := opFunc(ctx, p)

	return &executor.ExecutorResult{
		Name:     pdfExecutorDescriptor,
		Operator: p.Operator,
		Err:      err,
		Values:   vals,
	}
}

func (e PDFExecutor) ingestBase64(ctx context.Context, p *executor.ExecutorParams) (map[string]any, error) {
	// 'ingest_base64' requires the following parameter args:
	// file_name - name of the uploaded file
	// file_content - base64 encoded file bytes
	fileName, err := executor.GetTypedArg[string](p, "file_name")
	if err != nil {
		return nil, err
	}

	encoded, err := executor.GetTypedArg[string](p, "file_content")
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode file content for '%s': %w", fileName, err)
	}

	windowSize := executor.IntArgOrDefault(p, "window_size", ingest.DefaultWindowSize)
	windowOverlap := executor.IntArgOrDefault(p, "window_overlap", ingest.DefaultWindowOverlap)

	doc, err := ingest.DocumentWindowed(fileName, data, windowSize, windowOverlap)
	if err != nil {
		return nil, err
	}

	slog.Info("ingested document", "name", doc.Name, "pages", len(doc.Pages), "windows", len(doc.Windows))

	return map[string]any{
		"document_name":    doc.Name,
		"document_text":    doc.Text(),
		"document_windows": doc.Windows,
	}, nil
}
