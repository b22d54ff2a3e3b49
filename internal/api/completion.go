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

package api

import (
	"context"
	"errors"
	"io"
)

const (
	// DefaultTemperature keeps completions leaning deterministic.
	DefaultTemperature float32 = 0.3

	// DefaultMaxTokens bounds the length of a single completion.
	DefaultMaxTokens = 4000
)

// GenerationRequest describes one instruction pair sent to a language model.
type GenerationRequest struct {
	// Required
	System string
	User   string

	// Optional params
	ModelName   string
	Temperature float32
	MaxTokens   int
	History     []*ChatMessage
}

func FromInstructions(system, user string) *GenerationRequest {
	return &GenerationRequest{
		System:      system,
		User:        user,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
}

type CompletionStream interface {
	Recv() (string, error)
	Close() error
}

type completionStreamPayload struct {
	content string
	err     error
}

// StreamReadAll receives from a completion stream accumulating the results
// and returning the streamed chunks as a whole. Errors received from the
// CompletionStream are returned together with the content accumulated so
// far. Calling this function will always close the underlying stream.
func StreamReadAll(ctx context.Context, stream CompletionStream) (string, error) {
	defer stream.Close()
	dataChan := make(chan completionStreamPayload)

	go func() {
		defer close(dataChan)

		for {
			chunk, err := stream.Recv()

			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				dataChan <- completionStreamPayload{err: err}
				return
			}

			dataChan <- completionStreamPayload{content: chunk}
		}
	}()

	var acc string

	for {
		select {
		case <-ctx.Done():
			return acc, ctx.Err()
		case payload, ok := <-dataChan:
			if !ok {
				// data stream closed
				return acc, nil
			}

			if payload.err != nil {
				return acc, payload.err
			}

			acc += payload.content
		}
	}
}
