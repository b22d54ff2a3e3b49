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

// Package openai implements the language model provider for any
// OpenAI-compatible chat completion endpoint. Setting OPENAI_BASE_URL
// points it at a gateway such as OpenRouter.
package openai

import (
	"context"
	"os"

	"github.com/sashabaranov/go-openai"

	"github.com/ayudhap/paperdesk/internal/api"
)

const defaultModel = "openai/gpt-4o-mini"

type Provider struct {
	client *openai.Client
}

func New() (*Provider, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, api.MissingCredentialError{Vendor: "openai", Variable: "OPENAI_API_KEY"}
	}

	config := openai.DefaultConfig(key)
	if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
		config.BaseURL = base
	}

	return &Provider{
		client: openai.NewClientWithConfig(config),
	}, nil
}

func (p Provider) Generate(ctx context.Context, req *api.GenerationRequest) (api.CompletionStream, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)

	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	messages = append(messages, p.parseRequestHistory(req.History)...)

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	openaiReq := openai.ChatCompletionRequest{
		Model:       defaultModel,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages:    messages,
		Stream:      true,
	}

	if req.ModelName != "" {
		openaiReq.Model = req.ModelName
	}

	s, err := p.client.CreateChatCompletionStream(ctx, openaiReq)
	if err != nil {
		return nil, err
	}

	return &ChatStream{stream: s}, nil
}

func (p Provider) parseRequestHistory(h []*api.ChatMessage) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, len(h))
	for i, m := range h {
		msgs[i] = openai.ChatCompletionMessage{
			Role:    m.Role.String(),
			Content: m.Content,
		}
	}
	return msgs
}

type ChatStream struct {
	stream *openai.ChatCompletionStream
}

func (s ChatStream) Recv() (string, error) {
	res, err := s.stream.Recv()
	if err != nil {
		return "", err
	}

	return res.Choices[0].Delta.Content, nil
}

func (s ChatStream) Close() error {
	return s.stream.Close()
}
