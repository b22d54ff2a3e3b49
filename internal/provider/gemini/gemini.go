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

package gemini

import (
	"context"
	"io"
	"iter"
	"os"

	"google.golang.org/genai"

	"github.com/ayudhap/paperdesk/internal/api"
)

const defaultModel = "gemini-2.0-flash"

type Provider struct {
	client *genai.Client
}

func New() (*Provider, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return nil, api.MissingCredentialError{Vendor: "gemini", Variable: "GEMINI_API_KEY"}
	}

	c, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &Provider{client: c}, nil
}

func (p Provider) Generate(ctx context.Context, req *api.GenerationRequest) (api.CompletionStream, error) {
	temperature := req.Temperature
	config := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}

	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, "")
	}

	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	modelName := defaultModel
	if req.ModelName != "" {
		modelName = req.ModelName
	}

	contents := parseRequestHistory(req.History)
	contents = append(contents, genai.NewContentFromText(req.User, genai.RoleUser))

	i := p.client.Models.GenerateContentStream(ctx, modelName, contents, config)

	next, stop := iter.Pull2(i)
	return &CompletionStream{
		next: next,
		stop: stop,
	}, nil
}

func parseRequestHistory(h []*api.ChatMessage) []*genai.Content {
	roleTypes := map[api.ChatMessageRole]genai.Role{
		api.RoleUser:      genai.RoleUser,
		api.RoleAssistant: genai.RoleModel,
	}

	contents := make([]*genai.Content, len(h))
	for i, m := range h {
		contents[i] = genai.NewContentFromText(m.Content, roleTypes[m.Role])
	}
	return contents
}

type CompletionStream struct {
	next func() (*genai.GenerateContentResponse, error, bool)
	stop func()
}

func (s CompletionStream) Recv() (string, error) {
	res, err, valid := s.next()
	if !valid {
		// iterator is finished
		return "", io.EOF
	}

	if err != nil {
		return "", err
	}

	return res.Text(), nil
}

func (s CompletionStream) Close() error {
	s.stop()
	return nil
}
