package cohere

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	coherecore "github.com/cohere-ai/cohere-go/v2/core"

	"github.com/ayudhap/paperdesk/internal/api"
)

const defaultModel = "command-r-08-2024"

type Provider struct {
	client *cohereclient.Client
}

func New() (*Provider, error) {
	key := os.Getenv("COHERE_API_KEY")
	if key == "" {
		return nil, api.MissingCredentialError{Vendor: "cohere", Variable: "COHERE_API_KEY"}
	}

	c := cohereclient.NewClient(
		cohereclient.WithToken(key),
		cohereclient.WithHTTPClient(
			&http.Client{
				Timeout: 60 * time.Second,
			},
		),
	)
	return &Provider{client: c}, nil
}

func (p Provider) Generate(ctx context.Context, req *api.GenerationRequest) (api.CompletionStream, error) {
	temp := float64(req.Temperature)
	cohereReq := &cohere.V2ChatStreamRequest{
		Model:       defaultModel,
		Temperature: &temp,
	}

	if req.ModelName != "" {
		cohereReq.Model = req.ModelName
	}

	if req.MaxTokens > 0 {
		maxTokens := req.MaxTokens
		cohereReq.MaxTokens = &maxTokens
	}

	if req.System != "" {
		cohereReq.Messages = append(cohereReq.Messages, &cohere.ChatMessageV2{
			Role: "system",
			System: &cohere.SystemMessage{Content: &cohere.SystemMessageContent{
				String: req.System,
			}},
		})
	}

	history := p.parseRequestHistory(req.History)
	if len(history) > 0 {
		cohereReq.Messages = append(cohereReq.Messages, history...)
	}

	cohereReq.Messages = append(cohereReq.Messages, &cohere.ChatMessageV2{
		Role: "user",
		User: &cohere.UserMessage{Content: &cohere.UserMessageContent{
			String: req.User,
		}},
	})

	stream, err := p.client.V2.ChatStream(ctx, cohereReq)
	if err != nil {
		return nil, fmt.Errorf("chat streaming request failed: %w", err)
	}

	return &CompletionStream{stream: stream}, nil
}

func (p Provider) parseRequestHistory(h []*api.ChatMessage) cohere.ChatMessages {
	messages := make([]*cohere.ChatMessageV2, 0, len(h))
	for _, chatMsg := range h {
		var coMsg *cohere.ChatMessageV2
		switch chatMsg.Role {
		case api.RoleUser:
			coMsg = &cohere.ChatMessageV2{
				Role: "user",
				User: &cohere.UserMessage{Content: &cohere.UserMessageContent{
					String: chatMsg.Content,
				}},
			}
		case api.RoleAssistant:
			coMsg = &cohere.ChatMessageV2{
				Role: "assistant",
				Assistant: &cohere.AssistantMessage{Content: &cohere.AssistantMessageContent{
					String: chatMsg.Content,
				}},
			}
		default:
			slog.Warn("failed to parse chat message from history", "role", chatMsg.Role, "err", "unrecognized role")
			continue
		}

		messages = append(messages, coMsg)
	}

	return messages
}

type CompletionStream struct {
	stream *coherecore.Stream[cohere.StreamedChatResponseV2]
}

func (s CompletionStream) Recv() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if err != nil {
			return "", err
		}

		if resp.ContentDelta != nil {
			return *resp.ContentDelta.Delta.Message.Content.Text, nil
		}
	}
}

func (s CompletionStream) Close() error {
	return s.stream.Close()
}
