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

package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ayudhap/paperdesk/internal/api"
	"github.com/ayudhap/paperdesk/internal/tasks"
	"github.com/ayudhap/paperdesk/internal/transport"
)

// client enqueues tasks for the worker and tails their message streams.
type client struct {
	asynq     *asynq.Client
	transport transport.Transport
}

func newClient(conf redisConfig) *client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Username: conf.Username,
		Password: conf.Password,
		DB:       conf.DB,
	})

	return &client{
		asynq:     asynq.NewClientFromRedisClient(rdb),
		transport: transport.NewRedisTransport(rdb),
	}
}

func (c *client) Close() error {
	return c.asynq.Close()
}

// Upload enqueues the PDF at path for ingestion and returns the message
// stream carrying the generated summary.
func (c *client) Upload(sessionID, path string) (transport.MessageStream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	task, err := tasks.NewUploadTask(sessionID, filepath.Base(path), base64.StdEncoding.EncodeToString(data))
	if err != nil {
		return nil, err
	}
	return c.enqueue(task)
}

func (c *client) Chat(sessionID, query string, history []*api.ChatMessage) (transport.MessageStream, error) {
	task, err := tasks.NewChatTask(sessionID, query, history)
	if err != nil {
		return nil, err
	}
	return c.enqueue(task)
}

func (c *client) Citation(sessionID string) (transport.MessageStream, error) {
	task, err := tasks.NewCitationTask(sessionID)
	if err != nil {
		return nil, err
	}
	return c.enqueue(task)
}

func (c *client) Related(sessionID string) (transport.MessageStream, error) {
	task, err := tasks.NewRelatedTask(sessionID)
	if err != nil {
		return nil, err
	}
	return c.enqueue(task)
}

func (c *client) enqueue(task *asynq.Task) (transport.MessageStream, error) {
	info, err := c.asynq.Enqueue(task, asynq.MaxRetry(0))
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue task: %w", err)
	}
	return c.transport.GetMessageStream(info.ID)
}
