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

// Package worker runs the task server that executes the document
// workflows.
package worker

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ayudhap/paperdesk/internal/config"
	"github.com/ayudhap/paperdesk/internal/registry"
	"github.com/ayudhap/paperdesk/internal/tasks"
	"github.com/ayudhap/paperdesk/internal/transport"

	_ "github.com/ayudhap/paperdesk/internal/modules/generation"
	_ "github.com/ayudhap/paperdesk/internal/modules/ingestion"
	_ "github.com/ayudhap/paperdesk/internal/modules/preretrieval"
	_ "github.com/ayudhap/paperdesk/internal/modules/retrieval"
)

type Options struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
}

type Worker struct {
	opts Options

	rdb         *redis.Client
	asynqServer *asynq.Server
	transport   transport.Transport
}

func New(opts Options) *Worker {
	if opts.RedisAddr == "" {
		opts.RedisAddr = "localhost:6379"
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 10
	}
	return &Worker{opts: opts}
}

func (w Worker) RegisterWorkflows(path string) error {
	wc, err := config.ReadWorkflowConfig(path)
	if err != nil {
		return err
	}

	workflows, err := config.ParseWorkflows(wc)
	if err != nil {
		return fmt.Errorf("failed to parse workflows config: %w", err)
	}

	if err := registry.BatchRegisterWorkflows(workflows); err != nil {
		return fmt.Errorf("failed to register workflows: %w", err)
	}
	return nil
}

func (w *Worker) Start() error {
	w.rdb = redis.NewClient(&redis.Options{
		Addr:     w.opts.RedisAddr,
		Password: w.opts.RedisPassword,
		DB:       w.opts.RedisDB,
	})
	defer w.rdb.Close()

	w.asynqServer = asynq.NewServerFromRedisClient(
		w.rdb,
		asynq.Config{
			Concurrency: w.opts.Concurrency,
		},
	)

	w.transport = transport.NewRedisTransport(w.rdb)

	handler := tasks.NewTaskHandler(w.transport)

	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeUpload, handler)
	mux.Handle(tasks.TypeChat, handler)
	mux.Handle(tasks.TypeCitation, handler)
	mux.Handle(tasks.TypeRelated, handler)

	if err := w.asynqServer.Run(mux); err != nil {
		return err
	}
	return nil
}
