package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"

	"github.com/ayudhap/paperdesk/worker"
)

const (
	ProgramName   = "Paperdesk"
	Version       = "v0.1.0"
	RepositoryUrl = "github.com/ayudhap/paperdesk"
)

type workCmd struct{}

type openCmd struct {
	File    string `arg:"positional,required" help:"path to the PDF document to open"`
	Session string `arg:"--session,-s" help:"resume an existing session id"`
}

type args struct {
	Work *workCmd `arg:"subcommand:work" help:"start the paperdesk worker"`
	Open *openCmd `arg:"subcommand:open" help:"open a document in the reading session"`

	Config string `arg:"--config,-c" default:"config.yaml" help:"path to the config file"`
}

func (args) Version() string {
	return fmt.Sprintf("%s %s", ProgramName, Version)
}

func (args) Epilogue() string {
	return fmt.Sprintf("For more information visit %s", RepositoryUrl)
}

func main() {
	var args args

	p, err := arg.NewParser(arg.Config{Program: strings.ToLower(ProgramName)}, &args)
	if err != nil {
		log.Fatalf("there was an error in the definition of the Go struct: %v", err)
	}
	p.MustParse(os.Args[1:])

	if p.Subcommand() == nil {
		p.WriteUsage(os.Stdout)
		os.Exit(0)
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	conf, err := ReadConfig(args.Config)
	if err != nil {
		log.Fatalf("failed to read config '%s': %v", args.Config, err)
	}

	switch cmd := p.Subcommand().(type) {
	case *workCmd:
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
		err = startWorker(conf)
	case *openCmd:
		// the TUI owns the terminal, keep the default logger quiet
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		err = startSession(conf, cmd)
	default:
		p.FailSubcommand("unrecognized command", p.SubcommandNames()...)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func startWorker(conf *config) error {
	w := worker.New(worker.Options{
		RedisAddr:     conf.Transport.Addr,
		RedisPassword: conf.Transport.Password,
		RedisDB:       conf.Transport.DB,
		Concurrency:   conf.Worker.Workers,
	})

	if err := w.RegisterWorkflows(conf.WorkflowConfigPath); err != nil {
		return err
	}
	return w.Start()
}
