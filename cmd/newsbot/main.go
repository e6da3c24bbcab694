// Package main is the newsbot command: an interactive console chatbot that
// answers small talk and fetches the latest news.
// Usage: newsbot [-config conversation.yaml] [-version]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"newsbot/internal/config"
	"newsbot/internal/handler/repl"
	"newsbot/internal/observability/logging"
	"newsbot/internal/observability/tracing"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("newsbot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "conversation YAML file with keyword and reply overrides (overrides CONVERSATION_FILE)")
	showVersion := fs.Bool("version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		_, _ = fmt.Fprintf(stdout, "newsbot %s\n", version)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *configPath != "" {
		cfg.ConversationFile = *configPath
	}

	logger := logging.NewLogger(logging.Options{
		Level:  cfg.Observability.LogLevel,
		Format: cfg.Observability.LogFormat,
		Writer: stderr,
	})
	slog.SetDefault(logger)

	shutdownTracing := tracing.Setup(cfg.Observability.TracingEnabled, version, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("tracing shutdown failed", slog.Any("error", err))
		}
	}()

	app, err := buildApp(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", slog.Any("error", err))
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if !app.service.NewsConfigured() {
		_, _ = fmt.Fprintln(stdout, "Warning: NEWS_API_KEY is not set. News requests will not work until it is configured.")
	}

	logger.Info("newsbot starting",
		slog.String("version", version),
		slog.String("news_provider", cfg.News.Provider),
		slog.String("ner_provider", cfg.NER.Provider),
		slog.String("match_mode", cfg.MatchMode))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, app, stdin, stdout, logger); err != nil {
		logger.Error("newsbot stopped with error", slog.Any("error", err))
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// serve runs the console session and, when enabled, the metrics server.
// The metrics server stops when the session ends.
func serve(ctx context.Context, cfg *config.Config, app *application, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	sessionCtx, endSession := context.WithCancel(ctx)
	defer endSession()

	g, gctx := errgroup.WithContext(sessionCtx)

	g.Go(func() error {
		defer endSession()
		return repl.New(app.service, logger).Run(gctx, stdin, stdout)
	})

	if cfg.Observability.MetricsEnabled {
		addr := fmt.Sprintf(":%d", cfg.Observability.MetricsPort)
		g.Go(func() error {
			return runMetricsServer(gctx, addr, app.dependencies, logger)
		})
	}

	return g.Wait()
}
