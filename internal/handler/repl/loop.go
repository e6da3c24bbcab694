// Package repl is the console front end of the chatbot: it prints the
// banner, reads one line per turn and writes the reply.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"newsbot/internal/domain/entity"
	"newsbot/internal/handler/turnid"
	"newsbot/internal/observability/logging"
	"newsbot/internal/usecase/chat"
)

const (
	botName     = "News Chatbot"
	prompt      = "You: "
	quitCommand = "quit"
	goodbye     = "Goodbye! Stay informed!"
)

// Responder answers a single turn.
type Responder interface {
	Respond(ctx context.Context, text string) chat.Reply
}

// Loop reads user input line by line and prints the chatbot replies.
type Loop struct {
	responder Responder
	logger    *slog.Logger
}

// New creates a Loop. A nil logger falls back to slog.Default.
func New(responder Responder, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{responder: responder, logger: logger}
}

// Run prints the banner and serves turns until the user types quit, the
// input ends, or ctx is canceled. All three end the session normally and
// Run returns nil; only a failure to read input or write output is an error.
func (l *Loop) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	w := &errWriter{w: out}
	writeBanner(w)
	if w.err != nil {
		return w.err
	}

	done := make(chan struct{})
	defer close(done)
	lines, readErrs := readLines(in, done)

	for {
		w.printf("\n%s", prompt)
		if w.err != nil {
			return w.err
		}

		var line string
		select {
		case <-ctx.Done():
			return farewell(w)
		case err := <-readErrs:
			w.printf("\n%s: %s\n", botName, goodbye)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return w.err
		case line = <-lines:
		}
		// A buffered line can win the select after an interrupt.
		if ctx.Err() != nil {
			return farewell(w)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, quitCommand) {
			w.printf("%s: %s\n", botName, goodbye)
			return w.err
		}

		reply := l.turn(ctx, line)
		if ctx.Err() != nil {
			return farewell(w)
		}
		w.printf("\n%s: %s\n", botName, reply.Text)
		if w.err != nil {
			return w.err
		}
	}
}

// farewell ends an interrupted session. A reply computed after the interrupt
// is discarded.
func farewell(w *errWriter) error {
	w.printf("\n%s: %s\n", botName, goodbye)
	return w.err
}

// turn runs one exchange with a fresh turn ID in the context and logger.
func (l *Loop) turn(ctx context.Context, line string) chat.Reply {
	ctx = turnid.WithTurnID(ctx, turnid.New())
	logger := logging.WithTurnID(ctx, l.logger)
	ctx = logging.WithLogger(ctx, logger)

	reply := l.responder.Respond(ctx, line)
	logger.InfoContext(ctx, "turn completed",
		slog.String("intent", reply.Decision.Intent.String()))
	return reply
}

// readLines scans in on its own goroutine so a blocked read never delays
// shutdown. readErrs receives nil on EOF. The goroutine stops delivering once
// done is closed.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErrs := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErrs <- scanner.Err()
	}()
	return lines, readErrs
}

func writeBanner(w *errWriter) {
	w.printf("📰 %s: Hello! I'm your news assistant. I can help you with:\n", botName)
	w.printf("- Latest news and headlines\n")
	w.printf("- Category-specific news (business, technology, sports, etc.)\n")
	w.printf("- News about specific topics, companies, or people\n")
	w.printf("\nAvailable categories:\n")
	for _, c := range entity.Categories() {
		w.printf("- %s\n", c.DisplayName())
	}
	w.printf("\nType '%s' to exit.\n", quitCommand)
}

// errWriter remembers the first write error and skips later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
