// Package chat implements the line-oriented interactive conversation mode.
// Conversation history is transient: it lives in process memory, can be
// viewed or cleared with slash commands, and is lost on exit.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/execanything/xa/internal/llm"
	"github.com/execanything/xa/internal/output"
	"github.com/execanything/xa/internal/prompt"
	"go.uber.org/zap"
)

// Chatter is the multi-turn completion boundary the session depends on.
type Chatter interface {
	Chat(ctx context.Context, messages []llm.Message, onDelta func(string)) (string, error)
}

// Session is one interactive conversation.
type Session struct {
	chatter Chatter
	entry   prompt.Entry
	in      io.Reader
	out     io.Writer
	logger  *zap.Logger

	history []llm.Message
}

// NewSession creates a session that wraps each user line in the given prompt
// entry's template before sending it.
func NewSession(chatter Chatter, entry prompt.Entry, in io.Reader, out io.Writer, logger *zap.Logger) *Session {
	return &Session{
		chatter: chatter,
		entry:   entry,
		in:      in,
		out:     out,
		logger:  logger,
	}
}

// Run reads lines until exit/quit or end of input. Empty lines are skipped;
// /clear drops the history and /history prints it. Every other line becomes
// a user turn sent together with the accumulated history, streamed to the
// terminal as it arrives.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Starting interactive mode. Type your message and press Enter.")
	fmt.Fprintln(s.out, "Type 'exit' or 'quit' to end, '/clear' to clear history, '/history' to view it.")
	fmt.Fprintln(s.out)

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, output.PROMPT("> "))
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit":
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		case "/clear":
			s.history = nil
			fmt.Fprintln(s.out, "Conversation history cleared.")
			continue
		case "/history":
			s.printHistory()
			continue
		}

		if err := s.exchange(ctx, input); err != nil {
			return err
		}
		fmt.Fprintln(s.out)
	}

	return scanner.Err()
}

func (s *Session) exchange(ctx context.Context, input string) error {
	s.history = append(s.history, llm.Message{
		Role:    llm.RoleUser,
		Content: s.entry.Fill(input, nil),
	})

	response, err := s.chatter.Chat(ctx, s.history, func(delta string) {
		fmt.Fprint(s.out, delta)
	})
	if err != nil {
		// Drop the failed turn so a transient API error does not poison
		// the rest of the conversation.
		s.history = s.history[:len(s.history)-1]
		return err
	}
	fmt.Fprintln(s.out)

	s.history = append(s.history, llm.Message{Role: llm.RoleAssistant, Content: response})
	s.logger.Debug("interactive exchange complete", zap.Int("history_len", len(s.history)))

	output.CopyToClipboard(response)
	return nil
}

func (s *Session) printHistory() {
	if len(s.history) == 0 {
		fmt.Fprintln(s.out, "No conversation history yet.")
		return
	}
	for _, message := range s.history {
		fmt.Fprintf(s.out, "[%s] %s\n", message.Role, message.Content)
	}
}
