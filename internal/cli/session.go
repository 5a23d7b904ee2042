package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// Examples are the sample questions listed by /examples
var Examples = []struct {
	Category string
	Queries  []string
}{
	{"Market Sentiment", []string{
		"What did Warren Buffett say in his latest annual report?",
		"What is the market sentiment around Tesla stock?",
		"How have Elon Musk's recent tweets affected the crypto market?",
	}},
	{"Stock Data", []string{
		"What is the current price of AAPL?",
		"Show me a chart of Tesla stock",
		"Compare AAPL, MSFT, and GOOGL performance",
		"What are the technical indicators for NVDA?",
	}},
	{"Financial News", []string{
		"What is the latest news about the Federal Reserve?",
		"How will the latest inflation report impact the market?",
		"What are analysts saying about the tech sector?",
	}},
	{"Quick Info", []string{
		"What is the ticker symbol for Apple?",
		"What is market capitalization?",
		"What is P/E ratio?",
	}},
}

const helpText = `Ask a question about markets, stocks, or financial figures.
Commands:
  /examples  list example questions
  /help      show this help
  /exit      quit (also: exit, quit, Ctrl+D)`

// Answerer handles one query typed at the prompt
type Answerer func(ctx context.Context, query string) error

// Session is an interactive prompt with persistent input history
type Session struct {
	line        *liner.State
	historyFile string
	out         io.Writer
}

// NewSession starts a prompt. History is loaded from historyFile when it
// exists and written back on Close; an empty path disables persistence.
func NewSession(historyFile string, out io.Writer) *Session {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	s := &Session{
		line:        line,
		historyFile: historyFile,
		out:         out,
	}
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			s.line.ReadHistory(f)
			f.Close()
		}
	}
	return s
}

// Close saves history and restores the terminal
func (s *Session) Close() error {
	defer s.line.Close()
	if s.historyFile == "" {
		return nil
	}

	f, err := os.OpenFile(s.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	defer f.Close()
	if _, err := s.line.WriteHistory(f); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Run reads queries until the user exits or ctx is cancelled. Errors from
// answer are printed and the loop continues.
func (s *Session) Run(ctx context.Context, answer Answerer) error {
	fmt.Fprintln(s.out, "Financial Insight Assistant. Type /help for commands.")

	for ctx.Err() == nil {
		input, err := s.line.Prompt("finsight> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("read prompt: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		s.line.AppendHistory(input)

		if quit := s.command(input); quit {
			return nil
		} else if strings.HasPrefix(input, "/") {
			continue
		}

		if err := answer(ctx, input); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	return nil
}

// command handles built-in commands and reports whether to quit
func (s *Session) command(input string) bool {
	switch strings.ToLower(input) {
	case "/exit", "/quit", "exit", "quit":
		return true
	case "/help":
		fmt.Fprintln(s.out, helpText)
	case "/examples":
		WriteExamples(s.out)
	default:
		if strings.HasPrefix(input, "/") {
			fmt.Fprintf(s.out, "unknown command %s (try /help)\n", input)
		}
	}
	return false
}

// WriteExamples lists the example questions by category
func WriteExamples(w io.Writer) {
	for _, c := range Examples {
		fmt.Fprintf(w, "%s:\n", c.Category)
		for _, q := range c.Queries {
			fmt.Fprintf(w, "  %s\n", q)
		}
	}
}
