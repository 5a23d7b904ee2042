package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"finsight/internal/agent"
	"finsight/internal/cli"
	"finsight/internal/config"
	"finsight/internal/coordinator"
	"finsight/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run is main without os.Exit, so deferred cleanup always happens. It returns
// the process exit code.
func run(args []string, stdout io.Writer) int {
	// Parse flags
	flags := flag.NewFlagSet("finsight", flag.ContinueOnError)
	batchFile := flags.String("batch", "", "answer the queries in `file`, one per line")
	workers := flags.Int("workers", 4, "queries answered at once in batch mode")
	chartDir := flags.String("charts", ".", "directory for chart images")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: finsight [flags] [query...]\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	// .env may carry LOG_* settings, so it is read before the logger
	if err := config.LoadDotEnv(); err != nil {
		log.Error().Err(err).Msg("Failed to load environment")
		return 1
	}

	logCfg, err := logger.LoadConfig()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load logger configuration")
		return 1
	}
	l := logger.Init(logCfg)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	a, err := newApp(cfg, l)
	if err != nil {
		l.Error().Err(err).Msg("Failed to start")
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			l.Warn().Err(err).Msg("Failed to close clients")
		}
	}()

	markdown := false
	if f, ok := stdout.(*os.File); ok {
		markdown = cli.IsTerminal(f)
	}
	printer, err := cli.NewPrinter(stdout, *chartDir, markdown)
	if err != nil {
		l.Error().Err(err).Msg("Failed to set up output")
		return 1
	}

	switch {
	case *batchFile != "":
		err = runBatch(ctx, a, printer, stdout, *batchFile, *workers)
	case flags.NArg() > 0:
		err = printer.Print(a.Ask(ctx, strings.Join(flags.Args(), " ")))
	default:
		err = runInteractive(ctx, a, printer)
	}
	if err != nil {
		l.Error().Err(err).Msg("Finished with error")
		return 1
	}
	return 0
}

// runBatch answers every query in path concurrently and prints the answers
// in input order
func runBatch(ctx context.Context, a *app, printer *cli.Printer, out io.Writer, path string, workers int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open batch file: %w", err)
	}
	queries, err := cli.ReadQueries(f)
	f.Close()
	if err != nil {
		return err
	}

	pending := make(map[int]*agent.Result)
	next := 0
	var printErr error
	emit := func(ans coordinator.Answer) {
		pending[ans.Index] = ans.Result
		for res, ok := pending[next]; ok; res, ok = pending[next] {
			delete(pending, next)
			fmt.Fprintf(out, "### %s\n\n", queries[next])
			if err := printer.Print(agent.Format(res)); err != nil && printErr == nil {
				printErr = err
			}
			fmt.Fprintln(out)
			next++
		}
	}

	if err := coordinator.New(a, workers).Run(ctx, queries, emit); err != nil {
		return err
	}
	return printErr
}

func runInteractive(ctx context.Context, a *app, printer *cli.Printer) error {
	session := cli.NewSession(historyFile(), os.Stdout)
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to save history")
		}
	}()

	return session.Run(ctx, func(ctx context.Context, query string) error {
		return printer.Print(a.Ask(ctx, query))
	})
}

// historyFile returns ~/.finsight/history, or "" when it cannot be created
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".finsight")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}
