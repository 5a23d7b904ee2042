// Package agent routes a finance chat query to the right answering
// strategy: a refusal, a stock data tool, a canned answer, or web search
// followed by sentiment analysis.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"finsight/internal/search"
	"finsight/internal/sentiment"
)

// Agent is the query router. It holds no per-query state and adds no
// retries of its own.
type Agent struct {
	stock    StockTools
	search   Searcher
	analyzer Analyzer
	log      zerolog.Logger
}

// Option configures an Agent
type Option func(*Agent)

// WithLogger sets the logger used for stage transitions and tool failures
func WithLogger(l zerolog.Logger) Option {
	return func(a *Agent) {
		a.log = l
	}
}

// New creates an Agent over its three collaborators
func New(stock StockTools, search Searcher, analyzer Analyzer, opts ...Option) *Agent {
	a := &Agent{
		stock:    stock,
		search:   search,
		analyzer: analyzer,
		log:      log.Logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HandleQuery answers one query. It never returns nil and never panics:
// unexpected failures come back as a Result with Error set.
func (a *Agent) HandleQuery(ctx context.Context, query string) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Interface("panic", r).Str("query", query).Msg("query handling panicked")
			res = failure(fmt.Errorf("%v", r))
		}
	}()

	result, err := a.handle(ctx, query)
	if err != nil {
		a.log.Error().Err(err).Str("query", query).Msg("query handling failed")
		return failure(err)
	}
	return result
}

func (a *Agent) handle(ctx context.Context, query string) (*Result, error) {
	ok, err := a.analyzer.IsFinanceRelated(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("classify query: %w", err)
	}
	if !ok {
		a.log.Debug().Str("query", query).Msg("refused non-finance query")
		return refusal(), nil
	}

	if res := a.handleStock(ctx, query); res != nil {
		return res, nil
	}

	if answer, ok := SimpleAnswer(query); ok {
		a.log.Debug().Msg("answered from canned table")
		return &Result{
			IsFinanceRelated: true,
			IsSimpleQuery:    true,
			Response:         answer,
		}, nil
	}

	report := IsReportQuery(query)

	a.log.Debug().Str("query", query).Bool("report", report).Msg("searching")
	text, err := a.search.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if strings.TrimSpace(text) == "" || text == search.NoInformation {
		return &Result{
			IsFinanceRelated: true,
			Error:            true,
			Response:         notFoundMessage,
		}, nil
	}
	a.log.Debug().Int("words", len(strings.Fields(text))).Msg("search complete")

	analysis, err := a.analyzer.AnalyzeSentiment(ctx, text, query)
	if err != nil {
		return nil, fmt.Errorf("analyze sentiment: %w", err)
	}
	if analysis == nil {
		analysis = &sentiment.Analysis{}
	}
	a.log.Debug().Str("sentiment", analysis.Sentiment).Msg("analysis complete")

	return &Result{
		IsFinanceRelated: true,
		IsReportQuery:    report,
		Analysis:         analysis,
		SearchResults:    text,
	}, nil
}
