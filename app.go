package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"finsight/internal/agent"
	"finsight/internal/alphavantage"
	"finsight/internal/config"
	"finsight/internal/search"
	"finsight/internal/sentiment"
)

// app wires the router to its live collaborators
type app struct {
	agent   *agent.Agent
	stock   *alphavantage.Client
	search  *search.Client
	timeout time.Duration
}

func newApp(cfg *config.Config, log zerolog.Logger) (*app, error) {
	llm, err := sentiment.NewOpenAICompleter(sentiment.OpenAIConfig{
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		Timeout:     cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create llm client: %w", err)
	}

	stock := alphavantage.NewClient(cfg.AlphavantageAPIKey, cfg.AlphavantageBaseURL,
		alphavantage.WithOutputSize(cfg.AlphavantageOutputSize))
	searcher := search.NewClient(cfg.SearchAPIKey, cfg.SearchBaseURL,
		search.WithMaxResults(cfg.SearchMaxResults))
	analyzer := sentiment.NewAnalyzer(llm,
		sentiment.WithMaxInputChars(cfg.LLMMaxInputChars),
		sentiment.WithLogger(log))

	return &app{
		agent:   agent.New(stock, searcher, analyzer, agent.WithLogger(log)),
		stock:   stock,
		search:  searcher,
		timeout: cfg.RequestTimeout,
	}, nil
}

// HandleQuery answers one query within the configured request timeout
func (a *app) HandleQuery(ctx context.Context, query string) *agent.Result {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.agent.HandleQuery(ctx, query)
}

// Ask answers one query in display form
func (a *app) Ask(ctx context.Context, query string) agent.Response {
	return agent.Format(a.HandleQuery(ctx, query))
}

func (a *app) Close() error {
	if err := a.stock.Close(); err != nil {
		return err
	}
	return a.search.Close()
}
