// Package alphavantage implements the stock data tools on top of the
// AlphaVantage REST API. Indicators, charts and historical statistics are
// derived locally from the daily time series.
package alphavantage

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/shopspring/decimal"
	"resty.dev/v3"

	"finsight/internal/fetcher"
	"finsight/internal/ratelimit"
)

const (
	// DefaultBaseURL is the production query endpoint
	DefaultBaseURL = "https://www.alphavantage.co/query"

	defaultOutputSize = "full"
)

// apiNotice captures the bodies AlphaVantage sends with HTTP 200 when a call
// is rejected: bad symbol, throttling, or premium-only endpoints.
type apiNotice struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

func (n *apiNotice) notice() string {
	switch {
	case n.ErrorMessage != "":
		return n.ErrorMessage
	case n.Note != "":
		return n.Note
	default:
		return n.Information
	}
}

type noticer interface {
	notice() string
}

// Client talks to AlphaVantage
type Client struct {
	apiKey     string
	outputSize string
	http       *resty.Client
	limiter    *ratelimit.Limiter
}

// Option configures a Client
type Option func(*Client)

// WithOutputSize sets the TIME_SERIES_DAILY outputsize ("compact" or "full")
func WithOutputSize(size string) Option {
	return func(c *Client) {
		if size = strings.TrimSpace(size); size != "" {
			c.outputSize = size
		}
	}
}

// WithHTTPOptions applies transport options to the underlying resty client
func WithHTTPOptions(opts ...fetcher.ClientOption) Option {
	return func(c *Client) {
		for _, opt := range opts {
			opt(c.http)
		}
	}
}

// WithLimiter replaces the process-wide rate limiter
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates an AlphaVantage client
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		apiKey:     apiKey,
		outputSize: defaultOutputSize,
		http:       fetcher.NewHTTPClient(baseURL),
		limiter:    ratelimit.GetLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases idle connections
func (c *Client) Close() error {
	return c.http.Close()
}

// query runs one API function and decodes the JSON body into result
func (c *Client) query(ctx context.Context, function string, params map[string]string, result noticer) error {
	if err := c.limiter.Wait(ctx, ratelimit.APIAlphaVantage); err != nil {
		return fetcher.NewTimeoutError(err)
	}

	q := map[string]string{
		"apikey":   c.apiKey,
		"function": function,
	}
	maps.Copy(q, params)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(q).
		SetResult(result).
		Get("")
	if err := fetcher.CheckResponse(resp, err); err != nil {
		return err
	}

	if msg := result.notice(); msg != "" {
		return fetcher.NewValidationError("%s", msg)
	}
	return nil
}

// parseNumber reads one of AlphaVantage's string-encoded numbers.
// Empty, "None" and "-" mean the value is not reported.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" || s == "None" || s == "-" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

func mustNumber(field, s string) (float64, error) {
	v, ok := parseNumber(s)
	if !ok {
		return 0, fetcher.NewValidationError("invalid %s %q in response", field, s)
	}
	return v, nil
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func wrapTicker(ticker string, err error) error {
	return fmt.Errorf("%s: %w", ticker, err)
}
