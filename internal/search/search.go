// Package search queries a web search API and consolidates the hits into a
// single text block for the sentiment analyzer.
package search

import (
	"context"
	"fmt"
	"strings"

	"resty.dev/v3"

	"finsight/internal/fetcher"
	"finsight/internal/ratelimit"
)

const (
	// DefaultBaseURL is the Tavily search API
	DefaultBaseURL = "https://api.tavily.com"

	// NoInformation is returned instead of text when the search produced nothing usable
	NoInformation = "No information found. Please try a different query or check your internet connection."

	defaultMaxResults = 5
)

type searchRequest struct {
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	SearchDepth   string `json:"search_depth"`
	Topic         string `json:"topic"`
	IncludeAnswer bool   `json:"include_answer"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []Hit  `json:"results"`
}

// Hit is a single search result
type Hit struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Client is a web search client
type Client struct {
	http       *resty.Client
	maxResults int
	limiter    *ratelimit.Limiter
}

// Option configures a Client
type Option func(*Client)

// WithMaxResults caps the number of hits requested per query
func WithMaxResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = n
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

// NewClient creates a search client authenticated with apiKey
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		http:       fetcher.NewHTTPClient(baseURL).SetAuthToken(apiKey),
		maxResults: defaultMaxResults,
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

// Hits runs the raw search
func (c *Client) Hits(ctx context.Context, query string) (string, []Hit, error) {
	if err := c.limiter.Wait(ctx, ratelimit.APISearch); err != nil {
		return "", nil, fetcher.NewTimeoutError(err)
	}

	var result searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(searchRequest{
			Query:         query,
			MaxResults:    c.maxResults,
			SearchDepth:   "advanced",
			Topic:         "news",
			IncludeAnswer: true,
		}).
		SetResult(&result).
		Post("/search")
	if err := fetcher.CheckResponse(resp, err); err != nil {
		return "", nil, fmt.Errorf("search %q: %w", query, err)
	}
	return result.Answer, result.Results, nil
}

// Search returns the search hits as one text block, or NoInformation when
// nothing came back.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	answer, hits, err := c.Hits(ctx, query)
	if err != nil {
		return "", err
	}
	return Consolidate(answer, hits), nil
}

// Consolidate joins an optional answer and the hits into the analyzer's input text
func Consolidate(answer string, hits []Hit) string {
	var b strings.Builder
	if answer = strings.TrimSpace(answer); answer != "" {
		fmt.Fprintf(&b, "Overview: %s\n\n", answer)
	}

	n := 0
	for _, h := range hits {
		content := strings.TrimSpace(h.Content)
		if content == "" {
			continue
		}
		n++
		fmt.Fprintf(&b, "Source %d: %s", n, strings.TrimSpace(h.Title))
		if h.URL != "" {
			fmt.Fprintf(&b, " (%s)", h.URL)
		}
		fmt.Fprintf(&b, "\n%s\n\n", content)
	}

	if b.Len() == 0 {
		return NoInformation
	}
	return strings.TrimSpace(b.String())
}
