package fetcher

import (
	"time"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

const (
	defaultRetryCount       = 3
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second
	defaultTimeout          = 30 * time.Second
)

// ClientOption tweaks the resty client built by NewHTTPClient
type ClientOption func(*resty.Client)

// WithRetryCount overrides the number of retries. Zero disables retrying.
func WithRetryCount(n int) ClientOption {
	return func(c *resty.Client) {
		c.SetRetryCount(n)
	}
}

// WithTimeout overrides the per-request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

// NewHTTPClient creates a JSON HTTP client with retry logic and exponential backoff
func NewHTTPClient(baseURL string, opts ...ClientOption) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(defaultTimeout).
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(defaultRetryWaitTime).
		SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook)

	for _, opt := range opts {
		opt(client)
	}
	return client
}

// retryCondition retries whatever CheckResponse classifies as retryable:
// network errors, 5xx, 429 and 408. Other 4xx are final.
func retryCondition(r *resty.Response, err error) bool {
	return IsRetryable(CheckResponse(r, err))
}

func retryHook(r *resty.Response, err error) {
	if err != nil {
		log.Debug().
			Str("url", r.Request.URL).
			Int("attempt", r.Request.Attempt).
			Err(err).
			Msg("retrying request due to error")
		return
	}

	log.Debug().
		Str("url", r.Request.URL).
		Int("attempt", r.Request.Attempt).
		Int("status_code", r.StatusCode()).
		Msg("retrying request due to status code")
}
