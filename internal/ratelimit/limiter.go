package ratelimit

import (
	"context"
	"os"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// API names an upstream service whose request rate we throttle
type API string

const (
	// APIAlphaVantage is the AlphaVantage market data API
	APIAlphaVantage API = "alphavantage"
	// APISearch is the web search API backing the sentiment pipeline
	APISearch API = "search"
	// APILLM is the chat completion API used by the sentiment analyzer
	APILLM API = "llm"
)

// Limiter holds one token bucket per API
type Limiter struct {
	limiters map[API]*rate.Limiter
	mu       sync.RWMutex
}

var (
	instance *Limiter
	once     sync.Once
)

// GetLimiter returns the process-wide rate limiter
func GetLimiter() *Limiter {
	once.Do(func() {
		instance = New(defaultLimits())
	})
	return instance
}

// New creates a limiter from per-API limits. Every bucket has a burst of 1.
func New(limits map[API]rate.Limit) *Limiter {
	l := &Limiter{limiters: make(map[API]*rate.Limiter, len(limits))}
	for api, limit := range limits {
		l.limiters[api] = rate.NewLimiter(limit, 1)
	}
	return l
}

func defaultLimits() map[API]rate.Limit {
	if os.Getenv("GO_TESTING") == "1" || isTestMode() {
		return map[API]rate.Limit{
			APIAlphaVantage: rate.Inf,
			APISearch:       rate.Inf,
			APILLM:          rate.Inf,
		}
	}

	return map[API]rate.Limit{
		// Free tier allows 5 requests per minute; a price lookup spends two.
		APIAlphaVantage: rate.Limit(5.0 / 60.0),
		APISearch:       rate.Limit(2),
		APILLM:          rate.Limit(1),
	}
}

func isTestMode() bool {
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, "-test.") {
			return true
		}
	}
	return false
}

// Set replaces the limit for one API
func (l *Limiter) Set(api API, limit rate.Limit) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[api] = rate.NewLimiter(limit, 1)
}

// Wait blocks until the API's bucket permits a request or ctx is done.
// APIs without a configured bucket are never throttled.
func (l *Limiter) Wait(ctx context.Context, api API) error {
	l.mu.RLock()
	limiter, exists := l.limiters[api]
	l.mu.RUnlock()

	if !exists {
		return nil
	}
	return limiter.Wait(ctx)
}
