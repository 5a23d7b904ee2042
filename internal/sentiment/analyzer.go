// Package sentiment decides whether a question is about finance and turns
// search text into a structured market sentiment analysis using an LLM.
package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

var (
	ErrNotConfigured   = errors.New("sentiment analyzer not configured")
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrEmptyResponse   = errors.New("model returned an empty response")
	ErrSchemaViolation = errors.New("model response violates schema")
)

const defaultMaxInputChars = 12000

// Analysis is the structured sentiment verdict. Empty fields were not provided.
type Analysis struct {
	Sentiment        string `json:"sentiment"`
	Confidence       string `json:"confidence"`
	MarketImpact     string `json:"market_impact"`
	DetailedAnalysis string `json:"detailed_analysis"`
	Summary          string `json:"summary"`
	Recommendations  string `json:"recommendations"`
}

var (
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
	dollarTicker = regexp.MustCompile(`\$[A-Z]{1,5}\b`)
)

// financeTerms short-circuit the finance gate without a model call
var financeTerms = []string{
	"stock", "share price", "shares", "market", "price", "invest", "trading", "trader",
	"economy", "economic", "inflation", "interest rate", "federal reserve", "earnings",
	"revenue", "profit", "dividend", "bond", "crypto", "bitcoin", "ethereum", "etf",
	"mutual fund", "hedge fund", "portfolio", "finance", "financial", "bank", " ipo",
	"recession", "gdp", "ticker", "valuation", "p/e", "market cap", "nasdaq", "dow jones",
	"s&p", "nyse", "forex", "currency", "commodity", "commodities", "annual report",
	"quarterly report", "balance sheet", "cash flow", "business", "company", "merger",
	"acquisition", "analyst", "bullish", "bearish", "relative strength", "macd", "moving average",
}

const financeGatePrompt = `You decide whether a user question is about finance, business, economics, companies, or financial markets.
Answer with exactly one word: YES or NO.`

const analysisPrompt = `You are a financial market analyst. Using only the supplied source material, analyse the market sentiment relevant to the user's question.
Respond with a single JSON object and nothing else, with these string fields:
"sentiment": one of POSITIVE, NEGATIVE, NEUTRAL, MIXED;
"confidence": High, Medium or Low with a short reason;
"market_impact": the likely impact on markets or the companies involved;
"detailed_analysis": a few paragraphs of analysis grounded in the sources;
"summary": a concise two or three sentence answer to the question;
"recommendations": practical considerations for an investor, as short bullet points in one string.`

// Analyzer implements the finance gate and the sentiment analysis
type Analyzer struct {
	llm           Completer
	maxInputChars int
	log           zerolog.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithMaxInputChars truncates search text sent to the model
func WithMaxInputChars(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxInputChars = n
		}
	}
}

// WithLogger sets the analyzer's logger
func WithLogger(l zerolog.Logger) Option {
	return func(a *Analyzer) {
		a.log = l
	}
}

// NewAnalyzer creates an Analyzer. A nil Completer limits the finance gate
// to keyword matching and makes AnalyzeSentiment fail with ErrNotConfigured.
func NewAnalyzer(llm Completer, opts ...Option) *Analyzer {
	a := &Analyzer{
		llm:           llm,
		maxInputChars: defaultMaxInputChars,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IsFinanceRelated reports whether query is within the assistant's domain
func (a *Analyzer) IsFinanceRelated(ctx context.Context, query string) (bool, error) {
	if MentionsFinance(query) {
		return true, nil
	}
	if a.llm == nil {
		return false, nil
	}

	out, err := a.llm.Complete(ctx, financeGatePrompt, query)
	if err != nil {
		return false, fmt.Errorf("finance gate: %w", err)
	}
	verdict := strings.ToUpper(strings.TrimSpace(out))
	a.log.Debug().Str("verdict", verdict).Msg("finance gate answered by model")
	return strings.HasPrefix(verdict, "YES"), nil
}

// MentionsFinance is the keyword half of the finance gate
func MentionsFinance(query string) bool {
	if dollarTicker.MatchString(query) {
		return true
	}
	lower := strings.ToLower(query)
	for _, term := range financeTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// AnalyzeSentiment asks the model for a structured analysis of text in the context of query
func (a *Analyzer) AnalyzeSentiment(ctx context.Context, text, query string) (*Analysis, error) {
	if a.llm == nil {
		return nil, ErrNotConfigured
	}
	text = truncate(text, a.maxInputChars)

	user := fmt.Sprintf("Question: %s\n\nSource material:\n%s", query, text)
	out, err := a.llm.Complete(ctx, analysisPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("analyze sentiment: %w", err)
	}
	return ParseAnalysis(out)
}

// truncate keeps the first n characters of s
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// ParseAnalysis extracts the JSON object from a model reply, tolerating code
// fences and surrounding prose. Non-string values are rendered as text.
func ParseAnalysis(out string) (*Analysis, error) {
	raw := jsonObjectRe.FindString(out)
	if raw == "" {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrSchemaViolation)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	return &Analysis{
		Sentiment:        strings.ToUpper(fieldText(fields["sentiment"])),
		Confidence:       fieldText(fields["confidence"]),
		MarketImpact:     fieldText(fields["market_impact"]),
		DetailedAnalysis: fieldText(fields["detailed_analysis"]),
		Summary:          fieldText(fields["summary"]),
		Recommendations:  fieldText(fields["recommendations"]),
	}, nil
}

func fieldText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any:
		lines := make([]string, 0, len(t))
		for _, item := range t {
			if s := fieldText(item); s != "" {
				lines = append(lines, "- "+s)
			}
		}
		return strings.Join(lines, "\n")
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
