package testutil

import (
	"context"
	"errors"
	"sync"

	"finsight/internal/search"
	"finsight/internal/sentiment"
	"finsight/internal/stock"
)

// ErrNotStubbed is returned by mock methods without a stub
var ErrNotStubbed = errors.New("mock: method not stubbed")

// Calls records method invocations on a mock
type Calls struct {
	mu    sync.Mutex
	names []string
}

func (c *Calls) record(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, name)
}

// Names returns the recorded method names in call order
func (c *Calls) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.names...)
}

// Count returns how many times name was called
func (c *Calls) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, got := range c.names {
		if got == name {
			n++
		}
	}
	return n
}

// MockStockTools is a mock stock data provider for testing
type MockStockTools struct {
	Calls

	PriceFunc         func(ctx context.Context, ticker string) (*stock.Quote, error)
	InfoFunc          func(ctx context.Context, ticker string) (*stock.Info, error)
	PlotPriceFunc     func(ctx context.Context, ticker string, period stock.Period) (*stock.Chart, error)
	PlotTechnicalFunc func(ctx context.Context, ticker string, period stock.Period) (*stock.Chart, error)
	CompareFunc       func(ctx context.Context, tickers []string, period stock.Period) (*stock.Comparison, error)
	RSIFunc           func(ctx context.Context, ticker string, window int) (*stock.RSI, error)
	MACDFunc          func(ctx context.Context, ticker string) (*stock.MACD, error)
	SMAFunc           func(ctx context.Context, ticker string, window int) (*stock.MovingAverage, error)
	EMAFunc           func(ctx context.Context, ticker string, window int) (*stock.MovingAverage, error)
	HistoricalFunc    func(ctx context.Context, ticker string, period stock.Period) (*stock.Historical, error)
}

func (m *MockStockTools) Price(ctx context.Context, ticker string) (*stock.Quote, error) {
	m.record("Price")
	if m.PriceFunc != nil {
		return m.PriceFunc(ctx, ticker)
	}
	return nil, ErrNotStubbed
}

func (m *MockStockTools) Info(ctx context.Context, ticker string) (*stock.Info, error) {
	m.record("Info")
	if m.InfoFunc != nil {
		return m.InfoFunc(ctx, ticker)
	}
	return nil, ErrNotStubbed
}

func (m *MockStockTools) PlotPrice(ctx context.Context, ticker string, period stock.Period) (*stock.Chart, error) {
	m.record("PlotPrice")
	if m.PlotPriceFunc != nil {
		return m.PlotPriceFunc(ctx, ticker, period)
	}
	return nil, ErrNotStubbed
}

func (m *MockStockTools) PlotTechnical(ctx context.Context, ticker string, period stock.Period) (*stock.Chart, error) {
	m.record("PlotTechnical")
	if m.PlotTechnicalFunc != nil {
		return m.PlotTechnicalFunc(ctx, ticker, period)
	}
	return nil, ErrNotStubbed
}

func (m *MockStockTools) Compare(ctx context.Context, tickers []string, period stock.Period) (*stock.Comparison, error) {
	m.record("Compare")
	if m.CompareFunc != nil {
		return m.CompareFunc(ctx, tickers, period)
	}
	return nil, ErrNotStubbed
}

func (m *MockStockTools) RSI(ctx context.Context, ticker string, window int) (*stock.RSI, error) {
	m.record("RSI")
	if m.RSIFunc != nil {
		return m.RSIFunc(ctx, ticker, window)
	}
	return nil, ErrNotStubbed
}

func (m *MockStockTools) MACD(ctx context.Context, ticker string) (*stock.MACD, error) {
	m.record("MACD")
	if m.MACDFunc != nil {
		return m.MACDFunc(ctx, ticker)
	}
	return nil, ErrNotStubbed
}

func (m *MockStockTools) SMA(ctx context.Context, ticker string, window int) (*stock.MovingAverage, error) {
	m.record("SMA")
	if m.SMAFunc != nil {
		return m.SMAFunc(ctx, ticker, window)
	}
	return nil, ErrNotStubbed
}

func (m *MockStockTools) EMA(ctx context.Context, ticker string, window int) (*stock.MovingAverage, error) {
	m.record("EMA")
	if m.EMAFunc != nil {
		return m.EMAFunc(ctx, ticker, window)
	}
	return nil, ErrNotStubbed
}

func (m *MockStockTools) Historical(ctx context.Context, ticker string, period stock.Period) (*stock.Historical, error) {
	m.record("Historical")
	if m.HistoricalFunc != nil {
		return m.HistoricalFunc(ctx, ticker, period)
	}
	return nil, ErrNotStubbed
}

// MockSearcher is a mock web search for testing
type MockSearcher struct {
	Calls

	SearchFunc func(ctx context.Context, query string) (string, error)
}

func (m *MockSearcher) Search(ctx context.Context, query string) (string, error) {
	m.record("Search")
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return search.NoInformation, nil
}

// NewMockSearcher creates a searcher returning fixed text and error
func NewMockSearcher(text string, err error) *MockSearcher {
	return &MockSearcher{
		SearchFunc: func(ctx context.Context, query string) (string, error) {
			return text, err
		},
	}
}

// MockAnalyzer is a mock finance gate and sentiment analyzer for testing
type MockAnalyzer struct {
	Calls

	IsFinanceRelatedFunc func(ctx context.Context, query string) (bool, error)
	AnalyzeSentimentFunc func(ctx context.Context, text, query string) (*sentiment.Analysis, error)
}

func (m *MockAnalyzer) IsFinanceRelated(ctx context.Context, query string) (bool, error) {
	m.record("IsFinanceRelated")
	if m.IsFinanceRelatedFunc != nil {
		return m.IsFinanceRelatedFunc(ctx, query)
	}
	return true, nil
}

func (m *MockAnalyzer) AnalyzeSentiment(ctx context.Context, text, query string) (*sentiment.Analysis, error) {
	m.record("AnalyzeSentiment")
	if m.AnalyzeSentimentFunc != nil {
		return m.AnalyzeSentimentFunc(ctx, text, query)
	}
	return nil, ErrNotStubbed
}

// NewMockAnalyzer creates an analyzer with a fixed gate verdict and analysis
func NewMockAnalyzer(finance bool, analysis *sentiment.Analysis) *MockAnalyzer {
	return &MockAnalyzer{
		IsFinanceRelatedFunc: func(ctx context.Context, query string) (bool, error) {
			return finance, nil
		},
		AnalyzeSentimentFunc: func(ctx context.Context, text, query string) (*sentiment.Analysis, error) {
			return analysis, nil
		},
	}
}

// MockCompleter is a mock LLM for testing the sentiment analyzer
type MockCompleter struct {
	Calls

	CompleteFunc func(ctx context.Context, system, user string) (string, error)
}

func (m *MockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	m.record("Complete")
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, user)
	}
	return "", ErrNotStubbed
}

// NewMockCompleter creates a completer returning fixed output and error
func NewMockCompleter(out string, err error) *MockCompleter {
	return &MockCompleter{
		CompleteFunc: func(ctx context.Context, system, user string) (string, error) {
			return out, err
		},
	}
}
