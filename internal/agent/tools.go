package agent

import (
	"context"

	"finsight/internal/sentiment"
	"finsight/internal/stock"
)

// StockTools is the market data provider. An error return is the tool's
// failure branch; its message is shown to the user verbatim.
type StockTools interface {
	Price(ctx context.Context, ticker string) (*stock.Quote, error)
	Info(ctx context.Context, ticker string) (*stock.Info, error)
	PlotPrice(ctx context.Context, ticker string, period stock.Period) (*stock.Chart, error)
	PlotTechnical(ctx context.Context, ticker string, period stock.Period) (*stock.Chart, error)
	Compare(ctx context.Context, tickers []string, period stock.Period) (*stock.Comparison, error)
	RSI(ctx context.Context, ticker string, window int) (*stock.RSI, error)
	MACD(ctx context.Context, ticker string) (*stock.MACD, error)
	SMA(ctx context.Context, ticker string, window int) (*stock.MovingAverage, error)
	EMA(ctx context.Context, ticker string, window int) (*stock.MovingAverage, error)
	Historical(ctx context.Context, ticker string, period stock.Period) (*stock.Historical, error)
}

// Searcher aggregates web search results into one text block
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Analyzer gates queries by domain and produces sentiment analyses
type Analyzer interface {
	IsFinanceRelated(ctx context.Context, query string) (bool, error)
	AnalyzeSentiment(ctx context.Context, text, query string) (*sentiment.Analysis, error)
}
