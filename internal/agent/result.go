package agent

import (
	"finsight/internal/sentiment"
	"finsight/internal/stock"
)

// Result is the outcome of one query. Flags describe how the query was
// classified; exactly one payload (Response, Chart, Comparison, Analysis)
// carries the answer. Historical and Indicators accompany a Response.
type Result struct {
	IsFinanceRelated  bool `json:"is_finance_related"`
	IsStockQuery      bool `json:"is_stock_query,omitempty"`
	IsChartQuery      bool `json:"is_chart_query,omitempty"`
	IsComparisonQuery bool `json:"is_comparison_query,omitempty"`
	IsIndicatorQuery  bool `json:"is_indicator_query,omitempty"`
	IsHistoricalQuery bool `json:"is_historical_query,omitempty"`
	IsSimpleQuery     bool `json:"is_simple_query"`
	IsReportQuery     bool `json:"is_report_query"`
	Error             bool `json:"error,omitempty"`

	Response string `json:"response,omitempty"`

	Ticker  string   `json:"ticker,omitempty"`
	Tickers []string `json:"tickers,omitempty"`

	Chart         *stock.Chart        `json:"chart_data,omitempty"`
	Comparison    *stock.Comparison   `json:"comparison_data,omitempty"`
	Historical    *stock.Historical   `json:"hist_data,omitempty"`
	Indicators    *IndicatorSet       `json:"indicator_data,omitempty"`
	Analysis      *sentiment.Analysis `json:"analysis,omitempty"`
	SearchResults string              `json:"search_results,omitempty"`
}

// IndicatorSet holds the indicators computed for one ticker. Nil entries
// were not requested or could not be computed.
type IndicatorSet struct {
	RSI  *stock.RSI           `json:"rsi,omitempty"`
	MACD *stock.MACD          `json:"macd,omitempty"`
	SMA  *stock.MovingAverage `json:"sma,omitempty"`
	EMA  *stock.MovingAverage `json:"ema,omitempty"`
}

// Empty reports whether no indicator is present
func (s IndicatorSet) Empty() bool {
	return s.RSI == nil && s.MACD == nil && s.SMA == nil && s.EMA == nil
}

const (
	refusalMessage  = "I can only help you with finance, business, or market related queries."
	notFoundMessage = "I couldn't find any relevant information for your query. Please try rephrasing or ask about a more specific financial topic."
)

func refusal() *Result {
	return &Result{Response: refusalMessage}
}

func failure(err error) *Result {
	return &Result{
		IsFinanceRelated: true,
		Error:            true,
		Response:         "An error occurred while processing your query: " + err.Error(),
	}
}
