// Package stock defines the market data shapes exchanged between the query
// router and the stock data provider.
package stock

import "fmt"

// Period is a lookback window such as "1mo" or "5y"
type Period string

const (
	Period1Day   Period = "1d"
	Period1Week  Period = "1wk"
	Period1Month Period = "1mo"
	Period3Month Period = "3mo"
	Period6Month Period = "6mo"
	Period1Year  Period = "1y"
	Period2Year  Period = "2y"
	Period5Year  Period = "5y"
	Period10Year Period = "10y"
	PeriodMax    Period = "max"
)

// DefaultPeriod applies when a query names no lookback window
const DefaultPeriod = Period1Year

// Days returns the number of calendar days the period spans. Zero means unbounded.
func (p Period) Days() int {
	switch p {
	case Period1Day:
		return 1
	case Period1Week:
		return 7
	case Period1Month:
		return 30
	case Period3Month:
		return 91
	case Period6Month:
		return 182
	case Period1Year:
		return 365
	case Period2Year:
		return 730
	case Period5Year:
		return 1826
	case Period10Year:
		return 3652
	default:
		return 0
	}
}

// Valid reports whether p is one of the known periods
func (p Period) Valid() bool {
	return p == PeriodMax || p.Days() > 0
}

// Quote is the latest traded price for a ticker
type Quote struct {
	Ticker   string  `json:"ticker"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// Info is the company overview. Zero values mean the field is unavailable.
type Info struct {
	Ticker             string  `json:"ticker"`
	Name               string  `json:"name"`
	Sector             string  `json:"sector,omitempty"`
	MarketCap          float64 `json:"market_cap,omitempty"`
	MarketCapFormatted string  `json:"market_cap_formatted,omitempty"`
	PERatio            float64 `json:"pe_ratio,omitempty"`
	DividendYield      float64 `json:"dividend_yield,omitempty"` // percent
}

// FormatMarketCap renders a dollar amount as $1.23T / $4.56B / $7.89M
func FormatMarketCap(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

// Chart is a rendered price chart. Image holds the base64 encoded file.
type Chart struct {
	Ticker           string             `json:"ticker"`
	Period           Period             `json:"period"`
	Image            string             `json:"image"`
	ImageFormat      string             `json:"image_format"`
	LatestPrice      float64            `json:"latest_price"`
	PriceChangePct   float64            `json:"price_change_pct"`
	StartDate        string             `json:"start_date"`
	EndDate          string             `json:"end_date"`
	Indicators       []string           `json:"indicators,omitempty"`
	// LatestIndicators holds the last value of each overlay with enough history
	LatestIndicators map[string]float64 `json:"latest_indicators,omitempty"`
}

// Comparison is a rendered relative-performance chart for several tickers
type Comparison struct {
	Tickers     []string           `json:"tickers"`
	Period      Period             `json:"period"`
	Image       string             `json:"image"`
	ImageFormat string             `json:"image_format"`
	Performance map[string]float64 `json:"performance"` // percent change per ticker
}

// RSI is the relative strength index over Window sessions
type RSI struct {
	Ticker         string  `json:"ticker"`
	Window         int     `json:"window"`
	Value          float64 `json:"rsi"`
	Interpretation string  `json:"interpretation"`
}

// MACD is the 12/26/9 moving average convergence divergence
type MACD struct {
	Ticker    string  `json:"ticker"`
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
	Bullish   bool    `json:"bullish"`
}

// MovingAverage is a simple or exponential moving average of closing prices
type MovingAverage struct {
	Ticker       string  `json:"ticker"`
	Kind         string  `json:"kind"` // "SMA" or "EMA"
	Window       int     `json:"window"`
	Value        float64 `json:"value"`
	CurrentPrice float64 `json:"current_price"`
}

// Above reports whether the current price is strictly above the average
func (m MovingAverage) Above() bool {
	return m.CurrentPrice > m.Value
}

// Historical summarises price action over a period
type Historical struct {
	Ticker         string  `json:"ticker"`
	Period         Period  `json:"period"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	PriceStart     float64 `json:"price_start"`
	PriceEnd       float64 `json:"price_end"`
	PriceChangePct float64 `json:"price_change_pct"`
	HighestPrice   float64 `json:"highest_price"`
	LowestPrice    float64 `json:"lowest_price"`
	AvgDailyReturn float64 `json:"avg_daily_return"` // percent
	Volatility     float64 `json:"volatility"`       // percent, std dev of daily returns
	AvgVolume      int64   `json:"avg_volume"`
}
