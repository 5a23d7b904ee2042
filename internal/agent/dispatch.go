package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"finsight/internal/stock"
)

const rsiWindow = 14

// handleStock answers price, chart, comparison, indicator and historical
// lookups. It returns nil when the query is not a stock query.
func (a *Agent) handleStock(ctx context.Context, query string) *Result {
	lower := strings.ToLower(query)
	tickers := ExtractTickers(query)

	intent := classifyIntent(lower, tickers)
	if intent == IntentNone {
		return nil
	}
	a.log.Debug().Str("intent", intent.String()).Strs("tickers", tickers).Msg("stock query")

	switch intent {
	case IntentPrice:
		return a.price(ctx, tickers[0])
	case IntentChart:
		return a.chart(ctx, lower, tickers[0])
	case IntentComparison:
		return a.compare(ctx, lower, tickers)
	case IntentIndicator:
		return a.indicators(ctx, lower, tickers[0])
	case IntentHistorical:
		return a.historical(ctx, lower, tickers[0])
	}
	return nil
}

func (a *Agent) price(ctx context.Context, ticker string) *Result {
	quote, err := a.stock.Price(ctx, ticker)
	if err != nil {
		a.log.Warn().Err(err).Str("ticker", ticker).Msg("price lookup failed")
		return &Result{
			IsFinanceRelated: true,
			IsStockQuery:     true,
			IsSimpleQuery:    true,
			Response:         fmt.Sprintf("Sorry, I couldn't get the stock price for %s. %s", ticker, err),
		}
	}

	info, err := a.stock.Info(ctx, ticker)
	if err != nil {
		a.log.Warn().Err(err).Str("ticker", ticker).Msg("company info lookup failed")
		info = nil
	}

	name := ticker
	if info != nil && info.Name != "" {
		name = info.Name
	}
	currency := quote.Currency
	if currency == "" {
		currency = "USD"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%s)\n\n", name, ticker)
	fmt.Fprintf(&b, "**Current Price**: $%.2f %s\n\n", quote.Price, currency)
	if info != nil {
		if info.Sector != "" {
			fmt.Fprintf(&b, "**Sector**: %s\n\n", info.Sector)
		}
		if info.MarketCapFormatted != "" {
			fmt.Fprintf(&b, "**Market Cap**: %s\n\n", info.MarketCapFormatted)
		}
		if info.PERatio != 0 {
			fmt.Fprintf(&b, "**P/E Ratio**: %.2f\n\n", info.PERatio)
		}
		if info.DividendYield != 0 {
			fmt.Fprintf(&b, "**Dividend Yield**: %.2f%%\n\n", info.DividendYield)
		}
	}

	return &Result{
		IsFinanceRelated: true,
		IsStockQuery:     true,
		IsSimpleQuery:    true,
		Response:         strings.TrimSpace(b.String()),
		Ticker:           ticker,
	}
}

func (a *Agent) chart(ctx context.Context, lower, ticker string) *Result {
	period := selectPeriod(lower, false)

	var (
		c   *stock.Chart
		err error
	)
	if containsAny(lower, technicalChartKeys...) {
		c, err = a.stock.PlotTechnical(ctx, ticker, period)
	} else {
		c, err = a.stock.PlotPrice(ctx, ticker, period)
	}
	if err != nil {
		a.log.Warn().Err(err).Str("ticker", ticker).Str("period", string(period)).Msg("chart failed")
		return &Result{
			IsFinanceRelated: true,
			IsStockQuery:     true,
			IsChartQuery:     true,
			Response:         fmt.Sprintf("Sorry, I couldn't generate a chart for %s. %s", ticker, err),
		}
	}

	return &Result{
		IsFinanceRelated: true,
		IsStockQuery:     true,
		IsChartQuery:     true,
		Chart:            c,
		Ticker:           ticker,
	}
}

func (a *Agent) compare(ctx context.Context, lower string, tickers []string) *Result {
	period := selectPeriod(lower, false)

	cmp, err := a.stock.Compare(ctx, tickers, period)
	if err != nil {
		a.log.Warn().Err(err).Strs("tickers", tickers).Msg("comparison failed")
		return &Result{
			IsFinanceRelated:  true,
			IsStockQuery:      true,
			IsComparisonQuery: true,
			Response:          fmt.Sprintf("Sorry, I couldn't compare these stocks. %s", err),
		}
	}

	return &Result{
		IsFinanceRelated:  true,
		IsStockQuery:      true,
		IsComparisonQuery: true,
		Comparison:        cmp,
		Tickers:           tickers,
	}
}

// averageWindow picks the moving average window named in the query
func averageWindow(lower string) int {
	for _, w := range []struct {
		text   string
		window int
	}{{"50", 50}, {"200", 200}, {"100", 100}} {
		if strings.Contains(lower, w.text) {
			return w.window
		}
	}
	return 20
}

func (a *Agent) indicators(ctx context.Context, lower, ticker string) *Result {
	var (
		set IndicatorSet
		b   strings.Builder
	)
	fmt.Fprintf(&b, "## Technical Indicators for %s\n\n", ticker)

	if containsAny(lower, "rsi", "relative strength index") {
		if rsi, err := a.stock.RSI(ctx, ticker, rsiWindow); err != nil {
			a.log.Warn().Err(err).Str("ticker", ticker).Msg("rsi failed")
		} else {
			set.RSI = rsi
			fmt.Fprintf(&b, "**RSI (%d)**: %.2f\n", rsi.Window, rsi.Value)
			fmt.Fprintf(&b, "**Interpretation**: %s\n\n", rsi.Interpretation)
		}
	}

	if containsAny(lower, "macd", "moving average convergence divergence") {
		if macd, err := a.stock.MACD(ctx, ticker); err != nil {
			a.log.Warn().Err(err).Str("ticker", ticker).Msg("macd failed")
		} else {
			set.MACD = macd
			trend := "Bearish"
			if macd.Bullish {
				trend = "Bullish"
			}
			fmt.Fprintf(&b, "**MACD**: %.4f\n", macd.MACD)
			fmt.Fprintf(&b, "**Signal**: %.4f\n", macd.Signal)
			fmt.Fprintf(&b, "**Histogram**: %.4f\n", macd.Histogram)
			fmt.Fprintf(&b, "**Trend**: %s\n\n", trend)
		}
	}

	window := averageWindow(lower)

	if containsAny(lower, "sma", "simple moving average") {
		if sma, err := a.stock.SMA(ctx, ticker, window); err != nil {
			a.log.Warn().Err(err).Str("ticker", ticker).Int("window", window).Msg("sma failed")
		} else {
			set.SMA = sma
			writeAverage(&b, "SMA", sma)
		}
	}

	if containsAny(lower, "ema", "exponential moving average") {
		if ema, err := a.stock.EMA(ctx, ticker, window); err != nil {
			a.log.Warn().Err(err).Str("ticker", ticker).Int("window", window).Msg("ema failed")
		} else {
			set.EMA = ema
			writeAverage(&b, "EMA", ema)
		}
	}

	if set.Empty() {
		return &Result{
			IsFinanceRelated: true,
			IsStockQuery:     true,
			IsSimpleQuery:    true,
			Response:         fmt.Sprintf("Sorry, I couldn't calculate the requested indicators for %s.", ticker),
		}
	}

	b.WriteString(Recommendation(set))

	return &Result{
		IsFinanceRelated: true,
		IsStockQuery:     true,
		IsIndicatorQuery: true,
		IsSimpleQuery:    true,
		Response:         strings.TrimSpace(b.String()),
		Indicators:       &set,
		Ticker:           ticker,
	}
}

func writeAverage(b *strings.Builder, kind string, m *stock.MovingAverage) {
	status := "below"
	if m.Above() {
		status = "above"
	}
	fmt.Fprintf(b, "**%s (%d)**: %.2f\n", kind, m.Window, m.Value)
	fmt.Fprintf(b, "**Current Price**: %.2f\n", m.CurrentPrice)
	fmt.Fprintf(b, "**Status**: Price is %s %s %d\n\n", status, kind, m.Window)
}

func (a *Agent) historical(ctx context.Context, lower, ticker string) *Result {
	period := selectPeriod(lower, true)

	h, err := a.stock.Historical(ctx, ticker, period)
	if err != nil {
		a.log.Warn().Err(err).Str("ticker", ticker).Str("period", string(period)).Msg("historical lookup failed")
		return &Result{
			IsFinanceRelated: true,
			IsStockQuery:     true,
			IsSimpleQuery:    true,
			Response:         fmt.Sprintf("Sorry, I couldn't get historical data for %s. %s", ticker, err),
		}
	}

	name := ticker
	if info, err := a.stock.Info(ctx, ticker); err == nil && info.Name != "" {
		name = info.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Historical Performance: %s (%s)\n\n", name, ticker)
	fmt.Fprintf(&b, "**Period**: %s to %s\n\n", h.StartDate, h.EndDate)
	fmt.Fprintf(&b, "**Price Change**: %+.2f%%\n", h.PriceChangePct)
	fmt.Fprintf(&b, "**Starting Price**: $%.2f\n", h.PriceStart)
	fmt.Fprintf(&b, "**Ending Price**: $%.2f\n\n", h.PriceEnd)
	fmt.Fprintf(&b, "**Highest Price**: $%.2f\n", h.HighestPrice)
	fmt.Fprintf(&b, "**Lowest Price**: $%.2f\n\n", h.LowestPrice)
	fmt.Fprintf(&b, "**Average Daily Return**: %.2f%%\n", h.AvgDailyReturn)
	fmt.Fprintf(&b, "**Volatility (Std Dev)**: %.2f%%\n", h.Volatility)
	fmt.Fprintf(&b, "**Average Daily Volume**: %s\n", humanize.Comma(h.AvgVolume))

	return &Result{
		IsFinanceRelated:  true,
		IsStockQuery:      true,
		IsHistoricalQuery: true,
		IsSimpleQuery:     true,
		Response:          strings.TrimSpace(b.String()),
		Historical:        h,
		Ticker:            ticker,
	}
}
