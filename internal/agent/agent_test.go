package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsight/internal/search"
	"finsight/internal/sentiment"
	"finsight/internal/stock"
	"finsight/internal/testutil"
)

func newTestAgent(st *testutil.MockStockTools, se *testutil.MockSearcher, an *testutil.MockAnalyzer) *Agent {
	if st == nil {
		st = &testutil.MockStockTools{}
	}
	if se == nil {
		se = &testutil.MockSearcher{}
	}
	if an == nil {
		an = &testutil.MockAnalyzer{}
	}
	return New(st, se, an, WithLogger(zerolog.Nop()))
}

func TestHandleQuery_NonFinanceRefused(t *testing.T) {
	st := &testutil.MockStockTools{}
	se := &testutil.MockSearcher{}
	an := testutil.NewMockAnalyzer(false, nil)
	a := newTestAgent(st, se, an)

	for _, q := range []string{"Tell me a joke", "What is the weather in NYC", "Who won the AAPL cup?"} {
		res := a.HandleQuery(context.Background(), q)
		require.NotNil(t, res)
		assert.False(t, res.IsFinanceRelated)
		assert.Equal(t, "I can only help you with finance, business, or market related queries.", res.Response)
	}
	assert.Empty(t, st.Names())
	assert.Empty(t, se.Names())
}

func TestHandleQuery_Price(t *testing.T) {
	st := &testutil.MockStockTools{
		PriceFunc: func(ctx context.Context, ticker string) (*stock.Quote, error) {
			return &stock.Quote{Ticker: ticker, Price: 178.5, Currency: "USD"}, nil
		},
		InfoFunc: func(ctx context.Context, ticker string) (*stock.Info, error) {
			return &stock.Info{
				Ticker:             ticker,
				Name:               "Apple Inc",
				Sector:             "Technology",
				MarketCapFormatted: "$2.80T",
				PERatio:            28.456,
				DividendYield:      0.55,
			}, nil
		},
	}
	a := newTestAgent(st, nil, nil)

	res := a.HandleQuery(context.Background(), "What is the current price of AAPL?")

	assert.True(t, res.IsFinanceRelated)
	assert.True(t, res.IsStockQuery)
	assert.True(t, res.IsSimpleQuery)
	assert.False(t, res.Error)
	assert.Equal(t, "AAPL", res.Ticker)
	assert.Equal(t, "## Apple Inc (AAPL)\n\n"+
		"**Current Price**: $178.50 USD\n\n"+
		"**Sector**: Technology\n\n"+
		"**Market Cap**: $2.80T\n\n"+
		"**P/E Ratio**: 28.46\n\n"+
		"**Dividend Yield**: 0.55%", res.Response)
}

func TestHandleQuery_PriceInfoFailureDropsExtras(t *testing.T) {
	st := &testutil.MockStockTools{
		PriceFunc: func(ctx context.Context, ticker string) (*stock.Quote, error) {
			return &stock.Quote{Ticker: ticker, Price: 10, Currency: "USD"}, nil
		},
		InfoFunc: func(ctx context.Context, ticker string) (*stock.Info, error) {
			return nil, errors.New("overview unavailable")
		},
	}
	a := newTestAgent(st, nil, nil)

	res := a.HandleQuery(context.Background(), "price of XYZ")

	assert.Equal(t, "## XYZ (XYZ)\n\n**Current Price**: $10.00 USD", res.Response)
}

func TestHandleQuery_PriceToolErrorEmbeddedVerbatim(t *testing.T) {
	toolErr := errors.New("price not found in response for ZZZZ")
	st := &testutil.MockStockTools{
		PriceFunc: func(ctx context.Context, ticker string) (*stock.Quote, error) {
			return nil, toolErr
		},
	}
	a := newTestAgent(st, nil, nil)

	res := a.HandleQuery(context.Background(), "What is the stock price of ZZZZ?")

	assert.True(t, res.IsStockQuery)
	assert.False(t, res.Error)
	assert.Equal(t, "Sorry, I couldn't get the stock price for ZZZZ. price not found in response for ZZZZ", res.Response)
	assert.Contains(t, res.Response, toolErr.Error())
	assert.Equal(t, 0, st.Count("Info"))
}

func TestHandleQuery_ChartPeriod(t *testing.T) {
	tests := []struct {
		query      string
		wantPeriod stock.Period
		technical  bool
	}{
		{"5 year chart of TSLA", stock.Period5Year, false},
		{"chart of TSLA", stock.Period1Year, false},
		{"Show a technical chart of TSLA for the past month", stock.Period1Month, true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var gotPeriod stock.Period
			plot := func(ctx context.Context, ticker string, period stock.Period) (*stock.Chart, error) {
				gotPeriod = period
				return &stock.Chart{Ticker: ticker, Period: period, Image: "PHN2Zz4=", ImageFormat: "svg"}, nil
			}
			st := &testutil.MockStockTools{PlotPriceFunc: plot, PlotTechnicalFunc: plot}
			a := newTestAgent(st, nil, nil)

			res := a.HandleQuery(context.Background(), tt.query)

			require.NotNil(t, res.Chart)
			assert.True(t, res.IsChartQuery)
			assert.Equal(t, "TSLA", res.Ticker)
			assert.Equal(t, tt.wantPeriod, gotPeriod)
			if tt.technical {
				assert.Equal(t, 1, st.Count("PlotTechnical"))
			} else {
				assert.Equal(t, 1, st.Count("PlotPrice"))
			}
		})
	}
}

func TestHandleQuery_ChartError(t *testing.T) {
	st := &testutil.MockStockTools{
		PlotPriceFunc: func(ctx context.Context, ticker string, period stock.Period) (*stock.Chart, error) {
			return nil, errors.New("no price data")
		},
	}
	a := newTestAgent(st, nil, nil)

	res := a.HandleQuery(context.Background(), "plot NFLX")

	assert.True(t, res.IsChartQuery)
	assert.Nil(t, res.Chart)
	assert.Equal(t, "Sorry, I couldn't generate a chart for NFLX. no price data", res.Response)
	assert.Equal(t, Response{Text: res.Response}, Format(res))
}

func TestHandleQuery_Comparison(t *testing.T) {
	var gotTickers []string
	st := &testutil.MockStockTools{
		CompareFunc: func(ctx context.Context, tickers []string, period stock.Period) (*stock.Comparison, error) {
			gotTickers = tickers
			return &stock.Comparison{Tickers: tickers, Period: period}, nil
		},
	}
	a := newTestAgent(st, nil, nil)

	res := a.HandleQuery(context.Background(), "Compare AAPL vs MSFT")

	require.NotNil(t, res.Comparison)
	assert.True(t, res.IsComparisonQuery)
	assert.Equal(t, []string{"AAPL", "MSFT"}, gotTickers)
	assert.Equal(t, []string{"AAPL", "MSFT"}, res.Tickers)
	assert.Equal(t, stock.DefaultPeriod, res.Comparison.Period)
}

func TestHandleQuery_ComparisonError(t *testing.T) {
	st := &testutil.MockStockTools{
		CompareFunc: func(ctx context.Context, tickers []string, period stock.Period) (*stock.Comparison, error) {
			return nil, errors.New("rate limited")
		},
	}
	a := newTestAgent(st, nil, nil)

	res := a.HandleQuery(context.Background(), "AMD versus NVDA")

	assert.True(t, res.IsComparisonQuery)
	assert.Equal(t, "Sorry, I couldn't compare these stocks. rate limited", res.Response)
}

func TestHandleQuery_Indicators(t *testing.T) {
	var smaWindow int
	st := &testutil.MockStockTools{
		RSIFunc: func(ctx context.Context, ticker string, window int) (*stock.RSI, error) {
			return &stock.RSI{Ticker: ticker, Window: window, Value: 25, Interpretation: "Oversold (potential buy signal)"}, nil
		},
		MACDFunc: func(ctx context.Context, ticker string) (*stock.MACD, error) {
			return nil, errors.New("not enough price history for MSFT")
		},
		SMAFunc: func(ctx context.Context, ticker string, window int) (*stock.MovingAverage, error) {
			smaWindow = window
			return &stock.MovingAverage{Ticker: ticker, Kind: "SMA", Window: window, Value: 300, CurrentPrice: 310}, nil
		},
	}
	a := newTestAgent(st, nil, nil)

	res := a.HandleQuery(context.Background(), "Show technical indicators rsi, macd and sma 50 for MSFT")

	assert.True(t, res.IsIndicatorQuery)
	assert.True(t, res.IsSimpleQuery)
	assert.Equal(t, 50, smaWindow)
	require.NotNil(t, res.Indicators)
	assert.NotNil(t, res.Indicators.RSI)
	assert.Nil(t, res.Indicators.MACD)
	assert.NotNil(t, res.Indicators.SMA)
	assert.Contains(t, res.Response, "## Technical Indicators for MSFT")
	assert.Contains(t, res.Response, "**RSI (14)**: 25.00\n**Interpretation**: Oversold (potential buy signal)")
	assert.Contains(t, res.Response, "**SMA (50)**: 300.00\n**Current Price**: 310.00\n**Status**: Price is above SMA 50")
	assert.NotContains(t, res.Response, "**MACD**")
	assert.Contains(t, res.Response, "**Overall Signal**: BULLISH")
	assert.Equal(t, 0, st.Count("EMA"))
}

func TestHandleQuery_IndicatorsAllFailed(t *testing.T) {
	st := &testutil.MockStockTools{
		EMAFunc: func(ctx context.Context, ticker string, window int) (*stock.MovingAverage, error) {
			return nil, errors.New("boom")
		},
	}
	a := newTestAgent(st, nil, nil)

	res := a.HandleQuery(context.Background(), "technical ema 200 for TSLA")

	assert.True(t, res.IsStockQuery)
	assert.False(t, res.IsIndicatorQuery)
	assert.Equal(t, "Sorry, I couldn't calculate the requested indicators for TSLA.", res.Response)
}

func TestHandleQuery_Historical(t *testing.T) {
	var gotPeriod stock.Period
	st := &testutil.MockStockTools{
		HistoricalFunc: func(ctx context.Context, ticker string, period stock.Period) (*stock.Historical, error) {
			gotPeriod = period
			return &stock.Historical{
				Ticker:         ticker,
				Period:         period,
				StartDate:      "2015-01-02",
				EndDate:        "2025-01-02",
				PriceStart:     27.33,
				PriceEnd:       243.85,
				PriceChangePct: 792.24,
				HighestPrice:   259.02,
				LowestPrice:    22.58,
				AvgDailyReturn: 0.1,
				Volatility:     1.78,
				AvgVolume:      123456789,
			}, nil
		},
		InfoFunc: func(ctx context.Context, ticker string) (*stock.Info, error) {
			return &stock.Info{Ticker: ticker, Name: "Apple Inc"}, nil
		},
	}
	a := newTestAgent(st, nil, nil)

	res := a.HandleQuery(context.Background(), "Show 10 year historical data for AAPL")

	assert.Equal(t, stock.Period10Year, gotPeriod)
	assert.True(t, res.IsHistoricalQuery)
	require.NotNil(t, res.Historical)
	assert.Contains(t, res.Response, "## Historical Performance: Apple Inc (AAPL)")
	assert.Contains(t, res.Response, "**Period**: 2015-01-02 to 2025-01-02")
	assert.Contains(t, res.Response, "**Price Change**: +792.24%")
	assert.Contains(t, res.Response, "**Average Daily Volume**: 123,456,789")
}

func TestHandleQuery_HistoricalError(t *testing.T) {
	st := &testutil.MockStockTools{
		HistoricalFunc: func(ctx context.Context, ticker string, period stock.Period) (*stock.Historical, error) {
			return nil, errors.New("no data")
		},
	}
	a := newTestAgent(st, nil, nil)

	res := a.HandleQuery(context.Background(), "historical prices for IBM")

	assert.Equal(t, "Sorry, I couldn't get historical data for IBM. no data", res.Response)
	assert.False(t, res.Error)
}

func TestHandleQuery_SimpleAnswerSkipsSearch(t *testing.T) {
	se := &testutil.MockSearcher{}
	an := testutil.NewMockAnalyzer(true, nil)
	a := newTestAgent(nil, se, an)

	res := a.HandleQuery(context.Background(), "What is the ticker for Apple?")

	assert.True(t, res.IsSimpleQuery)
	assert.Equal(t, "Apple Inc.'s stock ticker is AAPL.", res.Response)
	assert.Empty(t, se.Names())
	assert.Equal(t, 0, an.Count("AnalyzeSentiment"))
}

func TestHandleQuery_ReportQuery(t *testing.T) {
	analysis := &sentiment.Analysis{
		Sentiment:        "POSITIVE",
		Confidence:       "High",
		MarketImpact:     "Supportive for financials",
		DetailedAnalysis: "Buffett reiterated confidence.",
		Summary:          "Buffett remains optimistic.",
		Recommendations:  "- Stay diversified",
	}
	se := testutil.NewMockSearcher("Source 1: Berkshire letter\nBuffett wrote...", nil)
	an := testutil.NewMockAnalyzer(true, analysis)
	a := newTestAgent(nil, se, an)

	res := a.HandleQuery(context.Background(), "What did Warren Buffett say in his latest annual report?")

	assert.True(t, res.IsFinanceRelated)
	assert.True(t, res.IsReportQuery)
	assert.False(t, res.IsSimpleQuery)
	assert.Equal(t, analysis, res.Analysis)
	assert.NotEmpty(t, res.SearchResults)

	out := Format(res)
	assert.True(t, len(out.Text) > 0)
	assert.Contains(t, out.Text, "# Financial Market Analysis 📈")
	assert.Contains(t, out.Text, "**Sentiment:** POSITIVE\n**Confidence Level:** High")
	assert.Contains(t, out.Text, "## Recommendations\n- Stay diversified")
	assert.NotContains(t, out.Text, "Overall sentiment appears to be")
}

func TestHandleQuery_ConversationalAnalysis(t *testing.T) {
	se := testutil.NewMockSearcher("some market text", nil)
	an := testutil.NewMockAnalyzer(true, &sentiment.Analysis{Sentiment: "MIXED", Summary: "Banks are split."})
	a := newTestAgent(nil, se, an)

	res := a.HandleQuery(context.Background(), "How are bank stocks doing?")

	assert.False(t, res.IsReportQuery)
	assert.Equal(t, "Banks are split.\n\nOverall sentiment appears to be mixed.", Format(res).Text)
}

func TestHandleQuery_SearchNoInformation(t *testing.T) {
	tests := []struct {
		name string
		se   *testutil.MockSearcher
	}{
		{"sentinel", testutil.NewMockSearcher(search.NoInformation, nil)},
		{"empty", testutil.NewMockSearcher("  ", nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			an := testutil.NewMockAnalyzer(true, &sentiment.Analysis{})
			a := newTestAgent(nil, tt.se, an)

			res := a.HandleQuery(context.Background(), "How is the bond market?")

			assert.True(t, res.Error)
			assert.True(t, res.IsFinanceRelated)
			assert.Equal(t, "I couldn't find any relevant information for your query. "+
				"Please try rephrasing or ask about a more specific financial topic.", res.Response)
			assert.Equal(t, 0, an.Count("AnalyzeSentiment"))
		})
	}
}

func TestHandleQuery_SearchErrorBecomesErrorResult(t *testing.T) {
	se := testutil.NewMockSearcher("", errors.New("HTTP 401 invalid api key"))
	an := testutil.NewMockAnalyzer(true, &sentiment.Analysis{})
	a := newTestAgent(nil, se, an)

	res := a.HandleQuery(context.Background(), "How is the bond market?")

	assert.True(t, res.Error)
	assert.True(t, res.IsFinanceRelated)
	assert.Equal(t, "An error occurred while processing your query: search: HTTP 401 invalid api key", res.Response)
	assert.Equal(t, 0, an.Count("AnalyzeSentiment"))
}

func TestHandleQuery_AnalyzerErrorBecomesErrorResult(t *testing.T) {
	an := &testutil.MockAnalyzer{
		AnalyzeSentimentFunc: func(ctx context.Context, text, query string) (*sentiment.Analysis, error) {
			return nil, sentiment.ErrEmptyResponse
		},
	}
	a := newTestAgent(nil, testutil.NewMockSearcher("text", nil), an)

	res := a.HandleQuery(context.Background(), "Outlook for the economy")

	assert.True(t, res.Error)
	assert.Equal(t, "An error occurred while processing your query: analyze sentiment: model returned an empty response", res.Response)
}

func TestHandleQuery_GateErrorBecomesErrorResult(t *testing.T) {
	an := &testutil.MockAnalyzer{
		IsFinanceRelatedFunc: func(ctx context.Context, query string) (bool, error) {
			return false, errors.New("llm down")
		},
	}
	a := newTestAgent(nil, nil, an)

	res := a.HandleQuery(context.Background(), "anything")

	assert.True(t, res.Error)
	assert.True(t, res.IsFinanceRelated)
	assert.Contains(t, res.Response, "llm down")
}

func TestHandleQuery_PanicRecovered(t *testing.T) {
	st := &testutil.MockStockTools{
		PriceFunc: func(ctx context.Context, ticker string) (*stock.Quote, error) {
			panic("unexpected nil")
		},
	}
	a := newTestAgent(st, nil, nil)

	var res *Result
	require.NotPanics(t, func() {
		res = a.HandleQuery(context.Background(), "price of AAPL")
	})
	require.NotNil(t, res)
	assert.True(t, res.Error)
	assert.Equal(t, "An error occurred while processing your query: unexpected nil", res.Response)
}

func TestHandleQuery_StockBeforeSimpleAnswer(t *testing.T) {
	st := &testutil.MockStockTools{
		PriceFunc: func(ctx context.Context, ticker string) (*stock.Quote, error) {
			return &stock.Quote{Ticker: ticker, Price: 1, Currency: "USD"}, nil
		},
		InfoFunc: func(ctx context.Context, ticker string) (*stock.Info, error) {
			return &stock.Info{Ticker: ticker, Name: "Apple Inc"}, nil
		},
	}
	a := newTestAgent(st, nil, nil)

	res := a.HandleQuery(context.Background(), "apple ticker and current price")

	assert.True(t, res.IsStockQuery)
	assert.Contains(t, res.Response, "## Apple Inc (AAPL)")
}
