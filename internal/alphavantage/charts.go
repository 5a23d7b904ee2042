package alphavantage

import (
	"context"
	"fmt"
	"math"
	"strings"

	"finsight/internal/chart"
	"finsight/internal/fetcher"
	"finsight/internal/indicator"
	"finsight/internal/stock"
)

const imageFormat = "svg"

// PlotPrice renders the closing price of ticker over period
func (c *Client) PlotPrice(ctx context.Context, ticker string, period stock.Period) (*stock.Chart, error) {
	bars, err := c.Daily(ctx, ticker)
	if err != nil {
		return nil, err
	}
	bars = window(bars, period)

	return renderPriceChart(ticker, period, bars, chart.Chart{
		Title:  fmt.Sprintf("%s stock price (%s)", ticker, period),
		YLabel: "Price (USD)",
		Labels: dates(bars),
		Series: []chart.Series{{Name: ticker, Values: closes(bars)}},
	}, nil, nil)
}

// PlotTechnical renders the closing price with SMA 20, SMA 50 and EMA 20 overlays.
// Averages are computed on the full history so they are defined from the first plotted bar.
func (c *Client) PlotTechnical(ctx context.Context, ticker string, period stock.Period) (*stock.Chart, error) {
	all, err := c.Daily(ctx, ticker)
	if err != nil {
		return nil, err
	}
	bars := window(all, period)
	offset := len(all) - len(bars)
	full := closes(all)

	overlays := []struct {
		name   string
		values []float64
	}{
		{"SMA 20", indicator.SMASeries(full, 20)},
		{"SMA 50", indicator.SMASeries(full, 50)},
		{"EMA 20", indicator.EMASeries(full, 20)},
	}

	series := []chart.Series{{Name: ticker, Values: closes(bars)}}
	names := make([]string, 0, len(overlays))
	latest := make(map[string]float64, len(overlays))
	for _, o := range overlays {
		series = append(series, chart.Series{Name: o.name, Values: o.values[offset:]})
		names = append(names, o.name)
		if v := o.values[len(o.values)-1]; !math.IsNaN(v) {
			latest[o.name] = round2(v)
		}
	}

	return renderPriceChart(ticker, period, bars, chart.Chart{
		Title:  fmt.Sprintf("%s technical indicators (%s)", ticker, period),
		YLabel: "Price (USD)",
		Labels: dates(bars),
		Series: series,
	}, names, latest)
}

func renderPriceChart(ticker string, period stock.Period, bars []Bar, c chart.Chart, indicators []string, latest map[string]float64) (*stock.Chart, error) {
	img, err := c.Base64()
	if err != nil {
		return nil, fetcher.NewValidationError("cannot chart %s: %v", ticker, err)
	}
	first, last := bars[0], bars[len(bars)-1]
	return &stock.Chart{
		Ticker:           ticker,
		Period:           period,
		Image:            img,
		ImageFormat:      imageFormat,
		LatestPrice:      round2(last.Close),
		PriceChangePct:   round2(pctChange(first.Close, last.Close)),
		StartDate:        first.Date.Format(dateLayout),
		EndDate:          last.Date.Format(dateLayout),
		Indicators:       indicators,
		LatestIndicators: latest,
	}, nil
}

// Compare renders the percentage performance of several tickers over period.
// The x axis follows the first ticker's sessions.
func (c *Client) Compare(ctx context.Context, tickers []string, period stock.Period) (*stock.Comparison, error) {
	if len(tickers) < 2 {
		return nil, fetcher.NewValidationError("need at least two tickers to compare")
	}

	var axis []Bar
	series := make([]chart.Series, 0, len(tickers))
	performance := make(map[string]float64, len(tickers))

	for _, ticker := range tickers {
		all, err := c.Daily(ctx, ticker)
		if err != nil {
			return nil, wrapTicker(ticker, err)
		}
		bars := window(all, period)
		if axis == nil {
			axis = bars
		}

		base := bars[0].Close
		byDate := make(map[string]float64, len(bars))
		for _, b := range bars {
			byDate[b.Date.Format(dateLayout)] = pctChange(base, b.Close)
		}
		values := make([]float64, len(axis))
		for i, b := range axis {
			v, ok := byDate[b.Date.Format(dateLayout)]
			if !ok {
				v = math.NaN()
			}
			values[i] = v
		}

		series = append(series, chart.Series{Name: ticker, Values: values})
		performance[ticker] = round2(pctChange(base, bars[len(bars)-1].Close))
	}

	img, err := chart.Chart{
		Title:  fmt.Sprintf("%s performance (%s)", strings.Join(tickers, " vs "), period),
		YLabel: "Change (%)",
		Labels: dates(axis),
		Series: series,
	}.Base64()
	if err != nil {
		return nil, fetcher.NewValidationError("cannot chart comparison: %v", err)
	}

	return &stock.Comparison{
		Tickers:     append([]string(nil), tickers...),
		Period:      period,
		Image:       img,
		ImageFormat: imageFormat,
		Performance: performance,
	}, nil
}
