package alphavantage

import (
	"context"
	"errors"

	"finsight/internal/fetcher"
	"finsight/internal/indicator"
	"finsight/internal/stock"
)

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
)

// RSI computes the relative strength index over window sessions
func (c *Client) RSI(ctx context.Context, ticker string, window int) (*stock.RSI, error) {
	bars, err := c.Daily(ctx, ticker)
	if err != nil {
		return nil, err
	}
	v, err := indicator.RSI(closes(bars), window)
	if err != nil {
		return nil, insufficient(ticker, err)
	}
	v = round2(v)
	return &stock.RSI{
		Ticker:         ticker,
		Window:         window,
		Value:          v,
		Interpretation: interpretRSI(v),
	}, nil
}

func interpretRSI(v float64) string {
	switch {
	case v < 30:
		return "Oversold (potential buy signal)"
	case v > 70:
		return "Overbought (potential sell signal)"
	default:
		return "Neutral"
	}
}

// MACD computes the 12/26/9 MACD. Bullish means the MACD line is above its signal line.
func (c *Client) MACD(ctx context.Context, ticker string) (*stock.MACD, error) {
	bars, err := c.Daily(ctx, ticker)
	if err != nil {
		return nil, err
	}
	res, err := indicator.MACD(closes(bars), macdFast, macdSlow, macdSignal)
	if err != nil {
		return nil, insufficient(ticker, err)
	}
	return &stock.MACD{
		Ticker:    ticker,
		MACD:      round2(res.MACD),
		Signal:    round2(res.Signal),
		Histogram: round2(res.Histogram),
		Bullish:   res.MACD > res.Signal,
	}, nil
}

// SMA computes the simple moving average of closes over window sessions
func (c *Client) SMA(ctx context.Context, ticker string, window int) (*stock.MovingAverage, error) {
	return c.movingAverage(ctx, ticker, "SMA", window, indicator.SMA)
}

// EMA computes the exponential moving average of closes over window sessions
func (c *Client) EMA(ctx context.Context, ticker string, window int) (*stock.MovingAverage, error) {
	return c.movingAverage(ctx, ticker, "EMA", window, indicator.EMA)
}

func (c *Client) movingAverage(
	ctx context.Context,
	ticker, kind string,
	window int,
	fn func([]float64, int) (float64, error),
) (*stock.MovingAverage, error) {
	bars, err := c.Daily(ctx, ticker)
	if err != nil {
		return nil, err
	}
	values := closes(bars)
	v, err := fn(values, window)
	if err != nil {
		return nil, insufficient(ticker, err)
	}
	return &stock.MovingAverage{
		Ticker:       ticker,
		Kind:         kind,
		Window:       window,
		Value:        round2(v),
		CurrentPrice: round2(values[len(values)-1]),
	}, nil
}

func insufficient(ticker string, err error) error {
	if errors.Is(err, indicator.ErrInsufficientData) {
		return fetcher.NewValidationError("not enough price history for %s", ticker)
	}
	return err
}
