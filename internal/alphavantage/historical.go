package alphavantage

import (
	"context"
	"math"

	"finsight/internal/indicator"
	"finsight/internal/stock"
)

// Historical summarises the ticker's price action over period
func (c *Client) Historical(ctx context.Context, ticker string, period stock.Period) (*stock.Historical, error) {
	bars, err := c.Daily(ctx, ticker)
	if err != nil {
		return nil, err
	}
	bars = window(bars, period)

	first, last := bars[0], bars[len(bars)-1]
	high, low := math.Inf(-1), math.Inf(1)
	var volume float64
	for _, b := range bars {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
		volume += float64(b.Volume)
	}

	returns := indicator.Returns(closes(bars))
	return &stock.Historical{
		Ticker:         ticker,
		Period:         period,
		StartDate:      first.Date.Format(dateLayout),
		EndDate:        last.Date.Format(dateLayout),
		PriceStart:     round2(first.Close),
		PriceEnd:       round2(last.Close),
		PriceChangePct: round2(pctChange(first.Close, last.Close)),
		HighestPrice:   round2(high),
		LowestPrice:    round2(low),
		AvgDailyReturn: round2(indicator.Mean(returns) * 100),
		Volatility:     round2(indicator.StdDev(returns) * 100),
		AvgVolume:      int64(math.Round(volume / float64(len(bars)))),
	}, nil
}

func pctChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to/from - 1) * 100
}
