package alphavantage

import (
	"context"
	"sort"
	"time"

	"finsight/internal/fetcher"
	"finsight/internal/stock"
)

const dateLayout = "2006-01-02"

type dailyResponse struct {
	apiNotice
	Series map[string]dailyBar `json:"Time Series (Daily)"`
}

type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// Bar is one trading session
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Daily returns the daily bars for ticker, oldest first
func (c *Client) Daily(ctx context.Context, ticker string) ([]Bar, error) {
	var result dailyResponse
	params := map[string]string{
		"symbol":     ticker,
		"outputsize": c.outputSize,
	}
	if err := c.query(ctx, "TIME_SERIES_DAILY", params, &result); err != nil {
		return nil, err
	}
	if len(result.Series) == 0 {
		return nil, fetcher.NewValidationError("no price history found for %s", ticker)
	}

	bars := make([]Bar, 0, len(result.Series))
	for day, raw := range result.Series {
		date, err := time.Parse(dateLayout, day)
		if err != nil {
			return nil, fetcher.NewValidationError("invalid date %q in response", day)
		}
		bar := Bar{Date: date}
		fields := []struct {
			name string
			raw  string
			dst  *float64
		}{
			{"open", raw.Open, &bar.Open},
			{"high", raw.High, &bar.High},
			{"low", raw.Low, &bar.Low},
			{"close", raw.Close, &bar.Close},
		}
		for _, f := range fields {
			v, err := mustNumber(f.name, f.raw)
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}
		if v, ok := parseNumber(raw.Volume); ok {
			bar.Volume = int64(v)
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// window keeps the bars within period of the latest session. At least two
// bars are kept when available so a change can always be computed.
func window(bars []Bar, period stock.Period) []Bar {
	days := period.Days()
	if days == 0 || len(bars) == 0 {
		return bars
	}
	cutoff := bars[len(bars)-1].Date.AddDate(0, 0, -days)
	start := sort.Search(len(bars), func(i int) bool { return !bars[i].Date.Before(cutoff) })
	if len(bars)-start < 2 {
		start = max(len(bars)-2, 0)
	}
	return bars[start:]
}

func closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func dates(bars []Bar) []string {
	out := make([]string, len(bars))
	for i, b := range bars {
		out[i] = b.Date.Format(dateLayout)
	}
	return out
}
