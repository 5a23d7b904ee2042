// Package indicator computes technical indicators over closing prices.
// All series are ordered oldest first.
package indicator

import (
	"errors"
	"math"
)

// ErrInsufficientData is returned when the series is shorter than the window
var ErrInsufficientData = errors.New("not enough price history")

// SMA returns the simple moving average of the last window values
func SMA(values []float64, window int) (float64, error) {
	if window <= 0 || len(values) < window {
		return 0, ErrInsufficientData
	}
	return Mean(values[len(values)-window:]), nil
}

// SMASeries returns the rolling simple moving average. The first window-1
// entries are NaN.
func SMASeries(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// EMASeries returns the exponential moving average with smoothing 2/(span+1),
// seeded with the first value.
func EMASeries(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// EMA returns the latest exponential moving average value
func EMA(values []float64, span int) (float64, error) {
	if span <= 0 || len(values) < span {
		return 0, ErrInsufficientData
	}
	s := EMASeries(values, span)
	return s[len(s)-1], nil
}

// RSI returns the relative strength index using simple averages of the gains
// and losses over the last window price changes.
func RSI(values []float64, window int) (float64, error) {
	if window <= 0 || len(values) < window+1 {
		return 0, ErrInsufficientData
	}

	var gain, loss float64
	tail := values[len(values)-window-1:]
	for i := 1; i < len(tail); i++ {
		d := tail[i] - tail[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		if gain == 0 {
			return 50, nil
		}
		return 100, nil
	}
	rs := (gain / float64(window)) / (loss / float64(window))
	return 100 - 100/(1+rs), nil
}

// MACDResult holds the latest MACD line, signal line and histogram
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACD computes the fast/slow/signal moving average convergence divergence
func MACD(values []float64, fast, slow, signal int) (MACDResult, error) {
	if len(values) < slow+signal {
		return MACDResult{}, ErrInsufficientData
	}
	fastEMA := EMASeries(values, fast)
	slowEMA := EMASeries(values, slow)
	line := make([]float64, len(values))
	for i := range values {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	sig := EMASeries(line, signal)
	last := len(values) - 1
	return MACDResult{
		MACD:      line[last],
		Signal:    sig[last],
		Histogram: line[last] - sig[last],
	}, nil
}

// Returns returns the fractional change between consecutive values
func Returns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		out = append(out, values[i]/values[i-1]-1)
	}
	return out
}

// Mean returns the arithmetic mean, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation, or 0 for fewer than two values
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := Mean(values)
	var ss float64
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
