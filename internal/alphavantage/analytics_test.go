package alphavantage

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"finsight/internal/stock"
)

func seriesClient(t *testing.T, n int, closeFn func(i int) float64) *Client {
	t.Helper()
	body := dailySeries(seriesEnd, n, closeFn)
	return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "TIME_SERIES_DAILY" {
			t.Errorf("function = %q, want TIME_SERIES_DAILY", got)
		}
		writeJSON(w, body)
	})
}

func rising(i int) float64 { return 100 + float64(i) }

func TestClient_RSI(t *testing.T) {
	tests := []struct {
		name      string
		closeFn   func(int) float64
		wantValue float64
		wantText  string
	}{
		{"only gains", rising, 100, "Overbought (potential sell signal)"},
		{"only losses", func(i int) float64 { return 200 - float64(i) }, 0, "Oversold (potential buy signal)"},
		{"alternating", func(i int) float64 { return 100 + float64(i%2) }, 50, "Neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := seriesClient(t, 30, tt.closeFn)

			rsi, err := client.RSI(context.Background(), "TEST", 14)
			if err != nil {
				t.Fatalf("RSI() returned unexpected error: %v", err)
			}
			if rsi.Value != tt.wantValue {
				t.Errorf("RSI = %v, want %v", rsi.Value, tt.wantValue)
			}
			if rsi.Interpretation != tt.wantText {
				t.Errorf("Interpretation = %q, want %q", rsi.Interpretation, tt.wantText)
			}
			if rsi.Window != 14 {
				t.Errorf("Window = %d, want 14", rsi.Window)
			}
		})
	}
}

func TestClient_RSI_InsufficientHistory(t *testing.T) {
	client := seriesClient(t, 5, rising)

	_, err := client.RSI(context.Background(), "TEST", 14)
	if err == nil {
		t.Fatal("RSI() expected error, got nil")
	}
	if want := "validation error: not enough price history for TEST"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestClient_MACD_RisingIsBullish(t *testing.T) {
	client := seriesClient(t, 60, func(i int) float64 { return 100 + float64(i*i)/10 })

	macd, err := client.MACD(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("MACD() returned unexpected error: %v", err)
	}
	if !macd.Bullish {
		t.Errorf("Bullish = false for an accelerating uptrend (macd %v, signal %v)", macd.MACD, macd.Signal)
	}
	if macd.MACD <= 0 {
		t.Errorf("MACD = %v, want positive", macd.MACD)
	}
}

func TestClient_MovingAverages(t *testing.T) {
	client := seriesClient(t, 30, rising)

	sma, err := client.SMA(context.Background(), "TEST", 20)
	if err != nil {
		t.Fatalf("SMA() returned unexpected error: %v", err)
	}
	// last 20 closes are 110..129
	if sma.Value != 119.5 {
		t.Errorf("SMA = %v, want 119.5", sma.Value)
	}
	if sma.CurrentPrice != 129 {
		t.Errorf("CurrentPrice = %v, want 129", sma.CurrentPrice)
	}
	if !sma.Above() || sma.Kind != "SMA" {
		t.Errorf("unexpected SMA %+v", sma)
	}

	ema, err := client.EMA(context.Background(), "TEST", 20)
	if err != nil {
		t.Fatalf("EMA() returned unexpected error: %v", err)
	}
	if ema.Kind != "EMA" || ema.Window != 20 {
		t.Errorf("unexpected EMA %+v", ema)
	}
	if !(ema.Value > 100 && ema.Value < 129) {
		t.Errorf("EMA = %v, want between first and last close", ema.Value)
	}

	if _, err := client.SMA(context.Background(), "TEST", 200); err == nil {
		t.Error("SMA(200) expected insufficient history error, got nil")
	}
}

func TestClient_Historical(t *testing.T) {
	client := seriesClient(t, 40, rising)

	h, err := client.Historical(context.Background(), "TEST", stock.Period1Month)
	if err != nil {
		t.Fatalf("Historical() returned unexpected error: %v", err)
	}

	// one month back from 2025-03-31 keeps 2025-03-01..2025-03-31, closes 109..139
	if h.StartDate != "2025-03-01" || h.EndDate != "2025-03-31" {
		t.Errorf("period = %s..%s, want 2025-03-01..2025-03-31", h.StartDate, h.EndDate)
	}
	if h.PriceStart != 109 || h.PriceEnd != 139 {
		t.Errorf("prices = %v..%v, want 109..139", h.PriceStart, h.PriceEnd)
	}
	if h.PriceChangePct != 27.52 {
		t.Errorf("PriceChangePct = %v, want 27.52", h.PriceChangePct)
	}
	if h.HighestPrice != 140 || h.LowestPrice != 108 {
		t.Errorf("high/low = %v/%v, want 140/108", h.HighestPrice, h.LowestPrice)
	}
	if h.AvgVolume != 25000 {
		t.Errorf("AvgVolume = %d, want 25000", h.AvgVolume)
	}
	if h.Volatility <= 0 {
		t.Errorf("Volatility = %v, want positive", h.Volatility)
	}
}

func TestClient_PlotPrice(t *testing.T) {
	client := seriesClient(t, 40, rising)

	c, err := client.PlotPrice(context.Background(), "TEST", stock.Period1Week)
	if err != nil {
		t.Fatalf("PlotPrice() returned unexpected error: %v", err)
	}
	if c.ImageFormat != "svg" {
		t.Errorf("ImageFormat = %q, want svg", c.ImageFormat)
	}
	if c.LatestPrice != 139 {
		t.Errorf("LatestPrice = %v, want 139", c.LatestPrice)
	}
	raw, err := base64.StdEncoding.DecodeString(c.Image)
	if err != nil {
		t.Fatalf("image is not base64: %v", err)
	}
	if !strings.HasPrefix(string(raw), "<svg") {
		t.Errorf("image does not look like SVG: %.40s", raw)
	}
	if !strings.Contains(string(raw), "TEST stock price (1wk)") {
		t.Error("image is missing its title")
	}
}

func TestClient_PlotTechnical(t *testing.T) {
	client := seriesClient(t, 80, rising)

	c, err := client.PlotTechnical(context.Background(), "TEST", stock.Period1Month)
	if err != nil {
		t.Fatalf("PlotTechnical() returned unexpected error: %v", err)
	}
	want := []string{"SMA 20", "SMA 50", "EMA 20"}
	if strings.Join(c.Indicators, ",") != strings.Join(want, ",") {
		t.Errorf("Indicators = %v, want %v", c.Indicators, want)
	}
	// closes run 100..179, so the last 20 average 169.5 and the last 50 average 154.5
	if got := c.LatestIndicators["SMA 20"]; got != 169.5 {
		t.Errorf("latest SMA 20 = %v, want 169.5", got)
	}
	if got := c.LatestIndicators["SMA 50"]; got != 154.5 {
		t.Errorf("latest SMA 50 = %v, want 154.5", got)
	}
	if _, ok := c.LatestIndicators["EMA 20"]; !ok {
		t.Error("latest EMA 20 missing")
	}
}

func TestClient_Compare(t *testing.T) {
	bodies := map[string]string{
		"AAA": dailySeries(seriesEnd, 20, func(i int) float64 { return 100 + float64(i) }),
		"BBB": dailySeries(seriesEnd, 20, func(i int) float64 { return 50 - float64(i) }),
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, bodies[r.URL.Query().Get("symbol")])
	})

	cmp, err := client.Compare(context.Background(), []string{"AAA", "BBB"}, stock.Period1Week)
	if err != nil {
		t.Fatalf("Compare() returned unexpected error: %v", err)
	}
	if cmp.Performance["AAA"] <= 0 {
		t.Errorf("AAA performance = %v, want positive", cmp.Performance["AAA"])
	}
	if cmp.Performance["BBB"] >= 0 {
		t.Errorf("BBB performance = %v, want negative", cmp.Performance["BBB"])
	}
	if cmp.Period != stock.Period1Week {
		t.Errorf("Period = %q, want 1wk", cmp.Period)
	}
}

func TestClient_Compare_NeedsTwoTickers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	if _, err := client.Compare(context.Background(), []string{"AAA"}, stock.Period1Year); err == nil {
		t.Fatal("Compare() expected error for a single ticker, got nil")
	}
}
