package chart

import (
	"encoding/base64"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestChart_SVG(t *testing.T) {
	c := Chart{
		Title:  "AAPL & friends",
		YLabel: "Price (USD)",
		Labels: []string{"2025-01-01", "2025-01-02", "2025-01-03"},
		Series: []Series{
			{Name: "AAPL", Values: []float64{1, 2, 3}},
			{Name: "SMA 2", Values: []float64{math.NaN(), 1.5, 2.5}},
		},
	}

	raw, err := c.SVG()
	if err != nil {
		t.Fatalf("SVG() returned unexpected error: %v", err)
	}
	svg := string(raw)

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("SVG() is not a complete document: %.60s", svg)
	}
	if !strings.Contains(svg, "AAPL &amp; friends") {
		t.Error("title is not escaped")
	}
	if got := strings.Count(svg, "<path "); got != 2 {
		t.Errorf("path count = %d, want 2", got)
	}
	if !strings.Contains(svg, "2025-01-03") {
		t.Error("last x label missing")
	}
}

func TestChart_SVG_NoData(t *testing.T) {
	tests := []struct {
		name   string
		series []Series
	}{
		{"no series", nil},
		{"single point", []Series{{Name: "X", Values: []float64{1}}}},
		{"all NaN", []Series{{Name: "X", Values: []float64{math.NaN(), math.NaN()}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Chart{Series: tt.series}.SVG()
			if !errors.Is(err, ErrNoData) {
				t.Errorf("SVG() error = %v, want ErrNoData", err)
			}
		})
	}
}

func TestChart_FlatSeries(t *testing.T) {
	if _, err := (Chart{Series: []Series{{Name: "X", Values: []float64{5, 5, 5}}}}).SVG(); err != nil {
		t.Fatalf("SVG() of a flat series returned error: %v", err)
	}
}

func TestChart_Base64(t *testing.T) {
	c := Chart{Series: []Series{{Name: "X", Values: []float64{1, 2}}}}

	enc, err := c.Base64()
	if err != nil {
		t.Fatalf("Base64() returned unexpected error: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		t.Fatalf("Base64() output does not decode: %v", err)
	}
	direct, _ := c.SVG()
	if string(raw) != string(direct) {
		t.Error("Base64() does not round trip to SVG()")
	}
}
