// Package chart renders line charts as standalone SVG documents.
package chart

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"math"
	"strings"
)

const (
	width   = 800.0
	height  = 400.0
	padLeft = 64.0
	padTop  = 40.0
	padSide = 24.0
	padBot  = 48.0
)

var palette = []string{"#1e88e5", "#e53935", "#43a047", "#fb8c00", "#8e24aa", "#00897b", "#6d4c41"}

// ErrNoData is returned when no series has at least two finite points
var ErrNoData = errors.New("chart has no data to plot")

// Series is one line on the chart. NaN values leave a gap.
type Series struct {
	Name   string
	Values []float64
}

// Chart describes a line chart with a shared x axis
type Chart struct {
	Title  string
	YLabel string
	Labels []string // x axis labels, one per point
	Series []Series
}

// SVG renders the chart
func (c Chart) SVG() ([]byte, error) {
	lo, hi, n := c.bounds()
	if n < 2 {
		return nil, ErrNoData
	}
	if hi == lo {
		hi, lo = hi+1, lo-1
	}

	plotW := width - padLeft - padSide
	plotH := height - padTop - padBot
	x := func(i int) float64 { return padLeft + plotW*float64(i)/float64(n-1) }
	y := func(v float64) float64 { return padTop + plotH*(hi-v)/(hi-lo) }

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="sans-serif">`, width, height, width, height)
	b.WriteString(`<rect width="100%" height="100%" fill="white"/>`)
	fmt.Fprintf(&b, `<text x="%.0f" y="24" font-size="16" font-weight="bold">%s</text>`, padLeft, html.EscapeString(c.Title))

	for i := 0; i <= 4; i++ {
		v := lo + (hi-lo)*float64(i)/4
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#e0e0e0"/>`, padLeft, y(v), width-padSide, y(v))
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="11" text-anchor="end">%.2f</text>`, padLeft-6, y(v)+4, v)
	}
	if c.YLabel != "" {
		fmt.Fprintf(&b, `<text x="14" y="%.1f" font-size="11" transform="rotate(-90 14 %.1f)">%s</text>`, padTop+plotH/2, padTop+plotH/2, html.EscapeString(c.YLabel))
	}
	if len(c.Labels) > 0 {
		for _, i := range []int{0, (n - 1) / 2, n - 1} {
			if i < len(c.Labels) {
				fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">%s</text>`, x(i), height-padBot+18, html.EscapeString(c.Labels[i]))
			}
		}
	}

	for si, s := range c.Series {
		color := palette[si%len(palette)]
		var path strings.Builder
		pen := false
		for i, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				pen = false
				continue
			}
			cmd := "L"
			if !pen {
				cmd = "M"
				pen = true
			}
			fmt.Fprintf(&path, "%s%.1f %.1f ", cmd, x(i), y(v))
		}
		fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="1.5"/>`, strings.TrimSpace(path.String()), color)
		ly := padTop + 14*float64(si)
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="10" height="3" fill="%s"/>`, width-padSide-140, ly-4, color)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="11">%s</text>`, width-padSide-124, ly, html.EscapeString(s.Name))
	}

	b.WriteString(`</svg>`)
	return []byte(b.String()), nil
}

// Base64 renders the chart and encodes it for embedding in a JSON payload
func (c Chart) Base64() (string, error) {
	raw, err := c.SVG()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func (c Chart) bounds() (lo, hi float64, n int) {
	lo, hi = math.Inf(1), math.Inf(-1)
	finite := 0
	for _, s := range c.Series {
		if len(s.Values) > n {
			n = len(s.Values)
		}
		for _, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			finite++
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if finite < 2 {
		return 0, 0, 0
	}
	return lo, hi, n
}
