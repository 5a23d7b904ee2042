// Package cli holds the terminal host for the assistant: answer rendering,
// the interactive prompt and batch input.
package cli

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"finsight/internal/agent"
	"finsight/internal/stock"
)

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Printer writes formatted answers. Chart payloads are saved as image files
// under dir and referenced from the printed Markdown.
type Printer struct {
	out      io.Writer
	dir      string
	renderer *glamour.TermRenderer
}

// NewPrinter creates a Printer. When markdown is true answers are rendered
// with glamour, otherwise the raw Markdown is written.
func NewPrinter(out io.Writer, dir string, markdown bool) (*Printer, error) {
	p := &Printer{out: out, dir: dir}
	if markdown {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return nil, fmt.Errorf("create markdown renderer: %w", err)
		}
		p.renderer = r
	}
	return p, nil
}

// Print writes one answer
func (p *Printer) Print(resp agent.Response) error {
	text, err := p.Markdown(resp)
	if err != nil {
		return err
	}
	if p.renderer != nil {
		if rendered, err := p.renderer.Render(text); err == nil {
			text = rendered
		}
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err = io.WriteString(p.out, text)
	return err
}

// Markdown returns the answer as Markdown, saving any chart image first
func (p *Printer) Markdown(resp agent.Response) (string, error) {
	switch {
	case resp.Chart != nil:
		return p.chartMarkdown(resp.Chart)
	case resp.Comparison != nil:
		return p.comparisonMarkdown(resp.Comparison)
	default:
		return resp.Text, nil
	}
}

func (p *Printer) chartMarkdown(c *stock.Chart) (string, error) {
	path, err := p.saveImage(c.Ticker, c.Period, c.Image, c.ImageFormat)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Stock Chart for %s\n\n", c.Ticker)
	fmt.Fprintf(&b, "Chart saved to `%s` (%s to %s)\n\n", path, c.StartDate, c.EndDate)
	fmt.Fprintf(&b, "**Latest Price**: $%.2f\n", c.LatestPrice)
	fmt.Fprintf(&b, "**Change**: %+.2f%%\n", c.PriceChangePct)
	if len(c.Indicators) > 0 {
		fmt.Fprintf(&b, "**Indicators**: %s\n", strings.Join(c.Indicators, ", "))
	}
	for _, name := range c.Indicators {
		if v, ok := c.LatestIndicators[name]; ok {
			fmt.Fprintf(&b, "**Latest %s**: $%.2f\n", name, v)
		}
	}
	return b.String(), nil
}

func (p *Printer) comparisonMarkdown(c *stock.Comparison) (string, error) {
	path, err := p.saveImage(strings.Join(c.Tickers, "_"), c.Period, c.Image, c.ImageFormat)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Stock Comparison: %s\n\n", strings.Join(c.Tickers, ", "))
	fmt.Fprintf(&b, "Chart saved to `%s`\n\n", path)
	b.WriteString("### Performance Summary\n\n")
	b.WriteString("| Ticker | Change | Status |\n|---|---|---|\n")
	for _, t := range c.Tickers {
		perf, ok := c.Performance[t]
		if !ok {
			continue
		}
		status := "📈"
		if perf < 0 {
			status = "📉"
		}
		fmt.Fprintf(&b, "| %s | %+.2f%% | %s |\n", t, perf, status)
	}
	return b.String(), nil
}

// saveImage decodes a base64 image into <name>_<period>.<format> under dir
func (p *Printer) saveImage(name string, period stock.Period, image, format string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return "", fmt.Errorf("decode chart image: %w", err)
	}
	if format == "" {
		format = "svg"
	}

	path := filepath.Join(p.dir, fmt.Sprintf("%s_%s.%s", name, period, format))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}
