package agent

import (
	"fmt"
	"strings"

	"finsight/internal/sentiment"
	"finsight/internal/stock"
)

// Response is what the host displays: Markdown text, or a chart or
// comparison payload to render.
type Response struct {
	Text       string
	Chart      *stock.Chart
	Comparison *stock.Comparison
}

const reportFooter = "_Analysis based on information gathered from market sources. " +
	"This is for informational purposes only and should not be considered financial advice._"

var sentimentEmoji = map[string]string{
	"POSITIVE": "📈",
	"NEGATIVE": "📉",
	"NEUTRAL":  "➡️",
	"MIXED":    "🔄",
}

// Format converts a Result into display form
func Format(r *Result) Response {
	if r == nil {
		return Response{}
	}
	if !r.IsFinanceRelated {
		return Response{Text: r.Response}
	}

	if r.IsStockQuery && r.IsChartQuery && r.Chart != nil {
		return Response{Chart: r.Chart}
	}
	if r.IsStockQuery && r.IsComparisonQuery && r.Comparison != nil {
		return Response{Comparison: r.Comparison}
	}

	if r.IsSimpleQuery || !r.IsReportQuery {
		if r.Response != "" || r.Analysis == nil {
			return Response{Text: r.Response}
		}
		summary := or(r.Analysis.Summary, "No summary available.")
		label := strings.ToLower(or(r.Analysis.Sentiment, "UNKNOWN"))
		return Response{Text: fmt.Sprintf("%s\n\nOverall sentiment appears to be %s.", summary, label)}
	}

	return Response{Text: formatReport(r.Analysis)}
}

func formatReport(a *sentiment.Analysis) string {
	if a == nil {
		a = &sentiment.Analysis{}
	}
	label := or(a.Sentiment, "UNDETERMINED")
	emoji, ok := sentimentEmoji[label]
	if !ok {
		emoji = "🔍"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Financial Market Analysis %s\n\n", emoji)
	b.WriteString("## Key Findings\n\n")
	fmt.Fprintf(&b, "**Sentiment:** %s\n", label)
	fmt.Fprintf(&b, "**Confidence Level:** %s\n\n", or(a.Confidence, "Insufficient data"))
	fmt.Fprintf(&b, "## Summary\n%s\n\n", or(a.Summary, "Insufficient information for summary"))
	fmt.Fprintf(&b, "## Market Impact\n%s\n\n", or(a.MarketImpact, "Unable to determine market impact"))
	fmt.Fprintf(&b, "## Analysis Details\n%s\n\n", or(a.DetailedAnalysis, "No detailed analysis available"))
	fmt.Fprintf(&b, "## Recommendations\n%s\n\n", or(a.Recommendations, "No specific recommendations available"))
	b.WriteString("---\n")
	b.WriteString(reportFooter)
	b.WriteString("\n")
	return b.String()
}

func or(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
