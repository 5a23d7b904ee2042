package agent

import (
	"fmt"
	"strings"

	"finsight/internal/stock"
)

// Verdict is the overall direction of a set of technical signals
type Verdict string

const (
	VerdictBullish Verdict = "BULLISH"
	VerdictBearish Verdict = "BEARISH"
	VerdictNeutral Verdict = "NEUTRAL"
)

const (
	rsiOversold   = 30
	rsiOverbought = 70
)

// Signal is a single bullish or bearish reading
type Signal struct {
	Bullish bool
	Reason  string
}

// Signals derives readings from the indicator set in RSI, MACD, SMA, EMA order.
// An RSI between the oversold and overbought bands yields no signal.
func Signals(set IndicatorSet) []Signal {
	var out []Signal

	if set.RSI != nil {
		switch {
		case set.RSI.Value < rsiOversold:
			out = append(out, Signal{Bullish: true, Reason: "RSI indicates oversold conditions"})
		case set.RSI.Value > rsiOverbought:
			out = append(out, Signal{Bullish: false, Reason: "RSI indicates overbought conditions"})
		}
	}

	if set.MACD != nil {
		if set.MACD.Bullish {
			out = append(out, Signal{Bullish: true, Reason: "MACD shows bullish momentum"})
		} else {
			out = append(out, Signal{Bullish: false, Reason: "MACD shows bearish momentum"})
		}
	}

	if set.SMA != nil {
		out = append(out, averageSignal("SMA", set.SMA))
	}
	if set.EMA != nil {
		out = append(out, averageSignal("EMA", set.EMA))
	}

	return out
}

func averageSignal(kind string, m *stock.MovingAverage) Signal {
	if m.Above() {
		return Signal{Bullish: true, Reason: fmt.Sprintf("Price is above %s %d", kind, m.Window)}
	}
	return Signal{Bullish: false, Reason: fmt.Sprintf("Price is below %s %d", kind, m.Window)}
}

// Overall is decided by strict majority; ties and empty input are neutral
func Overall(signals []Signal) Verdict {
	var bullish, bearish int
	for _, s := range signals {
		if s.Bullish {
			bullish++
		} else {
			bearish++
		}
	}
	switch {
	case bullish > bearish:
		return VerdictBullish
	case bearish > bullish:
		return VerdictBearish
	default:
		return VerdictNeutral
	}
}

// Recommendation renders the technical analysis summary block
func Recommendation(set IndicatorSet) string {
	signals := Signals(set)

	var b strings.Builder
	b.WriteString("## Technical Analysis Summary\n\n")
	fmt.Fprintf(&b, "**Overall Signal**: %s\n\n", Overall(signals))
	b.WriteString("**Signals**:\n")
	for _, s := range signals {
		marker := "📉"
		if s.Bullish {
			marker = "📈"
		}
		fmt.Fprintf(&b, "- %s %s\n", marker, s.Reason)
	}
	b.WriteString("\n**Note**: Technical analysis should be combined with fundamental analysis and overall market conditions.")
	return b.String()
}
