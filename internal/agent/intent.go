package agent

// Intent is the stock lookup a query asks for
type Intent int

const (
	IntentNone Intent = iota
	IntentPrice
	IntentChart
	IntentComparison
	IntentIndicator
	IntentHistorical
)

func (i Intent) String() string {
	switch i {
	case IntentPrice:
		return "price"
	case IntentChart:
		return "chart"
	case IntentComparison:
		return "comparison"
	case IntentIndicator:
		return "indicator"
	case IntentHistorical:
		return "historical"
	default:
		return "none"
	}
}

var (
	priceKeywords      = []string{"stock price", "price of", "current price", "trading at", "what is the price"}
	chartKeywords      = []string{"chart", "graph", "plot", "performance", "trend"}
	comparisonKeywords = []string{"compare", "vs", "versus", "against", "which is better"}
	indicatorKeywords  = []string{"indicator", "technical"}
	indicatorNames     = []string{"rsi", "macd", "moving average", "sma", "ema"}
	technicalChartKeys = []string{"technical", "indicator", "sma", "ema"}
)

type intentRule struct {
	intent     Intent
	minTickers int
	match      func(lower string) bool
}

// intentRules are evaluated in order; the first rule whose keywords match
// and whose ticker requirement is met decides the intent.
var intentRules = []intentRule{
	{IntentPrice, 1, func(s string) bool { return containsAny(s, priceKeywords...) }},
	{IntentChart, 1, func(s string) bool { return containsAny(s, chartKeywords...) }},
	{IntentComparison, 2, func(s string) bool { return containsAny(s, comparisonKeywords...) }},
	{IntentIndicator, 1, func(s string) bool {
		return containsAny(s, indicatorKeywords...) && containsAny(s, indicatorNames...)
	}},
	{IntentHistorical, 1, func(s string) bool { return containsAny(s, "historical") }},
}

// classifyIntent maps a lower-cased query and its tickers to a stock intent
func classifyIntent(lower string, tickers []string) Intent {
	for _, rule := range intentRules {
		if len(tickers) >= rule.minTickers && rule.match(lower) {
			return rule.intent
		}
	}
	return IntentNone
}
