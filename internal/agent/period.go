package agent

import "finsight/internal/stock"

type periodRule struct {
	keywords       []string
	period         stock.Period
	historicalOnly bool
}

// periodRules are checked in order and the first hit wins. Numbered spans
// come before the bare units they contain ("5 year" before "year").
var periodRules = []periodRule{
	{keywords: []string{"10 year"}, period: stock.Period10Year, historicalOnly: true},
	{keywords: []string{"5 year"}, period: stock.Period5Year},
	{keywords: []string{"2 year"}, period: stock.Period2Year},
	{keywords: []string{"12 month"}, period: stock.Period1Year},
	{keywords: []string{"6 month"}, period: stock.Period6Month},
	{keywords: []string{"3 month"}, period: stock.Period3Month},
	{keywords: []string{"day", "24 hour", "today"}, period: stock.Period1Day},
	{keywords: []string{"week"}, period: stock.Period1Week},
	{keywords: []string{"month"}, period: stock.Period1Month},
	{keywords: []string{"quarter"}, period: stock.Period3Month},
	{keywords: []string{"year"}, period: stock.Period1Year},
	{keywords: []string{"max", "all time", "all-time"}, period: stock.PeriodMax},
}

// selectPeriod picks the lookback window named in a lower-cased query.
// The 10 year window is only offered to historical lookups.
func selectPeriod(lower string, historical bool) stock.Period {
	for _, rule := range periodRules {
		if rule.historicalOnly && !historical {
			continue
		}
		if containsAny(lower, rule.keywords...) {
			return rule.period
		}
	}
	return stock.DefaultPeriod
}
