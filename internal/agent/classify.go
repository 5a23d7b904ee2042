package agent

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var dollarTickerRe = regexp.MustCompile(`\$([A-Z]{1,5})`)

// tokenTrim is stripped from both ends of a word before the all-caps check
const tokenTrim = ".,?!()[]{}$"

// companyTickers maps company names to tickers. Matches are reported in table order.
var companyTickers = []struct {
	name   string
	ticker string
}{
	{"apple", "AAPL"},
	{"microsoft", "MSFT"},
	{"amazon", "AMZN"},
	{"google", "GOOGL"},
	{"alphabet", "GOOGL"},
	{"facebook", "META"},
	{"meta", "META"},
	{"tesla", "TSLA"},
	{"netflix", "NFLX"},
	{"nvidia", "NVDA"},
	{"walmart", "WMT"},
	{"disney", "DIS"},
	{"coca cola", "KO"},
	{"coca-cola", "KO"},
	{"coke", "KO"},
	{"ibm", "IBM"},
	{"intel", "INTC"},
	{"alibaba", "BABA"},
	{"amd", "AMD"},
	{"nike", "NKE"},
	{"jp morgan", "JPM"},
	{"jpmorgan", "JPM"},
	{"bank of america", "BAC"},
	{"goldman sachs", "GS"},
	{"pfizer", "PFE"},
	{"johnson & johnson", "JNJ"},
}

// ExtractTickers returns candidate tickers in first-seen order across
// $TICKER mentions, all-caps words of one to five characters, and known
// company names. Candidates are not validated.
func ExtractTickers(query string) []string {
	var found []string

	for _, m := range dollarTickerRe.FindAllStringSubmatch(query, -1) {
		found = append(found, m[1])
	}

	for _, word := range strings.Fields(query) {
		w := strings.Trim(word, tokenTrim)
		if n := utf8.RuneCountInString(w); n >= 1 && n <= 5 && isUpperWord(w) {
			found = append(found, w)
		}
	}

	lower := strings.ToLower(query)
	for _, c := range companyTickers {
		if strings.Contains(lower, c.name) {
			found = append(found, c.ticker)
		}
	}

	return dedupe(found)
}

// isUpperWord reports whether w has at least one cased letter and no lowercase ones
func isUpperWord(w string) bool {
	cased := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

var reportKeywords = []string{
	"report", "analysis", "analyze", "sentiment", "impact", "effect",
	"market impact", "detailed", "what does this mean for", "how will this affect",
	"annual report", "earnings report", "quarterly report", "statement", "press release",
}

var influentialFigures = []string{
	"warren buffett", "elon musk", "jpmorgan", "goldman sachs", "federal reserve",
	"fed", "jerome powell", "ray dalio", "rakesh jhunjhunwala", "cathie wood",
	"janet yellen", "james simons", "peter lynch", "george soros", "carl icahn",
	"investors", "analysts",
}

var newsKeywords = []string{"news", "latest", "recent"}

// IsReportQuery reports whether the query asks for a long-form analysis:
// it uses report language, or names an influential figure together with
// news language.
func IsReportQuery(query string) bool {
	lower := strings.ToLower(query)
	report := containsAny(lower, reportKeywords...)
	figure := containsAny(lower, influentialFigures...)
	news := containsAny(lower, newsKeywords...)
	return report || (figure && (news || report))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
