package agent

import "strings"

type simpleAnswer struct {
	// any group whose substrings all appear in the query selects the answer
	groups [][]string
	answer string
}

var simpleAnswers = []simpleAnswer{
	{[][]string{{"ticker", "apple"}}, "Apple Inc.'s stock ticker is AAPL."},
	{[][]string{{"ticker", "microsoft"}}, "Microsoft Corporation's stock ticker is MSFT."},
	{[][]string{{"ticker", "google"}}, "Alphabet Inc.'s (Google's parent company) stock tickers are GOOGL and GOOG."},
	{[][]string{{"ticker", "amazon"}}, "Amazon.com Inc.'s stock ticker is AMZN."},
	{[][]string{{"ticker", "tesla"}}, "Tesla Inc.'s stock ticker is TSLA."},
	{
		[][]string{{"what is market cap"}, {"what is market capitalization"}},
		"Market capitalization (market cap) is the total value of a company's outstanding shares of stock, " +
			"calculated by multiplying the stock's price by the total number of shares outstanding.",
	},
	{
		[][]string{{"what is p/e ratio"}},
		"The price-to-earnings (P/E) ratio is a valuation metric that compares a company's stock price to its " +
			"earnings per share (EPS). It indicates how much investors are willing to pay for each dollar of earnings.",
	},
}

// SimpleAnswer returns a canned answer for common factual questions
func SimpleAnswer(query string) (string, bool) {
	lower := strings.ToLower(query)
	for _, sa := range simpleAnswers {
		for _, g := range sa.groups {
			if containsAll(lower, g...) {
				return sa.answer, true
			}
		}
	}
	return "", false
}
