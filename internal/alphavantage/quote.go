package alphavantage

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"finsight/internal/fetcher"
	"finsight/internal/stock"
)

type globalQuoteResponse struct {
	apiNotice
	GlobalQuote struct {
		Symbol           string `json:"01. symbol"`
		Open             string `json:"02. open"`
		High             string `json:"03. high"`
		Low              string `json:"04. low"`
		Price            string `json:"05. price"`
		Volume           string `json:"06. volume"`
		LatestTradingDay string `json:"07. latest trading day"`
		PreviousClose    string `json:"08. previous close"`
		Change           string `json:"09. change"`
		ChangePercent    string `json:"10. change percent"`
	} `json:"Global Quote"`
}

type overviewResponse struct {
	apiNotice
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Currency             string `json:"Currency"`
	Sector               string `json:"Sector"`
	MarketCapitalization string `json:"MarketCapitalization"`
	PERatio              string `json:"PERatio"`
	DividendYield        string `json:"DividendYield"`
}

// Price returns the latest quote for ticker
func (c *Client) Price(ctx context.Context, ticker string) (*stock.Quote, error) {
	var result globalQuoteResponse
	if err := c.query(ctx, "GLOBAL_QUOTE", map[string]string{"symbol": ticker}, &result); err != nil {
		return nil, err
	}

	if result.GlobalQuote.Price == "" {
		return nil, fetcher.NewValidationError("price not found in response for %s", ticker)
	}
	price, err := mustNumber("price", result.GlobalQuote.Price)
	if err != nil {
		return nil, err
	}

	return &stock.Quote{
		Ticker:   ticker,
		Price:    round2(price),
		Currency: "USD",
	}, nil
}

// Info returns the company overview for ticker
func (c *Client) Info(ctx context.Context, ticker string) (*stock.Info, error) {
	var result overviewResponse
	if err := c.query(ctx, "OVERVIEW", map[string]string{"symbol": ticker}, &result); err != nil {
		return nil, err
	}
	if result.Symbol == "" {
		return nil, fetcher.NewValidationError("no company overview for %s", ticker)
	}

	info := &stock.Info{
		Ticker: ticker,
		Name:   strings.TrimSpace(result.Name),
		Sector: titleCase(result.Sector),
	}
	if info.Name == "" {
		info.Name = ticker
	}
	if v, ok := parseNumber(result.MarketCapitalization); ok && v > 0 {
		info.MarketCap = v
		info.MarketCapFormatted = stock.FormatMarketCap(v)
	}
	if v, ok := parseNumber(result.PERatio); ok && v > 0 {
		info.PERatio = v
	}
	// OVERVIEW reports the yield as a fraction.
	if v, ok := parseNumber(result.DividendYield); ok && v > 0 {
		info.DividendYield = round2(v * 100)
	}
	return info, nil
}

// titleCase turns "LIFE SCIENCES" into "Life Sciences"
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}
