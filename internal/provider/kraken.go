package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/oshokin/ticker-display/internal/domain/ticker"
)

// Kraken fetches the public ticker endpoint. The endpoint carries no
// ready-made change ratio, so only the price is reported.
type Kraken struct {
	// client is the shared HTTP client.
	client *http.Client
	// pair is the Kraken pair query value, e.g. "XBTUSD".
	pair string
	// baseURL is overridable in tests.
	baseURL string
}

// errEmptyTickerResult is returned when the response carries no pair data.
var errEmptyTickerResult = errors.New("empty ticker result")

// NewKraken creates a Kraken provider for the given pair.
// Kraken names Bitcoin "XBT".
func NewKraken(client *http.Client, symbol, fiat string) *Kraken {
	base := strings.ToUpper(symbol)
	if base == "BTC" {
		base = "XBT"
	}

	return &Kraken{
		client:  client,
		pair:    base + strings.ToUpper(fiat),
		baseURL: "https://api.kraken.com",
	}
}

// Name returns the stable provider identifier.
func (p *Kraken) Name() string {
	return "kraken"
}

// Fetch retrieves the last trade price.
func (p *Kraken) Fetch(ctx context.Context) (ticker.Quote, error) {
	url := p.baseURL + "/0/public/Ticker?pair=" + p.pair

	var response struct {
		Error  []string `json:"error"`
		Result map[string]struct {
			LastTrade []string `json:"c"`
		} `json:"result"`
	}

	if err := getJSON(ctx, p.client, url, &response); err != nil {
		return ticker.Quote{}, fmt.Errorf("kraken: %w", err)
	}

	if len(response.Error) > 0 {
		return ticker.Quote{}, fmt.Errorf("kraken: %w: %s", errEmptyTickerResult, response.Error[0])
	}

	// Kraken keys the result by its internal pair alias, so take the first entry.
	for _, pair := range response.Result {
		if len(pair.LastTrade) == 0 {
			break
		}

		price, err := strconv.ParseFloat(pair.LastTrade[0], 64)
		if err != nil || price <= 0 {
			break
		}

		return ticker.Quote{Price: price}, nil
	}

	return ticker.Quote{}, fmt.Errorf("kraken: %w", errEmptyTickerResult)
}
