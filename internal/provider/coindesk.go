package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/oshokin/ticker-display/internal/domain/ticker"
)

// CoinDesk fetches the current price index from the CoinDesk public API.
// The endpoint carries no change ratio.
type CoinDesk struct {
	// client is the shared HTTP client.
	client *http.Client
	// symbol is the asset identifier, e.g. "BTC".
	symbol string
	// fiat is the quote currency, e.g. "USD".
	fiat string
	// baseURL is overridable in tests.
	baseURL string
}

// errMissingIndexPrice is returned when the response lacks the requested currency.
var errMissingIndexPrice = errors.New("index price missing from response")

// NewCoinDesk creates a CoinDesk provider for the given pair.
func NewCoinDesk(client *http.Client, symbol, fiat string) *CoinDesk {
	return &CoinDesk{
		client:  client,
		symbol:  strings.ToUpper(symbol),
		fiat:    strings.ToUpper(fiat),
		baseURL: "https://data-api.coindesk.com",
	}
}

// Name returns the stable provider identifier.
func (p *CoinDesk) Name() string {
	return "coindesk"
}

// Fetch retrieves the current index price.
func (p *CoinDesk) Fetch(ctx context.Context) (ticker.Quote, error) {
	url := fmt.Sprintf(
		"%s/index/cc/v1/latest/tick?market=cadli&instruments=%s-%s",
		p.baseURL, p.symbol, p.fiat,
	)

	var response struct {
		Data map[string]struct {
			Value float64 `json:"VALUE"`
		} `json:"Data"`
	}

	if err := getJSON(ctx, p.client, url, &response); err != nil {
		return ticker.Quote{}, fmt.Errorf("coindesk: %w", err)
	}

	instrument, ok := response.Data[p.symbol+"-"+p.fiat]
	if !ok || instrument.Value <= 0 {
		return ticker.Quote{}, fmt.Errorf("coindesk: %w", errMissingIndexPrice)
	}

	return ticker.Quote{Price: instrument.Value}, nil
}
