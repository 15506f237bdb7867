package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/oshokin/ticker-display/internal/domain/ticker"
)

// CoinGecko fetches the simple price endpoint including the 24h change.
type CoinGecko struct {
	// client is the shared HTTP client.
	client *http.Client
	// id is the CoinGecko asset identifier, e.g. "bitcoin".
	id string
	// fiat is the lower-case quote currency.
	fiat string
	// baseURL is overridable in tests.
	baseURL string
}

// errMissingAsset is returned when the response lacks the requested asset.
var errMissingAsset = errors.New("asset missing from response")

// coinGeckoIDs maps ticker symbols to CoinGecko asset identifiers.
var coinGeckoIDs = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
	"LTC": "litecoin",
}

// NewCoinGecko creates a CoinGecko provider for the given pair.
func NewCoinGecko(client *http.Client, symbol, fiat string) *CoinGecko {
	id, ok := coinGeckoIDs[strings.ToUpper(symbol)]
	if !ok {
		id = strings.ToLower(symbol)
	}

	return &CoinGecko{
		client:  client,
		id:      id,
		fiat:    strings.ToLower(fiat),
		baseURL: "https://api.coingecko.com",
	}
}

// Name returns the stable provider identifier.
func (p *CoinGecko) Name() string {
	return "coingecko"
}

// Fetch retrieves the current price and 24h change.
func (p *CoinGecko) Fetch(ctx context.Context) (ticker.Quote, error) {
	url := fmt.Sprintf(
		"%s/api/v3/simple/price?ids=%s&vs_currencies=%s&include_24hr_change=true",
		p.baseURL, p.id, p.fiat,
	)

	var response map[string]map[string]float64

	if err := getJSON(ctx, p.client, url, &response); err != nil {
		return ticker.Quote{}, fmt.Errorf("coingecko: %w", err)
	}

	asset, ok := response[p.id]
	if !ok {
		return ticker.Quote{}, fmt.Errorf("coingecko: %w", errMissingAsset)
	}

	price, ok := asset[p.fiat]
	if !ok || price <= 0 {
		return ticker.Quote{}, fmt.Errorf("coingecko: %w", errMissingAsset)
	}

	quote := ticker.Quote{Price: price}
	if change, ok := asset[p.fiat+"_24h_change"]; ok {
		quote.ChangePct = change
		quote.HasChange = true
	}

	return quote, nil
}
