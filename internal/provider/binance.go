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

// Binance fetches the 24h ticker statistics for a trading pair.
type Binance struct {
	// client is the shared HTTP client.
	client *http.Client
	// pair is the Binance trading pair, e.g. "BTCUSDT".
	pair string
	// baseURL is overridable in tests.
	baseURL string
}

// errInvalidTickerPrice is returned when the last price cannot be used.
var errInvalidTickerPrice = errors.New("invalid ticker price")

// NewBinance creates a Binance provider for the given pair.
// Fiat currencies are mapped to their stablecoin markets where needed.
func NewBinance(client *http.Client, symbol, fiat string) *Binance {
	quote := strings.ToUpper(fiat)
	if quote == "USD" {
		quote = "USDT"
	}

	return &Binance{
		client:  client,
		pair:    strings.ToUpper(symbol) + quote,
		baseURL: "https://api.binance.com",
	}
}

// Name returns the stable provider identifier.
func (p *Binance) Name() string {
	return "binance"
}

// Fetch retrieves the last price and 24h change percent.
func (p *Binance) Fetch(ctx context.Context) (ticker.Quote, error) {
	url := p.baseURL + "/api/v3/ticker/24hr?symbol=" + p.pair

	var response struct {
		LastPrice          string `json:"lastPrice"`
		PriceChangePercent string `json:"priceChangePercent"`
	}

	if err := getJSON(ctx, p.client, url, &response); err != nil {
		return ticker.Quote{}, fmt.Errorf("binance: %w", err)
	}

	price, err := strconv.ParseFloat(response.LastPrice, 64)
	if err != nil || price <= 0 {
		return ticker.Quote{}, fmt.Errorf("binance: %w", errInvalidTickerPrice)
	}

	quote := ticker.Quote{Price: price}
	if change, err := strconv.ParseFloat(response.PriceChangePercent, 64); err == nil {
		quote.ChangePct = change
		quote.HasChange = true
	}

	return quote, nil
}
