package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/oshokin/ticker-display/internal/domain/ticker"
)

// Provider is an interchangeable external data source for the acquired price.
type Provider interface {
	// Name returns the stable provider identifier used in configuration,
	// logs, and on the display.
	Name() string
	// Fetch performs one bounded-time acquisition attempt.
	// It is idempotent and has no side effects on failure.
	Fetch(ctx context.Context) (ticker.Quote, error)
}

// MetricsProvider supplies the secondary screen's metric set.
type MetricsProvider interface {
	// Name returns the stable provider identifier.
	Name() string
	// Fetch performs one bounded-time metrics fetch.
	Fetch(ctx context.Context) (ticker.Metrics, error)
}

// DefaultClientTimeout bounds a provider HTTP request at the transport level.
// Callers additionally bound each attempt through the context.
const DefaultClientTimeout = 10 * time.Second

// NewHTTPClient returns the shared HTTP client used by all providers.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultClientTimeout}
}

// DefaultSet returns every known price provider in canonical order.
// The first entry is the primary used by the "auto" preference.
func DefaultSet(client *http.Client, symbol, fiat string) []Provider {
	return []Provider{
		NewCoinDesk(client, symbol, fiat),
		NewCoinGecko(client, symbol, fiat),
		NewBinance(client, symbol, fiat),
		NewKraken(client, symbol, fiat),
	}
}

// Ring returns the provider set rotated so the named preference comes first.
// An empty or unknown preference keeps the canonical order. When exclusive
// is set, the ring contains only the preferred provider.
func Ring(set []Provider, preference string, exclusive bool) []Provider {
	start := 0

	for i, p := range set {
		if p.Name() == preference {
			start = i
			break
		}
	}

	if exclusive {
		return []Provider{set[start]}
	}

	ring := make([]Provider, 0, len(set))
	for i := range set {
		ring = append(ring, set[(start+i)%len(set)])
	}

	return ring
}
