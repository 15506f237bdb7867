// Package provider implements the interchangeable remote data sources.
//
// The price providers form a closed, named set (CoinDesk, CoinGecko,
// Binance, Kraken) behind a single Provider interface with one bounded-time
// Fetch operation. Ring builds the deterministic fallback order the
// acquisition engine walks. A separate MetricsProvider (Open-Meteo) supplies
// the secondary screen's weather readings.
//
// Every fetch is idempotent and has no side effects on failure; a provider
// that times out is simply abandoned by its caller through the context.
package provider
