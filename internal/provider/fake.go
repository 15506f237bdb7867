package provider

import (
	"context"

	"github.com/oshokin/ticker-display/internal/domain/ticker"
)

// Fake is a scripted Provider for tests. Each Fetch consumes the next
// scripted result; the last result repeats once the script runs out.
type Fake struct {
	// FakeName is the identifier returned by Name.
	FakeName string
	// Quotes are returned in order by successive Fetch calls.
	Quotes []ticker.Quote
	// Errs are returned in order by successive Fetch calls.
	// A nil entry means the corresponding Fetch succeeds.
	Errs []error
	// Calls counts Fetch invocations.
	Calls int
}

// Name returns the scripted provider identifier.
func (f *Fake) Name() string {
	return f.FakeName
}

// Fetch returns the next scripted result.
func (f *Fake) Fetch(context.Context) (ticker.Quote, error) {
	i := f.Calls
	f.Calls++

	if i >= len(f.Errs) {
		i = len(f.Errs) - 1
	}

	if i >= 0 && i < len(f.Errs) && f.Errs[i] != nil {
		return ticker.Quote{}, f.Errs[i]
	}

	q := i
	if q >= len(f.Quotes) {
		q = len(f.Quotes) - 1
	}

	if q < 0 {
		return ticker.Quote{}, nil
	}

	return f.Quotes[q], nil
}

// FakeMetrics is a scripted MetricsProvider for tests.
type FakeMetrics struct {
	// Metrics is returned by every successful Fetch.
	Metrics ticker.Metrics
	// Err, when set, fails every Fetch.
	Err error
	// Calls counts Fetch invocations.
	Calls int
}

// Name returns the scripted provider identifier.
func (f *FakeMetrics) Name() string {
	return "fake-metrics"
}

// Fetch returns the scripted metric set.
func (f *FakeMetrics) Fetch(context.Context) (ticker.Metrics, error) {
	f.Calls++

	if f.Err != nil {
		return ticker.Metrics{}, f.Err
	}

	return f.Metrics, nil
}
