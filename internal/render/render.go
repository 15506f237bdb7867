// Package render defines the display contract consumed by the control loop
// and provides a console implementation for development and tests.
//
// The core never knows pixel layout: a real OLED/e-paper driver only has to
// satisfy Renderer. Blink blanking is expressed through Clear followed by a
// re-render, so drivers stay stateless.
package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/oshokin/ticker-display/internal/domain/ticker"
)

// Renderer is the display surface consumed by the control loop.
type Renderer interface {
	// RenderPrimary draws the price screen.
	RenderPrimary(view PrimaryView) error
	// RenderSecondary draws the metrics screen.
	RenderSecondary(view SecondaryView) error
	// RenderCountdown draws the factory-reset countdown.
	RenderCountdown(secondsLeft int) error
	// Clear blanks the display.
	Clear() error
	// SetOrientation flips the display 180 degrees when requested.
	SetOrientation(flipped bool)
}

// PrimaryView carries everything the price screen shows.
type PrimaryView struct {
	// Value is the acquired price.
	Value float64
	// ChangePct is the 24h change in percent.
	ChangePct float64
	// HasChange reports whether ChangePct is meaningful.
	HasChange bool
	// HasValue reports whether Value is meaningful.
	HasValue bool
	// ProviderLabel names the data source.
	ProviderLabel string
	// Stale marks the value as old.
	Stale bool
	// Connected reports provider reachability.
	Connected bool
}

// SecondaryView carries everything the metrics screen shows.
type SecondaryView struct {
	// Metrics is the weather reading set.
	Metrics ticker.Metrics
	// HasMetrics reports whether Metrics is meaningful.
	HasMetrics bool
	// Stale marks the readings as old.
	Stale bool
	// Connected reports provider reachability.
	Connected bool
}

// Console renders each screen as a single line of text, one line per
// transition. It stands in for the hardware display during development
// and in tests.
type Console struct {
	// mu serializes writes so interleaved log output stays readable.
	mu sync.Mutex
	// w receives the rendered lines.
	w io.Writer
	// flipped mirrors the orientation knob for inspection.
	flipped bool
}

// NewConsole creates a console renderer writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// RenderPrimary draws the price screen as one line.
func (c *Console) RenderPrimary(view PrimaryView) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !view.HasValue {
		return c.write("[primary] waiting for data (%s)", statusSuffix(view.Stale, view.Connected))
	}

	line := fmt.Sprintf("[primary] %.2f", view.Value)
	if view.HasChange {
		line += fmt.Sprintf(" (%+.2f%%)", view.ChangePct)
	}

	line += " via " + view.ProviderLabel

	return c.write("%s (%s)", line, statusSuffix(view.Stale, view.Connected))
}

// RenderSecondary draws the metrics screen as one line.
func (c *Console) RenderSecondary(view SecondaryView) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !view.HasMetrics {
		return c.write("[secondary] waiting for data (%s)", statusSuffix(view.Stale, view.Connected))
	}

	return c.write("[secondary] %.1f°C %.0f%% wind %.1f km/h %s (%s)",
		view.Metrics.TemperatureC,
		view.Metrics.HumidityPct,
		view.Metrics.WindSpeedKmh,
		view.Metrics.Condition,
		statusSuffix(view.Stale, view.Connected))
}

// RenderCountdown draws the factory-reset countdown.
func (c *Console) RenderCountdown(secondsLeft int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.write("[reset] factory reset in %d...", secondsLeft)
}

// Clear blanks the display.
func (c *Console) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.write("[blank]")
}

// SetOrientation records the orientation knob.
func (c *Console) SetOrientation(flipped bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.flipped = flipped
}

// write emits a single rendered line.
func (c *Console) write(format string, args ...any) error {
	if _, err := fmt.Fprintf(c.w, format+"\n", args...); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	return nil
}

// statusSuffix summarizes staleness and connectivity for the console lines.
func statusSuffix(stale, connected bool) string {
	switch {
	case stale:
		return "stale"
	case connected:
		return "live"
	default:
		return "offline"
	}
}
