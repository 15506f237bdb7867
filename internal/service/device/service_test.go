package device

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ticker-display/internal/clock"
	"github.com/oshokin/ticker-display/internal/config"
	"github.com/oshokin/ticker-display/internal/domain/ticker"
	"github.com/oshokin/ticker-display/internal/gpio"
	"github.com/oshokin/ticker-display/internal/provider"
	"github.com/oshokin/ticker-display/internal/render"
	"github.com/oshokin/ticker-display/internal/service/acquire"
	"github.com/oshokin/ticker-display/internal/service/alert"
	"github.com/oshokin/ticker-display/internal/service/factoryreset"
	"github.com/oshokin/ticker-display/internal/service/screen"
	"github.com/oshokin/ticker-display/internal/telemetry"
)

// harness bundles the loop with every fake collaborator a test drives.
type harness struct {
	loop      *Loop
	clk       *clock.Fake
	device    *gpio.FakeDevice
	display   *render.Fake
	publisher *telemetry.FakePublisher
	reset     *countingAction
}

// countingAction records factory-reset firings.
type countingAction struct {
	calls int
}

// Execute records the call.
func (a *countingAction) Execute(context.Context) error {
	a.calls++

	return nil
}

// newHarness builds a loop over fakes from a mutated default configuration.
func newHarness(t *testing.T, mutate func(*config.Config), providers []provider.Provider) *harness {
	t.Helper()

	cfg := config.Default()

	if mutate != nil {
		mutate(cfg)
	}

	require.NoError(t, config.Validate(cfg))

	policy, err := config.Normalize(cfg)
	require.NoError(t, err)

	h := &harness{
		clk:       &clock.Fake{},
		device:    &gpio.FakeDevice{},
		display:   &render.Fake{},
		publisher: &telemetry.FakePublisher{},
		reset:     &countingAction{},
	}

	h.loop = NewLoop(Deps{
		Policy:      policy,
		Clock:       h.clk,
		Device:      h.device,
		Renderer:    h.display,
		Publisher:   h.publisher,
		Acquirer:    acquire.New(providers, nil, policy),
		Screens:     screen.New(policy),
		Alerts:      alert.New(policy, h.device),
		Watchdog:    factoryreset.New(policy, h.reset),
		HeartbeatMs: 0,
	})

	return h
}

// oneQuote returns a single always-succeeding provider.
func oneQuote(price float64) []provider.Provider {
	return []provider.Provider{
		&provider.Fake{
			FakeName: "coindesk",
			Quotes:   []ticker.Quote{{Price: price}},
			Errs:     []error{nil},
		},
	}
}

// TestFirstPollRendersOnce verifies the first successful poll redraws the
// primary screen exactly once and idle iterations stay silent.
func TestFirstPollRendersOnce(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, oneQuote(64250.5))
	ctx := context.Background()

	h.clk.Millis = 5
	h.loop.iterate(ctx)

	require.Equal(t, 1, h.display.CountOf(render.CallPrimary))
	require.InEpsilon(t, 64250.5, h.display.LastPrimary.Value, 1e-9)
	require.Equal(t, "coindesk", h.display.LastPrimary.ProviderLabel)
	require.True(t, h.display.LastPrimary.Connected)

	// Nothing changed: no redraw.
	h.loop.iterate(ctx)
	h.clk.Advance(20)
	h.loop.iterate(ctx)

	require.Equal(t, 1, h.display.CountOf(render.CallPrimary))
}

// TestFailedPollKeepsLastValue verifies a provider outage redraws the
// connectivity state but keeps the cached value on screen.
func TestFailedPollKeepsLastValue(t *testing.T) {
	t.Parallel()

	failing := &provider.Fake{
		FakeName: "coindesk",
		Quotes:   []ticker.Quote{{Price: 70000}},
		Errs:     []error{nil, errors.New("transport down")},
	}
	h := newHarness(t, nil, []provider.Provider{failing})
	ctx := context.Background()

	h.clk.Millis = 5
	h.loop.iterate(ctx)
	require.True(t, h.display.LastPrimary.Connected)

	// Next poll interval: the only provider fails.
	h.clk.Advance(h.loop.deps.Policy.PollIntervalMs)
	h.loop.iterate(ctx)

	require.Equal(t, 2, h.display.CountOf(render.CallPrimary))
	require.InEpsilon(t, 70000.0, h.display.LastPrimary.Value, 1e-9)
	require.True(t, h.display.LastPrimary.HasValue)
	require.False(t, h.display.LastPrimary.Connected)
	require.False(t, h.display.LastPrimary.Stale, "one failed poll must not mark data stale")
}

// TestAlertBlinkOwnsDisplay verifies blink edges alternate between a clear
// and a redraw, and the cleanup redraw restores the screen after the
// condition clears.
func TestAlertBlinkOwnsDisplay(t *testing.T) {
	t.Parallel()

	swinging := &provider.Fake{
		FakeName: "coindesk",
		Quotes:   []ticker.Quote{{Price: 75000}, {Price: 65000}},
		Errs:     []error{nil, nil},
	}
	h := newHarness(t, func(c *config.Config) {
		c.Alert.High = 70000
		c.Alert.HighPattern = "fast"
		c.Alert.Mode = "both"
	}, []provider.Provider{swinging})
	ctx := context.Background()

	// First poll breaches the high threshold and arms the alert.
	h.clk.Millis = 5
	h.loop.iterate(ctx)

	require.Equal(t, 1, h.display.CountOf(render.CallPrimary))
	require.True(t, h.device.IndicatorLevel)

	// One fast period later the blink goes dark.
	h.clk.Advance(250)
	h.loop.iterate(ctx)
	require.Equal(t, 1, h.display.CountOf(render.CallClear))
	require.False(t, h.device.IndicatorLevel)

	// And back on.
	h.clk.Advance(250)
	h.loop.iterate(ctx)
	require.Equal(t, 2, h.display.CountOf(render.CallPrimary))
	require.True(t, h.device.IndicatorLevel)

	// The next poll drops back inside the band: cleanup redraws once and
	// releases the indicator.
	h.clk.Advance(h.loop.deps.Policy.PollIntervalMs)
	h.loop.iterate(ctx)

	require.Equal(t, 3, h.display.CountOf(render.CallPrimary))
	require.False(t, h.device.IndicatorLevel)

	writes := h.device.IndicatorWrites

	// Idle iterations must not touch the indicator again.
	h.clk.Advance(20)
	h.loop.iterate(ctx)
	require.Equal(t, writes, h.device.IndicatorWrites)
}

// TestWatchdogPreemptsRendering verifies the countdown suppresses normal
// rendering, fires at the threshold, and a cancelled hold restores the
// screen.
func TestWatchdogPreemptsRendering(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, oneQuote(60000))
	ctx := context.Background()

	h.device.DualLevel = true
	h.loop.iterate(ctx) // rising edge at t=0
	primaries := h.display.CountOf(render.CallPrimary)

	h.clk.Millis = 2500
	h.loop.iterate(ctx)

	require.Equal(t, 1, h.display.CountOf(render.CallCountdown))
	require.Equal(t, 8, h.display.LastCountdown)
	require.Equal(t, primaries, h.display.CountOf(render.CallPrimary),
		"countdown suppresses screen rendering")

	// Release before the threshold: one redraw, no reset.
	h.device.DualLevel = false
	h.clk.Millis = 3000
	h.loop.iterate(ctx)

	require.Zero(t, h.reset.calls)
	require.Equal(t, primaries+1, h.display.CountOf(render.CallPrimary))

	// A full hold fires the action exactly once.
	h.device.DualLevel = true
	h.clk.Millis = 20000
	h.loop.iterate(ctx)
	h.clk.Millis = 30000
	h.loop.iterate(ctx)
	h.loop.iterate(ctx)

	require.Equal(t, 1, h.reset.calls)
}

// TestAlertTelemetryEdges verifies alert transitions publish exactly one
// snapshot each way.
func TestAlertTelemetryEdges(t *testing.T) {
	t.Parallel()

	swinging := &provider.Fake{
		FakeName: "coindesk",
		Quotes:   []ticker.Quote{{Price: 75000}, {Price: 65000}},
		Errs:     []error{nil, nil},
	}
	h := newHarness(t, func(c *config.Config) {
		c.Alert.High = 70000
	}, []provider.Provider{swinging})
	ctx := context.Background()

	h.clk.Millis = 5
	h.loop.iterate(ctx)
	h.clk.Advance(20)
	h.loop.iterate(ctx)

	require.Len(t, h.publisher.Published, 1)
	require.Equal(t, "alert_on", h.publisher.Published[0].Event)
	require.True(t, h.publisher.Published[0].AlertActive)

	h.clk.Advance(h.loop.deps.Policy.PollIntervalMs)
	h.loop.iterate(ctx)

	require.Len(t, h.publisher.Published, 2)
	require.Equal(t, "alert_off", h.publisher.Published[1].Event)
}

// TestRunStartsAndStops verifies Run renders the boot screen, publishes the
// startup and shutdown snapshots, and returns on cancellation.
func TestRunStartsAndStops(t *testing.T) {
	t.Parallel()

	h := newHarness(t, func(c *config.Config) {
		c.Screen.Flipped = true
	}, oneQuote(60000))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- h.loop.Run(ctx)
	}()

	cancel()
	require.NoError(t, <-done)

	require.True(t, h.display.Flipped)
	require.GreaterOrEqual(t, h.display.CountOf(render.CallPrimary), 1)
	require.Equal(t, "startup", h.publisher.Published[0].Event)
	require.Equal(t, "shutdown", h.publisher.Published[len(h.publisher.Published)-1].Event)
}
