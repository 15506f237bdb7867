package device

import (
	"context"
	"time"

	"github.com/oshokin/ticker-display/internal/clock"
	"github.com/oshokin/ticker-display/internal/config"
	"github.com/oshokin/ticker-display/internal/domain/ticker"
	"github.com/oshokin/ticker-display/internal/gpio"
	"github.com/oshokin/ticker-display/internal/logger"
	"github.com/oshokin/ticker-display/internal/render"
	"github.com/oshokin/ticker-display/internal/service/acquire"
	"github.com/oshokin/ticker-display/internal/service/alert"
	"github.com/oshokin/ticker-display/internal/service/factoryreset"
	"github.com/oshokin/ticker-display/internal/service/screen"
	"github.com/oshokin/ticker-display/internal/telemetry"
)

// loopTick is the cadence of the control loop. Every engine compares the
// millisecond counter against its own timers, so the tick only bounds how
// quickly edges and deadlines are noticed.
const loopTick = 10 * time.Millisecond

// Deps wires a Loop. Every field is required; Publisher may be the Nop
// publisher and HeartbeatMs may be zero to disable periodic snapshots.
type Deps struct {
	// Policy is the canonical configuration snapshot.
	Policy *config.Policy
	// Clock supplies the monotonic millisecond counter.
	Clock clock.Clock
	// Device exposes the button levels and the indicator line.
	Device gpio.Device
	// Renderer is the display surface.
	Renderer render.Renderer
	// Publisher receives status snapshots.
	Publisher telemetry.Publisher
	// Acquirer polls the provider ring.
	Acquirer *acquire.Engine
	// Screens applies the switching policies.
	Screens *screen.Engine
	// Alerts evaluates thresholds and drives the blink outputs.
	Alerts *alert.Engine
	// Watchdog observes the shared input for the hold-to-wipe gesture.
	Watchdog *factoryreset.Engine
	// HeartbeatMs is the interval between periodic status publishes.
	// Zero disables the heartbeat.
	HeartbeatMs uint32
}

// Loop owns the engine states and threads them through each engine once
// per iteration. States are mutated only here and inside the owning
// engine's Step, so the read-then-decide-then-write ordering of a single
// iteration is never observed half-done.
type Loop struct {
	deps Deps

	// acqState is the acquisition engine's state.
	acqState ticker.Acquisition
	// viewState is the screen coordinator's state.
	viewState ticker.ScreenView
	// alertState is the alert engine's state.
	alertState ticker.Alert
	// holdState is the factory-reset watchdog's state.
	holdState ticker.ResetHold

	// blanked is true while the alert blink has the display cleared.
	blanked bool
	// armed is true while the watchdog countdown owns the display.
	armed bool
	// lastAlertActive tracks alert transitions for telemetry.
	lastAlertActive bool
	// lastHeartbeatAt is the counter reading of the last periodic publish.
	lastHeartbeatAt uint32
}

// NewLoop creates the control loop over the given collaborators.
func NewLoop(deps Deps) *Loop {
	return &Loop{
		deps:      deps,
		holdState: ticker.ResetHold{ShownSecond: -1},
	}
}

// Run drives the loop until the context is cancelled. It renders the boot
// screen, publishes a startup snapshot, then iterates on the tick.
func (l *Loop) Run(ctx context.Context) error {
	l.deps.Renderer.SetOrientation(l.deps.Policy.Flipped)

	now := l.deps.Clock.NowMillis()
	l.viewState.Active = l.deps.Screens.InitialScreen()
	l.viewState.LastSwitchAt = now
	l.lastHeartbeatAt = now

	l.render(ctx)
	l.publish(ctx, "startup")

	logger.InfoKV(ctx, "Control loop started",
		"screen", l.viewState.Active.String(),
		"poll_interval_ms", l.deps.Policy.PollIntervalMs)

	tick := time.NewTicker(loopTick)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			l.publish(ctx, "shutdown")
			logger.Info(ctx, "Control loop stopped")

			return nil
		case <-tick.C:
			l.iterate(ctx)
		}
	}
}

// iterate runs one cooperative cycle: clock, inputs, engines in order,
// then the render arbitration.
func (l *Loop) iterate(ctx context.Context) {
	now := l.deps.Clock.NowMillis()

	cycleLevel, dualLevel, err := l.deps.Device.ReadButtons()
	if err != nil {
		// Treat unreadable inputs as released; the next iteration retries.
		logger.ErrorKV(ctx, "Button read failed", "error", err)

		cycleLevel, dualLevel = false, false
	}

	changed := l.deps.Acquirer.Step(ctx, &l.acqState, now)

	if l.deps.Screens.Step(&l.viewState, now, cycleLevel, dualLevel) {
		changed = true
	}

	wd := l.deps.Watchdog.Step(ctx, &l.holdState, now, dualLevel)
	if wd.Armed {
		// The countdown suppresses every other display owner.
		l.armed = true

		if wd.Changed {
			if err := l.deps.Renderer.RenderCountdown(wd.SecondsLeft); err != nil {
				logger.ErrorKV(ctx, "Countdown render failed", "error", err)
			}
		}

		return
	}

	if wd.Changed || l.armed {
		// The hold was cancelled: put the normal screen back once.
		l.armed = false
		changed = true
	}

	directive := l.deps.Alerts.Step(ctx, &l.alertState, &l.acqState, now)
	if directive.Changed {
		changed = true
	}

	l.publishAlertEdge(ctx)
	l.heartbeat(ctx, now)

	l.apply(ctx, directive, changed)
}

// apply resolves display ownership for this iteration: an alert override
// blanks or restores the screen on blink edges, otherwise the coordinator's
// screen is redrawn when something it shows has changed.
func (l *Loop) apply(ctx context.Context, directive alert.Directive, changed bool) {
	if directive.Override && !directive.Visible {
		if !l.blanked {
			l.blanked = true

			if err := l.deps.Renderer.Clear(); err != nil {
				logger.ErrorKV(ctx, "Display clear failed", "error", err)
			}
		}

		return
	}

	if changed || l.blanked {
		l.blanked = false
		l.render(ctx)
	}
}

// render draws the coordinator's active screen from the latest acquisition
// state.
func (l *Loop) render(ctx context.Context) {
	var err error

	if l.viewState.Active == ticker.ScreenSecondary {
		err = l.deps.Renderer.RenderSecondary(render.SecondaryView{
			Metrics:    l.acqState.Metrics,
			HasMetrics: l.acqState.HasMetrics,
			Stale:      l.acqState.Stale,
			Connected:  l.acqState.Connected(),
		})
	} else {
		err = l.deps.Renderer.RenderPrimary(render.PrimaryView{
			Value:         l.acqState.Value,
			ChangePct:     l.acqState.ChangePct,
			HasChange:     l.acqState.HasChange,
			HasValue:      l.acqState.HasValue,
			ProviderLabel: l.acqState.ActiveProvider,
			Stale:         l.acqState.Stale,
			Connected:     l.acqState.Connected(),
		})
	}

	if err != nil {
		logger.ErrorKV(ctx, "Render failed", "error", err)
	}
}

// publishAlertEdge sends a snapshot on every alert transition.
func (l *Loop) publishAlertEdge(ctx context.Context) {
	if l.alertState.Triggered == l.lastAlertActive {
		return
	}

	l.lastAlertActive = l.alertState.Triggered

	event := "alert_off"
	if l.alertState.Triggered {
		event = "alert_on"
	}

	l.publish(ctx, event)
}

// heartbeat sends a periodic snapshot when the interval is configured.
func (l *Loop) heartbeat(ctx context.Context, now uint32) {
	if l.deps.HeartbeatMs == 0 {
		return
	}

	if clock.Elapsed(now, l.lastHeartbeatAt) < l.deps.HeartbeatMs {
		return
	}

	l.lastHeartbeatAt = now
	l.publish(ctx, "heartbeat")
}

// publish sends one status snapshot, best-effort.
func (l *Loop) publish(ctx context.Context, event string) {
	status := telemetry.Status{
		Timestamp:           time.Now(),
		Event:               event,
		Value:               l.acqState.Value,
		HasValue:            l.acqState.HasValue,
		Provider:            l.acqState.ActiveProvider,
		Stale:               l.acqState.Stale,
		ConsecutiveFailures: l.acqState.ConsecutiveFailures,
		Screen:              l.viewState.Active.String(),
		AlertActive:         l.alertState.Triggered,
	}

	if err := l.deps.Publisher.PublishStatus(status); err != nil {
		logger.WarnKV(ctx, "Status publish failed", "event", event, "error", err)
	}
}
