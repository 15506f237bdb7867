package factoryreset

import (
	"context"

	"github.com/oshokin/ticker-display/internal/clock"
	"github.com/oshokin/ticker-display/internal/config"
	"github.com/oshokin/ticker-display/internal/domain/ticker"
	"github.com/oshokin/ticker-display/internal/logger"
)

const (
	// countdownStartMs is the hold duration at which the countdown appears.
	countdownStartMs = 2000
	// fireAtMs is the hold duration at which the reset action fires.
	fireAtMs = 10000
	// totalSeconds is the countdown ceiling shown to the user.
	totalSeconds = 10
	// noCountdown marks an empty countdown display.
	noCountdown = -1
)

// Action is the terminal wipe-and-restart collaborator. Execute wipes
// persisted configuration and restarts the device; on success it never
// returns.
type Action interface {
	Execute(ctx context.Context) error
}

// Directive tells the control loop what the watchdog claimed this step.
type Directive struct {
	// Armed is true while the hold is past the countdown threshold.
	// Other screen rendering is suppressed while Armed.
	Armed bool
	// SecondsLeft is the countdown value to show while Armed.
	SecondsLeft int
	// Changed is true when the display should be redrawn: a new countdown
	// second, or the single redraw after a cancelled hold.
	Changed bool
}

// Engine owns the ResetHold state and watches the shared input.
type Engine struct {
	// policy is the canonical configuration snapshot.
	policy *config.Policy
	// action performs the irreversible wipe-and-restart.
	action Action
}

// New creates the factory-reset watchdog.
func New(policy *config.Policy, action Action) *Engine {
	return &Engine{
		policy: policy,
		action: action,
	}
}

// Step advances the watchdog by one loop iteration. level is the raw level
// of the shared input read this iteration. The engine no-ops entirely when
// the dual-purpose button role has claimed the line.
func (e *Engine) Step(ctx context.Context, s *ticker.ResetHold, now uint32, level bool) Directive {
	if !e.policy.FactoryResetEnabled {
		return Directive{}
	}

	if !level {
		return e.release(ctx, s)
	}

	if !s.Holding {
		s.Holding = true
		s.HoldStartedAt = now
		s.ShownSecond = noCountdown

		return Directive{}
	}

	held := clock.Elapsed(now, s.HoldStartedAt)

	if held >= fireAtMs {
		e.fire(ctx, s)

		return Directive{Armed: true}
	}

	if held < countdownStartMs {
		return Directive{}
	}

	secondsLeft := totalSeconds - int(held/1000)
	shown := int8(secondsLeft) //nolint:gosec // secondsLeft is in 1..8 here.

	changed := shown != s.ShownSecond
	s.ShownSecond = shown

	return Directive{
		Armed:       true,
		SecondsLeft: secondsLeft,
		Changed:     changed,
	}
}

// release cancels any in-flight hold and leaves no residual state.
func (e *Engine) release(ctx context.Context, s *ticker.ResetHold) Directive {
	if !s.Holding {
		return Directive{}
	}

	wasShown := s.ShownSecond != noCountdown

	s.Holding = false
	s.ShownSecond = noCountdown

	if wasShown {
		logger.Info(ctx, "Factory reset cancelled")
	}

	// One redraw puts the normal screen back over the countdown.
	return Directive{Changed: wasShown}
}

// fire runs the terminal action exactly once per hold.
func (e *Engine) fire(ctx context.Context, s *ticker.ResetHold) {
	if s.Fired {
		return
	}

	s.Fired = true

	logger.Warn(ctx, "Factory reset threshold reached, wiping configuration")

	if err := e.action.Execute(ctx); err != nil {
		logger.ErrorKV(ctx, "Factory reset failed", "error", err)
	}
}
