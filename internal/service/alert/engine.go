package alert

import (
	"context"

	"github.com/oshokin/ticker-display/internal/clock"
	"github.com/oshokin/ticker-display/internal/config"
	"github.com/oshokin/ticker-display/internal/domain/ticker"
	"github.com/oshokin/ticker-display/internal/gpio"
	"github.com/oshokin/ticker-display/internal/logger"
)

// Directive tells the control loop what the alert engine wants rendered.
type Directive struct {
	// Override is true while the alert owns display visibility.
	Override bool
	// Visible is the blink level to apply when Override is set.
	Visible bool
	// Changed is true when the display-affecting state moved this step,
	// including the single re-render after an alert ends.
	Changed bool
}

// Engine evaluates thresholds and drives the blink outputs.
type Engine struct {
	// policy is the canonical configuration snapshot.
	policy *config.Policy
	// device drives the indicator line.
	device gpio.Device
}

// New creates the alert engine.
func New(policy *config.Policy, device gpio.Device) *Engine {
	return &Engine{
		policy: policy,
		device: device,
	}
}

// Step evaluates the trigger condition and advances the blink state by one
// loop iteration.
func (e *Engine) Step(ctx context.Context, s *ticker.Alert, acq *ticker.Acquisition, now uint32) Directive {
	e.evaluate(ctx, s, acq, now)

	if !s.Triggered {
		return e.cleanup(ctx, s)
	}

	changed := e.advanceBlink(s, now)

	if e.drivesIndicator() {
		e.writeIndicator(ctx, s, s.BlinkVisible)
	}

	if !e.drivesDisplay() {
		// Indicator-only alerts leave the screen to the coordinator.
		return Directive{Changed: false}
	}

	return Directive{
		Override: true,
		Visible:  s.BlinkVisible,
		Changed:  changed,
	}
}

// evaluate applies the trigger rules: low is checked first, the duration
// cutoff forces a steady return without clearing the start mark, and a
// breach must clear before the alert can re-arm after a cutoff.
func (e *Engine) evaluate(ctx context.Context, s *ticker.Alert, acq *ticker.Acquisition, now uint32) {
	var (
		breachLow  = e.policy.AlertLow > 0 && acq.HasValue && acq.Value < e.policy.AlertLow
		breachHigh = e.policy.AlertHigh > 0 && acq.HasValue && acq.Value > e.policy.AlertHigh
		breached   = breachLow || breachHigh
	)

	if !breached {
		if s.Triggered {
			logger.InfoKV(ctx, "Alert cleared", "value", acq.Value)
		}

		// Condition gone: fully disarm, allowing a future re-trigger.
		s.Triggered = false
		s.HasStart = false

		return
	}

	if s.Triggered {
		if e.policy.AlertDurationMs > 0 &&
			clock.Elapsed(now, s.StartedAt) > e.policy.AlertDurationMs {
			// Cutoff reached: stop blinking but keep StartedAt so the same
			// continuous breach cannot immediately re-arm.
			s.Triggered = false

			logger.InfoKV(ctx, "Alert duration cutoff reached", "value", acq.Value)
		}

		return
	}

	if s.HasStart {
		// Still inside the same continuous breach after a cutoff.
		return
	}

	// Arm: false-to-true transition sets the start mark and blink state.
	s.Triggered = true
	s.StartedAt = now
	s.HasStart = true
	s.BlinkVisible = true
	s.SOSStep = 0
	s.LastToggleAt = now
	s.CleanupDone = false

	if breachLow {
		s.Pattern = e.policy.LowPattern
	} else {
		s.Pattern = e.policy.HighPattern
	}

	logger.WarnKV(ctx, "Alert triggered",
		"value", acq.Value,
		"low", e.policy.AlertLow,
		"high", e.policy.AlertHigh,
		"pattern", s.Pattern)
}

// advanceBlink moves the blink level according to the active pattern.
// It returns true when the level or the display state changed.
func (e *Engine) advanceBlink(s *ticker.Alert, now uint32) bool {
	if s.Pattern != ticker.PatternSOS {
		if clock.Elapsed(now, s.LastToggleAt) >= togglePeriod(s.Pattern) {
			s.BlinkVisible = !s.BlinkVisible
			s.LastToggleAt = now

			return true
		}

		return false
	}

	elapsed := clock.Elapsed(now, s.LastToggleAt)

	if elapsed > sosRecoveryGapMs {
		// Abnormal gap since the last transition: restart the sequence.
		s.SOSStep = 0
		s.BlinkVisible = sosTable[0].on
		s.LastToggleAt = now

		return true
	}

	if elapsed >= sosTable[s.SOSStep].ms {
		s.SOSStep = (s.SOSStep + 1) % sosStepCount
		s.BlinkVisible = sosTable[s.SOSStep].on
		s.LastToggleAt = now

		return true
	}

	return false
}

// cleanup performs the one-time return to steady state after an alert ends
// or is cut off. Idle iterations afterwards touch nothing.
func (e *Engine) cleanup(ctx context.Context, s *ticker.Alert) Directive {
	if s.CleanupDone {
		return Directive{}
	}

	s.CleanupDone = true
	s.BlinkVisible = true

	if e.drivesIndicator() {
		e.writeIndicator(ctx, s, false)
	}

	// One re-render puts the normal screen back.
	return Directive{Changed: true}
}

// drivesDisplay reports whether the alert mode owns display visibility.
func (e *Engine) drivesDisplay() bool {
	return e.policy.AlertMode == ticker.AlertDisplayOnly || e.policy.AlertMode == ticker.AlertBoth
}

// drivesIndicator reports whether the alert mode owns the indicator line.
func (e *Engine) drivesIndicator() bool {
	return e.policy.AlertMode == ticker.AlertIndicatorOnly || e.policy.AlertMode == ticker.AlertBoth
}

// writeIndicator drives the polarity-corrected level, skipping writes that
// would not change the line.
func (e *Engine) writeIndicator(ctx context.Context, s *ticker.Alert, on bool) {
	level := on
	if e.policy.IndicatorActiveLow {
		level = !level
	}

	if s.IndicatorKnown && s.IndicatorLevel == level {
		return
	}

	if err := e.device.SetIndicator(level); err != nil {
		logger.ErrorKV(ctx, "Indicator write failed", "error", err)

		return
	}

	s.IndicatorKnown = true
	s.IndicatorLevel = level
}
