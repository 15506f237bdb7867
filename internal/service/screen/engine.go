package screen

import (
	"github.com/oshokin/ticker-display/internal/clock"
	"github.com/oshokin/ticker-display/internal/config"
	"github.com/oshokin/ticker-display/internal/domain/ticker"
)

const (
	// minPressMs is the debounce floor for the short-press cycle input.
	minPressMs = 50
	// maxPressMs is the ceiling above which a press is not a cycle request.
	maxPressMs = 1000
)

// Engine owns the ScreenView state and applies the switching policies.
type Engine struct {
	// policy is the canonical configuration snapshot.
	policy *config.Policy
}

// New creates the screen coordinator.
func New(policy *config.Policy) *Engine {
	return &Engine{policy: policy}
}

// Step advances the coordinator by one loop iteration. cycleLevel and
// dualLevel are the raw input levels read this iteration. It returns true
// when the visible screen changed and a render is due.
func (e *Engine) Step(s *ticker.ScreenView, now uint32, cycleLevel, dualLevel bool) bool {
	changed := false

	if e.shortPress(s, now, cycleLevel) {
		changed = e.applyPress(s, now) || changed
	}

	if e.policy.DualRole != ticker.DualRoleNone {
		changed = e.stepDualButton(s, now, dualLevel) || changed
	}

	changed = e.stepTimers(s, now) || changed

	// The secondary feature gate wins over everything above.
	if !e.policy.SecondaryEnabled && s.Active == ticker.ScreenSecondary {
		s.Active = ticker.ScreenPrimary
		s.LastSwitchAt = now
		changed = true
	}

	return changed
}

// shortPress runs the level-based press-and-release detector for the cycle
// input. A press counts only when released inside the debounce window; the
// input has no long-press behavior.
func (e *Engine) shortPress(s *ticker.ScreenView, now uint32, level bool) bool {
	if level && !s.CyclePressed {
		s.CyclePressed = true
		s.CyclePressedAt = now

		return false
	}

	if !level && s.CyclePressed {
		s.CyclePressed = false
		held := clock.Elapsed(now, s.CyclePressedAt)

		return held >= minPressMs && held <= maxPressMs
	}

	return false
}

// applyPress handles one detected short press according to the button mode.
func (e *Engine) applyPress(s *ticker.ScreenView, now uint32) bool {
	switch e.policy.ButtonMode {
	case ticker.ModeAutoCycle:
		// Manual flips restart the cycle timer like automatic ones.
		e.flip(s, now)

		return true

	case ticker.ModeAlwaysSecondary:
		// One-shot primary; a re-press returns to the pinned screen.
		e.flip(s, now)

		return true

	case ticker.ModeOnDemand:
		if s.Active == ticker.ScreenPrimary {
			s.Active = ticker.ScreenSecondary
			s.LastSwitchAt = now
		} else {
			// A press during the window reverts early.
			s.Active = ticker.ScreenPrimary
			s.LastSwitchAt = now
		}

		return true

	case ticker.ModeManualNoCycle:
		// Transitions happen only via the dual-purpose button.
		return false
	}

	return false
}

// stepDualButton handles the dual-purpose input edges and the cancellable
// revert countdown.
func (e *Engine) stepDualButton(s *ticker.ScreenView, now uint32, level bool) bool {
	alt, home := e.dualScreens()
	changed := false

	switch {
	case level && !s.HoldActive:
		// Rising edge: show the alternate screen and cancel any pending revert.
		s.HoldActive = true
		s.RevertPending = false

		if !s.AltShown {
			s.AltShown = true
			s.Active = alt
			s.LastSwitchAt = now
			changed = true
		}

	case !level && s.HoldActive:
		// Falling edge: revert instantly or start the countdown.
		s.HoldActive = false

		if e.policy.DualTimeoutMs == 0 {
			s.AltShown = false
			s.Active = home
			s.LastSwitchAt = now
			changed = true
		} else {
			s.RevertPending = true
			s.ReleaseStartedAt = now
		}
	}

	if s.RevertPending && !s.HoldActive &&
		clock.Elapsed(now, s.ReleaseStartedAt) >= e.policy.DualTimeoutMs {
		s.RevertPending = false
		s.AltShown = false
		s.Active = home
		s.LastSwitchAt = now
		changed = true
	}

	return changed
}

// dualScreens resolves which screen the dual button shows and which it
// reverts to.
func (e *Engine) dualScreens() (alt, home ticker.Screen) {
	if e.policy.DualRole == ticker.DualRoleShowsPrimary {
		return ticker.ScreenPrimary, ticker.ScreenSecondary
	}

	return ticker.ScreenSecondary, ticker.ScreenPrimary
}

// stepTimers applies the timer-driven transitions for the active mode.
func (e *Engine) stepTimers(s *ticker.ScreenView, now uint32) bool {
	switch e.policy.ButtonMode {
	case ticker.ModeAutoCycle:
		if clock.Elapsed(now, s.LastSwitchAt) >= e.screenDuration(s.Active) {
			e.flip(s, now)

			return true
		}

	case ticker.ModeAlwaysSecondary:
		// Nothing timer-driven: the screen stays where the last press put it,
		// pinned to secondary by default.

	case ticker.ModeOnDemand:
		if s.Active == ticker.ScreenSecondary &&
			clock.Elapsed(now, s.LastSwitchAt) >= e.policy.SecondaryDurationMs {
			s.Active = ticker.ScreenPrimary
			s.LastSwitchAt = now

			return true
		}

	case ticker.ModeManualNoCycle:
		// No timer-driven switching.
	}

	return false
}

// screenDuration returns the configured visible window of the given screen.
func (e *Engine) screenDuration(screen ticker.Screen) uint32 {
	if screen == ticker.ScreenSecondary {
		return e.policy.SecondaryDurationMs
	}

	return e.policy.PrimaryDurationMs
}

// flip toggles the active screen and restarts the cycle timer.
func (e *Engine) flip(s *ticker.ScreenView, now uint32) {
	if s.Active == ticker.ScreenPrimary {
		s.Active = ticker.ScreenSecondary
	} else {
		s.Active = ticker.ScreenPrimary
	}

	s.LastSwitchAt = now
}

// InitialScreen returns the screen the device boots on for the active policy.
func (e *Engine) InitialScreen() ticker.Screen {
	if !e.policy.SecondaryEnabled {
		return ticker.ScreenPrimary
	}

	switch {
	case e.policy.ButtonMode == ticker.ModeAlwaysSecondary:
		return ticker.ScreenSecondary
	case e.policy.DualRole == ticker.DualRoleShowsPrimary:
		// The dual button shows primary on demand, so home is secondary.
		return ticker.ScreenSecondary
	default:
		return ticker.ScreenPrimary
	}
}
