package ticker

// Screen identifies one of the mutually exclusive display presentations.
type Screen uint8

const (
	// ScreenPrimary shows the acquired value, its change, and provider status.
	ScreenPrimary Screen = iota
	// ScreenSecondary shows the optional secondary metric set.
	ScreenSecondary
)

// String returns the screen name for logs and telemetry.
func (s Screen) String() string {
	if s == ScreenSecondary {
		return "secondary"
	}

	return "primary"
}

// ButtonMode is the policy governing automatic vs. manual screen switching.
type ButtonMode uint8

const (
	// ModeAutoCycle alternates screens on independent per-screen timers.
	ModeAutoCycle ButtonMode = iota
	// ModeAlwaysSecondary pins the secondary screen; a short press forces
	// the primary screen as a one-shot.
	ModeAlwaysSecondary
	// ModeOnDemand shows the primary screen by default and the secondary
	// screen for exactly one window after a short press.
	ModeOnDemand
	// ModeManualNoCycle disables timer-driven switching entirely;
	// transitions happen only via the dual-purpose button.
	ModeManualNoCycle
)

// DualButtonRole selects how the shared physical input is repurposed.
// Any role other than DualRoleNone forces ModeManualNoCycle and disables
// the factory-reset watchdog on the shared line.
type DualButtonRole uint8

const (
	// DualRoleNone leaves the shared input to the factory-reset watchdog.
	DualRoleNone DualButtonRole = iota
	// DualRoleShowsSecondary shows the secondary screen while held.
	DualRoleShowsSecondary
	// DualRoleShowsPrimary shows the primary screen while held.
	DualRoleShowsPrimary
)

// BlinkPattern is a named blink timing profile for the alert engine.
type BlinkPattern uint8

const (
	// PatternSlow toggles every 1000 ms.
	PatternSlow BlinkPattern = iota
	// PatternFast toggles every 250 ms.
	PatternFast
	// PatternStrobe toggles every 50 ms.
	PatternStrobe
	// PatternSOS runs the fixed 18-step three-short/three-long/three-short sequence.
	PatternSOS
)

// AlertMode selects which physical outputs an active alert drives.
type AlertMode uint8

const (
	// AlertDisplayOnly blinks the full display, leaving the indicator alone.
	AlertDisplayOnly AlertMode = iota
	// AlertIndicatorOnly drives the indicator output, leaving the display alone.
	AlertIndicatorOnly
	// AlertBoth drives display and indicator on shared timing.
	AlertBoth
)

// Quote is a single successful provider fetch.
type Quote struct {
	// Price is the acquired numeric value.
	Price float64
	// ChangePct is the 24h change ratio in percent, when the provider supplies one.
	ChangePct float64
	// HasChange reports whether ChangePct carries a real reading.
	HasChange bool
}

// Metrics is the secondary screen data set (weather readings).
type Metrics struct {
	// TemperatureC is the current air temperature in degrees Celsius.
	TemperatureC float64
	// HumidityPct is the relative humidity in percent.
	HumidityPct float64
	// WindSpeedKmh is the wind speed in kilometers per hour.
	WindSpeedKmh float64
	// Condition is a short human-readable sky condition.
	Condition string
}

// Acquisition is the cached result of provider polling, owned by the
// acquisition engine.
type Acquisition struct {
	// Value is the last successfully acquired price.
	Value float64
	// ChangePct is the change ratio that came with Value.
	ChangePct float64
	// HasChange reports whether ChangePct is meaningful.
	HasChange bool
	// HasValue reports whether any fetch has ever succeeded.
	HasValue bool
	// Stale is true once HasValue is set and the elapsed time since the
	// last success exceeds three poll intervals.
	Stale bool
	// ActiveProvider names the provider attempted most recently. It also
	// seeds the ring start for the next poll.
	ActiveProvider string
	// ConsecutiveFailures counts polls where every provider failed.
	ConsecutiveFailures uint32
	// LastSuccessAt is the counter reading of the last successful fetch.
	LastSuccessAt uint32
	// LastPollAt is the counter reading of the last poll, successful or not.
	LastPollAt uint32
	// Polled is false until the first poll has run.
	Polled bool
	// Metrics is the latest secondary metric set.
	Metrics Metrics
	// HasMetrics reports whether Metrics carries a real reading.
	HasMetrics bool
	// MetricsPolledAt is the counter reading of the last metrics fetch attempt.
	MetricsPolledAt uint32
	// MetricsPolled is false until the first metrics fetch has run.
	MetricsPolled bool
}

// Connected reports whether the most recent poll reached a provider.
func (a *Acquisition) Connected() bool {
	return a.HasValue && a.ConsecutiveFailures == 0
}

// ScreenView is the screen coordinator's state.
type ScreenView struct {
	// Active is the screen currently selected for rendering.
	Active Screen
	// LastSwitchAt is reset on every flip, automatic or manual.
	LastSwitchAt uint32
	// CyclePressed tracks the short-press input level between iterations.
	CyclePressed bool
	// CyclePressedAt is the counter reading of the pending press edge.
	CyclePressedAt uint32
	// HoldActive is true while the dual-purpose button is held.
	HoldActive bool
	// AltShown is true while the dual-purpose button's screen is forced.
	AltShown bool
	// RevertPending is true while a release countdown is running.
	RevertPending bool
	// ReleaseStartedAt is the counter reading of the release edge that
	// started the countdown.
	ReleaseStartedAt uint32
}

// Alert is the alert engine's state.
type Alert struct {
	// Triggered is true while a threshold breach is actively blinking.
	Triggered bool
	// StartedAt is the counter reading of the false-to-true transition.
	// It survives the duration cutoff so a continuous breach cannot re-arm.
	StartedAt uint32
	// HasStart reports whether StartedAt is meaningful.
	HasStart bool
	// Pattern is the blink profile selected by the breached threshold.
	Pattern BlinkPattern
	// BlinkVisible is the current logical blink level.
	BlinkVisible bool
	// SOSStep is the current index into the 18-step SOS table.
	SOSStep uint8
	// LastToggleAt is the counter reading of the last blink transition.
	LastToggleAt uint32
	// CleanupDone latches the one-time return to steady state.
	CleanupDone bool
	// IndicatorKnown reports whether IndicatorLevel reflects a real write.
	IndicatorKnown bool
	// IndicatorLevel is the last physical level written to the indicator.
	IndicatorLevel bool
}

// ResetHold is the factory-reset watchdog's state.
type ResetHold struct {
	// Holding is true while the reset input is held.
	Holding bool
	// HoldStartedAt is the counter reading of the first detected press.
	HoldStartedAt uint32
	// ShownSecond is the countdown value currently on the display,
	// or -1 when no countdown is shown.
	ShownSecond int8
	// Fired guards the terminal reset action so it runs exactly once.
	Fired bool
}
