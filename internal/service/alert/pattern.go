package alert

import "github.com/oshokin/ticker-display/internal/domain/ticker"

const (
	// slowPeriodMs is the Slow pattern toggle period.
	slowPeriodMs = 1000
	// fastPeriodMs is the Fast pattern toggle period.
	fastPeriodMs = 250
	// strobePeriodMs is the Strobe pattern toggle period.
	strobePeriodMs = 50

	// sosShortMs is a short (dot) pulse.
	sosShortMs = 200
	// sosLongMs is a long (dash) pulse.
	sosLongMs = 600
	// sosGapMs is the gap between symbols.
	sosGapMs = 200
	// sosPauseMs is the pause between full cycles.
	sosPauseMs = 2000

	// sosStepCount is the length of the fixed SOS sequence.
	sosStepCount = 18

	// sosRecoveryGapMs resets the step index after an abnormally long gap,
	// recovering from a prior non-alert period.
	sosRecoveryGapMs = 3000
)

// sosStep describes one entry of the fixed SOS sequence: the visible level
// and how long it holds.
type sosStep struct {
	on bool
	ms uint32
}

// sosTable is the 18-step sequence: three short pulses, three long pulses,
// three short pulses, with inter-symbol gaps and a longer inter-cycle pause.
var sosTable = [sosStepCount]sosStep{
	{true, sosShortMs}, {false, sosGapMs},
	{true, sosShortMs}, {false, sosGapMs},
	{true, sosShortMs}, {false, sosGapMs},
	{true, sosLongMs}, {false, sosGapMs},
	{true, sosLongMs}, {false, sosGapMs},
	{true, sosLongMs}, {false, sosGapMs},
	{true, sosShortMs}, {false, sosGapMs},
	{true, sosShortMs}, {false, sosGapMs},
	{true, sosShortMs}, {false, sosPauseMs},
}

// togglePeriod returns the fixed toggle period of a uniform pattern.
// SOS has no uniform period and is handled by the step table.
func togglePeriod(p ticker.BlinkPattern) uint32 {
	switch p {
	case ticker.PatternFast:
		return fastPeriodMs
	case ticker.PatternStrobe:
		return strobePeriodMs
	case ticker.PatternSlow, ticker.PatternSOS:
		return slowPeriodMs
	}

	return slowPeriodMs
}
