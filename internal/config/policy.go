package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/oshokin/ticker-display/internal/domain/ticker"
)

// Policy is the canonical, self-consistent snapshot of every knob the
// engines consume. It is produced once per configuration load by Normalize;
// engines never read Config directly.
type Policy struct {
	// Provider is the preferred data source name, empty for "auto".
	Provider string
	// Exclusive disables fallback to other providers.
	Exclusive bool
	// PollIntervalMs is the minimum time between acquisition attempts.
	PollIntervalMs uint32
	// AttemptTimeout bounds a single provider fetch.
	AttemptTimeout time.Duration
	// IdleResetMs returns the ring start to the preferred provider after
	// this long without a success. Zero disables.
	IdleResetMs uint32
	// SecondaryEnabled gates the secondary screen feature.
	SecondaryEnabled bool
	// MetricsIntervalMs is the minimum time between metric fetches.
	MetricsIntervalMs uint32
	// ButtonMode is the resolved screen switching policy.
	ButtonMode ticker.ButtonMode
	// PrimaryDurationMs is the primary screen's auto-cycle window.
	PrimaryDurationMs uint32
	// SecondaryDurationMs is the secondary screen's visible window.
	SecondaryDurationMs uint32
	// DualRole is the resolved dual-purpose button role.
	DualRole ticker.DualButtonRole
	// DualTimeoutMs delays the dual button revert. Zero reverts instantly.
	DualTimeoutMs uint32
	// Flipped rotates the display 180 degrees.
	Flipped bool
	// AlertLow is the low threshold, zero when disabled.
	AlertLow float64
	// AlertHigh is the high threshold, zero when disabled.
	AlertHigh float64
	// LowPattern is the blink profile for low breaches.
	LowPattern ticker.BlinkPattern
	// HighPattern is the blink profile for high breaches.
	HighPattern ticker.BlinkPattern
	// AlertMode selects the driven outputs.
	AlertMode ticker.AlertMode
	// AlertDurationMs stops blinking after continuous alert. Zero disables.
	AlertDurationMs uint32
	// IndicatorActiveLow inverts the indicator's physical level.
	IndicatorActiveLow bool
	// FactoryResetEnabled arms the watchdog on the shared input.
	FactoryResetEnabled bool
}

// Normalize resolves the validated configuration into a canonical Policy.
// Precedence rules for mutually exclusive knobs live here and nowhere else:
//   - a dual-purpose button role forces manual mode and disables the
//     factory-reset watchdog on the shared line;
//   - a disabled secondary feature clears the dual role and demotes any
//     mode that could select the secondary screen to manual.
func Normalize(cfg *Config) (*Policy, error) {
	if cfg == nil {
		return nil, errConfigIsNotSet
	}

	mode, err := parseButtonMode(cfg.Screen.ButtonMode)
	if err != nil {
		return nil, err
	}

	role, err := parseDualRole(cfg.Screen.DualButtonRole)
	if err != nil {
		return nil, err
	}

	lowPattern, err := parsePattern(cfg.Alert.LowPattern)
	if err != nil {
		return nil, err
	}

	highPattern, err := parsePattern(cfg.Alert.HighPattern)
	if err != nil {
		return nil, err
	}

	alertMode, err := parseAlertMode(cfg.Alert.Mode)
	if err != nil {
		return nil, err
	}

	p := &Policy{
		Provider:            preferenceName(cfg.Provider),
		Exclusive:           cfg.ProviderExclusive,
		PollIntervalMs:      durationMs(cfg.PollInterval),
		AttemptTimeout:      cfg.AttemptTimeout,
		IdleResetMs:         durationMs(cfg.IdleReset),
		SecondaryEnabled:    cfg.Secondary.Enabled,
		MetricsIntervalMs:   durationMs(cfg.Secondary.PollInterval),
		ButtonMode:          mode,
		PrimaryDurationMs:   durationMs(cfg.Screen.PrimaryDuration),
		SecondaryDurationMs: durationMs(cfg.Screen.SecondaryDuration),
		DualRole:            role,
		DualTimeoutMs:       durationMs(cfg.Screen.DualButtonTimeout),
		Flipped:             cfg.Screen.Flipped,
		AlertLow:            cfg.Alert.Low,
		AlertHigh:           cfg.Alert.High,
		LowPattern:          lowPattern,
		HighPattern:         highPattern,
		AlertMode:           alertMode,
		AlertDurationMs:     durationMs(cfg.Alert.Duration),
		IndicatorActiveLow:  cfg.Alert.IndicatorActiveLow,
		FactoryResetEnabled: cfg.FactoryResetEnabled,
	}

	// The secondary feature gates everything that could select the
	// secondary screen.
	if !p.SecondaryEnabled {
		p.DualRole = ticker.DualRoleNone
		if p.ButtonMode != ticker.ModeManualNoCycle {
			p.ButtonMode = ticker.ModeManualNoCycle
		}
	}

	// The dual-purpose role claims the shared input: manual switching only,
	// no factory reset on that line.
	if p.DualRole != ticker.DualRoleNone {
		p.ButtonMode = ticker.ModeManualNoCycle
		p.FactoryResetEnabled = false
	}

	return p, nil
}

// preferenceName maps the "auto" alias to an empty preference.
func preferenceName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "auto" {
		return ""
	}

	return s
}

// durationMs converts a duration to whole milliseconds, clamping negatives to zero.
func durationMs(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}

	return uint32(d.Milliseconds()) //nolint:gosec // Config durations are far below the uint32 range.
}

// parseButtonMode converts the YAML string to a ButtonMode.
func parseButtonMode(s string) (ticker.ButtonMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto_cycle":
		return ticker.ModeAutoCycle, nil
	case "always_secondary":
		return ticker.ModeAlwaysSecondary, nil
	case "on_demand":
		return ticker.ModeOnDemand, nil
	case "manual":
		return ticker.ModeManualNoCycle, nil
	default:
		return 0, fmt.Errorf("unknown button mode %q", s)
	}
}

// parseDualRole converts the YAML string to a DualButtonRole.
func parseDualRole(s string) (ticker.DualButtonRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ticker.DualRoleNone, nil
	case "shows_secondary":
		return ticker.DualRoleShowsSecondary, nil
	case "shows_primary":
		return ticker.DualRoleShowsPrimary, nil
	default:
		return 0, fmt.Errorf("unknown dual button role %q", s)
	}
}

// parsePattern converts the YAML string to a BlinkPattern.
func parsePattern(s string) (ticker.BlinkPattern, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "slow":
		return ticker.PatternSlow, nil
	case "fast":
		return ticker.PatternFast, nil
	case "strobe":
		return ticker.PatternStrobe, nil
	case "sos":
		return ticker.PatternSOS, nil
	default:
		return 0, fmt.Errorf("unknown blink pattern %q", s)
	}
}

// parseAlertMode converts the YAML string to an AlertMode.
func parseAlertMode(s string) (ticker.AlertMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "display":
		return ticker.AlertDisplayOnly, nil
	case "indicator":
		return ticker.AlertIndicatorOnly, nil
	case "", "both":
		return ticker.AlertBoth, nil
	default:
		return 0, fmt.Errorf("unknown alert mode %q", s)
	}
}
