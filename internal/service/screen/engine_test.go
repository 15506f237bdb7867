package screen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ticker-display/internal/config"
	"github.com/oshokin/ticker-display/internal/domain/ticker"
)

// policyFor builds a normalized policy from a mutated default configuration.
func policyFor(t *testing.T, mutate func(*config.Config)) *config.Policy {
	t.Helper()

	cfg := config.Default()
	cfg.Secondary.Enabled = true

	if mutate != nil {
		mutate(cfg)
	}

	require.NoError(t, config.Validate(cfg))

	p, err := config.Normalize(cfg)
	require.NoError(t, err)

	return p
}

// TestAutoCycleTiming verifies the exact flip instants with independent
// per-screen durations, and idempotency across repeated steps at the same
// timestamp.
func TestAutoCycleTiming(t *testing.T) {
	t.Parallel()

	p := policyFor(t, func(c *config.Config) {
		c.Screen.ButtonMode = "auto_cycle"
		c.Screen.PrimaryDuration = 120 * time.Second
		c.Screen.SecondaryDuration = 10 * time.Second
	})
	e := New(p)

	s := &ticker.ScreenView{Active: ticker.ScreenPrimary}

	// Just before the primary window ends: nothing.
	require.False(t, e.Step(s, 119999, false, false))
	require.Equal(t, ticker.ScreenPrimary, s.Active)

	// Exactly at 120000: flip to secondary.
	require.True(t, e.Step(s, 120000, false, false))
	require.Equal(t, ticker.ScreenSecondary, s.Active)

	// Repeated step at the same timestamp is idempotent.
	require.False(t, e.Step(s, 120000, false, false))
	require.Equal(t, ticker.ScreenSecondary, s.Active)

	// Back to primary at 120000+10000.
	require.True(t, e.Step(s, 130000, false, false))
	require.Equal(t, ticker.ScreenPrimary, s.Active)
}

// TestAutoCyclePressRestartsTimer verifies a manual flip resets the window.
func TestAutoCyclePressRestartsTimer(t *testing.T) {
	t.Parallel()

	p := policyFor(t, func(c *config.Config) {
		c.Screen.PrimaryDuration = 120 * time.Second
		c.Screen.SecondaryDuration = 10 * time.Second
	})
	e := New(p)

	s := &ticker.ScreenView{Active: ticker.ScreenPrimary}

	// Short press: down at t=1000, up at t=1100.
	require.False(t, e.Step(s, 1000, true, false))
	require.True(t, e.Step(s, 1100, false, false))
	require.Equal(t, ticker.ScreenSecondary, s.Active)
	require.Equal(t, uint32(1100), s.LastSwitchAt)

	// The secondary window now runs from the press, not from t=0.
	require.False(t, e.Step(s, 11099, false, false))
	require.True(t, e.Step(s, 11100, false, false))
	require.Equal(t, ticker.ScreenPrimary, s.Active)
}

// TestShortPressWindow verifies the debounce floor and the one-second ceiling.
func TestShortPressWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		heldMs  uint32
		cycles  bool
	}{
		{name: "bounce is ignored", heldMs: 30, cycles: false},
		{name: "floor is inclusive", heldMs: 50, cycles: true},
		{name: "normal press cycles", heldMs: 300, cycles: true},
		{name: "ceiling is inclusive", heldMs: 1000, cycles: true},
		{name: "long hold is ignored", heldMs: 1500, cycles: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := New(policyFor(t, nil))
			s := &ticker.ScreenView{Active: ticker.ScreenPrimary}

			require.False(t, e.Step(s, 0, true, false))

			changed := e.Step(s, tt.heldMs, false, false)
			require.Equal(t, tt.cycles, changed)

			want := ticker.ScreenPrimary
			if tt.cycles {
				want = ticker.ScreenSecondary
			}

			require.Equal(t, want, s.Active)
		})
	}
}

// TestOnDemandWindow verifies the single secondary window with auto-revert.
func TestOnDemandWindow(t *testing.T) {
	t.Parallel()

	p := policyFor(t, func(c *config.Config) {
		c.Screen.ButtonMode = "on_demand"
		c.Screen.SecondaryDuration = 10 * time.Second
	})
	e := New(p)

	s := &ticker.ScreenView{Active: ticker.ScreenPrimary}

	// Press at t=0..100 shows secondary for one window.
	e.Step(s, 0, true, false)
	require.True(t, e.Step(s, 100, false, false))
	require.Equal(t, ticker.ScreenSecondary, s.Active)

	// Auto-revert exactly one window later.
	require.False(t, e.Step(s, 10099, false, false))
	require.True(t, e.Step(s, 10100, false, false))
	require.Equal(t, ticker.ScreenPrimary, s.Active)

	// No further flips without another press.
	require.False(t, e.Step(s, 500000, false, false))
	require.Equal(t, ticker.ScreenPrimary, s.Active)
}

// TestAlwaysSecondaryOneShot verifies the pinned screen and the one-shot
// primary press.
func TestAlwaysSecondaryOneShot(t *testing.T) {
	t.Parallel()

	p := policyFor(t, func(c *config.Config) {
		c.Screen.ButtonMode = "always_secondary"
	})
	e := New(p)

	require.Equal(t, ticker.ScreenSecondary, e.InitialScreen())

	s := &ticker.ScreenView{Active: ticker.ScreenSecondary}

	// Pinned: time alone never flips.
	require.False(t, e.Step(s, 600000, false, false))
	require.Equal(t, ticker.ScreenSecondary, s.Active)

	// One-shot primary.
	e.Step(s, 600000, true, false)
	require.True(t, e.Step(s, 600200, false, false))
	require.Equal(t, ticker.ScreenPrimary, s.Active)

	// Re-press returns to the pinned screen.
	e.Step(s, 601000, true, false)
	require.True(t, e.Step(s, 601200, false, false))
	require.Equal(t, ticker.ScreenSecondary, s.Active)
}

// TestDualButtonShowsSecondary verifies the hold/release/countdown behavior,
// including countdown cancellation by a re-press.
func TestDualButtonShowsSecondary(t *testing.T) {
	t.Parallel()

	p := policyFor(t, func(c *config.Config) {
		c.Screen.DualButtonRole = "shows_secondary"
		c.Screen.DualButtonTimeout = 5 * time.Second
	})
	e := New(p)

	require.Equal(t, ticker.ScreenPrimary, e.InitialScreen())

	s := &ticker.ScreenView{Active: ticker.ScreenPrimary}

	// Press at t=0: secondary immediately on the rising edge.
	require.True(t, e.Step(s, 0, false, true))
	require.Equal(t, ticker.ScreenSecondary, s.Active)

	// Holding produces no redundant renders.
	require.False(t, e.Step(s, 500, false, true))

	// Release at t=1000: countdown starts, screen unchanged.
	require.False(t, e.Step(s, 1000, false, false))
	require.Equal(t, ticker.ScreenSecondary, s.Active)

	// Re-press at t=3000 cancels the pending revert.
	require.False(t, e.Step(s, 3000, false, true))
	require.Equal(t, ticker.ScreenSecondary, s.Active)

	// Way past the original deadline: still held, still secondary.
	require.False(t, e.Step(s, 7000, false, true))
	require.Equal(t, ticker.ScreenSecondary, s.Active)

	// Release at t=8000; revert fires at t=8000+5000.
	require.False(t, e.Step(s, 8000, false, false))
	require.False(t, e.Step(s, 12999, false, false))
	require.True(t, e.Step(s, 13000, false, false))
	require.Equal(t, ticker.ScreenPrimary, s.Active)
}

// TestDualButtonRevertTiming verifies the uninterrupted release countdown.
func TestDualButtonRevertTiming(t *testing.T) {
	t.Parallel()

	p := policyFor(t, func(c *config.Config) {
		c.Screen.DualButtonRole = "shows_secondary"
		c.Screen.DualButtonTimeout = 5 * time.Second
	})
	e := New(p)

	s := &ticker.ScreenView{Active: ticker.ScreenPrimary}

	require.True(t, e.Step(s, 0, false, true))
	require.False(t, e.Step(s, 1000, false, false))

	// Revert lands at exactly release+timeout.
	require.False(t, e.Step(s, 5999, false, false))
	require.True(t, e.Step(s, 6000, false, false))
	require.Equal(t, ticker.ScreenPrimary, s.Active)
}

// TestDualButtonInstantRevert verifies timeout zero reverts on the falling edge.
func TestDualButtonInstantRevert(t *testing.T) {
	t.Parallel()

	p := policyFor(t, func(c *config.Config) {
		c.Screen.DualButtonRole = "shows_secondary"
	})
	e := New(p)

	s := &ticker.ScreenView{Active: ticker.ScreenPrimary}

	require.True(t, e.Step(s, 0, false, true))
	require.Equal(t, ticker.ScreenSecondary, s.Active)

	require.True(t, e.Step(s, 400, false, false))
	require.Equal(t, ticker.ScreenPrimary, s.Active)
}

// TestDualButtonShowsPrimary verifies the mirrored role.
func TestDualButtonShowsPrimary(t *testing.T) {
	t.Parallel()

	p := policyFor(t, func(c *config.Config) {
		c.Screen.DualButtonRole = "shows_primary"
	})
	e := New(p)

	require.Equal(t, ticker.ScreenSecondary, e.InitialScreen())

	s := &ticker.ScreenView{Active: ticker.ScreenSecondary}

	require.True(t, e.Step(s, 0, false, true))
	require.Equal(t, ticker.ScreenPrimary, s.Active)

	require.True(t, e.Step(s, 300, false, false))
	require.Equal(t, ticker.ScreenSecondary, s.Active)
}

// TestSecondaryDisabledNeverShowsSecondary verifies the feature gate wins
// regardless of state.
func TestSecondaryDisabledNeverShowsSecondary(t *testing.T) {
	t.Parallel()

	p := policyFor(t, func(c *config.Config) {
		c.Secondary.Enabled = false
	})
	e := New(p)

	require.Equal(t, ticker.ScreenPrimary, e.InitialScreen())

	// Even with state forced to secondary, the step pulls it back.
	s := &ticker.ScreenView{Active: ticker.ScreenSecondary}

	require.True(t, e.Step(s, 0, false, false))
	require.Equal(t, ticker.ScreenPrimary, s.Active)
}
