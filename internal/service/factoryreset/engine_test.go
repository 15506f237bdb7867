package factoryreset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/ticker-display/internal/config"
	"github.com/oshokin/ticker-display/internal/domain/ticker"
)

// resetPolicy builds a normalized policy from a mutated default configuration.
func resetPolicy(t *testing.T, mutate func(*config.Config)) *config.Policy {
	t.Helper()

	cfg := config.Default()

	if mutate != nil {
		mutate(cfg)
	}

	require.NoError(t, config.Validate(cfg))

	p, err := config.Normalize(cfg)
	require.NoError(t, err)

	return p
}

// fakeAction counts Execute calls instead of wiping anything.
type fakeAction struct {
	calls int
	err   error
}

// Execute records the call.
func (a *fakeAction) Execute(context.Context) error {
	a.calls++

	return a.err
}

// newHold returns a fresh hold state the way the control loop initializes it.
func newHold() *ticker.ResetHold {
	return &ticker.ResetHold{ShownSecond: -1}
}

// TestCountdownValues verifies the seconds-remaining sequence while the
// input is held continuously from t=0.
func TestCountdownValues(t *testing.T) {
	t.Parallel()

	action := &fakeAction{}
	e := New(resetPolicy(t, nil), action)
	s := newHold()
	ctx := context.Background()

	// Rising edge at t=0.
	d := e.Step(ctx, s, 0, true)
	require.False(t, d.Armed)

	// Below the countdown threshold nothing is claimed.
	d = e.Step(ctx, s, 1999, true)
	require.False(t, d.Armed)
	require.False(t, d.Changed)

	// From 2s to 9s the countdown shows 10 - floor(t/1000).
	for ms := uint32(2000); ms <= 9000; ms += 500 {
		d = e.Step(ctx, s, ms, true)
		require.True(t, d.Armed, "t=%d", ms)
		require.Equal(t, 10-int(ms/1000), d.SecondsLeft, "t=%d", ms)
	}

	require.Zero(t, action.calls)
}

// TestCountdownRedrawsOncePerSecond verifies Changed fires only when the
// displayed second moves.
func TestCountdownRedrawsOncePerSecond(t *testing.T) {
	t.Parallel()

	e := New(resetPolicy(t, nil), &fakeAction{})
	s := newHold()
	ctx := context.Background()

	e.Step(ctx, s, 0, true)

	d := e.Step(ctx, s, 3000, true)
	require.True(t, d.Changed)
	require.Equal(t, 7, d.SecondsLeft)

	// Same second: no redraw.
	d = e.Step(ctx, s, 3400, true)
	require.True(t, d.Armed)
	require.False(t, d.Changed)

	// Next second: one redraw.
	d = e.Step(ctx, s, 4000, true)
	require.True(t, d.Changed)
	require.Equal(t, 6, d.SecondsLeft)
}

// TestFiresExactlyOnce verifies the terminal action runs once at the
// ten-second threshold and is not repeated by later iterations.
func TestFiresExactlyOnce(t *testing.T) {
	t.Parallel()

	action := &fakeAction{}
	e := New(resetPolicy(t, nil), action)
	s := newHold()
	ctx := context.Background()

	e.Step(ctx, s, 0, true)
	e.Step(ctx, s, 5000, true)

	d := e.Step(ctx, s, 10000, true)
	require.True(t, d.Armed)
	require.Equal(t, 1, action.calls)

	// A failed action leaves the loop running; further iterations must not
	// fire again.
	d = e.Step(ctx, s, 10500, true)
	require.True(t, d.Armed)
	require.Equal(t, 1, action.calls)
}

// TestReleaseCancelsCleanly verifies a release just before the threshold
// triggers nothing and leaves no residual countdown state.
func TestReleaseCancelsCleanly(t *testing.T) {
	t.Parallel()

	action := &fakeAction{}
	e := New(resetPolicy(t, nil), action)
	s := newHold()
	ctx := context.Background()

	e.Step(ctx, s, 0, true)
	e.Step(ctx, s, 9999, true)

	d := e.Step(ctx, s, 9999, false)
	require.False(t, d.Armed)
	require.True(t, d.Changed, "cancelling a shown countdown redraws once")
	require.Zero(t, action.calls)
	require.False(t, s.Holding)
	require.Equal(t, int8(-1), s.ShownSecond)

	// Idle iterations afterwards touch nothing.
	d = e.Step(ctx, s, 12000, false)
	require.False(t, d.Changed)

	// A fresh hold starts the window from scratch.
	e.Step(ctx, s, 20000, true)
	d = e.Step(ctx, s, 21000, true)
	require.False(t, d.Armed)
	require.Zero(t, action.calls)
}

// TestReleaseBeforeCountdownIsSilent verifies a short tap produces no redraw.
func TestReleaseBeforeCountdownIsSilent(t *testing.T) {
	t.Parallel()

	e := New(resetPolicy(t, nil), &fakeAction{})
	s := newHold()
	ctx := context.Background()

	e.Step(ctx, s, 0, true)

	d := e.Step(ctx, s, 500, false)
	require.False(t, d.Armed)
	require.False(t, d.Changed)
}

// TestDisabledWhenDualRoleClaimsLine verifies the watchdog no-ops once the
// dual-purpose button owns the shared input.
func TestDisabledWhenDualRoleClaimsLine(t *testing.T) {
	t.Parallel()

	action := &fakeAction{}
	p := resetPolicy(t, func(c *config.Config) {
		c.Secondary.Enabled = true
		c.Screen.DualButtonRole = "shows_secondary"
	})
	require.False(t, p.FactoryResetEnabled)

	e := New(p, action)
	s := newHold()
	ctx := context.Background()

	e.Step(ctx, s, 0, true)
	d := e.Step(ctx, s, 15000, true)
	require.False(t, d.Armed)
	require.Zero(t, action.calls)
	require.False(t, s.Holding)
}
