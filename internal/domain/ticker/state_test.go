package ticker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScreenString verifies the names used in logs and telemetry.
func TestScreenString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "primary", ScreenPrimary.String())
	require.Equal(t, "secondary", ScreenSecondary.String())
}

// TestAcquisitionConnected verifies the connectivity predicate.
func TestAcquisitionConnected(t *testing.T) {
	t.Parallel()

	a := &Acquisition{}
	require.False(t, a.Connected())

	a.HasValue = true
	require.True(t, a.Connected())

	a.ConsecutiveFailures = 1
	require.False(t, a.Connected())
}
