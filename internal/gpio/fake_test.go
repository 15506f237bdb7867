package gpio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errFakeRead = errors.New("fake read failure")

// TestFakeDevice verifies the scripted device behaves like the contract.
func TestFakeDevice(t *testing.T) {
	t.Parallel()

	d := &FakeDevice{CycleLevel: true}

	cycle, dual, err := d.ReadButtons()
	require.NoError(t, err)
	require.True(t, cycle)
	require.False(t, dual)

	require.NoError(t, d.SetIndicator(true))
	require.True(t, d.IndicatorLevel)
	require.Equal(t, 1, d.IndicatorWrites)

	d.ReadErr = errFakeRead
	_, _, err = d.ReadButtons()
	require.ErrorIs(t, err, errFakeRead)

	require.NoError(t, d.Close())
	require.True(t, d.Closed)
}
