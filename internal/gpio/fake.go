package gpio

// FakeDevice is a scripted Device for tests. Levels are plain fields so a
// test drives them directly between loop iterations.
type FakeDevice struct {
	// CycleLevel is the raw level returned for the cycle input.
	CycleLevel bool
	// DualLevel is the raw level returned for the dual-purpose input.
	DualLevel bool
	// ReadErr, when set, fails every ReadButtons call.
	ReadErr error
	// IndicatorLevel records the last written indicator level.
	IndicatorLevel bool
	// IndicatorWrites counts SetIndicator calls.
	IndicatorWrites int
	// Closed reports whether Close was called.
	Closed bool
}

// ReadButtons returns the scripted levels.
func (d *FakeDevice) ReadButtons() (bool, bool, error) {
	if d.ReadErr != nil {
		return false, false, d.ReadErr
	}

	return d.CycleLevel, d.DualLevel, nil
}

// SetIndicator records the written level.
func (d *FakeDevice) SetIndicator(on bool) error {
	d.IndicatorLevel = on
	d.IndicatorWrites++

	return nil
}

// Close marks the device closed.
func (d *FakeDevice) Close() error {
	d.Closed = true

	return nil
}
