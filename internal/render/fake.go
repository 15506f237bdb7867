package render

// Call names a recorded renderer invocation.
type Call string

// Recorded renderer invocations.
const (
	CallPrimary   Call = "primary"
	CallSecondary Call = "secondary"
	CallCountdown Call = "countdown"
	CallClear     Call = "clear"
)

// Fake records every render call for assertions in engine and loop tests.
type Fake struct {
	// Calls lists invocations in order.
	Calls []Call
	// LastPrimary is the most recent primary view.
	LastPrimary PrimaryView
	// LastSecondary is the most recent secondary view.
	LastSecondary SecondaryView
	// LastCountdown is the most recent countdown value.
	LastCountdown int
	// Flipped mirrors the orientation knob.
	Flipped bool
}

// RenderPrimary records the call.
func (f *Fake) RenderPrimary(view PrimaryView) error {
	f.Calls = append(f.Calls, CallPrimary)
	f.LastPrimary = view

	return nil
}

// RenderSecondary records the call.
func (f *Fake) RenderSecondary(view SecondaryView) error {
	f.Calls = append(f.Calls, CallSecondary)
	f.LastSecondary = view

	return nil
}

// RenderCountdown records the call.
func (f *Fake) RenderCountdown(secondsLeft int) error {
	f.Calls = append(f.Calls, CallCountdown)
	f.LastCountdown = secondsLeft

	return nil
}

// Clear records the call.
func (f *Fake) Clear() error {
	f.Calls = append(f.Calls, CallClear)

	return nil
}

// SetOrientation records the orientation knob.
func (f *Fake) SetOrientation(flipped bool) {
	f.Flipped = flipped
}

// CountOf returns how many times the named call was recorded.
func (f *Fake) CountOf(c Call) int {
	n := 0

	for _, got := range f.Calls {
		if got == c {
			n++
		}
	}

	return n
}
