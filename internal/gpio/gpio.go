// Package gpio provides the device's digital inputs and the indicator
// output behind a hardware abstraction.
//
// The real implementation uses the Linux GPIO character device via
// go-gpiocdev; the fake implementation scripts input levels for tests
// without hardware.
package gpio

// Device exposes the raw button levels and the indicator line.
// Debouncing is performed by the consuming engines, not here.
type Device interface {
	// ReadButtons returns the raw active levels of the cycle input and
	// the shared dual-purpose/factory-reset input.
	ReadButtons() (cycle, dual bool, err error)

	// SetIndicator drives the indicator line to the given physical level.
	// Polarity is already resolved by the caller.
	SetIndicator(on bool) error

	// Close releases GPIO resources.
	Close() error
}
