//go:build !linux

package gpio

import "errors"

// errUnsupportedPlatform is returned on platforms without the GPIO character device.
var errUnsupportedPlatform = errors.New("gpio requires linux")

// NewRealDevice is unavailable off-target; use the fake for development.
func NewRealDevice(string, int, int, int) (Device, error) {
	return nil, errUnsupportedPlatform
}
