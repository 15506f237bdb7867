//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealDevice drives actual hardware through the Linux GPIO character device.
type RealDevice struct {
	chip      *gpiocdev.Chip
	cycle     *gpiocdev.Line
	dual      *gpiocdev.Line
	indicator *gpiocdev.Line
}

// NewRealDevice requests the configured lines on the named chip.
// Button lines are inputs with pull-down, so an idle line reads inactive.
func NewRealDevice(chipName string, cyclePin, dualPin, indicatorPin int) (*RealDevice, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	cycle, err := chip.RequestLine(cyclePin, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request cycle pin %d: %w", cyclePin, err)
	}

	dual, err := chip.RequestLine(dualPin, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		cycle.Close()
		chip.Close()

		return nil, fmt.Errorf("request dual pin %d: %w", dualPin, err)
	}

	indicator, err := chip.RequestLine(indicatorPin, gpiocdev.AsOutput(0))
	if err != nil {
		dual.Close()
		cycle.Close()
		chip.Close()

		return nil, fmt.Errorf("request indicator pin %d: %w", indicatorPin, err)
	}

	return &RealDevice{
		chip:      chip,
		cycle:     cycle,
		dual:      dual,
		indicator: indicator,
	}, nil
}

// ReadButtons returns the raw active levels of both button lines.
func (d *RealDevice) ReadButtons() (bool, bool, error) {
	cycleRaw, err := d.cycle.Value()
	if err != nil {
		return false, false, fmt.Errorf("read cycle pin: %w", err)
	}

	dualRaw, err := d.dual.Value()
	if err != nil {
		return false, false, fmt.Errorf("read dual pin: %w", err)
	}

	return cycleRaw != 0, dualRaw != 0, nil
}

// SetIndicator drives the indicator line to the given physical level.
func (d *RealDevice) SetIndicator(on bool) error {
	level := 0
	if on {
		level = 1
	}

	if err := d.indicator.SetValue(level); err != nil {
		return fmt.Errorf("set indicator: %w", err)
	}

	return nil
}

// Close releases every requested line and the chip.
// Button lines are reconfigured to input with pull-down first so external
// wiring sees board boot defaults across a restart.
func (d *RealDevice) Close() error {
	var errs []error

	for _, line := range []*gpiocdev.Line{d.cycle, d.dual} {
		if line == nil {
			continue
		}

		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin: %w", err))
		}

		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin: %w", err))
		}
	}

	if d.indicator != nil {
		if err := d.indicator.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close indicator: %w", err))
		}
	}

	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}

	return nil
}
