package factoryreset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/oshokin/ticker-display/internal/service/power"
)

// WipeAction removes the persisted configuration file and restarts the
// process, which then boots on factory defaults.
type WipeAction struct {
	// configPath is the settings file to remove.
	configPath string
}

// NewWipeAction creates the real factory-reset action for the given
// settings file.
func NewWipeAction(configPath string) *WipeAction {
	return &WipeAction{configPath: configPath}
}

// Execute wipes the settings file and restarts the binary. A missing file
// is fine: the wipe already happened. On success this never returns.
func (a *WipeAction) Execute(context.Context) error {
	if err := os.Remove(a.configPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove settings: %w", err)
	}

	return power.Restart()
}
