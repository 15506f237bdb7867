package device

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/oshokin/ticker-display/internal/clock"
	"github.com/oshokin/ticker-display/internal/config"
	"github.com/oshokin/ticker-display/internal/gpio"
	"github.com/oshokin/ticker-display/internal/logger"
	"github.com/oshokin/ticker-display/internal/provider"
	"github.com/oshokin/ticker-display/internal/render"
	"github.com/oshokin/ticker-display/internal/service/acquire"
	"github.com/oshokin/ticker-display/internal/service/alert"
	"github.com/oshokin/ticker-display/internal/service/factoryreset"
	"github.com/oshokin/ticker-display/internal/service/screen"
	"github.com/oshokin/ticker-display/internal/telemetry"
)

// Options controls the ticker-display process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// LogLevel provides an optional log level override.
	LogLevel string
	// ConsoleOnly forces the console renderer and the fake GPIO device,
	// for development off the target board.
	ConsoleOnly bool
}

// Run builds the control loop from configuration and blocks until the
// context is cancelled. A missing settings file is not an error: the device
// boots on factory defaults, the way it comes up right after a reset.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "ticker-display")

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigFilename
	}

	cfg, err := config.Load(configPath)

	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		logger.WarnKV(ctx, "No settings file, using factory defaults", "path", configPath)

		cfg = config.Default()
	default:
		return fmt.Errorf("load settings: %w", err)
	}

	applyLogLevel(cfg.LogLevel, opts.LogLevel)

	policy, err := config.Normalize(cfg)
	if err != nil {
		return fmt.Errorf("normalize settings: %w", err)
	}

	device, err := openDevice(cfg, opts)
	if err != nil {
		return fmt.Errorf("open gpio: %w", err)
	}

	defer func() {
		if err := device.Close(); err != nil {
			logger.ErrorKV(ctx, "GPIO close failed", "error", err)
		}
	}()

	publisher := openPublisher(ctx, cfg)
	defer publisher.Close()

	client := provider.NewHTTPClient()
	ring := provider.Ring(provider.DefaultSet(client, cfg.Symbol, cfg.Fiat), policy.Provider, policy.Exclusive)

	var metrics provider.MetricsProvider
	if policy.SecondaryEnabled {
		metrics = provider.NewOpenMeteo(client, cfg.Secondary.Latitude, cfg.Secondary.Longitude)
	}

	loop := NewLoop(Deps{
		Policy:      policy,
		Clock:       clock.NewSystem(),
		Device:      device,
		Renderer:    render.NewConsole(os.Stdout),
		Publisher:   publisher,
		Acquirer:    acquire.New(ring, metrics, policy),
		Screens:     screen.New(policy),
		Alerts:      alert.New(policy, device),
		Watchdog:    factoryreset.New(policy, factoryreset.NewWipeAction(configPath)),
		HeartbeatMs: uint32(cfg.Telemetry.Heartbeat.Milliseconds()), //nolint:gosec // Config durations are far below the uint32 range.
	})

	return loop.Run(ctx)
}

// applyLogLevel resolves the effective log level: the CLI override wins
// over the settings file.
func applyLogLevel(configured, override string) {
	level := configured
	if override != "" {
		level = override
	}

	if parsed, ok := logger.ParseLogLevel(level); ok {
		logger.SetLevel(parsed)
	}
}

// openDevice opens the configured GPIO lines, or the scripted fake when
// running off-target.
func openDevice(cfg *config.Config, opts *Options) (gpio.Device, error) {
	if opts.ConsoleOnly {
		return &gpio.FakeDevice{}, nil
	}

	return gpio.NewRealDevice(cfg.Pins.Chip, cfg.Pins.CycleButton, cfg.Pins.DualButton, cfg.Pins.Indicator)
}

// openPublisher connects the MQTT publisher when a broker is configured.
// Telemetry is best-effort: a failed connect only disables it.
func openPublisher(ctx context.Context, cfg *config.Config) telemetry.Publisher {
	if cfg.Telemetry.Broker == "" {
		return telemetry.Nop{}
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	publisher, err := telemetry.NewMQTTPublisher(cfg.Telemetry.Broker, "ticker-display-"+hostname, cfg.Telemetry.Topic)
	if err != nil {
		logger.WarnKV(ctx, "Telemetry disabled", "broker", cfg.Telemetry.Broker, "error", err)

		return telemetry.Nop{}
	}

	logger.InfoKV(ctx, "Telemetry enabled", "broker", cfg.Telemetry.Broker, "topic", cfg.Telemetry.Topic)

	return publisher
}
