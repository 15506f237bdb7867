package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the device settings as stored on disk.
type Config struct {
	// LogLevel is the minimum level for console logging.
	LogLevel string `yaml:"log_level"`
	// Provider selects the preferred data source: "auto" or a provider name.
	Provider string `yaml:"provider"`
	// ProviderExclusive disables fallback so only the preferred provider is attempted.
	ProviderExclusive bool `yaml:"provider_exclusive"`
	// PollInterval is the minimum time between acquisition attempts.
	PollInterval time.Duration `yaml:"poll_interval"`
	// AttemptTimeout bounds a single provider fetch.
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
	// IdleReset returns the provider preference to the preferred one after
	// this long without a success. Zero disables the knob.
	IdleReset time.Duration `yaml:"idle_reset"`
	// Symbol is the asset whose price is acquired.
	Symbol string `yaml:"symbol"`
	// Fiat is the quote currency.
	Fiat string `yaml:"fiat"`
	// Secondary configures the optional secondary screen and its data.
	Secondary SecondaryConfig `yaml:"secondary"`
	// Screen configures screen switching policies.
	Screen ScreenConfig `yaml:"screen"`
	// Alert configures threshold alerts.
	Alert AlertConfig `yaml:"alert"`
	// Pins configures the GPIO wiring.
	Pins PinConfig `yaml:"pins"`
	// FactoryResetEnabled arms the hold-to-wipe watchdog on the shared input.
	FactoryResetEnabled bool `yaml:"factory_reset_enabled"`
	// Telemetry configures the optional MQTT status publisher.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SecondaryConfig describes the secondary (weather) screen feature.
type SecondaryConfig struct {
	// Enabled gates the secondary screen entirely.
	Enabled bool `yaml:"enabled"`
	// Latitude of the weather location.
	Latitude float64 `yaml:"latitude"`
	// Longitude of the weather location.
	Longitude float64 `yaml:"longitude"`
	// PollInterval is the minimum time between metric fetches.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// ScreenConfig describes screen switching behavior.
type ScreenConfig struct {
	// ButtonMode is one of: auto_cycle, always_secondary, on_demand, manual.
	ButtonMode string `yaml:"button_mode"`
	// PrimaryDuration is the primary screen's visible window in auto-cycle mode.
	PrimaryDuration time.Duration `yaml:"primary_duration"`
	// SecondaryDuration is the secondary screen's visible window.
	SecondaryDuration time.Duration `yaml:"secondary_duration"`
	// DualButtonRole is one of: none, shows_secondary, shows_primary.
	DualButtonRole string `yaml:"dual_button_role"`
	// DualButtonTimeout delays the revert after the dual button is released.
	// Zero reverts instantly.
	DualButtonTimeout time.Duration `yaml:"dual_button_timeout"`
	// Flipped rotates the display 180 degrees.
	Flipped bool `yaml:"flipped"`
}

// AlertConfig describes threshold alert behavior.
type AlertConfig struct {
	// Low triggers when the value drops below it. Zero disables.
	Low float64 `yaml:"low"`
	// High triggers when the value rises above it. Zero disables.
	High float64 `yaml:"high"`
	// LowPattern is the blink profile for low breaches: slow, fast, strobe, sos.
	LowPattern string `yaml:"low_pattern"`
	// HighPattern is the blink profile for high breaches.
	HighPattern string `yaml:"high_pattern"`
	// Mode selects the driven outputs: display, indicator, both.
	Mode string `yaml:"mode"`
	// Duration stops blinking after this long of continuous alert.
	// Zero blinks until the condition clears.
	Duration time.Duration `yaml:"duration"`
	// IndicatorActiveLow inverts the indicator's physical level.
	IndicatorActiveLow bool `yaml:"indicator_active_low"`
}

// PinConfig describes the GPIO wiring (BCM numbering).
type PinConfig struct {
	// Chip is the GPIO character device name.
	Chip string `yaml:"chip"`
	// CycleButton is the short-press screen cycling input.
	CycleButton int `yaml:"cycle_button"`
	// DualButton is the shared factory-reset / dual-purpose input.
	DualButton int `yaml:"dual_button"`
	// Indicator is the alert LED output.
	Indicator int `yaml:"indicator"`
}

// TelemetryConfig describes the optional MQTT status publisher.
type TelemetryConfig struct {
	// Broker is the MQTT broker address. Empty disables telemetry.
	Broker string `yaml:"broker"`
	// Topic is the status topic.
	Topic string `yaml:"topic"`
	// Heartbeat is the interval between periodic status publishes.
	Heartbeat time.Duration `yaml:"heartbeat"`
}

const (
	// DefaultConfigFilename is the default filename for device settings.
	DefaultConfigFilename = "ticker-display.yaml"

	// DefaultPollInterval is the default time between acquisition attempts.
	DefaultPollInterval = 90 * time.Second

	// DefaultAttemptTimeout is the default bound on a single provider fetch.
	DefaultAttemptTimeout = 5 * time.Second

	// DefaultMetricsInterval is the default time between weather fetches.
	DefaultMetricsInterval = 10 * time.Minute

	// DefaultPrimaryDuration is the default primary screen window.
	DefaultPrimaryDuration = 2 * time.Minute

	// DefaultSecondaryDuration is the default secondary screen window.
	DefaultSecondaryDuration = 10 * time.Second

	// DefaultTelemetryTopic is the default MQTT status topic.
	DefaultTelemetryTopic = "ticker-display/status"

	// DefaultTelemetryHeartbeat is the default interval between status publishes.
	DefaultTelemetryHeartbeat = 15 * time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errThresholdsInverted is returned when both thresholds are set and low is above high.
	errThresholdsInverted = errors.New("low threshold must be below high threshold")
	// errNegativeThreshold is returned when a threshold is below zero.
	errNegativeThreshold = errors.New("thresholds must not be negative")
)

// Default returns a configuration with every knob at its default value.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		Provider:     "auto",
		PollInterval: DefaultPollInterval,
		Symbol:       "BTC",
		Fiat:         "USD",
		Secondary: SecondaryConfig{
			PollInterval: DefaultMetricsInterval,
		},
		Screen: ScreenConfig{
			ButtonMode:        "auto_cycle",
			PrimaryDuration:   DefaultPrimaryDuration,
			SecondaryDuration: DefaultSecondaryDuration,
			DualButtonRole:    "none",
		},
		Alert: AlertConfig{
			LowPattern:  "slow",
			HighPattern: "fast",
			Mode:        "both",
		},
		Pins: PinConfig{
			Chip:        "gpiochip0",
			CycleButton: 16,
			DualButton:  26,
			Indicator:   21,
		},
		FactoryResetEnabled: true,
		Telemetry: TelemetryConfig{
			Topic:     DefaultTelemetryTopic,
			Heartbeat: DefaultTelemetryHeartbeat,
		},
	}
}

// Load reads configuration from the provided path and validates essential fields.
// A missing path falls back to the default filename.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for consistent values and fills defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = DefaultAttemptTimeout
	}

	if cfg.Secondary.PollInterval <= 0 {
		cfg.Secondary.PollInterval = DefaultMetricsInterval
	}

	if cfg.Screen.PrimaryDuration <= 0 {
		cfg.Screen.PrimaryDuration = DefaultPrimaryDuration
	}

	if cfg.Screen.SecondaryDuration <= 0 {
		cfg.Screen.SecondaryDuration = DefaultSecondaryDuration
	}

	if cfg.Alert.Low < 0 || cfg.Alert.High < 0 {
		return errNegativeThreshold
	}

	if cfg.Alert.Low > 0 && cfg.Alert.High > 0 && cfg.Alert.Low >= cfg.Alert.High {
		return errThresholdsInverted
	}

	if cfg.Telemetry.Topic == "" {
		cfg.Telemetry.Topic = DefaultTelemetryTopic
	}

	if cfg.Telemetry.Heartbeat <= 0 {
		cfg.Telemetry.Heartbeat = DefaultTelemetryHeartbeat
	}

	return nil
}
