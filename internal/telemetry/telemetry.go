// Package telemetry publishes device status snapshots over MQTT.
//
// Publishing is optional and best-effort: the control loop never blocks on
// the broker, and a failed publish is logged and dropped. Status messages
// are retained so a dashboard sees the latest state immediately after
// subscribing.
package telemetry

import "time"

// Status is one published device snapshot.
type Status struct {
	// Timestamp is the wall-clock time of the snapshot.
	Timestamp time.Time `json:"timestamp"`
	// Event names what produced the snapshot: startup, heartbeat,
	// alert_on, alert_off, shutdown.
	Event string `json:"event"`
	// Value is the last acquired price, when available.
	Value float64 `json:"value,omitempty"`
	// HasValue reports whether Value is meaningful.
	HasValue bool `json:"has_value"`
	// Provider names the active data source.
	Provider string `json:"provider,omitempty"`
	// Stale marks the value as old.
	Stale bool `json:"stale"`
	// ConsecutiveFailures counts polls where every provider failed.
	ConsecutiveFailures uint32 `json:"consecutive_failures"`
	// Screen names the currently visible screen.
	Screen string `json:"screen"`
	// AlertActive reports whether an alert is blinking.
	AlertActive bool `json:"alert_active"`
}

// Publisher sends status snapshots to whoever is listening.
type Publisher interface {
	// PublishStatus sends one snapshot. Implementations must not block
	// the caller beyond a short bound.
	PublishStatus(s Status) error

	// Close releases the connection.
	Close()
}

// Nop is a Publisher that drops everything, used when telemetry is disabled.
type Nop struct{}

// PublishStatus drops the snapshot.
func (Nop) PublishStatus(Status) error {
	return nil
}

// Close does nothing.
func (Nop) Close() {}
