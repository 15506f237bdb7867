// Package ticker contains the core domain types for the display device.
//
// It defines the per-engine state structs (Acquisition, ScreenView, Alert,
// ResetHold) together with the policy enums that govern them. Each state
// struct is owned by exactly one engine and threaded through its Step
// function by the control loop; the types here carry no behavior beyond
// small helpers so the engines stay testable without hardware.
package ticker
