// Package config defines the device settings and provides helpers to load,
// validate and save them in YAML format.
//
// Config mirrors the on-disk YAML. Normalize converts a validated Config into
// a canonical Policy: a self-consistent, millisecond-resolution snapshot of
// every knob the engines consume. All mutually-exclusive flag resolution
// (dual-purpose button roles forcing manual mode, the secondary feature
// gating screen policies) happens exactly once, here.
package config
