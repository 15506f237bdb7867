// Package acquire implements the acquisition engine: interval-gated polling
// of the provider ring, cached-value retention across failures, and the
// staleness escalation that keeps transient provider errors from flickering
// the display.
package acquire
