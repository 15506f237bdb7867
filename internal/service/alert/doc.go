// Package alert implements the threshold alert engine: trigger evaluation
// against the latest acquired value, the four blink timing patterns, the
// optional duration cutoff, and the polarity-corrected indicator output.
//
// The engine writes the indicator only on level transitions and latches a
// single cleanup write when an alert ends, so idle loop iterations touch
// no hardware.
package alert
