// Package device runs the cooperative control loop that owns every engine
// state: one iteration reads the clock and button levels, lets each engine
// step, then applies the render arbitration (watchdog over alert over
// screen). Nothing in the loop blocks beyond the bounded provider attempts
// inside the acquisition step.
package device
