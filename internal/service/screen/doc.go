// Package screen implements the screen coordinator: which logical screen is
// visible, the four mutually exclusive button-mode policies, the
// dual-purpose button edge handling, and the short-press cycle detector.
//
// Transitions are level-based with explicit latches so a render happens only
// when the visible screen actually changes, never on every poll of an input.
package screen
