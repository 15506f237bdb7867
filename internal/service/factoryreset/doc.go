// Package factoryreset implements the hold-to-wipe watchdog on the shared
// input: a countdown between two and ten seconds of hold, a terminal
// wipe-and-restart action at ten, and full cancellation on release.
package factoryreset
