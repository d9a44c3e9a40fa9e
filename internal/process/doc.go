// Package process supervises long-running background tasks.
//
// The acquisition loop and the live-query accept loop run as supervised
// tasks rather than detached goroutines: each has an explicit start and
// stop, failures are logged, and a crashed task is restarted within a
// configurable budget.
package process
