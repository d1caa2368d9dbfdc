// Package monitoring defines the error tracker used to report failed
// analysis runs.
package monitoring

import "time"

// Monitor reports errors and panics to an external tracker.
type Monitor interface {
	// CaptureError records err with optional tags such as the run id.
	CaptureError(err error, tags map[string]string)
	// Recover reports a panic and re-panics. It must be deferred directly.
	Recover()
	// Flush waits up to timeout for buffered reports to be sent.
	Flush(timeout time.Duration) bool
}

// NopMonitor drops everything.
type NopMonitor struct{}

func (NopMonitor) CaptureError(error, map[string]string) {}
func (NopMonitor) Recover()                              {}
func (NopMonitor) Flush(time.Duration) bool              { return true }
