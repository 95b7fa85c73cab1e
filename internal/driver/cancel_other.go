//go:build !linux

package driver

import "time"

// CPUTimeWatcher is the non-Linux fallback: no RLIMIT_CPU/SIGXCPU
// exists, so cancellation degrades to a wall-clock deadline, explicitly
// (spec §5 names this the documented degraded path, not silent
// no-cancellation).
type CPUTimeWatcher struct {
	deadline time.Time
}

// NewCPUTimeWatcher returns a watcher that never cancels; use
// NewCPUTimeWatcherWithDeadline for the wall-clock fallback.
func NewCPUTimeWatcher() *CPUTimeWatcher { return &CPUTimeWatcher{} }

// NewCPUTimeWatcherWithDeadline cancels once d has elapsed.
func NewCPUTimeWatcherWithDeadline(d time.Duration) *CPUTimeWatcher {
	return &CPUTimeWatcher{deadline: time.Now().Add(d)}
}

// CancelCheck reports whether the configured deadline has passed.
func (w *CPUTimeWatcher) CancelCheck() bool {
	if w.deadline.IsZero() {
		return false
	}
	return time.Now().After(w.deadline)
}

// Stop is a no-op on this platform.
func (w *CPUTimeWatcher) Stop() {}

// CPULimitSeconds always reports unlimited on this platform.
func CPULimitSeconds() (uint64, error) { return 0, nil }
