//go:build linux

package driver

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/sys/unix"
)

// CPUTimeWatcher backs the driver's CancelCheck hook (spec §5's
// "CPU-time-exceeded signal ... driver checks it between trees") with
// SIGXCPU, the signal the kernel raises when RLIMIT_CPU is reached.
type CPUTimeWatcher struct {
	triggered atomic.Bool
	sigCh     chan os.Signal
}

// NewCPUTimeWatcher installs a SIGXCPU handler. Stop removes it.
func NewCPUTimeWatcher() *CPUTimeWatcher {
	w := &CPUTimeWatcher{sigCh: make(chan os.Signal, 1)}
	signal.Notify(w.sigCh, syscall.SIGXCPU)
	go func() {
		for range w.sigCh {
			w.triggered.Store(true)
		}
	}()
	return w
}

// CancelCheck reports whether SIGXCPU has fired since construction.
func (w *CPUTimeWatcher) CancelCheck() bool { return w.triggered.Load() }

// Stop removes the signal handler.
func (w *CPUTimeWatcher) Stop() {
	signal.Stop(w.sigCh)
	close(w.sigCh)
}

// CPULimitSeconds reports the process's current RLIMIT_CPU soft limit,
// for startup diagnostics; 0 means unlimited.
func CPULimitSeconds() (uint64, error) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_CPU, &rlim); err != nil {
		return 0, err
	}
	return rlim.Cur, nil
}
