package sched

import "sync"

// The original exposes CScheduler::Get(), a process-wide singleton ISR
// code reaches for without being handed a pointer. Current/SetCurrent
// are the Go equivalent for callers (an IRQ-style handler, a demo's
// package-level helpers) that cannot thread a *Scheduler parameter
// through; everything else in this package takes one explicitly and
// should keep doing so.
var (
	globalMu  sync.RWMutex
	globalRef *Scheduler
)

// SetCurrent installs s as the process-wide scheduler. Call once during
// startup, before any code relies on Current.
func SetCurrent(s *Scheduler) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalRef = s
}

// Current returns the process-wide scheduler, or nil if SetCurrent was
// never called.
func Current() *Scheduler {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalRef
}
