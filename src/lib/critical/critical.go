// Package critical provides the EnterCritical/LeaveCritical masking
// primitive the scheduler's selector runs under. On real hardware this
// masks the interrupt controller (see upbeat.MaskDAIF/UnmaskDAIF in the
// bare-metal original); on a hosted single process there is no IRQ line
// to mask, so a plain mutex gives the same "nothing else touches the
// task table while the selector runs" guarantee.
package critical

import "sync"

// Section guards one critical region. It is not reentrant: a goroutine
// that calls EnterCritical twice without an intervening LeaveCritical
// deadlocks: critical sections are assumed to never nest.
type Section struct {
	mu sync.Mutex
}

// EnterCritical acquires the section. level mirrors an interrupt-priority
// argument on real hardware; a hosted mutex has no notion of priority,
// so the value is accepted but unused.
func (s *Section) EnterCritical(level int) {
	s.mu.Lock()
}

func (s *Section) LeaveCritical() {
	s.mu.Unlock()
}
