package sched

import (
	"fmt"
	"io"
)

// ListTasks writes a human-readable snapshot of the task table to w, one
// row per occupied slot, a diagnostic console dump: index, a pointer-derived pseudo-address, the state label (or
// "run" for whichever task is current), a two-character flag column
// (suspended, timed-wait), and the task's name.
func (s *Scheduler) ListTasks(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "#  ADDR     STAT  FL NAME\n"); err != nil {
		return err
	}
	for i := 0; i < s.nTasks; i++ {
		t := s.tasks[i]
		if t == nil {
			continue
		}

		label := t.state.listingLabel()
		if t == s.current {
			label = "run"
		}

		suspendFlag := byte(' ')
		if t.suspended {
			suspendFlag = 'S'
		}
		timeoutFlag := byte(' ')
		if t.state == BlockedWithTimeout {
			timeoutFlag = 'T'
		}

		addr := taskPseudoAddress(t)

		if _, err := fmt.Fprintf(w, "%02d %08X %-5s %c%c %s\n",
			i, addr, label, suspendFlag, timeoutFlag, t.name); err != nil {
			return err
		}
	}
	return nil
}

// taskPseudoAddress derives a stable, address-shaped number from a task
// for display purposes only; it is never compared against or relied on
// for identity, since uuid.UUID is the real identity key — a reused
// table slot must never be confused with the task that previously
// occupied it.
func taskPseudoAddress(t *Task) uint32 {
	hi := t.id[0:4]
	return uint32(hi[0])<<24 | uint32(hi[1])<<16 | uint32(hi[2])<<8 | uint32(hi[3])
}
