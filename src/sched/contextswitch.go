package sched

import "github.com/circleos/joysched/src/lib/trust"

// Yield performs a voluntary context switch without changing the
// caller's own state. It is the primitive usSleep, BlockTask, and any
// syscall that transitively blocks all build on.
func (s *Scheduler) Yield() {
	from := s.current

	next, ok := s.GetNextTask()
	if !ok {
		trust.Fatalf(source, "no runnable task selected during voluntary yield with %d tasks registered", s.nTasks)
	}

	s.current = next
	s.currentIndex = s.indexOf(next)

	if s.taskSwitchHandler != nil {
		s.taskSwitchHandler(next)
	}

	s.handoff(from, next)
}

// handoff transfers execution from one task's goroutine to another's by
// passing a single-use baton over each task's resumeCh. Exactly one side
// of the handoff is ever runnable at a time, which is what stands in for
// "only one task's register context is live on the CPU" on a hosted
// target that cannot literally swap a CPU's registers.
func (s *Scheduler) handoff(from, to *Task) {
	if from == to {
		return
	}
	to.resumeCh <- struct{}{}
	<-from.resumeCh
}

// UsSleep puts the current task to sleep for the given number of
// microseconds. A zero duration is a no-op.
func (s *Scheduler) UsSleep(microseconds uint64) {
	if microseconds == 0 {
		return
	}
	cur := s.current
	ticks := microseconds * s.clock.TicksPerMicrosecond()
	cur.wakeTicks = s.clock.Now() + ticks
	cur.state = Sleeping
	s.Yield()
}

func (s *Scheduler) MsSleep(milliseconds uint64) {
	if milliseconds > 0 {
		s.UsSleep(milliseconds * 1000)
	}
}

// Sleep sleeps for the given number of seconds, chunking long intervals
// at cfg.MaxSleepChunkSeconds to keep the microsecond*tick-rate product
// from overflowing a signed tick delta.
func (s *Scheduler) Sleep(seconds uint64) {
	maxChunk := s.cfg.MaxSleepChunkSeconds
	for seconds > maxChunk {
		s.UsSleep(maxChunk * 1_000_000)
		seconds -= maxChunk
	}
	s.UsSleep(seconds * 1_000_000)
}

// BlockTask adds the current task to the wait list behind listRef,
// blocking it (untimed, if microseconds is 0, else with a deadline), and
// yields. It returns true iff woken by WakeTasks before any deadline
// elapsed, false iff the deadline elapsed first — the wakeTicks==0
// sentinel a timeout-firing selector leaves behind.
func (s *Scheduler) BlockTask(list *WaitList, microseconds uint64) bool {
	cur := s.current

	s.waitListLock.Lock()
	list.push(cur)
	if microseconds == 0 {
		// No deadline, so there is no timeout path to race against:
		// wakeTicks must read non-zero on return so the sentinel check
		// below reports "signalled" rather than misreading the field's
		// zero value left over from construction as "timed out".
		cur.wakeTicks = 1
		cur.state = Blocked
	} else {
		ticks := microseconds * s.clock.TicksPerMicrosecond()
		cur.wakeTicks = s.clock.Now() + ticks
		cur.state = BlockedWithTimeout
	}
	s.waitListLock.Unlock()

	s.Yield()

	s.waitListLock.Lock()
	// Defensive: present only if a timeout fired and no signaller got to
	// it first; otherwise WakeTasks already detached the whole list and
	// this is a no-op.
	list.remove(cur)
	cur.waitListNext = nil
	s.waitListLock.Unlock()

	return cur.wakeTicks != 0
}

// WakeTasks broadcasts: every task on list transitions blocked -> Ready
// and is unlinked. wakeTicks is left untouched, so a task that actually
// timed out before this call is still distinguishable at its BlockTask
// call site from one signalled here.
func (s *Scheduler) WakeTasks(list *WaitList) {
	s.waitListLock.Lock()
	defer s.waitListLock.Unlock()

	t := list.detachAll()
	for t != nil {
		if t.state != Blocked && t.state != BlockedWithTimeout {
			trust.Fatalf(source, "tried to wake non-blocked task %s (state %v)", t.name, t.state)
		}
		next := t.waitListNext
		t.state = Ready
		t.waitListNext = nil
		t = next
	}
}
