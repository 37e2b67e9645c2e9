package sched

import "github.com/circleos/joysched/src/lib/trust"

// EnablePreemptiveMultitasking registers a periodic handler with the
// clock source. The handler compares the current tick to the tick of
// the last switch; once the delta meets the slice quantum, it raises
// the should-context-switch flag ContextSwitchOnIrqReturn clears.
func (s *Scheduler) EnablePreemptiveMultitasking() {
	s.preempt.mu.Lock()
	s.preempt.lastSwitchTick = s.clock.Now()
	s.preempt.mu.Unlock()
	s.clock.RegisterPeriodicHandler(s.onTimerTick)
}

func (s *Scheduler) onTimerTick() {
	now := s.clock.Now()
	s.preempt.mu.Lock()
	if now-s.preempt.lastSwitchTick >= s.cfg.SliceQuantumTicks {
		s.preempt.shouldSwitch = true
		s.preempt.lastSwitchTick = now
	}
	s.preempt.mu.Unlock()
	trust.Statsf("preempt", "tick=%d should_switch=%v", now, s.preempt.shouldSwitch)
}

// ContextSwitchOnIrqReturn is the preemptive context-switch routine: the
// IRQ stub calls it with a pointer to the register frame it just saved
// on entry. frame's layout must be bit-identical to the frame type a
// task stores in Task.regs, since this performs an in-place swap rather
// than a translating copy.
//
// It clears the should-switch flag, idle-spins GetNextTask until a task
// is selectable (the next timer tick re-enters if every task is
// currently blocked or sleeping), returns immediately if the selected
// task is already current, and otherwise captures the outgoing task's
// interrupted state into its own storage and overwrites frame with the
// incoming task's saved state so the IRQ epilogue resumes into it.
func (s *Scheduler) ContextSwitchOnIrqReturn(frame *RegisterFrame) {
	s.preempt.mu.Lock()
	s.preempt.shouldSwitch = false
	s.preempt.mu.Unlock()

	var next *Task
	for {
		t, ok := s.GetNextTask()
		if ok {
			next = t
			break
		}
		if s.nTasks == 0 {
			trust.Fatalf(source, "no tasks registered during preemptive context switch")
		}
	}

	if next == s.current {
		return
	}

	outgoing := s.current
	outgoing.regs = *frame

	s.current = next
	s.currentIndex = s.indexOf(next)

	if s.taskSwitchHandler != nil {
		s.taskSwitchHandler(next)
	}

	*frame = next.regs
}

// PollPreemption is the hosted stand-in for "any instruction may be
// preempted": since a Go goroutine cannot be stopped mid-instruction
// from outside without cooperation, task code (or a watchdog loop) calls
// this at a checkpoint, and if the timer has raised the should-switch
// flag, control actually hands off to whichever task GetNextTask
// selects. ContextSwitchOnIrqReturn itself stays a pure, directly
// testable data transform; this wraps it with the goroutine baton needed
// to make the switch real.
func (s *Scheduler) PollPreemption() {
	s.preempt.mu.Lock()
	should := s.preempt.shouldSwitch
	s.preempt.mu.Unlock()
	if !should {
		return
	}

	from := s.current
	frame := from.regs
	s.ContextSwitchOnIrqReturn(&frame)
	if s.current != from {
		s.handoff(from, s.current)
	}
}
