package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnTimerTickRaisesShouldSwitchAtQuantum(t *testing.T) {
	clock := NewSoftwareClock(1)
	cfg := DefaultConfig()
	cfg.SliceQuantumTicks = 5
	s := NewScheduler(clock, cfg)
	s.EnablePreemptiveMultitasking()

	clock.Advance(3)
	s.preempt.mu.Lock()
	should := s.preempt.shouldSwitch
	s.preempt.mu.Unlock()
	assert.False(t, should, "quantum not yet reached")

	clock.Advance(2)
	s.preempt.mu.Lock()
	should = s.preempt.shouldSwitch
	s.preempt.mu.Unlock()
	assert.True(t, should, "quantum reached")
}

func TestContextSwitchOnIrqReturnSwapsFrameAndSwitchesCurrent(t *testing.T) {
	s, _ := newTestScheduler(4)
	a := NewTask("a", func(*Task) { select {} })
	s.AddTask(a)

	var switchedTo []string
	s.RegisterTaskSwitchHandler(func(t *Task) { switchedTo = append(switchedTo, t.Name()) })

	main := s.GetCurrentTask()
	frame := RegisterFrame{PC: 0x1000}
	s.ContextSwitchOnIrqReturn(&frame)

	assert.Same(t, a, s.GetCurrentTask())
	assert.Equal(t, []string{"a"}, switchedTo)
	assert.EqualValues(t, 0x1000, main.regs.PC, "outgoing task's interrupted PC was captured")
	assert.Equal(t, RegisterFrame{}, frame, "frame was overwritten with the incoming task's (never-run, zero) saved state")
}

func TestContextSwitchOnIrqReturnNoOpWhenAlreadyCurrent(t *testing.T) {
	s, _ := newTestScheduler(4) // only the bootstrap task exists

	var calls int
	s.RegisterTaskSwitchHandler(func(*Task) { calls++ })

	frame := RegisterFrame{PC: 0xBEEF}
	s.ContextSwitchOnIrqReturn(&frame)

	assert.Equal(t, 0, calls, "selecting the already-current task must not fire the switch handler")
	assert.EqualValues(t, 0xBEEF, frame.PC, "frame must be left untouched on the no-switch path")
}

func TestContextSwitchOnIrqReturnClearsShouldSwitchFlag(t *testing.T) {
	s, _ := newTestScheduler(4)
	s.preempt.shouldSwitch = true

	frame := RegisterFrame{}
	s.ContextSwitchOnIrqReturn(&frame)

	require.False(t, s.preempt.shouldSwitch)
}
