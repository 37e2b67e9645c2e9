// Command schedpi is a small demo that wires a wall-clock Scheduler
// together with a handful of cooperating and preempted tasks, and
// dumps the task table to stdout once the run ends.
package main

import (
	"os"
	"time"

	"github.com/circleos/joysched/src/lib/trust"
	"github.com/circleos/joysched/src/sched"
)

func main() {
	clock := sched.NewWallClock(1, time.Millisecond)
	defer clock.Close()

	cfg := sched.DefaultConfig()
	cfg.SliceQuantumTicks = 5000 // ~5ms slices at 1 tick/us

	s := sched.NewScheduler(clock, cfg)
	sched.SetCurrent(s)

	s.RegisterTaskSwitchHandler(func(t *sched.Task) {
		trust.Debugf("switched to %s", t.Name())
	})
	s.RegisterTaskTerminationHandler(func(t *sched.Task) {
		trust.Infof("task %s terminated", t.Name())
	})

	var mailbox sched.WaitList

	s.AddTask(sched.NewTask("producer", func(t *sched.Task) {
		for i := 0; i < 3; i++ {
			trust.Infof("producer: tick %d", i)
			s.MsSleep(20)
			s.WakeTasks(&mailbox)
		}
	}))

	s.AddTask(sched.NewTask("consumer", func(t *sched.Task) {
		for i := 0; i < 3; i++ {
			if woken := s.BlockTask(&mailbox, 100_000); !woken {
				trust.Warnf("consumer: timed out waiting for producer")
				continue
			}
			trust.Infof("consumer: received tick %d", i)
		}
	}))

	s.EnablePreemptiveMultitasking()

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		s.PollPreemption()
		time.Sleep(time.Millisecond)
	}

	if err := s.ListTasks(os.Stdout); err != nil {
		trust.Errorf("listing tasks: %v", err)
	}
}
