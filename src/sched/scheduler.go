package sched

import (
	"sync"

	"github.com/circleos/joysched/src/lib/critical"
	"github.com/circleos/joysched/src/lib/trust"
)

const source = "sched"

// Scheduler owns the task table and is the sole arbiter of which task's
// register context is live. It is a direct port of CScheduler.
type Scheduler struct {
	cfg   Config
	clock Clock
	crit  critical.Section

	tasks   []*Task
	nTasks  int
	current *Task
	// currentIndex is the index of current within tasks[0:nTasks].
	currentIndex int

	taskSwitchHandler      func(*Task)
	taskTerminationHandler func(*Task)

	suspendNewTasks int

	// waitListLock protects wait-list mutations shared between BlockTask,
	// WakeTasks and the selector's timeout path. It is acquired briefly
	// around each list mutation only, never held across a Yield.
	waitListLock sync.Mutex

	preempt preemptionState
}

type preemptionState struct {
	mu             sync.Mutex
	shouldSwitch   bool
	lastSwitchTick uint64
}

// NewScheduler constructs a scheduler whose current task represents the
// calling goroutine — the "Main" task in the original, constructed
// specially because it is already running and never passes through the
// entry trampoline.
func NewScheduler(clock Clock, cfg Config) *Scheduler {
	if err := cfg.Validate(); err != nil {
		trust.Fatalf(source, "invalid scheduler config: %v", err)
	}
	s := &Scheduler{
		cfg:     cfg,
		clock:   clock,
		tasks:   make([]*Task, cfg.MaxTasks),
		nTasks:  0,
		current: nil,
	}
	main := newBootstrapTask("main")
	s.tasks[0] = main
	s.nTasks = 1
	s.current = main
	s.currentIndex = 0
	return s
}

// GetCurrentTask returns the task whose register context is live.
func (s *Scheduler) GetCurrentTask() *Task { return s.current }

// GetTask performs a linear scan for the first task with the given name.
func (s *Scheduler) GetTask(name string) *Task {
	for i := 0; i < s.nTasks; i++ {
		if t := s.tasks[i]; t != nil && t.name == name {
			return t
		}
	}
	return nil
}

// IsValidTask confirms t currently occupies some slot in the table.
func (s *Scheduler) IsValidTask(t *Task) bool {
	for i := 0; i < s.nTasks; i++ {
		if s.tasks[i] == t {
			return true
		}
	}
	return false
}

// AddTask registers t, placing it in New state if new-task suspension is
// active. It spawns the goroutine that will run t's entry once selected.
func (s *Scheduler) AddTask(t *Task) {
	if s.suspendNewTasks > 0 {
		t.state = New
	}

	for i := 0; i < s.nTasks; i++ {
		if s.tasks[i] == nil {
			s.tasks[i] = t
			s.spawn(t)
			return
		}
	}

	if s.nTasks >= len(s.tasks) {
		trust.Fatalf(source, "system limit of %d tasks exceeded", len(s.tasks))
	}

	s.tasks[s.nTasks] = t
	s.nTasks++
	s.spawn(t)
}

// spawn starts the goroutine backing t. It blocks on t's baton until the
// scheduler first selects it, runs the entry to completion, terminates
// the task, and yields away — mirroring a task falling off the end of
// Run() in the original.
func (s *Scheduler) spawn(t *Task) {
	go func() {
		<-t.resumeCh
		t.entry(t)
		t.Terminate()
		s.Yield()
	}()
}

// SuspendNewTasks increments the new-task suspension nesting counter.
func (s *Scheduler) SuspendNewTasks() {
	s.suspendNewTasks++
}

// ResumeNewTasks decrements the counter; when it reaches zero every task
// still in New transitions to Ready, in table order (insertion order,
// except where AddTask placed a later task into an earlier hole).
func (s *Scheduler) ResumeNewTasks() {
	if s.suspendNewTasks <= 0 {
		trust.Fatalf(source, "ResumeNewTasks called without a matching SuspendNewTasks")
	}
	s.suspendNewTasks--
	if s.suspendNewTasks == 0 {
		for i := 0; i < s.nTasks; i++ {
			if t := s.tasks[i]; t != nil && t.state == New {
				t.start()
			}
		}
	}
}

// RegisterTaskSwitchHandler registers fn to be invoked with the newly
// current task on every switch. May be registered at most once.
func (s *Scheduler) RegisterTaskSwitchHandler(fn func(*Task)) {
	if s.taskSwitchHandler != nil {
		trust.Fatalf(source, "task switch handler already registered")
	}
	s.taskSwitchHandler = fn
}

// RegisterTaskTerminationHandler registers fn to be invoked with a
// task right before it is reaped. May be registered at most once.
func (s *Scheduler) RegisterTaskTerminationHandler(fn func(*Task)) {
	if s.taskTerminationHandler != nil {
		trust.Fatalf(source, "task termination handler already registered")
	}
	s.taskTerminationHandler = fn
}

// indexOf returns t's slot, fatal if t is not currently in the table —
// callers only ever look up a task they just selected from it.
func (s *Scheduler) indexOf(t *Task) int {
	for i := 0; i < s.nTasks; i++ {
		if s.tasks[i] == t {
			return i
		}
	}
	trust.Fatalf(source, "task %s is not registered in the task table", t.name)
	return -1
}

// reapTerminated removes every Terminated task other than current,
// invoking the termination handler first. It returns the count of slots
// nulled this pass.
func (s *Scheduler) reapTerminated() int {
	reaped := 0
	for i := 0; i < s.nTasks; i++ {
		t := s.tasks[i]
		if t == nil || t.state != Terminated || t == s.current {
			continue
		}
		if s.taskTerminationHandler != nil {
			s.taskTerminationHandler(t)
		}
		s.tasks[i] = nil
		reaped++
	}
	return reaped
}

// compactIfNeeded shifts occupied slots to the front once at least half
// of tasks[0:nTasks] is empty, counting holes left by earlier passes as
// well as this one's, amortizing compaction to O(n) per at most n/2
// terminations.
func (s *Scheduler) compactIfNeeded() {
	holes := 0
	for i := 0; i < s.nTasks; i++ {
		if s.tasks[i] == nil {
			holes++
		}
	}
	if s.nTasks == 0 || holes*2 < s.nTasks {
		return
	}
	write := 0
	for read := 0; read < s.nTasks; read++ {
		t := s.tasks[read]
		if t == nil {
			continue
		}
		s.tasks[write] = t
		if read != write {
			s.tasks[read] = nil
		}
		if read == s.currentIndex {
			s.currentIndex = write
		}
		write++
	}
	s.nTasks = write
}

// GetNextTask reaps, compacts, and round-robins from currentIndex+1 for
// up to nTasks positions (which always includes revisiting currentIndex
// itself last, so a solitary Ready current is always reselected). It
// returns (nil, false) only when truly nothing is selectable.
func (s *Scheduler) GetNextTask() (*Task, bool) {
	s.crit.EnterCritical(1)
	defer s.crit.LeaveCritical()

	for i := s.nTasks; i < len(s.tasks); i++ {
		if s.tasks[i] != nil {
			trust.Fatalf(source, "task slot %d beyond high-water mark %d is not nil: leaked removal", i, s.nTasks)
		}
	}

	s.reapTerminated()
	s.compactIfNeeded()

	if s.nTasks == 0 {
		return nil, false
	}

	now := s.clock.Now()
	for i := 1; i <= s.nTasks; i++ {
		idx := (s.currentIndex + i) % s.nTasks
		t := s.tasks[idx]
		if t == nil {
			continue
		}
		if t.partiallyInitialized() {
			continue
		}
		if t.suspended {
			continue
		}

		switch t.state {
		case Ready:
			return t, true

		case Blocked, New:
			continue

		case BlockedWithTimeout:
			if int64(t.wakeTicks-now) > 0 {
				continue
			}
			t.state = Ready
			t.wakeTicks = 0 // sentinel: woken by timeout, not signal
			return t, true

		case Sleeping:
			if int64(t.wakeTicks-now) > 0 {
				continue
			}
			t.state = Ready
			return t, true

		case Terminated:
			if t != s.current {
				trust.Fatalf(source, "terminated task %s survived reap and is not current", t.name)
			}
			continue

		default:
			trust.Fatalf(source, "task %s has unrecognized state %v", t.name, t.state)
		}
	}

	return nil, false
}

