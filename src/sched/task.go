package sched

import (
	"github.com/google/uuid"
)

// State is a task's position in the scheduler's state machine.
type State int

const (
	// New is set while new-task suspension is active; never runnable
	// until ResumeNewTasks calls start() on it.
	New State = iota
	// Ready is eligible for selection. The currently running task is
	// also Ready — there is no distinct Running state; "running" is
	// identified by pointer identity with Scheduler.current.
	Ready
	// Blocked is on a wait list with no timeout.
	Blocked
	// BlockedWithTimeout is on a wait list with a valid wakeTicks deadline.
	BlockedWithTimeout
	// Sleeping has a wakeTicks deadline and is on no wait list.
	Sleeping
	// Terminated is finished; reaped on the next selection pass unless
	// still current.
	Terminated
)

// listingLabel is the column value ListTasks prints for a non-current
// task, matching the state-name table ListTasks prints.
func (s State) listingLabel() string {
	switch s {
	case New:
		return "new"
	case Ready:
		return "ready"
	case Blocked, BlockedWithTimeout:
		return "block"
	case Sleeping:
		return "sleep"
	case Terminated:
		return "term"
	default:
		return "?"
	}
}

// Entry is the callable body of a task. It receives the Task so it can
// call back into the scheduler that owns it (via the package's Current, or a
// captured *Scheduler).
type Entry func(*Task)

// RegisterFrame is the opaque saved-CPU-state struct that flows between
// the scheduler and its architecture-specific collaborators. On real
// hardware its layout must be bit-identical to whatever the IRQ stub
// saves on entry, since ContextSwitchOnIrqReturn overwrites that memory
// in place; this port keeps the same contract (copy-in, copy-out) but
// with an architecture-neutral shape, since there is no real register
// file to describe on a hosted target.
type RegisterFrame struct {
	PC   uintptr
	SP   uintptr
	Regs [12]uint64 // callee-saved slots; opaque to the scheduler itself
}

// Task is one schedulable unit's control block.
type Task struct {
	id   uuid.UUID
	name string

	state     State
	suspended bool
	wakeTicks uint64

	regs RegisterFrame

	// waitListNext is the intrusive link; non-nil iff this task is
	// presently on some WaitList. Allocation-free by construction: no
	// container element is ever heap-allocated to hold it.
	waitListNext *Task

	entry Entry

	// bootstrap marks the task that represents the goroutine that
	// constructed the Scheduler (the "Main" task in the original,
	// constructed with a null entry point because it is already
	// running). Selection's partially-initialized check would otherwise
	// treat a nil entry as "never overrode Run" and skip it forever.
	bootstrap bool

	// resumeCh is the baton: exactly one of a task's goroutine and its
	// scheduler is ever allowed to proceed, and it is whichever one is
	// blocked waiting on the other's send. This is the hosted stand-in
	// for "only one task's register context is live on the CPU."
	resumeCh chan struct{}
}

// NewTask constructs a task with the given entry point. The task starts
// in Ready state; AddTask forces it to New if new-task suspension is
// active at registration time.
func NewTask(name string, entry Entry) *Task {
	if entry == nil {
		panic("sched: NewTask requires a non-nil entry")
	}
	return &Task{
		id:       uuid.New(),
		name:     name,
		state:    Ready,
		entry:    entry,
		resumeCh: make(chan struct{}, 1),
	}
}

func newBootstrapTask(name string) *Task {
	return &Task{
		id:        uuid.New(),
		name:      name,
		state:     Ready,
		bootstrap: true,
		resumeCh:  make(chan struct{}, 1),
	}
}

func (t *Task) ID() uuid.UUID  { return t.id }
func (t *Task) Name() string   { return t.name }
func (t *Task) State() State   { return t.state }
func (t *Task) Suspended() bool { return t.suspended }
func (t *Task) Suspend()        { t.suspended = true }
func (t *Task) Resume()         { t.suspended = false }

// WakeTicks exposes the timeout/signal sentinel: after a BlockTask, zero
// means "woken by timeout expiry" and non-zero means "woken by event
// signal". A task that has never slept or blocked also reads zero.
func (t *Task) WakeTicks() uint64 { return t.wakeTicks }

// Terminate marks the task finished. The scheduler cannot destroy it
// synchronously here — this call may be happening on the terminating
// task's own call stack — so it is reaped on a later selection pass.
func (t *Task) Terminate() {
	t.state = Terminated
}

// start transitions a New task to Ready. Called only from
// Scheduler.ResumeNewTasks.
func (t *Task) start() {
	t.state = Ready
}

// partiallyInitialized reports whether this task was constructed but
// never given a real entry point. The original detects this by comparing
// the saved PC against the task-entry trampoline and checking whether
// the virtual Run method still dispatches to the base implementation;
// ported to Go's callable-entry model, a task is partially initialized
// exactly when it has no entry and is not the bootstrap task.
func (t *Task) partiallyInitialized() bool {
	return t.entry == nil && !t.bootstrap
}
