package sched

// WaitList is an intrusive singly-linked list of tasks blocked on one
// event. It owns no storage beyond the head pointer: membership is
// encoded entirely in each Task's waitListNext field, so blocking a task
// never allocates.
type WaitList struct {
	head *Task
}

// push adds t to the front of the list (LIFO): t becomes the new head
// and the old head becomes t's link.
func (w *WaitList) push(t *Task) {
	t.waitListNext = w.head
	w.head = t
}

// detachAll atomically removes every task from the list and returns the
// chain's head, for WakeTasks' broadcast.
func (w *WaitList) detachAll() *Task {
	head := w.head
	w.head = nil
	return head
}

// remove defensively unlinks t if it is still present. It is a no-op if
// t is not on the list, which is the common case when a signal (not a
// timeout) already cleared the whole list out from under the task.
func (w *WaitList) remove(t *Task) {
	var prev *Task
	cur := w.head
	for cur != nil {
		if cur == t {
			if prev != nil {
				prev.waitListNext = cur.waitListNext
			} else {
				w.head = cur.waitListNext
			}
			return
		}
		prev = cur
		cur = cur.waitListNext
	}
}

// Empty reports whether the list currently has no waiters.
func (w *WaitList) Empty() bool { return w.head == nil }
