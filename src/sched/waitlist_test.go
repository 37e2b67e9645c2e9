package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWaitListTestTask(name string) *Task {
	return &Task{name: name, resumeCh: make(chan struct{}, 1)}
}

func TestWaitListPushIsLIFO(t *testing.T) {
	var l WaitList
	a, b, c := newWaitListTestTask("a"), newWaitListTestTask("b"), newWaitListTestTask("c")

	l.push(a)
	l.push(b)
	l.push(c)

	require.Same(t, c, l.head)
	require.Same(t, b, c.waitListNext)
	require.Same(t, a, b.waitListNext)
	require.Nil(t, a.waitListNext)
}

func TestWaitListDetachAllClearsHead(t *testing.T) {
	var l WaitList
	a, b := newWaitListTestTask("a"), newWaitListTestTask("b")
	l.push(a)
	l.push(b)

	head := l.detachAll()

	assert.Same(t, b, head)
	assert.True(t, l.Empty())
}

func TestWaitListRemoveMiddleAndAbsent(t *testing.T) {
	var l WaitList
	a, b, c := newWaitListTestTask("a"), newWaitListTestTask("b"), newWaitListTestTask("c")
	l.push(a)
	l.push(b)
	l.push(c)

	l.remove(b)
	assert.Same(t, c, l.head)
	assert.Same(t, a, c.waitListNext)

	// removing an absent task is a no-op, matching the documented
	// "signal already detached the whole list" defensive case.
	l.remove(b)
	assert.Same(t, c, l.head)

	l.remove(c)
	assert.Same(t, a, l.head)
	l.remove(a)
	assert.True(t, l.Empty())
}
