// Package schedule runs delayed tasks that can be cancelled, individually or
// all at once when their owner is torn down.
package schedule

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	pending int32 = iota
	running
	cancelled
)

// Task is a handle to a function scheduled with After.
type Task struct {
	timer *time.Timer
	state atomic.Int32
	done  chan struct{}
}

// After runs fn on its own goroutine once d has elapsed, unless the returned
// Task is cancelled first.
func After(d time.Duration, fn func()) *Task {
	t := &Task{done: make(chan struct{})}
	t.timer = time.AfterFunc(d, func() {
		if !t.state.CompareAndSwap(pending, running) {
			return
		}
		defer close(t.done)
		fn()
	})
	return t
}

// Cancel stops the task. It reports false when fn already started.
func (t *Task) Cancel() bool {
	if !t.state.CompareAndSwap(pending, cancelled) {
		return false
	}
	t.timer.Stop()
	close(t.done)
	return true
}

// Done is closed once fn has returned or the task was cancelled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancelled reports whether the task was cancelled before running.
func (t *Task) Cancelled() bool { return t.state.Load() == cancelled }

// Group owns a set of tasks and cancels whatever is still pending on Close.
// The zero value is ready to use.
type Group struct {
	mu     sync.Mutex
	tasks  map[*Task]struct{}
	closed bool
}

// After schedules fn within the group. After Close it returns an already
// cancelled task.
func (g *Group) After(d time.Duration, fn func()) *Task {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		t := &Task{done: make(chan struct{})}
		t.state.Store(cancelled)
		close(t.done)
		return t
	}
	if g.tasks == nil {
		g.tasks = make(map[*Task]struct{})
	}

	var t *Task
	t = After(d, func() {
		fn()
		g.mu.Lock()
		delete(g.tasks, t)
		g.mu.Unlock()
	})
	g.tasks[t] = struct{}{}
	return t
}

// Pending returns the number of tasks that have neither run nor been cancelled.
func (g *Group) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for t := range g.tasks {
		if t.state.Load() == pending {
			n++
		}
	}
	return n
}

// Close cancels every pending task; later calls to After are no-ops.
func (g *Group) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.closed = true
	for t := range g.tasks {
		t.Cancel()
	}
	g.tasks = nil
}
