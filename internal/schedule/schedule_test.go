package schedule_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signa/internal/schedule"
)

func waitDone(t *testing.T, task *schedule.Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task did not finish")
	}
}

func TestAfter_Runs(t *testing.T) {
	var ran atomic.Bool
	task := schedule.After(5*time.Millisecond, func() { ran.Store(true) })
	waitDone(t, task)
	assert.True(t, ran.Load())
	assert.False(t, task.Cancelled())
	assert.False(t, task.Cancel(), "cancel after run must report false")
}

func TestAfter_CancelPreventsRun(t *testing.T) {
	var ran atomic.Bool
	task := schedule.After(time.Hour, func() { ran.Store(true) })
	require.True(t, task.Cancel())
	waitDone(t, task)
	assert.True(t, task.Cancelled())
	assert.False(t, ran.Load())
	assert.False(t, task.Cancel(), "second cancel must report false")
}

func TestGroup_CloseCancelsPending(t *testing.T) {
	var g schedule.Group
	var ran atomic.Int32

	a := g.After(time.Hour, func() { ran.Add(1) })
	b := g.After(time.Hour, func() { ran.Add(1) })
	assert.Equal(t, 2, g.Pending())

	g.Close()
	waitDone(t, a)
	waitDone(t, b)
	assert.True(t, a.Cancelled())
	assert.True(t, b.Cancelled())
	assert.Zero(t, ran.Load())
	assert.Zero(t, g.Pending())
}

func TestGroup_AfterClose_IsNoop(t *testing.T) {
	var g schedule.Group
	g.Close()

	var ran atomic.Bool
	task := g.After(0, func() { ran.Store(true) })
	waitDone(t, task)
	assert.True(t, task.Cancelled())
	assert.False(t, ran.Load())
}

func TestGroup_FinishedTasksAreForgotten(t *testing.T) {
	var g schedule.Group
	task := g.After(time.Millisecond, func() {})
	waitDone(t, task)
	assert.Eventually(t, func() bool { return g.Pending() == 0 }, time.Second, 5*time.Millisecond)
}
