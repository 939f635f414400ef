package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func id(n int64) *int64 { return &n }

func TestSchedulerOrdering(t *testing.T) {
	rt := NewRuntime()
	s := rt.scheduler

	var order []string
	record := func(name string) func() {
		return func() { order = append(order, name) }
	}

	jobNil := &Job{ID: nil, Active: true, Fn: record("null")}
	job2 := &Job{ID: id(2), Active: true, Fn: record("2")}
	job1 := &Job{ID: id(1), Active: true, Fn: record("1")}
	job2pre := &Job{ID: id(2), Pre: true, Active: true, Fn: record("2pre")}

	s.queue = []*Job{job2, job1, job2pre, jobNil}
	s.flushJobs()

	assert.Equal(t, []string{"1", "2pre", "2", "null"}, order)
}

func TestRecursionLimit(t *testing.T) {
	rt := NewRuntime()
	s := rt.scheduler

	var errs []ErrorInfo
	rt.SetErrorHandler(func(err any, info ErrorInfo) {
		errs = append(errs, info)
	})

	runs := 0
	var job *Job
	job = &Job{ID: id(1), Active: true, AllowRecurse: true}
	job.Fn = func() {
		runs++
		s.QueueJob(job)
	}

	s.queue = []*Job{job}
	s.flushJobs()

	assert.Equal(t, 101, runs)
	assert.Len(t, errs, 1)
	assert.Equal(t, ErrCodeAppErrorHandler, errs[0].Code)
}

func TestPostFlushRunsAfterAllMainJobs(t *testing.T) {
	rt := NewRuntime()
	s := rt.scheduler

	var order []string

	mainJob := &Job{ID: id(1), Active: true}
	mainJob.Fn = func() {
		order = append(order, "main")
		s.QueuePostFlushCb(&Callback{Fn: func() { order = append(order, "post") }})
	}
	otherMainJob := &Job{ID: id(2), Active: true, Fn: func() { order = append(order, "main2") }}

	s.queue = []*Job{mainJob, otherMainJob}
	s.flushJobs()

	assert.Equal(t, []string{"main", "main2", "post"}, order)
}

func TestQueueJobDedupesAgainstAlreadyQueuedEntry(t *testing.T) {
	rt := NewRuntime()
	s := rt.scheduler

	job := &Job{ID: id(5), Active: true, Fn: func() {}}

	// Hold the runtime lock ourselves so QueueFlush's background goroutine
	// (which also calls rt.Do) blocks until we're done inspecting s.queue.
	rt.mu.Lock()
	s.QueueJob(job)
	s.QueueJob(job)
	s.QueueJob(job)
	assert.Len(t, s.queue, 1, "queueing the same job repeatedly before it runs must not duplicate it")
	rt.mu.Unlock()
}

func TestQueueJobNeverInsertsAtOrBeforeFlushIndex(t *testing.T) {
	rt := NewRuntime()
	s := rt.scheduler

	reQueued := false
	var insertedAt int
	job := &Job{ID: id(1), Active: true, AllowRecurse: true}
	other := &Job{ID: id(2), Active: true}
	other.Fn = func() {
		if !reQueued {
			reQueued = true
			s.QueueJob(job)
			for i, j := range s.queue {
				if j == job {
					insertedAt = i
				}
			}
		}
	}
	job.Fn = func() {}

	s.queue = []*Job{job, other}
	s.flushJobs()

	assert.Greater(t, insertedAt, 1, "re-inserting a job must land after the currently executing index")
}

func TestDeferScheduleRunsEveryBufferedCallOnReset(t *testing.T) {
	rt := NewRuntime()

	calls := 0
	fn := func() { calls++ }

	rt.PauseScheduling()
	rt.deferSchedule(fn)
	rt.deferSchedule(fn)
	rt.deferSchedule(fn)
	assert.Equal(t, 0, calls)
	rt.ResetScheduling()

	assert.Equal(t, 3, calls, "deferSchedule itself does not dedupe; callers (scheduleEffects) only defer once per effect")
}

func TestPauseResetSchedulingRoundTrip(t *testing.T) {
	rt := NewRuntime()
	rt.PauseScheduling()
	rt.PauseScheduling()
	assert.True(t, rt.tracking.SchedulingPaused())
	rt.ResetScheduling()
	assert.True(t, rt.tracking.SchedulingPaused())
	rt.ResetScheduling()
	assert.False(t, rt.tracking.SchedulingPaused())
}

func TestPauseResetTrackingRoundTrip(t *testing.T) {
	rt := NewRuntime()
	before := rt.tracking.ShouldTrack()

	rt.PauseTracking()
	assert.False(t, rt.tracking.ShouldTrack())
	rt.ResetTracking()

	assert.Equal(t, before, rt.tracking.ShouldTrack())
}
