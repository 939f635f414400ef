// Package reactant is a fine-grained reactivity runtime: an effect engine,
// a dependency graph realized over three reactive container shapes
// (record, array, Map-like collection), and a microtask-batched scheduler.
// It mirrors the design of push-pull signal libraries like sig, adapted to
// Vue-style target-map tracking and (id, pre)-ordered job scheduling.
package reactant

import (
	"sync/atomic"

	"github.com/riftloom/reactant/internal"
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

var effectJobID int64

func nextEffectJobID() *int64 {
	id := atomic.AddInt64(&effectJobID, 1)
	return &id
}

// Runner is a handle to a running effect.
type Runner struct {
	effect *internal.Effect
}

// EffectOption configures an effect at construction time.
type EffectOption func(*internal.Effect)

// WithScope attaches the effect to scope, so scope.Dispose stops it.
func WithScope(scope *Scope) EffectOption {
	return func(e *internal.Effect) {
		internal.RecordEffectScope(e, scope.scope)
	}
}

// AllowRecurse permits the effect to requeue itself while it is running.
func AllowRecurse() EffectOption {
	return func(e *internal.Effect) {
		e.AllowRecurse = true
	}
}

// OnTrack registers a debug hook fired on every tracked read the effect
// makes (repeated reads of an already-tracked key included), active only
// when DevMode is enabled.
func OnTrack(fn func(internal.DebugInfo)) EffectOption {
	return func(e *internal.Effect) {
		e.OnTrack = fn
	}
}

// OnTrigger registers a debug hook fired whenever the effect is invalidated
// by a tracked dependency changing, active only when DevMode is enabled.
func OnTrigger(fn func(internal.DebugInfo)) EffectOption {
	return func(e *internal.Effect) {
		e.OnTrigger = fn
	}
}

// Effect runs fn immediately, tracking every reactive read it performs, and
// re-runs it — deferred through the scheduler, batched with any other
// invalidated effect in the same flush — whenever a tracked dependency
// changes. The returned Runner can be passed to Stop.
func Effect(fn func(), opts ...EffectOption) Runner {
	rt := internal.GetRuntime()

	var e *internal.Effect
	var runner Runner

	rt.Do(func() {
		e = internal.NewEffect(rt, func() any {
			fn()
			return nil
		})

		job := &internal.Job{ID: nextEffectJobID(), Active: true}
		job.Fn = func() { e.Run() }
		e.Scheduler = func() {
			job.AllowRecurse = e.AllowRecurse
			rt.SchedulerOf().QueueJob(job)
		}

		for _, opt := range opts {
			opt(e)
		}

		e.Run()
	})

	runner = Runner{effect: e}
	return runner
}

// Stop deactivates r's effect, unsubscribing it from every dependency it
// tracked. Idempotent.
func Stop(r Runner) {
	rt := internal.GetRuntime()
	rt.Do(func() {
		r.effect.Stop()
	})
}

// PauseTracking suspends dependency recording for the calling goroutine's
// runtime until the matching ResetTracking.
func PauseTracking() {
	rt := internal.GetRuntime()
	rt.Do(rt.PauseTracking)
}

// EnableTracking force-enables dependency recording until the matching
// ResetTracking, even if an outer PauseTracking is in effect.
func EnableTracking() {
	rt := internal.GetRuntime()
	rt.Do(func() { rt.Tracking().EnableTracking() })
}

// ResetTracking restores the tracking flag saved by the most recent
// PauseTracking or EnableTracking.
func ResetTracking() {
	rt := internal.GetRuntime()
	rt.Do(rt.ResetTracking)
}

// PauseScheduling defers every scheduler enqueue that would otherwise
// happen until the matching ResetScheduling, coalescing a batch of
// mutations into at most one enqueue per affected effect.
func PauseScheduling() {
	rt := internal.GetRuntime()
	rt.Do(rt.PauseScheduling)
}

// ResetScheduling ends a PauseScheduling region, draining any deferred
// enqueues once every nested pause has resolved.
func ResetScheduling() {
	rt := internal.GetRuntime()
	rt.Do(rt.ResetScheduling)
}

// NextTick returns a channel that closes once fn (if non-nil) has run,
// after the flush currently pending or in flight completes. If no flush is
// pending, fn runs without waiting for one.
func NextTick(fn func()) <-chan struct{} {
	rt := internal.GetRuntime()
	var ch <-chan struct{}
	rt.Do(func() {
		ch = rt.SchedulerOf().NextTick(fn)
	})
	return ch
}

// Untrack runs fn with dependency tracking suspended, returning its result.
func Untrack[T any](fn func() T) T {
	PauseTracking()
	defer ResetTracking()
	return fn()
}

// SetDevMode toggles emission of onTrack/onTrigger/onStop debug hooks for
// the calling goroutine's runtime.
func SetDevMode(v bool) {
	rt := internal.GetRuntime()
	rt.Do(func() { rt.SetDevMode(v) })
}

// Job is a unit of work scheduled by QueueJob. See internal.Job for field
// semantics — reactant re-exports the type directly rather than wrapping
// it, since queuing a job is itself a low-level escape hatch for callers
// building their own scheduled primitives on top of a reactive container.
type Job = internal.Job

// Callback is a post-flush callback queued by QueuePostFlushCb.
type Callback = internal.Callback

// QueueJob inserts job into the scheduler's ordered queue and requests a
// flush.
func QueueJob(job *Job) {
	rt := internal.GetRuntime()
	rt.Do(func() { rt.SchedulerOf().QueueJob(job) })
}

// QueuePostFlushCb appends cb to the pending post-flush buffer and
// requests a flush.
func QueuePostFlushCb(cb *Callback) {
	rt := internal.GetRuntime()
	rt.Do(func() { rt.SchedulerOf().QueuePostFlushCb(cb) })
}

// InvalidateJob removes job from the queue if it hasn't started running
// yet.
func InvalidateJob(job *Job) {
	rt := internal.GetRuntime()
	rt.Do(func() { rt.SchedulerOf().InvalidateJob(job) })
}

// FlushPreFlushCbs forces synchronous execution of every currently queued
// pre job, optionally restricted to jobs whose OwnerInstance equals owner
// (pass nil for no restriction).
func FlushPreFlushCbs(owner any) {
	rt := internal.GetRuntime()
	rt.Do(func() { rt.SchedulerOf().FlushPreFlushCbs(owner, -1) })
}

// FlushPostFlushCbs forces synchronous execution of every pending
// post-flush callback right now, the forcing-function counterpart to
// FlushPreFlushCbs.
func FlushPostFlushCbs() {
	rt := internal.GetRuntime()
	rt.Do(func() { rt.SchedulerOf().FlushPostFlushCbs() })
}

// Track records a read against target's key for the currently active
// effect, if any. Exposed for custom reactive primitives built outside the
// Object/Array/Collection families.
func Track(target any, key any) {
	rt := internal.GetRuntime()
	rt.Do(func() { internal.Track(rt, target, internal.OpGet, key) })
}

// Trigger records a mutation against target's key, scheduling every
// dependent effect.
func Trigger(target any, key any, newValue, oldValue any) {
	rt := internal.GetRuntime()
	rt.Do(func() { internal.Trigger(rt, target, internal.OpSet, key, newValue, oldValue, false, false, 0) })
}

// GetDepFromReactive looks up the dep registered for (target, key), if
// any — the hook a custom ref implementation uses to wire itself into the
// same target map the built-in containers use.
func GetDepFromReactive(target any, key any) (*internal.Dep, bool) {
	rt := internal.GetRuntime()
	var dep *internal.Dep
	var ok bool
	rt.Do(func() { dep, ok = internal.GetDepFromReactive(rt, target, key) })
	return dep, ok
}
