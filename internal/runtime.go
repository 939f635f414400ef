package internal

import (
	"sync"
	"sync/atomic"
)

// Runtime bundles every piece of process-wide reactive state (tracking
// state, target map, scheduler) scoped to a single cooperative execution
// context. GetRuntime binds one Runtime per goroutine, the way a browser
// tab or a single-threaded worker is its own reactive world; a mutex still
// guards the struct because the scheduler's microtask boundary is realized
// with a real background goroutine (see Scheduler.QueueFlush), and that
// goroutine and the owning goroutine must never touch this state at once.
type Runtime struct {
	mu        sync.Mutex
	lockOwner atomic.Int64 // goroutine id currently holding mu, or noLockOwner
	lockDepth int          // re-entry depth, valid only while lockOwner holds mu

	tracking  *TrackingState
	targetMap *TargetMap
	scheduler *Scheduler

	devMode      bool
	errorHandler ErrorHandler

	// nestedCache dedupes auto-wrapping of nested plain map/slice values
	// read out of a reactive container, keyed by the raw value's identity
	// (see wrapNested).
	nestedCache map[nestedWrapKey]any
}

// NewRuntime returns a freshly initialized runtime.
func NewRuntime() *Runtime {
	r := &Runtime{
		tracking:     NewTrackingState(),
		targetMap:    NewTargetMap(),
		errorHandler: DefaultErrorHandler,
	}
	r.lockOwner.Store(noLockOwner)
	r.scheduler = NewScheduler(r)
	return r
}

// noLockOwner is the lockOwner sentinel for "nobody holds mu". getGID
// returns a real, non-negative goroutine id on every platform, including
// the constant 0 reported by the wasm build (a single conceptual execution
// context there) — so the sentinel must live outside that range.
const noLockOwner = -1

// Do runs fn with the runtime's mutex held, serializing it against any
// other Do call (including the scheduler's own flush goroutine) on this
// runtime. Every public entry point — effect creation/run/stop, reactive
// container reads/writes, scheduler calls, NextTick — goes through Do.
// Do is safely reentrant for the goroutine that currently holds the lock
// (an effect body reading/writing a reactive container from inside its own
// Run, itself dispatched through Do, is the common case); a different
// goroutine (e.g. the scheduler's flush goroutine) still blocks until the
// lock is free.
func (r *Runtime) Do(fn func()) {
	gid := getGID()

	if r.lockOwner.Load() == gid {
		r.lockDepth++
		defer func() { r.lockDepth-- }()
		fn()
		return
	}

	r.mu.Lock()
	r.lockOwner.Store(gid)
	defer func() {
		r.lockOwner.Store(noLockOwner)
		r.mu.Unlock()
	}()
	fn()
}

// Tracking exposes the tracking state.
func (r *Runtime) Tracking() *TrackingState { return r.tracking }

// TargetMapOf exposes the target map.
func (r *Runtime) TargetMapOf() *TargetMap { return r.targetMap }

// SchedulerOf exposes the scheduler.
func (r *Runtime) SchedulerOf() *Scheduler { return r.scheduler }

// SetDevMode toggles emission of onTrack/onTrigger/onStop debug hooks.
func (r *Runtime) SetDevMode(v bool) { r.devMode = v }

// DevMode reports whether debug hooks are currently emitted.
func (r *Runtime) DevMode() bool { return r.devMode }

// SetErrorHandler installs the handler invoked on scheduler failures and
// recursion-limit breaches. Passing nil restores DefaultErrorHandler.
func (r *Runtime) SetErrorHandler(h ErrorHandler) {
	if h == nil {
		h = DefaultErrorHandler
	}
	r.errorHandler = h
}

func (r *Runtime) reportError(err any, info ErrorInfo) {
	r.errorHandler(err, info)
}

// PauseTracking suspends dependency recording until the matching
// ResetTracking, used internally by container methods that perform
// bookkeeping reads/writes that must not themselves create edges.
func (r *Runtime) PauseTracking() {
	r.tracking.PauseTracking()
}

// ResetTracking restores the tracking flag saved by the matching
// PauseTracking.
func (r *Runtime) ResetTracking() {
	r.tracking.ResetTracking()
}

// PauseScheduling increments the pause-schedule depth.
func (r *Runtime) PauseScheduling() {
	r.tracking.PauseScheduling()
}

// ResetScheduling decrements the pause-schedule depth; when it reaches
// zero, every deferred scheduler callback accumulated while paused is
// drained in FIFO order.
func (r *Runtime) ResetScheduling() {
	if !r.tracking.ResetScheduling() {
		return
	}

	pending := r.scheduler.deferredSchedulers
	r.scheduler.deferredSchedulers = nil
	for _, fn := range pending {
		fn()
	}
}

// deferSchedule buffers fn to run once the pause-scheduling depth returns
// to zero (or immediately, if it's already zero).
func (r *Runtime) deferSchedule(fn func()) {
	if !r.tracking.SchedulingPaused() {
		fn()
		return
	}
	r.scheduler.deferredSchedulers = append(r.scheduler.deferredSchedulers, fn)
}

// NewEffect constructs and returns a new effect bound to this runtime.
func (r *Runtime) NewEffect(fn func() any) *Effect {
	return NewEffect(r, fn)
}

// NewComputed constructs and returns a new computed ref bound to this
// runtime.
func (r *Runtime) NewComputed(compute func() any) *Computed {
	return NewComputed(r, compute)
}

// NewScope constructs and returns a new effect scope bound to this runtime.
func (r *Runtime) NewScope() *EffectScope {
	return NewEffectScope(r)
}
