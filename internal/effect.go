package internal

// DirtyLevel is an effect's invalidation state, from clean to definitely
// stale. Effects compare levels with >=, so the zero value (NotDirty) must
// sort lowest.
type DirtyLevel int

const (
	NotDirty DirtyLevel = iota
	MaybeDirty
	Dirty
)

// TrackOpType distinguishes why a read touched the target map, used only
// for onTrack debug info.
type TrackOpType int

const (
	OpGet TrackOpType = iota
	OpHas
	OpIterate
)

// TriggerOpType distinguishes the kind of mutation that caused a trigger,
// used both to select which deps fire (see Trigger) and for onTrigger
// debug info.
type TriggerOpType int

const (
	OpSet TriggerOpType = iota
	OpAdd
	OpDelete
	OpClear
)

// DebugInfo carries the context passed to onTrack/onTrigger hooks.
type DebugInfo struct {
	Target   any
	Type     any
	Key      any
	NewValue any
	OldValue any
}

// Effect is a re-runnable computation that auto-subscribes to every dep it
// reads while running.
type Effect struct {
	rt *Runtime

	// Fn is the user computation. It returns a value so Computed (which is
	// built on top of Effect) can recover its freshly computed value; plain
	// effects simply ignore the return.
	Fn func() any

	// TriggerFn is invoked synchronously whenever this effect's dirty
	// level is lifted off NotDirty. Distinct from Scheduler: it propagates
	// invalidation upward without running anything.
	TriggerFn func()

	// Scheduler, if set, means the effect is never run inline by trigger;
	// instead Scheduler is handed to the runtime's deferred-schedulers
	// buffer, at most once per flush.
	Scheduler func()

	Active       bool
	AllowRecurse bool

	OnTrack   func(DebugInfo)
	OnTrigger func(DebugInfo)
	OnStop    func()

	Scope *EffectScope

	deps       []*Dep
	depsLength int
	trackID    int64
	runnings   int

	shouldSchedule bool
	dirtyLevel     DirtyLevel
}

// NewEffect constructs an effect bound to rt. It does not run fn; callers
// decide when the first run happens.
func NewEffect(rt *Runtime, fn func() any) *Effect {
	return &Effect{
		rt:         rt,
		Fn:         fn,
		Active:     true,
		dirtyLevel: Dirty,
	}
}

// DirtyLevel returns the raw invalidation level.
func (e *Effect) DirtyLevel() DirtyLevel {
	return e.dirtyLevel
}

// SetDirtyLevel force-sets the raw invalidation level.
func (e *Effect) SetDirtyLevel(lvl DirtyLevel) {
	e.dirtyLevel = lvl
}

// ShouldSchedule reports the shouldSchedule flag (set by triggerEffects,
// cleared by scheduleEffects).
func (e *Effect) ShouldSchedule() bool {
	return e.shouldSchedule
}

func (e *Effect) setShouldSchedule(v bool) {
	e.shouldSchedule = v
}

// Runnings reports the current re-entrant run depth.
func (e *Effect) Runnings() int {
	return e.runnings
}

// DepsLength reports how many deps this effect touched during its current
// (or, outside a run, its last completed) run.
func (e *Effect) DepsLength() int {
	return e.depsLength
}

// Deps returns the effect's dep slice as it currently stands.
func (e *Effect) Deps() []*Dep {
	return e.deps
}

// Run executes Fn with tracking enabled and this effect installed as
// active, reconciling the dep set on the way out. Run is not safe to call
// from multiple goroutines concurrently; callers serialize via the owning
// Runtime.
func (e *Effect) Run() any {
	e.dirtyLevel = NotDirty

	if !e.Active {
		return e.Fn()
	}

	t := e.rt.tracking
	prevShouldTrack := t.shouldTrack
	prevActive := t.SetActiveEffect(e)
	t.shouldTrack = true
	e.runnings++

	e.trackID++
	e.depsLength = 0

	defer func() {
		e.reconcileDeps()
		e.runnings--
		t.SetActiveEffect(prevActive)
		t.shouldTrack = prevShouldTrack
	}()

	return e.Fn()
}

// reconcileDeps drops every dep beyond depsLength, the set this run never
// touched.
func (e *Effect) reconcileDeps() {
	for i := e.depsLength; i < len(e.deps); i++ {
		e.deps[i].Unsubscribe(e)
	}
	e.deps = e.deps[:e.depsLength]
}

// link records dep as the dep this effect touches at position depsLength,
// reusing the existing slot when consecutive runs touch the same dep in
// the same order. Called by the target map's Track/trigger-independent
// LinkDep helper.
func (e *Effect) link(dep *Dep) {
	if tid, ok := dep.TrackID(e); ok && tid == e.trackID {
		return
	}

	dep.Subscribe(e, e.trackID)

	idx := e.depsLength
	var oldDep *Dep
	if idx < len(e.deps) {
		oldDep = e.deps[idx]
	}
	if oldDep != dep {
		if oldDep != nil {
			if tid, ok := oldDep.TrackID(e); !ok || tid != e.trackID {
				oldDep.Unsubscribe(e)
			}
		}
		if idx < len(e.deps) {
			e.deps[idx] = dep
		} else {
			e.deps = append(e.deps, dep)
		}
	}
	e.depsLength++
}

// Stop deactivates the effect, unsubscribing it from every dep. Idempotent.
func (e *Effect) Stop() {
	if !e.Active {
		return
	}
	e.depsLength = 0
	e.reconcileDeps()
	if e.rt.DevMode() && e.OnStop != nil {
		e.OnStop()
	}
	e.Active = false
}

// Dirty reports whether the effect needs to re-run, probing MaybeDirty
// deps owned by a Computed along the way. Called while runnings == 0 (i.e.
// outside of a run), it probes the last completed run's deps[0:depsLength].
func (e *Effect) Dirty() bool {
	if e.dirtyLevel == MaybeDirty {
		t := e.rt.tracking
		t.PauseTracking()

		for i := 0; i < e.depsLength && i < len(e.deps); i++ {
			dep := e.deps[i]
			if dep.Computed() != nil {
				dep.Computed().Refresh()
			}
			if e.dirtyLevel >= Dirty {
				break
			}
		}

		t.ResetTracking()

		if e.dirtyLevel < Dirty {
			e.dirtyLevel = NotDirty
		}
	}

	return e.dirtyLevel >= Dirty
}
