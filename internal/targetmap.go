package internal

// sentinelKey is a unique, comparable, opaque key. Every instance of
// IterateKey (and of MapKeyIterateKey) across the process compares equal to
// itself and unequal to anything else — an opaque unique value shared by
// all instances in a process.
type sentinelKey struct{ name string }

func (s *sentinelKey) String() string { return s.name }

var (
	// IterateKey stands for "the whole object was iterated" (ownKeys).
	IterateKey = &sentinelKey{"ITERATE_KEY"}
	// MapKeyIterateKey stands for "the key set of a map-like collection
	// was iterated", distinct from iterating its values.
	MapKeyIterateKey = &sentinelKey{"MAP_KEY_ITERATE_KEY"}
	// LengthKey is the well-known array "length" property key.
	LengthKey = "length"
)

// TargetMap is the two-level target → key → Dep registry. A target's inner
// map, and the target's own entry, disappear the moment every dep under it
// empties. Targets are held as ordinary (strong) map keys: an entry is not
// removed when its wrapper becomes unreachable, only when its last
// subscriber unsubscribes.
type TargetMap struct {
	data map[any]map[any]*Dep
}

// NewTargetMap returns an empty target map.
func NewTargetMap() *TargetMap {
	return &TargetMap{data: make(map[any]map[any]*Dep)}
}

func (tm *TargetMap) getOrCreateDep(target, key any) *Dep {
	inner, ok := tm.data[target]
	if !ok {
		inner = make(map[any]*Dep)
		tm.data[target] = inner
	}

	dep, ok := inner[key]
	if !ok {
		dep = NewDep(func() { tm.deleteKey(target, key) })
		inner[key] = dep
	}
	return dep
}

func (tm *TargetMap) deleteKey(target, key any) {
	inner, ok := tm.data[target]
	if !ok {
		return
	}
	delete(inner, key)
	if len(inner) == 0 {
		delete(tm.data, target)
	}
}

// GetDep returns the existing dep for (target, key) without creating one.
func (tm *TargetMap) GetDep(target, key any) (*Dep, bool) {
	inner, ok := tm.data[target]
	if !ok {
		return nil, false
	}
	d, ok := inner[key]
	return d, ok
}

// AllDeps returns every dep currently registered under target, used by
// trigger's CLEAR case.
func (tm *TargetMap) AllDeps(target any) []*Dep {
	inner, ok := tm.data[target]
	if !ok {
		return nil
	}
	out := make([]*Dep, 0, len(inner))
	for _, d := range inner {
		out = append(out, d)
	}
	return out
}

// GetDepFromReactive exposes a read-only lookup for external callers (e.g.
// a custom ref implementation wiring itself into this target map).
func GetDepFromReactive(rt *Runtime, target any, key any) (*Dep, bool) {
	return rt.targetMap.GetDep(target, key)
}

// Track records a read: no-op unless tracking is active and there is an
// active effect, otherwise looks up (or creates) the dep for (target, key)
// and links it to the active effect. Not safe to call concurrently with
// other operations on rt without external synchronization — callers lock
// the owning Runtime's mutex first (see Runtime.Do).
func Track(rt *Runtime, target any, typ TrackOpType, key any) {
	if !rt.tracking.ShouldTrack() || rt.tracking.ActiveEffect() == nil {
		return
	}

	dep := rt.targetMap.getOrCreateDep(target, key)
	LinkDep(rt, dep)

	if rt.devMode {
		if e := rt.tracking.ActiveEffect(); e != nil && e.OnTrack != nil {
			e.OnTrack(DebugInfo{Target: target, Type: typ, Key: key})
		}
	}
}

// LinkDep runs the trackId-based incremental-update association protocol
// directly against a dep, bypassing the target-map lookup. Used by Track
// and by Computed, whose dep isn't registered in any target map.
func LinkDep(rt *Runtime, dep *Dep) {
	e := rt.tracking.ActiveEffect()
	if e == nil || !rt.tracking.ShouldTrack() {
		return
	}
	e.link(dep)
}

// Trigger records a mutation: resolves which deps are affected by the
// operation, then notifies each under a single pauseScheduling/
// resetScheduling region so a batch of mutations produces at most one
// scheduler enqueue per affected effect.
func Trigger(rt *Runtime, target any, typ TriggerOpType, key any, newValue, oldValue any, isArray bool, isMapLike bool, newLength int) {
	deps := affectedDeps(rt, target, typ, key, isArray, isMapLike, newLength)
	if len(deps) == 0 {
		return
	}

	info := DebugInfo{Target: target, Type: typ, Key: key, NewValue: newValue, OldValue: oldValue}

	rt.PauseScheduling()
	for _, dep := range deps {
		triggerEffects(dep, Dirty, info)
	}
	rt.ResetScheduling()
}

func affectedDeps(rt *Runtime, target any, typ TriggerOpType, key any, isArray, isMapLike bool, newLength int) []*Dep {
	var deps []*Dep

	add := func(k any) {
		if d, ok := rt.targetMap.GetDep(target, k); ok {
			deps = append(deps, d)
		}
	}

	switch typ {
	case OpClear:
		deps = append(deps, rt.targetMap.AllDeps(target)...)

	case OpSet:
		if isArray && key == LengthKey {
			add(LengthKey)
			for ik, d := range rt.targetMap.data[target] {
				idx, ok := ik.(int)
				if ok && idx >= newLength {
					deps = append(deps, d)
				}
			}
		} else if isMapLike {
			add(key)
			add(IterateKey)
		} else {
			add(key)
		}

	case OpAdd:
		if isArray {
			add(key)
			add(LengthKey)
		} else {
			add(key)
			add(IterateKey)
			if isMapLike {
				add(MapKeyIterateKey)
			}
		}

	case OpDelete:
		if !isArray {
			add(key)
			add(IterateKey)
			if isMapLike {
				add(MapKeyIterateKey)
			}
		}
	}

	return deps
}

// triggerEffects walks dep's live subscribers, lifting any whose dirty
// level is below dirtyLevel and, for those freshly lifted off NotDirty,
// invoking their TriggerFn synchronously before handing them to
// scheduleEffects.
func triggerEffects(dep *Dep, dirtyLevel DirtyLevel, info DebugInfo) {
	for _, e := range dep.Effects() {
		tid, live := dep.TrackID(e)
		if !live || tid != e.trackID || e.dirtyLevel >= dirtyLevel {
			continue
		}

		lastDirty := e.dirtyLevel
		e.dirtyLevel = dirtyLevel

		if lastDirty == NotDirty {
			e.setShouldSchedule(true)
			if e.TriggerFn != nil {
				e.TriggerFn()
			}
		}

		if e.rt.DevMode() && e.OnTrigger != nil {
			e.OnTrigger(info)
		}
	}

	scheduleEffects(dep)
}

// scheduleEffects hands each subscriber with a pending schedule request to
// the runtime's deferred-schedulers buffer, at most once per flush.
func scheduleEffects(dep *Dep) {
	for _, e := range dep.Effects() {
		if e.Scheduler == nil || !e.shouldSchedule {
			continue
		}
		if e.runnings > 0 && !e.AllowRecurse {
			continue
		}

		e.setShouldSchedule(false)
		e.rt.deferSchedule(e.Scheduler)
	}
}
