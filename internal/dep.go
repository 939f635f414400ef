package internal

// Dep is the subscription set for a single (target, key) pair: a mapping
// from subscribed effect to the trackId the effect had when it last touched
// this dep. Equality between a stored trackId and the effect's current
// trackId is what proves an edge is still live for the run in progress.
type Dep struct {
	effects map[*Effect]int64
	order   []*Effect

	// cleanup fires exactly once, the moment the subscriber set becomes
	// empty. The target map uses it to drop the dep entirely.
	cleanup func()

	// computed is set by a Computed when it owns this dep, letting the
	// dirty probe (Effect.Dirty) ask it to re-evaluate on demand.
	computed *Computed
}

// NewDep creates an empty dep. cleanup may be nil.
func NewDep(cleanup func()) *Dep {
	return &Dep{
		effects: make(map[*Effect]int64),
		cleanup: cleanup,
	}
}

// TrackID returns the trackId this dep has stored for e, if subscribed.
func (d *Dep) TrackID(e *Effect) (int64, bool) {
	tid, ok := d.effects[e]
	return tid, ok
}

// Subscribe records e as a subscriber with the given trackId, overwriting
// any previous trackId for e.
func (d *Dep) Subscribe(e *Effect, trackID int64) {
	if _, ok := d.effects[e]; !ok {
		d.order = append(d.order, e)
	}
	d.effects[e] = trackID
}

// Unsubscribe removes e. If the subscriber set becomes empty, cleanup fires.
func (d *Dep) Unsubscribe(e *Effect) {
	if _, ok := d.effects[e]; !ok {
		return
	}
	delete(d.effects, e)
	if len(d.effects) == 0 && d.cleanup != nil {
		d.cleanup()
	}
}

// Len reports the number of live subscribers.
func (d *Dep) Len() int {
	return len(d.effects)
}

// SetComputed attaches the owning computed ref, if any.
func (d *Dep) SetComputed(c *Computed) {
	d.computed = c
}

// Computed returns the computed ref that owns this dep, if any.
func (d *Dep) Computed() *Computed {
	return d.computed
}

// Effects returns the current subscribers in (stable, compacted) insertion
// order. Order carries no semantic meaning to callers beyond determinism.
func (d *Dep) Effects() []*Effect {
	out := make([]*Effect, 0, len(d.effects))
	live := d.order[:0]
	for _, e := range d.order {
		if _, ok := d.effects[e]; ok {
			out = append(out, e)
			live = append(live, e)
		}
	}
	d.order = live
	return out
}
