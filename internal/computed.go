package internal

// Computed is a minimal computed-ref adapter: an Effect whose return value
// is cached, wrapped in a Dep that other effects subscribe to the way they
// subscribe to any target-map entry. It exists to give Dep.computed and the
// Effect.Dirty probe a real caller — an unreachable probe is dead code.
type Computed struct {
	rt *Runtime

	effect *Effect
	dep    *Dep

	compute func() any
	value   any
}

// NewComputed builds a computed ref around compute, lazily evaluated on
// first Read.
func NewComputed(rt *Runtime, compute func() any) *Computed {
	c := &Computed{rt: rt, compute: compute}

	c.dep = NewDep(nil)
	c.dep.SetComputed(c)

	c.effect = NewEffect(rt, func() any {
		c.value = compute()
		return c.value
	})
	c.effect.TriggerFn = func() {
		triggerEffects(c.dep, MaybeDirty, DebugInfo{})
	}

	return c
}

// Read returns the current value, recomputing first if dirty, and
// subscribes the active effect (if any) to future invalidations.
func (c *Computed) Read() any {
	LinkDep(c.rt, c.dep)
	c.Refresh()
	return c.value
}

// Refresh recomputes the value if the underlying effect is dirty.
func (c *Computed) Refresh() {
	if c.effect.Dirty() {
		c.effect.Run()
	}
}

// Dep returns the dep other effects subscribe to when they read this
// computed.
func (c *Computed) Dep() *Dep {
	return c.dep
}
