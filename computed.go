package reactant

import "github.com/riftloom/reactant/internal"

// Computed is a lazily evaluated, cached derivation of other reactive
// reads. Reading it tracks the dependency the same way reading a reactive
// container does; writing to anything it read during its last computation
// invalidates the cache.
type Computed[T any] struct {
	rt       *internal.Runtime
	computed *internal.Computed
}

// NewComputed builds a computed value around compute, evaluated on first
// Read and re-evaluated on demand thereafter.
func NewComputed[T any](compute func() T) *Computed[T] {
	rt := internal.GetRuntime()
	var c *internal.Computed
	rt.Do(func() {
		c = internal.NewComputed(rt, func() any { return compute() })
	})
	return &Computed[T]{rt: rt, computed: c}
}

// Read returns the current value, recomputing first if stale, and
// subscribes the active effect (if any) to future invalidations.
func (c *Computed[T]) Read() T {
	var v any
	c.rt.Do(func() { v = c.computed.Read() })
	return as[T](v)
}
