package reactant

import "github.com/riftloom/reactant/internal"

// Scope groups a batch of effects for disposal together. Disposing a scope
// stops every effect recorded against it (directly, or via WithScope),
// disposes every child scope, and runs every registered cleanup.
type Scope struct {
	rt    *internal.Runtime
	scope *internal.EffectScope
}

// NewScope creates a new, unparented scope.
func NewScope() *Scope {
	rt := internal.GetRuntime()
	var s *internal.EffectScope
	rt.Do(func() { s = internal.NewEffectScope(rt) })
	return &Scope{rt: rt, scope: s}
}

// AddChild links child under s; disposing s disposes child too.
func (s *Scope) AddChild(child *Scope) {
	s.rt.Do(func() { s.scope.AddChild(child.scope) })
}

// Run executes fn, recovering any panic and dispatching it to registered
// OnError catchers (re-panicking if none are registered).
func (s *Scope) Run(fn func() error) error {
	var err error
	s.rt.Do(func() { err = s.scope.Run(fn) })
	return err
}

// Dispose stops every effect owned by this scope, disposes every child
// scope, and runs every registered cleanup.
func (s *Scope) Dispose() {
	s.rt.Do(s.scope.Dispose)
}

// OnCleanup registers fn to run when the scope is disposed.
func (s *Scope) OnCleanup(fn func()) {
	s.rt.Do(func() { s.scope.OnCleanup(fn) })
}

// OnDispose registers fn to run when the scope is disposed.
func (s *Scope) OnDispose(fn func()) {
	s.rt.Do(func() { s.scope.OnDispose(fn) })
}

// OnError registers a panic catcher invoked by Run.
func (s *Scope) OnError(fn func(any)) {
	s.rt.Do(func() { s.scope.OnError(fn) })
}
