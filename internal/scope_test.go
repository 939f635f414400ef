package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeDisposeStopsEffectsAndRunsCleanups(t *testing.T) {
	rt := NewRuntime()
	scope := NewEffectScope(rt)

	target := "target"
	e := NewEffect(rt, func() any {
		Track(rt, target, OpGet, "a")
		return nil
	})
	e.Run()
	scope.RecordEffect(e)

	cleaned := false
	scope.OnCleanup(func() { cleaned = true })

	scope.Dispose()

	assert.False(t, e.Active)
	assert.True(t, cleaned)
}

func TestScopeDisposeCascadesToChildren(t *testing.T) {
	rt := NewRuntime()
	parent := NewEffectScope(rt)
	child := NewEffectScope(rt)
	parent.AddChild(child)

	childCleaned := false
	child.OnCleanup(func() { childCleaned = true })

	parent.Dispose()

	assert.True(t, childCleaned)
}

func TestScopeRunRecoversAndDispatchesToCatchers(t *testing.T) {
	rt := NewRuntime()
	scope := NewEffectScope(rt)

	var caught any
	scope.OnError(func(r any) { caught = r })

	err := scope.Run(func() error {
		panic("boom")
	})

	assert.NoError(t, err)
	assert.Equal(t, "boom", caught)
}

func TestScopeRunRepanicsWithoutCatchers(t *testing.T) {
	rt := NewRuntime()
	scope := NewEffectScope(rt)

	assert.Panics(t, func() {
		scope.Run(func() error { panic("boom") })
	})
}
