package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectTrackIdReconciliation(t *testing.T) {
	rt := NewRuntime()
	target := "target"

	e := NewEffect(rt, func() any {
		Track(rt, target, OpGet, "a")
		Track(rt, target, OpGet, "b")
		return nil
	})
	e.Run()

	assert.Len(t, e.Deps(), 2)
	for _, dep := range e.Deps() {
		tid, ok := dep.TrackID(e)
		assert.True(t, ok)
		assert.Equal(t, e.trackID, tid)
	}
}

func TestEffectRepeatedReadOfSameKeyProducesOneEdge(t *testing.T) {
	rt := NewRuntime()
	target := "target"

	e := NewEffect(rt, func() any {
		for i := 0; i < 5; i++ {
			Track(rt, target, OpGet, "a")
		}
		return nil
	})
	e.Run()

	assert.Len(t, e.Deps(), 1)
	assert.Equal(t, 1, e.Deps()[0].Len())
}

func TestEffectNoReallocationOnIdenticalRun(t *testing.T) {
	rt := NewRuntime()
	target := "target"

	e := NewEffect(rt, func() any {
		Track(rt, target, OpGet, "a")
		Track(rt, target, OpGet, "b")
		return nil
	})
	e.Run()

	firstDeps := e.Deps()
	firstLen := len(firstDeps)

	e.Run()

	assert.Equal(t, firstLen, len(e.Deps()))
	assert.Same(t, firstDeps[0], e.Deps()[0])
	assert.Same(t, firstDeps[1], e.Deps()[1])
}

func TestDependencySwapDropsStaleEdge(t *testing.T) {
	rt := NewRuntime()
	target := "target"

	readX := true
	e := NewEffect(rt, func() any {
		if readX {
			Track(rt, target, OpGet, "x")
		} else {
			Track(rt, target, OpGet, "y")
		}
		return nil
	})
	e.Run()

	xDep := rt.targetMap.getOrCreateDep(target, "x")
	assert.Equal(t, 1, xDep.Len())

	readX = false
	e.Run()

	assert.Equal(t, 0, xDep.Len())
	yDep := rt.targetMap.getOrCreateDep(target, "y")
	assert.Equal(t, 1, yDep.Len())
}

func TestDepCleanupFiresOnceWhenEmptied(t *testing.T) {
	rt := NewRuntime()

	cleanups := 0
	dep := NewDep(func() { cleanups++ })

	e := NewEffect(rt, func() any { return nil })
	e.Run()

	dep.Subscribe(e, e.trackID)
	assert.Equal(t, 1, dep.Len())

	dep.Unsubscribe(e)
	assert.Equal(t, 1, cleanups)
	assert.Equal(t, 0, dep.Len())

	dep.Unsubscribe(e)
	assert.Equal(t, 1, cleanups, "cleanup must not fire again for an already-empty dep")
}

func TestEffectStopIsIdempotent(t *testing.T) {
	rt := NewRuntime()
	target := "target"

	runs := 0
	e := NewEffect(rt, func() any {
		runs++
		Track(rt, target, OpGet, "a")
		return nil
	})
	e.Run()
	assert.Len(t, e.Deps(), 1)

	e.Stop()
	assert.Len(t, e.Deps(), 0)
	assert.False(t, e.Active)

	e.Stop()
	assert.False(t, e.Active)
}
