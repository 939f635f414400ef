package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// runTracked runs fn as the body of a throwaway effect and returns it,
// already run once, so callers can assert on its recorded deps.
func runTracked(rt *Runtime, fn func()) *Effect {
	e := NewEffect(rt, func() any {
		fn()
		return nil
	})
	e.Run()
	return e
}

func TestObjectBasicTracking(t *testing.T) {
	rt := NewRuntime()
	obj := NewObject(rt, map[string]any{"a": 1})

	var sink []any
	e := runTracked(rt, func() {
		sink = append(sink, obj.Get("a"))
	})
	assert.Equal(t, []any{1}, sink)

	obj.Set("a", 2)
	e.Run()
	assert.Equal(t, []any{1, 2}, sink)

	e.Stop()
	obj.Set("a", 3)
	assert.Equal(t, []any{1, 2}, sink, "a stopped effect keeps no edges, so it never re-runs from this trigger")
}

func TestObjectHasAndKeysTrackIterate(t *testing.T) {
	rt := NewRuntime()
	obj := NewObject(rt, map[string]any{"a": 1})

	hasRuns := 0
	runTracked(rt, func() {
		hasRuns++
		obj.Has("missing")
	})
	assert.Equal(t, 1, hasRuns)

	keysRuns := 0
	var lastKeys []string
	runTracked(rt, func() {
		keysRuns++
		lastKeys = obj.Keys()
	})
	assert.ElementsMatch(t, []string{"a"}, lastKeys)
	assert.Equal(t, 1, keysRuns)

	obj.Set("b", 2)
	dep, ok := rt.targetMap.GetDep(obj.core, IterateKey)
	assert.True(t, ok)
	assert.Equal(t, 1, dep.Len(), "adding a new key must notify whole-object iteration subscribers")
}

func TestObjectDeleteTriggers(t *testing.T) {
	rt := NewRuntime()
	obj := NewObject(rt, map[string]any{"a": 1})

	var sink []any
	e := runTracked(rt, func() { sink = append(sink, obj.Get("a")) })

	obj.Delete("a")
	assert.Equal(t, Dirty, e.DirtyLevel())
	dep, ok := rt.targetMap.GetDep(obj.core, "a")
	assert.True(t, ok)
	assert.Equal(t, 1, dep.Len(), "the dep survives deletion until unsubscribed by the next run")
}

func TestReadonlyObjectRejectsWrites(t *testing.T) {
	rt := NewRuntime()
	obj := NewReadonlyObject(rt, map[string]any{"a": 1})

	obj.Set("a", 2)
	assert.Equal(t, 1, obj.Get("a"))

	obj.Delete("a")
	assert.Equal(t, 1, obj.Get("a"))
}

func TestReadonlyObjectNeverTracks(t *testing.T) {
	rt := NewRuntime()
	obj := NewReadonlyObject(rt, map[string]any{"a": 1})

	runTracked(rt, func() { obj.Get("a") })

	_, ok := rt.targetMap.GetDep(obj.core, "a")
	assert.False(t, ok, "readonly reads never call track")
}

func TestObjectNestedWrappingIsStableAcrossReads(t *testing.T) {
	rt := NewRuntime()
	obj := NewObject(rt, map[string]any{
		"child": map[string]any{"x": 1},
	})

	first := obj.Get("child")
	second := obj.Get("child")

	assert.Same(t, first, second, "repeated reads of the same nested raw value return the identical wrapper")
}

func TestShallowObjectDoesNotWrapNested(t *testing.T) {
	rt := NewRuntime()
	obj := NewShallowObject(rt, map[string]any{
		"child": map[string]any{"x": 1},
	})

	v := obj.Get("child")
	_, isObject := v.(*Object)
	assert.False(t, isObject)
	_, isMap := v.(map[string]any)
	assert.True(t, isMap)
}
