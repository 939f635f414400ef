package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectionSetTriggersKey(t *testing.T) {
	rt := NewRuntime()
	col := NewCollection(rt, map[string]int{"a": 1})

	var sink []int
	e := runTracked(rt, func() {
		v, _ := col.Get("a")
		sink = append(sink, v)
	})
	assert.Equal(t, []int{1}, sink)

	col.Set("a", 2)
	assert.Equal(t, Dirty, e.DirtyLevel())
	e.Run()
	assert.Equal(t, []int{1, 2}, sink)
}

func TestCollectionKeysTracksMapKeyIterate(t *testing.T) {
	rt := NewRuntime()
	col := NewCollection(rt, map[string]int{"a": 1})

	runTracked(rt, func() { col.Keys() })

	_, ok := rt.targetMap.GetDep(col.core, MapKeyIterateKey)
	assert.True(t, ok)
	_, ok = rt.targetMap.GetDep(col.core, IterateKey)
	assert.False(t, ok, "Keys tracks the key-set iteration, distinct from a whole-entry iteration")
}

func TestCollectionRangeTracksIterate(t *testing.T) {
	rt := NewRuntime()
	col := NewCollection(rt, map[string]int{"a": 1})

	runTracked(rt, func() { col.Range(func(string, int) {}) })

	_, ok := rt.targetMap.GetDep(col.core, IterateKey)
	assert.True(t, ok)
}

func TestCollectionClearTriggersEveryDep(t *testing.T) {
	rt := NewRuntime()
	col := NewCollection(rt, map[string]int{"a": 1, "b": 2})

	var aRuns, bRuns int
	e1 := runTracked(rt, func() { aRuns++; col.Get("a") })
	e2 := runTracked(rt, func() { bRuns++; col.Get("b") })

	col.Clear()
	assert.Equal(t, Dirty, e1.DirtyLevel())
	assert.Equal(t, Dirty, e2.DirtyLevel())
	e1.Run()
	e2.Run()

	assert.Equal(t, 2, aRuns)
	assert.Equal(t, 2, bRuns)
	assert.Equal(t, 0, col.Size())
}

func TestCollectionDeleteReportsPresence(t *testing.T) {
	rt := NewRuntime()
	col := NewCollection(rt, map[string]int{"a": 1})

	assert.True(t, col.Delete("a"))
	assert.False(t, col.Delete("a"))
}

func TestReadonlyCollectionRejectsWrites(t *testing.T) {
	rt := NewRuntime()
	col := NewReadonlyCollection(rt, map[string]int{"a": 1})

	col.Set("a", 2)
	v, _ := col.Get("a")
	assert.Equal(t, 1, v)

	col.Clear()
	assert.Equal(t, 1, col.Size())
}
