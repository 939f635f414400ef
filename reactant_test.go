package reactant_test

import (
	"testing"

	"github.com/riftloom/reactant"
	"github.com/stretchr/testify/assert"
)

func TestBasicTracking(t *testing.T) {
	w := reactant.NewObject(map[string]any{"a": 1})

	var sink []int
	runner := reactant.Effect(func() {
		sink = append(sink, w.Get("a").(int))
	})
	assert.Equal(t, []int{1}, sink)

	w.Set("a", 2)
	<-reactant.NextTick(nil)
	assert.Equal(t, []int{1, 2}, sink)

	reactant.Stop(runner)
	w.Set("a", 3)
	<-reactant.NextTick(nil)
	assert.Equal(t, []int{1, 2}, sink)
}

func TestDependencySwap(t *testing.T) {
	w := reactant.NewObject(map[string]any{"x": 1, "y": 10, "flag": true})

	var sink []int
	reactant.Effect(func() {
		if w.Get("flag").(bool) {
			sink = append(sink, w.Get("x").(int))
		} else {
			sink = append(sink, w.Get("y").(int))
		}
	})
	assert.Equal(t, []int{1}, sink)

	w.Set("y", 11)
	<-reactant.NextTick(nil)
	assert.Equal(t, []int{1}, sink, "no edge to y while flag is true")

	w.Set("flag", false)
	<-reactant.NextTick(nil)
	assert.Equal(t, []int{1, 11}, sink)

	w.Set("x", 99)
	<-reactant.NextTick(nil)
	assert.Equal(t, []int{1, 11}, sink, "the edge to x was cleaned up on the last run")
}

func TestArrayLength(t *testing.T) {
	a := reactant.NewArray([]int{10, 20, 30})

	var sink []int
	reactant.Effect(func() {
		sink = append(sink, a.Get(1))
	})
	assert.Equal(t, []int{20}, sink)

	a.SetLen(1)
	<-reactant.NextTick(nil)
	assert.Equal(t, []int{20, 0}, sink)
}

// Scheduler ordering, post-flush-after-main, and the recursion limit are
// exercised deterministically in internal/scheduler_test.go (direct calls
// into the scheduler's flush loop); driving them through QueueJob here
// would race the background flush goroutine against the still-in-progress
// burst of enqueues, since nothing serializes them the way a single
// JavaScript call stack would.

func TestComputedRecomputesOnDependencyChange(t *testing.T) {
	w := reactant.NewObject(map[string]any{"count": 1})

	c := reactant.NewComputed(func() int {
		return w.Get("count").(int) * 2
	})
	assert.Equal(t, 2, c.Read())

	w.Set("count", 5)
	assert.Equal(t, 10, c.Read())
}

func TestScopeDisposeStopsEffects(t *testing.T) {
	w := reactant.NewObject(map[string]any{"a": 1})
	scope := reactant.NewScope()

	runs := 0
	reactant.Effect(func() {
		runs++
		w.Get("a")
	}, reactant.WithScope(scope))
	assert.Equal(t, 1, runs)

	scope.Dispose()

	w.Set("a", 2)
	<-reactant.NextTick(nil)
	assert.Equal(t, 1, runs, "a disposed scope's effect must not re-run")
}

func TestReadonlyObjectRejectsWrites(t *testing.T) {
	w := reactant.NewReadonlyObject(map[string]any{"a": 1})
	w.Set("a", 2)
	assert.Equal(t, 1, w.Get("a"))
}
