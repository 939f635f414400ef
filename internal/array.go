package internal

import "reflect"

// arrayCore is the shared, identity-bearing payload behind every variant
// view of the same reactive array (mirrors objectCore).
type arrayCore[T any] struct {
	items []T
}

// Array is a reactive, ordered, integer-indexed list. Index reads/writes
// track/trigger by numeric key; length-affecting methods track/trigger the
// dedicated length key, the same two-level scheme Object uses.
type Array[T any] struct {
	rt       *Runtime
	core     *arrayCore[T]
	readonly bool
	shallow  bool
}

func (*Array[T]) isWrappedReactive() {}

func newArrayView[T any](rt *Runtime, core *arrayCore[T], readonly, shallow bool) *Array[T] {
	return &Array[T]{rt: rt, core: core, readonly: readonly, shallow: shallow}
}

func newArrayCore[T any](initial []T) *arrayCore[T] {
	items := make([]T, len(initial))
	copy(items, initial)
	return &arrayCore[T]{items: items}
}

// NewArray creates a mutable, deep reactive array from initial.
func NewArray[T any](rt *Runtime, initial []T) *Array[T] {
	return newArrayView(rt, newArrayCore(initial), false, false)
}

// NewShallowArray creates a mutable, shallow reactive array.
func NewShallowArray[T any](rt *Runtime, initial []T) *Array[T] {
	return newArrayView(rt, newArrayCore(initial), false, true)
}

// NewReadonlyArray creates a read-only, deep reactive array.
func NewReadonlyArray[T any](rt *Runtime, initial []T) *Array[T] {
	return newArrayView(rt, newArrayCore(initial), true, false)
}

// NewShallowReadonlyArray creates a read-only, shallow reactive array.
func NewShallowReadonlyArray[T any](rt *Runtime, initial []T) *Array[T] {
	return newArrayView(rt, newArrayCore(initial), true, true)
}

// AsReadonly returns a readonly view sharing the same underlying core.
func (a *Array[T]) AsReadonly() *Array[T] {
	return newArrayView(a.rt, a.core, true, a.shallow)
}

// AsShallow returns a shallow view sharing the same underlying core.
func (a *Array[T]) AsShallow() *Array[T] {
	return newArrayView(a.rt, a.core, a.readonly, true)
}

func (a *Array[T]) track(key any) {
	if !a.readonly {
		Track(a.rt, a.core, OpGet, key)
	}
}

func (a *Array[T]) trigger(typ TriggerOpType, key any, newValue, oldValue T, newLength int) {
	Trigger(a.rt, a.core, typ, key, newValue, oldValue, true, false, newLength)
}

// Len returns the current length, tracking the length key.
func (a *Array[T]) Len() int {
	a.track(LengthKey)
	return len(a.core.items)
}

// Get reads index i (out-of-range returns the zero value of T), tracking
// the numeric key. Deep mode lazily wraps a nested plain map/slice value.
func (a *Array[T]) Get(i int) T {
	a.track(i)

	var zero T
	if i < 0 || i >= len(a.core.items) {
		return zero
	}
	v := a.core.items[i]

	if a.shallow {
		return v
	}

	if wrapped, ok := any(a.rt.wrapNested(any(v), a.readonly)).(T); ok {
		return wrapped
	}
	return v
}

// Has reports whether index i is within bounds, tracking it as a HAS
// access — the "has" trap applied to the ordinal key.
func (a *Array[T]) Has(i int) bool {
	if !a.readonly {
		Track(a.rt, a.core, OpHas, i)
	}
	return i >= 0 && i < len(a.core.items)
}

// Set writes index i=value. Growing past the current length is rejected
// (use Push/SetLen instead) — a numeric index beyond the current length
// is routed through the dedicated length-affecting methods rather than a
// bare index write.
func (a *Array[T]) Set(i int, value T) {
	if a.readonly {
		a.rejectWrite(i)
		return
	}
	if i < 0 || i >= len(a.core.items) {
		return
	}

	old := a.core.items[i]
	a.core.items[i] = value
	a.trigger(OpSet, i, value, old, len(a.core.items))
}

func (a *Array[T]) rejectWrite(key any) {
	if a.rt.DevMode() {
		a.rt.reportError("write on readonly array rejected", ErrorInfo{Code: ErrCodeScheduler, Context: key})
	}
}

// SetLen truncates or grows the array to n, zero-filling on growth.
// Triggers a length-keyed SET, which affectedDeps resolves into the length
// dep plus every index dep at or beyond the new length.
func (a *Array[T]) SetLen(n int) {
	if a.readonly {
		a.rejectWrite(LengthKey)
		return
	}
	if n < 0 || n == len(a.core.items) {
		return
	}

	oldLen := len(a.core.items)

	a.rt.PauseTracking()
	a.rt.PauseScheduling()
	if n < oldLen {
		a.core.items = a.core.items[:n]
	} else {
		grown := make([]T, n)
		copy(grown, a.core.items)
		a.core.items = grown
	}
	a.rt.ResetTracking()

	Trigger(a.rt, a.core, OpSet, LengthKey, n, oldLen, true, false, n)
	a.rt.ResetScheduling()
}

// Push appends values, growing the length once and triggering one ADD per
// appended index plus the length change — paired
// pauseTracking/pauseScheduling around the mutation so the method's own
// internal length bookkeeping never tracks against itself or fires more
// than the one logical batch of effect notifications the caller would
// expect from one Push call.
func (a *Array[T]) Push(values ...T) int {
	if a.readonly || len(values) == 0 {
		if a.readonly {
			a.rejectWrite(LengthKey)
		}
		return len(a.core.items)
	}

	a.rt.PauseTracking()
	a.rt.PauseScheduling()

	start := len(a.core.items)
	a.core.items = append(a.core.items, values...)
	newLen := len(a.core.items)

	a.rt.ResetTracking()

	for i, v := range values {
		var zero T
		Trigger(a.rt, a.core, OpAdd, start+i, v, zero, true, false, newLen)
	}
	Trigger(a.rt, a.core, OpSet, LengthKey, newLen, start, true, false, newLen)

	a.rt.ResetScheduling()
	return newLen
}

// Pop removes and returns the last element (ok is false on an empty
// array), triggering a DELETE at the vacated index plus the length change.
func (a *Array[T]) Pop() (value T, ok bool) {
	if a.readonly {
		a.rejectWrite(LengthKey)
		return
	}
	n := len(a.core.items)
	if n == 0 {
		return
	}

	a.rt.PauseTracking()
	a.rt.PauseScheduling()

	last := a.core.items[n-1]
	a.core.items = a.core.items[:n-1]

	a.rt.ResetTracking()

	var zero T
	Trigger(a.rt, a.core, OpDelete, n-1, zero, last, true, false, n-1)
	Trigger(a.rt, a.core, OpSet, LengthKey, n-1, n, true, false, n-1)

	a.rt.ResetScheduling()
	return last, true
}

// Shift removes and returns the first element, shifting every remaining
// element down one index. Every index dep is affected (each index's value
// moved), so this triggers a SET per shifted index in addition to the
// length change — the most expensive class of array mutation in terms of
// deps fired.
func (a *Array[T]) Shift() (value T, ok bool) {
	if a.readonly {
		a.rejectWrite(0)
		return
	}
	n := len(a.core.items)
	if n == 0 {
		return
	}

	a.rt.PauseTracking()
	a.rt.PauseScheduling()

	first := a.core.items[0]
	a.core.items = a.core.items[1:]
	a.core.items = append([]T{}, a.core.items...)

	a.rt.ResetTracking()

	for i := 0; i < n-1; i++ {
		Trigger(a.rt, a.core, OpSet, i, a.core.items[i], first, true, false, n-1)
	}
	var zero T
	Trigger(a.rt, a.core, OpDelete, n-1, zero, first, true, false, n-1)
	Trigger(a.rt, a.core, OpSet, LengthKey, n-1, n, true, false, n-1)

	a.rt.ResetScheduling()
	return first, true
}

// Unshift prepends values, shifting every existing element up.
func (a *Array[T]) Unshift(values ...T) int {
	if a.readonly || len(values) == 0 {
		if a.readonly {
			a.rejectWrite(0)
		}
		return len(a.core.items)
	}

	a.rt.PauseTracking()
	a.rt.PauseScheduling()

	oldLen := len(a.core.items)
	grown := make([]T, 0, oldLen+len(values))
	grown = append(grown, values...)
	grown = append(grown, a.core.items...)
	a.core.items = grown
	newLen := len(a.core.items)

	a.rt.ResetTracking()

	for i := 0; i < newLen; i++ {
		var old T
		Trigger(a.rt, a.core, OpSet, i, a.core.items[i], old, true, false, newLen)
	}
	Trigger(a.rt, a.core, OpSet, LengthKey, newLen, oldLen, true, false, newLen)

	a.rt.ResetScheduling()
	return newLen
}

// Splice removes deleteCount elements starting at start and inserts
// values in their place, returning the removed elements.
func (a *Array[T]) Splice(start, deleteCount int, values ...T) []T {
	if a.readonly {
		a.rejectWrite(start)
		return nil
	}

	n := len(a.core.items)
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if start+deleteCount > n {
		deleteCount = n - start
	}

	a.rt.PauseTracking()
	a.rt.PauseScheduling()

	removed := append([]T{}, a.core.items[start:start+deleteCount]...)

	tail := append([]T{}, a.core.items[start+deleteCount:]...)
	merged := append([]T{}, a.core.items[:start]...)
	merged = append(merged, values...)
	merged = append(merged, tail...)
	a.core.items = merged
	newLen := len(a.core.items)

	a.rt.ResetTracking()

	for i := start; i < newLen; i++ {
		var old T
		Trigger(a.rt, a.core, OpSet, i, a.core.items[i], old, true, false, newLen)
	}
	if newLen != n {
		Trigger(a.rt, a.core, OpSet, LengthKey, newLen, n, true, false, newLen)
	}

	a.rt.ResetScheduling()
	return removed
}

// Includes, IndexOf and LastIndexOf track every index because they must
// scan the full backing slice regardless of where a match is found; an
// effect reading only the result still depends on every element.
func (a *Array[T]) Includes(target T, eq func(T, T) bool) bool {
	return a.IndexOf(target, eq) >= 0
}

func (a *Array[T]) IndexOf(target T, eq func(T, T) bool) int {
	a.trackAll()
	for i, v := range a.core.items {
		if eq(v, target) {
			return i
		}
	}
	return -1
}

func (a *Array[T]) LastIndexOf(target T, eq func(T, T) bool) int {
	a.trackAll()
	for i := len(a.core.items) - 1; i >= 0; i-- {
		if eq(a.core.items[i], target) {
			return i
		}
	}
	return -1
}

func (a *Array[T]) trackAll() {
	if a.readonly {
		return
	}
	for i := range a.core.items {
		Track(a.rt, a.core, OpGet, i)
	}
	Track(a.rt, a.core, OpGet, LengthKey)
}

func (r *Runtime) wrapNestedArray(s []any, readonly bool) *Array[any] {
	key := nestedWrapKey{ptr: reflect.ValueOf(s).Pointer(), readonly: readonly}
	if cached, ok := r.nestedCache[key]; ok {
		return cached.(*Array[any])
	}

	view := newArrayView[any](r, &arrayCore[any]{items: s}, readonly, false)
	if r.nestedCache == nil {
		r.nestedCache = make(map[nestedWrapKey]any)
	}
	r.nestedCache[key] = view
	return view
}
