package reactant

import "github.com/riftloom/reactant/internal"

// Object is a reactive record keyed by string.
type Object struct {
	rt  *internal.Runtime
	obj *internal.Object
}

func newObjectHandle(obj *internal.Object) *Object {
	return &Object{rt: internal.GetRuntime(), obj: obj}
}

// NewObject creates a mutable, deep reactive object from initial.
func NewObject(initial map[string]any) *Object {
	rt := internal.GetRuntime()
	var obj *internal.Object
	rt.Do(func() { obj = internal.NewObject(rt, initial) })
	return &Object{rt: rt, obj: obj}
}

// NewShallowObject creates a mutable, shallow reactive object.
func NewShallowObject(initial map[string]any) *Object {
	rt := internal.GetRuntime()
	var obj *internal.Object
	rt.Do(func() { obj = internal.NewShallowObject(rt, initial) })
	return &Object{rt: rt, obj: obj}
}

// NewReadonlyObject creates a read-only, deep reactive object.
func NewReadonlyObject(initial map[string]any) *Object {
	rt := internal.GetRuntime()
	var obj *internal.Object
	rt.Do(func() { obj = internal.NewReadonlyObject(rt, initial) })
	return &Object{rt: rt, obj: obj}
}

// NewShallowReadonlyObject creates a read-only, shallow reactive object.
func NewShallowReadonlyObject(initial map[string]any) *Object {
	rt := internal.GetRuntime()
	var obj *internal.Object
	rt.Do(func() { obj = internal.NewShallowReadonlyObject(rt, initial) })
	return &Object{rt: rt, obj: obj}
}

// AsReadonly returns a readonly view of the same underlying data.
func (o *Object) AsReadonly() *Object {
	var out *Object
	o.rt.Do(func() { out = newObjectHandle(o.obj.AsReadonly()) })
	return out
}

// AsShallow returns a shallow view of the same underlying data.
func (o *Object) AsShallow() *Object {
	var out *Object
	o.rt.Do(func() { out = newObjectHandle(o.obj.AsShallow()) })
	return out
}

// Get reads key, tracking the dependency when called from inside an Effect.
func (o *Object) Get(key string) any {
	var v any
	o.rt.Do(func() { v = o.obj.Get(key) })
	return v
}

// Set writes key=value.
func (o *Object) Set(key string, value any) {
	o.rt.Do(func() { o.obj.Set(key, value) })
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	var ok bool
	o.rt.Do(func() { ok = o.obj.Has(key) })
	return ok
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	o.rt.Do(func() { o.obj.Delete(key) })
}

// Keys returns the object's own keys, tracking a whole-object iteration.
func (o *Object) Keys() []string {
	var keys []string
	o.rt.Do(func() { keys = o.obj.Keys() })
	return keys
}

// Array is a reactive, ordered, integer-indexed list of T.
type Array[T any] struct {
	rt  *internal.Runtime
	arr *internal.Array[T]
}

// NewArray creates a mutable, deep reactive array from initial.
func NewArray[T any](initial []T) *Array[T] {
	rt := internal.GetRuntime()
	var arr *internal.Array[T]
	rt.Do(func() { arr = internal.NewArray(rt, initial) })
	return &Array[T]{rt: rt, arr: arr}
}

// NewShallowArray creates a mutable, shallow reactive array.
func NewShallowArray[T any](initial []T) *Array[T] {
	rt := internal.GetRuntime()
	var arr *internal.Array[T]
	rt.Do(func() { arr = internal.NewShallowArray(rt, initial) })
	return &Array[T]{rt: rt, arr: arr}
}

// NewReadonlyArray creates a read-only, deep reactive array.
func NewReadonlyArray[T any](initial []T) *Array[T] {
	rt := internal.GetRuntime()
	var arr *internal.Array[T]
	rt.Do(func() { arr = internal.NewReadonlyArray(rt, initial) })
	return &Array[T]{rt: rt, arr: arr}
}

// AsReadonly returns a readonly view of the same underlying data.
func (a *Array[T]) AsReadonly() *Array[T] {
	var out *Array[T]
	a.rt.Do(func() { out = &Array[T]{rt: a.rt, arr: a.arr.AsReadonly()} })
	return out
}

// AsShallow returns a shallow view of the same underlying data.
func (a *Array[T]) AsShallow() *Array[T] {
	var out *Array[T]
	a.rt.Do(func() { out = &Array[T]{rt: a.rt, arr: a.arr.AsShallow()} })
	return out
}

// Len returns the current length, tracking the length key.
func (a *Array[T]) Len() int {
	var n int
	a.rt.Do(func() { n = a.arr.Len() })
	return n
}

// Get reads index i, tracking the numeric key.
func (a *Array[T]) Get(i int) T {
	var v T
	a.rt.Do(func() { v = a.arr.Get(i) })
	return v
}

// Set writes index i=value.
func (a *Array[T]) Set(i int, value T) {
	a.rt.Do(func() { a.arr.Set(i, value) })
}

// SetLen truncates or grows the array to n.
func (a *Array[T]) SetLen(n int) {
	a.rt.Do(func() { a.arr.SetLen(n) })
}

// Push appends values, returning the new length.
func (a *Array[T]) Push(values ...T) int {
	var n int
	a.rt.Do(func() { n = a.arr.Push(values...) })
	return n
}

// Pop removes and returns the last element.
func (a *Array[T]) Pop() (T, bool) {
	var v T
	var ok bool
	a.rt.Do(func() { v, ok = a.arr.Pop() })
	return v, ok
}

// Shift removes and returns the first element.
func (a *Array[T]) Shift() (T, bool) {
	var v T
	var ok bool
	a.rt.Do(func() { v, ok = a.arr.Shift() })
	return v, ok
}

// Unshift prepends values, returning the new length.
func (a *Array[T]) Unshift(values ...T) int {
	var n int
	a.rt.Do(func() { n = a.arr.Unshift(values...) })
	return n
}

// Splice removes deleteCount elements starting at start and inserts values
// in their place, returning the removed elements.
func (a *Array[T]) Splice(start, deleteCount int, values ...T) []T {
	var removed []T
	a.rt.Do(func() { removed = a.arr.Splice(start, deleteCount, values...) })
	return removed
}

// Includes reports whether target is present, using eq for comparison.
func (a *Array[T]) Includes(target T, eq func(T, T) bool) bool {
	var ok bool
	a.rt.Do(func() { ok = a.arr.Includes(target, eq) })
	return ok
}

// IndexOf returns the first index of target, or -1.
func (a *Array[T]) IndexOf(target T, eq func(T, T) bool) int {
	var i int
	a.rt.Do(func() { i = a.arr.IndexOf(target, eq) })
	return i
}

// LastIndexOf returns the last index of target, or -1.
func (a *Array[T]) LastIndexOf(target T, eq func(T, T) bool) int {
	var i int
	a.rt.Do(func() { i = a.arr.LastIndexOf(target, eq) })
	return i
}

// Collection is a reactive Map-like container keyed by any comparable K.
type Collection[K comparable, V any] struct {
	rt  *internal.Runtime
	col *internal.Collection[K, V]
}

// NewCollection creates a mutable, deep reactive Map-like collection.
func NewCollection[K comparable, V any](initial map[K]V) *Collection[K, V] {
	rt := internal.GetRuntime()
	var col *internal.Collection[K, V]
	rt.Do(func() { col = internal.NewCollection(rt, initial) })
	return &Collection[K, V]{rt: rt, col: col}
}

// NewShallowCollection creates a mutable, shallow reactive collection.
func NewShallowCollection[K comparable, V any](initial map[K]V) *Collection[K, V] {
	rt := internal.GetRuntime()
	var col *internal.Collection[K, V]
	rt.Do(func() { col = internal.NewShallowCollection(rt, initial) })
	return &Collection[K, V]{rt: rt, col: col}
}

// NewReadonlyCollection creates a read-only, deep reactive collection.
func NewReadonlyCollection[K comparable, V any](initial map[K]V) *Collection[K, V] {
	rt := internal.GetRuntime()
	var col *internal.Collection[K, V]
	rt.Do(func() { col = internal.NewReadonlyCollection(rt, initial) })
	return &Collection[K, V]{rt: rt, col: col}
}

// AsReadonly returns a readonly view of the same underlying data.
func (c *Collection[K, V]) AsReadonly() *Collection[K, V] {
	var out *Collection[K, V]
	c.rt.Do(func() { out = &Collection[K, V]{rt: c.rt, col: c.col.AsReadonly()} })
	return out
}

// AsShallow returns a shallow view of the same underlying data.
func (c *Collection[K, V]) AsShallow() *Collection[K, V] {
	var out *Collection[K, V]
	c.rt.Do(func() { out = &Collection[K, V]{rt: c.rt, col: c.col.AsShallow()} })
	return out
}

// Get reads the value stored at key, tracking it.
func (c *Collection[K, V]) Get(key K) (V, bool) {
	var v V
	var ok bool
	c.rt.Do(func() { v, ok = c.col.Get(key) })
	return v, ok
}

// Has reports whether key is present.
func (c *Collection[K, V]) Has(key K) bool {
	var ok bool
	c.rt.Do(func() { ok = c.col.Has(key) })
	return ok
}

// Size returns the entry count, tracking the whole-collection iterate key.
func (c *Collection[K, V]) Size() int {
	var n int
	c.rt.Do(func() { n = c.col.Size() })
	return n
}

// Keys returns the key set in insertion order.
func (c *Collection[K, V]) Keys() []K {
	var keys []K
	c.rt.Do(func() { keys = c.col.Keys() })
	return keys
}

// Range visits every entry in insertion order.
func (c *Collection[K, V]) Range(fn func(K, V)) {
	c.rt.Do(func() { c.col.Range(fn) })
}

// Set writes key=value.
func (c *Collection[K, V]) Set(key K, value V) {
	c.rt.Do(func() { c.col.Set(key, value) })
}

// Delete removes key if present, reporting whether it was present.
func (c *Collection[K, V]) Delete(key K) bool {
	var removed bool
	c.rt.Do(func() { removed = c.col.Delete(key) })
	return removed
}

// Clear empties the collection.
func (c *Collection[K, V]) Clear() {
	c.rt.Do(func() { c.col.Clear() })
}
