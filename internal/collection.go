package internal

// collectionCore is the shared, identity-bearing payload behind every
// variant view of the same reactive map-like collection (mirrors
// objectCore/arrayCore).
type collectionCore[K comparable, V any] struct {
	data map[K]V
	// order preserves insertion order for Range/Keys, the way a real
	// Map's iteration order is insertion order rather than map-random.
	order []K
}

// Collection is a reactive Map-like container keyed by any comparable K —
// a Map/Set-style collection, which
// distinguishes a key-presence iteration (MAP_KEY_ITERATE_KEY) from a
// whole-entry iteration (ITERATE_KEY) the way Object's plain keys don't
// need to.
type Collection[K comparable, V any] struct {
	rt       *Runtime
	core     *collectionCore[K, V]
	readonly bool
	shallow  bool
}

func (*Collection[K, V]) isWrappedReactive() {}

func newCollectionView[K comparable, V any](rt *Runtime, core *collectionCore[K, V], readonly, shallow bool) *Collection[K, V] {
	return &Collection[K, V]{rt: rt, core: core, readonly: readonly, shallow: shallow}
}

func newCollectionCore[K comparable, V any](initial map[K]V) *collectionCore[K, V] {
	core := &collectionCore[K, V]{data: make(map[K]V, len(initial))}
	for k, v := range initial {
		core.data[k] = v
		core.order = append(core.order, k)
	}
	return core
}

// NewCollection creates a mutable, deep reactive Map-like collection.
func NewCollection[K comparable, V any](rt *Runtime, initial map[K]V) *Collection[K, V] {
	return newCollectionView(rt, newCollectionCore(initial), false, false)
}

// NewShallowCollection creates a mutable, shallow reactive collection.
func NewShallowCollection[K comparable, V any](rt *Runtime, initial map[K]V) *Collection[K, V] {
	return newCollectionView(rt, newCollectionCore(initial), false, true)
}

// NewReadonlyCollection creates a read-only, deep reactive collection.
func NewReadonlyCollection[K comparable, V any](rt *Runtime, initial map[K]V) *Collection[K, V] {
	return newCollectionView(rt, newCollectionCore(initial), true, false)
}

// NewShallowReadonlyCollection creates a read-only, shallow reactive
// collection.
func NewShallowReadonlyCollection[K comparable, V any](rt *Runtime, initial map[K]V) *Collection[K, V] {
	return newCollectionView(rt, newCollectionCore(initial), true, true)
}

// AsReadonly returns a readonly view sharing the same underlying core.
func (c *Collection[K, V]) AsReadonly() *Collection[K, V] {
	return newCollectionView(c.rt, c.core, true, c.shallow)
}

// AsShallow returns a shallow view sharing the same underlying core.
func (c *Collection[K, V]) AsShallow() *Collection[K, V] {
	return newCollectionView(c.rt, c.core, c.readonly, true)
}

func (c *Collection[K, V]) rejectWrite(key any) {
	if c.rt.DevMode() {
		c.rt.reportError("write on readonly collection rejected", ErrorInfo{Code: ErrCodeScheduler, Context: key})
	}
}

// Get reads the value stored at key, tracking it. Deep mode lazily wraps a
// nested plain map/slice value.
func (c *Collection[K, V]) Get(key K) (V, bool) {
	v, ok := c.core.data[key]
	if !c.readonly {
		Track(c.rt, c.core, OpGet, key)
	}
	if !ok {
		var zero V
		return zero, false
	}
	if c.shallow {
		return v, true
	}
	if wrapped, ok2 := any(c.rt.wrapNested(any(v), c.readonly)).(V); ok2 {
		return wrapped, true
	}
	return v, true
}

// Has reports whether key is present, tracking a HAS access.
func (c *Collection[K, V]) Has(key K) bool {
	_, ok := c.core.data[key]
	if !c.readonly {
		Track(c.rt, c.core, OpHas, key)
	}
	return ok
}

// Size returns the entry count, tracking the whole-collection iterate key
// (adding or removing any entry changes the size).
func (c *Collection[K, V]) Size() int {
	if !c.readonly {
		Track(c.rt, c.core, OpIterate, IterateKey)
	}
	return len(c.core.data)
}

// Keys returns the key set in insertion order, tracking a MAP_KEY_ITERATE
// access distinct from a whole-entry iteration.
func (c *Collection[K, V]) Keys() []K {
	if !c.readonly {
		Track(c.rt, c.core, OpIterate, MapKeyIterateKey)
	}
	out := make([]K, len(c.core.order))
	copy(out, c.core.order)
	return out
}

// Range visits every entry in insertion order, tracking a whole-entry
// iteration.
func (c *Collection[K, V]) Range(fn func(K, V)) {
	if !c.readonly {
		Track(c.rt, c.core, OpIterate, IterateKey)
	}
	for _, k := range c.core.order {
		fn(k, c.core.data[k])
	}
}

// Set writes key=value, triggering ADD for a new key or SET for an
// existing one.
func (c *Collection[K, V]) Set(key K, value V) {
	if c.readonly {
		c.rejectWrite(key)
		return
	}

	old, had := c.core.data[key]
	c.core.data[key] = value
	if !had {
		c.core.order = append(c.core.order, key)
		Trigger(c.rt, c.core, OpAdd, key, value, nil, false, true, 0)
		return
	}
	Trigger(c.rt, c.core, OpSet, key, value, old, false, true, 0)
}

// Delete removes key if present, triggering DELETE.
func (c *Collection[K, V]) Delete(key K) bool {
	if c.readonly {
		c.rejectWrite(key)
		return false
	}

	old, had := c.core.data[key]
	if !had {
		return false
	}
	delete(c.core.data, key)
	for i, k := range c.core.order {
		if k == key {
			c.core.order = append(c.core.order[:i], c.core.order[i+1:]...)
			break
		}
	}
	Trigger(c.rt, c.core, OpDelete, key, nil, old, false, true, 0)
	return true
}

// Clear empties the collection, triggering CLEAR — every dep registered
// under this target fires, the mass-invalidation case.
func (c *Collection[K, V]) Clear() {
	if c.readonly {
		c.rejectWrite(nil)
		return
	}
	if len(c.core.data) == 0 {
		return
	}
	c.core.data = make(map[K]V)
	c.core.order = nil
	Trigger(c.rt, c.core, OpClear, nil, nil, nil, false, true, 0)
}
