package internal

import "reflect"

// Wrapped marks a value as already one of this package's reactive
// container wrappers, so nested-value wrapping (see wrapNested) returns it
// as-is instead of trying to wrap it again.
type Wrapped interface {
	isWrappedReactive()
}

// objectCore is the shared, identity-bearing payload behind every variant
// view of the same reactive object. The core pointer is the target map key,
// since reactant's wrapper stores its own data rather than proxying a
// separate host object.
type objectCore struct {
	data map[string]any
}

// Object is a reactive record keyed by string — a plain object keyed by
// arbitrary property names. readonly and shallow select one of the four
// trap variants against a shared method table rather than inheritance.
type Object struct {
	rt       *Runtime
	core     *objectCore
	readonly bool
	shallow  bool
}

func (*Object) isWrappedReactive() {}

func newObjectView(rt *Runtime, core *objectCore, readonly, shallow bool) *Object {
	return &Object{rt: rt, core: core, readonly: readonly, shallow: shallow}
}

func newObjectCore(initial map[string]any) *objectCore {
	data := make(map[string]any, len(initial))
	for k, v := range initial {
		data[k] = v
	}
	return &objectCore{data: data}
}

// NewObject creates a mutable, deep reactive object from initial.
func NewObject(rt *Runtime, initial map[string]any) *Object {
	return newObjectView(rt, newObjectCore(initial), false, false)
}

// NewShallowObject creates a mutable, shallow reactive object: only
// top-level keys are tracked, nested values are returned unwrapped.
func NewShallowObject(rt *Runtime, initial map[string]any) *Object {
	return newObjectView(rt, newObjectCore(initial), false, true)
}

// NewReadonlyObject creates a read-only, deep reactive object. Writes are
// rejected.
func NewReadonlyObject(rt *Runtime, initial map[string]any) *Object {
	return newObjectView(rt, newObjectCore(initial), true, false)
}

// NewShallowReadonlyObject creates a read-only, shallow reactive object.
func NewShallowReadonlyObject(rt *Runtime, initial map[string]any) *Object {
	return newObjectView(rt, newObjectCore(initial), true, true)
}

// AsReadonly returns a readonly view of the same underlying data, sharing
// the same target map entry (mutations through any mutable view are still
// visible by re-reading through this view; Get simply never tracks from a
// readonly view, matching Vue's own createGetter(isReadonly=true)).
func (o *Object) AsReadonly() *Object {
	return newObjectView(o.rt, o.core, true, o.shallow)
}

// AsShallow returns a shallow view of the same underlying data.
func (o *Object) AsShallow() *Object {
	return newObjectView(o.rt, o.core, o.readonly, true)
}

// Get reads key, tracking the dependency (unless this view is readonly)
// and, in deep mode, lazily wrapping a nested plain map/slice value the
// first time it's read so repeated reads return the same wrapper.
func (o *Object) Get(key string) any {
	v, hadKey := o.core.data[key]

	if key == "hasOwnProperty" {
		return o.Has
	}

	if !o.readonly {
		Track(o.rt, o.core, OpGet, key)
	}

	if !hadKey {
		return nil
	}

	if o.shallow {
		return v
	}

	return o.rt.wrapNested(v, o.readonly)
}

// Has reports whether key is present, tracking a HAS access.
func (o *Object) Has(key string) bool {
	_, ok := o.core.data[key]
	if !o.readonly {
		Track(o.rt, o.core, OpHas, key)
	}
	return ok
}

// Keys returns the object's own keys, tracking an ITERATE access.
func (o *Object) Keys() []string {
	if !o.readonly {
		Track(o.rt, o.core, OpIterate, IterateKey)
	}
	out := make([]string, 0, len(o.core.data))
	for k := range o.core.data {
		out = append(out, k)
	}
	return out
}

// Set writes key=value. Readonly views silently reject the write, warning
// through DevMode instead of warning unconditionally.
func (o *Object) Set(key string, value any) {
	if o.readonly {
		if o.rt.DevMode() {
			o.rt.reportError("set on readonly object rejected", ErrorInfo{Code: ErrCodeScheduler, Context: key})
		}
		return
	}

	old, hadKey := o.core.data[key]
	o.core.data[key] = value

	if !hadKey {
		Trigger(o.rt, o.core, OpAdd, key, value, nil, false, false, 0)
		return
	}
	if !reflect.DeepEqual(old, value) {
		Trigger(o.rt, o.core, OpSet, key, value, old, false, false, 0)
	}
}

// Delete removes key if present, triggering DELETE.
func (o *Object) Delete(key string) {
	if o.readonly {
		if o.rt.DevMode() {
			o.rt.reportError("delete on readonly object rejected", ErrorInfo{Code: ErrCodeScheduler, Context: key})
		}
		return
	}

	old, hadKey := o.core.data[key]
	if !hadKey {
		return
	}
	delete(o.core.data, key)
	Trigger(o.rt, o.core, OpDelete, key, nil, old, false, false, 0)
}

// wrapNested lazily wraps a raw nested map/slice value so repeated reads
// through the same underlying data return an identical wrapper instance,
// preserving the dependency edges effects have already formed against it.
// Values that are already Wrapped (a nested *Object/*Array/*Collection the
// caller constructed explicitly) pass through unchanged — composing
// nested reactivity that way is the idiomatic path; auto-wrapping is a
// convenience for the common "plain literal" case only.
func (r *Runtime) wrapNested(raw any, readonly bool) any {
	if raw == nil {
		return nil
	}
	if w, ok := raw.(Wrapped); ok {
		return w
	}

	switch v := raw.(type) {
	case map[string]any:
		return r.wrapNestedObject(v, readonly)
	case []any:
		return r.wrapNestedArray(v, readonly)
	default:
		return raw
	}
}

type nestedWrapKey struct {
	ptr      uintptr
	readonly bool
}

func (r *Runtime) wrapNestedObject(m map[string]any, readonly bool) *Object {
	key := nestedWrapKey{ptr: reflect.ValueOf(m).Pointer(), readonly: readonly}
	if cached, ok := r.nestedCache[key]; ok {
		return cached.(*Object)
	}

	view := newObjectView(r, &objectCore{data: m}, readonly, false)
	if r.nestedCache == nil {
		r.nestedCache = make(map[nestedWrapKey]any)
	}
	r.nestedCache[key] = view
	return view
}
