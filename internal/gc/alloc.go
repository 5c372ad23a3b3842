package gc

import "github.com/loxscript/lox/internal/value"

// InternString returns the unique String object for s, allocating it
// (and linking it into the all-objects list) the first time s is seen.
// Every other New* constructor below follows the same track-after-build
// pattern, but this one can't: the new string is about to be registered
// into the intern table itself, a weak structure SweepUnmarked prunes on
// every collection. Running the threshold check (and a possible collect)
// before that registration, rather than after as a plain track() would,
// keeps a collection the allocation triggers from sweeping the
// not-yet-rooted entry straight back out of the table it was just added
// to.
func (h *Heap) InternString(s string) *value.Obj {
	if existing, ok := h.interned.Lookup(s); ok {
		return existing
	}
	h.collectIfNeeded(value.ObjString)
	return h.link(h.interned.Intern(s))
}

// NewFunction allocates an (initially empty) FunctionObj.
func (h *Heap) NewFunction(name *value.Obj, arity int) *value.Obj {
	fn := value.NewFunction(name, arity)
	return h.track(value.WrapFunction(fn))
}

// NewNative allocates a host-implemented callable.
func (h *Heap) NewNative(name string, fn value.NativeFn) *value.Obj {
	return h.track(value.WrapNative(name, fn))
}

// NewClosure allocates a Closure over fn with upvalue slots initialized
// to nil; the caller fills them in one at a time during OP_CLOSURE.
func (h *Heap) NewClosure(fn *value.Obj, upvalueCount int) *value.Obj {
	return h.track(value.WrapClosure(fn, make([]*value.Obj, upvalueCount)))
}

// NewUpvalue allocates an open upvalue pointing at a live stack slot.
func (h *Heap) NewUpvalue(location *value.Value) *value.Obj {
	return h.track(value.WrapUpvalue(&value.UpvalueObj{Location: location}))
}

// NewClass allocates a class with an empty method table.
func (h *Heap) NewClass(name *value.Obj) *value.Obj {
	return h.track(value.WrapClass(name))
}

// NewInstance allocates an instance of class with an empty field table.
func (h *Heap) NewInstance(class *value.Obj) *value.Obj {
	return h.track(value.WrapInstance(class))
}

// NewBoundMethod allocates a receiver+method pair.
func (h *Heap) NewBoundMethod(receiver value.Value, method *value.Obj) *value.Obj {
	return h.track(value.WrapBoundMethod(receiver, method))
}
