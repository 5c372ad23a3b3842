// Package gc implements the mark-sweep, tricolor, stop-the-world
// collector of spec.md §4.F. It is the single allocation primitive for
// every heap object (spec.md §4.F, "Allocation discipline"): nothing
// outside this package constructs a *value.Obj.
package gc

import (
	"github.com/loxscript/lox/internal/value"
)

// DefaultGrowFactor is the heap growth factor applied after each
// collection (spec.md §4.F: "factor = 2").
const DefaultGrowFactor = 2.0

// DefaultInitialThreshold is the bytes-allocated level that triggers the
// first collection.
const DefaultInitialThreshold = 1 << 20

// RootFunc seeds the gray stack with a component's live roots.
type RootFunc func(h *Heap)

// Heap owns every live Lox object, the interned-string table, and the
// collector's tunables. All allocation and all garbage collection go
// through it.
type Heap struct {
	objects  *value.Obj
	interned *value.InternTable

	bytesAllocated int64
	nextGC         int64
	growFactor     float64
	stress         bool

	gray []*value.Obj

	vmRoots       RootFunc
	compilerRoots RootFunc

	onCollect func(before, after, next int64)
}

// NewHeap constructs a heap with the given growth factor and initial
// collection threshold. A growFactor <= 0 or threshold <= 0 falls back to
// the package defaults.
func NewHeap(growFactor float64, initialThreshold int64) *Heap {
	if growFactor <= 0 {
		growFactor = DefaultGrowFactor
	}
	if initialThreshold <= 0 {
		initialThreshold = DefaultInitialThreshold
	}
	return &Heap{
		interned:   value.NewInternTable(),
		growFactor: growFactor,
		nextGC:     initialThreshold,
	}
}

// Interned exposes the heap's string intern table (spec.md §4.C).
func (h *Heap) Interned() *value.InternTable { return h.interned }

// SetStress enables the "collect before every allocation" debug mode
// (spec.md §4.F).
func (h *Heap) SetStress(stress bool) { h.stress = stress }

// SetVMRoots registers the VM's root-marking function (spec.md §4.F,
// roots 1-4: stack, frames, open upvalues, globals).
func (h *Heap) SetVMRoots(fn RootFunc) { h.vmRoots = fn }

// SetCompilerRoots registers the compiler's root-marking function (spec.md
// §4.F, root 5: functions under construction). Call with nil once
// compilation finishes.
func (h *Heap) SetCompilerRoots(fn RootFunc) { h.compilerRoots = fn }

// OnCollect installs a callback invoked after every collection cycle with
// the bytes-allocated totals before and after sweeping, and the new
// threshold (cmd/lox uses it to log GC activity through internal/logging).
func (h *Heap) OnCollect(fn func(before, after, next int64)) { h.onCollect = fn }

// BytesAllocated reports the heap's current live-byte estimate.
func (h *Heap) BytesAllocated() int64 { return h.bytesAllocated }

// sizeOf approximates the cost of an object kind for the purposes of
// triggering collection; Go's own allocator does the real bookkeeping, so
// this only needs to be proportional, not exact.
func sizeOf(kind value.ObjKind) int64 {
	switch kind {
	case value.ObjString:
		return 40
	case value.ObjFunction:
		return 96
	case value.ObjNative:
		return 48
	case value.ObjClosure:
		return 56
	case value.ObjUpvalue:
		return 32
	case value.ObjClass:
		return 64
	case value.ObjInstance:
		return 64
	case value.ObjBoundMethod:
		return 48
	default:
		return 32
	}
}

// collectIfNeeded runs the collector first if the allocation discipline
// calls for it, *before* kind's object exists anywhere — not on the
// all-objects list, and not (for a String) in the weak intern table.
// Mirrors clox's reallocate, which collects before the new object exists
// at all, so a collection it triggers can never sweep out the very thing
// being allocated.
func (h *Heap) collectIfNeeded(kind value.ObjKind) {
	if h.stress || h.bytesAllocated+sizeOf(kind) > h.nextGC {
		h.Collect()
	}
}

// link threads obj onto the all-objects list. Per spec.md §4.F, it is
// still the caller's job to make obj reachable from a root (stack slot,
// local, global, or the compiler-root chain) before the *next*
// allocation.
func (h *Heap) link(obj *value.Obj) *value.Obj {
	obj.Next = h.objects
	h.objects = obj
	h.bytesAllocated += sizeOf(obj.Kind)
	return obj
}

// track is collectIfNeeded followed by link, for every object kind that
// isn't also registered into another weak structure first (see
// InternString, which must collect before it registers the new string in
// the intern table, not after).
func (h *Heap) track(obj *value.Obj) *value.Obj {
	h.collectIfNeeded(obj.Kind)
	return h.link(obj)
}

// Collect runs one full mark-sweep cycle.
func (h *Heap) Collect() {
	before := h.bytesAllocated

	h.gray = h.gray[:0]
	if h.vmRoots != nil {
		h.vmRoots(h)
	}
	if h.compilerRoots != nil {
		h.compilerRoots(h)
	}
	h.traceReferences()
	h.interned.SweepUnmarked()
	h.sweep()

	h.nextGC = int64(float64(h.bytesAllocated) * h.growFactor)
	if h.nextGC <= h.bytesAllocated {
		h.nextGC = h.bytesAllocated + DefaultInitialThreshold
	}
	if h.onCollect != nil {
		h.onCollect(before, h.bytesAllocated, h.nextGC)
	}
}

// MarkValue marks v's object payload, if it has one.
func (h *Heap) MarkValue(v value.Value) {
	if v.IsObj() {
		h.MarkObject(v.AsObj())
	}
}

// MarkObject marks obj gray and pushes it onto the gray worklist. Marking
// an already-marked (black or gray) object is a no-op, which is what
// keeps the tricolor invariant terminating.
func (h *Heap) MarkObject(obj *value.Obj) {
	if obj == nil || obj.Marked {
		return
	}
	obj.Marked = true
	h.gray = append(h.gray, obj)
}

// traceReferences blackens every gray object, marking everything it
// refers to, until the gray stack is empty.
func (h *Heap) traceReferences() {
	for len(h.gray) > 0 {
		obj := h.gray[len(h.gray)-1]
		h.gray = h.gray[:len(h.gray)-1]
		h.blacken(obj)
	}
}

// blacken marks every object reachable directly from obj (spec.md §4.F
// "Blackening"): Closure -> function + captured upvalues; Function ->
// name + constants; Upvalue -> closed field; Class -> name + methods;
// Instance -> class + fields; BoundMethod -> receiver + closure. String
// and Native have no outgoing references.
func (h *Heap) blacken(obj *value.Obj) {
	switch obj.Kind {
	case value.ObjString, value.ObjNative:
		// no outgoing references
	case value.ObjUpvalue:
		u := obj.AsUpvalue()
		h.MarkValue(u.Get())
	case value.ObjFunction:
		fn := obj.AsFunction()
		if fn.Name != nil {
			h.MarkObject(fn.Name)
		}
		for _, c := range fn.Chunk.Constants {
			if v, ok := c.(value.Value); ok {
				h.MarkValue(v)
			}
		}
	case value.ObjClosure:
		cl := obj.AsClosure()
		h.MarkObject(cl.Function)
		for _, up := range cl.Upvalues {
			h.MarkObject(up)
		}
	case value.ObjClass:
		cls := obj.AsClass()
		h.MarkObject(cls.Name)
		for _, m := range cls.Methods {
			h.MarkObject(m)
		}
	case value.ObjInstance:
		inst := obj.AsInstance()
		h.MarkObject(inst.Class)
		for _, v := range inst.Fields {
			h.MarkValue(v)
		}
	case value.ObjBoundMethod:
		bm := obj.AsBoundMethod()
		h.MarkValue(bm.Receiver)
		h.MarkObject(bm.Method)
	}
}

// sweep walks the all-objects list with a trailing pointer, unlinking and
// dropping unmarked objects and clearing the mark bit on survivors
// (spec.md §4.F "Sweeping"). Dropping the last Go-level reference to an
// unmarked *value.Obj lets the host runtime's own GC reclaim it; this
// collector's job is liveness bookkeeping, not raw memory management.
func (h *Heap) sweep() {
	var prev *value.Obj
	obj := h.objects
	live := int64(0)
	for obj != nil {
		next := obj.Next
		if obj.Marked {
			obj.Marked = false
			live += sizeOf(obj.Kind)
			prev = obj
			obj = next
			continue
		}
		if prev == nil {
			h.objects = next
		} else {
			prev.Next = next
		}
		obj.Next = nil
		obj = next
	}
	h.bytesAllocated = live
}
