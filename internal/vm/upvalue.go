package vm

import (
	"github.com/loxscript/lox/internal/gc"
	"github.com/loxscript/lox/internal/value"
)

// openUpvalues tracks currently-open upvalues by the stack slot they
// point into, kept strictly descending by slot (spec.md Invariant 3).
// This plays the role of the spec's intrusive next-pointer list; a Go
// slice works just as well because the value stack's backing array is
// allocated once and never moved.
type openUpvalues struct {
	slots []int
	objs  []*value.Obj
}

// capture returns the open upvalue already pointing at slot, or inserts
// a new one at the position that keeps slots descending (spec.md §4.E
// "captureUpvalue"). At most one open upvalue ever exists per slot.
func (o *openUpvalues) capture(heap *gc.Heap, slot int, location *value.Value) *value.Obj {
	i := 0
	for i < len(o.slots) && o.slots[i] > slot {
		i++
	}
	if i < len(o.slots) && o.slots[i] == slot {
		return o.objs[i]
	}

	created := heap.NewUpvalue(location)
	o.slots = append(o.slots, 0)
	o.objs = append(o.objs, nil)
	copy(o.slots[i+1:], o.slots[i:])
	copy(o.objs[i+1:], o.objs[i:])
	o.slots[i] = slot
	o.objs[i] = created
	return created
}

// closeFrom closes every open upvalue at or above base, in descending
// order, and drops them from the tracked list (spec.md §4.E
// "closeUpvalues").
func (o *openUpvalues) closeFrom(base int) {
	n := 0
	for n < len(o.slots) && o.slots[n] >= base {
		o.objs[n].AsUpvalue().Close()
		n++
	}
	o.slots = o.slots[n:]
	o.objs = o.objs[n:]
}

// markRoots marks every still-open upvalue (spec.md §4.F root 3).
func (o *openUpvalues) markRoots(mark func(*value.Obj)) {
	for _, obj := range o.objs {
		mark(obj)
	}
}
