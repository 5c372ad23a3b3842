package vm

import (
	"testing"

	"github.com/loxscript/lox/internal/gc"
	"github.com/loxscript/lox/internal/value"
)

func TestOpenUpvaluesCaptureDedupesBySlot(t *testing.T) {
	heap := gc.NewHeap(0, 0)
	var stack [4]value.Value
	var o openUpvalues

	a := o.capture(heap, 2, &stack[2])
	b := o.capture(heap, 2, &stack[2])
	if a != b {
		t.Fatal("expected capturing the same slot twice to return the same upvalue")
	}
}

func TestOpenUpvaluesStayDescending(t *testing.T) {
	heap := gc.NewHeap(0, 0)
	var stack [4]value.Value
	var o openUpvalues

	o.capture(heap, 0, &stack[0])
	o.capture(heap, 3, &stack[3])
	o.capture(heap, 1, &stack[1])

	for i := 1; i < len(o.slots); i++ {
		if o.slots[i-1] <= o.slots[i] {
			t.Fatalf("expected strictly descending slots, got %v", o.slots)
		}
	}
}

func TestOpenUpvaluesCloseFromClosesAndDrops(t *testing.T) {
	heap := gc.NewHeap(0, 0)
	var stack [4]value.Value
	stack[1] = value.Number(5)
	stack[2] = value.Number(9)
	var o openUpvalues

	low := o.capture(heap, 1, &stack[1])
	high := o.capture(heap, 2, &stack[2])

	o.closeFrom(2)

	if len(o.slots) != 1 || o.slots[0] != 1 {
		t.Fatalf("expected only slot 1 to remain open, got %v", o.slots)
	}
	if high.AsUpvalue().Get().AsNumber() != 9 {
		t.Fatal("expected the closed upvalue to retain its last value")
	}
	if low.AsUpvalue().Get().AsNumber() != 5 {
		t.Fatal("expected the still-open upvalue to keep reading through to the stack")
	}
}

func TestOpenUpvaluesMarkRoots(t *testing.T) {
	heap := gc.NewHeap(0, 0)
	var stack [2]value.Value
	var o openUpvalues
	obj := o.capture(heap, 0, &stack[0])

	var marked []*value.Obj
	o.markRoots(func(ob *value.Obj) { marked = append(marked, ob) })

	if len(marked) != 1 || marked[0] != obj {
		t.Fatalf("expected markRoots to visit the captured upvalue, got %v", marked)
	}
}
