package gc

import (
	"testing"

	"github.com/loxscript/lox/internal/value"
)

func TestInternStringDeduplicates(t *testing.T) {
	h := NewHeap(0, 0)
	a := h.InternString("hi")
	b := h.InternString("hi")
	if a != b {
		t.Fatal("expected interning the same content twice to return the same Obj")
	}
}

func TestCollectSweepsUnreachableObjects(t *testing.T) {
	h := NewHeap(0, 0)

	var rooted *value.Obj
	h.SetVMRoots(func(h *Heap) {
		h.MarkObject(rooted)
	})

	rooted = h.InternString("kept")
	_ = h.InternString("dropped")

	h.Collect()

	if _, ok := h.Interned().Lookup("kept"); !ok {
		t.Fatal("expected the rooted string to survive collection")
	}
	if _, ok := h.Interned().Lookup("dropped"); ok {
		t.Fatal("expected the unrooted string to be collected")
	}
}

func TestCollectMarksThroughClosure(t *testing.T) {
	h := NewHeap(0, 0)

	name := h.InternString("add")
	fnObj := h.NewFunction(name, 2)
	closure := h.NewClosure(fnObj, 0)

	h.SetVMRoots(func(h *Heap) {
		h.MarkObject(closure)
	})
	h.Collect()

	if _, ok := h.Interned().Lookup("add"); !ok {
		t.Fatal("expected the function's name to survive via the closure root")
	}
}

// TestInternStringSurvivesItsOwnTriggeredCollection guards against a
// collection that InternString's own allocation triggers sweeping the
// just-registered (and therefore not-yet-rooted) weak table entry back
// out from under it: under stress, every InternString call collects
// immediately, with nothing rooting the new string yet. The threshold
// check must still run before the string is registered in the intern
// table, not after, or the second call below would silently build a
// second, distinct Obj for identical content.
func TestInternStringSurvivesItsOwnTriggeredCollection(t *testing.T) {
	h := NewHeap(0, 0)
	h.SetStress(true)

	a := h.InternString("repeat")
	b := h.InternString("repeat")
	if a != b {
		t.Fatal("expected interning the same content under GC stress to return the same Obj both times")
	}
	if h.Interned().Len() != 1 {
		t.Fatalf("expected exactly one interned entry, got %d", h.Interned().Len())
	}
}

func TestStressCollectsOnEveryAllocation(t *testing.T) {
	h := NewHeap(0, 0)
	h.SetStress(true)

	collections := 0
	h.OnCollect(func(before, after, next int64) { collections++ })

	h.InternString("one")
	h.InternString("two")

	if collections < 2 {
		t.Fatalf("expected stress mode to collect on every allocation, got %d collections", collections)
	}
}

func TestOnCollectReportsThreshold(t *testing.T) {
	h := NewHeap(2.0, 1)
	h.InternString("grows the heap past the tiny threshold")

	var before, after, next int64
	h.OnCollect(func(b, a, n int64) { before, after, next = b, a, n })
	h.Collect()

	if next <= after {
		t.Fatalf("expected the next threshold to grow past bytes allocated: after=%d next=%d", after, next)
	}
	_ = before
}
