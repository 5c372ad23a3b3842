package vm

import "github.com/loxscript/lox/internal/gc"

// markRoots seeds the collector's gray stack with everything the VM
// keeps live directly (spec.md §4.F roots 1-4): the value stack, every
// active frame's closure, the open-upvalues list, and the globals
// table's values.
func (vm *VM) markRoots(h *gc.Heap) {
	for i := 0; i < vm.sp; i++ {
		h.MarkValue(vm.stack[i])
	}
	for i := 0; i < vm.frameCnt; i++ {
		h.MarkObject(vm.frames[i].closure)
	}
	vm.openUps.markRoots(h.MarkObject)
	for _, v := range vm.globals {
		h.MarkValue(v)
	}
}
