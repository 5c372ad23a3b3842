package vm

import "fmt"

// runtimeError reports message with a full call-stack trace (spec.md
// §4.E "Runtime error handling") and resets the VM's stack. It always
// returns false so call sites can `return vm.runtimeError(...)` from a
// bool-returning helper.
func (vm *VM) runtimeError(message string) bool {
	vm.stderr(message + "\n")
	for i := vm.frameCnt - 1; i >= 0; i-- {
		f := &vm.frames[i]
		name := "script"
		if fn := f.function(); fn.Name != nil {
			name = fn.Name.AsString().Chars
		}
		vm.stderr(fmt.Sprintf("[line %d] in %s\n", f.line(), name))
	}
	vm.resetStack()
	return false
}

func (vm *VM) runtimeErrorf(format string, args ...any) bool {
	return vm.runtimeError(fmt.Sprintf(format, args...))
}

// resetStack clears the stack, frames, and open-upvalue list after a
// runtime error unwinds everything (spec.md §5 "Cancellation").
func (vm *VM) resetStack() {
	vm.sp = 0
	vm.frameCnt = 0
	vm.openUps = openUpvalues{}
}
