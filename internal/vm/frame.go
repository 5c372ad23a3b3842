package vm

import (
	"github.com/loxscript/lox/internal/bytecode"
	"github.com/loxscript/lox/internal/value"
)

// frame is one active call (spec.md §4.E "CallFrame"): the closure being
// executed, an instruction pointer into its chunk, and the base index
// into the VM's value stack (slot 0 = the callee itself).
type frame struct {
	closure *value.Obj // wraps a ClosureObj
	ip      int
	base    int
}

func (f *frame) function() *value.FunctionObj {
	return f.closure.AsClosure().Function.AsFunction()
}

func (f *frame) chunk() *bytecode.Chunk { return f.function().Chunk }

func (f *frame) line() int {
	if f.ip-1 < 0 || f.ip-1 >= len(f.chunk().Lines) {
		return 0
	}
	return f.chunk().Lines[f.ip-1]
}
