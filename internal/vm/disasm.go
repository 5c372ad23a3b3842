package vm

import (
	"bytes"

	"github.com/loxscript/lox/internal/value"
)

// disassembleTree prints fnObj's chunk and recurses into every nested
// function constant, the way the teacher's own debug dump walks a
// chunk's constant pool for OP_CLOSURE targets. Always written through
// the VM's stderr writer, never the logger, so `-disassemble` works
// without `-trace` or any log level.
func (vm *VM) disassembleTree(fnObj *value.Obj) {
	fn := fnObj.AsFunction()
	name := "<script>"
	if fn.Name != nil {
		name = fn.Name.AsString().Chars
	}

	var buf bytes.Buffer
	fn.Chunk.Disassemble(&buf, name)
	vm.stderr(buf.String())

	for _, c := range fn.Chunk.Constants {
		if v, ok := c.(value.Value); ok && v.IsFunction() {
			vm.disassembleTree(v.AsObj())
		}
	}
}
