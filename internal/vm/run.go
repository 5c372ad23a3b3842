package vm

import (
	"bytes"
	"strings"

	"github.com/loxscript/lox/internal/bytecode"
	"github.com/loxscript/lox/internal/value"
)

// run is the fetch/decode/execute loop of spec.md §4.E. It executes
// until the outermost frame returns or a runtime error unwinds
// everything.
func (vm *VM) run() Status {
	f := &vm.frames[vm.frameCnt-1]

	for {
		if vm.trace && vm.logger != nil {
			var buf bytes.Buffer
			for i := 0; i < vm.sp; i++ {
				buf.WriteString("[ " + vm.stack[i].String() + " ]")
			}
			f.chunk().DisassembleInstruction(&buf, f.ip)
			vm.logger.Tracef(strings.TrimRight(buf.String(), "\n"))
		}

		op := bytecode.OpCode(f.chunk().Code[f.ip])
		f.ip++

		switch op {
		case bytecode.OpConstant:
			vm.push(vm.readConstant(f))

		case bytecode.OpNil:
			vm.push(value.Nil())
		case bytecode.OpTrue:
			vm.push(value.Bool(true))
		case bytecode.OpFalse:
			vm.push(value.Bool(false))
		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpGetLocal:
			slot := f.base + int(vm.readByte(f))
			vm.push(vm.stack[slot])
		case bytecode.OpSetLocal:
			slot := f.base + int(vm.readByte(f))
			vm.stack[slot] = vm.peek(0)

		case bytecode.OpGetGlobal:
			name := vm.readString(f)
			v, ok := vm.globals[name]
			if !ok {
				return vm.abort(vm.runtimeErrorf("Undefined variable '%s'.", name))
			}
			vm.push(v)
		case bytecode.OpSetGlobal:
			name := vm.readString(f)
			if _, ok := vm.globals[name]; !ok {
				return vm.abort(vm.runtimeErrorf("Undefined variable '%s'.", name))
			}
			vm.globals[name] = vm.peek(0)
		case bytecode.OpDefineGlobal:
			vm.globals[vm.readString(f)] = vm.peek(0)
			vm.pop()

		case bytecode.OpGetUpvalue:
			idx := vm.readByte(f)
			vm.push(f.closure.AsClosure().Upvalues[idx].AsUpvalue().Get())
		case bytecode.OpSetUpvalue:
			idx := vm.readByte(f)
			f.closure.AsClosure().Upvalues[idx].AsUpvalue().Set(vm.peek(0))

		case bytecode.OpGetProperty:
			if !vm.peek(0).IsInstance() {
				return vm.abort(vm.runtimeError("Only instances have properties."))
			}
			instance := vm.peek(0).AsInstance()
			name := vm.readString(f)
			if field, ok := instance.Fields[name]; ok {
				vm.pop()
				vm.push(field)
				break
			}
			if !vm.bindMethod(instance.Class, name) {
				return vm.abort(false)
			}
		case bytecode.OpSetProperty:
			if !vm.peek(1).IsInstance() {
				return vm.abort(vm.runtimeError("Only instances have fields."))
			}
			instance := vm.peek(1).AsInstance()
			instance.Fields[vm.readString(f)] = vm.peek(0)
			v := vm.pop()
			vm.pop()
			vm.push(v)
		case bytecode.OpGetSuper:
			name := vm.readString(f)
			superclass := vm.pop().AsObj()
			if !vm.bindMethod(superclass, name) {
				return vm.abort(false)
			}

		case bytecode.OpEqual:
			b, a := vm.pop(), vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))
		case bytecode.OpGreater:
			if !vm.numericBinaryGuard() {
				return vm.abort(false)
			}
			b, a := vm.pop().AsNumber(), vm.pop().AsNumber()
			vm.push(value.Bool(a > b))
		case bytecode.OpLess:
			if !vm.numericBinaryGuard() {
				return vm.abort(false)
			}
			b, a := vm.pop().AsNumber(), vm.pop().AsNumber()
			vm.push(value.Bool(a < b))

		case bytecode.OpAdd:
			if !vm.add() {
				return vm.abort(false)
			}
		case bytecode.OpSubtract:
			if !vm.numericBinaryGuard() {
				return vm.abort(false)
			}
			b, a := vm.pop().AsNumber(), vm.pop().AsNumber()
			vm.push(value.Number(a - b))
		case bytecode.OpMultiply:
			if !vm.numericBinaryGuard() {
				return vm.abort(false)
			}
			b, a := vm.pop().AsNumber(), vm.pop().AsNumber()
			vm.push(value.Number(a * b))
		case bytecode.OpDivide:
			if !vm.numericBinaryGuard() {
				return vm.abort(false)
			}
			b, a := vm.pop().AsNumber(), vm.pop().AsNumber()
			vm.push(value.Number(a / b))

		case bytecode.OpNot:
			vm.push(value.Bool(vm.pop().IsFalsey()))
		case bytecode.OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.abort(vm.runtimeError("Operand must be a number."))
			}
			vm.push(value.Number(-vm.pop().AsNumber()))

		case bytecode.OpPrint:
			vm.stdout(vm.pop().String() + "\n")

		case bytecode.OpJump:
			offset := vm.readShort(f)
			f.ip += offset
		case bytecode.OpJumpIfFalse:
			offset := vm.readShort(f)
			if vm.peek(0).IsFalsey() {
				f.ip += offset
			}
		case bytecode.OpLoop:
			offset := vm.readShort(f)
			f.ip -= offset

		case bytecode.OpCall:
			argc := int(vm.readByte(f))
			if !vm.callValue(vm.peek(argc), argc) {
				return vm.abort(false)
			}
			f = &vm.frames[vm.frameCnt-1]

		case bytecode.OpInvoke:
			name := vm.readString(f)
			argc := int(vm.readByte(f))
			if !vm.invoke(name, argc) {
				return vm.abort(false)
			}
			f = &vm.frames[vm.frameCnt-1]
		case bytecode.OpSuperInvoke:
			name := vm.readString(f)
			argc := int(vm.readByte(f))
			superclass := vm.pop().AsObj()
			if !vm.invokeFromClass(superclass, name, argc) {
				return vm.abort(false)
			}
			f = &vm.frames[vm.frameCnt-1]

		case bytecode.OpClosure:
			fnVal := vm.readConstant(f)
			fn := fnVal.AsFunction()
			closure := vm.heap.NewClosure(fnVal.AsObj(), fn.UpvalueCount)
			// Push before capturing upvalues: captureUpvalue can itself
			// allocate, and closure must already be reachable from the
			// stack root when that happens (spec.md §4.F "Allocation
			// discipline").
			vm.push(value.FromObj(closure))
			cl := closure.AsClosure()
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := vm.readByte(f)
				index := int(vm.readByte(f))
				if isLocal != 0 {
					slot := f.base + index
					cl.Upvalues[i] = vm.openUps.capture(vm.heap, slot, &vm.stack[slot])
				} else {
					cl.Upvalues[i] = f.closure.AsClosure().Upvalues[index]
				}
			}
		case bytecode.OpCloseUpvalue:
			vm.openUps.closeFrom(vm.sp - 1)
			vm.pop()

		case bytecode.OpReturn:
			result := vm.pop()
			vm.closeUpvaluesAtFrame(f)
			vm.frameCnt--
			if vm.frameCnt == 0 {
				vm.pop()
				return StatusOK
			}
			vm.sp = f.base
			vm.push(result)
			f = &vm.frames[vm.frameCnt-1]

		case bytecode.OpClass:
			name := vm.readConstant(f)
			vm.push(value.FromObj(vm.heap.NewClass(name.AsObj())))
		case bytecode.OpInherit:
			superVal := vm.peek(1)
			if !superVal.IsClass() {
				return vm.abort(vm.runtimeError("Superclass must be a class."))
			}
			subclass := vm.peek(0).AsClass()
			for name, method := range superVal.AsClass().Methods {
				subclass.Methods[name] = method
			}
			vm.pop()
		case bytecode.OpMethod:
			name := vm.readString(f)
			method := vm.pop()
			class := vm.peek(0).AsClass()
			class.Methods[name] = method.AsObj()

		default:
			return vm.abort(vm.runtimeErrorf("Unknown opcode %v.", op))
		}
	}
}

func (vm *VM) abort(ok bool) Status {
	if ok {
		return StatusOK
	}
	return StatusRuntimeError
}

func (vm *VM) closeUpvaluesAtFrame(f *frame) { vm.openUps.closeFrom(f.base) }

func (vm *VM) readByte(f *frame) byte {
	b := f.chunk().Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readShort(f *frame) int {
	hi := vm.readByte(f)
	lo := vm.readByte(f)
	return int(hi)<<8 | int(lo)
}

func (vm *VM) readConstant(f *frame) value.Value {
	idx := vm.readByte(f)
	return f.chunk().Constants[idx].(value.Value)
}

func (vm *VM) readString(f *frame) string {
	return vm.readConstant(f).AsString().Chars
}

// numericBinaryGuard checks the top two stack values are both numbers,
// reporting a runtime error (without popping, so the error path's stack
// trace still sees the operands) if not (spec.md §9's note on this).
func (vm *VM) numericBinaryGuard() bool {
	if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	return true
}

// add implements OP_ADD's dual numeric/string behavior (spec.md §4.E).
func (vm *VM) add() bool {
	b, a := vm.peek(0), vm.peek(1)
	switch {
	case a.IsString() && b.IsString():
		vm.pop()
		vm.pop()
		concatenated := a.AsString().Chars + b.AsString().Chars
		vm.push(value.FromObj(vm.heap.InternString(concatenated)))
		return true
	case a.IsNumber() && b.IsNumber():
		vm.pop()
		vm.pop()
		vm.push(value.Number(a.AsNumber() + b.AsNumber()))
		return true
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
}
