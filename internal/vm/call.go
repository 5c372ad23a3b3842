package vm

import "github.com/loxscript/lox/internal/value"

// callValue implements spec.md §4.E's CALL dispatch over every callable
// Value kind. It reports a runtime error and returns false on failure;
// callers of run's dispatch loop treat that as "abort this interpret".
func (vm *VM) callValue(callee value.Value, argc int) bool {
	if !callee.IsObj() {
		return vm.runtimeError("Can only call functions and classes.")
	}

	switch {
	case callee.IsClosure():
		return vm.call(callee, argc)

	case callee.IsNative():
		native := callee.AsNative()
		args := make([]value.Value, argc)
		copy(args, vm.stack[vm.sp-argc:vm.sp])
		result, err := native.Fn(args)
		if err != nil {
			return vm.runtimeError(err.Error())
		}
		vm.sp -= argc + 1
		vm.push(result)
		return true

	case callee.IsClass():
		class := callee.AsObj()
		instance := vm.heap.NewInstance(class)
		vm.stack[vm.sp-argc-1] = value.FromObj(instance)
		if initializer, ok := class.AsClass().Methods["init"]; ok {
			return vm.call(value.FromObj(initializer), argc)
		}
		if argc != 0 {
			return vm.runtimeErrorf("Expected 0 arguments but got %d.", argc)
		}
		return true

	case callee.IsBoundMethod():
		bm := callee.AsBoundMethod()
		vm.stack[vm.sp-argc-1] = bm.Receiver
		return vm.call(value.FromObj(bm.Method), argc)

	default:
		return vm.runtimeError("Can only call functions and classes.")
	}
}

// call pushes a new frame for closure, checking arity and the frame
// budget first (spec.md §4.E, §5 "Stack overflow").
func (vm *VM) call(closureVal value.Value, argc int) bool {
	closure := closureVal.AsObj()
	fn := closure.AsClosure().Function.AsFunction()
	if argc != fn.Arity {
		return vm.runtimeErrorf("Expected %d arguments but got %d.", fn.Arity, argc)
	}
	if vm.frameCnt == len(vm.frames) {
		return vm.runtimeError("Stack overflow.")
	}

	vm.frames[vm.frameCnt] = frame{closure: closure, ip: 0, base: vm.sp - argc - 1}
	vm.frameCnt++
	return true
}

// invoke implements the optimized `obj.method(args)` call form (spec.md
// §4.D "Optimized calls", §4.B OP_INVOKE): look the method up on the
// receiver's class without materializing an intermediate BoundMethod.
func (vm *VM) invoke(name string, argc int) bool {
	receiver := vm.peek(argc)
	if !receiver.IsInstance() {
		return vm.runtimeError("Only instances have methods.")
	}
	instance := receiver.AsInstance()

	if field, ok := instance.Fields[name]; ok {
		vm.stack[vm.sp-argc-1] = field
		return vm.callValue(field, argc)
	}
	return vm.invokeFromClass(instance.Class, name, argc)
}

func (vm *VM) invokeFromClass(class *value.Obj, name string, argc int) bool {
	method, ok := class.AsClass().Methods[name]
	if !ok {
		return vm.runtimeErrorf("Undefined property '%s'.", name)
	}
	return vm.call(value.FromObj(method), argc)
}

// bindMethod wraps the method named name, found on class, together with
// the already-on-stack receiver into a BoundMethod (spec.md §3, §4.B
// OP_GET_PROPERTY's method-lookup fallback).
func (vm *VM) bindMethod(class *value.Obj, name string) bool {
	method, ok := class.AsClass().Methods[name]
	if !ok {
		return vm.runtimeErrorf("Undefined property '%s'.", name)
	}
	bound := vm.heap.NewBoundMethod(vm.peek(0), method)
	vm.pop()
	vm.push(value.FromObj(bound))
	return true
}
