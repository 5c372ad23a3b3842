package value

import (
	"fmt"

	"github.com/loxscript/lox/internal/bytecode"
)

// ObjKind discriminates the heap object variants of spec.md §3.
type ObjKind uint8

const (
	ObjString ObjKind = iota
	ObjFunction
	ObjNative
	ObjClosure
	ObjUpvalue
	ObjClass
	ObjInstance
	ObjBoundMethod
)

// Obj is the common header carried by every heap object: a discriminant
// tag, a GC mark bit, and a next-pointer threading the VM's intrusive
// all-objects list (spec.md §3, §4.F). The collector is the only
// component that unlinks a node from that list; everything else only
// ever appends (grounded on the Object{Type,Data,Next} shape used by the
// pack's own Lox port, bluven-glox).
//
// Every reference from one heap object to another is stored as *Obj, not
// as the concrete payload type, so that two references to "the same
// object" always share one mark bit and one list slot.
type Obj struct {
	Kind   ObjKind
	Marked bool
	Next   *Obj
	data   any
}

func newObj(kind ObjKind, data any) *Obj {
	return &Obj{Kind: kind, data: data}
}

// AsString, AsFunction, ... expose the concrete payload behind an Obj
// header. Callers (including the collector and VM, which live in other
// packages) must check Kind first; these panic on a mismatched kind the
// same way clox's unchecked AS_* macros would misbehave on one.
func (o *Obj) AsString() *StringObj           { return o.data.(*StringObj) }
func (o *Obj) AsFunction() *FunctionObj       { return o.data.(*FunctionObj) }
func (o *Obj) AsNative() *NativeObj           { return o.data.(*NativeObj) }
func (o *Obj) AsClosure() *ClosureObj         { return o.data.(*ClosureObj) }
func (o *Obj) AsUpvalue() *UpvalueObj         { return o.data.(*UpvalueObj) }
func (o *Obj) AsClass() *ClassObj             { return o.data.(*ClassObj) }
func (o *Obj) AsInstance() *InstanceObj       { return o.data.(*InstanceObj) }
func (o *Obj) AsBoundMethod() *BoundMethodObj { return o.data.(*BoundMethodObj) }

// String renders the object the way `print` would (spec.md §4.A).
func (o *Obj) String() string {
	switch o.Kind {
	case ObjString:
		return o.AsString().Chars
	case ObjFunction:
		fn := o.AsFunction()
		if fn.Name == nil {
			return "<script>"
		}
		return fmt.Sprintf("<fn %s>", fn.Name.AsString().Chars)
	case ObjNative:
		return fmt.Sprintf("<native fn %s>", o.AsNative().Name)
	case ObjClosure:
		return o.AsClosure().Function.String()
	case ObjUpvalue:
		return "<upvalue>"
	case ObjClass:
		return o.AsClass().Name.AsString().Chars
	case ObjInstance:
		return fmt.Sprintf("%s instance", o.AsInstance().Class.AsClass().Name.AsString().Chars)
	case ObjBoundMethod:
		return o.AsBoundMethod().Method.String()
	default:
		return "<obj>"
	}
}

// StringObj is an immutable, interned UTF-8 string with a precomputed
// FNV-1a hash (spec.md §3).
type StringObj struct {
	Chars string
	Hash  uint32
}

// FunctionObj is a fixed-arity compiled function: an optional name, its
// owned Chunk, and how many upvalues its closures must capture. Name, if
// present, is an *Obj wrapping a StringObj (so the same interned string
// object is shared and marked consistently by the collector).
type FunctionObj struct {
	Name         *Obj
	Arity        int
	UpvalueCount int
	Chunk        *bytecode.Chunk
}

// WrapFunction allocates an Obj header around an already-built
// FunctionObj. Allocation bookkeeping (linking into the heap's
// all-objects list, tracking bytes, maybe triggering a collection) is the
// caller's responsibility — in practice always internal/gc.Heap.
func WrapFunction(fn *FunctionObj) *Obj { return newObj(ObjFunction, fn) }

// NewFunction builds a FunctionObj with a fresh, empty Chunk. The
// compiler fills in Arity, UpvalueCount, and the Chunk's contents as it
// finishes compiling the function body.
func NewFunction(name *Obj, arity int) *FunctionObj {
	return &FunctionObj{Name: name, Arity: arity, Chunk: bytecode.NewChunk()}
}

// NativeFn is a host-implemented callable: (args) -> (result, error). A
// non-nil error becomes a Lox runtime error (spec.md §3, §7).
type NativeFn func(args []Value) (Value, error)

// NativeObj wraps a host function so it can be called like any other Lox
// callable.
type NativeObj struct {
	Name string
	Fn   NativeFn
}

func WrapNative(name string, fn NativeFn) *Obj {
	return newObj(ObjNative, &NativeObj{Name: name, Fn: fn})
}

// ClosureObj binds a Function to the Upvalues it captured at creation
// time. Function is an *Obj wrapping a FunctionObj; Upvalues are *Obj
// wrapping UpvalueObj, for the same sharing reason as FunctionObj.Name.
type ClosureObj struct {
	Function *Obj
	Upvalues []*Obj
}

func WrapClosure(fn *Obj, upvalues []*Obj) *Obj {
	return newObj(ObjClosure, &ClosureObj{Function: fn, Upvalues: upvalues})
}

// UpvalueObj is a captured variable slot. While "open" it points into a
// live VM stack slot; once "closed" the value has been copied into
// Closed and Location is nil (spec.md §3, §4.E). The VM keeps the
// strictly-descending open-upvalue ordering of spec.md Invariant 3 in its
// own slot-indexed bookkeeping (internal/vm) rather than via an
// intrusive next-pointer here, which Go's stable, non-moving backing
// array for the value stack makes unnecessary.
type UpvalueObj struct {
	Location *Value
	Closed   Value
}

func WrapUpvalue(u *UpvalueObj) *Obj { return newObj(ObjUpvalue, u) }

// Get reads through an upvalue regardless of open/closed state.
func (u *UpvalueObj) Get() Value {
	if u.Location != nil {
		return *u.Location
	}
	return u.Closed
}

// Set writes through an upvalue regardless of open/closed state.
func (u *UpvalueObj) Set(v Value) {
	if u.Location != nil {
		*u.Location = v
		return
	}
	u.Closed = v
}

// Close copies the live slot's value into Closed and severs Location.
func (u *UpvalueObj) Close() {
	u.Closed = *u.Location
	u.Location = nil
}

// ClassObj is a named bag of methods, with single inheritance handled by
// OP_INHERIT copying the superclass's method table into the subclass at
// class-definition time (spec.md §4.E). Name is an *Obj wrapping a
// StringObj; Methods maps a method name to an *Obj wrapping a ClosureObj.
type ClassObj struct {
	Name    *Obj
	Methods map[string]*Obj
}

func WrapClass(name *Obj) *Obj {
	return newObj(ObjClass, &ClassObj{Name: name, Methods: make(map[string]*Obj)})
}

// InstanceObj is a live object of some Class, with its own field table.
// Class is an *Obj wrapping a ClassObj.
type InstanceObj struct {
	Class  *Obj
	Fields map[string]Value
}

func WrapInstance(class *Obj) *Obj {
	return newObj(ObjInstance, &InstanceObj{Class: class, Fields: make(map[string]Value)})
}

// BoundMethodObj pairs a receiver with the Closure implementing a method
// looked up on it, so that calling it implicitly supplies `this`. Method
// is an *Obj wrapping a ClosureObj.
type BoundMethodObj struct {
	Receiver Value
	Method   *Obj
}

func WrapBoundMethod(receiver Value, method *Obj) *Obj {
	return newObj(ObjBoundMethod, &BoundMethodObj{Receiver: receiver, Method: method})
}
