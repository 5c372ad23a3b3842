// Package value implements the Lox runtime value representation and heap
// object model (spec.md §3, §4.A): a tagged-union Value plus the Obj
// header and its variants (String, Function, Native, Closure, Upvalue,
// Class, Instance, BoundMethod).
package value

import (
	"math"
	"strconv"
)

// Kind discriminates the Value tag.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindObj
)

// Value is a tagged union: Nil, Bool, Number, or a reference to a heap Obj.
type Value struct {
	kind Kind
	b    bool
	n    float64
	o    *Obj
}

// Nil returns the Lox nil value.
func Nil() Value { return Value{kind: KindNil} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps an IEEE-754 double.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// FromObj wraps a heap object reference.
func FromObj(o *Obj) Value { return Value{kind: KindObj, o: o} }

func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObj() bool    { return v.kind == KindObj }

// AsBool returns the boolean payload; callers must check IsBool first.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the number payload; callers must check IsNumber first.
func (v Value) AsNumber() float64 { return v.n }

// AsObj returns the object payload; callers must check IsObj first.
func (v Value) AsObj() *Obj { return v.o }

// IsFalsey implements Lox truthiness: only nil and false are falsey.
func (v Value) IsFalsey() bool {
	return v.IsNil() || (v.IsBool() && !v.b)
}

// IsString reports whether v is a String object.
func (v Value) IsString() bool { return v.IsObj() && v.o.Kind == ObjString }

// AsString returns the string payload; callers must check IsString first.
func (v Value) AsString() *StringObj { return v.o.AsString() }

// IsFunction reports whether v is a Function object.
func (v Value) IsFunction() bool { return v.IsObj() && v.o.Kind == ObjFunction }

// AsFunction returns the function payload; callers must check IsFunction first.
func (v Value) AsFunction() *FunctionObj { return v.o.AsFunction() }

// IsNative reports whether v is a Native object.
func (v Value) IsNative() bool { return v.IsObj() && v.o.Kind == ObjNative }

// AsNative returns the native payload; callers must check IsNative first.
func (v Value) AsNative() *NativeObj { return v.o.AsNative() }

// IsClosure reports whether v is a Closure object.
func (v Value) IsClosure() bool { return v.IsObj() && v.o.Kind == ObjClosure }

// AsClosure returns the closure payload; callers must check IsClosure first.
func (v Value) AsClosure() *ClosureObj { return v.o.AsClosure() }

// IsClass reports whether v is a Class object.
func (v Value) IsClass() bool { return v.IsObj() && v.o.Kind == ObjClass }

// AsClass returns the class payload; callers must check IsClass first.
func (v Value) AsClass() *ClassObj { return v.o.AsClass() }

// IsInstance reports whether v is an Instance object.
func (v Value) IsInstance() bool { return v.IsObj() && v.o.Kind == ObjInstance }

// AsInstance returns the instance payload; callers must check IsInstance first.
func (v Value) AsInstance() *InstanceObj { return v.o.AsInstance() }

// IsBoundMethod reports whether v is a BoundMethod object.
func (v Value) IsBoundMethod() bool { return v.IsObj() && v.o.Kind == ObjBoundMethod }

// AsBoundMethod returns the bound-method payload; callers must check
// IsBoundMethod first.
func (v Value) AsBoundMethod() *BoundMethodObj { return v.o.AsBoundMethod() }

// FnUpvalueCount implements bytecode.FunctionLike so the disassembler can
// read how many upvalue-capture pairs follow an OP_CLOSURE's function
// constant without the bytecode package importing this one.
func (v Value) FnUpvalueCount() int {
	if !v.IsFunction() {
		return 0
	}
	return v.AsFunction().UpvalueCount
}

// IsCallable reports whether v can appear as the callee of OP_CALL.
func (v Value) IsCallable() bool {
	return v.IsClosure() || v.IsNative() || v.IsClass() || v.IsBoundMethod()
}

// Equal implements spec.md §4.A's structural equality.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindObj:
		// Strings are interned: reference equality is content equality.
		// Other object variants compare by reference too.
		return a.o == b.o
	default:
		return false
	}
}

// String renders v the way `print` would.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.n)
	case KindObj:
		return v.o.String()
	default:
		return "<invalid>"
	}
}

func formatNumber(n float64) string {
	if math.IsInf(n, 1) {
		return "inf"
	}
	if math.IsInf(n, -1) {
		return "-inf"
	}
	if math.IsNaN(n) {
		return "nan"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
