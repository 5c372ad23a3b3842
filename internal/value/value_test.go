package value

import "testing"

func TestValueTruthiness(t *testing.T) {
	cases := []struct {
		v      Value
		falsey bool
	}{
		{Nil(), true},
		{Bool(false), true},
		{Bool(true), false},
		{Number(0), false},
		{Number(1), false},
	}
	for _, c := range cases {
		if got := c.v.IsFalsey(); got != c.falsey {
			t.Errorf("%v: expected falsey=%v, got %v", c.v, c.falsey, got)
		}
	}
}

func TestValueEqual(t *testing.T) {
	if !Equal(Number(1), Number(1)) {
		t.Error("expected equal numbers to compare equal")
	}
	if Equal(Number(1), Number(2)) {
		t.Error("expected distinct numbers to compare unequal")
	}
	if !Equal(Nil(), Nil()) {
		t.Error("expected nil to equal nil")
	}
	if Equal(Nil(), Bool(false)) {
		t.Error("expected nil and false to be distinct kinds")
	}
	if Equal(Bool(true), Number(1)) {
		t.Error("expected values of different kinds never to compare equal")
	}
}

func TestValueEqualObjectsByReference(t *testing.T) {
	a := FromObj(WrapNative("f", func(args []Value) (Value, error) { return Nil(), nil }))
	b := FromObj(WrapNative("f", func(args []Value) (Value, error) { return Nil(), nil }))
	if Equal(a, b) {
		t.Error("expected two distinct Obj headers never to compare equal")
	}
	if !Equal(a, a) {
		t.Error("expected a value to equal itself")
	}
}

func TestValueStringFormatting(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Nil(), "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Number(3), "3"},
		{Number(3.5), "3.5"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("expected %q, got %q", c.want, got)
		}
	}
}

func TestValueIsCallable(t *testing.T) {
	native := FromObj(WrapNative("f", func(args []Value) (Value, error) { return Nil(), nil }))
	if !native.IsCallable() {
		t.Error("expected a native function to be callable")
	}
	if Number(1).IsCallable() {
		t.Error("expected a number not to be callable")
	}
}

func TestFnUpvalueCountOnNonFunction(t *testing.T) {
	if Number(1).FnUpvalueCount() != 0 {
		t.Error("expected a non-function value to report zero upvalues")
	}
}
