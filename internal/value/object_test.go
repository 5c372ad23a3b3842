package value

import "testing"

func TestInternTableDeduplicates(t *testing.T) {
	it := NewInternTable()
	a := it.Intern("hello")
	b := it.Intern("hello")
	if a != b {
		t.Fatal("expected interning the same content twice to return the same Obj")
	}
	if it.Len() != 1 {
		t.Fatalf("expected 1 interned string, got %d", it.Len())
	}
}

func TestInternTableLookupMiss(t *testing.T) {
	it := NewInternTable()
	if _, ok := it.Lookup("missing"); ok {
		t.Fatal("expected lookup of an un-interned string to miss")
	}
}

func TestInternTableSweepUnmarked(t *testing.T) {
	it := NewInternTable()
	kept := it.Intern("kept")
	it.Intern("dropped")

	kept.Marked = true
	it.SweepUnmarked()

	if it.Len() != 1 {
		t.Fatalf("expected 1 surviving string, got %d", it.Len())
	}
	if _, ok := it.Lookup("kept"); !ok {
		t.Fatal("expected the marked string to survive")
	}
	if _, ok := it.Lookup("dropped"); ok {
		t.Fatal("expected the unmarked string to be swept")
	}
}

func TestObjStringRendering(t *testing.T) {
	it := NewInternTable()
	s := it.Intern("hi")
	if s.String() != "hi" {
		t.Fatalf("expected %q, got %q", "hi", s.String())
	}
}

func TestFunctionObjStringRendering(t *testing.T) {
	it := NewInternTable()
	name := it.Intern("add")
	fn := WrapFunction(NewFunction(name, 2))
	if fn.String() != "<fn add>" {
		t.Fatalf("expected <fn add>, got %q", fn.String())
	}

	script := WrapFunction(NewFunction(nil, 0))
	if script.String() != "<script>" {
		t.Fatalf("expected <script>, got %q", script.String())
	}
}

func TestClassAndInstanceRendering(t *testing.T) {
	it := NewInternTable()
	name := it.Intern("Point")
	class := WrapClass(name)
	if class.String() != "Point" {
		t.Fatalf("expected %q, got %q", "Point", class.String())
	}

	instance := WrapInstance(class)
	if instance.String() != "Point instance" {
		t.Fatalf("expected %q, got %q", "Point instance", instance.String())
	}
}

func TestUpvalueOpenAndClosed(t *testing.T) {
	slot := Number(1)
	u := &UpvalueObj{Location: &slot}
	if u.Get().AsNumber() != 1 {
		t.Fatal("expected an open upvalue to read through to its stack slot")
	}

	slot = Number(2)
	if u.Get().AsNumber() != 2 {
		t.Fatal("expected an open upvalue to observe writes to its stack slot")
	}

	u.Close()
	slot = Number(99)
	if u.Get().AsNumber() != 2 {
		t.Fatal("expected a closed upvalue to stop tracking the stack slot")
	}

	u.Set(Number(5))
	if u.Closed.AsNumber() != 5 {
		t.Fatal("expected Set on a closed upvalue to write Closed")
	}
}

func TestClassMethodsCopiedForInheritance(t *testing.T) {
	it := NewInternTable()
	base := WrapClass(it.Intern("Base"))
	base.AsClass().Methods["greet"] = WrapNative("greet", func(args []Value) (Value, error) { return Nil(), nil })

	sub := WrapClass(it.Intern("Sub"))
	for name, method := range base.AsClass().Methods {
		sub.AsClass().Methods[name] = method
	}

	if len(sub.AsClass().Methods) != 1 {
		t.Fatalf("expected the subclass to inherit 1 method, got %d", len(sub.AsClass().Methods))
	}
	if sub.AsClass().Methods["greet"] != base.AsClass().Methods["greet"] {
		t.Fatal("expected inherited methods to share the same Obj, not a copy")
	}
}
