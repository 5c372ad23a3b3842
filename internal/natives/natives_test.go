package natives

import (
	"regexp"
	"testing"

	"github.com/loxscript/lox/internal/gc"
	"github.com/loxscript/lox/internal/value"
)

// stubVM is a minimal Definer that records every native installed into
// it, so tests can look one up by name without spinning up internal/vm.
type stubVM struct {
	heap *gc.Heap
	fns  map[string]value.NativeFn
}

func newStubVM() *stubVM {
	return &stubVM{heap: gc.NewHeap(0, 0), fns: make(map[string]value.NativeFn)}
}

func (s *stubVM) DefineNative(name string, fn value.NativeFn) { s.fns[name] = fn }
func (s *stubVM) Heap() *gc.Heap                              { return s.heap }

func (s *stubVM) call(t *testing.T, name string, args ...value.Value) value.Value {
	t.Helper()
	fn, ok := s.fns[name]
	if !ok {
		t.Fatalf("native %q was not installed", name)
	}
	v, err := fn(args)
	if err != nil {
		t.Fatalf("native %q returned an error: %v", name, err)
	}
	return v
}

func TestInstallRegistersEveryNative(t *testing.T) {
	vm := newStubVM()
	Install(vm)

	for _, want := range []string{"clock", "uuid", "humanBytes", "match", "replace", "upper", "lower", "type"} {
		if _, ok := vm.fns[want]; !ok {
			t.Errorf("expected native %q to be installed", want)
		}
	}
}

func TestClockReturnsANumber(t *testing.T) {
	vm := newStubVM()
	Install(vm)
	v := vm.call(t, "clock")
	if !v.IsNumber() {
		t.Fatalf("expected clock() to return a number, got %v", v)
	}
}

func TestUUIDReturnsWellFormedString(t *testing.T) {
	vm := newStubVM()
	Install(vm)
	v := vm.call(t, "uuid")
	if !v.IsString() {
		t.Fatalf("expected uuid() to return a string, got %v", v)
	}
	pattern := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	if !pattern.MatchString(v.AsString().Chars) {
		t.Fatalf("expected a well-formed UUID, got %q", v.AsString().Chars)
	}
}

func TestHumanBytesFormatsSize(t *testing.T) {
	vm := newStubVM()
	Install(vm)
	v := vm.call(t, "humanBytes", value.Number(1024))
	if v.AsString().Chars != "1.0 kB" {
		t.Fatalf("expected %q, got %q", "1.0 kB", v.AsString().Chars)
	}
}

func TestMatchAndReplace(t *testing.T) {
	vm := newStubVM()
	Install(vm)

	matched := vm.call(t, "match", value.FromObj(vm.heap.InternString("^h.llo$")), value.FromObj(vm.heap.InternString("hello")))
	if !matched.AsBool() {
		t.Fatal("expected the pattern to match")
	}

	replaced := vm.call(t, "replace",
		value.FromObj(vm.heap.InternString("o")),
		value.FromObj(vm.heap.InternString("foo")),
		value.FromObj(vm.heap.InternString("0")))
	if replaced.AsString().Chars != "f00" {
		t.Fatalf("expected %q, got %q", "f00", replaced.AsString().Chars)
	}
}

func TestUpperAndLower(t *testing.T) {
	vm := newStubVM()
	Install(vm)

	upper := vm.call(t, "upper", value.FromObj(vm.heap.InternString("Hello")))
	if upper.AsString().Chars != "HELLO" {
		t.Fatalf("expected %q, got %q", "HELLO", upper.AsString().Chars)
	}

	lower := vm.call(t, "lower", value.FromObj(vm.heap.InternString("Hello")))
	if lower.AsString().Chars != "hello" {
		t.Fatalf("expected %q, got %q", "hello", lower.AsString().Chars)
	}
}

func TestTypeNative(t *testing.T) {
	vm := newStubVM()
	Install(vm)

	cases := []struct {
		v    value.Value
		want string
	}{
		{value.Nil(), "nil"},
		{value.Bool(true), "bool"},
		{value.Number(1), "number"},
		{value.FromObj(vm.heap.InternString("s")), "string"},
	}
	for _, c := range cases {
		got := vm.call(t, "type", c.v)
		if got.AsString().Chars != c.want {
			t.Errorf("type(%v): expected %q, got %q", c.v, c.want, got.AsString().Chars)
		}
	}
}

func TestNativeArgumentErrors(t *testing.T) {
	vm := newStubVM()
	Install(vm)

	fn := vm.fns["clock"]
	if _, err := fn([]value.Value{value.Number(1)}); err == nil {
		t.Fatal("expected clock() to reject arguments")
	}

	fn = vm.fns["upper"]
	if _, err := fn([]value.Value{value.Number(1)}); err == nil {
		t.Fatal("expected upper() to reject a non-string argument")
	}
}
