// Package vm implements the stack-based bytecode interpreter of spec.md
// §4.E: a fetch/decode/execute loop over call frames, a value stack, a
// globals table, and the closure/upvalue/class machinery the compiler's
// opcodes assume.
package vm

import (
	"fmt"
	"os"

	"github.com/loxscript/lox/internal/compiler"
	"github.com/loxscript/lox/internal/gc"
	"github.com/loxscript/lox/internal/value"
)

// DefaultStackSlots and DefaultMaxFrames follow spec.md §4.E's "typical"
// sizing (64 frames x 256 locals).
const (
	DefaultStackSlots = 16384
	DefaultMaxFrames  = 64
)

// Status is the outcome of Interpret (spec.md §7's three error
// categories, plus success).
type Status int

const (
	StatusOK Status = iota
	StatusCompileError
	StatusRuntimeError
)

// Logger receives diagnostic events the VM itself doesn't print to
// stderr (spec.md §7: "logging is diagnostic, not the error-reporting
// channel"). A nil Logger disables all of it.
type Logger interface {
	Tracef(format string, args ...any)
	Debugf(format string, args ...any)
}

// VM is one Lox execution context: its value stack, call frames,
// globals, and the heap that owns every object it touches. Per spec.md
// §5, a VM is single-threaded and non-reentrant; create a new one per
// isolated program run.
type VM struct {
	heap *gc.Heap

	stack []value.Value
	sp    int

	frames   []frame
	frameCnt int

	globals map[string]value.Value

	openUps openUpvalues

	stdout func(string)
	stderr func(string)
	trace  bool
	logger Logger

	disassemble bool
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithStackSlots overrides DefaultStackSlots.
func WithStackSlots(n int) Option { return func(v *VM) { v.stack = make([]value.Value, n) } }

// WithMaxFrames overrides DefaultMaxFrames.
func WithMaxFrames(n int) Option { return func(v *VM) { v.frames = make([]frame, n) } }

// WithTrace enables per-instruction execution tracing (spec.md §6 CLI's
// `-trace`), written through Logger.Tracef.
func WithTrace(enabled bool) Option { return func(v *VM) { v.trace = enabled } }

// WithLogger installs a diagnostic logger; omitting this option disables
// tracing without affecting error reporting. GC-cycle logging does not go
// through this logger (it is installed on the heap via gc.Heap.OnCollect).
func WithLogger(l Logger) Option { return func(v *VM) { v.logger = l } }

// WithStdout overrides where OP_PRINT writes; the default is os.Stdout.
func WithStdout(w func(string)) Option { return func(v *VM) { v.stdout = w } }

// WithStderr overrides where compile/runtime error reports go; the
// default is os.Stderr.
func WithStderr(w func(string)) Option { return func(v *VM) { v.stderr = w } }

// New constructs a VM bound to heap, ready to Interpret repeatedly
// against shared global state (spec.md §6 CLI: "shared VM state across
// lines" in the REPL).
func New(heap *gc.Heap, opts ...Option) *VM {
	vm := &VM{
		heap:    heap,
		stack:   make([]value.Value, DefaultStackSlots),
		frames:  make([]frame, DefaultMaxFrames),
		globals: make(map[string]value.Value),
		stdout:  func(s string) { fmt.Fprint(os.Stdout, s) },
		stderr:  func(s string) { fmt.Fprint(os.Stderr, s) },
	}
	for _, opt := range opts {
		opt(vm)
	}
	heap.SetVMRoots(vm.markRoots)
	return vm
}

// Heap exposes the VM's heap so callers (natives, the CLI) can allocate
// through the same collector.
func (vm *VM) Heap() *gc.Heap { return vm.heap }

// SetDisassemble enables printing every compiled function's disassembly
// to stderr before Interpret runs it (spec.md §6 CLI's `-disassemble`).
func (vm *VM) SetDisassemble(enabled bool) { vm.disassemble = enabled }

// DefineNative registers a host function into the globals table under
// name, the way the compiler's DEFINE_GLOBAL would for a Lox-level
// declaration (spec.md §3 "Native").
func (vm *VM) DefineNative(name string, fn value.NativeFn) {
	obj := vm.heap.NewNative(name, fn)
	vm.globals[name] = value.FromObj(obj)
}

// Interpret compiles and runs one source buffer against this VM's
// existing global state (spec.md §6 CLI contract).
func (vm *VM) Interpret(source string) Status {
	fnObj, errs := compiler.Compile(source, vm.heap)
	if fnObj == nil {
		for _, e := range errs {
			vm.stderr(fmt.Sprintf("[line %d] Error: %s\n", e.Line, e.Error()))
		}
		return StatusCompileError
	}

	if vm.disassemble {
		vm.disassembleTree(fnObj)
	}

	vm.push(value.FromObj(fnObj))
	closure := vm.heap.NewClosure(fnObj, fnObj.AsFunction().UpvalueCount)
	vm.pop()
	vm.push(value.FromObj(closure))
	if !vm.callValue(value.FromObj(closure), 0) {
		return StatusRuntimeError
	}

	return vm.run()
}

// ---- stack primitives --------------------------------------------------

func (vm *VM) push(v value.Value) {
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() value.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.sp-1-distance]
}
