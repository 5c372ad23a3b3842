package compiler

import (
	"github.com/loxscript/lox/internal/bytecode"
	"github.com/loxscript/lox/internal/value"
)

// FuncType records why a funcScope exists; it governs return handling and
// slot-0 naming (spec.md §3 "Compiler state").
type FuncType int

const (
	TypeScript FuncType = iota
	TypeFunction
	TypeMethod
	TypeInitializer
)

// MaxLocals and MaxUpvalues bound the compiler's per-function tables to
// what a one-byte operand can address (spec.md §3).
const (
	MaxLocals   = 256
	MaxUpvalues = 256
)

// local is a compile-time shadow of one VM stack slot (spec.md §3
// Invariant 1). Depth -1 means "declared but not yet initialized"
// (Invariant 2).
type local struct {
	name       string
	depth      int
	isCaptured bool
}

// upvalueRef records how a function's Nth upvalue is sourced: from a
// local slot in the immediately enclosing function, or by forwarding an
// upvalue the enclosing function already captured.
type upvalueRef struct {
	index   byte
	isLocal bool
}

// funcScope is one frame of the compiler's own call stack, one per Lox
// function/method/script currently being compiled (spec.md §3 "Compiler
// state", §4.F root 5). enclosing chains outward to the lexically
// surrounding function, mirroring the teacher's own compiler-frame stack.
type funcScope struct {
	enclosing *funcScope

	function *value.Obj // wraps a FunctionObj under construction
	fnType   FuncType

	locals     []local
	upvalues   []upvalueRef
	scopeDepth int
}

func newFuncScope(enclosing *funcScope, fn *value.Obj, fnType FuncType) *funcScope {
	fs := &funcScope{enclosing: enclosing, function: fn, fnType: fnType}
	// Slot 0 is reserved: the implicit receiver for methods/initializers,
	// an unnameable sentinel otherwise (spec.md §3).
	name := ""
	if fnType == TypeMethod || fnType == TypeInitializer {
		name = "this"
	}
	fs.locals = append(fs.locals, local{name: name, depth: 0})
	return fs
}

func (fs *funcScope) chunk() *bytecode.Chunk { return fs.function.AsFunction().Chunk }

// addLocal declares name at the current scope depth as uninitialized.
func (c *Compiler) addLocal(name string) bool {
	fs := c.fn
	if len(fs.locals) >= MaxLocals {
		c.errorAtPrevious("Too many local variables in function.")
		return false
	}
	fs.locals = append(fs.locals, local{name: name, depth: -1})
	return true
}

// resolveLocal finds name among fs's locals, searching innermost first.
// Returns -1 if not found.
func resolveLocal(fs *funcScope, name string) int {
	for i := len(fs.locals) - 1; i >= 0; i-- {
		if fs.locals[i].name == name {
			return i
		}
	}
	return -1
}

// addUpvalue records that fs's closures must capture one more variable,
// deduplicating by (index, isLocal) (spec.md §4.D "addUpvalue").
func addUpvalue(c *Compiler, fs *funcScope, index byte, isLocal bool) int {
	for i, up := range fs.upvalues {
		if up.index == index && up.isLocal == isLocal {
			return i
		}
	}
	if len(fs.upvalues) >= MaxUpvalues {
		c.errorAtPrevious("Too many closure variables in function.")
		return 0
	}
	fs.upvalues = append(fs.upvalues, upvalueRef{index: index, isLocal: isLocal})
	fs.function.AsFunction().UpvalueCount = len(fs.upvalues)
	return len(fs.upvalues) - 1
}

// resolveUpvalue implements spec.md §4.D's recursive upvalue resolution.
func resolveUpvalue(c *Compiler, fs *funcScope, name string) int {
	if fs.enclosing == nil {
		return -1
	}
	if localIdx := resolveLocal(fs.enclosing, name); localIdx != -1 {
		fs.enclosing.locals[localIdx].isCaptured = true
		return addUpvalue(c, fs, byte(localIdx), true)
	}
	if up := resolveUpvalue(c, fs.enclosing, name); up != -1 {
		return addUpvalue(c, fs, byte(up), false)
	}
	return -1
}

func (c *Compiler) beginScope() { c.fn.scopeDepth++ }

// endScope pops trailing locals whose depth exceeds the new depth,
// emitting CLOSE_UPVALUE for captured ones and POP for the rest (spec.md
// §4.D "endScope").
func (c *Compiler) endScope() {
	fs := c.fn
	fs.scopeDepth--
	for len(fs.locals) > 0 && fs.locals[len(fs.locals)-1].depth > fs.scopeDepth {
		last := fs.locals[len(fs.locals)-1]
		if last.isCaptured {
			c.emitOp(bytecode.OpCloseUpvalue)
		} else {
			c.emitOp(bytecode.OpPop)
		}
		fs.locals = fs.locals[:len(fs.locals)-1]
	}
}

// markInitialized sets the most recently declared local's depth to the
// current scope depth (spec.md §4.D: "once the initializer is compiled").
func (c *Compiler) markInitialized() {
	fs := c.fn
	if fs.scopeDepth == 0 {
		return
	}
	fs.locals[len(fs.locals)-1].depth = fs.scopeDepth
}
