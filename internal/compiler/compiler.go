// Package compiler implements the single-pass Pratt-parsing compiler of
// spec.md §4.D: it drives internal/lexer's token stream directly into
// internal/bytecode instructions, with no intermediate AST.
package compiler

import (
	"math"
	"strconv"

	"github.com/loxscript/lox/internal/bytecode"
	"github.com/loxscript/lox/internal/gc"
	"github.com/loxscript/lox/internal/lexer"
	"github.com/loxscript/lox/internal/token"
	"github.com/loxscript/lox/internal/value"
)

// classScope tracks the class currently being compiled, so `this` and
// `super` can be rejected outside one (spec.md §4.D "Classes").
type classScope struct {
	enclosing     *classScope
	hasSuperclass bool
}

// Compiler holds all single-pass compilation state: the token cursor,
// the chain of function scopes, and the chain of class scopes. One
// Compiler compiles exactly one source buffer into exactly one top-level
// script function.
type Compiler struct {
	heap *gc.Heap
	lx   *lexer.Lexer

	previous token.Token
	current  token.Token

	hadError  bool
	panicMode bool
	errors    []CompileError

	fn    *funcScope
	class *classScope
}

// Compile parses and emits bytecode for source, returning the top-level
// script Function object. On any compile error it returns nil and the
// full list of errors accumulated in panic-recovery mode (spec.md §7:
// "the final outcome is compile failed and no function is returned").
func Compile(source string, heap *gc.Heap) (*value.Obj, []CompileError) {
	c := &Compiler{heap: heap, lx: lexer.New(source)}

	fn := heap.NewFunction(nil, 0)
	c.fn = newFuncScope(nil, fn, TypeScript)

	heap.SetCompilerRoots(func(h *gc.Heap) {
		for fs := c.fn; fs != nil; fs = fs.enclosing {
			h.MarkObject(fs.function)
		}
	})
	defer heap.SetCompilerRoots(nil)

	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}

	fn = c.endCompiler()
	if c.hadError {
		return nil, c.errors
	}
	return fn, nil
}

// endCompiler appends the implicit RETURN every function needs and
// returns the function object built for the scope now ending.
func (c *Compiler) endCompiler() *value.Obj {
	c.emitReturn()
	fn := c.fn.function
	c.fn = c.fn.enclosing
	return fn
}

func (c *Compiler) emitReturn() {
	if c.fn.fnType == TypeInitializer {
		// Initializers implicitly return the receiver in slot 0.
		c.emitOp(bytecode.OpGetLocal)
		c.emitByte(0)
	} else {
		c.emitOp(bytecode.OpNil)
	}
	c.emitOp(bytecode.OpReturn)
}

// ---- token cursor -------------------------------------------------

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.lx.NextToken()
		if c.current.Type != token.Error {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) check(t token.Type) bool { return c.current.Type == t }

func (c *Compiler) match(t token.Type) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(t token.Type, message string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// ---- byte emission --------------------------------------------------

func (c *Compiler) currentChunk() *bytecode.Chunk { return c.fn.chunk() }

func (c *Compiler) emitByte(b byte) {
	c.currentChunk().Write(b, c.previous.Line)
}

func (c *Compiler) emitOp(op bytecode.OpCode) {
	c.currentChunk().WriteOp(op, c.previous.Line)
}

func (c *Compiler) emitOpByte(op bytecode.OpCode, operand byte) {
	c.emitOp(op)
	c.emitByte(operand)
}

// makeConstant appends v to the current chunk's constant pool and returns
// its index; equal constants are not deduplicated.
func (c *Compiler) makeConstant(v value.Value) byte {
	idx, err := c.currentChunk().AddConstant(v)
	if err != nil {
		c.errorAtPrevious(err.Error())
		return 0
	}
	return byte(idx)
}

func (c *Compiler) identifierConstant(name string) byte {
	return c.makeConstant(value.FromObj(c.heap.InternString(name)))
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitOpByte(bytecode.OpConstant, c.makeConstant(v))
}

// emitJump writes op followed by a two-byte placeholder, returning the
// operand's offset for later patching.
func (c *Compiler) emitJump(op bytecode.OpCode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return c.currentChunk().Count() - 2
}

// patchJump backfills the two-byte operand at offset with the distance
// from just past it to the current end of the chunk (spec.md §4.D:
// "jump = chunk.count - placeholder - 2").
func (c *Compiler) patchJump(offset int) {
	jump := c.currentChunk().Count() - offset - 2
	if jump > math.MaxUint16 {
		c.errorAtPrevious("Too much code to jump over.")
		return
	}
	code := c.currentChunk().Code
	code[offset] = byte(jump >> 8)
	code[offset+1] = byte(jump)
}

// emitLoop writes a backward OP_LOOP to loopStart.
func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(bytecode.OpLoop)
	offset := c.currentChunk().Count() - loopStart + 2
	if offset > math.MaxUint16 {
		c.errorAtPrevious("Loop body too large.")
	}
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset))
}

// parseNumber converts the previous token's lexeme to a float64. The
// lexer only ever hands the compiler well-formed decimal literals, so a
// parse failure here would be a lexer bug, not a user error.
func parseNumber(lexeme string) float64 {
	n, _ := strconv.ParseFloat(lexeme, 64)
	return n
}
