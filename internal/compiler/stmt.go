package compiler

import (
	"github.com/loxscript/lox/internal/bytecode"
	"github.com/loxscript/lox/internal/token"
	"github.com/loxscript/lox/internal/value"
)

// declaration parses one top-level production: a class, function, or
// variable declaration, or a bare statement. Any compile error triggers
// synchronize before the next declaration is attempted (spec.md §4.D
// "Error recovery").
func (c *Compiler) declaration() {
	switch {
	case c.match(token.Class):
		c.classDeclaration()
	case c.match(token.Fun):
		c.funDeclaration()
	case c.match(token.Var):
		c.varDeclaration()
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.Print):
		c.printStatement()
	case c.match(token.If):
		c.ifStatement()
	case c.match(token.Return):
		c.returnStatement()
	case c.match(token.While):
		c.whileStatement()
	case c.match(token.For):
		c.forStatement()
	case c.match(token.LeftBrace):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.check(token.RightBrace) && !c.check(token.EOF) {
		c.declaration()
	}
	c.consume(token.RightBrace, "Expect '}' after block.")
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.Semicolon, "Expect ';' after expression.")
	c.emitOp(bytecode.OpPop)
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.Semicolon, "Expect ';' after value.")
	c.emitOp(bytecode.OpPrint)
}

func (c *Compiler) returnStatement() {
	if c.fn.fnType == TypeScript {
		c.errorAtPrevious("Can't return from top-level code.")
	}
	if c.match(token.Semicolon) {
		c.emitReturn()
		return
	}
	if c.fn.fnType == TypeInitializer {
		c.errorAtPrevious("Can't return a value from an initializer.")
	}
	c.expression()
	c.consume(token.Semicolon, "Expect ';' after return value.")
	c.emitOp(bytecode.OpReturn)
}

// ifStatement lowers `if (e) s1 [else s2]` per spec.md §4.D: both
// branches pop the condition themselves, so the value stack balances
// either way.
func (c *Compiler) ifStatement() {
	c.consume(token.LeftParen, "Expect '(' after 'if'.")
	c.expression()
	c.consume(token.RightParen, "Expect ')' after condition.")

	thenJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.statement()

	elseJump := c.emitJump(bytecode.OpJump)
	c.patchJump(thenJump)
	c.emitOp(bytecode.OpPop)

	if c.match(token.Else) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := c.currentChunk().Count()
	c.consume(token.LeftParen, "Expect '(' after 'while'.")
	c.expression()
	c.consume(token.RightParen, "Expect ')' after condition.")

	exitJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(bytecode.OpPop)
}

// forStatement lowers the C-style for loop per spec.md §4.D: the
// increment is spliced between the body and the backward jump to the
// condition by emitting it once, inside a forward jump over it, with its
// own loop back to the condition check.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(token.LeftParen, "Expect '(' after 'for'.")

	switch {
	case c.match(token.Semicolon):
		// no initializer
	case c.match(token.Var):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := c.currentChunk().Count()
	exitJump := -1
	if !c.match(token.Semicolon) {
		c.expression()
		c.consume(token.Semicolon, "Expect ';' after loop condition.")
		exitJump = c.emitJump(bytecode.OpJumpIfFalse)
		c.emitOp(bytecode.OpPop)
	}

	if !c.check(token.RightParen) {
		bodyJump := c.emitJump(bytecode.OpJump)
		incrementStart := c.currentChunk().Count()
		c.expression()
		c.emitOp(bytecode.OpPop)
		c.consume(token.RightParen, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	} else {
		c.consume(token.RightParen, "Expect ')' after for clauses.")
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(bytecode.OpPop)
	}
	c.endScope()
}

// ---- declarations -----------------------------------------------------

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")
	if c.match(token.Equal) {
		c.expression()
	} else {
		c.emitOp(bytecode.OpNil)
	}
	c.consume(token.Semicolon, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

// parseVariable consumes the name token and, for a local, declares it.
// It returns the identifier-constant index to use for DEFINE_GLOBAL, or
// 0 for locals (meaningless there).
func (c *Compiler) parseVariable(message string) byte {
	c.consume(token.Identifier, message)
	name := c.previous.Lexeme
	if c.fn.scopeDepth > 0 {
		c.declareLocal(name)
		return 0
	}
	return c.identifierConstant(name)
}

// declareLocal rejects redeclaring a name within the *same* scope
// (spec.md §4.D), while allowing it to shadow an outer one.
func (c *Compiler) declareLocal(name string) {
	fs := c.fn
	for i := len(fs.locals) - 1; i >= 0; i-- {
		l := fs.locals[i]
		if l.depth != -1 && l.depth < fs.scopeDepth {
			break
		}
		if l.name == name {
			c.errorAtPrevious("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

func (c *Compiler) defineVariable(global byte) {
	if c.fn.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(bytecode.OpDefineGlobal, global)
}

func (c *Compiler) funDeclaration() {
	c.consume(token.Identifier, "Expect function name.")
	name := c.previous.Lexeme
	if c.fn.scopeDepth > 0 {
		c.declareLocal(name)
		c.markInitialized()
		c.function(name, TypeFunction)
		return
	}
	global := c.identifierConstant(name)
	c.function(name, TypeFunction)
	c.emitOpByte(bytecode.OpDefineGlobal, global)
}

// function compiles one function body into a fresh funcScope, then
// emits CLOSURE (with its trailing upvalue-capture pairs) into the
// enclosing chunk (spec.md §4.D "Functions").
func (c *Compiler) function(name string, fnType FuncType) {
	// Root the function via the compiler chain before interning its
	// name, so that allocation can't sweep either one out from under
	// the other (spec.md §4.F "Allocation discipline").
	fn := c.heap.NewFunction(nil, 0)
	c.fn = newFuncScope(c.fn, fn, fnType)
	fn.AsFunction().Name = c.heap.InternString(name)
	c.beginScope()

	c.consume(token.LeftParen, "Expect '(' after function name.")
	if !c.check(token.RightParen) {
		for {
			fnObj := c.fn.function.AsFunction()
			fnObj.Arity++
			if fnObj.Arity > 255 {
				c.errorAtCurrent("Can't have more than 255 parameters.")
			}
			param := c.parseVariable("Expect parameter name.")
			c.defineVariable(param)
			if !c.match(token.Comma) {
				break
			}
		}
	}
	c.consume(token.RightParen, "Expect ')' after parameters.")
	c.consume(token.LeftBrace, "Expect '{' before function body.")
	c.block()

	fs := c.fn
	compiled := c.endCompiler()

	c.emitOpByte(bytecode.OpClosure, c.makeConstant(value.FromObj(compiled)))
	for _, up := range fs.upvalues {
		if up.isLocal {
			c.emitByte(1)
		} else {
			c.emitByte(0)
		}
		c.emitByte(up.index)
	}
}

func (c *Compiler) classDeclaration() {
	c.consume(token.Identifier, "Expect class name.")
	nameTok := c.previous
	nameConst := c.identifierConstant(nameTok.Lexeme)
	if c.fn.scopeDepth > 0 {
		c.declareLocal(nameTok.Lexeme)
	}
	c.emitOpByte(bytecode.OpClass, nameConst)
	if c.fn.scopeDepth > 0 {
		c.markInitialized()
	} else {
		c.emitOpByte(bytecode.OpDefineGlobal, nameConst)
	}

	cls := &classScope{enclosing: c.class}
	c.class = cls

	if c.match(token.Less) {
		c.consume(token.Identifier, "Expect superclass name.")
		if c.previous.Lexeme == nameTok.Lexeme {
			c.errorAtPrevious("A class can't inherit from itself.")
		}
		c.namedVariable(c.previous, false)

		c.beginScope()
		c.addLocal("super")
		c.defineVariable(0)

		c.namedVariable(nameTok, false)
		c.emitOp(bytecode.OpInherit)
		cls.hasSuperclass = true
	}

	c.namedVariable(nameTok, false)
	c.consume(token.LeftBrace, "Expect '{' before class body.")
	for !c.check(token.RightBrace) && !c.check(token.EOF) {
		c.method()
	}
	c.consume(token.RightBrace, "Expect '}' after class body.")
	c.emitOp(bytecode.OpPop)

	if cls.hasSuperclass {
		c.endScope()
	}
	c.class = cls.enclosing
}

func (c *Compiler) method() {
	c.consume(token.Identifier, "Expect method name.")
	name := c.previous.Lexeme
	nameConst := c.identifierConstant(name)

	fnType := TypeMethod
	if name == "init" {
		fnType = TypeInitializer
	}
	c.function(name, fnType)
	c.emitOpByte(bytecode.OpMethod, nameConst)
}
