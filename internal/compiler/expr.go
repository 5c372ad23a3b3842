package compiler

import (
	"github.com/loxscript/lox/internal/bytecode"
	"github.com/loxscript/lox/internal/token"
	"github.com/loxscript/lox/internal/value"
)

// Precedence is the Pratt parser's precedence ladder (spec.md §4.D,
// ascending).
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < > <= >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! -
	PrecCall                  // . ()
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

var rules map[token.Type]parseRule

func init() {
	rules = map[token.Type]parseRule{
		token.LeftParen:    {prefix: (*Compiler).grouping, infix: (*Compiler).call, precedence: PrecCall},
		token.Dot:          {infix: (*Compiler).dot, precedence: PrecCall},
		token.Minus:        {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		token.Plus:         {infix: (*Compiler).binary, precedence: PrecTerm},
		token.Slash:        {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Star:         {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Bang:         {prefix: (*Compiler).unary},
		token.BangEqual:    {infix: (*Compiler).binary, precedence: PrecEquality},
		token.EqualEqual:   {infix: (*Compiler).binary, precedence: PrecEquality},
		token.Greater:      {infix: (*Compiler).binary, precedence: PrecComparison},
		token.GreaterEqual: {infix: (*Compiler).binary, precedence: PrecComparison},
		token.Less:         {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LessEqual:    {infix: (*Compiler).binary, precedence: PrecComparison},
		token.Identifier:   {prefix: (*Compiler).variable},
		token.String:       {prefix: (*Compiler).stringLiteral},
		token.Number:       {prefix: (*Compiler).number},
		token.And:          {infix: (*Compiler).and},
		token.Or:           {infix: (*Compiler).or},
		token.False:        {prefix: (*Compiler).literal},
		token.Nil:          {prefix: (*Compiler).literal},
		token.True:         {prefix: (*Compiler).literal},
		token.This:         {prefix: (*Compiler).this},
		token.Super:        {prefix: (*Compiler).super},
	}
}

func getRule(t token.Type) parseRule { return rules[t] }

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the heart of the Pratt parser (spec.md §4.D): run
// the current token's prefix rule, then keep consuming infix rules while
// the upcoming token binds at least as tightly as minPrec.
func (c *Compiler) parsePrecedence(minPrec Precedence) {
	c.advance()
	prefix := getRule(c.previous.Type).prefix
	if prefix == nil {
		c.errorAtPrevious("Expect expression.")
		return
	}
	canAssign := minPrec <= PrecAssignment
	prefix(c, canAssign)

	for minPrec <= getRule(c.current.Type).precedence {
		c.advance()
		infix := getRule(c.previous.Type).infix
		infix(c, canAssign)
	}
}

func (c *Compiler) grouping(_ bool) {
	c.expression()
	c.consume(token.RightParen, "Expect ')' after expression.")
}

func (c *Compiler) unary(_ bool) {
	opType := c.previous.Type
	c.parsePrecedence(PrecUnary)
	switch opType {
	case token.Minus:
		c.emitOp(bytecode.OpNegate)
	case token.Bang:
		c.emitOp(bytecode.OpNot)
	}
}

func (c *Compiler) binary(_ bool) {
	opType := c.previous.Type
	rule := getRule(opType)
	c.parsePrecedence(rule.precedence + 1)

	switch opType {
	case token.Plus:
		c.emitOp(bytecode.OpAdd)
	case token.Minus:
		c.emitOp(bytecode.OpSubtract)
	case token.Star:
		c.emitOp(bytecode.OpMultiply)
	case token.Slash:
		c.emitOp(bytecode.OpDivide)
	case token.EqualEqual:
		c.emitOp(bytecode.OpEqual)
	case token.BangEqual:
		c.emitOp(bytecode.OpEqual)
		c.emitOp(bytecode.OpNot)
	case token.Greater:
		c.emitOp(bytecode.OpGreater)
	case token.GreaterEqual:
		c.emitOp(bytecode.OpLess)
		c.emitOp(bytecode.OpNot)
	case token.Less:
		c.emitOp(bytecode.OpLess)
	case token.LessEqual:
		c.emitOp(bytecode.OpGreater)
		c.emitOp(bytecode.OpNot)
	}
}

// and implements short-circuit `and` (spec.md §4.D): if the left operand
// is falsey, skip the right operand and leave the left value as the
// result.
func (c *Compiler) and(_ bool) {
	endJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

// or implements short-circuit `or` (spec.md §4.D).
func (c *Compiler) or(_ bool) {
	elseJump := c.emitJump(bytecode.OpJumpIfFalse)
	endJump := c.emitJump(bytecode.OpJump)
	c.patchJump(elseJump)
	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *Compiler) number(_ bool) {
	c.emitConstant(value.Number(parseNumber(c.previous.Lexeme)))
}

// stringLiteral strips the lexer's surrounding quote bytes before
// interning: the lexeme for a string token spans the opening and closing
// `"` (spec.md §6), which are not part of the value.
func (c *Compiler) stringLiteral(_ bool) {
	lexeme := c.previous.Lexeme
	c.emitConstant(value.FromObj(c.heap.InternString(lexeme[1 : len(lexeme)-1])))
}

func (c *Compiler) literal(_ bool) {
	switch c.previous.Type {
	case token.False:
		c.emitOp(bytecode.OpFalse)
	case token.True:
		c.emitOp(bytecode.OpTrue)
	case token.Nil:
		c.emitOp(bytecode.OpNil)
	}
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

// namedVariable resolves name as a local, then an upvalue, then falls
// back to a global (spec.md §4.D "Identifier resolution order"), and
// compiles either a read or, if canAssign and an '=' follows, a write.
func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp bytecode.OpCode
	var arg int

	if idx := resolveLocal(c.fn, name.Lexeme); idx != -1 {
		if c.fn.locals[idx].depth == -1 {
			c.errorAtPrevious("Can't read local variable in its own initializer.")
		}
		getOp, setOp, arg = bytecode.OpGetLocal, bytecode.OpSetLocal, idx
	} else if idx := resolveUpvalue(c, c.fn, name.Lexeme); idx != -1 {
		getOp, setOp, arg = bytecode.OpGetUpvalue, bytecode.OpSetUpvalue, idx
	} else {
		getOp, setOp, arg = bytecode.OpGetGlobal, bytecode.OpSetGlobal, int(c.identifierConstant(name.Lexeme))
	}

	if canAssign && c.match(token.Equal) {
		c.expression()
		c.emitOpByte(setOp, byte(arg))
	} else {
		c.emitOpByte(getOp, byte(arg))
	}
}

// argumentList parses a parenthesized, comma-separated argument list
// whose opening '(' the caller already consumed, returning the count.
func (c *Compiler) argumentList() byte {
	argc := 0
	if !c.check(token.RightParen) {
		for {
			c.expression()
			if argc == 255 {
				c.errorAtPrevious("Can't have more than 255 arguments.")
			}
			argc++
			if !c.match(token.Comma) {
				break
			}
		}
	}
	c.consume(token.RightParen, "Expect ')' after arguments.")
	return byte(argc)
}

func (c *Compiler) call(_ bool) {
	argc := c.argumentList()
	c.emitOpByte(bytecode.OpCall, argc)
}

// dot compiles `.name`, `.name = value`, or the optimized `.name(args)`
// call form (spec.md §4.D "Optimized calls").
func (c *Compiler) dot(canAssign bool) {
	c.consume(token.Identifier, "Expect property name after '.'.")
	name := c.identifierConstant(c.previous.Lexeme)

	switch {
	case canAssign && c.match(token.Equal):
		c.expression()
		c.emitOpByte(bytecode.OpSetProperty, name)
	case c.match(token.LeftParen):
		argc := c.argumentList()
		c.emitOpByte(bytecode.OpInvoke, name)
		c.emitByte(argc)
	default:
		c.emitOpByte(bytecode.OpGetProperty, name)
	}
}

func (c *Compiler) this(_ bool) {
	if c.class == nil {
		c.errorAtPrevious("Can't use 'this' outside of a class.")
		return
	}
	c.variable(false)
}

// super compiles `super.name` and the optimized `super.name(args)` call
// form (spec.md §4.D "Classes", "Optimized calls").
func (c *Compiler) super(_ bool) {
	if c.class == nil {
		c.errorAtPrevious("Can't use 'super' outside of a class.")
	} else if !c.class.hasSuperclass {
		c.errorAtPrevious("Can't use 'super' in a class with no superclass.")
	}

	c.consume(token.Dot, "Expect '.' after 'super'.")
	c.consume(token.Identifier, "Expect superclass method name.")
	name := c.identifierConstant(c.previous.Lexeme)

	c.namedVariable(token.Token{Type: token.Identifier, Lexeme: "this"}, false)
	if c.match(token.LeftParen) {
		argc := c.argumentList()
		c.namedVariable(token.Token{Type: token.Identifier, Lexeme: "super"}, false)
		c.emitOpByte(bytecode.OpSuperInvoke, name)
		c.emitByte(argc)
	} else {
		c.namedVariable(token.Token{Type: token.Identifier, Lexeme: "super"}, false)
		c.emitOpByte(bytecode.OpGetSuper, name)
	}
}
