package compiler

import "github.com/loxscript/lox/internal/token"

// CompileError is one reported problem, carrying enough context for the
// VM to print "[line N] Error: message at 'lexeme'" (spec.md §7).
type CompileError struct {
	Line    int
	Where   string
	Message string
}

func (e CompileError) Error() string {
	if e.Where == "" {
		return e.Message
	}
	return e.Message + " at '" + e.Where + "'"
}

// errorAt records an error at tok unless the compiler is already in
// panic mode, in which case it is suppressed until synchronize runs
// (spec.md §4.D "Error recovery").
func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	where := tok.Lexeme
	if tok.Type == token.EOF {
		where = "end"
	}
	c.errors = append(c.errors, CompileError{Line: tok.Line, Where: where, Message: message})
}

func (c *Compiler) errorAtPrevious(message string) { c.errorAt(c.previous, message) }
func (c *Compiler) errorAtCurrent(message string)  { c.errorAt(c.current, message) }

// synchronize discards tokens until it reaches a likely statement
// boundary, then clears panic mode (spec.md §4.D "Error recovery").
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Type != token.EOF {
		if c.previous.Type == token.Semicolon {
			return
		}
		switch c.current.Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		c.advance()
	}
}
