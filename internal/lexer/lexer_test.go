package lexer

import (
	"testing"

	"github.com/loxscript/lox/internal/token"
)

func TestLexerBasicTokens(t *testing.T) {
	input := `
fun add(a, b) {
  var c = a + b;
  if (c >= 10 and a != b) {
    return c;
  }
}
`
	expected := []token.Type{
		token.Fun, token.Identifier, token.LeftParen, token.Identifier, token.Comma, token.Identifier, token.RightParen, token.LeftBrace,
		token.Var, token.Identifier, token.Equal, token.Identifier, token.Plus, token.Identifier, token.Semicolon,
		token.If, token.LeftParen, token.Identifier, token.GreaterEqual, token.Number, token.And, token.Identifier, token.BangEqual, token.Identifier, token.RightParen, token.LeftBrace,
		token.Return, token.Identifier, token.Semicolon,
		token.RightBrace,
		token.RightBrace,
		token.EOF,
	}

	l := New(input)
	for i, typ := range expected {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Fatalf("token %d: expected %v, got %v (%q)", i, typ, tok.Type, tok.Lexeme)
		}
	}
}

func TestLexerStringsAndNumbers(t *testing.T) {
	input := `"hello" 1 2.5 "unterminated`

	l := New(input)

	tok := l.NextToken()
	if tok.Type != token.String || tok.Lexeme != `"hello"` {
		t.Fatalf("expected string token, got %v %q", tok.Type, tok.Lexeme)
	}

	tok = l.NextToken()
	if tok.Type != token.Number || tok.Lexeme != "1" {
		t.Fatalf("expected integer number token, got %v %q", tok.Type, tok.Lexeme)
	}

	tok = l.NextToken()
	if tok.Type != token.Number || tok.Lexeme != "2.5" {
		t.Fatalf("expected float number token, got %v %q", tok.Type, tok.Lexeme)
	}

	tok = l.NextToken()
	if tok.Type != token.Error {
		t.Fatalf("expected error token for unterminated string, got %v %q", tok.Type, tok.Lexeme)
	}
}

func TestLexerCommentsAndWhitespace(t *testing.T) {
	input := "// a line comment\nvar a = 1; // trailing\nvar b = 2;"

	expected := []token.Type{
		token.Var, token.Identifier, token.Equal, token.Number, token.Semicolon,
		token.Var, token.Identifier, token.Equal, token.Number, token.Semicolon,
		token.EOF,
	}

	l := New(input)
	for i, typ := range expected {
		tok := l.NextToken()
		if tok.Type != typ {
			t.Fatalf("token %d: expected %v, got %v (%q)", i, typ, tok.Type, tok.Lexeme)
		}
	}
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	input := "class Foo < Bar { } orchid"

	expected := []struct {
		typ    token.Type
		lexeme string
	}{
		{token.Class, "class"},
		{token.Identifier, "Foo"},
		{token.Less, "<"},
		{token.Identifier, "Bar"},
		{token.LeftBrace, "{"},
		{token.RightBrace, "}"},
		{token.Identifier, "orchid"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, e := range expected {
		tok := l.NextToken()
		if tok.Type != e.typ {
			t.Fatalf("token %d: expected type %v, got %v", i, e.typ, tok.Type)
		}
		if e.lexeme != "" && tok.Lexeme != e.lexeme {
			t.Fatalf("token %d: expected lexeme %q, got %q", i, e.lexeme, tok.Lexeme)
		}
	}
}

func TestLexerLineTracking(t *testing.T) {
	input := "var a = 1;\n\nvar b = 2;"

	l := New(input)
	var aLine, bLine int
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Type == token.Identifier && tok.Lexeme == "a" {
			aLine = tok.Line
		}
		if tok.Type == token.Identifier && tok.Lexeme == "b" {
			bLine = tok.Line
		}
	}
	if aLine != 1 {
		t.Errorf("expected 'a' on line 1, got %d", aLine)
	}
	if bLine != 3 {
		t.Errorf("expected 'b' on line 3, got %d", bLine)
	}
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	if tok.Type != token.Error {
		t.Fatalf("expected error token, got %v", tok.Type)
	}
}
