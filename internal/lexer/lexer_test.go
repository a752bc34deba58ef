package lexer

import "testing"

func TestNextTokenBasic(t *testing.T) {
	input := `var x = 5 + 10;
function add(a, b) { return a + b; }`

	want := []TokenType{
		VAR, IDENT, ASSIGN, INT, PLUS, INT, SEMICOLON,
		FUNCTION, IDENT, LPAREN, IDENT, COMMA, IDENT, RPAREN, LBRACE,
		RETURN, IDENT, PLUS, IDENT, SEMICOLON, RBRACE,
		EOF,
	}

	l := New("t.script", input)
	for i, wantType := range want {
		tok := l.Next()
		if tok.Type != wantType {
			t.Fatalf("token %d: got %s, want %s (literal %q)", i, tok.Type, wantType, tok.Literal)
		}
	}
}

func TestNextTokenOperators(t *testing.T) {
	input := `== != <= >= && || ++ -- += -= *= /= !`
	want := []TokenType{EQ, NOT_EQ, LESS_EQ, GREATER_EQ, AMP_AMP, PIPE_PIPE, INC, DEC, PLUS_ASSIGN, MINUS_ASSIGN, TIMES_ASSIGN, DIVIDE_ASSIGN, EXCLAMATION, EOF}
	l := New("t.script", input)
	for i, wantType := range want {
		tok := l.Next()
		if tok.Type != wantType {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, wantType)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	l := New("t.script", `"hello\nworld"`)
	tok := l.Next()
	if tok.Type != STRING {
		t.Fatalf("got %s, want STRING", tok.Type)
	}
	if tok.Literal != "hello\nworld" {
		t.Fatalf("got %q", tok.Literal)
	}
}

func TestFloatLiteral(t *testing.T) {
	l := New("t.script", `3.14 2e10 1.5e-3`)
	for _, want := range []string{"3.14", "2e10", "1.5e-3"} {
		tok := l.Next()
		if tok.Type != FLOAT || tok.Literal != want {
			t.Fatalf("got %s %q, want FLOAT %q", tok.Type, tok.Literal, want)
		}
	}
}

func TestIllegalCharacterRecorded(t *testing.T) {
	l := New("t.script", `var x = @;`)
	for {
		tok := l.Next()
		if tok.Type == EOF {
			break
		}
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("got %d errors, want 1", len(l.Errors()))
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	l := New("t.script", `var Δx = 1;`)
	l.Next() // var
	tok := l.Next()
	if tok.Type != IDENT || tok.Literal != "Δx" {
		t.Fatalf("got %s %q", tok.Type, tok.Literal)
	}
}
