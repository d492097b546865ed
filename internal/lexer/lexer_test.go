package lexer

import (
	"testing"

	"github.com/cwbudde/ablc/internal/token"
)

func TestNextToken(t *testing.T) {
	input := `agent Boid { position pos: vec2; speed: float; }
	const N: int = 10;
	`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.AGENT, "agent"},
		{token.IDENT, "Boid"},
		{token.LBRACE, "{"},
		{token.POSITION, "position"},
		{token.IDENT, "pos"},
		{token.COLON, ":"},
		{token.IDENT, "vec2"},
		{token.SEMI, ";"},
		{token.IDENT, "speed"},
		{token.COLON, ":"},
		{token.IDENT, "float"},
		{token.SEMI, ";"},
		{token.RBRACE, "}"},
		{token.CONST, "const"},
		{token.IDENT, "N"},
		{token.COLON, ":"},
		{token.IDENT, "int"},
		{token.ASSIGN, "="},
		{token.INT, "10"},
		{token.SEMI, ";"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.Next()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (literal=%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / % & ^ | << >> == != < <= > >= && || ! = . .. -> ?`
	tests := []token.Type{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.AMP, token.CARET, token.PIPE, token.SHL, token.SHR,
		token.EQ, token.NOT_EQ, token.LT, token.LT_EQ, token.GT, token.GT_EQ,
		token.AND, token.OR, token.NOT, token.ASSIGN, token.DOT, token.DOTDOT,
		token.ARROW, token.QUESTION, token.EOF,
	}
	l := New(input)
	for i, want := range tests {
		got := l.Next()
		if got.Type != want {
			t.Fatalf("tests[%d]: expected %s, got %s (%q)", i, want, got.Type, got.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := `agent const environment function main param step step_seq simulate
		for in if else while return break continue true false position new`
	want := []token.Type{
		token.AGENT, token.CONST, token.ENV, token.FUNC, token.MAIN, token.PARAM,
		token.STEP, token.SEQ_STEP, token.SIMULATE, token.FOR, token.IN, token.IF,
		token.ELSE, token.WHILE, token.RETURN, token.BREAK, token.CONTINUE,
		token.TRUE, token.FALSE, token.POSITION, token.NEW, token.EOF,
	}
	l := New(input)
	for i, tt := range want {
		tok := l.Next()
		if tok.Type != tt {
			t.Fatalf("tests[%d] - wrong keyword type. expected=%s, got=%s", i, tt, tok.Type)
		}
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ   token.Type
	}{
		{"42", token.INT},
		{"3.14", token.FLOAT},
		{"1e10", token.FLOAT},
		{"2.5e-3", token.FLOAT},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.Next()
		if tok.Type != tt.typ || tok.Literal != tt.input {
			t.Errorf("input %q: got type=%s literal=%q", tt.input, tok.Type, tok.Literal)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"hello\nworld" "tab\there" "quote\"end" "back\\slash"`)

	want := []string{"hello\nworld", "tab\there", "quote\"end", "back\\slash"}
	for i, w := range want {
		tok := l.Next()
		if tok.Type != token.STRING {
			t.Fatalf("tests[%d]: expected STRING, got %s", i, tok.Type)
		}
		if tok.Literal != w {
			t.Errorf("tests[%d]: expected %q, got %q", i, w, tok.Literal)
		}
	}
}

func TestUnterminatedStringReportsError(t *testing.T) {
	l := New(`"no closing quote`)
	l.Next()
	if len(l.Errors()) == 0 {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestUnterminatedBlockCommentReportsError(t *testing.T) {
	l := New(`/* never closed`)
	tok := l.Next()
	if tok.Type != token.EOF {
		t.Fatalf("expected EOF after an unterminated comment, got %s", tok.Type)
	}
	if len(l.Errors()) == 0 {
		t.Fatal("expected an error for an unterminated block comment")
	}
}

func TestLineCommentsAreSkipped(t *testing.T) {
	l := New("const x = 1 // trailing comment\nconst y = 2")
	var idents []string
	for {
		tok := l.Next()
		if tok.Type == token.EOF {
			break
		}
		if tok.Type == token.IDENT {
			idents = append(idents, tok.Literal)
		}
	}
	if len(idents) != 2 || idents[0] != "x" || idents[1] != "y" {
		t.Fatalf("expected idents [x y], got %v", idents)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("a b c")
	first := l.Peek(0)
	second := l.Peek(1)
	if first.Literal != "a" || second.Literal != "b" {
		t.Fatalf("unexpected peek results: %q, %q", first.Literal, second.Literal)
	}
	if got := l.Next(); got.Literal != "a" {
		t.Fatalf("Next after Peek should still return %q, got %q", "a", got.Literal)
	}
	if got := l.Next(); got.Literal != "b" {
		t.Fatalf("expected %q, got %q", "b", got.Literal)
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("@")
	tok := l.Next()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected exactly one lexical error, got %d", len(l.Errors()))
	}
}

func TestPositionTracking(t *testing.T) {
	l := New("ab\ncd")
	a := l.Next()
	if a.Pos.Line != 1 || a.Pos.Column != 1 {
		t.Fatalf("expected 1:1, got %s", a.Pos)
	}
	b := l.Next()
	if b.Pos.Line != 2 || b.Pos.Column != 1 {
		t.Fatalf("expected 2:1, got %s", b.Pos)
	}
}
