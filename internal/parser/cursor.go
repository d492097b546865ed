// Package parser implements a recursive-descent parser for
// agent-based-modeling scripts, producing an *ast.Script arena.
//
// The cursor-over-a-lexer-with-lookahead shape, and the practice of
// accumulating structured, position-carrying parse errors instead of
// panicking on the first one, follow the same approach as the lexer and
// parser this project started from.
package parser

import (
	"github.com/cwbudde/ablc/internal/lexer"
	"github.com/cwbudde/ablc/internal/token"
)

// ParseError is one parse failure, with enough position information for
// diagnostics rendering.
type ParseError struct {
	Message string
	Pos     token.Position
}

func (e *ParseError) Error() string { return e.Message }

// cursor wraps a lexer and tracks accumulated errors; it never panics on a
// malformed token stream, so the parser can keep going and report more than
// one error per run.
type cursor struct {
	lex    *lexer.Lexer
	errors []*ParseError
}

func newCursor(l *lexer.Lexer) *cursor {
	return &cursor{lex: l}
}

func (c *cursor) peek(n int) token.Token { return c.lex.Peek(n) }

func (c *cursor) next() token.Token { return c.lex.Next() }

func (c *cursor) at(t token.Type) bool { return c.peek(0).Type == t }

func (c *cursor) errorf(pos token.Position, format string, args ...any) {
	c.errors = append(c.errors, &ParseError{Message: sprintf(format, args...), Pos: pos})
}

// expect consumes the next token if it matches t, recording an error and
// returning the mismatched token unconsumed otherwise (the caller proceeds
// with best-effort recovery rather than aborting).
func (c *cursor) expect(t token.Type) token.Token {
	tok := c.peek(0)
	if tok.Type != t {
		c.errorf(tok.Pos, "expected %s, found %s", t, describeTok(tok))
		return tok
	}
	return c.next()
}
