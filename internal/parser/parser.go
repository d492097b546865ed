package parser

import (
	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/lexer"
	"github.com/cwbudde/ablc/internal/token"
)

// Parser turns a token stream into an *ast.Script.
type Parser struct {
	c   *cursor
	scr *ast.Script
}

// New creates a Parser over source text already tokenized by l.
func New(l *lexer.Lexer) *Parser {
	return &Parser{c: newCursor(l), scr: ast.NewScript()}
}

// Errors returns every parse error accumulated during Parse, in the order
// encountered. Lexical errors from the underlying lexer are appended after
// parse errors.
func (p *Parser) Errors() []*ParseError {
	errs := append([]*ParseError{}, p.c.errors...)
	for _, le := range p.c.lex.Errors() {
		errs = append(errs, &ParseError{Message: le.Message, Pos: le.Pos})
	}
	return errs
}

// Parse consumes the entire token stream and returns the resulting Script.
// It always returns a non-nil Script, even when errors were recorded;
// callers must check Errors() before trusting the result.
func (p *Parser) Parse() *ast.Script {
	for !p.c.at(token.EOF) {
		p.parseTopLevel()
	}
	return p.scr
}

func (p *Parser) parseTopLevel() {
	switch p.c.peek(0).Type {
	case token.AGENT:
		p.parseAgentDecl()
	case token.ENV:
		p.parseEnvironmentDecl()
	case token.CONST, token.PARAM:
		p.parseConstDecl()
	case token.STEP, token.SEQ_STEP, token.FUNC:
		p.parseFuncOrMain()
	default:
		tok := p.c.next()
		p.c.errorf(tok.Pos, "unexpected token %s at top level", describeTok(tok))
	}
}
