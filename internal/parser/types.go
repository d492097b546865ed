package parser

import (
	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/token"
)

// parseTypeExpr parses a type spelling: a bare name, or name[] for an array
// of that element type.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	tok := p.c.expect(token.IDENT)
	te := ast.TypeExpr{TokenPos: tok.Pos, Name: tok.Literal}
	if p.c.at(token.LBRACKET) && p.c.peek(1).Type == token.RBRACKET {
		p.c.next()
		p.c.next()
		te.IsArray = true
	}
	return te
}

// looksLikeTypeStart reports whether the token at lookahead position n
// could begin a type spelling. parseStmt does not call it: it checks
// peek(1) for IDENT inline to tell a local variable declaration from an
// expression statement that also starts with IDENT.
func (p *Parser) looksLikeTypeStart(n int) bool {
	return p.c.peek(n).Type == token.IDENT
}
