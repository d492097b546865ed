package parser

import (
	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/token"
)

func (p *Parser) parseBlock() ast.StmtID {
	tok := p.c.expect(token.LBRACE)
	blk := &ast.BlockStmt{Token: tok}
	for !p.c.at(token.RBRACE) && !p.c.at(token.EOF) {
		blk.Stmts = append(blk.Stmts, p.parseStmt())
	}
	p.c.expect(token.RBRACE)
	return p.scr.AddStmt(blk)
}

func (p *Parser) parseStmt() ast.StmtID {
	switch p.c.peek(0).Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.SIMULATE:
		return p.parseSimulateStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.BREAK:
		tok := p.c.next()
		p.c.expect(token.SEMI)
		return p.scr.AddStmt(&ast.BreakStmt{Token: tok})
	case token.CONTINUE:
		tok := p.c.next()
		p.c.expect(token.SEMI)
		return p.scr.AddStmt(&ast.ContinueStmt{Token: tok})
	case token.IDENT:
		if p.c.peek(1).Type == token.IDENT {
			return p.parseVarDeclStmt()
		}
		return p.parseSimpleStmt()
	default:
		return p.parseSimpleStmt()
	}
}

func (p *Parser) parseVarDeclStmt() ast.StmtID {
	te := p.parseTypeExpr()
	tok := p.c.peek(0)
	name := p.c.expect(token.IDENT).Literal
	vd := &ast.VarDeclStmt{Token: tok, Type: te, Name: name, Initializer: ast.InvalidExpr}
	if p.c.at(token.ASSIGN) {
		p.c.next()
		vd.Initializer = p.parseExpr()
	}
	p.c.expect(token.SEMI)
	return p.scr.AddStmt(vd)
}

// parseSimpleStmt parses an assignment, compound assignment, or bare
// expression statement — the three forms that can start with an arbitrary
// expression.
func (p *Parser) parseSimpleStmt() ast.StmtID {
	tok := p.c.peek(0)
	lhs := p.parseExpr()

	if p.c.at(token.ASSIGN) {
		p.c.next()
		rhs := p.parseExpr()
		p.c.expect(token.SEMI)
		return p.scr.AddStmt(&ast.AssignStmt{Token: tok, LHS: lhs, RHS: rhs})
	}
	if op, ok := compoundAssignOp(p.c.peek(0).Type); ok && p.c.peek(1).Type == token.ASSIGN {
		p.c.next()
		p.c.next()
		rhs := p.parseExpr()
		p.c.expect(token.SEMI)
		return p.scr.AddStmt(&ast.AssignOpStmt{Token: tok, Op: op, LHS: lhs, RHS: rhs})
	}

	p.c.expect(token.SEMI)
	return p.scr.AddStmt(&ast.ExprStmt{Token: tok, X: lhs})
}

func compoundAssignOp(t token.Type) (ast.BinaryOp, bool) {
	switch t {
	case token.PLUS:
		return ast.OpAdd, true
	case token.MINUS:
		return ast.OpSub, true
	case token.STAR:
		return ast.OpMul, true
	case token.SLASH:
		return ast.OpDiv, true
	}
	return 0, false
}

func (p *Parser) parseIfStmt() ast.StmtID {
	tok := p.c.next()
	p.c.expect(token.LPAREN)
	cond := p.parseExpr()
	p.c.expect(token.RPAREN)
	then := p.parseStmt()
	st := &ast.IfStmt{Token: tok, Cond: cond, Then: then, Else: ast.InvalidStmt}
	if p.c.at(token.ELSE) {
		p.c.next()
		st.Else = p.parseStmt()
	}
	return p.scr.AddStmt(st)
}

func (p *Parser) parseWhileStmt() ast.StmtID {
	tok := p.c.next()
	p.c.expect(token.LPAREN)
	cond := p.parseExpr()
	p.c.expect(token.RPAREN)
	body := p.parseStmt()
	return p.scr.AddStmt(&ast.WhileStmt{Token: tok, Cond: cond, Body: body})
}

func (p *Parser) parseForStmt() ast.StmtID {
	tok := p.c.next()
	p.c.expect(token.LPAREN)
	te := p.parseTypeExpr()
	name := p.c.expect(token.IDENT).Literal
	p.c.expect(token.COLON)
	iter := p.parseExpr()
	p.c.expect(token.RPAREN)
	body := p.parseStmt()
	return p.scr.AddStmt(&ast.ForStmt{
		Token: tok, Type: te, Name: name, Iter: iter, Body: body, Kind: ast.ForUnclassified,
	})
}

func (p *Parser) parseSimulateStmt() ast.StmtID {
	tok := p.c.next()
	p.c.expect(token.LPAREN)
	timesteps := p.parseExpr()
	p.c.expect(token.SEMI)
	var names []string
	for {
		names = append(names, p.c.expect(token.IDENT).Literal)
		if p.c.at(token.COMMA) {
			p.c.next()
			continue
		}
		break
	}
	p.c.expect(token.RPAREN)
	p.c.expect(token.SEMI)
	return p.scr.AddStmt(&ast.SimulateStmt{Token: tok, Timesteps: timesteps, StepFuncs: names})
}

func (p *Parser) parseReturnStmt() ast.StmtID {
	tok := p.c.next()
	x := ast.InvalidExpr
	if !p.c.at(token.SEMI) {
		x = p.parseExpr()
	}
	p.c.expect(token.SEMI)
	return p.scr.AddStmt(&ast.ReturnStmt{Token: tok, X: x})
}
