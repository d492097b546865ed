package parser

import (
	"strconv"

	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/token"
)

// parseExpr parses a full expression, including the ternary conditional and
// the a..b range form used by for-loops and near() calls.
func (p *Parser) parseExpr() ast.ExprID {
	return p.parseRange()
}

func (p *Parser) parseRange() ast.ExprID {
	x := p.parseTernary()
	if p.c.at(token.DOTDOT) {
		tok := p.c.next()
		y := p.parseTernary()
		return p.scr.AddExpr(&ast.BinaryExpr{Token: tok, Op: ast.OpRange, X: x, Y: y})
	}
	return x
}

// parseTernary parses `cond ? then : else`, right-associative.
func (p *Parser) parseTernary() ast.ExprID {
	cond := p.parseOr()
	if !p.c.at(token.QUESTION) {
		return cond
	}
	tok := p.c.next()
	then := p.parseTernary()
	p.c.expect(token.COLON)
	els := p.parseTernary()
	return p.scr.AddExpr(&ast.TernaryExpr{Token: tok, Cond: cond, Then: then, Else: els})
}

func (p *Parser) parseOr() ast.ExprID {
	x := p.parseAnd()
	for p.c.at(token.OR) {
		tok := p.c.next()
		y := p.parseAnd()
		x = p.scr.AddExpr(&ast.BinaryExpr{Token: tok, Op: ast.OpOr, X: x, Y: y})
	}
	return x
}

func (p *Parser) parseAnd() ast.ExprID {
	x := p.parseEquality()
	for p.c.at(token.AND) {
		tok := p.c.next()
		y := p.parseEquality()
		x = p.scr.AddExpr(&ast.BinaryExpr{Token: tok, Op: ast.OpAnd, X: x, Y: y})
	}
	return x
}

func (p *Parser) parseEquality() ast.ExprID {
	x := p.parseRelational()
	for p.c.at(token.EQ) || p.c.at(token.NOT_EQ) {
		tok := p.c.next()
		op := ast.OpEq
		if tok.Type == token.NOT_EQ {
			op = ast.OpNotEq
		}
		y := p.parseRelational()
		x = p.scr.AddExpr(&ast.BinaryExpr{Token: tok, Op: op, X: x, Y: y})
	}
	return x
}

func (p *Parser) parseRelational() ast.ExprID {
	x := p.parseBitOr()
	for {
		var op ast.BinaryOp
		switch p.c.peek(0).Type {
		case token.LT:
			op = ast.OpLt
		case token.LT_EQ:
			op = ast.OpLtEq
		case token.GT:
			op = ast.OpGt
		case token.GT_EQ:
			op = ast.OpGtEq
		default:
			return x
		}
		tok := p.c.next()
		y := p.parseBitOr()
		x = p.scr.AddExpr(&ast.BinaryExpr{Token: tok, Op: op, X: x, Y: y})
	}
}

func (p *Parser) parseBitOr() ast.ExprID {
	x := p.parseBitXor()
	for p.c.at(token.PIPE) {
		tok := p.c.next()
		y := p.parseBitXor()
		x = p.scr.AddExpr(&ast.BinaryExpr{Token: tok, Op: ast.OpBitOr, X: x, Y: y})
	}
	return x
}

func (p *Parser) parseBitXor() ast.ExprID {
	x := p.parseBitAnd()
	for p.c.at(token.CARET) {
		tok := p.c.next()
		y := p.parseBitAnd()
		x = p.scr.AddExpr(&ast.BinaryExpr{Token: tok, Op: ast.OpBitXor, X: x, Y: y})
	}
	return x
}

func (p *Parser) parseBitAnd() ast.ExprID {
	x := p.parseShift()
	for p.c.at(token.AMP) {
		tok := p.c.next()
		y := p.parseShift()
		x = p.scr.AddExpr(&ast.BinaryExpr{Token: tok, Op: ast.OpBitAnd, X: x, Y: y})
	}
	return x
}

func (p *Parser) parseShift() ast.ExprID {
	x := p.parseAdditive()
	for p.c.at(token.SHL) || p.c.at(token.SHR) {
		tok := p.c.next()
		op := ast.OpShl
		if tok.Type == token.SHR {
			op = ast.OpShr
		}
		y := p.parseAdditive()
		x = p.scr.AddExpr(&ast.BinaryExpr{Token: tok, Op: op, X: x, Y: y})
	}
	return x
}

func (p *Parser) parseAdditive() ast.ExprID {
	x := p.parseMultiplicative()
	// An operator followed by '=' is a compound assignment, left for
	// parseSimpleStmt.
	for (p.c.at(token.PLUS) || p.c.at(token.MINUS)) && p.c.peek(1).Type != token.ASSIGN {
		tok := p.c.next()
		op := ast.OpAdd
		if tok.Type == token.MINUS {
			op = ast.OpSub
		}
		y := p.parseMultiplicative()
		x = p.scr.AddExpr(&ast.BinaryExpr{Token: tok, Op: op, X: x, Y: y})
	}
	return x
}

func (p *Parser) parseMultiplicative() ast.ExprID {
	x := p.parseUnary()
	for {
		var op ast.BinaryOp
		switch p.c.peek(0).Type {
		case token.STAR:
			op = ast.OpMul
		case token.SLASH:
			op = ast.OpDiv
		case token.PERCENT:
			op = ast.OpMod
		default:
			return x
		}
		if p.c.peek(1).Type == token.ASSIGN {
			return x
		}
		tok := p.c.next()
		y := p.parseUnary()
		x = p.scr.AddExpr(&ast.BinaryExpr{Token: tok, Op: op, X: x, Y: y})
	}
}

func (p *Parser) parseUnary() ast.ExprID {
	switch p.c.peek(0).Type {
	case token.MINUS:
		tok := p.c.next()
		return p.scr.AddExpr(&ast.UnaryExpr{Token: tok, Op: ast.UnaryNeg, X: p.parseUnary()})
	case token.PLUS:
		tok := p.c.next()
		return p.scr.AddExpr(&ast.UnaryExpr{Token: tok, Op: ast.UnaryPlus, X: p.parseUnary()})
	case token.NOT:
		tok := p.c.next()
		return p.scr.AddExpr(&ast.UnaryExpr{Token: tok, Op: ast.UnaryNot, X: p.parseUnary()})
	case token.CARET:
		tok := p.c.next()
		return p.scr.AddExpr(&ast.UnaryExpr{Token: tok, Op: ast.UnaryBitNot, X: p.parseUnary()})
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.ExprID {
	x := p.parsePrimary()
	for {
		switch p.c.peek(0).Type {
		case token.DOT:
			tok := p.c.next()
			member := p.c.expect(token.IDENT).Literal
			x = p.scr.AddExpr(&ast.MemberAccessExpr{Token: tok, X: x, Member: member})
		case token.LBRACKET:
			tok := p.c.next()
			idx := p.parseExpr()
			p.c.expect(token.RBRACKET)
			x = p.scr.AddExpr(&ast.ArrayAccessExpr{Token: tok, X: x, Index: idx})
		default:
			return x
		}
	}
}

func (p *Parser) parsePrimary() ast.ExprID {
	tok := p.c.peek(0)
	switch tok.Type {
	case token.INT:
		p.c.next()
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.c.errorf(tok.Pos, "invalid integer literal %q", tok.Literal)
		}
		return p.scr.AddExpr(&ast.IntLit{Token: tok, Value: v})
	case token.FLOAT:
		p.c.next()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.c.errorf(tok.Pos, "invalid float literal %q", tok.Literal)
		}
		return p.scr.AddExpr(&ast.FloatLit{Token: tok, Value: v})
	case token.STRING:
		p.c.next()
		return p.scr.AddExpr(&ast.StringLit{Token: tok, Value: tok.Literal})
	case token.TRUE:
		p.c.next()
		return p.scr.AddExpr(&ast.BoolLit{Token: tok, Value: true})
	case token.FALSE:
		p.c.next()
		return p.scr.AddExpr(&ast.BoolLit{Token: tok, Value: false})
	case token.ENV:
		p.c.next()
		p.c.expect(token.DOT)
		member := p.c.expect(token.IDENT).Literal
		return p.scr.AddExpr(&ast.EnvironmentAccessExpr{Token: tok, Member: member})
	case token.NEW:
		return p.parseNewArray()
	case token.LPAREN:
		p.c.next()
		x := p.parseExpr()
		p.c.expect(token.RPAREN)
		return x
	case token.LBRACKET:
		return p.parseArrayInit()
	case token.IDENT:
		return p.parseIdentStartedExpr()
	default:
		p.c.errorf(tok.Pos, "unexpected token %s in expression", describeTok(tok))
		p.c.next()
		return p.scr.AddExpr(&ast.IntLit{Token: tok, Value: 0})
	}
}

func (p *Parser) parseNewArray() ast.ExprID {
	tok := p.c.next() // 'new'
	elem := p.parseTypeExpr()
	p.c.expect(token.LBRACKET)
	size := p.parseExpr()
	p.c.expect(token.RBRACKET)
	return p.scr.AddExpr(&ast.NewArrayExpr{Token: tok, Elem: elem, Size: size})
}

func (p *Parser) parseArrayInit() ast.ExprID {
	tok := p.c.next() // '['
	arr := &ast.ArrayInitExpr{Token: tok}
	for !p.c.at(token.RBRACKET) && !p.c.at(token.EOF) {
		arr.Elems = append(arr.Elems, p.parseExpr())
		if p.c.at(token.COMMA) {
			p.c.next()
		}
	}
	p.c.expect(token.RBRACKET)
	return p.scr.AddExpr(arr)
}

// parseIdentStartedExpr handles the three forms that start with a bare
// identifier: a variable reference, a call (user function, builtin, or
// type constructor — Kind is resolved later by the analyzer), and an agent
// creation literal `Name { member: expr, ... }`.
func (p *Parser) parseIdentStartedExpr() ast.ExprID {
	tok := p.c.next()
	switch p.c.peek(0).Type {
	case token.LPAREN:
		p.c.next()
		var args []ast.ExprID
		for !p.c.at(token.RPAREN) && !p.c.at(token.EOF) {
			args = append(args, p.parseExpr())
			if p.c.at(token.COMMA) {
				p.c.next()
			}
		}
		p.c.expect(token.RPAREN)
		return p.scr.AddExpr(&ast.CallExpr{Token: tok, Name: tok.Literal, Args: args, Kind: ast.CallUser})
	case token.LBRACE:
		p.c.next()
		ac := &ast.AgentCreationExpr{Token: tok, Name: tok.Literal}
		for !p.c.at(token.RBRACE) && !p.c.at(token.EOF) {
			mname := p.c.expect(token.IDENT).Literal
			p.c.expect(token.COLON)
			mexpr := p.parseExpr()
			ac.Members = append(ac.Members, ast.MemberInit{Name: mname, Expr: mexpr})
			if p.c.at(token.COMMA) {
				p.c.next()
			}
		}
		p.c.expect(token.RBRACE)
		return p.scr.AddExpr(ac)
	default:
		return p.scr.AddExpr(&ast.VarExpr{Token: tok, Name: tok.Literal})
	}
}
