package parser

import (
	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/token"
	"github.com/cwbudde/ablc/internal/types"
)

func (p *Parser) parseAgentDecl() {
	tok := p.c.next() // 'agent'
	name := p.c.expect(token.IDENT).Literal
	decl := &ast.AgentDecl{Token: tok, Name: name}

	p.c.expect(token.LBRACE)
	for !p.c.at(token.RBRACE) && !p.c.at(token.EOF) {
		isPosition := false
		if p.c.at(token.POSITION) {
			p.c.next()
			isPosition = true
		}
		memberName := p.c.expect(token.IDENT).Literal
		p.c.expect(token.COLON)
		te := p.parseTypeExpr()
		p.c.expect(token.SEMI)
		decl.Members = append(decl.Members, ast.AgentMemberDecl{
			Name:       memberName,
			Type:       resolveSyntacticType(te),
			IsPosition: isPosition,
		})
	}
	p.c.expect(token.RBRACE)

	p.scr.Agents = append(p.scr.Agents, decl)
	p.scr.AddDecl(decl)
}

func (p *Parser) parseEnvironmentDecl() {
	tok := p.c.next() // 'environment'
	decl := &ast.EnvironmentDecl{Token: tok, Dimension: -1}

	p.c.expect(token.LBRACE)
	for !p.c.at(token.RBRACE) && !p.c.at(token.EOF) {
		te := p.parseTypeExpr()
		name := p.c.expect(token.IDENT).Literal
		p.c.expect(token.ASSIGN)
		expr := p.parseExpr()
		p.c.expect(token.SEMI)
		decl.Members = append(decl.Members, ast.EnvironmentMember{Name: name, Type: te, Expr: expr})
	}
	p.c.expect(token.RBRACE)

	p.scr.Environment = decl
	p.scr.AddDecl(decl)
}

func (p *Parser) parseConstDecl() {
	isParam := false
	var tok token.Token
	if p.c.at(token.PARAM) {
		tok = p.c.next()
		isParam = true
		if p.c.at(token.CONST) {
			p.c.next()
		}
	} else {
		tok = p.c.next() // 'const'
	}
	te := p.parseTypeExpr()
	name := p.c.expect(token.IDENT).Literal
	p.c.expect(token.ASSIGN)
	expr := p.parseExpr()
	p.c.expect(token.SEMI)

	decl := &ast.ConstDecl{
		Token:        tok,
		Type:         te,
		ResolvedType: resolveSyntacticType(te),
		Name:         name,
		Expr:         expr,
		IsArray:      te.IsArray,
		IsParam:      isParam,
	}
	if isParam {
		p.scr.Params[name] = struct{}{}
	}
	p.scr.Consts = append(p.scr.Consts, decl)
	p.scr.AddDecl(decl)
}

func (p *Parser) parseFuncOrMain() {
	var kind ast.FuncKind
	var tok token.Token
	switch p.c.peek(0).Type {
	case token.STEP:
		tok = p.c.next()
		kind = ast.FuncStep
		p.c.expect(token.FUNC)
	case token.SEQ_STEP:
		tok = p.c.next()
		kind = ast.FuncSeqStep
		p.c.expect(token.FUNC)
	default:
		tok = p.c.next() // 'function'
	}

	if kind == ast.FuncNormal && p.c.at(token.MAIN) {
		p.parseMainDecl(tok)
		return
	}

	// The return type is optional: `name(` directly after the keyword means
	// the function returns nothing.
	var returnType ast.TypeExpr
	if p.c.at(token.IDENT) && p.c.peek(1).Type == token.LPAREN {
		returnType = ast.TypeExpr{TokenPos: p.c.peek(0).Pos, Name: "void"}
	} else {
		returnType = p.parseTypeExpr()
	}
	name := p.c.expect(token.IDENT).Literal
	p.c.expect(token.LPAREN)
	var params []ast.Param
	for !p.c.at(token.RPAREN) && !p.c.at(token.EOF) {
		pt := p.parseTypeExpr()
		pname := p.c.expect(token.IDENT).Literal
		outName := ""
		if p.c.at(token.ARROW) {
			p.c.next()
			outName = p.c.expect(token.IDENT).Literal
		}
		params = append(params, ast.Param{Type: pt, Name: pname, OutName: outName})
		if p.c.at(token.COMMA) {
			p.c.next()
		}
	}
	p.c.expect(token.RPAREN)

	body := p.parseBlock()

	decl := &ast.FuncDecl{
		Token:      tok,
		ReturnType: returnType,
		Name:       name,
		Params:     params,
		Body:       body,
		Kind:       kind,
		AccessedMembers: make(map[string]struct{}),
	}
	p.scr.Funcs = append(p.scr.Funcs, decl)
	p.scr.AddDecl(decl)
}

func (p *Parser) parseMainDecl(tok token.Token) {
	p.c.next() // 'main'
	p.c.expect(token.LPAREN)
	p.c.expect(token.RPAREN)
	body := p.parseBlock()

	main := &ast.MainDecl{Token: tok, Body: body, SimulateStmtID: ast.InvalidStmt}
	if bs, ok := p.scr.Stmt(body).(*ast.BlockStmt); ok {
		simIdx := -1
		for i, sid := range bs.Stmts {
			if _, isSim := p.scr.Stmt(sid).(*ast.SimulateStmt); isSim {
				simIdx = i
				main.SimulateStmtID = sid
				break
			}
		}
		if simIdx >= 0 {
			main.SetupStmts = append([]ast.StmtID{}, bs.Stmts[:simIdx]...)
			main.TeardownStmts = append([]ast.StmtID{}, bs.Stmts[simIdx+1:]...)
		} else {
			main.SetupStmts = append([]ast.StmtID{}, bs.Stmts...)
		}
	}

	p.scr.Main = main
	p.scr.AddDecl(main)
}

// resolveSyntacticType maps a TypeExpr's bare-name spelling to a types.Type
// for the built-in primitive names; an unresolvable name (an agent type
// name, resolved once every AgentDecl has been parsed) is left as Invalid
// for the analyzer to fill in during name resolution.
func resolveSyntacticType(te ast.TypeExpr) types.Type {
	base := types.FromTypeName(te.Name) // TInvalid for an agent type name; the analyzer fills that in later
	if te.IsArray {
		return types.ArrayOf(base)
	}
	return base
}
