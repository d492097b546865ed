package semantic

import (
	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/token"
	"github.com/cwbudde/ablc/internal/types"
)

// analyzeStmt dispatches by statement kind. Every branch continues analyzing
// nested expressions/statements even after reporting an error, so a single
// run surfaces as many diagnostics as possible.
func (a *Analyzer) analyzeStmt(id ast.StmtID) {
	switch st := a.scr.Stmt(id).(type) {
	case nil:
		return
	case *ast.BlockStmt:
		prevScope := a.scope
		a.scope = NewChildScope(prevScope)
		for _, child := range st.Stmts {
			a.analyzeStmt(child)
		}
		a.scope = prevScope
	case *ast.ExprStmt:
		a.inferExpr(st.X)
	case *ast.AssignStmt:
		a.analyzeAssignStmt(st)
	case *ast.AssignOpStmt:
		a.analyzeAssignOpStmt(st)
	case *ast.VarDeclStmt:
		a.analyzeVarDeclStmt(st)
	case *ast.IfStmt:
		ct := a.inferExpr(st.Cond)
		if ct.Kind != types.Bool {
			a.errorAt(a.exprPos(st.Cond), "if condition must be bool, got %s", ct)
		}
		a.analyzeStmt(st.Then)
		if st.Else != ast.InvalidStmt {
			a.analyzeStmt(st.Else)
		}
	case *ast.WhileStmt:
		ct := a.inferExpr(st.Cond)
		if ct.Kind != types.Bool {
			a.errorAt(a.exprPos(st.Cond), "while condition must be bool, got %s", ct)
		}
		a.inLoop++
		a.analyzeStmt(st.Body)
		a.inLoop--
	case *ast.ForStmt:
		a.analyzeForStmt(st)
	case *ast.SimulateStmt:
		a.analyzeSimulateStmt(id, st)
	case *ast.ReturnStmt:
		a.analyzeReturnStmt(st)
	case *ast.BreakStmt:
		if a.inLoop == 0 {
			a.errorAt(st.Pos(), "break used outside a loop")
		}
	case *ast.ContinueStmt:
		if a.inLoop == 0 {
			a.errorAt(st.Pos(), "continue used outside a loop")
		}
	default:
		a.errorAt(a.stmtPos(id), "internal error: unhandled statement kind")
	}
}

// stmtPos resolves id to its node's position, falling back to the zero
// Position for an invalid or dangling ID.
func (a *Analyzer) stmtPos(id ast.StmtID) (pos token.Position) {
	if st := a.scr.Stmt(id); st != nil {
		return st.Pos()
	}
	return
}

// isAssignable reports whether id refers to a name, member, or array
// element — the only expression forms that may appear on the left of an
// assignment.
func (a *Analyzer) isAssignable(id ast.ExprID) bool {
	switch a.scr.Expr(id).(type) {
	case *ast.VarExpr, *ast.MemberAccessExpr, *ast.ArrayAccessExpr:
		return true
	default:
		return false
	}
}

func (a *Analyzer) analyzeAssignStmt(st *ast.AssignStmt) {
	lt := a.inferExpr(st.LHS)
	rt := a.inferExpr(st.RHS)
	if !a.isAssignable(st.LHS) {
		a.errorAt(a.exprPos(st.LHS), "left side of assignment is not assignable")
		return
	}
	if !rt.IsPromotableTo(lt) {
		a.errorAt(st.Pos(), "cannot assign %s to %s", rt, lt)
		return
	}
	a.promoteTo(st.RHS, lt)
}

// analyzeAssignOpStmt never promotes st.LHS: promoteTo rewrites the arena
// slot at the id it is given into an ImplicitCastExpr, and st.LHS's slot
// must keep holding a plain assignable expression for the backend to target.
func (a *Analyzer) analyzeAssignOpStmt(st *ast.AssignOpStmt) {
	lt := a.inferExpr(st.LHS)
	rt := a.inferExpr(st.RHS)
	if !a.isAssignable(st.LHS) {
		a.errorAt(a.exprPos(st.LHS), "left side of compound assignment is not assignable")
		return
	}

	sym := binOpSymbol(st.Op) + "="

	switch {
	case lt.IsNumeric() && rt.IsNumeric():
		switch {
		case lt.Equal(rt):
		case lt.Kind == types.Float && rt.Kind == types.Int:
			a.promoteTo(st.RHS, types.TFloat)
		case lt.Kind == types.Int && rt.Kind == types.Float:
			a.errorAt(st.Pos(), "cannot compound-assign a float into an int variable")
		}
	case (lt.Kind == types.Vec2 || lt.Kind == types.Vec3) && rt.Equal(lt):
		// vec += vec / vec -= vec
	case (lt.Kind == types.Vec2 || lt.Kind == types.Vec3) && rt.IsNumeric() && (st.Op == ast.OpMul || st.Op == ast.OpDiv):
		a.promoteTo(st.RHS, types.TFloat)
	default:
		a.errorAt(st.Pos(), "%s is not defined between %s and %s", sym, lt, rt)
	}
}

func (a *Analyzer) analyzeVarDeclStmt(st *ast.VarDeclStmt) {
	declType := a.resolveTypeExpr(st.Type)
	if st.Initializer != ast.InvalidExpr {
		it := a.inferExpr(st.Initializer)
		if !it.IsPromotableTo(declType) {
			a.errorAt(a.exprPos(st.Initializer), "cannot initialize %s with %s", declType, it)
		} else {
			a.promoteTo(st.Initializer, declType)
		}
	}
	st.Var = a.ids.Next()
	if _, err := a.scope.Define(st.Var, st.Name, declType, false); err != nil {
		a.errorAt(st.Pos(), "%s", err)
	}
}

func (a *Analyzer) analyzeReturnStmt(st *ast.ReturnStmt) {
	if a.currentFunc == nil {
		if st.X != ast.InvalidExpr {
			a.inferExpr(st.X)
			a.errorAt(st.Pos(), "main may not return a value")
		}
		return
	}
	want := a.currentFunc.ResolvedReturnType
	if st.X == ast.InvalidExpr {
		if want.Kind != types.Void && want.Kind != types.Invalid {
			a.errorAt(st.Pos(), "function %q must return a value of type %s", a.currentFunc.Name, want)
		}
		return
	}
	got := a.inferExpr(st.X)
	if !got.IsPromotableTo(want) {
		a.errorAt(a.exprPos(st.X), "function %q returns %s, got %s", a.currentFunc.Name, want, got)
		return
	}
	a.promoteTo(st.X, want)
}

func (a *Analyzer) analyzeForStmt(st *ast.ForStmt) {
	iter := a.scr.Expr(st.Iter)
	switch it := iter.(type) {
	case *ast.BinaryExpr:
		if it.Op == ast.OpRange {
			st.Kind = ast.ForRange
			a.inferExpr(st.Iter)
			declType := a.resolveTypeExpr(st.Type)
			if declType.Kind != types.Int {
				a.errorAt(st.Pos(), "range loop variable must be int, got %s", declType)
			}
			a.runForBody(st, declType)
			return
		}
		a.analyzeNormalFor(st)
	case *ast.CallExpr:
		if it.Name == "near" {
			st.Kind = ast.ForNear
			a.analyzeNearIter(st, it)
			return
		}
		a.analyzeNormalFor(st)
	default:
		a.analyzeNormalFor(st)
	}
}

func (a *Analyzer) analyzeNormalFor(st *ast.ForStmt) {
	st.Kind = ast.ForNormal
	it := a.inferExpr(st.Iter)
	declType := a.resolveTypeExpr(st.Type)
	if it.Kind != types.Array {
		a.errorAt(a.exprPos(st.Iter), "for loop requires an array or near() expression to iterate, got %s", it)
	} else if it.Elem != nil && !it.Elem.IsPromotableTo(declType) {
		a.errorAt(a.exprPos(st.Iter), "cannot iterate %s as %s", it, declType)
	}
	a.runForBody(st, declType)
}

// analyzeNearIter validates near(agent, radius): the radius, when it folds
// to a constant, feeds environment.granularity auto-inference.
func (a *Analyzer) analyzeNearIter(st *ast.ForStmt, call *ast.CallExpr) {
	if len(call.Args) != 2 {
		a.errorAt(call.Pos(), "near() takes exactly two arguments: an agent and a radius")
		for _, argID := range call.Args {
			a.inferExpr(argID)
		}
		a.runForBody(st, a.resolveTypeExpr(st.Type))
		return
	}
	call.Kind = ast.CallBuiltin
	agentType := a.inferExpr(call.Args[0])
	radiusType := a.inferExpr(call.Args[1])
	if agentType.Kind != types.Agent || agentType.Agent == nil {
		a.errorAt(a.exprPos(call.Args[0]), "near() requires an agent expression, got %s", agentType)
	}
	if !radiusType.IsNumeric() {
		a.errorAt(a.exprPos(call.Args[1]), "near() radius must be numeric, got %s", radiusType)
	} else {
		a.promoteTo(call.Args[1], types.TFloat)
		if v, ok := a.exprConsts[call.Args[1]]; ok {
			if f, ok2 := v.AsFloat(); ok2 {
				a.sawNearRadius = true
				if f > a.maxNearRadius {
					a.maxNearRadius = f
				}
			}
		}
	}

	declType := a.resolveTypeExpr(st.Type)
	if agentType.Kind == types.Agent && !declType.Equal(agentType) {
		a.errorAt(st.Pos(), "near() loop variable must be %s, got %s", agentType, declType)
	}
	a.runForBody(st, declType)
}

// runForBody binds the loop variable in a child scope and analyzes the body.
// The variable gets a fresh VarID, is tracked for AccessedMembers
// bookkeeping only for a near loop, and is untracked again once the body is
// analyzed.
func (a *Analyzer) runForBody(st *ast.ForStmt, declType types.Type) {
	prevScope := a.scope
	a.scope = NewChildScope(prevScope)
	st.Var = a.ids.Next()
	if _, err := a.scope.Define(st.Var, st.Name, declType, false); err != nil {
		a.errorAt(st.Pos(), "%s", err)
	}
	if st.Kind == ast.ForNear {
		a.trackedVars[st.Var] = true
	}

	a.inLoop++
	a.analyzeStmt(st.Body)
	a.inLoop--

	if st.Kind == ast.ForNear {
		delete(a.trackedVars, st.Var)
	}
	a.scope = prevScope
}

// analyzeSimulateStmt is only valid as main's own top-level simulate call;
// MainDecl.SimulateStmtID was computed once by the parser precisely so this
// check doesn't need to re-scan main's statement list.
func (a *Analyzer) analyzeSimulateStmt(id ast.StmtID, st *ast.SimulateStmt) {
	if a.currentMain == nil || id != a.currentMain.SimulateStmtID {
		a.errorAt(st.Pos(), "simulate may only appear at the top level of main")
	}
	tt := a.inferExpr(st.Timesteps)
	if tt.Kind != types.Int {
		a.errorAt(a.exprPos(st.Timesteps), "simulate timestep count must be int, got %s", tt)
	}

	st.StepFuncDecls = st.StepFuncDecls[:0]
	for _, name := range st.StepFuncs {
		group, ok := a.funcs.Group(name)
		if !ok {
			a.errorAt(st.Pos(), "simulate references undeclared function %q", name)
			continue
		}
		var found *ast.FuncDecl
		for _, sig := range group.Signatures {
			if sig.Decl != nil && (sig.Decl.Kind == ast.FuncStep || sig.Decl.Kind == ast.FuncSeqStep) {
				found = sig.Decl
				break
			}
		}
		if found == nil {
			a.errorAt(st.Pos(), "%q is not a step function and cannot be scheduled by simulate", name)
			continue
		}
		st.StepFuncDecls = append(st.StepFuncDecls, found)
	}
}
