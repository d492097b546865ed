package ast

// Visitor receives enter/leave callbacks as Walk traverses a Script. Either
// hook may be nil. EnterExpr/EnterStmt return false to skip descending into
// that node's children (LeaveExpr/LeaveStmt are still called for it).
//
// This mirrors the enter/leave visitor contract the original C++ compiler
// exposes through its ASTVisitor base class, re-expressed as a pair of
// plain function fields instead of a virtual-method interface: callers
// that only care about one or two node kinds can leave the rest nil
// instead of overriding an empty default method per node type.
type Visitor struct {
	EnterExpr func(s *Script, id ExprID) bool
	LeaveExpr func(s *Script, id ExprID)
	EnterStmt func(s *Script, id StmtID) bool
	LeaveStmt func(s *Script, id StmtID)
	EnterDecl func(s *Script, id DeclID) bool
	LeaveDecl func(s *Script, id DeclID)
}

// Walk traverses every declaration in s, in declaration order.
func Walk(s *Script, v *Visitor) {
	for i := 1; i < len(s.Decls); i++ {
		walkDecl(s, v, DeclID(i))
	}
}

func walkDecl(s *Script, v *Visitor, id DeclID) {
	if id == InvalidDecl {
		return
	}
	if v.EnterDecl != nil && !v.EnterDecl(s, id) {
		if v.LeaveDecl != nil {
			v.LeaveDecl(s, id)
		}
		return
	}
	switch d := s.Decl(id).(type) {
	case *FuncDecl:
		walkStmt(s, v, d.Body)
	case *MainDecl:
		walkStmt(s, v, d.Body)
	case *ConstDecl:
		walkExpr(s, v, d.Expr)
	case *EnvironmentDecl:
		for _, m := range d.Members {
			walkExpr(s, v, m.Expr)
		}
	case *AgentDecl:
		// leaf: members carry no expressions of their own
	}
	if v.LeaveDecl != nil {
		v.LeaveDecl(s, id)
	}
}

func walkStmt(s *Script, v *Visitor, id StmtID) {
	if id == InvalidStmt {
		return
	}
	if v.EnterStmt != nil && !v.EnterStmt(s, id) {
		if v.LeaveStmt != nil {
			v.LeaveStmt(s, id)
		}
		return
	}
	switch st := s.Stmt(id).(type) {
	case *ExprStmt:
		walkExpr(s, v, st.X)
	case *AssignStmt:
		walkExpr(s, v, st.LHS)
		walkExpr(s, v, st.RHS)
	case *AssignOpStmt:
		walkExpr(s, v, st.LHS)
		walkExpr(s, v, st.RHS)
	case *BlockStmt:
		for _, c := range st.Stmts {
			walkStmt(s, v, c)
		}
	case *VarDeclStmt:
		walkExpr(s, v, st.Initializer)
	case *IfStmt:
		walkExpr(s, v, st.Cond)
		walkStmt(s, v, st.Then)
		walkStmt(s, v, st.Else)
	case *WhileStmt:
		walkExpr(s, v, st.Cond)
		walkStmt(s, v, st.Body)
	case *ForStmt:
		walkExpr(s, v, st.Iter)
		walkStmt(s, v, st.Body)
	case *SimulateStmt:
		walkExpr(s, v, st.Timesteps)
	case *ReturnStmt:
		walkExpr(s, v, st.X)
	case *BreakStmt, *ContinueStmt:
		// leaf
	}
	if v.LeaveStmt != nil {
		v.LeaveStmt(s, id)
	}
}

func walkExpr(s *Script, v *Visitor, id ExprID) {
	if id == InvalidExpr {
		return
	}
	if v.EnterExpr != nil && !v.EnterExpr(s, id) {
		if v.LeaveExpr != nil {
			v.LeaveExpr(s, id)
		}
		return
	}
	switch e := s.Expr(id).(type) {
	case *UnaryExpr:
		walkExpr(s, v, e.X)
	case *BinaryExpr:
		walkExpr(s, v, e.X)
		walkExpr(s, v, e.Y)
	case *TernaryExpr:
		walkExpr(s, v, e.Cond)
		walkExpr(s, v, e.Then)
		walkExpr(s, v, e.Else)
	case *MemberAccessExpr:
		walkExpr(s, v, e.X)
	case *ArrayAccessExpr:
		walkExpr(s, v, e.X)
		walkExpr(s, v, e.Index)
	case *CallExpr:
		for _, a := range e.Args {
			walkExpr(s, v, a)
		}
	case *AgentCreationExpr:
		for _, m := range e.Members {
			walkExpr(s, v, m.Expr)
		}
	case *ArrayInitExpr:
		for _, el := range e.Elems {
			walkExpr(s, v, el)
		}
	case *NewArrayExpr:
		walkExpr(s, v, e.Size)
	case *ImplicitCastExpr:
		walkExpr(s, v, e.X)
	case *BoolLit, *IntLit, *FloatLit, *StringLit, *VarExpr, *EnvironmentAccessExpr:
		// leaf
	}
	if v.LeaveExpr != nil {
		v.LeaveExpr(s, id)
	}
}
