package ast

import "github.com/cwbudde/ablc/internal/token"

type ExprStmt struct {
	Token token.Token
	X     ExprID
}

func (*ExprStmt) stmtNode()            {}
func (s *ExprStmt) Pos() token.Position { return s.Token.Pos }

// AssignStmt is `lhs = rhs`.
type AssignStmt struct {
	Token      token.Token
	LHS, RHS   ExprID
}

func (*AssignStmt) stmtNode()            {}
func (s *AssignStmt) Pos() token.Position { return s.Token.Pos }

// AssignOpStmt is a compound assignment, e.g. `lhs += rhs`. Not every
// BinaryOp is legal here; the parser only produces OpAdd/OpSub/OpMul/OpDiv.
type AssignOpStmt struct {
	Token    token.Token
	Op       BinaryOp
	LHS, RHS ExprID
}

func (*AssignOpStmt) stmtNode()            {}
func (s *AssignOpStmt) Pos() token.Position { return s.Token.Pos }

type BlockStmt struct {
	Token token.Token
	Stmts []StmtID
}

func (*BlockStmt) stmtNode()            {}
func (s *BlockStmt) Pos() token.Position { return s.Token.Pos }

// VarDeclStmt declares a local variable, optionally with an initializer.
type VarDeclStmt struct {
	Token       token.Token
	Type        TypeExpr
	Name        string
	Var         VarID
	Initializer ExprID // InvalidExpr if absent
}

func (*VarDeclStmt) stmtNode()            {}
func (s *VarDeclStmt) Pos() token.Position { return s.Token.Pos }

type IfStmt struct {
	Token            token.Token
	Cond             ExprID
	Then             StmtID
	Else             StmtID // InvalidStmt if absent
}

func (*IfStmt) stmtNode()            {}
func (s *IfStmt) Pos() token.Position { return s.Token.Pos }

type WhileStmt struct {
	Token token.Token
	Cond  ExprID
	Body  StmtID
}

func (*WhileStmt) stmtNode()            {}
func (s *WhileStmt) Pos() token.Position { return s.Token.Pos }

// ForKind classifies a for-loop once the analyzer has inspected its
// iteration expression (OpenABL's ForStatement::Kind). The parser always
// produces ForUnclassified; the analyzer rewrites this field in place.
type ForKind int

const (
	ForUnclassified ForKind = iota
	ForNormal               // for (T v : arrayOrAgentCollection)
	ForRange                // for (T v : a..b)
	ForNear                 // for (T v : near(agent, radius))
)

// ForStmt is `for (Type Var : Iter) Body`. Iter is reinterpreted by the
// analyzer according to Kind: for ForRange it is a BinaryExpr with
// Op == OpRange; for ForNear it is a CallExpr named "near".
type ForStmt struct {
	Token token.Token
	Type  TypeExpr
	Var   VarID
	Name  string
	Iter  ExprID
	Body  StmtID
	Kind  ForKind
}

func (*ForStmt) stmtNode()            {}
func (s *ForStmt) Pos() token.Position { return s.Token.Pos }

// SimulateStmt is `simulate(timesteps; f1, f2, ...)`. StepFuncs holds the
// identifiers as written; StepFuncDecls is resolved by the analyzer to the
// FuncDecl each name refers to, in the order StepFuncs lists them — the flame model
// builder depends on iterating StepFuncDecls in exactly this order.
type SimulateStmt struct {
	Token         token.Token
	Timesteps     ExprID
	StepFuncs     []string
	StepFuncDecls []*FuncDecl
}

func (*SimulateStmt) stmtNode()            {}
func (s *SimulateStmt) Pos() token.Position { return s.Token.Pos }

type ReturnStmt struct {
	Token token.Token
	X     ExprID // InvalidExpr for a bare `return`
}

func (*ReturnStmt) stmtNode()            {}
func (s *ReturnStmt) Pos() token.Position { return s.Token.Pos }

type BreakStmt struct{ Token token.Token }

func (*BreakStmt) stmtNode()            {}
func (s *BreakStmt) Pos() token.Position { return s.Token.Pos }

type ContinueStmt struct{ Token token.Token }

func (*ContinueStmt) stmtNode()            {}
func (s *ContinueStmt) Pos() token.Position { return s.Token.Pos }
