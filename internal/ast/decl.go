package ast

import (
	"github.com/cwbudde/ablc/internal/token"
	"github.com/cwbudde/ablc/internal/types"
)

// Param is one formal parameter of a function declaration. OutName is set
// only for the sink parameter of a parallel step function's `-> out`
// clause; it is empty for every ordinary parameter.
type Param struct {
	Type    TypeExpr
	Name    string
	Var     VarID
	OutName string
}

// FuncKind distinguishes ordinary functions from the two step-function
// forms the `simulate` statement can schedule.
type FuncKind int

const (
	FuncNormal FuncKind = iota
	FuncStep            // step function f(Agent a -> out)
	FuncSeqStep         // sequential step function, no per-agent parameter
)

// FuncDecl is a function, step function, or sequential step function
// declaration. The fields below AccessedAgent onward are populated by the
// semantic analyzer; the parser leaves them at their zero value, except
// AccessedMembers, which it initializes to an empty set.
type FuncDecl struct {
	Token      token.Token
	ReturnType TypeExpr
	Name       string
	MangledName string
	Params     []Param
	Body       StmtID
	Kind       FuncKind

	// ResolvedParamTypes/ResolvedReturnType are filled in once by
	// registerFunctionSignatures; analyzeFunc reuses them rather than
	// re-resolving each Param/ReturnType TypeExpr a second time.
	ResolvedParamTypes []types.Type
	ResolvedReturnType types.Type

	// AccessedAgent is the agent declaration a STEP function's message is
	// derived from: the type of its sole per-agent parameter. Nil for
	// FuncNormal and for a FuncSeqStep that touches no single agent type.
	AccessedAgent *AgentDecl
	// AccessedMembers is the set of member names read off AccessedAgent.
	// The position member is implicitly included by the flame model
	// builder even when absent from this set.
	AccessedMembers map[string]struct{}
	UsesRuntimeRemoval bool
	RuntimeAddedAgent  *AgentDecl
	UsesRng            bool

	MainOnly    bool
	StepOnly    bool
	SeqStepOnly bool
}

func (*FuncDecl) declNode()            {}
func (d *FuncDecl) Pos() token.Position { return d.Token.Pos }

// StepParam returns the per-agent parameter of a step function (its first
// parameter), and ok=false if d is not a step function.
func (d *FuncDecl) StepParam() (Param, bool) {
	if d.Kind != FuncStep || len(d.Params) == 0 {
		return Param{}, false
	}
	return d.Params[0], true
}

// AgentMemberDecl describes one field of an agent declaration.
type AgentMemberDecl struct {
	Name       string
	Type       types.Type
	IsPosition bool
}

// AgentDecl declares an agent type and its members.
type AgentDecl struct {
	Token              token.Token
	Name               string
	Members            []AgentMemberDecl
	UsesRuntimeRemoval bool
}

func (*AgentDecl) declNode()            {}
func (d *AgentDecl) Pos() token.Position { return d.Token.Pos }

// AgentName implements types.AgentDecl.
func (d *AgentDecl) AgentName() string { return d.Name }

// Member implements types.AgentDecl.
func (d *AgentDecl) Member(name string) (types.AgentMemberInfo, bool) {
	for _, m := range d.Members {
		if m.Name == name {
			return types.AgentMemberInfo{Name: m.Name, Type: m.Type, IsPosition: m.IsPosition}, true
		}
	}
	return types.AgentMemberInfo{}, false
}

// PositionMember implements types.AgentDecl.
func (d *AgentDecl) PositionMember() (types.AgentMemberInfo, bool) {
	for _, m := range d.Members {
		if m.IsPosition {
			return types.AgentMemberInfo{Name: m.Name, Type: m.Type, IsPosition: true}, true
		}
	}
	return types.AgentMemberInfo{}, false
}

// ConstDecl declares a global constant, optionally overridable from the
// command line when IsParam is true (`param` keyword).
type ConstDecl struct {
	Token        token.Token
	Type         TypeExpr
	ResolvedType types.Type
	Name         string
	Var          VarID
	Expr         ExprID
	IsArray      bool
	IsParam      bool
}

func (*ConstDecl) declNode()            {}
func (d *ConstDecl) Pos() token.Position { return d.Token.Pos }

// EnvironmentMember is one declared field of the `environment` block (its
// min/max bounds, expressed per-dimension).
type EnvironmentMember struct {
	Name string
	Type TypeExpr
	Expr ExprID
}

// EnvironmentDecl declares the simulation's spatial bounds. Min/Max/Size/
// Granularity and Dimension are computed by the analyzer from the member
// expressions and from the largest near() radius literal observed in the
// script; Dimension is -1 until resolved.
type EnvironmentDecl struct {
	Token       token.Token
	Members     []EnvironmentMember
	Min         *types.Value
	Max         *types.Value
	Size        *types.Value
	Granularity *types.Value
	Dimension   int
}

func (*EnvironmentDecl) declNode()            {}
func (d *EnvironmentDecl) Pos() token.Position { return d.Token.Pos }

// HasDimension reports whether Dimension has been resolved.
func (d *EnvironmentDecl) HasDimension() bool { return d.Dimension >= 0 }

// MainDecl is the program's entry point. Per the explicit redesign this
// language requires (the C++ original re-scans main's statement list every
// time it needs to find the `simulate` call), SetupStmts/SimulateStmtID/
// TeardownStmts are computed once by the parser and stored directly:
// SetupStmts is every top-level statement before the simulate call,
// TeardownStmts every one after it, and SimulateStmtID names the call
// itself. SimulateStmtID is InvalidStmt if main contains no simulate call.
type MainDecl struct {
	Token          token.Token
	Body           StmtID
	SetupStmts     []StmtID
	SimulateStmtID StmtID
	TeardownStmts  []StmtID
}

func (*MainDecl) declNode()            {}
func (d *MainDecl) Pos() token.Position { return d.Token.Pos }
