package semantic

import (
	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/types"
)

// registerBuiltins installs the fixed set of builtin functions every
// script gets for free: math helpers, the vec2/vec3 constructors, and a
// few runtime helpers (random(), randomInt(), tick(), print()). These
// correspond to OpenABL's calcBuiltinCall dispatch table; unlike that
// implementation, each builtin here is a first-class Signature in the same
// FuncTable user functions live in, so a builtin and a user function named
// the same way form one overload set. This function runs before any user
// declarations are registered (see Analyzer.Analyze), so Resolve's
// first-match scan picks the builtin when both accept the arguments, and a
// user overload that conflicts with a builtin's signature is rejected.
func (a *Analyzer) registerBuiltins() {
	def := func(name string, ret types.Type, flags SigFlag, params ...types.Type) {
		_ = a.funcs.Define(&Signature{OrigName: name, ParamTypes: params, ReturnType: ret, Flags: flags})
	}

	// math
	for _, name := range []string{
		"sin", "cos", "tan", "sinh", "cosh", "tanh", "asin", "acos", "atan",
		"sqrt", "cbrt", "round", "floor", "ceil", "abs", "exp", "log",
	} {
		def(name, types.TFloat, FlagNone, types.TFloat)
	}
	def("min", types.TFloat, FlagNone, types.TFloat, types.TFloat)
	def("max", types.TFloat, FlagNone, types.TFloat, types.TFloat)
	def("pow", types.TFloat, FlagNone, types.TFloat, types.TFloat)

	// vector constructors: a single float argument fills every component,
	// matching "vec2 accepts 1 or 2 floats; vec3 accepts 1 or 3 floats".
	def("vec2", types.TVec2, FlagNone, types.TFloat)
	def("vec2", types.TVec2, FlagNone, types.TFloat, types.TFloat)
	def("vec3", types.TVec3, FlagNone, types.TFloat)
	def("vec3", types.TVec3, FlagNone, types.TFloat, types.TFloat, types.TFloat)
	def("vec3", types.TVec3, FlagNone, types.TVec2, types.TFloat) // extend a vec2 + z

	// randomness
	def("random", types.TFloat, FlagNone)
	def("randomInt", types.TInt, FlagNone, types.TInt, types.TInt)

	// runtime helpers
	def("tick", types.TFloat, FlagNone)
	def("print", types.TVoid, FlagNone, types.TString)

	// count()/sum() are registered per agent type once agent declarations
	// are known, by registerAgentBuiltins below, since their signatures
	// depend on AGENT{decl}. removeCurrent()/add() are not registered at all.

	// bool()/int()/float() scalar casts are not registered here: each must
	// accept any bool-or-numeric argument, which would need three overloads
	// of the same one-argument arity, and those collide as conflicting
	// numeric signatures under Signature.IsConflictingWith. inferCallExpr
	// dispatches them directly instead (see inferPrimitiveCastCall).
}

// registerAgentBuiltins installs the per-agent-type overloads that depend
// on a concrete AgentDecl: count(AgentType) and, for every int or float
// member, sum(AgentType.member); members of other types get no sum(). removeCurrent() and add(AgentType{...}) are
// resolved structurally by the call-site analyzer (their legality depends
// on which step function they're called from, not on overload resolution),
// so they are not registered here.
func (a *Analyzer) registerAgentBuiltins(decl *ast.AgentDecl) {
	_ = a.funcs.Define(&Signature{
		OrigName:   "count",
		ParamTypes: []types.Type{types.AgentTypeOf(decl)},
		ReturnType: types.TInt,
	})
	for _, m := range decl.Members {
		if !m.Type.IsNumeric() {
			continue
		}
		_ = a.funcs.Define(&Signature{
			OrigName:   "sum",
			ParamTypes: []types.Type{types.AgentMemberOf(decl, m.Name)},
			ReturnType: m.Type,
		})
	}
}
