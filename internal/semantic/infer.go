package semantic

import (
	"math"

	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/types"
)

// inferExpr computes, memoizes, and (where every operand is itself
// constant) constant-folds the type of the expression at id. Every later
// analysis phase — const/environment registration, function bodies, main —
// goes through this single entry point, so a type or folded value is never
// computed twice for the same arena slot.
func (a *Analyzer) inferExpr(id ast.ExprID) types.Type {
	if id == ast.InvalidExpr {
		return types.TInvalid
	}
	if t, ok := a.exprTypes[id]; ok {
		return t
	}
	t := a.inferExprUncached(id)
	a.exprTypes[id] = t
	return t
}

func (a *Analyzer) inferExprUncached(id ast.ExprID) types.Type {
	switch e := a.scr.Expr(id).(type) {
	case nil:
		return types.TInvalid
	case *ast.BoolLit:
		a.exprConsts[id] = types.BoolValue(e.Value)
		return types.TBool
	case *ast.IntLit:
		a.exprConsts[id] = types.IntValue(e.Value)
		return types.TInt
	case *ast.FloatLit:
		a.exprConsts[id] = types.FloatValue(e.Value)
		return types.TFloat
	case *ast.StringLit:
		a.exprConsts[id] = types.StringValue(e.Value)
		return types.TString
	case *ast.VarExpr:
		return a.inferVarExpr(id, e)
	case *ast.UnaryExpr:
		return a.inferUnaryExpr(id, e)
	case *ast.BinaryExpr:
		return a.inferBinaryExpr(id, e)
	case *ast.TernaryExpr:
		return a.inferTernaryExpr(id, e)
	case *ast.MemberAccessExpr:
		return a.inferMemberAccessExpr(id, e)
	case *ast.EnvironmentAccessExpr:
		return a.inferEnvironmentAccessExpr(id, e)
	case *ast.ArrayAccessExpr:
		return a.inferArrayAccessExpr(id, e)
	case *ast.CallExpr:
		return a.inferCallExpr(id, e)
	case *ast.AgentCreationExpr:
		return a.inferAgentCreationExpr(id, e)
	case *ast.ArrayInitExpr:
		return a.inferArrayInitExpr(id, e)
	case *ast.NewArrayExpr:
		return a.inferNewArrayExpr(id, e)
	case *ast.ImplicitCastExpr:
		return e.To
	default:
		a.errorAt(a.exprPos(id), "internal error: unhandled expression kind")
		return types.TInvalid
	}
}

// promoteTo rewrites the expression stored at id, via Script.ReplaceExpr,
// into an ImplicitCastExpr targeting target, when id's already-inferred
// type differs from target but is promotable to it. The original node is
// moved to a freshly allocated arena slot addressed by the cast's X field;
// id itself keeps pointing at (now) the cast, so every existing reference
// to id transparently sees the promoted value. A no-op when id is already
// target-typed or not promotable.
func (a *Analyzer) promoteTo(id ast.ExprID, target types.Type) {
	t, ok := a.exprTypes[id]
	if !ok || t.Equal(target) || !t.IsPromotableTo(target) {
		return
	}
	inner := a.scr.Expr(id)
	if inner == nil {
		return
	}
	newID := a.scr.AddExpr(inner)
	a.exprTypes[newID] = t
	if v, ok := a.exprConsts[id]; ok {
		a.exprConsts[newID] = v
		if fv, ok2 := v.ToFloatImplicit(); ok2 {
			a.exprConsts[id] = types.FloatValue(fv)
		}
	}
	a.scr.ReplaceExpr(id, &ast.ImplicitCastExpr{TokenPos: inner.Pos(), X: newID, To: target})
	a.exprTypes[id] = target
}

// unifyNumeric promotes whichever of xid/yid is the lesser numeric type so
// both end up the same type, returning that common type. Callers must have
// already verified both operands are numeric.
func (a *Analyzer) unifyNumeric(xid, yid ast.ExprID, xt, yt types.Type) types.Type {
	if xt.Equal(yt) {
		return xt
	}
	if xt.Kind == types.Int && yt.Kind == types.Float {
		a.promoteTo(xid, types.TFloat)
		return types.TFloat
	}
	if yt.Kind == types.Int && xt.Kind == types.Float {
		a.promoteTo(yid, types.TFloat)
		return types.TFloat
	}
	return xt
}

func (a *Analyzer) inferVarExpr(id ast.ExprID, e *ast.VarExpr) types.Type {
	if entry, ok := a.scope.Resolve(e.Name); ok {
		e.Var = entry.ID
		if entry.HasValue {
			a.exprConsts[id] = entry.Value
		}
		return entry.Type
	}
	// Not a variable: a bare agent name used as a type reference, the way
	// count(Boid) and sum(Boid.speed) spell their argument.
	if decl, ok := a.agentsByName[e.Name]; ok {
		return types.AgentTypeOf(decl)
	}
	a.errorAt(e.Pos(), "undefined identifier %q", e.Name)
	return types.TInvalid
}

func (a *Analyzer) inferUnaryExpr(id ast.ExprID, e *ast.UnaryExpr) types.Type {
	xt := a.inferExpr(e.X)
	switch e.Op {
	case ast.UnaryNot:
		if xt.Kind != types.Bool {
			a.errorAt(e.Pos(), "! requires a bool operand, got %s", xt)
		}
		if v, ok := a.exprConsts[e.X]; ok {
			if b, ok2 := v.ToBoolExplicit(); ok2 {
				a.exprConsts[id] = types.BoolValue(!b)
			}
		}
		return types.TBool
	case ast.UnaryBitNot:
		if xt.Kind != types.Int {
			a.errorAt(e.Pos(), "~ requires an int operand, got %s", xt)
			return types.TInt
		}
		if v, ok := a.exprConsts[e.X]; ok {
			a.exprConsts[id] = types.IntValue(^v.IntVal)
		}
		return types.TInt
	default: // UnaryNeg, UnaryPlus
		if !xt.IsNumeric() && xt.Kind != types.Vec2 && xt.Kind != types.Vec3 {
			a.errorAt(e.Pos(), "unary %s requires a numeric or vector operand, got %s", unaryOpSymbol(e.Op), xt)
		}
		if v, ok := a.exprConsts[e.X]; ok {
			switch {
			case e.Op == ast.UnaryPlus:
				a.exprConsts[id] = v
			case e.Op == ast.UnaryNeg:
				switch v.Kind {
				case types.Int:
					a.exprConsts[id] = types.IntValue(-v.IntVal)
				case types.Float:
					a.exprConsts[id] = types.FloatValue(-v.FloatVal)
				case types.Vec2:
					a.exprConsts[id] = types.Vec2Value(-v.Vec2X, -v.Vec2Y)
				case types.Vec3:
					a.exprConsts[id] = types.Vec3Value(-v.Vec3X, -v.Vec3Y, -v.Vec3Z)
				}
			}
		}
		return xt
	}
}

func (a *Analyzer) inferBinaryExpr(id ast.ExprID, e *ast.BinaryExpr) types.Type {
	xt := a.inferExpr(e.X)
	yt := a.inferExpr(e.Y)

	switch e.Op {
	case ast.OpRange:
		if xt.Kind != types.Int {
			a.errorAt(a.exprPos(e.X), "range bound must be int, got %s", xt)
		}
		if yt.Kind != types.Int {
			a.errorAt(a.exprPos(e.Y), "range bound must be int, got %s", yt)
		}
		return types.TInt

	case ast.OpAnd, ast.OpOr:
		if xt.Kind != types.Bool {
			a.errorAt(a.exprPos(e.X), "operand of %s must be bool, got %s", binOpSymbol(e.Op), xt)
		}
		if yt.Kind != types.Bool {
			a.errorAt(a.exprPos(e.Y), "operand of %s must be bool, got %s", binOpSymbol(e.Op), yt)
		}
		if xv, xok := a.exprConsts[e.X]; xok {
			if yv, yok := a.exprConsts[e.Y]; yok {
				xb, _ := xv.ToBoolExplicit()
				yb, _ := yv.ToBoolExplicit()
				if e.Op == ast.OpAnd {
					a.exprConsts[id] = types.BoolValue(xb && yb)
				} else {
					a.exprConsts[id] = types.BoolValue(xb || yb)
				}
			}
		}
		return types.TBool

	case ast.OpEq, ast.OpNotEq:
		if !xt.IsCompatibleWith(yt) && !yt.IsCompatibleWith(xt) {
			a.errorAt(e.Pos(), "cannot compare %s with %s", xt, yt)
		} else if xt.IsNumeric() && yt.IsNumeric() {
			a.unifyNumeric(e.X, e.Y, xt, yt)
		}
		if xv, xok := a.exprConsts[e.X]; xok {
			if yv, yok := a.exprConsts[e.Y]; yok {
				eq := foldEqual(xv, yv)
				if e.Op == ast.OpNotEq {
					eq = !eq
				}
				a.exprConsts[id] = types.BoolValue(eq)
			}
		}
		return types.TBool

	case ast.OpLt, ast.OpLtEq, ast.OpGt, ast.OpGtEq:
		if !xt.IsNumeric() || !yt.IsNumeric() {
			a.errorAt(e.Pos(), "operands of %s must be numeric, got %s and %s", binOpSymbol(e.Op), xt, yt)
			return types.TBool
		}
		a.unifyNumeric(e.X, e.Y, xt, yt)
		if xv, xok := a.exprConsts[e.X]; xok {
			if yv, yok := a.exprConsts[e.Y]; yok {
				xf, _ := xv.AsFloat()
				yf, _ := yv.AsFloat()
				var res bool
				switch e.Op {
				case ast.OpLt:
					res = xf < yf
				case ast.OpLtEq:
					res = xf <= yf
				case ast.OpGt:
					res = xf > yf
				case ast.OpGtEq:
					res = xf >= yf
				}
				a.exprConsts[id] = types.BoolValue(res)
			}
		}
		return types.TBool

	case ast.OpBitAnd, ast.OpBitXor, ast.OpBitOr, ast.OpShl, ast.OpShr:
		if xt.Kind != types.Int || yt.Kind != types.Int {
			a.errorAt(e.Pos(), "%s requires int operands, got %s and %s", binOpSymbol(e.Op), xt, yt)
			return types.TInt
		}
		if xv, xok := a.exprConsts[e.X]; xok {
			if yv, yok := a.exprConsts[e.Y]; yok {
				var r int64
				switch e.Op {
				case ast.OpBitAnd:
					r = xv.IntVal & yv.IntVal
				case ast.OpBitXor:
					r = xv.IntVal ^ yv.IntVal
				case ast.OpBitOr:
					r = xv.IntVal | yv.IntVal
				case ast.OpShl:
					r = xv.IntVal << uint64(yv.IntVal)
				case ast.OpShr:
					r = xv.IntVal >> uint64(yv.IntVal)
				}
				a.exprConsts[id] = types.IntValue(r)
			}
		}
		return types.TInt

	default: // OpAdd, OpSub, OpMul, OpDiv, OpMod
		return a.inferArithmetic(id, e, xt, yt)
	}
}

func (a *Analyzer) inferArithmetic(id ast.ExprID, e *ast.BinaryExpr, xt, yt types.Type) types.Type {
	sym := binOpSymbol(e.Op)

	if e.Op == ast.OpMod {
		if xt.Kind != types.Int || yt.Kind != types.Int {
			a.errorAt(e.Pos(), "%% requires int operands, got %s and %s", xt, yt)
			return types.TInt
		}
		if xv, xok := a.exprConsts[e.X]; xok {
			if yv, yok := a.exprConsts[e.Y]; yok && yv.IntVal != 0 {
				a.exprConsts[id] = types.IntValue(xv.IntVal % yv.IntVal)
			}
		}
		return types.TInt
	}

	switch {
	case xt.IsNumeric() && yt.IsNumeric():
		result := a.unifyNumeric(e.X, e.Y, xt, yt)
		if xv, xok := a.exprConsts[e.X]; xok {
			if yv, yok := a.exprConsts[e.Y]; yok {
				if v, ok := foldNumericArith(e.Op, xv, yv); ok {
					a.exprConsts[id] = v
				}
			}
		}
		return result

	case (xt.Kind == types.Vec2 || xt.Kind == types.Vec3) && xt.Equal(yt):
		return xt

	case (xt.Kind == types.Vec2 || xt.Kind == types.Vec3) && yt.IsNumeric() && (e.Op == ast.OpMul || e.Op == ast.OpDiv):
		a.promoteTo(e.Y, types.TFloat)
		return xt

	case (yt.Kind == types.Vec2 || yt.Kind == types.Vec3) && xt.IsNumeric() && e.Op == ast.OpMul:
		a.promoteTo(e.X, types.TFloat)
		return yt

	default:
		a.errorAt(e.Pos(), "%s is not defined between %s and %s", sym, xt, yt)
		return types.TInvalid
	}
}

func (a *Analyzer) inferTernaryExpr(id ast.ExprID, e *ast.TernaryExpr) types.Type {
	ct := a.inferExpr(e.Cond)
	if ct.Kind != types.Bool {
		a.errorAt(a.exprPos(e.Cond), "ternary condition must be bool, got %s", ct)
	}
	tt := a.inferExpr(e.Then)
	et := a.inferExpr(e.Else)

	result := tt
	switch {
	case tt.Equal(et):
		result = tt
	case tt.Kind == types.Int && et.Kind == types.Float:
		a.promoteTo(e.Then, types.TFloat)
		result = types.TFloat
	case et.Kind == types.Int && tt.Kind == types.Float:
		a.promoteTo(e.Else, types.TFloat)
		result = types.TFloat
	default:
		a.errorAt(e.Pos(), "ternary branches have incompatible types %s and %s", tt, et)
	}

	if cv, ok := a.exprConsts[e.Cond]; ok {
		if b, ok2 := cv.ToBoolExplicit(); ok2 {
			branch := e.Then
			if !b {
				branch = e.Else
			}
			if v, ok3 := a.exprConsts[branch]; ok3 {
				a.exprConsts[id] = v
			}
		}
	}
	return result
}

func (a *Analyzer) inferMemberAccessExpr(id ast.ExprID, e *ast.MemberAccessExpr) types.Type {
	xt := a.inferExpr(e.X)
	switch xt.Kind {
	case types.Vec2:
		if e.Member != "x" && e.Member != "y" {
			a.errorAt(e.Pos(), "vec2 has no member %q", e.Member)
			return types.TInvalid
		}
		if v, ok := a.exprConsts[e.X]; ok {
			if e.Member == "x" {
				a.exprConsts[id] = types.FloatValue(v.Vec2X)
			} else {
				a.exprConsts[id] = types.FloatValue(v.Vec2Y)
			}
		}
		return types.TFloat

	case types.Vec3:
		if e.Member != "x" && e.Member != "y" && e.Member != "z" {
			a.errorAt(e.Pos(), "vec3 has no member %q", e.Member)
			return types.TInvalid
		}
		if v, ok := a.exprConsts[e.X]; ok {
			switch e.Member {
			case "x":
				a.exprConsts[id] = types.FloatValue(v.Vec3X)
			case "y":
				a.exprConsts[id] = types.FloatValue(v.Vec3Y)
			case "z":
				a.exprConsts[id] = types.FloatValue(v.Vec3Z)
			}
		}
		return types.TFloat

	case types.Agent:
		if xt.Agent == nil {
			return types.TInvalid
		}
		mi, ok := xt.Agent.Member(e.Member)
		if !ok {
			a.errorAt(e.Pos(), "agent %q has no member %q", xt.Agent.AgentName(), e.Member)
			return types.TInvalid
		}
		a.recordAccessedMember(e, xt.Agent)
		return mi.Type

	case types.AgentType:
		if xt.Agent == nil {
			return types.TInvalid
		}
		if _, ok := xt.Agent.Member(e.Member); !ok {
			a.errorAt(e.Pos(), "agent %q has no member %q", xt.Agent.AgentName(), e.Member)
			return types.TInvalid
		}
		return types.AgentMemberOf(xt.Agent, e.Member)

	default:
		a.errorAt(e.Pos(), "%s has no member %q", xt, e.Member)
		return types.TInvalid
	}
}

// recordAccessedMember records member into the current step function's
// AccessedMembers set when it is read through the step's own per-agent
// parameter or a for-near loop variable — the two ways a step function
// observes agent state that the flame model builder needs to know about.
func (a *Analyzer) recordAccessedMember(e *ast.MemberAccessExpr, _ types.AgentDecl) {
	if a.currentFunc == nil || a.currentFunc.Kind == ast.FuncNormal {
		return
	}
	ve, ok := a.scr.Expr(e.X).(*ast.VarExpr)
	if !ok || !a.trackedVars[ve.Var] {
		return
	}
	if a.currentFunc.AccessedMembers == nil {
		a.currentFunc.AccessedMembers = map[string]struct{}{}
	}
	a.currentFunc.AccessedMembers[e.Member] = struct{}{}
}

func (a *Analyzer) inferEnvironmentAccessExpr(id ast.ExprID, e *ast.EnvironmentAccessExpr) types.Type {
	env := a.scr.Environment
	if env == nil {
		a.errorAt(e.Pos(), "environment.%s referenced but no environment block is declared", e.Member)
		return types.TInvalid
	}
	var val *types.Value
	switch e.Member {
	case "min":
		val = env.Min
	case "max":
		val = env.Max
	case "size":
		val = env.Size
	case "granularity":
		val = env.Granularity
	default:
		a.errorAt(e.Pos(), "environment has no member %q", e.Member)
		return types.TInvalid
	}
	if val == nil {
		if env.HasDimension() {
			if env.Dimension == 2 {
				return types.TVec2
			}
			return types.TVec3
		}
		return types.TFloat
	}
	a.exprConsts[id] = *val
	return val.Type()
}

func (a *Analyzer) inferArrayAccessExpr(id ast.ExprID, e *ast.ArrayAccessExpr) types.Type {
	xt := a.inferExpr(e.X)
	it := a.inferExpr(e.Index)
	if it.Kind != types.Int {
		a.errorAt(a.exprPos(e.Index), "array index must be int, got %s", it)
	}
	if xt.Kind != types.Array {
		a.errorAt(e.Pos(), "cannot index into non-array type %s", xt)
		return types.TInvalid
	}
	return *xt.Elem
}

func (a *Analyzer) inferCallExpr(id ast.ExprID, e *ast.CallExpr) types.Type {
	switch e.Name {
	case "near":
		a.errorAt(e.Pos(), "near() may only be used as a for-loop's iterable expression")
		for _, argID := range e.Args {
			a.inferExpr(argID)
		}
		return types.TInvalid
	case "removeCurrent":
		return a.inferRemoveCurrentCall(e)
	case "add":
		return a.inferAddCall(e)
	case "void", "string":
		a.errorAt(e.Pos(), "%s is not a constructible type", e.Name)
		for _, argID := range e.Args {
			a.inferExpr(argID)
		}
		return types.TInvalid
	}
	if target, ok := primitiveCtorTypes[e.Name]; ok {
		return a.inferPrimitiveCastCall(id, e, target)
	}

	argTypes := make([]types.Type, len(e.Args))
	for i, argID := range e.Args {
		argTypes[i] = a.inferExpr(argID)
	}
	sig, ok := a.funcs.Resolve(e.Name, argTypes)
	if !ok {
		a.errorAt(e.Pos(), "no matching overload of %q for the given argument types", e.Name)
		return types.TInvalid
	}
	a.checkCallContext(e, sig)
	for i, pt := range sig.ParamTypes {
		a.promoteTo(e.Args[i], pt)
	}
	if sig.Decl != nil {
		e.Kind = ast.CallUser
		e.CalledFunc = sig.Decl
	} else {
		e.Kind = ast.CallBuiltin
		switch {
		case e.Name == "vec2" || e.Name == "vec3":
			e.Kind = ast.CallCtor
			a.foldCtorCall(id, e)
		case mathFoldFuncs[e.Name] != nil:
			a.foldMathCall(id, e, mathFoldFuncs[e.Name])
		}
		a.recordReduction(e.Name, sig)
	}
	return sig.ReturnType
}

// primitiveCtorTypes maps the scalar type-cast call names to their target
// Type — bool(x)/int(x)/float(x), each taking exactly one bool-or-numeric
// argument. These are dispatched here rather than through the FuncTable,
// since the three overloads would otherwise collide as conflicting
// same-arity numeric signatures (see Signature.IsConflictingWith).
var primitiveCtorTypes = map[string]types.Type{
	"bool":  types.TBool,
	"int":   types.TInt,
	"float": types.TFloat,
}

func (a *Analyzer) inferPrimitiveCastCall(id ast.ExprID, e *ast.CallExpr, target types.Type) types.Type {
	e.Kind = ast.CallCtor
	if len(e.Args) != 1 {
		a.errorAt(e.Pos(), "%s() takes exactly one argument", e.Name)
		for _, argID := range e.Args {
			a.inferExpr(argID)
		}
		return target
	}
	argID := e.Args[0]
	at := a.inferExpr(argID)
	if at.Kind != types.Bool && !at.IsNumeric() {
		a.errorAt(a.exprPos(argID), "%s() requires a bool or numeric argument, got %s", e.Name, at)
	}
	if v, ok := a.exprConsts[argID]; ok {
		if cv, ok2 := castValueTo(v, target.Kind); ok2 {
			a.exprConsts[id] = cv
		}
	}
	return target
}

// castValueTo converts v to the explicit bool/int/float cast target that a
// bool()/int()/float() CTOR call folds to: bool<->numeric treats zero as
// false, int() truncates a float, float() widens an int.
func castValueTo(v types.Value, target types.Kind) (types.Value, bool) {
	switch target {
	case types.Bool:
		switch v.Kind {
		case types.Bool:
			return v, true
		case types.Int:
			return types.BoolValue(v.IntVal != 0), true
		case types.Float:
			return types.BoolValue(v.FloatVal != 0), true
		}
	case types.Int:
		switch v.Kind {
		case types.Bool:
			if v.BoolVal {
				return types.IntValue(1), true
			}
			return types.IntValue(0), true
		case types.Int, types.Float:
			i, _ := v.ToIntExplicit()
			return types.IntValue(i), true
		}
	case types.Float:
		switch v.Kind {
		case types.Bool:
			if v.BoolVal {
				return types.FloatValue(1), true
			}
			return types.FloatValue(0), true
		case types.Int, types.Float:
			f, _ := v.AsFloat()
			return types.FloatValue(f), true
		}
	}
	return types.Value{}, false
}

// foldCtorCall constant-folds a vec2()/vec3() CTOR call: a single argument
// fills every component, two or three arguments are taken per-component,
// and vec3(vec2, float) extends a constant vec2 with a z component.
func (a *Analyzer) foldCtorCall(id ast.ExprID, e *ast.CallExpr) {
	floatArg := func(argID ast.ExprID) (float64, bool) {
		v, ok := a.exprConsts[argID]
		if !ok {
			return 0, false
		}
		return v.AsFloat()
	}

	switch e.Name {
	case "vec2":
		switch len(e.Args) {
		case 1:
			if f, ok := floatArg(e.Args[0]); ok {
				a.exprConsts[id] = types.Vec2Value(f, f)
			}
		case 2:
			x, xok := floatArg(e.Args[0])
			y, yok := floatArg(e.Args[1])
			if xok && yok {
				a.exprConsts[id] = types.Vec2Value(x, y)
			}
		}
	case "vec3":
		switch len(e.Args) {
		case 1:
			if f, ok := floatArg(e.Args[0]); ok {
				a.exprConsts[id] = types.Vec3Value(f, f, f)
			}
		case 3:
			x, xok := floatArg(e.Args[0])
			y, yok := floatArg(e.Args[1])
			z, zok := floatArg(e.Args[2])
			if xok && yok && zok {
				a.exprConsts[id] = types.Vec3Value(x, y, z)
			}
		case 2:
			if v, ok := a.exprConsts[e.Args[0]]; ok && v.Kind == types.Vec2 {
				if z, zok := floatArg(e.Args[1]); zok {
					a.exprConsts[id] = types.Vec3Value(v.Vec2X, v.Vec2Y, z)
				}
			}
		}
	}
}

// mathFoldFuncs is the whitelist of single- and double-argument math
// builtins whose calls are constant-folded when every argument is itself
// constant.
var mathFoldFuncs = map[string]func([]float64) float64{
	"sin":   func(a []float64) float64 { return math.Sin(a[0]) },
	"cos":   func(a []float64) float64 { return math.Cos(a[0]) },
	"tan":   func(a []float64) float64 { return math.Tan(a[0]) },
	"sinh":  func(a []float64) float64 { return math.Sinh(a[0]) },
	"cosh":  func(a []float64) float64 { return math.Cosh(a[0]) },
	"tanh":  func(a []float64) float64 { return math.Tanh(a[0]) },
	"asin":  func(a []float64) float64 { return math.Asin(a[0]) },
	"acos":  func(a []float64) float64 { return math.Acos(a[0]) },
	"atan":  func(a []float64) float64 { return math.Atan(a[0]) },
	"exp":   func(a []float64) float64 { return math.Exp(a[0]) },
	"log":   func(a []float64) float64 { return math.Log(a[0]) },
	"sqrt":  func(a []float64) float64 { return math.Sqrt(a[0]) },
	"cbrt":  func(a []float64) float64 { return math.Cbrt(a[0]) },
	"round": func(a []float64) float64 { return math.Round(a[0]) },
	"pow":   func(a []float64) float64 { return math.Pow(a[0], a[1]) },
}

func (a *Analyzer) foldMathCall(id ast.ExprID, e *ast.CallExpr, fn func([]float64) float64) {
	args := make([]float64, len(e.Args))
	for i, argID := range e.Args {
		v, ok := a.exprConsts[argID]
		if !ok {
			return
		}
		f, ok := v.AsFloat()
		if !ok {
			return
		}
		args[i] = f
	}
	a.exprConsts[id] = types.FloatValue(fn(args))
}

func (a *Analyzer) checkCallContext(e *ast.CallExpr, sig *Signature) {
	inMain := a.currentFunc == nil
	var kind ast.FuncKind
	if !inMain {
		kind = a.currentFunc.Kind
	}
	if sig.Flags.Has(MainOnly) && !inMain {
		a.errorAt(e.Pos(), "%q may only be called from main", e.Name)
	}
	if sig.Flags.Has(StepOnly) && kind != ast.FuncStep {
		a.errorAt(e.Pos(), "%q may only be called from a parallel step function", e.Name)
	}
	if sig.Flags.Has(SeqStepOnly) && kind != ast.FuncSeqStep {
		a.errorAt(e.Pos(), "%q may only be called from a sequential step function", e.Name)
	}
}

func (a *Analyzer) recordReduction(name string, sig *Signature) {
	if len(sig.ParamTypes) != 1 {
		return
	}
	pt := sig.ParamTypes[0]
	decl, ok := pt.Agent.(*ast.AgentDecl)
	if !ok {
		return
	}
	switch {
	case name == "count" && pt.Kind == types.AgentType:
		a.scr.Reductions[ast.ReductionKey{Kind: ast.ReduceCountType, Agent: decl}] = struct{}{}
	case name == "sum" && pt.Kind == types.AgentMember:
		a.scr.Reductions[ast.ReductionKey{Kind: ast.ReduceSumMember, Agent: decl, Member: pt.Member}] = struct{}{}
	}
}

func (a *Analyzer) inferRemoveCurrentCall(e *ast.CallExpr) types.Type {
	if len(e.Args) != 0 {
		a.errorAt(e.Pos(), "removeCurrent() takes no arguments")
	}
	if a.currentFunc == nil || a.currentFunc.Kind != ast.FuncStep {
		a.errorAt(e.Pos(), "removeCurrent() may only be called from a parallel step function")
	} else {
		a.currentFunc.UsesRuntimeRemoval = true
	}
	a.scr.UsesRuntimeRemoval = true
	e.Kind = ast.CallBuiltin
	return types.TVoid
}

func (a *Analyzer) inferAddCall(e *ast.CallExpr) types.Type {
	if len(e.Args) != 1 {
		a.errorAt(e.Pos(), "add() takes exactly one agent-creation argument")
		for _, argID := range e.Args {
			a.inferExpr(argID)
		}
		return types.TVoid
	}
	argType := a.inferExpr(e.Args[0])
	inStep := a.currentFunc != nil && a.currentFunc.Kind == ast.FuncStep
	inMain := a.currentFunc == nil
	if !inStep && !inMain {
		a.errorAt(e.Pos(), "add() may only be called from main or a parallel step function")
	}
	if argType.Kind != types.Agent || argType.Agent == nil {
		a.errorAt(e.Pos(), "add() requires an agent-creation expression, got %s", argType)
		e.Kind = ast.CallBuiltin
		return types.TVoid
	}
	decl, _ := argType.Agent.(*ast.AgentDecl)
	a.scr.UsesRuntimeAddition = true
	if inStep {
		if a.currentFunc.RuntimeAddedAgent != nil && a.currentFunc.RuntimeAddedAgent != decl {
			a.errorAt(e.Pos(), "a step function may only add one agent type")
		}
		a.currentFunc.RuntimeAddedAgent = decl
		a.checkAddPosition(e, decl)
	}
	e.Kind = ast.CallBuiltin
	return types.TVoid
}

// checkAddPosition flags scr.UsesRuntimeAdditionAtDifferentPos when the
// added agent's position member is not initialized directly from the step
// parameter's own position member (e.g. `add(Boid{pos: self.pos + d, ...})`
// rather than `add(Boid{pos: self.pos, ...})`) — a backend needs to know
// this to decide whether the new agent can be placed in the same spatial
// cell as its creator without recomputing membership.
func (a *Analyzer) checkAddPosition(e *ast.CallExpr, decl *ast.AgentDecl) {
	ac, ok := a.scr.Expr(e.Args[0]).(*ast.AgentCreationExpr)
	if !ok {
		return
	}
	posInfo, ok := decl.PositionMember()
	if !ok {
		return
	}
	initID, ok := ac.FindMember(posInfo.Name)
	if !ok {
		return
	}
	if !a.isSelfPositionExpr(initID) {
		a.scr.UsesRuntimeAdditionAtDifferentPos = true
	}
}

func (a *Analyzer) isSelfPositionExpr(id ast.ExprID) bool {
	ma, ok := a.scr.Expr(id).(*ast.MemberAccessExpr)
	if !ok || a.currentFunc == nil {
		return false
	}
	ve, ok := a.scr.Expr(ma.X).(*ast.VarExpr)
	if !ok {
		return false
	}
	stepParam, ok := a.currentFunc.StepParam()
	return ok && ve.Var != 0 && ve.Var == stepParam.Var
}

func (a *Analyzer) inferAgentCreationExpr(id ast.ExprID, e *ast.AgentCreationExpr) types.Type {
	decl, ok := a.agentsByName[e.Name]
	if !ok {
		a.errorAt(e.Pos(), "unknown agent type %q", e.Name)
		for _, m := range e.Members {
			a.inferExpr(m.Expr)
		}
		return types.TInvalid
	}
	e.Decl = decl
	seen := map[string]bool{}
	for _, m := range e.Members {
		mt := a.inferExpr(m.Expr)
		info, ok := decl.Member(m.Name)
		if !ok {
			a.errorAt(e.Pos(), "agent %q has no member %q", decl.Name, m.Name)
			continue
		}
		seen[m.Name] = true
		if !mt.IsPromotableTo(info.Type) {
			a.errorAt(a.exprPos(m.Expr), "member %q of agent %q expects %s, got %s", m.Name, decl.Name, info.Type, mt)
			continue
		}
		a.promoteTo(m.Expr, info.Type)
	}
	for _, m := range decl.Members {
		if !seen[m.Name] {
			a.errorAt(e.Pos(), "agent-creation literal for %q is missing member %q", decl.Name, m.Name)
		}
	}
	return types.AgentOf(decl)
}

func (a *Analyzer) inferArrayInitExpr(id ast.ExprID, e *ast.ArrayInitExpr) types.Type {
	if len(e.Elems) == 0 {
		return types.ArrayOf(types.TInvalid)
	}
	elemType := a.inferExpr(e.Elems[0])
	for _, elemID := range e.Elems[1:] {
		t := a.inferExpr(elemID)
		switch {
		case t.Equal(elemType):
		case t.IsPromotableTo(elemType):
			a.promoteTo(elemID, elemType)
		case elemType.IsPromotableTo(t):
			for _, prior := range e.Elems {
				if prior == elemID {
					break
				}
				a.promoteTo(prior, t)
			}
			elemType = t
		default:
			a.errorAt(a.exprPos(elemID), "array element has type %s, expected %s", t, elemType)
		}
	}
	return types.ArrayOf(elemType)
}

func (a *Analyzer) inferNewArrayExpr(id ast.ExprID, e *ast.NewArrayExpr) types.Type {
	sizeT := a.inferExpr(e.Size)
	if sizeT.Kind != types.Int {
		a.errorAt(a.exprPos(e.Size), "array size must be int, got %s", sizeT)
	}
	return types.ArrayOf(a.resolveTypeExpr(e.Elem))
}

// resolveTypeExpr resolves a syntactic TypeExpr to a types.Type, filling in
// agent type names (unresolvable at parse time, since agent declarations
// may appear after the type reference in source order) against the
// analyzer's agent table.
func (a *Analyzer) resolveTypeExpr(te ast.TypeExpr) types.Type {
	base := types.FromTypeName(te.Name)
	if base.Kind == types.Invalid {
		if decl, ok := a.agentsByName[te.Name]; ok {
			base = types.AgentOf(decl)
		} else {
			a.errorAt(te.Pos(), "unknown type %q", te.Name)
		}
	}
	if te.IsArray {
		return types.ArrayOf(base)
	}
	return base
}

func foldNumericArith(op ast.BinaryOp, xv, yv types.Value) (types.Value, bool) {
	if xv.Kind == types.Int && yv.Kind == types.Int {
		switch op {
		case ast.OpAdd:
			return types.IntValue(xv.IntVal + yv.IntVal), true
		case ast.OpSub:
			return types.IntValue(xv.IntVal - yv.IntVal), true
		case ast.OpMul:
			return types.IntValue(xv.IntVal * yv.IntVal), true
		case ast.OpDiv:
			if yv.IntVal == 0 {
				return types.Value{}, false
			}
			return types.IntValue(xv.IntVal / yv.IntVal), true
		}
		return types.Value{}, false
	}
	xf, _ := xv.AsFloat()
	yf, _ := yv.AsFloat()
	switch op {
	case ast.OpAdd:
		return types.FloatValue(xf + yf), true
	case ast.OpSub:
		return types.FloatValue(xf - yf), true
	case ast.OpMul:
		return types.FloatValue(xf * yf), true
	case ast.OpDiv:
		if yf == 0 {
			return types.Value{}, false
		}
		return types.FloatValue(xf / yf), true
	}
	return types.Value{}, false
}

func foldEqual(xv, yv types.Value) bool {
	if xv.Kind == yv.Kind {
		return xv.Equal(yv)
	}
	xf, xok := xv.AsFloat()
	yf, yok := yv.AsFloat()
	return xok && yok && xf == yf
}

func binOpSymbol(op ast.BinaryOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpMod:
		return "%"
	case ast.OpBitAnd:
		return "&"
	case ast.OpBitXor:
		return "^"
	case ast.OpBitOr:
		return "|"
	case ast.OpShl:
		return "<<"
	case ast.OpShr:
		return ">>"
	case ast.OpEq:
		return "=="
	case ast.OpNotEq:
		return "!="
	case ast.OpLt:
		return "<"
	case ast.OpLtEq:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGtEq:
		return ">="
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	case ast.OpRange:
		return ".."
	}
	return "?"
}

func unaryOpSymbol(op ast.UnaryOp) string {
	switch op {
	case ast.UnaryNeg:
		return "-"
	case ast.UnaryPlus:
		return "+"
	case ast.UnaryNot:
		return "!"
	case ast.UnaryBitNot:
		return "~"
	}
	return "?"
}
