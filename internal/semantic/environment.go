package semantic

import (
	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/types"
)

func (a *Analyzer) registerEnvironment() {
	env := a.scr.Environment
	if env == nil {
		return
	}
	for _, m := range env.Members {
		want := types.FromTypeName(m.Type.Name)

		if v, ok := a.foldVectorLiteral(m.Expr, want); ok {
			a.storeEnvironmentValue(env, m.Name, v)
			continue
		}

		typ := a.inferExpr(m.Expr)
		if want.Kind != types.Invalid && !typ.IsPromotableTo(want) {
			a.errorAt(a.exprPos(m.Expr), "environment.%s has type %s, expected %s", m.Name, typ, want)
		}
		v, ok := a.exprConsts[m.Expr]
		if !ok {
			a.errorAt(env.Pos(), "environment.%s must be a constant expression", m.Name)
			continue
		}
		a.storeEnvironmentValue(env, m.Name, v)
	}

	if env.Min != nil {
		switch env.Min.Kind {
		case types.Vec2:
			env.Dimension = 2
		case types.Vec3:
			env.Dimension = 3
		}
	}
}

func (a *Analyzer) storeEnvironmentValue(env *ast.EnvironmentDecl, name string, v types.Value) {
	switch name {
	case "min":
		env.Min = &v
	case "max":
		env.Max = &v
	case "size":
		env.Size = &v
	case "granularity":
		env.Granularity = &v
	}
}

// foldVectorLiteral recognizes an environment member initializer written as
// a bracketed literal (`[x, y]` or `[x, y, z]`) against a vec2/vec3-typed
// member. The generic array-literal inference path always produces
// array<float>, which never matches a vec2/vec3 declared type, so a
// bracketed environment bound can only fold through this dedicated path.
func (a *Analyzer) foldVectorLiteral(id ast.ExprID, want types.Type) (types.Value, bool) {
	arr, ok := a.scr.Expr(id).(*ast.ArrayInitExpr)
	if !ok {
		return types.Value{}, false
	}
	wantLen := 0
	switch want.Kind {
	case types.Vec2:
		wantLen = 2
	case types.Vec3:
		wantLen = 3
	default:
		return types.Value{}, false
	}
	if len(arr.Elems) != wantLen {
		return types.Value{}, false
	}
	comps := make([]float64, wantLen)
	for i, elemID := range arr.Elems {
		et := a.inferExpr(elemID)
		if !et.IsNumeric() {
			return types.Value{}, false
		}
		v, ok := a.exprConsts[elemID]
		if !ok {
			return types.Value{}, false
		}
		f, ok := v.AsFloat()
		if !ok {
			return types.Value{}, false
		}
		comps[i] = f
	}
	if wantLen == 2 {
		return types.Vec2Value(comps[0], comps[1]), true
	}
	return types.Vec3Value(comps[0], comps[1], comps[2]), true
}

// finalizeEnvironment applies the auto-inferred granularity rule: if the
// script never declares environment.granularity explicitly but does use at
// least one near() loop with a literal radius, the environment's
// granularity defaults to the largest such radius observed, matching
// OpenABL's treatment of near-radius literals as implicitly sizing the
// spatial partition cells a backend would build.
func (a *Analyzer) finalizeEnvironment() {
	env := a.scr.Environment
	if env == nil || env.Granularity != nil || !a.sawNearRadius {
		return
	}
	v := types.FloatValue(a.maxNearRadius)
	env.Granularity = &v
}

// validateEnvironment enforces the environment/agent consistency invariants:
// a position member is only legal when a same-dimension environment exists,
// environment.max must be componentwise >= environment.min, and an
// environment with no declared granularity and no near() loop to infer one
// from is rejected outright rather than left permanently unresolved.
func (a *Analyzer) validateEnvironment() {
	env := a.scr.Environment
	for _, ad := range a.scr.Agents {
		pm, ok := ad.PositionMember()
		if !ok {
			continue
		}
		if env == nil {
			a.errorAt(ad.Pos(), "agent %q declares a position member but no environment is declared", ad.Name)
			continue
		}
		dim := 2
		if pm.Type.Kind == types.Vec3 {
			dim = 3
		}
		if env.HasDimension() && env.Dimension != dim {
			a.errorAt(ad.Pos(), "agent %q's position member is %s, but the environment is %dD", ad.Name, pm.Type, env.Dimension)
		}
	}

	if env == nil {
		return
	}
	if env.Min != nil && env.Max != nil && !vectorLessEq(*env.Min, *env.Max) {
		a.errorAt(env.Pos(), "environment.max must be componentwise >= environment.min")
	}
	if env.Granularity == nil {
		a.errorAt(env.Pos(), "environment has no granularity and no near() call to infer one from")
	}
}

// vectorLessEq reports whether lo is componentwise <= hi for two vec2 or
// vec3 values of the same kind.
func vectorLessEq(lo, hi types.Value) bool {
	switch lo.Kind {
	case types.Vec2:
		return lo.Vec2X <= hi.Vec2X && lo.Vec2Y <= hi.Vec2Y
	case types.Vec3:
		return lo.Vec3X <= hi.Vec3X && lo.Vec3Y <= hi.Vec3Y && lo.Vec3Z <= hi.Vec3Z
	default:
		return true
	}
}
