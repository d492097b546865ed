package semantic

import "github.com/cwbudde/ablc/internal/types"

func (a *Analyzer) registerConsts() {
	for _, cd := range a.scr.Consts {
		typ := a.inferExpr(cd.Expr)
		if cd.ResolvedType.Kind != types.Invalid && !typ.IsPromotableTo(cd.ResolvedType) {
			a.errorAt(cd.Pos(), "const %q initializer has type %s, expected %s", cd.Name, typ, cd.ResolvedType)
		}
		declType := cd.ResolvedType
		if declType.Kind == types.Invalid {
			declType = typ
		} else if typ.IsPromotableTo(declType) {
			a.promoteTo(cd.Expr, declType)
		}
		cd.Var = a.ids.Next()
		if _, err := a.global.Define(cd.Var, cd.Name, declType, true); err != nil {
			a.errorAt(cd.Pos(), "%s", err)
			continue
		}
		if v, ok := a.exprConsts[cd.Expr]; ok {
			if entry, found := a.global.Resolve(cd.Name); found {
				entry.Value = v
				entry.HasValue = true
			}
		} else if cd.IsParam {
			a.hintAt(cd.Pos(), "param %q has a non-constant initializer; -P overrides will replace it entirely", cd.Name)
		}
	}
}
