package semantic

import (
	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/types"
)

// registerFunctionSignatures resolves every user function's parameter and
// return types and adds it to the function table, before any function body
// is analyzed — so a function may call another declared later in the file.
func (a *Analyzer) registerFunctionSignatures() {
	for _, fd := range a.scr.Funcs {
		params := make([]types.Type, len(fd.Params))
		for i, p := range fd.Params {
			params[i] = a.resolveTypeExpr(p.Type)
		}
		ret := a.resolveTypeExpr(fd.ReturnType)
		fd.ResolvedParamTypes = params
		fd.ResolvedReturnType = ret

		var flags SigFlag
		switch fd.Kind {
		case ast.FuncStep:
			flags = StepOnly
		case ast.FuncSeqStep:
			flags = SeqStepOnly
		}
		fd.StepOnly = flags.Has(StepOnly)
		fd.SeqStepOnly = flags.Has(SeqStepOnly)

		sig := &Signature{OrigName: fd.Name, ParamTypes: params, ReturnType: ret, Flags: flags, Decl: fd}
		if err := a.funcs.Define(sig); err != nil {
			a.errorAt(fd.Pos(), "%s", err)
			continue
		}
		fd.MangledName = sig.MangledName

		if fd.Kind == ast.FuncStep {
			for _, pt := range params {
				if decl, ok := pt.Agent.(*ast.AgentDecl); ok && pt.Kind == types.Agent {
					fd.AccessedAgent = decl
					break
				}
			}
			if fd.AccessedAgent == nil {
				a.errorAt(fd.Pos(), "step function %q must take exactly one agent parameter", fd.Name)
			}
		}
	}
}

// analyzeFunc walks one function body: parameters (and, for a step
// function, its implicit "out" binding) are bound in a fresh child scope of
// the global scope, since functions cannot see each other's locals.
func (a *Analyzer) analyzeFunc(fd *ast.FuncDecl) {
	prevFunc := a.currentFunc
	prevScope := a.scope
	a.currentFunc = fd
	a.scope = NewChildScope(a.global)

	for i := range fd.Params {
		p := &fd.Params[i]
		pt := fd.ResolvedParamTypes[i]
		p.Var = a.ids.Next()
		if _, err := a.scope.Define(p.Var, p.Name, pt, false); err != nil {
			a.errorAt(fd.Pos(), "%s", err)
		}
		if fd.Kind == ast.FuncStep {
			a.trackedVars[p.Var] = true
			if p.OutName != "" {
				outVar := a.ids.Next()
				if _, err := a.scope.Define(outVar, p.OutName, pt, false); err != nil {
					a.errorAt(fd.Pos(), "%s", err)
				}
				a.trackedVars[outVar] = true
			}
		}
	}

	a.analyzeStmt(fd.Body)

	a.currentFunc = prevFunc
	a.scope = prevScope
}

// analyzeMain walks main's body. Main has no parameters and is not itself a
// step function, so currentFunc is nil throughout — MainOnly builtins check
// for exactly that.
func (a *Analyzer) analyzeMain(main *ast.MainDecl) {
	prevScope := a.scope
	prevFunc := a.currentFunc
	prevMain := a.currentMain
	a.scope = NewChildScope(a.global)
	a.currentFunc = nil
	a.currentMain = main

	a.analyzeStmt(main.Body)

	a.currentMain = prevMain
	a.currentFunc = prevFunc
	a.scope = prevScope
}

// validateSimulateScheduling runs once every function and main have been
// analyzed: it flags a script that declares step functions but never
// schedules them, and hints at a declared step function simulate never
// references.
func (a *Analyzer) validateSimulateScheduling() {
	if a.scr.Main == nil {
		for _, fd := range a.scr.Funcs {
			if fd.Kind == ast.FuncStep || fd.Kind == ast.FuncSeqStep {
				a.errorAt(fd.Pos(), "step function %q is declared but the script has no main", fd.Name)
			}
		}
		return
	}

	if a.scr.Main.SimulateStmtID == ast.InvalidStmt {
		for _, fd := range a.scr.Funcs {
			if fd.Kind == ast.FuncStep || fd.Kind == ast.FuncSeqStep {
				a.errorAt(a.scr.Main.Pos(), "main never calls simulate, but step function %q is declared", fd.Name)
			}
		}
		return
	}

	sim, ok := a.scr.Stmt(a.scr.Main.SimulateStmtID).(*ast.SimulateStmt)
	if !ok {
		return
	}
	scheduled := map[*ast.FuncDecl]bool{}
	for _, fd := range sim.StepFuncDecls {
		scheduled[fd] = true
	}
	for _, fd := range a.scr.Funcs {
		if (fd.Kind == ast.FuncStep || fd.Kind == ast.FuncSeqStep) && !scheduled[fd] {
			a.hintAt(fd.Pos(), "step function %q is declared but never scheduled by simulate", fd.Name)
		}
	}
}
