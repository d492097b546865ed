// Package semantic implements name resolution, type inference and
// promotion, constant folding, for-loop classification, and step-function
// metadata tagging for agent-based-modeling scripts.
//
// The Analyzer is a single struct holding the symbol/function tables and
// an accumulated diagnostic list, driven by two passes over the script —
// the same struct-of-tables-plus-error-accumulation shape the DWScript
// analyzer this project is grounded on uses, with the class/interface/
// exception-specific machinery of that analyzer replaced by this
// language's much smaller type system (see internal/types).
package semantic

import (
	"fmt"

	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/diagnostics"
	"github.com/cwbudde/ablc/internal/session"
	"github.com/cwbudde/ablc/internal/token"
	"github.com/cwbudde/ablc/internal/types"
)

// Analyzer walks a parsed Script and produces a Result.
type Analyzer struct {
	ids    *session.IDSource
	scr    *ast.Script
	global *Scope
	funcs  *FuncTable

	agentsByName map[string]*ast.AgentDecl

	exprTypes  map[ast.ExprID]types.Type
	exprConsts map[ast.ExprID]types.Value

	diags []diagnostics.Diagnostic

	scope       *Scope
	currentFunc *ast.FuncDecl
	currentMain *ast.MainDecl
	inLoop      int

	// trackedVars holds the VarIDs whose member accesses should be recorded
	// into the current step function's AccessedMembers: the step's own
	// per-agent parameter and its `-> out` binding, plus any for-near loop
	// variable currently in scope.
	trackedVars map[ast.VarID]bool

	maxNearRadius float64
	sawNearRadius bool
}

// Result is everything the Analyzer computed about a Script.
type Result struct {
	Script      *ast.Script
	ExprTypes   map[ast.ExprID]types.Type
	Diagnostics diagnostics.List
	Funcs       *FuncTable

	// ParamOverrides holds every `-P name=value` override applied via
	// OverrideParam, keyed by const name, superseding that const's own
	// folded initializer value for any later consumer (flame/backend).
	ParamOverrides map[string]types.Value
}

// HasErrors reports whether analysis failed (spec invariant: compilation
// aborts only when the error count — not the hint count — is nonzero).
func (r *Result) HasErrors() bool { return r.Diagnostics.HasErrors() }

// OverrideParam validates and records a `-P name=value` override: name
// must refer to a const declared with `param`, and literal must parse and
// be promotable to that const's declared type (spec invariant: CLI `-P`
// values must parse and be promotable to the declared type).
func (r *Result) OverrideParam(name, literal string) error {
	var cd *ast.ConstDecl
	for _, c := range r.Script.Consts {
		if c.Name == name {
			cd = c
			break
		}
	}
	if cd == nil || !cd.IsParam {
		return fmt.Errorf("-P %s: no declared param constant named %q", name, name)
	}
	v, err := types.FromString(cd.ResolvedType.Kind, literal)
	if err != nil {
		return fmt.Errorf("-P %s: %w", name, err)
	}
	if !v.Type().IsPromotableTo(cd.ResolvedType) {
		return fmt.Errorf("-P %s: value %q is not promotable to %s", name, literal, cd.ResolvedType)
	}
	if r.ParamOverrides == nil {
		r.ParamOverrides = map[string]types.Value{}
	}
	r.ParamOverrides[name] = v
	return nil
}

// New creates an Analyzer that allocates VarIDs from ids.
func New(ids *session.IDSource) *Analyzer {
	return &Analyzer{
		ids:          ids,
		global:       NewGlobalScope(),
		funcs:        NewFuncTable(),
		agentsByName: map[string]*ast.AgentDecl{},
		exprTypes:    map[ast.ExprID]types.Type{},
		exprConsts:   map[ast.ExprID]types.Value{},
		trackedVars:  map[ast.VarID]bool{},
	}
}

func (a *Analyzer) errorAt(pos token.Position, format string, args ...any) {
	a.diags = append(a.diags, diagnostics.Diagnostic{
		Severity: diagnostics.Error,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// exprPos resolves id to its node's position, falling back to the zero
// Position for an invalid or dangling ID (inferExpr should never produce
// one, but errorAt call sites that do this lookup should not panic if it
// ever does).
func (a *Analyzer) exprPos(id ast.ExprID) token.Position {
	if e := a.scr.Expr(id); e != nil {
		return e.Pos()
	}
	return token.Position{}
}

func (a *Analyzer) hintAt(pos token.Position, format string, args ...any) {
	a.diags = append(a.diags, diagnostics.Diagnostic{
		Severity: diagnostics.Hint,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// Analyze runs every analysis phase over scr and returns the accumulated
// result. It never panics: every phase continues past individual errors so
// a single run surfaces as many diagnostics as possible, per spec.
func (a *Analyzer) Analyze(scr *ast.Script) *Result {
	a.scr = scr
	a.scope = a.global

	a.registerBuiltins()
	a.registerAgents()
	a.registerConsts()
	a.registerEnvironment()
	a.registerFunctionSignatures()

	for _, fd := range a.scr.Funcs {
		a.analyzeFunc(fd)
	}
	if a.scr.Main != nil {
		a.analyzeMain(a.scr.Main)
	}

	a.finalizeEnvironment()
	a.validateEnvironment()
	a.validateSimulateScheduling()

	return &Result{
		Script:      a.scr,
		ExprTypes:   a.exprTypes,
		Diagnostics: a.diags,
		Funcs:       a.funcs,
	}
}

func (a *Analyzer) registerAgents() {
	for _, ad := range a.scr.Agents {
		if _, exists := a.agentsByName[ad.Name]; exists {
			a.errorAt(ad.Pos(), "agent %q is declared more than once", ad.Name)
			continue
		}
		seen := map[string]bool{}
		positionCount := 0
		for _, m := range ad.Members {
			if seen[m.Name] {
				a.errorAt(ad.Pos(), "agent %q has a duplicate member %q", ad.Name, m.Name)
			}
			seen[m.Name] = true
			if m.IsPosition {
				positionCount++
				if m.Type.Kind != types.Vec2 && m.Type.Kind != types.Vec3 {
					a.errorAt(ad.Pos(), "position member %q of agent %q must be vec2 or vec3", m.Name, ad.Name)
				}
			}
		}
		if positionCount > 1 {
			a.errorAt(ad.Pos(), "agent %q declares more than one position member", ad.Name)
		}
		for _, m := range ad.Members {
			if m.Type.Kind == types.Invalid {
				a.errorAt(ad.Pos(), "member %q of agent %q has an unknown type; agent members must be bool, int, float, string, vec2, or vec3", m.Name, ad.Name)
			}
		}
		a.agentsByName[ad.Name] = ad
	}
	for _, ad := range a.scr.Agents {
		a.registerAgentBuiltins(ad)
	}
}
