package semantic

import (
	"fmt"

	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/types"
)

// SigFlag restricts where a function signature may be referenced from —
// OpenABL's MAIN_ONLY/STEP_ONLY/SEQ_STEP_ONLY. registerFunctionSignatures sets
// StepOnly/SeqStepOnly on user step functions and checkCallContext enforces
// them; removeCurrent() and add() have no Signature and are checked in
// inferRemoveCurrentCall/inferAddCall instead.
type SigFlag int

const (
	FlagNone SigFlag = 0
	MainOnly SigFlag = 1 << iota
	StepOnly
	SeqStepOnly
)

func (f SigFlag) Has(o SigFlag) bool { return f&o != 0 }

// Signature is one overload of a named function.
type Signature struct {
	OrigName    string
	MangledName string
	ParamTypes  []types.Type
	ReturnType  types.Type
	Flags       SigFlag
	Decl        *ast.FuncDecl // nil for builtins

	// GetConcreteSignature, when set, substitutes AGENT{None} parameter
	// positions with the concrete agent type found in argTypes, for a
	// signature whose parameter list is generic over "any agent." No
	// signature registered by the analyzer sets it.
	GetConcreteSignature func(argTypes []types.Type) *Signature
}

// IsCompatibleWith reports whether argTypes may be passed to this
// signature, allowing int->float promotion per argument and AGENT{None}
// wildcard matching.
func (s *Signature) IsCompatibleWith(argTypes []types.Type) bool {
	if len(argTypes) != len(s.ParamTypes) {
		return false
	}
	for i, pt := range s.ParamTypes {
		if !argTypes[i].IsPromotableTo(pt) {
			return false
		}
	}
	return true
}

// IsConflictingWith reports whether a new overload with newParamTypes would
// conflict with s: same arity, and every differing parameter position
// differs only by numeric type (BOOL/INT/FLOAT). A difference in agent
// type or array-ness is enough to make two signatures coexist.
func (s *Signature) IsConflictingWith(newParamTypes []types.Type) bool {
	if len(s.ParamTypes) != len(newParamTypes) {
		return false
	}
	for i, pt := range s.ParamTypes {
		if pt.Equal(newParamTypes[i]) {
			continue
		}
		if !(isNumericLike(pt) && isNumericLike(newParamTypes[i])) {
			return false
		}
	}
	return true
}

func isNumericLike(t types.Type) bool {
	return t.Kind == types.Bool || t.Kind == types.Int || t.Kind == types.Float
}

// FuncGroup is every overload sharing one display name.
type FuncGroup struct {
	Name       string
	Signatures []*Signature
}

// FuncTable resolves calls by name and argument types.
type FuncTable struct {
	groups map[string]*FuncGroup
}

func NewFuncTable() *FuncTable {
	return &FuncTable{groups: map[string]*FuncGroup{}}
}

// Define adds sig to the table, assigning a unique MangledName and
// returning an error if it conflicts with an existing overload of the same
// name.
func (t *FuncTable) Define(sig *Signature) error {
	g, ok := t.groups[sig.OrigName]
	if !ok {
		g = &FuncGroup{Name: sig.OrigName}
		t.groups[sig.OrigName] = g
	}
	for _, existing := range g.Signatures {
		if existing.IsConflictingWith(sig.ParamTypes) {
			return fmt.Errorf("function %q redeclared with a conflicting signature", sig.OrigName)
		}
	}
	if len(g.Signatures) == 0 {
		sig.MangledName = sig.OrigName
	} else {
		sig.MangledName = fmt.Sprintf("%s_%d", sig.OrigName, len(g.Signatures))
	}
	g.Signatures = append(g.Signatures, sig)
	return nil
}

// Resolve returns the first overload of name compatible with argTypes, per
// OpenABL's FunctionList::getCompatibleSignature (first match, not best
// match — declaration order is significant).
func (t *FuncTable) Resolve(name string, argTypes []types.Type) (*Signature, bool) {
	g, ok := t.groups[name]
	if !ok {
		return nil, false
	}
	for _, sig := range g.Signatures {
		candidate := sig
		if candidate.IsCompatibleWith(argTypes) {
			if candidate.GetConcreteSignature != nil {
				if concrete := candidate.GetConcreteSignature(argTypes); concrete != nil {
					return concrete, true
				}
			}
			return candidate, true
		}
	}
	return nil, false
}

// Group returns the overload set for name, if any.
func (t *FuncTable) Group(name string) (*FuncGroup, bool) {
	g, ok := t.groups[name]
	return g, ok
}
