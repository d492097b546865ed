package semantic

import (
	"fmt"

	"github.com/cwbudde/ablc/internal/ast"
	"github.com/cwbudde/ablc/internal/types"
)

// ScopeEntry is one declared name visible in a Scope.
type ScopeEntry struct {
	ID       ast.VarID
	Name     string
	Type     types.Type
	IsConst  bool
	Value    types.Value // valid only when IsConst and the initializer folded
	HasValue bool
}

// Scope is one lexical scope: a flat, append-only map of entries keyed by
// VarID plus a name index for lookup, chained to its enclosing scope. This
// follows the same map-plus-outer-pointer shape as the symbol table this
// project is grounded on, keyed by VarID instead of by name so that two
// different declarations that happen to share a (shadowed) name never
// collide in the entries map itself.
type Scope struct {
	outer    *Scope
	isGlobal bool
	entries  map[ast.VarID]*ScopeEntry
	byName   map[string]ast.VarID
}

// NewGlobalScope creates the outermost scope.
func NewGlobalScope() *Scope {
	return &Scope{isGlobal: true, entries: map[ast.VarID]*ScopeEntry{}, byName: map[string]ast.VarID{}}
}

// NewChildScope creates a scope nested inside outer.
func NewChildScope(outer *Scope) *Scope {
	return &Scope{outer: outer, entries: map[ast.VarID]*ScopeEntry{}, byName: map[string]ast.VarID{}}
}

// Define declares name in s. Redeclaring a name already visible in s is
// always an error. Redeclaring a name visible in an enclosing scope is an
// error UNLESS that enclosing declaration lives in the global scope and s
// itself is not global — i.e. a local may shadow a global, but a nested
// scope may never shadow an enclosing non-global scope (a loop variable
// cannot be redeclared by an inner block, for instance).
func (s *Scope) Define(id ast.VarID, name string, typ types.Type, isConst bool) (*ScopeEntry, error) {
	if _, exists := s.byName[name]; exists {
		return nil, fmt.Errorf("%q is already declared in this scope", name)
	}
	if outerEntry, outerScope, ok := s.resolveWithScope(name); ok && !(outerScope.isGlobal && !s.isGlobal) {
		_ = outerEntry
		return nil, fmt.Errorf("%q shadows a declaration that is not allowed to be shadowed", name)
	}
	entry := &ScopeEntry{ID: id, Name: name, Type: typ, IsConst: isConst}
	s.entries[id] = entry
	s.byName[name] = id
	return entry, nil
}

// Resolve looks up name in s and its enclosing scopes.
func (s *Scope) Resolve(name string) (*ScopeEntry, bool) {
	entry, _, ok := s.resolveWithScope(name)
	return entry, ok
}

func (s *Scope) resolveWithScope(name string) (*ScopeEntry, *Scope, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if id, ok := sc.byName[name]; ok {
			return sc.entries[id], sc, true
		}
	}
	return nil, nil, false
}

// IsDeclaredHere reports whether name is declared directly in s (not in an
// enclosing scope).
func (s *Scope) IsDeclaredHere(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// IsGlobal reports whether s is the outermost scope.
func (s *Scope) IsGlobal() bool { return s.isGlobal }
