// Package session owns the state a single compilation run needs that must
// not leak between independent compilations: the monotonically increasing
// variable-id source, and (via Run, in the session package's companion
// files) the orchestration of lex -> parse -> analyze -> flame -> backend.
//
// The C++ implementation this is ported from keeps its VarId counter as a
// hidden static, so two compilations in the same process address space
// would collide. Making the counter an explicit value owned by the caller
// is the fix.
package session

import "github.com/cwbudde/ablc/internal/ast"

// IDSource hands out unique ast.VarID values for one compilation.
type IDSource struct {
	next int
}

// NewIDSource returns an IDSource starting after the reserved zero value.
func NewIDSource() *IDSource {
	return &IDSource{next: 1}
}

// Next returns a fresh VarID, unique within this IDSource's lifetime.
func (s *IDSource) Next() ast.VarID {
	id := ast.VarID(s.next)
	s.next++
	return id
}
