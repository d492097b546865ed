// Package types implements the closed type system and runtime value
// representation of the agent-based-modeling language: a small sum type
// (Type) used throughout parsing and analysis, and a tagged-union runtime
// value (Value) used for constant folding and CLI parameter injection.
//
// Both are ported from OpenABL's Type/Value (a C++ implementation using a
// discriminated struct and a union), restructured as idiomatic Go value
// types with an explicit Kind tag instead of RTTI/dynamic_cast.
package types

import "fmt"

// Kind discriminates the members of the Type sum.
type Kind int

const (
	Invalid Kind = iota
	Void
	Bool
	Int
	Float
	String
	Vec2
	Vec3
	Agent
	AgentType
	AgentMember
	Array
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	case Agent:
		return "agent"
	case AgentType:
		return "agent type"
	case AgentMember:
		return "agent member"
	case Array:
		return "array"
	}
	return "unknown"
}

// AgentDecl is the subset of an agent declaration that the type system
// needs to know about: its name and member list. The ast package supplies
// the concrete implementation; types only needs identity and member lookup,
// so it is expressed here as an interface to avoid an import cycle between
// ast and types (ast already imports types).
type AgentDecl interface {
	AgentName() string
	Member(name string) (AgentMemberInfo, bool)
	PositionMember() (AgentMemberInfo, bool)
}

// AgentMemberInfo describes one member of an agent declaration.
type AgentMemberInfo struct {
	Name       string
	Type       Type
	IsPosition bool
}

// Type is the closed sum type INVALID | VOID | BOOL | INT | FLOAT | STRING |
// VEC2 | VEC3 | AGENT{decl?} | AGENT_TYPE{decl} | AGENT_MEMBER{decl,member} |
// ARRAY{base}. It is a plain comparable value except where documented
// below (Agent/AgentType compare by declaration identity, not structurally).
type Type struct {
	Kind   Kind
	Agent  AgentDecl // set for Agent, AgentType, AgentMember
	Member string    // set for AgentMember
	Elem   *Type     // set for Array (boxed: Type must stay comparable with ==
	// for the simple kinds, so the recursive case is the only one needing a pointer)
}

func Simple(k Kind) Type { return Type{Kind: k} }

var (
	TInvalid = Simple(Invalid)
	TVoid    = Simple(Void)
	TBool    = Simple(Bool)
	TInt     = Simple(Int)
	TFloat   = Simple(Float)
	TString  = Simple(String)
	TVec2    = Simple(Vec2)
	TVec3    = Simple(Vec3)
)

// AgentOf returns the concrete AGENT{decl} type for decl, or the generic
// AGENT{None} type if decl is nil.
func AgentOf(decl AgentDecl) Type { return Type{Kind: Agent, Agent: decl} }

// AgentTypeOf returns the AGENT_TYPE{decl} type (the type of an agent's
// *type name* used as a value, e.g. as an argument to a reduction).
func AgentTypeOf(decl AgentDecl) Type { return Type{Kind: AgentType, Agent: decl} }

// AgentMemberOf returns the AGENT_MEMBER{decl,member} type.
func AgentMemberOf(decl AgentDecl, member string) Type {
	return Type{Kind: AgentMember, Agent: decl, Member: member}
}

// ArrayOf returns ARRAY{base}.
func ArrayOf(base Type) Type { return Type{Kind: Array, Elem: &base} }

// IsGenericAgent reports whether t is AGENT{None}, the wildcard that matches
// any concrete agent type in a function parameter position.
func (t Type) IsGenericAgent() bool { return t.Kind == Agent && t.Agent == nil }

// IsNumeric reports whether t is INT or FLOAT.
func (t Type) IsNumeric() bool { return t.Kind == Int || t.Kind == Float }

func (t Type) String() string {
	switch t.Kind {
	case Agent:
		if t.Agent == nil {
			return "agent"
		}
		return "agent " + t.Agent.AgentName()
	case AgentType:
		return "agent type " + t.Agent.AgentName()
	case AgentMember:
		return fmt.Sprintf("%s.%s", t.Agent.AgentName(), t.Member)
	case Array:
		return "array<" + t.Elem.String() + ">"
	default:
		return t.Kind.String()
	}
}

// Equal reports structural equality, except that Agent/AgentType compare by
// declaration identity (per OpenABL's Type::operator==: "two agent types
// are the same type only if they're literally the same declaration").
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Agent, AgentType:
		return t.Agent == o.Agent
	case AgentMember:
		return t.Agent == o.Agent && t.Member == o.Member
	case Array:
		return t.Elem.Equal(*o.Elem)
	default:
		return true
	}
}

// isCompatibleWith is the core compatibility check shared by
// IsCompatibleWith and IsPromotableTo (OpenABL's Type::isCompatibleWith,
// split into a public promoting and non-promoting entry point).
func (t Type) isCompatibleWith(o Type, allowPromotion bool) bool {
	if t.Equal(o) {
		return true
	}
	if allowPromotion && t.Kind == Float && o.Kind == Int {
		return true
	}
	switch t.Kind {
	case Agent:
		return o.Kind == Agent && (t.Agent == o.Agent || o.Agent == nil || t.Agent == nil)
	case Array:
		return o.Kind == Array && t.Elem.isCompatibleWith(*o.Elem, false)
	}
	return false
}

// IsCompatibleWith reports whether a value of type o may be used where t is
// expected, with no int-to-float promotion.
func (t Type) IsCompatibleWith(o Type) bool { return t.isCompatibleWith(o, false) }

// IsPromotableTo reports whether a value of type t may be used where o is
// expected, allowing int-to-float promotion.
func (t Type) IsPromotableTo(o Type) bool { return o.isCompatibleWith(t, true) }

// FromTypeName resolves a bare primitive type-name spelling (as written in
// source: "bool", "int", "float", "string", "vec2", "vec3", "void") to its
// Type. Any other name — an agent type name — resolves to TInvalid; callers
// that need agent types fill those in separately once agent declarations are
// known.
func FromTypeName(name string) Type {
	switch name {
	case "bool":
		return TBool
	case "int":
		return TInt
	case "float":
		return TFloat
	case "string":
		return TString
	case "vec2":
		return TVec2
	case "vec3":
		return TVec3
	case "void":
		return TVoid
	default:
		return TInvalid
	}
}

// Vec2Members lists the member names accessible on a VEC2 value.
func Vec2Members() []string { return []string{"x", "y"} }

// Vec3Members lists the member names accessible on a VEC3 value.
func Vec3Members() []string { return []string{"x", "y", "z"} }
