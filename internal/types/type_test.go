package types

import "testing"

type fakeAgent struct{ name string }

func (f *fakeAgent) AgentName() string { return f.name }
func (f *fakeAgent) Member(name string) (AgentMemberInfo, bool) {
	if name == "pos" {
		return AgentMemberInfo{Name: "pos", Type: TVec2, IsPosition: true}, true
	}
	return AgentMemberInfo{}, false
}
func (f *fakeAgent) PositionMember() (AgentMemberInfo, bool) {
	return f.Member("pos")
}

func TestIsPromotableTo(t *testing.T) {
	tests := []struct {
		name string
		from Type
		to   Type
		want bool
	}{
		{"int to float promotes", TInt, TFloat, true},
		{"float to int does not promote", TFloat, TInt, false},
		{"same type is trivially promotable", TBool, TBool, true},
		{"bool to int is invalid", TBool, TInt, false},
		{"string to float is invalid", TString, TFloat, false},
		{"vec2 to vec3 is invalid", TVec2, TVec3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.IsPromotableTo(tt.to); got != tt.want {
				t.Errorf("IsPromotableTo(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestAgentIdentityEquality(t *testing.T) {
	boid := &fakeAgent{name: "Boid"}
	predator := &fakeAgent{name: "Predator"}

	a1 := AgentOf(boid)
	a2 := AgentOf(boid)
	a3 := AgentOf(predator)
	generic := AgentOf(nil)

	if !a1.Equal(a2) {
		t.Error("two Agent types referencing the same declaration should be equal")
	}
	if a1.Equal(a3) {
		t.Error("Agent types referencing different declarations should not be equal")
	}
	if a1.Equal(generic) {
		t.Error("a concrete agent type should not equal the generic agent type under Equal")
	}
}

func TestGenericAgentIsPromotableFromAnyConcreteAgent(t *testing.T) {
	boid := &fakeAgent{name: "Boid"}
	concrete := AgentOf(boid)
	generic := AgentOf(nil)

	if !concrete.IsPromotableTo(generic) {
		t.Error("a concrete agent type should be compatible with the generic Agent{None} parameter type")
	}
	if !generic.IsGenericAgent() {
		t.Error("AgentOf(nil) should report itself as the generic agent wildcard")
	}
	if concrete.IsGenericAgent() {
		t.Error("a concrete agent type must not report itself as generic")
	}
}

func TestArrayElementCompatibilityDoesNotPromote(t *testing.T) {
	ints := ArrayOf(TInt)
	floats := ArrayOf(TFloat)

	if ints.IsPromotableTo(floats) {
		t.Error("array element types must compare without promotion, per spec")
	}
	if !ints.Equal(ArrayOf(TInt)) {
		t.Error("two arrays of the same element type should be structurally equal")
	}
}

func TestFromTypeName(t *testing.T) {
	tests := map[string]Type{
		"bool":   TBool,
		"int":    TInt,
		"float":  TFloat,
		"string": TString,
		"vec2":   TVec2,
		"vec3":   TVec3,
		"void":   TVoid,
	}
	for name, want := range tests {
		if got := FromTypeName(name); !got.Equal(want) {
			t.Errorf("FromTypeName(%q) = %s, want %s", name, got, want)
		}
	}
	if got := FromTypeName("Boid"); got.Kind != Invalid {
		t.Errorf("FromTypeName of an agent type name should be Invalid, got %s", got)
	}
}

func TestTypeString(t *testing.T) {
	boid := &fakeAgent{name: "Boid"}
	tests := []struct {
		t    Type
		want string
	}{
		{TInt, "int"},
		{AgentOf(nil), "agent"},
		{AgentOf(boid), "agent Boid"},
		{AgentTypeOf(boid), "agent type Boid"},
		{AgentMemberOf(boid, "speed"), "Boid.speed"},
		{ArrayOf(TFloat), "array<float>"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
