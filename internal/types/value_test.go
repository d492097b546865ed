package types

import "testing"

func TestFromString(t *testing.T) {
	tests := []struct {
		kind    Kind
		literal string
		wantErr bool
	}{
		{Bool, "true", false},
		{Bool, "false", false},
		{Bool, "yes", true},
		{Int, "42", false},
		{Int, "3.14", true},
		{Float, "3.14", false},
		{Float, "42", false},
		{String, "anything goes", false},
		{Vec2, "1,2", false},
		{Vec2, "1,2,3", true},
		{Vec3, "1,2,3", false},
		{Vec3, "1,2", true},
	}
	for _, tt := range tests {
		v, err := FromString(tt.kind, tt.literal)
		if tt.wantErr {
			if err == nil {
				t.Errorf("FromString(%s, %q): expected an error, got %s", tt.kind, tt.literal, v)
			}
			continue
		}
		if err != nil {
			t.Errorf("FromString(%s, %q): unexpected error: %v", tt.kind, tt.literal, err)
			continue
		}
		if v.Kind != tt.kind {
			t.Errorf("FromString(%s, %q): got Kind %s", tt.kind, tt.literal, v.Kind)
		}
	}
}

func TestFromStringVectorValues(t *testing.T) {
	v, err := FromString(Vec3, "1, 2.5, -3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Vec3X != 1 || v.Vec3Y != 2.5 || v.Vec3Z != -3 {
		t.Errorf("unexpected vec3 components: %+v", v)
	}
}

func TestValueEqual(t *testing.T) {
	if !Vec3Value(1, 2, 3).Equal(Vec3Value(1, 2, 3)) {
		t.Error("identical vec3 values should be equal")
	}
	if Vec3Value(1, 2, 3).Equal(Vec2Value(1, 2)) {
		t.Error("values of different kinds must never be equal")
	}
	if Vec2Value(1, 2).Equal(Vec2Value(1, 3)) {
		t.Error("vec2 values with different y components should not be equal")
	}
}

func TestAsFloat(t *testing.T) {
	if f, ok := IntValue(5).AsFloat(); !ok || f != 5 {
		t.Errorf("AsFloat on an int value: got %v, %v", f, ok)
	}
	if f, ok := FloatValue(2.5).AsFloat(); !ok || f != 2.5 {
		t.Errorf("AsFloat on a float value: got %v, %v", f, ok)
	}
	if _, ok := BoolValue(true).AsFloat(); ok {
		t.Error("AsFloat should reject a bool value")
	}
}

func TestExtendToVec3(t *testing.T) {
	v2 := Vec2Value(1, 2)
	v3, ok := v2.ExtendToVec3()
	if !ok {
		t.Fatal("expected ExtendToVec3 to succeed on a vec2")
	}
	if v3.Vec3X != 1 || v3.Vec3Y != 2 || v3.Vec3Z != 0 {
		t.Errorf("unexpected extended vec3: %+v", v3)
	}
	if _, ok := FloatValue(1).ExtendToVec3(); ok {
		t.Error("ExtendToVec3 should fail for a non-vec2 value")
	}
}

func TestZeroValue(t *testing.T) {
	if v := ZeroValue(Int); v.IntVal != 0 {
		t.Errorf("ZeroValue(Int) = %+v", v)
	}
	if v := ZeroValue(Vec2); v.Vec2X != 0 || v.Vec2Y != 0 {
		t.Errorf("ZeroValue(Vec2) = %+v", v)
	}
}
