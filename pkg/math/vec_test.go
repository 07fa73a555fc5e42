package math

import (
	"testing"
)

func TestVec2Ops(t *testing.T) {
	a, b := V2(3, 4), V2(-1, 2)
	tests := []struct {
		name string
		got  Vec2
		want Vec2
	}{
		{"add", a.Add(b), V2(2, 6)},
		{"sub", a.Sub(b), V2(4, 2)},
		{"scale", a.Scale(2), V2(6, 8)},
		{"perp", V2(0, 1).Perp(), V2(1, 0)},
		{"lerp", a.Lerp(b, 0.5), V2(1, 3)},
		{"normalize zero", Vec2{}.Normalize(), Vec2{}},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if got := a.Length(); got != 5 {
		t.Errorf("Length() = %v, want 5", got)
	}
	if got := a.Distance(V2(0, 0)); got != 5 {
		t.Errorf("Distance() = %v, want 5", got)
	}
	if l := a.Normalize().Length(); l < 0.999999 || l > 1.000001 {
		t.Errorf("Normalize().Length() = %v, want 1", l)
	}
}

func TestVec2Cross(t *testing.T) {
	// Positive when the second vector is counter-clockwise from the first.
	if got := V2(1, 0).Cross(V2(0, 1)); got != 1 {
		t.Errorf("Cross() = %v, want 1", got)
	}
	if got := V2(0, 1).Cross(V2(1, 0)); got != -1 {
		t.Errorf("Cross() = %v, want -1", got)
	}
	if got := V2(2, 4).Cross(V2(1, 2)); got != 0 {
		t.Errorf("Cross() of parallel vectors = %v, want 0", got)
	}
}

func TestVec3Ops(t *testing.T) {
	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"cross xy", UnitX.Cross(UnitY), UnitZ},
		{"cross yz", UnitY.Cross(UnitZ), UnitX},
		{"cross zx", UnitZ.Cross(UnitX), UnitY},
		{"negate", V3(1, -2, 3).Negate(), V3(-1, 2, -3)},
		{"normalize zero", Vec3{}.Normalize(), Vec3{}},
		{"lerp", Vec3{}.Lerp(V3(10, 20, 30), 0.5), V3(5, 10, 15)},
	}
	for _, tt := range tests {
		if !tt.got.ApproxEqual(tt.want, 1e-6) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	v := V3(1, 2, 3)
	if got := v.XY(); got != V2(1, 2) {
		t.Errorf("XY() = %v", got)
	}
	if got := v.XZ(); got != V2(1, 3) {
		t.Errorf("XZ() = %v", got)
	}
	if got := V3(2, 3, 6).Length(); got != 7 {
		t.Errorf("Length() = %v, want 7", got)
	}
}
