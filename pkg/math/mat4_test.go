package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestTransformVec3(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformVec3(Vec3{1, 2, 3})

	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformVec3: got %v, want %v", got, want)
	}
}

func TestTransformVec3Scale(t *testing.T) {
	m := Scale(2, 2, 2)
	got := m.TransformVec3(Vec3{1, 2, 3})

	want := Vec3{2, 4, 6}
	if got != want {
		t.Errorf("TransformVec3 with scale: got %v, want %v", got, want)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformDirection(Vec3{0, 1, 0})
	if got != (Vec3{0, 1, 0}) {
		t.Errorf("TransformDirection: got %v, want (0, 1, 0)", got)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2)) // 90 degrees
	result := m.TransformVec3(Vec3{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if !result.ApproxEqual(Vec3{0, 0, -1}, 0.001) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestFromBasis(t *testing.T) {
	m := FromBasis(UnitY, UnitZ, UnitX, Vec3{1, 2, 3})

	if m.Column(0) != UnitY || m.Column(1) != UnitZ || m.Column(2) != UnitX {
		t.Errorf("FromBasis columns: got %v %v %v", m.Column(0), m.Column(1), m.Column(2))
	}
	got := m.TransformVec3(Vec3{1, 0, 0})
	if got != (Vec3{1, 3, 3}) {
		t.Errorf("FromBasis transform: got %v, want (1, 3, 3)", got)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(1, -2, 3).Mul(RotateAxis(Vec3{0, 1, 1}.Normalize(), 0.4)).Mul(Scale(2, 3, 0.5))
	got := m.Mul(m.Inverse())

	if !got.ApproxEqual(Identity(), 1e-4) {
		t.Errorf("M * M^-1 should be identity, got %v", got)
	}
}

func TestDeterminant(t *testing.T) {
	m := Scale(2, 3, 4)
	if d := m.Determinant(); math.Abs(float64(d-24)) > 1e-4 {
		t.Errorf("Determinant() = %v, want 24", d)
	}
	if d := RotateZ(1.1).Determinant(); math.Abs(float64(d-1)) > 1e-4 {
		t.Errorf("rotation Determinant() = %v, want 1", d)
	}
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	// A 45 degree plane stretched along X: the normal must tilt towards Y.
	m := Translate(5, 5, 5).Mul(Scale(2, 1, 1))
	n := m.NormalMatrix()

	if n[12] != 0 || n[13] != 0 || n[14] != 0 {
		t.Errorf("NormalMatrix should drop translation, got (%f, %f, %f)", n[12], n[13], n[14])
	}

	normal := Vec3{1, 1, 0}.Normalize()
	got := n.TransformDirection(normal).Normalize()

	// Surface tangent (1,-1,0) becomes (2,-1,0); the normal must stay perpendicular.
	tangent := m.TransformDirection(Vec3{1, -1, 0})
	if dot := got.Dot(tangent); math.Abs(float64(dot)) > 1e-5 {
		t.Errorf("transformed normal not perpendicular to transformed tangent: dot = %v", dot)
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(1, 2, 3)
	tr := m.Transpose()
	if tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("Transpose: got %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("Transpose twice should give the original matrix")
	}
}
