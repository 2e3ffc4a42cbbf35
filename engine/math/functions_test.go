package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol = 1e-5

func assertMat4Equal(t *testing.T, expected, actual Mat4) {
	t.Helper()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, expected.Data[i], actual.Data[i], tol, "element %d", i)
	}
}

func assertVec3Equal(t *testing.T, expected, actual Vec3) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, tol)
	assert.InDelta(t, expected.Y, actual.Y, tol)
	assert.InDelta(t, expected.Z, actual.Z, tol)
}

func TestMulIdentity(t *testing.T) {
	m := NewMat4Translation(NewVec3(1, 2, 3)).Mul(NewMat4RotationY(DegToRad(30)))
	assertMat4Equal(t, m, m.Mul(NewMat4Identity()))
	assertMat4Equal(t, m, NewMat4Identity().Mul(m))
}

func TestMulAppliesRightOperandFirst(t *testing.T) {
	translate := NewMat4Translation(NewVec3(1, 0, 0))
	rotate := NewMat4RotationY(DegToRad(90))

	// rotate.Mul(translate) translates first, then rotates. The translated
	// point (2, 0, 0) lands on the -z axis.
	p := rotate.Mul(translate).MulVec4(NewVec4(1, 0, 0, 1))
	assert.InDelta(t, 0.0, p.X, tol)
	assert.InDelta(t, 0.0, p.Y, tol)
	assert.InDelta(t, -2.0, p.Z, tol)
}

func TestRotationY(t *testing.T) {
	r := NewMat4RotationY(DegToRad(90))
	v := r.MulVec4(NewVec4(1, 0, 0, 0))
	assert.InDelta(t, 0.0, v.X, tol)
	assert.InDelta(t, -1.0, v.Z, tol)
}

func TestInverseRoundtrip(t *testing.T) {
	m := NewMat4Translation(NewVec3(4, -2, 7)).
		Mul(NewMat4RotationX(DegToRad(25))).
		Mul(NewMat4RotationY(DegToRad(-60))).
		Mul(NewMat4Scale(NewVec3(2, 2, 2)))

	assertMat4Equal(t, NewMat4Identity(), m.Mul(m.Inverse()))
	assertMat4Equal(t, NewMat4Identity(), m.Inverse().Mul(m))
}

func TestTransposedInvolution(t *testing.T) {
	m := NewMat4EulerXYZ(0.3, -1.1, 2.0)
	assertMat4Equal(t, m, m.Transposed().Transposed())
}

func TestWithoutTranslation(t *testing.T) {
	m := NewMat4Translation(NewVec3(5, 6, 7)).Mul(NewMat4RotationZ(DegToRad(45)))
	stripped := m.WithoutTranslation()

	assert.Equal(t, float32(0), stripped.Data[12])
	assert.Equal(t, float32(0), stripped.Data[13])
	assert.Equal(t, float32(0), stripped.Data[14])

	// The rotation part is untouched.
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			assert.Equal(t, m.Data[col*4+row], stripped.Data[col*4+row])
		}
	}
}

func TestPerspectiveFlipsY(t *testing.T) {
	p := NewMat4Perspective(DegToRad(60), 16.0/9.0, 0.1, 256)

	// Vulkan clip space points y down.
	assert.Less(t, p.Data[5], float32(0))
	assert.Greater(t, p.Data[0], float32(0))
	// W receives -z.
	assert.Equal(t, float32(-1), p.Data[11])
}

func TestDirectionExtractors(t *testing.T) {
	id := NewMat4Identity()
	assertVec3Equal(t, NewVec3(0, 0, -1), id.Forward())
	assertVec3Equal(t, NewVec3(0, 0, 1), id.Backward())
	assertVec3Equal(t, NewVec3(-1, 0, 0), id.Left())
	assertVec3Equal(t, NewVec3(1, 0, 0), id.Right())
	assertVec3Equal(t, NewVec3(0, 1, 0), id.Up())
}

func TestVec3Ops(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(-4, 0, 2)

	assert.Equal(t, NewVec3(-3, 2, 5), a.Add(b))
	assert.Equal(t, NewVec3(5, 2, 1), a.Sub(b))
	assert.Equal(t, float32(2), a.Dot(b))
	assertVec3Equal(t, NewVec3(0, 0, 1), NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)))
	assert.InDelta(t, 1.0, a.Normalized().Length(), tol)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(0.05), Clamp(float32(0.01), 0.05, 1.0))
	assert.Equal(t, float32(1.0), Clamp(float32(1.2), 0.05, 1.0))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), 0.05, 1.0))
	assert.Equal(t, 7, Clamp(7, 0, 10))
}
