package math

import m "math"

const Pi float32 = m.Pi

func DegToRad(deg float32) float32 {
	return deg * (Pi / 180.0)
}

func RadToDeg(rad float32) float32 {
	return rad * (180.0 / Pi)
}

func Sin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func Cos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

func Tan(x float32) float32 {
	return float32(m.Tan(float64(x)))
}

func Sqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}

func Abs(x float32) float32 {
	return float32(m.Abs(float64(x)))
}

func NewMat4Identity() Mat4 {
	var out Mat4
	out.Data[0] = 1
	out.Data[5] = 1
	out.Data[10] = 1
	out.Data[15] = 1
	return out
}

// Mul returns matrix * other. Applied to a vector the right-hand matrix
// transforms first.
func (mat Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += mat.Data[k*4+row] * other.Data[col*4+k]
			}
			out.Data[col*4+row] = sum
		}
	}
	return out
}

// NewMat4Perspective builds a right-handed perspective projection with the
// Y axis flipped for Vulkan clip space. fovRadians is the vertical field of
// view.
func NewMat4Perspective(fovRadians, aspect, near, far float32) Mat4 {
	f := 1.0 / Tan(fovRadians*0.5)
	var out Mat4
	out.Data[0] = f / aspect
	out.Data[5] = -f
	out.Data[10] = far / (near - far)
	out.Data[11] = -1
	out.Data[14] = (near * far) / (near - far)
	return out
}

func NewMat4Translation(position Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[12] = position.X
	out.Data[13] = position.Y
	out.Data[14] = position.Z
	return out
}

func NewMat4Scale(scale Vec3) Mat4 {
	var out Mat4
	out.Data[0] = scale.X
	out.Data[5] = scale.Y
	out.Data[10] = scale.Z
	out.Data[15] = 1
	return out
}

func NewMat4RotationX(angleRadians float32) Mat4 {
	c, s := Cos(angleRadians), Sin(angleRadians)
	out := NewMat4Identity()
	out.Data[5] = c
	out.Data[6] = s
	out.Data[9] = -s
	out.Data[10] = c
	return out
}

func NewMat4RotationY(angleRadians float32) Mat4 {
	c, s := Cos(angleRadians), Sin(angleRadians)
	out := NewMat4Identity()
	out.Data[0] = c
	out.Data[2] = -s
	out.Data[8] = s
	out.Data[10] = c
	return out
}

func NewMat4RotationZ(angleRadians float32) Mat4 {
	c, s := Cos(angleRadians), Sin(angleRadians)
	out := NewMat4Identity()
	out.Data[0] = c
	out.Data[1] = s
	out.Data[4] = -s
	out.Data[5] = c
	return out
}

// NewMat4EulerXYZ composes the three axis rotations as Rx * Ry * Rz.
func NewMat4EulerXYZ(xRadians, yRadians, zRadians float32) Mat4 {
	rx := NewMat4RotationX(xRadians)
	ry := NewMat4RotationY(yRadians)
	rz := NewMat4RotationZ(zRadians)
	return rx.Mul(ry).Mul(rz)
}

func (mat Mat4) Transposed() Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out.Data[row*4+col] = mat.Data[col*4+row]
		}
	}
	return out
}

// WithoutTranslation zeroes the translation column. Used for skybox views
// that should rotate with the camera but never move.
func (mat Mat4) WithoutTranslation() Mat4 {
	out := mat
	out.Data[12] = 0
	out.Data[13] = 0
	out.Data[14] = 0
	return out
}

// Inverse returns the inverse of a general 4x4 matrix. Returns identity when
// the matrix is singular.
func (mat Mat4) Inverse() Mat4 {
	a := mat.Data

	b00 := a[0]*a[5] - a[1]*a[4]
	b01 := a[0]*a[6] - a[2]*a[4]
	b02 := a[0]*a[7] - a[3]*a[4]
	b03 := a[1]*a[6] - a[2]*a[5]
	b04 := a[1]*a[7] - a[3]*a[5]
	b05 := a[2]*a[7] - a[3]*a[6]
	b06 := a[8]*a[13] - a[9]*a[12]
	b07 := a[8]*a[14] - a[10]*a[12]
	b08 := a[8]*a[15] - a[11]*a[12]
	b09 := a[9]*a[14] - a[10]*a[13]
	b10 := a[9]*a[15] - a[11]*a[13]
	b11 := a[10]*a[15] - a[11]*a[14]

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if det == 0 {
		return NewMat4Identity()
	}
	invDet := 1.0 / det

	var out Mat4
	out.Data[0] = (a[5]*b11 - a[6]*b10 + a[7]*b09) * invDet
	out.Data[1] = (a[2]*b10 - a[1]*b11 - a[3]*b09) * invDet
	out.Data[2] = (a[13]*b05 - a[14]*b04 + a[15]*b03) * invDet
	out.Data[3] = (a[10]*b04 - a[9]*b05 - a[11]*b03) * invDet
	out.Data[4] = (a[6]*b08 - a[4]*b11 - a[7]*b07) * invDet
	out.Data[5] = (a[0]*b11 - a[2]*b08 + a[3]*b07) * invDet
	out.Data[6] = (a[14]*b02 - a[12]*b05 - a[15]*b01) * invDet
	out.Data[7] = (a[8]*b05 - a[10]*b02 + a[11]*b01) * invDet
	out.Data[8] = (a[4]*b10 - a[5]*b08 + a[7]*b06) * invDet
	out.Data[9] = (a[1]*b08 - a[0]*b10 - a[3]*b06) * invDet
	out.Data[10] = (a[12]*b04 - a[13]*b02 + a[15]*b00) * invDet
	out.Data[11] = (a[9]*b02 - a[8]*b04 - a[11]*b00) * invDet
	out.Data[12] = (a[5]*b07 - a[4]*b09 - a[6]*b06) * invDet
	out.Data[13] = (a[0]*b09 - a[1]*b07 + a[2]*b06) * invDet
	out.Data[14] = (a[13]*b01 - a[12]*b03 - a[14]*b00) * invDet
	out.Data[15] = (a[8]*b03 - a[9]*b01 + a[10]*b00) * invDet
	return out
}

// MulVec4 applies the matrix to a column vector.
func (mat Mat4) MulVec4(v Vec4) Vec4 {
	a := mat.Data
	return Vec4{
		X: a[0]*v.X + a[4]*v.Y + a[8]*v.Z + a[12]*v.W,
		Y: a[1]*v.X + a[5]*v.Y + a[9]*v.Z + a[13]*v.W,
		Z: a[2]*v.X + a[6]*v.Y + a[10]*v.Z + a[14]*v.W,
		W: a[3]*v.X + a[7]*v.Y + a[11]*v.Z + a[15]*v.W,
	}
}

// Forward returns the -Z basis vector of the matrix, normalized.
func (mat Mat4) Forward() Vec3 {
	return NewVec3(-mat.Data[2], -mat.Data[6], -mat.Data[10]).Normalized()
}

func (mat Mat4) Backward() Vec3 {
	return NewVec3(mat.Data[2], mat.Data[6], mat.Data[10]).Normalized()
}

func (mat Mat4) Left() Vec3 {
	return NewVec3(-mat.Data[0], -mat.Data[4], -mat.Data[8]).Normalized()
}

func (mat Mat4) Right() Vec3 {
	return NewVec3(mat.Data[0], mat.Data[4], mat.Data[8]).Normalized()
}

func (mat Mat4) Up() Vec3 {
	return NewVec3(mat.Data[1], mat.Data[5], mat.Data[9]).Normalized()
}
