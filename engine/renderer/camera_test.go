package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tpalli/Vulkan/engine/math"
)

func TestCameraViewComposition(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(4.0, 2.5, -0.4))
	c.SetEulerRotation(math.NewVec3(-32.0, 85.0, 0.0))

	expected := math.NewMat4EulerXYZ(
		math.DegToRad(-32.0), math.DegToRad(85.0), 0,
	).Mul(math.NewMat4Translation(math.NewVec3(4.0, 2.5, -0.4)))

	assert.Equal(t, expected, c.GetView())
}

func TestCameraViewCached(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(1, 2, 3))

	first := c.GetView()
	assert.Equal(t, first, c.GetView())

	c.MoveForward(0.5)
	assert.NotEqual(t, first, c.GetView())
}

func TestCameraWorldPosition(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(4.0, 2.5, -0.4))
	assert.Equal(t, math.NewVec3(-4.0, -2.5, 0.4), c.WorldPosition())
}

func TestCameraRotateClampsPitch(t *testing.T) {
	c := NewCamera()
	c.Rotate(0, 10000)
	assert.Equal(t, float32(89), c.EulerRotation.X)

	c.Rotate(0, -100000)
	assert.Equal(t, float32(-89), c.EulerRotation.X)
}

func TestCameraRotateYawDirection(t *testing.T) {
	c := NewCamera()
	c.Rotate(100, 0)
	// Dragging right turns the view right, yaw decreases.
	assert.Equal(t, float32(-25), c.EulerRotation.Y)
}

func TestCameraMoveSymmetric(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math.NewVec3(1, 2, 3))
	c.SetEulerRotation(math.NewVec3(10, 40, 0))

	c.MoveForward(0.25)
	c.MoveBackward(0.25)
	assert.InDelta(t, 1.0, c.Position.X, 1e-5)
	assert.InDelta(t, 2.0, c.Position.Y, 1e-5)
	assert.InDelta(t, 3.0, c.Position.Z, 1e-5)

	c.MoveLeft(0.5)
	c.MoveRight(0.5)
	assert.InDelta(t, 1.0, c.Position.X, 1e-5)
	assert.InDelta(t, 3.0, c.Position.Z, 1e-5)
}
