package renderer

import (
	"github.com/tpalli/Vulkan/engine/math"
)

// Camera is a first-person camera. Position holds the view-space translation,
// so the world-space camera position is its negation. Rotation is Euler
// angles in degrees (pitch, yaw, roll).
//
// Set state through the methods so the view matrix is rebuilt only when it
// actually changed.
type Camera struct {
	Position      math.Vec3
	EulerRotation math.Vec3

	MovementSpeed float32
	RotationSpeed float32

	isDirty    bool
	viewMatrix math.Mat4
}

func NewCamera() *Camera {
	return &Camera{
		MovementSpeed: 4.0,
		RotationSpeed: 0.25,
		viewMatrix:    math.NewMat4Identity(),
	}
}

func (c *Camera) SetPosition(position math.Vec3) {
	c.Position = position
	c.isDirty = true
}

func (c *Camera) SetEulerRotation(rotation math.Vec3) {
	c.EulerRotation = rotation
	c.isDirty = true
}

// WorldPosition is the camera location in world space.
func (c *Camera) WorldPosition() math.Vec3 {
	return c.Position.Negated()
}

// GetView returns the view matrix, rebuilding it if position or rotation
// changed since the last call.
func (c *Camera) GetView() math.Mat4 {
	if c.isDirty {
		rotation := math.NewMat4EulerXYZ(
			math.DegToRad(c.EulerRotation.X),
			math.DegToRad(c.EulerRotation.Y),
			math.DegToRad(c.EulerRotation.Z))
		translation := math.NewMat4Translation(c.Position)
		c.viewMatrix = rotation.Mul(translation)
		c.isDirty = false
	}
	return c.viewMatrix
}

// front is the look direction derived from pitch and yaw.
func (c *Camera) front() math.Vec3 {
	pitch := math.DegToRad(c.EulerRotation.X)
	yaw := math.DegToRad(c.EulerRotation.Y)
	return math.NewVec3(
		-math.Cos(pitch)*math.Sin(yaw),
		math.Sin(pitch),
		math.Cos(pitch)*math.Cos(yaw),
	).Normalized()
}

func (c *Camera) MoveForward(deltaTime float32) {
	c.Position = c.Position.Add(c.front().MulScalar(c.MovementSpeed * deltaTime))
	c.isDirty = true
}

func (c *Camera) MoveBackward(deltaTime float32) {
	c.Position = c.Position.Sub(c.front().MulScalar(c.MovementSpeed * deltaTime))
	c.isDirty = true
}

func (c *Camera) MoveLeft(deltaTime float32) {
	right := c.front().Cross(math.NewVec3(0, 1, 0)).Normalized()
	c.Position = c.Position.Sub(right.MulScalar(c.MovementSpeed * deltaTime))
	c.isDirty = true
}

func (c *Camera) MoveRight(deltaTime float32) {
	right := c.front().Cross(math.NewVec3(0, 1, 0)).Normalized()
	c.Position = c.Position.Add(right.MulScalar(c.MovementSpeed * deltaTime))
	c.isDirty = true
}

// Rotate applies a mouse delta scaled by the rotation speed. Pitch is
// clamped short of straight up and down to avoid gimbal lock.
func (c *Camera) Rotate(deltaX, deltaY float32) {
	c.EulerRotation.X += deltaY * c.RotationSpeed
	c.EulerRotation.Y -= deltaX * c.RotationSpeed
	c.EulerRotation.X = math.Clamp(c.EulerRotation.X, -89.0, 89.0)
	c.isDirty = true
}
