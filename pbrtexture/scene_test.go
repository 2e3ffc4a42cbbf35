package pbrtexture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tpalli/Vulkan/engine/math"
)

func testScene() *Scene {
	return &Scene{Objects: []*Model{{Name: "geosphere"}, {Name: "roundedcube"}, {Name: "venus"}}}
}

func TestCycleObjectWraps(t *testing.T) {
	s := testScene()

	assert.Equal(t, "geosphere", s.ActiveObject().Name)
	assert.Equal(t, 1, s.CycleObject())
	assert.Equal(t, "roundedcube", s.ActiveObject().Name)
	assert.Equal(t, 2, s.CycleObject())
	assert.Equal(t, 0, s.CycleObject())
	assert.Equal(t, "geosphere", s.ActiveObject().Name)
}

func TestCycleObjectFullLoopReturnsToStart(t *testing.T) {
	s := testScene()
	for i := 0; i < len(s.Objects); i++ {
		s.CycleObject()
	}
	assert.Equal(t, 0, s.ObjectIndex)
}

func TestModelMatrixRotationOnly(t *testing.T) {
	s := testScene()

	// Every object turns -90 degrees around Y, the rounded cube an extra 45.
	base := math.NewMat4RotationY(math.DegToRad(-90.0))
	assert.Equal(t, base, s.ModelMatrix())

	s.CycleObject()
	turned := math.NewMat4RotationY(math.DegToRad(-45.0))
	assert.Equal(t, turned, s.ModelMatrix())

	s.CycleObject()
	assert.Equal(t, base, s.ModelMatrix())
}

func TestDrawPositions(t *testing.T) {
	positions := DrawPositions()

	assert.Equal(t, math.NewVec3(0, 0, 0), positions[0])
	assert.Equal(t, math.NewVec3(0, 0, 2.5), positions[1])
	assert.Equal(t, math.NewVec3(0, 0, -2.5), positions[2])
}
