package pbrtexture

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/tpalli/Vulkan/engine/math"
)

func TestNewShaderParamsDefaults(t *testing.T) {
	p := NewShaderParams()

	assert.Equal(t, float32(1.0), p.Roughness)
	assert.Equal(t, float32(1.0), p.Metallic)

	// Lights start at the fixed base configuration.
	assert.Equal(t, math.NewVec4(-15, -7.5, -15, 1), p.Lights[0])
	assert.Equal(t, math.NewVec4(-15, -7.5, 15, 1), p.Lights[1])
	assert.Equal(t, math.NewVec4(15, -7.5, 15, 1), p.Lights[2])
	assert.Equal(t, math.NewVec4(15, -7.5, -15, 1), p.Lights[3])
}

func TestAdjustRoughnessClamps(t *testing.T) {
	p := NewShaderParams()

	for i := 0; i < 200; i++ {
		p.AdjustRoughness(-0.01)
	}
	assert.Equal(t, float32(0.05), p.Roughness)

	for i := 0; i < 200; i++ {
		p.AdjustRoughness(0.01)
	}
	assert.Equal(t, float32(1.0), p.Roughness)
}

func TestAdjustMetallicClamps(t *testing.T) {
	p := NewShaderParams()

	for i := 0; i < 200; i++ {
		p.AdjustMetallic(-0.01)
	}
	assert.Equal(t, float32(0.0), p.Metallic)

	for i := 0; i < 200; i++ {
		p.AdjustMetallic(0.01)
	}
	assert.Equal(t, float32(1.0), p.Metallic)
}

func TestUpdateLightsDeterministic(t *testing.T) {
	a := NewShaderParams()
	b := NewShaderParams()

	a.UpdateLights(0.37, false)
	b.UpdateLights(0.37, false)
	assert.Equal(t, a.Lights, b.Lights)

	// Lights 2 and 3 never animate.
	assert.Equal(t, math.NewVec4(15, -7.5, 15, 1), a.Lights[2])
	assert.Equal(t, math.NewVec4(15, -7.5, -15, 1), a.Lights[3])
}

func TestUpdateLightsPausedRestoresBase(t *testing.T) {
	p := NewShaderParams()

	p.UpdateLights(0.42, false)
	assert.NotEqual(t, math.NewVec4(-15, -7.5, -15, 1), p.Lights[0])

	p.UpdateLights(0.42, true)
	assert.Equal(t, math.NewVec4(-15, -7.5, -15, 1), p.Lights[0])
	assert.Equal(t, math.NewVec4(-15, -7.5, 15, 1), p.Lights[1])
}

func TestUpdateLightsAnimatedRadius(t *testing.T) {
	p := NewShaderParams()
	p.UpdateLights(0.25, false)

	// At a quarter turn the first light sits on the x axis at radius 20.
	assert.InDelta(t, 20.0, p.Lights[0].X, 1e-4)
	assert.InDelta(t, 0.0, p.Lights[0].Z, 1e-4)
	assert.InDelta(t, 0.0, p.Lights[1].X, 1e-4)
	assert.InDelta(t, 20.0, p.Lights[1].Y, 1e-4)
}

func TestUniformBlockSizes(t *testing.T) {
	// The byte layouts must match the std140 blocks in the shaders.
	assert.Equal(t, uintptr(72), unsafe.Sizeof(ShaderParams{}))
	assert.Equal(t, uintptr(204), unsafe.Sizeof(UBOMatrices{}))

	p := NewShaderParams()
	assert.Len(t, p.Bytes(), 72)

	m := UBOMatrices{}
	assert.Len(t, m.Bytes(), 204)
}
