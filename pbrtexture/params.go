package pbrtexture

import (
	"unsafe"

	"github.com/tpalli/Vulkan/engine/math"
)

// ShaderParams is the shared fragment shader parameter block. The field
// order and types mirror the std140 uniform block in pbrtexture.frag, the
// whole struct is copied into the mapped buffer as raw bytes.
type ShaderParams struct {
	Lights    [4]math.Vec4
	Roughness float32
	Metallic  float32
}

const (
	roughnessMin = 0.05
	roughnessMax = 1.0
	metallicMin  = 0.0
	metallicMax  = 1.0

	// Base distance of the four fixed lights.
	lightDistance = 15.0
)

func NewShaderParams() *ShaderParams {
	p := &ShaderParams{
		Roughness: 1.0,
		Metallic:  1.0,
	}
	p.UpdateLights(0, true)
	return p
}

// UpdateLights places the four lights at their fixed base positions and,
// when unpaused, swings the first two around the scene. The positions are a
// pure function of the timer, so a paused scene always shows the same fixed
// configuration.
func (p *ShaderParams) UpdateLights(timer float32, paused bool) {
	const d = lightDistance
	p.Lights[0] = math.NewVec4(-d, -d*0.5, -d, 1.0)
	p.Lights[1] = math.NewVec4(-d, -d*0.5, d, 1.0)
	p.Lights[2] = math.NewVec4(d, -d*0.5, d, 1.0)
	p.Lights[3] = math.NewVec4(d, -d*0.5, -d, 1.0)

	if !paused {
		angle := math.DegToRad(timer * 360.0)
		p.Lights[0].X = math.Sin(angle) * 20.0
		p.Lights[0].Z = math.Cos(angle) * 20.0
		p.Lights[1].X = math.Cos(angle) * 20.0
		p.Lights[1].Y = math.Sin(angle) * 20.0
	}
}

// AdjustRoughness shifts the global roughness factor, clamped so the BRDF
// never receives a fully smooth surface.
func (p *ShaderParams) AdjustRoughness(delta float32) {
	p.Roughness = math.Clamp(p.Roughness+delta, float32(roughnessMin), float32(roughnessMax))
}

// AdjustMetallic shifts the global metallic factor within [0, 1].
func (p *ShaderParams) AdjustMetallic(delta float32) {
	p.Metallic = math.Clamp(p.Metallic+delta, float32(metallicMin), float32(metallicMax))
}

// Bytes exposes the block for the raw copy into the mapped uniform buffer.
func (p *ShaderParams) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), unsafe.Sizeof(*p))
}
