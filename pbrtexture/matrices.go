package pbrtexture

import (
	"unsafe"

	"github.com/tpalli/Vulkan/engine/math"
)

// UBOMatrices is the per-object matrix block shared by the vertex and
// fragment stages. Copied into its mapped buffer as raw bytes, so the layout
// must stay in sync with the shader's uniform block.
type UBOMatrices struct {
	Projection math.Mat4
	Model      math.Mat4
	View       math.Mat4
	CamPos     math.Vec3
}

func (m *UBOMatrices) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(m)), unsafe.Sizeof(*m))
}
