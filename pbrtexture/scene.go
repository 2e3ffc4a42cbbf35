package pbrtexture

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/tpalli/Vulkan/engine/assets"
	"github.com/tpalli/Vulkan/engine/assets/loaders"
	"github.com/tpalli/Vulkan/engine/core"
	"github.com/tpalli/Vulkan/engine/math"
	"github.com/tpalli/Vulkan/engine/renderer/vulkan"
)

// objectScale is the uniform scale applied to the display meshes at load
// time. The statue mesh is authored much smaller than the others.
const (
	objectScale = 0.05
	statueScale = objectScale * 3.0
)

// Model is one uploaded mesh: device-local vertex and index buffers.
type Model struct {
	Name         string
	VertexBuffer *vulkan.VulkanBuffer
	IndexBuffer  *vulkan.VulkanBuffer
	IndexCount   uint32
}

// Scene holds the skybox and the three selectable display objects. Exactly
// one object is active at a time.
type Scene struct {
	Skybox      *Model
	Objects     []*Model
	ObjectIndex int
}

// sceneModelFiles lists the display meshes in selection order with their
// load scales.
var sceneModelFiles = []struct {
	File  string
	Scale float32
}{
	{"geosphere.obj", objectScale},
	{"roundedcube.obj", objectScale},
	{"venus.obj", statueScale},
}

// LoadScene reads all four meshes through the asset manager and uploads
// them to device-local buffers.
func LoadScene(am *assets.AssetManager, context *vulkan.VulkanContext) (*Scene, error) {
	scene := &Scene{}

	skybox, err := loadModel(am, context, "models/cube.obj", 1.0)
	if err != nil {
		return nil, err
	}
	scene.Skybox = skybox

	for _, entry := range sceneModelFiles {
		model, err := loadModel(am, context, "models/"+entry.File, entry.Scale)
		if err != nil {
			scene.Destroy(context)
			return nil, err
		}
		scene.Objects = append(scene.Objects, model)
	}
	return scene, nil
}

func loadModel(am *assets.AssetManager, context *vulkan.VulkanContext, relPath string, scale float32) (*Model, error) {
	res, err := am.LoadAsset(relPath)
	if err != nil {
		return nil, err
	}
	mesh, ok := res.Data.(*loaders.MeshData)
	if !ok {
		return nil, fmt.Errorf("%s is not a mesh asset", relPath)
	}
	if len(mesh.Indices) == 0 {
		return nil, fmt.Errorf("%s has no indices", relPath)
	}

	// Bake the load scale into the vertex positions.
	if scale != 1.0 {
		for i := range mesh.Vertices {
			mesh.Vertices[i].Position = mesh.Vertices[i].Position.MulScalar(scale)
		}
	}

	vertexBytes := unsafe.Slice((*byte)(unsafe.Pointer(&mesh.Vertices[0])), len(mesh.Vertices)*math.Vertex3DSize)
	vertexBuffer, err := vulkan.BufferCreateLocalWithData(context, vertexBytes, vk.BufferUsageVertexBufferBit)
	if err != nil {
		return nil, fmt.Errorf("failed to upload vertices for %s: %w", relPath, err)
	}

	indexBytes := unsafe.Slice((*byte)(unsafe.Pointer(&mesh.Indices[0])), len(mesh.Indices)*4)
	indexBuffer, err := vulkan.BufferCreateLocalWithData(context, indexBytes, vk.BufferUsageIndexBufferBit)
	if err != nil {
		vertexBuffer.Destroy(context)
		return nil, fmt.Errorf("failed to upload indices for %s: %w", relPath, err)
	}

	core.LogDebug("model %s: %d vertices, %d indices", relPath, len(mesh.Vertices), len(mesh.Indices))
	return &Model{
		Name:         relPath,
		VertexBuffer: vertexBuffer,
		IndexBuffer:  indexBuffer,
		IndexCount:   uint32(len(mesh.Indices)),
	}, nil
}

// ActiveObject is the currently selected display mesh.
func (s *Scene) ActiveObject() *Model {
	return s.Objects[s.ObjectIndex]
}

// CycleObject advances the selection, wrapping back to the first object.
func (s *Scene) CycleObject() int {
	s.ObjectIndex++
	if s.ObjectIndex >= len(s.Objects) {
		s.ObjectIndex = 0
	}
	return s.ObjectIndex
}

// ModelMatrix orients the active object. Every mesh is authored facing +X,
// the rounded cube additionally gets a 45 degree twist so a face looks at
// the camera.
func (s *Scene) ModelMatrix() math.Mat4 {
	angle := float32(-90.0)
	if s.ObjectIndex == 1 {
		angle += 45.0
	}
	return math.NewMat4RotationY(math.DegToRad(angle))
}

// DrawPositions are the three world positions the active object is drawn
// at, one per material.
func DrawPositions() [3]math.Vec3 {
	return [3]math.Vec3{
		math.NewVec3(0, 0, 0),
		math.NewVec3(0, 0, 2.5),
		math.NewVec3(0, 0, -2.5),
	}
}

func (s *Scene) Destroy(context *vulkan.VulkanContext) {
	if s.Skybox != nil {
		s.Skybox.destroy(context)
		s.Skybox = nil
	}
	for _, m := range s.Objects {
		m.destroy(context)
	}
	s.Objects = nil
}

func (m *Model) destroy(context *vulkan.VulkanContext) {
	if m.VertexBuffer != nil {
		m.VertexBuffer.Destroy(context)
		m.VertexBuffer = nil
	}
	if m.IndexBuffer != nil {
		m.IndexBuffer.Destroy(context)
		m.IndexBuffer = nil
	}
}
