package loaders

import (
	"fmt"
	"os"

	"github.com/udhos/gwob"

	"github.com/tpalli/Vulkan/engine/math"
)

// MeshData is an indexed triangle mesh with interleaved vertex attributes.
type MeshData struct {
	Vertices []math.Vertex3D
	Indices  []uint32
}

// ModelLoader parses wavefront OBJ files. Meshes in other formats are
// converted to OBJ offline.
type ModelLoader struct{}

func (ml *ModelLoader) Load(path string) (interface{}, uint64, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	mesh, err := ParseOBJ(path, buf)
	if err != nil {
		return nil, 0, err
	}
	size := uint64(len(mesh.Vertices))*uint64(math.Vertex3DSize) + uint64(len(mesh.Indices))*4
	return mesh, size, nil
}

func ParseOBJ(name string, buf []byte) (*MeshData, error) {
	options := &gwob.ObjParserOptions{}
	obj, err := gwob.NewObjFromBuf(name, buf, options)
	if err != nil {
		return nil, fmt.Errorf("obj parse error: %w", err)
	}

	stride := obj.StrideSize / 4
	posOffset := obj.StrideOffsetPosition / 4
	texOffset := obj.StrideOffsetTexture / 4
	normOffset := obj.StrideOffsetNormal / 4

	vertexCount := len(obj.Coord) / stride
	mesh := &MeshData{
		Vertices: make([]math.Vertex3D, vertexCount),
		Indices:  make([]uint32, len(obj.Indices)),
	}

	for i := 0; i < vertexCount; i++ {
		base := i * stride
		v := &mesh.Vertices[i]
		v.Position = math.NewVec3(
			obj.Coord[base+posOffset],
			obj.Coord[base+posOffset+1],
			obj.Coord[base+posOffset+2])
		if obj.TextCoordFound {
			v.Texcoord = math.NewVec2(
				obj.Coord[base+texOffset],
				obj.Coord[base+texOffset+1])
		}
		if obj.NormCoordFound {
			v.Normal = math.NewVec3(
				obj.Coord[base+normOffset],
				obj.Coord[base+normOffset+1],
				obj.Coord[base+normOffset+2])
		}
	}
	for i, idx := range obj.Indices {
		mesh.Indices[i] = uint32(idx)
	}
	return mesh, nil
}
