package loaders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpalli/Vulkan/engine/math"
)

const triangleOBJ = `
v 0.0 0.0 0.0
v 1.0 0.0 0.0
v 0.0 1.0 0.0
vt 0.0 0.0
vt 1.0 0.0
vt 0.0 1.0
vn 0.0 0.0 1.0
f 1/1/1 2/2/1 3/3/1
`

func TestParseOBJTriangle(t *testing.T) {
	mesh, err := ParseOBJ("triangle.obj", []byte(triangleOBJ))
	require.NoError(t, err)

	require.Len(t, mesh.Vertices, 3)
	require.Len(t, mesh.Indices, 3)

	assert.Equal(t, math.NewVec3(0, 0, 0), mesh.Vertices[0].Position)
	assert.Equal(t, math.NewVec3(1, 0, 0), mesh.Vertices[1].Position)
	assert.Equal(t, math.NewVec3(0, 1, 0), mesh.Vertices[2].Position)

	for _, v := range mesh.Vertices {
		assert.Equal(t, math.NewVec3(0, 0, 1), v.Normal)
	}
	assert.Equal(t, math.NewVec2(1, 0), mesh.Vertices[1].Texcoord)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
}

const positionOnlyOBJ = `
v 0.0 0.0 0.0
v 1.0 0.0 0.0
v 0.0 1.0 0.0
f 1 2 3
`

func TestParseOBJPositionOnly(t *testing.T) {
	mesh, err := ParseOBJ("flat.obj", []byte(positionOnlyOBJ))
	require.NoError(t, err)

	require.Len(t, mesh.Vertices, 3)
	// Missing attributes stay zeroed.
	assert.Equal(t, math.NewVec2(0, 0), mesh.Vertices[1].Texcoord)
	assert.Equal(t, math.NewVec3(0, 0, 0), mesh.Vertices[2].Normal)
}

func TestParseOBJGarbage(t *testing.T) {
	_, err := ParseOBJ("bad.obj", []byte("f 1/x/y 2 3"))
	assert.Error(t, err)
}
