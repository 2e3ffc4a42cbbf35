package assets

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpalli/Vulkan/engine/assets/loaders"
)

func TestDetermineAssetType(t *testing.T) {
	assert.Equal(t, ResourceTypeShader, determineAssetType("shaders/pbrtexture.vert.spv"))
	assert.Equal(t, ResourceTypeTexture, determineAssetType("textures/pbr/bricks_albedo_bc3.ktx"))
	assert.Equal(t, ResourceTypeImage, determineAssetType("fonts/font.png"))
	assert.Equal(t, ResourceTypeModel, determineAssetType("models/venus.obj"))
	assert.Equal(t, ResourceTypeFont, determineAssetType("fonts/font.fnt"))
	assert.Equal(t, ResourceTypeNone, determineAssetType("README.md"))
}

func TestLoadAssetShader(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "shaders"), 0o755))

	spv := binary.LittleEndian.AppendUint32(nil, 0x07230203)
	spv = binary.LittleEndian.AppendUint32(spv, 0x00010000)
	require.NoError(t, os.WriteFile(filepath.Join(root, "shaders", "test.spv"), spv, 0o644))

	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(root, false))

	res, err := am.LoadAsset("shaders/test.spv")
	require.NoError(t, err)

	assert.Equal(t, ResourceTypeShader, res.Type)
	assert.Equal(t, uint64(8), res.DataSize)
	data, ok := res.Data.(*loaders.ShaderData)
	require.True(t, ok)
	assert.Equal(t, []uint32{0x07230203, 0x00010000}, data.Bytecode)
}

func TestLoadAssetModel(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "models"), 0o755))

	obj := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "models", "tri.obj"), []byte(obj), 0o644))

	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(root, false))

	res, err := am.LoadAsset("models/tri.obj")
	require.NoError(t, err)

	mesh, ok := res.Data.(*loaders.MeshData)
	require.True(t, ok)
	assert.Len(t, mesh.Vertices, 3)
	assert.Len(t, mesh.Indices, 3)
}

func TestLoadAssetUnsupportedExtension(t *testing.T) {
	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(t.TempDir(), false))

	_, err = am.LoadAsset("notes.txt")
	assert.ErrorContains(t, err, "unsupported asset extension")
}

func TestLoadAssetMissingFile(t *testing.T) {
	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(t.TempDir(), false))

	_, err = am.LoadAsset("models/missing.obj")
	assert.Error(t, err)
}

func TestShutdownTwice(t *testing.T) {
	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(t.TempDir(), false))

	require.NoError(t, am.Shutdown())
	assert.Error(t, am.Shutdown())
}
