package pbrtexture

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialCatalog(t *testing.T) {
	catalog := MaterialCatalog()
	require.Len(t, catalog, 3)

	assert.Equal(t, "plastic", catalog[0].Name)
	assert.Equal(t, "metal", catalog[1].Name)
	assert.Equal(t, "stone", catalog[2].Name)

	for _, spec := range catalog {
		files := spec.TextureFiles()
		require.Len(t, files, 5, spec.Name)
		for _, f := range files {
			assert.True(t, strings.HasSuffix(f, ".ktx"), "%s: %s", spec.Name, f)
		}
	}
}

func TestMaterialCatalogDummies(t *testing.T) {
	catalog := MaterialCatalog()

	// Metal has no ambient occlusion map, stone no metallic map.
	assert.Equal(t, "_dummy_ao_r8.ktx", catalog[1].AO)
	assert.Equal(t, "_dummy_metallic_r8.ktx", catalog[2].Metallic)
}

func TestMaterialTextureCount(t *testing.T) {
	m := &Material{}
	assert.Equal(t, 0, m.TextureCount())

	// A descriptor set can only be built for a fully loaded material.
	assert.Len(t, m.Textures(), 5)
}
