package loaders

import (
	"encoding/binary"
	"testing"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildKTX assembles a minimal valid KTX 1.1 file. Each entry in mips is the
// per-face payload for that level, repeated for every face.
func buildKTX(internalFormat, width, height, faces uint32, mips [][]byte) []byte {
	out := make([]byte, 0, 256)
	out = append(out, ktxIdentifier...)

	header := []uint32{
		0x04030201,     // endianness
		0,              // glType (compressed)
		1,              // glTypeSize
		0,              // glFormat
		internalFormat, // glInternalFormat
		0,              // glBaseInternalFormat
		width,
		height,
		0, // pixelDepth
		0, // numberOfArrayElements
		faces,
		uint32(len(mips)),
		0, // bytesOfKeyValueData
	}
	for _, v := range header {
		out = binary.LittleEndian.AppendUint32(out, v)
	}

	for _, payload := range mips {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
		for f := uint32(0); f < faces; f++ {
			out = append(out, payload...)
			pad := (4 - (len(payload) % 4)) % 4
			out = append(out, make([]byte, pad)...)
		}
	}
	return out
}

func TestParseKTXSingleFace(t *testing.T) {
	mip0 := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	mip1 := []byte{9, 10}
	raw := buildKTX(glR8, 4, 2, 1, [][]byte{mip0, mip1})

	td, err := ParseKTX(raw)
	require.NoError(t, err)

	assert.Equal(t, uint32(4), td.Width)
	assert.Equal(t, uint32(2), td.Height)
	assert.Equal(t, uint32(2), td.MipLevels)
	assert.Equal(t, uint32(1), td.FaceCount)
	assert.False(t, td.IsCubemap())
	assert.Equal(t, vk.FormatR8Unorm, td.Format)

	require.Len(t, td.MipOffsets, 2)
	assert.Equal(t, uint64(0), td.MipOffsets[0])
	assert.Equal(t, uint64(8), td.MipOffsets[1])
	assert.Equal(t, append(append([]byte{}, mip0...), mip1...), td.Pixels)
}

func TestParseKTXCubemap(t *testing.T) {
	face := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	raw := buildKTX(glCompressedRGBADXT5, 2, 2, 6, [][]byte{face})

	td, err := ParseKTX(raw)
	require.NoError(t, err)

	assert.True(t, td.IsCubemap())
	assert.Equal(t, vk.FormatBc3UnormBlock, td.Format)
	// Six faces packed consecutively within the level.
	assert.Len(t, td.Pixels, 6*len(face))
	for f := 0; f < 6; f++ {
		assert.Equal(t, face, td.Pixels[f*4:(f+1)*4])
	}
}

func TestParseKTXPaddingStripped(t *testing.T) {
	// 3 byte payload forces 1 byte of padding per face.
	raw := buildKTX(glR8, 3, 1, 1, [][]byte{{7, 8, 9}})

	td, err := ParseKTX(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 8, 9}, td.Pixels)
}

func TestParseKTXBadIdentifier(t *testing.T) {
	raw := buildKTX(glR8, 1, 1, 1, [][]byte{{0}})
	raw[0] = 0x00

	_, err := ParseKTX(raw)
	assert.ErrorContains(t, err, "bad identifier")
}

func TestParseKTXTruncated(t *testing.T) {
	raw := buildKTX(glR8, 4, 4, 1, [][]byte{{1, 2, 3, 4}})

	_, err := ParseKTX(raw[:len(raw)-2])
	assert.ErrorContains(t, err, "truncated")
}

func TestParseKTXUnsupportedFormat(t *testing.T) {
	raw := buildKTX(0x1234, 1, 1, 1, [][]byte{{0}})

	_, err := ParseKTX(raw)
	assert.ErrorContains(t, err, "unsupported ktx internal format")
}

func TestParseKTXRejectsOddFaceCount(t *testing.T) {
	raw := buildKTX(glR8, 1, 1, 2, [][]byte{{0, 0}})

	_, err := ParseKTX(raw)
	assert.ErrorContains(t, err, "face count")
}
