package loaders

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToBytecode(t *testing.T) {
	raw := binary.LittleEndian.AppendUint32(nil, spirvMagic)
	raw = binary.LittleEndian.AppendUint32(raw, 0x00010000)
	raw = binary.LittleEndian.AppendUint32(raw, 42)

	words, err := BytesToBytecode(raw)
	require.NoError(t, err)
	assert.Equal(t, []uint32{spirvMagic, 0x00010000, 42}, words)
}

func TestBytesToBytecodeBadLength(t *testing.T) {
	_, err := BytesToBytecode([]byte{1, 2, 3})
	assert.ErrorContains(t, err, "multiple of 4")

	_, err = BytesToBytecode(nil)
	assert.Error(t, err)
}

func TestBytesToBytecodeBadMagic(t *testing.T) {
	raw := binary.LittleEndian.AppendUint32(nil, 0xDEADBEEF)
	_, err := BytesToBytecode(raw)
	assert.ErrorContains(t, err, "bad spir-v magic")
}
