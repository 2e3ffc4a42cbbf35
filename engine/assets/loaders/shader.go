package loaders

import (
	"encoding/binary"
	"fmt"
	"os"
)

// ShaderData holds SPIR-V bytecode in the 32-bit word form Vulkan consumes.
type ShaderData struct {
	Bytecode []uint32
}

// ShaderLoader reads precompiled SPIR-V binaries.
type ShaderLoader struct{}

const spirvMagic = 0x07230203

func (sl *ShaderLoader) Load(path string) (interface{}, uint64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	bytecode, err := BytesToBytecode(raw)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return &ShaderData{Bytecode: bytecode}, uint64(len(raw)), nil
}

// BytesToBytecode reinterprets a SPIR-V binary as 32-bit words, checking the
// magic number to catch files that are not actually compiled shaders.
func BytesToBytecode(raw []byte) ([]uint32, error) {
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil, fmt.Errorf("spir-v binary length %d is not a multiple of 4", len(raw))
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("bad spir-v magic 0x%08x", words[0])
	}
	return words, nil
}
