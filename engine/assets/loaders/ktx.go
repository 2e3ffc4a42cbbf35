package loaders

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	vk "github.com/goki/vulkan"
)

// TextureData is a fully parsed KTX container: every mip level of every
// face, tightly packed, with per-level offsets into Pixels. Faces of a
// cubemap are consecutive within a level.
type TextureData struct {
	Width      uint32
	Height     uint32
	MipLevels  uint32
	FaceCount  uint32
	Format     vk.Format
	Pixels     []byte
	MipOffsets []uint64
}

func (td *TextureData) IsCubemap() bool {
	return td.FaceCount == 6
}

// TextureLoader reads KTX 1.1 texture containers.
type TextureLoader struct{}

var ktxIdentifier = []byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x31, 0x31, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}

const (
	ktxEndianNative  = 0x04030201
	ktxEndianForeign = 0x01020304
)

// Subset of the OpenGL internal format enums found in KTX files.
const (
	glR8                 = 0x8229
	glRG8                = 0x822B
	glRGBA8              = 0x8058
	glSRGB8Alpha8        = 0x8C43
	glCompressedRGBADXT3 = 0x83F2
	glCompressedRGBADXT5 = 0x83F3
)

func (tl *TextureLoader) Load(path string) (interface{}, uint64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	data, err := ParseKTX(raw)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	return data, uint64(len(data.Pixels)), nil
}

// ParseKTX decodes a KTX 1.1 container into tightly packed pixel data. Array
// textures and 3D textures are not supported.
func ParseKTX(raw []byte) (*TextureData, error) {
	const headerSize = 12 + 13*4
	if len(raw) < headerSize {
		return nil, fmt.Errorf("ktx file too short: %d bytes", len(raw))
	}
	if !bytes.Equal(raw[:12], ktxIdentifier) {
		return nil, fmt.Errorf("not a ktx file, bad identifier")
	}

	var order binary.ByteOrder = binary.LittleEndian
	endianness := order.Uint32(raw[12:])
	if endianness == ktxEndianForeign {
		order = binary.BigEndian
	} else if endianness != ktxEndianNative {
		return nil, fmt.Errorf("bad ktx endianness marker 0x%08x", endianness)
	}

	u32 := func(fieldIndex int) uint32 {
		return order.Uint32(raw[12+fieldIndex*4:])
	}
	glTypeSize := u32(2)
	glInternalFormat := u32(4)
	pixelWidth := u32(6)
	pixelHeight := u32(7)
	pixelDepth := u32(8)
	arrayElements := u32(9)
	faceCount := u32(10)
	mipLevels := u32(11)
	kvDataLen := u32(12)

	if endianness == ktxEndianForeign && glTypeSize > 1 {
		return nil, fmt.Errorf("foreign endian ktx with %d byte texels not supported", glTypeSize)
	}
	if pixelDepth > 1 {
		return nil, fmt.Errorf("3d ktx textures not supported")
	}
	if arrayElements > 0 {
		return nil, fmt.Errorf("ktx array textures not supported")
	}
	if faceCount != 1 && faceCount != 6 {
		return nil, fmt.Errorf("unsupported ktx face count %d", faceCount)
	}
	if mipLevels == 0 {
		// Mip generation is not done here, treat as a single level.
		mipLevels = 1
	}

	format, err := vulkanFormatFor(glInternalFormat)
	if err != nil {
		return nil, err
	}

	out := &TextureData{
		Width:      pixelWidth,
		Height:     pixelHeight,
		MipLevels:  mipLevels,
		FaceCount:  faceCount,
		Format:     format,
		MipOffsets: make([]uint64, 0, mipLevels),
	}

	offset := uint64(headerSize) + uint64(kvDataLen)
	for level := uint32(0); level < mipLevels; level++ {
		if offset+4 > uint64(len(raw)) {
			return nil, fmt.Errorf("ktx truncated at mip %d size field", level)
		}
		imageSize := uint64(order.Uint32(raw[offset:]))
		offset += 4

		out.MipOffsets = append(out.MipOffsets, uint64(len(out.Pixels)))
		for face := uint32(0); face < faceCount; face++ {
			if offset+imageSize > uint64(len(raw)) {
				return nil, fmt.Errorf("ktx truncated in mip %d face %d", level, face)
			}
			out.Pixels = append(out.Pixels, raw[offset:offset+imageSize]...)
			offset += imageSize
			// Face data is padded to 4 byte alignment.
			offset += (4 - (imageSize % 4)) % 4
		}
	}
	return out, nil
}

func vulkanFormatFor(glInternalFormat uint32) (vk.Format, error) {
	switch glInternalFormat {
	case glR8:
		return vk.FormatR8Unorm, nil
	case glRG8:
		return vk.FormatR8g8Unorm, nil
	case glRGBA8:
		return vk.FormatR8g8b8a8Unorm, nil
	case glSRGB8Alpha8:
		return vk.FormatR8g8b8a8Srgb, nil
	case glCompressedRGBADXT3:
		return vk.FormatBc2UnormBlock, nil
	case glCompressedRGBADXT5:
		return vk.FormatBc3UnormBlock, nil
	default:
		return vk.FormatUndefined, fmt.Errorf("unsupported ktx internal format 0x%04x", glInternalFormat)
	}
}
