package loaders

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	vk "github.com/goki/vulkan"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ImageLoader decodes standard image files into RGBA pixel data, used for
// assets that do not ship as KTX containers, e.g. font atlases.
type ImageLoader struct{}

func (il *ImageLoader) Load(path string) (interface{}, uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, err
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	data := &TextureData{
		Width:      uint32(bounds.Dx()),
		Height:     uint32(bounds.Dy()),
		MipLevels:  1,
		FaceCount:  1,
		Format:     vk.FormatR8g8b8a8Unorm,
		Pixels:     rgba.Pix,
		MipOffsets: []uint64{0},
	}
	return data, uint64(len(data.Pixels)), nil
}
