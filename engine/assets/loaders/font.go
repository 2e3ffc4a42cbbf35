package loaders

import (
	"os"

	"github.com/fzipp/bmfont"
)

// FontData is a parsed bitmap font descriptor plus the atlas page files it
// references, relative to the descriptor location.
type FontData struct {
	Descriptor *bmfont.Descriptor
	PageFiles  []string
}

// FontLoader reads AngelCode .fnt descriptors.
type FontLoader struct{}

func (fl *FontLoader) Load(path string) (interface{}, uint64, error) {
	desc, err := bmfont.LoadDescriptor(path)
	if err != nil {
		return nil, 0, err
	}

	pages := make([]string, 0, len(desc.Pages))
	for _, p := range desc.Pages {
		pages = append(pages, p.File)
	}

	var size uint64
	if fi, err := os.Stat(path); err == nil {
		size = uint64(fi.Size())
	}
	return &FontData{Descriptor: desc, PageFiles: pages}, size, nil
}
