package assets

import "github.com/google/uuid"

type ResourceType int

const (
	ResourceTypeNone ResourceType = iota
	ResourceTypeShader
	ResourceTypeTexture
	ResourceTypeImage
	ResourceTypeModel
	ResourceTypeFont
)

// Resource is the outcome of a loader run. Data holds the loader specific
// payload, e.g. *loaders.TextureData for ResourceTypeTexture.
type Resource struct {
	ID       uuid.UUID
	FullPath string
	Type     ResourceType
	Data     interface{}
	DataSize uint64
}

type Loader interface {
	Load(path string) (data interface{}, size uint64, err error)
}
