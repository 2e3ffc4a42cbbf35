package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/tpalli/Vulkan/engine/assets/loaders"
	"github.com/tpalli/Vulkan/engine/core"
)

type AssetInfo struct {
	Path       string
	Type       ResourceType
	LastLoaded time.Time
}

// AssetManager indexes the asset tree and loads files by type. With hot
// reload enabled it watches the tree and fires EVENT_CODE_ASSET_RELOADED
// whenever an indexed file changes on disk.
type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[ResourceType]Loader

	mutex sync.RWMutex

	watcher  *fsnotify.Watcher
	done     chan struct{}
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	return &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[ResourceType]Loader),
		done:    make(chan struct{}),
	}, nil
}

func (am *AssetManager) Initialize(assetsDir string, hotReload bool) error {
	am.root = assetsDir

	am.registerLoader(ResourceTypeShader, &loaders.ShaderLoader{})
	am.registerLoader(ResourceTypeTexture, &loaders.TextureLoader{})
	am.registerLoader(ResourceTypeImage, &loaders.ImageLoader{})
	am.registerLoader(ResourceTypeModel, &loaders.ModelLoader{})
	am.registerLoader(ResourceTypeFont, &loaders.FontLoader{})

	if err := am.indexTree(assetsDir); err != nil {
		return err
	}

	if hotReload {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		am.watcher = watcher
		if err := am.watchRecursive(assetsDir); err != nil {
			return err
		}
		go am.start()
	}
	return nil
}

func (am *AssetManager) Shutdown() error {
	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	am.isClosed = true
	close(am.done)
	return nil
}

func (am *AssetManager) registerLoader(assetType ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// LoadAsset loads the file at the path relative to the asset root. The type
// is derived from the file extension.
func (am *AssetManager) LoadAsset(relativePath string) (*Resource, error) {
	path := filepath.Join(am.root, relativePath)

	assetType := determineAssetType(path)
	if assetType == ResourceTypeNone {
		return nil, fmt.Errorf("unsupported asset extension: %s", filepath.Ext(path))
	}

	loader, ok := am.loaders[assetType]
	if !ok {
		return nil, fmt.Errorf("no loader registered for asset type %d", assetType)
	}

	data, size, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset %s: %w", relativePath, err)
	}

	am.mutex.Lock()
	am.assets[path] = AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
	am.mutex.Unlock()

	return &Resource{
		ID:       uuid.New(),
		FullPath: path,
		Type:     assetType,
		Data:     data,
		DataSize: size,
	}, nil
}

func (am *AssetManager) indexTree(root string) error {
	return filepath.Walk(root, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		assetType := determineAssetType(walkPath)
		if assetType == ResourceTypeNone {
			return nil
		}
		am.mutex.Lock()
		am.assets[walkPath] = AssetInfo{Path: walkPath, Type: assetType}
		am.mutex.Unlock()
		return nil
	})
}

func (am *AssetManager) start() {
	for {
		select {
		case e, ok := <-am.watcher.Events:
			if !ok {
				return
			}
			if s, err := os.Stat(e.Name); err == nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					am.watchRecursive(e.Name)
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				am.handleFileEvent(e.Name)
			}
			if e.Op&fsnotify.Remove != 0 {
				am.removeAsset(e.Name)
				am.watcher.Remove(e.Name)
			}

		case err, ok := <-am.watcher.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err.Error())

		case <-am.done:
			am.watcher.Close()
			return
		}
	}
}

func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.watcher.Add(walkPath)
		}
		return nil
	})
}

// handleFileEvent reindexes a changed file and notifies interested systems.
// Only files that were already loaded once trigger a reload event, a fresh
// file just enters the index.
func (am *AssetManager) handleFileEvent(path string) {
	assetType := determineAssetType(path)
	if assetType == ResourceTypeNone {
		return
	}

	am.mutex.Lock()
	previous, known := am.assets[path]
	am.assets[path] = AssetInfo{
		Path: path,
		Type: assetType,
	}
	am.mutex.Unlock()

	if known && !previous.LastLoaded.IsZero() {
		core.LogInfo("asset changed on disk: %s", path)
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_ASSET_RELOADED,
			Data: path,
		})
	}
}

func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, path)
}

func determineAssetType(path string) ResourceType {
	switch filepath.Ext(path) {
	case ".spv":
		return ResourceTypeShader
	case ".ktx":
		return ResourceTypeTexture
	case ".png", ".jpg", ".jpeg":
		return ResourceTypeImage
	case ".obj":
		return ResourceTypeModel
	case ".fnt":
		return ResourceTypeFont
	default:
		return ResourceTypeNone
	}
}
