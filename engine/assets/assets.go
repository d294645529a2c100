package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/pendulum/engine/assets/loaders"
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

var ErrAssetNotFound = errors.New("asset not found")

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

// AssetManager indexes the asset directory, keeps the index current with a
// file watcher and dispatches loads to the loader registered per type.
type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	onChange func(AssetInfo)
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	am.registerLoader(metadata.ResourceTypeShader, &loaders.BinaryLoader{})
	am.registerLoader(metadata.ResourceTypeBinary, &loaders.BinaryLoader{})
	am.registerLoader(metadata.ResourceTypeImage, &loaders.TextureLoader{})
	return am, nil
}

// Initialize indexes assetsDir and starts watching it. A missing directory is
// not an error: every lookup then reports ErrAssetNotFound.
func (am *AssetManager) Initialize(assetsDir string) error {
	am.root = filepath.Clean(assetsDir)
	go am.start()

	if _, err := os.Stat(am.root); errors.Is(err, os.ErrNotExist) {
		core.LogWarn("asset directory '%s' does not exist, using built-in assets only", am.root)
		return nil
	}
	return am.addRecursive(am.root)
}

// OnChange registers fn to be called from the watcher goroutine whenever an
// indexed asset is created or rewritten.
func (am *AssetManager) OnChange(fn func(AssetInfo)) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.onChange = fn
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.isClosed {
		return errors.New("asset watcher already closed")
	}
	return am.watchRecursive(name)
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Path returns the indexed path of the named asset.
func (am *AssetManager) Path(name string, resourceType metadata.ResourceType) (string, error) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	for _, candidate := range candidatePaths(am.root, name, resourceType) {
		if _, ok := am.assets[candidate]; ok {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s '%s'", ErrAssetNotFound, resourceType, name)
}

// Load an asset using the appropriate loader
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	path, err := am.Path(name, resourceType)
	if err != nil {
		return nil, err
	}

	loader, ok := am.loaders[resourceType]
	if !ok {
		return nil, fmt.Errorf("no loader registered for asset type: %s", resourceType)
	}
	res, err := loader.Load(path, resourceType, params)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	info := am.assets[path]
	info.LastLoaded = time.Now()
	am.assets[path] = info
	am.mutex.Unlock()

	core.LogDebug("loaded %s asset '%s' from %s", resourceType, name, path)
	return res, nil
}

func (am *AssetManager) UnloadAsset(asset *metadata.Resource) error {
	loader, ok := am.loaders[asset.ResourceType]
	if !ok {
		return fmt.Errorf("no loader registered for asset type: %s", asset.ResourceType)
	}
	return loader.Unload(asset)
}

// Close stops the watcher goroutine.
func (am *AssetManager) Close() error {
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)
	<-am.stopped
	return nil
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s.IsDir() && e.Has(fsnotify.Create) {
				if err := am.watchRecursive(e.Name); err != nil {
					core.LogWarn("watching %s: %s", e.Name, err)
				}
				continue
			}
			if e.Has(fsnotify.Create) || e.Has(fsnotify.Write) {
				if info, ok := am.handleFileEvent(e.Name); ok {
					am.notify(info)
				}
			}
			if e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

func (am *AssetManager) notify(info AssetInfo) {
	am.mutex.RLock()
	fn := am.onChange
	am.mutex.RUnlock()
	if fn != nil {
		fn(info)
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files found on the way.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) (AssetInfo, bool) {
	assetType, ok := determineAssetType(path)
	if !ok {
		return AssetInfo{}, false
	}
	path = filepath.Clean(path)

	am.mutex.Lock()
	defer am.mutex.Unlock()
	info := AssetInfo{Path: path, Type: assetType}
	am.assets[path] = info
	return info, true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, filepath.Clean(path))
}

func determineAssetType(path string) (metadata.ResourceType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".spv":
		return metadata.ResourceTypeShader, true
	case ".png", ".jpg", ".jpeg", ".bmp":
		return metadata.ResourceTypeImage, true
	default:
		return metadata.ResourceTypeBinary, false
	}
}

func candidatePaths(root, name string, resourceType metadata.ResourceType) []string {
	switch resourceType {
	case metadata.ResourceTypeShader:
		return []string{filepath.Join(root, "shaders", name+".spv")}
	case metadata.ResourceTypeImage:
		return []string{
			filepath.Join(root, "textures", name+".png"),
			filepath.Join(root, "textures", name+".jpg"),
			filepath.Join(root, "textures", name+".jpeg"),
			filepath.Join(root, "textures", name+".bmp"),
		}
	}
	return []string{filepath.Join(root, name)}
}
