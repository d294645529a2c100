package systems

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/pendulum/engine/assets"
	"github.com/spaghettifunk/pendulum/engine/assets/loaders"
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

// TextureUploader hands texture pixels to the device.
type TextureUploader interface {
	UploadTexture(texture *metadata.Texture) error
}

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32
	/** @brief Images larger than this are scaled down on load. */
	MaxTextureSize uint32
	/** @brief Decodes images concurrently in LoadAll when set. */
	Jobs *JobSystem
}

// TextureSystem loads textures by name, falling back to generated images when
// no file exists, and uploads them once. IDs are consecutive and double as
// the texture table slot.
type TextureSystem struct {
	Config *TextureSystemConfig
	// Array of registered textures.
	RegisteredTextures []*metadata.Texture
	// Hashtable for texture lookups.
	RegisteredTextureTable map[string]*metadata.Texture
	// sub systems
	assetManager *assets.AssetManager
	uploader     TextureUploader
}

func NewTextureSystem(config *TextureSystemConfig, am *assets.AssetManager, uploader TextureUploader) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &TextureSystem{
		Config:                 config,
		RegisteredTextures:     make([]*metadata.Texture, 0, config.MaxTextureCount),
		RegisteredTextureTable: make(map[string]*metadata.Texture),
		assetManager:           am,
		uploader:               uploader,
	}, nil
}

func (ts *TextureSystem) Shutdown() error {
	ts.RegisteredTextures = nil
	ts.RegisteredTextureTable = nil
	return nil
}

/**
 * @brief Loads the named texture from the asset directory, or generates it
 * when no file exists, and uploads it.
 */
func (ts *TextureSystem) Load(name string) (*metadata.Texture, error) {
	if t, ok := ts.RegisteredTextureTable[name]; ok {
		return t, nil
	}
	if err := ts.checkCapacity(name, 1); err != nil {
		return nil, err
	}
	width, height, pixels, err := ts.loadPixels(name)
	if err != nil {
		return nil, err
	}
	return ts.register(name, width, height, pixels)
}

// LoadAll decodes the textures not loaded yet on the job system, then uploads
// them in the order given so their IDs are deterministic.
func (ts *TextureSystem) LoadAll(names []string) ([]*metadata.Texture, error) {
	type decoded struct {
		width, height uint32
		pixels        []uint8
	}
	pending := make(map[string]*decoded)
	var jobs []Job
	for _, name := range names {
		if _, ok := ts.RegisteredTextureTable[name]; ok {
			continue
		}
		if _, ok := pending[name]; ok {
			continue
		}
		d := &decoded{}
		pending[name] = d
		jobs = append(jobs, Job{
			Name: fmt.Sprintf("decode texture '%s'", name),
			Run: func() (err error) {
				d.width, d.height, d.pixels, err = ts.loadPixels(name)
				return err
			},
		})
	}
	if err := ts.checkCapacity(fmt.Sprint(names), len(jobs)); err != nil {
		return nil, err
	}

	if ts.Config.Jobs != nil {
		if err := ts.Config.Jobs.RunAll(jobs); err != nil {
			return nil, err
		}
	} else {
		for _, job := range jobs {
			if err := job.Run(); err != nil {
				return nil, err
			}
		}
	}

	out := make([]*metadata.Texture, len(names))
	for i, name := range names {
		t, ok := ts.RegisteredTextureTable[name]
		if !ok {
			d := pending[name]
			var err error
			if t, err = ts.register(name, d.width, d.height, d.pixels); err != nil {
				return nil, err
			}
		}
		out[i] = t
	}
	return out, nil
}

func (ts *TextureSystem) checkCapacity(what string, n int) error {
	if len(ts.RegisteredTextures)+n > int(ts.Config.MaxTextureCount) {
		return fmt.Errorf("texture %s: limit of %d textures reached", what, ts.Config.MaxTextureCount)
	}
	return nil
}

func (ts *TextureSystem) register(name string, width, height uint32, pixels []uint8) (*metadata.Texture, error) {
	t := &metadata.Texture{
		ID:            uint32(len(ts.RegisteredTextures)),
		Name:          name,
		Width:         width,
		Height:        height,
		Pixels:        pixels,
		FilterMinify:  metadata.TextureFilterModeLinear,
		FilterMagnify: metadata.TextureFilterModeLinear,
		Repeat:        metadata.TextureRepeatRepeat,
	}
	if ts.uploader != nil {
		if err := ts.uploader.UploadTexture(t); err != nil {
			return nil, fmt.Errorf("%w: texture '%s': %v", core.ErrResourceCreation, name, err)
		}
	}
	ts.RegisteredTextures = append(ts.RegisteredTextures, t)
	ts.RegisteredTextureTable[name] = t
	return t, nil
}

func (ts *TextureSystem) loadPixels(name string) (uint32, uint32, []uint8, error) {
	if ts.assetManager != nil {
		res, err := ts.assetManager.LoadAsset(name, metadata.ResourceTypeImage, &loaders.ImageResourceParams{
			Name:    name,
			MaxSize: ts.Config.MaxTextureSize,
		})
		if err == nil {
			img := res.Data.(*metadata.ImageResourceData)
			return img.Width, img.Height, img.Pixels, nil
		}
		if !errors.Is(err, assets.ErrAssetNotFound) {
			return 0, 0, nil, err
		}
	}

	gen, ok := proceduralTextures[name]
	if !ok {
		return 0, 0, nil, fmt.Errorf("texture '%s' not found and no generator exists", name)
	}
	core.LogInfo("texture '%s' not found on disk, generating it", name)
	w, h, pixels := gen()
	return w, h, pixels, nil
}

func (ts *TextureSystem) Get(name string) (*metadata.Texture, error) {
	t, ok := ts.RegisteredTextureTable[name]
	if !ok {
		return nil, fmt.Errorf("texture '%s' not loaded", name)
	}
	return t, nil
}

// Textures returns every texture in ID order.
func (ts *TextureSystem) Textures() []*metadata.Texture {
	return ts.RegisteredTextures
}

var proceduralTextures = map[string]func() (uint32, uint32, []uint8){
	"bricks":   generateBricks,
	"grass":    generateGrass,
	"ice":      generateIce,
	"white1x1": func() (uint32, uint32, []uint8) { return 1, 1, []uint8{255, 255, 255, 255} },
}

func generateBricks() (uint32, uint32, []uint8) {
	const size = 128
	pixels := make([]uint8, size*size*4)
	for y := 0; y < size; y++ {
		row := y / 16
		for x := 0; x < size; x++ {
			shift := 0
			if row%2 == 1 {
				shift = 16
			}
			mortar := y%16 < 2 || (x+shift)%32 < 2
			i := (y*size + x) * 4
			if mortar {
				pixels[i], pixels[i+1], pixels[i+2] = 200, 200, 190
			} else {
				shade := uint8(((x+shift)/32+row)%3) * 12
				pixels[i], pixels[i+1], pixels[i+2] = 150+shade, 60+shade/2, 40
			}
			pixels[i+3] = 255
		}
	}
	return size, size, pixels
}

func generateGrass() (uint32, uint32, []uint8) {
	const size = 128
	pixels := make([]uint8, size*size*4)
	seed := uint32(0x9e3779b9)
	for i := 0; i < size*size; i++ {
		seed ^= seed << 13
		seed ^= seed >> 17
		seed ^= seed << 5
		n := uint8(seed % 48)
		pixels[i*4] = 40 + n/2
		pixels[i*4+1] = 110 + n
		pixels[i*4+2] = 30
		pixels[i*4+3] = 255
	}
	return size, size, pixels
}

func generateIce() (uint32, uint32, []uint8) {
	const size = 64
	pixels := make([]uint8, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			i := (y*size + x) * 4
			streak := uint8((x + y) % 16 * 2)
			pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = 180+streak, 210+streak/2, 240, 255
		}
	}
	return size, size, pixels
}
