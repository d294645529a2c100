package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

/** @brief Parameters used when loading an image. */
type ImageResourceParams struct {
	Name string
	/** @brief Images larger than this on either side are scaled down. 0 keeps the size. */
	MaxSize uint32
	/** @brief Indicates if the image should be flipped on the y-axis when loaded. */
	FlipY bool
}

type TextureLoader struct{}

func (tl *TextureLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	p, _ := params.(*ImageResourceParams)
	if p == nil {
		p = &ImageResourceParams{}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	src, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	rgba := ToRGBA(src, p.MaxSize)
	if p.FlipY {
		flipY(rgba)
	}

	b := rgba.Bounds()
	return &metadata.Resource{
		ResourceType: metadata.ResourceTypeImage,
		Name:         resourceName(path, p.Name),
		FullPath:     path,
		DataSize:     uint64(info.Size()),
		Data: &metadata.ImageResourceData{
			Width:  uint32(b.Dx()),
			Height: uint32(b.Dy()),
			Pixels: rgba.Pix,
		},
	}, nil
}

func (tl *TextureLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	return nil
}

// ToRGBA converts any image to tightly packed RGBA, scaling it down with
// Catmull-Rom when a side exceeds maxSize.
func ToRGBA(src image.Image, maxSize uint32) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (uint32(w) > maxSize || uint32(h) > maxSize) {
		scale := float64(maxSize) / float64(max(w, h))
		w = max(1, int(float64(w)*scale))
		h = max(1, int(float64(h)*scale))
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}
	return dst
}

func flipY(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := make([]uint8, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

func resourceName(path string, params interface{}) string {
	switch p := params.(type) {
	case string:
		if p != "" {
			return p
		}
	case map[string]string:
		if n := p["name"]; n != "" {
			return n
		}
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
