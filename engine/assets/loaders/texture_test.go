package loaders

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRGBAScalesDown(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 512, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 512; x++ {
			src.Set(x, y, color.NRGBA{G: 200, A: 255})
		}
	}
	dst := ToRGBA(src, 128)
	assert.Equal(t, 128, dst.Bounds().Dx())
	assert.Equal(t, 64, dst.Bounds().Dy())
	assert.Equal(t, uint8(200), dst.Pix[1])

	same := ToRGBA(src, 0)
	assert.Equal(t, 512, same.Bounds().Dx())
}

func TestFlipY(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	img.Pix = []uint8{1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3}
	flipY(img)
	assert.Equal(t, []uint8{3, 3, 3, 3, 2, 2, 2, 2, 1, 1, 1, 1}, img.Pix)
}

func TestResourceName(t *testing.T) {
	assert.Equal(t, "bricks", resourceName("assets/textures/bricks.png", nil))
	assert.Equal(t, "walls", resourceName("assets/textures/bricks.png", "walls"))
	assert.Equal(t, "x", resourceName("a/b.spv", map[string]string{"name": "x"}))
}
