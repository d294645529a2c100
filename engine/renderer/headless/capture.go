package headless

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/pendulum/engine/core"
	"golang.org/x/image/bmp"
)

// Image converts the back buffer to 8 bit RGBA. Only valid while the device is idle.
func (d *Device) Image() *image.RGBA {
	return d.target.image()
}

func (t *target) image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			i := (y*t.width + x) * 4
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(t.colour[i+0]),
				G: toByte(t.colour[i+1]),
				B: toByte(t.colour[i+2]),
				A: 255,
			})
		}
	}
	return img
}

func toByte(c float32) uint8 {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(c*255 + 0.5)
}

func (d *Device) capture(presented uint64) {
	if d.opts.CapturePath == "" || d.opts.CaptureEvery == 0 || presented%d.opts.CaptureEvery != 0 {
		return
	}
	path := d.opts.CapturePath
	if strings.Contains(path, "%") {
		path = fmt.Sprintf(path, presented)
	}
	if err := writeBMP(path, d.target.image()); err != nil {
		core.LogWarn("frame capture to %s failed: %v", path, err)
		return
	}
	core.LogDebug("frame %d captured to %s", presented, path)
}

func writeBMP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
