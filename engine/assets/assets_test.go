package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

func writeImage(t *testing.T, path string, encode func(f *os.File, img image.Image) error) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
		img.Set(x, 1, color.NRGBA{B: 255, A: 255})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, encode(f, img))
}

func newManager(t *testing.T, dir string) *AssetManager {
	t.Helper()
	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(dir))
	t.Cleanup(func() { am.Close() })
	return am
}

func TestLoadImagesAndShaders(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "shaders"), 0o755))

	writeImage(t, filepath.Join(dir, "textures", "bricks.png"), func(f *os.File, img image.Image) error { return png.Encode(f, img) })
	writeImage(t, filepath.Join(dir, "textures", "ice.bmp"), func(f *os.File, img image.Image) error { return bmp.Encode(f, img) })
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shaders", "basic.vert.spv"), []byte{0x03, 0x02, 0x23, 0x07, 1, 0, 0, 0}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shaders", "broken.frag.spv"), []byte{1, 2, 3, 4}, 0o644))

	am := newManager(t, dir)

	for _, name := range []string{"bricks", "ice"} {
		res, err := am.LoadAsset(name, metadata.ResourceTypeImage, nil)
		require.NoError(t, err, name)
		img := res.Data.(*metadata.ImageResourceData)
		assert.Equal(t, uint32(4), img.Width)
		assert.Equal(t, uint32(2), img.Height)
		assert.Len(t, img.Pixels, 4*2*4)
		assert.Equal(t, []uint8{255, 0, 0, 255}, img.Pixels[:4], name)
		assert.Equal(t, name, res.Name)
	}

	res, err := am.LoadAsset("basic.vert", metadata.ResourceTypeShader, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x07230203, 1}, res.Data.([]uint32))

	_, err = am.LoadAsset("broken.frag", metadata.ResourceTypeShader, nil)
	assert.Error(t, err)

	_, err = am.LoadAsset("grass", metadata.ResourceTypeImage, nil)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestMissingDirectory(t *testing.T) {
	am := newManager(t, filepath.Join(t.TempDir(), "nope"))
	_, err := am.LoadAsset("bricks", metadata.ResourceTypeImage, nil)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestWatcherIndexesNewFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0o755))
	am := newManager(t, dir)

	changed := make(chan AssetInfo, 8)
	am.OnChange(func(info AssetInfo) { changed <- info })

	writeImage(t, filepath.Join(dir, "textures", "grass.png"), func(f *os.File, img image.Image) error { return png.Encode(f, img) })

	require.Eventually(t, func() bool {
		_, err := am.Path("grass", metadata.ResourceTypeImage)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	select {
	case info := <-changed:
		assert.Equal(t, metadata.ResourceTypeImage, info.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}
