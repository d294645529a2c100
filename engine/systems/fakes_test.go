package systems

import (
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

type heapMemory struct{ bytes []byte }

func (m *heapMemory) Bytes() []byte { return m.bytes }
func (m *heapMemory) Release()      {}

type nopCommands struct{}

func (nopCommands) Reset() error { return nil }
func (nopCommands) Release()     {}

type heapDevice struct{}

func (heapDevice) AllocateMapped(size uint64, usage frame.BufferUsage) (frame.MappedMemory, error) {
	return &heapMemory{bytes: make([]byte, size)}, nil
}

func (heapDevice) NewCommandAllocator() (frame.CommandAllocator, error) {
	return nopCommands{}, nil
}

type recordingUploader struct {
	geometries []*metadata.Geometry
	textures   []*metadata.Texture
}

func (u *recordingUploader) UploadGeometry(g *metadata.Geometry) error {
	u.geometries = append(u.geometries, g)
	return nil
}

func (u *recordingUploader) UploadTexture(t *metadata.Texture) error {
	u.textures = append(u.textures, t)
	return nil
}
