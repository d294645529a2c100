package metadata

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestConstantLayouts(t *testing.T) {
	assert.Equal(t, uintptr(48), unsafe.Sizeof(Light{}))
	assert.Equal(t, uint64(128), SizeOfObjectConstants)
	assert.Equal(t, uint64(96), SizeOfMaterialConstants)
	assert.Equal(t, uint64(6*64+16+16+16+16+MaxLights*48), SizeOfCommonConstants)
}

func TestGetAligned(t *testing.T) {
	assert.Equal(t, uint64(256), GetAligned(128, 256))
	assert.Equal(t, uint64(256), GetAligned(256, 256))
	assert.Equal(t, uint64(1280), GetAligned(1232, 256))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "drawStencilReflections", PipelineDrawStencilReflections.String())
	assert.Equal(t, "shadow", RenderLayerShadow.String())
	assert.Equal(t, "image", ResourceTypeImage.String())
}
