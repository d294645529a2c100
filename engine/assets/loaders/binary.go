package loaders

import (
	"fmt"
	"os"

	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

// BinaryLoader reads raw files. Shader resources are returned as SPIR-V words.
type BinaryLoader struct{}

const spirvMagic uint32 = 0x07230203

func (bl *BinaryLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	res := &metadata.Resource{
		ResourceType: assetType,
		Name:         resourceName(path, params),
		FullPath:     path,
		DataSize:     uint64(len(buf)),
		Data:         buf,
	}
	if assetType != metadata.ResourceTypeShader {
		return res, nil
	}

	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("%s: SPIR-V size %d is not a multiple of 4", path, len(buf))
	}
	code := bytesToBytecode(buf)
	if len(code) == 0 || code[0] != spirvMagic {
		return nil, fmt.Errorf("%s: missing SPIR-V magic number", path)
	}
	res.Data = code
	return res, nil
}

func (bl *BinaryLoader) Unload(res *metadata.Resource) error {
	res.Data = nil
	return nil
}

func bytesToBytecode(b []byte) []uint32 {
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}
	return byteCode
}
