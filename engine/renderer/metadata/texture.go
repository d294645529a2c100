package metadata

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = 0x0
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear TextureFilter = 0x1
)

type TextureRepeat int

const (
	TextureRepeatRepeat      TextureRepeat = 0x1
	TextureRepeatClampToEdge TextureRepeat = 0x3
)

/**
 * @brief Represents a texture.
 */
type Texture struct {
	/** @brief The unique texture identifier, also its slot in the bound texture table. */
	ID uint32
	/** @brief The texture Name. */
	Name string
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief Tightly packed RGBA8 pixels. */
	Pixels        []uint8
	FilterMinify  TextureFilter
	FilterMagnify TextureFilter
	Repeat        TextureRepeat
	/** @brief Backend specific image and sampler. */
	InternalData interface{}
}
