package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Binary resource type. */
	ResourceTypeBinary ResourceType = iota
	/** @brief Image resource type. */
	ResourceTypeImage
	/** @brief Shader bytecode resource type. */
	ResourceTypeShader
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeBinary:
		return "binary"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeShader:
		return "shader"
	}
	return "unknown"
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	ResourceType ResourceType
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}

/**
 * @brief A structure to hold image resource data. Pixels are tightly packed RGBA8.
 */
type ImageResourceData struct {
	Width  uint32
	Height uint32
	Pixels []uint8
}
