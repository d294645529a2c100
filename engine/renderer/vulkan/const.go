package vulkan

/**
 * @brief Size of the sampler table bound to the fragment stage. Texture IDs
 * index into it directly.
 */
const VULKAN_MAX_TEXTURE_COUNT uint32 = 8

/**
 * @brief Max number of frame slots, and so descriptor sets, alive at once.
 */
const VULKAN_MAX_FRAMES_IN_FLIGHT uint32 = 8

// Descriptor bindings of the basic shader.
const (
	bindingCommon uint32 = iota
	bindingObject
	bindingMaterial
	bindingTextures
	bindingCount
)

/** @brief Size of the fragment push constant holding the diffuse texture index. */
const pushConstantSize uint32 = 4

/** @brief Slice used when waiting on a fence so a cancelled context is noticed. */
const fenceWaitSliceNS uint64 = 100 * 1000 * 1000
