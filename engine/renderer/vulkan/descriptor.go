package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
)

/**
 * @brief Tracks what a frame slot's descriptor set currently points at, so
 * the set is only rewritten when a constant buffer or the texture table changed.
 */
type VulkanDescriptorState struct {
	/** @brief Texture table generation the set was last written with. */
	TextureGeneration uint64
	/** @brief Constant buffers bound at bindings 0 to 2. */
	Buffers [bindingTextures]vk.Buffer
}

/**
 * @brief The single descriptor set layout of the basic shader and one set
 * per frame slot.
 */
type VulkanDescriptorTable struct {
	Layout vk.DescriptorSetLayout
	Pool   vk.DescriptorPool
	Sets   []vk.DescriptorSet
	States []VulkanDescriptorState
}

func DescriptorTableCreate(context *VulkanContext, slotCount uint32) (*VulkanDescriptorTable, error) {
	if slotCount == 0 || slotCount > VULKAN_MAX_FRAMES_IN_FLIGHT {
		return nil, fmt.Errorf("descriptor table for %d slots, max is %d", slotCount, VULKAN_MAX_FRAMES_IN_FLIGHT)
	}
	out := &VulkanDescriptorTable{}

	vertexAndFragment := vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit)
	bindings := []vk.DescriptorSetLayoutBinding{
		{
			Binding:         bindingCommon,
			DescriptorType:  vk.DescriptorTypeUniformBufferDynamic,
			DescriptorCount: 1,
			StageFlags:      vertexAndFragment,
		},
		{
			Binding:         bindingObject,
			DescriptorType:  vk.DescriptorTypeUniformBufferDynamic,
			DescriptorCount: 1,
			StageFlags:      vertexAndFragment,
		},
		{
			Binding:         bindingMaterial,
			DescriptorType:  vk.DescriptorTypeUniformBufferDynamic,
			DescriptorCount: 1,
			StageFlags:      vertexAndFragment,
		},
		{
			Binding:         bindingTextures,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: VULKAN_MAX_TEXTURE_COUNT,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		},
	}
	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	var layout vk.DescriptorSetLayout
	if res := vk.CreateDescriptorSetLayout(context.Device.LogicalDevice, &layoutInfo, context.Allocator, &layout); res != vk.Success {
		return nil, resultError(res, "vkCreateDescriptorSetLayout")
	}
	out.Layout = layout

	poolSizes := []vk.DescriptorPoolSize{
		{Type: vk.DescriptorTypeUniformBufferDynamic, DescriptorCount: 3 * slotCount},
		{Type: vk.DescriptorTypeCombinedImageSampler, DescriptorCount: VULKAN_MAX_TEXTURE_COUNT * slotCount},
	}
	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       slotCount,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
	}
	var pool vk.DescriptorPool
	if res := vk.CreateDescriptorPool(context.Device.LogicalDevice, &poolInfo, context.Allocator, &pool); res != vk.Success {
		out.Destroy(context)
		return nil, resultError(res, "vkCreateDescriptorPool")
	}
	out.Pool = pool

	out.Sets = make([]vk.DescriptorSet, slotCount)
	out.States = make([]VulkanDescriptorState, slotCount)
	for i := range out.Sets {
		allocInfo := vk.DescriptorSetAllocateInfo{
			SType:              vk.StructureTypeDescriptorSetAllocateInfo,
			DescriptorPool:     pool,
			DescriptorSetCount: 1,
			PSetLayouts:        []vk.DescriptorSetLayout{layout},
		}
		err := lockPool.SafeCall(DescriptorManagement, func() error {
			if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocInfo, &out.Sets[i]); res != vk.Success {
				return resultError(res, "vkAllocateDescriptorSets")
			}
			return nil
		})
		if err != nil {
			out.Destroy(context)
			return nil, err
		}
	}
	return out, nil
}

// Update points the slot's set at the slot's constant buffers and at the
// current texture table. Only called while the slot is idle on the device.
func (t *VulkanDescriptorTable) Update(context *VulkanContext, slot *frame.Resource, textures []vk.DescriptorImageInfo, textureGeneration uint64) error {
	if slot.Index < 0 || slot.Index >= len(t.Sets) {
		return fmt.Errorf("frame slot %d has no descriptor set", slot.Index)
	}

	var buffers [bindingTextures]vk.Buffer
	var infos [bindingTextures]vk.DescriptorBufferInfo
	members := [bindingTextures]struct {
		memory frame.MappedMemory
		size   uint64
	}{
		{slot.Common.Memory(), slot.Common.ElementSize()},
		{slot.Objects.Memory(), slot.Objects.ElementSize()},
		{slot.Materials.Memory(), slot.Materials.ElementSize()},
	}
	for i, m := range members {
		buffer, ok := m.memory.(*VulkanBuffer)
		if !ok {
			return fmt.Errorf("frame slot %d binding %d was not allocated by the vulkan backend", slot.Index, i)
		}
		buffers[i] = buffer.Handle
		infos[i] = vk.DescriptorBufferInfo{
			Buffer: buffer.Handle,
			Offset: 0,
			Range:  vk.DeviceSize(m.size),
		}
	}

	state := &t.States[slot.Index]
	if state.Buffers == buffers && state.TextureGeneration == textureGeneration {
		return nil
	}

	set := t.Sets[slot.Index]
	writes := make([]vk.WriteDescriptorSet, 0, bindingCount)
	for i := range infos {
		writes = append(writes, vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          set,
			DstBinding:      uint32(i),
			DescriptorCount: 1,
			DescriptorType:  vk.DescriptorTypeUniformBufferDynamic,
			PBufferInfo:     []vk.DescriptorBufferInfo{infos[i]},
		})
	}
	writes = append(writes, vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set,
		DstBinding:      bindingTextures,
		DescriptorCount: uint32(len(textures)),
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		PImageInfo:      textures,
	})

	lockPool.SafeCall(DescriptorManagement, func() error {
		vk.UpdateDescriptorSets(context.Device.LogicalDevice, uint32(len(writes)), writes, 0, nil)
		return nil
	})
	state.Buffers = buffers
	state.TextureGeneration = textureGeneration
	return nil
}

func (t *VulkanDescriptorTable) Destroy(context *VulkanContext) {
	if t.Pool != nil {
		// sets are freed with their pool
		vk.DestroyDescriptorPool(context.Device.LogicalDevice, t.Pool, context.Allocator)
		t.Pool = nil
	}
	if t.Layout != nil {
		vk.DestroyDescriptorSetLayout(context.Device.LogicalDevice, t.Layout, context.Allocator)
		t.Layout = nil
	}
	t.Sets = nil
	t.States = nil
}
