package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/math"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

/**
 * @brief Holds a Vulkan pipeline and its layout.
 */
type VulkanPipeline struct {
	Kind metadata.PipelineKind
	/** @brief The internal pipeline handle. */
	Handle vk.Pipeline
	/** @brief The pipeline layout. */
	PipelineLayout vk.PipelineLayout
}

type VulkanPipelineConfig struct {
	State metadata.PipelineConfig
	/** @brief A pointer to the renderpass to associate with the pipeline. */
	Renderpass *VulkanRenderpass
	/** @brief An array of descriptor set layouts. */
	DescriptorSetLayouts []vk.DescriptorSetLayout
	/** @brief Vertex then fragment stage. */
	Stages []vk.PipelineShaderStageCreateInfo
}

// vertexAttributes matches math.Vertex3D: position, normal, texcoord.
func vertexAttributes() (vk.VertexInputBindingDescription, []vk.VertexInputAttributeDescription) {
	var v math.Vertex3D
	binding := vk.VertexInputBindingDescription{
		Binding:   0, // Binding index
		Stride:    uint32(unsafe.Sizeof(v)),
		InputRate: vk.VertexInputRateVertex, // Move to next data entry for each vertex.
	}
	attributes := []vk.VertexInputAttributeDescription{
		{Location: 0, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(unsafe.Offsetof(v.Position))},
		{Location: 1, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(unsafe.Offsetof(v.Normal))},
		{Location: 2, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: uint32(unsafe.Offsetof(v.Texcoord))},
	}
	return binding, attributes
}

func stencilFace(face metadata.StencilFaceState, ds metadata.DepthStencilState) vk.StencilOpState {
	return vk.StencilOpState{
		FailOp:      toVulkanStencilOp(face.FailOp),
		PassOp:      toVulkanStencilOp(face.PassOp),
		DepthFailOp: toVulkanStencilOp(face.DepthFailOp),
		CompareOp:   toVulkanCompareOp(face.Compare),
		CompareMask: uint32(ds.ReadMask),
		WriteMask:   uint32(ds.WriteMask),
		// dynamic
		Reference: 0,
	}
}

func NewGraphicsPipeline(context *VulkanContext, config *VulkanPipelineConfig) (*VulkanPipeline, error) {
	state := config.State
	outPipeline := &VulkanPipeline{Kind: state.Kind}

	// Viewport and scissor are dynamic, only the counts matter here.
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}

	rasterizerCreateInfo := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonModeFill,
		LineWidth:               1.0,
		CullMode:                toVulkanCullMode(state.Raster.Cull),
		FrontFace:               toVulkanFrontFace(state.Raster.FrontFace),
		DepthBiasEnable:         vk.False,
	}

	multisamplingCreateInfo := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		SampleShadingEnable:   vk.False,
		RasterizationSamples:  vk.SampleCount1Bit,
		MinSampleShading:      1.0,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}

	ds := state.DepthStencil
	depthStencil := vk.PipelineDepthStencilStateCreateInfo{
		SType:                 vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:       boolToVulkan(ds.DepthTest),
		DepthWriteEnable:      boolToVulkan(ds.DepthWrite),
		DepthCompareOp:        toVulkanCompareOp(ds.DepthCompare),
		DepthBoundsTestEnable: vk.False,
		StencilTestEnable:     boolToVulkan(ds.StencilTest),
		Front:                 stencilFace(ds.Front, ds),
		Back:                  stencilFace(ds.Back, ds),
		MinDepthBounds:        0.0,
		MaxDepthBounds:        1.0,
	}

	blend := state.Blend
	colorBlendAttachmentState := vk.PipelineColorBlendAttachmentState{
		BlendEnable:         boolToVulkan(blend.Enabled),
		SrcColorBlendFactor: toVulkanBlendFactor(blend.SrcColor),
		DstColorBlendFactor: toVulkanBlendFactor(blend.DstColor),
		ColorBlendOp:        vk.BlendOpAdd,
		SrcAlphaBlendFactor: toVulkanBlendFactor(blend.SrcAlpha),
		DstAlphaBlendFactor: toVulkanBlendFactor(blend.DstAlpha),
		AlphaBlendOp:        vk.BlendOpAdd,
		ColorWriteMask:      toVulkanColorMask(blend.WriteMask),
	}

	colorBlendStateCreateInfo := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{colorBlendAttachmentState},
	}

	dynamicStates := []vk.DynamicState{
		vk.DynamicStateViewport,
		vk.DynamicStateScissor,
		vk.DynamicStateStencilReference,
	}
	dynamicStateCreateInfo := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    dynamicStates,
	}

	bindingDescription, attributes := vertexAttributes()
	vertexInputInfo := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   1,
		PVertexBindingDescriptions:      []vk.VertexInputBindingDescription{bindingDescription},
		VertexAttributeDescriptionCount: uint32(len(attributes)),
		PVertexAttributeDescriptions:    attributes,
	}

	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
	}

	// Diffuse texture index.
	pushConstantRanges := []vk.PushConstantRange{{
		StageFlags: vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		Offset:     0,
		Size:       pushConstantSize,
	}}

	pipelineLayoutCreateInfo := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount:         uint32(len(config.DescriptorSetLayouts)),
		PSetLayouts:            config.DescriptorSetLayouts,
		PushConstantRangeCount: uint32(len(pushConstantRanges)),
		PPushConstantRanges:    pushConstantRanges,
	}

	if err := lockPool.SafeCall(PipelineManagement, func() error {
		var layout vk.PipelineLayout
		if res := vk.CreatePipelineLayout(context.Device.LogicalDevice, &pipelineLayoutCreateInfo, context.Allocator, &layout); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("%w: vkCreatePipelineLayout failed with %s", core.ErrPipelineCreation, VulkanResultString(res, true))
		}
		outPipeline.PipelineLayout = layout
		return nil
	}); err != nil {
		return nil, err
	}

	pipelineCreateInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(config.Stages)),
		PStages:             config.Stages,
		PVertexInputState:   &vertexInputInfo,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizerCreateInfo,
		PMultisampleState:   &multisamplingCreateInfo,
		PDepthStencilState:  &depthStencil,
		PColorBlendState:    &colorBlendStateCreateInfo,
		PDynamicState:       &dynamicStateCreateInfo,
		Layout:              outPipeline.PipelineLayout,
		RenderPass:          config.Renderpass.Handle,
		Subpass:             0,
		BasePipelineHandle:  vk.NullPipeline,
		BasePipelineIndex:   -1,
	}

	pipelines := make([]vk.Pipeline, 1)
	if err := lockPool.SafeCall(PipelineManagement, func() error {
		if res := vk.CreateGraphicsPipelines(context.Device.LogicalDevice, vk.NullPipelineCache, 1,
			[]vk.GraphicsPipelineCreateInfo{pipelineCreateInfo}, context.Allocator, pipelines); !VulkanResultIsSuccess(res) {
			return fmt.Errorf("%w: '%s': vkCreateGraphicsPipelines failed with %s", core.ErrPipelineCreation, state.Name, VulkanResultString(res, true))
		}
		return nil
	}); err != nil {
		outPipeline.Destroy(context)
		return nil, err
	}
	outPipeline.Handle = pipelines[0]

	core.LogDebug("Graphics pipeline '%s' created.", state.Name)
	return outPipeline, nil
}

func (pipeline *VulkanPipeline) Destroy(context *VulkanContext) {
	lockPool.SafeCall(PipelineManagement, func() error {
		if pipeline.Handle != nil {
			vk.DestroyPipeline(context.Device.LogicalDevice, pipeline.Handle, context.Allocator)
			pipeline.Handle = nil
		}
		if pipeline.PipelineLayout != nil {
			vk.DestroyPipelineLayout(context.Device.LogicalDevice, pipeline.PipelineLayout, context.Allocator)
			pipeline.PipelineLayout = nil
		}
		return nil
	})
}

func (pipeline *VulkanPipeline) Bind(commandBuffer *VulkanCommandBuffer, bindPoint vk.PipelineBindPoint) {
	vk.CmdBindPipeline(commandBuffer.Handle, bindPoint, pipeline.Handle)
}
