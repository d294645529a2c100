package vulkan

import (
	"errors"
	"fmt"
	gomath "math"
	"runtime"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/pendulum/engine/core"
	"github.com/spaghettifunk/pendulum/engine/platform"
	"github.com/spaghettifunk/pendulum/engine/renderer"
	"github.com/spaghettifunk/pendulum/engine/renderer/frame"
	"github.com/spaghettifunk/pendulum/engine/renderer/metadata"
)

var _ renderer.RendererBackend = (*VulkanRenderer)(nil)

type VulkanRenderer struct {
	platform *platform.Platform
	shaders  ShaderLoader
	config   metadata.RendererBackendConfig

	context                 *VulkanContext
	cachedFramebufferWidth  uint32
	cachedFramebufferHeight uint32

	timeline    *fenceTimeline
	descriptors *VulkanDescriptorTable
	pipelines   [metadata.PipelineKindCount]*VulkanPipeline

	defaultTexture    *vulkanTextureData
	textures          [VULKAN_MAX_TEXTURE_COUNT]*vulkanTextureData
	textureGeneration uint64
	geometries        []*vulkanGeometryData

	// submissions since the last Signal
	pendingFence      *VulkanFence
	pendingAllocators []*commandAllocator
	presentPending    bool

	FrameNumber uint64
}

func NewVulkan(p *platform.Platform, shaders ShaderLoader) *VulkanRenderer {
	return &VulkanRenderer{
		platform: p,
		shaders:  shaders,
		context:  &VulkanContext{},
	}
}

func (vr *VulkanRenderer) Initialize(config metadata.RendererBackendConfig, width, height uint32) error {
	if config.FramesInFlight <= 0 || uint32(config.FramesInFlight) > VULKAN_MAX_FRAMES_IN_FLIGHT {
		return fmt.Errorf("%w: %d frames in flight, vulkan backend supports 1 to %d", core.ErrInvalidConfig, config.FramesInFlight, VULKAN_MAX_FRAMES_IN_FLIGHT)
	}
	vr.config = config

	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		return fmt.Errorf("GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		return fmt.Errorf("failed to initialize vk: %w", err)
	}

	// TODO: custom allocator.
	vr.context.Allocator = nil
	vr.context.FramebufferWidth = width
	vr.context.FramebufferHeight = height
	vr.cachedFramebufferWidth = width
	vr.cachedFramebufferHeight = height

	if err := vr.createInstance(); err != nil {
		return err
	}

	if config.EnableValidation {
		core.LogDebug("Creating Vulkan debugger...")
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}
		var dbg vk.DebugReportCallback
		if err := vk.Error(vk.CreateDebugReportCallback(vr.context.Instance, &debugCreateInfo, nil, &dbg)); err != nil {
			return fmt.Errorf("vk.CreateDebugReportCallback failed with %w", err)
		}
		vr.context.debugMessenger = dbg
	}

	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.platform.CreateWindowSurface(vr.context.Instance)
	if err != nil {
		return fmt.Errorf("%w: surface: %v", core.ErrResourceCreation, err)
	}
	vr.context.Surface = vk.SurfaceFromPointer(surface)

	if err := DeviceCreate(vr.context); err != nil {
		return err
	}

	sc, err := SwapchainCreate(vr.context, width, height)
	if err != nil {
		return err
	}
	vr.context.Swapchain = sc
	vr.context.FramebufferWidth = sc.Extent.Width
	vr.context.FramebufferHeight = sc.Extent.Height

	// Clear values are replaced once the pipelines are created.
	rp, err := RenderpassCreate(vr.context, metadata.RenderPassConfig{ClearDepth: 1.0})
	if err != nil {
		return err
	}
	vr.context.MainRenderpass = rp
	if err := sc.CreateFramebuffers(vr.context, rp); err != nil {
		return err
	}

	vr.timeline = newFenceTimeline(vr.context, 2*config.FramesInFlight)

	vr.context.ImageAvailableSemaphores = make([]vk.Semaphore, config.FramesInFlight)
	for i := range vr.context.ImageAvailableSemaphores {
		if vr.context.ImageAvailableSemaphores[i], err = vr.createSemaphore(); err != nil {
			return err
		}
	}
	if err := vr.createImageSemaphores(); err != nil {
		return err
	}

	if vr.descriptors, err = DescriptorTableCreate(vr.context, uint32(config.FramesInFlight)); err != nil {
		return err
	}

	white := &metadata.Texture{
		Name:          "default",
		Width:         1,
		Height:        1,
		Pixels:        []uint8{255, 255, 255, 255},
		FilterMinify:  metadata.TextureFilterModeNearest,
		FilterMagnify: metadata.TextureFilterModeNearest,
		Repeat:        metadata.TextureRepeatRepeat,
	}
	if vr.defaultTexture, err = uploadTexture(vr.context, white); err != nil {
		return err
	}
	vr.textureGeneration = 1

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) createInstance() error {
	appInfo := &vk.ApplicationInfo{
		SType: vk.StructureTypeApplicationInfo,
		// 1.1 for negative viewport heights.
		ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(vr.config.ApplicationName),
		PEngineName:        VulkanSafeString("Pendulum Engine"),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := vr.platform.RequiredInstanceExtensions()
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR
		createInfo.Flags |= 1
	}

	var layers []string
	if vr.config.EnableValidation {
		requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
		layers = []string{"VK_LAYER_KHRONOS_validation"}
		if err := checkValidationLayers(layers); err != nil {
			return err
		}
	}
	core.LogDebug("Required extensions: %v", requiredExtensions)

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)
	createInfo.EnabledLayerCount = uint32(len(layers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(layers)

	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &vr.context.Instance); res != vk.Success {
		return fmt.Errorf("%w: %v", core.ErrResourceCreation, resultError(res, "vkCreateInstance"))
	}
	if err := vk.InitInstance(vr.context.Instance); err != nil {
		return err
	}
	core.LogInfo("Vulkan Instance created.")
	return nil
}

func checkValidationLayers(required []string) error {
	core.LogInfo("Validation layers enabled. Enumerating...")
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return resultError(res, "vkEnumerateInstanceLayerProperties")
	}
	available := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, available); res != vk.Success {
		return resultError(res, "vkEnumerateInstanceLayerProperties")
	}
	for _, name := range required {
		found := false
		for i := range available {
			available[i].Deref()
			if vk.ToString(available[i].LayerName[:]) == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("required validation layer is missing: %s", name)
		}
	}
	core.LogInfo("All required validation layers are present.")
	return nil
}

func (vr *VulkanRenderer) createSemaphore() (vk.Semaphore, error) {
	info := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	var semaphore vk.Semaphore
	if res := vk.CreateSemaphore(vr.context.Device.LogicalDevice, &info, vr.context.Allocator, &semaphore); res != vk.Success {
		return vk.NullSemaphore, resultError(res, "vkCreateSemaphore")
	}
	return semaphore, nil
}

// createImageSemaphores makes one render complete semaphore per swapchain image.
func (vr *VulkanRenderer) createImageSemaphores() error {
	vr.destroySemaphores(vr.context.QueueCompleteSemaphores)
	vr.context.QueueCompleteSemaphores = make([]vk.Semaphore, vr.context.Swapchain.ImageCount)
	for i := range vr.context.QueueCompleteSemaphores {
		s, err := vr.createSemaphore()
		if err != nil {
			return err
		}
		vr.context.QueueCompleteSemaphores[i] = s
	}
	return nil
}

func (vr *VulkanRenderer) destroySemaphores(semaphores []vk.Semaphore) {
	for i := range semaphores {
		if semaphores[i] != vk.NullSemaphore {
			vk.DestroySemaphore(vr.context.Device.LogicalDevice, semaphores[i], vr.context.Allocator)
			semaphores[i] = vk.NullSemaphore
		}
	}
}

func (vr *VulkanRenderer) Shutdown() error {
	if vr.context.Device == nil || vr.context.Device.LogicalDevice == nil {
		return nil
	}
	vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)

	// Destroy in the opposite order of creation.
	for _, g := range vr.geometries {
		g.destroy()
	}
	vr.geometries = nil
	for i, t := range vr.textures {
		if t != nil {
			t.destroy(vr.context)
			vr.textures[i] = nil
		}
	}
	if vr.defaultTexture != nil {
		vr.defaultTexture.destroy(vr.context)
		vr.defaultTexture = nil
	}
	vr.destroyPipelines()
	if vr.descriptors != nil {
		vr.descriptors.Destroy(vr.context)
		vr.descriptors = nil
	}
	if vr.timeline != nil {
		vr.timeline.destroy()
	}

	vr.destroySemaphores(vr.context.ImageAvailableSemaphores)
	vr.destroySemaphores(vr.context.QueueCompleteSemaphores)
	vr.context.ImageAvailableSemaphores = nil
	vr.context.QueueCompleteSemaphores = nil

	if vr.context.Swapchain != nil {
		vr.context.Swapchain.SwapchainDestroy(vr.context)
		vr.context.Swapchain = nil
	}
	if vr.context.MainRenderpass != nil {
		vr.context.MainRenderpass.RenderpassDestroy(vr.context)
		vr.context.MainRenderpass = nil
	}

	core.LogDebug("Destroying Vulkan device...")
	DeviceDestroy(vr.context)

	core.LogDebug("Destroying Vulkan surface...")
	if vr.context.Surface != vk.NullSurface {
		vk.DestroySurface(vr.context.Instance, vr.context.Surface, vr.context.Allocator)
		vr.context.Surface = vk.NullSurface
	}
	if vr.context.debugMessenger != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(vr.context.Instance, vr.context.debugMessenger, vr.context.Allocator)
		vr.context.debugMessenger = vk.NullDebugReportCallback
	}

	core.LogDebug("Destroying Vulkan instance...")
	vk.DestroyInstance(vr.context.Instance, vr.context.Allocator)
	return nil
}

func (vr *VulkanRenderer) Resized(width, height uint32) error {
	// Update the "framebuffer size generation", a counter which indicates when the
	// framebuffer size has been updated.
	vr.cachedFramebufferWidth = width
	vr.cachedFramebufferHeight = height
	vr.context.FramebufferSizeGeneration++
	core.LogInfo("Vulkan renderer backend->resized: w/h/gen: %d/%d/%d", width, height, vr.context.FramebufferSizeGeneration)
	return nil
}

func (vr *VulkanRenderer) Timeline() frame.Timeline {
	return vr.timeline
}

func (vr *VulkanRenderer) AllocateMapped(size uint64, usage frame.BufferUsage) (frame.MappedMemory, error) {
	buffer, err := BufferCreate(vr.context, size, bufferUsageFlags(usage),
		uint32(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		return nil, err
	}
	if _, err := buffer.Map(); err != nil {
		buffer.Destroy()
		return nil, err
	}
	return buffer, nil
}

func (vr *VulkanRenderer) NewCommandAllocator() (frame.CommandAllocator, error) {
	return newCommandAllocator(vr.context, vr.timeline)
}

func (vr *VulkanRenderer) CreatePipelines(configs [metadata.PipelineKindCount]metadata.PipelineConfig, pass metadata.RenderPassConfig) error {
	if vr.shaders == nil {
		return fmt.Errorf("%w: no shader loader", core.ErrPipelineCreation)
	}
	vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
	vr.destroyPipelines()
	vr.context.MainRenderpass.Clear = pass

	stages := map[string]*VulkanShaderStage{}
	defer func() {
		for _, s := range stages {
			s.Destroy(vr.context)
		}
	}()
	stage := func(name string, flag vk.ShaderStageFlagBits) (*VulkanShaderStage, error) {
		if s, ok := stages[name]; ok {
			return s, nil
		}
		code, err := vr.shaders(name)
		if err != nil {
			return nil, fmt.Errorf("%w: shader '%s': %v", core.ErrPipelineCreation, name, err)
		}
		s, err := NewShaderStage(vr.context, name, code, flag)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrPipelineCreation, err)
		}
		stages[name] = s
		return s, nil
	}

	for kind, c := range configs {
		if c.Kind != metadata.PipelineKind(kind) {
			return fmt.Errorf("%w: pipeline '%s' stored under kind %d", core.ErrPipelineCreation, c.Name, kind)
		}
		vert, err := stage(c.VertexShader, vk.ShaderStageVertexBit)
		if err != nil {
			return err
		}
		frag, err := stage(c.FragmentShader, vk.ShaderStageFragmentBit)
		if err != nil {
			return err
		}
		p, err := NewGraphicsPipeline(vr.context, &VulkanPipelineConfig{
			State:                c,
			Renderpass:           vr.context.MainRenderpass,
			DescriptorSetLayouts: []vk.DescriptorSetLayout{vr.descriptors.Layout},
			Stages:               []vk.PipelineShaderStageCreateInfo{vert.ShaderStageCreateInfo, frag.ShaderStageCreateInfo},
		})
		if err != nil {
			vr.destroyPipelines()
			return err
		}
		vr.pipelines[kind] = p
	}
	core.LogInfo("Created %d pipelines.", len(configs))
	return nil
}

func (vr *VulkanRenderer) destroyPipelines() {
	for i, p := range vr.pipelines {
		if p != nil {
			p.Destroy(vr.context)
			vr.pipelines[i] = nil
		}
	}
}

func (vr *VulkanRenderer) UploadGeometry(geometry *metadata.Geometry) error {
	data, err := uploadGeometry(vr.context, geometry)
	if err != nil {
		return err
	}
	if old, ok := geometry.InternalData.(*vulkanGeometryData); ok {
		vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
		old.destroy()
		vr.forgetGeometry(old)
	}
	geometry.InternalData = data
	vr.geometries = append(vr.geometries, data)
	return nil
}

func (vr *VulkanRenderer) forgetGeometry(g *vulkanGeometryData) {
	for i := range vr.geometries {
		if vr.geometries[i] == g {
			vr.geometries = append(vr.geometries[:i], vr.geometries[i+1:]...)
			return
		}
	}
}

// UploadTexture places the texture in the bound table at its ID.
func (vr *VulkanRenderer) UploadTexture(texture *metadata.Texture) error {
	if texture.ID >= VULKAN_MAX_TEXTURE_COUNT {
		return fmt.Errorf("%w: texture '%s' id %d exceeds the table size %d", core.ErrResourceCreation, texture.Name, texture.ID, VULKAN_MAX_TEXTURE_COUNT)
	}
	data, err := uploadTexture(vr.context, texture)
	if err != nil {
		return err
	}
	if old := vr.textures[texture.ID]; old != nil {
		vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
		old.destroy(vr.context)
	}
	vr.textures[texture.ID] = data
	vr.textureGeneration++
	texture.InternalData = data
	return nil
}

func (vr *VulkanRenderer) textureTable() []vk.DescriptorImageInfo {
	out := make([]vk.DescriptorImageInfo, VULKAN_MAX_TEXTURE_COUNT)
	for i := range out {
		t := vr.textures[i]
		if t == nil {
			t = vr.defaultTexture
		}
		out[i] = t.descriptor()
	}
	return out
}

func (vr *VulkanRenderer) recreateSwapchain() error {
	// If already being recreated, do not try again.
	if vr.context.RecreatingSwapchain {
		return core.ErrSwapchainBooting
	}
	// Detect if the window is too small to be drawn to
	if vr.cachedFramebufferWidth == 0 || vr.cachedFramebufferHeight == 0 {
		core.LogDebug("recreate_swapchain called when window is < 1 in a dimension. Booting.")
		return core.ErrSwapchainBooting
	}
	vr.context.RecreatingSwapchain = true
	defer func() { vr.context.RecreatingSwapchain = false }()

	if res := vk.DeviceWaitIdle(vr.context.Device.LogicalDevice); !VulkanResultIsSuccess(res) {
		return resultError(res, "vkDeviceWaitIdle")
	}

	if vr.context.Swapchain != nil {
		vr.context.Swapchain.SwapchainDestroy(vr.context)
		vr.context.Swapchain = nil
	}
	sc, err := SwapchainCreate(vr.context, vr.cachedFramebufferWidth, vr.cachedFramebufferHeight)
	if err != nil {
		return err
	}
	vr.context.Swapchain = sc
	if err := sc.CreateFramebuffers(vr.context, vr.context.MainRenderpass); err != nil {
		return err
	}
	if err := vr.createImageSemaphores(); err != nil {
		return err
	}

	// Sync the framebuffer size with the cached sizes.
	vr.context.FramebufferWidth = sc.Extent.Width
	vr.context.FramebufferHeight = sc.Extent.Height
	vr.context.FramebufferSizeLastGeneration = vr.context.FramebufferSizeGeneration
	core.LogInfo("Swapchain recreated at %dx%d.", sc.Extent.Width, sc.Extent.Height)
	return nil
}

// BeginFrame returns core.ErrSwapchainBooting when the swapchain had to be
// rebuilt; nothing is recorded for that frame.
func (vr *VulkanRenderer) BeginFrame(slot *frame.Resource) (renderer.CommandList, error) {
	if vr.pipelines[0] == nil {
		return nil, fmt.Errorf("%w: no pipelines", core.ErrPipelineCreation)
	}
	allocator, ok := slot.Commands.(*commandAllocator)
	if !ok {
		return nil, fmt.Errorf("frame slot %d was not created by the vulkan backend", slot.Index)
	}

	// Check if the framebuffer has been resized. If so, a new swapchain must be created.
	if vr.context.Swapchain == nil || vr.context.FramebufferSizeGeneration != vr.context.FramebufferSizeLastGeneration {
		if err := vr.recreateSwapchain(); err != nil && !errors.Is(err, core.ErrSwapchainBooting) {
			return nil, err
		}
		core.LogDebug("Resized, booting.")
		return nil, core.ErrSwapchainBooting
	}

	if err := allocator.Reset(); err != nil {
		return nil, fmt.Errorf("frame slot %d: %w", slot.Index, err)
	}

	// Acquire the next image from the swap chain. Pass along the semaphore that should signaled when this completes.
	// This same semaphore will later be waited on by the queue submission to ensure this image is available.
	imageIndex, err := vr.context.Swapchain.SwapchainAcquireNextImageIndex(vr.context, gomath.MaxUint64,
		vr.context.ImageAvailableSemaphores[slot.Index], vk.NullFence)
	if errors.Is(err, core.ErrSwapchainBooting) {
		vr.context.FramebufferSizeGeneration++
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	vr.context.ImageIndex = imageIndex
	vr.context.CurrentFrame = uint32(slot.Index)

	if err := vr.descriptors.Update(vr.context, slot, vr.textureTable(), vr.textureGeneration); err != nil {
		return nil, err
	}

	cb := allocator.buffer
	if err := cb.Begin(true); err != nil {
		return nil, err
	}

	extent := vr.context.Swapchain.Extent
	// Flipped so +Y is up in clip space.
	viewport := vk.Viewport{
		X:        0.0,
		Y:        float32(extent.Height),
		Width:    float32(extent.Width),
		Height:   -float32(extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}
	vk.CmdSetViewport(cb.Handle, 0, 1, []vk.Viewport{viewport})
	vk.CmdSetScissor(cb.Handle, 0, 1, []vk.Rect2D{scissor})

	vr.context.MainRenderpass.RenderpassBegin(cb, vr.context.Swapchain.Framebuffers[imageIndex].Handle, extent)

	return &commandList{
		backend:   vr,
		slot:      slot,
		allocator: allocator,
		buffer:    cb,
		set:       vr.descriptors.Sets[slot.Index],
		texture:   noTexture,
		dirty:     true,
	}, nil
}

func (vr *VulkanRenderer) EndFrame(list renderer.CommandList) error {
	l, ok := list.(*commandList)
	if !ok {
		return fmt.Errorf("command list %T was not recorded by the vulkan backend", list)
	}
	cb := l.buffer
	vr.context.MainRenderpass.RenderpassEnd(cb)
	if err := cb.End(); err != nil {
		return err
	}
	if l.err != nil {
		core.LogError("frame slot %d not submitted: %v", l.slot.Index, l.err)
		return l.err
	}

	fence, err := vr.timeline.acquireFence()
	if err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cb.Handle},
		// The semaphore(s) to be signaled when the queue is complete.
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{vr.context.QueueCompleteSemaphores[vr.context.ImageIndex]},
		// Wait semaphore ensures that the operation cannot begin until the image is available.
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{vr.context.ImageAvailableSemaphores[l.slot.Index]},
		PWaitDstStageMask:  []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
	}

	if err := lockPool.SafeQueueCall(uint32(vr.context.Device.GraphicsQueueIndex), func() error {
		if res := vk.QueueSubmit(vr.context.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, fence.Handle); res != vk.Success {
			return resultError(res, "vkQueueSubmit")
		}
		return nil
	}); err != nil {
		core.LogError(err.Error())
		return err
	}
	cb.UpdateSubmitted()

	if vr.pendingFence != nil {
		if err := vr.timeline.retain(vr.pendingFence); err != nil {
			return err
		}
	}
	vr.pendingFence = fence
	vr.pendingAllocators = append(vr.pendingAllocators, l.allocator)
	vr.presentPending = true
	return nil
}

func (vr *VulkanRenderer) Signal(value uint64) error {
	if err := vr.timeline.signal(value, vr.pendingFence); err != nil {
		return err
	}
	for _, a := range vr.pendingAllocators {
		a.value = value
	}
	vr.pendingAllocators = vr.pendingAllocators[:0]
	vr.pendingFence = nil
	return nil
}

func (vr *VulkanRenderer) Present() error {
	if !vr.presentPending {
		return nil
	}
	vr.presentPending = false

	recreate, err := vr.context.Swapchain.SwapchainPresent(vr.context, vr.context.Device.PresentQueue,
		vr.context.QueueCompleteSemaphores[vr.context.ImageIndex], vr.context.ImageIndex)
	if err != nil {
		return err
	}
	vr.FrameNumber++
	if recreate {
		// Swapchain is out of date, suboptimal or a framebuffer resize has occurred. Trigger swapchain recreation.
		vr.context.FramebufferSizeGeneration++
		return core.ErrSwapchainBooting
	}
	return nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogDebug("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
