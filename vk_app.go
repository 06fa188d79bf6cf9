package main

import (
	"errors"
	"fmt"
	"log"
	"time"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/vulkan"

	"kube/settings"
	"kube/vkw"
)

const (
	maxFramesInFlight = 2
)

var (
	deviceExtensions = []string{"VK_KHR_swapchain\x00"}
)

// uniformBufferObject is the per-frame uniform block bound at set 0,
// binding 0.
type uniformBufferObject struct {
	Model mgl32.Mat4
	View  mgl32.Mat4
	Proj  mgl32.Mat4
}

type queueFamilyIndices struct {
	graphicsFamily uint32
	presentFamily  uint32
	hasGraphics    bool
	hasPresent     bool
}

// VulkanApp owns every Vulkan object of the application. The window is
// borrowed: it is owned by the caller and must outlive the app.
type VulkanApp struct {
	cfg                 settings.Settings
	window              *vkw.Window
	instance            *vkw.Instance
	debugMessenger      *vkw.DebugMessenger
	surface             *vkw.Surface
	physicalDevice      vulkan.PhysicalDevice
	device              *vkw.Device
	memoryTypes         []vulkan.MemoryPropertyFlags
	graphicsQueue       vulkan.Queue
	presentQueue        vulkan.Queue
	queues              queueFamilyIndices
	swapchain           *vkw.Swapchain
	swapchainImages     []vulkan.Image
	swapchainViews      []*vkw.ImageView
	depthFormat         vulkan.Format
	depthImage          *vkw.BoundImage
	depthView           *vkw.ImageView
	renderPass          *vkw.RenderPass
	framebuffers        []*vkw.Framebuffer
	descriptorSetLayout *vkw.DescriptorSetLayout
	pipelineLayout      *vkw.PipelineLayout
	descriptorPool      *vkw.DescriptorPool
	sampler             *vkw.Sampler
	uniformBuffers      []*vkw.BoundBuffer
	descriptorSets      *vkw.DescriptorSets
	commandPool         *vkw.CommandPool
	commandBuffers      *vkw.CommandBuffers
	imageAvailable      []*vkw.Semaphore
	renderFinished      []*vkw.Semaphore
	inFlightFences      []*vkw.Fence
	imagesInFlight      []vulkan.Fence
	currentFrame        int
	framebufferResized  bool
	startTime           time.Time
}

func newVulkanApp(cfg settings.Settings, window *vkw.Window) (*VulkanApp, error) {
	app := &VulkanApp{
		cfg:       cfg,
		window:    window,
		swapchain: &vkw.Swapchain{},
	}
	if err := app.initVulkan(); err != nil {
		app.Cleanup()
		return nil, err
	}
	return app, nil
}

func (a *VulkanApp) initVulkan() error {
	steps := []func() error{
		a.createInstance,
		a.setupDebugMessenger,
		a.createSurface,
		a.pickPhysicalDevice,
		a.createLogicalDevice,
		a.chooseDepthFormat,
		a.createSwapchainResources,
		a.createSampler,
		a.createDescriptorSetLayout,
		a.createPipelineLayout,
		a.createDescriptorPool,
		a.createUniformBuffers,
		a.createDescriptorSets,
		a.createCommandPool,
		a.allocateCommandBuffers,
		a.createSyncObjects,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	a.startTime = time.Now()
	return nil
}

func makeVersion(v settings.Version) uint32 {
	return vulkan.MakeVersion(int(v.Major), int(v.Minor), int(v.Patch))
}

func (a *VulkanApp) createInstance() error {
	if a.cfg.Validation && !vkw.LayersSupported(vkw.ValidationLayers) {
		return errors.New("requested validation layers not available")
	}

	general := a.cfg.General
	appInfo := vulkan.ApplicationInfo{
		SType:              vulkan.StructureTypeApplicationInfo,
		PApplicationName:   general.AppName,
		ApplicationVersion: makeVersion(general.AppVersion),
		PEngineName:        general.EngineName,
		EngineVersion:      makeVersion(general.EngineVersion),
		ApiVersion:         makeVersion(general.APIVersion),
	}

	extensions := vkw.RequiredInstanceExtensions(a.window)
	if a.cfg.Validation {
		extensions = append(extensions, vkw.DebugReportExtension)
	}

	createInfo := vulkan.InstanceCreateInfo{
		SType:                   vulkan.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}
	if a.cfg.Validation {
		createInfo.EnabledLayerCount = uint32(len(vkw.ValidationLayers))
		createInfo.PpEnabledLayerNames = vkw.ValidationLayers
	}

	instance, err := vkw.NewInstance(&createInfo, nil)
	if err != nil {
		return err
	}
	a.instance = instance
	return nil
}

func (a *VulkanApp) setupDebugMessenger() error {
	if !a.cfg.Validation {
		return nil
	}
	createInfo := vkw.DebugReportCreateInfo()
	messenger, err := vkw.NewDebugMessenger(a.instance.Ref(), &createInfo, nil)
	if errors.Is(err, vkw.ErrExtensionUnavailable) {
		log.Printf("debug report unavailable, running without a debug messenger")
		return nil
	}
	if err != nil {
		return err
	}
	a.debugMessenger = messenger
	return nil
}

func (a *VulkanApp) createSurface() error {
	surface, err := vkw.NewSurface(a.instance.Ref(), a.window.MustRef(), nil)
	if err != nil {
		return err
	}
	a.surface = surface
	return nil
}

func (a *VulkanApp) pickPhysicalDevice() error {
	instance := a.instance.Ref()
	var count uint32
	if res := vulkan.EnumeratePhysicalDevices(instance, &count, nil); res != vulkan.Success {
		return fmt.Errorf("enumerate physical devices: %w", vulkan.Error(res))
	}
	if count == 0 {
		return errors.New("no Vulkan physical devices")
	}
	devices := make([]vulkan.PhysicalDevice, count)
	if res := vulkan.EnumeratePhysicalDevices(instance, &count, devices); res != vulkan.Success {
		return fmt.Errorf("enumerate physical devices list: %w", vulkan.Error(res))
	}

	var selected vulkan.PhysicalDevice
	var selectedQueues queueFamilyIndices
	bestScore := int32(-1)
	for _, dev := range devices {
		q := a.findQueueFamilies(dev)
		if !q.hasGraphics || !q.hasPresent {
			continue
		}
		if !vkw.ExtensionsSupported(dev, deviceExtensions) {
			continue
		}
		support := vkw.QuerySwapchainSupport(dev, a.surface.Ref())
		if len(support.Formats) == 0 || len(support.PresentModes) == 0 {
			continue
		}
		if score := deviceScore(dev); score > bestScore {
			bestScore = score
			selected = dev
			selectedQueues = q
		}
	}

	if selected == (vulkan.PhysicalDevice)(unsafe.Pointer(nil)) {
		return errors.New("no suitable GPU found")
	}

	a.physicalDevice = selected
	a.queues = selectedQueues
	a.memoryTypes = vkw.MemoryTypes(selected)
	return nil
}

func deviceScore(device vulkan.PhysicalDevice) int32 {
	var props vulkan.PhysicalDeviceProperties
	vulkan.GetPhysicalDeviceProperties(device, &props)
	props.Deref()

	switch props.DeviceType {
	case vulkan.PhysicalDeviceTypeDiscreteGpu:
		return 1000
	case vulkan.PhysicalDeviceTypeIntegratedGpu:
		return 500
	default:
		return 100
	}
}

func (a *VulkanApp) findQueueFamilies(device vulkan.PhysicalDevice) queueFamilyIndices {
	var count uint32
	vulkan.GetPhysicalDeviceQueueFamilyProperties(device, &count, nil)
	props := make([]vulkan.QueueFamilyProperties, count)
	vulkan.GetPhysicalDeviceQueueFamilyProperties(device, &count, props)

	var indices queueFamilyIndices
	for i := range props {
		props[i].Deref()
		if props[i].QueueFlags&vulkan.QueueFlags(vulkan.QueueGraphicsBit) != 0 {
			indices.graphicsFamily = uint32(i)
			indices.hasGraphics = true
		}
		var present vulkan.Bool32
		vulkan.GetPhysicalDeviceSurfaceSupport(device, uint32(i), a.surface.Ref(), &present)
		if present == vulkan.True {
			indices.presentFamily = uint32(i)
			indices.hasPresent = true
		}
		if indices.hasGraphics && indices.hasPresent {
			break
		}
	}
	return indices
}

func (a *VulkanApp) createLogicalDevice() error {
	queueInfos := []vulkan.DeviceQueueCreateInfo{}
	uniqueFamilies := map[uint32]bool{
		a.queues.graphicsFamily: true,
		a.queues.presentFamily:  true,
	}
	priority := float32(1.0)
	for family := range uniqueFamilies {
		queueInfos = append(queueInfos, vulkan.DeviceQueueCreateInfo{
			SType:            vulkan.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{priority},
		})
	}

	createInfo := vulkan.DeviceCreateInfo{
		SType:                   vulkan.StructureTypeDeviceCreateInfo,
		PQueueCreateInfos:       queueInfos,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PEnabledFeatures:        []vulkan.PhysicalDeviceFeatures{{}},
		PpEnabledExtensionNames: deviceExtensions,
		EnabledExtensionCount:   uint32(len(deviceExtensions)),
	}
	if a.cfg.Validation {
		createInfo.EnabledLayerCount = uint32(len(vkw.ValidationLayers))
		createInfo.PpEnabledLayerNames = vkw.ValidationLayers
	}

	device, err := vkw.NewDevice(a.physicalDevice, &createInfo, nil)
	if err != nil {
		return err
	}
	a.device = device

	vulkan.GetDeviceQueue(device.Ref(), a.queues.graphicsFamily, 0, &a.graphicsQueue)
	vulkan.GetDeviceQueue(device.Ref(), a.queues.presentFamily, 0, &a.presentQueue)
	return nil
}

func presentMode(m settings.PresentMode) vulkan.PresentMode {
	switch m {
	case settings.Immediate:
		return vulkan.PresentModeImmediate
	case settings.Mailbox:
		return vulkan.PresentModeMailbox
	case settings.FifoRelaxed:
		return vulkan.PresentModeFifoRelaxed
	default:
		return vulkan.PresentModeFifo
	}
}

// newSwapchain creates a swapchain for the current surface state,
// retiring old if it is not null.
func (a *VulkanApp) newSwapchain(old vulkan.Swapchain) (*vkw.Swapchain, error) {
	support := vkw.QuerySwapchainSupport(a.physicalDevice, a.surface.Ref())
	if len(support.Formats) == 0 {
		return nil, errors.New("surface has no formats")
	}

	surfaceFormat := vkw.ChooseSurfaceFormat(support.Formats)
	w, h := vkw.FramebufferSize(a.window)

	createInfo := vulkan.SwapchainCreateInfo{
		SType:            vulkan.StructureTypeSwapchainCreateInfo,
		Surface:          a.surface.Ref(),
		MinImageCount:    vkw.ImageCount(support.Capabilities),
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      vkw.ChooseExtent(support.Capabilities, w, h),
		ImageArrayLayers: 1,
		ImageUsage:       vulkan.ImageUsageFlags(vulkan.ImageUsageColorAttachmentBit),
		PreTransform:     support.Capabilities.CurrentTransform,
		CompositeAlpha:   vulkan.CompositeAlphaOpaqueBit,
		PresentMode:      vkw.ChoosePresentMode(support.PresentModes, presentMode(a.cfg.Graphics.PresentMode)),
		Clipped:          vulkan.True,
		OldSwapchain:     old,
	}

	if a.queues.graphicsFamily != a.queues.presentFamily {
		indices := []uint32{a.queues.graphicsFamily, a.queues.presentFamily}
		createInfo.ImageSharingMode = vulkan.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = uint32(len(indices))
		createInfo.PQueueFamilyIndices = indices
	} else {
		createInfo.ImageSharingMode = vulkan.SharingModeExclusive
	}

	return vkw.NewSwapchain(a.device.Ref(), &createInfo, nil)
}

// createSwapchainResources creates the swapchain, replacing the current
// one, and everything that depends on its images.
func (a *VulkanApp) createSwapchainResources() error {
	swapchain, err := a.newSwapchain(a.swapchain.Ref())
	if err != nil {
		return err
	}
	// The retired swapchain is destroyed here, after its replacement exists.
	a.swapchain.Assign(swapchain)

	if a.swapchainImages, err = a.swapchain.Images(); err != nil {
		return err
	}
	steps := []func() error{
		a.createImageViews,
		a.createDepthResources,
		a.createRenderPass,
		a.createFramebuffers,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	a.imagesInFlight = make([]vulkan.Fence, len(a.swapchainImages))
	return nil
}

func (a *VulkanApp) createImageViews() error {
	a.swapchainViews = make([]*vkw.ImageView, 0, len(a.swapchainImages))
	for i, img := range a.swapchainImages {
		viewInfo := vulkan.ImageViewCreateInfo{
			SType:    vulkan.StructureTypeImageViewCreateInfo,
			Image:    img,
			ViewType: vulkan.ImageViewType2d,
			Format:   a.swapchain.Format(),
			Components: vulkan.ComponentMapping{
				R: vulkan.ComponentSwizzleIdentity,
				G: vulkan.ComponentSwizzleIdentity,
				B: vulkan.ComponentSwizzleIdentity,
				A: vulkan.ComponentSwizzleIdentity,
			},
			SubresourceRange: vulkan.ImageSubresourceRange{
				AspectMask: vulkan.ImageAspectFlags(vulkan.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}
		view, err := vkw.NewImageView(a.device.Ref(), &viewInfo, nil)
		if err != nil {
			return fmt.Errorf("create image view %d: %w", i, err)
		}
		a.swapchainViews = append(a.swapchainViews, view)
	}
	return nil
}

// chooseDepthFormat picks the first depth format the device supports
// as an optimally tiled attachment.
func (a *VulkanApp) chooseDepthFormat() error {
	candidates := []vulkan.Format{
		vulkan.FormatD32Sfloat,
		vulkan.FormatD32SfloatS8Uint,
		vulkan.FormatD24UnormS8Uint,
	}
	format, err := a.findSupportedFormat(candidates, vulkan.ImageTilingOptimal, vulkan.FormatFeatureFlags(vulkan.FormatFeatureDepthStencilAttachmentBit))
	if err != nil {
		return fmt.Errorf("depth format: %w", err)
	}
	a.depthFormat = format
	return nil
}

func (a *VulkanApp) findSupportedFormat(candidates []vulkan.Format, tiling vulkan.ImageTiling, features vulkan.FormatFeatureFlags) (vulkan.Format, error) {
	for _, format := range candidates {
		var props vulkan.FormatProperties
		vulkan.GetPhysicalDeviceFormatProperties(a.physicalDevice, format, &props)
		props.Deref()
		if tiling == vulkan.ImageTilingLinear && props.LinearTilingFeatures&features == features {
			return format, nil
		}
		if tiling == vulkan.ImageTilingOptimal && props.OptimalTilingFeatures&features == features {
			return format, nil
		}
	}
	return vulkan.FormatUndefined, errors.New("no supported format found")
}

// createDepthResources creates the depth attachment matching the
// current swapchain extent.
func (a *VulkanApp) createDepthResources() error {
	extent := a.swapchain.Extent()
	imageInfo := vulkan.ImageCreateInfo{
		SType:     vulkan.StructureTypeImageCreateInfo,
		ImageType: vulkan.ImageType2d,
		Extent: vulkan.Extent3D{
			Width:  extent.Width,
			Height: extent.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        a.depthFormat,
		Tiling:        vulkan.ImageTilingOptimal,
		InitialLayout: vulkan.ImageLayoutUndefined,
		Usage:         vulkan.ImageUsageFlags(vulkan.ImageUsageDepthStencilAttachmentBit),
		Samples:       vulkan.SampleCount1Bit,
		SharingMode:   vulkan.SharingModeExclusive,
	}
	image, err := vkw.NewBoundImage(a.device.Ref(), a.memoryTypes, &imageInfo, vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyDeviceLocalBit), nil)
	if err != nil {
		return fmt.Errorf("create depth image: %w", err)
	}
	a.depthImage = image

	viewInfo := vulkan.ImageViewCreateInfo{
		SType:    vulkan.StructureTypeImageViewCreateInfo,
		Image:    image.Ref(),
		ViewType: vulkan.ImageViewType2d,
		Format:   a.depthFormat,
		SubresourceRange: vulkan.ImageSubresourceRange{
			AspectMask: vulkan.ImageAspectFlags(vulkan.ImageAspectDepthBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}
	view, err := vkw.NewImageView(a.device.Ref(), &viewInfo, nil)
	if err != nil {
		return fmt.Errorf("create depth image view: %w", err)
	}
	a.depthView = view
	return nil
}

func (a *VulkanApp) createRenderPass() error {
	colorAttachment := vulkan.AttachmentDescription{
		Format:         a.swapchain.Format(),
		Samples:        vulkan.SampleCount1Bit,
		LoadOp:         vulkan.AttachmentLoadOpClear,
		StoreOp:        vulkan.AttachmentStoreOpStore,
		StencilLoadOp:  vulkan.AttachmentLoadOpDontCare,
		StencilStoreOp: vulkan.AttachmentStoreOpDontCare,
		InitialLayout:  vulkan.ImageLayoutUndefined,
		FinalLayout:    vulkan.ImageLayoutPresentSrc,
	}
	depthAttachment := vulkan.AttachmentDescription{
		Format:         a.depthFormat,
		Samples:        vulkan.SampleCount1Bit,
		LoadOp:         vulkan.AttachmentLoadOpClear,
		StoreOp:        vulkan.AttachmentStoreOpDontCare,
		StencilLoadOp:  vulkan.AttachmentLoadOpDontCare,
		StencilStoreOp: vulkan.AttachmentStoreOpDontCare,
		InitialLayout:  vulkan.ImageLayoutUndefined,
		FinalLayout:    vulkan.ImageLayoutDepthStencilAttachmentOptimal,
	}
	colorRef := vulkan.AttachmentReference{
		Attachment: 0,
		Layout:     vulkan.ImageLayoutColorAttachmentOptimal,
	}
	depthRef := vulkan.AttachmentReference{
		Attachment: 1,
		Layout:     vulkan.ImageLayoutDepthStencilAttachmentOptimal,
	}
	subpass := vulkan.SubpassDescription{
		PipelineBindPoint:       vulkan.PipelineBindPointGraphics,
		ColorAttachmentCount:    1,
		PColorAttachments:       []vulkan.AttachmentReference{colorRef},
		PDepthStencilAttachment: &depthRef,
	}
	dependency := vulkan.SubpassDependency{
		SrcSubpass:    vulkan.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vulkan.PipelineStageFlags(vulkan.PipelineStageColorAttachmentOutputBit | vulkan.PipelineStageEarlyFragmentTestsBit),
		DstStageMask:  vulkan.PipelineStageFlags(vulkan.PipelineStageColorAttachmentOutputBit | vulkan.PipelineStageEarlyFragmentTestsBit),
		DstAccessMask: vulkan.AccessFlags(vulkan.AccessColorAttachmentWriteBit | vulkan.AccessDepthStencilAttachmentWriteBit),
	}
	attachments := []vulkan.AttachmentDescription{colorAttachment, depthAttachment}
	createInfo := vulkan.RenderPassCreateInfo{
		SType:           vulkan.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vulkan.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vulkan.SubpassDependency{dependency},
	}
	renderPass, err := vkw.NewRenderPass(a.device.Ref(), &createInfo, nil)
	if err != nil {
		return err
	}
	a.renderPass = renderPass
	return nil
}

func (a *VulkanApp) createFramebuffers() error {
	extent := a.swapchain.Extent()
	a.framebuffers = make([]*vkw.Framebuffer, 0, len(a.swapchainViews))
	for i, view := range a.swapchainViews {
		createInfo := vulkan.FramebufferCreateInfo{
			SType:           vulkan.StructureTypeFramebufferCreateInfo,
			RenderPass:      a.renderPass.Ref(),
			AttachmentCount: 2,
			PAttachments:    []vulkan.ImageView{view.Ref(), a.depthView.Ref()},
			Width:           extent.Width,
			Height:          extent.Height,
			Layers:          1,
		}
		fb, err := vkw.NewFramebuffer(a.device.Ref(), &createInfo, nil)
		if err != nil {
			return fmt.Errorf("create framebuffer %d: %w", i, err)
		}
		a.framebuffers = append(a.framebuffers, fb)
	}
	return nil
}

// createDescriptorSetLayout creates the layout bound at set 0: the
// per-frame uniform buffer and the immutable sampler.
func (a *VulkanApp) createDescriptorSetLayout() error {
	uLayoutBinding := vulkan.DescriptorSetLayoutBinding{
		Binding:         0,
		DescriptorType:  vulkan.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
		StageFlags:      vulkan.ShaderStageFlags(vulkan.ShaderStageVertexBit),
	}
	samplerBinding := vulkan.DescriptorSetLayoutBinding{
		Binding:            1,
		DescriptorType:     vulkan.DescriptorTypeSampler,
		DescriptorCount:    1,
		StageFlags:         vulkan.ShaderStageFlags(vulkan.ShaderStageFragmentBit),
		PImmutableSamplers: []vulkan.Sampler{a.sampler.Ref()},
	}
	bindings := []vulkan.DescriptorSetLayoutBinding{uLayoutBinding, samplerBinding}
	layoutInfo := vulkan.DescriptorSetLayoutCreateInfo{
		SType:        vulkan.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	layout, err := vkw.NewDescriptorSetLayout(a.device.Ref(), &layoutInfo, nil)
	if err != nil {
		return err
	}
	a.descriptorSetLayout = layout
	return nil
}

func (a *VulkanApp) createCommandPool() error {
	poolInfo := vulkan.CommandPoolCreateInfo{
		SType:            vulkan.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: a.queues.graphicsFamily,
		Flags:            vulkan.CommandPoolCreateFlags(vulkan.CommandPoolCreateResetCommandBufferBit),
	}
	pool, err := vkw.NewCommandPool(a.device.Ref(), &poolInfo, nil)
	if err != nil {
		return err
	}
	a.commandPool = pool
	return nil
}

// allocateCommandBuffers allocates one primary command buffer per
// framebuffer.
func (a *VulkanApp) allocateCommandBuffers() error {
	allocInfo := vulkan.CommandBufferAllocateInfo{
		SType:              vulkan.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        a.commandPool.Ref(),
		Level:              vulkan.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(len(a.framebuffers)),
	}
	buffers, err := vkw.AllocateCommandBuffers(a.device.Ref(), &allocInfo)
	if err != nil {
		return err
	}
	a.commandBuffers = buffers
	return nil
}

func (a *VulkanApp) createSyncObjects() error {
	semInfo := vulkan.SemaphoreCreateInfo{
		SType: vulkan.StructureTypeSemaphoreCreateInfo,
	}
	fenceInfo := vulkan.FenceCreateInfo{
		SType: vulkan.StructureTypeFenceCreateInfo,
		Flags: vulkan.FenceCreateFlags(vulkan.FenceCreateSignaledBit),
	}

	device := a.device.Ref()
	var err error
	if a.imageAvailable, err = vkw.NewSemaphores(device, maxFramesInFlight, &semInfo, nil); err != nil {
		return fmt.Errorf("imageAvailable semaphores: %w", err)
	}
	if a.renderFinished, err = vkw.NewSemaphores(device, maxFramesInFlight, &semInfo, nil); err != nil {
		return fmt.Errorf("renderFinished semaphores: %w", err)
	}
	if a.inFlightFences, err = vkw.NewFences(device, maxFramesInFlight, &fenceInfo, nil); err != nil {
		return fmt.Errorf("in-flight fences: %w", err)
	}
	return nil
}

func (a *VulkanApp) requestSwapchainRecreate() {
	a.framebufferResized = true
}

// cleanupSwapchain destroys the objects that depend on the swapchain
// images. The swapchain itself is kept so it can be retired by its
// replacement.
func (a *VulkanApp) cleanupSwapchain() {
	a.commandBuffers.Destroy()
	a.commandBuffers = nil
	vkw.DestroyAll(a.framebuffers)
	a.framebuffers = nil
	a.renderPass.Destroy()
	a.renderPass = nil
	a.depthView.Destroy()
	a.depthView = nil
	a.depthImage.Destroy()
	a.depthImage = nil
	vkw.DestroyAll(a.swapchainViews)
	a.swapchainViews = nil
	a.swapchainImages = nil
}

func (a *VulkanApp) recreateSwapchain() error {
	vkw.WaitWhileMinimized(a.window)
	vulkan.DeviceWaitIdle(a.device.Ref())
	a.cleanupSwapchain()

	if err := a.createSwapchainResources(); err != nil {
		return err
	}
	if err := a.allocateCommandBuffers(); err != nil {
		return err
	}
	a.framebufferResized = false
	return nil
}

// Cleanup destroys every object in reverse creation order. It is safe
// to call on a partially initialized app and more than once.
func (a *VulkanApp) Cleanup() {
	if a.device.Owned() {
		vulkan.DeviceWaitIdle(a.device.Ref())
	}

	vkw.DestroyAll(a.inFlightFences)
	vkw.DestroyAll(a.renderFinished)
	vkw.DestroyAll(a.imageAvailable)
	a.cleanupSwapchain()
	a.commandPool.Destroy()
	a.descriptorSets.Destroy()
	for _, b := range a.uniformBuffers {
		b.Destroy()
	}
	a.uniformBuffers = nil
	a.descriptorPool.Destroy()
	a.pipelineLayout.Destroy()
	a.descriptorSetLayout.Destroy()
	a.sampler.Destroy()
	a.swapchain.Destroy()
	a.device.Destroy()
	a.debugMessenger.Destroy()
	a.surface.Destroy()
	a.instance.Destroy()
}
