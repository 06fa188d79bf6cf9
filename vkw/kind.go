package vkw

// Kind identifies the type of native resource held by a Handle.
type Kind int

const (
	KindUnknown Kind = iota
	KindWindow
	KindInstance
	KindDevice
	KindSurface
	KindSwapchain
	KindDescriptorSetLayout
	KindFence
	KindSemaphore
	KindDebugMessenger
	KindImageView
	KindRenderPass
	KindFramebuffer
	KindCommandPool
	KindPipelineLayout
	KindDescriptorPool
	KindSampler
	KindBuffer
	KindDeviceMemory
	KindImage
	KindDescriptorSets
	KindCommandBuffers
)

var kindNames = [...]string{
	KindUnknown:             "unknown",
	KindWindow:              "window",
	KindInstance:            "instance",
	KindDevice:              "device",
	KindSurface:             "surface",
	KindSwapchain:           "swapchain",
	KindDescriptorSetLayout: "descriptor set layout",
	KindFence:               "fence",
	KindSemaphore:           "semaphore",
	KindDebugMessenger:      "debug messenger",
	KindImageView:           "image view",
	KindRenderPass:          "render pass",
	KindFramebuffer:         "framebuffer",
	KindCommandPool:         "command pool",
	KindPipelineLayout:      "pipeline layout",
	KindDescriptorPool:      "descriptor pool",
	KindSampler:             "sampler",
	KindBuffer:              "buffer",
	KindDeviceMemory:        "device memory",
	KindImage:               "image",
	KindDescriptorSets:      "descriptor sets",
	KindCommandBuffers:      "command buffers",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}
