package vkw

import "github.com/vulkan-go/vulkan"

// Raw destroy functions. Each releases one native handle given its
// parent and allocation callbacks, and does nothing for a null handle.

func isNull[H comparable](h H) bool {
	var null H
	return h == null
}

func DestroyInstance(instance vulkan.Instance, alloc *vulkan.AllocationCallbacks) {
	if isNull(instance) {
		return
	}
	vulkan.DestroyInstance(instance, alloc)
}

func DestroyDevice(device vulkan.Device, alloc *vulkan.AllocationCallbacks) {
	if isNull(device) {
		return
	}
	vulkan.DestroyDevice(device, alloc)
}

func DestroySurface(instance vulkan.Instance, surface vulkan.Surface, alloc *vulkan.AllocationCallbacks) {
	if isNull(surface) {
		return
	}
	vulkan.DestroySurface(instance, surface, alloc)
}

func DestroySwapchain(device vulkan.Device, swapchain vulkan.Swapchain, alloc *vulkan.AllocationCallbacks) {
	if isNull(swapchain) {
		return
	}
	vulkan.DestroySwapchain(device, swapchain, alloc)
}

func DestroyDescriptorSetLayout(device vulkan.Device, layout vulkan.DescriptorSetLayout, alloc *vulkan.AllocationCallbacks) {
	if isNull(layout) {
		return
	}
	vulkan.DestroyDescriptorSetLayout(device, layout, alloc)
}

func DestroyFence(device vulkan.Device, fence vulkan.Fence, alloc *vulkan.AllocationCallbacks) {
	if isNull(fence) {
		return
	}
	vulkan.DestroyFence(device, fence, alloc)
}

func DestroySemaphore(device vulkan.Device, semaphore vulkan.Semaphore, alloc *vulkan.AllocationCallbacks) {
	if isNull(semaphore) {
		return
	}
	vulkan.DestroySemaphore(device, semaphore, alloc)
}

func DestroyImageView(device vulkan.Device, view vulkan.ImageView, alloc *vulkan.AllocationCallbacks) {
	if isNull(view) {
		return
	}
	vulkan.DestroyImageView(device, view, alloc)
}

func DestroyRenderPass(device vulkan.Device, renderPass vulkan.RenderPass, alloc *vulkan.AllocationCallbacks) {
	if isNull(renderPass) {
		return
	}
	vulkan.DestroyRenderPass(device, renderPass, alloc)
}

func DestroyFramebuffer(device vulkan.Device, framebuffer vulkan.Framebuffer, alloc *vulkan.AllocationCallbacks) {
	if isNull(framebuffer) {
		return
	}
	vulkan.DestroyFramebuffer(device, framebuffer, alloc)
}

// DestroyCommandPool also frees every command buffer allocated from pool.
func DestroyCommandPool(device vulkan.Device, pool vulkan.CommandPool, alloc *vulkan.AllocationCallbacks) {
	if isNull(pool) {
		return
	}
	vulkan.DestroyCommandPool(device, pool, alloc)
}

func DestroyPipelineLayout(device vulkan.Device, layout vulkan.PipelineLayout, alloc *vulkan.AllocationCallbacks) {
	if isNull(layout) {
		return
	}
	vulkan.DestroyPipelineLayout(device, layout, alloc)
}

// DestroyDescriptorPool also frees every descriptor set allocated from pool.
func DestroyDescriptorPool(device vulkan.Device, pool vulkan.DescriptorPool, alloc *vulkan.AllocationCallbacks) {
	if isNull(pool) {
		return
	}
	vulkan.DestroyDescriptorPool(device, pool, alloc)
}

func DestroySampler(device vulkan.Device, sampler vulkan.Sampler, alloc *vulkan.AllocationCallbacks) {
	if isNull(sampler) {
		return
	}
	vulkan.DestroySampler(device, sampler, alloc)
}

func DestroyBuffer(device vulkan.Device, buffer vulkan.Buffer, alloc *vulkan.AllocationCallbacks) {
	if isNull(buffer) {
		return
	}
	vulkan.DestroyBuffer(device, buffer, alloc)
}

func DestroyImage(device vulkan.Device, image vulkan.Image, alloc *vulkan.AllocationCallbacks) {
	if isNull(image) {
		return
	}
	vulkan.DestroyImage(device, image, alloc)
}

// FreeMemory releases a device memory allocation. Resources bound to it
// must be destroyed first.
func FreeMemory(device vulkan.Device, memory vulkan.DeviceMemory, alloc *vulkan.AllocationCallbacks) {
	if isNull(memory) {
		return
	}
	vulkan.FreeMemory(device, memory, alloc)
}
