package vkw

import (
	"fmt"

	"github.com/vulkan-go/vulkan"
)

// funcTrait adapts a native create/destroy function pair to Trait.
type funcTrait[P any, H comparable, I any] struct {
	kind    Kind
	create  func(P, *I, *vulkan.AllocationCallbacks, *H) vulkan.Result
	destroy func(P, H, *vulkan.AllocationCallbacks)
}

func (t funcTrait[P, H, I]) Kind() Kind { return t.kind }

func (t funcTrait[P, H, I]) Create(parent P, info *I, alloc *vulkan.AllocationCallbacks) (H, error) {
	var h H
	if err := checkResult(t.create(parent, info, alloc, &h)); err != nil {
		var null H
		return null, err
	}
	return h, nil
}

func (t funcTrait[P, H, I]) Destroy(parent P, h H, alloc *vulkan.AllocationCallbacks) {
	t.destroy(parent, h, alloc)
}

// NoParent is the parent type of resources destroyed without one.
type NoParent struct{}

type (
	Instance            = Handle[NoParent, vulkan.Instance]
	Device              = Handle[vulkan.PhysicalDevice, vulkan.Device]
	DescriptorSetLayout = Handle[vulkan.Device, vulkan.DescriptorSetLayout]
	Fence               = Handle[vulkan.Device, vulkan.Fence]
	Semaphore           = Handle[vulkan.Device, vulkan.Semaphore]
	ImageView           = Handle[vulkan.Device, vulkan.ImageView]
	RenderPass          = Handle[vulkan.Device, vulkan.RenderPass]
	Framebuffer         = Handle[vulkan.Device, vulkan.Framebuffer]
	CommandPool         = Handle[vulkan.Device, vulkan.CommandPool]
	PipelineLayout      = Handle[vulkan.Device, vulkan.PipelineLayout]
	DescriptorPool      = Handle[vulkan.Device, vulkan.DescriptorPool]
	Sampler             = Handle[vulkan.Device, vulkan.Sampler]
)

var (
	instanceTrait Trait[NoParent, vulkan.Instance, vulkan.InstanceCreateInfo] = funcTrait[NoParent, vulkan.Instance, vulkan.InstanceCreateInfo]{
		kind:    KindInstance,
		create:  createInstance,
		destroy: func(_ NoParent, i vulkan.Instance, alloc *vulkan.AllocationCallbacks) { DestroyInstance(i, alloc) },
	}
	deviceTrait Trait[vulkan.PhysicalDevice, vulkan.Device, vulkan.DeviceCreateInfo] = funcTrait[vulkan.PhysicalDevice, vulkan.Device, vulkan.DeviceCreateInfo]{
		kind:    KindDevice,
		create:  vulkan.CreateDevice,
		destroy: func(_ vulkan.PhysicalDevice, d vulkan.Device, alloc *vulkan.AllocationCallbacks) { DestroyDevice(d, alloc) },
	}
	descriptorSetLayoutTrait Trait[vulkan.Device, vulkan.DescriptorSetLayout, vulkan.DescriptorSetLayoutCreateInfo] = funcTrait[vulkan.Device, vulkan.DescriptorSetLayout, vulkan.DescriptorSetLayoutCreateInfo]{
		kind:    KindDescriptorSetLayout,
		create:  vulkan.CreateDescriptorSetLayout,
		destroy: DestroyDescriptorSetLayout,
	}
	fenceTrait Trait[vulkan.Device, vulkan.Fence, vulkan.FenceCreateInfo] = funcTrait[vulkan.Device, vulkan.Fence, vulkan.FenceCreateInfo]{
		kind:    KindFence,
		create:  vulkan.CreateFence,
		destroy: DestroyFence,
	}
	semaphoreTrait Trait[vulkan.Device, vulkan.Semaphore, vulkan.SemaphoreCreateInfo] = funcTrait[vulkan.Device, vulkan.Semaphore, vulkan.SemaphoreCreateInfo]{
		kind:    KindSemaphore,
		create:  vulkan.CreateSemaphore,
		destroy: DestroySemaphore,
	}
	imageViewTrait Trait[vulkan.Device, vulkan.ImageView, vulkan.ImageViewCreateInfo] = funcTrait[vulkan.Device, vulkan.ImageView, vulkan.ImageViewCreateInfo]{
		kind:    KindImageView,
		create:  vulkan.CreateImageView,
		destroy: DestroyImageView,
	}
	renderPassTrait Trait[vulkan.Device, vulkan.RenderPass, vulkan.RenderPassCreateInfo] = funcTrait[vulkan.Device, vulkan.RenderPass, vulkan.RenderPassCreateInfo]{
		kind:    KindRenderPass,
		create:  vulkan.CreateRenderPass,
		destroy: DestroyRenderPass,
	}
	framebufferTrait Trait[vulkan.Device, vulkan.Framebuffer, vulkan.FramebufferCreateInfo] = funcTrait[vulkan.Device, vulkan.Framebuffer, vulkan.FramebufferCreateInfo]{
		kind:    KindFramebuffer,
		create:  vulkan.CreateFramebuffer,
		destroy: DestroyFramebuffer,
	}
	commandPoolTrait Trait[vulkan.Device, vulkan.CommandPool, vulkan.CommandPoolCreateInfo] = funcTrait[vulkan.Device, vulkan.CommandPool, vulkan.CommandPoolCreateInfo]{
		kind:    KindCommandPool,
		create:  vulkan.CreateCommandPool,
		destroy: DestroyCommandPool,
	}
	pipelineLayoutTrait Trait[vulkan.Device, vulkan.PipelineLayout, vulkan.PipelineLayoutCreateInfo] = funcTrait[vulkan.Device, vulkan.PipelineLayout, vulkan.PipelineLayoutCreateInfo]{
		kind:    KindPipelineLayout,
		create:  vulkan.CreatePipelineLayout,
		destroy: DestroyPipelineLayout,
	}
	descriptorPoolTrait Trait[vulkan.Device, vulkan.DescriptorPool, vulkan.DescriptorPoolCreateInfo] = funcTrait[vulkan.Device, vulkan.DescriptorPool, vulkan.DescriptorPoolCreateInfo]{
		kind:    KindDescriptorPool,
		create:  vulkan.CreateDescriptorPool,
		destroy: DestroyDescriptorPool,
	}
	samplerTrait Trait[vulkan.Device, vulkan.Sampler, vulkan.SamplerCreateInfo] = funcTrait[vulkan.Device, vulkan.Sampler, vulkan.SamplerCreateInfo]{
		kind:    KindSampler,
		create:  vulkan.CreateSampler,
		destroy: DestroySampler,
	}
)

// createInstance creates the instance and loads its instance-level
// entry points into vulkan-go.
func createInstance(_ NoParent, info *vulkan.InstanceCreateInfo, alloc *vulkan.AllocationCallbacks, out *vulkan.Instance) vulkan.Result {
	if res := vulkan.CreateInstance(info, alloc, out); res != vulkan.Success {
		return res
	}
	if err := vulkan.InitInstance(*out); err != nil {
		vulkan.DestroyInstance(*out, alloc)
		*out = vulkan.Instance(vulkan.NullHandle)
		return vulkan.ErrorInitializationFailed
	}
	return vulkan.Success
}

// NewInstance creates a Vulkan instance. The vulkan-go loader must have
// been initialized, see NewContext.
func NewInstance(info *vulkan.InstanceCreateInfo, alloc *vulkan.AllocationCallbacks) (*Instance, error) {
	return New(instanceTrait, NoParent{}, info, alloc)
}

// NewDevice creates a logical device on physicalDevice.
func NewDevice(physicalDevice vulkan.PhysicalDevice, info *vulkan.DeviceCreateInfo, alloc *vulkan.AllocationCallbacks) (*Device, error) {
	return New(deviceTrait, physicalDevice, info, alloc)
}

func NewDescriptorSetLayout(device vulkan.Device, info *vulkan.DescriptorSetLayoutCreateInfo, alloc *vulkan.AllocationCallbacks) (*DescriptorSetLayout, error) {
	return New(descriptorSetLayoutTrait, device, info, alloc)
}

func NewFence(device vulkan.Device, info *vulkan.FenceCreateInfo, alloc *vulkan.AllocationCallbacks) (*Fence, error) {
	return New(fenceTrait, device, info, alloc)
}

func NewSemaphore(device vulkan.Device, info *vulkan.SemaphoreCreateInfo, alloc *vulkan.AllocationCallbacks) (*Semaphore, error) {
	return New(semaphoreTrait, device, info, alloc)
}

func NewImageView(device vulkan.Device, info *vulkan.ImageViewCreateInfo, alloc *vulkan.AllocationCallbacks) (*ImageView, error) {
	return New(imageViewTrait, device, info, alloc)
}

func NewRenderPass(device vulkan.Device, info *vulkan.RenderPassCreateInfo, alloc *vulkan.AllocationCallbacks) (*RenderPass, error) {
	return New(renderPassTrait, device, info, alloc)
}

func NewFramebuffer(device vulkan.Device, info *vulkan.FramebufferCreateInfo, alloc *vulkan.AllocationCallbacks) (*Framebuffer, error) {
	return New(framebufferTrait, device, info, alloc)
}

func NewCommandPool(device vulkan.Device, info *vulkan.CommandPoolCreateInfo, alloc *vulkan.AllocationCallbacks) (*CommandPool, error) {
	return New(commandPoolTrait, device, info, alloc)
}

func NewPipelineLayout(device vulkan.Device, info *vulkan.PipelineLayoutCreateInfo, alloc *vulkan.AllocationCallbacks) (*PipelineLayout, error) {
	return New(pipelineLayoutTrait, device, info, alloc)
}

func NewDescriptorPool(device vulkan.Device, info *vulkan.DescriptorPoolCreateInfo, alloc *vulkan.AllocationCallbacks) (*DescriptorPool, error) {
	return New(descriptorPoolTrait, device, info, alloc)
}

func NewSampler(device vulkan.Device, info *vulkan.SamplerCreateInfo, alloc *vulkan.AllocationCallbacks) (*Sampler, error) {
	return New(samplerTrait, device, info, alloc)
}

// NewFences creates n fences sharing info. On failure the fences created
// so far are destroyed.
func NewFences(device vulkan.Device, n int, info *vulkan.FenceCreateInfo, alloc *vulkan.AllocationCallbacks) ([]*Fence, error) {
	return newN(n, func() (*Fence, error) { return NewFence(device, info, alloc) })
}

// NewSemaphores creates n semaphores sharing info. On failure the
// semaphores created so far are destroyed.
func NewSemaphores(device vulkan.Device, n int, info *vulkan.SemaphoreCreateInfo, alloc *vulkan.AllocationCallbacks) ([]*Semaphore, error) {
	return newN(n, func() (*Semaphore, error) { return NewSemaphore(device, info, alloc) })
}

func newN[P any, H comparable](n int, create func() (*Handle[P, H], error)) ([]*Handle[P, H], error) {
	hs := make([]*Handle[P, H], 0, n)
	for i := 0; i < n; i++ {
		h, err := create()
		if err != nil {
			DestroyAll(hs)
			return nil, fmt.Errorf("%d of %d: %w", i, n, err)
		}
		hs = append(hs, h)
	}
	return hs, nil
}

// DestroyAll destroys hs in reverse order.
func DestroyAll[P any, H comparable](hs []*Handle[P, H]) {
	for i := len(hs) - 1; i >= 0; i-- {
		hs[i].Destroy()
	}
}

// Refs returns the native handles of hs.
func Refs[P any, H comparable](hs []*Handle[P, H]) []H {
	refs := make([]H, len(hs))
	for i, h := range hs {
		refs[i] = h.Ref()
	}
	return refs
}
