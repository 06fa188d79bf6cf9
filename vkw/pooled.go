package vkw

import (
	"fmt"
	"log"

	"github.com/vulkan-go/vulkan"
)

// Pooled owns a group of handles allocated together from a pool of
// type P and freed back to it together. The pool must outlive it.
type Pooled[P any, H comparable] struct {
	_ noCopy

	kind   Kind
	device vulkan.Device
	pool   P
	items  []H
	free   func(vulkan.Device, P, []H)
	owned  bool
}

type (
	DescriptorSets = Pooled[vulkan.DescriptorPool, vulkan.DescriptorSet]
	CommandBuffers = Pooled[vulkan.CommandPool, vulkan.CommandBuffer]
)

var (
	allocateDescriptorSets = func(device vulkan.Device, info *vulkan.DescriptorSetAllocateInfo, sets []vulkan.DescriptorSet) vulkan.Result {
		return vulkan.AllocateDescriptorSets(device, info, &sets[0])
	}
	freeDescriptorSets = func(device vulkan.Device, pool vulkan.DescriptorPool, sets []vulkan.DescriptorSet) {
		vulkan.FreeDescriptorSets(device, pool, uint32(len(sets)), &sets[0])
	}
	allocateCommandBuffers = vulkan.AllocateCommandBuffers
	freeCommandBuffers     = func(device vulkan.Device, pool vulkan.CommandPool, buffers []vulkan.CommandBuffer) {
		vulkan.FreeCommandBuffers(device, pool, uint32(len(buffers)), buffers)
	}
	beginCommandBuffer = vulkan.BeginCommandBuffer
	endCommandBuffer   = vulkan.EndCommandBuffer
)

// AllocateDescriptorSets allocates info.DescriptorSetCount sets from
// info.DescriptorPool. The pool must have been created with
// DescriptorPoolCreateFreeDescriptorSetBit so the sets can be freed
// individually.
func AllocateDescriptorSets(device vulkan.Device, info *vulkan.DescriptorSetAllocateInfo) (*DescriptorSets, error) {
	return allocatePooled(KindDescriptorSets, device, info.DescriptorPool, int(info.DescriptorSetCount),
		func(sets []vulkan.DescriptorSet) vulkan.Result { return allocateDescriptorSets(device, info, sets) },
		func(d vulkan.Device, p vulkan.DescriptorPool, sets []vulkan.DescriptorSet) { freeDescriptorSets(d, p, sets) })
}

// AllocateCommandBuffers allocates info.CommandBufferCount command
// buffers from info.CommandPool.
func AllocateCommandBuffers(device vulkan.Device, info *vulkan.CommandBufferAllocateInfo) (*CommandBuffers, error) {
	return allocatePooled(KindCommandBuffers, device, info.CommandPool, int(info.CommandBufferCount),
		func(buffers []vulkan.CommandBuffer) vulkan.Result { return allocateCommandBuffers(device, info, buffers) },
		func(d vulkan.Device, p vulkan.CommandPool, buffers []vulkan.CommandBuffer) { freeCommandBuffers(d, p, buffers) })
}

func allocatePooled[P any, H comparable](k Kind, device vulkan.Device, pool P, n int, allocate func([]H) vulkan.Result, free func(vulkan.Device, P, []H)) (*Pooled[P, H], error) {
	if n <= 0 {
		return nil, newCreateError(k, fmt.Errorf("count %d", n))
	}
	items := make([]H, n)
	if err := checkResult(allocate(items)); err != nil {
		return nil, newCreateError(k, err)
	}
	return &Pooled[P, H]{
		kind:   k,
		device: device,
		pool:   pool,
		items:  items,
		free:   free,
		owned:  true,
	}, nil
}

// Refs returns a copy of the native handles.
func (p *Pooled[P, H]) Refs() []H {
	if p == nil {
		return nil
	}
	return append([]H(nil), p.items...)
}

// At returns the i-th native handle.
func (p *Pooled[P, H]) At(i int) H { return p.items[i] }

func (p *Pooled[P, H]) Len() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}

func (p *Pooled[P, H]) Owned() bool { return p != nil && p.owned }

func (p *Pooled[P, H]) Kind() Kind {
	if p == nil {
		return KindUnknown
	}
	return p.kind
}

// Pool returns the pool the handles were allocated from.
func (p *Pooled[P, H]) Pool() P {
	if p == nil {
		var zero P
		return zero
	}
	return p.pool
}

// Destroy frees the handles back to their pool if p owns them.
func (p *Pooled[P, H]) Destroy() {
	if p == nil || !p.owned {
		return
	}
	p.owned = false
	if trace.Load() {
		log.Printf("vkw: free %d %s", len(p.items), p.kind)
	}
	p.free(p.device, p.pool, p.items)
	p.items = nil
}

func (p *Pooled[P, H]) Close() error {
	p.Destroy()
	return nil
}

// Move returns a new Pooled holding p's state and leaves p empty.
func (p *Pooled[P, H]) Move() *Pooled[P, H] {
	dst := &Pooled[P, H]{}
	dst.Assign(p)
	return dst
}

// Assign frees what p owns, then takes over src's handles. Assigning
// p to itself does nothing. p must not be nil.
func (p *Pooled[P, H]) Assign(src *Pooled[P, H]) {
	if p == nil {
		panic("vkw: Assign to nil Pooled")
	}
	if p == src {
		return
	}
	p.Destroy()
	p.reset()
	if src == nil {
		return
	}
	p.kind, p.device, p.pool, p.items, p.free, p.owned = src.kind, src.device, src.pool, src.items, src.free, src.owned
	src.reset()
}

func (p *Pooled[P, H]) reset() {
	var zero P
	p.kind = KindUnknown
	p.device = vulkan.Device(vulkan.NullHandle)
	p.pool = zero
	p.items = nil
	p.free = nil
	p.owned = false
}

// BeginCommandBuffer starts recording cb with the given usage flags.
func BeginCommandBuffer(cb vulkan.CommandBuffer, flags vulkan.CommandBufferUsageFlags) error {
	info := vulkan.CommandBufferBeginInfo{
		SType: vulkan.StructureTypeCommandBufferBeginInfo,
		Flags: flags,
	}
	if err := checkResult(beginCommandBuffer(cb, &info)); err != nil {
		return fmt.Errorf("begin command buffer: %w", err)
	}
	return nil
}

func EndCommandBuffer(cb vulkan.CommandBuffer) error {
	if err := checkResult(endCommandBuffer(cb)); err != nil {
		return fmt.Errorf("end command buffer: %w", err)
	}
	return nil
}
