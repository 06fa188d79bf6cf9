package vkw

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/vulkan-go/vulkan"
)

// ErrNoMemoryType is returned when no memory type satisfies both the
// resource's requirements and the requested properties.
var ErrNoMemoryType = errors.New("vkw: no suitable memory type")

type (
	Buffer       = Handle[vulkan.Device, vulkan.Buffer]
	DeviceMemory = Handle[vulkan.Device, vulkan.DeviceMemory]
	Image        = Handle[vulkan.Device, vulkan.Image]
)

var (
	bufferTrait Trait[vulkan.Device, vulkan.Buffer, vulkan.BufferCreateInfo] = funcTrait[vulkan.Device, vulkan.Buffer, vulkan.BufferCreateInfo]{
		kind:    KindBuffer,
		create:  vulkan.CreateBuffer,
		destroy: DestroyBuffer,
	}
	memoryTrait Trait[vulkan.Device, vulkan.DeviceMemory, vulkan.MemoryAllocateInfo] = funcTrait[vulkan.Device, vulkan.DeviceMemory, vulkan.MemoryAllocateInfo]{
		kind:    KindDeviceMemory,
		create:  vulkan.AllocateMemory,
		destroy: FreeMemory,
	}
	imageTrait Trait[vulkan.Device, vulkan.Image, vulkan.ImageCreateInfo] = funcTrait[vulkan.Device, vulkan.Image, vulkan.ImageCreateInfo]{
		kind:    KindImage,
		create:  vulkan.CreateImage,
		destroy: DestroyImage,
	}
)

func NewBuffer(device vulkan.Device, info *vulkan.BufferCreateInfo, alloc *vulkan.AllocationCallbacks) (*Buffer, error) {
	return New(bufferTrait, device, info, alloc)
}

// AllocateMemory allocates device memory. The returned DeviceMemory
// frees it on Destroy.
func AllocateMemory(device vulkan.Device, info *vulkan.MemoryAllocateInfo, alloc *vulkan.AllocationCallbacks) (*DeviceMemory, error) {
	return New(memoryTrait, device, info, alloc)
}

func NewImage(device vulkan.Device, info *vulkan.ImageCreateInfo, alloc *vulkan.AllocationCallbacks) (*Image, error) {
	return New(imageTrait, device, info, alloc)
}

// MemoryTypes returns the property flags of every memory type of
// physicalDevice, indexed by memory type.
func MemoryTypes(physicalDevice vulkan.PhysicalDevice) []vulkan.MemoryPropertyFlags {
	var props vulkan.PhysicalDeviceMemoryProperties
	vulkan.GetPhysicalDeviceMemoryProperties(physicalDevice, &props)
	props.Deref()

	types := make([]vulkan.MemoryPropertyFlags, props.MemoryTypeCount)
	for i := range types {
		t := props.MemoryTypes[i]
		t.Deref()
		types[i] = t.PropertyFlags
	}
	return types
}

// ChooseMemoryType returns the first memory type allowed by filter, a
// bit mask of type indices, that has every property in want.
func ChooseMemoryType(types []vulkan.MemoryPropertyFlags, filter uint32, want vulkan.MemoryPropertyFlags) (uint32, error) {
	for i, flags := range types {
		if i >= 32 {
			break
		}
		if filter&(1<<uint(i)) != 0 && flags&want == want {
			return uint32(i), nil
		}
	}
	return 0, ErrNoMemoryType
}

// binder queries and binds the memory of one kind of resource.
type binder[H comparable] struct {
	requirements func(vulkan.Device, H) vulkan.MemoryRequirements
	bind         func(vulkan.Device, H, vulkan.DeviceMemory, vulkan.DeviceSize) vulkan.Result
}

var (
	bufferBinder = binder[vulkan.Buffer]{
		requirements: func(device vulkan.Device, b vulkan.Buffer) vulkan.MemoryRequirements {
			var reqs vulkan.MemoryRequirements
			vulkan.GetBufferMemoryRequirements(device, b, &reqs)
			reqs.Deref()
			return reqs
		},
		bind: vulkan.BindBufferMemory,
	}
	imageBinder = binder[vulkan.Image]{
		requirements: func(device vulkan.Device, i vulkan.Image) vulkan.MemoryRequirements {
			var reqs vulkan.MemoryRequirements
			vulkan.GetImageMemoryRequirements(device, i, &reqs)
			reqs.Deref()
			return reqs
		},
		bind: vulkan.BindImageMemory,
	}

	mapMemory   = vulkan.MapMemory
	unmapMemory = vulkan.UnmapMemory
)

// Bound owns a buffer or image together with the dedicated memory
// bound to it. Destroy releases the resource before its memory.
type Bound[H comparable] struct {
	_ noCopy

	res  Handle[vulkan.Device, H]
	mem  DeviceMemory
	size vulkan.DeviceSize
}

type (
	BoundBuffer = Bound[vulkan.Buffer]
	BoundImage  = Bound[vulkan.Image]
)

// NewBoundBuffer creates a buffer, allocates memory of a type in
// memTypes with props and binds it. Nothing is left allocated on
// failure.
func NewBoundBuffer(device vulkan.Device, memTypes []vulkan.MemoryPropertyFlags, info *vulkan.BufferCreateInfo, props vulkan.MemoryPropertyFlags, alloc *vulkan.AllocationCallbacks) (*BoundBuffer, error) {
	return newBound(bufferTrait, bufferBinder, device, memTypes, info, props, alloc)
}

// NewBoundImage is like NewBoundBuffer for images.
func NewBoundImage(device vulkan.Device, memTypes []vulkan.MemoryPropertyFlags, info *vulkan.ImageCreateInfo, props vulkan.MemoryPropertyFlags, alloc *vulkan.AllocationCallbacks) (*BoundImage, error) {
	return newBound(imageTrait, imageBinder, device, memTypes, info, props, alloc)
}

func newBound[H comparable, I any](t Trait[vulkan.Device, H, I], b binder[H], device vulkan.Device, memTypes []vulkan.MemoryPropertyFlags, info *I, props vulkan.MemoryPropertyFlags, alloc *vulkan.AllocationCallbacks) (*Bound[H], error) {
	res, err := New(t, device, info, alloc)
	if err != nil {
		return nil, err
	}
	reqs := b.requirements(device, res.Ref())
	index, err := ChooseMemoryType(memTypes, reqs.MemoryTypeBits, props)
	if err != nil {
		res.Destroy()
		return nil, fmt.Errorf("%s memory: %w", t.Kind(), err)
	}
	mem, err := AllocateMemory(device, &vulkan.MemoryAllocateInfo{
		SType:           vulkan.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: index,
	}, alloc)
	if err != nil {
		res.Destroy()
		return nil, err
	}
	if err := checkResult(b.bind(device, res.Ref(), mem.Ref(), 0)); err != nil {
		res.Destroy()
		mem.Destroy()
		return nil, fmt.Errorf("bind %s memory: %w", t.Kind(), err)
	}

	bound := &Bound[H]{size: reqs.Size}
	bound.res.Assign(res)
	bound.mem.Assign(mem)
	return bound, nil
}

// Ref returns the native buffer or image, or the null handle.
func (b *Bound[H]) Ref() H {
	if b == nil {
		var null H
		return null
	}
	return b.res.Ref()
}

// Memory returns the memory bound to the resource.
func (b *Bound[H]) Memory() vulkan.DeviceMemory {
	if b == nil {
		return vulkan.DeviceMemory(vulkan.NullHandle)
	}
	return b.mem.Ref()
}

// Size returns the size of the bound allocation, which may exceed the
// size requested for the resource.
func (b *Bound[H]) Size() vulkan.DeviceSize {
	if b == nil {
		return 0
	}
	return b.size
}

func (b *Bound[H]) Owned() bool { return b != nil && b.res.Owned() }

func (b *Bound[H]) Kind() Kind {
	if b == nil {
		return KindUnknown
	}
	return b.res.Kind()
}

func (b *Bound[H]) Destroy() {
	if b == nil {
		return
	}
	b.res.Destroy()
	b.mem.Destroy()
	b.size = 0
}

func (b *Bound[H]) Close() error {
	b.Destroy()
	return nil
}

// Move returns a new Bound holding b's state and leaves b empty.
func (b *Bound[H]) Move() *Bound[H] {
	dst := &Bound[H]{}
	dst.Assign(b)
	return dst
}

// Assign destroys what b owns, then takes over src's resource and
// memory. Assigning b to itself does nothing. b must not be nil.
func (b *Bound[H]) Assign(src *Bound[H]) {
	if b == nil {
		panic("vkw: Assign to nil Bound")
	}
	if b == src {
		return
	}
	b.Destroy()
	if src == nil {
		return
	}
	b.res.Assign(&src.res)
	b.mem.Assign(&src.mem)
	b.size, src.size = src.size, 0
}

// Write copies data to the start of the bound memory, which must be
// host visible.
func (b *Bound[H]) Write(data []byte) error {
	if !b.Owned() {
		return fmt.Errorf("write %s: nothing bound", b.Kind())
	}
	if vulkan.DeviceSize(len(data)) > b.size {
		return fmt.Errorf("write %s: %d bytes exceed allocation of %d", b.Kind(), len(data), b.size)
	}
	if len(data) == 0 {
		return nil
	}
	device, mem := b.mem.Parent(), b.mem.Ref()
	var ptr unsafe.Pointer
	if err := checkResult(mapMemory(device, mem, 0, vulkan.DeviceSize(len(data)), 0, &ptr)); err != nil {
		return fmt.Errorf("map %s memory: %w", b.Kind(), err)
	}
	vulkan.Memcopy(ptr, data)
	unmapMemory(device, mem)
	return nil
}
