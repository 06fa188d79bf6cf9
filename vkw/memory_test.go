package vkw

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vulkan-go/vulkan"
)

// ptrTrait hands out non-null handles pointing into Go memory and logs
// every destroy to a shared event list. The handles never reach the
// driver.
type ptrTrait[H comparable, I any] struct {
	kind    Kind
	backing [8]byte
	next    int
	wrap    func(unsafe.Pointer) H
	err     error
	infos   []I
	events  *[]string
}

func (t *ptrTrait[H, I]) Kind() Kind { return t.kind }

func (t *ptrTrait[H, I]) Create(_ vulkan.Device, info *I, _ *vulkan.AllocationCallbacks) (H, error) {
	if t.err != nil {
		var null H
		return null, t.err
	}
	t.infos = append(t.infos, *info)
	h := t.wrap(unsafe.Pointer(&t.backing[t.next]))
	t.next++
	*t.events = append(*t.events, "create "+t.kind.String())
	return h, nil
}

func (t *ptrTrait[H, I]) Destroy(_ vulkan.Device, _ H, _ *vulkan.AllocationCallbacks) {
	*t.events = append(*t.events, "destroy "+t.kind.String())
}

type memoryStub struct {
	events  []string
	buffers *ptrTrait[vulkan.Buffer, vulkan.BufferCreateInfo]
	images  *ptrTrait[vulkan.Image, vulkan.ImageCreateInfo]
	memory  *ptrTrait[vulkan.DeviceMemory, vulkan.MemoryAllocateInfo]
	reqs    vulkan.MemoryRequirements
	bindRes vulkan.Result
	bound   []vulkan.DeviceMemory
	mapped  []byte
	unmaps  int
}

// stubMemory routes buffer, image and memory creation through fakes
// for the duration of the test.
func stubMemory(t *testing.T) *memoryStub {
	t.Helper()
	s := &memoryStub{
		reqs:    vulkan.MemoryRequirements{Size: 256, MemoryTypeBits: 0b110},
		bindRes: vulkan.Success,
		mapped:  make([]byte, 256),
	}
	s.buffers = &ptrTrait[vulkan.Buffer, vulkan.BufferCreateInfo]{
		kind:   KindBuffer,
		wrap:   func(p unsafe.Pointer) vulkan.Buffer { return vulkan.Buffer(p) },
		events: &s.events,
	}
	s.images = &ptrTrait[vulkan.Image, vulkan.ImageCreateInfo]{
		kind:   KindImage,
		wrap:   func(p unsafe.Pointer) vulkan.Image { return vulkan.Image(p) },
		events: &s.events,
	}
	s.memory = &ptrTrait[vulkan.DeviceMemory, vulkan.MemoryAllocateInfo]{
		kind:   KindDeviceMemory,
		wrap:   func(p unsafe.Pointer) vulkan.DeviceMemory { return vulkan.DeviceMemory(p) },
		events: &s.events,
	}

	origBuffer, origImage, origMemory := bufferTrait, imageTrait, memoryTrait
	origBufferBinder, origImageBinder := bufferBinder, imageBinder
	origMap, origUnmap := mapMemory, unmapMemory
	t.Cleanup(func() {
		bufferTrait, imageTrait, memoryTrait = origBuffer, origImage, origMemory
		bufferBinder, imageBinder = origBufferBinder, origImageBinder
		mapMemory, unmapMemory = origMap, origUnmap
	})

	bufferTrait, imageTrait, memoryTrait = s.buffers, s.images, s.memory
	bufferBinder = binder[vulkan.Buffer]{
		requirements: func(vulkan.Device, vulkan.Buffer) vulkan.MemoryRequirements { return s.reqs },
		bind: func(_ vulkan.Device, _ vulkan.Buffer, mem vulkan.DeviceMemory, _ vulkan.DeviceSize) vulkan.Result {
			s.bound = append(s.bound, mem)
			return s.bindRes
		},
	}
	imageBinder = binder[vulkan.Image]{
		requirements: func(vulkan.Device, vulkan.Image) vulkan.MemoryRequirements { return s.reqs },
		bind: func(_ vulkan.Device, _ vulkan.Image, mem vulkan.DeviceMemory, _ vulkan.DeviceSize) vulkan.Result {
			s.bound = append(s.bound, mem)
			return s.bindRes
		},
	}
	mapMemory = func(_ vulkan.Device, _ vulkan.DeviceMemory, offset, size vulkan.DeviceSize, _ vulkan.MemoryMapFlags, out *unsafe.Pointer) vulkan.Result {
		if offset+size > vulkan.DeviceSize(len(s.mapped)) {
			return vulkan.ErrorMemoryMapFailed
		}
		*out = unsafe.Pointer(&s.mapped[offset])
		return vulkan.Success
	}
	unmapMemory = func(vulkan.Device, vulkan.DeviceMemory) { s.unmaps++ }
	return s
}

var testMemoryTypes = []vulkan.MemoryPropertyFlags{
	vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyDeviceLocalBit),
	vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyDeviceLocalBit),
	vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyHostVisibleBit | vulkan.MemoryPropertyHostCoherentBit),
}

func hostVisible() vulkan.MemoryPropertyFlags {
	return vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyHostVisibleBit | vulkan.MemoryPropertyHostCoherentBit)
}

func TestChooseMemoryType(t *testing.T) {
	deviceLocal := vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyDeviceLocalBit)

	i, err := ChooseMemoryType(testMemoryTypes, 0b111, hostVisible())
	require.NoError(t, err)
	assert.Equal(t, uint32(2), i)

	i, err = ChooseMemoryType(testMemoryTypes, 0b110, deviceLocal)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), i, "type 0 is filtered out")

	_, err = ChooseMemoryType(testMemoryTypes, 0b011, hostVisible())
	assert.ErrorIs(t, err, ErrNoMemoryType)

	_, err = ChooseMemoryType(nil, ^uint32(0), 0)
	assert.ErrorIs(t, err, ErrNoMemoryType)

	i, err = ChooseMemoryType(testMemoryTypes, 0b001, 0)
	require.NoError(t, err)
	assert.Zero(t, i)
}

func TestNewBoundBuffer(t *testing.T) {
	s := stubMemory(t)
	info := &vulkan.BufferCreateInfo{Size: 200}

	b, err := NewBoundBuffer(vulkan.Device(vulkan.NullHandle), testMemoryTypes, info, hostVisible(), nil)
	require.NoError(t, err)
	assert.True(t, b.Owned())
	assert.Equal(t, KindBuffer, b.Kind())
	assert.NotEqual(t, vulkan.Buffer(vulkan.NullHandle), b.Ref())
	assert.NotEqual(t, vulkan.DeviceMemory(vulkan.NullHandle), b.Memory())
	assert.Equal(t, vulkan.DeviceSize(256), b.Size())
	assert.Equal(t, []vulkan.DeviceMemory{b.Memory()}, s.bound)

	require.Len(t, s.memory.infos, 1)
	assert.Equal(t, vulkan.DeviceSize(256), s.memory.infos[0].AllocationSize)
	assert.Equal(t, uint32(2), s.memory.infos[0].MemoryTypeIndex)

	b.Destroy()
	b.Destroy()
	assert.Equal(t, []string{
		"create buffer", "create device memory",
		"destroy buffer", "destroy device memory",
	}, s.events)
	assert.False(t, b.Owned())
	assert.Zero(t, b.Size())
}

func TestNewBoundImage(t *testing.T) {
	s := stubMemory(t)
	info := &vulkan.ImageCreateInfo{Format: vulkan.FormatD32Sfloat}
	deviceLocal := vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyDeviceLocalBit)

	img, err := NewBoundImage(vulkan.Device(vulkan.NullHandle), testMemoryTypes, info, deviceLocal, nil)
	require.NoError(t, err)
	assert.Equal(t, KindImage, img.Kind())
	assert.Equal(t, uint32(1), s.memory.infos[0].MemoryTypeIndex)
	assert.Equal(t, vulkan.FormatD32Sfloat, s.images.infos[0].Format)

	require.NoError(t, img.Close())
	assert.Equal(t, []string{
		"create image", "create device memory",
		"destroy image", "destroy device memory",
	}, s.events)
}

func TestNewBoundNoMemoryType(t *testing.T) {
	s := stubMemory(t)
	s.reqs.MemoryTypeBits = 0b001

	b, err := NewBoundBuffer(vulkan.Device(vulkan.NullHandle), testMemoryTypes, &vulkan.BufferCreateInfo{}, hostVisible(), nil)
	assert.Nil(t, b)
	require.ErrorIs(t, err, ErrNoMemoryType)
	assert.Equal(t, []string{"create buffer", "destroy buffer"}, s.events)
	assert.Empty(t, s.memory.infos)
}

func TestNewBoundAllocateFailure(t *testing.T) {
	s := stubMemory(t)
	s.memory.err = ResultError{Code: vulkan.ErrorOutOfDeviceMemory}

	b, err := NewBoundBuffer(vulkan.Device(vulkan.NullHandle), testMemoryTypes, &vulkan.BufferCreateInfo{}, hostVisible(), nil)
	assert.Nil(t, b)
	var ce *CreateError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindDeviceMemory, ce.Kind)
	assert.Equal(t, vulkan.ErrorOutOfDeviceMemory, ce.Code)
	assert.Equal(t, []string{"create buffer", "destroy buffer"}, s.events)
}

func TestNewBoundBindFailure(t *testing.T) {
	s := stubMemory(t)
	s.bindRes = vulkan.ErrorOutOfDeviceMemory

	b, err := NewBoundBuffer(vulkan.Device(vulkan.NullHandle), testMemoryTypes, &vulkan.BufferCreateInfo{}, hostVisible(), nil)
	assert.Nil(t, b)
	var re ResultError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, vulkan.ErrorOutOfDeviceMemory, re.Code)
	assert.Equal(t, []string{
		"create buffer", "create device memory",
		"destroy buffer", "destroy device memory",
	}, s.events)
}

func TestBoundCreateFailure(t *testing.T) {
	s := stubMemory(t)
	s.buffers.err = ResultError{Code: vulkan.ErrorOutOfHostMemory}

	b, err := NewBoundBuffer(vulkan.Device(vulkan.NullHandle), testMemoryTypes, &vulkan.BufferCreateInfo{}, hostVisible(), nil)
	assert.Nil(t, b)
	var ce *CreateError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindBuffer, ce.Kind)
	assert.Empty(t, s.events)
}

func TestBoundWrite(t *testing.T) {
	s := stubMemory(t)
	b, err := NewBoundBuffer(vulkan.Device(vulkan.NullHandle), testMemoryTypes, &vulkan.BufferCreateInfo{}, hostVisible(), nil)
	require.NoError(t, err)
	defer b.Destroy()

	require.NoError(t, b.Write([]byte{1, 2, 3, 4}))
	assert.Equal(t, []byte{1, 2, 3, 4}, s.mapped[:4])
	assert.Equal(t, 1, s.unmaps)

	require.NoError(t, b.Write(nil))
	assert.Equal(t, 1, s.unmaps, "empty writes do not map")

	err = b.Write(make([]byte, 257))
	assert.ErrorContains(t, err, "exceed")
	assert.Equal(t, 1, s.unmaps)
}

func TestBoundWriteMapFailure(t *testing.T) {
	s := stubMemory(t)
	b, err := NewBoundBuffer(vulkan.Device(vulkan.NullHandle), testMemoryTypes, &vulkan.BufferCreateInfo{}, hostVisible(), nil)
	require.NoError(t, err)
	defer b.Destroy()

	s.mapped = s.mapped[:2]
	err = b.Write([]byte{1, 2, 3})
	var re ResultError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, vulkan.ErrorMemoryMapFailed, re.Code)
	assert.Zero(t, s.unmaps)
}

func TestBoundMoveAndAssign(t *testing.T) {
	s := stubMemory(t)
	device := vulkan.Device(vulkan.NullHandle)
	a, err := NewBoundBuffer(device, testMemoryTypes, &vulkan.BufferCreateInfo{}, hostVisible(), nil)
	require.NoError(t, err)
	native, mem := a.Ref(), a.Memory()

	moved := a.Move()
	assert.False(t, a.Owned())
	assert.Zero(t, a.Size())
	assert.Equal(t, native, moved.Ref())
	assert.Equal(t, mem, moved.Memory())
	assert.ErrorContains(t, a.Write([]byte{1}), "nothing bound")

	var slot BoundBuffer
	slot.Assign(moved)
	slot.Assign(&slot)
	assert.True(t, slot.Owned())
	assert.Equal(t, vulkan.DeviceSize(256), slot.Size())

	s.events = nil
	slot.Assign(nil)
	assert.Equal(t, []string{"destroy buffer", "destroy device memory"}, s.events)
	a.Destroy()
	moved.Destroy()
	assert.Len(t, s.events, 2)

	var nilBound *BoundBuffer
	assert.Panics(t, func() { nilBound.Assign(&slot) })
	assert.NotPanics(t, nilBound.Destroy)
	assert.NoError(t, nilBound.Close())
	assert.Equal(t, vulkan.Buffer(vulkan.NullHandle), nilBound.Ref())
}
