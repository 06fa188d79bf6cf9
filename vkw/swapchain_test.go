package vkw

import (
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vulkan-go/vulkan"
)

// fakeSwapchainTrait returns distinct non-null swapchains backed by Go
// memory. They are never passed to the driver.
type fakeSwapchainTrait struct {
	backing   []byte
	next      int
	destroyed []vulkan.Swapchain
}

func newFakeSwapchainTrait() *fakeSwapchainTrait {
	return &fakeSwapchainTrait{backing: make([]byte, 16)}
}

func (t *fakeSwapchainTrait) Kind() Kind { return KindSwapchain }

func (t *fakeSwapchainTrait) Create(_ vulkan.Device, info *vulkan.SwapchainCreateInfo, _ *vulkan.AllocationCallbacks) (vulkan.Swapchain, error) {
	if info.MinImageCount == 0 {
		return vulkan.Swapchain(vulkan.NullHandle), ResultError{Code: vulkan.ErrorInitializationFailed}
	}
	sc := vulkan.Swapchain(unsafe.Pointer(&t.backing[t.next]))
	t.next++
	return sc, nil
}

func (t *fakeSwapchainTrait) Destroy(_ vulkan.Device, sc vulkan.Swapchain, _ *vulkan.AllocationCallbacks) {
	t.destroyed = append(t.destroyed, sc)
}

func swapchainInfo(format vulkan.Format, w, h uint32) *vulkan.SwapchainCreateInfo {
	return &vulkan.SwapchainCreateInfo{
		MinImageCount: 2,
		ImageFormat:   format,
		ImageExtent:   vulkan.Extent2D{Width: w, Height: h},
	}
}

func TestSwapchainRecordsFormatAndExtent(t *testing.T) {
	tr := newFakeSwapchainTrait()
	sc, err := newSwapchain(tr, vulkan.Device(vulkan.NullHandle), swapchainInfo(vulkan.FormatB8g8r8a8Srgb, 800, 600), nil)
	require.NoError(t, err)

	assert.True(t, sc.Owned())
	assert.Equal(t, KindSwapchain, sc.Kind())
	assert.Equal(t, vulkan.FormatB8g8r8a8Srgb, sc.Format())
	assert.Equal(t, vulkan.Extent2D{Width: 800, Height: 600}, sc.Extent())

	sc.Destroy()
	sc.Destroy()
	assert.Len(t, tr.destroyed, 1)
}

func TestSwapchainCreateFailure(t *testing.T) {
	tr := newFakeSwapchainTrait()
	info := swapchainInfo(vulkan.FormatB8g8r8a8Srgb, 800, 600)
	info.MinImageCount = 0

	sc, err := newSwapchain(tr, vulkan.Device(vulkan.NullHandle), info, nil)
	assert.Nil(t, sc)
	var ce *CreateError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, KindSwapchain, ce.Kind)
	assert.Equal(t, vulkan.ErrorInitializationFailed, ce.Code)
	assert.Empty(t, tr.destroyed)
}

func TestSwapchainMove(t *testing.T) {
	tr := newFakeSwapchainTrait()
	src, err := newSwapchain(tr, vulkan.Device(vulkan.NullHandle), swapchainInfo(vulkan.FormatR8g8b8a8Unorm, 1024, 768), nil)
	require.NoError(t, err)
	native := src.Ref()

	dst := src.Move()
	assert.Empty(t, tr.destroyed)
	assert.Equal(t, native, dst.Ref())
	assert.Equal(t, vulkan.FormatR8g8b8a8Unorm, dst.Format())
	assert.Equal(t, vulkan.Extent2D{Width: 1024, Height: 768}, dst.Extent())

	assert.False(t, src.Owned())
	assert.Equal(t, vulkan.FormatUndefined, src.Format())
	assert.Equal(t, vulkan.Extent2D{}, src.Extent())

	src.Destroy()
	assert.Empty(t, tr.destroyed)
	dst.Destroy()
	assert.Equal(t, []vulkan.Swapchain{native}, tr.destroyed)
}

func TestSwapchainAssignRetiresOld(t *testing.T) {
	tr := newFakeSwapchainTrait()
	device := vulkan.Device(vulkan.NullHandle)
	current, err := newSwapchain(tr, device, swapchainInfo(vulkan.FormatB8g8r8a8Srgb, 800, 600), nil)
	require.NoError(t, err)
	old := current.Ref()

	info := swapchainInfo(vulkan.FormatB8g8r8a8Srgb, 1280, 720)
	info.OldSwapchain = current.Ref()
	next, err := newSwapchain(tr, device, info, nil)
	require.NoError(t, err)
	fresh := next.Ref()

	current.Assign(next)
	assert.Equal(t, []vulkan.Swapchain{old}, tr.destroyed)
	assert.Equal(t, fresh, current.Ref())
	assert.Equal(t, vulkan.Extent2D{Width: 1280, Height: 720}, current.Extent())
	assert.False(t, next.Owned())

	current.Assign(current)
	assert.Len(t, tr.destroyed, 1)

	current.Assign(nil)
	assert.Equal(t, []vulkan.Swapchain{old, fresh}, tr.destroyed)
	assert.Equal(t, vulkan.FormatUndefined, current.Format())
}

func TestSwapchainRelease(t *testing.T) {
	tr := newFakeSwapchainTrait()
	device := vulkan.Device(vulkan.NullHandle)
	sc, err := newSwapchain(tr, device, swapchainInfo(vulkan.FormatB8g8r8a8Srgb, 800, 600), nil)
	require.NoError(t, err)
	native := sc.Ref()
	assert.Equal(t, device, sc.Parent())
	assert.Nil(t, sc.Allocator())

	raw := sc.Release()
	assert.Equal(t, native, raw)
	assert.False(t, sc.Owned())
	assert.Equal(t, KindUnknown, sc.Kind())
	assert.Equal(t, vulkan.FormatUndefined, sc.Format())
	assert.Equal(t, vulkan.Extent2D{}, sc.Extent())
	assert.Equal(t, vulkan.Swapchain(vulkan.NullHandle), sc.Ref())

	require.NoError(t, sc.Close())
	assert.Empty(t, tr.destroyed)
}

func TestSwapchainDestroyClearsState(t *testing.T) {
	tr := newFakeSwapchainTrait()
	sc, err := newSwapchain(tr, vulkan.Device(vulkan.NullHandle), swapchainInfo(vulkan.FormatB8g8r8a8Srgb, 800, 600), nil)
	require.NoError(t, err)

	require.NoError(t, sc.Close())
	assert.Len(t, tr.destroyed, 1)
	assert.Equal(t, vulkan.FormatUndefined, sc.Format())
	assert.Equal(t, vulkan.Extent2D{}, sc.Extent())
	assert.PanicsWithValue(t, "vkw: swapchain handle is null", func() { sc.MustRef() })
}

func TestSwapchainAssignToNilPanics(t *testing.T) {
	tr := newFakeSwapchainTrait()
	src, err := newSwapchain(tr, vulkan.Device(vulkan.NullHandle), swapchainInfo(vulkan.FormatB8g8r8a8Srgb, 800, 600), nil)
	require.NoError(t, err)

	var sc *Swapchain
	assert.Panics(t, func() { sc.Assign(src) })
	assert.True(t, src.Owned())
	assert.Equal(t, vulkan.FormatB8g8r8a8Srgb, src.Format())
}

func TestSwapchainNil(t *testing.T) {
	var sc *Swapchain
	assert.NotPanics(t, sc.Destroy)
	assert.False(t, sc.Owned())
	assert.Equal(t, vulkan.FormatUndefined, sc.Format())
	assert.Equal(t, vulkan.Extent2D{}, sc.Extent())
	assert.Equal(t, vulkan.Swapchain(vulkan.NullHandle), sc.Ref())
}

func TestChooseSurfaceFormat(t *testing.T) {
	srgb := vulkan.SurfaceFormat{Format: vulkan.FormatB8g8r8a8Srgb, ColorSpace: vulkan.ColorSpaceSrgbNonlinear}
	unorm := vulkan.SurfaceFormat{Format: vulkan.FormatR8g8b8a8Unorm, ColorSpace: vulkan.ColorSpaceSrgbNonlinear}

	assert.Equal(t, srgb, ChooseSurfaceFormat([]vulkan.SurfaceFormat{unorm, srgb}))
	assert.Equal(t, unorm, ChooseSurfaceFormat([]vulkan.SurfaceFormat{unorm}))
	assert.Equal(t, srgb, ChooseSurfaceFormat([]vulkan.SurfaceFormat{{Format: vulkan.FormatUndefined}}))

	assert.NotPanics(t, func() {
		assert.Equal(t, vulkan.SurfaceFormat{}, ChooseSurfaceFormat(nil))
		assert.Equal(t, vulkan.FormatUndefined, ChooseSurfaceFormat([]vulkan.SurfaceFormat{}).Format)
	})
}

func TestChoosePresentMode(t *testing.T) {
	available := []vulkan.PresentMode{vulkan.PresentModeFifo, vulkan.PresentModeMailbox}
	assert.Equal(t, vulkan.PresentModeMailbox, ChoosePresentMode(available, vulkan.PresentModeMailbox))
	assert.Equal(t, vulkan.PresentModeFifo, ChoosePresentMode(available, vulkan.PresentModeImmediate))
	assert.Equal(t, vulkan.PresentModeFifo, ChoosePresentMode(nil, vulkan.PresentModeMailbox))
}

func TestChooseExtent(t *testing.T) {
	var caps vulkan.SurfaceCapabilities
	caps.CurrentExtent = vulkan.Extent2D{Width: 640, Height: 480}
	assert.Equal(t, caps.CurrentExtent, ChooseExtent(caps, 1920, 1080))

	caps.CurrentExtent = vulkan.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32}
	caps.MinImageExtent = vulkan.Extent2D{Width: 100, Height: 100}
	caps.MaxImageExtent = vulkan.Extent2D{Width: 1000, Height: 1000}
	assert.Equal(t, vulkan.Extent2D{Width: 800, Height: 600}, ChooseExtent(caps, 800, 600))
	assert.Equal(t, vulkan.Extent2D{Width: 1000, Height: 100}, ChooseExtent(caps, 4000, 10))
}

func TestImageCount(t *testing.T) {
	var caps vulkan.SurfaceCapabilities
	caps.MinImageCount = 2
	assert.Equal(t, uint32(3), ImageCount(caps))

	caps.MaxImageCount = 2
	assert.Equal(t, uint32(2), ImageCount(caps))
}
