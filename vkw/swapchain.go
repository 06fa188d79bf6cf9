package vkw

import (
	"fmt"
	"math"

	"github.com/vulkan-go/vulkan"
)

var swapchainTrait Trait[vulkan.Device, vulkan.Swapchain, vulkan.SwapchainCreateInfo] = funcTrait[vulkan.Device, vulkan.Swapchain, vulkan.SwapchainCreateInfo]{
	kind:    KindSwapchain,
	create:  vulkan.CreateSwapchain,
	destroy: DestroySwapchain,
}

// Swapchain is an owning wrapper for a swapchain. It records the image
// format and extent it was created with; both are cleared whenever the
// swapchain leaves s.
type Swapchain struct {
	h Handle[vulkan.Device, vulkan.Swapchain]

	format vulkan.Format
	extent vulkan.Extent2D
}

// NewSwapchain creates a swapchain on device. The create info is used
// as is; no validation is done here.
func NewSwapchain(device vulkan.Device, info *vulkan.SwapchainCreateInfo, alloc *vulkan.AllocationCallbacks) (*Swapchain, error) {
	return newSwapchain(swapchainTrait, device, info, alloc)
}

func newSwapchain(t Trait[vulkan.Device, vulkan.Swapchain, vulkan.SwapchainCreateInfo], device vulkan.Device, info *vulkan.SwapchainCreateInfo, alloc *vulkan.AllocationCallbacks) (*Swapchain, error) {
	h, err := New(t, device, info, alloc)
	if err != nil {
		return nil, err
	}
	s := &Swapchain{format: info.ImageFormat, extent: info.ImageExtent}
	s.h.Assign(h)
	return s, nil
}

// Format returns the image format the swapchain was created with.
func (s *Swapchain) Format() vulkan.Format {
	if s == nil {
		return vulkan.FormatUndefined
	}
	return s.format
}

// Extent returns the image extent the swapchain was created with.
func (s *Swapchain) Extent() vulkan.Extent2D {
	if s == nil {
		return vulkan.Extent2D{}
	}
	return s.extent
}

// Ref returns the native swapchain, or the null handle.
func (s *Swapchain) Ref() vulkan.Swapchain {
	if s == nil {
		return vulkan.Swapchain(vulkan.NullHandle)
	}
	return s.h.Ref()
}

// MustRef is like Ref but panics if s holds no swapchain.
func (s *Swapchain) MustRef() vulkan.Swapchain {
	if s == nil {
		return (*Handle[vulkan.Device, vulkan.Swapchain])(nil).MustRef()
	}
	return s.h.MustRef()
}

// Owned reports whether s is responsible for destroying its swapchain.
func (s *Swapchain) Owned() bool { return s != nil && s.h.Owned() }

func (s *Swapchain) Kind() Kind {
	if s == nil {
		return KindUnknown
	}
	return s.h.Kind()
}

// Parent returns the device the swapchain was created on.
func (s *Swapchain) Parent() vulkan.Device {
	if s == nil {
		return vulkan.Device(vulkan.NullHandle)
	}
	return s.h.Parent()
}

func (s *Swapchain) Allocator() *vulkan.AllocationCallbacks {
	if s == nil {
		return nil
	}
	return s.h.Allocator()
}

// Destroy releases the swapchain if s owns it.
func (s *Swapchain) Destroy() {
	if s == nil {
		return
	}
	s.h.Destroy()
	s.clear()
}

// Close implements io.Closer.
func (s *Swapchain) Close() error {
	s.Destroy()
	return nil
}

// Release gives up ownership without destroying the swapchain and
// returns it, leaving s empty.
func (s *Swapchain) Release() vulkan.Swapchain {
	if s == nil {
		return vulkan.Swapchain(vulkan.NullHandle)
	}
	r := s.h.Release()
	s.clear()
	return r
}

// Move returns a new Swapchain holding s's state and leaves s empty.
func (s *Swapchain) Move() *Swapchain {
	dst := &Swapchain{}
	dst.Assign(s)
	return dst
}

// Assign destroys the swapchain owned by s, if any, then takes over
// src's state. Assigning s to itself does nothing. s must not be nil.
func (s *Swapchain) Assign(src *Swapchain) {
	if s == nil {
		panic("vkw: Assign to nil Swapchain")
	}
	if s == src {
		return
	}
	if src == nil {
		s.h.Assign(nil)
		s.clear()
		return
	}
	s.h.Assign(&src.h)
	s.format, s.extent = src.format, src.extent
	src.clear()
}

func (s *Swapchain) clear() {
	s.format = vulkan.FormatUndefined
	s.extent = vulkan.Extent2D{}
}

// Images returns the presentable images of the swapchain.
func (s *Swapchain) Images() ([]vulkan.Image, error) {
	device, sc := s.Parent(), s.MustRef()
	var count uint32
	if err := checkResult(vulkan.GetSwapchainImages(device, sc, &count, nil)); err != nil {
		return nil, fmt.Errorf("get swapchain image count: %w", err)
	}
	images := make([]vulkan.Image, count)
	if err := checkResult(vulkan.GetSwapchainImages(device, sc, &count, images)); err != nil {
		return nil, fmt.Errorf("get swapchain images: %w", err)
	}
	return images[:count], nil
}

// SwapchainSupport describes what a surface supports on a physical device.
type SwapchainSupport struct {
	Capabilities vulkan.SurfaceCapabilities
	Formats      []vulkan.SurfaceFormat
	PresentModes []vulkan.PresentMode
}

// QuerySwapchainSupport queries the capabilities, formats and present
// modes of surface on device.
func QuerySwapchainSupport(device vulkan.PhysicalDevice, surface vulkan.Surface) SwapchainSupport {
	var details SwapchainSupport
	vulkan.GetPhysicalDeviceSurfaceCapabilities(device, surface, &details.Capabilities)
	details.Capabilities.Deref()
	details.Capabilities.CurrentExtent.Deref()
	details.Capabilities.MinImageExtent.Deref()
	details.Capabilities.MaxImageExtent.Deref()

	var formatCount uint32
	vulkan.GetPhysicalDeviceSurfaceFormats(device, surface, &formatCount, nil)
	if formatCount > 0 {
		details.Formats = make([]vulkan.SurfaceFormat, formatCount)
		vulkan.GetPhysicalDeviceSurfaceFormats(device, surface, &formatCount, details.Formats)
		for i := range details.Formats {
			details.Formats[i].Deref()
		}
	}

	var presentCount uint32
	vulkan.GetPhysicalDeviceSurfacePresentModes(device, surface, &presentCount, nil)
	if presentCount > 0 {
		details.PresentModes = make([]vulkan.PresentMode, presentCount)
		vulkan.GetPhysicalDeviceSurfacePresentModes(device, surface, &presentCount, details.PresentModes)
	}
	return details
}

// ChooseSurfaceFormat prefers B8G8R8A8 sRGB with a non-linear sRGB
// color space, else the first available format. It returns the zero
// SurfaceFormat, with FormatUndefined, when available is empty.
func ChooseSurfaceFormat(available []vulkan.SurfaceFormat) vulkan.SurfaceFormat {
	if len(available) == 0 {
		return vulkan.SurfaceFormat{}
	}
	for _, f := range available {
		if f.Format == vulkan.FormatB8g8r8a8Srgb && f.ColorSpace == vulkan.ColorSpaceSrgbNonlinear {
			return f
		}
	}
	if len(available) == 1 && available[0].Format == vulkan.FormatUndefined {
		return vulkan.SurfaceFormat{Format: vulkan.FormatB8g8r8a8Srgb, ColorSpace: vulkan.ColorSpaceSrgbNonlinear}
	}
	return available[0]
}

// ChoosePresentMode returns preferred if available, else FIFO, which
// every implementation supports.
func ChoosePresentMode(available []vulkan.PresentMode, preferred vulkan.PresentMode) vulkan.PresentMode {
	for _, m := range available {
		if m == preferred {
			return m
		}
	}
	return vulkan.PresentModeFifo
}

// ChooseExtent returns the surface's current extent, or the framebuffer
// size clamped to the supported range when the surface lets the
// swapchain decide.
func ChooseExtent(caps vulkan.SurfaceCapabilities, width, height int) vulkan.Extent2D {
	if caps.CurrentExtent.Width != math.MaxUint32 {
		return caps.CurrentExtent
	}
	return vulkan.Extent2D{
		Width:  clamp(uint32(width), caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(uint32(height), caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ImageCount returns one more than the minimum image count, bounded by
// the maximum when there is one.
func ImageCount(caps vulkan.SurfaceCapabilities) uint32 {
	n := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && n > caps.MaxImageCount {
		n = caps.MaxImageCount
	}
	return n
}

func clamp(val, min, max uint32) uint32 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
