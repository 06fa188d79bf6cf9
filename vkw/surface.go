package vkw

import (
	"fmt"
	"unsafe"

	"github.com/vulkan-go/vulkan"
)

// WindowSurfacer is the part of a native window a Surface needs.
// *glfw.Window implements it.
type WindowSurfacer interface {
	CreateWindowSurface(instance interface{}, allocCallbacks unsafe.Pointer) (uintptr, error)
}

// Surface is an owning wrapper for a presentation surface.
type Surface = Handle[vulkan.Instance, vulkan.Surface]

var destroySurface = DestroySurface

type surfaceTrait struct{}

func (surfaceTrait) Kind() Kind { return KindSurface }

func (surfaceTrait) Create(instance vulkan.Instance, win *WindowSurfacer, alloc *vulkan.AllocationCallbacks) (vulkan.Surface, error) {
	null := vulkan.Surface(vulkan.NullHandle)
	if win == nil || *win == nil {
		return null, fmt.Errorf("%w: no window", ErrWindowSurface)
	}
	ptr, err := (*win).CreateWindowSurface(instance, unsafe.Pointer(alloc))
	if err != nil {
		return null, fmt.Errorf("%w: %v", ErrWindowSurface, err)
	}
	return vulkan.SurfaceFromPointer(ptr), nil
}

func (surfaceTrait) Destroy(instance vulkan.Instance, surface vulkan.Surface, alloc *vulkan.AllocationCallbacks) {
	destroySurface(instance, surface, alloc)
}

// NewSurface creates a surface for win on instance. A failure wraps
// ErrWindowSurface.
func NewSurface(instance vulkan.Instance, win WindowSurfacer, alloc *vulkan.AllocationCallbacks) (*Surface, error) {
	return New[vulkan.Instance, vulkan.Surface, WindowSurfacer](surfaceTrait{}, instance, &win, alloc)
}
