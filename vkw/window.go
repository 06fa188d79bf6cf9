package vkw

import (
	"errors"

	"github.com/vulkan-go/glfw/v3.3/glfw"
	"github.com/vulkan-go/vulkan"
)

// WindowConfig holds the creation parameters of a Window.
type WindowConfig struct {
	Width     int
	Height    int
	Title     string
	Resizable bool
}

// Window is an owning wrapper for a native window without a client API,
// suitable for Vulkan presentation.
type Window = Handle[*Context, *glfw.Window]

type windowTrait struct{}

func (windowTrait) Kind() Kind { return KindWindow }

func (windowTrait) Create(ctx *Context, cfg *WindowConfig, _ *vulkan.AllocationCallbacks) (*glfw.Window, error) {
	if !ctx.Live() {
		return nil, errors.New("no live context")
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	resizable := glfw.False
	if cfg.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)
	return glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
}

func (windowTrait) Destroy(_ *Context, win *glfw.Window, _ *vulkan.AllocationCallbacks) {
	if win != nil {
		win.Destroy()
	}
}

// NewWindow creates a window. ctx must outlive it.
func NewWindow(ctx *Context, cfg WindowConfig) (*Window, error) {
	return New[*Context, *glfw.Window, WindowConfig](windowTrait{}, ctx, &cfg, nil)
}

// FramebufferSize returns the framebuffer size of win in pixels, or
// zero for an empty window.
func FramebufferSize(win *Window) (width, height int) {
	w := win.Ref()
	if w == nil {
		return 0, 0
	}
	return w.GetFramebufferSize()
}

// RequiredInstanceExtensions returns the instance extensions needed to
// present to win, or nil for an empty window.
func RequiredInstanceExtensions(win *Window) []string {
	w := win.Ref()
	if w == nil {
		return nil
	}
	return w.GetRequiredInstanceExtensions()
}

// WaitWhileMinimized blocks, processing events, until win has a
// non-zero framebuffer. It returns at once for an empty window.
func WaitWhileMinimized(win *Window) {
	if win.Ref() == nil {
		return
	}
	for {
		w, h := FramebufferSize(win)
		if w > 0 && h > 0 {
			return
		}
		glfw.WaitEventsTimeout(0.01)
	}
}
