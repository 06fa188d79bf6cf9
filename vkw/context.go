package vkw

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vulkan-go/glfw/v3.3/glfw"
	"github.com/vulkan-go/vulkan"
)

// subsystem is the process-wide windowing and loader state.
type subsystem interface {
	Init() error
	Terminate()
}

type glfwSubsystem struct{}

func (glfwSubsystem) Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return errors.New("GLFW Vulkan loader not found")
	}
	vulkan.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vulkan.Init(); err != nil {
		glfw.Terminate()
		return fmt.Errorf("vulkan init: %w", err)
	}
	return nil
}

func (glfwSubsystem) Terminate() { glfw.Terminate() }

var (
	windowing subsystem = glfwSubsystem{}

	ctxMu   sync.Mutex
	ctxLive bool
)

// Context owns the process-wide windowing subsystem and the Vulkan
// loader. At most one Context is live at a time; it must be created and
// closed on the main thread.
type Context struct {
	_ noCopy

	sub    subsystem
	closed bool
}

// NewContext initializes the windowing subsystem and the Vulkan loader.
// It fails with ErrContextExists while another Context is live.
func NewContext() (*Context, error) {
	return newContext(windowing)
}

func newContext(sub subsystem) (*Context, error) {
	ctxMu.Lock()
	defer ctxMu.Unlock()
	if ctxLive {
		return nil, ErrContextExists
	}
	if err := sub.Init(); err != nil {
		return nil, err
	}
	ctxLive = true
	return &Context{sub: sub}, nil
}

// Live reports whether c has not been closed.
func (c *Context) Live() bool { return c != nil && !c.closed }

// Close terminates the windowing subsystem. Windows created from c must
// be destroyed first. Only the first call has an effect.
func (c *Context) Close() error {
	if !c.Live() {
		return nil
	}
	ctxMu.Lock()
	defer ctxMu.Unlock()
	c.closed = true
	c.sub.Terminate()
	ctxLive = false
	return nil
}
