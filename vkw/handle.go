// Package vkw wraps native Vulkan handles in owning values.
//
// A Handle holds one native handle together with the parent handle and
// allocation callbacks needed to destroy it. Exactly one Handle owns a
// given native handle at any time: ownership moves with Move and Assign,
// and Destroy releases the handle once. Handles are not safe for
// concurrent use and must not be copied.
//
// Parents are never kept alive by their children. Callers destroy
// children (surfaces, swapchains, sync objects) before the device or
// instance they were created from.
package vkw

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/vulkan-go/vulkan"
)

var trace atomic.Bool

// SetTrace enables logging of every native destroy issued by a Handle.
func SetTrace(on bool) { trace.Store(on) }

// Trait describes how to create and destroy one kind of native resource.
// P is the parent handle required to destroy it, H the native handle
// and I the creation parameters.
type Trait[P any, H comparable, I any] interface {
	Kind() Kind
	Create(parent P, info *I, alloc *vulkan.AllocationCallbacks) (H, error)
	Destroy(parent P, h H, alloc *vulkan.AllocationCallbacks)
}

// noCopy makes go vet's copylocks check reject copies of a Handle.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Handle is an owning wrapper for a native handle of type H whose
// destruction requires a parent of type P.
//
// The zero value holds nothing and owns nothing. A nil *Handle behaves
// the same way, so it is safe to defer Destroy before checking the
// error returned by New.
type Handle[P any, H comparable] struct {
	_ noCopy

	kind    Kind
	handle  H
	parent  P
	alloc   *vulkan.AllocationCallbacks
	destroy func(P, H, *vulkan.AllocationCallbacks)
	owned   bool
}

// New creates a native resource through t and returns a Handle owning it.
// On failure it returns a *CreateError and no destroy call is ever made.
func New[P any, H comparable, I any](t Trait[P, H, I], parent P, info *I, alloc *vulkan.AllocationCallbacks) (*Handle[P, H], error) {
	h, err := t.Create(parent, info, alloc)
	if err != nil {
		return nil, newCreateError(t.Kind(), err)
	}
	return &Handle[P, H]{
		kind:    t.Kind(),
		handle:  h,
		parent:  parent,
		alloc:   alloc,
		destroy: t.Destroy,
		owned:   true,
	}, nil
}

// Ref returns the native handle, or the null handle if h holds nothing.
// The handle is returned whether or not h owns it.
func (h *Handle[P, H]) Ref() H {
	if h == nil {
		var null H
		return null
	}
	return h.handle
}

// MustRef is like Ref but panics if h holds the null handle.
func (h *Handle[P, H]) MustRef() H {
	r := h.Ref()
	var null H
	if r == null {
		panic(fmt.Sprintf("vkw: %s handle is null", h.Kind()))
	}
	return r
}

// Owned reports whether h is responsible for destroying its handle.
func (h *Handle[P, H]) Owned() bool { return h != nil && h.owned }

// Kind returns the resource kind, KindUnknown for an empty Handle.
func (h *Handle[P, H]) Kind() Kind {
	if h == nil {
		return KindUnknown
	}
	return h.kind
}

// Parent returns the parent handle used to destroy h.
func (h *Handle[P, H]) Parent() P {
	if h == nil {
		var zero P
		return zero
	}
	return h.parent
}

// Allocator returns the allocation callbacks passed at creation.
func (h *Handle[P, H]) Allocator() *vulkan.AllocationCallbacks {
	if h == nil {
		return nil
	}
	return h.alloc
}

// Destroy releases the native handle if h owns it. It is a no-op on
// an empty or non-owning Handle and may be called any number of times.
func (h *Handle[P, H]) Destroy() {
	if h == nil || !h.owned {
		return
	}
	h.owned = false
	if trace.Load() {
		log.Printf("vkw: destroy %s", h.kind)
	}
	h.destroy(h.parent, h.handle, h.alloc)
	var null H
	h.handle = null
}

// Close implements io.Closer. It calls Destroy and always returns nil.
func (h *Handle[P, H]) Close() error {
	h.Destroy()
	return nil
}

// Release gives up ownership without destroying the handle and returns
// it. The caller becomes responsible for destroying it.
func (h *Handle[P, H]) Release() H {
	if h == nil {
		var null H
		return null
	}
	r := h.handle
	h.reset()
	return r
}

// Move returns a new Handle holding h's state and leaves h empty.
// No native call is made.
func (h *Handle[P, H]) Move() *Handle[P, H] {
	dst := &Handle[P, H]{}
	if h != nil {
		dst.adopt(h)
	}
	return dst
}

// Assign destroys the handle owned by h, if any, then takes over the
// state of src, leaving src empty. Assigning h to itself does nothing.
// A nil src leaves h empty. h itself must not be nil.
func (h *Handle[P, H]) Assign(src *Handle[P, H]) {
	if h == nil {
		panic("vkw: Assign to nil Handle")
	}
	if h == src {
		return
	}
	h.Destroy()
	if src == nil {
		h.reset()
		return
	}
	h.adopt(src)
}

func (h *Handle[P, H]) adopt(src *Handle[P, H]) {
	h.kind = src.kind
	h.handle = src.handle
	h.parent = src.parent
	h.alloc = src.alloc
	h.destroy = src.destroy
	h.owned = src.owned
	src.reset()
}

func (h *Handle[P, H]) reset() {
	var null H
	var zero P
	h.kind = KindUnknown
	h.handle = null
	h.parent = zero
	h.alloc = nil
	h.destroy = nil
	h.owned = false
}
