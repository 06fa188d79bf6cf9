package vkw

import (
	"log"
	"unsafe"

	"github.com/vulkan-go/vulkan"
)

// DebugReportExtension must be enabled on the instance for a
// DebugMessenger to be created.
const DebugReportExtension = "VK_EXT_debug_report"

// DebugMessenger is an owning wrapper for a debug report callback.
type DebugMessenger = Handle[vulkan.Instance, vulkan.DebugReportCallback]

// Extension entry points are not part of the core API. vulkan-go's
// bridge answers VK_NOT_READY from create when the instance never
// resolved the entry point, and skips destroy in that case.
var (
	createDebugReport  = vulkan.CreateDebugReportCallback
	destroyDebugReport = vulkan.DestroyDebugReportCallback
)

// CreateDebugMessenger creates a debug report callback on instance.
// It fails with ErrExtensionUnavailable if the extension entry point
// was not loaded for instance.
func CreateDebugMessenger(instance vulkan.Instance, info *vulkan.DebugReportCallbackCreateInfo, alloc *vulkan.AllocationCallbacks) (vulkan.DebugReportCallback, error) {
	null := vulkan.DebugReportCallback(vulkan.NullHandle)
	var messenger vulkan.DebugReportCallback
	switch res := createDebugReport(instance, info, alloc, &messenger); res {
	case vulkan.Success:
		return messenger, nil
	case vulkan.NotReady:
		return null, ErrExtensionUnavailable
	default:
		return null, ResultError{Code: res}
	}
}

// DestroyDebugMessenger destroys messenger. It does nothing if
// messenger is null.
func DestroyDebugMessenger(instance vulkan.Instance, messenger vulkan.DebugReportCallback, alloc *vulkan.AllocationCallbacks) {
	if isNull(messenger) {
		return
	}
	destroyDebugReport(instance, messenger, alloc)
}

type debugMessengerTrait struct{}

func (debugMessengerTrait) Kind() Kind { return KindDebugMessenger }

func (debugMessengerTrait) Create(instance vulkan.Instance, info *vulkan.DebugReportCallbackCreateInfo, alloc *vulkan.AllocationCallbacks) (vulkan.DebugReportCallback, error) {
	return CreateDebugMessenger(instance, info, alloc)
}

func (debugMessengerTrait) Destroy(instance vulkan.Instance, messenger vulkan.DebugReportCallback, alloc *vulkan.AllocationCallbacks) {
	DestroyDebugMessenger(instance, messenger, alloc)
}

// NewDebugMessenger attaches a debug messenger to instance. When the
// extension is unavailable the returned error wraps
// ErrExtensionUnavailable and has Code vulkan.ErrorExtensionNotPresent;
// callers may carry on without a messenger.
func NewDebugMessenger(instance vulkan.Instance, info *vulkan.DebugReportCallbackCreateInfo, alloc *vulkan.AllocationCallbacks) (*DebugMessenger, error) {
	m, err := New[vulkan.Instance, vulkan.DebugReportCallback, vulkan.DebugReportCallbackCreateInfo](debugMessengerTrait{}, instance, info, alloc)
	if ce, ok := err.(*CreateError); ok && ce.Err == ErrExtensionUnavailable {
		ce.Code = vulkan.ErrorExtensionNotPresent
	}
	return m, err
}

// DebugReportCreateInfo returns a create info reporting errors and
// warnings to LogDebugReport.
func DebugReportCreateInfo() vulkan.DebugReportCallbackCreateInfo {
	return vulkan.DebugReportCallbackCreateInfo{
		SType: vulkan.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vulkan.DebugReportFlags(
			vulkan.DebugReportErrorBit |
				vulkan.DebugReportWarningBit |
				vulkan.DebugReportPerformanceWarningBit),
		PfnCallback: LogDebugReport,
	}
}

// LogDebugReport writes driver messages to the standard logger.
func LogDebugReport(flags vulkan.DebugReportFlags, objectType vulkan.DebugReportObjectType, object uint64, location uint, messageCode int32, layerPrefix string, message string, userData unsafe.Pointer) vulkan.Bool32 {
	log.Printf("[VK][%s][0x%x] %s (code=%d)", layerPrefix, flags, message, messageCode)
	return vulkan.False
}
