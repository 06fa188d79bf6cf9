package vkw

import "github.com/vulkan-go/vulkan"

// ValidationLayers are the layers enabled when validation is requested.
var ValidationLayers = []string{"VK_LAYER_KHRONOS_validation\x00"}

// LayersSupported reports whether every layer in layers is available.
func LayersSupported(layers []string) bool {
	var count uint32
	if vulkan.EnumerateInstanceLayerProperties(&count, nil) != vulkan.Success {
		return false
	}
	props := make([]vulkan.LayerProperties, count)
	if vulkan.EnumerateInstanceLayerProperties(&count, props) != vulkan.Success {
		return false
	}
	supported := make(map[string]bool)
	for i := range props {
		props[i].Deref()
		supported[vulkan.ToString(props[i].LayerName[:])] = true
	}
	for _, l := range layers {
		if !supported[trimNul(l)] {
			return false
		}
	}
	return true
}

// ExtensionsSupported reports whether device exposes every extension
// in exts.
func ExtensionsSupported(device vulkan.PhysicalDevice, exts []string) bool {
	var count uint32
	if vulkan.EnumerateDeviceExtensionProperties(device, "", &count, nil) != vulkan.Success {
		return false
	}
	props := make([]vulkan.ExtensionProperties, count)
	if vulkan.EnumerateDeviceExtensionProperties(device, "", &count, props) != vulkan.Success {
		return false
	}
	supported := make(map[string]bool)
	for i := range props {
		props[i].Deref()
		supported[vulkan.ToString(props[i].ExtensionName[:])] = true
	}
	for _, e := range exts {
		if !supported[trimNul(e)] {
			return false
		}
	}
	return true
}

func trimNul(s string) string {
	if n := len(s); n > 0 && s[n-1] == 0 {
		return s[:n-1]
	}
	return s
}
