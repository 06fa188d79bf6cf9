package vkw

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vulkan-go/vulkan"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "swapchain", KindSwapchain.String())
	assert.Equal(t, "debug messenger", KindDebugMessenger.String())
	assert.Equal(t, "descriptor set layout", KindDescriptorSetLayout.String())
	assert.Equal(t, "unknown", Kind(-1).String())
	assert.Equal(t, "unknown", Kind(1000).String())
}

func TestCheckResult(t *testing.T) {
	assert.NoError(t, checkResult(vulkan.Success))

	err := checkResult(vulkan.ErrorDeviceLost)
	var re ResultError
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, vulkan.ErrorDeviceLost, re.Code)
	assert.NotEmpty(t, err.Error())
}

func TestNewCreateError(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", ResultError{Code: vulkan.ErrorOutOfDeviceMemory})
	ce := newCreateError(KindImageView, wrapped)
	assert.Equal(t, vulkan.ErrorOutOfDeviceMemory, ce.Code)
	assert.Equal(t, KindImageView, ce.Kind)
	assert.ErrorIs(t, ce, wrapped)

	plain := errors.New("window system gone")
	ce = newCreateError(KindWindow, plain)
	assert.Equal(t, vulkan.ErrorInitializationFailed, ce.Code)
	assert.ErrorIs(t, ce, plain)
	assert.Equal(t, "create window: window system gone", ce.Error())
}
