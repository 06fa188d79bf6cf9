package main

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vulkan-go/vulkan"

	"kube/settings"
)

func TestClearColor(t *testing.T) {
	mid := clearFrom.Add(clearTo).Mul(0.5)
	assert.True(t, clearColor(0).ApproxEqual(mid))

	peak := time.Duration(float64(time.Second) * 3.14159265 / 2)
	assert.True(t, clearColor(peak).ApproxEqualThreshold(clearTo, 1e-5))

	c := clearColor(5 * time.Second)
	for i := 0; i < 4; i++ {
		lo, hi := min(clearFrom[i], clearTo[i]), max(clearFrom[i], clearTo[i])
		assert.GreaterOrEqual(t, c[i], lo-1e-6)
		assert.LessOrEqual(t, c[i], hi+1e-6)
	}
}

func TestClearValues(t *testing.T) {
	values := clearValues(0)
	require.Len(t, values, 2)
	c := clearColor(0)
	assert.Equal(t, vulkan.NewClearValue([]float32{c[0], c[1], c[2], c[3]}), values[0])
	assert.Equal(t, vulkan.NewClearDepthStencil(1.0, 0), values[1])
}

func TestNewUniforms(t *testing.T) {
	u := newUniforms(0, vulkan.Extent2D{Width: 800, Height: 600})
	assert.True(t, u.Model.ApproxEqual(mgl32.Ident4()))
	assert.Negative(t, u.Proj[5], "projection is flipped for Vulkan clip space")

	square := newUniforms(0, vulkan.Extent2D{Width: 600, Height: 600})
	assert.InDelta(t, square.Proj[5], -square.Proj[0], 1e-6)

	assert.NotPanics(t, func() { newUniforms(time.Second, vulkan.Extent2D{}) })
	assert.Len(t, u.bytes(), 3*16*4)
}

func TestPresentMode(t *testing.T) {
	assert.Equal(t, vulkan.PresentModeImmediate, presentMode(settings.Immediate))
	assert.Equal(t, vulkan.PresentModeMailbox, presentMode(settings.Mailbox))
	assert.Equal(t, vulkan.PresentModeFifo, presentMode(settings.Fifo))
	assert.Equal(t, vulkan.PresentModeFifoRelaxed, presentMode(settings.FifoRelaxed))
	assert.Equal(t, vulkan.PresentModeFifo, presentMode(""))
}

func TestMakeVersion(t *testing.T) {
	assert.Equal(t, uint32(1<<22|3<<12), makeVersion(settings.Version{Major: 1, Minor: 3}))
	assert.Equal(t, vulkan.MakeVersion(1, 2, 7), makeVersion(settings.Version{Major: 1, Minor: 2, Patch: 7}))
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", "~/kube.yaml", "--validation=false", "--trace"}))

	config, err := cmd.Flags().GetString("config")
	require.NoError(t, err)
	assert.Equal(t, "~/kube.yaml", config)
	assert.True(t, cmd.Flags().Changed("validation"))
	validation, err := cmd.Flags().GetBool("validation")
	require.NoError(t, err)
	assert.False(t, validation)
	trace, err := cmd.Flags().GetBool("trace")
	require.NoError(t, err)
	assert.True(t, trace)
}

func TestRootCmdRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SilenceErrors = true
	assert.Error(t, cmd.Execute())
}
