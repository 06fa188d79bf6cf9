package main

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/vulkan"

	"kube/vkw"
)

var (
	clearFrom = mgl32.Vec4{0.05, 0.05, 0.08, 1.0}
	clearTo   = mgl32.Vec4{0.10, 0.22, 0.35, 1.0}
)

// clearColor oscillates between clearFrom and clearTo with a period of
// roughly six seconds.
func clearColor(elapsed time.Duration) mgl32.Vec4 {
	w := float32(math.Sin(elapsed.Seconds())+1) / 2
	return clearFrom.Add(clearTo.Sub(clearFrom).Mul(w))
}

// clearValues returns the colour clear for elapsed followed by the
// depth clear.
func clearValues(elapsed time.Duration) []vulkan.ClearValue {
	c := clearColor(elapsed)
	return []vulkan.ClearValue{
		vulkan.NewClearValue([]float32{c[0], c[1], c[2], c[3]}),
		vulkan.NewClearDepthStencil(1.0, 0),
	}
}

func (a *VulkanApp) recordCommandBuffer(cb vulkan.CommandBuffer, imageIndex, frame int) error {
	if err := vkw.BeginCommandBuffer(cb, 0); err != nil {
		return err
	}

	values := clearValues(time.Since(a.startTime))
	renderPassInfo := vulkan.RenderPassBeginInfo{
		SType:       vulkan.StructureTypeRenderPassBeginInfo,
		RenderPass:  a.renderPass.Ref(),
		Framebuffer: a.framebuffers[imageIndex].Ref(),
		RenderArea: vulkan.Rect2D{
			Offset: vulkan.Offset2D{X: 0, Y: 0},
			Extent: a.swapchain.Extent(),
		},
		ClearValueCount: uint32(len(values)),
		PClearValues:    values,
	}

	vulkan.CmdBeginRenderPass(cb, &renderPassInfo, vulkan.SubpassContentsInline)
	vulkan.CmdBindDescriptorSets(cb, vulkan.PipelineBindPointGraphics, a.pipelineLayout.Ref(), 0, 1,
		[]vulkan.DescriptorSet{a.descriptorSets.At(frame)}, 0, nil)
	vulkan.CmdEndRenderPass(cb)

	return vkw.EndCommandBuffer(cb)
}

func (a *VulkanApp) DrawFrame() error {
	frame := a.currentFrame % maxFramesInFlight
	device := a.device.Ref()
	inFlight := a.inFlightFences[frame].Ref()
	vulkan.WaitForFences(device, 1, []vulkan.Fence{inFlight}, vulkan.True, vulkan.MaxUint64)

	if a.framebufferResized {
		if err := a.recreateSwapchain(); err != nil {
			return err
		}
	}

	var imageIndex uint32
	res := vulkan.AcquireNextImage(device, a.swapchain.Ref(), vulkan.MaxUint64, a.imageAvailable[frame].Ref(), vulkan.Fence(vulkan.NullHandle), &imageIndex)
	if res == vulkan.ErrorOutOfDate {
		return a.recreateSwapchain()
	}
	if res != vulkan.Success && res != vulkan.Suboptimal {
		return fmt.Errorf("acquire next image: %w", vulkan.Error(res))
	}

	if a.imagesInFlight[imageIndex] != vulkan.Fence(vulkan.NullHandle) {
		vulkan.WaitForFences(device, 1, []vulkan.Fence{a.imagesInFlight[imageIndex]}, vulkan.True, vulkan.MaxUint64)
	}
	a.imagesInFlight[imageIndex] = inFlight

	vulkan.ResetFences(device, 1, []vulkan.Fence{inFlight})

	if err := a.updateUniformBuffer(frame); err != nil {
		return err
	}
	cb := a.commandBuffers.At(int(imageIndex))
	vulkan.ResetCommandBuffer(cb, 0)
	if err := a.recordCommandBuffer(cb, int(imageIndex), frame); err != nil {
		return err
	}

	renderFinished := a.renderFinished[frame].Ref()
	waitStages := []vulkan.PipelineStageFlags{vulkan.PipelineStageFlags(vulkan.PipelineStageColorAttachmentOutputBit)}
	submitInfo := vulkan.SubmitInfo{
		SType:                vulkan.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vulkan.Semaphore{a.imageAvailable[frame].Ref()},
		PWaitDstStageMask:    waitStages,
		CommandBufferCount:   1,
		PCommandBuffers:      []vulkan.CommandBuffer{cb},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vulkan.Semaphore{renderFinished},
	}
	if res := vulkan.QueueSubmit(a.graphicsQueue, 1, []vulkan.SubmitInfo{submitInfo}, inFlight); res != vulkan.Success {
		return fmt.Errorf("queue submit: %w", vulkan.Error(res))
	}

	presentInfo := vulkan.PresentInfo{
		SType:              vulkan.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vulkan.Semaphore{renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vulkan.Swapchain{a.swapchain.Ref()},
		PImageIndices:      []uint32{imageIndex},
	}

	res = vulkan.QueuePresent(a.presentQueue, &presentInfo)
	a.currentFrame = (a.currentFrame + 1) % maxFramesInFlight
	if res == vulkan.ErrorOutOfDate || res == vulkan.Suboptimal || a.framebufferResized {
		return a.recreateSwapchain()
	}
	if res != vulkan.Success {
		return fmt.Errorf("queue present: %w", vulkan.Error(res))
	}
	return nil
}
