package main

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/vulkan-go/vulkan"

	"kube/vkw"
)

// createPipelineLayout creates the layout pipelines share: the uniform
// buffer and sampler set at set 0.
func (a *VulkanApp) createPipelineLayout() error {
	layoutInfo := vulkan.PipelineLayoutCreateInfo{
		SType:          vulkan.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 1,
		PSetLayouts:    []vulkan.DescriptorSetLayout{a.descriptorSetLayout.Ref()},
	}
	layout, err := vkw.NewPipelineLayout(a.device.Ref(), &layoutInfo, nil)
	if err != nil {
		return err
	}
	a.pipelineLayout = layout
	return nil
}

// createDescriptorPool sizes the pool for one set per frame in flight,
// so it survives swapchain recreation. Sets are freed individually.
func (a *VulkanApp) createDescriptorPool() error {
	poolSizes := []vulkan.DescriptorPoolSize{
		{Type: vulkan.DescriptorTypeUniformBuffer, DescriptorCount: maxFramesInFlight},
		{Type: vulkan.DescriptorTypeSampler, DescriptorCount: maxFramesInFlight},
	}
	poolInfo := vulkan.DescriptorPoolCreateInfo{
		SType:         vulkan.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vulkan.DescriptorPoolCreateFlags(vulkan.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       maxFramesInFlight,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
	}
	pool, err := vkw.NewDescriptorPool(a.device.Ref(), &poolInfo, nil)
	if err != nil {
		return err
	}
	a.descriptorPool = pool
	return nil
}

func (a *VulkanApp) createUniformBuffers() error {
	bufferInfo := vulkan.BufferCreateInfo{
		SType:       vulkan.StructureTypeBufferCreateInfo,
		Size:        vulkan.DeviceSize(unsafe.Sizeof(uniformBufferObject{})),
		Usage:       vulkan.BufferUsageFlags(vulkan.BufferUsageUniformBufferBit),
		SharingMode: vulkan.SharingModeExclusive,
	}
	props := vulkan.MemoryPropertyFlags(vulkan.MemoryPropertyHostVisibleBit | vulkan.MemoryPropertyHostCoherentBit)
	a.uniformBuffers = make([]*vkw.BoundBuffer, 0, maxFramesInFlight)
	for i := 0; i < maxFramesInFlight; i++ {
		buf, err := vkw.NewBoundBuffer(a.device.Ref(), a.memoryTypes, &bufferInfo, props, nil)
		if err != nil {
			return fmt.Errorf("uniform buffer %d: %w", i, err)
		}
		a.uniformBuffers = append(a.uniformBuffers, buf)
	}
	return nil
}

// createDescriptorSets allocates one set per frame in flight and points
// each at that frame's uniform buffer. The sampler binding is immutable
// and needs no write.
func (a *VulkanApp) createDescriptorSets() error {
	layouts := make([]vulkan.DescriptorSetLayout, maxFramesInFlight)
	for i := range layouts {
		layouts[i] = a.descriptorSetLayout.Ref()
	}
	allocInfo := vulkan.DescriptorSetAllocateInfo{
		SType:              vulkan.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     a.descriptorPool.Ref(),
		DescriptorSetCount: uint32(len(layouts)),
		PSetLayouts:        layouts,
	}
	sets, err := vkw.AllocateDescriptorSets(a.device.Ref(), &allocInfo)
	if err != nil {
		return err
	}
	a.descriptorSets = sets

	writes := make([]vulkan.WriteDescriptorSet, sets.Len())
	for i := range writes {
		writes[i] = vulkan.WriteDescriptorSet{
			SType:           vulkan.StructureTypeWriteDescriptorSet,
			DstSet:          sets.At(i),
			DstBinding:      0,
			DescriptorType:  vulkan.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			PBufferInfo: []vulkan.DescriptorBufferInfo{{
				Buffer: a.uniformBuffers[i].Ref(),
				Range:  vulkan.DeviceSize(unsafe.Sizeof(uniformBufferObject{})),
			}},
		}
	}
	vulkan.UpdateDescriptorSets(a.device.Ref(), uint32(len(writes)), writes, 0, nil)
	return nil
}

// newUniforms builds the uniform block for a frame elapsed into the
// run, with the projection flipped for Vulkan clip space.
func newUniforms(elapsed time.Duration, extent vulkan.Extent2D) uniformBufferObject {
	angle := float32(elapsed.Seconds()) * mgl32.DegToRad(45)
	aspect := float32(1)
	if extent.Height > 0 {
		aspect = float32(extent.Width) / float32(extent.Height)
	}
	proj := mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 10.0)
	proj[5] *= -1
	return uniformBufferObject{
		Model: mgl32.HomogRotate3D(angle, mgl32.Vec3{0, 0, 1}),
		View:  mgl32.LookAtV(mgl32.Vec3{3, 3, 3}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}),
		Proj:  proj,
	}
}

func (u *uniformBufferObject) bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), unsafe.Sizeof(*u))
}

func (a *VulkanApp) updateUniformBuffer(frame int) error {
	ubo := newUniforms(time.Since(a.startTime), a.swapchain.Extent())
	if err := a.uniformBuffers[frame].Write(ubo.bytes()); err != nil {
		return fmt.Errorf("update uniform buffer: %w", err)
	}
	return nil
}

func (a *VulkanApp) createSampler() error {
	samplerInfo := vulkan.SamplerCreateInfo{
		SType:                   vulkan.StructureTypeSamplerCreateInfo,
		MagFilter:               vulkan.FilterLinear,
		MinFilter:               vulkan.FilterLinear,
		AddressModeU:            vulkan.SamplerAddressModeRepeat,
		AddressModeV:            vulkan.SamplerAddressModeRepeat,
		AddressModeW:            vulkan.SamplerAddressModeRepeat,
		AnisotropyEnable:        vulkan.False,
		MaxAnisotropy:           1.0,
		BorderColor:             vulkan.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vulkan.False,
		CompareEnable:           vulkan.False,
		CompareOp:               vulkan.CompareOpAlways,
		MipmapMode:              vulkan.SamplerMipmapModeLinear,
	}
	sampler, err := vkw.NewSampler(a.device.Ref(), &samplerInfo, nil)
	if err != nil {
		return fmt.Errorf("sampler: %w", err)
	}
	a.sampler = sampler
	return nil
}
