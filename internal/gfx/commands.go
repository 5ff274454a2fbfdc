package gfx

import (
	"github.com/rrenderer/rrenderer/internal/errs"
	"github.com/vkngwrapper/core/core1_0"
)

// CommandPool allocates primary command buffers on the graphics family. Its
// buffers are reset individually by re-recording them.
type CommandPool struct {
	device *Device
	handle core1_0.CommandPool
}

func NewCommandPool(device *Device) (*CommandPool, error) {
	if device.Families.GraphicsFamily == nil {
		return nil, errs.Vulkan(errs.QueueFamilyIndexIsEmpty, nil)
	}

	pool, _, err := device.Logical.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		Flags:            core1_0.CommandPoolCreateTransient | core1_0.CommandPoolCreateResetBuffer,
		QueueFamilyIndex: *device.Families.GraphicsFamily,
	})
	if err != nil {
		return nil, errs.Vulkan(errs.CreateCommandPool, err)
	}

	return &CommandPool{device: device, handle: pool}, nil
}

// Allocate returns exactly count primary command buffers.
func (p *CommandPool) Allocate(count int) ([]*CommandBuffer, error) {
	handles, _, err := p.device.Logical.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        p.handle,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	})
	if err != nil {
		return nil, errs.Vulkan(errs.AllocateCommandBuffers, err)
	}

	buffers := make([]*CommandBuffer, len(handles))
	for i, handle := range handles {
		buffers[i] = &CommandBuffer{index: i, handle: handle}
	}
	return buffers, nil
}

func (p *CommandPool) Free(buffers []*CommandBuffer) {
	if len(buffers) == 0 {
		return
	}

	handles := make([]core1_0.CommandBuffer, len(buffers))
	for i, buffer := range buffers {
		handles[i] = buffer.handle
	}
	p.device.Logical.FreeCommandBuffers(handles)
}

// RunOnce records fn into a throwaway buffer, submits it to the graphics queue
// and waits for it to finish.
func (p *CommandPool) RunOnce(fn func(buffer core1_0.CommandBuffer) error) error {
	buffers, _, err := p.device.Logical.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        p.handle,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return errs.Vulkan(errs.AllocateCommandBuffers, err)
	}
	defer p.device.Logical.FreeCommandBuffers(buffers)

	buffer := buffers[0]
	if _, err = buffer.Begin(core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	}); err != nil {
		return errs.Vulkan(errs.BeginRecordCommandBuffer, err)
	}

	if err = fn(buffer); err != nil {
		return err
	}

	if _, err = buffer.End(); err != nil {
		return errs.Vulkan(errs.EndRecordCommandBuffer, err)
	}

	if _, err = p.device.GraphicsQueue.Submit(nil, []core1_0.SubmitInfo{
		{
			CommandBuffers: []core1_0.CommandBuffer{buffer},
		},
	}); err != nil {
		return errs.Vulkan(errs.QueueSubmitGraphics, err)
	}

	_, err = p.device.GraphicsQueue.WaitIdle()
	return err
}

func (p *CommandPool) Destroy() {
	if p.handle != nil {
		p.handle.Destroy(nil)
		p.handle = nil
	}
}

// CommandBuffer is one per-image primary buffer. Errors it returns carry its
// index.
type CommandBuffer struct {
	index  int
	handle core1_0.CommandBuffer
}

func (b *CommandBuffer) Index() int {
	return b.index
}

func (b *CommandBuffer) Handle() core1_0.CommandBuffer {
	return b.handle
}

// Begin starts recording. The pool allows individual resets, so beginning
// also discards what was recorded last time.
func (b *CommandBuffer) Begin() error {
	if _, err := b.handle.Begin(core1_0.CommandBufferBeginInfo{}); err != nil {
		return errs.VulkanAt(errs.BeginRecordCommandBuffer, b.index, err)
	}
	return nil
}

func (b *CommandBuffer) End() error {
	if _, err := b.handle.End(); err != nil {
		return errs.VulkanAt(errs.EndRecordCommandBuffer, b.index, err)
	}
	return nil
}

// BeginRenderPass clears color to clear and depth to 1, then sets the dynamic
// viewport and scissor to cover extent.
func (b *CommandBuffer) BeginRenderPass(renderPass core1_0.RenderPass, framebuffer core1_0.Framebuffer, extent core1_0.Extent2D, clear [4]float32) error {
	err := b.handle.CmdBeginRenderPass(core1_0.SubpassContentsInline,
		core1_0.RenderPassBeginInfo{
			RenderPass:  renderPass,
			Framebuffer: framebuffer,
			RenderArea: core1_0.Rect2D{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: extent,
			},
			ClearValues: []core1_0.ClearValue{
				core1_0.ClearValueFloat(clear),
				core1_0.ClearValueDepthStencil{Depth: 1.0, Stencil: 0},
			},
		})
	if err != nil {
		return errs.VulkanAt(errs.BeginRecordCommandBuffer, b.index, err)
	}

	b.handle.CmdSetViewport([]core1_0.Viewport{
		{
			X:        0,
			Y:        0,
			Width:    float32(extent.Width),
			Height:   float32(extent.Height),
			MinDepth: 0,
			MaxDepth: 1,
		},
	})
	b.handle.CmdSetScissor([]core1_0.Rect2D{
		{
			Offset: core1_0.Offset2D{X: 0, Y: 0},
			Extent: extent,
		},
	})
	return nil
}

func (b *CommandBuffer) EndRenderPass() {
	b.handle.CmdEndRenderPass()
}
