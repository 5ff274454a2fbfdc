package gfx

import (
	"github.com/cockroachdb/errors"
	"github.com/rrenderer/rrenderer/internal/errs"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// PresentStatus is the outcome of acquiring or presenting an image.
type PresentStatus int

const (
	Success PresentStatus = iota
	// Suboptimal images still present correctly but the swapchain should be
	// recreated soon.
	Suboptimal
	// OutOfDate swapchains can no longer present; the frame must be dropped.
	OutOfDate
)

func (s PresentStatus) String() string {
	switch s {
	case Success:
		return "success"
	case Suboptimal:
		return "suboptimal"
	case OutOfDate:
		return "out of date"
	}
	return "unknown"
}

// NeedsRecreate reports whether the swapchain no longer matches its surface.
func (s PresentStatus) NeedsRecreate() bool {
	return s != Success
}

func presentStatus(res common.VkResult) (PresentStatus, bool) {
	switch res {
	case khr_swapchain.VKErrorOutOfDate:
		return OutOfDate, true
	case khr_swapchain.VKSuboptimal:
		return Suboptimal, true
	}
	return Success, false
}

// Swapchain owns the presentable images together with everything sized by
// them: views, depth buffers, framebuffers, the render pass and the frame
// synchronization objects.
type Swapchain struct {
	device *Device
	log    logrus.FieldLogger

	ext    khr_swapchain.Extension
	handle khr_swapchain.Swapchain

	imageFormat core1_0.Format
	extent      core1_0.Extent2D
	images      []core1_0.Image
	views       []core1_0.ImageView

	depthFormat core1_0.Format
	depthImages []core1_0.Image
	depthMemory []core1_0.DeviceMemory
	depthViews  []core1_0.ImageView

	renderPass   core1_0.RenderPass
	framebuffers []core1_0.Framebuffer

	// one per image
	renderFinished []core1_0.Semaphore
	// one per frame in flight
	imageAvailable []core1_0.Semaphore
	inFlight       []core1_0.Fence

	frames frameRing
}

// NewSwapchain builds a swapchain for surface. When previous is not nil the
// new swapchain is chained to it; previous must still be destroyed by the
// caller once the new one is in use.
func NewSwapchain(device *Device, surface *Surface, desired core1_0.Extent2D, previous *Swapchain, log logrus.FieldLogger) (*Swapchain, error) {
	s := &Swapchain{
		device: device,
		log:    log,
		ext:    khr_swapchain.CreateExtensionFromDevice(device.Logical),
	}

	err := s.build(surface, desired, previous)
	if err != nil {
		s.Destroy()
		return nil, err
	}

	return s, nil
}

func (s *Swapchain) build(surface *Surface, desired core1_0.Extent2D, previous *Swapchain) error {
	if err := s.createSwapchain(surface, desired, previous); err != nil {
		return err
	}
	if err := s.createImageViews(); err != nil {
		return err
	}

	var err error
	s.depthFormat, err = FindSupportedFormat(DepthFormatCandidates, core1_0.ImageTilingOptimal, core1_0.FormatFeatureDepthStencilAttachment, s.device.FormatFeatures)
	if err != nil {
		return err
	}

	if err := s.createRenderPass(); err != nil {
		return err
	}
	if err := s.createDepthResources(); err != nil {
		return err
	}
	if err := s.createFramebuffers(); err != nil {
		return err
	}
	if err := s.createSyncObjects(); err != nil {
		return err
	}

	s.frames = newFrameRing(len(s.images))
	return s.verify()
}

func (s *Swapchain) createSwapchain(surface *Surface, desired core1_0.Extent2D, previous *Swapchain) error {
	support, err := surface.Support(s.device.Physical)
	if err != nil {
		return errs.Vulkan(errs.CreateSwapchain, err)
	}
	if len(support.Formats) == 0 || len(support.PresentModes) == 0 {
		return errs.Vulkan(errs.CreateSwapchain, errors.New("surface reports no formats or present modes"))
	}

	surfaceFormat := ChooseSurfaceFormat(support.Formats)
	presentMode := ChoosePresentMode(support.PresentModes)
	extent := ChooseExtent(support.Capabilities, desired)
	imageCount := ChooseImageCount(support.Capabilities)
	sharingMode, queueFamilies := imageSharing(s.device.Families)

	info := khr_swapchain.SwapchainCreateInfo{
		Surface: surface.Handle,

		MinImageCount:    imageCount,
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode,
		QueueFamilyIndices: queueFamilies,

		PreTransform:   support.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    presentMode,
		Clipped:        true,
	}
	if previous != nil {
		info.OldSwapchain = previous.handle
	}

	s.handle, _, err = s.ext.CreateSwapchain(s.device.Logical, nil, info)
	if err != nil {
		return errs.Vulkan(errs.CreateSwapchain, err)
	}
	s.imageFormat = surfaceFormat.Format
	s.extent = extent

	s.images, _, err = s.handle.SwapchainImages()
	if err != nil {
		return errs.Vulkan(errs.CreateSwapchain, err)
	}

	s.log.WithFields(logrus.Fields{
		"format":      surfaceFormat.Format,
		"presentMode": presentMode,
		"extent":      extent,
		"images":      len(s.images),
		"chained":     previous != nil,
	}).Info("created swapchain")
	return nil
}

func (s *Swapchain) createImageViews() error {
	for i, image := range s.images {
		view, err := s.device.createImageView(image, s.imageFormat, core1_0.ImageAspectColor)
		if err != nil {
			return errs.VulkanAt(errs.CreateImageView, i, err)
		}
		s.views = append(s.views, view)
	}
	return nil
}

func (s *Swapchain) createRenderPass() error {
	renderPass, _, err := s.device.Logical.CreateRenderPass(nil, core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         s.imageFormat,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
			{
				Format:         s.depthFormat,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpDontCare,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    core1_0.ImageLayoutDepthStencilAttachmentOptimal,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
				DepthStencilAttachment: &core1_0.AttachmentReference{
					Attachment: 1,
					Layout:     core1_0.ImageLayoutDepthStencilAttachmentOptimal,
				},
			},
		},
		SubpassDependencies: []core1_0.SubpassDependency{
			{
				SrcSubpass: core1_0.SubpassExternal,
				DstSubpass: 0,

				SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput | core1_0.PipelineStageEarlyFragmentTests,
				SrcAccessMask: 0,

				DstStageMask:  core1_0.PipelineStageColorAttachmentOutput | core1_0.PipelineStageEarlyFragmentTests,
				DstAccessMask: core1_0.AccessColorAttachmentWrite | core1_0.AccessDepthStencilAttachmentWrite,
			},
		},
	})
	if err != nil {
		return errs.Vulkan(errs.CreateRenderPass, err)
	}

	s.renderPass = renderPass
	return nil
}

// createDepthResources gives every image its own depth buffer.
func (s *Swapchain) createDepthResources() error {
	for i := range s.images {
		image, memory, err := s.device.createImage(s.extent.Width, s.extent.Height, s.depthFormat,
			core1_0.ImageUsageDepthStencilAttachment, core1_0.MemoryPropertyDeviceLocal)
		if image != nil {
			s.depthImages = append(s.depthImages, image)
		}
		if memory != nil {
			s.depthMemory = append(s.depthMemory, memory)
		}
		if err != nil {
			return errors.Wrapf(err, "depth image %d", i)
		}

		view, err := s.device.createImageView(image, s.depthFormat, core1_0.ImageAspectDepth)
		if err != nil {
			return errs.VulkanAt(errs.CreateImageView, i, err)
		}
		s.depthViews = append(s.depthViews, view)
	}
	return nil
}

func (s *Swapchain) createFramebuffers() error {
	for i, view := range s.views {
		framebuffer, _, err := s.device.Logical.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
			RenderPass: s.renderPass,
			Layers:     1,
			Attachments: []core1_0.ImageView{
				view,
				s.depthViews[i],
			},
			Width:  s.extent.Width,
			Height: s.extent.Height,
		})
		if err != nil {
			return errs.VulkanAt(errs.CreateFramebuffer, i, err)
		}

		s.framebuffers = append(s.framebuffers, framebuffer)
	}
	return nil
}

func (s *Swapchain) createSyncObjects() error {
	for i := range s.images {
		semaphore, _, err := s.device.Logical.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return errs.VulkanAt(errs.CreateSemaphore, i, err)
		}
		s.renderFinished = append(s.renderFinished, semaphore)
	}

	for i := 0; i < MaxFramesInFlight; i++ {
		semaphore, _, err := s.device.Logical.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return errs.VulkanAt(errs.CreateSemaphore, i, err)
		}
		s.imageAvailable = append(s.imageAvailable, semaphore)

		fence, _, err := s.device.Logical.CreateFence(nil, core1_0.FenceCreateInfo{
			Flags: core1_0.FenceCreateSignaled,
		})
		if err != nil {
			return errs.VulkanAt(errs.CreateInFlightSyncObject, i, err)
		}
		s.inFlight = append(s.inFlight, fence)
	}

	return nil
}

// verify checks that everything sized by the image count agrees.
func (s *Swapchain) verify() error {
	n := len(s.images)
	if len(s.views) != n || len(s.depthImages) != n || len(s.depthViews) != n ||
		len(s.framebuffers) != n || len(s.renderFinished) != n || len(s.frames.owners) != n {
		return errors.AssertionFailedf("swapchain resources disagree with image count %d", n)
	}
	if len(s.imageAvailable) != MaxFramesInFlight || len(s.inFlight) != MaxFramesInFlight {
		return errors.AssertionFailedf("expected %d frame slots", MaxFramesInFlight)
	}
	return nil
}

// AcquireNextImage waits until the current frame slot is free and asks the
// presentation engine for the next image. An OutOfDate status means nothing
// may be submitted this frame.
func (s *Swapchain) AcquireNextImage() (int, PresentStatus, error) {
	frame := s.frames.current

	_, err := s.device.Logical.WaitForFences(true, common.NoTimeout, []core1_0.Fence{s.inFlight[frame]})
	if err != nil {
		return 0, Success, errs.VulkanAt(errs.ImageAcquisition, frame, err)
	}

	imageIndex, res, err := s.handle.AcquireNextImage(common.NoTimeout, s.imageAvailable[frame], nil)
	if status, ok := presentStatus(res); ok {
		return imageIndex, status, nil
	} else if err != nil {
		return 0, Success, errs.VulkanResult(errs.ImageAcquisition, res, err)
	}

	return imageIndex, Success, nil
}

// Submit queues buffer for imageIndex and presents the result. The frame slot
// advances whatever the outcome.
func (s *Swapchain) Submit(buffer *CommandBuffer, imageIndex int) (PresentStatus, error) {
	frame := s.frames.current
	defer s.frames.advance()

	if previous, wait := s.frames.claim(imageIndex); wait {
		if _, err := s.inFlight[previous].Wait(common.NoTimeout); err != nil {
			return Success, errs.VulkanAt(errs.QueueSubmitGraphics, imageIndex, err)
		}
	}

	fence := s.inFlight[frame]
	if _, err := s.device.Logical.ResetFences([]core1_0.Fence{fence}); err != nil {
		return Success, errs.VulkanAt(errs.QueueSubmitGraphics, imageIndex, err)
	}

	_, err := s.device.GraphicsQueue.Submit(fence, []core1_0.SubmitInfo{
		{
			WaitSemaphores:   []core1_0.Semaphore{s.imageAvailable[frame]},
			WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
			CommandBuffers:   []core1_0.CommandBuffer{buffer.handle},
			SignalSemaphores: []core1_0.Semaphore{s.renderFinished[imageIndex]},
		},
	})
	if err != nil {
		return Success, errs.VulkanAt(errs.QueueSubmitGraphics, imageIndex, err)
	}

	res, err := s.ext.QueuePresent(s.device.PresentQueue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{s.renderFinished[imageIndex]},
		Swapchains:     []khr_swapchain.Swapchain{s.handle},
		ImageIndices:   []int{imageIndex},
	})
	if status, ok := presentStatus(res); ok {
		return status, nil
	} else if err != nil {
		return Success, errs.VulkanResult(errs.SubmitCommandBuffer, res, err)
	}

	return Success, nil
}

func (s *Swapchain) ImageCount() int {
	return len(s.images)
}

func (s *Swapchain) Extent() core1_0.Extent2D {
	return s.extent
}

func (s *Swapchain) RenderPass() core1_0.RenderPass {
	return s.renderPass
}

func (s *Swapchain) Framebuffer(imageIndex int) core1_0.Framebuffer {
	return s.framebuffers[imageIndex]
}

// CurrentFrame is the frame slot the next acquire will use.
func (s *Swapchain) CurrentFrame() int {
	return s.frames.current
}

// Destroy releases everything in dependency order. It tolerates a swapchain
// that failed halfway through construction.
func (s *Swapchain) Destroy() {
	for _, view := range s.views {
		view.Destroy(nil)
	}
	s.views = nil

	if s.handle != nil {
		s.handle.Destroy(nil)
		s.handle = nil
	}
	s.images = nil

	for _, view := range s.depthViews {
		view.Destroy(nil)
	}
	s.depthViews = nil
	for _, image := range s.depthImages {
		image.Destroy(nil)
	}
	s.depthImages = nil
	for _, memory := range s.depthMemory {
		memory.Free(nil)
	}
	s.depthMemory = nil

	for _, framebuffer := range s.framebuffers {
		framebuffer.Destroy(nil)
	}
	s.framebuffers = nil

	if s.renderPass != nil {
		s.renderPass.Destroy(nil)
		s.renderPass = nil
	}

	for _, semaphore := range s.renderFinished {
		semaphore.Destroy(nil)
	}
	s.renderFinished = nil

	for _, semaphore := range s.imageAvailable {
		semaphore.Destroy(nil)
	}
	s.imageAvailable = nil
	for _, fence := range s.inFlight {
		fence.Destroy(nil)
	}
	s.inFlight = nil
}
