package renderer

import (
	"github.com/rrenderer/rrenderer/internal/gfx"
	"github.com/vkngwrapper/core/core1_0"
)

// reconcileBuffers keeps current when it already has want entries and
// otherwise frees it and allocates want new ones.
func reconcileBuffers[T any](current []T, want int, free func([]T), allocate func(int) ([]T, error)) ([]T, bool, error) {
	if len(current) == want {
		return current, false, nil
	}

	free(current)
	buffers, err := allocate(want)
	if err != nil {
		return nil, true, err
	}
	return buffers, true, nil
}

// recreateSwapchain replaces the swapchain and everything tied to its render
// pass. The old swapchain hands its handle to the new one and is destroyed
// once the replacement exists.
func (r *Renderer) recreateSwapchain() error {
	r.setState(ResizePending)

	width, height := waitForDrawableExtent(r.window)

	if err := r.device.WaitIdle(); err != nil {
		return err
	}

	old := r.swapchain
	swapchain, err := gfx.NewSwapchain(r.device, r.surface, core1_0.Extent2D{Width: width, Height: height}, old, r.log)
	if err != nil {
		return err
	}
	r.swapchain = swapchain
	defer old.Destroy()

	buffers, reallocated, err := reconcileBuffers(r.commandBuffers, swapchain.ImageCount(), r.pool.Free, r.pool.Allocate)
	r.commandBuffers = buffers
	if err != nil {
		return err
	}
	if reallocated {
		r.log.WithField("count", len(buffers)).Info("reallocated command buffers")
	}

	pipeline, err := r.newPipeline()
	if err != nil {
		return err
	}
	r.pipeline.Destroy()
	r.pipeline = pipeline

	r.setState(Ready)
	return nil
}
