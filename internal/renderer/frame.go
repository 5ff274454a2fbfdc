package renderer

import (
	"github.com/rrenderer/rrenderer/internal/gfx"
)

// frameOps are the steps of one frame. Renderer implements them on top of the
// swapchain; tests substitute fakes.
type frameOps interface {
	acquire() (int, gfx.PresentStatus, error)
	record(imageIndex int) error
	submit(imageIndex int) (gfx.PresentStatus, error)
	recreateSwapchain() error
}

type resizeSignal interface {
	WasResized() bool
	ResetResized()
}

// drawFrame runs one acquire, record, submit cycle. A stale swapchain
// recreates it and drops the frame; the next call tries again.
func drawFrame(ops frameOps, win resizeSignal) error {
	imageIndex, status, err := ops.acquire()
	if err != nil {
		return err
	}
	if status == gfx.OutOfDate {
		return ops.recreateSwapchain()
	}

	if err := ops.record(imageIndex); err != nil {
		return err
	}

	status, err = ops.submit(imageIndex)
	if err != nil {
		return err
	}

	if status.NeedsRecreate() || win.WasResized() {
		win.ResetResized()
		return ops.recreateSwapchain()
	}
	return nil
}

type extentSource interface {
	Extent() (width, height int)
	WaitEvents()
}

// waitForDrawableExtent blocks on window events while the window has no
// drawable area, e.g. while it is minimized.
func waitForDrawableExtent(win extentSource) (width, height int) {
	width, height = win.Extent()
	for width == 0 || height == 0 {
		win.WaitEvents()
		width, height = win.Extent()
	}
	return width, height
}
