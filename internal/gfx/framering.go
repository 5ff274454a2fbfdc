package gfx

// MaxFramesInFlight is how many frames the CPU may record ahead of the GPU.
const MaxFramesInFlight = 2

const noFrame = -1

// frameRing tracks which frame slot is being recorded and which slot last
// submitted work against each swapchain image.
type frameRing struct {
	current int
	owners  []int
}

func newFrameRing(imageCount int) frameRing {
	owners := make([]int, imageCount)
	for i := range owners {
		owners[i] = noFrame
	}
	return frameRing{owners: owners}
}

// claim hands image to the current frame. It returns the slot that owned the
// image before and whether the caller must wait on that slot's fence first.
// The current slot's fence has already been waited on during acquire.
func (r *frameRing) claim(image int) (previous int, wait bool) {
	previous = r.owners[image]
	r.owners[image] = r.current
	return previous, previous != noFrame && previous != r.current
}

func (r *frameRing) advance() {
	r.current = (r.current + 1) % MaxFramesInFlight
}
