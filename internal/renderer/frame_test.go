package renderer

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/rrenderer/rrenderer/internal/gfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFrame struct {
	image         int
	acquireStatus gfx.PresentStatus
	acquireErr    error
	recordErr     error
	submitStatus  gfx.PresentStatus
	submitErr     error
	recreateErr   error

	calls     []string
	recorded  []int
	submitted []int
	recreates int
}

func (f *fakeFrame) acquire() (int, gfx.PresentStatus, error) {
	f.calls = append(f.calls, "acquire")
	return f.image, f.acquireStatus, f.acquireErr
}

func (f *fakeFrame) record(imageIndex int) error {
	f.calls = append(f.calls, "record")
	f.recorded = append(f.recorded, imageIndex)
	return f.recordErr
}

func (f *fakeFrame) submit(imageIndex int) (gfx.PresentStatus, error) {
	f.calls = append(f.calls, "submit")
	f.submitted = append(f.submitted, imageIndex)
	return f.submitStatus, f.submitErr
}

func (f *fakeFrame) recreateSwapchain() error {
	f.calls = append(f.calls, "recreate")
	f.recreates++
	return f.recreateErr
}

type fakeWindow struct {
	resized bool
	resets  int

	extents [][2]int
	waits   int
}

func (w *fakeWindow) WasResized() bool { return w.resized }

func (w *fakeWindow) ResetResized() {
	w.resized = false
	w.resets++
}

func (w *fakeWindow) Extent() (int, int) {
	e := w.extents[0]
	if len(w.extents) > 1 {
		w.extents = w.extents[1:]
	}
	return e[0], e[1]
}

func (w *fakeWindow) WaitEvents() { w.waits++ }

func TestDrawFrameRecordsAndSubmitsAcquiredImage(t *testing.T) {
	ops := &fakeFrame{image: 2}
	win := &fakeWindow{}

	require.NoError(t, drawFrame(ops, win))
	assert.Equal(t, []string{"acquire", "record", "submit"}, ops.calls)
	assert.Equal(t, []int{2}, ops.recorded)
	assert.Equal(t, []int{2}, ops.submitted)
	assert.Zero(t, ops.recreates)
}

func TestDrawFrameOutOfDateAcquireDropsFrame(t *testing.T) {
	ops := &fakeFrame{acquireStatus: gfx.OutOfDate}
	win := &fakeWindow{}

	require.NoError(t, drawFrame(ops, win))
	assert.Equal(t, []string{"acquire", "recreate"}, ops.calls)
	assert.Empty(t, ops.submitted)
	assert.Equal(t, 1, ops.recreates)
}

func TestDrawFrameSuboptimalAcquireStillSubmits(t *testing.T) {
	ops := &fakeFrame{acquireStatus: gfx.Suboptimal}
	win := &fakeWindow{}

	require.NoError(t, drawFrame(ops, win))
	assert.Equal(t, []string{"acquire", "record", "submit"}, ops.calls)
}

func TestDrawFrameRecreatesAfterStalePresent(t *testing.T) {
	for _, status := range []gfx.PresentStatus{gfx.Suboptimal, gfx.OutOfDate} {
		t.Run(status.String(), func(t *testing.T) {
			ops := &fakeFrame{submitStatus: status}
			win := &fakeWindow{}

			require.NoError(t, drawFrame(ops, win))
			assert.Equal(t, []string{"acquire", "record", "submit", "recreate"}, ops.calls)
		})
	}
}

func TestDrawFrameConsumesResizeFlag(t *testing.T) {
	ops := &fakeFrame{}
	win := &fakeWindow{resized: true}

	require.NoError(t, drawFrame(ops, win))
	assert.Equal(t, 1, ops.recreates)
	assert.False(t, win.resized)
	assert.Equal(t, 1, win.resets)

	ops.calls = nil
	require.NoError(t, drawFrame(ops, win))
	assert.Equal(t, []string{"acquire", "record", "submit"}, ops.calls)
	assert.Equal(t, 1, ops.recreates)
}

func TestDrawFrameStopsOnError(t *testing.T) {
	boom := errors.New("boom")

	t.Run("acquire", func(t *testing.T) {
		ops := &fakeFrame{acquireErr: boom}
		require.ErrorIs(t, drawFrame(ops, &fakeWindow{}), boom)
		assert.Equal(t, []string{"acquire"}, ops.calls)
	})

	t.Run("record", func(t *testing.T) {
		ops := &fakeFrame{recordErr: boom}
		require.ErrorIs(t, drawFrame(ops, &fakeWindow{}), boom)
		assert.Equal(t, []string{"acquire", "record"}, ops.calls)
	})

	t.Run("submit", func(t *testing.T) {
		ops := &fakeFrame{submitErr: boom}
		win := &fakeWindow{resized: true}
		require.ErrorIs(t, drawFrame(ops, win), boom)
		assert.Zero(t, ops.recreates)
		assert.True(t, win.resized)
	})

	t.Run("recreate", func(t *testing.T) {
		ops := &fakeFrame{acquireStatus: gfx.OutOfDate, recreateErr: boom}
		require.ErrorIs(t, drawFrame(ops, &fakeWindow{}), boom)
	})
}

func TestWaitForDrawableExtentBlocksWhileMinimized(t *testing.T) {
	win := &fakeWindow{extents: [][2]int{{0, 0}, {0, 600}, {800, 600}}}

	width, height := waitForDrawableExtent(win)
	assert.Equal(t, 800, width)
	assert.Equal(t, 600, height)
	assert.Equal(t, 2, win.waits)
}

func TestWaitForDrawableExtentReturnsImmediately(t *testing.T) {
	win := &fakeWindow{extents: [][2]int{{700, 700}}}

	width, height := waitForDrawableExtent(win)
	assert.Equal(t, 700, width)
	assert.Equal(t, 700, height)
	assert.Zero(t, win.waits)
}
