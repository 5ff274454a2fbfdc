//go:build integration

package renderer

import (
	"runtime"
	"testing"

	"github.com/rrenderer/rrenderer/internal/geom"
	"github.com/rrenderer/rrenderer/internal/gfx"
	"github.com/rrenderer/rrenderer/internal/window"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	runtime.LockOSThread()
}

func TestRendererLifecycle(t *testing.T) {
	log, _ := test.NewNullLogger()

	win, err := window.New("rrenderer test", 700, 700, log)
	require.NoError(t, err)
	defer win.Destroy()

	r, err := New(win, Options{
		ApplicationName: "rrenderer test",
		Shaders: gfx.ShaderPaths{
			Vertex:   "../../shaders/simple_shader.vert.spv",
			Fragment: "../../shaders/simple_shader.frag.spv",
		},
		ClearColor: [4]float32{0, 0, 0, 1},
		Mesh:       geom.Triangle(),
		Instances:  4,
	}, log)
	require.NoError(t, err)

	assert.Equal(t, Ready, r.State())
	assert.Equal(t, r.ImageCount(), r.CommandBufferCount())

	for i := 0; i < 10; i++ {
		win.PollEvents()
		require.NoError(t, r.Render())
	}

	require.NoError(t, r.recreateSwapchain())
	assert.Equal(t, r.ImageCount(), r.CommandBufferCount())
	require.NoError(t, r.Render())

	require.NoError(t, r.Shutdown())
	assert.Equal(t, Terminated, r.State())
}
