// Package renderer drives the frame loop: it builds every Vulkan object in
// order, records and submits one frame per call to Render, and rebuilds the
// swapchain when the window changes.
package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/rrenderer/rrenderer/internal/geom"
	"github.com/rrenderer/rrenderer/internal/gfx"
	"github.com/rrenderer/rrenderer/internal/scene"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/core1_0"
)

// Window is what the renderer needs from the windowing system.
type Window interface {
	gfx.SurfaceSource
	Loader() (core.Loader, error)
	InstanceExtensions() []string
	Extent() (width, height int)
	WasResized() bool
	ResetResized()
	WaitEvents()
}

type Options struct {
	ApplicationName string
	Validation      bool
	Shaders         gfx.ShaderPaths
	ClearColor      [4]float32
	Mesh            geom.MeshData
	// Instances is how many copies of Mesh are drawn.
	Instances int
}

type Renderer struct {
	window Window
	opts   Options
	log    logrus.FieldLogger
	state  State

	instance       *gfx.Instance
	surface        *gfx.Surface
	device         *gfx.Device
	swapchain      *gfx.Swapchain
	layout         *gfx.PipelineLayout
	pipeline       *gfx.Pipeline
	pool           *gfx.CommandPool
	commandBuffers []*gfx.CommandBuffer
	mesh           *gfx.Mesh
	scene          *scene.Scene

	cleanup cleanupStack
}

// New builds the renderer against win. On failure everything created so far
// is released.
func New(win Window, opts Options, log logrus.FieldLogger) (*Renderer, error) {
	r := &Renderer{window: win, opts: opts, log: log}

	if err := r.build(); err != nil {
		r.cleanup.unwind(log)
		return nil, err
	}

	r.setState(Ready)
	return r, nil
}

func (r *Renderer) build() error {
	loader, err := r.window.Loader()
	if err != nil {
		return err
	}

	r.instance, err = gfx.NewInstance(loader, gfx.InstanceOptions{
		ApplicationName:  r.opts.ApplicationName,
		WindowExtensions: r.window.InstanceExtensions(),
		Validation:       r.opts.Validation,
	}, r.log)
	if err != nil {
		return err
	}
	r.cleanup.push("instance", func() { r.instance.Destroy() })

	r.surface, err = gfx.NewSurface(r.instance, r.window)
	if err != nil {
		return err
	}
	r.cleanup.push("surface", func() { r.surface.Destroy() })

	r.device, err = gfx.NewDevice(r.instance, r.surface, r.log)
	if err != nil {
		return err
	}
	r.cleanup.push("device", func() { r.device.Destroy() })

	width, height := r.window.Extent()
	r.swapchain, err = gfx.NewSwapchain(r.device, r.surface, core1_0.Extent2D{Width: width, Height: height}, nil, r.log)
	if err != nil {
		return err
	}
	r.cleanup.push("swapchain", func() { r.swapchain.Destroy() })

	r.layout, err = gfx.NewPipelineLayout(r.device)
	if err != nil {
		return err
	}
	r.cleanup.push("pipeline layout", func() { r.layout.Destroy() })

	r.pipeline, err = r.newPipeline()
	if err != nil {
		return err
	}
	r.cleanup.push("pipeline", func() { r.pipeline.Destroy() })

	r.pool, err = gfx.NewCommandPool(r.device)
	if err != nil {
		return err
	}
	r.cleanup.push("command pool", func() { r.pool.Destroy() })

	r.commandBuffers, err = r.pool.Allocate(r.swapchain.ImageCount())
	if err != nil {
		return err
	}
	r.cleanup.push("command buffers", func() { r.pool.Free(r.commandBuffers) })

	r.mesh, err = gfx.NewMesh(r.device, r.pool, r.opts.Mesh)
	if err != nil {
		return err
	}
	r.cleanup.push("mesh", func() { r.mesh.Destroy() })

	r.scene = scene.New(scene.NewClock(scene.AnimationStep))
	r.scene.AddInstances(r.mesh, r.opts.Instances)
	return nil
}

func (r *Renderer) newPipeline() (*gfx.Pipeline, error) {
	return gfx.NewPipeline(r.device, r.swapchain.RenderPass(), r.layout, r.swapchain.Extent(), r.opts.Shaders, gfx.DefaultPipelineConfig())
}

func (r *Renderer) setState(s State) {
	if r.state == s {
		return
	}
	r.log.WithFields(logrus.Fields{"from": r.state, "to": s}).Debug("renderer state")
	r.state = s
}

func (r *Renderer) State() State {
	return r.state
}

// CommandBufferCount is the number of per-image command buffers.
func (r *Renderer) CommandBufferCount() int {
	return len(r.commandBuffers)
}

func (r *Renderer) ImageCount() int {
	return r.swapchain.ImageCount()
}

// Render draws one frame. Frames dropped because the swapchain went stale are
// not retried here.
func (r *Renderer) Render() error {
	if r.state != Ready {
		return errors.Newf("render: renderer is %s", r.state)
	}

	r.setState(Rendering)
	if err := drawFrame(r, r.window); err != nil {
		return err
	}
	r.setState(Ready)
	return nil
}

func (r *Renderer) acquire() (int, gfx.PresentStatus, error) {
	return r.swapchain.AcquireNextImage()
}

func (r *Renderer) record(imageIndex int) error {
	r.scene.Update()

	buffer := r.commandBuffers[imageIndex]
	if err := buffer.Begin(); err != nil {
		return err
	}

	err := buffer.BeginRenderPass(r.swapchain.RenderPass(), r.swapchain.Framebuffer(imageIndex), r.swapchain.Extent(), r.opts.ClearColor)
	if err != nil {
		return err
	}

	r.pipeline.Bind(buffer)

	var bound *gfx.Mesh
	for _, obj := range r.scene.Objects() {
		if obj.Mesh != bound {
			obj.Mesh.Bind(buffer)
			bound = obj.Mesh
		}
		if err := r.layout.Push(buffer, obj.PushConstants()); err != nil {
			return errors.Wrapf(err, "push constants for object %d", obj.ID())
		}
		obj.Mesh.Draw(buffer)
	}

	buffer.EndRenderPass()
	return buffer.End()
}

func (r *Renderer) submit(imageIndex int) (gfx.PresentStatus, error) {
	return r.swapchain.Submit(r.commandBuffers[imageIndex], imageIndex)
}

// Shutdown waits for the GPU to finish and releases everything in reverse
// construction order.
func (r *Renderer) Shutdown() error {
	if r.state == Terminated {
		return nil
	}
	r.setState(ShuttingDown)

	var err error
	if r.device != nil {
		err = r.device.WaitIdle()
	}
	r.cleanup.unwind(r.log)

	r.setState(Terminated)
	return err
}
