// Package window owns the SDL window the renderer presents to and turns SDL
// events into the close and resize flags the render loop polls.
package window

import (
	"github.com/rrenderer/rrenderer/internal/errs"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2"
)

// Window must be created and used from the thread that initialized SDL.
type Window struct {
	handle *sdl.Window
	log    logrus.FieldLogger

	shouldClose bool
	resized     bool
}

func New(title string, width, height int, log logrus.FieldLogger) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errs.Window(errs.InitFailed, err)
	}

	handle, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, errs.Window(errs.WindowCreationFailed, err)
	}

	return &Window{handle: handle, log: log}, nil
}

// Loader resolves Vulkan entry points through SDL.
func (w *Window) Loader() (core.Loader, error) {
	loader, err := core.CreateLoaderFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return nil, errs.Window(errs.InitFailed, err)
	}
	return loader, nil
}

func (w *Window) InstanceExtensions() []string {
	return w.handle.VulkanGetInstanceExtensions()
}

func (w *Window) CreateSurface(instance core1_0.Instance, extension khr_surface.Extension) (khr_surface.Surface, error) {
	return vkng_sdl2.CreateSurface(instance, extension, w.handle)
}

// PollEvents drains pending events without blocking.
func (w *Window) PollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		w.handleEvent(event)
	}
}

// WaitEvents blocks until at least one event arrives, then drains the queue.
func (w *Window) WaitEvents() {
	if event := sdl.WaitEvent(); event != nil {
		w.handleEvent(event)
	}
	w.PollEvents()
}

func (w *Window) handleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		w.shouldClose = true
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			w.shouldClose = true
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			w.resized = true
		case sdl.WINDOWEVENT_MINIMIZED, sdl.WINDOWEVENT_RESTORED:
			w.resized = true
			w.log.WithField("event", e.Event).Debug("window visibility changed")
		}
	}
}

func (w *Window) ShouldClose() bool {
	return w.shouldClose
}

func (w *Window) WasResized() bool {
	return w.resized
}

func (w *Window) ResetResized() {
	w.resized = false
}

// Extent is the drawable size in pixels, or zero while minimized.
func (w *Window) Extent() (width, height int) {
	if w.handle.GetFlags()&sdl.WINDOW_MINIMIZED != 0 {
		return 0, 0
	}
	wd, ht := w.handle.VulkanGetDrawableSize()
	return int(wd), int(ht)
}

func (w *Window) Destroy() {
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
	sdl.Quit()
}
