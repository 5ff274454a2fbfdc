package gfx

import (
	"github.com/rrenderer/rrenderer/internal/errs"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

// SurfaceSource creates a presentable surface bound to a window.
type SurfaceSource interface {
	CreateSurface(instance core1_0.Instance, extension khr_surface.Extension) (khr_surface.Surface, error)
}

type Surface struct {
	Handle khr_surface.Surface
}

func NewSurface(instance *Instance, source SurfaceSource) (*Surface, error) {
	ext := khr_surface.CreateExtensionFromInstance(instance.Handle)
	handle, err := source.CreateSurface(instance.Handle, ext)
	if err != nil {
		return nil, errs.Window(errs.SurfaceCreationFailed, err)
	}
	return &Surface{Handle: handle}, nil
}

// SwapchainSupport is what a surface offers on one physical device.
type SwapchainSupport struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

func (s *Surface) Support(device core1_0.PhysicalDevice) (SwapchainSupport, error) {
	var support SwapchainSupport
	var err error

	support.Capabilities, _, err = s.Handle.PhysicalDeviceSurfaceCapabilities(device)
	if err != nil {
		return support, err
	}

	support.Formats, _, err = s.Handle.PhysicalDeviceSurfaceFormats(device)
	if err != nil {
		return support, err
	}

	support.PresentModes, _, err = s.Handle.PhysicalDeviceSurfacePresentModes(device)
	return support, err
}

func (s *Surface) Destroy() {
	if s.Handle != nil {
		s.Handle.Destroy(nil)
		s.Handle = nil
	}
}
