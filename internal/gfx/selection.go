package gfx

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rrenderer/rrenderer/internal/errs"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

// familyCaps is what device selection needs to know about one queue family.
type familyCaps struct {
	Graphics   bool
	Present    bool
	QueueCount int
}

// findQueueFamilies walks count queue families in order and stops as soon as
// both a graphics and a present family are known. Families without queues
// never qualify.
func findQueueFamilies(count int, describe func(index int) (familyCaps, error)) (QueueFamilyIndices, error) {
	var indices QueueFamilyIndices

	for i := 0; i < count; i++ {
		caps, err := describe(i)
		if err != nil {
			return indices, err
		}
		if caps.QueueCount <= 0 {
			continue
		}

		if caps.Graphics && indices.GraphicsFamily == nil {
			idx := i
			indices.GraphicsFamily = &idx
		}
		if caps.Present && indices.PresentFamily == nil {
			idx := i
			indices.PresentFamily = &idx
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices, nil
}

// missingExtensions lists the required names absent from available, sorted.
func missingExtensions[V any](required []string, available map[string]V) []string {
	var missing []string
	for _, name := range required {
		if _, ok := available[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// deviceReport collects every suitability criterion for one physical device.
type deviceReport struct {
	Name              string
	Families          QueueFamilyIndices
	MissingExtensions []string
	FormatCount       int
	PresentModeCount  int
	Anisotropy        bool
}

func (r deviceReport) Suitable() bool {
	return r.Reason() == ""
}

// Reason explains why the device was rejected, or is empty.
func (r deviceReport) Reason() string {
	var reasons []string
	if r.Families.GraphicsFamily == nil {
		reasons = append(reasons, "no graphics queue")
	}
	if r.Families.PresentFamily == nil {
		reasons = append(reasons, "no present queue")
	}
	if len(r.MissingExtensions) > 0 {
		reasons = append(reasons, "missing extensions "+strings.Join(r.MissingExtensions, ", "))
	} else if r.FormatCount == 0 || r.PresentModeCount == 0 {
		reasons = append(reasons, "inadequate swapchain support")
	}
	if !r.Anisotropy {
		reasons = append(reasons, "no sampler anisotropy")
	}
	return strings.Join(reasons, "; ")
}

// ChooseSurfaceFormat prefers 8-bit BGRA UNORM in the sRGB nonlinear color
// space and otherwise takes the first format offered.
func ChooseSurfaceFormat(available []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range available {
		if format.Format == core1_0.FormatB8G8R8A8UnsignedNormalized && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}

	return available[0]
}

func ChoosePresentMode(available []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, mode := range available {
		if mode == khr_surface.PresentModeMailbox {
			return mode
		}
	}

	return khr_surface.PresentModeFIFO
}

// ChooseExtent uses the surface's current extent when the surface defines one,
// otherwise it clamps desired into [MinImageExtent, MaxImageExtent] per axis.
func ChooseExtent(caps *khr_surface.SurfaceCapabilities, desired core1_0.Extent2D) core1_0.Extent2D {
	if caps.CurrentExtent.Width != -1 {
		return caps.CurrentExtent
	}

	return core1_0.Extent2D{
		Width:  clamp(desired.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clamp(desired.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ChooseImageCount asks for one image more than the minimum. A MaxImageCount
// of zero means there is no upper limit.
func ChooseImageCount(caps *khr_surface.SurfaceCapabilities) int {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

func imageSharing(indices QueueFamilyIndices) (core1_0.SharingMode, []int) {
	if indices.SameQueue() {
		return core1_0.SharingModeExclusive, nil
	}
	return core1_0.SharingModeConcurrent, []int{*indices.GraphicsFamily, *indices.PresentFamily}
}

// DepthFormatCandidates are tried in order when picking the depth attachment
// format.
var DepthFormatCandidates = []core1_0.Format{
	core1_0.FormatD32SignedFloat,
	core1_0.FormatD32SignedFloatS8UnsignedInt,
	core1_0.FormatD24UnsignedNormalizedS8UnsignedInt,
}

// FormatFeatures reports the linear and optimal tiling features of a format.
type FormatFeatures func(format core1_0.Format) (linear, optimal core1_0.FormatFeatureFlags)

// FindSupportedFormat returns the first candidate whose features on tiling
// include all of features.
func FindSupportedFormat(candidates []core1_0.Format, tiling core1_0.ImageTiling, features core1_0.FormatFeatureFlags, lookup FormatFeatures) (core1_0.Format, error) {
	for _, format := range candidates {
		linear, optimal := lookup(format)

		if tiling == core1_0.ImageTilingLinear && (linear&features) == features {
			return format, nil
		} else if tiling == core1_0.ImageTilingOptimal && (optimal&features) == features {
			return format, nil
		}
	}

	return 0, errs.Vulkan(errs.FindSupportedFormat, errors.Newf("tiling %s, featureset %s", tiling, features))
}
