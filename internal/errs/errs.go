// Package errs holds the structured failures raised while building and driving
// the renderer. Every constructor attaches a stack trace so that the top level
// can print the full chain with %+v.
package errs

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/common"
)

// NoIndex marks a VulkanError that is not tied to a particular object in a set.
const NoIndex = -1

// Cause identifies which Vulkan operation failed.
type Cause int

const (
	CreateInstance Cause = iota
	ImageAcquisition
	SubmitCommandBuffer
	BeginRecordCommandBuffer
	EndRecordCommandBuffer
	AllocateCommandBuffers
	QueueFamilyIndexIsEmpty
	CreateCommandPool
	CreateDebugMessenger
	FindSupportedFormat
	CreateImage
	AllocateMemory
	BindImageMemory
	NoPhysicalDeviceFound
	NoSuitableDeviceFound
	CreateDevice
	NoSuitableMemoryTypeFound
	WindowExtensionsMissing
	CreateGraphicsPipeline
	CreateShaderModule
	CreatePipelineLayout
	QueueSubmitGraphics
	CreateSwapchain
	CreateImageView
	CreateRenderPass
	CreateFramebuffer
	CreateSemaphore
	CreateInFlightSyncObject
	ValidationLayersUnavailable
	CreateBuffer
	BindBufferMemory
	MapMemory
)

var causeMessages = map[Cause]string{
	CreateInstance:              "failed to create instance",
	ImageAcquisition:            "failed to acquire swapchain image",
	SubmitCommandBuffer:         "failed to present swapchain image",
	BeginRecordCommandBuffer:    "failed to begin recording command buffer",
	EndRecordCommandBuffer:      "failed to record command buffer",
	AllocateCommandBuffers:      "failed to allocate command buffers",
	QueueFamilyIndexIsEmpty:     "queue family index is empty",
	CreateCommandPool:           "failed to create command pool",
	CreateDebugMessenger:        "failed to set up debug messenger",
	FindSupportedFormat:         "failed to find supported format",
	CreateImage:                 "failed to create image",
	AllocateMemory:              "failed to allocate memory",
	BindImageMemory:             "failed to bind memory",
	NoPhysicalDeviceFound:       "failed to find GPUs with Vulkan support",
	NoSuitableDeviceFound:       "failed to find a suitable GPU",
	CreateDevice:                "failed to create logical device",
	NoSuitableMemoryTypeFound:   "failed to find suitable memory type",
	WindowExtensionsMissing:     "window system instance extensions are not available",
	CreateGraphicsPipeline:      "failed to create graphics pipeline",
	CreateShaderModule:          "failed to create shader module",
	CreatePipelineLayout:        "failed to create pipeline layout",
	QueueSubmitGraphics:         "failed to submit draw command buffer",
	CreateSwapchain:             "failed to create swapchain",
	CreateImageView:             "failed to create image view",
	CreateRenderPass:            "failed to create render pass",
	CreateFramebuffer:           "failed to create framebuffer",
	CreateSemaphore:             "failed to create semaphore",
	CreateInFlightSyncObject:    "failed to create in-flight fence",
	ValidationLayersUnavailable: "validation layers requested, but not available",
	CreateBuffer:                "failed to create buffer",
	BindBufferMemory:            "failed to bind buffer memory",
	MapMemory:                   "failed to map memory",
}

func (c Cause) String() string {
	if msg, ok := causeMessages[c]; ok {
		return msg
	}
	return fmt.Sprintf("unknown vulkan failure (%d)", int(c))
}

// VulkanError is a fatal failure of a Vulkan call or of a device capability
// check. Index names the element of a set (framebuffer, command buffer) that
// failed, or NoIndex.
type VulkanError struct {
	Cause  Cause
	Index  int
	Result common.VkResult
	Err    error
}

func (e *VulkanError) Error() string {
	msg := e.Cause.String()
	if e.Index != NoIndex {
		msg = fmt.Sprintf("%s (index %d)", msg, e.Index)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *VulkanError) Unwrap() error { return e.Err }

// Vulkan wraps err as a VulkanError with the given cause. err may be nil for
// failed capability checks.
func Vulkan(cause Cause, err error) error {
	return errors.WithStackDepth(&VulkanError{Cause: cause, Index: NoIndex, Err: err}, 1)
}

// VulkanAt is Vulkan for an element of a set.
func VulkanAt(cause Cause, index int, err error) error {
	return errors.WithStackDepth(&VulkanError{Cause: cause, Index: index, Err: err}, 1)
}

// VulkanResult records the VkResult returned alongside err.
func VulkanResult(cause Cause, res common.VkResult, err error) error {
	return errors.WithStackDepth(&VulkanError{Cause: cause, Index: NoIndex, Result: res, Err: err}, 1)
}

// IsCause reports whether err carries a VulkanError with the given cause.
func IsCause(err error, cause Cause) bool {
	var vkErr *VulkanError
	if !errors.As(err, &vkErr) {
		return false
	}
	return vkErr.Cause == cause
}

// WindowCause identifies a windowing system failure.
type WindowCause int

const (
	InitFailed WindowCause = iota
	WindowCreationFailed
	SurfaceCreationFailed
)

func (c WindowCause) String() string {
	switch c {
	case InitFailed:
		return "failed to initialize the window system"
	case WindowCreationFailed:
		return "failed to create window"
	case SurfaceCreationFailed:
		return "failed to create window surface"
	}
	return fmt.Sprintf("unknown window failure (%d)", int(c))
}

type WindowError struct {
	Cause WindowCause
	Err   error
}

func (e *WindowError) Error() string {
	if e.Err == nil {
		return e.Cause.String()
	}
	return fmt.Sprintf("%s: %v", e.Cause, e.Err)
}

func (e *WindowError) Unwrap() error { return e.Err }

func Window(cause WindowCause, err error) error {
	return errors.WithStackDepth(&WindowError{Cause: cause, Err: err}, 1)
}

// FileError reports an asset that could not be read. Path is exactly the path
// that was requested.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to open file %q: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

func File(path string, err error) error {
	return errors.WithStackDepth(&FileError{Path: path, Err: err}, 1)
}
