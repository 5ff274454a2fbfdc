// Package gfx wraps the Vulkan objects the renderer is built from: instance,
// device, swapchain, pipeline, command buffers and meshes.
package gfx

import (
	"github.com/cockroachdb/errors"
	"github.com/rrenderer/rrenderer/internal/errs"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_portability_enumeration"
)

var validationLayers = []string{"VK_LAYER_KHRONOS_validation"}

type InstanceOptions struct {
	ApplicationName string
	// WindowExtensions are the instance extensions the window system needs to
	// present.
	WindowExtensions []string
	Validation       bool
}

type Instance struct {
	Handle     core1_0.Instance
	validation bool
	messenger  ext_debug_utils.DebugUtilsMessenger
	log        logrus.FieldLogger
}

func NewInstance(loader core.Loader, opts InstanceOptions, log logrus.FieldLogger) (*Instance, error) {
	info := core1_0.InstanceCreateInfo{
		ApplicationName:    opts.ApplicationName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "rrenderer",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	extensions, _, err := loader.AvailableExtensions()
	if err != nil {
		return nil, errs.Vulkan(errs.CreateInstance, err)
	}

	if missing := missingExtensions(opts.WindowExtensions, extensions); len(missing) > 0 {
		return nil, errs.Vulkan(errs.WindowExtensionsMissing, errors.Newf("missing %v", missing))
	}
	info.EnabledExtensionNames = append(info.EnabledExtensionNames, opts.WindowExtensions...)

	if _, ok := extensions[khr_portability_enumeration.ExtensionName]; ok {
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		info.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	inst := &Instance{validation: opts.Validation, log: log}

	if opts.Validation {
		layers, _, err := loader.AvailableLayers()
		if err != nil {
			return nil, errs.Vulkan(errs.CreateInstance, err)
		}
		if missing := missingExtensions(validationLayers, layers); len(missing) > 0 {
			return nil, errs.Vulkan(errs.ValidationLayersUnavailable, errors.Newf("missing layers %v, install the Vulkan SDK", missing))
		}

		info.EnabledLayerNames = append(info.EnabledLayerNames, validationLayers...)
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, ext_debug_utils.ExtensionName)
		// covers vkCreateInstance and vkDestroyInstance themselves
		info.Next = inst.messengerCreateInfo()
	}

	log.WithField("extensions", info.EnabledExtensionNames).Debug("creating instance")

	inst.Handle, _, err = loader.CreateInstance(nil, info)
	if err != nil {
		return nil, errs.Vulkan(errs.CreateInstance, err)
	}

	if opts.Validation {
		if err := inst.setupDebugMessenger(); err != nil {
			inst.Destroy()
			return nil, err
		}
	}

	return inst, nil
}

// Validation reports whether validation layers were enabled.
func (i *Instance) Validation() bool {
	return i.validation
}

func (i *Instance) Destroy() {
	if i.messenger != nil {
		i.messenger.Destroy(nil)
		i.messenger = nil
	}
	if i.Handle != nil {
		i.Handle.Destroy(nil)
		i.Handle = nil
	}
}
