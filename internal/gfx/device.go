package gfx

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rrenderer/rrenderer/internal/errs"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_portability_subset"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

var deviceExtensions = []string{khr_swapchain.ExtensionName}

type QueueFamilyIndices struct {
	GraphicsFamily *int
	PresentFamily  *int
}

func (i QueueFamilyIndices) IsComplete() bool {
	return i.GraphicsFamily != nil && i.PresentFamily != nil
}

// SameQueue reports whether graphics and presentation share one family.
func (i QueueFamilyIndices) SameQueue() bool {
	return i.IsComplete() && *i.GraphicsFamily == *i.PresentFamily
}

// UniqueFamilies returns the distinct family indices, graphics first.
func (i QueueFamilyIndices) UniqueFamilies() []int {
	var families []int
	if i.GraphicsFamily != nil {
		families = append(families, *i.GraphicsFamily)
	}
	if i.PresentFamily != nil && (i.GraphicsFamily == nil || *i.PresentFamily != *i.GraphicsFamily) {
		families = append(families, *i.PresentFamily)
	}
	return families
}

// Device is the selected physical device, its logical device and the two
// queues the renderer submits to.
type Device struct {
	Physical core1_0.PhysicalDevice
	Logical  core1_0.Device
	Families QueueFamilyIndices

	GraphicsQueue core1_0.Queue
	PresentQueue  core1_0.Queue

	surface *Surface
	log     logrus.FieldLogger
}

// NewDevice picks the first suitable physical device for surface and creates a
// logical device on it.
func NewDevice(instance *Instance, surface *Surface, log logrus.FieldLogger) (*Device, error) {
	d := &Device{surface: surface, log: log}

	if err := d.selectDevice(instance); err != nil {
		return nil, err
	}
	if err := d.createLogicalDevice(instance.Validation()); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Device) selectDevice(instance *Instance) error {
	physicalDevices, _, err := instance.Handle.EnumeratePhysicalDevices()
	if err != nil {
		return errs.Vulkan(errs.NoPhysicalDeviceFound, err)
	}
	if len(physicalDevices) == 0 {
		return errs.Vulkan(errs.NoPhysicalDeviceFound, nil)
	}

	for index, device := range physicalDevices {
		report, err := d.inspect(index, device)
		if err != nil {
			return errs.Vulkan(errs.NoSuitableDeviceFound, err)
		}

		entry := d.log.WithField("device", report.Name)
		if !report.Suitable() {
			entry.WithField("reason", report.Reason()).Info("skipping physical device")
			continue
		}

		entry.Info("selected physical device")
		d.Physical = device
		d.Families = report.Families
		return nil
	}

	return errs.Vulkan(errs.NoSuitableDeviceFound, nil)
}

func (d *Device) inspect(index int, device core1_0.PhysicalDevice) (deviceReport, error) {
	report := deviceReport{Name: fmt.Sprintf("gpu%d", index)}

	queueFamilies := device.QueueFamilyProperties()
	families, err := findQueueFamilies(len(queueFamilies), func(family int) (familyCaps, error) {
		present, _, err := d.surface.Handle.PhysicalDeviceSurfaceSupport(device, family)
		if err != nil {
			return familyCaps{}, err
		}
		return familyCaps{
			Graphics:   queueFamilies[family].QueueFlags&core1_0.QueueGraphics != 0,
			Present:    present,
			QueueCount: queueFamilies[family].QueueCount,
		}, nil
	})
	if err != nil {
		return report, err
	}
	report.Families = families

	extensions, _, err := device.EnumerateDeviceExtensionProperties()
	if err != nil {
		return report, err
	}
	report.MissingExtensions = missingExtensions(deviceExtensions, extensions)

	if len(report.MissingExtensions) == 0 {
		support, err := d.surface.Support(device)
		if err != nil {
			return report, err
		}
		report.FormatCount = len(support.Formats)
		report.PresentModeCount = len(support.PresentModes)
	}

	report.Anisotropy = device.Features().SamplerAnisotropy
	return report, nil
}

func (d *Device) createLogicalDevice(validation bool) error {
	var queueInfos []core1_0.DeviceQueueCreateInfo
	for _, family := range d.Families.UniqueFamilies() {
		queueInfos = append(queueInfos, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: family,
			QueuePriorities:  []float32{1.0},
		})
	}

	extensionNames := append([]string{}, deviceExtensions...)

	available, _, err := d.Physical.EnumerateDeviceExtensionProperties()
	if err != nil {
		return errs.Vulkan(errs.CreateDevice, err)
	}
	if _, ok := available[khr_portability_subset.ExtensionName]; ok {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	info := core1_0.DeviceCreateInfo{
		QueueCreateInfos: queueInfos,
		EnabledFeatures: &core1_0.PhysicalDeviceFeatures{
			SamplerAnisotropy: true,
		},
		EnabledExtensionNames: extensionNames,
	}
	if validation {
		// ignored by current loaders, kept for older implementations
		info.EnabledLayerNames = validationLayers
	}

	d.Logical, _, err = d.Physical.CreateDevice(nil, info)
	if err != nil {
		return errs.Vulkan(errs.CreateDevice, err)
	}

	if d.GraphicsQueue, err = d.queue(d.Families.GraphicsFamily); err != nil {
		return err
	}
	d.PresentQueue, err = d.queue(d.Families.PresentFamily)
	return err
}

func (d *Device) queue(family *int) (core1_0.Queue, error) {
	if family == nil {
		return nil, errs.Vulkan(errs.QueueFamilyIndexIsEmpty, nil)
	}
	return d.Logical.GetQueue(*family, 0), nil
}

// FormatFeatures looks up tiling features on the physical device.
func (d *Device) FormatFeatures(format core1_0.Format) (linear, optimal core1_0.FormatFeatureFlags) {
	props := d.Physical.FormatProperties(format)
	return props.LinearTilingFeatures, props.OptimalTilingFeatures
}

func (d *Device) findMemoryType(typeFilter uint32, properties core1_0.MemoryPropertyFlags) (int, error) {
	memProperties := d.Physical.MemoryProperties()
	for i, memoryType := range memProperties.MemoryTypes {
		typeBit := uint32(1 << i)

		if (typeFilter&typeBit) != 0 && (memoryType.PropertyFlags&properties) == properties {
			return i, nil
		}
	}

	return 0, errs.Vulkan(errs.NoSuitableMemoryTypeFound, errors.Newf("filter %b, properties %s", typeFilter, properties))
}

// WaitIdle blocks until all queues on the device are idle.
func (d *Device) WaitIdle() error {
	_, err := d.Logical.WaitIdle()
	return errors.Wrap(err, "wait for device idle")
}

func (d *Device) Destroy() {
	if d.Logical != nil {
		d.Logical.Destroy(nil)
		d.Logical = nil
	}
}
