package gfx

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/rrenderer/rrenderer/internal/errs"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
)

// createBuffer returns whatever it managed to create alongside an error so the
// caller can release it.
func (d *Device) createBuffer(size int, usage core1_0.BufferUsageFlags, properties core1_0.MemoryPropertyFlags) (core1_0.Buffer, core1_0.DeviceMemory, error) {
	buffer, _, err := d.Logical.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       usage,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return nil, nil, errs.Vulkan(errs.CreateBuffer, err)
	}

	memRequirements := buffer.MemoryRequirements()
	memoryTypeIndex, err := d.findMemoryType(memRequirements.MemoryTypeBits, properties)
	if err != nil {
		return buffer, nil, err
	}

	memory, _, err := d.Logical.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  memRequirements.Size,
		MemoryTypeIndex: memoryTypeIndex,
	})
	if err != nil {
		return buffer, nil, errs.Vulkan(errs.AllocateMemory, err)
	}

	if _, err = buffer.BindBufferMemory(memory, 0); err != nil {
		return buffer, memory, errs.Vulkan(errs.BindBufferMemory, err)
	}
	return buffer, memory, nil
}

func (d *Device) createImage(width, height int, format core1_0.Format, usage core1_0.ImageUsageFlags, properties core1_0.MemoryPropertyFlags) (core1_0.Image, core1_0.DeviceMemory, error) {
	image, _, err := d.Logical.CreateImage(nil, core1_0.ImageCreateInfo{
		ImageType: core1_0.ImageType2D,
		Extent: core1_0.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        core1_0.ImageTilingOptimal,
		InitialLayout: core1_0.ImageLayoutUndefined,
		Usage:         usage,
		SharingMode:   core1_0.SharingModeExclusive,
		Samples:       core1_0.Samples1,
	})
	if err != nil {
		return nil, nil, errs.Vulkan(errs.CreateImage, err)
	}

	memReqs := image.MemoryRequirements()
	memoryIndex, err := d.findMemoryType(memReqs.MemoryTypeBits, properties)
	if err != nil {
		return image, nil, err
	}

	imageMemory, _, err := d.Logical.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memoryIndex,
	})
	if err != nil {
		return image, nil, errs.Vulkan(errs.AllocateMemory, err)
	}

	if _, err = image.BindImageMemory(imageMemory, 0); err != nil {
		return image, imageMemory, errs.Vulkan(errs.BindImageMemory, err)
	}
	return image, imageMemory, nil
}

func (d *Device) createImageView(image core1_0.Image, format core1_0.Format, aspect core1_0.ImageAspectFlags) (core1_0.ImageView, error) {
	imageView, _, err := d.Logical.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    image,
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     aspect,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	return imageView, err
}

// encode lays data out the way the GPU reads it.
func encode(data any) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, common.ByteOrder, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeData(memory core1_0.DeviceMemory, offset int, data any) error {
	encoded, err := encode(data)
	if err != nil {
		return err
	}

	memoryPtr, _, err := memory.Map(offset, len(encoded), 0)
	if err != nil {
		return errs.Vulkan(errs.MapMemory, err)
	}
	defer memory.Unmap()

	copy(unsafe.Slice((*byte)(memoryPtr), len(encoded)), encoded)
	return nil
}
