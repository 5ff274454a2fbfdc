package gfx

import (
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rrenderer/rrenderer/internal/errs"
	"github.com/vkngwrapper/core/core1_0"
)

// PushConstants is the per-draw block shared by both shader stages. The
// padding reproduces std430 alignment: Color starts at a 16 byte boundary.
type PushConstants struct {
	Offset mgl32.Vec2
	_      [2]float32
	Color  mgl32.Vec3
	_      float32
}

var pushConstantsSize = binary.Size(PushConstants{})

const pushConstantStages = core1_0.StageVertex | core1_0.StageFragment

// PipelineLayout declares the push constant range and no descriptor sets.
type PipelineLayout struct {
	handle core1_0.PipelineLayout
}

func NewPipelineLayout(device *Device) (*PipelineLayout, error) {
	handle, _, err := device.Logical.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{
		PushConstantRanges: []core1_0.PushConstantRange{
			{
				StageFlags: pushConstantStages,
				Offset:     0,
				Size:       pushConstantsSize,
			},
		},
	})
	if err != nil {
		return nil, errs.Vulkan(errs.CreatePipelineLayout, err)
	}

	return &PipelineLayout{handle: handle}, nil
}

// Push records constants into buffer for the following draws.
func (l *PipelineLayout) Push(buffer *CommandBuffer, constants PushConstants) error {
	data, err := encode(&constants)
	if err != nil {
		return err
	}

	buffer.handle.CmdPushConstants(l.handle, pushConstantStages, 0, data)
	return nil
}

func (l *PipelineLayout) Destroy() {
	if l.handle != nil {
		l.handle.Destroy(nil)
		l.handle = nil
	}
}
