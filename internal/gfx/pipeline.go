package gfx

import (
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rrenderer/rrenderer/internal/errs"
	"github.com/vkngwrapper/core/core1_0"
)

//go:generate glslc ../../shaders/simple_shader.vert -o ../../shaders/simple_shader.vert.spv
//go:generate glslc ../../shaders/simple_shader.frag -o ../../shaders/simple_shader.frag.spv

// PipelineConfig is the fixed-function state baked into a pipeline.
// Multisampling is always single sample without alpha-to-coverage, and the
// stencil test stays off.
type PipelineConfig struct {
	Topology         core1_0.PrimitiveTopology
	PrimitiveRestart bool

	PolygonMode core1_0.PolygonMode
	CullMode    core1_0.CullModeFlags
	FrontFace   core1_0.FrontFace
	LineWidth   float32

	DepthTest      bool
	DepthWrite     bool
	DepthCompare   core1_0.CompareOp
	MinDepthBounds float32
	MaxDepthBounds float32

	ColorWriteMask core1_0.ColorComponentFlags

	// DynamicStates are supplied at record time. Viewport and scissor are
	// dynamic so a resize within the same render pass needs no rebuild.
	DynamicStates []core1_0.DynamicState

	Subpass int
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Topology:         core1_0.PrimitiveTopologyTriangleList,
		PrimitiveRestart: false,

		PolygonMode: core1_0.PolygonModeFill,
		CullMode:    0,
		FrontFace:   core1_0.FrontFaceClockwise,
		LineWidth:   1.0,

		DepthTest:      true,
		DepthWrite:     true,
		DepthCompare:   core1_0.CompareOpLess,
		MinDepthBounds: 0,
		MaxDepthBounds: 1,

		ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,

		DynamicStates: []core1_0.DynamicState{core1_0.DynamicStateViewport, core1_0.DynamicStateScissor},
	}
}

// ShaderPaths names the compiled SPIR-V for each stage.
type ShaderPaths struct {
	Vertex   string
	Fragment string
}

// ReadShaderFile loads a SPIR-V blob. A missing file is reported as an
// errs.FileError carrying path unchanged.
func ReadShaderFile(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.File(path, err)
	} else if err != nil {
		return nil, errors.Wrapf(err, "read shader %s", path)
	}

	if len(data) == 0 || len(data)%4 != 0 {
		return nil, errors.Newf("shader %s: size %d is not a whole number of SPIR-V words", path, len(data))
	}
	return bytesToBytecode(data), nil
}

func bytesToBytecode(b []byte) []uint32 {
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = uint32(b[byteIndex]) |
			uint32(b[byteIndex+1])<<8 |
			uint32(b[byteIndex+2])<<16 |
			uint32(b[byteIndex+3])<<24
	}

	return byteCode
}

// Pipeline is a compiled graphics pipeline for one render pass. It is rebuilt
// whenever the swapchain, and with it the render pass, is recreated.
type Pipeline struct {
	handle core1_0.Pipeline
}

func NewPipeline(device *Device, renderPass core1_0.RenderPass, layout *PipelineLayout, extent core1_0.Extent2D, shaders ShaderPaths, config PipelineConfig) (*Pipeline, error) {
	vertCode, err := ReadShaderFile(shaders.Vertex)
	if err != nil {
		return nil, err
	}
	fragCode, err := ReadShaderFile(shaders.Fragment)
	if err != nil {
		return nil, err
	}

	vertShader, _, err := device.Logical.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{Code: vertCode})
	if err != nil {
		return nil, errs.Vulkan(errs.CreateShaderModule, err)
	}
	defer vertShader.Destroy(nil)

	fragShader, _, err := device.Logical.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{Code: fragCode})
	if err != nil {
		return nil, errs.Vulkan(errs.CreateShaderModule, err)
	}
	defer fragShader.Destroy(nil)

	pipelines, _, err := device.Logical.CreateGraphicsPipelines(nil, nil, []core1_0.GraphicsPipelineCreateInfo{
		{
			Stages: []core1_0.PipelineShaderStageCreateInfo{
				{
					Stage:  core1_0.StageVertex,
					Module: vertShader,
					Name:   "main",
				},
				{
					Stage:  core1_0.StageFragment,
					Module: fragShader,
					Name:   "main",
				},
			},
			VertexInputState: &core1_0.PipelineVertexInputStateCreateInfo{
				VertexBindingDescriptions:   vertexBindingDescriptions(),
				VertexAttributeDescriptions: vertexAttributeDescriptions(),
			},
			InputAssemblyState: &core1_0.PipelineInputAssemblyStateCreateInfo{
				Topology:               config.Topology,
				PrimitiveRestartEnable: config.PrimitiveRestart,
			},
			// counts only; the values come from the dynamic state
			ViewportState: &core1_0.PipelineViewportStateCreateInfo{
				Viewports: []core1_0.Viewport{
					{Width: float32(extent.Width), Height: float32(extent.Height), MaxDepth: 1},
				},
				Scissors: []core1_0.Rect2D{
					{Extent: extent},
				},
			},
			RasterizationState: &core1_0.PipelineRasterizationStateCreateInfo{
				DepthClampEnable:        false,
				RasterizerDiscardEnable: false,
				PolygonMode:             config.PolygonMode,
				CullMode:                config.CullMode,
				FrontFace:               config.FrontFace,
				DepthBiasEnable:         false,
				LineWidth:               config.LineWidth,
			},
			MultisampleState: &core1_0.PipelineMultisampleStateCreateInfo{
				SampleShadingEnable:  false,
				RasterizationSamples: core1_0.Samples1,
				MinSampleShading:     1.0,
			},
			DepthStencilState: &core1_0.PipelineDepthStencilStateCreateInfo{
				DepthTestEnable:  config.DepthTest,
				DepthWriteEnable: config.DepthWrite,
				DepthCompareOp:   config.DepthCompare,
				MinDepthBounds:   config.MinDepthBounds,
				MaxDepthBounds:   config.MaxDepthBounds,
			},
			ColorBlendState: &core1_0.PipelineColorBlendStateCreateInfo{
				LogicOpEnabled: false,
				LogicOp:        core1_0.LogicOpCopy,
				BlendConstants: [4]float32{0, 0, 0, 0},
				Attachments: []core1_0.PipelineColorBlendAttachmentState{
					{
						BlendEnabled:   false,
						ColorWriteMask: config.ColorWriteMask,
					},
				},
			},
			DynamicState: &core1_0.PipelineDynamicStateCreateInfo{
				DynamicStates: config.DynamicStates,
			},
			Layout:            layout.handle,
			RenderPass:        renderPass,
			Subpass:           config.Subpass,
			BasePipelineIndex: -1,
		},
	})
	if err != nil {
		return nil, errs.Vulkan(errs.CreateGraphicsPipeline, err)
	}

	return &Pipeline{handle: pipelines[0]}, nil
}

func (p *Pipeline) Bind(buffer *CommandBuffer) {
	buffer.handle.CmdBindPipeline(core1_0.PipelineBindPointGraphics, p.handle)
}

func (p *Pipeline) Destroy() {
	if p.handle != nil {
		p.handle.Destroy(nil)
		p.handle = nil
	}
}
