// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/quad/internal/shader"
)

//go:embed shaders/quad.wgsl
var quadShaderSource string

// QuadShaderSource returns the embedded WGSL used by the default pipeline.
func QuadShaderSource() string {
	return quadShaderSource
}

// Default shader entry points.
const (
	DefaultVertexEntry   = "vs_main"
	DefaultFragmentEntry = "fs_main"
)

// PipelineBuilder compiles WGSL and creates the render pipeline that draws
// into the surface. The zero value is not usable; start from
// NewPipelineBuilder.
//
// The pipeline has no vertex buffers and no bind groups. It draws a
// triangle list with counter-clockwise front faces, back-face culling,
// replace blending, full color write mask, one sample and no depth/stencil.
type PipelineBuilder struct {
	// Label prefixes the debug labels of the created objects.
	Label string

	// Source is the WGSL module.
	Source string

	// VertexEntry and FragmentEntry name the entry points in Source.
	VertexEntry   string
	FragmentEntry string
}

// NewPipelineBuilder returns a builder for source using the default entry
// points. An empty source selects the embedded quad shader.
func NewPipelineBuilder(source string) *PipelineBuilder {
	if source == "" {
		source = quadShaderSource
	}
	return &PipelineBuilder{
		Label:         "quad",
		Source:        source,
		VertexEntry:   DefaultVertexEntry,
		FragmentEntry: DefaultFragmentEntry,
	}
}

// BuildPipeline is shorthand for NewPipelineBuilder(source).Build(device, format).
func BuildPipeline(device hal.Device, format gputypes.TextureFormat, source string) (*Pipeline, error) {
	return NewPipelineBuilder(source).Build(device, format)
}

// Build compiles the shader and creates the pipeline layout and render
// pipeline for color target format. On failure every object created so
// far is released.
func (b *PipelineBuilder) Build(device hal.Device, format gputypes.TextureFormat) (*Pipeline, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: nil device", ErrPipelineCreation)
	}
	if format == gputypes.TextureFormatUndefined {
		return nil, fmt.Errorf("%w: undefined color target format", ErrPipelineCreation)
	}

	spirv, err := b.compile()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{device: device, format: format, source: b.Source}

	p.shader, err = shader.CreateModule(device, b.Label+"_shader", spirv)
	if err != nil {
		return nil, fmt.Errorf("%w: shader module: %w", ErrShaderCompilation, err)
	}

	p.layout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: b.Label + "_pipeline_layout",
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("%w: layout: %w", ErrPipelineCreation, err)
	}

	p.render, err = device.CreateRenderPipeline(b.descriptor(p.shader, p.layout, format))
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("%w: render pipeline: %w", ErrPipelineCreation, err)
	}
	return p, nil
}

// compile validates the WGSL, checks its vertex and fragment entry points
// and translates it to SPIR-V.
func (b *PipelineBuilder) compile() ([]uint32, error) {
	if b.Source == "" {
		return nil, fmt.Errorf("%w: empty source", ErrShaderCompilation)
	}
	module, err := shader.Parse(b.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompilation, err)
	}
	if err := module.RequireRenderStages(b.VertexEntry, b.FragmentEntry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompilation, err)
	}
	words, err := module.SPIRV()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompilation, err)
	}
	return words, nil
}

func (b *PipelineBuilder) descriptor(module hal.ShaderModule, layout hal.PipelineLayout, format gputypes.TextureFormat) *hal.RenderPipelineDescriptor {
	replace := gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorZero,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorZero,
			Operation: gputypes.BlendOperationAdd,
		},
	}

	return &hal.RenderPipelineDescriptor{
		Label:  b.Label + "_pipeline",
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: b.VertexEntry,
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: b.FragmentEntry,
			Targets: []gputypes.ColorTargetState{{
				Format:    format,
				Blend:     &replace,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
}

// Pipeline is a compiled render pipeline bound to one color target format.
type Pipeline struct {
	device hal.Device
	format gputypes.TextureFormat
	source string

	shader hal.ShaderModule
	layout hal.PipelineLayout
	render hal.RenderPipeline
}

// Format returns the color target format the pipeline was built for.
func (p *Pipeline) Format() gputypes.TextureFormat { return p.format }

// Source returns the WGSL the pipeline was built from.
func (p *Pipeline) Source() string { return p.source }

// RenderPipeline returns the HAL pipeline, or nil after Destroy.
func (p *Pipeline) RenderPipeline() hal.RenderPipeline { return p.render }

// Destroy releases the pipeline, its layout and its shader module.
// Calling Destroy more than once is safe.
func (p *Pipeline) Destroy() {
	if p == nil || p.device == nil {
		return
	}
	if p.render != nil {
		p.device.DestroyRenderPipeline(p.render)
		p.render = nil
	}
	if p.layout != nil {
		p.device.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
