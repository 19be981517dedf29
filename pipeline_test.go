// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/quad/internal/shader"
)

func TestBuildPipeline(t *testing.T) {
	device, _ := newNoopDevice(t)

	p, err := BuildPipeline(device, gputypes.TextureFormatBGRA8UnormSrgb, "")
	require.NoError(t, err)
	t.Cleanup(p.Destroy)

	assert.Equal(t, gputypes.TextureFormatBGRA8UnormSrgb, p.Format())
	assert.Equal(t, QuadShaderSource(), p.Source())
	assert.NotNil(t, p.RenderPipeline())
}

func TestBuildPipelineErrors(t *testing.T) {
	device, _ := newNoopDevice(t)

	tests := []struct {
		name    string
		build   func() (*Pipeline, error)
		wantErr error
	}{
		{
			name:    "nil device",
			build:   func() (*Pipeline, error) { return BuildPipeline(nil, gputypes.TextureFormatBGRA8Unorm, "") },
			wantErr: ErrPipelineCreation,
		},
		{
			name:    "undefined format",
			build:   func() (*Pipeline, error) { return BuildPipeline(device, gputypes.TextureFormatUndefined, "") },
			wantErr: ErrPipelineCreation,
		},
		{
			name: "missing fragment entry",
			build: func() (*Pipeline, error) {
				src := strings.ReplaceAll(QuadShaderSource(), "fs_main", "frag")
				return BuildPipeline(device, gputypes.TextureFormatBGRA8Unorm, src)
			},
			wantErr: ErrShaderCompilation,
		},
		{
			name: "helper function named like the vertex entry",
			build: func() (*Pipeline, error) {
				return BuildPipeline(device, gputypes.TextureFormatBGRA8Unorm,
					"fn vs_main() -> f32 { return 1.0; }\n"+
						"@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }")
			},
			wantErr: shader.ErrEntryPoint,
		},
		{
			name: "invalid wgsl",
			build: func() (*Pipeline, error) {
				return BuildPipeline(device, gputypes.TextureFormatBGRA8Unorm,
					"@vertex fn vs_main() -> @builtin(position) vec4<f32> { return nope; }\n"+
						"@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }")
			},
			wantErr: ErrShaderCompilation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.build()
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPipelineBuilderEmptySource(t *testing.T) {
	device, _ := newNoopDevice(t)
	b := NewPipelineBuilder("")
	b.Source = ""
	_, err := b.Build(device, gputypes.TextureFormatBGRA8Unorm)
	assert.ErrorIs(t, err, ErrShaderCompilation)
}

func TestPipelineDestroyTwice(t *testing.T) {
	device, _ := newNoopDevice(t)
	p, err := BuildPipeline(device, gputypes.TextureFormatRGBA8Unorm, "")
	require.NoError(t, err)

	p.Destroy()
	assert.Nil(t, p.RenderPipeline())
	assert.NotPanics(t, p.Destroy)

	var nilPipeline *Pipeline
	assert.NotPanics(t, nilPipeline.Destroy)
}

func TestEmbeddedShaderEntryPoints(t *testing.T) {
	m, err := shader.Parse(QuadShaderSource())
	require.NoError(t, err)
	assert.NoError(t, m.RequireRenderStages(DefaultVertexEntry, DefaultFragmentEntry))
}

// pipelineDevice hands out distinct render pipelines and records which
// ones were destroyed.
type pipelineDevice struct {
	hal.Device

	created   int
	destroyed []hal.RenderPipeline
}

type numberedPipeline struct {
	hal.RenderPipeline
	n int
}

func (d *pipelineDevice) CreateRenderPipeline(*hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	d.created++
	return &numberedPipeline{n: d.created}, nil
}

func (d *pipelineDevice) DestroyRenderPipeline(p hal.RenderPipeline) {
	d.destroyed = append(d.destroyed, p)
}

func TestBuildPipelineTwiceIndependent(t *testing.T) {
	noopDevice, _ := newNoopDevice(t)
	device := &pipelineDevice{Device: noopDevice}

	a, err := BuildPipeline(device, gputypes.TextureFormatBGRA8Unorm, "")
	require.NoError(t, err)
	b, err := BuildPipeline(device, gputypes.TextureFormatBGRA8Unorm, "")
	require.NoError(t, err)
	t.Cleanup(b.Destroy)

	assert.NotSame(t, a.RenderPipeline(), b.RenderPipeline())
	assert.Equal(t, a.Format(), b.Format())
	assert.Equal(t, a.Source(), b.Source())

	first := a.RenderPipeline()
	a.Destroy()
	assert.Equal(t, []hal.RenderPipeline{first}, device.destroyed)
	require.NotNil(t, b.RenderPipeline(), "destroying one pipeline leaves the other intact")

	pass := &recordingPass{}
	NewQuad(b).Draw(pass)
	assert.Equal(t, []hal.RenderPipeline{b.RenderPipeline()}, pass.pipelines)
	assert.Equal(t, [][4]uint32{{3, 1, 0, 0}}, pass.draws)

	encoder, err := noopDevice.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "test"})
	require.NoError(t, err)
	require.NoError(t, encoder.BeginEncoding("test"))
	noopPass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{})
	assert.NotPanics(t, func() { NewQuad(b).Draw(noopPass) })
	noopPass.End()
	encoder.DiscardEncoding()
}

func TestEmbeddedShaderUsesNoBuffers(t *testing.T) {
	src := QuadShaderSource()
	assert.Contains(t, src, "@builtin(vertex_index)")
	assert.NotContains(t, src, "@group(")
}
