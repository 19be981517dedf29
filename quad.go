// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package quad

import (
	"github.com/gogpu/wgpu/hal"
)

// quadVertexCount is the number of vertices the shader generates from the
// builtin vertex index.
const quadVertexCount = 3

// Quad is the drawable primitive. It owns no buffers: the vertices come
// from the shader, so drawing only binds the pipeline and issues one draw.
type Quad struct {
	pipeline *Pipeline
}

// NewQuad returns a Quad that draws with p.
func NewQuad(p *Pipeline) *Quad {
	return &Quad{pipeline: p}
}

// Pipeline returns the pipeline the quad draws with.
func (q *Quad) Pipeline() *Pipeline { return q.pipeline }

// Draw binds the pipeline and draws 3 vertices, 1 instance, into pass.
// The pass must have been begun against a target whose format matches
// the pipeline.
func (q *Quad) Draw(pass hal.RenderPassEncoder) {
	pass.SetPipeline(q.pipeline.RenderPipeline())
	pass.Draw(quadVertexCount, 1, 0, 0)
}

// Destroy releases the pipeline.
func (q *Quad) Destroy() {
	q.pipeline.Destroy()
}
