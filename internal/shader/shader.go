// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader compiles WGSL for the HAL.
package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/wgpu/hal"
)

var (
	// ErrMalformedSPIRV is returned when the compiler output is not a whole
	// number of 32-bit words.
	ErrMalformedSPIRV = errors.New("shader: malformed SPIR-V")

	// ErrEntryPoint is returned when a module does not declare the entry
	// points a pipeline needs.
	ErrEntryPoint = errors.New("shader: entry point mismatch")
)

// EntryPoint is a stage function declared by a module.
type EntryPoint struct {
	Name  string
	Stage ir.ShaderStage
}

// Module is a parsed, validated WGSL module.
type Module struct {
	ir *ir.Module
}

// Parse parses, lowers and validates WGSL.
func Parse(wgsl string) (*Module, error) {
	ast, err := naga.Parse(wgsl)
	if err != nil {
		return nil, err
	}
	module, err := naga.LowerWithSource(ast, wgsl)
	if err != nil {
		return nil, fmt.Errorf("lower: %w", err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("validate: %w", verrs[0])
	}
	return &Module{ir: module}, nil
}

// EntryPoints lists the module's entry points in declaration order.
func (m *Module) EntryPoints() []EntryPoint {
	eps := make([]EntryPoint, len(m.ir.EntryPoints))
	for i, ep := range m.ir.EntryPoints {
		eps[i] = EntryPoint{Name: ep.Name, Stage: ep.Stage}
	}
	return eps
}

// RequireRenderStages checks that the module declares exactly one vertex
// entry point named vertex and exactly one fragment entry point named
// fragment.
func (m *Module) RequireRenderStages(vertex, fragment string) error {
	if err := m.requireStage(ir.StageVertex, vertex); err != nil {
		return err
	}
	return m.requireStage(ir.StageFragment, fragment)
}

func (m *Module) requireStage(stage ir.ShaderStage, name string) error {
	var found []string
	for _, ep := range m.ir.EntryPoints {
		if ep.Stage == stage {
			found = append(found, ep.Name)
		}
	}
	switch {
	case len(found) == 0:
		return fmt.Errorf("%w: no %s entry point, want %q", ErrEntryPoint, StageName(stage), name)
	case len(found) > 1:
		return fmt.Errorf("%w: %d %s entry points %q, want one", ErrEntryPoint, len(found), StageName(stage), found)
	case found[0] != name:
		return fmt.Errorf("%w: %s entry point is %q, want %q", ErrEntryPoint, StageName(stage), found[0], name)
	}
	return nil
}

// SPIRV generates SPIR-V 1.3 words for the module.
func (m *Module) SPIRV() ([]uint32, error) {
	spirvBytes, err := naga.GenerateSPIRV(m.ir, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, err
	}
	return Words(spirvBytes)
}

// Compile translates WGSL to SPIR-V words.
func Compile(wgsl string) ([]uint32, error) {
	m, err := Parse(wgsl)
	if err != nil {
		return nil, err
	}
	return m.SPIRV()
}

// Words converts little-endian SPIR-V bytes to 32-bit words.
func Words(spirv []byte) ([]uint32, error) {
	if len(spirv) == 0 || len(spirv)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedSPIRV, len(spirv))
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = uint32(spirv[i*4]) |
			uint32(spirv[i*4+1])<<8 |
			uint32(spirv[i*4+2])<<16 |
			uint32(spirv[i*4+3])<<24
	}
	return words, nil
}

// CreateModule creates a HAL shader module from SPIR-V words.
func CreateModule(device hal.Device, label string, words []uint32) (hal.ShaderModule, error) {
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: words},
	})
}

// StageName returns the WGSL attribute name of a stage.
func StageName(s ir.ShaderStage) string {
	switch s {
	case ir.StageVertex:
		return "vertex"
	case ir.StageFragment:
		return "fragment"
	case ir.StageCompute:
		return "compute"
	case ir.StageTask:
		return "task"
	case ir.StageMesh:
		return "mesh"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}
