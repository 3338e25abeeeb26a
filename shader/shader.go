// Package shader compiles the WGSL programs a pool state can bind and
// gives each a stable identity for state hashing.
package shader

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/drawpool/internal/hashx"
	"github.com/gogpu/drawpool/internal/logx"
)

// Built-in WGSL sources.

//go:embed shaders/textured.wgsl
var TexturedSource string

//go:embed shaders/solid.wgsl
var SolidSource string

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// ErrInvalidSPIRV is returned when the compiler output is not a SPIR-V
// module.
var ErrInvalidSPIRV = errors.New("shader: compiler output is not SPIR-V")

// Program is a compiled shader. Programs compiled from identical sources
// share a ProgramID.
type Program struct {
	name   string
	source string
	spirv  []uint32
	id     uint64
}

// Compile compiles WGSL source into a Program.
func Compile(name, source string) (*Program, error) {
	b, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("shader: compile %s: %w", name, err)
	}
	if len(b) < 4 || len(b)%4 != 0 || binary.LittleEndian.Uint32(b) != spirvMagic {
		return nil, fmt.Errorf("shader: compile %s: %w", name, ErrInvalidSPIRV)
	}

	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}

	logx.Logger().Debug("shader: compiled", "name", name, "words", len(words))
	return &Program{
		name:   name,
		source: source,
		spirv:  words,
		id:     hashx.Bytes(b),
	}, nil
}

// ProgramID returns the program's identity, derived from its SPIR-V.
func (p *Program) ProgramID() uint64 { return p.id }

// Name returns the label given at compile time.
func (p *Program) Name() string { return p.name }

// Source returns the WGSL source.
func (p *Program) Source() string { return p.source }

// SPIRV returns the compiled module as 32-bit words.
func (p *Program) SPIRV() []uint32 { return p.spirv }

// CreateModule uploads the program to device.
func (p *Program) CreateModule(device hal.Device) (hal.ShaderModule, error) {
	m, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: p.name,
		Source: hal.ShaderSource{
			SPIRV: p.spirv,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("shader: create module %s: %w", p.name, err)
	}
	return m, nil
}
