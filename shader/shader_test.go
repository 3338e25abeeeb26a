package shader

import (
	"errors"
	"strings"
	"testing"
)

const redSource = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

const greenSource = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(0.0, 1.0, 0.0, 1.0);
}
`

// compileOrSkip skips the test when naga lacks a feature the source uses.
func compileOrSkip(t *testing.T, name, source string) *Program {
	t.Helper()
	p, err := Compile(name, source)
	if err != nil {
		msg := err.Error()
		for _, s := range []string{"not yet implemented", "not supported", "unsupported", "lowering error"} {
			if strings.Contains(msg, s) {
				t.Skipf("Skipping: naga limitation: %v", err)
			}
		}
		t.Fatalf("Compile(%s) error = %v", name, err)
	}
	return p
}

func TestCompile(t *testing.T) {
	p := compileOrSkip(t, "red", redSource)
	if len(p.SPIRV()) == 0 {
		t.Fatal("SPIRV() is empty")
	}
	if p.SPIRV()[0] != spirvMagic {
		t.Errorf("SPIR-V magic = %#x, want %#x", p.SPIRV()[0], spirvMagic)
	}
	if p.ProgramID() == 0 {
		t.Error("ProgramID() = 0")
	}
	if p.Name() != "red" || p.Source() != redSource {
		t.Errorf("Name(), Source() = %q, %q", p.Name(), p.Source())
	}
}

func TestProgramIDStable(t *testing.T) {
	a := compileOrSkip(t, "a", redSource)
	b := compileOrSkip(t, "b", redSource)
	c := compileOrSkip(t, "c", greenSource)
	if a.ProgramID() != b.ProgramID() {
		t.Error("identical sources have different program ids")
	}
	if a.ProgramID() == c.ProgramID() {
		t.Error("different sources share a program id")
	}
}

func TestCompileError(t *testing.T) {
	_, err := Compile("broken", "fn (")
	if err == nil {
		t.Fatal("Compile() of invalid source succeeded")
	}
	if !strings.HasPrefix(err.Error(), "shader: compile broken") {
		t.Errorf("error = %q, want shader: compile prefix", err)
	}
	if errors.Is(err, ErrInvalidSPIRV) {
		t.Error("syntax error reported as invalid SPIR-V")
	}
}

func TestBuiltinSources(t *testing.T) {
	for name, src := range map[string]string{"textured": TexturedSource, "solid": SolidSource} {
		t.Run(name, func(t *testing.T) {
			if !strings.Contains(src, "vs_main") || !strings.Contains(src, "fs_main") {
				t.Fatalf("%s source lacks entry points", name)
			}
			compileOrSkip(t, name, src)
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(0)
	a, err := r.Get("red", redSource)
	if err != nil {
		t.Skipf("Skipping: naga cannot compile test shader: %v", err)
	}
	b, err := r.Get("red again", redSource)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if a != b {
		t.Error("Get() compiled the same source twice")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
	if s := r.Stats(); s.Hits != 1 {
		t.Errorf("Stats().Hits = %d, want 1", s.Hits)
	}

	if _, err := r.Get("broken", "fn ("); err == nil {
		t.Error("Get() of invalid source succeeded")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d after failed compile, want 1", r.Len())
	}
}
