// Package shader compiles the planner's GL programs and resolves their
// uniforms.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Program is a linked GL program with a uniform location cache. The planner
// runs a single flat-shading pipeline, so locations are resolved once and
// reused every frame.
type Program struct {
	id       uint32
	uniforms map[string]int32
}

// Compile builds a program from vertex and fragment sources.
func Compile(vertexSrc, fragmentSrc string) (*Program, error) {
	stages := []struct {
		kind uint32
		name string
		src  string
	}{
		{gl.VERTEX_SHADER, "vertex", vertexSrc},
		{gl.FRAGMENT_SHADER, "fragment", fragmentSrc},
	}

	id := gl.CreateProgram()
	for _, stage := range stages {
		sh, err := compileStage(stage.src, stage.kind, stage.name)
		if err != nil {
			gl.DeleteProgram(id)
			return nil, err
		}
		gl.AttachShader(id, sh)
		// Flagged for deletion now, freed when the program releases it.
		gl.DeleteShader(sh)
	}

	gl.LinkProgram(id)
	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		log := programLog(id)
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("link: %s", log)
	}

	return &Program{id: id, uniforms: make(map[string]int32)}, nil
}

// Use binds the program for subsequent draws.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// Delete releases the program. Safe to call twice.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// Uniform returns the location for name, caching the lookup.
// Returns -1 if the uniform is not found or inactive.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// MustUniform returns the location for name.
// Panics if the uniform is missing, which is a programmer error in the
// shader source (useful for required uniforms).
func (p *Program) MustUniform(name string) int32 {
	loc := p.Uniform(name)
	if loc < 0 {
		panic(fmt.Sprintf("uniform %q not found in program %d", name, p.id))
	}
	return loc
}

// compileStage compiles a single shader stage of the given kind.
func compileStage(source string, kind uint32, name string) (uint32, error) {
	sh := gl.CreateShader(kind)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csource, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		log := shaderLog(sh)
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("%s shader: %s", name, log)
	}
	return sh, nil
}

func programLog(id uint32) string {
	var length int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := make([]byte, length)
	gl.GetProgramInfoLog(id, length, nil, &log[0])
	return string(log)
}

func shaderLog(id uint32) string {
	var length int32
	gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return ""
	}
	log := make([]byte, length)
	gl.GetShaderInfoLog(id, length, nil, &log[0])
	return string(log)
}
