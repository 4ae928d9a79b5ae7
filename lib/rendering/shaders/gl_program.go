package shaders

import (
	"fmt"
	"log/slog"

	"github.com/fosdem/trigl/lib/metrics"
	"github.com/fosdem/trigl/lib/rendering"
	"github.com/fosdem/trigl/lib/rendering/renderconsts"
)

// StageCompileError reports a stage that did not compile.
type StageCompileError struct {
	Stage      string
	Diagnostic string
}

func (e *StageCompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Diagnostic)
}

// LinkError reports a program whose stages compiled but did not link.
type LinkError struct {
	Diagnostic string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Diagnostic)
}

// Program is a linked shader program. Its per-stage shader objects are gone
// by the time a Program exists.
type Program struct {
	gl rendering.GL
	id uint32
}

func logger() *slog.Logger {
	return slog.With("module", "shaders")
}

// Build reads the sources from provider, then compiles and links them.
func Build(gl rendering.GL, provider SourceProvider) (*Program, error) {
	src, err := provider.Sources()
	if err != nil {
		return nil, fmt.Errorf("could not get shader sources: %w", err)
	}
	return CompileAndLink(gl, src.Vertex, src.Fragment)
}

// CompileAndLink compiles the vertex stage, then the fragment stage, and links
// them. Every shader object created on the way is deleted before it returns,
// whatever the outcome.
func CompileAndLink(gl rendering.GL, vertexSource, fragmentSource string) (*Program, error) {
	stages := []struct {
		stage  renderconsts.ShaderStage
		source string
	}{
		{renderconsts.VertexShader, vertexSource},
		{renderconsts.FragmentShader, fragmentSource},
	}

	var compiled []uint32
	defer func() {
		for _, s := range compiled {
			gl.DeleteShader(s)
		}
	}()

	for _, st := range stages {
		shader, err := compileShader(gl, st.source, st.stage)
		if err != nil {
			metrics.ShaderBuildFailures.WithLabelValues(st.stage.String()).Inc()
			return nil, err
		}
		compiled = append(compiled, shader)
	}

	program := gl.CreateProgram()
	for _, s := range compiled {
		gl.AttachShader(program, s)
	}
	ok, diag := gl.LinkProgram(program)
	for _, s := range compiled {
		gl.DetachShader(program, s)
	}
	if !ok {
		gl.DeleteProgram(program)
		metrics.ShaderBuildFailures.WithLabelValues("link").Inc()
		return nil, &LinkError{Diagnostic: diag}
	}

	logger().Debug("linked shader program", "program", program)
	return &Program{gl: gl, id: program}, nil
}

func compileShader(gl rendering.GL, source string, stage renderconsts.ShaderStage) (uint32, error) {
	if source == "" {
		return 0, &StageCompileError{Stage: stage.String(), Diagnostic: "empty shader source"}
	}

	shader := gl.CreateShader(stage)
	ok, diag := gl.CompileShader(shader, source)
	if !ok {
		gl.DeleteShader(shader)
		return 0, &StageCompileError{Stage: stage.String(), Diagnostic: diag}
	}
	return shader, nil
}

func (p *Program) ID() uint32 {
	return p.id
}

// Use makes p the active program and returns a function restoring whichever
// program was active before.
func (p *Program) Use() (restore func()) {
	prev := p.gl.CurrentProgram()
	if prev == p.id {
		return func() {}
	}
	p.gl.UseProgram(p.id)
	return func() {
		p.gl.UseProgram(prev)
	}
}

// location returns -1 for names the program does not have; setting such a
// uniform is a no-op, like in GL itself.
func (p *Program) location(name string) int32 {
	loc := p.gl.UniformLocation(p.id, name)
	if loc == -1 {
		logger().Debug("ignoring unknown uniform", "uniform", name)
	}
	return loc
}

func (p *Program) SetBool(name string, value bool) {
	var v int32
	if value {
		v = 1
	}
	p.SetInt(name, v)
}

func (p *Program) SetInt(name string, value int32) {
	loc := p.location(name)
	if loc == -1 {
		return
	}
	defer p.Use()()
	p.gl.Uniform1i(loc, value)
}

func (p *Program) SetFloat(name string, value float32) {
	loc := p.location(name)
	if loc == -1 {
		return
	}
	defer p.Use()()
	p.gl.Uniform1f(loc, value)
}

func (p *Program) Delete() {
	if p.gl.CurrentProgram() == p.id {
		p.gl.UseProgram(0)
	}
	p.gl.DeleteProgram(p.id)
	p.id = 0
}
