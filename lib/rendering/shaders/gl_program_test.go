package shaders_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fosdem/trigl/lib/metrics"
	"github.com/fosdem/trigl/lib/rendering/gltest"
	"github.com/fosdem/trigl/lib/rendering/renderconsts"
	"github.com/fosdem/trigl/lib/rendering/shaders"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vertexSrc = `#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;

uniform float horizOffset;
uniform bool flip;

out vec3 ourColor;

void main()
{
    gl_Position = vec4(aPos.x + horizOffset, aPos.y, aPos.z, 1.0);
    ourColor = aColor;
}
`

const fragmentSrc = `#version 330 core
in vec3 ourColor;
uniform int mode;
out vec4 FragColor;

void main()
{
    FragColor = vec4(ourColor, 1.0);
}
`

func TestCompileAndLink(t *testing.T) {
	gl := gltest.New()

	p, err := shaders.CompileAndLink(gl, vertexSrc, fragmentSrc)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.NotZero(t, p.ID())
	assert.Equal(t, 1, gl.LivePrograms())
	assert.Equal(t, 0, gl.LiveShaders(), "stage objects must be released after linking")
	assert.Empty(t, gl.Errors)
}

func TestVertexCompileErrorStopsEarly(t *testing.T) {
	gl := gltest.New()
	broken := vertexSrc[:len(vertexSrc)-3] // drop the closing brace

	p, err := shaders.CompileAndLink(gl, broken, fragmentSrc)
	require.Error(t, err)
	assert.Nil(t, p)

	var stageErr *shaders.StageCompileError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "vertex", stageErr.Stage)
	assert.Contains(t, stageErr.Diagnostic, "syntax error")

	assert.Equal(t, []renderconsts.ShaderStage{renderconsts.VertexShader}, gl.Compiled)
	assert.Equal(t, 0, gl.LivePrograms())
	assert.Equal(t, 0, gl.LiveShaders())
}

func TestFragmentCompileErrorReleasesVertexStage(t *testing.T) {
	gl := gltest.New()
	before := testutil.ToFloat64(metrics.ShaderBuildFailures.WithLabelValues("fragment"))

	_, err := shaders.CompileAndLink(gl, vertexSrc, "#version 330 core\nvoid main()\n{\n    gl_FragColor = vec4(1.0) * 2.0\n}\n")

	var stageErr *shaders.StageCompileError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "fragment", stageErr.Stage)
	assert.Contains(t, stageErr.Diagnostic, "expecting ';'")
	assert.Equal(t, 0, gl.LiveShaders())
	assert.Equal(t, 0, gl.LivePrograms())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ShaderBuildFailures.WithLabelValues("fragment")))
}

func TestLinkErrorReleasesEverything(t *testing.T) {
	gl := gltest.New()
	mismatched := `#version 330 core
in vec4 vertexColor;
out vec4 FragColor;

void main()
{
    FragColor = vertexColor;
}
`

	p, err := shaders.CompileAndLink(gl, vertexSrc, mismatched)
	assert.Nil(t, p)

	var linkErr *shaders.LinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Contains(t, linkErr.Diagnostic, "vertexColor")
	assert.Len(t, gl.Compiled, 2)
	assert.Equal(t, 0, gl.LiveShaders())
	assert.Equal(t, 0, gl.LivePrograms())
}

func TestEmptySourceIsACompileError(t *testing.T) {
	gl := gltest.New()

	_, err := shaders.CompileAndLink(gl, vertexSrc, "")

	var stageErr *shaders.StageCompileError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "fragment", stageErr.Stage)
	assert.Equal(t, "empty shader source", stageErr.Diagnostic)
	assert.Equal(t, []renderconsts.ShaderStage{renderconsts.VertexShader}, gl.Compiled)
	assert.Equal(t, 0, gl.LiveShaders())
}

func TestUseRestoresPreviousProgram(t *testing.T) {
	gl := gltest.New()
	a, err := shaders.CompileAndLink(gl, vertexSrc, fragmentSrc)
	require.NoError(t, err)
	b, err := shaders.CompileAndLink(gl, vertexSrc, fragmentSrc)
	require.NoError(t, err)

	restoreA := a.Use()
	assert.Equal(t, a.ID(), gl.CurrentProgram())

	restoreB := b.Use()
	assert.Equal(t, b.ID(), gl.CurrentProgram())

	restoreB()
	assert.Equal(t, a.ID(), gl.CurrentProgram())
	restoreA()
	assert.Equal(t, uint32(0), gl.CurrentProgram())
}

func TestSetUniforms(t *testing.T) {
	gl := gltest.New()
	p, err := shaders.CompileAndLink(gl, vertexSrc, fragmentSrc)
	require.NoError(t, err)

	p.SetFloat("horizOffset", 0.2)
	p.SetBool("flip", true)
	p.SetInt("mode", 7)

	v, ok := gl.UniformValue(p.ID(), "horizOffset")
	require.True(t, ok)
	assert.Equal(t, float32(0.2), v)
	v, _ = gl.UniformValue(p.ID(), "flip")
	assert.Equal(t, int32(1), v)
	v, _ = gl.UniformValue(p.ID(), "mode")
	assert.Equal(t, int32(7), v)

	// uniform assignment must not leave the program active
	assert.Equal(t, uint32(0), gl.CurrentProgram())
	assert.Empty(t, gl.Errors)
}

func TestUnknownUniformIsIgnored(t *testing.T) {
	gl := gltest.New()
	p, err := shaders.CompileAndLink(gl, vertexSrc, fragmentSrc)
	require.NoError(t, err)

	p.SetFloat("doesNotExist", 1)
	p.SetBool("alsoMissing", true)

	assert.Empty(t, gl.Errors)
}

func TestDelete(t *testing.T) {
	gl := gltest.New()
	p, err := shaders.CompileAndLink(gl, vertexSrc, fragmentSrc)
	require.NoError(t, err)
	_ = p.Use()

	p.Delete()

	assert.Equal(t, 0, gl.LivePrograms())
	assert.Equal(t, uint32(0), gl.CurrentProgram())
}

func TestBuildFromFiles(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "basic.vert")
	frag := filepath.Join(dir, "basic.frag")
	require.NoError(t, os.WriteFile(vert, []byte(vertexSrc), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte(fragmentSrc), 0o644))

	gl := gltest.New()
	p, err := shaders.Build(gl, shaders.Files{Vertex: vert, Fragment: frag})
	require.NoError(t, err)
	assert.NotZero(t, p.ID())
}

func TestBuildUnreadableSourceSkipsCompilation(t *testing.T) {
	gl := gltest.New()

	_, err := shaders.Build(gl, shaders.Files{
		Vertex:   filepath.Join(t.TempDir(), "missing.vert"),
		Fragment: filepath.Join(t.TempDir(), "missing.frag"),
	})

	require.ErrorIs(t, err, shaders.ErrSourceUnreadable)
	assert.Contains(t, err.Error(), "missing.vert")
	assert.Empty(t, gl.Compiled)
}

func TestBuildFromText(t *testing.T) {
	gl := gltest.New()

	p, err := shaders.Build(gl, shaders.Text{Vertex: vertexSrc, Fragment: fragmentSrc})
	require.NoError(t, err)
	assert.NotZero(t, p.ID())
}

func TestBuildEmbedded(t *testing.T) {
	gl := gltest.New()

	p, err := shaders.Build(gl, shaders.Embedded{Data: shaders.ShaderData{Version: "330 core"}})
	require.NoError(t, err)

	p.SetFloat("horizOffset", 0.2)
	p.SetFloat("pulse", 0.5)
	v, ok := gl.UniformValue(p.ID(), "pulse")
	require.True(t, ok)
	assert.Equal(t, float32(0.5), v)
}
