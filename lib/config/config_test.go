package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fosdem/trigl/lib/rendering/renderconsts"
	"github.com/fosdem/trigl/lib/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trigl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, "My Window!", cfg.Window.Title)
	assert.Equal(t, 3, cfg.Context.Major)
	assert.Equal(t, 3, cfg.Context.Minor)
	assert.Equal(t, "core", cfg.Context.Profile)
	assert.Equal(t, utils.Colour{R: 0.3, G: 0.2, B: 0.3, A: 1}, *cfg.ClearColour)
	assert.Equal(t, []uint32{0, 1, 2}, cfg.Geometry.Indices)
	assert.Equal(t, []float32{
		0.5, -0.5, 0, 1, 0, 0,
		-0.5, -0.5, 0, 0, 1, 0,
		0, 0.5, 0, 0, 0, 1,
	}, cfg.Geometry.Vertices)
	assert.Equal(t, "horizOffset", cfg.Uniforms[0].Name)

	attrs, err := cfg.Geometry.Layout()
	require.NoError(t, err)
	require.Len(t, attrs, 2)
	assert.Equal(t, renderconsts.Float, attrs[1].Type)
	assert.Equal(t, uintptr(12), attrs[1].Offset)
}

func TestParse(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
window:
  width: 1024
  height: 768
  title: triangle
context:
  major: 4
  minor: 1
clear_colour: "#000000ff"
shaders:
  vertex: shaders/basic.vert
  fragment: /abs/basic.frag
uniforms:
  - name: pulse
    type: float
    animate: sine
geometry:
  primitive: triangle_strip
  vertices: [0, 0, 1, 0, 0, 1, 1, 1]
  attributes:
    - index: 0
      components: 2
      stride: 8
api:
  bind: "127.0.0.1:9090"
  enable_profiler: true
`)

	cfg, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.True(t, *cfg.Window.Resizable)
	assert.Equal(t, "core", cfg.Context.Profile)
	assert.Equal(t, utils.Colour{A: 1}, *cfg.ClearColour)
	assert.Equal(t, CfgPath(filepath.Join(filepath.Dir(path), "shaders/basic.vert")), cfg.Shaders.Vertex)
	assert.Equal(t, CfgPath("/abs/basic.frag"), cfg.Shaders.Fragment)
	require.Len(t, cfg.Uniforms, 1)
	assert.Equal(t, "sine", cfg.Uniforms[0].Animate)
	assert.Equal(t, "triangle_strip", cfg.Geometry.Primitive)
	assert.Empty(t, cfg.Geometry.Indices)
	assert.Equal(t, "float", cfg.Geometry.Attributes[0].Type)
	assert.Equal(t, "127.0.0.1:9090", cfg.Api.Bind)
	assert.True(t, cfg.Api.EnableProfiler)
}

func TestParseRejectsInvalidConfigs(t *testing.T) {
	tests := map[string]struct {
		yaml    string
		wantErr string
	}{
		"negative size": {
			yaml:    "window: {width: -1, height: 10}\n",
			wantErr: "must be positive",
		},
		"old core": {
			yaml:    "context: {major: 3, minor: 1, profile: core}\n",
			wantErr: "3.2 or later",
		},
		"minor without major": {
			yaml:    "context: {minor: 1, profile: compat}\n",
			wantErr: "without a major",
		},
		"bad profile": {
			yaml:    "context: {major: 3, minor: 3, profile: es}\n",
			wantErr: "unknown profile",
		},
		"lonely vertex shader": {
			yaml:    "shaders: {vertex: a.vert}\n",
			wantErr: "given together",
		},
		"animated int": {
			yaml:    "uniforms: [{name: n, type: int, animate: sine}]\n",
			wantErr: "only float",
		},
		"duplicate uniform": {
			yaml:    "uniforms: [{name: n, type: int}, {name: n, type: float}]\n",
			wantErr: "set twice",
		},
		"colour out of range": {
			yaml:    "clear_colour: [2, 0, 0, 1]\n",
			wantErr: "outside [0, 1]",
		},
		"attribute overruns stride": {
			yaml: `geometry:
  vertices: [0, 0, 0, 0, 0, 0]
  attributes: [{index: 0, components: 3, stride: 12, offset: 4}]
`,
			wantErr: "overruns stride",
		},
		"unknown primitive": {
			yaml: `geometry:
  primitive: quads
  vertices: [0, 0, 0]
  attributes: [{index: 0, components: 3, stride: 12}]
`,
			wantErr: "unknown primitive",
		},
		"unknown field": {
			yaml:    "windw: {}\n",
			wantErr: "windw",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "could not open")
}

func TestString(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, "800x600")
	assert.Contains(t, s, "OpenGL 3.3 core")
	assert.Contains(t, s, "built-in")
	assert.Contains(t, s, "horizOffset (float) = 0.2")
}

func TestExampleConfig(t *testing.T) {
	cfg, err := Parse("../../examples/trigl.yaml")
	require.NoError(t, err)

	assert.Equal(t, "sine", cfg.Uniforms[1].Animate)
	assert.Len(t, cfg.Geometry.Vertices, 18)
	assert.FileExists(t, string(cfg.Shaders.Vertex))
	assert.FileExists(t, string(cfg.Shaders.Fragment))
}

func TestParseAttributesWithDifferentStrides(t *testing.T) {
	cfg, err := Parse(writeConfig(t, `
geometry:
  vertices: [0, 0, 0, 1, 1, 1]
  indices: [0]
  attributes:
    - {index: 0, components: 3, stride: 24}
    - {index: 1, components: 1, stride: 12}
`))
	require.NoError(t, err)

	attrs, err := cfg.Geometry.Layout()
	require.NoError(t, err)
	assert.Equal(t, int32(12), attrs[1].Stride)
}
