package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fosdem/trigl/lib/rendering/geometry"
	"github.com/fosdem/trigl/lib/rendering/renderconsts"
	"github.com/fosdem/trigl/lib/utils"
	"github.com/go-gl/mathgl/mgl32"
	yaml "github.com/goccy/go-yaml"
)

type Config struct {
	LogLevel    string        `yaml:"log_level"`
	Window      *WindowCfg    `yaml:"window"`
	Context     *ContextCfg   `yaml:"context"`
	ClearColour *utils.Colour `yaml:"clear_colour"`
	Shaders     *ShadersCfg   `yaml:"shaders"`
	Uniforms    []*UniformCfg `yaml:"uniforms"`
	Geometry    *GeometryCfg  `yaml:"geometry"`
	Api         *ApiCfg       `yaml:"api"`
}

type WindowCfg struct {
	Width     int
	Height    int
	Title     string
	Resizable *bool
}

type ContextCfg struct {
	Major   int
	Minor   int
	Profile string
}

type ShadersCfg struct {
	Vertex   CfgPath
	Fragment CfgPath
}

type UniformCfg struct {
	Name  string
	Type  string
	Value float64
	// Animate is "" or "sine"
	Animate string
}

type GeometryCfg struct {
	Primitive  string
	Vertices   []float32
	Indices    []uint32
	Attributes []*AttributeCfg
}

type AttributeCfg struct {
	Index      uint32
	Components int32
	Type       string
	Normalized bool
	Stride     int32
	Offset     int
}

type ApiCfg struct {
	Bind           string
	EnableProfiler bool `yaml:"enable_profiler"`
}

// Default is the configuration used when no file is given: an 800x600 window
// on a 3.3 core context showing the RGB triangle.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func defaultGeometry() *GeometryCfg {
	vertices := geometry.Interleave(
		[]mgl32.Vec3{
			{0.5, -0.5, 0},  // bottom right
			{-0.5, -0.5, 0}, // bottom left
			{0, 0.5, 0},     // top
		},
		[]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	)
	g := &GeometryCfg{
		Primitive: "triangles",
		Vertices:  vertices,
		Indices:   []uint32{0, 1, 2},
	}
	for _, a := range geometry.PositionColourLayout() {
		g.Attributes = append(g.Attributes, &AttributeCfg{
			Index:      a.Index,
			Components: a.Components,
			Type:       "float",
			Stride:     a.Stride,
			Offset:     int(a.Offset),
		})
	}
	return g
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Window == nil {
		c.Window = &WindowCfg{}
	}
	if c.Window.Width == 0 {
		c.Window.Width = 800
	}
	if c.Window.Height == 0 {
		c.Window.Height = 600
	}
	if c.Window.Title == "" {
		c.Window.Title = "My Window!"
	}
	if c.Window.Resizable == nil {
		resizable := true
		c.Window.Resizable = &resizable
	}
	if c.Context == nil {
		c.Context = &ContextCfg{}
	}
	if c.Context.Major == 0 && c.Context.Minor == 0 {
		c.Context.Major, c.Context.Minor = 3, 3
	}
	if c.Context.Profile == "" {
		c.Context.Profile = "core"
	}
	if c.ClearColour == nil {
		c.ClearColour = &utils.Colour{R: 0.3, G: 0.2, B: 0.3, A: 1.0}
	}
	if c.Shaders == nil {
		c.Shaders = &ShadersCfg{}
	}
	if c.Uniforms == nil {
		c.Uniforms = []*UniformCfg{{Name: "horizOffset", Type: "float", Value: 0.2}}
	}
	if c.Geometry == nil || len(c.Geometry.Vertices) == 0 {
		c.Geometry = defaultGeometry()
	}
	if c.Geometry.Primitive == "" {
		c.Geometry.Primitive = "triangles"
	}
	for _, a := range c.Geometry.Attributes {
		if a.Type == "" {
			a.Type = "float"
		}
	}
	if c.Api == nil {
		c.Api = &ApiCfg{}
	}
}

func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %s", filename, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}
	UnmarshalBase = filepath.Dir(absFilename)

	m := yaml.NewDecoder(f, yaml.DisallowUnknownField())
	cfg := &Config{}
	err = m.Decode(cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, err
}

func (c *Config) Validate() error {
	var err error
	if err = c.Window.Validate(); err != nil {
		return fmt.Errorf("window is invalid: %w", err)
	}
	if err = c.Context.Validate(); err != nil {
		return fmt.Errorf("context is invalid: %w", err)
	}
	if err = c.ClearColour.Validate(); err != nil {
		return fmt.Errorf("clear_colour is invalid: %w", err)
	}
	if err = c.Shaders.Validate(); err != nil {
		return fmt.Errorf("shaders are invalid: %w", err)
	}
	names := map[string]bool{}
	for i, u := range c.Uniforms {
		if err = u.Validate(); err != nil {
			return fmt.Errorf("uniform %d is invalid: %w", i, err)
		}
		if names[u.Name] {
			return fmt.Errorf("uniform %s is set twice", u.Name)
		}
		names[u.Name] = true
	}
	if err = c.Geometry.Validate(); err != nil {
		return fmt.Errorf("geometry is invalid: %w", err)
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Window:\n  %dx%d %q\n", c.Window.Width, c.Window.Height, c.Window.Title)
	fmt.Fprintf(&b, "\nContext:\n  OpenGL %d.%d %s\n", c.Context.Major, c.Context.Minor, c.Context.Profile)
	fmt.Fprintf(&b, "\nClear colour:\n  %s\n", c.ClearColour)

	b.WriteString("\nShaders:\n")
	if c.Shaders.Vertex == "" {
		b.WriteString("  built-in\n")
	} else {
		fmt.Fprintf(&b, "  %s\n  %s\n", c.Shaders.Vertex, c.Shaders.Fragment)
	}

	b.WriteString("\nUniforms:\n")
	for _, u := range c.Uniforms {
		fmt.Fprintf(&b, "  %s (%s) = %g", u.Name, u.Type, u.Value)
		if u.Animate != "" {
			fmt.Fprintf(&b, " animated: %s", u.Animate)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nGeometry:\n  %s, %d floats, %d indices, %d attributes\n",
		c.Geometry.Primitive, len(c.Geometry.Vertices), len(c.Geometry.Indices), len(c.Geometry.Attributes))

	if c.Api.Bind != "" {
		fmt.Fprintf(&b, "\nApi:\n  %s\n", c.Api.Bind)
	}
	return b.String()
}

func (w *WindowCfg) Validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("size %dx%d must be positive", w.Width, w.Height)
	}
	return nil
}

func (c *ContextCfg) Validate() error {
	if c.Major == 0 {
		return fmt.Errorf("minor version %d given without a major version", c.Minor)
	}
	if c.Major < 2 {
		return fmt.Errorf("OpenGL %d.%d is too old", c.Major, c.Minor)
	}
	switch c.Profile {
	case "core":
		if c.Major < 3 || (c.Major == 3 && c.Minor < 2) {
			return fmt.Errorf("the core profile needs OpenGL 3.2 or later")
		}
	case "compat", "any":
	default:
		return fmt.Errorf("unknown profile %q (core, compat or any)", c.Profile)
	}
	return nil
}

func (s *ShadersCfg) Validate() error {
	if (s.Vertex == "") != (s.Fragment == "") {
		return fmt.Errorf("vertex and fragment must be given together")
	}
	return nil
}

func (u *UniformCfg) Validate() error {
	if u.Name == "" {
		return fmt.Errorf("name must be specified")
	}
	switch u.Type {
	case "bool", "int", "float":
	default:
		return fmt.Errorf("unknown uniform type %q (bool, int or float)", u.Type)
	}
	switch u.Animate {
	case "":
	case "sine":
		if u.Type != "float" {
			return fmt.Errorf("only float uniforms can be animated")
		}
	default:
		return fmt.Errorf("unknown animation %q", u.Animate)
	}
	return nil
}

func (g *GeometryCfg) Validate() error {
	if _, err := renderconsts.ParsePrimitive(g.Primitive); err != nil {
		return err
	}
	attrs, err := g.Layout()
	if err != nil {
		return err
	}
	_, err = geometry.ValidateLayout(g.Vertices, g.Indices, attrs)
	return err
}

// Layout converts the configured attributes.
func (g *GeometryCfg) Layout() ([]geometry.Attribute, error) {
	attrs := make([]geometry.Attribute, 0, len(g.Attributes))
	for i, a := range g.Attributes {
		attr, err := a.Attribute()
		if err != nil {
			return nil, fmt.Errorf("attribute %d: %w", i, err)
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func (a *AttributeCfg) Attribute() (geometry.Attribute, error) {
	t, err := renderconsts.ParseNumericType(a.Type)
	if err != nil {
		return geometry.Attribute{}, err
	}
	if a.Offset < 0 {
		return geometry.Attribute{}, fmt.Errorf("offset %d is negative", a.Offset)
	}
	return geometry.Attribute{
		Index:      a.Index,
		Components: a.Components,
		Type:       t,
		Normalized: a.Normalized,
		Stride:     a.Stride,
		Offset:     uintptr(a.Offset),
	}, nil
}
