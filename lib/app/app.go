package app

import (
	"fmt"
	"log/slog"

	"github.com/fosdem/trigl/lib/api"
	"github.com/fosdem/trigl/lib/config"
	"github.com/fosdem/trigl/lib/rendering"
	"github.com/fosdem/trigl/lib/rendering/geometry"
	"github.com/fosdem/trigl/lib/rendering/renderconsts"
	"github.com/fosdem/trigl/lib/rendering/shaders"
	"github.com/fosdem/trigl/lib/renderloop"
	"github.com/fosdem/trigl/lib/stats"
	"github.com/fosdem/trigl/lib/window"
	"github.com/fosdem/trigl/lib/window/glfwwindow"
)

// MakeWindowAndRender opens the window, renders until it is closed and
// tears everything down. It must run on the main OS thread.
func MakeWindowAndRender(cfg *config.Config) error {
	win, err := glfwwindow.Create(cfg.Window, cfg.Context)
	if err != nil {
		return err
	}
	defer win.Destroy()

	gl, err := rendering.Init()
	if err != nil {
		return err
	}

	st := stats.New()
	api.ServeInBackground(cfg.Api, st)

	return Render(gl, win, cfg, st)
}

// Render builds the program and geometry described by cfg and runs the loop.
func Render(gl rendering.GL, win window.Host, cfg *config.Config, st *stats.Stats) error {
	loop, err := Setup(gl, win, cfg, st)
	if err != nil {
		return err
	}
	return loop.Run()
}

// Setup does everything up to the first frame.
func Setup(gl rendering.GL, win window.Host, cfg *config.Config, st *stats.Stats) (*renderloop.Loop, error) {
	program, err := shaders.Build(gl, SourceProvider(cfg))
	if err != nil {
		return nil, fmt.Errorf("could not init GL program: %w", err)
	}

	var animated []string
	for _, u := range cfg.Uniforms {
		applyUniform(program, u)
		if u.Animate != "" {
			animated = append(animated, u.Name)
		}
	}

	attrs, err := cfg.Geometry.Layout()
	if err != nil {
		return nil, fmt.Errorf("could not read geometry layout: %w", err)
	}
	var indices []uint32
	if len(cfg.Geometry.Indices) > 0 {
		indices = cfg.Geometry.Indices
	}
	geom, err := geometry.Upload(gl, cfg.Geometry.Vertices, indices, attrs)
	if err != nil {
		return nil, fmt.Errorf("could not upload geometry: %w", err)
	}

	primitive, err := renderconsts.ParsePrimitive(cfg.Geometry.Primitive)
	if err != nil {
		return nil, err
	}

	slog.Info(fmt.Sprintf("uploaded %d vertices, %d indices", geom.VertexCount(), geom.IndexCount()), "module", "app")

	return renderloop.New(gl, win, program, geom, renderloop.Options{
		ClearColour: *cfg.ClearColour,
		Primitive:   primitive,
		Animated:    animated,
		Stats:       st,
	}), nil
}

// SourceProvider picks the shader files from cfg, or the built-in shaders
// when none are configured.
func SourceProvider(cfg *config.Config) shaders.SourceProvider {
	if cfg.Shaders.Vertex != "" {
		return shaders.Files{
			Vertex:   string(cfg.Shaders.Vertex),
			Fragment: string(cfg.Shaders.Fragment),
		}
	}
	return shaders.Embedded{Data: shaders.ShaderData{
		Version: shaders.GLSLVersion(cfg.Context.Major, cfg.Context.Minor, cfg.Context.Profile),
	}}
}

func applyUniform(p *shaders.Program, u *config.UniformCfg) {
	switch u.Type {
	case "bool":
		p.SetBool(u.Name, u.Value != 0)
	case "int":
		p.SetInt(u.Name, int32(u.Value))
	case "float":
		p.SetFloat(u.Name, float32(u.Value))
	}
}
