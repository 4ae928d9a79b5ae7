package glfwwindow

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fosdem/trigl/lib/config"
	"github.com/fosdem/trigl/lib/window"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var _ window.Host = (*Window)(nil)

type Window struct {
	win    *glfw.Window
	resize []func(width, height int)
}

var keys = map[window.Key]glfw.Key{
	window.KeyEscape: glfw.KeyEscape,
	window.KeySpace:  glfw.KeySpace,
	window.KeyQ:      glfw.KeyQ,
}

func logger() *slog.Logger {
	return slog.With("module", "window")
}

// Create initialises GLFW, opens a window with the requested context and
// makes that context current on the calling thread.
func Create(cfg *config.WindowCfg, ctx *config.ContextCfg) (*Window, error) {
	logger().Debug("initializing window")
	if err := glfw.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("%w: %w", window.ErrWindowSystemInit, err)
	}

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, boolHint(cfg.Resizable == nil || *cfg.Resizable))
	glfw.WindowHint(glfw.ContextVersionMajor, ctx.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, ctx.Minor)
	switch ctx.Profile {
	case "core":
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	case "compat":
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
	default:
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLAnyProfile)
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, classify(err, ctx)
	}
	win.MakeContextCurrent()

	w := &Window{win: win}
	win.SetFramebufferSizeCallback(w.framebufferSizeCallback)
	logger().Info(fmt.Sprintf("opened %dx%d window %q", cfg.Width, cfg.Height, cfg.Title))
	return w, nil
}

// classify maps a window creation failure to ErrContextUnavailable when the
// driver refused the requested context, and to ErrWindowCreation otherwise.
func classify(err error, ctx *config.ContextCfg) error {
	var gerr *glfw.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case glfw.VersionUnavailable, glfw.APIUnavailable:
			return fmt.Errorf("%w: OpenGL %d.%d %s: %w", window.ErrContextUnavailable, ctx.Major, ctx.Minor, ctx.Profile, err)
		}
	}
	return fmt.Errorf("%w: %w", window.ErrWindowCreation, err)
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

func (w *Window) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	for _, cb := range w.resize {
		cb(width, height)
	}
}

func (w *Window) ShouldClose() bool { return w.win.ShouldClose() }

func (w *Window) SetShouldClose(v bool) { w.win.SetShouldClose(v) }

func (w *Window) PollEvents() { glfw.PollEvents() }

func (w *Window) SwapBuffers() { w.win.SwapBuffers() }

func (w *Window) IsKeyPressed(k window.Key) bool {
	key, ok := keys[k]
	if !ok {
		return false
	}
	return w.win.GetKey(key) == glfw.Press
}

func (w *Window) OnResize(cb func(width, height int)) {
	w.resize = append(w.resize, cb)
}

func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

func (w *Window) Destroy() {
	w.win.Destroy()
	glfw.Terminate()
}
