package renderloop

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/fosdem/trigl/lib/metrics"
	"github.com/fosdem/trigl/lib/rendering"
	"github.com/fosdem/trigl/lib/rendering/geometry"
	"github.com/fosdem/trigl/lib/rendering/renderconsts"
	"github.com/fosdem/trigl/lib/rendering/shaders"
	"github.com/fosdem/trigl/lib/stats"
	"github.com/fosdem/trigl/lib/utils"
	"github.com/fosdem/trigl/lib/window"
)

var ErrStopped = errors.New("render loop is stopped")

type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Viewport struct {
	X, Y          int32
	Width, Height int32
}

type Options struct {
	ClearColour utils.Colour
	Primitive   renderconsts.Primitive
	// Animated float uniforms follow sin(t)/2 + 0.5, t being seconds of
	// rendering so far.
	Animated []string
	Stats    *stats.Stats
}

// Loop draws one geometry with one program into a window until the window
// is closed or Escape is pressed. It is not reentrant and cannot be
// restarted once stopped.
type Loop struct {
	gl       rendering.GL
	win      window.Host
	program  *shaders.Program
	geometry *geometry.Buffer
	opts     Options

	state          State
	viewport       Viewport
	restoreProgram func()

	clock utils.DeltaTimer
}

func logger() *slog.Logger {
	return slog.With("module", "renderloop")
}

// New activates program for the lifetime of the loop, sets the viewport to
// the framebuffer and subscribes to resizes. The loop starts Running.
func New(gl rendering.GL, win window.Host, program *shaders.Program, geom *geometry.Buffer, opts Options) *Loop {
	l := &Loop{
		gl:       gl,
		win:      win,
		program:  program,
		geometry: geom,
		opts:     opts,
		state:    Running,
	}

	l.setViewport(win.FramebufferSize())
	win.OnResize(l.resized)

	l.restoreProgram = program.Use()
	metrics.LoopRunning.Set(1)
	if l.opts.Stats != nil {
		l.opts.Stats.SetRunning(true)
	}
	return l
}

func (l *Loop) State() State { return l.state }

func (l *Loop) Viewport() Viewport { return l.viewport }

func (l *Loop) setViewport(width, height int) {
	l.viewport = Viewport{Width: int32(width), Height: int32(height)}
	l.gl.Viewport(0, 0, int32(width), int32(height))
	if l.opts.Stats != nil {
		l.opts.Stats.SetViewport(width, height)
	}
}

func (l *Loop) resized(width, height int) {
	logger().Debug(fmt.Sprintf("viewport resized to %dx%d", width, height))
	l.setViewport(width, height)
	metrics.ViewportResizes.Inc()
}

// Run steps until the loop stops.
func (l *Loop) Run() error {
	logger().Info("render loop started")
	for l.state == Running {
		if err := l.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step runs one frame. On the frame where the window asks to close or
// Escape is held the loop stops without drawing.
func (l *Loop) Step() error {
	if l.state == Stopped {
		return ErrStopped
	}

	if l.win.ShouldClose() || l.win.IsKeyPressed(window.KeyEscape) {
		l.stop()
		return nil
	}
	l.clock.Next()

	c := l.opts.ClearColour
	l.gl.ClearColor(c.R, c.G, c.B, c.A)
	l.gl.Clear(renderconsts.ColorBufferBit)

	unbind := l.geometry.Bind()
	for _, name := range l.opts.Animated {
		l.program.SetFloat(name, Sine(l.clock.Elapsed))
	}
	err := l.geometry.Draw(l.opts.Primitive)
	unbind()
	if err != nil {
		l.stop()
		return fmt.Errorf("could not draw: %w", err)
	}

	l.win.SwapBuffers()
	l.win.PollEvents()

	metrics.FramesRendered.Inc()
	if l.opts.Stats != nil {
		l.opts.Stats.Update(1)
	}
	return nil
}

func (l *Loop) stop() {
	l.state = Stopped
	l.win.SetShouldClose(true)
	l.restoreProgram()
	metrics.LoopRunning.Set(0)
	if l.opts.Stats != nil {
		l.opts.Stats.SetRunning(false)
	}
	logger().Info("render loop stopped")
}

// Sine maps t to sin(t)/2 + 0.5, a value in [0, 1].
func Sine(t time.Duration) float32 {
	return float32(math.Sin(t.Seconds())/2 + 0.5)
}
