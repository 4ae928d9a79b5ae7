// Package window describes what the renderer needs from the windowing
// system. The GLFW implementation lives in glfwwindow.
package window

import "errors"

var (
	ErrWindowSystemInit   = errors.New("could not initialise the window system")
	ErrWindowCreation     = errors.New("could not create window")
	ErrContextUnavailable = errors.New("requested OpenGL context is unavailable")
)

type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeySpace
	KeyQ
)

// Host is a window with a current OpenGL context. All methods must be called
// from the thread that created it.
type Host interface {
	ShouldClose() bool
	SetShouldClose(bool)
	// PollEvents processes pending events; resize callbacks run inside it.
	PollEvents()
	SwapBuffers()
	IsKeyPressed(Key) bool
	// OnResize registers a callback receiving the new framebuffer size.
	OnResize(func(width, height int))
	FramebufferSize() (width, height int)
	Destroy()
}
