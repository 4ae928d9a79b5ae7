// Package windowtest provides a scripted window.Host for tests.
package windowtest

import (
	"github.com/fosdem/trigl/lib/window"
)

var _ window.Host = (*Window)(nil)

type event func(w *Window)

// Window is a window.Host whose events are queued by the test and delivered
// on the next PollEvents, like a real event queue.
type Window struct {
	width, height int
	closing       bool
	pressed       map[window.Key]bool
	queue         []event
	resize        []func(width, height int)

	Swaps     int
	Polls     int
	Destroyed bool
	// OnSwap runs after every SwapBuffers, before the frame's PollEvents.
	OnSwap func(w *Window)
}

func New(width, height int) *Window {
	return &Window{width: width, height: height, pressed: map[window.Key]bool{}}
}

// QueueResize delivers a framebuffer resize on the next PollEvents.
func (w *Window) QueueResize(width, height int) {
	w.queue = append(w.queue, func(w *Window) {
		w.width, w.height = width, height
		for _, cb := range w.resize {
			cb(width, height)
		}
	})
}

// QueueKey changes the state of key on the next PollEvents.
func (w *Window) QueueKey(key window.Key, pressed bool) {
	w.queue = append(w.queue, func(w *Window) {
		w.pressed[key] = pressed
	})
}

// QueueClose raises the close flag on the next PollEvents, as a click on the
// close button would.
func (w *Window) QueueClose() {
	w.queue = append(w.queue, func(w *Window) {
		w.closing = true
	})
}

func (w *Window) ShouldClose() bool { return w.closing }

func (w *Window) SetShouldClose(v bool) { w.closing = v }

func (w *Window) PollEvents() {
	w.Polls++
	queue := w.queue
	w.queue = nil
	for _, e := range queue {
		e(w)
	}
}

func (w *Window) SwapBuffers() {
	w.Swaps++
	if w.OnSwap != nil {
		w.OnSwap(w)
	}
}

func (w *Window) IsKeyPressed(k window.Key) bool { return w.pressed[k] }

func (w *Window) OnResize(cb func(width, height int)) {
	w.resize = append(w.resize, cb)
}

func (w *Window) FramebufferSize() (int, int) { return w.width, w.height }

func (w *Window) Destroy() { w.Destroyed = true }
