package geometry

import (
	"errors"
	"fmt"

	"github.com/fosdem/trigl/lib/metrics"
	"github.com/fosdem/trigl/lib/rendering"
	"github.com/fosdem/trigl/lib/rendering/renderconsts"
)

var (
	ErrNotBound   = errors.New("geometry buffer is not bound")
	ErrOutOfRange = errors.New("draw range exceeds uploaded data")
)

// Buffer is static geometry living on the GPU: a vertex array object with
// its vertex buffer, an optional index buffer and the attribute layout.
type Buffer struct {
	gl rendering.GL

	vao uint32
	vbo uint32
	ebo uint32

	vertexCount int32
	indexCount  int32
	attributes  []Attribute
}

// Upload copies vertices and indices (nil for none) into new GPU buffers once
// and records attrs in the buffer's own vertex array. The vertex array bound
// before the call is bound again afterwards.
func Upload(gl rendering.GL, vertices []float32, indices []uint32, attrs []Attribute) (*Buffer, error) {
	count, err := ValidateLayout(vertices, indices, attrs)
	if err != nil {
		return nil, err
	}

	b := &Buffer{
		gl:          gl,
		vertexCount: count,
		indexCount:  int32(len(indices)),
		attributes:  append([]Attribute(nil), attrs...),
	}

	prev := gl.BoundVertexArray()
	b.vao = gl.GenVertexArray()
	gl.BindVertexArray(b.vao)
	defer gl.BindVertexArray(prev)

	b.vbo = gl.GenBuffer()
	gl.BindBuffer(renderconsts.ArrayBuffer, b.vbo)
	gl.BufferFloats(renderconsts.ArrayBuffer, vertices, renderconsts.StaticDraw)

	if len(indices) > 0 {
		// the element binding is part of the vertex array state
		b.ebo = gl.GenBuffer()
		gl.BindBuffer(renderconsts.ElementArrayBuffer, b.ebo)
		gl.BufferUints(renderconsts.ElementArrayBuffer, indices, renderconsts.StaticDraw)
	}

	for _, a := range attrs {
		gl.VertexAttribPointer(a.Index, a.Components, a.Type, a.Normalized, a.Stride, a.Offset)
		gl.EnableVertexAttribArray(a.Index)
	}
	gl.BindBuffer(renderconsts.ArrayBuffer, 0)

	return b, nil
}

// Bind makes b the current geometry and returns a function restoring the
// vertex array that was bound before.
func (b *Buffer) Bind() (unbind func()) {
	prev := b.gl.BoundVertexArray()
	b.gl.BindVertexArray(b.vao)
	return func() {
		b.gl.BindVertexArray(prev)
	}
}

func (b *Buffer) bound() bool {
	return b.vao != 0 && b.gl.BoundVertexArray() == b.vao
}

// DrawIndexed draws the first count indices. It needs b to be bound.
func (b *Buffer) DrawIndexed(mode renderconsts.Primitive, count int32) error {
	if !b.bound() {
		return ErrNotBound
	}
	if b.ebo == 0 || count < 0 || count > b.indexCount {
		return fmt.Errorf("%w: %d indices requested, %d uploaded", ErrOutOfRange, count, b.indexCount)
	}
	b.gl.DrawElements(mode, count, renderconsts.UnsignedInt, 0)
	metrics.DrawCalls.WithLabelValues("elements").Inc()
	return nil
}

// DrawArrays draws the first count vertices. It needs b to be bound.
func (b *Buffer) DrawArrays(mode renderconsts.Primitive, count int32) error {
	if !b.bound() {
		return ErrNotBound
	}
	if count < 0 || count > b.vertexCount {
		return fmt.Errorf("%w: %d vertices requested, %d uploaded", ErrOutOfRange, count, b.vertexCount)
	}
	b.gl.DrawArrays(mode, 0, count)
	metrics.DrawCalls.WithLabelValues("arrays").Inc()
	return nil
}

// Draw draws all of the geometry, through the index buffer if there is one.
func (b *Buffer) Draw(mode renderconsts.Primitive) error {
	if b.ebo != 0 {
		return b.DrawIndexed(mode, b.indexCount)
	}
	return b.DrawArrays(mode, b.vertexCount)
}

func (b *Buffer) VertexCount() int32 { return b.vertexCount }

func (b *Buffer) IndexCount() int32 { return b.indexCount }

func (b *Buffer) Attributes() []Attribute { return b.attributes }

func (b *Buffer) Delete() {
	if b.bound() {
		b.gl.BindVertexArray(0)
	}
	b.gl.DeleteVertexArray(b.vao)
	b.gl.DeleteBuffer(b.vbo)
	if b.ebo != 0 {
		b.gl.DeleteBuffer(b.ebo)
	}
	b.vao, b.vbo, b.ebo = 0, 0, 0
}
