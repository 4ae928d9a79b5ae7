package rendering

import (
	"github.com/fosdem/trigl/lib/rendering/renderconsts"
)

// GL is the subset of OpenGL used by the renderer. Objects are named by the
// uint32 handles the driver hands out; 0 is never a valid object.
type GL interface {
	CreateShader(stage renderconsts.ShaderStage) uint32
	// CompileShader uploads source into shader and compiles it, returning
	// the compile status and the info log.
	CompileShader(shader uint32, source string) (bool, string)
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32) (bool, string)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	CurrentProgram() uint32

	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	BoundVertexArray() uint32
	DeleteVertexArray(vao uint32)

	GenBuffer() uint32
	BindBuffer(target renderconsts.BufferTarget, buffer uint32)
	BufferFloats(target renderconsts.BufferTarget, data []float32, usage renderconsts.Usage)
	BufferUints(target renderconsts.BufferTarget, data []uint32, usage renderconsts.Usage)
	DeleteBuffer(buffer uint32)
	VertexAttribPointer(index uint32, size int32, xtype renderconsts.NumericType, normalized bool, stride int32, offset uintptr)
	EnableVertexAttribArray(index uint32)

	DrawArrays(mode renderconsts.Primitive, first, count int32)
	DrawElements(mode renderconsts.Primitive, count int32, xtype renderconsts.NumericType, offset uintptr)

	ClearColor(r, g, b, a float32)
	Clear(mask renderconsts.BufferBit)
	Viewport(x, y, width, height int32)
}
