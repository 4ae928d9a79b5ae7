package rendering

import (
	"strings"

	"github.com/fosdem/trigl/lib/rendering/renderconsts"
	"github.com/go-gl/gl/v3.3-core/gl"
)

const f32 = 4

// Core implements GL on top of the go-gl 3.3 core profile bindings. It must
// only be used on the thread owning the current context, after Init.
type Core struct{}

func (Core) CreateShader(stage renderconsts.ShaderStage) uint32 {
	return gl.CreateShader(uint32(stage))
}

func (Core) CompileShader(shader uint32, source string) (bool, string) {
	csources, free := gl.Strs(source)
	size := int32(len(source))
	gl.ShaderSource(shader, 1, csources, &size)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		clog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(clog))
		return false, strings.TrimRight(clog, "\x00")
	}
	return true, ""
}

func (Core) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (Core) CreateProgram() uint32 { return gl.CreateProgram() }

func (Core) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (Core) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }

func (Core) LinkProgram(program uint32) (bool, string) {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		logmsg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logmsg))
		return false, strings.TrimRight(logmsg, "\x00")
	}
	return true, ""
}

func (Core) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (Core) UseProgram(program uint32) { gl.UseProgram(program) }

func (Core) CurrentProgram() uint32 {
	var p int32
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &p)
	return uint32(p)
}

func (Core) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (Core) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

func (Core) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (Core) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (Core) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (Core) BoundVertexArray() uint32 {
	var vao int32
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &vao)
	return uint32(vao)
}

func (Core) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (Core) GenBuffer() uint32 {
	var b uint32
	gl.GenBuffers(1, &b)
	return b
}

func (Core) BindBuffer(target renderconsts.BufferTarget, buffer uint32) {
	gl.BindBuffer(uint32(target), buffer)
}

func (Core) BufferFloats(target renderconsts.BufferTarget, data []float32, usage renderconsts.Usage) {
	gl.BufferData(uint32(target), len(data)*f32, gl.Ptr(data), uint32(usage))
}

func (Core) BufferUints(target renderconsts.BufferTarget, data []uint32, usage renderconsts.Usage) {
	gl.BufferData(uint32(target), len(data)*4, gl.Ptr(data), uint32(usage))
}

func (Core) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (Core) VertexAttribPointer(index uint32, size int32, xtype renderconsts.NumericType, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(index, size, uint32(xtype), normalized, stride, offset)
}

func (Core) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (Core) DrawArrays(mode renderconsts.Primitive, first, count int32) {
	gl.DrawArrays(uint32(mode), first, count)
}

func (Core) DrawElements(mode renderconsts.Primitive, count int32, xtype renderconsts.NumericType, offset uintptr) {
	gl.DrawElements(uint32(mode), count, uint32(xtype), gl.PtrOffset(int(offset)))
}

func (Core) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (Core) Clear(mask renderconsts.BufferBit) { gl.Clear(uint32(mask)) }

func (Core) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
