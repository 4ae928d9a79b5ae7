// Package gltest provides an in-memory implementation of rendering.GL that
// records every call, checks shader sources with a toy GLSL front end and
// reports misuse (out-of-range draws, missing bindings) the way a debug
// context would, so renderer code can be tested without a GPU.
package gltest

import (
	"fmt"

	"github.com/fosdem/trigl/lib/rendering"
	"github.com/fosdem/trigl/lib/rendering/renderconsts"
)

var _ rendering.GL = (*GL)(nil)

// Draw is one recorded draw call together with the state it was issued in.
type Draw struct {
	Mode     renderconsts.Primitive
	Indexed  bool
	First    int32
	Count    int32
	Program  uint32
	VAO      uint32
	Viewport [4]int32
}

// Clear is one recorded glClear call.
type Clear struct {
	Mask   renderconsts.BufferBit
	Colour [4]float32
}

type shader struct {
	stage    renderconsts.ShaderStage
	source   string
	compiled bool
	deleted  bool
	iface    *stageInterface
}

type program struct {
	attached     map[uint32]bool
	linked       bool
	uniforms     map[string]int32
	uniformTypes map[string]string
	values       map[int32]any
}

type attrib struct {
	enabled bool
	set     bool
	size    int32
	xtype   renderconsts.NumericType
	stride  int32
	offset  uintptr
	buffer  uint32
}

type vertexArray struct {
	elements uint32
	attribs  map[uint32]*attrib
}

type buffer struct {
	floats []float32
	uints  []uint32
	bytes  int
}

type GL struct {
	next uint32

	shaders  map[uint32]*shader
	programs map[uint32]*program
	vaos     map[uint32]*vertexArray
	buffers  map[uint32]*buffer

	current     uint32
	boundVAO    uint32
	arrayBuffer uint32
	clearColour [4]float32
	viewport    [4]int32

	Compiled []renderconsts.ShaderStage
	Draws    []Draw
	Clears   []Clear
	// Errors collects every misuse detected, in call order.
	Errors []string
}

func New() *GL {
	return &GL{
		shaders:  map[uint32]*shader{},
		programs: map[uint32]*program{},
		vaos:     map[uint32]*vertexArray{},
		buffers:  map[uint32]*buffer{},
	}
}

func (g *GL) errorf(format string, args ...any) {
	g.Errors = append(g.Errors, fmt.Sprintf(format, args...))
}

func (g *GL) handle() uint32 {
	g.next++
	return g.next
}

func (g *GL) CreateShader(stage renderconsts.ShaderStage) uint32 {
	h := g.handle()
	g.shaders[h] = &shader{stage: stage}
	return h
}

func (g *GL) CompileShader(h uint32, source string) (bool, string) {
	s, ok := g.shaders[h]
	if !ok || s.deleted {
		g.errorf("GL_INVALID_VALUE: compile of unknown shader %d", h)
		return false, "invalid shader"
	}
	g.Compiled = append(g.Compiled, s.stage)
	s.source = source
	iface, diag := check(source)
	if diag != "" {
		s.compiled = false
		return false, diag
	}
	s.iface = iface
	s.compiled = true
	return true, ""
}

func (g *GL) DeleteShader(h uint32) {
	s, ok := g.shaders[h]
	if !ok {
		g.errorf("GL_INVALID_VALUE: delete of unknown shader %d", h)
		return
	}
	s.deleted = true
	g.reap(h)
}

// reap drops a shader flagged for deletion once no program holds it.
func (g *GL) reap(h uint32) {
	s := g.shaders[h]
	if s == nil || !s.deleted {
		return
	}
	for _, p := range g.programs {
		if p.attached[h] {
			return
		}
	}
	delete(g.shaders, h)
}

func (g *GL) CreateProgram() uint32 {
	h := g.handle()
	g.programs[h] = &program{attached: map[uint32]bool{}}
	return h
}

func (g *GL) AttachShader(p, s uint32) {
	prog, ok := g.programs[p]
	if !ok {
		g.errorf("GL_INVALID_VALUE: attach to unknown program %d", p)
		return
	}
	if _, ok := g.shaders[s]; !ok {
		g.errorf("GL_INVALID_VALUE: attach of unknown shader %d", s)
		return
	}
	prog.attached[s] = true
}

func (g *GL) DetachShader(p, s uint32) {
	prog, ok := g.programs[p]
	if !ok || !prog.attached[s] {
		g.errorf("GL_INVALID_OPERATION: shader %d not attached to program %d", s, p)
		return
	}
	delete(prog.attached, s)
	g.reap(s)
}

func (g *GL) LinkProgram(p uint32) (bool, string) {
	prog, ok := g.programs[p]
	if !ok {
		g.errorf("GL_INVALID_VALUE: link of unknown program %d", p)
		return false, "invalid program"
	}
	var stages []*shader
	for h := range prog.attached {
		stages = append(stages, g.shaders[h])
	}
	uniforms, types, diag := link(stages)
	if diag != "" {
		prog.linked = false
		return false, diag
	}
	prog.linked = true
	prog.uniforms = uniforms
	prog.uniformTypes = types
	prog.values = map[int32]any{}
	return true, ""
}

func (g *GL) DeleteProgram(p uint32) {
	prog, ok := g.programs[p]
	if !ok {
		g.errorf("GL_INVALID_VALUE: delete of unknown program %d", p)
		return
	}
	delete(g.programs, p)
	if g.current == p {
		g.current = 0
	}
	for s := range prog.attached {
		g.reap(s)
	}
}

func (g *GL) UseProgram(p uint32) {
	if p != 0 {
		prog, ok := g.programs[p]
		if !ok || !prog.linked {
			g.errorf("GL_INVALID_OPERATION: use of unlinked program %d", p)
			return
		}
	}
	g.current = p
}

func (g *GL) CurrentProgram() uint32 { return g.current }

func (g *GL) UniformLocation(p uint32, name string) int32 {
	prog, ok := g.programs[p]
	if !ok || !prog.linked {
		g.errorf("GL_INVALID_OPERATION: uniform lookup on unlinked program %d", p)
		return -1
	}
	loc, ok := prog.uniforms[name]
	if !ok {
		return -1
	}
	return loc
}

func (g *GL) setUniform(loc int32, v any) {
	if loc == -1 {
		return
	}
	prog, ok := g.programs[g.current]
	if !ok {
		g.errorf("GL_INVALID_OPERATION: uniform set without a current program")
		return
	}
	for _, l := range prog.uniforms {
		if l == loc {
			prog.values[loc] = v
			return
		}
	}
	g.errorf("GL_INVALID_OPERATION: location %d not in program %d", loc, g.current)
}

func (g *GL) Uniform1i(loc int32, v int32) { g.setUniform(loc, v) }

func (g *GL) Uniform1f(loc int32, v float32) { g.setUniform(loc, v) }

func (g *GL) GenVertexArray() uint32 {
	h := g.handle()
	g.vaos[h] = &vertexArray{attribs: map[uint32]*attrib{}}
	return h
}

func (g *GL) BindVertexArray(vao uint32) {
	if _, ok := g.vaos[vao]; !ok && vao != 0 {
		g.errorf("GL_INVALID_OPERATION: bind of unknown vertex array %d", vao)
		return
	}
	g.boundVAO = vao
}

func (g *GL) BoundVertexArray() uint32 { return g.boundVAO }

func (g *GL) DeleteVertexArray(vao uint32) {
	delete(g.vaos, vao)
	if g.boundVAO == vao {
		g.boundVAO = 0
	}
}

func (g *GL) GenBuffer() uint32 {
	h := g.handle()
	g.buffers[h] = &buffer{}
	return h
}

func (g *GL) BindBuffer(target renderconsts.BufferTarget, b uint32) {
	if _, ok := g.buffers[b]; !ok && b != 0 {
		g.errorf("GL_INVALID_OPERATION: bind of unknown buffer %d", b)
		return
	}
	switch target {
	case renderconsts.ArrayBuffer:
		g.arrayBuffer = b
	case renderconsts.ElementArrayBuffer:
		vao, ok := g.vaos[g.boundVAO]
		if !ok {
			g.errorf("GL_INVALID_OPERATION: element buffer bound without a vertex array")
			return
		}
		vao.elements = b
	}
}

func (g *GL) target(target renderconsts.BufferTarget) *buffer {
	var h uint32
	switch target {
	case renderconsts.ArrayBuffer:
		h = g.arrayBuffer
	case renderconsts.ElementArrayBuffer:
		if vao, ok := g.vaos[g.boundVAO]; ok {
			h = vao.elements
		}
	}
	b, ok := g.buffers[h]
	if !ok {
		g.errorf("GL_INVALID_OPERATION: no buffer bound to target 0x%x", uint32(target))
		return nil
	}
	return b
}

func (g *GL) BufferFloats(target renderconsts.BufferTarget, data []float32, _ renderconsts.Usage) {
	if b := g.target(target); b != nil {
		b.floats = append([]float32(nil), data...)
		b.uints = nil
		b.bytes = len(data) * 4
	}
}

func (g *GL) BufferUints(target renderconsts.BufferTarget, data []uint32, _ renderconsts.Usage) {
	if b := g.target(target); b != nil {
		b.uints = append([]uint32(nil), data...)
		b.floats = nil
		b.bytes = len(data) * 4
	}
}

func (g *GL) DeleteBuffer(b uint32) {
	delete(g.buffers, b)
	if g.arrayBuffer == b {
		g.arrayBuffer = 0
	}
}

func (g *GL) VertexAttribPointer(index uint32, size int32, xtype renderconsts.NumericType, normalized bool, stride int32, offset uintptr) {
	vao, ok := g.vaos[g.boundVAO]
	if !ok {
		g.errorf("GL_INVALID_OPERATION: attribute pointer without a vertex array")
		return
	}
	if g.arrayBuffer == 0 {
		g.errorf("GL_INVALID_OPERATION: attribute pointer without an array buffer")
		return
	}
	a := vao.attribs[index]
	if a == nil {
		a = &attrib{}
		vao.attribs[index] = a
	}
	a.set = true
	a.size = size
	a.xtype = xtype
	a.stride = stride
	a.offset = offset
	a.buffer = g.arrayBuffer
}

func (g *GL) EnableVertexAttribArray(index uint32) {
	vao, ok := g.vaos[g.boundVAO]
	if !ok {
		g.errorf("GL_INVALID_OPERATION: enable attribute without a vertex array")
		return
	}
	a := vao.attribs[index]
	if a == nil {
		a = &attrib{}
		vao.attribs[index] = a
	}
	a.enabled = true
}

// readableVertices is how many vertices every enabled attribute can fetch
// without reading past the end of its buffer.
func (g *GL) readableVertices(vao *vertexArray) int {
	n := -1
	for i, a := range vao.attribs {
		if !a.enabled {
			continue
		}
		if !a.set {
			g.errorf("attribute %d enabled without a pointer", i)
			return 0
		}
		b := g.buffers[a.buffer]
		if b == nil {
			return 0
		}
		elem := int(a.size * a.xtype.Size())
		stride := int(a.stride)
		if stride == 0 {
			stride = elem
		}
		avail := b.bytes - int(a.offset) - elem
		count := 0
		if avail >= 0 {
			count = avail/stride + 1
		}
		if n == -1 || count < n {
			n = count
		}
	}
	if n == -1 {
		return 0
	}
	return n
}

func (g *GL) drawState() (*vertexArray, bool) {
	if prog, ok := g.programs[g.current]; !ok || !prog.linked {
		g.errorf("GL_INVALID_OPERATION: draw without a linked program")
		return nil, false
	}
	vao, ok := g.vaos[g.boundVAO]
	if !ok {
		g.errorf("GL_INVALID_OPERATION: draw without a vertex array")
		return nil, false
	}
	return vao, true
}

func (g *GL) record(d Draw) {
	d.Program = g.current
	d.VAO = g.boundVAO
	d.Viewport = g.viewport
	g.Draws = append(g.Draws, d)
}

func (g *GL) DrawArrays(mode renderconsts.Primitive, first, count int32) {
	vao, ok := g.drawState()
	if !ok {
		return
	}
	if first < 0 || count < 0 || int(first+count) > g.readableVertices(vao) {
		g.errorf("out of bounds: draw of vertices [%d, %d)", first, first+count)
	}
	g.record(Draw{Mode: mode, First: first, Count: count})
}

func (g *GL) DrawElements(mode renderconsts.Primitive, count int32, xtype renderconsts.NumericType, offset uintptr) {
	vao, ok := g.drawState()
	if !ok {
		return
	}
	elements, ok := g.buffers[vao.elements]
	if !ok {
		g.errorf("GL_INVALID_OPERATION: indexed draw without an element buffer")
		return
	}
	if xtype != renderconsts.UnsignedInt {
		g.errorf("unsupported index type 0x%x", uint32(xtype))
		return
	}
	first := int(offset) / 4
	if count < 0 || first+int(count) > len(elements.uints) {
		g.errorf("out of bounds: draw of indices [%d, %d) from %d", first, first+int(count), len(elements.uints))
	} else {
		limit := g.readableVertices(vao)
		for _, idx := range elements.uints[first : first+int(count)] {
			if int(idx) >= limit {
				g.errorf("out of bounds: index %d with %d readable vertices", idx, limit)
				break
			}
		}
	}
	g.record(Draw{Mode: mode, Indexed: true, First: int32(first), Count: count})
}

func (g *GL) ClearColor(r, gr, b, a float32) {
	g.clearColour = [4]float32{r, gr, b, a}
}

func (g *GL) Clear(mask renderconsts.BufferBit) {
	g.Clears = append(g.Clears, Clear{Mask: mask, Colour: g.clearColour})
}

func (g *GL) Viewport(x, y, width, height int32) {
	if width < 0 || height < 0 {
		g.errorf("GL_INVALID_VALUE: negative viewport %dx%d", width, height)
		return
	}
	g.viewport = [4]int32{x, y, width, height}
}

// LiveShaders counts shader objects that have not been deleted.
func (g *GL) LiveShaders() int {
	n := 0
	for _, s := range g.shaders {
		if !s.deleted {
			n++
		}
	}
	return n
}

func (g *GL) LivePrograms() int { return len(g.programs) }

func (g *GL) LiveBuffers() int { return len(g.buffers) }

func (g *GL) LiveVertexArrays() int { return len(g.vaos) }

// CurrentViewport returns the last viewport set.
func (g *GL) CurrentViewport() [4]int32 { return g.viewport }

// BufferContents returns the floats and uints last uploaded into buffer b.
func (g *GL) BufferContents(b uint32) ([]float32, []uint32) {
	buf, ok := g.buffers[b]
	if !ok {
		return nil, nil
	}
	return buf.floats, buf.uints
}

// UniformValue returns the value last assigned to a uniform of a program.
func (g *GL) UniformValue(p uint32, name string) (any, bool) {
	prog, ok := g.programs[p]
	if !ok || !prog.linked {
		return nil, false
	}
	loc, ok := prog.uniforms[name]
	if !ok {
		return nil, false
	}
	v, ok := prog.values[loc]
	return v, ok
}
