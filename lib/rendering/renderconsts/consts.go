package renderconsts

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
)

type ShaderStage uint32

const (
	VertexShader   ShaderStage = gl.VERTEX_SHADER
	FragmentShader ShaderStage = gl.FRAGMENT_SHADER
)

func (s ShaderStage) String() string {
	switch s {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	default:
		return fmt.Sprintf("stage(0x%x)", uint32(s))
	}
}

type Primitive uint32

const (
	Points        Primitive = gl.POINTS
	Lines         Primitive = gl.LINES
	LineStrip     Primitive = gl.LINE_STRIP
	Triangles     Primitive = gl.TRIANGLES
	TriangleStrip Primitive = gl.TRIANGLE_STRIP
	TriangleFan   Primitive = gl.TRIANGLE_FAN
)

var primitiveNames = map[string]Primitive{
	"points":         Points,
	"lines":          Lines,
	"line_strip":     LineStrip,
	"triangles":      Triangles,
	"triangle_strip": TriangleStrip,
	"triangle_fan":   TriangleFan,
}

func ParsePrimitive(s string) (Primitive, error) {
	p, ok := primitiveNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown primitive %q", s)
	}
	return p, nil
}

func (p Primitive) String() string {
	for k, v := range primitiveNames {
		if v == p {
			return k
		}
	}
	return fmt.Sprintf("primitive(0x%x)", uint32(p))
}

type NumericType uint32

const (
	Float         NumericType = gl.FLOAT
	Int           NumericType = gl.INT
	UnsignedInt   NumericType = gl.UNSIGNED_INT
	Short         NumericType = gl.SHORT
	UnsignedShort NumericType = gl.UNSIGNED_SHORT
	Byte          NumericType = gl.BYTE
	UnsignedByte  NumericType = gl.UNSIGNED_BYTE
)

var numericTypeNames = map[string]NumericType{
	"float":          Float,
	"int":            Int,
	"unsigned_int":   UnsignedInt,
	"short":          Short,
	"unsigned_short": UnsignedShort,
	"byte":           Byte,
	"unsigned_byte":  UnsignedByte,
}

func ParseNumericType(s string) (NumericType, error) {
	t, ok := numericTypeNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown numeric type %q", s)
	}
	return t, nil
}

// Size returns the size in bytes of one component, or 0 for unknown types.
func (t NumericType) Size() int32 {
	switch t {
	case Float, Int, UnsignedInt:
		return 4
	case Short, UnsignedShort:
		return 2
	case Byte, UnsignedByte:
		return 1
	default:
		return 0
	}
}

type BufferTarget uint32

const (
	ArrayBuffer        BufferTarget = gl.ARRAY_BUFFER
	ElementArrayBuffer BufferTarget = gl.ELEMENT_ARRAY_BUFFER
)

type Usage uint32

const (
	StaticDraw  Usage = gl.STATIC_DRAW
	DynamicDraw Usage = gl.DYNAMIC_DRAW
)

type BufferBit uint32

const (
	ColorBufferBit BufferBit = gl.COLOR_BUFFER_BIT
	DepthBufferBit BufferBit = gl.DEPTH_BUFFER_BIT
)
