package geometry

import (
	"errors"
	"fmt"

	"github.com/fosdem/trigl/lib/rendering/renderconsts"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrInvalidAttributeLayout = errors.New("invalid vertex attribute layout")

// Attribute describes how one shader input is fetched from the vertex
// buffer. Stride and Offset are in bytes.
type Attribute struct {
	Index      uint32
	Components int32
	Type       renderconsts.NumericType
	Normalized bool
	Stride     int32
	Offset     uintptr
}

func (a Attribute) size() int32 {
	return a.Components * a.Type.Size()
}

func layoutErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidAttributeLayout, fmt.Sprintf(format, args...))
}

// ValidateLayout checks that every attribute fits inside its stride and that
// every index names a vertex all attributes can fetch. Attributes may use
// different strides over the same data. It returns the number of vertices
// readable by every attribute.
func ValidateLayout(vertices []float32, indices []uint32, attrs []Attribute) (int32, error) {
	if len(vertices) == 0 {
		return 0, layoutErrorf("no vertex data")
	}
	if len(attrs) == 0 {
		return 0, layoutErrorf("no attributes")
	}

	bytes := int64(len(vertices) * 4)
	count := int64(-1)
	seen := map[uint32]bool{}
	for _, a := range attrs {
		if seen[a.Index] {
			return 0, layoutErrorf("attribute slot %d declared twice", a.Index)
		}
		seen[a.Index] = true

		if a.Components < 1 || a.Components > 4 {
			return 0, layoutErrorf("attribute %d has %d components", a.Index, a.Components)
		}
		if a.Type.Size() == 0 {
			return 0, layoutErrorf("attribute %d has unknown type 0x%x", a.Index, uint32(a.Type))
		}
		if a.Stride <= 0 {
			return 0, layoutErrorf("attribute %d has stride %d", a.Index, a.Stride)
		}
		if int64(a.Offset)+int64(a.size()) > int64(a.Stride) {
			return 0, layoutErrorf("attribute %d at offset %d with %d bytes overruns stride %d", a.Index, a.Offset, a.size(), a.Stride)
		}

		n := int64(0)
		if avail := bytes - int64(a.Offset) - int64(a.size()); avail >= 0 {
			n = avail/int64(a.Stride) + 1
		}
		if count == -1 || n < count {
			count = n
		}
	}
	if count == 0 {
		return 0, layoutErrorf("%d bytes of vertex data hold no complete vertex", bytes)
	}

	for i, idx := range indices {
		if int64(idx) >= count {
			return 0, layoutErrorf("index %d at position %d is beyond the %d vertices", idx, i, count)
		}
	}
	return int32(count), nil
}

// PositionColourLayout is the layout of vertices written by Interleave: a
// vec3 position in slot 0 followed by a vec3 colour in slot 1.
func PositionColourLayout() []Attribute {
	stride := int32(6 * 4)
	return []Attribute{
		{Index: 0, Components: 3, Type: renderconsts.Float, Stride: stride, Offset: 0},
		{Index: 1, Components: 3, Type: renderconsts.Float, Stride: stride, Offset: 3 * 4},
	}
}

// Interleave packs positions[i] and colours[i] next to each other.
func Interleave(positions, colours []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(positions)*6)
	for i, p := range positions {
		var c mgl32.Vec3
		if i < len(colours) {
			c = colours[i]
		}
		out = append(out, p[:]...)
		out = append(out, c[:]...)
	}
	return out
}
