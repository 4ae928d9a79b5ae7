package renderconsts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrimitive(t *testing.T) {
	p, err := ParsePrimitive("triangles")
	require.NoError(t, err)
	assert.Equal(t, Triangles, p)
	assert.Equal(t, "triangles", p.String())

	_, err = ParsePrimitive("quads")
	assert.Error(t, err)
}

func TestNumericTypeSize(t *testing.T) {
	ft, err := ParseNumericType("float")
	require.NoError(t, err)
	assert.Equal(t, int32(4), ft.Size())
	assert.Equal(t, int32(2), UnsignedShort.Size())
	assert.Equal(t, int32(1), Byte.Size())
	assert.Equal(t, int32(0), NumericType(0).Size())
}

func TestShaderStageString(t *testing.T) {
	assert.Equal(t, "vertex", VertexShader.String())
	assert.Equal(t, "fragment", FragmentShader.String())
}
