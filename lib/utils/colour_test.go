package utils

import (
	"testing"

	yaml "github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColourParse(t *testing.T) {
	assert.True(t, ColourValidate("#ff0000ff"))
	assert.False(t, ColourValidate("#ff0000"))
	assert.False(t, ColourValidate("ff0000ff"))

	c := ColourParse("#ff000080")
	assert.Equal(t, float32(1), c.R)
	assert.Equal(t, float32(0), c.G)
	assert.InDelta(t, 0.5, c.A, 0.01)
}

func TestColourYAML(t *testing.T) {
	var v struct {
		Clear Colour `yaml:"clear"`
	}

	require.NoError(t, yaml.Unmarshal([]byte("clear: [0.3, 0.2, 0.3, 1.0]\n"), &v))
	assert.Equal(t, Colour{R: 0.3, G: 0.2, B: 0.3, A: 1}, v.Clear)

	require.NoError(t, yaml.Unmarshal([]byte("clear: \"#00ff00ff\"\n"), &v))
	assert.Equal(t, Colour{G: 1, A: 1}, v.Clear)

	assert.Error(t, yaml.Unmarshal([]byte("clear: [1, 2]\n"), &v))
	assert.Error(t, yaml.Unmarshal([]byte("clear: \"red\"\n"), &v))
}

func TestColourValidate(t *testing.T) {
	assert.NoError(t, Colour{R: 0.3, G: 0.2, B: 0.3, A: 1}.Validate())
	assert.Error(t, Colour{R: 2}.Validate())
}
