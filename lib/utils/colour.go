package utils

import (
	"fmt"
	"regexp"

	"github.com/go-gl/mathgl/mgl32"
	yaml "github.com/goccy/go-yaml"
)

var colourRe = regexp.MustCompile(`^#[0-9A-Fa-f]{8}$`)

// Colour is a straight RGBA colour with components in [0, 1].
type Colour struct {
	R, G, B, A float32
}

func ColourValidate(c string) bool {
	return colourRe.MatchString(c)
}

func ColourParse(s string) (c Colour) {
	var r, g, b, a uint8
	fmt.Sscanf(s, "#%02x%02x%02x%02x", &r, &g, &b, &a)
	return Colour{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

func (c Colour) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

func (c Colour) Validate() error {
	for i, v := range c.Vec4() {
		if v < 0 || v > 1 {
			return fmt.Errorf("colour component %d is %g, outside [0, 1]", i, v)
		}
	}
	return nil
}

// UnmarshalYAML accepts either "#rrggbbaa" or a list of four floats.
func (c *Colour) UnmarshalYAML(b []byte) error {
	var raw any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		if !ColourValidate(v) {
			return fmt.Errorf("%s is not a valid RGBA hex colour", v)
		}
		*c = ColourParse(v)
		return nil
	case []any:
		if len(v) != 4 {
			return fmt.Errorf("colour needs 4 components, got %d", len(v))
		}
		var f [4]float32
		for i, x := range v {
			n, ok := number(x)
			if !ok {
				return fmt.Errorf("colour component %d (%v) is not a number", i, x)
			}
			f[i] = n
		}
		*c = Colour{R: f[0], G: f[1], B: f[2], A: f[3]}
		return nil
	default:
		return fmt.Errorf("colour must be \"#rrggbbaa\" or [r, g, b, a]")
	}
}

func number(x any) (float32, bool) {
	switch n := x.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	case uint64:
		return float32(n), true
	default:
		return 0, false
	}
}

func (c Colour) String() string {
	return fmt.Sprintf("[%g, %g, %g, %g]", c.R, c.G, c.B, c.A)
}
