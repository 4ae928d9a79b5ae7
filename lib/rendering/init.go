package rendering

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v3.3-core/gl"
)

var ErrLoaderInit = errors.New("could not initialise OpenGL function loader")

// Init loads the GL entry points for the context current on this thread.
func Init() (Core, error) {
	err := gl.Init()
	if err != nil {
		return Core{}, fmt.Errorf("%w: %w", ErrLoaderInit, err)
	}

	vendor := gl.GoStr(gl.GetString(gl.VENDOR))
	renderer := gl.GoStr(gl.GetString(gl.RENDERER))
	version := gl.GoStr(gl.GetString(gl.VERSION))
	slog.Info(fmt.Sprintf("OpenGL version %s / %s / %s", vendor, renderer, version), "module", "rendering")

	return Core{}, nil
}
