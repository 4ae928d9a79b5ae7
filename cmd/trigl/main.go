package main

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/fosdem/trigl/lib/app"
	"github.com/fosdem/trigl/lib/config"
	"github.com/fosdem/trigl/lib/log"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) > 2 {
		slog.Error("usage: " + os.Args[0] + " [config file]")
		os.Exit(2)
	}

	cfg := config.Default()
	if len(os.Args) == 2 {
		var err error
		cfg, err = config.Parse(os.Args[1])
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
	}

	if err := log.Setup(cfg.LogLevel); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	if err := app.MakeWindowAndRender(cfg); err != nil {
		slog.Error(err.Error(), "module", "main")
		os.Exit(1)
	}
}
