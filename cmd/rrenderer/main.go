package main

import (
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/rrenderer/rrenderer/internal/config"
	"github.com/rrenderer/rrenderer/internal/errs"
	"github.com/rrenderer/rrenderer/internal/geom"
	"github.com/rrenderer/rrenderer/internal/gfx"
	"github.com/rrenderer/rrenderer/internal/logging"
	"github.com/rrenderer/rrenderer/internal/renderer"
	"github.com/rrenderer/rrenderer/internal/window"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const instanceCount = 4

func init() {
	// SDL and the Vulkan queue calls must stay on the main thread.
	runtime.LockOSThread()
}

type application struct {
	cfg config.Config
	log *logrus.Logger

	window   *window.Window
	renderer *renderer.Renderer
}

func (app *application) Run() error {
	win, err := window.New(app.cfg.Window.Title, app.cfg.Window.Width, app.cfg.Window.Height, app.log)
	if err != nil {
		return err
	}
	app.window = win
	defer app.window.Destroy()

	mesh, err := loadMesh(app.cfg.Mesh)
	if err != nil {
		return err
	}

	app.renderer, err = renderer.New(app.window, renderer.Options{
		ApplicationName: app.cfg.Window.Title,
		Validation:      app.cfg.Validation,
		Shaders: gfx.ShaderPaths{
			Vertex:   app.cfg.Shaders.Vertex,
			Fragment: app.cfg.Shaders.Fragment,
		},
		ClearColor: app.cfg.ClearColor,
		Mesh:       mesh,
		Instances:  instanceCount,
	}, app.log)
	if err != nil {
		return err
	}

	loopErr := app.mainLoop()
	if err := app.renderer.Shutdown(); err != nil && loopErr == nil {
		return err
	}
	return loopErr
}

func (app *application) mainLoop() error {
	for !app.window.ShouldClose() {
		app.window.PollEvents()
		if err := app.renderer.Render(); err != nil {
			return err
		}
	}
	return nil
}

func loadMesh(path string) (geom.MeshData, error) {
	if path == "" {
		return geom.Triangle(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return geom.MeshData{}, errs.File(path, err)
	}
	defer f.Close()

	mesh, err := geom.LoadOBJ(f)
	if err != nil {
		return geom.MeshData{}, errors.Wrapf(err, "mesh %s", path)
	}
	return mesh, nil
}

func loadConfig(args []string) (config.Config, error) {
	flags := config.NewFlags("rrenderer")
	if err := flags.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return cfg, err
	}
	flags.Apply(&cfg)

	return cfg, cfg.Validate()
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		logrus.Fatalf("%+v", err)
	}

	logger, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		logrus.Fatalf("%+v", err)
	}

	app := &application{cfg: cfg, log: logger}
	if err := app.Run(); err != nil {
		logger.Fatalf("%+v", err)
	}
}
