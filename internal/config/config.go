// Package config loads the renderer settings from a TOML file and the command
// line.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// Window describes the application window.
type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// Shaders describes where the compiled SPIR-V stages live on disk.
type Shaders struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
}

type Config struct {
	Window     Window     `toml:"window"`
	Shaders    Shaders    `toml:"shaders"`
	Validation bool       `toml:"validation"`
	ClearColor [4]float32 `toml:"clear_color"`
	// Mesh is an optional OBJ file drawn instead of the built-in triangle.
	Mesh     string `toml:"mesh"`
	LogLevel string `toml:"log_level"`
}

func Defaults() Config {
	return Config{
		Window: Window{
			Width:  700,
			Height: 700,
			Title:  "rrenderer",
		},
		Shaders: Shaders{
			Vertex:   "shaders/simple_shader.vert.spv",
			Fragment: "shaders/simple_shader.frag.spv",
		},
		ClearColor: [4]float32{0, 0, 0, 1},
		LogLevel:   "info",
	}
}

// Load reads path on top of Defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(err, "config: decode %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.Newf("config: unknown key %s in %s", undecoded[0], path)
	}

	return cfg, nil
}

// Flags holds the command line overrides. Values only apply when the flag was
// set explicitly.
type Flags struct {
	set *pflag.FlagSet

	ConfigPath string
	Validation bool
	LogLevel   string
	Mesh       string
}

func NewFlags(name string) *Flags {
	f := &Flags{set: pflag.NewFlagSet(name, pflag.ContinueOnError)}
	f.set.StringVarP(&f.ConfigPath, "config", "c", "", "path to a TOML configuration file")
	f.set.BoolVar(&f.Validation, "validation", false, "enable Vulkan validation layers")
	f.set.StringVar(&f.LogLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	f.set.StringVar(&f.Mesh, "mesh", "", "OBJ mesh to draw instead of the built-in triangle")
	return f
}

func (f *Flags) Parse(args []string) error {
	return f.set.Parse(args)
}

// Apply copies explicitly set flags onto cfg.
func (f *Flags) Apply(cfg *Config) {
	if f.set.Changed("validation") {
		cfg.Validation = f.Validation
	}
	if f.set.Changed("log-level") {
		cfg.LogLevel = f.LogLevel
	}
	if f.set.Changed("mesh") {
		cfg.Mesh = f.Mesh
	}
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Newf("config: window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Shaders.Vertex == "" || c.Shaders.Fragment == "" {
		return errors.New("config: both shader paths are required")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "config: log_level")
	}
	return nil
}
