package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rrenderer.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 700, cfg.Window.Width)
	assert.Equal(t, 700, cfg.Window.Height)
	assert.False(t, cfg.Validation)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, cfg.ClearColor)
	require.NoError(t, cfg.Validate())
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
validation = true
log_level = "debug"
clear_color = [0.1, 0.2, 0.3, 1.0]

[window]
width = 1024
height = 768

[shaders]
vertex = "build/v.spv"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Validation)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, 768, cfg.Window.Height)
	assert.Equal(t, "rrenderer", cfg.Window.Title)
	assert.Equal(t, "build/v.spv", cfg.Shaders.Vertex)
	assert.Equal(t, Defaults().Shaders.Fragment, cfg.Shaders.Fragment)
	assert.InDelta(t, 0.2, cfg.ClearColor[1], 1e-6)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "vsync = true\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vsync")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"missing vertex shader", func(c *Config) { c.Shaders.Vertex = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestFlagsApplyOnlyChanged(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "warn"

	flags := NewFlags("test")
	require.NoError(t, flags.Parse([]string{"--validation", "--config", "x.toml"}))
	flags.Apply(&cfg)

	assert.True(t, cfg.Validation)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "x.toml", flags.ConfigPath)
	assert.Empty(t, cfg.Mesh)
}
