// Package config layers tool settings: built-in defaults, then a TOML file,
// then a .env file, then BPWF_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mattn/go-shellwords"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/df07/go-bpwf/pkg/api"
	"github.com/df07/go-bpwf/pkg/blender"
	"github.com/df07/go-bpwf/pkg/logger"
	"github.com/df07/go-bpwf/pkg/scene"
)

// EnvPrefix prefixes every environment variable, e.g. BPWF_BLENDER_EXECUTABLE
const EnvPrefix = "BPWF"

// DefaultPath is the config file read when none is named
const DefaultPath = "~/.config/bpwf/config.toml"

const darwinExecutable = "/Applications/Blender.app/Contents/MacOS/Blender"

// Config is the complete tool configuration
type Config struct {
	Blender     BlenderConfig `toml:"blender" envconfig:"BLENDER"`
	Render      RenderConfig  `toml:"render" envconfig:"RENDER"`
	ScenesDir   string        `toml:"scenes_dir" envconfig:"SCENES_DIR"`
	Concurrency int           `toml:"concurrency" envconfig:"CONCURRENCY"`
	Log         logger.Config `toml:"log" envconfig:"LOG"`
}

// BlenderConfig locates and starts the host
type BlenderConfig struct {
	Executable string `toml:"executable" envconfig:"EXECUTABLE"`
	// Args is one shell-quoted string of extra host arguments
	Args string `toml:"args" envconfig:"ARGS"`
	// Dir is the host's working directory
	Dir string `toml:"dir" envconfig:"DIR"`
	// Version pins the API dialect instead of asking the host
	Version string `toml:"version" envconfig:"VERSION"`
}

// RenderConfig holds defaults for scenes that do not set their own
type RenderConfig struct {
	OutputDir   string `toml:"output_dir" envconfig:"OUTPUT_DIR"`
	Samples     int    `toml:"samples" envconfig:"SAMPLES"`
	ResolutionX int    `toml:"resolution_x" envconfig:"RESOLUTION_X"`
	ResolutionY int    `toml:"resolution_y" envconfig:"RESOLUTION_Y"`
	Draft       bool   `toml:"draft" envconfig:"DRAFT"`
}

// Default returns the built-in configuration
func Default() *Config {
	exe := blender.DefaultExecutable
	if runtime.GOOS == "darwin" {
		exe = darwinExecutable
	}
	ro := scene.DefaultRenderOptions()
	return &Config{
		Blender: BlenderConfig{Executable: exe},
		Render: RenderConfig{
			OutputDir:   ".",
			Samples:     ro.Samples,
			ResolutionX: ro.ResolutionX,
			ResolutionY: ro.ResolutionY,
		},
		ScenesDir:   "scenes",
		Concurrency: 1,
		Log:         logger.DefaultConfig(),
	}
}

// Load builds the configuration. path names a TOML file; when it is empty
// DefaultPath is tried and may be missing. envFile names a dotenv file and
// may be missing; its variables never override the real environment.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultPath
	}
	if err := cfg.loadFile(path, optional); err != nil {
		return nil, err
	}

	if envFile != "" {
		expanded, err := homedir.Expand(envFile)
		if err != nil {
			return nil, fmt.Errorf("failed to expand env file path: %w", err)
		}
		if err := godotenv.Load(expanded); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading env file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string, optional bool) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("failed to expand config path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", expanded, err)
	}
	return nil
}

func (c *Config) normalize() error {
	for _, p := range []*string{&c.Blender.Executable, &c.Blender.Dir, &c.Render.OutputDir, &c.ScenesDir} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate rejects settings no run could use
func (c *Config) Validate() error {
	if c.Blender.Executable == "" {
		return fmt.Errorf("blender executable cannot be empty")
	}
	if _, err := c.BlenderArgs(); err != nil {
		return err
	}
	if c.Blender.Version != "" {
		if _, err := api.Parse(c.Blender.Version); err != nil {
			return err
		}
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative, got %d", c.Concurrency)
	}
	if c.Render.Samples <= 0 {
		return fmt.Errorf("render samples must be positive, got %d", c.Render.Samples)
	}
	if c.Render.ResolutionX <= 0 || c.Render.ResolutionY <= 0 {
		return fmt.Errorf("invalid render resolution %dx%d", c.Render.ResolutionX, c.Render.ResolutionY)
	}
	return nil
}

// BlenderArgs splits the extra host arguments like a shell would
func (c *Config) BlenderArgs() ([]string, error) {
	args, err := shellwords.Parse(c.Blender.Args)
	if err != nil {
		return nil, fmt.Errorf("invalid blender args %q: %w", c.Blender.Args, err)
	}
	return args, nil
}

// Runner returns a host runner for the configured executable
func (c *Config) Runner() (*blender.Runner, error) {
	args, err := c.BlenderArgs()
	if err != nil {
		return nil, err
	}
	r := blender.NewRunner(c.Blender.Executable, args...)
	r.Dir = c.Blender.Dir
	return r, nil
}

// PinnedDialect returns the dialect of the pinned version, if any
func (c *Config) PinnedDialect() (api.Dialect, bool, error) {
	if c.Blender.Version == "" {
		return api.Dialect{}, false, nil
	}
	d, err := api.Parse(c.Blender.Version)
	return d, err == nil, err
}

// RenderOptions returns the default render options with the configured
// samples, resolution and draft mode
func (c *Config) RenderOptions() scene.RenderOptions {
	ro := scene.DefaultRenderOptions()
	ro.Samples = c.Render.Samples
	ro.ResolutionX = c.Render.ResolutionX
	ro.ResolutionY = c.Render.ResolutionY
	ro.Draft = c.Render.Draft
	return ro
}
