package scriptgate

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	RunnerPython = "python"
	RunnerUV     = "uv"
)

// Config holds everything needed to build a Server.
type Config struct {
	Addr        string   `yaml:"addr"`
	StaticDir   string   `yaml:"static_dir"`
	ScriptDirs  []string `yaml:"script_dirs"`
	Interpreter string   `yaml:"interpreter"`
	Runner      string   `yaml:"runner"`
	Allow       []string `yaml:"allow"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:       "0.0.0.0:10000",
		StaticDir:  "static",
		ScriptDirs: []string{"."},
		Runner:     RunnerPython,
		Allow:      []string{"script.py"},
	}
}

// LoadConfig starts from the defaults, overlays the YAML file at path when
// path is not empty, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SCRIPTGATE_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("SCRIPTGATE_STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
	if v := os.Getenv("SCRIPTGATE_SCRIPT_DIRS"); v != "" {
		c.ScriptDirs = filepath.SplitList(v)
	}
	if v := os.Getenv("SCRIPTGATE_RUNNER"); v != "" {
		c.Runner = v
	}
	// set but empty means deny everything
	if v, ok := os.LookupEnv("SCRIPTGATE_ALLOW"); ok {
		c.Allow = splitList(v)
	}
}

// Validate checks the configuration for values the server cannot use.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is empty")
	}
	if c.StaticDir == "" {
		return fmt.Errorf("static dir is empty")
	}
	switch c.Runner {
	case RunnerPython, RunnerUV:
	default:
		return fmt.Errorf("unknown runner %q, expected %q or %q", c.Runner, RunnerPython, RunnerUV)
	}
	return nil
}

// NewRunner builds the Runner selected by the configuration.
// For the uv runner this locates uv, installing it if needed, once.
func (c *Config) NewRunner() (Runner, error) {
	if c.Runner == RunnerUV {
		uv, err := EnsureUVInstalled()
		if err != nil {
			return nil, fmt.Errorf("failed to ensure uv is installed: %w", err)
		}
		r := NewUVRunner(c.ScriptDirs...)
		r.Command = uv
		return r, nil
	}
	return NewInterpreterRunner(c.Interpreter, c.ScriptDirs...), nil
}

// NewServer validates the configuration and builds a Server from it.
func (c *Config) NewServer() (*Server, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	runner, err := c.NewRunner()
	if err != nil {
		return nil, err
	}
	return NewServer(NewAllowList(c.Allow...), runner, c.StaticDir), nil
}
