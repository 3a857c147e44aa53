// Package config loads and validates the server settings.
//
// Settings come from, in increasing priority: built-in defaults, an optional
// TOML or YAML file, the environment (a .env file is honored), and finally
// command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names read by FromEnv.
const (
	EnvDir  = "LOCAL_SERVE_DIR"
	EnvHost = "LOCAL_SERVE_HOST"
	EnvPort = "LOCAL_SERVE_PORT"
)

// Default values used when nothing else is configured.
const (
	DefaultDir  = "."
	DefaultHost = "0.0.0.0"
	DefaultPort = 3000
)

var (
	// ErrNotDirectory is returned by Validate when Dir is not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrInvalidPort is returned by Validate for ports outside 1-65535.
	ErrInvalidPort = errors.New("invalid port")
)

// Config holds the server settings.
type Config struct {
	// Dir is the directory to serve. After Validate it is absolute and has
	// symlinks evaluated.
	Dir  string `toml:"dir" yaml:"dir"`
	Host string `toml:"host" yaml:"host"`
	Port int    `toml:"port" yaml:"port"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Dir:  DefaultDir,
		Host: DefaultHost,
		Port: DefaultPort,
	}
}

// LoadFile overlays the settings in path onto c. The format is chosen from
// the extension: .toml, .yaml or .yml. Keys missing from the file keep their
// current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// FromEnv overlays LOCAL_SERVE_* variables from lookup onto c. Pass
// os.LookupEnv for the process environment.
func (c *Config) FromEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDir); ok && v != "" {
		c.Dir = v
	}
	if v, ok := lookup(EnvHost); ok && v != "" {
		c.Host = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		c.Port = port
	}
	return nil
}

// Validate checks the port and canonicalizes Dir, failing if it does not
// exist or is not a directory.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}

	abs, err := filepath.Abs(c.Dir)
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", canonical, ErrNotDirectory)
	}

	c.Dir = canonical
	return nil
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
