// Package config loads levelup's optional YAML config file and applies
// environment overrides on top of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/levelup/internal/logging"
)

const (
	EnvDB       = "LEVELUP_DB"
	EnvLogLevel = "LEVELUP_LOG_LEVEL"
	EnvConfig   = "LEVELUP_CONFIG"
)

type Config struct {
	DBPath    string `yaml:"db_path"`
	LogLevel  string `yaml:"log_level"`
	LogPath   string `yaml:"log_path"`
	ExportDir string `yaml:"export_dir"`
}

// Dir returns the levelup directory under the user config dir.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "levelup"), nil
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) Config {
	return Config{
		DBPath:    filepath.Join(dir, "levelup.db"),
		LogLevel:  "info",
		LogPath:   filepath.Join(dir, "levelup.log"),
		ExportDir: ".",
	}
}

// Path returns the config file location, honouring LEVELUP_CONFIG.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file if it exists, then applies environment overrides.
// A missing file is not an error.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	path, err := Path()
	if err != nil {
		return Config{}, fmt.Errorf("resolve config path: %w", err)
	}
	return LoadFile(path, Default(dir))
}

// LoadFile merges the YAML file at path over base. Empty keys keep base values.
func LoadFile(path string, base Config) (Config, error) {
	cfg := base
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		var file Config
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.merge(file)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if o.DBPath != "" {
		c.DBPath = expandHome(o.DBPath)
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogPath != "" {
		c.LogPath = expandHome(o.LogPath)
	}
	if o.ExportDir != "" {
		c.ExportDir = expandHome(o.ExportDir)
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = expandHome(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c Config) Validate() error {
	if _, ok := logging.LookupLevel(c.LogLevel); !ok {
		return fmt.Errorf("invalid log_level %q: want debug, info, warn or error", c.LogLevel)
	}
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	return nil
}

// Save writes c as YAML to path, creating parent directories.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
