// Package config resolves runtime settings: built-in defaults, then an
// optional YAML file, then GANTTKIT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath     string       `yaml:"db_path"`
	FixtureDir string       `yaml:"fixture_dir"`
	Server     ServerConfig `yaml:"server"`
	Watch      WatchConfig  `yaml:"watch"`
	Log        LogConfig    `yaml:"log"`
	Large      LargeConfig  `yaml:"large"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// LargeConfig sizes the generated gantt-large fixture.
type LargeConfig struct {
	Seed      int64 `yaml:"seed"`
	Campaigns int   `yaml:"campaigns"`
}

// Default returns the settings used when nothing is configured. Paths live
// under home/.ganttkit.
func Default(home string) Config {
	base := filepath.Join(home, ".ganttkit")
	return Config{
		DBPath: filepath.Join(base, "ganttkit.db"),
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Watch: WatchConfig{Debounce: 200 * time.Millisecond},
		Log:   LogConfig{Level: "info", Format: "text"},
		Large: LargeConfig{Seed: 2024, Campaigns: 40},
	}
}

// DefaultPath is the config file read when GANTTKIT_CONFIG is unset.
func DefaultPath(home string) string {
	return filepath.Join(home, ".ganttkit", "config.yaml")
}

// Load resolves the configuration. An explicit path that does not exist is
// an error; a missing default file is not.
func Load(path string) (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	cfg := Default(home)

	explicit := path != ""
	if !explicit {
		if v := os.Getenv("GANTTKIT_CONFIG"); v != "" {
			path, explicit = v, true
		} else {
			path = DefaultPath(home)
		}
	}

	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GANTTKIT_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("GANTTKIT_FIXTURES"); v != "" {
		c.FixtureDir = v
	}
	if v := os.Getenv("GANTTKIT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("GANTTKIT_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Watch.Enabled = b
		}
	}
	if v := os.Getenv("GANTTKIT_WATCH_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Watch.Debounce = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("GANTTKIT_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("GANTTKIT_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("GANTTKIT_LARGE_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Large.Seed = n
		}
	}
	if v := os.Getenv("GANTTKIT_LARGE_CAMPAIGNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Large.Campaigns = n
		}
	}
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Large.Campaigns < 1 {
		errs = append(errs, fmt.Errorf("large.campaigns must be at least 1, got %d", c.Large.Campaigns))
	}
	return errors.Join(errs...)
}

func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Logger builds the process logger writing to w.
func (c Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
