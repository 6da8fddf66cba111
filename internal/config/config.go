package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures farmer's runtime settings.
type Config struct {
	RuntimeSocket string        `env:"RUNTIME_SOCKET"`
	SteamPIDFile  string        `env:"STEAM_PID_FILE"`
	AppIDFile     string        `env:"APPID_FILE"`
	PollInterval  time.Duration `env:"POLL_INTERVAL"`
	LogFile       string        `env:"LOG_FILE"`
	LogLevel      string        `env:"LOG_LEVEL"`
	MetricsFile   string        `env:"METRICS_FILE"`
}

const (
	defaultConfigPath    = "~/.config/farmer/config.toml"
	defaultRuntimeSocket = "~/.local/share/farmer/steamworks.sock"
	defaultSteamPIDFile  = "~/.steam/steam.pid"
	defaultAppIDFile     = "steam_appid.txt"
	defaultPollInterval  = 5 * time.Second
	defaultLogFile       = "~/.local/share/farmer/farmer.log"
	defaultLogLevel      = "info"

	envPrefix = "FARMER_"
)

// Defaults returns the built-in settings with paths unexpanded.
func Defaults() Config {
	return Config{
		RuntimeSocket: defaultRuntimeSocket,
		SteamPIDFile:  defaultSteamPIDFile,
		AppIDFile:     defaultAppIDFile,
		PollInterval:  defaultPollInterval,
		LogFile:       defaultLogFile,
		LogLevel:      defaultLogLevel,
	}
}

// Load layers defaults, the TOML file at path (default location when empty)
// and FARMER_* environment variables, then expands paths. A missing file is
// not an error.
func Load(path string) (Config, error) {
	return newBuilder().
		withFile(path).
		withEnv().
		build()
}

// Override returns c with every non-zero field of o applied on top.
func (c Config) Override(o Config) (Config, error) {
	if err := mergo.Merge(&c, o, mergo.WithOverride); err != nil {
		return Config{}, fmt.Errorf("merge overrides: %w", err)
	}
	c.expand()
	return c, c.validate()
}

type builder struct {
	layers []Config
	err    error
}

func newBuilder() *builder {
	return &builder{layers: []Config{Defaults()}}
}

func (b *builder) withFile(path string) *builder {
	cfg, err := parseFile(path)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.layers = append(b.layers, cfg)
	return b
}

func (b *builder) withEnv() *builder {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("parse environment: %w", err))
		return b
	}
	b.layers = append(b.layers, cfg)
	return b
}

func (b *builder) build() (Config, error) {
	if b.err != nil {
		return Config{}, b.err
	}
	var cfg Config
	for _, layer := range b.layers {
		if err := mergo.Merge(&cfg, layer, mergo.WithOverride); err != nil {
			return Config{}, fmt.Errorf("merge config: %w", err)
		}
	}
	cfg.expand()
	return cfg, cfg.validate()
}

func parseFile(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		RuntimeSocket string `toml:"runtime_socket"`
		SteamPIDFile  string `toml:"steam_pid_file"`
		AppIDFile     string `toml:"appid_file"`
		PollInterval  string `toml:"poll_interval"`
		LogFile       string `toml:"log_file"`
		LogLevel      string `toml:"log_level"`
		MetricsFile   string `toml:"metrics_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Config{
		RuntimeSocket: strings.TrimSpace(raw.RuntimeSocket),
		SteamPIDFile:  strings.TrimSpace(raw.SteamPIDFile),
		AppIDFile:     strings.TrimSpace(raw.AppIDFile),
		LogFile:       strings.TrimSpace(raw.LogFile),
		LogLevel:      strings.TrimSpace(raw.LogLevel),
		MetricsFile:   strings.TrimSpace(raw.MetricsFile),
	}
	if interval := strings.TrimSpace(raw.PollInterval); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}
	return cfg, nil
}

func (c *Config) expand() {
	c.RuntimeSocket = mustExpand(c.RuntimeSocket)
	c.SteamPIDFile = mustExpand(c.SteamPIDFile)
	c.LogFile = mustExpand(c.LogFile)
	c.MetricsFile = mustExpand(c.MetricsFile)
	if strings.HasPrefix(c.AppIDFile, "~") {
		c.AppIDFile = mustExpand(c.AppIDFile)
	}
}

func (c Config) validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPollInterval, c.PollInterval)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	if strings.TrimSpace(path) == "" {
		return path
	}
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
