package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines client and server configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Upload    UploadConfig    `yaml:"upload"`
	Loader    LoaderConfig    `yaml:"loader"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Server    ServerConfig    `yaml:"server"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type UploadConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	MaxTickStep  float64       `yaml:"max_tick_step"`
	MaxFileSize  int64         `yaml:"max_file_size"`
	MaskFailures bool          `yaml:"mask_failures"`
}

type LoaderConfig struct {
	FallbackEnabled bool `yaml:"fallback_enabled"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: 30 * time.Second,
		},
		Upload: UploadConfig{
			TickInterval: 200 * time.Millisecond,
			MaxTickStep:  30,
			MaxFileSize:  500 * 1024 * 1024,
			MaskFailures: true,
		},
		Loader: LoaderConfig{
			FallbackEnabled: true,
		},
		DB: DBConfig{
			Path: "sentry.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	return LoadFile(os.Getenv("SENTRY_CONFIG_PATH"))
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q: want stdio or http", c.Transport.Mode)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid api timeout %s", c.API.Timeout)
	}
	if c.Upload.TickInterval <= 0 {
		return fmt.Errorf("invalid upload tick interval %s", c.Upload.TickInterval)
	}
	if c.Upload.MaxTickStep <= 0 || c.Upload.MaxTickStep > 100 {
		return fmt.Errorf("invalid upload max tick step %v", c.Upload.MaxTickStep)
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("invalid upload max file size %d", c.Upload.MaxFileSize)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("SENTRY_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("SENTRY_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SENTRY_API_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = d
	}
	if v := os.Getenv("SENTRY_DB_PATH"); v != "" {
		cfg.DB.Path = v
	}
	if v := os.Getenv("SENTRY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("SENTRY_TRANSPORT_MODE"); v != "" {
		cfg.Transport.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("SENTRY_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SENTRY_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SENTRY_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("SENTRY_FALLBACK_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SENTRY_FALLBACK_ENABLED: %w", err)
		}
		cfg.Loader.FallbackEnabled = b
	}
	if v := os.Getenv("SENTRY_MASK_UPLOAD_FAILURES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SENTRY_MASK_UPLOAD_FAILURES: %w", err)
		}
		cfg.Upload.MaskFailures = b
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
