package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lrtraviteja/contact-book-app/pkg/storage"
)

type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Client  ClientConfig  `json:"client" yaml:"client"`
}

type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

type StorageConfig struct {
	Type               string `json:"type" yaml:"type"`
	FilePath           string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	DatabaseURL        string `json:"database_url,omitempty" yaml:"database_url,omitempty"`
	SSLEnabled         bool   `json:"ssl_enabled" yaml:"ssl_enabled"`
	MaxIdleConns       int    `json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty"`
	MaxOpenConns       int    `json:"max_open_conns,omitempty" yaml:"max_open_conns,omitempty"`
	MaxLifetimeSeconds int    `json:"max_lifetime_seconds,omitempty" yaml:"max_lifetime_seconds,omitempty"`
}

type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
	JSON  bool   `json:"json" yaml:"json"`
}

// ClientConfig configures the CLI and TUI when they talk to a running server.
type ClientConfig struct {
	BaseURL        string `json:"base_url" yaml:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	PageSize       int    `json:"page_size" yaml:"page_size"`
}

func DefaultDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".contactbook")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 3000,
		},
		Storage: StorageConfig{
			Type:               "sqlite",
			FilePath:           filepath.Join(DefaultDataDir(), "contacts.db"),
			MaxIdleConns:       5,
			MaxOpenConns:       25,
			MaxLifetimeSeconds: 300,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Client: ClientConfig{
			BaseURL:        "http://127.0.0.1:3000",
			TimeoutSeconds: 10,
			PageSize:       10,
		},
	}
}

// LoadConfig reads path (YAML for .yaml/.yml, JSON otherwise) over the
// defaults and then applies environment overrides. A missing file is not an
// error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := unmarshal(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(strings.TrimSpace(c.Storage.Type)) {
	case "", "sqlite", "file":
		if strings.TrimSpace(c.Storage.FilePath) == "" {
			problems = append(problems, "storage.file_path is required for sqlite and file storage")
		}
	case "postgres":
		if strings.TrimSpace(c.Storage.DatabaseURL) == "" {
			problems = append(problems, "storage.database_url is required for postgres storage")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported storage type: %s", c.Storage.Type))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port out of range: %d", c.Server.Port))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown logging.level: %s", c.Logging.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ToStorageConfig converts the storage section into the backend factory's
// config, resolving a keyring-held database password.
func (c *Config) ToStorageConfig() (storage.Config, error) {
	out := storage.DefaultConfig(c.Storage.Type)
	out.FilePath = c.Storage.FilePath
	out.SSLEnabled = c.Storage.SSLEnabled

	if strings.EqualFold(c.Storage.Type, "postgres") {
		url, err := c.ResolveDatabaseURL()
		if err != nil {
			return storage.Config{}, err
		}
		out.DatabaseURL = url
	}

	if c.Storage.MaxIdleConns > 0 {
		out.MaxIdleConns = c.Storage.MaxIdleConns
	}
	if c.Storage.MaxOpenConns > 0 {
		out.MaxOpenConns = c.Storage.MaxOpenConns
	}
	if c.Storage.MaxLifetimeSeconds > 0 {
		out.MaxLifetime = time.Duration(c.Storage.MaxLifetimeSeconds) * time.Second
	}
	return out, nil
}

func (c *Config) ClientTimeout() time.Duration {
	if c.Client.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Client.TimeoutSeconds) * time.Second
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
