package rp

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConnectTimeout bounds establishing a TCP connection.
	DefaultConnectTimeout = 15 * time.Second
	// DefaultSocketTimeout bounds waiting for a response once the request is sent.
	DefaultSocketTimeout = 30 * time.Second
)

// ErrInvalidConfig is returned by Validate and New for unusable settings.
var ErrInvalidConfig = errors.New("rp: invalid config")

// Config holds the endpoint settings of a Client. It is copied by New and
// never modified afterwards.
type Config struct {
	// Endpoint is the base URL of the Report Portal instance, e.g.
	// https://reportportal.example.com. A path prefix is kept.
	Endpoint string `yaml:"endpoint"`
	Project  string `yaml:"project"`
	APIKey   string `yaml:"api_key"`
	// APIKeyFile is read by ResolveAPIKey when APIKey is empty.
	APIKeyFile string           `yaml:"api_key_file"`
	Connection ConnectionConfig `yaml:"connection"`
}

// ConnectionConfig holds the transport timeouts.
type ConnectionConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	SocketTimeout  time.Duration `yaml:"socket_timeout"`
}

// DefaultConfig returns a Config with the default timeouts.
func DefaultConfig() Config {
	return Config{
		Connection: ConnectionConfig{
			ConnectTimeout: DefaultConnectTimeout,
			SocketTimeout:  DefaultSocketTimeout,
		},
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveAPIKey fills APIKey from APIKeyFile when it is empty.
func (c *Config) ResolveAPIKey() error {
	if c.APIKey != "" || c.APIKeyFile == "" {
		return nil
	}
	key, err := ReadAPIKey(c.APIKeyFile)
	if err != nil {
		return fmt.Errorf("read API key: %w", err)
	}
	c.APIKey = key
	return nil
}

// Validate checks that the config can build a client.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("%w: endpoint is required", ErrInvalidConfig)
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: endpoint: %v", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: endpoint must be an http(s) URL, got %q", ErrInvalidConfig, c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: endpoint has no host", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Project) == "" {
		return fmt.Errorf("%w: project is required", ErrInvalidConfig)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w: api key is required", ErrInvalidConfig)
	}
	if c.Connection.ConnectTimeout < 0 || c.Connection.SocketTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ReadAPIKey reads the first line of a file (e.g. .rp-api-key) and returns it trimmed.
func ReadAPIKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(strings.Split(string(data), "\n")[0])
	return line, nil
}
