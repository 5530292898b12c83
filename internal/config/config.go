// Package config provides configuration loading and validation for the
// authentication server.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the auth server's configuration.
type Config struct {
	BindAddress      string   `yaml:"bind_address"`
	Port             int      `yaml:"port"`
	HeartbeatPort    int      `yaml:"heartbeat_port"`
	APIPort          int      `yaml:"api_port,omitempty"`
	AuthDatabase     string   `yaml:"auth_database"`
	HandshakeTimeout string   `yaml:"handshake_timeout,omitempty"`
	HandshakeIdle    string   `yaml:"handshake_idle_timeout,omitempty"`
	Logging          Logging  `yaml:"logging"`
	API              APISpec  `yaml:"api,omitempty"`
}

// Logging contains logging configuration.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// APISpec contains settings for the optional admin API, only consulted when
// APIPort is set.
type APISpec struct {
	TLSCert string `yaml:"tls_cert,omitempty"`
	TLSKey  string `yaml:"tls_key,omitempty"`

	// AdminUsername/AdminPassword gate /admin/login. There is no
	// password-hashing library in this repository's dependency set, so
	// these are compared directly (constant-time) against the configured
	// plaintext; operators are expected to restrict config file
	// permissions accordingly.
	AdminUsername string `yaml:"admin_username,omitempty"`
	AdminPassword string `yaml:"admin_password,omitempty"`

	// JWTSecret signs admin session tokens. A random secret is generated
	// and persisted by `authserver init` when unset.
	JWTSecret string `yaml:"jwt_secret,omitempty"`

	// TokenTTL bounds how long an admin bearer token is valid for.
	// Defaults to defaultAdminTokenTTL when empty.
	TokenTTL string `yaml:"token_ttl,omitempty"`
}

const (
	defaultPort             = 3724
	defaultHeartbeatPort    = 1234
	defaultHandshakeTimeout = 30 * time.Second
	defaultHandshakeIdle    = 10 * time.Second
	defaultAdminTokenTTL    = 30 * time.Minute
)

// Default returns a Config populated with the server's documented defaults,
// suitable for writing out by `authserver init`.
func Default() *Config {
	return &Config{
		BindAddress:   "0.0.0.0",
		Port:          defaultPort,
		HeartbeatPort: defaultHeartbeatPort,
		AuthDatabase:  "memory",
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads and parses the configuration file.
//
//nolint:gosec // G304: config path is from command-line argument
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Save writes cfg to path as YAML, creating the file if needed.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// HandshakeTimeoutDuration parses HandshakeTimeout, defaulting to 30s when
// unset.
func (c *Config) HandshakeTimeoutDuration() (time.Duration, error) {
	if c.HandshakeTimeout == "" {
		return defaultHandshakeTimeout, nil
	}
	d, err := time.ParseDuration(c.HandshakeTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid handshake_timeout: %w", err)
	}
	return d, nil
}

// HandshakeIdleDuration parses HandshakeIdle, defaulting to 10s when unset.
func (c *Config) HandshakeIdleDuration() (time.Duration, error) {
	if c.HandshakeIdle == "" {
		return defaultHandshakeIdle, nil
	}
	d, err := time.ParseDuration(c.HandshakeIdle)
	if err != nil {
		return 0, fmt.Errorf("invalid handshake_idle_timeout: %w", err)
	}
	return d, nil
}

// AuthAddress returns the TCP address the auth acceptor should bind.
func (c *Config) AuthAddress() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.Port)
}

// HeartbeatAddress returns the UDP address the heartbeat receiver should
// bind.
func (c *Config) HeartbeatAddress() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.HeartbeatPort)
}

// APIEnabled reports whether the optional admin API should be started.
func (c *Config) APIEnabled() bool {
	return c.APIPort > 0
}

// APIAddress returns the TCP address the admin API should bind.
func (c *Config) APIAddress() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.APIPort)
}

// TokenTTLDuration parses API.TokenTTL, defaulting to 30m when unset.
func (c *Config) TokenTTLDuration() (time.Duration, error) {
	if c.API.TokenTTL == "" {
		return defaultAdminTokenTTL, nil
	}
	d, err := time.ParseDuration(c.API.TokenTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid token_ttl: %w", err)
	}
	return d, nil
}
