package config

import (
	"fmt"
	"slices"
	"strings"
)

// Validate performs comprehensive validation on the configuration.
func Validate(cfg *Config) error {
	if err := validateNetwork(cfg); err != nil {
		return fmt.Errorf("network validation failed: %w", err)
	}

	if err := validateLogging(cfg); err != nil {
		return fmt.Errorf("logging validation failed: %w", err)
	}

	if err := validateAPI(cfg); err != nil {
		return fmt.Errorf("api validation failed: %w", err)
	}

	return nil
}

func validateNetwork(cfg *Config) error {
	if cfg.BindAddress == "" {
		return fmt.Errorf("bind_address is required")
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if cfg.HeartbeatPort <= 0 || cfg.HeartbeatPort > 65535 {
		return fmt.Errorf("heartbeat_port must be between 1 and 65535")
	}

	if cfg.HeartbeatPort == cfg.Port {
		return fmt.Errorf("heartbeat_port must differ from port")
	}

	if cfg.AuthDatabase == "" {
		return fmt.Errorf("auth_database is required")
	}

	if _, err := cfg.HandshakeTimeoutDuration(); err != nil {
		return err
	}

	if _, err := cfg.HandshakeIdleDuration(); err != nil {
		return err
	}

	return nil
}

func validateLogging(cfg *Config) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, cfg.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %s", strings.Join(validLevels, ", "))
	}

	validFormats := []string{"json", "human"}
	if !slices.Contains(validFormats, cfg.Logging.Format) {
		return fmt.Errorf("logging.format must be one of: %s", strings.Join(validFormats, ", "))
	}

	return nil
}

func validateAPI(cfg *Config) error {
	if !cfg.APIEnabled() {
		return nil
	}

	if cfg.APIPort == cfg.Port || cfg.APIPort == cfg.HeartbeatPort {
		return fmt.Errorf("api_port must differ from port and heartbeat_port")
	}

	if cfg.API.TLSCert == "" || cfg.API.TLSKey == "" {
		return fmt.Errorf("api.tls_cert and api.tls_key are required when api_port is set")
	}

	if cfg.API.AdminUsername == "" || cfg.API.AdminPassword == "" {
		return fmt.Errorf("api.admin_username and api.admin_password are required when api_port is set")
	}

	if cfg.API.JWTSecret == "" {
		return fmt.Errorf("api.jwt_secret is required when api_port is set")
	}

	if _, err := cfg.TokenTTLDuration(); err != nil {
		return err
	}

	return nil
}
