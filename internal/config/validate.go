package config

import (
	"errors"
	"fmt"
	"time"
)

// minTimeout is the lowest accepted network timeout. Anything shorter
// cannot complete a folder listing against the real API.
const minTimeout = 1 * time.Second

// validLogLevels are the accepted values for logging.log_level.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks all configuration values and returns all errors found.
// It accumulates every error rather than stopping at the first, so users
// see a complete report and can fix all issues in one pass.
//
// Credential presence is deliberately not checked here: which fields are
// required depends on the auth mode, and that check belongs to the
// client factory.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Logging.LogLevel != "" && !validLogLevels[cfg.Logging.LogLevel] {
		errs = append(errs, fmt.Errorf(
			"log_level: must be one of debug, info, warn, error; got %q", cfg.Logging.LogLevel))
	}

	if cfg.Network.Timeout != "" {
		d, err := time.ParseDuration(cfg.Network.Timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("timeout: %w", err))
		} else if d < minTimeout {
			errs = append(errs, fmt.Errorf("timeout: must be at least %s, got %q", minTimeout, cfg.Network.Timeout))
		}
	}

	return errors.Join(errs...)
}

// NetworkTimeout returns the parsed network timeout, falling back to the
// default when unset. Call after Validate — parse errors are impossible
// on a validated config.
func (c *Config) NetworkTimeout() time.Duration {
	raw := c.Network.Timeout
	if raw == "" {
		raw = defaultTimeout
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		d, _ = time.ParseDuration(defaultTimeout)
	}

	return d
}
