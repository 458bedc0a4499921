// Package config provides validation utilities for configuration values.
package config

import (
	"fmt"
	"strings"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	// Validate logging level
	switch strings.ToLower(config.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
		// Valid
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error, fatal, panic (got: %s)", config.Logging.Level))
	}

	// Validate logging format
	switch strings.ToLower(config.Logging.Format) {
	case "console", "json":
		// Valid
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.format must be one of: console, json (got: %s)", config.Logging.Format))
	}

	// Validate camera capture settings
	if config.Camera.Device == "" {
		validationErrors = append(validationErrors, "camera.device cannot be empty")
	}
	if config.Camera.Width < 1 {
		validationErrors = append(validationErrors, "camera.width must be positive")
	}
	if config.Camera.Height < 1 {
		validationErrors = append(validationErrors, "camera.height must be positive")
	}
	if config.Camera.Framerate < 1 || config.Camera.Framerate > 120 {
		validationErrors = append(validationErrors, fmt.Sprintf("camera.framerate must be between 1 and 120 (got: %d)", config.Camera.Framerate))
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}
