// Package config provides configuration management for skylark with Viper integration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// File permission constants
const (
	dirPerm  = 0755 // Standard directory permissions (rwxr-xr-x)
	filePerm = 0644 // Standard file permissions (rw-r--r--)
)

// Config represents the complete configuration for skylark.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
	Video   VideoConfig   `mapstructure:"video" yaml:"video" json:"video"`
	Camera  CameraConfig  `mapstructure:"camera" yaml:"camera" json:"camera"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// File output configuration
	LogDir        string `mapstructure:"log_dir" yaml:"log_dir" json:"log_dir"`
	EnableFileLog bool   `mapstructure:"enable_file_log" yaml:"enable_file_log" json:"enable_file_log"`
}

// VideoConfig holds video window preferences.
type VideoConfig struct {
	// ScreenshotsDir receives captured video frames.
	ScreenshotsDir string `mapstructure:"screenshots_dir" yaml:"screenshots_dir" json:"screenshots_dir"`
	// AlwaysOnTop keeps the detached video window above other windows.
	AlwaysOnTop bool `mapstructure:"always_on_top" yaml:"always_on_top" json:"always_on_top"`
}

// CameraConfig holds the local camera capture settings.
type CameraConfig struct {
	Device    string `mapstructure:"device" yaml:"device" json:"device"`
	Width     int    `mapstructure:"width" yaml:"width" json:"width"`
	Height    int    `mapstructure:"height" yaml:"height" json:"height"`
	Framerate int    `mapstructure:"framerate" yaml:"framerate" json:"framerate"`
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// configFileOverride points the manager at an explicit config file
// instead of the XDG search path. Set via SetConfigFile before Init.
var configFileOverride string

// SetConfigFile forces the manager to read the given file. Must be
// called before Init to take effect.
func SetConfigFile(path string) {
	configFileOverride = path
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	if configFileOverride != "" {
		v.SetConfigFile(configFileOverride)
	} else {
		// Configure Viper - supports yaml, json, toml automatically
		v.SetConfigName("config") // Will find config.yaml, config.json, config.toml, etc.

		// Add config paths
		configDir, err := GetConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		v.AddConfigPath(configDir)
		v.AddConfigPath(".") // Current directory for development
	}

	// Set up environment variable support
	v.SetEnvPrefix("SKYLARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific environment variables
	bindings := map[string]string{
		"logging.level":         "LOG_LEVEL",
		"logging.format":        "LOG_FORMAT",
		"logging.log_dir":       "LOG_DIR",
		"video.screenshots_dir": "SCREENSHOTS_DIR",
		"video.always_on_top":   "VIDEO_ALWAYS_ON_TOP",
		"camera.device":         "CAMERA_DEVICE",
		"camera.width":          "CAMERA_WIDTH",
		"camera.height":         "CAMERA_HEIGHT",
		"camera.framerate":      "CAMERA_FRAMERATE",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, "SKYLARK_"+env); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env, err)
		}
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Ensure directories exist
	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	// Set defaults
	m.setDefaults()

	// Read config file if it exists
	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create default one
			if err := m.createDefaultConfig(); err != nil {
				return fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config, err := m.unmarshal()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

// unmarshal decodes the current viper state into a normalized Config.
func (m *Manager) unmarshal() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Fill in the screenshots directory if not specified
	if config.Video.ScreenshotsDir == "" {
		dir, err := GetScreenshotsDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get screenshots directory: %w", err)
		}
		config.Video.ScreenshotsDir = dir
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modification
	configCopy := *m.config
	return &configCopy
}

// Watch starts watching the config file for changes and reloads automatically.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil // Already watching
	}

	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		// Reload config
		if err := m.reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload config: %v\n", err)
			return
		}

		// Notify callbacks
		m.mu.RLock()
		config := m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.RUnlock()

		for _, callback := range callbacks {
			callback(config)
		}
	})

	m.watching = true
	return nil
}

// OnConfigChange registers a callback function to be called when config changes.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// reload reloads the configuration (internal method, must be called with lock).
func (m *Manager) reload() error {
	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}

	config, err := m.unmarshal()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.config = config
	m.mu.Unlock()
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Logging defaults
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)

	// Video defaults
	m.viper.SetDefault("video.screenshots_dir", defaults.Video.ScreenshotsDir)
	m.viper.SetDefault("video.always_on_top", defaults.Video.AlwaysOnTop)

	// Camera defaults
	m.viper.SetDefault("camera.device", defaults.Camera.Device)
	m.viper.SetDefault("camera.width", defaults.Camera.Width)
	m.viper.SetDefault("camera.height", defaults.Camera.Height)
	m.viper.SetDefault("camera.framerate", defaults.Camera.Framerate)
}

// createDefaultConfig creates a default configuration file.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	// Get the default configuration
	defaultConfig := DefaultConfig()

	// Marshal to JSON with proper indentation
	configData, err := json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	// Write JSON config file
	if err := os.WriteFile(configFile, configData, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created default configuration file: %s\n", configFile)

	if err := GenerateSchemaFile(); err != nil {
		// The schema is a convenience for editors, not a requirement.
		fmt.Fprintf(os.Stderr, "Warning: failed to generate config schema: %v\n", err)
	}
	return nil
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// Global configuration manager instance
var globalManager *Manager
var globalManagerOnce sync.Once

// Init initializes the global configuration manager.
func Init() error {
	var err error
	globalManagerOnce.Do(func() {
		globalManager, err = NewManager()
		if err != nil {
			return
		}
		err = globalManager.Load()
	})
	return err
}

// Get returns the global configuration.
func Get() *Config {
	if globalManager == nil {
		// Return defaults if not initialized
		return DefaultConfig()
	}
	return globalManager.Get()
}

// Watch starts watching the global configuration for changes.
func Watch() error {
	if globalManager == nil {
		return fmt.Errorf("configuration not initialized")
	}
	return globalManager.Watch()
}

// OnConfigChange registers a callback for global configuration changes.
func OnConfigChange(callback func(*Config)) {
	if globalManager == nil {
		return
	}
	globalManager.OnConfigChange(callback)
}
