// Package config provides default configuration values for skylark.
package config

// Default configuration constants
const (
	// Camera defaults
	defaultCameraDevice    = "/dev/video0"
	defaultCameraWidth     = 640
	defaultCameraHeight    = 480
	defaultCameraFramerate = 30
)

// getDefaultLogDir returns the default log directory, falls back to empty string on error
func getDefaultLogDir() string {
	logDir, err := GetLogDir()
	if err != nil {
		return ""
	}
	return logDir
}

// getDefaultScreenshotsDir returns the default screenshots directory,
// falls back to empty string on error
func getDefaultScreenshotsDir() string {
	dir, err := GetScreenshotsDir()
	if err != nil {
		return ""
	}
	return dir
}

// DefaultConfig returns the default configuration values for skylark.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:         "info",
			Format:        "console",
			LogDir:        getDefaultLogDir(),
			EnableFileLog: false,
		},
		Video: VideoConfig{
			ScreenshotsDir: getDefaultScreenshotsDir(),
			AlwaysOnTop:    true,
		},
		Camera: CameraConfig{
			Device:    defaultCameraDevice,
			Width:     defaultCameraWidth,
			Height:    defaultCameraHeight,
			Framerate: defaultCameraFramerate,
		},
	}
}
