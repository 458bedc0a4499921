package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()

	assert.NoError(t, validateConfig(cfg))
	assert.Equal(t, "/dev/video0", cfg.Camera.Device)
	assert.Equal(t, 640, cfg.Camera.Width)
	assert.Equal(t, 480, cfg.Camera.Height)
	assert.Equal(t, 30, cfg.Camera.Framerate)
}

func TestValidateRejectsBadLoggingLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "verbose"

	err := validateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestValidateRejectsBadLoggingFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Format = "xml"

	err := validateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.format")
}

func TestValidateRejectsBadCameraSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Camera.Device = ""
	cfg.Camera.Width = 0
	cfg.Camera.Framerate = 500

	err := validateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "camera.device")
	assert.Contains(t, err.Error(), "camera.width")
	assert.Contains(t, err.Error(), "camera.framerate")
}

func TestValidateCollectsAllErrorsAtOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "loud"
	cfg.Camera.Height = -1

	err := validateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "camera.height")
}

func TestXDGDirsInDevMode(t *testing.T) {
	t.Setenv("ENV", "dev")
	dir := t.TempDir()
	t.Chdir(dir)

	dirs, err := GetXDGDirs()

	require.NoError(t, err)
	want := filepath.Join(dir, ".dev", "skylark")
	assert.Equal(t, want, dirs.ConfigHome)
	assert.Equal(t, want, dirs.DataHome)
	assert.Equal(t, want, dirs.StateHome)
}

func TestXDGDirsHonorEnvironmentOverrides(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/conf")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	dirs, err := GetXDGDirs()

	require.NoError(t, err)
	assert.Equal(t, "/tmp/conf/skylark", dirs.ConfigHome)
	assert.Equal(t, "/tmp/data/skylark", dirs.DataHome)
	assert.Equal(t, "/tmp/state/skylark", dirs.StateHome)
}

func TestScreenshotsDirUnderDataHome(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	dir, err := GetScreenshotsDir()

	require.NoError(t, err)
	assert.Equal(t, "/tmp/data/skylark/screenshots", dir)
}
