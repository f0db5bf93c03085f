package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/enviromon/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Load parses os.Args, so every test pins it to a bare command line.
func resetArgs(t *testing.T, args ...string) {
	t.Helper()

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"enviromon"}, args...)
}

func TestLoad(t *testing.T) {
	resetArgs(t)

	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configContent := []byte(`
interval = 60
capacity = 500
profile = "airquality"
listen = ":9090"
read_timeout = 5
mock = true
log_level = "debug"
telemetry = true
database = "/path/to/telemetry.db"
`)
	configPath := filepath.Join(tempDir, "enviromon.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("ENVIROMON_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Interval, "Expected Interval 60")
	assert.Equal(t, 500, cfg.Capacity, "Expected Capacity 500")
	assert.Equal(t, "airquality", cfg.Profile, "Expected Profile airquality")
	assert.Equal(t, ":9090", cfg.Listen, "Expected Listen :9090")
	assert.Equal(t, 5, cfg.ReadTimeout, "Expected ReadTimeout 5")
	assert.True(t, cfg.Mock, "Expected Mock true")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.True(t, cfg.Telemetry, "Expected Telemetry true")
	assert.Equal(t, "/path/to/telemetry.db", cfg.TelemetryDB, "Expected TelemetryDB /path/to/telemetry.db")
}

func TestLoadDefaults(t *testing.T) {
	resetArgs(t)
	t.Setenv("ENVIROMON_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, 600, cfg.Interval, "Expected default Interval 600")
	assert.Equal(t, 1000, cfg.Capacity, "Expected default Capacity 1000")
	assert.Equal(t, "weather", cfg.Profile, "Expected default Profile weather")
	assert.Equal(t, ":8080", cfg.Listen, "Expected default Listen :8080")
	assert.Equal(t, 10, cfg.ReadTimeout, "Expected default ReadTimeout 10")
	assert.False(t, cfg.Mock, "Expected default Mock false")
	assert.False(t, cfg.Display, "Expected default Display false")
	assert.False(t, cfg.Telemetry, "Expected default Telemetry false")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	resetArgs(t)

	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configContent := []byte(`
This is not a valid TOML file
`)
	configPath := filepath.Join(tempDir, "enviromon.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("ENVIROMON_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	resetArgs(t)

	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configContent := []byte(`
log_level = "invalid"
`)
	configPath := filepath.Join(tempDir, "enviromon.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("ENVIROMON_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestInvalidInterval(t *testing.T) {
	resetArgs(t)

	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configContent := []byte(`
interval = 0
`)
	configPath := filepath.Join(tempDir, "enviromon.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("ENVIROMON_CONFIG", configPath)

	_, err = config.Load()
	require.Error(t, err)
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	resetArgs(t, "--interval", "30", "--log-level", "debug")

	tempDir, err := os.MkdirTemp("", "config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	configContent := []byte(`
interval = 120
`)
	configPath := filepath.Join(tempDir, "enviromon.toml")
	err = os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("ENVIROMON_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Interval, "Expected flag to win over config file")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel set by flag")
}
