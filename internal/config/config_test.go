package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/ecopass/internal/config"
	"codeberg.org/mutker/ecopass/internal/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ecopass.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
iterations = 120
interval_ms = 250
node_label = "jetson-02"
inspector = "proc"
command_timeout_ms = 500
format = "yaml"
metrics_addr = "127.0.0.1:9477"
log_level = "debug"
`)

	// Set environment variable to point to the test config file
	t.Setenv("ECOPASS_CONFIG", path)

	cfg, err := config.Load(config.WithArgs(nil))
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Iterations, "Expected Iterations 120")
	assert.Equal(t, 250, cfg.IntervalMs, "Expected IntervalMs 250")
	assert.Equal(t, "jetson-02", cfg.NodeLabel)
	assert.Equal(t, "proc", cfg.Inspector)
	assert.Equal(t, 500, cfg.CommandTimeoutMs)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, "127.0.0.1:9477", cfg.MetricsAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadDefaults(t *testing.T) {
	// Ensure no config file is used
	t.Setenv("ECOPASS_CONFIG", "")

	cfg, err := config.Load(config.WithArgs(nil))
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, 5000, cfg.Iterations, "Expected default Iterations 5000")
	assert.Equal(t, 100, cfg.IntervalMs, "Expected default IntervalMs 100")
	assert.Equal(t, "lab-node-192.168.1.12", cfg.NodeLabel)
	assert.Equal(t, "command", cfg.Inspector)
	assert.Equal(t, config.DefaultCommandTimeoutMs, cfg.CommandTimeoutMs)
	assert.Equal(t, "json", cfg.Format)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
iterations = 10
interval_ms = 10
node_label = "from-file"
`)
	t.Setenv("ECOPASS_CONFIG", path)
	t.Setenv("ECOPASS_INTERVAL_MS", "20")
	t.Setenv("ECOPASS_NODE_LABEL", "from-env")

	cfg, err := config.Load(config.WithArgs([]string{"--node-label", "from-flag"}))
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Iterations, "file beats default")
	assert.Equal(t, 20, cfg.IntervalMs, "env beats file")
	assert.Equal(t, "from-flag", cfg.NodeLabel, "flag beats env")
}

func TestLoadConfigFlag(t *testing.T) {
	t.Setenv("ECOPASS_CONFIG", "")
	path := writeConfig(t, `iterations = 7`)

	cfg, err := config.Load(config.WithArgs([]string{"--config", path}))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Iterations)
}

func TestLoadWithConfigFileOption(t *testing.T) {
	t.Setenv("ECOPASS_CONFIG", "")
	path := writeConfig(t, `format = "text"`)

	cfg, err := config.Load(config.WithArgs(nil), config.WithConfigFile(path))
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format)
}

func TestLoadWithEnvPrefix(t *testing.T) {
	t.Setenv("ECOPASS_CONFIG", "")
	t.Setenv("LAB_ITERATIONS", "3")

	cfg, err := config.Load(config.WithArgs(nil), config.WithEnvPrefix("LAB"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Iterations)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	path := writeConfig(t, `
This is not a valid TOML file
`)
	t.Setenv("ECOPASS_CONFIG", path)

	_, err := config.Load(config.WithArgs(nil))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
	assert.Contains(t, err.Error(), "Failed to read configuration")
}

// chdir switches the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadIgnoresExtensionlessFile(t *testing.T) {
	t.Setenv("ECOPASS_CONFIG", "")
	dir := t.TempDir()
	// A file named like the binary must never be parsed as configuration.
	binary := []byte{0x7f, 'E', 'L', 'F', 0x02, 0x01, 0x01, 0x00}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ecopass"), binary, 0o755))
	chdir(t, dir)

	cfg, err := config.Load(config.WithArgs([]string{"--iterations", "1"}))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Iterations)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadWorkingDirectoryFile(t *testing.T) {
	t.Setenv("ECOPASS_CONFIG", "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ecopass"), []byte("not toml ="), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ecopass.toml"), []byte(`node_label = "from-cwd"`), 0o600))
	chdir(t, dir)

	cfg, err := config.Load(config.WithArgs(nil))
	require.NoError(t, err)
	assert.Equal(t, "from-cwd", cfg.NodeLabel)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("ECOPASS_CONFIG", filepath.Join(t.TempDir(), "absent.toml"))

	_, err := config.Load(config.WithArgs(nil))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestInvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `
log_level = "invalid"
`)
	t.Setenv("ECOPASS_CONFIG", path)

	_, err := config.Load(config.WithArgs(nil))
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidLogLevel, errors.CodeOf(err))
}

func TestLogLevelFlag(t *testing.T) {
	t.Setenv("ECOPASS_CONFIG", "")

	cfg, err := config.Load(config.WithArgs([]string{"--log-level", "debug"}))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
}

func TestInvalidSettings(t *testing.T) {
	t.Setenv("ECOPASS_CONFIG", "")

	tests := []struct {
		name string
		args []string
	}{
		{"format", []string{"--format", "xml"}},
		{"inspector", []string{"--inspector", "ssh"}},
		{"command timeout", []string{"--command-timeout-ms", "0"}},
		{"metrics addr", []string{"--metrics-addr", "nowhere"}},
	}

	for _, tt := range tests {
		_, err := config.Load(config.WithArgs(tt.args))
		require.Error(t, err, tt.name)
		assert.Equal(t, errors.ErrInvalidConfig, errors.CodeOf(err), tt.name)
	}
}

func TestPassSettingsAreNotRejectedHere(t *testing.T) {
	t.Setenv("ECOPASS_CONFIG", "")

	cfg, err := config.Load(config.WithArgs([]string{"--iterations", "0", "--interval-ms", "-1"}))
	require.NoError(t, err)

	err = cfg.PassConfig().Validate()
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidArgument, errors.CodeOf(err))
}

func TestUnknownFlag(t *testing.T) {
	_, err := config.Load(config.WithArgs([]string{"--temperature", "80"}))
	require.Error(t, err)
	assert.Equal(t, config.ErrParseFlags, errors.CodeOf(err))
}

func TestHelpFlag(t *testing.T) {
	_, err := config.Load(config.WithArgs([]string{"--help"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pflag.ErrHelp))
}

func TestDerivedConfigs(t *testing.T) {
	t.Setenv("ECOPASS_CONFIG", "")

	cfg, err := config.Load(config.WithArgs([]string{
		"--iterations", "9", "--interval-ms", "5", "--node-label", "edge",
		"--command-timeout-ms", "1500", "--metrics-addr", ":9477",
	}))
	require.NoError(t, err)

	passCfg := cfg.PassConfig()
	assert.Equal(t, 9, passCfg.Iterations)
	assert.Equal(t, 5, passCfg.IntervalMs)
	assert.Equal(t, "edge", passCfg.NodeLabel)

	telemetryCfg := cfg.TelemetryConfig()
	assert.Equal(t, 1500*time.Millisecond, telemetryCfg.CommandTimeout)
	assert.Equal(t, "command", telemetryCfg.Inspector)

	metricsCfg := cfg.MetricsConfig()
	assert.True(t, metricsCfg.Enabled())
	assert.Equal(t, "edge", metricsCfg.NodeLabel)
}
