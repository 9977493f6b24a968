package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonesrussell/trendboard/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Name    string        `yaml:"name"`
	Port    int           `env:"SAMPLE_PORT"    yaml:"port"`
	Timeout time.Duration `env:"SAMPLE_TIMEOUT" yaml:"timeout"`
	Nested  struct {
		Tags []string `env:"SAMPLE_TAGS" yaml:"tags"`
		On   bool     `env:"SAMPLE_ON"   yaml:"on"`
	} `yaml:"nested"`
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := writeConfig(t, "name: board\nport: 9000\nnested:\n  tags: [a, b]\n")

	cfg, err := config.Load[sampleConfig](path)
	require.NoError(t, err)

	assert.Equal(t, "board", cfg.Name)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"a", "b"}, cfg.Nested.Tags)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "port: 9000\n")
	t.Setenv("SAMPLE_PORT", "9100")
	t.Setenv("SAMPLE_TIMEOUT", "3s")
	t.Setenv("SAMPLE_TAGS", "x, y")
	t.Setenv("SAMPLE_ON", "yes")

	cfg, err := config.Load[sampleConfig](path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"x", "y"}, cfg.Nested.Tags)
	assert.True(t, cfg.Nested.On)
}

func TestLoadWithDefaults_MissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yml")

	cfg, err := config.LoadWithDefaults(missing, func(c *sampleConfig) {
		if c.Port == 0 {
			c.Port = 8080
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadWithDefaults_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "port: [not-an-int\n")

	_, err := config.LoadWithDefaults[sampleConfig](path, nil)
	assert.Error(t, err)
}

func TestGetConfigPath(t *testing.T) {
	assert.Equal(t, "config.yml", config.GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/trendboard.yml")
	assert.Equal(t, "/etc/trendboard.yml", config.GetConfigPath("config.yml"))
}
