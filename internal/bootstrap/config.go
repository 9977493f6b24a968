// Package bootstrap wires configuration into the trendboard components.
package bootstrap

import (
	"fmt"

	infraconfig "github.com/jonesrussell/trendboard/infrastructure/config"
	infralogger "github.com/jonesrussell/trendboard/infrastructure/logger"
	"github.com/jonesrussell/trendboard/internal/config"
)

const defaultConfigPath = "config.yml"

// LoadConfig loads and validates configuration. An empty path falls back to
// CONFIG_PATH, then config.yml. A missing file yields defaults.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = infraconfig.GetConfigPath(defaultConfigPath)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (infralogger.Logger, error) {
	level := cfg.Logging.Level
	if cfg.Service.Debug {
		level = "debug"
	}
	logger, err := infralogger.New(infralogger.Config{
		Level:       level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug || cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger.With(infralogger.String("service", cfg.Service.Name)), nil
}
