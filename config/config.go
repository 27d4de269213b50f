// Package config reads process configuration from the environment.
package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the CLI needs to start.
type Config struct {
	// DataFile is the path of the JSON file the library state lives in.
	DataFile string `envconfig:"LIBRARY_DATA_FILE" default:"library_data.json"`
	// LogMode selects the zap preset: "dev" or "prod".
	LogMode string `envconfig:"LIBRARY_LOG_MODE" default:"prod"`
}

// New reads config from the environment, applying defaults for anything
// unset.
func New() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
