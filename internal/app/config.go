package app

import "errors"

// Config holds everything an App needs to run.
type Config struct {
	ConfigPath string // INI run configuration

	LogFormat string
	LogLevel  string
}

// NewConfig validates and returns a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
