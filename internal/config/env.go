package config

import (
	"github.com/ilyakaznacheev/cleanenv"
)

// loadFromEnv overrides configuration with the environment variables named by the env tags.
// Unset variables leave the file or default value in place.
func loadFromEnv(config *Config) error {
	return cleanenv.ReadEnv(config)
}

// Usage returns a description of every supported environment variable
func Usage() (string, error) {
	var cfg Config
	return cleanenv.GetDescription(&cfg, nil)
}
