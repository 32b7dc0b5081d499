package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the settings shared by the commands.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
	Strategy  string `env:"STRATEGY" envDefault:"refine"`
	// RulesFile replaces the embedded refinement rules when set.
	RulesFile string `env:"RULES_FILE"`
}

// Prefix is prepended to every environment variable name.
const Prefix = "CONDFORM_"

// Load reads the optional .env file and then the environment.
func Load() (Config, error) {
	// The .env file is optional.
	_ = godotenv.Load()

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
