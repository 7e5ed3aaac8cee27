package config

import "github.com/caarlos0/env/v11"

type Config struct {
	Addr            string `env:"ADDR" envDefault:":8080"`
	LogFile         string `env:"LOG_FILE"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT_SEC" envDefault:"10"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
