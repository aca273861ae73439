// Package config loads application configuration from environment
// variables into tagged structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
// a .env file in the working directory is loaded once per process,
// then env.Parse fills the struct from `env` tags. MustLoad panics on
// failure for configuration the process cannot run without.
//
//	type Config struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
package config
