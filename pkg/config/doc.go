// Package config loads application configuration from environment variables.
//
// It wraps github.com/joho/godotenv, github.com/caarlos0/env/v11 and
// github.com/go-playground/validator/v10:
//
//   - Optional .env files are read first. Missing files are skipped and
//     variables already present in the environment are never overwritten.
//   - The environment is parsed into any struct using `env` and `envDefault`
//     field tags.
//   - The parsed struct is validated with `validate` tags.
//
// # Usage
//
//	type Config struct {
//	    Env        string `env:"APP_ENV" envDefault:"development" validate:"oneof=development staging production"`
//	    Storage    string `env:"STORAGE_DRIVER" envDefault:"memory" validate:"oneof=memory badger redis"`
//	    StorageKey string `env:"STORAGE_KEY" envDefault:"app_simulated_role" validate:"required"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, ".env", ".env.local"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Every failure wraps one of the sentinel errors so callers can branch with
// errors.Is: ErrNilPointer, ErrLoadingEnvFile, ErrParsingConfig and
// ErrInvalidConfig.
package config
