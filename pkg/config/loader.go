package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load populates v from the process environment.
//
// Each file in files is read with godotenv before parsing; missing files are
// skipped and variables already set in the environment win. With no files the
// default ".env" in the working directory is tried. After env.Parse the struct
// is checked against its `validate` tags.
//
// Example:
//
//	type Config struct {
//		Addr       string `env:"HTTP_ADDR" envDefault:":8080" validate:"required"`
//		StorageKey string `env:"STORAGE_KEY" envDefault:"app_simulated_role"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T, files ...string) error {
	if v == nil {
		return ErrNilPointer
	}

	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := loadFiles(files); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	if err := validate.Struct(v); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Use it for configuration the process cannot start without.
func MustLoad[T any](v *T, files ...string) {
	if err := Load(v, files...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

func loadFiles(files []string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		existing = append(existing, f)
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}
