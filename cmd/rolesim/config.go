package main

import (
	"github.com/dmitrymomot/rolesim/pkg/httpserver"
	"github.com/dmitrymomot/rolesim/pkg/redis"
)

// Storage drivers.
const (
	driverMemory = "memory"
	driverBadger = "badger"
	driverRedis  = "redis"
)

type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development" validate:"oneof=development staging production"`
	ServiceName string `env:"APP_NAME" envDefault:"rolesim" validate:"required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory" validate:"oneof=memory badger redis"`
	StorageKey    string `env:"STORAGE_KEY" envDefault:"app_simulated_role" validate:"required"`
	BadgerDir     string `env:"BADGER_DIR" envDefault:"./data/rolesim" validate:"required_if=StorageDriver badger"`

	CatalogFile       string   `env:"CATALOG_FILE"`
	GuardFallback     string   `env:"GUARD_FALLBACK" envDefault:"/" validate:"startswith=/"`
	SimulatedEndpoint []string `env:"SIMULATED_ENDPOINTS" envSeparator:","`
	UpstreamURL       string   `env:"UPSTREAM_URL" validate:"omitempty,url"`

	HTTP  httpserver.Config
	Redis redis.Config
}
