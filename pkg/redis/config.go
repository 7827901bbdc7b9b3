package redis

import "time"

// Config is the environment-driven connection and storage configuration.
type Config struct {
	// ConnectionURL has the form redis://:password@host:6379/0.
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0" validate:"required,url"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3" validate:"gte=1"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"`
	// KeyPrefix is prepended to every key written by Storage.
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"rolesim:"`
	// TTL expires stored values. Zero keeps them forever.
	TTL time.Duration `env:"REDIS_TTL" envDefault:"0s"`
}
