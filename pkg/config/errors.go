package config

import "errors"

var (
	// ErrParsingConfig wraps env parsing failures.
	ErrParsingConfig = errors.New("config.parse_failed")

	// ErrInvalidConfig wraps validate tag failures.
	ErrInvalidConfig = errors.New("config.invalid")

	// ErrLoadingEnvFile is returned when an existing env file cannot be read.
	ErrLoadingEnvFile = errors.New("config.env_file_unreadable")

	// ErrNilPointer is returned when Load receives a nil target.
	ErrNilPointer = errors.New("config.nil_target")
)
