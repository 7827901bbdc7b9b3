package rolestore

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/rolesim/pkg/metrics"
)

// Option configures a Store.
type Option func(*Store)

// WithStorage sets the persistence backend. Nil is ignored.
func WithStorage(s Storage) Option {
	return func(st *Store) {
		if s != nil {
			st.storage = s
		}
	}
}

// WithStorageKey overrides StorageKey. Empty keys are ignored.
func WithStorageKey(key string) Option {
	return func(st *Store) {
		if key != "" {
			st.key = key
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(st *Store) {
		if l != nil {
			st.log = l
		}
	}
}

// WithClock sets the time source used for LastChanged.
func WithClock(now func() time.Time) Option {
	return func(st *Store) {
		if now != nil {
			st.now = now
		}
	}
}

// WithMetrics records switches and clears.
func WithMetrics(m *metrics.Metrics) Option {
	return func(st *Store) {
		st.metrics = m
	}
}
