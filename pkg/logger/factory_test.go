package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rolesim/pkg/logger"
	"github.com/dmitrymomot/rolesim/pkg/rbac"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Run("defaults to json at info", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		log.Debug("hidden")
		assert.Zero(t, buf.Len())

		log.Info("role switched")
		entry := decodeEntry(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "role switched", entry["msg"])
	})

	t.Run("text format", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithTextFormatter()).Info("role switched")
		assert.Contains(t, buf.String(), `level=INFO msg="role switched"`)
	})

	t.Run("last format wins", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithTextFormatter(), logger.WithJSONFormatter()).Info("x")
		assert.Equal(t, "x", decodeEntry(t, buf)["msg"])
	})

	t.Run("level option", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelWarn))
		log.Info("hidden")
		assert.Zero(t, buf.Len())
		log.Warn("shown")
		assert.Equal(t, "WARN", decodeEntry(t, buf)["level"])
	})

	t.Run("static attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger.New(logger.WithOutput(buf), logger.WithAttr(slog.String("svc", "test"))).Info("x")
		assert.Equal(t, "test", decodeEntry(t, buf)["svc"])
	})

	t.Run("context extractors survive With", func(t *testing.T) {
		buf := &bytes.Buffer{}
		type key struct{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(nil, func(ctx context.Context) (slog.Attr, bool) {
				v, ok := ctx.Value(key{}).(string)
				return slog.String("id", v), ok
			}),
		).With(logger.Component("guard"))

		log.InfoContext(context.WithValue(context.Background(), key{}, "42"), "x")
		entry := decodeEntry(t, buf)
		assert.Equal(t, "42", entry["id"])
		assert.Equal(t, "guard", entry["component"])

		buf.Reset()
		log.WithGroup("g").InfoContext(context.Background(), "y")
		assert.NotContains(t, buf.String(), `"id"`)
	})
}

func TestWithEnvironment(t *testing.T) {
	tests := []struct {
		env     string
		wantEnv string
		debug   bool
		json    bool
	}{
		{"production", logger.EnvProduction, false, true},
		{"prod", logger.EnvProduction, false, true},
		{"staging", logger.EnvStaging, false, true},
		{"stage", logger.EnvStaging, false, true},
		{"development", logger.EnvDevelopment, true, false},
		{"dev", logger.EnvDevelopment, true, false},
		{"anything", logger.EnvDevelopment, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			buf := &bytes.Buffer{}
			log := logger.New(logger.WithEnvironment(tt.env, "rolesim"), logger.WithOutput(buf))
			assert.Equal(t, tt.debug, log.Enabled(context.Background(), slog.LevelDebug))

			log.Warn("msg")
			if tt.json {
				entry := decodeEntry(t, buf)
				assert.Equal(t, tt.wantEnv, entry["env"])
				assert.Equal(t, "rolesim", entry["service"])
				return
			}
			assert.Contains(t, buf.String(), "env="+tt.wantEnv)
			assert.Contains(t, buf.String(), "service=rolesim")
		})
	}
}

func TestWithEnvironmentThenLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithEnvironment(logger.EnvDevelopment, ""),
		logger.WithLevel(slog.LevelError),
		logger.WithOutput(buf),
	)
	log.Warn("hidden")
	assert.Zero(t, buf.Len())
	log.Error("shown")
	assert.NotContains(t, buf.String(), "service=")
}

func TestRoleExtractor(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(logger.RoleExtractor()),
	)

	admin, ok := rbac.DefaultCatalog().Lookup(rbac.RoleAdmin)
	require.True(t, ok)
	log.InfoContext(rbac.WithState(context.Background(), rbac.State{CurrentRole: admin, IsSimulated: true}), "msg")
	assert.Equal(t, "admin", decodeEntry(t, buf)["role_id"])

	buf.Reset()
	log.InfoContext(rbac.WithState(context.Background(), rbac.State{IsSimulated: true}), "cleared")
	assert.Equal(t, "none", decodeEntry(t, buf)["role_id"])

	buf.Reset()
	log.InfoContext(context.Background(), "no state")
	assert.NotContains(t, decodeEntry(t, buf), "role_id")
}

func TestSetAsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	logger.SetAsDefault(logger.New(logger.WithOutput(buf)))
	slog.Info("default")
	assert.Equal(t, "default", decodeEntry(t, buf)["msg"])
}

func TestWithFormatPanics(t *testing.T) {
	assert.Panics(t, func() { logger.WithFormat(logger.Format("xml")) })
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestDiscard(t *testing.T) {
	log := logger.Discard()
	require.NotNil(t, log)
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
}
