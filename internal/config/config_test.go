package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

const secret = "0123456789abcdef0123"

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"JWT_SECRET": secret}))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, BackendFile, cfg.Backend)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "data/nutrition.db", cfg.DBPath)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"JWT_SECRET":    secret,
		"PORT":          "9000",
		"STORE_BACKEND": "SQLite",
		"DATA_DIR":      "/tmp/nt",
		"DB_PATH":       "/tmp/nt.db",
		"BCRYPT_COST":   "10",
		"LOG_LEVEL":     "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "/tmp/nt", cfg.DataDir)
	assert.Equal(t, "/tmp/nt.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"bad port", map[string]string{"JWT_SECRET": secret, "PORT": "http"}},
		{"port out of range", map[string]string{"JWT_SECRET": secret, "PORT": "70000"}},
		{"unknown backend", map[string]string{"JWT_SECRET": secret, "STORE_BACKEND": "redis"}},
		{"bad cost", map[string]string{"JWT_SECRET": secret, "BCRYPT_COST": "high"}},
		{"bad log level", map[string]string{"JWT_SECRET": secret, "LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(env(tt.vars))
			assert.Error(t, err)
		})
	}
}
