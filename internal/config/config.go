// Package config loads runtime settings from the environment.
//
// A .env file in the working directory is read first if present; variables
// already set in the process environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sakif/nutrition-tracker/internal/auth"
)

// Storage backends accepted by STORE_BACKEND.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds every setting the server needs.
type Config struct {
	Port       int
	Backend    string // BackendFile or BackendSQLite
	DataDir    string // directory of users.json, meals.json, food_db.json
	DBPath     string
	JWTSecret  string
	BcryptCost int
	LogLevel   slog.Level
}

// Load reads .env (optional) and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults and
// validating the result.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:       8080,
		Backend:    BackendFile,
		DataDir:    "data",
		DBPath:     "data/nutrition.db",
		BcryptCost: auth.DefaultCost,
		LogLevel:   slog.LevelInfo,
	}

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("config: invalid PORT %q", v)
		}
		cfg.Port = port
	}

	if v := getenv("STORE_BACKEND"); v != "" {
		switch strings.ToLower(v) {
		case BackendFile:
			cfg.Backend = BackendFile
		case BackendSQLite:
			cfg.Backend = BackendSQLite
		default:
			return nil, fmt.Errorf("config: STORE_BACKEND must be %q or %q, got %q", BackendFile, BackendSQLite, v)
		}
	}

	if v := getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	cfg.JWTSecret = getenv("JWT_SECRET")
	if len(cfg.JWTSecret) < 16 {
		return nil, errors.New("config: JWT_SECRET must be set to at least 16 characters")
	}

	if v := getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid BCRYPT_COST %q", v)
		}
		cfg.BcryptCost = cost
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("config: invalid LOG_LEVEL %q", v)
		}
	}

	return cfg, nil
}
