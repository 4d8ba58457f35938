package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration of the cmdgraph CLI.
type Config struct {
	LogLevel     string `env:"CMDGRAPH_LOG_LEVEL" envDefault:"info"`
	Manifest     string `env:"CMDGRAPH_MANIFEST" envDefault:"commands.yaml"`
	Addr         string `env:"CMDGRAPH_ADDR" envDefault:":8080"`
	SnapshotPath string `env:"CMDGRAPH_SNAPSHOT_PATH" envDefault:".cmdgraph/dispatcher.json"`

	// Redis backs permissions, help and client notifications when set.
	RedisAddr     string `env:"CMDGRAPH_REDIS_ADDR"`
	RedisPassword string `env:"CMDGRAPH_REDIS_PASSWORD"`
	RedisDB       int    `env:"CMDGRAPH_REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"CMDGRAPH_REDIS_PREFIX" envDefault:"cmdgraph:"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the optional dotenv files, then the environment.
// Variables already set in the environment win over dotenv values.
// A missing dotenv file is not an error.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level. Unknown values mean info.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
