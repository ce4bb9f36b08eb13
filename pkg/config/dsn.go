package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/TechXTT/pgcursor"
	"github.com/TechXTT/pgcursor/pkg/runtime"
)

// Config holds the settings shared by the CLI commands.
type Config struct {
	Driver        string
	DSN           string
	MigrationsDir string
	Format        string
}

// Load merges envFile into the process environment, without overriding
// variables that are already set, and reads the configuration from it. A
// missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Driver:        getenv("PGCURSOR_DRIVER", runtime.DefaultDriver),
		DSN:           getenv("PGCURSOR_DSN", os.Getenv("DATABASE_URL")),
		MigrationsDir: getenv("PGCURSOR_MIGRATIONS", "migrations"),
		Format:        getenv("PGCURSOR_FORMAT", "vector"),
	}
	if _, err := pgcursor.ParseShape(cfg.Format); err != nil {
		return nil, fmt.Errorf("PGCURSOR_FORMAT: %w", err)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
