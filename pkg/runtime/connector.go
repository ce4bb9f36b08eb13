package runtime

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/TechXTT/pgcursor/internal/core"
)

// DefaultDriver is the backend used when no driver is named.
const DefaultDriver = "pgx"

// Factory opens a native session from a connection string.
type Factory func(ctx context.Context, conninfo string) (core.Session, error)

var registry = map[string]Factory{
	DefaultDriver: dialPG,
	"postgres":    SQLFactory("postgres"),
	"mysql":       SQLFactory("mysql"),
	"sqlite3":     SQLFactory("sqlite3"),
}

// Register makes a backend available under name, replacing any previous one.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// Drivers lists the registered backend names.
func Drivers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Connect opens a session through the named backend.
func Connect(ctx context.Context, driver, conninfo string) (core.Session, error) {
	if driver == "" {
		driver = DefaultDriver
	}
	factory, ok := registry[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
	return factory(ctx, conninfo)
}

// normalizeDSN disables SSL for lib/pq unless the DSN says otherwise.
// lib/pq defaults to sslmode=require, which local servers rarely offer.
func normalizeDSN(dsn string) string {
	if strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
		return u.String()
	}
	return strings.TrimSpace(dsn + " sslmode=disable")
}
