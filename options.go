package pgcursor

import (
	"log/slog"

	"github.com/TechXTT/pgcursor/pkg/runtime"
)

type options struct {
	driver string
	logger *slog.Logger
}

// Option configures Connect and Open.
type Option func(*options)

// WithDriver selects the session backend. See runtime.Drivers.
func WithDriver(name string) Option {
	return func(o *options) { o.driver = name }
}

// WithLogger sets the logger for the handles; defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{driver: runtime.DefaultDriver}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
