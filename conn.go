package pgcursor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TechXTT/pgcursor/internal/core"
	"github.com/TechXTT/pgcursor/pkg/runtime"
)

// Session is a live connection to a database server. Backends live in
// pkg/runtime; Open accepts any implementation.
type Session = core.Session

// Tuples is the native result a Session hands back for one command.
type Tuples = core.Tuples

// Status classifies a Tuples.
type Status = core.Status

const (
	StatusEmptyQuery    = core.StatusEmptyQuery
	StatusCommandOK     = core.StatusCommandOK
	StatusTuplesOK      = core.StatusTuplesOK
	StatusCopyOut       = core.StatusCopyOut
	StatusCopyIn        = core.StatusCopyIn
	StatusBadResponse   = core.StatusBadResponse
	StatusNonfatalError = core.StatusNonfatalError
	StatusFatalError    = core.StatusFatalError
)

// Conn is a connection handle. It is not safe for concurrent use.
type Conn struct {
	id      string
	session Session
	open    bool
	tag     string
	logger  *slog.Logger
}

// Connect opens a session described by conninfo. An empty conninfo uses the
// backend's defaults (for the pgx backend: the PG* environment variables).
func Connect(ctx context.Context, conninfo string, opts ...Option) (*Conn, error) {
	o := buildOptions(opts)
	s, err := runtime.Connect(ctx, o.driver, conninfo)
	if err != nil {
		o.logger.Debug("connect failed", "driver", o.driver, "err", err)
		return nil, &ConnectError{Message: err.Error(), Err: err}
	}
	return newConn(s, o), nil
}

// Open wraps an already established session.
func Open(s Session, opts ...Option) *Conn {
	return newConn(s, buildOptions(opts))
}

func newConn(s Session, o options) *Conn {
	id := uuid.NewString()
	c := &Conn{
		id:      id,
		session: s,
		open:    true,
		logger:  o.logger.With("conn", id),
	}
	setFinalizer(c, (*Conn).finalize)
	c.logger.Debug("connection opened", "driver", o.driver)
	return c
}

func (c *Conn) ID() string   { return c.id }
func (c *Conn) IsOpen() bool { return c.open }

// CommandTag is the tag of the last command Exec ran, such as
// "CREATE TABLE" or "INSERT 0 1". It is empty when the backend reports none
// or the last Exec produced no result object.
func (c *Conn) CommandTag() string { return c.tag }

// Close releases the session. Closing twice returns ErrConnectionClosed.
func (c *Conn) Close(ctx context.Context) error {
	if !c.open {
		return ErrConnectionClosed
	}
	c.open = false
	clearFinalizer(c)
	c.logger.Debug("connection closed")
	if err := c.session.Close(ctx); err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}

// Exec sends command to the server. Commands that produce no tuples return
// a nil Result and a nil error.
func (c *Conn) Exec(ctx context.Context, command string) (*Result, error) {
	if !c.open {
		return nil, ErrConnectionClosed
	}
	c.logger.Debug("exec", "command", command)

	c.tag = ""
	t, err := c.session.Exec(ctx, command)
	if t == nil {
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrNoResult, command, err)
		}
		return nil, fmt.Errorf("%w: %q", ErrNoResult, command)
	}
	if err != nil {
		c.logger.Warn("session returned an error along with a result", "status", t.Status, "err", err)
	}
	c.tag = t.CommandTag

	switch t.Status {
	case core.StatusEmptyQuery, core.StatusCommandOK:
		return nil, nil
	case core.StatusCopyIn, core.StatusCopyOut:
		return nil, fmt.Errorf("%w: %q", ErrCopyNotSupported, command)
	case core.StatusTuplesOK:
		return newResult(t, c.logger), nil
	default:
		return nil, &QueryError{Message: t.Message, Statement: command}
	}
}

func (c *Conn) finalize() {
	if !c.open {
		return
	}
	c.open = false
	c.logger.Warn("connection collected while open")
	if err := c.session.Close(context.Background()); err != nil {
		c.logger.Warn("close collected connection", "err", err)
	}
}
