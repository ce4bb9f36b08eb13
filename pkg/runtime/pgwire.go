package runtime

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/TechXTT/pgcursor/internal/core"
)

type pgSession struct {
	conn *pgconn.PgConn
}

var _ core.Session = (*pgSession)(nil)

func dialPG(ctx context.Context, conninfo string) (core.Session, error) {
	conn, err := pgconn.Connect(ctx, conninfo)
	if err != nil {
		return nil, err
	}
	return &pgSession{conn: conn}, nil
}

// Exec runs command over the simple query protocol. Like PQexec, only the
// last result of a multi-statement command is kept.
func (s *pgSession) Exec(ctx context.Context, command string) (*core.Tuples, error) {
	if s.conn.IsClosed() {
		return nil, errors.New("connection is closed")
	}
	if dir := core.CopyDirection(command); dir != core.StatusCommandOK {
		return &core.Tuples{Status: dir}, nil
	}

	var last *core.Tuples
	mrr := s.conn.Exec(ctx, command)
	for mrr.NextResult() {
		last = readResult(mrr.ResultReader())
	}
	if err := mrr.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return &core.Tuples{Status: core.StatusFatalError, Message: pgErr.Error()}, nil
		}
		if s.conn.IsClosed() {
			return nil, err
		}
		return &core.Tuples{Status: core.StatusFatalError, Message: err.Error()}, nil
	}
	if last == nil {
		return &core.Tuples{Status: core.StatusEmptyQuery}, nil
	}
	return last, nil
}

// readResult drains one statement's rows. Cells are copied since the reader
// reuses its buffers; nil cells stay nil so NULL survives.
func readResult(rr *pgconn.ResultReader) *core.Tuples {
	fds := rr.FieldDescriptions()
	t := &core.Tuples{Fields: make([]string, len(fds))}
	for i, fd := range fds {
		t.Fields[i] = fd.Name
	}
	for rr.NextRow() {
		values := rr.Values()
		row := make([][]byte, len(values))
		for i, v := range values {
			if v != nil {
				row[i] = append([]byte{}, v...)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	tag, err := rr.Close()
	if err != nil {
		// mrr.Close reports the same error.
		t.Status = core.StatusFatalError
		t.Message = err.Error()
		return t
	}

	t.CommandTag = tag.String()
	switch {
	case t.CommandTag == "" && len(fds) == 0:
		t.Status = core.StatusEmptyQuery
	case len(fds) > 0 || tag.Select():
		t.Status = core.StatusTuplesOK
	default:
		t.Status = core.StatusCommandOK
		t.Fields = nil
	}
	return t
}

func (s *pgSession) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}
