package host

import (
	"context"
	"database/sql"
	"errors"

	"github.com/TechXTT/pgcursor"
)

// TypeTag names a handle type for host code.
type TypeTag struct {
	Name string
}

func (t *TypeTag) String() string { return t.Name }

var (
	ConnectionType = &TypeTag{Name: "pg:connection"}
	ResultType     = &TypeTag{Name: "pg:result"}
)

// TypeOf returns the tag of a handle, or nil for any other value.
func TypeOf(v any) *TypeTag {
	switch v.(type) {
	case *pgcursor.Conn:
		return ConnectionType
	case *pgcursor.Result:
		return ResultType
	}
	return nil
}

// Register defines the postgres primitives and handle types in env. opts
// are applied to every pg:connect.
func Register(env *Env, opts ...pgcursor.Option) {
	env.Provide("postgres")

	env.Define("pg:<connection>", ConnectionType)
	env.Define("pg:<result>", ResultType)

	env.Define("pg:connect", Primitive(func(ctx context.Context, list []any) (any, error) {
		a := &args{op: "pg:connect", list: list}
		conninfo := a.optStr("")
		if err := a.end(); err != nil {
			return nil, err
		}
		conn, err := pgcursor.Connect(ctx, conninfo, opts...)
		if err != nil {
			return nil, err
		}
		return conn, nil
	}))

	env.Define("pg:finish", Primitive(func(ctx context.Context, list []any) (any, error) {
		a := &args{op: "pg:finish", list: list}
		conn := a.conn()
		if err := a.end(); err != nil {
			return nil, err
		}
		return nil, conn.Close(ctx)
	}))

	env.Define("pg:exec", Primitive(func(ctx context.Context, list []any) (any, error) {
		a := &args{op: "pg:exec", list: list}
		conn := a.conn()
		command := a.str()
		if err := a.end(); err != nil {
			return nil, err
		}
		res, err := conn.Exec(ctx, command)
		if err != nil || res == nil {
			return nil, err
		}
		return res, nil
	}))

	env.Define("pg:step", Primitive(func(_ context.Context, list []any) (any, error) {
		a := &args{op: "pg:step", list: list}
		res := a.result()
		shape, formatErr := a.laxShape()
		if err := a.end(); err != nil {
			return nil, err
		}
		// The cursor moves before the format is checked, so stepping past
		// the last row closes the result whatever the format.
		row, ok, err := res.Step(shape)
		if err != nil || !ok {
			return nil, err
		}
		if formatErr != nil {
			return nil, formatErr
		}
		if shape == pgcursor.ShapeNone {
			return true, nil
		}
		return fromRow(row), nil
	}))

	env.Define("pg:get-row", Primitive(func(_ context.Context, list []any) (any, error) {
		a := &args{op: "pg:get-row", list: list}
		res := a.result()
		shape := a.shape()
		if err := a.end(); err != nil {
			return nil, err
		}
		row, ok, err := res.CurrentRow(shape)
		if err != nil || !ok {
			return nil, err
		}
		return fromRow(row), nil
	}))

	env.Define("pg:get-names", Primitive(func(_ context.Context, list []any) (any, error) {
		a := &args{op: "pg:get-names", list: list}
		res := a.result()
		if err := a.end(); err != nil {
			return nil, err
		}
		names, ok, err := res.FieldNames()
		if err != nil || !ok {
			return nil, err
		}
		vec := make([]any, len(names))
		for i, name := range names {
			vec[i] = name
		}
		return vec, nil
	}))

	env.Define("pg:get-value", Primitive(func(_ context.Context, list []any) (any, error) {
		a := &args{op: "pg:get-value", list: list}
		res := a.result()
		column := a.integer()
		row := a.optInt(-1)
		if err := a.end(); err != nil {
			return nil, err
		}
		if len(list) < 3 {
			row = res.Cursor()
		}
		v, err := res.ValueAt(row, column)
		if err != nil {
			return nil, err
		}
		return fromValue(v), nil
	}))

	env.Define("pg:close-result", Primitive(func(_ context.Context, list []any) (any, error) {
		a := &args{op: "pg:close-result", list: list}
		res := a.result()
		if err := a.end(); err != nil {
			return nil, err
		}
		return nil, res.Close()
	}))
}

func fromValue(v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	return v.String
}

func fromRow(row pgcursor.Row) any {
	switch row.Shape {
	case pgcursor.ShapeHash:
		hash := make(map[Symbol]any, len(row.Fields))
		for name, v := range row.Fields {
			hash[Symbol(name)] = fromValue(v)
		}
		return hash
	default:
		vec := make([]any, len(row.Values))
		for i, v := range row.Values {
			vec[i] = fromValue(v)
		}
		return vec
	}
}

var tags = []struct {
	err error
	tag string
}{
	{ErrNotConnection, "postgres:not-a-connection"},
	{ErrNotResult, "postgres:not-a-result"},
	{pgcursor.ErrConnectionClosed, "postgres:connection-already-closed"},
	{pgcursor.ErrResultClosed, "postgres:result-already-closed"},
	{pgcursor.ErrCannotConnect, "postgres:cannot-connect"},
	{pgcursor.ErrNoResult, "postgres:could-not-create-result-object"},
	{pgcursor.ErrCopyNotSupported, "postgres:copy-not-supported"},
	{pgcursor.ErrQuery, "postgres:error"},
	{pgcursor.ErrUnknownFormat, "postgres:unknown-format"},
	{pgcursor.ErrRowOutOfRange, "postgres:row-number-out-of-range"},
	{pgcursor.ErrColumnOutOfRange, "postgres:column-number-out-of-range"},
	{pgcursor.ErrTypeMismatch, "postgres:wrong-type"},
	{ErrArity, "host:wrong-number-of-arguments"},
	{ErrUnbound, "host:unbound"},
	{ErrNotCallable, "host:not-callable"},
}

// Tag names the host signal raised for err, or "" when err is nil.
func Tag(err error) string {
	if err == nil {
		return ""
	}
	for _, t := range tags {
		if errors.Is(err, t.err) {
			return t.tag
		}
	}
	return "host:error"
}
