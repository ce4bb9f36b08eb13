package host

import (
	"fmt"

	"github.com/TechXTT/pgcursor"
)

var (
	ErrNotConnection = fmt.Errorf("%w: not a connection", pgcursor.ErrTypeMismatch)
	ErrNotResult     = fmt.Errorf("%w: not a result", pgcursor.ErrTypeMismatch)
	ErrNotString     = fmt.Errorf("%w: not a string", pgcursor.ErrTypeMismatch)
	ErrNotInteger    = fmt.Errorf("%w: not an integer", pgcursor.ErrTypeMismatch)
)

// args walks a primitive's argument list. The first failure sticks and is
// reported by end.
type args struct {
	op   string
	list []any
	pos  int
	err  error
}

func (a *args) next(optional bool) (any, bool) {
	if a.err != nil {
		return nil, false
	}
	if a.pos >= len(a.list) {
		if !optional {
			a.err = fmt.Errorf("%s: %w: missing argument %d", a.op, ErrArity, a.pos+1)
		}
		return nil, false
	}
	v := a.list[a.pos]
	a.pos++
	return v, true
}

func (a *args) fail(kind error, v any) {
	a.err = fmt.Errorf("%s: argument %d: %w: %#v", a.op, a.pos, kind, v)
}

func (a *args) conn() *pgcursor.Conn {
	v, ok := a.next(false)
	if !ok {
		return nil
	}
	c, ok := v.(*pgcursor.Conn)
	if !ok || c == nil {
		a.fail(ErrNotConnection, v)
	}
	return c
}

func (a *args) result() *pgcursor.Result {
	v, ok := a.next(false)
	if !ok {
		return nil
	}
	r, ok := v.(*pgcursor.Result)
	if !ok || r == nil {
		a.fail(ErrNotResult, v)
	}
	return r
}

func (a *args) str() string {
	v, ok := a.next(false)
	if !ok {
		return ""
	}
	return a.asString(v)
}

func (a *args) optStr(def string) string {
	v, ok := a.next(true)
	if !ok {
		return def
	}
	return a.asString(v)
}

func (a *args) asString(v any) string {
	s, ok := v.(string)
	if !ok {
		a.fail(ErrNotString, v)
	}
	return s
}

func (a *args) integer() int {
	v, ok := a.next(false)
	if !ok {
		return 0
	}
	return a.asInt(v)
}

func (a *args) optInt(def int) int {
	v, ok := a.next(true)
	if !ok {
		return def
	}
	return a.asInt(v)
}

func (a *args) asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case int32:
		return int(n)
	}
	a.fail(ErrNotInteger, v)
	return 0
}

// shape reads an optional shape symbol. Anything but nil, 'vector or 'hash
// is an unknown format.
func (a *args) shape() pgcursor.Shape {
	shape, err := a.laxShape()
	if err != nil && a.err == nil {
		a.err = err
	}
	return shape
}

// laxShape reads a shape like shape but hands an unknown format back
// instead of failing the argument walk.
func (a *args) laxShape() (pgcursor.Shape, error) {
	v, ok := a.next(true)
	if !ok || v == nil {
		return pgcursor.ShapeNone, nil
	}
	sym, isSym := v.(Symbol)
	if !isSym || (sym != "vector" && sym != "hash") {
		return pgcursor.ShapeNone, fmt.Errorf("%s: %w: %#v", a.op, pgcursor.ErrUnknownFormat, v)
	}
	shape, err := pgcursor.ParseShape(string(sym))
	if err != nil {
		return pgcursor.ShapeNone, fmt.Errorf("%s: %w", a.op, err)
	}
	return shape, nil
}

func (a *args) end() error {
	if a.err == nil && a.pos < len(a.list) {
		a.err = fmt.Errorf("%s: %w: %d extra", a.op, ErrArity, len(a.list)-a.pos)
	}
	return a.err
}
