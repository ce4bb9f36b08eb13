package pgcursor

import (
	"database/sql"
	"fmt"

	"github.com/TechXTT/pgcursor/internal/core"
)

// Shape selects how a row is returned.
type Shape int

const (
	// ShapeNone asks Step for no row data, only whether a row exists.
	ShapeNone Shape = iota
	// ShapeVector returns the row as values in field order.
	ShapeVector
	// ShapeHash returns the row keyed by field name.
	ShapeHash
)

func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeVector:
		return "vector"
	case ShapeHash:
		return "hash"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape maps a shape name to a Shape. The empty string is ShapeNone.
func ParseShape(name string) (Shape, error) {
	switch name {
	case "", "none":
		return ShapeNone, nil
	case "vector":
		return ShapeVector, nil
	case "hash":
		return ShapeHash, nil
	}
	return ShapeNone, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Row is one row of a Result. Values is set for ShapeVector and Fields for
// ShapeHash. A NULL cell is a NullString with Valid false; every other cell
// is the server's text, unconverted.
type Row struct {
	Shape  Shape
	Values []sql.NullString
	Fields map[string]sql.NullString
}

func cell(t *core.Tuples, row, col int) sql.NullString {
	if t.IsNull(row, col) {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Text(row, col), Valid: true}
}

func vectorOf(t *core.Tuples, row int) []sql.NullString {
	values := make([]sql.NullString, t.NumFields())
	for i := range values {
		values[i] = cell(t, row, i)
	}
	return values
}

// hashOf keys cells by field name; with duplicate names the last column wins.
func hashOf(t *core.Tuples, row int) map[string]sql.NullString {
	fields := make(map[string]sql.NullString, t.NumFields())
	for i, name := range t.Fields {
		fields[name] = cell(t, row, i)
	}
	return fields
}

func rowOf(t *core.Tuples, row int, shape Shape) (Row, error) {
	switch shape {
	case ShapeVector:
		return Row{Shape: shape, Values: vectorOf(t, row)}, nil
	case ShapeHash:
		return Row{Shape: shape, Fields: hashOf(t, row)}, nil
	}
	return Row{}, fmt.Errorf("%w: %v", ErrUnknownFormat, shape)
}
