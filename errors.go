package pgcursor

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is returned by dynamically typed callers when a value
	// of the wrong kind is passed where a handle is expected.
	ErrTypeMismatch = errors.New("wrong handle type")

	ErrConnectionClosed = errors.New("connection already closed")
	ErrResultClosed     = errors.New("result already closed")

	// ErrCannotConnect matches every *ConnectError.
	ErrCannotConnect = errors.New("cannot connect")

	// ErrNoResult means the session produced no result object at all.
	ErrNoResult = errors.New("could not create result object")

	ErrCopyNotSupported = errors.New("copy not supported")

	// ErrQuery matches every *QueryError.
	ErrQuery = errors.New("query failed")

	ErrUnknownFormat = errors.New("unknown format")

	ErrRowOutOfRange    = errors.New("row number out of range")
	ErrColumnOutOfRange = errors.New("column number out of range")
)

// ConnectError carries the driver's diagnostic when a session could not be
// established.
type ConnectError struct {
	Message string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCannotConnect, e.Message)
}

func (e *ConnectError) Unwrap() []error { return []error{ErrCannotConnect, e.Err} }

// QueryError is a command the server rejected.
type QueryError struct {
	Message   string
	Statement string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%v: %s (statement: %q)", ErrQuery, e.Message, e.Statement)
}

func (e *QueryError) Is(target error) bool { return target == ErrQuery }

// Axis names the dimension a RangeError is about.
type Axis string

const (
	AxisRow    Axis = "row"
	AxisColumn Axis = "column"
)

// RangeError reports an index outside [0, Bound).
type RangeError struct {
	Axis  Axis
	Index int
	Bound int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s number out of range: %d (bound %d)", e.Axis, e.Index, e.Bound)
}

func (e *RangeError) Is(target error) bool {
	switch e.Axis {
	case AxisRow:
		return target == ErrRowOutOfRange
	case AxisColumn:
		return target == ErrColumnOutOfRange
	}
	return false
}
