package pgcursor

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TechXTT/pgcursor/internal/core"
)

const beforeFirstRow = -1

// Result is a fully buffered tuple set with a row cursor. It does not
// reference the Conn that produced it and stays usable after that Conn is
// closed. It is not safe for concurrent use.
type Result struct {
	id     string
	tuples *core.Tuples
	open   bool
	row    int
	tag    string
	logger *slog.Logger
}

func newResult(t *core.Tuples, logger *slog.Logger) *Result {
	id := uuid.NewString()
	r := &Result{
		id:     id,
		tuples: t,
		open:   true,
		row:    beforeFirstRow,
		tag:    t.CommandTag,
		logger: logger.With("result", id),
	}
	setFinalizer(r, (*Result).finalize)
	r.logger.Debug("result opened", "rows", t.NumRows(), "fields", t.NumFields())
	return r
}

func (r *Result) ID() string         { return r.id }
func (r *Result) IsOpen() bool       { return r.open }
func (r *Result) CommandTag() string { return r.tag }

// Cursor is the current row index, -1 before the first Step.
func (r *Result) Cursor() int { return r.row }

// NumRows is 0 once the result is closed.
func (r *Result) NumRows() int {
	if r.tuples == nil {
		return 0
	}
	return r.tuples.NumRows()
}

// NumFields is 0 once the result is closed.
func (r *Result) NumFields() int {
	if r.tuples == nil {
		return 0
	}
	return r.tuples.NumFields()
}

// Step advances the cursor. When the cursor moves past the last row the
// result closes itself and Step reports false. With ShapeNone the returned
// Row carries no data.
func (r *Result) Step(shape Shape) (Row, bool, error) {
	if !r.open {
		return Row{}, false, ErrResultClosed
	}

	r.row++
	if r.row >= r.tuples.NumRows() {
		r.logger.Debug("result exhausted")
		r.release()
		return Row{}, false, nil
	}
	if shape == ShapeNone {
		return Row{Shape: ShapeNone}, true, nil
	}
	row, err := rowOf(r.tuples, r.row, shape)
	if err != nil {
		return Row{}, false, err
	}
	return row, true, nil
}

// CurrentRow returns the row under the cursor without moving it. ShapeNone
// means ShapeVector. Before the first Step it reports false.
func (r *Result) CurrentRow(shape Shape) (Row, bool, error) {
	if !r.open {
		return Row{}, false, ErrResultClosed
	}
	if shape == ShapeNone {
		shape = ShapeVector
	}
	if shape != ShapeVector && shape != ShapeHash {
		return Row{}, false, fmt.Errorf("%w: %v", ErrUnknownFormat, shape)
	}
	if r.row == beforeFirstRow {
		return Row{}, false, nil
	}
	row, err := rowOf(r.tuples, r.row, shape)
	if err != nil {
		return Row{}, false, err
	}
	return row, true, nil
}

// FieldNames lists the field names in order. Before the first Step it
// reports false.
func (r *Result) FieldNames() ([]string, bool, error) {
	if !r.open {
		return nil, false, ErrResultClosed
	}
	if r.row == beforeFirstRow {
		return nil, false, nil
	}
	names := make([]string, len(r.tuples.Fields))
	copy(names, r.tuples.Fields)
	return names, true, nil
}

// Value returns column of the row under the cursor.
func (r *Result) Value(column int) (sql.NullString, error) {
	return r.ValueAt(r.row, column)
}

// ValueAt returns one cell by absolute row and column. It does not look at
// or move the cursor.
func (r *Result) ValueAt(row, column int) (sql.NullString, error) {
	if !r.open {
		return sql.NullString{}, ErrResultClosed
	}
	if n := r.tuples.NumRows(); row < 0 || row >= n {
		return sql.NullString{}, &RangeError{Axis: AxisRow, Index: row, Bound: n}
	}
	if n := r.tuples.NumFields(); column < 0 || column >= n {
		return sql.NullString{}, &RangeError{Axis: AxisColumn, Index: column, Bound: n}
	}
	return cell(r.tuples, row, column), nil
}

// Close releases the tuple set. Closing twice returns ErrResultClosed.
func (r *Result) Close() error {
	if !r.open {
		return ErrResultClosed
	}
	r.logger.Debug("result closed")
	r.release()
	return nil
}

func (r *Result) release() {
	r.open = false
	r.tuples = nil
	clearFinalizer(r)
}

func (r *Result) finalize() {
	if !r.open {
		return
	}
	r.logger.Warn("result collected while open")
	r.open = false
	r.tuples = nil
}
