// File: internal/core/session.go
package core

import "context"

// Status is the outcome class of a command sent to a session.
type Status int

const (
	StatusEmptyQuery Status = iota
	StatusCommandOK
	StatusTuplesOK
	StatusCopyOut
	StatusCopyIn
	StatusBadResponse
	StatusNonfatalError
	StatusFatalError
)

var statusNames = [...]string{
	StatusEmptyQuery:    "PGRES_EMPTY_QUERY",
	StatusCommandOK:     "PGRES_COMMAND_OK",
	StatusTuplesOK:      "PGRES_TUPLES_OK",
	StatusCopyOut:       "PGRES_COPY_OUT",
	StatusCopyIn:        "PGRES_COPY_IN",
	StatusBadResponse:   "PGRES_BAD_RESPONSE",
	StatusNonfatalError: "PGRES_NONFATAL_ERROR",
	StatusFatalError:    "PGRES_FATAL_ERROR",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "PGRES_UNKNOWN"
	}
	return statusNames[s]
}

// Tuples is the native result of one command. Rows hold the text form of
// every cell; a nil cell is SQL NULL.
type Tuples struct {
	Status     Status
	CommandTag string
	Message    string
	Fields     []string
	Rows       [][][]byte
}

func (t *Tuples) NumRows() int   { return len(t.Rows) }
func (t *Tuples) NumFields() int { return len(t.Fields) }

func (t *Tuples) IsNull(row, col int) bool {
	return t.Rows[row][col] == nil
}

func (t *Tuples) Text(row, col int) string {
	return string(t.Rows[row][col])
}

// Session is one live connection to a database server.
type Session interface {
	// Exec sends command and returns its result. A nil Tuples means no
	// result object could be produced at all; err then says why. A
	// non-nil Tuples always comes with a nil error.
	Exec(ctx context.Context, command string) (*Tuples, error)

	Close(ctx context.Context) error
}
