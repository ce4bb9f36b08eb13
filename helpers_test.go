package pgcursor_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/TechXTT/pgcursor"
	"github.com/TechXTT/pgcursor/pkg/runtime"
)

var quiet = pgcursor.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

// fakeSession answers commands from canned results.
type fakeSession struct {
	results  map[string]*pgcursor.Tuples
	errs     map[string]error
	closed   int
	closeErr error
}

func (f *fakeSession) Exec(_ context.Context, command string) (*pgcursor.Tuples, error) {
	return f.results[command], f.errs[command]
}

func (f *fakeSession) Close(context.Context) error {
	f.closed++
	return f.closeErr
}

func text(s string) []byte { return []byte(s) }

// usersTuples has a NULL in the second row.
func usersTuples() *pgcursor.Tuples {
	return &pgcursor.Tuples{
		Status:     pgcursor.StatusTuplesOK,
		CommandTag: "SELECT 2",
		Fields:     []string{"id", "username", "email"},
		Rows: [][][]byte{
			{text("1"), text("TechXT"), text("techxt@example.com")},
			{text("2"), text(""), nil},
		},
	}
}

func openFake(results map[string]*pgcursor.Tuples) (*pgcursor.Conn, *fakeSession) {
	s := &fakeSession{results: results, errs: map[string]error{}}
	return pgcursor.Open(s, quiet), s
}

func openUsers(t *testing.T) *pgcursor.Result {
	t.Helper()
	conn, _ := openFake(map[string]*pgcursor.Tuples{"SELECT * FROM users": usersTuples()})
	res, err := conn.Exec(context.Background(), "SELECT * FROM users")
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

// openMock opens a Conn on the database/sql backend over go-sqlmock.
func openMock(t *testing.T) (*pgcursor.Conn, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	s, err := runtime.NewSQLSession(context.Background(), sqlx.NewDb(mockDB, "sqlmock"))
	require.NoError(t, err)
	return pgcursor.Open(s, quiet), mock
}
