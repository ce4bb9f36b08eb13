package runtime

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/TechXTT/pgcursor/internal/core"
)

const timeLayout = "2006-01-02 15:04:05.999999999Z07:00"

// sqlSession runs commands on one dedicated database/sql connection.
type sqlSession struct {
	db     *sqlx.DB
	conn   *sqlx.Conn
	render renderFunc
}

// renderFunc turns one scanned value into cell text. dbType is the
// driver's name for the column type, "" when the driver has none.
type renderFunc func(v any, dbType string) []byte

var _ core.Session = (*sqlSession)(nil)

// SQLFactory returns a Factory for a registered database/sql driver.
func SQLFactory(driverName string) Factory {
	return func(ctx context.Context, conninfo string) (core.Session, error) {
		if driverName == "postgres" {
			conninfo = normalizeDSN(conninfo)
		}
		db, err := sqlx.Open(driverName, conninfo)
		if err != nil {
			return nil, err
		}
		s, err := NewSQLSession(ctx, db)
		if err != nil {
			return nil, errors.Join(err, db.Close())
		}
		return s, nil
	}
}

// NewSQLSession takes one connection out of db. The session owns db and
// closes it on Close. On the postgres driver cells are rendered back into
// the server's text form from their column type.
func NewSQLSession(ctx context.Context, db *sqlx.DB) (core.Session, error) {
	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	s := &sqlSession{db: db, conn: conn, render: genericText}
	if db.DriverName() == "postgres" {
		s.render = pgText
	}
	return s, nil
}

func (s *sqlSession) Exec(ctx context.Context, command string) (*core.Tuples, error) {
	if len(core.Statements(command)) == 0 {
		return &core.Tuples{Status: core.StatusEmptyQuery}, nil
	}
	if dir := core.CopyDirection(command); dir != core.StatusCommandOK {
		return &core.Tuples{Status: dir}, nil
	}

	rows, err := s.conn.QueryxContext(ctx, command)
	if err != nil {
		return failed(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return failed(err)
	}
	if len(cols) == 0 {
		for rows.Next() {
		}
		if err := rows.Err(); err != nil {
			return failed(err)
		}
		return &core.Tuples{Status: core.StatusCommandOK}, nil
	}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return failed(err)
	}
	dbTypes := make([]string, len(colTypes))
	for i, ct := range colTypes {
		dbTypes[i] = ct.DatabaseTypeName()
	}

	t := &core.Tuples{Status: core.StatusTuplesOK, Fields: cols}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return failed(err)
		}
		row := make([][]byte, len(values))
		for i, v := range values {
			row[i] = s.render(v, dbTypes[i])
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return failed(err)
	}
	return t, nil
}

func (s *sqlSession) Close(ctx context.Context) error {
	return errors.Join(s.conn.Close(), s.db.Close())
}

// failed turns a driver error into an error result. A lost connection
// yields no result at all.
func failed(err error) (*core.Tuples, error) {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return nil, err
	}
	return &core.Tuples{Status: core.StatusFatalError, Message: errorMessage(err)}, nil
}

func errorMessage(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Message
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Message
	}
	return err.Error()
}

func genericText(v any, _ string) []byte { return textOf(v) }

// textOf renders a scanned driver value with no column type to go on.
func textOf(v any) []byte {
	switch v := v.(type) {
	case nil:
		return nil
	case []byte:
		return append([]byte{}, v...)
	case string:
		return append([]byte{}, v...)
	case int64:
		return strconv.AppendInt(nil, v, 10)
	case float64:
		return strconv.AppendFloat(nil, v, 'g', -1, 64)
	case bool:
		if v {
			return []byte("t")
		}
		return []byte("f")
	case time.Time:
		return []byte(v.Format(timeLayout))
	default:
		return []byte(fmt.Sprint(v))
	}
}
