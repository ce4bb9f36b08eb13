package pgcursor_test

import (
	"database/sql"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechXTT/pgcursor"
)

func TestParseShape(t *testing.T) {
	for name, want := range map[string]pgcursor.Shape{
		"":       pgcursor.ShapeNone,
		"none":   pgcursor.ShapeNone,
		"vector": pgcursor.ShapeVector,
		"hash":   pgcursor.ShapeHash,
	} {
		got, err := pgcursor.ParseShape(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		if name != "" {
			assert.Equal(t, name, got.String())
		}
	}

	_, err := pgcursor.ParseShape("list")
	require.ErrorIs(t, err, pgcursor.ErrUnknownFormat)
}

func TestResult_StepUntilExhausted(t *testing.T) {
	res := openUsers(t)

	steps := 0
	for {
		_, ok, err := res.Step(pgcursor.ShapeNone)
		require.NoError(t, err)
		if !ok {
			break
		}
		steps++
		assert.Equal(t, steps-1, res.Cursor())
	}
	assert.Equal(t, 2, steps)
	assert.False(t, res.IsOpen())
	assert.Equal(t, 0, res.NumRows())

	_, _, err := res.Step(pgcursor.ShapeNone)
	require.ErrorIs(t, err, pgcursor.ErrResultClosed)
	_, err = res.ValueAt(0, 0)
	require.ErrorIs(t, err, pgcursor.ErrResultClosed)
	require.ErrorIs(t, res.Close(), pgcursor.ErrResultClosed)
}

func TestResult_StepVector(t *testing.T) {
	res := openUsers(t)

	want := [][]sql.NullString{
		{{String: "1", Valid: true}, {String: "TechXT", Valid: true}, {String: "techxt@example.com", Valid: true}},
		{{String: "2", Valid: true}, {String: "", Valid: true}, {}},
	}
	for _, values := range want {
		row, ok, err := res.Step(pgcursor.ShapeVector)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, pgcursor.ShapeVector, row.Shape)
		require.Len(t, row.Values, res.NumFields())
		if diff := cmp.Diff(values, row.Values); diff != "" {
			t.Fatalf("row mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestResult_StepHash(t *testing.T) {
	res := openUsers(t)

	_, _, err := res.Step(pgcursor.ShapeNone)
	require.NoError(t, err)
	row, ok, err := res.Step(pgcursor.ShapeHash)
	require.NoError(t, err)
	require.True(t, ok)
	require.Nil(t, row.Values)

	names, ok, err := res.FieldNames()
	require.NoError(t, err)
	require.True(t, ok)

	keys := make([]string, 0, len(row.Fields))
	for k := range row.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.Strings(names)
	assert.Equal(t, names, keys)

	assert.Equal(t, sql.NullString{String: "2", Valid: true}, row.Fields["id"])
	assert.Equal(t, sql.NullString{String: "", Valid: true}, row.Fields["username"])
	assert.False(t, row.Fields["email"].Valid)
}

func TestResult_StepUnknownShape(t *testing.T) {
	res := openUsers(t)

	_, ok, err := res.Step(pgcursor.Shape(7))
	require.ErrorIs(t, err, pgcursor.ErrUnknownFormat)
	require.False(t, ok)
	assert.True(t, res.IsOpen())
}

func TestResult_CurrentRow(t *testing.T) {
	res := openUsers(t)

	_, ok, err := res.CurrentRow(pgcursor.ShapeVector)
	require.NoError(t, err)
	require.False(t, ok, "no row before the first step")

	_, ok, err = res.CurrentRow(pgcursor.ShapeHash)
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = res.CurrentRow(pgcursor.Shape(-1))
	require.ErrorIs(t, err, pgcursor.ErrUnknownFormat)

	_, _, err = res.Step(pgcursor.ShapeNone)
	require.NoError(t, err)

	row, ok, err := res.CurrentRow(pgcursor.ShapeNone)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pgcursor.ShapeVector, row.Shape)
	assert.Equal(t, "TechXT", row.Values[1].String)

	// reading does not move the cursor
	again, _, err := res.CurrentRow(pgcursor.ShapeVector)
	require.NoError(t, err)
	assert.Equal(t, row, again)
	assert.Equal(t, 0, res.Cursor())
}

func TestResult_FieldNames(t *testing.T) {
	res := openUsers(t)

	names, ok, err := res.FieldNames()
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, names)

	_, _, err = res.Step(pgcursor.ShapeNone)
	require.NoError(t, err)
	names, ok, err = res.FieldNames()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "username", "email"}, names)
}

func TestResult_Value(t *testing.T) {
	res := openUsers(t)

	v, err := res.ValueAt(0, 2)
	require.NoError(t, err)
	assert.Equal(t, sql.NullString{String: "techxt@example.com", Valid: true}, v)

	v, err = res.ValueAt(1, 2)
	require.NoError(t, err)
	assert.False(t, v.Valid)

	v, err = res.ValueAt(1, 1)
	require.NoError(t, err)
	assert.Equal(t, sql.NullString{String: "", Valid: true}, v)

	_, _, err = res.Step(pgcursor.ShapeNone)
	require.NoError(t, err)
	v, err = res.Value(1)
	require.NoError(t, err)
	assert.Equal(t, "TechXT", v.String)
}

func TestResult_ValueOutOfRange(t *testing.T) {
	res := openUsers(t)

	tests := []struct {
		name   string
		row    int
		column int
		target error
		want   pgcursor.RangeError
	}{
		{"negative row", -1, 0, pgcursor.ErrRowOutOfRange, pgcursor.RangeError{Axis: pgcursor.AxisRow, Index: -1, Bound: 2}},
		{"row at bound", 2, 0, pgcursor.ErrRowOutOfRange, pgcursor.RangeError{Axis: pgcursor.AxisRow, Index: 2, Bound: 2}},
		{"negative column", 0, -1, pgcursor.ErrColumnOutOfRange, pgcursor.RangeError{Axis: pgcursor.AxisColumn, Index: -1, Bound: 3}},
		{"column at bound", 1, 3, pgcursor.ErrColumnOutOfRange, pgcursor.RangeError{Axis: pgcursor.AxisColumn, Index: 3, Bound: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := res.ValueAt(tt.row, tt.column)
			require.ErrorIs(t, err, tt.target)
			var rerr *pgcursor.RangeError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.want, *rerr)
		})
	}

	// before the first step the cursor row is out of range
	_, err := res.Value(0)
	require.ErrorIs(t, err, pgcursor.ErrRowOutOfRange)
}

func TestResult_CloseTwice(t *testing.T) {
	res := openUsers(t)

	require.NoError(t, res.Close())
	assert.False(t, res.IsOpen())
	require.ErrorIs(t, res.Close(), pgcursor.ErrResultClosed)

	_, _, err := res.CurrentRow(pgcursor.ShapeVector)
	require.ErrorIs(t, err, pgcursor.ErrResultClosed)
	_, _, err = res.FieldNames()
	require.ErrorIs(t, err, pgcursor.ErrResultClosed)
}
