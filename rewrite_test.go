package veloxqb

import (
	"database/sql"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInlineParameters(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		params []any
		want   string
	}{
		{
			name:   "basic",
			query:  "select * from [person] where [id] = @1 and [name] = @2",
			params: []any{1, "Ada"},
			want:   "select * from [person] where [id] = 1 and [name] = N'Ada'",
		},
		{
			name:   "repeated",
			query:  "select @1, @1",
			params: []any{"x"},
			want:   "select N'x', N'x'",
		},
		{
			name:   "double digits",
			query:  "values (@1, @2, @3, @4, @5, @6, @7, @8, @9, @10)",
			params: []any{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			want:   "values (1, 2, 3, 4, 5, 6, 7, 8, 9, 10)",
		},
		{
			name:   "quote escaping",
			query:  "insert into [t] ([s]) values (@1)",
			params: []any{"O'Brien"},
			want:   "insert into [t] ([s]) values (N'O''Brien')",
		},
		{
			name:   "markers in literals and comments",
			query:  "select '@1', [@1], @1 -- @2\n/* @2 */",
			params: []any{true},
			want:   "select '@1', [@1], 1 -- @2\n/* @2 */",
		},
		{
			name:   "system variables and names",
			query:  "select @@ROWCOUNT, @p1, a@1, @1x, @1",
			params: []any{nil},
			want:   "select @@ROWCOUNT, @p1, a@1, @1x, NULL",
		},
		{
			name:  "no markers",
			query: "select 1",
			want:  "select 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := inlineParameters(tt.query, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing parameter", func(t *testing.T) {
		_, err := inlineParameters("select @1, @3", []any{1, 2})
		require.EqualError(t, err, "veloxqb: no parameter for marker @3 (2 given)")
		_, err = inlineParameters("select @0", []any{1})
		require.Error(t, err)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := inlineParameters("select @1", []any{struct{}{}})
		require.EqualError(t, err, "veloxqb: parameter 1: unsupported parameter type struct {}")
	})
}

func TestTSQLLiteral(t *testing.T) {
	type name string
	s := "ptr"
	var nilPtr *int
	huge, _ := new(big.Int).SetString("98765432109876543210", 10)
	tests := []struct {
		v    any
		want string
	}{
		{nil, "NULL"},
		{"a'b", "N'a''b'"},
		{name("named"), "N'named'"},
		{&s, "N'ptr'"},
		{nilPtr, "NULL"},
		{[]byte{0xca, 0xfe}, "0xcafe"},
		{[]byte(nil), "NULL"},
		{true, "1"},
		{false, "0"},
		{-12, "-12"},
		{uint64(math.MaxUint64), "18446744073709551615"},
		{1.25, "1.25"},
		{float32(0.5), "0.5"},
		{huge, "98765432109876543210"},
		{time.Date(2024, 1, 2, 3, 4, 5, 600, time.UTC), "N'2024-01-02T03:04:05.0000006Z'"},
		{sql.NullString{String: "v", Valid: true}, "N'v'"},
		{sql.NullInt64{}, "NULL"},
		{&sql.NullInt64{Int64: 9, Valid: true}, "9"},
	}
	for _, tt := range tests {
		got, err := tsqlLiteral(tt.v)
		require.NoError(t, err, "%#v", tt.v)
		assert.Equal(t, tt.want, got, "%#v", tt.v)
	}

	_, err := tsqlLiteral(math.Inf(-1))
	require.Error(t, err)
	_, err = tsqlLiteral(map[string]any{})
	require.Error(t, err)
}
