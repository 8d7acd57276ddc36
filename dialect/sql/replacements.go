package sql

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/syssam/veloxqb/dialect"
	"github.com/syssam/veloxqb/internal/sqltext"
)

// formatReplacements substitutes each `?` marker outside quoted text and
// comments with the literal form of the corresponding value.
func formatReplacements(f dialect.Family, query string, values []any) (string, error) {
	masked := sqltext.Mask(query, f == dialect.FamilyMySQL)
	var (
		b    strings.Builder
		last int
		n    int
	)
	b.Grow(len(query))
	for i := 0; i < len(masked); i++ {
		if masked[i] != '?' {
			continue
		}
		if n == len(values) {
			return "", fmt.Errorf("dialect/sql: replacements: statement has more markers than the %d values given", len(values))
		}
		lit, err := formatValue(f, values[n])
		if err != nil {
			return "", fmt.Errorf("dialect/sql: replacements: value %d: %w", n+1, err)
		}
		b.WriteString(query[last:i])
		b.WriteString(lit)
		last = i + 1
		n++
	}
	if n != len(values) {
		return "", fmt.Errorf("dialect/sql: replacements: statement has %d markers, got %d values", n, len(values))
	}
	b.WriteString(query[last:])
	return b.String(), nil
}

var valuerType = reflect.TypeOf((*driver.Valuer)(nil)).Elem()

// formatValue returns the SQL literal of v for the given family.
func formatValue(f dialect.Family, v any) (string, error) {
	if v == nil {
		return "NULL", nil
	}
	switch v := v.(type) {
	case []byte:
		return "X'" + hex.EncodeToString(v) + "'", nil
	case time.Time:
		return quoteString(f, formatTime(f, v)), nil
	case *big.Int:
		if v == nil {
			return "NULL", nil
		}
		return v.String(), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().Implements(valuerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "NULL", nil
		}
		dv, err := v.(driver.Valuer).Value()
		if err != nil {
			return "", err
		}
		return formatValue(f, dv)
	}
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "NULL", nil
		}
		return formatValue(f, rv.Elem().Interface())
	case reflect.String:
		return quoteString(f, rv.String()), nil
	case reflect.Bool:
		if rv.Bool() {
			return "1", nil
		}
		return "0", nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		x := rv.Float()
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", fmt.Errorf("non-finite number %v", x)
		}
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}

func formatTime(f dialect.Family, t time.Time) string {
	t = t.UTC()
	if f == dialect.FamilySQLite {
		return t.Format("2006-01-02 15:04:05.000 -07:00")
	}
	return t.Format("2006-01-02 15:04:05.999999")
}

// quoteString returns s as a string literal. MySQL also escapes backslashes,
// and MSSQL literals are national (N'...').
func quoteString(f dialect.Family, s string) string {
	switch f {
	case dialect.FamilyMySQL:
		return "'" + escapeStringValue(s) + "'"
	case dialect.FamilyMSSQL:
		return "N'" + strings.ReplaceAll(s, "'", "''") + "'"
	default:
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
}

// escapeStringValue escapes a string value for safe use in MySQL.
// It escapes both single quotes (by doubling) and backslashes.
func escapeStringValue(s string) string {
	// Fast path: if no escaping needed, return as-is
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	// Escape backslashes first, then single quotes
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", "''")
	return s
}
