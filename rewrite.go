package veloxqb

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

	"github.com/syssam/veloxqb/internal/sqltext"
)

// inlineParameters replaces every @N marker outside quoted text and
// comments with the T-SQL literal of parameter N. Markers preceded by an
// identifier character or another @ (as in @@ROWCOUNT) are left alone.
func inlineParameters(query string, params []any) (string, error) {
	masked := sqltext.Mask(query, false)
	var (
		b    strings.Builder
		last int
	)
	b.Grow(len(query))
	for i := 0; i < len(masked); i++ {
		if masked[i] != '@' || (i > 0 && isWordByte(masked[i-1])) {
			continue
		}
		j := i + 1
		for j < len(masked) && masked[j] >= '0' && masked[j] <= '9' {
			j++
		}
		if j == i+1 || (j < len(masked) && isWordByte(masked[j])) {
			continue
		}
		n, err := strconv.Atoi(masked[i+1 : j])
		if err != nil || n < 1 || n > len(params) {
			return "", fmt.Errorf("veloxqb: no parameter for marker %s (%d given)", masked[i:j], len(params))
		}
		lit, err := tsqlLiteral(params[n-1])
		if err != nil {
			return "", fmt.Errorf("veloxqb: parameter %d: %w", n, err)
		}
		b.WriteString(query[last:i])
		b.WriteString(lit)
		last = j
		i = j - 1
	}
	b.WriteString(query[last:])
	return b.String(), nil
}

func isWordByte(c byte) bool {
	return c == '_' || c == '@' || c == '#' || c == '$' ||
		c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

var valuerType = reflect.TypeOf((*driver.Valuer)(nil)).Elem()

// tsqlLiteral returns the T-SQL literal of v. Strings are national
// character literals.
func tsqlLiteral(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "N'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case []byte:
		if v == nil {
			return "NULL", nil
		}
		return "0x" + hex.EncodeToString(v), nil
	case time.Time:
		return "N'" + v.Format("2006-01-02T15:04:05.9999999Z07:00") + "'", nil
	case *big.Int:
		if v == nil {
			return "NULL", nil
		}
		return v.String(), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "NULL", nil
	}
	if rv.Type().Implements(valuerType) {
		dv, err := v.(driver.Valuer).Value()
		if err != nil {
			return "", err
		}
		return tsqlLiteral(dv)
	}
	switch rv.Kind() {
	case reflect.Pointer:
		return tsqlLiteral(rv.Elem().Interface())
	case reflect.String:
		return tsqlLiteral(rv.String())
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
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("non-finite number %v", f)
		}
		return strconv.FormatFloat(f, 'g', -1, rv.Type().Bits()), nil
	default:
		return "", fmt.Errorf("unsupported parameter type %T", v)
	}
}
