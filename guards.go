package veloxqb

import (
	"math"
	"math/big"
	"reflect"
)

// asFiniteInteger returns v as an integer. It accepts values of any Go
// integer kind, a non-nil *big.Int and finite floats without a fractional
// part. Everything else, NaN and infinities included, is rejected.
func asFiniteInteger(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case nil:
		return nil, false
	case *big.Int:
		if n == nil {
			return nil, false
		}
		return new(big.Int).Set(n), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, false
		}
		i, _ := big.NewFloat(f).Int(nil)
		return i, true
	default:
		return nil, false
	}
}

// asPlainRecord returns v as a record. Only non-nil map[string]any values
// are records; slices, structs and other maps are not.
func asPlainRecord(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return nil, false
	}
	return m, true
}

// integer returns v as an integer, or nil.
func integer(v any) *big.Int {
	n, _ := asFiniteInteger(v)
	return n
}

// field returns the integer stored under key when v is a record, or nil.
func field(v any, key string) *big.Int {
	m, ok := asPlainRecord(v)
	if !ok {
		return nil
	}
	return integer(m[key])
}

// integerOrField returns v as an integer, or else the integer stored under key.
func integerOrField(v any, key string) *big.Int {
	if n, ok := asFiniteInteger(v); ok {
		return n
	}
	return field(v, key)
}
