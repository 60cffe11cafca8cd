package cachekey

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// ErrUnsupportedType is returned when a Go value has no JSON-like equivalent.
var ErrUnsupportedType = errors.New("cachekey: unsupported parameter type")

// FromMap converts a loosely typed mapping into Params.
func FromMap(m map[string]any) (Params, error) {
	params := make(Params, len(m))
	for name, raw := range m {
		v, err := FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", name, err)
		}
		params[name] = v
	}
	return params, nil
}

// MustFromMap is like FromMap but panics on error.
func MustFromMap(m map[string]any) Params {
	p, err := FromMap(m)
	if err != nil {
		panic(err)
	}
	return p
}

// FromAny converts a Go value into a Value. Strings, booleans, numbers, nil,
// time.Time, json.Number, slices, arrays, string-keyed maps and pointers to any
// of those are supported.
func FromAny(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return fromInt(int64(v)), nil
	case int8:
		return Number(v), nil
	case int16:
		return Number(v), nil
	case int32:
		return Number(v), nil
	case int64:
		return fromInt(v), nil
	case uint:
		return fromUint(uint64(v)), nil
	case uint8:
		return Number(v), nil
	case uint16:
		return Number(v), nil
	case uint32:
		return Number(v), nil
	case uint64:
		return fromUint(v), nil
	case float32:
		return Number(v), nil
	case float64:
		return Number(v), nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return fromInt(n), nil
		}
		if n, err := strconv.ParseUint(string(v), 10, 64); err == nil {
			return fromUint(n), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
		}
		return Number(f), nil
	case time.Time:
		return String(v.Format(time.RFC3339Nano)), nil
	case map[string]any:
		obj := make(Object, len(v))
		for name, item := range v {
			converted, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			obj[name] = converted
		}
		return obj, nil
	case []any:
		arr := make(Array, len(v))
		for i, item := range v {
			converted, err := FromAny(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = converted
		}
		return arr, nil
	}

	return fromReflect(reflect.ValueOf(raw))
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return FromAny(rv.Elem().Interface())
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fromUint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return Null{}, nil
		}
		fallthrough
	case reflect.Array:
		arr := make(Array, rv.Len())
		for i := range rv.Len() {
			converted, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = converted
		}
		return arr, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key %s", ErrUnsupportedType, rv.Type().Key())
		}
		obj := make(Object, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			name := iter.Key().String()
			converted, err := FromAny(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			obj[name] = converted
		}
		return obj, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
}

// maxExactInt is the largest magnitude a float64 holds without rounding.
const maxExactInt = 1 << 53

// fromInt keeps small integers as Number so equal values share one type, and
// switches to Integer where float64 would round.
func fromInt(n int64) Value {
	if n >= -maxExactInt && n <= maxExactInt {
		return Number(n)
	}
	return Integer(n)
}

func fromUint(n uint64) Value {
	if n <= maxExactInt {
		return Number(n)
	}
	return Unsigned(n)
}
