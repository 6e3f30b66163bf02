/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package attribute

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
)

// DataType is the coercion target of an attribute. Coerce is only called
// with non-nil values.
type DataType interface {
	Name() string
	Coerce(value any) (any, error)
}

// Built-in data types.
var (
	// String accepts anything and formats non-strings with fmt.
	String DataType = stringType{}
	// Int holds int64 values; floats are truncated, strings parsed.
	Int DataType = intType{}
	// Float holds float64 values.
	Float DataType = floatType{}
	// Bool holds bool values; strings go through strconv.ParseBool.
	Bool DataType = boolType{}
	// Time holds time.Time values and accepts strfmt.DateTime and RFC3339 strings.
	Time DataType = timeType{}
	// Any performs no coercion.
	Any DataType = anyType{}
)

// TypeByName resolves the data type names used in configuration files.
func TypeByName(name string) (DataType, error) {
	switch name {
	case "string", "str":
		return String, nil
	case "int", "integer":
		return Int, nil
	case "float", "number":
		return Float, nil
	case "bool", "boolean":
		return Bool, nil
	case "time", "datetime":
		return Time, nil
	case "", "any":
		return Any, nil
	}
	return nil, fmt.Errorf("unknown data type %q", name)
}

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Coerce(v any) (any, error) {
	switch tv := v.(type) {
	case string:
		return tv, nil
	case []byte:
		return string(tv), nil
	case fmt.Stringer:
		return tv.String(), nil
	}
	return fmt.Sprint(v), nil
}

type intType struct{}

func (intType) Name() string { return "int" }

func (intType) Coerce(v any) (any, error) {
	switch tv := v.(type) {
	case int64:
		return tv, nil
	case string:
		return strconv.ParseInt(tv, 10, 64)
	case json.Number:
		return tv.Int64()
	case bool:
		if tv {
			return int64(1), nil
		}
		return int64(0), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("%d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, fmt.Errorf("%v overflows int64", f)
		}
		return int64(f), nil
	}
	return nil, fmt.Errorf("cannot convert %T to int", v)
}

type floatType struct{}

func (floatType) Name() string { return "float" }

func (floatType) Coerce(v any) (any, error) {
	switch tv := v.(type) {
	case float64:
		return tv, nil
	case string:
		return strconv.ParseFloat(tv, 64)
	case json.Number:
		return tv.Float64()
	case bool:
		if tv {
			return 1.0, nil
		}
		return 0.0, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return nil, fmt.Errorf("cannot convert %T to float", v)
}

type boolType struct{}

func (boolType) Name() string { return "bool" }

func (boolType) Coerce(v any) (any, error) {
	switch tv := v.(type) {
	case bool:
		return tv, nil
	case string:
		return strconv.ParseBool(tv)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0, nil
	}
	return nil, fmt.Errorf("cannot convert %T to bool", v)
}

type timeType struct{}

func (timeType) Name() string { return "time" }

func (timeType) Coerce(v any) (any, error) {
	switch tv := v.(type) {
	case time.Time:
		return tv, nil
	case strfmt.DateTime:
		return time.Time(tv), nil
	case *strfmt.DateTime:
		if tv == nil {
			return nil, fmt.Errorf("nil datetime")
		}
		return time.Time(*tv), nil
	case string:
		dt, err := strfmt.ParseDateTime(tv)
		if err != nil {
			return nil, err
		}
		return time.Time(dt), nil
	}
	return nil, fmt.Errorf("cannot convert %T to time", v)
}

type anyType struct{}

func (anyType) Name() string { return "any" }

func (anyType) Coerce(v any) (any, error) { return v, nil }
