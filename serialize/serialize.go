/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package serialize provides the value <-> stored-form hooks used by attributes.
//
// Every serializer passes nil through unchanged in both directions so that an
// absent value stays absent in the record.
package serialize

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
)

// Serializer is a pair of inverse functions between a field's value and the
// form it takes inside a record.
type Serializer interface {
	Dumps(value any) (any, error)
	Loads(stored any) (any, error)
}

// NonSerializer stores values as they are.
var NonSerializer Serializer = nonSerializer{}

type nonSerializer struct{}

func (nonSerializer) Dumps(value any) (any, error) { return value, nil }
func (nonSerializer) Loads(stored any) (any, error) { return stored, nil }

// JSON stores values as JSON text. Loads yields the generic decoding
// (map[string]any, []any, float64, string, bool).
var JSON Serializer = jsonSerializer{}

type jsonSerializer struct{}

func (jsonSerializer) Dumps(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("json serializer: %w", err)
	}
	return string(b), nil
}

func (jsonSerializer) Loads(stored any) (any, error) {
	var raw []byte
	switch tv := stored.(type) {
	case nil:
		return nil, nil
	case string:
		raw = []byte(tv)
	case []byte:
		raw = tv
	default:
		return nil, fmt.Errorf("json serializer: cannot decode %T", stored)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("json serializer: %w", err)
	}
	return v, nil
}

// DateTime stores time.Time values as RFC3339 strings (strfmt.DateTime) and
// loads them back as time.Time.
var DateTime Serializer = dateTimeSerializer{}

type dateTimeSerializer struct{}

func (dateTimeSerializer) Dumps(value any) (any, error) {
	switch tv := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return strfmt.DateTime(tv).String(), nil
	case strfmt.DateTime:
		return tv.String(), nil
	case string:
		dt, err := strfmt.ParseDateTime(tv)
		if err != nil {
			return nil, fmt.Errorf("datetime serializer: %w", err)
		}
		return dt.String(), nil
	}
	return nil, fmt.Errorf("datetime serializer: cannot encode %T", value)
}

func (dateTimeSerializer) Loads(stored any) (any, error) {
	switch tv := stored.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return tv, nil
	case string:
		dt, err := strfmt.ParseDateTime(tv)
		if err != nil {
			return nil, fmt.Errorf("datetime serializer: %w", err)
		}
		return time.Time(dt), nil
	}
	return nil, fmt.Errorf("datetime serializer: cannot decode %T", stored)
}

// ByName resolves the serializer names used in configuration files.
func ByName(name string) (Serializer, error) {
	switch name {
	case "", "none":
		return NonSerializer, nil
	case "json":
		return JSON, nil
	case "datetime":
		return DateTime, nil
	}
	return nil, fmt.Errorf("unknown serializer %q", name)
}
