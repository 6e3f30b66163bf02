/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

// Record is the associative wire/storage form of an object.
type Record = map[string]any

// AsRecord reports whether a raw store value is record-shaped.
func AsRecord(v any) (Record, bool) {
	r, ok := v.(map[string]any)
	return r, ok
}

// CloneRecord returns a deep copy of r. Nested maps and slices produced by
// JSON-like decoders are copied; other values are copied by assignment.
func CloneRecord(r Record) Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// CloneValue deep-copies a raw store value.
func CloneValue(v any) any {
	return cloneValue(v)
}

func cloneValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return CloneRecord(tv)
	case []any:
		if tv == nil {
			return tv
		}
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		if tv == nil {
			return tv
		}
		out := make([]string, len(tv))
		copy(out, tv)
		return out
	case []byte:
		if tv == nil {
			return tv
		}
		out := make([]byte, len(tv))
		copy(out, tv)
		return out
	default:
		return v
	}
}
