/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"encoding/json"
	"fmt"
	"iter"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/suparena/objectstore/errors"
)

// Filter operators understood by every backend.
const (
	OpEqual          = "="
	OpNotEqual       = "!="
	OpLess           = "<"
	OpLessOrEqual    = "<="
	OpGreater        = ">"
	OpGreaterOrEqual = ">="
)

// longest first so that "<=" is not read as "<"
var operators = []string{OpGreaterOrEqual, OpLessOrEqual, OpNotEqual, OpEqual, OpLess, OpGreater}

// Filter selects records whose Field compares to Value under Op.
type Filter struct {
	Field string
	Op    string
	Value any
}

// Order sorts records by Field.
type Order struct {
	Field      string
	Descending bool
}

func (o Order) String() string {
	if o.Descending {
		return "-" + o.Field
	}
	return "+" + o.Field
}

// Query describes a read over the records stored under a collection key.
// Records match when their key's Path equals Key.
type Query struct {
	Key     Key
	Filters []Filter
	Orders  []Order
	// Limit of zero means no limit.
	Limit  int
	Offset int
}

// NewQuery returns a query over the collection named by key.
func NewQuery(key Key) *Query {
	return &Query{Key: key}
}

// Filter appends a filter and returns q for chaining.
func (q *Query) Filter(field, op string, value any) *Query {
	q.Filters = append(q.Filters, Filter{Field: field, Op: op, Value: value})
	return q
}

// OrderBy appends an ordering such as "+name", "-age" or "name".
func (q *Query) OrderBy(expr string) *Query {
	q.Orders = append(q.Orders, ParseOrder(expr))
	return q
}

// Validate checks operators and field names.
func (q *Query) Validate() error {
	for _, f := range q.Filters {
		if f.Field == "" {
			return errors.NewValidationError("filter", "empty field name")
		}
		if !validOp(f.Op) {
			return errors.NewValidationError("filter", fmt.Sprintf("unknown operator %q", f.Op))
		}
	}
	for _, o := range q.Orders {
		if o.Field == "" {
			return errors.NewValidationError("order", "empty field name")
		}
	}
	if q.Limit < 0 || q.Offset < 0 {
		return errors.NewValidationError("limit", "limit and offset must not be negative")
	}
	return nil
}

func validOp(op string) bool {
	for _, o := range operators {
		if o == op {
			return true
		}
	}
	return false
}

// ParseOrder reads "+field", "-field" or "field" (ascending).
func ParseOrder(expr string) Order {
	expr = strings.TrimSpace(expr)
	switch {
	case strings.HasPrefix(expr, "-"):
		return Order{Field: expr[1:], Descending: true}
	case strings.HasPrefix(expr, "+"):
		return Order{Field: expr[1:]}
	default:
		return Order{Field: expr}
	}
}

// ParseFilter reads "field<op>value", e.g. "age>=21". The value stays a string.
func ParseFilter(expr string) (Filter, error) {
	for _, op := range operators {
		if i := strings.Index(expr, op); i > 0 {
			return Filter{
				Field: strings.TrimSpace(expr[:i]),
				Op:    op,
				Value: strings.TrimSpace(expr[i+len(op):]),
			}, nil
		}
	}
	return Filter{}, errors.NewValidationError("filter", fmt.Sprintf("no operator in %q", expr))
}

// Matches reports whether a raw value passes every filter. Non-record values
// only match a query without filters.
func (q *Query) Matches(v any) bool {
	if len(q.Filters) == 0 {
		return true
	}
	r, ok := AsRecord(v)
	if !ok {
		return false
	}
	for _, f := range q.Filters {
		if !f.matches(r[f.Field]) {
			return false
		}
	}
	return true
}

func (f Filter) matches(v any) bool {
	c, ok := compare(v, f.Value)
	if !ok {
		eq := reflect.DeepEqual(v, f.Value)
		switch f.Op {
		case OpEqual:
			return eq
		case OpNotEqual:
			return !eq
		}
		return false
	}
	switch f.Op {
	case OpEqual:
		return c == 0
	case OpNotEqual:
		return c != 0
	case OpLess:
		return c < 0
	case OpLessOrEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpGreaterOrEqual:
		return c >= 0
	}
	return false
}

// Apply evaluates filters, orders, offset and limit over items in that order.
// Backends without native query support hand their full collection to Apply.
func (q *Query) Apply(items iter.Seq2[any, error]) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		var kept []any
		for v, err := range items {
			if err != nil {
				yield(nil, err)
				return
			}
			if q.Matches(v) {
				kept = append(kept, v)
			}
		}

		if len(q.Orders) > 0 {
			sort.SliceStable(kept, func(i, j int) bool {
				return q.less(kept[i], kept[j])
			})
		}

		if q.Offset > 0 {
			if q.Offset >= len(kept) {
				kept = nil
			} else {
				kept = kept[q.Offset:]
			}
		}
		if q.Limit > 0 && q.Limit < len(kept) {
			kept = kept[:q.Limit]
		}

		for _, v := range kept {
			if !yield(v, nil) {
				return
			}
		}
	}
}

func (q *Query) less(a, b any) bool {
	ra, _ := AsRecord(a)
	rb, _ := AsRecord(b)
	for _, o := range q.Orders {
		c := orderCompare(ra[o.Field], rb[o.Field])
		if c == 0 {
			continue
		}
		if o.Descending {
			return c > 0
		}
		return c < 0
	}
	return false
}

// orderCompare places nil first and falls back to string forms for mixed types.
func orderCompare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if c, ok := compare(a, b); ok {
		return c
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func compare(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmpFloat(fa, fb), true
		}
		if sb, ok := b.(string); ok {
			if fb, err := strconv.ParseFloat(sb, 64); err == nil {
				return cmpFloat(fa, fb), true
			}
		}
		return 0, false
	}
	switch ta := a.(type) {
	case string:
		switch tb := b.(type) {
		case string:
			return strings.Compare(ta, tb), true
		default:
			if fb, ok := toFloat(b); ok {
				if fa, err := strconv.ParseFloat(ta, 64); err == nil {
					return cmpFloat(fa, fb), true
				}
			}
			if tb, ok := b.(bool); ok {
				return strings.Compare(ta, strconv.FormatBool(tb)), true
			}
		}
	case bool:
		switch tb := b.(type) {
		case bool:
			return cmpBool(ta, tb), true
		case string:
			if pb, err := strconv.ParseBool(tb); err == nil {
				return cmpBool(ta, pb), true
			}
		}
	case time.Time:
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb), true
		}
	}
	return 0, false
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func toFloat(v any) (float64, bool) {
	switch tv := v.(type) {
	case int:
		return float64(tv), true
	case int8:
		return float64(tv), true
	case int16:
		return float64(tv), true
	case int32:
		return float64(tv), true
	case int64:
		return float64(tv), true
	case uint:
		return float64(tv), true
	case uint8:
		return float64(tv), true
	case uint16:
		return float64(tv), true
	case uint32:
		return float64(tv), true
	case uint64:
		return float64(tv), true
	case float32:
		return float64(tv), true
	case float64:
		return tv, true
	case json.Number:
		f, err := tv.Float64()
		return f, err == nil
	}
	return 0, false
}
