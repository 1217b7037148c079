// Package filter evaluates typed predicates over collections of
// extracted metadata records.
package filter

import (
	"strconv"
	"strings"

	"github.com/dlages/filescope/metadata"
)

// Operator names accepted in a Criterion.
const (
	OpEqual        = "=="
	OpNotEqual     = "!="
	OpGreater      = ">"
	OpLess         = "<"
	OpGreaterEqual = ">="
	OpLessEqual    = "<="
	OpContains     = "contains"
	OpStartsWith   = "starts_with"
	OpEndsWith     = "ends_with"
)

// Criterion is one predicate over a named record field. Substring
// operators compare case-insensitively; ordering operators coerce both
// sides to numbers and fail the record when coercion fails. Equality is
// typed: a number-valued field compares numerically against the
// criterion value, a string-valued field compares exactly.
type Criterion struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Apply returns the subset of records satisfying every criterion
// (logical AND). A record lacking a named field fails that criterion.
// The input map is never mutated.
func Apply(records map[string]metadata.Record, criteria []Criterion) map[string]metadata.Record {
	out := make(map[string]metadata.Record)
	for path, rec := range records {
		if matches(rec, criteria) {
			out[path] = rec
		}
	}
	return out
}

func matches(rec metadata.Record, criteria []Criterion) bool {
	for _, c := range criteria {
		if c.Field == "" || c.Operator == "" {
			continue
		}
		fieldValue, ok := rec[c.Field]
		if !ok {
			return false
		}
		if !evaluate(fieldValue, c.Operator, c.Value) {
			return false
		}
	}
	return true
}

func evaluate(fieldValue any, operator, value string) bool {
	fieldStr := metadata.ValueString(fieldValue)
	switch operator {
	case OpContains:
		return strings.Contains(strings.ToLower(fieldStr), strings.ToLower(value))
	case OpStartsWith:
		return strings.HasPrefix(strings.ToLower(fieldStr), strings.ToLower(value))
	case OpEndsWith:
		return strings.HasSuffix(strings.ToLower(fieldStr), strings.ToLower(value))
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual:
		return evaluateNumeric(fieldStr, operator, value)
	case OpEqual, OpNotEqual:
		// equality follows the field's stored type: only a number-valued
		// field compares numerically, so "10" and "10.0" stay distinct
		// as strings but int64(10) matches "10.0"
		if fv, isNumber := numericValue(fieldValue); isNumber {
			if cv, cok := toNumber(value); cok {
				if operator == OpEqual {
					return fv == cv
				}
				return fv != cv
			}
		}
		if operator == OpEqual {
			return fieldStr == value
		}
		return fieldStr != value
	default:
		return false
	}
}

// numericValue reports whether the record stores the field as a number.
func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

func evaluateNumeric(fieldValue, operator, value string) bool {
	fv, fok := toNumber(fieldValue)
	cv, cok := toNumber(value)
	if !fok || !cok {
		return false
	}
	switch operator {
	case OpGreater:
		return fv > cv
	case OpLess:
		return fv < cv
	case OpGreaterEqual:
		return fv >= cv
	case OpLessEqual:
		return fv <= cv
	}
	return false
}

func toNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
