package model

import (
	"math"
	"strings"

	"github.com/secmon-lab/trialdash/pkg/domain/types"
	"github.com/spf13/cast"
)

// Record is one flat row returned by the analytics API. Records are
// treated as immutable once decoded.
type Record map[string]any

// Lookup returns the value of the first alias in path that is present and
// not null. Dotted aliases walk nested objects.
func (r Record) Lookup(path types.FieldPath) (any, bool) {
	for _, alias := range path {
		if alias == "" {
			continue
		}
		if v, ok := r.lookup(alias); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r Record) lookup(key string) (any, bool) {
	if v, ok := r[key]; ok {
		return v, true
	}
	if !strings.Contains(key, ".") {
		return nil, false
	}

	var cur any = map[string]any(r)
	for _, part := range strings.Split(key, ".") {
		m, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Label returns the value at path as a trimmed category label. Missing,
// null and non-scalar values give "".
func (r Record) Label(path types.FieldPath) string {
	v, ok := r.Lookup(path)
	if !ok {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// Number returns the numeric value at path. Missing, non-numeric and
// non-finite values coerce to 0.
func (r Record) Number(path types.FieldPath) float64 {
	v, ok := r.Lookup(path)
	if !ok {
		return 0
	}
	return ToNumber(v)
}

// ToNumber coerces a decoded JSON value to a finite float64, or 0.
func ToNumber(v any) float64 {
	if _, isBool := v.(bool); isBool {
		return 0
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CloneRecords returns shallow copies of records
func CloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Record:
		return m, true
	default:
		return nil, false
	}
}
