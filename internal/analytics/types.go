// Package analytics is the analytic core: attempt sequencing, the metric
// registry, the pivot aggregator, the nth-call analyzer, and the heatmap
// builder. Every function here is a pure transform of its input table;
// records are never mutated and no state is carried between calls.
package analytics

import (
	"strconv"

	"github.com/dialforge/callwatch/internal/calls"
)

// Value is a single metric result. Valid is false when the metric is
// undefined for the group (empty denominator). An undefined Value is a
// distinct state, never conflated with zero.
type Value struct {
	Float float64
	Valid bool
}

// NewValue returns a defined Value.
func NewValue(f float64) Value {
	return Value{Float: f, Valid: true}
}

// Undefined returns the sentinel for a metric with no defined result.
func Undefined() Value {
	return Value{}
}

// MarshalJSON renders an undefined Value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v.Float, 'g', -1, 64)), nil
}

// Sequenced is a call record annotated with its attempt index: the
// 1-based rank of the call among all calls from the same number, ordered
// by time. The index is recomputed from the table on every run and never
// stored apart from its record.
type Sequenced struct {
	calls.Record
	Attempt int `json:"attempt"`
}
