package analytics

import (
	"fmt"

	"github.com/dialforge/callwatch/internal/calls"
)

// MetricFunc computes one named statistic over a non-empty group of
// records. The aggregator never invokes a metric on an empty group; it
// substitutes the undefined Value (or zero for count-like metrics)
// directly.
type MetricFunc func(group []calls.Record) Value

// Metric is one entry in the closed metric registry.
type Metric struct {
	Name      string
	CountLike bool // empty groups report 0 instead of undefined
	Fn        MetricFunc
}

// Metric names accepted in pivot configurations.
const (
	MetricCount             = "count"
	MetricCompleted         = "completed-count"
	MetricCouldNotConnect   = "could-not-connect-count"
	MetricTaskSuccess       = "task-success-count"
	MetricTaskSuccessRate   = "task-success-rate"
	MetricAvgDuration       = "avg-duration"
	MetricTotalDuration     = "total-duration"
	MetricMaxDuration       = "max-duration"
	MetricNegativeSentiment = "negative-sentiment-count"
	MetricPickupRate        = "pickup-rate"
)

// registry is the closed set of metrics, in presentation order. Adding a
// metric means adding one entry here; no other component changes.
var registry = []Metric{
	{MetricCount, true, func(g []calls.Record) Value {
		return NewValue(float64(len(g)))
	}},
	{MetricCompleted, true, func(g []calls.Record) Value {
		return NewValue(float64(countStatus(g, calls.StatusCompleted)))
	}},
	{MetricCouldNotConnect, true, func(g []calls.Record) Value {
		return NewValue(float64(countStatus(g, calls.StatusCouldNotConnect)))
	}},
	{MetricTaskSuccess, true, func(g []calls.Record) Value {
		return NewValue(float64(countTaskSuccess(g)))
	}},
	{MetricTaskSuccessRate, false, func(g []calls.Record) Value {
		completed := countStatus(g, calls.StatusCompleted)
		if completed == 0 {
			return Undefined()
		}
		return NewValue(float64(countTaskSuccess(g)) / float64(completed))
	}},
	{MetricAvgDuration, false, func(g []calls.Record) Value {
		var sum float64
		var n int
		for _, r := range g {
			if r.Duration > 0 {
				sum += r.Duration
				n++
			}
		}
		if n == 0 {
			return Undefined()
		}
		return NewValue(sum / float64(n))
	}},
	{MetricTotalDuration, true, func(g []calls.Record) Value {
		var sum float64
		for _, r := range g {
			sum += r.Duration
		}
		return NewValue(sum)
	}},
	{MetricMaxDuration, false, func(g []calls.Record) Value {
		max := g[0].Duration
		for _, r := range g[1:] {
			if r.Duration > max {
				max = r.Duration
			}
		}
		return NewValue(max)
	}},
	{MetricNegativeSentiment, true, func(g []calls.Record) Value {
		var n int
		for _, r := range g {
			if r.Sentiment == calls.SentimentNegative {
				n++
			}
		}
		return NewValue(float64(n))
	}},
	{MetricPickupRate, false, func(g []calls.Record) Value {
		// Groups are never empty here, so the denominator is never zero.
		return NewValue(float64(countStatus(g, calls.StatusCompleted)) / float64(len(g)))
	}},
}

// byName indexes the registry for resolution at config-validation time.
var byName = func() map[string]Metric {
	m := make(map[string]Metric, len(registry))
	for _, metric := range registry {
		m[metric.Name] = metric
	}
	return m
}()

// MetricNames returns all registry names in presentation order.
func MetricNames() []string {
	names := make([]string, len(registry))
	for i, m := range registry {
		names[i] = m.Name
	}
	return names
}

// ResolveMetrics maps metric names to registry entries, failing fast on
// the first unknown name.
func ResolveMetrics(names []string) ([]Metric, error) {
	metrics := make([]Metric, 0, len(names))
	for _, name := range names {
		m, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown metric %q", name)
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// applyMetrics evaluates each metric against a group. Empty groups are
// never passed to a MetricFunc: count-like metrics report zero, the rest
// report the undefined Value.
func applyMetrics(group []calls.Record, metrics []Metric) map[string]Value {
	cells := make(map[string]Value, len(metrics))
	for _, m := range metrics {
		if len(group) == 0 {
			if m.CountLike {
				cells[m.Name] = NewValue(0)
			} else {
				cells[m.Name] = Undefined()
			}
			continue
		}
		cells[m.Name] = m.Fn(group)
	}
	return cells
}

func countStatus(g []calls.Record, status calls.CallStatus) int {
	var n int
	for _, r := range g {
		if r.Status == status {
			n++
		}
	}
	return n
}

func countTaskSuccess(g []calls.Record) int {
	var n int
	for _, r := range g {
		if r.Task == calls.TaskTrue {
			n++
		}
	}
	return n
}
