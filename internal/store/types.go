// Package store provides SQLite persistence for callwatch analysis snapshots.
package store

import "time"

// Snapshot represents one stored analysis run over an input table.
type Snapshot struct {
	ID          string    `json:"id"` // uuid
	TakenAt     time.Time `json:"taken_at"`
	Command     string    `json:"command"`
	Version     string    `json:"version"`
	InputFile   string    `json:"input_file"`
	RecordCount int       `json:"record_count"`
}

// SnapshotMetric is a named metric value within a snapshot. Defined is
// false when the metric was undefined for the run (the stored value is
// then meaningless and must not be compared).
type SnapshotMetric struct {
	ID          int64   `json:"id"`
	SnapshotID  string  `json:"snapshot_id"`
	MetricName  string  `json:"metric_name"`
	MetricValue float64 `json:"metric_value"`
	Defined     bool    `json:"defined"`
}

// AttemptStatRow is one attempt-performance row stored with a snapshot.
// GoalSuccessDefined is false when no call at this attempt index was
// picked up.
type AttemptStatRow struct {
	ID                 int64   `json:"id"`
	SnapshotID         string  `json:"snapshot_id"`
	Attempt            int     `json:"attempt"`
	TotalCalls         int     `json:"total_calls"`
	PickedUp           int     `json:"picked_up"`
	GoalMet            int     `json:"goal_met"`
	NegativeSentiment  int     `json:"negative_sentiment"`
	PickupRate         float64 `json:"pickup_rate"`
	GoalSuccess        float64 `json:"goal_success"`
	GoalSuccessDefined bool    `json:"goal_success_defined"`
}

// SnapshotDiff represents the comparison between two snapshots.
type SnapshotDiff struct {
	Previous *Snapshot     `json:"previous"`
	Current  *Snapshot     `json:"current"`
	Deltas   []MetricDelta `json:"deltas"`
}

// MetricDelta represents the change in a single metric between snapshots.
// Metrics undefined in either snapshot are omitted from the diff.
type MetricDelta struct {
	Name     string  `json:"name"`
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
	Delta    float64 `json:"delta"`
}
