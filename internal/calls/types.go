// Package calls provides the call record model: CSV ingestion, raw-row
// normalization, and pre-analysis filtering.
package calls

import "time"

// CallStatus is the terminal state of a call attempt.
type CallStatus string

const (
	StatusPlaced          CallStatus = "call_placed"
	StatusCompleted       CallStatus = "completed"
	StatusCouldNotConnect CallStatus = "could_not_connect"
	StatusCanceled        CallStatus = "canceled"
)

// TaskCompletion is the tri-state outcome of the call's task analysis.
// Source data uses "true"/"false" plus markers like "-" for unanalyzed
// calls, which normalize to TaskUnknown.
type TaskCompletion string

const (
	TaskTrue    TaskCompletion = "true"
	TaskFalse   TaskCompletion = "false"
	TaskUnknown TaskCompletion = "unknown"
)

// Sentiment is the analyzed user sentiment for a call.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
	SentimentUnknown  Sentiment = "unknown"
)

// RawRow is one unvalidated row of the input table, as read from CSV.
type RawRow struct {
	Line      int // 1-based source line, for error reporting
	Number    string
	Time      string
	UseCase   string
	Status    string
	Duration  string
	Task      string
	Sentiment string
}

// Record is a normalized, immutable call event. Date, Hour and DayOfWeek
// are derived from Time at normalization and never recomputed.
type Record struct {
	Number    string         `json:"number"`
	Time      time.Time      `json:"time"`
	UseCase   string         `json:"use_case"`
	Status    CallStatus     `json:"call_status"`
	Duration  float64        `json:"duration_seconds"`
	Task      TaskCompletion `json:"task_completion"`
	Sentiment Sentiment      `json:"user_sentiment"`

	Date      string `json:"date"`        // YYYY-MM-DD
	Hour      int    `json:"hour"`        // 0-23
	DayOfWeek string `json:"day_of_week"` // Monday..Sunday
}

// Completed reports whether the call reached completed status.
func (r Record) Completed() bool {
	return r.Status == StatusCompleted
}

// RowError describes a single row dropped during normalization.
type RowError struct {
	Line   int    `json:"line"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// NormalizeReport accumulates non-fatal problems found while normalizing
// a raw table. Dropped rows are excluded from the output; coerced
// durations are kept with Duration forced to zero.
type NormalizeReport struct {
	Dropped          []RowError `json:"dropped,omitempty"`
	CoercedDurations int        `json:"coerced_durations"`
}

// DroppedCount returns the number of rows dropped.
func (r *NormalizeReport) DroppedCount() int {
	return len(r.Dropped)
}
