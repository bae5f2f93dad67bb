package calls

import (
	"strconv"
	"strings"
	"time"
)

// timeLayouts are the accepted timestamp formats, tried in order.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04",
}

// ParseTimestamp parses a call timestamp, returning the zero time when no
// known layout matches.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Normalize converts raw rows into Records. Rows with a missing number or
// an unparseable timestamp are dropped and reported; they never fail the
// batch. Negative or non-numeric durations are coerced to zero and
// counted in the report.
func Normalize(rows []RawRow) ([]Record, *NormalizeReport) {
	report := &NormalizeReport{}
	records := make([]Record, 0, len(rows))

	for _, row := range rows {
		number := strings.TrimSpace(row.Number)
		if number == "" {
			report.Dropped = append(report.Dropped, RowError{
				Line: row.Line, Field: "Number", Reason: "missing",
			})
			continue
		}

		t := ParseTimestamp(row.Time)
		if t.IsZero() {
			report.Dropped = append(report.Dropped, RowError{
				Line: row.Line, Field: "Time", Reason: "unparseable timestamp",
			})
			continue
		}

		duration, coerced := parseDuration(row.Duration)
		if coerced {
			report.CoercedDurations++
		}

		records = append(records, Record{
			Number:    number,
			Time:      t,
			UseCase:   strings.TrimSpace(row.UseCase),
			Status:    CallStatus(strings.TrimSpace(row.Status)),
			Duration:  duration,
			Task:      normalizeTask(row.Task),
			Sentiment: normalizeSentiment(row.Sentiment),
			Date:      t.Format("2006-01-02"),
			Hour:      t.Hour(),
			DayOfWeek: t.Weekday().String(),
		})
	}

	return records, report
}

// parseDuration converts a duration field to non-negative seconds. The
// second return is true when the value had to be coerced to zero.
func parseDuration(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil || d < 0 {
		return 0, true
	}
	return d, false
}

// normalizeTask maps the task_completion field to its tri-state value.
// Anything outside "true"/"false" (including "-" and empty) is unknown.
func normalizeTask(s string) TaskCompletion {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return TaskTrue
	case "false":
		return TaskFalse
	default:
		return TaskUnknown
	}
}

// normalizeSentiment lowercases the sentiment field and maps the source
// data's null markers to SentimentUnknown.
func normalizeSentiment(s string) Sentiment {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "-", "n.a", "n/a", "nan", "none", "null":
		return SentimentUnknown
	default:
		return Sentiment(v)
	}
}
