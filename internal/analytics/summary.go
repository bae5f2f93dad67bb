package analytics

import "github.com/dialforge/callwatch/internal/calls"

// Summary is the headline metric block for a table of calls.
type Summary struct {
	TotalCalls      int   `json:"total_calls"`
	Placed          int   `json:"call_placed"`
	CouldNotConnect int   `json:"could_not_connect"`
	Completed       int   `json:"completed"`
	TaskSuccess     int   `json:"task_success"`
	TaskSuccessRate Value `json:"task_success_rate"` // of completed calls
	AvgDuration     Value `json:"avg_duration"`      // over calls with duration > 0
}

// Summarize computes the headline metrics over the whole table.
func Summarize(records []calls.Record) Summary {
	s := Summary{
		TotalCalls:      len(records),
		Placed:          countStatus(records, calls.StatusPlaced),
		CouldNotConnect: countStatus(records, calls.StatusCouldNotConnect),
		Completed:       countStatus(records, calls.StatusCompleted),
		TaskSuccess:     countTaskSuccess(records),
	}

	if s.Completed > 0 {
		s.TaskSuccessRate = NewValue(float64(s.TaskSuccess) / float64(s.Completed))
	} else {
		s.TaskSuccessRate = Undefined()
	}

	var sum float64
	var n int
	for _, r := range records {
		if r.Duration > 0 {
			sum += r.Duration
			n++
		}
	}
	if n > 0 {
		s.AvgDuration = NewValue(sum / float64(n))
	} else {
		s.AvgDuration = Undefined()
	}

	return s
}
