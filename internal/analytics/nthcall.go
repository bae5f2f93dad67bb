package analytics

import "github.com/dialforge/callwatch/internal/calls"

// AttemptStats holds the fixed metric set for one attempt index.
type AttemptStats struct {
	Attempt             int   `json:"attempt"`
	TotalCalls          int   `json:"total_calls"`
	PickedUp            int   `json:"picked_up"`
	GoalMet             int   `json:"goal_met"`
	NegativeSentiment   int   `json:"negative_sentiment"`
	PickupRate          Value `json:"pickup_rate"`
	GoalSuccessOnPicked Value `json:"goal_success_on_picked"`
}

// TrendPoint is one (attempt, pickup-rate) pair of the trend series.
type TrendPoint struct {
	Attempt    int     `json:"attempt"`
	PickupRate float64 `json:"pickup_rate"`
}

// NthCallAnalysis is the attempt-performance table and its chart-ready
// trend series, rows ascending from attempt 1.
type NthCallAnalysis struct {
	Rows  []AttemptStats `json:"rows"`
	Trend []TrendPoint   `json:"trend"`
}

// RunNthCall sequences the table in full mode and aggregates the fixed
// attempt-index pivot. Attempt indices are contiguous from 1 by
// construction (an attempt k implies attempts 1..k-1 for the same
// number), so no trailing padding or gap handling is needed. Rates are
// unrounded ratios in [0,1]; goal success is undefined, not zero, for an
// attempt index where no call was picked up.
func RunNthCall(records []calls.Record) *NthCallAnalysis {
	seq := Sequence(records)

	maxAttempt := 0
	for _, s := range seq {
		if s.Attempt > maxAttempt {
			maxAttempt = s.Attempt
		}
	}

	groups := make([][]calls.Record, maxAttempt+1)
	for _, s := range seq {
		groups[s.Attempt] = append(groups[s.Attempt], s.Record)
	}

	analysis := &NthCallAnalysis{}
	for attempt := 1; attempt <= maxAttempt; attempt++ {
		group := groups[attempt]
		stats := AttemptStats{
			Attempt:    attempt,
			TotalCalls: len(group),
			PickedUp:   countStatus(group, calls.StatusCompleted),
			GoalMet:    countTaskSuccess(group),
		}
		for _, r := range group {
			if r.Sentiment == calls.SentimentNegative {
				stats.NegativeSentiment++
			}
		}
		stats.PickupRate = NewValue(float64(stats.PickedUp) / float64(stats.TotalCalls))
		if stats.PickedUp > 0 {
			stats.GoalSuccessOnPicked = NewValue(float64(stats.GoalMet) / float64(stats.PickedUp))
		} else {
			stats.GoalSuccessOnPicked = Undefined()
		}

		analysis.Rows = append(analysis.Rows, stats)
		analysis.Trend = append(analysis.Trend, TrendPoint{
			Attempt:    attempt,
			PickupRate: stats.PickupRate.Float,
		})
	}
	return analysis
}
