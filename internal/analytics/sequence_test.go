package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialforge/callwatch/internal/calls"
)

func rec(number string, t time.Time, status calls.CallStatus) calls.Record {
	return calls.Record{
		Number:    number,
		Time:      t,
		Status:    status,
		Task:      calls.TaskUnknown,
		Sentiment: calls.SentimentUnknown,
		Date:      t.Format("2006-01-02"),
		Hour:      t.Hour(),
		DayOfWeek: t.Weekday().String(),
	}
}

func at(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestSequence_ContiguousPerNumber(t *testing.T) {
	records := []calls.Record{
		rec("B", at(2, 9), calls.StatusCompleted),
		rec("A", at(1, 10), calls.StatusPlaced),
		rec("A", at(3, 8), calls.StatusCompleted),
		rec("B", at(1, 14), calls.StatusCouldNotConnect),
		rec("A", at(2, 12), calls.StatusCouldNotConnect),
	}

	seq := Sequence(records)
	require.Len(t, seq, 5)

	// Attempt indices per number must be exactly 1..k with no gaps.
	byNumber := make(map[string][]int)
	for _, s := range seq {
		byNumber[s.Number] = append(byNumber[s.Number], s.Attempt)
	}
	assert.Equal(t, []int{1, 2, 3}, byNumber["A"])
	assert.Equal(t, []int{1, 2}, byNumber["B"])

	// Within each number, attempts follow time ascending.
	assert.Equal(t, at(1, 10), seq[0].Time) // A attempt 1
	assert.Equal(t, 1, seq[0].Attempt)
	assert.Equal(t, at(2, 12), seq[1].Time)
	assert.Equal(t, at(3, 8), seq[2].Time)
	assert.Equal(t, 3, seq[2].Attempt)
}

func TestSequence_StableOnEqualTimestamps(t *testing.T) {
	same := at(5, 9)
	records := []calls.Record{
		rec("A", same, calls.StatusPlaced),
		rec("A", same, calls.StatusCompleted),
	}

	seq := Sequence(records)
	require.Len(t, seq, 2)
	// Tie broken by original row order.
	assert.Equal(t, calls.StatusPlaced, seq[0].Status)
	assert.Equal(t, 1, seq[0].Attempt)
	assert.Equal(t, calls.StatusCompleted, seq[1].Status)
	assert.Equal(t, 2, seq[1].Attempt)
}

func TestSequence_DoesNotMutateInput(t *testing.T) {
	records := []calls.Record{
		rec("B", at(2, 9), calls.StatusCompleted),
		rec("A", at(1, 10), calls.StatusPlaced),
	}
	Sequence(records)
	assert.Equal(t, "B", records[0].Number)
	assert.Equal(t, "A", records[1].Number)
}

func TestDedupe_OnePerNumberAndDate(t *testing.T) {
	records := []calls.Record{
		rec("A", at(1, 9), calls.StatusPlaced),
		rec("A", at(1, 11), calls.StatusCouldNotConnect),
		rec("A", at(2, 9), calls.StatusCompleted),
		rec("B", at(1, 9), calls.StatusCompleted),
		rec("B", at(1, 15), calls.StatusPlaced),
	}

	deduped := Dedupe(records)

	seen := make(map[string]bool)
	for _, r := range deduped {
		key := r.Number + "|" + r.Date
		assert.False(t, seen[key], "duplicate (number, date) pair %s", key)
		seen[key] = true
	}
	assert.Len(t, deduped, 3)
}

func TestDedupe_PrefersCompletedThenLatest(t *testing.T) {
	records := []calls.Record{
		rec("A", at(1, 14), calls.StatusPlaced),
		rec("A", at(1, 9), calls.StatusCompleted),
		rec("A", at(1, 16), calls.StatusCouldNotConnect),
	}

	deduped := Dedupe(records)
	require.Len(t, deduped, 1)
	// Completed beats later non-completed attempts.
	assert.Equal(t, calls.StatusCompleted, deduped[0].Status)
	assert.Equal(t, at(1, 9), deduped[0].Time)
}

func TestDedupe_LatestWinsWithinSameStatusClass(t *testing.T) {
	records := []calls.Record{
		rec("A", at(1, 9), calls.StatusPlaced),
		rec("A", at(1, 16), calls.StatusCouldNotConnect),
		rec("A", at(1, 12), calls.StatusPlaced),
	}

	deduped := Dedupe(records)
	require.Len(t, deduped, 1)
	assert.Equal(t, at(1, 16), deduped[0].Time)
}

func TestDedupe_FullTieKeepsEarlierRow(t *testing.T) {
	same := at(1, 9)
	first := rec("A", same, calls.StatusPlaced)
	first.UseCase = "first"
	second := rec("A", same, calls.StatusPlaced)
	second.UseCase = "second"

	deduped := Dedupe([]calls.Record{first, second})
	require.Len(t, deduped, 1)
	assert.Equal(t, "first", deduped[0].UseCase)
}

func TestDedupe_PreservesFirstOccurrenceOrder(t *testing.T) {
	records := []calls.Record{
		rec("B", at(1, 9), calls.StatusPlaced),
		rec("A", at(1, 9), calls.StatusPlaced),
		rec("B", at(2, 9), calls.StatusPlaced),
	}

	deduped := Dedupe(records)
	require.Len(t, deduped, 3)
	assert.Equal(t, "B", deduped[0].Number)
	assert.Equal(t, "A", deduped[1].Number)
	assert.Equal(t, "B", deduped[2].Number)
}

func TestSequenceDeduped_IndexesAfterDedup(t *testing.T) {
	records := []calls.Record{
		rec("A", at(1, 9), calls.StatusPlaced),
		rec("A", at(1, 11), calls.StatusPlaced), // same day, collapses
		rec("A", at(2, 9), calls.StatusCompleted),
	}

	seq := SequenceDeduped(records)
	require.Len(t, seq, 2)
	assert.Equal(t, 1, seq[0].Attempt)
	assert.Equal(t, 2, seq[1].Attempt)
}
