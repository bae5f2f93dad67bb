package analytics

import (
	"sort"

	"github.com/dialforge/callwatch/internal/calls"
)

// Sequence assigns each record its attempt index: records are partitioned
// by number, stably sorted by time ascending (ties keep input order), and
// numbered 1..k within each partition. The result is ordered by (number,
// time); the input slice is not modified.
func Sequence(records []calls.Record) []Sequenced {
	sorted := make([]calls.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Number != sorted[j].Number {
			return sorted[i].Number < sorted[j].Number
		}
		return sorted[i].Time.Before(sorted[j].Time)
	})

	out := make([]Sequenced, len(sorted))
	counts := make(map[string]int)
	for i, r := range sorted {
		counts[r.Number]++
		out[i] = Sequenced{Record: r, Attempt: counts[r.Number]}
	}
	return out
}

// Dedupe reduces the table to one record per (number, calendar date),
// keeping the best attempt for each pair: a completed call wins over a
// non-completed one, then the latest timestamp wins, then the earliest
// input row. Output preserves the first-occurrence order of (number,
// date) pairs; the input slice is not modified.
func Dedupe(records []calls.Record) []calls.Record {
	type key struct {
		number string
		date   string
	}
	best := make(map[key]calls.Record, len(records))
	var order []key

	for _, r := range records {
		k := key{r.Number, r.Date}
		current, seen := best[k]
		if !seen {
			best[k] = r
			order = append(order, k)
			continue
		}
		if betterAttempt(r, current) {
			best[k] = r
		}
	}

	out := make([]calls.Record, len(order))
	for i, k := range order {
		out[i] = best[k]
	}
	return out
}

// betterAttempt reports whether candidate should replace current as the
// kept record for its (number, date) pair. On a full tie (same status
// class, same timestamp) the earlier input row is kept.
func betterAttempt(candidate, current calls.Record) bool {
	if candidate.Completed() != current.Completed() {
		return candidate.Completed()
	}
	return candidate.Time.After(current.Time)
}

// SequenceDeduped runs Dedupe and then assigns attempt indices to the
// surviving records, so same-day retries do not inflate a number's
// attempt count.
func SequenceDeduped(records []calls.Record) []Sequenced {
	return Sequence(Dedupe(records))
}
