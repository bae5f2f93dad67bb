package analytics

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dialforge/callwatch/internal/calls"
)

// HeatmapVariant selects the outcome axis of the frequency heatmap.
type HeatmapVariant string

const (
	// VariantCompleted counts completed calls per number.
	VariantCompleted HeatmapVariant = "completed"
	// VariantTaskSuccess counts task_completion=true calls per number.
	VariantTaskSuccess HeatmapVariant = "task-success"
)

// ParseVariant maps a user-supplied variant name to a HeatmapVariant.
func ParseVariant(s string) (HeatmapVariant, error) {
	switch HeatmapVariant(s) {
	case VariantCompleted:
		return VariantCompleted, nil
	case VariantTaskSuccess:
		return VariantTaskSuccess, nil
	}
	return "", fmt.Errorf("unknown heatmap variant %q (want %q or %q)",
		s, VariantCompleted, VariantTaskSuccess)
}

// MinHeatmapUsers is the minimum deduplicated population for a matrix.
const MinHeatmapUsers = 10

// bucketCeiling collapses counts of 10 or more into one bucket.
const bucketCeiling = 10

// HeatmapCell is one (total-bucket, outcome-bucket) cell. Masked cells
// are structurally impossible (more outcomes than attempts) and carry no
// percentage; they are excluded from row normalization.
type HeatmapCell struct {
	Percent float64 `json:"percent"`
	Users   int     `json:"users"`
	Masked  bool    `json:"masked"`
}

// HeatmapMatrix is the bucketed frequency/outcome distribution. Rows are
// total-attempt buckets and columns are outcome buckets, each ascending
// and restricted to buckets observed in the data. Within a row the
// non-masked percentages sum to 100.
type HeatmapMatrix struct {
	Variant       HeatmapVariant `json:"variant"`
	RowLabels     []string       `json:"row_labels"`
	ColLabels     []string       `json:"col_labels"`
	Cells         [][]HeatmapCell `json:"cells"`
	DistinctUsers int            `json:"distinct_users"`
}

// InsufficientData is returned instead of a matrix when the deduplicated
// population is too small to bucket meaningfully. It is a normal result,
// not an error.
type InsufficientData struct {
	DistinctUsers int `json:"distinct_users"`
	MinUsers      int `json:"min_users"`
}

// HeatmapResult is a tagged pair: exactly one of Matrix or Insufficient
// is set.
type HeatmapResult struct {
	Matrix       *HeatmapMatrix    `json:"matrix,omitempty"`
	Insufficient *InsufficientData `json:"insufficient,omitempty"`
}

// RunHeatmap deduplicates the table to one record per (number, date),
// totals attempts and outcomes per number, buckets both totals with a
// 10+ collapse, and builds the row-normalized percentage matrix.
func RunHeatmap(records []calls.Record, variant HeatmapVariant) *HeatmapResult {
	deduped := Dedupe(records)

	type userTotals struct {
		attempts int
		outcomes int
	}
	totals := make(map[string]*userTotals)
	for _, r := range deduped {
		t := totals[r.Number]
		if t == nil {
			t = &userTotals{}
			totals[r.Number] = t
		}
		t.attempts++
		switch variant {
		case VariantCompleted:
			if r.Completed() {
				t.outcomes++
			}
		case VariantTaskSuccess:
			if r.Task == calls.TaskTrue {
				t.outcomes++
			}
		}
	}

	if len(totals) < MinHeatmapUsers {
		return &HeatmapResult{Insufficient: &InsufficientData{
			DistinctUsers: len(totals),
			MinUsers:      MinHeatmapUsers,
		}}
	}

	// Bucket per-user totals and record which buckets actually occur.
	type pair struct{ total, outcome int }
	cellUsers := make(map[pair]int)
	rowSeen := make(map[int]bool)
	colSeen := make(map[int]bool)
	for _, t := range totals {
		p := pair{bucket(t.attempts), bucket(t.outcomes)}
		cellUsers[p]++
		rowSeen[p.total] = true
		colSeen[p.outcome] = true
	}

	rows := sortedBuckets(rowSeen)
	cols := sortedBuckets(colSeen)

	matrix := &HeatmapMatrix{
		Variant:       variant,
		RowLabels:     bucketLabels(rows),
		ColLabels:     bucketLabels(cols),
		Cells:         make([][]HeatmapCell, len(rows)),
		DistinctUsers: len(totals),
	}

	for i, rowBucket := range rows {
		rowTotal := 0
		for _, colBucket := range cols {
			if colBucket <= rowBucket {
				rowTotal += cellUsers[pair{rowBucket, colBucket}]
			}
		}

		matrix.Cells[i] = make([]HeatmapCell, len(cols))
		for j, colBucket := range cols {
			if colBucket > rowBucket {
				matrix.Cells[i][j] = HeatmapCell{Masked: true}
				continue
			}
			users := cellUsers[pair{rowBucket, colBucket}]
			var pct float64
			if rowTotal > 0 {
				pct = float64(users) / float64(rowTotal) * 100
			}
			matrix.Cells[i][j] = HeatmapCell{Percent: pct, Users: users}
		}
	}

	return &HeatmapResult{Matrix: matrix}
}

// bucket clips a count to the 10+ bucket. The "10+" bucket compares as
// 10 for masking purposes.
func bucket(n int) int {
	if n >= bucketCeiling {
		return bucketCeiling
	}
	return n
}

func sortedBuckets(seen map[int]bool) []int {
	out := make([]int, 0, len(seen))
	for b := range seen {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}

func bucketLabels(buckets []int) []string {
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		if b >= bucketCeiling {
			labels[i] = "10+"
		} else {
			labels[i] = strconv.Itoa(b)
		}
	}
	return labels
}
