package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialforge/callwatch/internal/calls"
)

func pivotRecords() []calls.Record {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	mk := func(number, useCase string, status calls.CallStatus) calls.Record {
		r := rec(number, base, status)
		r.UseCase = useCase
		return r
	}
	// "appointment" appears first in input, then "survey".
	return []calls.Record{
		mk("1", "appointment", calls.StatusCompleted),
		mk("2", "appointment", calls.StatusCompleted),
		mk("3", "appointment", calls.StatusPlaced),
		mk("4", "survey", calls.StatusCouldNotConnect),
	}
}

func TestPivotConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     PivotConfig
		wantErr string
	}{
		{
			name: "valid flat",
			cfg:  PivotConfig{RowField: FieldUseCase, Metrics: []string{MetricCount}},
		},
		{
			name: "valid cross",
			cfg:  PivotConfig{RowField: FieldUseCase, ColField: FieldCallStatus, Metrics: []string{MetricCount}},
		},
		{
			name:    "unknown row field",
			cfg:     PivotConfig{RowField: "region", Metrics: []string{MetricCount}},
			wantErr: "unknown row field",
		},
		{
			name:    "unknown column field",
			cfg:     PivotConfig{RowField: FieldUseCase, ColField: "region", Metrics: []string{MetricCount}},
			wantErr: "unknown column field",
		},
		{
			name:    "row equals column",
			cfg:     PivotConfig{RowField: FieldHour, ColField: FieldHour, Metrics: []string{MetricCount}},
			wantErr: "must differ",
		},
		{
			name:    "no metrics",
			cfg:     PivotConfig{RowField: FieldUseCase},
			wantErr: "no metrics",
		},
		{
			name:    "unknown metric",
			cfg:     PivotConfig{RowField: FieldUseCase, Metrics: []string{"p99-duration"}},
			wantErr: "unknown metric",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestRunPivot_FlatFirstOccurrenceOrder(t *testing.T) {
	result, err := RunPivot(pivotRecords(), PivotConfig{
		RowField: FieldUseCase,
		Metrics:  []string{MetricCount, MetricPickupRate},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Grouped)
	assert.Nil(t, result.Cross)

	rows := result.Grouped.Rows
	require.Len(t, rows, 2)

	assert.Equal(t, "appointment", rows[0].Key)
	assert.Equal(t, 3.0, rows[0].Cells[MetricCount].Float)
	assert.InDelta(t, 2.0/3.0, rows[0].Cells[MetricPickupRate].Float, 1e-9)

	assert.Equal(t, "survey", rows[1].Key)
	assert.Equal(t, 1.0, rows[1].Cells[MetricCount].Float)
	assert.InDelta(t, 0.0, rows[1].Cells[MetricPickupRate].Float, 1e-9)
	assert.True(t, rows[1].Cells[MetricPickupRate].Valid)
}

func TestRunPivot_Reproducible(t *testing.T) {
	cfg := PivotConfig{RowField: FieldUseCase, Metrics: []string{MetricCount, MetricPickupRate}}
	records := pivotRecords()

	first, err := RunPivot(records, cfg)
	require.NoError(t, err)
	second, err := RunPivot(records, cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunPivot_CrossTab(t *testing.T) {
	result, err := RunPivot(pivotRecords(), PivotConfig{
		RowField: FieldUseCase,
		ColField: FieldCallStatus,
		Metrics:  []string{MetricCount, MetricAvgDuration},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Cross)
	assert.Nil(t, result.Grouped)

	table := result.Cross
	// Columns in first-occurrence order of status values.
	assert.Equal(t, []string{"completed", "call_placed", "could_not_connect"}, table.Columns)
	require.Len(t, table.Rows, 2)

	appt := table.Rows[0]
	assert.Equal(t, "appointment", appt.Key)
	assert.Equal(t, 2.0, appt.Cells["completed"][MetricCount].Float)
	assert.Equal(t, 1.0, appt.Cells["call_placed"][MetricCount].Float)

	// survey has no completed calls: count-like absence is zero, the
	// duration metric is undefined.
	survey := table.Rows[1]
	require.True(t, survey.Cells["completed"][MetricCount].Valid)
	assert.Equal(t, 0.0, survey.Cells["completed"][MetricCount].Float)
	assert.False(t, survey.Cells["completed"][MetricAvgDuration].Valid)
}

func TestRunPivot_ConfigErrorBeforeAggregation(t *testing.T) {
	_, err := RunPivot(pivotRecords(), PivotConfig{RowField: "bogus", Metrics: []string{MetricCount}})
	require.Error(t, err)
}

func TestRunPivot_IncompatibleMetricYieldsSentinel(t *testing.T) {
	// All records pre-filtered to duration-less statuses: duration
	// metrics degrade to the sentinel per group, not a table failure.
	records := []calls.Record{
		rec("1", time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), calls.StatusCouldNotConnect),
	}
	records[0].UseCase = "survey"

	result, err := RunPivot(records, PivotConfig{
		RowField: FieldUseCase,
		Metrics:  []string{MetricAvgDuration},
	})
	require.NoError(t, err)
	require.Len(t, result.Grouped.Rows, 1)
	assert.False(t, result.Grouped.Rows[0].Cells[MetricAvgDuration].Valid)
}

func TestRunPivot_HourField(t *testing.T) {
	records := []calls.Record{
		rec("1", at(1, 9), calls.StatusCompleted),
		rec("2", at(1, 14), calls.StatusPlaced),
		rec("3", at(2, 9), calls.StatusCompleted),
	}

	result, err := RunPivot(records, PivotConfig{RowField: FieldHour, Metrics: []string{MetricCount}})
	require.NoError(t, err)
	rows := result.Grouped.Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "9", rows[0].Key)
	assert.Equal(t, 2.0, rows[0].Cells[MetricCount].Float)
	assert.Equal(t, "14", rows[1].Key)
}
