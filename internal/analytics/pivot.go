package analytics

import (
	"fmt"
	"strconv"

	"github.com/dialforge/callwatch/internal/calls"
)

// Field names accepted as pivot row/column selectors.
const (
	FieldUseCase        = "use-case"
	FieldCallStatus     = "call-status"
	FieldTaskCompletion = "task-completion"
	FieldSentiment      = "sentiment"
	FieldHour           = "hour"
	FieldDayOfWeek      = "day-of-week"
)

// PivotFields returns the selectable field names.
func PivotFields() []string {
	return []string{
		FieldUseCase, FieldCallStatus, FieldTaskCompletion,
		FieldSentiment, FieldHour, FieldDayOfWeek,
	}
}

// fieldKey extracts a record's grouping key for a field. Fields are
// validated before aggregation, so an unknown name cannot reach here.
func fieldKey(field string, r calls.Record) string {
	switch field {
	case FieldUseCase:
		return r.UseCase
	case FieldCallStatus:
		return string(r.Status)
	case FieldTaskCompletion:
		return string(r.Task)
	case FieldSentiment:
		return string(r.Sentiment)
	case FieldHour:
		return strconv.Itoa(r.Hour)
	case FieldDayOfWeek:
		return r.DayOfWeek
	}
	return ""
}

func validField(name string) bool {
	switch name {
	case FieldUseCase, FieldCallStatus, FieldTaskCompletion,
		FieldSentiment, FieldHour, FieldDayOfWeek:
		return true
	}
	return false
}

// PivotConfig selects a grouping and a subset of registry metrics.
// ColField is optional; when set it must differ from RowField.
type PivotConfig struct {
	RowField string   `json:"row_field"`
	ColField string   `json:"col_field,omitempty"`
	Metrics  []string `json:"metrics"`
}

// Validate checks the configuration without touching any records.
// Configuration errors are reported before aggregation begins.
func (c PivotConfig) Validate() error {
	if !validField(c.RowField) {
		return fmt.Errorf("unknown row field %q", c.RowField)
	}
	if c.ColField != "" {
		if !validField(c.ColField) {
			return fmt.Errorf("unknown column field %q", c.ColField)
		}
		if c.ColField == c.RowField {
			return fmt.Errorf("row and column fields must differ (both %q)", c.RowField)
		}
	}
	if len(c.Metrics) == 0 {
		return fmt.Errorf("no metrics selected")
	}
	_, err := ResolveMetrics(c.Metrics)
	return err
}

// GroupedRow is one row of a flat grouped table.
type GroupedRow struct {
	Key   string           `json:"key"`
	Cells map[string]Value `json:"cells"` // metric name -> value
}

// GroupedTable is the pivot result shape when no column field is set.
type GroupedTable struct {
	RowField string       `json:"row_field"`
	Metrics  []string     `json:"metrics"`
	Rows     []GroupedRow `json:"rows"`
}

// CrossRow is one row of a cross-tabulated table. Cells are keyed by
// column value, then metric name. Every observed column value is present
// in every row; empty (row, col) subgroups hold zero for count-like
// metrics and the undefined Value for the rest.
type CrossRow struct {
	Key   string                      `json:"key"`
	Cells map[string]map[string]Value `json:"cells"`
}

// CrossTable is the pivot result shape when a column field is set.
type CrossTable struct {
	RowField string     `json:"row_field"`
	ColField string     `json:"col_field"`
	Metrics  []string   `json:"metrics"`
	Columns  []string   `json:"columns"` // first-occurrence order
	Rows     []CrossRow `json:"rows"`
}

// PivotResult is a tagged pair: exactly one of Grouped or Cross is set,
// according to whether the configuration named a column field.
type PivotResult struct {
	Config  PivotConfig   `json:"config"`
	Grouped *GroupedTable `json:"grouped,omitempty"`
	Cross   *CrossTable   `json:"cross,omitempty"`
}

// RunPivot groups records by the configured row key (and column key if
// present) and applies each selected metric to every group. Group order
// on both axes is first-occurrence order of the key value in the input,
// so identical input and configuration always reproduce the same table.
func RunPivot(records []calls.Record, cfg PivotConfig) (*PivotResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	metrics, err := ResolveMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	rowKeys, rowGroups := groupBy(records, cfg.RowField)

	if cfg.ColField == "" {
		table := &GroupedTable{RowField: cfg.RowField, Metrics: cfg.Metrics}
		for _, key := range rowKeys {
			table.Rows = append(table.Rows, GroupedRow{
				Key:   key,
				Cells: applyMetrics(rowGroups[key], metrics),
			})
		}
		return &PivotResult{Config: cfg, Grouped: table}, nil
	}

	colKeys, _ := groupBy(records, cfg.ColField)
	table := &CrossTable{
		RowField: cfg.RowField,
		ColField: cfg.ColField,
		Metrics:  cfg.Metrics,
		Columns:  colKeys,
	}
	for _, rowKey := range rowKeys {
		group := rowGroups[rowKey]
		row := CrossRow{Key: rowKey, Cells: make(map[string]map[string]Value, len(colKeys))}
		for _, colKey := range colKeys {
			var sub []calls.Record
			for _, r := range group {
				if fieldKey(cfg.ColField, r) == colKey {
					sub = append(sub, r)
				}
			}
			row.Cells[colKey] = applyMetrics(sub, metrics)
		}
		table.Rows = append(table.Rows, row)
	}
	return &PivotResult{Config: cfg, Cross: table}, nil
}

// groupBy partitions records by a field, returning key values in
// first-occurrence order alongside the partition map.
func groupBy(records []calls.Record, field string) ([]string, map[string][]calls.Record) {
	var keys []string
	groups := make(map[string][]calls.Record)
	for _, r := range records {
		key := fieldKey(field, r)
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], r)
	}
	return keys, groups
}
