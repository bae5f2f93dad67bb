package calls

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column names expected in the header row.
const (
	colNumber    = "Number"
	colTime      = "Time"
	colUseCase   = "Use Case"
	colStatus    = "Call Status"
	colDuration  = "Duration"
	colTask      = "Analysis.task_completion"
	colSentiment = "Analysis.user_sentiment"
)

// requiredColumns must all be present in the header.
var requiredColumns = []string{colNumber, colTime, colUseCase, colStatus, colDuration}

// LoadCSV reads a call-record CSV file into raw rows.
func LoadCSV(path string) ([]RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

// ReadCSV reads raw rows from CSV data with a header row. Ragged rows are
// tolerated; missing cells read as empty and are handled downstream by
// Normalize.
func ReadCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var rows []RawRow
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			// Malformed CSV line: skip it, Normalize reports on content
			// problems only.
			continue
		}

		cell := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return fields[i]
		}

		rows = append(rows, RawRow{
			Line:      line,
			Number:    cell(colNumber),
			Time:      cell(colTime),
			UseCase:   cell(colUseCase),
			Status:    cell(colStatus),
			Duration:  cell(colDuration),
			Task:      cell(colTask),
			Sentiment: cell(colSentiment),
		})
	}

	return rows, nil
}
