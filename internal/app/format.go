package app

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/dialforge/callwatch/internal/analytics"
)

// fmtValue renders a metric value for table output. Undefined values
// render as "n/a" rather than a misleading zero.
func fmtValue(v analytics.Value) string {
	if !v.Valid {
		return "n/a"
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

// fmtRate renders a 0-1 ratio as a percentage, or "n/a" when undefined.
func fmtRate(v analytics.Value) string {
	if !v.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v.Float*100)
}

// csvValue renders a metric value for CSV export. Undefined values are
// exported as an empty cell.
func csvValue(v analytics.Value) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

// writeCSV writes rows to path, creating or truncating the file.
func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := csv.NewWriter(f).WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// outputJSON marshals v to stdout with indentation.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
