package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// CreateSnapshot inserts a new snapshot and returns its ID.
func (db *DB) CreateSnapshot(command, version, inputFile string, recordCount int) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(
		`INSERT INTO snapshots (id, taken_at, command, version, input_file, record_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), command, version, inputFile, recordCount,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetSnapshot returns a snapshot by ID, or nil if it does not exist.
func (db *DB) GetSnapshot(id string) (*Snapshot, error) {
	row := db.conn.QueryRow(
		"SELECT id, taken_at, command, version, input_file, record_count FROM snapshots WHERE id = ?",
		id,
	)
	return scanSnapshot(row)
}

// GetSnapshotN returns the Nth most recent snapshot (1 = latest,
// 2 = previous, and so on), or nil when fewer snapshots exist.
func (db *DB) GetSnapshotN(n int) (*Snapshot, error) {
	row := db.conn.QueryRow(
		`SELECT id, taken_at, command, version, input_file, record_count
		 FROM snapshots ORDER BY rowid DESC LIMIT 1 OFFSET ?`,
		n-1,
	)
	return scanSnapshot(row)
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var s Snapshot
	var takenAt string
	err := row.Scan(&s.ID, &takenAt, &s.Command, &s.Version, &s.InputFile, &s.RecordCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	return &s, nil
}

// InsertMetric inserts a snapshot metric. Undefined metrics are stored
// with defined=false and a zero value.
func (db *DB) InsertMetric(snapshotID, name string, value float64, defined bool) error {
	_, err := db.conn.Exec(
		"INSERT INTO snapshot_metrics (snapshot_id, metric_name, metric_value, defined) VALUES (?, ?, ?, ?)",
		snapshotID, name, value, defined,
	)
	return err
}

// InsertAttemptStat inserts one attempt-performance row for a snapshot.
func (db *DB) InsertAttemptStat(as *AttemptStatRow) error {
	_, err := db.conn.Exec(
		`INSERT INTO attempt_stats
		(snapshot_id, attempt, total_calls, picked_up, goal_met,
		 negative_sentiment, pickup_rate, goal_success, goal_success_defined)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		as.SnapshotID, as.Attempt, as.TotalCalls, as.PickedUp, as.GoalMet,
		as.NegativeSentiment, as.PickupRate, as.GoalSuccess, as.GoalSuccessDefined,
	)
	return err
}

// GetMetrics returns all metrics for a snapshot.
func (db *DB) GetMetrics(snapshotID string) ([]SnapshotMetric, error) {
	rows, err := db.conn.Query(
		"SELECT id, snapshot_id, metric_name, metric_value, defined FROM snapshot_metrics WHERE snapshot_id = ?",
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metrics []SnapshotMetric
	for rows.Next() {
		var m SnapshotMetric
		if err := rows.Scan(&m.ID, &m.SnapshotID, &m.MetricName, &m.MetricValue, &m.Defined); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// GetAttemptStats returns the stored attempt-performance rows for a
// snapshot, ordered by attempt ascending.
func (db *DB) GetAttemptStats(snapshotID string) ([]AttemptStatRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, snapshot_id, attempt, total_calls, picked_up, goal_met,
		 negative_sentiment, pickup_rate, goal_success, goal_success_defined
		 FROM attempt_stats WHERE snapshot_id = ? ORDER BY attempt`,
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var stats []AttemptStatRow
	for rows.Next() {
		var as AttemptStatRow
		if err := rows.Scan(
			&as.ID, &as.SnapshotID, &as.Attempt, &as.TotalCalls, &as.PickedUp,
			&as.GoalMet, &as.NegativeSentiment, &as.PickupRate, &as.GoalSuccess,
			&as.GoalSuccessDefined,
		); err != nil {
			return nil, err
		}
		stats = append(stats, as)
	}
	return stats, rows.Err()
}

// Diff compares the metrics of two snapshots. Metrics missing or
// undefined in either snapshot are skipped.
func (db *DB) Diff(previousID, currentID string) ([]MetricDelta, error) {
	prev, err := db.GetMetrics(previousID)
	if err != nil {
		return nil, err
	}
	curr, err := db.GetMetrics(currentID)
	if err != nil {
		return nil, err
	}

	prevByName := make(map[string]SnapshotMetric, len(prev))
	for _, m := range prev {
		prevByName[m.MetricName] = m
	}

	var deltas []MetricDelta
	for _, m := range curr {
		p, ok := prevByName[m.MetricName]
		if !ok || !p.Defined || !m.Defined {
			continue
		}
		deltas = append(deltas, MetricDelta{
			Name:     m.MetricName,
			Previous: p.MetricValue,
			Current:  m.MetricValue,
			Delta:    m.MetricValue - p.MetricValue,
		})
	}
	return deltas, nil
}
