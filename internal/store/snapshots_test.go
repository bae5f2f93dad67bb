package store

import (
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("opening in-memory db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCreateAndGetSnapshot(t *testing.T) {
	db := openTestDB(t)

	id, err := db.CreateSnapshot("track", "test", "calls.csv", 420)
	if err != nil {
		t.Fatalf("creating snapshot: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty snapshot id")
	}

	s, err := db.GetSnapshot(id)
	if err != nil {
		t.Fatalf("getting snapshot: %v", err)
	}
	if s == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if s.Command != "track" {
		t.Errorf("command = %q, want %q", s.Command, "track")
	}
	if s.InputFile != "calls.csv" {
		t.Errorf("input file = %q, want %q", s.InputFile, "calls.csv")
	}
	if s.RecordCount != 420 {
		t.Errorf("record count = %d, want 420", s.RecordCount)
	}
	if s.TakenAt.IsZero() {
		t.Error("expected parsed taken_at time")
	}
}

func TestGetSnapshotN(t *testing.T) {
	db := openTestDB(t)

	first, _ := db.CreateSnapshot("track", "test", "a.csv", 1)
	second, _ := db.CreateSnapshot("track", "test", "b.csv", 2)

	latest, err := db.GetSnapshotN(1)
	if err != nil {
		t.Fatalf("getting latest: %v", err)
	}
	if latest == nil || latest.ID != second {
		t.Errorf("latest snapshot = %v, want id %s", latest, second)
	}

	previous, err := db.GetSnapshotN(2)
	if err != nil {
		t.Fatalf("getting previous: %v", err)
	}
	if previous == nil || previous.ID != first {
		t.Errorf("previous snapshot = %v, want id %s", previous, first)
	}

	none, err := db.GetSnapshotN(3)
	if err != nil {
		t.Fatalf("getting missing: %v", err)
	}
	if none != nil {
		t.Errorf("expected nil for missing snapshot, got %v", none)
	}
}

func TestMetricsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	id, _ := db.CreateSnapshot("track", "test", "a.csv", 10)
	if err := db.InsertMetric(id, "pickup_rate", 0.42, true); err != nil {
		t.Fatalf("inserting metric: %v", err)
	}
	if err := db.InsertMetric(id, "task_success_rate", 0, false); err != nil {
		t.Fatalf("inserting undefined metric: %v", err)
	}

	metrics, err := db.GetMetrics(id)
	if err != nil {
		t.Fatalf("getting metrics: %v", err)
	}
	if len(metrics) != 2 {
		t.Fatalf("expected 2 metrics, got %d", len(metrics))
	}
	if metrics[0].MetricName != "pickup_rate" || metrics[0].MetricValue != 0.42 || !metrics[0].Defined {
		t.Errorf("unexpected first metric: %+v", metrics[0])
	}
	if metrics[1].Defined {
		t.Error("expected second metric to be undefined")
	}
}

func TestAttemptStatsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	id, _ := db.CreateSnapshot("track", "test", "a.csv", 10)
	rows := []AttemptStatRow{
		{SnapshotID: id, Attempt: 2, TotalCalls: 4, PickedUp: 1, PickupRate: 0.25, GoalSuccessDefined: true, GoalSuccess: 1},
		{SnapshotID: id, Attempt: 1, TotalCalls: 10, PickedUp: 6, PickupRate: 0.6, GoalSuccessDefined: true, GoalSuccess: 0.5},
	}
	for i := range rows {
		if err := db.InsertAttemptStat(&rows[i]); err != nil {
			t.Fatalf("inserting attempt stat: %v", err)
		}
	}

	got, err := db.GetAttemptStats(id)
	if err != nil {
		t.Fatalf("getting attempt stats: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	// Ordered by attempt ascending regardless of insert order.
	if got[0].Attempt != 1 || got[1].Attempt != 2 {
		t.Errorf("rows out of order: %d, %d", got[0].Attempt, got[1].Attempt)
	}
	if got[0].PickupRate != 0.6 {
		t.Errorf("pickup rate = %f, want 0.6", got[0].PickupRate)
	}
}

func TestDiff(t *testing.T) {
	db := openTestDB(t)

	prev, _ := db.CreateSnapshot("track", "test", "a.csv", 10)
	curr, _ := db.CreateSnapshot("track", "test", "a.csv", 12)

	_ = db.InsertMetric(prev, "pickup_rate", 0.40, true)
	_ = db.InsertMetric(curr, "pickup_rate", 0.50, true)
	_ = db.InsertMetric(prev, "task_success_rate", 0, false)
	_ = db.InsertMetric(curr, "task_success_rate", 0.9, true)
	_ = db.InsertMetric(curr, "total_calls", 12, true) // absent in prev

	deltas, err := db.Diff(prev, curr)
	if err != nil {
		t.Fatalf("diffing: %v", err)
	}
	if len(deltas) != 1 {
		t.Fatalf("expected 1 comparable delta, got %d", len(deltas))
	}
	d := deltas[0]
	if d.Name != "pickup_rate" {
		t.Errorf("delta name = %q, want pickup_rate", d.Name)
	}
	if diff := d.Delta - 0.10; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("delta = %f, want 0.10", d.Delta)
	}
}
