package history

import (
	"path/filepath"
	"testing"
	"time"

	"quotabalance/internal/balance"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordRun_RoundTrip(t *testing.T) {
	store := openTestStore(t)

	balanced := balance.BalancedQuotaMap{
		"gemini-3-pro": 0.5,
		"vertex-ai":    0.25,
	}

	runID, err := store.RecordRun(time.Now(), balanced)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	runs, err := store.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].ID != runID {
		t.Fatalf("run id = %q, want %q", runs[0].ID, runID)
	}
	if runs[0].Balanced["gemini-3-pro"] != 0.5 || runs[0].Balanced["vertex-ai"] != 0.25 {
		t.Fatalf("balanced = %v", runs[0].Balanced)
	}
}

func TestRecentRuns_NewestFirst(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := store.RecordRun(base.Add(time.Duration(i)*time.Minute), balance.BalancedQuotaMap{"m": float64(i)}); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].Balanced["m"] != 2 || runs[1].Balanced["m"] != 1 {
		t.Fatalf("unexpected order: %v then %v", runs[0].Balanced, runs[1].Balanced)
	}
}

func TestFractionSeries_OldestFirst(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	values := []float64{0.9, 0.6, 0.3}
	for i, v := range values {
		if _, err := store.RecordRun(base.Add(time.Duration(i)*time.Hour), balance.BalancedQuotaMap{"gemini-3-pro": v}); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	points, err := store.FractionSeries("gemini-3-pro", 10)
	if err != nil {
		t.Fatalf("FractionSeries: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("points = %d, want 3", len(points))
	}
	for i, want := range values {
		if points[i].Fraction != want {
			t.Fatalf("points[%d] = %v, want %v", i, points[i].Fraction, want)
		}
	}

	if points, _ := store.FractionSeries("unknown-model", 10); len(points) != 0 {
		t.Fatalf("unknown model should have no points, got %d", len(points))
	}
}

func TestRecordRun_EmptyMap(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.RecordRun(time.Now(), balance.BalancedQuotaMap{}); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	runs, err := store.RecentRuns(1)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || len(runs[0].Balanced) != 0 {
		t.Fatalf("runs = %+v", runs)
	}
}
