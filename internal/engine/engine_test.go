package engine

import (
	"context"
	"reflect"
	"testing"
)

func newTestEngine(seed int64) *Engine {
	e := New(seed, 24, nil)
	e.Initialize()
	return e
}

func TestSameSeedSameHistory(t *testing.T) {
	a := newTestEngine(42)
	b := newTestEngine(42)

	for day := 0; day < 8; day++ {
		a.Tick()
		b.Tick()
	}

	if len(a.Metrics.Snapshots) != len(b.Metrics.Snapshots) {
		t.Fatalf("snapshot counts diverged: %d vs %d",
			len(a.Metrics.Snapshots), len(b.Metrics.Snapshots))
	}
	for i := range a.Metrics.Snapshots {
		if !reflect.DeepEqual(a.Metrics.Snapshots[i], b.Metrics.Snapshots[i]) {
			t.Fatalf("day %d diverged:\n%+v\nvs\n%+v",
				i, a.Metrics.Snapshots[i], b.Metrics.Snapshots[i])
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := newTestEngine(1)
	b := newTestEngine(2)

	for day := 0; day < 5; day++ {
		a.Tick()
		b.Tick()
	}
	if reflect.DeepEqual(a.Metrics.Snapshots, b.Metrics.Snapshots) {
		t.Error("different seeds produced identical histories")
	}
}

func TestInitializePopulatesWorld(t *testing.T) {
	e := newTestEngine(7)

	if len(e.Villagers) != 24 {
		t.Errorf("population = %d, want 24", len(e.Villagers))
	}
	if len(e.Families.Families()) == 0 {
		t.Error("no families formed")
	}
	for _, fam := range e.Families.Families() {
		if fam.Inventory.TotalFoodValue() <= 0 {
			t.Errorf("family %d started with no food", fam.ID)
			break
		}
	}
	if len(e.Resources.Nodes()) == 0 {
		t.Error("no resource nodes generated")
	}
}

func TestRunHonorsContext(t *testing.T) {
	e := newTestEngine(3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := e.Run(ctx, 30); err == nil {
		t.Error("cancelled context should stop the run with an error")
	}
	if len(e.Metrics.Snapshots) != 0 {
		t.Errorf("ran %d days despite cancellation", len(e.Metrics.Snapshots))
	}
}

func TestTickAdvancesClockAndMetrics(t *testing.T) {
	e := newTestEngine(11)
	for day := 0; day < 3; day++ {
		e.Tick()
	}
	if e.Clock.Day != 3 {
		t.Errorf("clock day = %d, want 3", e.Clock.Day)
	}
	if len(e.Metrics.Snapshots) != 3 {
		t.Fatalf("snapshots = %d, want 3", len(e.Metrics.Snapshots))
	}
	last := e.Metrics.Snapshots[2]
	if last.Population <= 0 {
		t.Error("population collapsed within three days")
	}
	if last.AvgHealth <= 0 {
		t.Error("average health should be positive after three days")
	}
}
