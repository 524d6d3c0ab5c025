package engine

import (
	"math"
	"testing"

	"github.com/talgya/village-sim/internal/agents"
	"github.com/talgya/village-sim/internal/social"
	"github.com/talgya/village-sim/internal/world"
)

func TestGiniCoefficient(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"all zero", []float64{0, 0, 0}, 0},
		{"perfect equality", []float64{5, 5, 5, 5}, 0},
		{"one has everything", []float64{0, 1}, 0.5},
		{"moderate spread", []float64{1, 2, 3, 4}, 0.25},
	}
	for _, tc := range cases {
		if got := GiniCoefficient(tc.values); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: gini = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestGiniScaleInvariant(t *testing.T) {
	base := []float64{1, 3, 7, 12}
	scaled := []float64{10, 30, 70, 120}
	if a, b := GiniCoefficient(base), GiniCoefficient(scaled); math.Abs(a-b) > 1e-9 {
		t.Errorf("gini should be scale invariant: %v vs %v", a, b)
	}
}

func TestCollectDailyResetsCounters(t *testing.T) {
	m := NewMetricsCollector()
	m.RecordBirth()
	m.RecordDeath()
	m.RecordTrade(4)
	m.RecordMarriage()
	m.RecordWorkParty()

	traits := &agents.PersonalityTraits{
		Strength: 50, Endurance: 50, Dexterity: 50, Intelligence: 50,
		Patience: 50, RiskTolerance: 50, Sociability: 50, Ambition: 50,
		Conscientiousness: 50, Empathy: 50, Creativity: 50,
		BaselineOptimism: 50, EmotionalStability: 50, LossAversion: 50,
	}
	v := agents.NewVillager(1, "Only", agents.SexMale, 25*agents.DaysPerYear, traits, 0)
	fams := social.NewFamilyManager()
	fams.Create([]int{1}, world.VillageCenter)

	snap := m.CollectDaily(3, []*agents.Villager{v}, fams, nil)
	if snap.Births != 1 || snap.Deaths != 1 || snap.Trades != 1 || snap.Marriages != 1 || snap.WorkParties != 1 {
		t.Errorf("snapshot counters wrong: %+v", snap)
	}
	if snap.TradeItemsExchanged != 4 {
		t.Errorf("trade items = %v, want 4", snap.TradeItemsExchanged)
	}
	if snap.Population != 1 || snap.Day != 3 {
		t.Errorf("population %d day %d, want 1 and 3", snap.Population, snap.Day)
	}

	next := m.CollectDaily(4, []*agents.Villager{v}, fams, nil)
	if next.Births != 0 || next.Trades != 0 || next.TradeItemsExchanged != 0 {
		t.Errorf("counters not reset between days: %+v", next)
	}
	if len(m.Snapshots) != 2 {
		t.Errorf("snapshot count = %d, want 2", len(m.Snapshots))
	}
}

func TestCollectDailySkipsDead(t *testing.T) {
	m := NewMetricsCollector()
	traits := &agents.PersonalityTraits{
		Strength: 50, Endurance: 50, Dexterity: 50, Intelligence: 50,
		Patience: 50, RiskTolerance: 50, Sociability: 50, Ambition: 50,
		Conscientiousness: 50, Empathy: 50, Creativity: 50,
		BaselineOptimism: 50, EmotionalStability: 50, LossAversion: 50,
	}
	alive := agents.NewVillager(1, "Alive", agents.SexMale, 25*agents.DaysPerYear, traits, 0)
	dead := agents.NewVillager(2, "Gone", agents.SexFemale, 70*agents.DaysPerYear, traits, 0)
	dead.Die("old_age")

	fams := social.NewFamilyManager()
	fams.Create([]int{1, 2}, world.VillageCenter)

	snap := m.CollectDaily(0, []*agents.Villager{alive, dead}, fams, nil)
	if snap.Population != 1 {
		t.Errorf("population = %d, want only the living", snap.Population)
	}
	if snap.AvgHealth != alive.Health {
		t.Errorf("avg health %v should reflect the living villager only", snap.AvgHealth)
	}
}
