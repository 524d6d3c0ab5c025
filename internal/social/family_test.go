package social

import (
	"math"
	"testing"

	"github.com/talgya/village-sim/internal/agents"
	"github.com/talgya/village-sim/internal/economy"
	"github.com/talgya/village-sim/internal/world"
)

func adultTraits() *agents.PersonalityTraits {
	return &agents.PersonalityTraits{
		Strength: 50, Endurance: 50, Dexterity: 50, Intelligence: 50,
		Patience: 50, RiskTolerance: 50, Sociability: 50, Ambition: 50,
		Conscientiousness: 50, Empathy: 50, Creativity: 50,
		BaselineOptimism: 50, EmotionalStability: 50, LossAversion: 50,
	}
}

func adult(id int) *agents.Villager {
	return agents.NewVillager(id, "Adult", agents.SexMale, 30*agents.DaysPerYear, adultTraits(), 0)
}

func TestDistributeFoodFeedsHungry(t *testing.T) {
	v := adult(1)
	v.Needs.Get(agents.NeedHunger).Satisfaction = 0.4 // deficit 0.6

	fam := NewFamily(0, []int{1}, world.VillageCenter)
	fam.Inventory.Add(economy.NewItem("grain", 20, 0.5)) // 16 food value

	byID := map[int]*agents.Villager{1: v}
	fam.DistributeFood(byID)

	got := v.Needs.Get(agents.NeedHunger).Satisfaction
	if math.Abs(got-1.0) > 1e-6 {
		t.Errorf("hunger after feeding = %v, want 1.0", got)
	}

	// Deficit 0.6 needs 0.9 food value, which is 1.125 grain units.
	wantRemaining := 20.0 - (0.6*BaseDailyFoodNeed)/0.8
	if remaining := fam.Inventory.TotalOf("grain"); math.Abs(remaining-wantRemaining) > 1e-6 {
		t.Errorf("grain remaining = %v, want %v", remaining, wantRemaining)
	}
}

func TestDistributeFoodSkipsNearlyFull(t *testing.T) {
	v := adult(1)
	v.Needs.Get(agents.NeedHunger).Satisfaction = 0.97

	fam := NewFamily(0, []int{1}, world.VillageCenter)
	fam.Inventory.Add(economy.NewItem("grain", 10, 0.5))

	fam.DistributeFood(map[int]*agents.Villager{1: v})
	if got := fam.Inventory.TotalOf("grain"); got != 10 {
		t.Errorf("nearly full member should not eat, grain = %v", got)
	}
}

func TestDistributeFoodRunsDry(t *testing.T) {
	a := adult(1)
	b := adult(2)
	a.Needs.Get(agents.NeedHunger).Satisfaction = 0.0
	b.Needs.Get(agents.NeedHunger).Satisfaction = 0.0

	fam := NewFamily(0, []int{1, 2}, world.VillageCenter)
	// One unit of berries: 0.5 food value, far below two full deficits.
	fam.Inventory.Add(economy.NewItem("berries", 1, 0.5))

	byID := map[int]*agents.Villager{1: a, 2: b}
	fam.DistributeFood(byID)

	if got := a.Needs.Get(agents.NeedHunger).Satisfaction; got <= 0 {
		t.Error("first member got nothing")
	}
	if got := b.Needs.Get(agents.NeedHunger).Satisfaction; got != 0 {
		t.Errorf("stores were empty, second member satisfaction = %v, want 0", got)
	}
	if fam.Inventory.Has("berries", 0.02) {
		t.Error("empty berry stack should have been purged")
	}
}

func TestMouthsToFeedHalvesChildren(t *testing.T) {
	grown := adult(1)
	child := agents.NewVillager(2, "Child", agents.SexFemale, 5*agents.DaysPerYear, adultTraits(), 0)
	fam := NewFamily(0, []int{1, 2}, world.VillageCenter)

	byID := map[int]*agents.Villager{1: grown, 2: child}
	if got := fam.MouthsToFeed(byID); got != 1.5 {
		t.Errorf("mouths = %v, want 1.5", got)
	}
}

func TestFormMarriageMergesHouseholds(t *testing.T) {
	m := NewFamilyManager()
	a := adult(1)
	b := adult(2)
	famA := m.Create([]int{1}, world.VillageCenter)
	famB := m.Create([]int{2}, world.VillageCenter)
	a.FamilyID = famA.ID
	b.FamilyID = famB.ID

	merged := m.FormMarriage(a, b)
	if merged.ID != famA.ID {
		t.Errorf("couple should live in the first spouse's family, got %d", merged.ID)
	}
	if b.FamilyID != famA.ID {
		t.Error("second spouse kept the old family ID")
	}
	if m.Get(famB.ID) != nil {
		t.Error("emptied household should be removed")
	}
	if len(m.Families()) != 1 {
		t.Errorf("family count = %d, want 1", len(m.Families()))
	}
}

func TestHeadshipSuccession(t *testing.T) {
	fam := NewFamily(0, []int{5, 6, 7}, world.VillageCenter)
	if fam.HeadOfHousehold != 5 {
		t.Fatalf("head = %d, want 5", fam.HeadOfHousehold)
	}
	fam.RemoveMember(5)
	if fam.HeadOfHousehold != 6 {
		t.Errorf("head after removal = %d, want 6", fam.HeadOfHousehold)
	}
}
