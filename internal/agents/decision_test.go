package agents

import (
	"testing"

	"github.com/talgya/village-sim/internal/economy"
	"github.com/talgya/village-sim/internal/rng"
	"github.com/talgya/village-sim/internal/world"
)

// stubWorld offers every resource type at a fixed nearby position.
type stubWorld struct {
	familyInv *economy.Inventory
}

func (s stubWorld) Season() world.Season     { return world.Summer }
func (s stubWorld) WeatherModifier() float64 { return 1.0 }

func (s stubWorld) FindResource(pos world.Position, t world.ResourceType) *world.ResourceNode {
	return &world.ResourceNode{
		ID:        1,
		Type:      t,
		Position:  world.Position{X: pos.X + 2, Y: pos.Y},
		Abundance: 100,
	}
}

func (s stubWorld) EstimateTravel(start, end world.Position) float64 {
	return float64(start.Manhattan(end)) / world.BaseTravelSpeed
}

func (s stubWorld) FamilyInventory(familyID int) *economy.Inventory {
	return s.familyInv
}

func balancedTraits() *PersonalityTraits {
	return &PersonalityTraits{
		Strength: 50, Endurance: 50, Dexterity: 50, Intelligence: 50,
		Patience: 50, RiskTolerance: 50, Sociability: 50, Ambition: 50,
		Conscientiousness: 50, Empathy: 50, Creativity: 50,
		BaselineOptimism: 50, EmotionalStability: 50, LossAversion: 50,
	}
}

func testVillager(id int) *Villager {
	v := NewVillager(id, "Test", SexMale, 25*DaysPerYear, balancedTraits(), 0)
	v.Inventory = economy.NewInventory(30, "personal")
	v.FamilyID = 0
	return v
}

func TestPlanDayFillsDaylight(t *testing.T) {
	d := NewDecisionEngine(rng.New(1))
	v := testVillager(1)
	ws := stubWorld{familyInv: economy.NewFamilyInventory()}

	schedule := d.PlanDay(v, ws, 12.0)
	if len(schedule) == 0 {
		t.Fatal("empty schedule")
	}
	var total float64
	for _, p := range schedule {
		total += p.PlannedHours
		if p.PlannedHours <= 0 {
			t.Errorf("plan %q has non-positive hours %v", p.Activity, p.PlannedHours)
		}
	}
	if total > 12.0+1.0 {
		t.Errorf("scheduled %v hours into a 12 hour day", total)
	}
}

func TestCriticalHungerSchedulesFoodFirst(t *testing.T) {
	d := NewDecisionEngine(rng.New(7))
	v := testVillager(2)
	v.Needs.Get(NeedHunger).Satisfaction = 0.05

	ws := stubWorld{familyInv: economy.NewFamilyInventory()}
	schedule := d.PlanDay(v, ws, 12.0)
	if len(schedule) == 0 {
		t.Fatal("empty schedule")
	}

	first := schedule[0].Activity
	satisfiesHunger := false
	for _, need := range economy.ActivityNeeds[first] {
		if need == string(NeedHunger) {
			satisfiesHunger = true
		}
	}
	if !satisfiesHunger {
		t.Errorf("starving villager planned %q first; want a hunger activity", first)
	}
}

func TestToollessActivitiesExcluded(t *testing.T) {
	d := NewDecisionEngine(rng.New(3))
	v := testVillager(3)

	// No spear anywhere, so hunting must never be planned even when
	// hunger is desperate.
	ws := stubWorld{familyInv: economy.NewFamilyInventory()}
	v.Needs.Get(NeedHunger).Satisfaction = 0.05

	for trial := 0; trial < 20; trial++ {
		schedule := d.PlanDay(v, ws, 12.0)
		for _, p := range schedule {
			if p.Activity == "hunt_small_game" || p.Activity == "hunt_large_game" {
				t.Fatalf("planned %q without a spear", p.Activity)
			}
		}
	}
}

func TestToolGatesFeasibility(t *testing.T) {
	d := NewDecisionEngine(rng.New(3))
	v := testVillager(4)
	urgencies := v.Needs.UrgencyVector()
	hunt := economy.Activities["hunt_small_game"]

	noTools := stubWorld{familyInv: economy.NewFamilyInventory()}
	if sp := d.evaluateActivity(v, hunt, noTools, 12.0, urgencies); sp != nil {
		t.Error("hunting should be infeasible without a spear")
	}

	famInv := economy.NewFamilyInventory()
	famInv.Add(economy.NewItem("wooden_spear", 1, 0.8))
	withSpear := stubWorld{familyInv: famInv}
	if sp := d.evaluateActivity(v, hunt, withSpear, 12.0, urgencies); sp == nil {
		t.Error("hunting should be feasible with a family spear")
	}
}

func TestEvaluateCooperationNeedsAlignment(t *testing.T) {
	d := NewDecisionEngine(rng.New(5))
	v := testVillager(5)

	// Fully satisfied needs: no reason to join anything.
	if d.EvaluateCooperationRequest(v, "hunt_large_game", 1.0) {
		t.Error("sated villager joined a hunt")
	}

	v.Needs.Get(NeedHunger).Satisfaction = 0.05
	if !d.EvaluateCooperationRequest(v, "hunt_large_game", 1.0) {
		t.Error("starving villager refused a trusted hunting party")
	}
}
