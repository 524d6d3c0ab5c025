package trade

import (
	"math"
	"testing"

	"github.com/talgya/village-sim/internal/agents"
	"github.com/talgya/village-sim/internal/economy"
	"github.com/talgya/village-sim/internal/rng"
)

func balancedTraits() *agents.PersonalityTraits {
	return &agents.PersonalityTraits{
		Strength: 50, Endurance: 50, Dexterity: 50, Intelligence: 50,
		Patience: 50, RiskTolerance: 50, Sociability: 50, Ambition: 50,
		Conscientiousness: 50, Empathy: 50, Creativity: 50,
		BaselineOptimism: 50, EmotionalStability: 50, LossAversion: 50,
	}
}

func trader(id int) *agents.Villager {
	return agents.NewVillager(id, "Trader", agents.SexFemale, 30*agents.DaysPerYear, balancedTraits(), 0)
}

func TestHungerInflatesFoodValue(t *testing.T) {
	hungry := trader(1)
	hungry.Needs.Get(agents.NeedHunger).Satisfaction = 0.1
	sated := trader(2)
	sated.Needs.Get(agents.NeedHunger).Satisfaction = 1.0

	hv := SubjectiveValue(hungry, "grain", 1, nil)
	sv := SubjectiveValue(sated, "grain", 1, nil)
	if hv <= sv*2 {
		t.Errorf("starving valuation %v should far exceed sated valuation %v", hv, sv)
	}
}

func TestStockpileDepressesValue(t *testing.T) {
	v := trader(1)

	empty := economy.NewFamilyInventory()
	full := economy.NewFamilyInventory()
	full.Add(economy.NewItem("grain", 10, 0.5))

	scarce := SubjectiveValue(v, "grain", 1, empty)
	abundant := SubjectiveValue(v, "grain", 1, full)
	if abundant >= scarce {
		t.Errorf("value with 10 in store %v should be below value with none %v", abundant, scarce)
	}
}

func TestMissingToolValuedHigher(t *testing.T) {
	v := trader(1)

	without := SubjectiveValue(v, "stone_axe", 1, economy.NewFamilyInventory())
	equipped := economy.NewFamilyInventory()
	equipped.Add(economy.NewItem("stone_axe", 1, 0.5))
	with := SubjectiveValue(v, "stone_axe", 1, equipped)

	if without <= with {
		t.Errorf("first axe %v should be worth more than a backup %v", without, with)
	}
}

func TestSurplusThresholds(t *testing.T) {
	inv := economy.NewFamilyInventory()
	inv.Add(economy.NewItem("grain", 30, 0.5))
	inv.Add(economy.NewItem("stone_axe", 2, 0.5))
	inv.Add(economy.NewItem("timber", 8, 0.5))

	surplus := Surplus(inv)
	byType := make(map[string]float64)
	for _, line := range surplus {
		byType[line.Type] = line.Quantity
	}

	// 5 days of rations is 7.5 food value, 9.375 grain units.
	if got := byType["grain"]; math.Abs(got-20.625) > 1e-6 {
		t.Errorf("grain surplus = %v, want 20.625", got)
	}
	if got := byType["stone_axe"]; got != 1 {
		t.Errorf("axe surplus = %v, want 1 (keep one per household)", got)
	}
	if got := byType["timber"]; got != 3 {
		t.Errorf("timber surplus = %v, want 3 (keep five units)", got)
	}
}

func TestDeficitsListFoodAndTools(t *testing.T) {
	v := trader(1)
	inv := economy.NewFamilyInventory()

	deficits := Deficits(v, inv)
	if len(deficits) == 0 {
		t.Fatal("destitute villager reports no deficits")
	}
	// Food first: 3 days of rations is 4.5 food value, 5.625 grain units.
	if deficits[0].Type != "grain" {
		t.Fatalf("top deficit = %q, want the preferred staple", deficits[0].Type)
	}
	if math.Abs(deficits[0].Quantity-5.625) > 1e-6 {
		t.Errorf("grain deficit = %v, want 5.625", deficits[0].Quantity)
	}

	// Every tool category is missing.
	toolLines := 0
	for _, line := range deficits[1:] {
		if economy.Spec(line.Type).ToolType != "" {
			toolLines++
		}
	}
	if toolLines < 4 {
		t.Errorf("tool deficits = %d, want one per missing category", toolLines)
	}
}

func TestEvaluateOfferTrustLowersBar(t *testing.T) {
	s := NewSystem(rng.New(1))
	v := trader(1)
	inv := economy.NewFamilyInventory()

	// Same item both directions, so the ratio is exactly 4/5 = 0.8.
	// Balanced traits put the bar at 0.925 for strangers and 0.625 at
	// full trust.
	offer := &Offer{
		Offering:   []Line{{"grain", 4}},
		Requesting: []Line{{"grain", 5}},
	}
	if s.EvaluateOffer(v, offer, inv, 0.0) {
		t.Error("stranger accepted a losing trade")
	}
	if !s.EvaluateOffer(v, offer, inv, 1.0) {
		t.Error("trusted partner rejected a near-even trade")
	}

	// A gift costs nothing and is always taken.
	gift := &Offer{Offering: []Line{{"berries", 2}}}
	if !s.EvaluateOffer(v, gift, inv, 0.0) {
		t.Error("free goods refused")
	}
}

func TestExecuteTradeMovesGoods(t *testing.T) {
	s := NewSystem(rng.New(1))
	offerer := economy.NewFamilyInventory()
	offerer.Add(economy.NewItem("grain", 5, 0.5))
	target := economy.NewFamilyInventory()
	target.Add(economy.NewItem("fish", 2, 0.5))

	offer := &Offer{
		Offering:   []Line{{"grain", 3}},
		Requesting: []Line{{"fish", 1}},
		OffererID:  1,
		TargetID:   2,
	}
	if !s.ExecuteTrade(offer, offerer, target, 10) {
		t.Fatal("valid trade failed")
	}

	if got := offerer.TotalOf("grain"); math.Abs(got-2) > 1e-9 {
		t.Errorf("offerer grain = %v, want 2", got)
	}
	if got := offerer.TotalOf("fish"); math.Abs(got-1) > 1e-9 {
		t.Errorf("offerer fish = %v, want 1", got)
	}
	if got := target.TotalOf("grain"); math.Abs(got-3) > 1e-9 {
		t.Errorf("target grain = %v, want 3", got)
	}
	if s.TotalTrades != 1 || len(s.DailyTrades) != 1 {
		t.Errorf("records: total %d daily %d, want 1 and 1", s.TotalTrades, len(s.DailyTrades))
	}
	if s.DailyTrades[0].Day != 10 {
		t.Errorf("record day = %d, want 10", s.DailyTrades[0].Day)
	}

	s.ResetDaily()
	if len(s.DailyTrades) != 0 {
		t.Error("daily records survived reset")
	}
	if s.TotalTrades != 1 {
		t.Error("lifetime counter should survive reset")
	}
}

func TestExecuteTradeRefusesShortStock(t *testing.T) {
	s := NewSystem(rng.New(1))
	offerer := economy.NewFamilyInventory()
	offerer.Add(economy.NewItem("grain", 5, 0.5))
	target := economy.NewFamilyInventory()
	target.Add(economy.NewItem("fish", 1, 0.5))

	offer := &Offer{
		Offering:   []Line{{"grain", 3}},
		Requesting: []Line{{"fish", 4}},
	}
	if s.ExecuteTrade(offer, offerer, target, 0) {
		t.Fatal("trade settled against insufficient stock")
	}
	if got := offerer.TotalOf("grain"); got != 5 {
		t.Errorf("failed trade moved offerer goods: grain %v", got)
	}
	if got := target.TotalOf("fish"); got != 1 {
		t.Errorf("failed trade moved target goods: fish %v", got)
	}
	if s.TotalTrades != 0 {
		t.Error("failed trade was recorded")
	}
}

func TestGenerateOfferNeedsSurplus(t *testing.T) {
	s := NewSystem(rng.New(1))
	v := trader(1)
	partner := trader(2)

	empty := economy.NewFamilyInventory()
	if offer := s.GenerateOffer(v, partner, empty, empty); offer != nil {
		t.Errorf("offer generated with nothing to give: %+v", offer)
	}
}

func TestGenerateOfferMatchesNeed(t *testing.T) {
	s := NewSystem(rng.New(1))
	v := trader(1)
	partner := trader(2)

	mine := economy.NewFamilyInventory()
	mine.Add(economy.NewItem("grain", 40, 0.5))
	theirs := economy.NewFamilyInventory()
	theirs.Add(economy.NewItem("stone_axe", 3, 0.5))

	offer := s.GenerateOffer(v, partner, mine, theirs)
	if offer == nil {
		t.Fatal("no offer despite a clear surplus and partner deficit")
	}
	if len(offer.Offering) == 0 || offer.Offering[0].Type != "grain" {
		t.Errorf("offering = %+v, want grain", offer.Offering)
	}
	if len(offer.Requesting) == 0 {
		t.Fatal("offer requests nothing")
	}
}

func TestEstimateTracksCloseness(t *testing.T) {
	actual := economy.NewFamilyInventory()
	actual.Add(economy.NewItem("grain", 20, 0.5))

	s := NewSystem(rng.New(9))
	var strangerErr, friendErr float64
	for i := 0; i < 200; i++ {
		strangerErr += math.Abs(s.EstimatePartnerInventory(actual, 0.0, 0.0).TotalOf("grain") - 20)
		friendErr += math.Abs(s.EstimatePartnerInventory(actual, 0.9, 0.9).TotalOf("grain") - 20)
	}
	if friendErr >= strangerErr {
		t.Errorf("close relationship estimate error %v should beat stranger error %v", friendErr, strangerErr)
	}
}
