package agents

import (
	"math"
	"testing"
)

func TestSatisfactionClamped(t *testing.T) {
	ns := NewNeedSystem()

	ns.Satisfy(NeedHunger, 5.0)
	if got := ns.Get(NeedHunger).Satisfaction; got != 1.0 {
		t.Errorf("satisfaction after oversatisfy = %v, want 1.0", got)
	}

	n := ns.Get(NeedThirst)
	n.Satisfaction = 0.1
	n.Decay(10.0)
	if n.Satisfaction != 0 {
		t.Errorf("satisfaction after heavy decay = %v, want 0", n.Satisfaction)
	}
}

func TestUrgencySpikesNearZeroSatisfaction(t *testing.T) {
	ns := NewNeedSystem()
	hunger := ns.Get(NeedHunger)

	hunger.Satisfaction = 0.9
	quiet := hunger.Urgency()
	hunger.Satisfaction = 0.1
	loud := hunger.Urgency()

	if quiet >= loud {
		t.Fatalf("urgency should grow as satisfaction falls: %v >= %v", quiet, loud)
	}
	// Exponential curve: urgency at 0.9 satisfaction should be a small
	// fraction of the weight, urgency near zero should approach it.
	if quiet > hunger.Weight*0.1 {
		t.Errorf("urgency at high satisfaction = %v, want under %v", quiet, hunger.Weight*0.1)
	}
	if loud < hunger.Weight*0.5 {
		t.Errorf("urgency at low satisfaction = %v, want over %v", loud, hunger.Weight*0.5)
	}
}

func TestSurvivalCritical(t *testing.T) {
	ns := NewNeedSystem()
	if ns.SurvivalCritical() {
		t.Fatal("fresh need system should not be critical")
	}

	ns.Get(NeedComfort).Satisfaction = 0.0
	if ns.SurvivalCritical() {
		t.Error("comfort is not a survival need; should not trip critical")
	}

	ns.Get(NeedThirst).Satisfaction = SurvivalCriticalThreshold - 0.01
	if !ns.SurvivalCritical() {
		t.Error("thirst below threshold should trip critical")
	}
}

func TestDailyDecaySuppression(t *testing.T) {
	ns := NewNeedSystem()
	ns.Get(NeedSocial).Satisfaction = 0.8
	ns.Get(NeedPurpose).Satisfaction = 0.8
	ns.Get(NeedHealth).Satisfaction = 0.8

	ns.DailyDecay(1.0, 0.5, true, true)

	if got := ns.Get(NeedSocial).Satisfaction; got != 0.8 {
		t.Errorf("social decayed despite interaction: %v", got)
	}
	if got := ns.Get(NeedPurpose).Satisfaction; got != 0.8 {
		t.Errorf("purpose decayed despite productive day: %v", got)
	}
	if got := ns.Get(NeedHealth).Satisfaction; got != 0.8 {
		t.Errorf("health decayed naturally: %v", got)
	}
	if got := ns.Get(NeedHunger).Satisfaction; got >= 1.0 {
		t.Errorf("hunger did not decay: %v", got)
	}
}

func TestShelterDampsWarmthDecay(t *testing.T) {
	sheltered := NewNeedSystem()
	exposed := NewNeedSystem()

	sheltered.DailyDecay(2.0, 1.0, false, false)
	exposed.DailyDecay(2.0, 0.0, false, false)

	if sheltered.Get(NeedWarmth).Satisfaction <= exposed.Get(NeedWarmth).Satisfaction {
		t.Errorf("shelter should slow warmth loss: sheltered %v, exposed %v",
			sheltered.Get(NeedWarmth).Satisfaction, exposed.Get(NeedWarmth).Satisfaction)
	}
}

func TestMostUrgentSurvivalIgnoresSatisfiedNeeds(t *testing.T) {
	ns := NewNeedSystem()
	if got := ns.MostUrgentSurvival(); got != nil {
		t.Fatalf("all needs satisfied, want nil, got %v", got.Name)
	}

	ns.Get(NeedHunger).Satisfaction = 0.3
	ns.Get(NeedThirst).Satisfaction = 0.1
	got := ns.MostUrgentSurvival()
	if got == nil || got.Name != NeedThirst {
		t.Fatalf("want thirst as most urgent survival need, got %v", got)
	}
}

func TestOverallWellbeingBounds(t *testing.T) {
	ns := NewNeedSystem()
	for _, name := range AllNeeds {
		ns.Get(name).Satisfaction = 1.0
	}
	if got := ns.OverallWellbeing(); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("wellbeing at full satisfaction = %v, want 1", got)
	}
	for _, name := range AllNeeds {
		ns.Get(name).Satisfaction = 0.0
	}
	if got := ns.OverallWellbeing(); got != 0 {
		t.Errorf("wellbeing at zero satisfaction = %v, want 0", got)
	}
}
