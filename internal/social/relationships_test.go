package social

import (
	"math"
	"testing"
)

func TestRelationshipSymmetry(t *testing.T) {
	m := NewRelationshipManager()
	r1 := m.GetOrCreate(3, 7)
	r2 := m.GetOrCreate(7, 3)
	if r1 != r2 {
		t.Fatal("pair lookup should be order-independent")
	}
	if m.Count() != 1 {
		t.Fatalf("count = %d, want 1", m.Count())
	}
}

func TestInteractionDynamics(t *testing.T) {
	m := NewRelationshipManager()

	m.RecordInteraction(1, 2, true, 1.0, 0)
	r := m.Get(1, 2)
	if r == nil {
		t.Fatal("interaction did not create the relationship")
	}
	if r.Trust <= 0 || r.Affinity <= 0 || r.Familiarity <= 0 {
		t.Errorf("positive interaction should raise all dimensions: %+v", r)
	}

	trustAfterPositive := r.Trust
	m.RecordInteraction(1, 2, false, 1.0, 0)
	if r.Trust >= trustAfterPositive {
		t.Error("negative interaction should lower trust")
	}

	// Betrayal stings harder than kindness helps.
	up := NewRelationshipManager()
	up.RecordInteraction(1, 2, true, 1.0, 0)
	down := NewRelationshipManager()
	down.RecordInteraction(1, 2, false, 1.0, 0)
	gained := up.Get(1, 2).Trust
	lost := -down.Get(1, 2).Trust
	if lost <= gained {
		t.Errorf("trust lost %v should exceed trust gained %v", lost, gained)
	}
}

func TestFamiliarityMonotone(t *testing.T) {
	m := NewRelationshipManager()
	m.RecordInteraction(1, 2, true, 1.0, 0)
	after1 := m.Get(1, 2).Familiarity
	m.RecordInteraction(1, 2, false, 1.0, 0)
	after2 := m.Get(1, 2).Familiarity
	if after2 <= after1 {
		t.Error("familiarity should grow regardless of interaction valence")
	}
}

func TestDecayFadesNeglectedBonds(t *testing.T) {
	m := NewRelationshipManager()
	m.RecordInteraction(1, 2, true, 1.0, 0)
	r := m.Get(1, 2)
	affinityBefore := r.Affinity

	m.DailyDecayAll(100)
	if r.Affinity >= affinityBefore {
		t.Errorf("affinity should fade after 100 idle days: %v -> %v", affinityBefore, r.Affinity)
	}
	if r.Trust < 0 {
		t.Errorf("decay drove positive trust negative: %v", r.Trust)
	}
}

func TestThresholdQueries(t *testing.T) {
	m := NewRelationshipManager()
	strong := m.GetOrCreate(1, 2)
	strong.Affinity = 0.5
	strong.Trust = 0.5
	weak := m.GetOrCreate(1, 3)
	weak.Affinity = 0.25
	weak.Trust = 0.15

	if got := m.Friends(1); len(got) != 1 || got[0] != 2 {
		t.Errorf("Friends(1) = %v, want [2]", got)
	}
	if got := m.FriendsAbove(1, 0.2); len(got) != 2 {
		t.Errorf("FriendsAbove(1, 0.2) = %v, want both partners", got)
	}
	if got := m.TrustedAbove(1, 0.1); len(got) != 2 {
		t.Errorf("TrustedAbove(1, 0.1) = %v, want both partners", got)
	}
	if got := m.TrustBetween(1, 4); got != 0 {
		t.Errorf("strangers should have zero trust, got %v", got)
	}
}

func TestTrustClamped(t *testing.T) {
	r := &Relationship{AID: 1, BID: 2}
	for i := 0; i < 100; i++ {
		r.PositiveInteraction(1.0)
	}
	if r.Trust > 1.0 || r.Affinity > 1.0 || r.Familiarity > 1.0 {
		t.Errorf("dimensions must stay within [-1,1]: %+v", r)
	}
	for i := 0; i < 100; i++ {
		r.NegativeInteraction(1.0)
	}
	if r.Trust < -1.0 || r.Affinity < -1.0 {
		t.Errorf("dimensions must stay within [-1,1]: %+v", r)
	}
	if math.Abs(r.Familiarity) > 1.0 {
		t.Errorf("familiarity out of range: %v", r.Familiarity)
	}
}
