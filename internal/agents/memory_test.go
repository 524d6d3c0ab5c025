package agents

import "testing"

func TestSkillLevelSaturates(t *testing.T) {
	m := NewMemory()

	if got := m.SkillLevel("hunting", 50); got != 0 {
		t.Fatalf("fresh skill level = %v, want 0", got)
	}

	prev := 0.0
	for i := 0; i < 500; i++ {
		m.AddExperience("hunting", true, 50)
		level := m.SkillLevel("hunting", 50)
		if level < prev {
			t.Fatalf("skill level decreased: %v -> %v after %d sessions", prev, level, i+1)
		}
		if level >= 100 {
			t.Fatalf("skill level reached %v, must stay below 100", level)
		}
		prev = level
	}
	if prev < 90 {
		t.Errorf("after 500 successes skill level = %v, want near saturation", prev)
	}
}

func TestFailureTeachesLess(t *testing.T) {
	win := NewMemory()
	loss := NewMemory()

	winGain := win.AddExperience("fishing", true, 50)
	lossGain := loss.AddExperience("fishing", false, 50)

	if lossGain >= winGain {
		t.Errorf("failure XP %v should be below success XP %v", lossGain, winGain)
	}
	if lossGain <= 0 {
		t.Errorf("failure should still teach, got %v", lossGain)
	}
}

func TestIntelligenceSpeedsLearning(t *testing.T) {
	bright := NewMemory()
	dull := NewMemory()
	for i := 0; i < 20; i++ {
		bright.AddExperience("farming", true, 90)
		dull.AddExperience("farming", true, 10)
	}
	if bright.SkillXP["farming"] <= dull.SkillXP["farming"] {
		t.Errorf("higher intelligence should accumulate more XP: %v vs %v",
			bright.SkillXP["farming"], dull.SkillXP["farming"])
	}
}

func TestLearnFromTransfersUnknownOnly(t *testing.T) {
	teacher := NewMemory()
	teacher.KnownRecipes = []string{"bread", "rope"}

	student := NewMemory()
	student.KnownRecipes = []string{"bread"}

	if !student.LearnFrom(teacher, "recipe") {
		t.Fatal("student should learn the unknown recipe")
	}
	if !student.KnowsRecipe("rope") {
		t.Fatal("rope should now be known")
	}
	if student.LearnFrom(teacher, "recipe") {
		t.Error("nothing left to learn, want false")
	}
}

func TestEventBufferBounded(t *testing.T) {
	m := NewMemory()
	for day := 0; day < 100; day++ {
		m.AddEvent(day, "festival", 0.5)
	}
	if len(m.recentEvents) != maxRecentEvents {
		t.Errorf("event buffer length = %d, want %d", len(m.recentEvents), maxRecentEvents)
	}
	if m.recentEvents[len(m.recentEvents)-1].Day != 99 {
		t.Error("buffer should keep the newest events")
	}
}
