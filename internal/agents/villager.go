package agents

import (
	"math"

	"github.com/talgya/village-sim/internal/economy"
	"github.com/talgya/village-sim/internal/rng"
	"github.com/talgya/village-sim/internal/world"
)

// Sex of a villager.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Lifecycle thresholds.
const (
	DaysPerYear           = world.DaysPerYear
	MaxAge                = 75
	ChildMaturityAge      = 14
	ElderDeclineAge       = 55
	PregnancyDurationDays = 270
	PostBirthRecoveryDays = 30
)

// FertilityAgeRange bounds female fertility in years.
var FertilityAgeRange = [2]int{16, 45}

// Villager is a single agent with personality, needs, memory, and state.
type Villager struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Sex      Sex    `json:"sex"`
	AgeDays  int    `json:"age_days"`
	BirthDay int    `json:"birth_day"`

	Traits *PersonalityTraits `json:"traits"`
	Needs  *NeedSystem        `json:"needs"`
	Memory *Memory            `json:"-"`

	// Physical state
	Health        float64 `json:"health"`  // 0..100
	Fatigue       float64 `json:"fatigue"` // 0..1
	IsPregnant    bool    `json:"is_pregnant"`
	PregnancyDays int     `json:"pregnancy_days"`
	RecoveryDays  int     `json:"recovery_days"` // post-birth
	Alive         bool    `json:"alive"`
	DeathCause    string  `json:"death_cause,omitempty"`

	// Current state
	CurrentActivity string         `json:"current_activity"`
	Position        world.Position `json:"position"`
	HomePosition    world.Position `json:"home_position"`

	// Social links, by ID; the engine's registry is authoritative.
	FamilyID    int   `json:"family_id"`
	SpouseID    *int  `json:"spouse_id,omitempty"`
	ParentIDs   []int `json:"parent_ids"`
	ChildrenIDs []int `json:"children_ids"`

	// Sentiment: 0 despair .. 100 euphoric, drifts toward baseline.
	Sentiment float64 `json:"sentiment"`

	// Personal inventory, assigned after construction.
	Inventory *economy.Inventory `json:"-"`
}

// NewVillager builds an agent with fresh needs and empty memory.
func NewVillager(id int, name string, sex Sex, ageDays int, traits *PersonalityTraits, birthDay int) *Villager {
	return &Villager{
		ID:           id,
		Name:         name,
		Sex:          sex,
		AgeDays:      ageDays,
		BirthDay:     birthDay,
		Traits:       traits,
		Needs:        NewNeedSystem(),
		Memory:       NewMemory(),
		Health:       100,
		Alive:        true,
		Position:     world.VillageCenter,
		HomePosition: world.VillageCenter,
		FamilyID:     -1,
		Sentiment:    traits.BaselineOptimism,
	}
}

// AgeYears is the agent's age in whole years.
func (v *Villager) AgeYears() int { return v.AgeDays / DaysPerYear }

// IsChild reports whether the agent is below maturity.
func (v *Villager) IsChild() bool { return v.AgeYears() < ChildMaturityAge }

// IsElder reports whether the agent is past the decline age.
func (v *Villager) IsElder() bool { return v.AgeYears() > ElderDeclineAge }

// IsFertile reports whether the agent can become pregnant.
func (v *Villager) IsFertile() bool {
	if v.Sex != SexFemale || v.IsPregnant {
		return false
	}
	age := v.AgeYears()
	return age >= FertilityAgeRange[0] && age <= FertilityAgeRange[1]
}

// agePhysicalModifier scales physical traits with age: ramping through
// childhood, peaking 20-40, declining afterward.
func (v *Villager) agePhysicalModifier() float64 {
	age := float64(v.AgeYears())
	switch {
	case age < ChildMaturityAge:
		return math.Max(0.3, age/ChildMaturityAge)
	case age <= 20:
		return 0.8 + 0.2*((age-ChildMaturityAge)/(20-ChildMaturityAge))
	case age <= 40:
		return 1.0
	case age <= ElderDeclineAge:
		return 1.0 - 0.15*((age-40)/(ElderDeclineAge-40))
	}
	return math.Max(0.3, 0.85-0.02*(age-ElderDeclineAge))
}

// ageMentalModifier is gentler; mental traits resist aging.
func (v *Villager) ageMentalModifier() float64 {
	age := float64(v.AgeYears())
	switch {
	case age < 10:
		return math.Max(0.5, age/10.0)
	case age < 70:
		return 1.0
	}
	return math.Max(0.7, 1.0-0.01*(age-70))
}

func (v *Villager) healthModifier() float64 { return v.Health / 100.0 }

func (v *Villager) fatigueModifier() float64 {
	return math.Max(0.3, 1.0-v.Fatigue*0.5)
}

// EffectiveTrait returns the trait modulated by age, health, and fatigue
// for physical traits and by mental aging for intelligence.
func (v *Villager) EffectiveTrait(name TraitName) float64 {
	base := v.Traits.Get(name)
	switch name {
	case TraitStrength, TraitEndurance, TraitDexterity:
		return base * v.agePhysicalModifier() * v.healthModifier() * v.fatigueModifier()
	case TraitIntelligence:
		return base * v.ageMentalModifier()
	}
	return base
}

// EffectiveStrength is the age/health/fatigue-adjusted strength.
func (v *Villager) EffectiveStrength() float64 { return v.EffectiveTrait(TraitStrength) }

// SkillLevel is the agent's level in a skill category.
func (v *Villager) SkillLevel(category string) float64 {
	return v.Memory.SkillLevel(category, v.Traits.Intelligence)
}

// CarryCapacity in kg, scaled by effective strength.
func (v *Villager) CarryCapacity() float64 {
	return economy.CarryCapacityBase * (v.EffectiveStrength() / 50.0)
}

// Traveler interface for pathfinding.

// Intelligence satisfies world.Traveler.
func (v *Villager) Intelligence() float64 { return v.Traits.Intelligence }

// RouteTrips satisfies world.Traveler.
func (v *Villager) RouteTrips(from, to world.Position) int {
	return v.Memory.RouteTrips(from, to)
}

// EffectiveEndurance satisfies world.Traveler.
func (v *Villager) EffectiveEndurance() float64 { return v.EffectiveTrait(TraitEndurance) }

// HealthFraction satisfies world.Traveler.
func (v *Villager) HealthFraction() float64 { return v.Health / 100.0 }

// FatigueLevel satisfies world.Traveler.
func (v *Villager) FatigueLevel() float64 { return v.Fatigue }

// AgePhysicalModifier satisfies world.Traveler.
func (v *Villager) AgePhysicalModifier() float64 { return v.agePhysicalModifier() }

// LoadFraction satisfies world.Traveler.
func (v *Villager) LoadFraction() float64 {
	if v.Inventory == nil {
		return 0
	}
	cap := v.CarryCapacity()
	if cap <= 0 {
		return 0
	}
	return math.Min(1.0, v.Inventory.TotalWeight()/cap)
}

// DailyUpdate processes one day of aging, sentiment drift, pregnancy
// progression, and death checks.
func (v *Villager) DailyUpdate(day int, r *rng.Source) {
	v.AgeDays++

	// Sentiment drifts toward baseline, nudged by recent memories.
	baseline := v.Traits.BaselineOptimism
	drift := 0.02 * (baseline - v.Sentiment)
	v.Sentiment += drift + v.Memory.RecallSentiment()*0.1
	v.Sentiment = math.Max(0, math.Min(100, v.Sentiment))

	if v.IsElder() && r.Chance(0.01) {
		v.Health = math.Max(0, v.Health-r.Uniform(0.5, 2.0))
	}

	if v.Health <= 0 {
		v.Die("health_failure")
		return
	}
	if v.AgeYears() >= MaxAge {
		deathChance := 0.01 * float64(v.AgeYears()-MaxAge+1)
		if r.Chance(deathChance) {
			v.Die("old_age")
			return
		}
	}

	if v.IsPregnant {
		v.PregnancyDays++
	}
	if v.RecoveryDays > 0 {
		v.RecoveryDays--
	}

	// Overnight fatigue recovery, weaker when sick.
	v.Fatigue = math.Max(0, v.Fatigue-0.6*(v.Health/100.0))
}

// Die marks the agent dead.
func (v *Villager) Die(cause string) {
	v.Alive = false
	v.CurrentActivity = ""
	v.DeathCause = cause
}

// GiveBirth produces a child inheriting from both parents and starts the
// mother's recovery period.
func (v *Villager) GiveBirth(childID, day int, partnerTraits *PersonalityTraits, r *rng.Source) *Villager {
	childSex := SexMale
	if r.Chance(0.5) {
		childSex = SexFemale
	}
	childName := RandomName(childSex, r)
	childTraits := InheritTraits(v.Traits, partnerTraits, childSex, r)

	child := NewVillager(childID, childName, childSex, 0, childTraits, day)
	child.ParentIDs = []int{v.ID}
	if v.SpouseID != nil {
		child.ParentIDs = append(child.ParentIDs, *v.SpouseID)
	}
	child.FamilyID = v.FamilyID
	child.Position = v.Position
	child.HomePosition = v.HomePosition

	v.IsPregnant = false
	v.PregnancyDays = 0
	v.RecoveryDays = PostBirthRecoveryDays
	v.ChildrenIDs = append(v.ChildrenIDs, child.ID)

	return child
}
