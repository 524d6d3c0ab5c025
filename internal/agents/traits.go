package agents

import (
	"math"

	"github.com/talgya/village-sim/internal/rng"
)

// TraitName identifies a personality trait.
type TraitName string

const (
	TraitStrength           TraitName = "strength"
	TraitEndurance          TraitName = "endurance"
	TraitDexterity          TraitName = "dexterity"
	TraitIntelligence       TraitName = "intelligence"
	TraitPatience           TraitName = "patience"
	TraitRiskTolerance      TraitName = "risk_tolerance"
	TraitSociability        TraitName = "sociability"
	TraitAmbition           TraitName = "ambition"
	TraitConscientiousness  TraitName = "conscientiousness"
	TraitEmpathy            TraitName = "empathy"
	TraitCreativity         TraitName = "creativity"
	TraitBaselineOptimism   TraitName = "baseline_optimism"
	TraitEmotionalStability TraitName = "emotional_stability"
	TraitLossAversion       TraitName = "loss_aversion"
)

// PersonalityTraits are fixed at creation, all on a 1..99 scale.
type PersonalityTraits struct {
	Strength           float64 `json:"strength"`
	Endurance          float64 `json:"endurance"`
	Dexterity          float64 `json:"dexterity"`
	Intelligence       float64 `json:"intelligence"`
	Patience           float64 `json:"patience"`
	RiskTolerance      float64 `json:"risk_tolerance"`
	Sociability        float64 `json:"sociability"`
	Ambition           float64 `json:"ambition"`
	Conscientiousness  float64 `json:"conscientiousness"`
	Empathy            float64 `json:"empathy"`
	Creativity         float64 `json:"creativity"`
	BaselineOptimism   float64 `json:"baseline_optimism"`
	EmotionalStability float64 `json:"emotional_stability"`
	LossAversion       float64 `json:"loss_aversion"`
}

// Get returns a trait value by name, defaulting to 50 for unknown names.
func (t *PersonalityTraits) Get(name TraitName) float64 {
	switch name {
	case TraitStrength:
		return t.Strength
	case TraitEndurance:
		return t.Endurance
	case TraitDexterity:
		return t.Dexterity
	case TraitIntelligence:
		return t.Intelligence
	case TraitPatience:
		return t.Patience
	case TraitRiskTolerance:
		return t.RiskTolerance
	case TraitSociability:
		return t.Sociability
	case TraitAmbition:
		return t.Ambition
	case TraitConscientiousness:
		return t.Conscientiousness
	case TraitEmpathy:
		return t.Empathy
	case TraitCreativity:
		return t.Creativity
	case TraitBaselineOptimism:
		return t.BaselineOptimism
	case TraitEmotionalStability:
		return t.EmotionalStability
	case TraitLossAversion:
		return t.LossAversion
	}
	return 50
}

func (t *PersonalityTraits) set(name TraitName, v float64) {
	switch name {
	case TraitStrength:
		t.Strength = v
	case TraitEndurance:
		t.Endurance = v
	case TraitDexterity:
		t.Dexterity = v
	case TraitIntelligence:
		t.Intelligence = v
	case TraitPatience:
		t.Patience = v
	case TraitRiskTolerance:
		t.RiskTolerance = v
	case TraitSociability:
		t.Sociability = v
	case TraitAmbition:
		t.Ambition = v
	case TraitConscientiousness:
		t.Conscientiousness = v
	case TraitEmpathy:
		t.Empathy = v
	case TraitCreativity:
		t.Creativity = v
	case TraitBaselineOptimism:
		t.BaselineOptimism = v
	case TraitEmotionalStability:
		t.EmotionalStability = v
	case TraitLossAversion:
		t.LossAversion = v
	}
}

const (
	traitMean         = 50.0
	traitStd          = 15.0
	maleStrengthMean  = 60.0
	femStrengthMean   = 45.0
	strengthStd       = 12.0
	traitFloor        = 1.0
	traitCeil         = 99.0
)

// correlatedTraits is the fixed draw order for the multivariate trait
// generation. Strength is excluded; it uses a sex-specific distribution.
var correlatedTraits = []TraitName{
	TraitEndurance, TraitDexterity, TraitIntelligence, TraitPatience,
	TraitRiskTolerance, TraitSociability, TraitAmbition,
	TraitConscientiousness, TraitEmpathy, TraitCreativity,
	TraitBaselineOptimism, TraitEmotionalStability, TraitLossAversion,
}

// traitCorrelations are the pairwise correlations baked into generation.
var traitCorrelations = []struct {
	a, b TraitName
	r    float64
}{
	{TraitPatience, TraitConscientiousness, 0.3},
	{TraitRiskTolerance, TraitPatience, -0.2},
	{TraitEmpathy, TraitSociability, 0.3},
}

// cholFactor is the lower-triangular Cholesky factor of the trait
// correlation matrix, computed once at init.
var cholFactor [][]float64

func init() {
	n := len(correlatedTraits)
	idx := make(map[TraitName]int, n)
	for i, name := range correlatedTraits {
		idx[name] = i
	}
	corr := make([][]float64, n)
	for i := range corr {
		corr[i] = make([]float64, n)
		corr[i][i] = 1
	}
	for _, c := range traitCorrelations {
		ia, ib := idx[c.a], idx[c.b]
		corr[ia][ib] = c.r
		corr[ib][ia] = c.r
	}
	cholFactor = cholesky(corr)
}

// cholesky computes the lower-triangular factor of a symmetric
// positive-definite matrix.
func cholesky(m [][]float64) [][]float64 {
	n := len(m)
	l := make([][]float64, n)
	for i := range l {
		l[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := m[i][j]
			for k := 0; k < j; k++ {
				sum -= l[i][k] * l[j][k]
			}
			if i == j {
				l[i][j] = math.Sqrt(sum)
			} else {
				l[i][j] = sum / l[j][j]
			}
		}
	}
	return l
}

func clampTrait(v float64) float64 {
	return math.Min(traitCeil, math.Max(traitFloor, v))
}

// GeneratePersonality draws a correlated trait profile. Strength is drawn
// from a sex-specific distribution after the correlated block, so the
// draw count per call is fixed.
func GeneratePersonality(sex Sex, r *rng.Source) *PersonalityTraits {
	n := len(correlatedTraits)
	z := make([]float64, n)
	for i := range z {
		z[i] = r.Normal(0, 1)
	}

	t := &PersonalityTraits{}
	for i, name := range correlatedTraits {
		var v float64
		for k := 0; k <= i; k++ {
			v += cholFactor[i][k] * z[k]
		}
		t.set(name, clampTrait(traitMean+v*traitStd))
	}

	mean := femStrengthMean
	if sex == SexMale {
		mean = maleStrengthMean
	}
	t.Strength = clampTrait(r.Normal(mean, strengthStd))
	return t
}

// InheritTraits blends two parents' traits with noise. Strength is pulled
// halfway toward the child's sex-typical mean.
func InheritTraits(parentA, parentB *PersonalityTraits, childSex Sex, r *rng.Source) *PersonalityTraits {
	t := &PersonalityTraits{}
	for _, name := range correlatedTraits {
		mid := (parentA.Get(name) + parentB.Get(name)) / 2
		t.set(name, clampTrait(mid+r.Normal(0, traitStd*0.5)))
	}

	mid := (parentA.Strength + parentB.Strength) / 2
	mean := femStrengthMean
	if childSex == SexMale {
		mean = maleStrengthMean
	}
	t.Strength = clampTrait(mid*0.5 + mean*0.5 + r.Normal(0, 8))
	return t
}
