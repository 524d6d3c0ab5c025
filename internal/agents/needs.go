// Package agents holds the villager entity and its components: needs,
// personality traits, memory, and the daily decision engine.
package agents

import "math"

// NeedName identifies one of the fixed set of needs.
type NeedName string

const (
	NeedHunger  NeedName = "hunger"
	NeedThirst  NeedName = "thirst"
	NeedRest    NeedName = "rest"
	NeedWarmth  NeedName = "warmth"
	NeedShelter NeedName = "shelter"
	NeedSafety  NeedName = "safety"
	NeedHealth  NeedName = "health"
	NeedSocial  NeedName = "social"
	NeedPurpose NeedName = "purpose"
	NeedComfort NeedName = "comfort"
)

// AllNeeds lists every need in a fixed iteration order. Map iteration is
// nondeterministic in Go, so every loop over needs goes through this slice.
var AllNeeds = []NeedName{
	NeedHunger, NeedThirst, NeedRest, NeedWarmth, NeedShelter,
	NeedSafety, NeedHealth, NeedSocial, NeedPurpose, NeedComfort,
}

// SurvivalNeeds are the needs whose deprivation kills.
var SurvivalNeeds = []NeedName{NeedHunger, NeedThirst, NeedRest, NeedHealth, NeedWarmth}

// SurvivalCriticalThreshold marks a survival need as an emergency.
const SurvivalCriticalThreshold = 0.15

type urgencyCurve int

const (
	curveExponential urgencyCurve = iota
	curveLinear
)

// Need is a single decaying satisfaction scalar.
type Need struct {
	Name         NeedName `json:"name"`
	Satisfaction float64  `json:"satisfaction"` // 0 desperate .. 1 fully met
	DecayRate    float64  `json:"decay_rate"`   // per day
	Weight       float64  `json:"weight"`
	curve        urgencyCurve
}

// Decay reduces satisfaction by one day's decay scaled by modifier,
// clamped at 0.
func (n *Need) Decay(modifier float64) {
	n.Satisfaction -= n.DecayRate * modifier
	if n.Satisfaction < 0 {
		n.Satisfaction = 0
	}
}

// Urgency is the derived priority score. Exponential needs stay quiet
// until satisfaction drops well below half, then spike toward the weight.
func (n *Need) Urgency() float64 {
	deficit := 1.0 - n.Satisfaction
	if n.curve == curveExponential {
		return n.Weight * (math.Exp(deficit*3) - 1) / (math.Exp(3) - 1)
	}
	return n.Weight * deficit
}

// Satisfy raises satisfaction, clamped at 1.
func (n *Need) Satisfy(amount float64) {
	n.Satisfaction += amount
	if n.Satisfaction > 1 {
		n.Satisfaction = 1
	}
}

// Critical reports whether the need is below the survival threshold.
func (n *Need) Critical() bool {
	return n.Satisfaction < SurvivalCriticalThreshold
}

// NeedSystem manages all needs for one villager.
type NeedSystem struct {
	Needs map[NeedName]*Need `json:"needs"`
}

// NewNeedSystem builds the full need set at default satisfaction.
func NewNeedSystem() *NeedSystem {
	mk := func(name NeedName, sat, decay, weight float64, c urgencyCurve) *Need {
		return &Need{Name: name, Satisfaction: sat, DecayRate: decay, Weight: weight, curve: c}
	}
	return &NeedSystem{Needs: map[NeedName]*Need{
		NeedHunger:  mk(NeedHunger, 1.0, 0.35, 10, curveExponential),
		NeedThirst:  mk(NeedThirst, 1.0, 0.50, 12, curveExponential),
		NeedRest:    mk(NeedRest, 1.0, 0.30, 8, curveExponential),
		NeedWarmth:  mk(NeedWarmth, 1.0, 0.10, 7, curveExponential),
		NeedShelter: mk(NeedShelter, 1.0, 0.05, 5, curveLinear),
		NeedSafety:  mk(NeedSafety, 1.0, 0.02, 6, curveLinear),
		NeedHealth:  mk(NeedHealth, 1.0, 0.0, 9, curveExponential),
		NeedSocial:  mk(NeedSocial, 1.0, 0.05, 3, curveLinear),
		NeedPurpose: mk(NeedPurpose, 1.0, 0.01, 2, curveLinear),
		NeedComfort: mk(NeedComfort, 0.5, 0.03, 1, curveLinear),
	}}
}

// Get returns the need, or nil for an unknown name.
func (ns *NeedSystem) Get(name NeedName) *Need {
	return ns.Needs[name]
}

// Satisfy raises a named need; unknown names are ignored.
func (ns *NeedSystem) Satisfy(name NeedName, amount float64) {
	if n, ok := ns.Needs[name]; ok {
		n.Satisfy(amount)
	}
}

// UrgencyVector returns need -> urgency.
func (ns *NeedSystem) UrgencyVector() map[NeedName]float64 {
	out := make(map[NeedName]float64, len(ns.Needs))
	for _, name := range AllNeeds {
		out[name] = ns.Needs[name].Urgency()
	}
	return out
}

// MostUrgent returns the need with the highest urgency.
func (ns *NeedSystem) MostUrgent() *Need {
	var best *Need
	for _, name := range AllNeeds {
		n := ns.Needs[name]
		if best == nil || n.Urgency() > best.Urgency() {
			best = n
		}
	}
	return best
}

// DailyDecay applies one day of decay with situational modifiers. Warmth
// decay scales with the climate modifier and is damped by shelter quality;
// shelter decay is damped by shelter quality; social and purpose decay are
// suppressed entirely on days with interaction or productive work. Health
// never decays naturally.
func (ns *NeedSystem) DailyDecay(warmthModifier, shelterQuality float64, hadSocial, wasProductive bool) {
	for _, name := range AllNeeds {
		n := ns.Needs[name]
		modifier := 1.0
		switch name {
		case NeedWarmth:
			modifier = warmthModifier * math.Max(0.3, 1.0-shelterQuality*0.7)
		case NeedShelter:
			modifier = math.Max(0.1, 1.0-shelterQuality)
		case NeedSocial:
			if hadSocial {
				modifier = 0
			}
		case NeedPurpose:
			if wasProductive {
				modifier = 0
			}
		case NeedHealth:
			continue
		}
		n.Decay(modifier)
	}
}

// OverallWellbeing is the weight-normalized mean satisfaction.
func (ns *NeedSystem) OverallWellbeing() float64 {
	var totalWeight, weighted float64
	for _, name := range AllNeeds {
		n := ns.Needs[name]
		totalWeight += n.Weight
		weighted += n.Satisfaction * n.Weight
	}
	if totalWeight == 0 {
		return 0.5
	}
	return weighted / totalWeight
}

// SurvivalCritical reports whether any survival need is in emergency.
func (ns *NeedSystem) SurvivalCritical() bool {
	for _, name := range SurvivalNeeds {
		if ns.Needs[name].Critical() {
			return true
		}
	}
	return false
}

// MostUrgentSurvival returns the most urgent survival need among those
// below half satisfaction, or nil when none qualifies.
func (ns *NeedSystem) MostUrgentSurvival() *Need {
	var best *Need
	for _, name := range SurvivalNeeds {
		n := ns.Needs[name]
		if n.Satisfaction >= 0.5 {
			continue
		}
		if best == nil || n.Urgency() > best.Urgency() {
			best = n
		}
	}
	return best
}
