package social

import (
	"math"
	"sort"

	"github.com/talgya/village-sim/internal/agents"
	"github.com/talgya/village-sim/internal/rng"
)

// Influence tuning.
const (
	sentimentContagionRate = 0.1
	socialInfluenceRadius  = 10 // cells, Manhattan

	statusFromWealth = 0.3
	statusFromSkill  = 0.3
	statusFromSocial = 0.2
	statusFromAge    = 0.2
)

// InfluenceSystem spreads sentiment, computes status, and transfers
// knowledge and opinions through the relationship network.
type InfluenceSystem struct{}

// SpreadSentiment pulls each villager's sentiment toward the weighted
// average of nearby social contacts. Deltas are computed from the
// pre-update state and applied in one pass afterward, so ordering does
// not bias the result.
func (s *InfluenceSystem) SpreadSentiment(villagers []*agents.Villager, rels *RelationshipManager) {
	alive := make([]*agents.Villager, 0, len(villagers))
	byID := make(map[int]*agents.Villager, len(villagers))
	for _, v := range villagers {
		if v.Alive {
			alive = append(alive, v)
			byID[v.ID] = v
		}
	}

	type update struct {
		v     *agents.Villager
		delta float64
	}
	var updates []update

	for _, v := range alive {
		var weightedSentiment, totalWeight float64
		for _, rel := range rels.AllFor(v.ID) {
			otherID := rel.AID
			if otherID == v.ID {
				otherID = rel.BID
			}
			other := byID[otherID]
			if other == nil {
				continue
			}
			if v.Position.Manhattan(other.Position) > socialInfluenceRadius {
				continue
			}
			weight := math.Max(0, rel.Affinity+rel.Trust) * rel.Familiarity
			if weight > 0 {
				weightedSentiment += other.Sentiment * weight
				totalWeight += weight
			}
		}
		if totalWeight <= 0 {
			continue
		}

		socialAvg := weightedSentiment / totalWeight
		stability := v.Traits.EmotionalStability / 100.0
		pull := sentimentContagionRate * (1.0 - stability*0.7)
		delta := (socialAvg - v.Sentiment) * pull
		delta *= 0.5 + 0.5*(v.Traits.Sociability/100.0)
		updates = append(updates, update{v, delta})
	}

	for _, u := range updates {
		u.v.Sentiment = math.Max(0, math.Min(100, u.v.Sentiment+u.delta))
	}
}

// Status scores a villager 0..1 from family wealth, top skills, social
// ties, and age. Age influence peaks in middle age.
func (s *InfluenceSystem) Status(v *agents.Villager, familyWealth, maxWealth float64, rels *RelationshipManager) float64 {
	wealthScore := math.Min(1.0, familyWealth/math.Max(1.0, maxWealth)) * statusFromWealth

	// Sorted values only, so map iteration order cannot leak through.
	var skills []float64
	for _, xp := range v.Memory.SkillXP {
		skills = append(skills, xp)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(skills)))
	if len(skills) > 3 {
		skills = skills[:3]
	}
	var avgSkill float64
	if len(skills) > 0 {
		for _, x := range skills {
			avgSkill += x
		}
		avgSkill /= float64(len(skills))
	}
	skillScore := math.Min(1.0, avgSkill/50.0) * statusFromSkill

	var socialScore float64
	if related := rels.AllFor(v.ID); len(related) > 0 {
		var avgAffinity float64
		for _, r := range related {
			avgAffinity += math.Max(0, r.Affinity)
		}
		avgAffinity /= float64(len(related))
		socialScore = math.Min(1.0, avgAffinity*2+float64(len(related))/20.0) * statusFromSocial
	}

	age := float64(v.AgeYears())
	var ageScore float64
	switch {
	case age < 20:
		ageScore = age / 20.0 * 0.3
	case age < 40:
		ageScore = 0.3 + 0.7*((age-20)/20.0)
	case age < 60:
		ageScore = 1.0
	default:
		ageScore = math.Max(0.5, 1.0-(age-60)/30.0)
	}
	ageScore *= statusFromAge

	return wealthScore + skillScore + socialScore + ageScore
}

// SpreadKnowledge attempts a knowledge transfer during a social
// interaction. Reports whether anything new was learned.
func (s *InfluenceSystem) SpreadKnowledge(source, target *agents.Villager, rels *RelationshipManager, r *rng.Source) bool {
	rel := rels.GetOrCreate(source.ID, target.ID)

	chance := 0.1 +
		0.2*(source.Traits.Sociability/100.0) +
		0.2*(source.Traits.Empathy/100.0) +
		0.2*(target.Traits.Intelligence/100.0) +
		0.2*math.Max(0, rel.Trust) +
		0.1*rel.Familiarity

	if r.Float64() > chance {
		return false
	}

	topics := []string{"resource", "recipe", "remedy"}
	rng.Shuffle(r, topics)
	for _, topic := range topics {
		if target.Memory.LearnFrom(source.Memory, topic) {
			return true
		}
	}
	return false
}

// SpreadOpinion is gossip: the source shifts the target's affinity for
// a third villager. Ignored when the target barely trusts the source.
func (s *InfluenceSystem) SpreadOpinion(source, target *agents.Villager, aboutID int, opinionValue float64, rels *RelationshipManager, r *rng.Source) {
	link := rels.GetOrCreate(source.ID, target.ID)
	if link.Trust < 0.1 {
		return
	}

	influence := link.Trust*0.5 + link.Familiarity*0.3 + (source.Traits.Sociability/100.0)*0.2
	if r.Float64() >= influence {
		return
	}

	subject := rels.GetOrCreate(target.ID, aboutID)
	shift := opinionValue * influence * 0.3
	subject.Affinity = math.Max(-1.0, math.Min(1.0, subject.Affinity+shift))
}
