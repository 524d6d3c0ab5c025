package agents

import (
	"math"
	"sort"

	"github.com/talgya/village-sim/internal/economy"
	"github.com/talgya/village-sim/internal/rng"
	"github.com/talgya/village-sim/internal/world"
)

// Decision tuning.
const (
	SatisficeThreshold   = 0.6  // "good enough" score to stop evaluating
	HabitInertiaBonus    = 0.05 // bonus for repeating yesterday's activity
	FatigueStopThreshold = 0.9  // too tired to continue planning
)

// ActivityPlan is one planned slot in a day's schedule.
type ActivityPlan struct {
	Activity       string          `json:"activity"`
	TargetResource int             `json:"target_resource"` // node ID, -1 when none
	TargetVillager int             `json:"target_villager"` // -1 when none
	PlannedHours   float64         `json:"planned_hours"`
	TargetPosition *world.Position `json:"target_position,omitempty"`
}

// SocialAction is an evening interaction decision.
type SocialAction struct {
	Type     string `json:"type"` // chat, share_food, propose_work, court, teach
	TargetID int    `json:"target_id"`
}

// WorldView is the read-only world access the decision engine needs.
type WorldView interface {
	Season() world.Season
	WeatherModifier() float64
	FindResource(pos world.Position, t world.ResourceType) *world.ResourceNode
	EstimateTravel(start, end world.Position) float64
	FamilyInventory(familyID int) *economy.Inventory
}

// RelationshipView is the narrow relationship access for social choices.
type RelationshipView interface {
	Friends(id int) []int
	AffinityBetween(a, b int) float64
}

// DecisionEngine drives daily planning: personality-biased scoring with
// satisficing and habit inertia.
type DecisionEngine struct {
	rng *rng.Source
}

// NewDecisionEngine wires the engine to the shared random source.
func NewDecisionEngine(r *rng.Source) *DecisionEngine {
	return &DecisionEngine{rng: r}
}

// PlanDay fills the available daylight hours with activity plans. Slots
// are chosen one at a time; planning stops when hours run out, fatigue
// would cross the stop threshold, or nothing is feasible (the remainder
// becomes rest).
func (d *DecisionEngine) PlanDay(v *Villager, ws WorldView, availableHours float64) []ActivityPlan {
	var schedule []ActivityPlan
	remaining := availableHours

	for remaining > 1.0 {
		plan := d.pickNextActivity(v, ws, remaining)
		if plan == nil {
			schedule = append(schedule, ActivityPlan{
				Activity: "rest", TargetResource: -1, TargetVillager: -1, PlannedHours: remaining,
			})
			break
		}

		schedule = append(schedule, *plan)
		remaining -= plan.PlannedHours

		if act, ok := economy.Activities[plan.Activity]; ok {
			if v.Fatigue+act.FatigueCost*plan.PlannedHours > FatigueStopThreshold {
				break
			}
		}
	}

	if len(schedule) > 0 {
		v.Memory.LastActivity = schedule[0].Activity
	}
	return schedule
}

type scoredPlan struct {
	score float64
	plan  ActivityPlan
}

// pickNextActivity scores candidates for the next slot and satisfices.
func (d *DecisionEngine) pickNextActivity(v *Villager, ws WorldView, remaining float64) *ActivityPlan {
	urgencies := v.Needs.UrgencyVector()

	var targetNeeds []NeedName
	if v.Needs.SurvivalCritical() {
		targetNeeds = append(targetNeeds, SurvivalNeeds...)
	} else {
		targetNeeds = append(targetNeeds, AllNeeds...)
	}
	sort.SliceStable(targetNeeds, func(i, j int) bool {
		return urgencies[targetNeeds[i]] > urgencies[targetNeeds[j]]
	})
	if len(targetNeeds) > 5 {
		targetNeeds = targetNeeds[:5]
	}

	var candidates []scoredPlan
	for _, need := range targetNeeds {
		for _, actName := range economy.NeedActivities[string(need)] {
			act, ok := economy.Activities[actName]
			if !ok {
				continue
			}
			if sp := d.evaluateActivity(v, act, ws, remaining, urgencies); sp != nil {
				candidates = append(candidates, *sp)
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	// Satisficing: accept the first candidate clearing the bar, or a
	// personality-lowered bar for low-ambition agents.
	adjusted := SatisficeThreshold * (0.7 + 0.6*v.Traits.Ambition/100)
	for _, c := range candidates {
		if c.score >= SatisficeThreshold || c.score >= adjusted {
			plan := c.plan
			return &plan
		}
	}

	// Nothing good enough; take the best anyway.
	plan := candidates[0].plan
	return &plan
}

// evaluateActivity gates feasibility and scores one candidate. Returns
// nil for infeasible candidates (no time, wrong season, no tool, no
// reachable resource).
func (d *DecisionEngine) evaluateActivity(v *Villager, act *economy.Activity, ws WorldView, remaining float64, urgencies map[NeedName]float64) *scoredPlan {
	if act.BaseHours > remaining && act.BaseHours > 0 {
		return nil
	}
	if !act.AllowedIn(ws.Season()) {
		return nil
	}

	familyInv := ws.FamilyInventory(v.FamilyID)
	toolQuality := 1.0
	if len(act.RequiredTools) > 0 {
		found := false
		for _, toolType := range act.RequiredTools {
			var tool *economy.Item
			if v.Inventory != nil {
				tool = v.Inventory.BestTool(toolType)
			}
			if tool == nil && familyInv != nil {
				tool = familyInv.BestTool(toolType)
			}
			if tool != nil {
				found = true
				toolQuality = tool.ToolQuality()
				break
			}
		}
		if !found {
			return nil
		}
	}

	targetResource := -1
	var targetPos *world.Position
	travelHours := 0.0
	if act.Resource != "" {
		node := ws.FindResource(v.Position, act.Resource)
		if node == nil || node.Abundance <= 0 {
			return nil
		}
		targetResource = node.ID
		pos := node.Position
		targetPos = &pos
		travelHours = ws.EstimateTravel(v.Position, node.Position)
		if travelHours*2+act.BaseHours > remaining {
			return nil
		}
	}

	var score float64
	for _, need := range economy.ActivityNeeds[act.Name] {
		score += urgencies[NeedName(need)] * 0.3
	}

	traitScore := economy.WeightedTraitScore(act.TraitWeights, func(name string) float64 {
		return v.EffectiveTrait(TraitName(name))
	})
	successProb := act.SuccessChance(traitScore, v.SkillLevel(act.SkillCategory()), toolQuality, 1, ws.WeatherModifier())
	score *= successProb

	riskTolerance := v.Traits.RiskTolerance / 100.0
	score -= act.Danger * (1.5 - riskTolerance)

	if act.BaseHours > 0 {
		score += 1.0 / (act.BaseHours + travelHours*2) * 0.1
	}

	score = d.applyPersonalityBiases(v, act, score)

	if v.Memory.LastActivity == act.Name {
		score += HabitInertiaBonus
	}

	// Low intelligence means noisier choices.
	score += d.rng.Uniform(-0.1, 0.1) * (1.0 - v.Traits.Intelligence/100.0)

	plannedHours := act.BaseHours
	if plannedHours == 0 {
		plannedHours = remaining
	}
	plannedHours = math.Min(plannedHours, remaining)
	if travelHours > 0 {
		plannedHours = math.Min(plannedHours, remaining-travelHours*2)
	}

	return &scoredPlan{
		score: math.Max(0, score),
		plan: ActivityPlan{
			Activity:       act.Name,
			TargetResource: targetResource,
			TargetVillager: -1,
			PlannedHours:   math.Max(1.0, plannedHours),
			TargetPosition: targetPos,
		},
	}
}

func (d *DecisionEngine) applyPersonalityBiases(v *Villager, act *economy.Activity, score float64) float64 {
	t := v.Traits

	switch act.Name {
	case "fishing", "farm_tend", "farm_plant":
		score += (t.Patience - 50) / 100.0 * 0.15
	}
	switch act.Name {
	case "hunt_large_game", "mine_ore", "craft_tools":
		score += (t.Ambition - 50) / 100.0 * 0.15
	}
	if act.MinGroupSize > 1 {
		score += (t.Sociability - 50) / 100.0 * 0.10
	}
	if act.Name == "craft_tools" || act.Name == "cook_food" {
		score += (t.Creativity - 50) / 100.0 * 0.10
	}
	if len(act.Name) > 5 && act.Name[:5] == "farm_" {
		score += (t.Conscientiousness - 50) / 100.0 * 0.10
	}
	if act.Danger > 0.05 {
		score += (t.RiskTolerance - 50) / 100.0 * 0.10
	}
	if act.BaseHours <= 3 {
		score += (100 - t.Patience) / 100.0 * 0.08
	}

	return score
}

// DecideSocial picks an evening interaction target and type, weighted
// toward family, then friends, then anyone nearby. Returns nil when the
// agent sits the evening out.
func (d *DecisionEngine) DecideSocial(v *Villager, available []*Villager, rels RelationshipView) *SocialAction {
	if len(available) == 0 {
		return nil
	}

	if d.rng.Float64() > (v.Traits.Sociability/100.0)*0.8+0.2 {
		return nil
	}

	friends := rels.Friends(v.ID)
	var familyNearby []*Villager
	for _, other := range available {
		if other.FamilyID == v.FamilyID {
			familyNearby = append(familyNearby, other)
		}
	}

	var target *Villager
	switch {
	case len(familyNearby) > 0 && d.rng.Chance(0.4):
		target = rng.Choice(d.rng, familyNearby)
	case len(friends) > 0:
		var friendNearby []*Villager
		for _, other := range available {
			for _, fid := range friends {
				if other.ID == fid {
					friendNearby = append(friendNearby, other)
					break
				}
			}
		}
		if len(friendNearby) > 0 {
			target = rng.Choice(d.rng, friendNearby)
		} else {
			target = rng.Choice(d.rng, available)
		}
	default:
		target = rng.Choice(d.rng, available)
	}

	var action string
	switch {
	case v.Needs.Get(NeedSocial).Satisfaction < 0.3:
		action = "chat"
	case v.Needs.Get(NeedHunger).Satisfaction < 0.5 && v.Traits.Empathy > 50:
		action = "share_food"
	case v.IsFertile() && target.Sex != v.Sex:
		if rels.AffinityBetween(v.ID, target.ID) > 0.4 {
			action = "court"
		} else {
			action = "chat"
		}
	default:
		action = rng.Choice(d.rng, []string{"chat", "teach", "propose_work"})
	}

	return &SocialAction{Type: action, TargetID: target.ID}
}

// EvaluateCooperationRequest decides whether to join a work party: the
// activity's alignment with own needs, scaled by trust in the proposer,
// against a solo preference that shrinks with sociability.
func (d *DecisionEngine) EvaluateCooperationRequest(v *Villager, activityName string, trust float64) bool {
	urgencies := v.Needs.UrgencyVector()
	var needAlignment float64
	for _, need := range economy.ActivityNeeds[activityName] {
		needAlignment += urgencies[NeedName(need)]
	}

	trustFactor := 0.3 + 0.7*math.Max(0, trust)
	soloPreference := (100 - v.Traits.Sociability) / 100.0 * 0.3

	return needAlignment*trustFactor-soloPreference > 0.3
}
