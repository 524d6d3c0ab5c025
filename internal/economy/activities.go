package economy

import (
	"math"

	"github.com/talgya/village-sim/internal/world"
)

// TraitWeight is one entry of an activity's trait requirement vector.
// Slices rather than maps keep float accumulation order fixed.
type TraitWeight struct {
	Trait  string
	Weight float64
}

// Output is one produced item with its base quantity.
type Output struct {
	Item string
	Qty  float64
}

// Activity is a static catalog entry for one productive activity.
type Activity struct {
	Name          string
	Description   string
	TraitWeights  []TraitWeight
	BaseSuccess   float64
	BaseHours     float64
	RequiredTools []string
	Seasons       []world.Season // nil allows all seasons
	Resource      world.ResourceType
	Outputs       []Output
	Danger        float64
	MinGroupSize  int
	GroupBonus    float64
	XPCategory    string
	FatigueCost   float64
}

// SkillCategory is the XP bucket trained by this activity.
func (a *Activity) SkillCategory() string {
	if a.XPCategory != "" {
		return a.XPCategory
	}
	return a.Name
}

// AllowedIn reports whether the activity can run in the season.
func (a *Activity) AllowedIn(season world.Season) bool {
	if a.Seasons == nil {
		return true
	}
	for _, s := range a.Seasons {
		if s == season {
			return true
		}
	}
	return false
}

// WeightedTraitScore normalizes the agent's traits against the weight
// vector into a multiplier on [0.5, 1.5]; an average trait of 50 maps
// to 1.0.
func WeightedTraitScore(weights []TraitWeight, trait func(string) float64) float64 {
	if len(weights) == 0 {
		return 1.0
	}
	var totalWeight, weighted float64
	for _, w := range weights {
		totalWeight += w.Weight
		weighted += (trait(w.Trait) / 100.0) * w.Weight
	}
	if totalWeight == 0 {
		return 1.0
	}
	return 0.5 + weighted/totalWeight
}

// SuccessChance combines trait score, skill, tools, group, and weather
// into a success probability clamped to [0.05, 0.95].
func (a *Activity) SuccessChance(traitScore, skill, toolQuality float64, groupSize int, weatherModifier float64) float64 {
	skillMod := 0.5 + 1.5*(skill/100.0)
	toolMod := 0.5 + toolQuality

	groupMod := 1.0
	if groupSize > 1 && a.GroupBonus > 0 {
		for i := 1; i < groupSize; i++ {
			groupMod += a.GroupBonus * math.Pow(0.8, float64(i))
		}
	}

	chance := a.BaseSuccess * traitScore * skillMod * toolMod * groupMod * weatherModifier
	return math.Max(0.05, math.Min(0.95, chance))
}

// Yield scales the base outputs by skill, tool quality, and the success
// roll itself; better rolls produce more, not just a binary pass.
func (a *Activity) Yield(skill, successRoll, toolQuality float64) []Output {
	if len(a.Outputs) == 0 {
		return nil
	}
	skillMult := 0.8 + 0.4*(skill/100.0)
	toolMult := 0.9 + 0.2*toolQuality

	out := make([]Output, 0, len(a.Outputs))
	for _, o := range a.Outputs {
		qty := o.Qty * skillMult * toolMult * (0.7 + successRoll*0.3)
		out = append(out, Output{Item: o.Item, Qty: math.Max(0.1, qty)})
	}
	return out
}

// Activities is the immutable activity catalog.
var Activities = map[string]*Activity{
	"gather_berries": {
		Name:        "gather_berries",
		Description: "Gather wild berries and edible plants",
		TraitWeights: []TraitWeight{
			{"endurance", 0.4}, {"intelligence", 0.3}, {"dexterity", 0.3},
		},
		BaseSuccess: 0.80,
		BaseHours:   3,
		Resource:    world.ResWildPlant,
		Outputs:     []Output{{"berries", 6.0}, {"plant_fiber", 1.5}},
		Danger:      0.02,
		FatigueCost: 0.05,
		XPCategory:  "gathering",
	},
	"hunt_small_game": {
		Name:        "hunt_small_game",
		Description: "Hunt rabbits, birds, and other small animals",
		TraitWeights: []TraitWeight{
			{"dexterity", 0.35}, {"patience", 0.25}, {"endurance", 0.2}, {"intelligence", 0.2},
		},
		BaseSuccess:   0.65,
		BaseHours:     4,
		RequiredTools: []string{"spear"},
		Resource:      world.ResGameSmall,
		Outputs:       []Output{{"raw_meat", 4.0}, {"animal_hide", 1.0}},
		Danger:        0.05,
		FatigueCost:   0.08,
		XPCategory:    "hunting",
	},
	"hunt_large_game": {
		Name:        "hunt_large_game",
		Description: "Hunt deer, boar, and other large animals",
		TraitWeights: []TraitWeight{
			{"strength", 0.3}, {"endurance", 0.25}, {"risk_tolerance", 0.15}, {"dexterity", 0.2}, {"patience", 0.1},
		},
		BaseSuccess:   0.45,
		BaseHours:     8,
		RequiredTools: []string{"spear"},
		Resource:      world.ResGameLarge,
		Outputs:       []Output{{"raw_meat", 12.0}, {"animal_hide", 3.0}},
		Danger:        0.15,
		GroupBonus:    0.15,
		FatigueCost:   0.12,
		XPCategory:    "hunting",
	},
	"fishing": {
		Name:        "fishing",
		Description: "Catch fish from rivers and streams",
		TraitWeights: []TraitWeight{
			{"patience", 0.4}, {"dexterity", 0.3}, {"intelligence", 0.3},
		},
		BaseSuccess:   0.70,
		BaseHours:     4,
		RequiredTools: []string{"fishing"},
		Resource:      world.ResFish,
		Outputs:       []Output{{"fish", 5.0}},
		Danger:        0.02,
		FatigueCost:   0.04,
		XPCategory:    "fishing",
	},
	"chop_wood": {
		Name:        "chop_wood",
		Description: "Fell trees and chop wood",
		TraitWeights: []TraitWeight{
			{"strength", 0.5}, {"endurance", 0.35}, {"dexterity", 0.15},
		},
		BaseSuccess:   0.9,
		BaseHours:     4,
		RequiredTools: []string{"axe"},
		Resource:      world.ResTimber,
		Outputs:       []Output{{"timber", 2.0}, {"firewood", 3.0}},
		Danger:        0.05,
		FatigueCost:   0.10,
		XPCategory:    "woodcutting",
	},
	"mine_stone": {
		Name:        "mine_stone",
		Description: "Quarry stone from rocky outcrops",
		TraitWeights: []TraitWeight{
			{"strength", 0.45}, {"endurance", 0.4}, {"dexterity", 0.15},
		},
		BaseSuccess:   0.8,
		BaseHours:     6,
		RequiredTools: []string{"mining"},
		Resource:      world.ResStone,
		Outputs:       []Output{{"stone", 3.0}},
		Danger:        0.08,
		FatigueCost:   0.12,
		XPCategory:    "mining",
	},
	"mine_ore": {
		Name:        "mine_ore",
		Description: "Mine iron ore from deep deposits",
		TraitWeights: []TraitWeight{
			{"strength", 0.4}, {"endurance", 0.35}, {"intelligence", 0.15}, {"dexterity", 0.1},
		},
		BaseSuccess:   0.5,
		BaseHours:     7,
		RequiredTools: []string{"mining"},
		Resource:      world.ResIronOre,
		Outputs:       []Output{{"iron_ore", 1.5}},
		Danger:        0.12,
		FatigueCost:   0.14,
		XPCategory:    "mining",
	},
	"farm_plant": {
		Name:        "farm_plant",
		Description: "Prepare soil and plant seeds",
		TraitWeights: []TraitWeight{
			{"patience", 0.3}, {"endurance", 0.3}, {"strength", 0.2}, {"intelligence", 0.2},
		},
		BaseSuccess:   0.8,
		BaseHours:     6,
		RequiredTools: []string{"farming"},
		Seasons:       []world.Season{world.Spring, world.Summer},
		Resource:      world.ResFarmland,
		Danger:        0.01,
		FatigueCost:   0.08,
		XPCategory:    "farming",
	},
	"farm_tend": {
		Name:        "farm_tend",
		Description: "Weed, water, and care for crops",
		TraitWeights: []TraitWeight{
			{"patience", 0.3}, {"conscientiousness", 0.3}, {"endurance", 0.2}, {"intelligence", 0.2},
		},
		BaseSuccess:   0.9,
		BaseHours:     4,
		RequiredTools: []string{"farming"},
		Seasons:       []world.Season{world.Spring, world.Summer},
		Danger:        0.01,
		FatigueCost:   0.06,
		XPCategory:    "farming",
	},
	"farm_harvest": {
		Name:        "farm_harvest",
		Description: "Harvest mature crops",
		TraitWeights: []TraitWeight{
			{"endurance", 0.4}, {"strength", 0.3}, {"dexterity", 0.3},
		},
		BaseSuccess:   0.95,
		BaseHours:     8,
		RequiredTools: []string{"farming"},
		Seasons:       []world.Season{world.Summer, world.Autumn},
		Outputs:       []Output{{"grain", 10.0}, {"vegetables", 5.0}},
		Danger:        0.01,
		GroupBonus:    0.1,
		FatigueCost:   0.10,
		XPCategory:    "farming",
	},
	"cook_food": {
		Name:        "cook_food",
		Description: "Cook raw food into meals",
		TraitWeights: []TraitWeight{
			{"intelligence", 0.3}, {"dexterity", 0.3}, {"patience", 0.2}, {"creativity", 0.2},
		},
		BaseSuccess:   0.8,
		BaseHours:     2,
		RequiredTools: []string{"knife"},
		Outputs:       []Output{{"cooked_meat", 1.0}},
		Danger:        0.02,
		FatigueCost:   0.03,
		XPCategory:    "cooking",
	},
	"preserve_food": {
		Name:        "preserve_food",
		Description: "Dry, smoke, or salt food for preservation",
		TraitWeights: []TraitWeight{
			{"intelligence", 0.3}, {"patience", 0.4}, {"conscientiousness", 0.3},
		},
		BaseSuccess:   0.6,
		BaseHours:     4,
		RequiredTools: []string{"knife"},
		Outputs:       []Output{{"dried_meat", 1.0}},
		Danger:        0.01,
		FatigueCost:   0.04,
		XPCategory:    "cooking",
	},
	"craft_tools": {
		Name:        "craft_tools",
		Description: "Create tools and useful items",
		TraitWeights: []TraitWeight{
			{"dexterity", 0.35}, {"intelligence", 0.35}, {"patience", 0.2}, {"creativity", 0.1},
		},
		BaseSuccess: 0.65,
		BaseHours:   5,
		Danger:      0.03,
		FatigueCost: 0.06,
		XPCategory:  "crafting",
	},
	"build_shelter": {
		Name:        "build_shelter",
		Description: "Construct or improve shelter structures",
		TraitWeights: []TraitWeight{
			{"strength", 0.35}, {"intelligence", 0.25}, {"dexterity", 0.2}, {"endurance", 0.2},
		},
		BaseSuccess:   0.7,
		BaseHours:     8,
		RequiredTools: []string{"axe", "construction"},
		Danger:        0.06,
		GroupBonus:    0.2,
		FatigueCost:   0.12,
		XPCategory:    "construction",
	},
	"build_road": {
		Name:        "build_road",
		Description: "Clear and improve paths between locations",
		TraitWeights: []TraitWeight{
			{"strength", 0.4}, {"endurance", 0.4}, {"conscientiousness", 0.2},
		},
		BaseSuccess:   0.9,
		BaseHours:     6,
		RequiredTools: []string{"construction"},
		Danger:        0.03,
		MinGroupSize:  2,
		GroupBonus:    0.25,
		FatigueCost:   0.11,
		XPCategory:    "construction",
	},
	"gather_herbs": {
		Name:        "gather_herbs",
		Description: "Search for medicinal herbs and plants",
		TraitWeights: []TraitWeight{
			{"intelligence", 0.4}, {"patience", 0.3}, {"dexterity", 0.3},
		},
		BaseSuccess: 0.4,
		BaseHours:   4,
		Resource:    world.ResHerbs,
		Outputs:     []Output{{"medicine", 1.0}},
		Danger:      0.02,
		FatigueCost: 0.04,
		XPCategory:  "herbalism",
	},
	"heal_villager": {
		Name:        "heal_villager",
		Description: "Treat an injured or sick villager",
		TraitWeights: []TraitWeight{
			{"intelligence", 0.4}, {"empathy", 0.3}, {"dexterity", 0.2}, {"patience", 0.1},
		},
		BaseSuccess: 0.4,
		BaseHours:   3,
		Danger:      0.01,
		FatigueCost: 0.04,
		XPCategory:  "herbalism",
	},
	"rest": {
		Name:        "rest",
		Description: "Take a deliberate rest day",
		BaseSuccess: 1.0,
		BaseHours:   0,
		FatigueCost: -0.3,
	},
	"socialize": {
		Name:        "socialize",
		Description: "Spend time socializing with other villagers",
		TraitWeights: []TraitWeight{
			{"sociability", 0.5}, {"empathy", 0.3}, {"intelligence", 0.2},
		},
		BaseSuccess:  1.0,
		BaseHours:    4,
		MinGroupSize: 2,
		FatigueCost:  0.02,
	},
	"explore": {
		Name:        "explore",
		Description: "Explore the surrounding area for new resources",
		TraitWeights: []TraitWeight{
			{"risk_tolerance", 0.3}, {"endurance", 0.3}, {"intelligence", 0.2}, {"dexterity", 0.2},
		},
		BaseSuccess: 0.3,
		BaseHours:   8,
		Danger:      0.10,
		FatigueCost: 0.10,
		XPCategory:  "exploration",
	},
}

// ActivityNeeds maps each activity to the needs it helps satisfy.
var ActivityNeeds = map[string][]string{
	"gather_berries":  {"hunger"},
	"hunt_small_game": {"hunger"},
	"hunt_large_game": {"hunger"},
	"fishing":         {"hunger"},
	"chop_wood":       {"warmth", "shelter"},
	"mine_stone":      {"shelter"},
	"mine_ore":        {"purpose"},
	"farm_plant":      {"hunger"},
	"farm_tend":       {"hunger"},
	"farm_harvest":    {"hunger"},
	"cook_food":       {"hunger", "comfort"},
	"preserve_food":   {"hunger"},
	"craft_tools":     {"purpose", "safety"},
	"build_shelter":   {"shelter", "warmth", "safety"},
	"build_road":      {"purpose"},
	"gather_herbs":    {"health"},
	"heal_villager":   {"health"},
	"rest":            {"rest"},
	"socialize":       {"social"},
	"explore":         {"purpose", "safety"},
}

// activityOrder fixes the candidate enumeration order.
var activityOrder = []string{
	"gather_berries", "hunt_small_game", "hunt_large_game", "fishing",
	"chop_wood", "mine_stone", "mine_ore", "farm_plant", "farm_tend",
	"farm_harvest", "cook_food", "preserve_food", "craft_tools",
	"build_shelter", "build_road", "gather_herbs", "heal_villager",
	"rest", "socialize", "explore",
}

// NeedActivities is the inverse mapping: need -> activities that satisfy
// it, in fixed catalog order. Built once at init.
var NeedActivities = func() map[string][]string {
	out := make(map[string][]string)
	for _, name := range activityOrder {
		for _, need := range ActivityNeeds[name] {
			out[need] = append(out[need], name)
		}
	}
	return out
}()
