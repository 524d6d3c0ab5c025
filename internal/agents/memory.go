package agents

import (
	"math"

	"github.com/talgya/village-sim/internal/world"
)

const (
	skillLearningRate    = 50.0 // XP for ~63% of max skill
	intelligenceLearnCap = 0.5  // max learning bonus from intelligence

	maxInteractionHistory = 20
	maxRecentEvents       = 30
)

// InteractionRecord is one remembered exchange with another villager.
type InteractionRecord struct {
	Day             int     `json:"day"`
	EventType       string  `json:"event_type"`
	SentimentChange float64 `json:"sentiment_change"`
}

// MemoryEvent is one remembered experience with emotional weight.
type MemoryEvent struct {
	Day         int     `json:"day"`
	Description string  `json:"description"`
	Impact      float64 `json:"impact"`
}

type routeKey struct {
	from, to world.Position
}

// Memory is a villager's knowledge, skill, and experience ledger.
type Memory struct {
	SkillXP map[string]float64 `json:"skill_xp"`

	routeFamiliarity map[routeKey]int

	KnownResources []int    `json:"known_resources"` // resource node IDs
	KnownRecipes   []string `json:"known_recipes"`
	KnownRemedies  []string `json:"known_remedies"`

	interactions map[int][]InteractionRecord

	// Ring buffer of recent experiences, newest last.
	recentEvents []MemoryEvent

	// Yesterday's chosen activity, for habit inertia.
	LastActivity string `json:"last_activity"`
}

// NewMemory returns an empty ledger.
func NewMemory() *Memory {
	return &Memory{
		SkillXP:          make(map[string]float64),
		routeFamiliarity: make(map[routeKey]int),
		interactions:     make(map[int][]InteractionRecord),
	}
}

// AddExperience grants XP for performing an activity in a skill category.
// Failures still teach, at a reduced rate. Returns the XP gained.
func (m *Memory) AddExperience(category string, success bool, intelligence float64) float64 {
	gain := 0.3
	if success {
		gain = 1.0
	}
	gain *= 1.0 + intelligenceLearnCap*(intelligence/100.0)
	m.SkillXP[category] += gain
	return gain
}

// SkillLevel converts accumulated XP to a 0..100 level on a saturating
// curve. Higher intelligence raises the effective learning rate.
func (m *Memory) SkillLevel(category string, intelligence float64) float64 {
	xp := m.SkillXP[category]
	rate := skillLearningRate * (1.0 + 0.5*(intelligence/100.0))
	return 100.0 * (1.0 - math.Exp(-xp/rate))
}

// AddRouteTrip increments familiarity with a directed route.
func (m *Memory) AddRouteTrip(from, to world.Position) {
	m.routeFamiliarity[routeKey{from, to}]++
}

// RouteTrips returns how many times the route has been walked.
func (m *Memory) RouteTrips(from, to world.Position) int {
	return m.routeFamiliarity[routeKey{from, to}]
}

// RecallSentiment averages the emotional impact of recent events.
func (m *Memory) RecallSentiment() float64 {
	if len(m.recentEvents) == 0 {
		return 0
	}
	var sum float64
	for _, e := range m.recentEvents {
		sum += e.Impact
	}
	return sum / float64(len(m.recentEvents))
}

// AddInteraction records an exchange with another villager, keeping only
// the most recent entries per acquaintance.
func (m *Memory) AddInteraction(villagerID, day int, eventType string, sentimentChange float64) {
	h := append(m.interactions[villagerID], InteractionRecord{day, eventType, sentimentChange})
	if len(h) > maxInteractionHistory {
		h = h[len(h)-maxInteractionHistory:]
	}
	m.interactions[villagerID] = h
}

// Interactions returns the remembered history with one villager.
func (m *Memory) Interactions(villagerID int) []InteractionRecord {
	return m.interactions[villagerID]
}

// AddEvent records an experience in the bounded recent-event buffer.
func (m *Memory) AddEvent(day int, description string, impact float64) {
	m.recentEvents = append(m.recentEvents, MemoryEvent{day, description, impact})
	if len(m.recentEvents) > maxRecentEvents {
		m.recentEvents = m.recentEvents[len(m.recentEvents)-maxRecentEvents:]
	}
}

// KnowsRecipe reports whether the recipe is in the ledger.
func (m *Memory) KnowsRecipe(name string) bool {
	for _, r := range m.KnownRecipes {
		if r == name {
			return true
		}
	}
	return false
}

// KnowsResource reports whether the node ID is in the ledger.
func (m *Memory) KnowsResource(id int) bool {
	for _, n := range m.KnownResources {
		if n == id {
			return true
		}
	}
	return false
}

// LearnFrom copies the first item of the given topic that the other
// villager knows and this one does not. Returns false when there was
// nothing new to learn. The caller decides whether learning happens at
// all; this only performs the transfer.
func (m *Memory) LearnFrom(other *Memory, topic string) bool {
	switch topic {
	case "recipe":
		for _, r := range other.KnownRecipes {
			if !m.KnowsRecipe(r) {
				m.KnownRecipes = append(m.KnownRecipes, r)
				return true
			}
		}
	case "resource":
		for _, id := range other.KnownResources {
			if !m.KnowsResource(id) {
				m.KnownResources = append(m.KnownResources, id)
				return true
			}
		}
	case "remedy":
		for _, r := range other.KnownRemedies {
			known := false
			for _, own := range m.KnownRemedies {
				if own == r {
					known = true
					break
				}
			}
			if !known {
				m.KnownRemedies = append(m.KnownRemedies, r)
				return true
			}
		}
	}
	return false
}
