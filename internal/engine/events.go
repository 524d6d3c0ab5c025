package engine

import (
	"fmt"

	"github.com/talgya/village-sim/internal/agents"
	"github.com/talgya/village-sim/internal/economy"
	"github.com/talgya/village-sim/internal/rng"
	"github.com/talgya/village-sim/internal/social"
	"github.com/talgya/village-sim/internal/world"
)

// Daily event probabilities.
const (
	stormEventProbability   = 0.03
	diseaseBaseProbability  = 0.005
	predatorProbability     = 0.02
	pestProbability         = 0.01
	festivalProbability     = 0.02
	festivalCooldownDays    = 3
	diseaseSpreadRadius     = 3
	diseaseSpreadChance     = 0.3
	festivalSentimentFloor  = 60.0
)

// Event is one random occurrence affecting the village.
type Event struct {
	Type        string  `json:"type"` // storm, disease, predator, pest, festival
	Description string  `json:"description"`
	Day         int     `json:"day"`
	AffectedIDs []int   `json:"affected_ids,omitempty"`
	Magnitude   float64 `json:"magnitude"`
	Duration    int     `json:"duration_days,omitempty"`
}

// EventSystem rolls for and applies random events. Each event type is
// an independent daily draw, so multiple events can land on one day.
type EventSystem struct {
	rng *rng.Source

	// ActivePredatorDays counts down extra outdoor danger.
	ActivePredatorDays int
	lastFestivalDay    int
}

// NewEventSystem wires the event system to the shared random source.
func NewEventSystem(r *rng.Source) *EventSystem {
	return &EventSystem{rng: r, lastFestivalDay: -festivalCooldownDays - 1}
}

// DangerModifier is the extra danger applied while a predator roams.
func (es *EventSystem) DangerModifier() float64 {
	if es.ActivePredatorDays > 0 {
		return 0.1
	}
	return 0
}

// CheckDailyEvents rolls today's events.
func (es *EventSystem) CheckDailyEvents(day int, season world.Season, weather world.Weather, villagers []*agents.Villager) []Event {
	var events []Event

	if es.ActivePredatorDays > 0 {
		es.ActivePredatorDays--
	}

	if weather == world.WeatherStorm && es.rng.Chance(stormEventProbability) {
		events = append(events, Event{
			Type:        "storm",
			Description: "A severe storm struck the village",
			Day:         day,
			Magnitude:   es.rng.Uniform(0.05, 0.2),
		})
	}

	alive := make([]*agents.Villager, 0, len(villagers))
	for _, v := range villagers {
		if v.Alive {
			alive = append(alive, v)
		}
	}

	if es.rng.Chance(diseaseBaseProbability) && len(alive) > 0 {
		patientZero := rng.Choice(es.rng, alive)
		affected := []int{patientZero.ID}
		for _, v := range alive {
			if v.ID == patientZero.ID {
				continue
			}
			if v.Position.Manhattan(patientZero.Position) <= diseaseSpreadRadius && es.rng.Chance(diseaseSpreadChance) {
				affected = append(affected, v.ID)
			}
		}
		events = append(events, Event{
			Type:        "disease",
			Description: fmt.Sprintf("A sickness spreads through the village, affecting %d villagers", len(affected)),
			Day:         day,
			AffectedIDs: affected,
			Magnitude:   es.rng.Uniform(10, 30),
		})
	}

	if es.rng.Chance(predatorProbability) {
		duration := es.rng.IntRange(3, 10)
		events = append(events, Event{
			Type:        "predator",
			Description: "A predator has been spotted near the village",
			Day:         day,
			Magnitude:   0.1,
			Duration:    duration,
		})
	}

	if es.rng.Chance(pestProbability) && (season == world.Summer || season == world.Autumn) {
		events = append(events, Event{
			Type:        "pest",
			Description: "Pests have gotten into the food stores",
			Day:         day,
			Magnitude:   es.rng.Uniform(0.05, 0.15),
		})
	}

	var avgSentiment float64
	for _, v := range alive {
		avgSentiment += v.Sentiment
	}
	if len(alive) > 0 {
		avgSentiment /= float64(len(alive))
	}
	if weather == world.WeatherClear &&
		avgSentiment > festivalSentimentFloor &&
		(season == world.Spring || season == world.Summer) &&
		day-es.lastFestivalDay > festivalCooldownDays &&
		es.rng.Chance(festivalProbability) {
		ids := make([]int, len(alive))
		for i, v := range alive {
			ids[i] = v.ID
		}
		es.lastFestivalDay = day
		events = append(events, Event{
			Type:        "festival",
			Description: "The village holds a celebration!",
			Day:         day,
			AffectedIDs: ids,
			Magnitude:   10.0,
		})
	}

	return events
}

// ApplyEvents mutates simulation state for each event.
func (es *EventSystem) ApplyEvents(events []Event, byID map[int]*agents.Villager, families *social.FamilyManager, infra *world.InfrastructureManager) {
	for _, e := range events {
		switch e.Type {
		case "storm":
			for _, s := range infra.Structures() {
				if s.Type == world.StructShelter {
					s.Durability = max(0, s.Durability-e.Magnitude)
				}
			}

		case "disease":
			for _, vid := range e.AffectedIDs {
				v := byID[vid]
				if v == nil || !v.Alive {
					continue
				}
				v.Health = max(0, v.Health-e.Magnitude)
				v.Needs.Satisfy(agents.NeedHealth, -e.Magnitude/100.0)
				v.Memory.AddEvent(e.Day, "fell_sick", -0.3)
			}

		case "predator":
			es.ActivePredatorDays = e.Duration

		case "pest":
			for _, fam := range families.Families() {
				for _, itemType := range fam.Inventory.Types() {
					if !economy.IsFood(itemType) {
						continue
					}
					for _, stack := range fam.Inventory.Stacks(itemType) {
						stack.Quantity *= 1.0 - e.Magnitude
					}
				}
			}

		case "festival":
			for _, vid := range e.AffectedIDs {
				v := byID[vid]
				if v == nil || !v.Alive {
					continue
				}
				v.Sentiment = min(100, v.Sentiment+e.Magnitude)
				v.Needs.Satisfy(agents.NeedSocial, 0.3)
				v.Needs.Satisfy(agents.NeedPurpose, 0.2)
				v.Memory.AddEvent(e.Day, "festival", 0.5)
			}
		}
	}
}
