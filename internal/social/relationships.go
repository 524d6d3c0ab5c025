// Package social holds the relationship store, family units, work-party
// formation, and influence spreading (sentiment contagion, knowledge).
package social

import "math"

// Relationship dynamics: trust is slow to build, fast to lose.
const (
	trustGainPerPositive  = 0.05
	trustLossPerNegative  = 0.10
	relationshipDecayRate = 0.001
)

// Relationship is the pairwise record between two villagers, keyed by
// the canonical (low, high) ID pair.
type Relationship struct {
	AID              int     `json:"a_id"`
	BID              int     `json:"b_id"`
	Trust            float64 `json:"trust"`       // -1..1
	Affinity         float64 `json:"affinity"`    // -1..1
	Familiarity      float64 `json:"familiarity"` // 0..1, monotone from interactions
	InteractionCount int     `json:"interaction_count"`
	LastInteraction  int     `json:"last_interaction_day"`
}

// PositiveInteraction nudges trust, affinity, and familiarity up.
func (r *Relationship) PositiveInteraction(magnitude float64) {
	r.Trust = math.Min(1.0, r.Trust+trustGainPerPositive*magnitude)
	r.Affinity = math.Min(1.0, r.Affinity+0.03*magnitude)
	r.Familiarity = math.Min(1.0, r.Familiarity+0.02)
	r.InteractionCount++
}

// NegativeInteraction cuts trust harder than positive ones build it.
func (r *Relationship) NegativeInteraction(magnitude float64) {
	r.Trust = math.Max(-1.0, r.Trust-trustLossPerNegative*magnitude)
	r.Affinity = math.Max(-1.0, r.Affinity-0.06*magnitude)
	r.InteractionCount++
}

// DailyDecay fades the relationship in proportion to days since the
// last interaction. Familiarity fades at half rate; trust decays only
// while positive and very slowly.
func (r *Relationship) DailyDecay(currentDay int) {
	daysSince := currentDay - r.LastInteraction
	if daysSince <= 0 {
		return
	}
	decay := relationshipDecayRate * float64(daysSince)
	r.Affinity *= math.Max(0, 1.0-decay)
	r.Familiarity *= math.Max(0, 1.0-decay*0.5)
	if r.Trust > 0 {
		r.Trust = math.Max(0, r.Trust-decay*0.1)
	}
}

type pairKey struct{ lo, hi int }

func makePairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// RelationshipManager is the sole owner of all pairwise records. Other
// components look relationships up through it rather than holding
// references, preserving the single-owner invariant. Records are kept
// in creation order for deterministic iteration.
type RelationshipManager struct {
	records map[pairKey]*Relationship
	order   []pairKey
}

// NewRelationshipManager returns an empty store.
func NewRelationshipManager() *RelationshipManager {
	return &RelationshipManager{records: make(map[pairKey]*Relationship)}
}

// GetOrCreate returns the record for a pair, creating a neutral one on
// first contact.
func (m *RelationshipManager) GetOrCreate(a, b int) *Relationship {
	key := makePairKey(a, b)
	if r, ok := m.records[key]; ok {
		return r
	}
	r := &Relationship{AID: key.lo, BID: key.hi}
	m.records[key] = r
	m.order = append(m.order, key)
	return r
}

// Get returns the record for a pair, or nil when they never interacted.
func (m *RelationshipManager) Get(a, b int) *Relationship {
	return m.records[makePairKey(a, b)]
}

// AllFor returns every record involving the villager, in creation order.
func (m *RelationshipManager) AllFor(id int) []*Relationship {
	var out []*Relationship
	for _, key := range m.order {
		if key.lo == id || key.hi == id {
			out = append(out, m.records[key])
		}
	}
	return out
}

// Friends returns partner IDs with affinity at or above 0.3.
func (m *RelationshipManager) Friends(id int) []int {
	return m.FriendsAbove(id, 0.3)
}

// FriendsAbove returns partner IDs with affinity at or above min.
func (m *RelationshipManager) FriendsAbove(id int, min float64) []int {
	return m.partnersAbove(id, func(r *Relationship) bool { return r.Affinity >= min })
}

// Trusted returns partner IDs with trust at or above 0.3.
func (m *RelationshipManager) Trusted(id int) []int {
	return m.TrustedAbove(id, 0.3)
}

// TrustedAbove returns partner IDs with trust at or above min.
func (m *RelationshipManager) TrustedAbove(id int, min float64) []int {
	return m.partnersAbove(id, func(r *Relationship) bool { return r.Trust >= min })
}

func (m *RelationshipManager) partnersAbove(id int, keep func(*Relationship) bool) []int {
	var out []int
	for _, key := range m.order {
		if key.lo != id && key.hi != id {
			continue
		}
		r := m.records[key]
		if !keep(r) {
			continue
		}
		if key.lo == id {
			out = append(out, key.hi)
		} else {
			out = append(out, key.lo)
		}
	}
	return out
}

// AffinityBetween looks up (creating on first contact) the pair's
// affinity. Satisfies the decision engine's relationship view.
func (m *RelationshipManager) AffinityBetween(a, b int) float64 {
	return m.GetOrCreate(a, b).Affinity
}

// TrustBetween returns the pair's trust, zero for strangers.
func (m *RelationshipManager) TrustBetween(a, b int) float64 {
	if r := m.Get(a, b); r != nil {
		return r.Trust
	}
	return 0
}

// DailyDecayAll fades every record once per day.
func (m *RelationshipManager) DailyDecayAll(currentDay int) {
	for _, key := range m.order {
		m.records[key].DailyDecay(currentDay)
	}
}

// RecordInteraction stamps the day and applies the interaction.
func (m *RelationshipManager) RecordInteraction(a, b int, positive bool, magnitude float64, day int) {
	r := m.GetOrCreate(a, b)
	r.LastInteraction = day
	if positive {
		r.PositiveInteraction(magnitude)
	} else {
		r.NegativeInteraction(magnitude)
	}
}

// Count returns the number of tracked pairs.
func (m *RelationshipManager) Count() int { return len(m.order) }
