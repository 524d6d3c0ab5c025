package world

import "math"

// StructureType identifies a building or improvement.
type StructureType string

const (
	StructShelter StructureType = "shelter"
	StructStorage StructureType = "storage_shed"
	StructRoad    StructureType = "road_segment"
	StructBridge  StructureType = "bridge"
	StructWell    StructureType = "well"
)

const (
	shelterCapacityBase  = 6.0
	dailyDegradation     = 0.001
)

// Structure is a building on the map. OwnerFamily < 0 means communal.
type Structure struct {
	ID          int           `json:"id"`
	Type        StructureType `json:"type"`
	Position    Position      `json:"position"`
	Quality     float64       `json:"quality"`    // 0..1 effectiveness
	Durability  float64       `json:"durability"` // 0..1, degrades daily
	OwnerFamily int           `json:"owner_family"`
	Capacity    float64       `json:"capacity"`
}

// InfrastructureManager owns every structure in the world.
type InfrastructureManager struct {
	structures map[int]*Structure
	order      []int
	nextID     int
}

// NewInfrastructureManager returns an empty manager.
func NewInfrastructureManager() *InfrastructureManager {
	return &InfrastructureManager{structures: make(map[int]*Structure)}
}

// Structures returns all structures in creation order.
func (im *InfrastructureManager) Structures() []*Structure {
	out := make([]*Structure, 0, len(im.order))
	for _, id := range im.order {
		out = append(out, im.structures[id])
	}
	return out
}

// Get returns the structure by ID, or nil.
func (im *InfrastructureManager) Get(id int) *Structure {
	return im.structures[id]
}

// Create registers a new structure and returns it.
func (im *InfrastructureManager) Create(t StructureType, p Position, quality float64, ownerFamily int) *Structure {
	s := &Structure{
		ID:          im.nextID,
		Type:        t,
		Position:    p,
		Quality:     quality,
		Durability:  1.0,
		OwnerFamily: ownerFamily,
		Capacity:    shelterCapacityBase,
	}
	im.nextID++
	im.structures[s.ID] = s
	im.order = append(im.order, s.ID)
	return s
}

// ShelterFor returns the family's shelter, or nil.
func (im *InfrastructureManager) ShelterFor(familyID int) *Structure {
	for _, id := range im.order {
		s := im.structures[id]
		if s.Type == StructShelter && s.OwnerFamily == familyID {
			return s
		}
	}
	return nil
}

// DailyDegradation wears every structure; storms accelerate it.
func (im *InfrastructureManager) DailyDegradation(weatherModifier float64) {
	for _, id := range im.order {
		s := im.structures[id]
		s.Durability = math.Max(0, s.Durability-dailyDegradation*weatherModifier)
	}
}

// Repair restores durability on one structure.
func (im *InfrastructureManager) Repair(id int, amount float64) {
	if s, ok := im.structures[id]; ok {
		s.Durability = math.Min(1.0, s.Durability+amount)
	}
}

// ShelterQualityFor is the family's effective shelter quality, zero when
// the family has no shelter.
func (im *InfrastructureManager) ShelterQualityFor(familyID int) float64 {
	s := im.ShelterFor(familyID)
	if s == nil {
		return 0
	}
	return s.Quality * s.Durability
}
