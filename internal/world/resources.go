package world

import (
	"math"

	"github.com/talgya/village-sim/internal/rng"
)

// ResourceType identifies a harvestable resource class.
type ResourceType string

const (
	ResTimber    ResourceType = "timber"
	ResGameSmall ResourceType = "game_small"
	ResGameLarge ResourceType = "game_large"
	ResFish      ResourceType = "fish"
	ResStone     ResourceType = "stone"
	ResClay      ResourceType = "clay"
	ResIronOre   ResourceType = "iron_ore"
	ResWildPlant ResourceType = "wild_plants"
	ResHerbs     ResourceType = "medicinal_herbs"
	ResFarmland  ResourceType = "farmland"
	ResWater     ResourceType = "fresh_water"
)

var regenRates = map[ResourceType]float64{
	ResTimber:    0.02,
	ResGameSmall: 0.015,
	ResGameLarge: 0.008,
	ResFish:      0.08,
	ResStone:     0.0,
	ResClay:      0.001,
	ResIronOre:   0.0,
	ResWildPlant: 0.08,
	ResHerbs:     0.01,
	ResFarmland:  0.0,
	ResWater:     1.0,
}

var seasonalModifiers = map[ResourceType]map[Season]float64{
	ResFish:      {Spring: 1.3, Summer: 1.0, Autumn: 0.8, Winter: 0.5},
	ResGameSmall: {Spring: 1.2, Summer: 1.0, Autumn: 0.9, Winter: 0.6},
	ResGameLarge: {Spring: 1.0, Summer: 0.9, Autumn: 1.3, Winter: 0.7},
	ResWildPlant: {Spring: 1.3, Summer: 1.5, Autumn: 0.8, Winter: 0.2},
	ResHerbs:     {Spring: 1.2, Summer: 1.4, Autumn: 0.6, Winter: 0.1},
}

// ResourceNode is a harvestable deposit at a map position.
type ResourceNode struct {
	ID            int          `json:"id"`
	Type          ResourceType `json:"type"`
	Position      Position     `json:"position"`
	MaxAbundance  float64      `json:"max_abundance"`
	Abundance     float64      `json:"abundance"`
	RegenRate     float64      `json:"regen_rate"`
	DangerLevel   float64      `json:"danger_level"`
	RequiredTools []string     `json:"required_tools"`
	seasonal      map[Season]float64
}

// Harvest draws down up to amount scaled by tool quality. Returns the
// actual yield, never more than the node holds.
func (n *ResourceNode) Harvest(amount, toolQuality float64) float64 {
	got := math.Min(amount*toolQuality, n.Abundance)
	n.Abundance -= got
	return got
}

// Regenerate grows abundance back toward max, season-modulated.
func (n *ResourceNode) Regenerate(season Season) {
	mod := 1.0
	if n.seasonal != nil {
		if m, ok := n.seasonal[season]; ok {
			mod = m
		}
	}
	n.Abundance = math.Min(n.MaxAbundance, n.Abundance+n.RegenRate*n.MaxAbundance*mod)
}

// ResourceManager owns every resource node in the world.
type ResourceManager struct {
	nodes  map[int]*ResourceNode
	order  []int // insertion order, for deterministic iteration
	nextID int
}

// NewResourceManager returns an empty manager.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{nodes: make(map[int]*ResourceNode)}
}

// Node returns the node by ID, or nil.
func (rm *ResourceManager) Node(id int) *ResourceNode {
	return rm.nodes[id]
}

// Nodes returns all nodes in creation order.
func (rm *ResourceManager) Nodes() []*ResourceNode {
	out := make([]*ResourceNode, 0, len(rm.order))
	for _, id := range rm.order {
		out = append(out, rm.nodes[id])
	}
	return out
}

func (rm *ResourceManager) add(n *ResourceNode) {
	rm.nodes[n.ID] = n
	rm.order = append(rm.order, n.ID)
}

type spawnOption struct {
	rtype ResourceType
	prob  float64
	maxAb float64
	dang  float64
	tools []string
}

var spawnTables = map[Terrain][]spawnOption{
	TerrainLightForest: {
		{ResTimber, 0.3, 50, 0.02, []string{"axe"}},
		{ResWildPlant, 0.2, 30, 0.01, nil},
		{ResGameSmall, 0.15, 20, 0.03, nil},
	},
	TerrainDenseForest: {
		{ResTimber, 0.5, 80, 0.04, []string{"axe"}},
		{ResGameLarge, 0.2, 15, 0.12, []string{"spear"}},
		{ResGameSmall, 0.25, 25, 0.05, nil},
		{ResHerbs, 0.1, 10, 0.02, nil},
	},
	TerrainRiver: {
		{ResFish, 0.6, 40, 0.02, []string{"fishing"}},
		{ResWater, 0.9, 100, 0.0, nil},
	},
	TerrainRocky: {
		{ResStone, 0.4, 60, 0.06, []string{"pickaxe"}},
		{ResIronOre, 0.1, 20, 0.10, []string{"pickaxe"}},
	},
	TerrainHills: {
		{ResStone, 0.2, 40, 0.05, []string{"pickaxe"}},
		{ResClay, 0.15, 30, 0.01, nil},
		{ResGameSmall, 0.1, 15, 0.04, nil},
	},
	TerrainGrassland: {
		{ResWildPlant, 0.1, 20, 0.01, nil},
		{ResFarmland, 0.08, 100, 0.0, nil},
	},
	TerrainSwamp: {
		{ResClay, 0.3, 40, 0.04, nil},
		{ResHerbs, 0.15, 15, 0.05, nil},
	},
}

// GenerateResources walks the map and probabilistically places nodes on
// matching terrain, linking them back into the cells.
func (rm *ResourceManager) GenerateResources(m *Map, r *rng.Source) {
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			p := Position{x, y}
			cell := m.Cell(p)
			opts, ok := spawnTables[cell.Terrain]
			if !ok {
				continue
			}
			for _, o := range opts {
				if !r.Chance(o.prob) {
					continue
				}
				node := &ResourceNode{
					ID:            rm.nextID,
					Type:          o.rtype,
					Position:      p,
					MaxAbundance:  o.maxAb,
					Abundance:     o.maxAb * r.Uniform(0.5, 1.0),
					RegenRate:     regenRates[o.rtype],
					DangerLevel:   o.dang,
					RequiredTools: o.tools,
					seasonal:      seasonalModifiers[o.rtype],
				}
				rm.nextID++
				rm.add(node)
				cell.ResourceNode = node.ID
				break
			}
		}
	}
}

// DailyRegeneration regenerates every node.
func (rm *ResourceManager) DailyRegeneration(season Season) {
	for _, id := range rm.order {
		rm.nodes[id].Regenerate(season)
	}
}

// NearestOfType finds the closest non-depleted node of a type, or nil.
func (rm *ResourceManager) NearestOfType(p Position, t ResourceType) *ResourceNode {
	var best *ResourceNode
	bestDist := math.MaxInt
	for _, id := range rm.order {
		n := rm.nodes[id]
		if n.Type != t || n.Abundance <= 0 {
			continue
		}
		d := n.Position.Manhattan(p)
		if d < bestDist {
			bestDist = d
			best = n
		}
	}
	return best
}

// AllInRadius returns nodes within Manhattan radius, optionally filtered
// by type (empty string matches all).
func (rm *ResourceManager) AllInRadius(p Position, radius int, t ResourceType) []*ResourceNode {
	var out []*ResourceNode
	for _, id := range rm.order {
		n := rm.nodes[id]
		if t != "" && n.Type != t {
			continue
		}
		if n.Position.Manhattan(p) <= radius {
			out = append(out, n)
		}
	}
	return out
}
