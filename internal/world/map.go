package world

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/village-sim/internal/rng"
)

// Terrain identifies a cell's terrain type.
type Terrain string

const (
	TerrainPath        Terrain = "path"
	TerrainGrassland   Terrain = "grassland"
	TerrainLightForest Terrain = "light_forest"
	TerrainDenseForest Terrain = "dense_forest"
	TerrainHills       Terrain = "hills"
	TerrainRocky       Terrain = "rocky"
	TerrainSwamp       Terrain = "swamp"
	TerrainRiver       Terrain = "river"
	TerrainMountain    Terrain = "mountain"
)

// TerrainCosts maps terrain to per-cell movement cost.
var TerrainCosts = map[Terrain]float64{
	TerrainPath:        1.0,
	TerrainGrassland:   1.2,
	TerrainLightForest: 1.5,
	TerrainDenseForest: 2.5,
	TerrainHills:       2.0,
	TerrainRocky:       3.0,
	TerrainSwamp:       3.0,
	TerrainRiver:       4.0,
	TerrainMountain:    5.0,
}

// Default map dimensions and village center.
const (
	MapWidth  = 200
	MapHeight = 200
)

// VillageCenter is where the settlement starts.
var VillageCenter = Position{X: 100, Y: 100}

// Cell is one grid cell.
type Cell struct {
	Terrain      Terrain `json:"terrain"`
	Elevation    float64 `json:"elevation"`
	HasRoad      bool    `json:"has_road"`
	HasBridge    bool    `json:"has_bridge"`
	ResourceNode int     `json:"resource_node"` // node ID, -1 when none
	StructureIDs []int   `json:"structure_ids"`
}

// Map is the grid-based world map.
type Map struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	grid   [][]Cell
}

// NewMap creates an empty map of grassland.
func NewMap(width, height int) *Map {
	grid := make([][]Cell, height)
	for y := range grid {
		grid[y] = make([]Cell, width)
		for x := range grid[y] {
			grid[y][x] = Cell{Terrain: TerrainGrassland, ResourceNode: -1}
		}
	}
	return &Map{Width: width, Height: height, grid: grid}
}

// Generate fills the map with layered simplex-noise terrain, clears the
// village center, and carves a river with a bridge near the center.
func (m *Map) Generate(seed int64, r *rng.Source) {
	elevNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			e := octaveNoise(elevNoise, float64(x), float64(y), 4, 0.05, 0.5)
			mo := octaveNoise(moistNoise, float64(x), float64(y), 3, 0.04, 0.5)
			c := &m.grid[y][x]
			c.Elevation = e
			c.Terrain = classifyTerrain(e, mo)
		}
	}

	// Keep the settlement footprint buildable.
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			x, y := VillageCenter.X+dx, VillageCenter.Y+dy
			if m.InBounds(x, y) {
				m.grid[y][x].Terrain = TerrainGrassland
				m.grid[y][x].Elevation = 0.3
			}
		}
	}

	m.carveRiver(r)
}

// octaveNoise samples layered noise and normalizes to [0,1].
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, baseFreq, persistence float64) float64 {
	var total, amp, maxAmp float64
	amp = 1.0
	freq := baseFreq
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amp
		maxAmp += amp
		amp *= persistence
		freq *= 2
	}
	return total / maxAmp
}

func classifyTerrain(elevation, moisture float64) Terrain {
	switch {
	case elevation > 0.85:
		return TerrainMountain
	case elevation > 0.7:
		return TerrainRocky
	case elevation > 0.6:
		return TerrainHills
	case elevation < 0.15 && moisture > 0.6:
		return TerrainSwamp
	case moisture > 0.7:
		return TerrainDenseForest
	case moisture > 0.5:
		return TerrainLightForest
	}
	return TerrainGrassland
}

// carveRiver runs a meandering river top to bottom and places one bridge
// at the river cell closest to the village center.
func (m *Map) carveRiver(r *rng.Source) {
	x := r.IntRange(m.Width/4, 3*m.Width/4)
	for y := 0; y < m.Height; y++ {
		m.grid[y][x].Terrain = TerrainRiver
		m.grid[y][x].Elevation = 0.05
		drift := r.IntRange(-1, 2)
		x += drift
		if x < 1 {
			x = 1
		}
		if x > m.Width-2 {
			x = m.Width - 2
		}
	}

	bestDist := math.MaxInt
	bridge := Position{-1, -1}
	for y := 0; y < m.Height; y++ {
		for bx := 0; bx < m.Width; bx++ {
			if m.grid[y][bx].Terrain != TerrainRiver {
				continue
			}
			d := Position{bx, y}.Manhattan(VillageCenter)
			if d < bestDist {
				bestDist = d
				bridge = Position{bx, y}
			}
		}
	}
	if bridge.X >= 0 {
		m.grid[bridge.Y][bridge.X].HasBridge = true
	}
}

// Cell returns the cell at p. Callers must stay in bounds.
func (m *Map) Cell(p Position) *Cell {
	return &m.grid[p.Y][p.X]
}

// InBounds reports whether (x,y) is on the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// MovementCost returns the cost of entering the cell. Roads and bridged
// river cells cost as paths.
func (m *Map) MovementCost(p Position) float64 {
	c := m.Cell(p)
	if c.HasRoad {
		return TerrainCosts[TerrainPath]
	}
	if c.Terrain == TerrainRiver && c.HasBridge {
		return TerrainCosts[TerrainPath]
	}
	if cost, ok := TerrainCosts[c.Terrain]; ok {
		return cost
	}
	return 2.0
}

// Neighbors returns the passable 4-directional neighbors. Unbridged river
// cells are impassable.
func (m *Map) Neighbors(p Position) []Position {
	out := make([]Position, 0, 4)
	for _, d := range [4]Position{{0, 1}, {0, -1}, {1, 0}, {-1, 0}} {
		n := Position{p.X + d.X, p.Y + d.Y}
		if !m.InBounds(n.X, n.Y) {
			continue
		}
		c := m.Cell(n)
		if c.Terrain == TerrainRiver && !c.HasBridge {
			continue
		}
		out = append(out, n)
	}
	return out
}

// CellsInRadius returns all positions within Manhattan radius of center.
func (m *Map) CellsInRadius(center Position, radius int) []Position {
	var out []Position
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if abs(dx)+abs(dy) > radius {
				continue
			}
			n := Position{center.X + dx, center.Y + dy}
			if m.InBounds(n.X, n.Y) {
				out = append(out, n)
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
