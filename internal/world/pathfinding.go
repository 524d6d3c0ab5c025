package world

import (
	"container/heap"
	"math"

	"github.com/talgya/village-sim/internal/rng"
)

// BaseTravelSpeed is cells per hour on flat terrain with no load.
const BaseTravelSpeed = 8.0

// Traveler exposes the agent state pathfinding needs. Villagers satisfy
// it; a nil Traveler means an idealized optimal path.
type Traveler interface {
	Intelligence() float64
	RouteTrips(from, to Position) int
	EffectiveEndurance() float64
	HealthFraction() float64
	FatigueLevel() float64
	AgePhysicalModifier() float64
	LoadFraction() float64
}

// RouteCache holds optimal (agent-free) paths with a hard size bound.
// Eviction is wholesale: once full, new routes are simply not cached.
type RouteCache struct {
	maxSize int
	routes  map[[2]Position]cachedRoute
}

type cachedRoute struct {
	path []Position
	cost float64
}

// NewRouteCache returns a cache bounded to maxSize entries.
func NewRouteCache(maxSize int) *RouteCache {
	return &RouteCache{maxSize: maxSize, routes: make(map[[2]Position]cachedRoute)}
}

// Len returns the number of cached routes.
func (c *RouteCache) Len() int { return len(c.routes) }

// Clear drops every cached route.
func (c *RouteCache) Clear() {
	c.routes = make(map[[2]Position]cachedRoute)
}

func (c *RouteCache) get(from, to Position) (cachedRoute, bool) {
	r, ok := c.routes[[2]Position{from, to}]
	return r, ok
}

func (c *RouteCache) put(from, to Position, r cachedRoute) {
	if len(c.routes) >= c.maxSize {
		return
	}
	c.routes[[2]Position{from, to}] = r
}

// Pathfinder runs A* over the map with an explicit route cache.
type Pathfinder struct {
	m     *Map
	cache *RouteCache
}

// NewPathfinder wires a pathfinder to a map with a 2000-route cache.
func NewPathfinder(m *Map) *Pathfinder {
	return &Pathfinder{m: m, cache: NewRouteCache(2000)}
}

// Cache exposes the route cache for inspection.
func (pf *Pathfinder) Cache() *RouteCache { return pf.cache }

// FindPath runs A* from start to end. With a non-nil traveler, movement
// costs get agent noise (less with intelligence and route familiarity)
// and the hour estimate is adjusted for physical state. Agent-free
// optimal paths are cached. Returns an empty path and +Inf when no route
// exists.
func (pf *Pathfinder) FindPath(start, end Position, t Traveler, r *rng.Source) ([]Position, float64, float64) {
	if start == end {
		return []Position{start}, 0, 0
	}

	if t == nil {
		if cr, ok := pf.cache.get(start, end); ok {
			return append([]Position(nil), cr.path...), cr.cost, cr.cost / BaseTravelSpeed
		}
	}

	noiseScale := 0.0
	if t != nil && r != nil {
		familiarity := t.RouteTrips(start, end)
		noiseScale = math.Max(0, 0.3*(1-t.Intelligence()/100)*(1/(1+float64(familiarity)*0.5)))
	}

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, searchNode{pos: start})
	cameFrom := make(map[Position]Position)
	gScore := map[Position]float64{start: 0}

	for open.Len() > 0 {
		current := heap.Pop(open).(searchNode).pos

		if current == end {
			path := []Position{current}
			for {
				prev, ok := cameFrom[current]
				if !ok {
					break
				}
				path = append(path, prev)
				current = prev
			}
			reverse(path)
			cost := gScore[end]
			hours := cost / BaseTravelSpeed
			if t != nil {
				hours = adjustTravelTime(hours, t)
			} else {
				pf.cache.put(start, end, cachedRoute{path: append([]Position(nil), path...), cost: cost})
			}
			return path, cost, hours
		}

		for _, n := range pf.m.Neighbors(current) {
			moveCost := pf.m.MovementCost(n)
			if noiseScale > 0 && r != nil {
				moveCost *= 1.0 + r.Uniform(-noiseScale, noiseScale*2)
				moveCost = math.Max(0.1, moveCost)
			}
			tentative := gScore[current] + moveCost
			if g, ok := gScore[n]; !ok || tentative < g {
				cameFrom[n] = current
				gScore[n] = tentative
				heap.Push(open, searchNode{
					pos:      n,
					priority: tentative + float64(n.Manhattan(end)),
				})
			}
		}
	}

	return nil, math.Inf(1), math.Inf(1)
}

// EstimateTravelTime returns the travel hour estimate for an agent.
func (pf *Pathfinder) EstimateTravelTime(start, end Position, t Traveler, r *rng.Source) float64 {
	_, _, hours := pf.FindPath(start, end, t, r)
	return hours
}

// adjustTravelTime slows travel for tired, sick, laden, or old agents.
func adjustTravelTime(baseHours float64, t Traveler) float64 {
	mult := (t.EffectiveEndurance() / 100.0) *
		t.HealthFraction() *
		t.AgePhysicalModifier() *
		(1.0 - t.LoadFraction()*0.5) *
		(1.0 - t.FatigueLevel()*0.3)
	mult = math.Max(0.2, mult)
	return baseHours / mult
}

func reverse(p []Position) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}

// searchNode orders the open set by f-score with FIFO tie-breaking.
type searchNode struct {
	pos      Position
	priority float64
	seq      int
}

type nodeHeap struct {
	nodes   []searchNode
	counter int
}

func (h *nodeHeap) Len() int { return len(h.nodes) }

func (h *nodeHeap) Less(i, j int) bool {
	if h.nodes[i].priority != h.nodes[j].priority {
		return h.nodes[i].priority < h.nodes[j].priority
	}
	return h.nodes[i].seq < h.nodes[j].seq
}

func (h *nodeHeap) Swap(i, j int) { h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i] }

func (h *nodeHeap) Push(x any) {
	n := x.(searchNode)
	n.seq = h.counter
	h.counter++
	h.nodes = append(h.nodes, n)
}

func (h *nodeHeap) Pop() any {
	old := h.nodes
	n := old[len(old)-1]
	h.nodes = old[:len(old)-1]
	return n
}
