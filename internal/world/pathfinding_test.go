package world

import (
	"math"
	"testing"

	"github.com/talgya/village-sim/internal/rng"
)

// riverMap builds a grassland map split by a vertical river at x=5, with
// an optional bridge.
func riverMap(size int, bridge Position) *Map {
	m := NewMap(size, size)
	for y := 0; y < size; y++ {
		m.Cell(Position{5, y}).Terrain = TerrainRiver
	}
	if bridge.X >= 0 {
		m.Cell(bridge).HasBridge = true
	}
	return m
}

type fakeTraveler struct {
	intelligence float64
	trips        int
	fatigue      float64
}

func (f fakeTraveler) Intelligence() float64 { return f.intelligence }
func (f fakeTraveler) RouteTrips(from, to Position) int { return f.trips }
func (f fakeTraveler) EffectiveEndurance() float64 { return 100 }
func (f fakeTraveler) HealthFraction() float64 { return 1 }
func (f fakeTraveler) FatigueLevel() float64 { return f.fatigue }
func (f fakeTraveler) AgePhysicalModifier() float64 { return 1 }
func (f fakeTraveler) LoadFraction() float64 { return 0 }

func TestPathDetoursToBridge(t *testing.T) {
	bridge := Position{5, 9}
	pf := NewPathfinder(riverMap(12, bridge))

	path, cost, hours := pf.FindPath(Position{2, 0}, Position{8, 0}, nil, nil)
	if len(path) == 0 || math.IsInf(cost, 1) {
		t.Fatal("no path across the bridged river")
	}
	crossed := false
	for _, p := range path {
		if p == bridge {
			crossed = true
		}
	}
	if !crossed {
		t.Errorf("path skipped the only bridge: %v", path)
	}

	// The detour must cost more than the six-cell straight line would.
	if straight := 6 * TerrainCosts[TerrainGrassland]; cost <= straight {
		t.Errorf("detour cost %v should exceed the blocked straight line %v", cost, straight)
	}
	if hours != cost/BaseTravelSpeed {
		t.Errorf("idealized hours %v, want cost/speed %v", hours, cost/BaseTravelSpeed)
	}
}

func TestUnbridgedRiverBlocksTravel(t *testing.T) {
	pf := NewPathfinder(riverMap(12, Position{-1, -1}))

	path, cost, hours := pf.FindPath(Position{2, 6}, Position{8, 6}, nil, nil)
	if len(path) != 0 {
		t.Errorf("crossed an unbridged river: %v", path)
	}
	if !math.IsInf(cost, 1) || !math.IsInf(hours, 1) {
		t.Errorf("cost %v hours %v, want +Inf for an unreachable target", cost, hours)
	}
}

func TestRouteCacheBounded(t *testing.T) {
	c := NewRouteCache(2)
	c.put(Position{0, 0}, Position{1, 0}, cachedRoute{cost: 1})
	c.put(Position{0, 0}, Position{2, 0}, cachedRoute{cost: 2})
	c.put(Position{0, 0}, Position{3, 0}, cachedRoute{cost: 3})

	if c.Len() != 2 {
		t.Fatalf("cache length = %d, want the 2-entry bound", c.Len())
	}
	if _, ok := c.get(Position{0, 0}, Position{3, 0}); ok {
		t.Error("route cached past the size bound")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("length after clear = %d, want 0", c.Len())
	}
}

func TestOptimalPathsAreCached(t *testing.T) {
	pf := NewPathfinder(riverMap(12, Position{5, 9}))
	start, end := Position{2, 0}, Position{8, 0}

	_, cost1, _ := pf.FindPath(start, end, nil, nil)
	if pf.Cache().Len() != 1 {
		t.Fatalf("cache length after one search = %d, want 1", pf.Cache().Len())
	}
	_, cost2, _ := pf.FindPath(start, end, nil, nil)
	if cost1 != cost2 {
		t.Errorf("cached cost %v differs from computed %v", cost2, cost1)
	}
	if pf.Cache().Len() != 1 {
		t.Errorf("repeat search grew the cache to %d", pf.Cache().Len())
	}

	// Agent searches carry noise and must not pollute the cache.
	pf.FindPath(start, end, fakeTraveler{}, rng.New(1))
	if pf.Cache().Len() != 1 {
		t.Errorf("agent search was cached, length = %d", pf.Cache().Len())
	}
}

func TestFamiliarityShortensTravel(t *testing.T) {
	m := NewMap(16, 16)
	pf := NewPathfinder(m)
	r := rng.New(4)
	start, end := Position{1, 8}, Position{14, 8}

	var novice, veteran float64
	for i := 0; i < 200; i++ {
		novice += pf.EstimateTravelTime(start, end, fakeTraveler{intelligence: 10}, r)
		veteran += pf.EstimateTravelTime(start, end, fakeTraveler{intelligence: 10, trips: 50}, r)
	}
	if veteran >= novice {
		t.Errorf("well-worn route total %v should beat first-time total %v", veteran, novice)
	}
}

func TestSharpTravelerMatchesOptimal(t *testing.T) {
	m := NewMap(16, 16)
	pf := NewPathfinder(m)
	start, end := Position{1, 8}, Position{14, 8}

	_, optimal, idealHours := pf.FindPath(start, end, nil, nil)
	_, cost, hours := pf.FindPath(start, end, fakeTraveler{intelligence: 100}, rng.New(2))
	if cost != optimal {
		t.Errorf("full-intelligence path cost %v, want the optimal %v", cost, optimal)
	}
	if hours != idealHours {
		t.Errorf("healthy traveler hours %v, want the idealized %v", hours, idealHours)
	}
}

func TestFatigueSlowsTravel(t *testing.T) {
	m := NewMap(16, 16)
	pf := NewPathfinder(m)
	start, end := Position{1, 8}, Position{14, 8}

	fresh := pf.EstimateTravelTime(start, end, fakeTraveler{intelligence: 100}, nil)
	tired := pf.EstimateTravelTime(start, end, fakeTraveler{intelligence: 100, fatigue: 0.9}, nil)
	if tired <= fresh {
		t.Errorf("exhausted traveler hours %v should exceed fresh hours %v", tired, fresh)
	}
}
