// Package world provides the terrain grid, resource nodes, climate,
// crops, structures, and pathfinding the simulation engine consumes.
package world

// Position is a cell coordinate on the grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Manhattan returns the Manhattan distance to another position.
func (p Position) Manhattan(o Position) int {
	dx := p.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
