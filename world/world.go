// world holds the fixed restaurant geometry: spawn points, the entrance
// door, the reception desk, the kitchen zone and the six-table layout.
// Proximity is always planar (x/z) so flying cameras and seat-height
// offsets never break a trigger.
package world

import "math"

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Rotation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PlanarDistance ignores the vertical axis.
func PlanarDistance(a, b Position) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Within reports whether a is inside radius of b on the ground plane.
func Within(a, b Position, radius float64) bool {
	return PlanarDistance(a, b) <= radius
}

// Fixed landmarks. The door sits on the south wall, reception just inside,
// the kitchen behind the north wall.
var (
	EntranceDoor   = Position{X: 0, Y: 0, Z: 18}
	ReceptionDesk  = Position{X: -3, Y: 0, Z: 14}
	KitchenCounter = Position{X: 8, Y: 0, Z: -12}

	VisitorSpawn = Position{X: 0, Y: 0, Z: 22}
	ChefSpawn    = Position{X: 8, Y: 0, Z: -15}
)

// TableSpot is one entry of the static floor plan.
type TableSpot struct {
	ID       int
	Position Position
	Capacity int
}

// TableLayout is the fixed six-table floor plan. Order matters: the
// allocator scans it front to back, so smaller tables come first.
var TableLayout = []TableSpot{
	{ID: 1, Position: Position{X: -6, Y: 0, Z: 8}, Capacity: 2},
	{ID: 2, Position: Position{X: 6, Y: 0, Z: 8}, Capacity: 2},
	{ID: 3, Position: Position{X: -6, Y: 0, Z: 2}, Capacity: 4},
	{ID: 4, Position: Position{X: 6, Y: 0, Z: 2}, Capacity: 4},
	{ID: 5, Position: Position{X: -6, Y: 0, Z: -4}, Capacity: 6},
	{ID: 6, Position: Position{X: 6, Y: 0, Z: -4}, Capacity: 6},
}

// SpawnFor returns the role-dependent spawn point.
func SpawnFor(role string) Position {
	if role == "chef" {
		return ChefSpawn
	}
	return VisitorSpawn
}
