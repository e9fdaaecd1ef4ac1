// Package grid provides the bounded tactical grid: positions, the passability
// mask, placed objects, pathfinding, reachability and knockback.
package grid

import "fmt"

// Pos is an integer cell coordinate. Y grows southward.
type Pos struct {
	X, Y int
}

// Unplaced is the sentinel position of a combatant not on the grid.
var Unplaced = Pos{X: -1, Y: -1}

// IsPlaced reports whether p is not the Unplaced sentinel.
func (p Pos) IsPlaced() bool { return p != Unplaced }

// Add returns p translated by d.
func (p Pos) Add(d Pos) Pos { return Pos{X: p.X + d.X, Y: p.Y + d.Y} }

// Distance returns the taxicab distance |dx| + |dy| between p and q.
func (p Pos) Distance(q Pos) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func (p Pos) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Cardinal unit vectors in the fixed neighbour order used by every search.
var (
	North = Pos{X: 0, Y: -1}
	East  = Pos{X: 1, Y: 0}
	South = Pos{X: 0, Y: 1}
	West  = Pos{X: -1, Y: 0}
)

// Cardinals lists the four unit directions in neighbour order.
var Cardinals = []Pos{North, East, South, West}

// ObjectKind distinguishes the placeable non-combatant objects.
type ObjectKind int

const (
	// ObjectObstacle is a destructible blocker with hit points.
	ObjectObstacle ObjectKind = iota + 1
	// ObjectTerrain is an indestructible terrain feature (rocks, trees).
	ObjectTerrain
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectObstacle:
		return "obstacle"
	case ObjectTerrain:
		return "terrain"
	default:
		return "unknown"
	}
}

// Object is a placed obstacle or terrain feature occupying one cell.
type Object struct {
	ID   string
	Kind ObjectKind
	Pos  Pos
	// HP applies to obstacles only; an obstacle at 0 HP is removed.
	HP int
}

// Grid is the bounded battlefield.
//
// Invariant: len(active) == Width*Height; at most one object per cell.
type Grid struct {
	Width, Height int
	active        []bool
	objects       []*Object
}

// New returns a Width×Height grid with every cell active and no objects.
//
// Precondition: width >= 1 and height >= 1.
func New(width, height int) *Grid {
	active := make([]bool, width*height)
	for i := range active {
		active[i] = true
	}
	return &Grid{Width: width, Height: height, active: active}
}

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Pos) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Width && p.Y < g.Height
}

// IsActive reports whether p is in bounds and passable in the mask.
func (g *Grid) IsActive(p Pos) bool {
	return g.InBounds(p) && g.active[p.Y*g.Width+p.X]
}

// SetActive sets the mask value for p. Out-of-bounds positions are ignored.
func (g *Grid) SetActive(p Pos, active bool) {
	if g.InBounds(p) {
		g.active[p.Y*g.Width+p.X] = active
	}
}

// PlaceObject adds o to the grid.
//
// Postcondition: returns an error if o's cell is inactive or already holds an object.
func (g *Grid) PlaceObject(o *Object) error {
	if !g.IsActive(o.Pos) {
		return fmt.Errorf("grid: cannot place %s %q at inactive cell %s", o.Kind, o.ID, o.Pos)
	}
	if existing := g.ObjectAt(o.Pos); existing != nil {
		return fmt.Errorf("grid: cell %s already holds %q", o.Pos, existing.ID)
	}
	g.objects = append(g.objects, o)
	return nil
}

// ObjectAt returns the object at p, or nil.
func (g *Grid) ObjectAt(p Pos) *Object {
	for _, o := range g.objects {
		if o.Pos == p {
			return o
		}
	}
	return nil
}

// RemoveObject deletes the object with id. Unknown ids are ignored.
func (g *Grid) RemoveObject(id string) {
	for i, o := range g.objects {
		if o.ID == id {
			g.objects = append(g.objects[:i], g.objects[i+1:]...)
			return
		}
	}
}

// Objects returns a copy of the placed object list.
func (g *Grid) Objects() []*Object {
	out := make([]*Object, len(g.objects))
	copy(out, g.objects)
	return out
}

// DamageObstacle subtracts amount from the obstacle at p and removes it at 0 HP.
// It reports whether the obstacle was destroyed. Terrain is never damaged.
func (g *Grid) DamageObstacle(p Pos, amount int) bool {
	o := g.ObjectAt(p)
	if o == nil || o.Kind != ObjectObstacle {
		return false
	}
	o.HP -= amount
	if o.HP <= 0 {
		g.RemoveObject(o.ID)
		return true
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
