package grid

// Collision names what stopped a knockback early.
type Collision int

const (
	// CollisionNone means the full distance was travelled.
	CollisionNone Collision = iota
	// CollisionWall is the grid edge or an inactive cell.
	CollisionWall
	// CollisionObstacle is a destructible obstacle.
	CollisionObstacle
	// CollisionTerrain is a terrain feature; flyers pass over it.
	CollisionTerrain
	// CollisionCombatant is another living combatant.
	CollisionCombatant
)

func (c Collision) String() string {
	switch c {
	case CollisionNone:
		return "none"
	case CollisionWall:
		return "wall"
	case CollisionObstacle:
		return "obstacle"
	case CollisionTerrain:
		return "terrain"
	case CollisionCombatant:
		return "combatant"
	default:
		return "unknown"
	}
}

// Source is the subset of dice.Source used to break same-tile ties.
type Source interface {
	Intn(n int) int
}

// KnockbackResult describes a resolved knockback.
type KnockbackResult struct {
	Direction Pos
	// Path lists the cells actually entered, in order; empty if the first step collided.
	Path  []Pos
	Final Pos
	// Collision is what stopped the movement, CollisionNone if nothing did.
	Collision Collision
	// BlockedAt is the cell that could not be entered when Collision != CollisionNone.
	BlockedAt Pos
}

// KnockbackDirection picks the dominant-axis cardinal direction from source to
// target. Ties on a non-zero axis prefer the horizontal axis; the same tile
// yields a uniformly random cardinal drawn from src.
func KnockbackDirection(source, target Pos, src Source) Pos {
	dx, dy := target.X-source.X, target.Y-source.Y
	switch {
	case dx == 0 && dy == 0:
		return Cardinals[src.Intn(len(Cardinals))]
	case abs(dx) >= abs(dy):
		if dx > 0 {
			return East
		}
		return West
	default:
		if dy > 0 {
			return South
		}
		return North
	}
}

// Knockback pushes the body at target away from source by up to distance cells.
// Movement stops at the first wall, obstacle, terrain (non-flyers) or combatant.
//
// Precondition: m.Occupied must not report the pushed body's own cell.
func (g *Grid) Knockback(m Mover, target, source Pos, distance int, src Source) KnockbackResult {
	dir := KnockbackDirection(source, target, src)
	res := KnockbackResult{Direction: dir, Final: target}
	for i := 0; i < distance; i++ {
		next := res.Final.Add(dir)
		if c := g.collisionAt(m, next); c != CollisionNone {
			res.Collision = c
			res.BlockedAt = next
			break
		}
		res.Final = next
		res.Path = append(res.Path, next)
	}
	// A flyer carried over terrain comes to rest on the last clear cell.
	for len(res.Path) > 0 && g.ObjectAt(res.Final) != nil {
		res.Path = res.Path[:len(res.Path)-1]
		res.Final = target
		if len(res.Path) > 0 {
			res.Final = res.Path[len(res.Path)-1]
		}
	}
	return res
}

func (g *Grid) collisionAt(m Mover, p Pos) Collision {
	if !g.IsActive(p) {
		return CollisionWall
	}
	if m.occupied(p) {
		return CollisionCombatant
	}
	if o := g.ObjectAt(p); o != nil {
		if o.Kind == ObjectObstacle {
			return CollisionObstacle
		}
		if !m.Flying {
			return CollisionTerrain
		}
	}
	return CollisionNone
}
