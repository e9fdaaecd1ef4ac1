package grid

// Occupied reports whether a cell holds a living combatant other than the mover.
type Occupied func(Pos) bool

// Mover describes the traversal rules of whoever is moving.
type Mover struct {
	// Flying movers pass over obstacles and terrain but may not end on them.
	Flying bool
	// Occupied reports cells blocked by other combatants; nil means none are.
	Occupied Occupied
}

func (m Mover) occupied(p Pos) bool {
	return m.Occupied != nil && m.Occupied(p)
}

// CanEnter reports whether m may step into p while moving.
func (g *Grid) CanEnter(m Mover, p Pos) bool {
	if !g.IsActive(p) || m.occupied(p) {
		return false
	}
	if !m.Flying && g.ObjectAt(p) != nil {
		return false
	}
	return true
}

// CanStand reports whether m may end a move on p.
func (g *Grid) CanStand(m Mover, p Pos) bool {
	return g.CanEnter(m, p) && g.ObjectAt(p) == nil
}

// FindPath returns the shortest unit-cost path from `from` to `to`, both inclusive.
//
// Postcondition: ok is false when `to` cannot be stood on or is unreachable;
// otherwise path[0] == from and path[len(path)-1] == to.
func (g *Grid) FindPath(m Mover, from, to Pos) (path []Pos, ok bool) {
	if from == to {
		return []Pos{from}, true
	}
	if !g.CanStand(m, to) {
		return nil, false
	}
	prev := map[Pos]Pos{from: from}
	queue := []Pos{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range Cardinals {
			next := cur.Add(d)
			if _, seen := prev[next]; seen || !g.CanEnter(m, next) {
				continue
			}
			prev[next] = cur
			if next == to {
				return unwind(prev, from, to), true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

func unwind(prev map[Pos]Pos, from, to Pos) []Pos {
	var rev []Pos
	for p := to; p != from; p = prev[p] {
		rev = append(rev, p)
	}
	rev = append(rev, from)
	path := make([]Pos, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}

// CanReach reports whether a path from `from` to `to` exists within budget steps.
func (g *Grid) CanReach(m Mover, from, to Pos, budget int) ([]Pos, bool) {
	path, ok := g.FindPath(m, from, to)
	if !ok || len(path)-1 > budget {
		return nil, false
	}
	return path, true
}

// Reachable returns every cell m can end on within budget steps of from, mapped
// to its step distance. The start cell is included at distance 0.
func (g *Grid) Reachable(m Mover, from Pos, budget int) map[Pos]int {
	dist := map[Pos]int{from: 0}
	queue := []Pos{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if dist[cur] == budget {
			continue
		}
		for _, d := range Cardinals {
			next := cur.Add(d)
			if _, seen := dist[next]; seen || !g.CanEnter(m, next) {
				continue
			}
			dist[next] = dist[cur] + 1
			queue = append(queue, next)
		}
	}
	for p := range dist {
		if p != from && !g.CanStand(m, p) {
			delete(dist, p)
		}
	}
	return dist
}

// StepToward returns the best reachable cell for approaching goal within budget:
// the cell minimising taxicab distance to goal, ties broken by fewest steps and
// then by row-major order. It returns from when no cell improves on it.
func (g *Grid) StepToward(m Mover, from, goal Pos, budget int) Pos {
	best, bestDist, bestSteps := from, from.Distance(goal), 0
	for p, steps := range g.Reachable(m, from, budget) {
		d := p.Distance(goal)
		switch {
		case d < bestDist,
			d == bestDist && steps < bestSteps,
			d == bestDist && steps == bestSteps && rowMajorLess(p, best):
			best, bestDist, bestSteps = p, d, steps
		}
	}
	return best
}

// PathLength returns the number of steps of the shortest unbounded path from
// `from` to any cell within reach of goal (distance <= reach), or -1.
func (g *Grid) PathLength(m Mover, from, goal Pos, reach int) int {
	if from.Distance(goal) <= reach {
		return 0
	}
	dist := map[Pos]int{from: 0}
	queue := []Pos{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range Cardinals {
			next := cur.Add(d)
			if _, seen := dist[next]; seen || !g.CanEnter(m, next) {
				continue
			}
			dist[next] = dist[cur] + 1
			if next.Distance(goal) <= reach && g.CanStand(m, next) {
				return dist[next]
			}
			queue = append(queue, next)
		}
	}
	return -1
}

func rowMajorLess(a, b Pos) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}
