package ai

import "github.com/cory-johannsen/skirmish/internal/game/grid"

// Sides of a CombatantState.
const (
	SidePlayer = "player"
	SideEnemy  = "enemy"
)

// CombatantState captures a combatant's planning-relevant state.
type CombatantState struct {
	UID   string
	Name  string
	Side  string // SidePlayer or SideEnemy
	HP    int
	MaxHP int
	MP    int
	Pos   grid.Pos
	Dead  bool
}

// HPPercent returns current HP as a percentage of MaxHP; 0 if MaxHP == 0.
func (c *CombatantState) HPPercent() float64 {
	if c.MaxHP <= 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP) * 100
}

// WorldState is the snapshot passed to the HTN planner for one actor.
//
// Invariant: Self must not be nil and must appear in Combatants.
type WorldState struct {
	Self       *CombatantState
	Round      int
	Combatants []*CombatantState
}

// EnemiesOf returns all living combatants on the other side from uid.
//
// Postcondition: returned slice contains no dead combatants and no same-side combatants.
func (ws *WorldState) EnemiesOf(uid string) []*CombatantState {
	self := ws.find(uid)
	if self == nil {
		return nil
	}
	var out []*CombatantState
	for _, c := range ws.Combatants {
		if !c.Dead && c.Side != self.Side {
			out = append(out, c)
		}
	}
	return out
}

// HasLivingEnemies returns true when at least one living enemy exists.
//
// Postcondition: equivalent to len(EnemiesOf(uid)) > 0.
func (ws *WorldState) HasLivingEnemies(uid string) bool {
	return len(ws.EnemiesOf(uid)) > 0
}

// NearestEnemy returns the living enemy closest to uid by taxicab distance, or nil.
//
// Postcondition: ties are broken by order in Combatants.
func (ws *WorldState) NearestEnemy(uid string) *CombatantState {
	self := ws.find(uid)
	var best *CombatantState
	for _, e := range ws.EnemiesOf(uid) {
		if best == nil || self.Pos.Distance(e.Pos) < self.Pos.Distance(best.Pos) {
			best = e
		}
	}
	return best
}

// WeakestEnemy returns the living enemy with the lowest HP percentage, or nil.
//
// Postcondition: nil if no living enemies exist; ties broken by order in Combatants.
func (ws *WorldState) WeakestEnemy(uid string) *CombatantState {
	enemies := ws.EnemiesOf(uid)
	if len(enemies) == 0 {
		return nil
	}
	weakest := enemies[0]
	for _, e := range enemies[1:] {
		if e.HPPercent() < weakest.HPPercent() {
			weakest = e
		}
	}
	return weakest
}

// ResolveTarget maps a target token to a combatant UID.
//
// Precondition: ws.Self must not be nil.
// Postcondition: "nearest_enemy", "weakest_enemy" and "self" resolve to UIDs;
// other tokens are returned as-is; empty string when no combatant matches.
func (ws *WorldState) ResolveTarget(token string) string {
	switch token {
	case TargetNearestEnemy:
		if e := ws.NearestEnemy(ws.Self.UID); e != nil {
			return e.UID
		}
		return ""
	case TargetWeakestEnemy:
		if e := ws.WeakestEnemy(ws.Self.UID); e != nil {
			return e.UID
		}
		return ""
	case TargetSelf:
		return ws.Self.UID
	default:
		return token
	}
}

func (ws *WorldState) find(uid string) *CombatantState {
	for _, c := range ws.Combatants {
		if c.UID == uid {
			return c
		}
	}
	return nil
}
