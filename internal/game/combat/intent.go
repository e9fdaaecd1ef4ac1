package combat

import "github.com/cory-johannsen/skirmish/internal/game/grid"

// IntentKind tags the variant of an Intent.
type IntentKind int

const (
	IntentWait IntentKind = iota
	IntentMove
	IntentAttack
	IntentCast
	IntentItem
	IntentSkill
	IntentSignature
	IntentFlee
	IntentStruggle
	// IntentSwallow engulfs an adjacent hostile; only creatures with the swallow trait may use it.
	IntentSwallow
)

// String returns a human-readable intent label.
func (k IntentKind) String() string {
	switch k {
	case IntentWait:
		return "wait"
	case IntentMove:
		return "move"
	case IntentAttack:
		return "attack"
	case IntentCast:
		return "cast"
	case IntentItem:
		return "item"
	case IntentSkill:
		return "skill"
	case IntentSignature:
		return "signature"
	case IntentFlee:
		return "flee"
	case IntentStruggle:
		return "struggle"
	case IntentSwallow:
		return "swallow"
	default:
		return "unknown"
	}
}

// Intent is one chosen action for a turn.
type Intent struct {
	Kind IntentKind
	// Target is a combatant ID.
	Target string
	// Cell is a grid destination or area center; grid.Unplaced when unused.
	Cell grid.Pos
	// Ref names the spell, item or skill.
	Ref string
	// FollowUp executes after Intent within the same turn; drones use it to move then attack.
	FollowUp *Intent
}

// Wait ends the turn with no effect.
func Wait() Intent { return Intent{Kind: IntentWait, Cell: grid.Unplaced} }

// Move walks to cell.
func Move(cell grid.Pos) Intent { return Intent{Kind: IntentMove, Cell: cell} }

// Attack strikes target with the equipped weapon.
func Attack(target string) Intent { return Intent{Kind: IntentAttack, Target: target, Cell: grid.Unplaced} }

// Cast casts spell at target.
func Cast(spell, target string) Intent {
	return Intent{Kind: IntentCast, Ref: spell, Target: target, Cell: grid.Unplaced}
}

// CastAt casts spell centered on cell.
func CastAt(spell string, cell grid.Pos) Intent {
	return Intent{Kind: IntentCast, Ref: spell, Cell: cell}
}

// UseItem uses item on target; an empty target means self.
func UseItem(item, target string) Intent {
	return Intent{Kind: IntentItem, Ref: item, Target: target, Cell: grid.Unplaced}
}

// UseSkill uses skill with target and cell as the skill requires.
func UseSkill(skill, target string, cell grid.Pos) Intent {
	return Intent{Kind: IntentSkill, Ref: skill, Target: target, Cell: cell}
}

// Signature uses the class signature ability.
func Signature(target string, cell grid.Pos) Intent {
	return Intent{Kind: IntentSignature, Target: target, Cell: cell}
}

// Flee attempts to leave the encounter.
func Flee() Intent { return Intent{Kind: IntentFlee, Cell: grid.Unplaced} }

// Struggle attempts to break out of a swallower.
func Struggle() Intent { return Intent{Kind: IntentStruggle, Cell: grid.Unplaced} }

// Swallow engulfs target.
func Swallow(target string) Intent { return Intent{Kind: IntentSwallow, Target: target, Cell: grid.Unplaced} }

// Then chains next after i and returns the combined intent.
func (i Intent) Then(next Intent) Intent {
	i.FollowUp = &next
	return i
}
