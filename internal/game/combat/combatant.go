package combat

import (
	"github.com/cory-johannsen/skirmish/internal/game/chance"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

// Role distinguishes the control source and scheduler slot of a combatant.
type Role int

const (
	RolePlayer Role = iota
	RoleAlly
	RoleEnemy
	RoleDrone
)

// String returns a human-readable role label.
func (r Role) String() string {
	switch r {
	case RolePlayer:
		return "player"
	case RoleAlly:
		return "ally"
	case RoleEnemy:
		return "enemy"
	case RoleDrone:
		return "drone"
	default:
		return "unknown"
	}
}

// Equipment is what a combatant carries into the encounter. Any slot may be nil.
type Equipment struct {
	Weapon   *inventory.WeaponDef
	Armor    *inventory.ArmorDef
	Shield   *inventory.ShieldDef
	Catalyst *inventory.CatalystDef
}

// TurnScratch holds transient per-turn values that are cleared once consumed.
type TurnScratch struct {
	// AttackMultiplier is a one-shot damage multiplier set by power strikes; 0 means none.
	AttackMultiplier float64
	// TilesMoved is the length of the most recent move, consumed by the next attack.
	TilesMoved int
}

// Flags are per-encounter markers.
type Flags struct {
	SignatureUsed bool
	Toggles       map[string]bool
	// WarnedHalf and WarnedCritical latch the HP warnings until HP recovers.
	WarnedHalf     bool
	WarnedCritical bool
	ElementsUsed   map[ruleset.Element]bool
	DamageTaken    bool
	Fled           bool
	Defeated       bool
	// Revived records that AutoRevive has been spent.
	Revived bool
	// ReviveChance is the current chance to rise again; it halves after each success.
	ReviveChance  float64
	SwallowedBy   string
	ExtraTurnUsed map[status.ID]bool
	// MarkedTarget is the ID an ally focuses when alive.
	MarkedTarget string
	ComboTarget  string
}

// Combatant is any HP/MP-bearing participant of an encounter.
type Combatant struct {
	ID      string
	Name    string
	Role    Role
	OwnerID string
	Pos     grid.Pos

	HP, MaxHP int
	MP, MaxMP int

	Stats     ruleset.Stats
	Equipment Equipment
	Class     *ruleset.ClassDef
	Race      *ruleset.RaceDef
	Affinity  ruleset.Element
	// Spells maps a known spell ID to its tier.
	Spells map[string]int
	Skills []string
	// Items maps an item ID to the number held.
	Items     map[string]int
	Statuses  *status.Set
	Stacks    map[string]int
	Passives  ruleset.PassiveSet
	Traits    npc.Traits
	Movement  int
	AIDomain  string
	Rewards   *npc.RewardTable
	Cooldowns map[string]int
	// Mitigator resolves incoming hits; nil uses DefaultMitigator.
	Mitigator Mitigator

	Flags   Flags
	Scratch TurnScratch
}

// NewCombatant returns a combatant at full HP and MP with every map initialised.
//
// Postcondition: HP == maxHP, MP == maxMP, Pos == grid.Unplaced.
func NewCombatant(id, name string, role Role, maxHP, maxMP int) *Combatant {
	c := &Combatant{
		ID:    id,
		Name:  name,
		Role:  role,
		Pos:   grid.Unplaced,
		HP:    maxHP,
		MaxHP: maxHP,
		MP:    maxMP,
		MaxMP: maxMP,
	}
	c.ensure()
	return c
}

// ensure initialises any nil map so hand-built combatants are usable.
func (c *Combatant) ensure() {
	if c.Spells == nil {
		c.Spells = make(map[string]int)
	}
	if c.Items == nil {
		c.Items = make(map[string]int)
	}
	if c.Statuses == nil {
		c.Statuses = status.NewSet()
	}
	if c.Stacks == nil {
		c.Stacks = make(map[string]int)
	}
	if c.Passives == nil {
		c.Passives = ruleset.NewPassiveSet()
	}
	if c.Cooldowns == nil {
		c.Cooldowns = make(map[string]int)
	}
	if c.Flags.Toggles == nil {
		c.Flags.Toggles = make(map[string]bool)
	}
	if c.Flags.ElementsUsed == nil {
		c.Flags.ElementsUsed = make(map[ruleset.Element]bool)
	}
	if c.Flags.ExtraTurnUsed == nil {
		c.Flags.ExtraTurnUsed = make(map[status.ID]bool)
	}
}

// IsAlive reports whether the combatant can still act and be targeted.
func (c *Combatant) IsAlive() bool {
	return c.HP > 0 && !c.Flags.Fled
}

// OnPlayerSide reports whether the combatant fights for the player.
func (c *Combatant) OnPlayerSide() bool {
	return c.Role != RoleEnemy
}

// Hostile reports whether o is on the opposing side.
func (c *Combatant) Hostile(o *Combatant) bool {
	return c.OnPlayerSide() != o.OnPlayerSide()
}

// ApplyDamage reduces HP by amount, flooring at zero, and returns the HP actually lost.
//
// Postcondition: 0 <= HP <= MaxHP.
func (c *Combatant) ApplyDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > c.HP {
		amount = c.HP
	}
	c.HP -= amount
	if amount > 0 {
		c.Flags.DamageTaken = true
	}
	return amount
}

// Heal raises HP by amount, capped at MaxHP, and returns the HP actually restored.
//
// Postcondition: 0 <= HP <= MaxHP.
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 || c.HP >= c.MaxHP {
		return 0
	}
	if c.HP+amount > c.MaxHP {
		amount = c.MaxHP - c.HP
	}
	c.HP += amount
	return amount
}

// SpendMP deducts amount if affordable and reports whether it did.
//
// Postcondition: on false MP is unchanged; 0 <= MP <= MaxMP.
func (c *Combatant) SpendMP(amount int) bool {
	if amount < 0 || amount > c.MP {
		return false
	}
	c.MP -= amount
	return true
}

// RestoreMP raises MP by amount, capped at MaxMP, and returns the MP restored.
func (c *Combatant) RestoreMP(amount int) int {
	if amount <= 0 || c.MP >= c.MaxMP {
		return 0
	}
	if c.MP+amount > c.MaxMP {
		amount = c.MaxMP - c.MP
	}
	c.MP += amount
	return amount
}

// MissingHP returns the fraction of MaxHP currently missing.
func (c *Combatant) MissingHP() float64 {
	if c.MaxHP == 0 {
		return 0
	}
	return float64(c.MaxHP-c.HP) / float64(c.MaxHP)
}

// Weapon returns the equipped weapon, or inventory.Unarmed.
func (c *Combatant) Weapon() *inventory.WeaponDef {
	if c.Equipment.Weapon != nil {
		return c.Equipment.Weapon
	}
	return inventory.Unarmed
}

// HasCatalyst reports whether the combatant can channel spells.
func (c *Combatant) HasCatalyst() bool {
	return c.Equipment.Catalyst != nil || (c.Equipment.Weapon != nil && c.Equipment.Weapon.Catalyst)
}

// Incapacitated reports whether the combatant's turn is force-skipped.
func (c *Combatant) Incapacitated() bool {
	return c.Statuses.Incapacitated()
}

// Swallowed reports whether the combatant is inside a swallower.
func (c *Combatant) Swallowed() bool {
	return c.Statuses.Has(status.Swallowed)
}

// Restrained reports whether an applied effect limits the combatant to
// struggling. Being swallowed is one such effect.
func (c *Combatant) Restrained() bool {
	return c.Statuses.OnlyStruggle()
}

// KnowsSkill reports whether id is a learned skill or the class signature.
func (c *Combatant) KnowsSkill(id string) bool {
	if c.Class != nil && c.Class.Signature == id {
		return true
	}
	for _, s := range c.Skills {
		if s == id {
			return true
		}
	}
	return false
}

// ChancePassive converts the combatant's probability passives for the effect provider.
func (c *Combatant) ChancePassive() chance.Passive {
	var p chance.Passive
	if c.Passives.Has(ruleset.PassiveLucky) {
		p.Bonus += 0.05
	}
	if c.Passives.Has(ruleset.PassiveAdaptable) {
		p.Rerolls++
	}
	return p
}

// Flying reports whether the combatant flies over objects.
func (c *Combatant) Flying() bool {
	return c.Traits.Flying || (c.Race != nil && c.Race.Flying)
}

// Undead reports whether lifesteal is suppressed against the combatant.
func (c *Combatant) Undead() bool {
	return c.Traits.Undead || (c.Race != nil && c.Race.Undead)
}
