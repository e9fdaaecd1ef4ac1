package ai_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/chance"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

type arena struct {
	enc   *combat.Encounter
	rules *ruleset.Registry
	items *inventory.Registry
	sink  *combat.RecordingSink
}

func newArena(t *testing.T, w, h int) *arena {
	t.Helper()
	src := testutil.MaxSource{}
	a := &arena{
		rules: ruleset.NewRegistry(),
		items: inventory.NewRegistry(),
		sink:  &combat.RecordingSink{},
	}
	a.enc = combat.NewEncounter(grid.New(w, h), combat.Options{FastMode: true}, combat.Deps{
		Dice:    dice.NewLoggedRoller(src, zap.NewNop()),
		Chance:  chance.NewProvider(src, nil),
		Rules:   a.rules,
		Items:   a.items,
		Log:     a.sink,
		Rewards: a.sink,
	})
	return a
}

func (a *arena) add(t *testing.T, c *combat.Combatant, x, y int) *combat.Combatant {
	t.Helper()
	c.Pos = grid.Pos{X: x, Y: y}
	require.NoError(t, a.enc.Add(c))
	return c
}

func (a *arena) spell(t *testing.T, sp *ruleset.SpellDef) {
	t.Helper()
	require.NoError(t, a.rules.RegisterSpell(sp))
}

func (a *arena) skill(t *testing.T, sk *ruleset.SkillDef) {
	t.Helper()
	require.NoError(t, a.rules.RegisterSkill(sk))
}

func (a *arena) item(t *testing.T, def *inventory.ItemDef) {
	t.Helper()
	require.NoError(t, a.items.RegisterItem(def))
}

func sword() *inventory.WeaponDef {
	return &inventory.WeaponDef{ID: "sword", Name: "Sword", Class: inventory.ClassSword, Tier: 1, DamageDice: "1d8", Range: 1}
}

func hero() *combat.Combatant {
	c := combat.NewCombatant("player", "Hero", combat.RolePlayer, 100, 20)
	c.Equipment.Weapon = sword()
	return c
}

func companion(class *ruleset.ClassDef) *combat.Combatant {
	c := combat.NewCombatant("ally", "Mira", combat.RoleAlly, 100, 20)
	c.Equipment.Weapon = sword()
	c.Equipment.Catalyst = &inventory.CatalystDef{ID: "wand", Name: "Wand"}
	c.Class = class
	return c
}

func foe(id string, hp int) *combat.Combatant {
	c := combat.NewCombatant(id, id, combat.RoleEnemy, hp, 10)
	c.Equipment.Weapon = sword()
	return c
}
