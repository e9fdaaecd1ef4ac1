package combat_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/chance"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

type fixture struct {
	enc   *combat.Encounter
	sink  *combat.RecordingSink
	rules *ruleset.Registry
	items *inventory.Registry
}

func newFixture(t *testing.T, src dice.Source, w, h int, npcs ...*npc.Template) *fixture {
	t.Helper()
	reg, err := npc.NewRegistry(npcs)
	require.NoError(t, err)
	f := &fixture{
		sink:  &combat.RecordingSink{},
		rules: ruleset.NewRegistry(),
		items: inventory.NewRegistry(),
	}
	roller := dice.NewLoggedRoller(src, zap.NewNop())
	f.enc = combat.NewEncounter(grid.New(w, h), combat.Options{FastMode: true}, combat.Deps{
		Dice:    roller,
		Chance:  chance.NewProvider(src, nil),
		Rules:   f.rules,
		Items:   f.items,
		NPCs:    reg,
		Log:     f.sink,
		Rewards: f.sink,
	})
	return f
}

func (f *fixture) add(t *testing.T, c *combat.Combatant, x, y int) *combat.Combatant {
	t.Helper()
	c.Pos = grid.Pos{X: x, Y: y}
	require.NoError(t, f.enc.Add(c))
	return c
}

func weapon(id, expr string, rng int) *inventory.WeaponDef {
	return &inventory.WeaponDef{
		ID:         id,
		Name:       id,
		Class:      inventory.ClassSword,
		Tier:       1,
		DamageDice: expr,
		Range:      rng,
	}
}

func player(maxHP, maxMP int) *combat.Combatant {
	return combat.NewCombatant("player", "Hero", combat.RolePlayer, maxHP, maxMP)
}

func enemy(id string, maxHP int) *combat.Combatant {
	return combat.NewCombatant(id, id, combat.RoleEnemy, maxHP, 0)
}
