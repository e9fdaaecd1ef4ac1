package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
	"github.com/cory-johannsen/skirmish/internal/game/status"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

func caster(t *testing.T, f *fixture, mp int) *combat.Combatant {
	t.Helper()
	c := f.add(t, player(40, mp), 0, 0)
	c.Equipment.Catalyst = &inventory.CatalystDef{ID: "wand", Name: "Wand"}
	return c
}

func TestMove_WithinBudget(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 6, 6)
	p := f.add(t, player(40, 0), 0, 0)
	f.add(t, enemy("goblin", 20), 5, 5)

	consumed, err := f.enc.Execute(p, combat.Move(grid.Pos{X: 2, Y: 1}))
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Equal(t, grid.Pos{X: 2, Y: 1}, p.Pos)
	assert.Equal(t, 3, p.Scratch.TilesMoved)
	assert.Len(t, f.enc.DrainSteps(), 3)
}

func TestMove_BeyondBudgetRejected(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 6, 6)
	p := f.add(t, player(40, 0), 0, 0)
	slowed, _ := f.enc.Statuses().Get(status.Slowed)
	require.NoError(t, p.Statuses.Apply(slowed, 2, 0, 0))

	_, err := f.enc.Execute(p, combat.Move(grid.Pos{X: 3, Y: 0}))
	assert.ErrorIs(t, err, combat.ErrIllegalPosition)
	assert.Equal(t, grid.Pos{X: 0, Y: 0}, p.Pos)
	assert.Equal(t, 2, f.enc.MovementBudget(p))
}

func TestProperty_MoveNeverEndsOnBlockedCell(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(t, testutil.MaxSource{}, 6, 6)
		g := f.enc.Grid()
		for i, n := 0, rapid.IntRange(0, 10).Draw(rt, "objects"); i < n; i++ {
			pos := grid.Pos{X: rapid.IntRange(0, 5).Draw(rt, "ox"), Y: rapid.IntRange(0, 5).Draw(rt, "oy")}
			if pos == (grid.Pos{}) {
				continue
			}
			kind := grid.ObjectKind(rapid.IntRange(1, 2).Draw(rt, "kind"))
			_ = g.PlaceObject(&grid.Object{ID: pos.String(), Kind: kind, Pos: pos, HP: 5})
		}
		for i, n := 0, rapid.IntRange(0, 6).Draw(rt, "holes"); i < n; i++ {
			pos := grid.Pos{X: rapid.IntRange(0, 5).Draw(rt, "hx"), Y: rapid.IntRange(0, 5).Draw(rt, "hy")}
			if pos != (grid.Pos{}) && g.ObjectAt(pos) == nil {
				g.SetActive(pos, false)
			}
		}
		p := player(40, 0)
		p.Traits.Flying = rapid.Bool().Draw(rt, "flying")
		f.add(t, p, 0, 0)
		blocker := enemy("blocker", 10)
		bpos := grid.Pos{X: 1, Y: 1}
		if g.IsActive(bpos) && g.ObjectAt(bpos) == nil {
			f.add(t, blocker, 1, 1)
		}

		dest := grid.Pos{X: rapid.IntRange(-1, 6).Draw(rt, "dx"), Y: rapid.IntRange(-1, 6).Draw(rt, "dy")}
		_, err := f.enc.Execute(p, combat.Move(dest))
		if err != nil {
			if p.Pos != (grid.Pos{}) {
				rt.Fatalf("rejected move changed position to %s", p.Pos)
			}
			return
		}
		if !g.IsActive(p.Pos) || g.ObjectAt(p.Pos) != nil || (blocker.Pos == p.Pos) {
			rt.Fatalf("move ended on blocked cell %s", p.Pos)
		}
	})
}

func TestCast_CostAboveMPRejectedWithoutChange(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 5, 5)
	require.NoError(t, f.rules.RegisterSpell(&ruleset.SpellDef{
		ID: "fireball", Name: "Fireball", Kind: ruleset.SpellDamage, Element: ruleset.ElementFire, Dice: "3d6", MPCost: 10, Range: 4,
	}))
	c := caster(t, f, 5)
	c.Spells["fireball"] = 1
	target := f.add(t, enemy("goblin", 30), 2, 0)

	s := combat.NewScheduler(f.enc)
	state, err := s.Submit(combat.Cast("fireball", target.ID))
	assert.ErrorIs(t, err, combat.ErrInsufficientResource)
	assert.Equal(t, combat.StepAwaitingInput, state)
	assert.Equal(t, 5, c.MP)
	assert.Equal(t, 30, target.HP)
	assert.Same(t, c, s.Current())
}

func TestCast_RequiresCatalystAndKnownSpell(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 5, 5)
	require.NoError(t, f.rules.RegisterSpell(&ruleset.SpellDef{ID: "spark", Name: "Spark", Kind: ruleset.SpellDamage, Dice: "1d4", MPCost: 1, Range: 3}))
	c := f.add(t, player(40, 10), 0, 0)
	target := f.add(t, enemy("goblin", 30), 1, 0)

	_, err := f.enc.Execute(c, combat.Cast("spark", target.ID))
	assert.ErrorIs(t, err, combat.ErrConfigurationGap)

	c.Spells["spark"] = 1
	_, err = f.enc.Execute(c, combat.Cast("spark", target.ID))
	assert.ErrorIs(t, err, combat.ErrInvalidState)

	_, err = f.enc.Execute(c, combat.Cast("nope", target.ID))
	assert.ErrorIs(t, err, combat.ErrConfigurationGap)
	assert.Equal(t, 10, c.MP)
}

func TestCast_DamageDeductsMPAndScalesTier(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 5, 5)
	require.NoError(t, f.rules.RegisterSpell(&ruleset.SpellDef{ID: "bolt", Name: "Bolt", Kind: ruleset.SpellDamage, Dice: "1d6", MPCost: 3, Range: 3, Hits: 2}))
	c := caster(t, f, 20)
	c.Spells["bolt"] = 2
	target := f.add(t, enemy("goblin", 50), 2, 0)

	_, err := f.enc.Execute(c, combat.Cast("bolt", target.ID))
	require.NoError(t, err)
	assert.Equal(t, 20-5, c.MP)
	assert.Equal(t, 50-2*12, target.HP, "two hits of 2d6 at max")
}

func TestCast_SplashHitsAdjacentAtHalf(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 6, 6)
	require.NoError(t, f.rules.RegisterSpell(&ruleset.SpellDef{ID: "burst", Name: "Burst", Kind: ruleset.SpellSplash, Dice: "2d6", MPCost: 2, Range: 4}))
	c := caster(t, f, 20)
	c.Spells["burst"] = 1
	primary := f.add(t, enemy("a", 50), 3, 0)
	near := f.add(t, enemy("b", 50), 3, 1)
	far := f.add(t, enemy("c", 50), 5, 5)

	_, err := f.enc.Execute(c, combat.Cast("burst", primary.ID))
	require.NoError(t, err)
	assert.Equal(t, 38, primary.HP)
	assert.Equal(t, 44, near.HP)
	assert.Equal(t, 50, far.HP)
}

func TestCast_ChainJumpsToNearestUnhit(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 8, 3)
	require.NoError(t, f.rules.RegisterSpell(&ruleset.SpellDef{ID: "arc", Name: "Arc", Kind: ruleset.SpellChain, Dice: "1d10", MPCost: 2, Range: 4}))
	c := caster(t, f, 20)
	c.Spells["arc"] = 1
	first := f.add(t, enemy("a", 50), 2, 0)
	second := f.add(t, enemy("b", 50), 4, 0)
	third := f.add(t, enemy("c", 50), 6, 0)
	out := f.add(t, enemy("d", 50), 7, 2)

	_, err := f.enc.Execute(c, combat.Cast("arc", first.ID))
	require.NoError(t, err)
	assert.Equal(t, 40, first.HP)
	assert.Equal(t, 43, second.HP, "floor(10*0.7)")
	assert.Equal(t, 46, third.HP, "floor(10*0.49)")
	assert.Equal(t, 50, out.HP)
}

func TestCast_AOEHitsEveryHostileInRadius(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 6, 6)
	require.NoError(t, f.rules.RegisterSpell(&ruleset.SpellDef{ID: "quake", Name: "Quake", Kind: ruleset.SpellAOE, Dice: "1d8", MPCost: 4, Range: 6, Radius: 1}))
	c := caster(t, f, 20)
	c.Spells["quake"] = 1
	a := f.add(t, enemy("a", 30), 3, 3)
	b := f.add(t, enemy("b", 30), 3, 4)
	d := f.add(t, enemy("d", 30), 5, 5)

	_, err := f.enc.Execute(c, combat.CastAt("quake", grid.Pos{X: 3, Y: 3}))
	require.NoError(t, err)
	assert.Equal(t, 22, a.HP)
	assert.Equal(t, 22, b.HP)
	assert.Equal(t, 30, d.HP)
}

func TestCast_HealAndBuffFriendly(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 6, 6)
	require.NoError(t, f.rules.RegisterSpell(&ruleset.SpellDef{ID: "mend", Name: "Mend", Kind: ruleset.SpellHeal, Dice: "2d4", MPCost: 2, Range: 2}))
	require.NoError(t, f.rules.RegisterSpell(&ruleset.SpellDef{ID: "haste", Name: "Haste", Kind: ruleset.SpellBuff, Status: status.Hasted, MPCost: 2, Range: 2}))
	c := caster(t, f, 20)
	c.Spells["mend"], c.Spells["haste"] = 1, 1
	ally := f.add(t, combat.NewCombatant("ally", "Ally", combat.RoleAlly, 30, 0), 1, 0)
	ally.HP = 10
	f.add(t, enemy("goblin", 30), 5, 5)

	_, err := f.enc.Execute(c, combat.Cast("mend", ally.ID))
	require.NoError(t, err)
	assert.Equal(t, 18, ally.HP)

	_, err = f.enc.Execute(c, combat.Cast("haste", ally.ID))
	require.NoError(t, err)
	assert.True(t, ally.Statuses.Has(status.Hasted))
}

func TestItem_HealthPotionConsumesOne(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 5, 5)
	require.NoError(t, f.items.RegisterItem(&inventory.ItemDef{ID: "potion", Name: "Potion", Kind: inventory.KindHealthPotion, Amount: 15}))
	p := f.add(t, player(40, 0), 0, 0)
	p.HP = 20
	p.Items["potion"] = 2
	f.add(t, enemy("goblin", 20), 4, 4)

	_, err := f.enc.Execute(p, combat.UseItem("potion", ""))
	require.NoError(t, err)
	assert.Equal(t, 35, p.HP)
	assert.Equal(t, 1, p.Items["potion"])

	_, err = f.enc.Execute(p, combat.UseItem("elixir", ""))
	assert.ErrorIs(t, err, combat.ErrConfigurationGap)
	delete(p.Items, "potion")
	_, err = f.enc.Execute(p, combat.UseItem("potion", ""))
	assert.ErrorIs(t, err, combat.ErrInsufficientResource)
}

func TestItem_BombAndCleanser(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 6, 6)
	require.NoError(t, f.items.RegisterItem(&inventory.ItemDef{ID: "bomb", Name: "Bomb", Kind: inventory.KindBomb, Dice: "2d6", Range: 3, Radius: 1}))
	require.NoError(t, f.items.RegisterItem(&inventory.ItemDef{ID: "salts", Name: "Salts", Kind: inventory.KindCleanser}))
	p := f.add(t, player(40, 0), 0, 0)
	p.Items["bomb"], p.Items["salts"] = 1, 1
	a := f.add(t, enemy("a", 30), 2, 1)
	b := f.add(t, enemy("b", 30), 3, 1)

	_, err := f.enc.Execute(p, combat.UseItem("bomb", a.ID))
	require.NoError(t, err)
	assert.Equal(t, 18, a.HP)
	assert.Equal(t, 18, b.HP)

	poison, _ := f.enc.Statuses().Get(status.Poison)
	require.NoError(t, p.Statuses.Apply(poison, 3, 0, 2))
	_, err = f.enc.Execute(p, combat.UseItem("salts", ""))
	require.NoError(t, err)
	assert.False(t, p.Statuses.Has(status.Poison))
}

func knockbackSkill() *ruleset.SkillDef {
	return &ruleset.SkillDef{ID: "shove", Name: "Shove", Kind: ruleset.SkillKnockbackStrike, MPCost: 4, Distance: 2, Deferred: true, Cooldown: 2}
}

func TestTwoPhase_CancelChargesNothing(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 6, 6)
	require.NoError(t, f.rules.RegisterSkill(knockbackSkill()))
	p := f.add(t, player(40, 10), 0, 0)
	p.Skills = []string{"shove"}
	near := f.add(t, enemy("near", 30), 1, 0)
	far := f.add(t, enemy("far", 30), 4, 4)

	require.NoError(t, f.enc.Begin(p, "shove"))
	_, _, pending := f.enc.Pending()
	assert.True(t, pending)
	assert.Equal(t, 10, p.MP)
	f.enc.Cancel()
	_, _, pending = f.enc.Pending()
	assert.False(t, pending)
	assert.Equal(t, 10, p.MP)

	require.NoError(t, f.enc.Begin(p, "shove"))
	_, err := f.enc.Confirm(far.ID, grid.Unplaced)
	assert.ErrorIs(t, err, combat.ErrInvalidTarget)
	assert.Equal(t, 10, p.MP, "failed confirm charges nothing")
	_, _, pending = f.enc.Pending()
	assert.True(t, pending)

	consumed, err := f.enc.Confirm(near.ID, grid.Unplaced)
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Equal(t, 6, p.MP)
	assert.Equal(t, 2, p.Cooldowns["shove"])
	assert.Equal(t, grid.Pos{X: 3, Y: 0}, near.Pos)

	_, err = f.enc.Execute(p, combat.UseSkill("shove", near.ID, grid.Unplaced))
	assert.ErrorIs(t, err, combat.ErrInvalidState, "on cooldown")
}

func TestTwoPhase_ConfirmRejectsActorThatCannotAct(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 6, 6)
	require.NoError(t, f.rules.RegisterSkill(knockbackSkill()))
	p := f.add(t, player(40, 10), 0, 0)
	p.Skills = []string{"shove"}
	near := f.add(t, enemy("near", 30), 1, 0)

	require.NoError(t, f.enc.Begin(p, "shove"))
	p.HP = 0
	consumed, err := f.enc.Confirm(near.ID, grid.Unplaced)
	assert.ErrorIs(t, err, combat.ErrInvalidState)
	assert.False(t, consumed)
	assert.Equal(t, 10, p.MP)
	assert.Equal(t, 30, near.HP)
	assert.Equal(t, grid.Pos{X: 1, Y: 0}, near.Pos)
	_, _, pending := f.enc.Pending()
	assert.False(t, pending, "the ability is dropped")
}

func TestSummonDrone_PlacementChecked(t *testing.T) {
	tmpl := &npc.Template{ID: "turret", Name: "Turret", Level: 1, MaxHP: 10}
	f := newFixture(t, testutil.MaxSource{}, 6, 6, tmpl)
	require.NoError(t, f.rules.RegisterSkill(&ruleset.SkillDef{ID: "deploy", Name: "Deploy", Kind: ruleset.SkillSummonDrone, MPCost: 5, Drone: "turret", Deferred: true}))
	p := f.add(t, player(40, 10), 0, 0)
	p.Skills = []string{"deploy"}
	f.add(t, enemy("goblin", 20), 5, 5)

	_, err := f.enc.Execute(p, combat.UseSkill("deploy", "", grid.Pos{X: 4, Y: 4}))
	assert.ErrorIs(t, err, combat.ErrIllegalPosition)
	assert.Equal(t, 10, p.MP)

	_, err = f.enc.Execute(p, combat.UseSkill("deploy", "", grid.Pos{X: 1, Y: 1}))
	require.NoError(t, err)
	assert.Equal(t, 5, p.MP)
	drones := f.enc.Drones(p.ID)
	require.Len(t, drones, 1)
	assert.Equal(t, grid.Pos{X: 1, Y: 1}, drones[0].Pos)
	assert.Equal(t, combat.RoleDrone, drones[0].Role)

	_, err = f.enc.Execute(p, combat.UseSkill("deploy", "", grid.Pos{X: 0, Y: 1}))
	assert.ErrorIs(t, err, combat.ErrInvalidState)
}

func TestToggle_DoesNotConsumeTurnAndAddsSurcharge(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 5, 5)
	require.NoError(t, f.rules.RegisterSkill(&ruleset.SkillDef{ID: "overcharge", Name: "Overcharge", Kind: ruleset.SkillToggle, Surcharge: 3, Multiplier: 1.5}))
	c := caster(t, f, 20)
	c.Skills = []string{"overcharge"}
	f.add(t, enemy("goblin", 20), 4, 4)
	spell := &ruleset.SpellDef{ID: "spark", Name: "Spark", Kind: ruleset.SpellDamage, Dice: "1d4", MPCost: 2}

	consumed, err := f.enc.Execute(c, combat.UseSkill("overcharge", "", grid.Unplaced))
	require.NoError(t, err)
	assert.False(t, consumed)
	assert.True(t, c.Flags.Toggles["overcharge"])
	assert.Equal(t, 5, f.enc.SpellCost(c, spell, 1))
}

func TestSignature_OncePerEncounter(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 5, 5)
	require.NoError(t, f.rules.RegisterSkill(&ruleset.SkillDef{ID: "second_wind", Name: "Second Wind", Kind: ruleset.SkillHealSelf, Heal: "2d6", OncePerEncounter: true}))
	p := f.add(t, player(40, 0), 0, 0)
	p.Class = &ruleset.ClassDef{ID: "warrior", Name: "Warrior", Signature: "second_wind"}
	p.HP = 10
	f.add(t, enemy("goblin", 20), 4, 4)

	_, err := f.enc.Execute(p, combat.Signature("", grid.Unplaced))
	require.NoError(t, err)
	assert.Equal(t, 22, p.HP)
	assert.True(t, p.Flags.SignatureUsed)

	_, err = f.enc.Execute(p, combat.Signature("", grid.Unplaced))
	assert.ErrorIs(t, err, combat.ErrInvalidState)
}

func TestFlee_InescapableRejected(t *testing.T) {
	f := newFixture(t, testutil.MinSource{}, 5, 5)
	enc := combat.NewEncounter(f.enc.Grid(), combat.Options{Inescapable: true}, combat.Deps{Log: f.sink})
	p := player(40, 0)
	p.Pos = grid.Pos{}
	require.NoError(t, enc.Add(p))

	_, err := enc.Execute(p, combat.Flee())
	assert.ErrorIs(t, err, combat.ErrInvalidState)
	assert.Equal(t, combat.OutcomeActive, enc.Outcome())
}

func TestFlee_SuccessEndsEncounter(t *testing.T) {
	f := newFixture(t, testutil.MinSource{}, 5, 5)
	p := f.add(t, player(40, 0), 0, 0)
	f.add(t, enemy("goblin", 20), 4, 4)

	consumed, err := f.enc.Execute(p, combat.Flee())
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.Equal(t, combat.OutcomeFled, f.enc.Outcome())
}

func TestFleeChance_Clamped(t *testing.T) {
	assert.InDelta(t, 0.5, combat.FleeChance(5, 5), 1e-9)
	assert.InDelta(t, 0.6, combat.FleeChance(7, 5), 1e-9)
	assert.InDelta(t, 0.9, combat.FleeChance(50, 0), 1e-9)
	assert.InDelta(t, 0.1, combat.FleeChance(0, 50), 1e-9)
	assert.InDelta(t, 0.85, combat.StruggleChance(40), 1e-9)
	assert.InDelta(t, 0.45, combat.StruggleChance(5), 1e-9)
}

func TestSwallow_OnlyStruggleUntilFreed(t *testing.T) {
	f := newFixture(t, testutil.MinSource{}, 5, 5)
	p := f.add(t, player(40, 0), 2, 2)
	worm := f.add(t, enemy("worm", 60), 3, 2)
	worm.Traits = npc.Traits{Swallow: true, SwallowDamage: 3}

	_, err := f.enc.Execute(worm, combat.Swallow(p.ID))
	require.NoError(t, err)
	assert.True(t, p.Swallowed())
	assert.False(t, p.Pos.IsPlaced())

	_, err = f.enc.Execute(p, combat.Attack(worm.ID))
	assert.ErrorIs(t, err, combat.ErrInvalidState)

	f.enc.EndTurn(p)
	assert.Equal(t, 37, p.HP)

	_, err = f.enc.Execute(p, combat.Struggle())
	require.NoError(t, err)
	assert.False(t, p.Swallowed())
	assert.Equal(t, 1, p.Pos.Distance(worm.Pos))
}

func TestRestrained_AnyOnlyStruggleEffectGatesActions(t *testing.T) {
	f := newFixture(t, testutil.MinSource{}, 5, 5)
	require.NoError(t, f.rules.RegisterSkill(knockbackSkill()))
	p := f.add(t, player(40, 10), 2, 2)
	p.Skills = []string{"shove"}
	goblin := f.add(t, enemy("goblin", 20), 3, 2)
	webbed := &status.Def{ID: "webbed", Name: "Webbed", Category: status.CategoryDebuff, OnlyStruggle: true}
	require.NoError(t, p.Statuses.Apply(webbed, 3, 0, 0))

	assert.True(t, p.Restrained())
	assert.False(t, p.Swallowed())
	_, err := f.enc.Execute(p, combat.Attack(goblin.ID))
	assert.ErrorIs(t, err, combat.ErrInvalidState)
	assert.ErrorIs(t, f.enc.Begin(p, "shove"), combat.ErrInvalidState)
	assert.Equal(t, 20, goblin.HP)

	consumed, err := f.enc.Execute(p, combat.Struggle())
	require.NoError(t, err)
	assert.True(t, consumed)
	assert.False(t, p.Restrained())
	assert.Equal(t, grid.Pos{X: 2, Y: 2}, p.Pos)
}

func TestSwallow_ReleasedWhenSwallowerDies(t *testing.T) {
	f := newFixture(t, testutil.MaxSource{}, 5, 5)
	p := f.add(t, player(40, 0), 2, 2)
	worm := f.add(t, enemy("worm", 60), 3, 2)
	f.add(t, enemy("guard", 60), 0, 0)
	worm.Traits = npc.Traits{Swallow: true}

	_, err := f.enc.Execute(worm, combat.Swallow(p.ID))
	require.NoError(t, err)
	worm.ApplyDamage(60)
	f.enc.CheckEnd()

	assert.False(t, p.Swallowed())
	assert.Equal(t, grid.Pos{X: 3, Y: 2}, p.Pos)
	_, ok := f.enc.Combatant(worm.ID)
	assert.False(t, ok)
}
