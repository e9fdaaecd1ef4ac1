package combat

import (
	"math"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/ruleset"
)

const (
	splashScale = 0.5
	chainScale  = 0.7
	chainReach  = 2
	// chainTargets is the default number of bodies a chain spell strikes.
	chainTargets = 3
)

// castPlan is a validated spell cast awaiting resolution.
type castPlan struct {
	spell  *ruleset.SpellDef
	tier   int
	cost   int
	target *Combatant
	cell   grid.Pos
}

// planCast validates a cast without touching state.
func (e *Encounter) planCast(actor *Combatant, in Intent) (castPlan, error) {
	spell, ok := e.deps.Rules.Spell(in.Ref)
	if !ok {
		return castPlan{}, reject(KindConfigurationGap, "unknown spell %q", in.Ref)
	}
	tier, known := actor.Spells[spell.ID]
	if !known {
		return castPlan{}, reject(KindConfigurationGap, "%s does not know %s", actor.Name, spell.Name)
	}
	if tier < 1 {
		tier = 1
	}
	if !actor.HasCatalyst() {
		return castPlan{}, reject(KindInvalidState, "%s has no catalyst", actor.Name)
	}
	p := castPlan{spell: spell, tier: tier, cost: e.SpellCost(actor, spell, tier), cell: grid.Unplaced}

	rng := spell.Range
	if rng < 1 {
		rng = 1
	}
	switch {
	case spell.Self:
		p.target = actor
	case spell.Kind == ruleset.SpellAOE:
		p.cell = in.Cell
		if in.Target != "" {
			t, err := e.hostileTarget(actor, in.Target)
			if err != nil {
				return castPlan{}, err
			}
			p.cell = t.Pos
		}
		if !e.grid.IsActive(p.cell) {
			return castPlan{}, reject(KindIllegalPosition, "cannot target %s", p.cell)
		}
		if d := actor.Pos.Distance(p.cell); d > rng {
			return castPlan{}, reject(KindInvalidTarget, "%s is %d away, range %d", p.cell, d, rng)
		}
	case spell.Offensive():
		t, err := e.hostileTarget(actor, in.Target)
		if err != nil {
			return castPlan{}, err
		}
		if d := actor.Pos.Distance(t.Pos); d > rng {
			return castPlan{}, reject(KindInvalidTarget, "%s is %d away, range %d", t.Name, d, rng)
		}
		p.target = t
	default:
		t, err := e.friendlyTarget(actor, in.Target)
		if err != nil {
			return castPlan{}, err
		}
		if t != actor {
			if d := actor.Pos.Distance(t.Pos); d > rng {
				return castPlan{}, reject(KindInvalidTarget, "%s is %d away, range %d", t.Name, d, rng)
			}
		}
		p.target = t
	}
	if actor.MP < p.cost {
		return castPlan{}, reject(KindInsufficientResource, "%s needs %d MP, has %d", spell.Name, p.cost, actor.MP)
	}
	return p, nil
}

// CanCast reports whether actor could cast spellID at target right now.
func (e *Encounter) CanCast(actor *Combatant, spellID, target string) error {
	_, err := e.planCast(actor, Cast(spellID, target))
	return err
}

func (e *Encounter) cast(actor *Combatant, in Intent) (bool, error) {
	p, err := e.planCast(actor, in)
	if err != nil {
		return false, err
	}
	actor.SpendMP(p.cost)
	e.logf(CategoryCombat, "%s casts %s", actor.Name, p.spell.Name)

	switch p.spell.Kind {
	case ruleset.SpellDamage:
		for i := 0; i < p.spell.HitCount() && p.target.HP > 0; i++ {
			e.spellHit(actor, p.target, p, 1)
		}
	case ruleset.SpellSplash:
		primary := p.target.Pos
		e.spellHit(actor, p.target, p, 1)
		for _, o := range e.Hostiles(actor) {
			if o != p.target && o.Pos.Distance(primary) == 1 {
				e.spellHit(actor, o, p, splashScale)
			}
		}
	case ruleset.SpellChain:
		e.chain(actor, p)
	case ruleset.SpellAOE:
		for _, o := range e.Hostiles(actor) {
			if o.Pos.Distance(p.cell) <= p.spell.Radius {
				e.spellHit(actor, o, p, 1)
			}
		}
	case ruleset.SpellHeal:
		amount := actor.Stats.Intelligence / 5
		if expr, err := dice.Parse(p.spell.Dice); err == nil {
			amount += e.deps.Dice.Roll(expr.WithExtraDice(p.tier - 1)).Total()
		}
		got := p.target.Heal(amount)
		e.logf(CategoryCombat, "%s recovers %d HP", p.target.Name, got)
	case ruleset.SpellBuff:
		e.buff(p.target, p)
	case ruleset.SpellDebuff:
		if p.spell.Dice != "" {
			e.spellHit(actor, p.target, p, 1)
		} else {
			e.inflict(Hit{Attacker: actor, Target: p.target, Source: SourceSpell, Spell: p.spell, Tier: p.tier})
		}
	}
	return true, nil
}

func (e *Encounter) spellHit(actor, t *Combatant, p castPlan, scale float64) HitResult {
	return e.Land(e.calc.Compute(e, Hit{
		Attacker: actor,
		Target:   t,
		Source:   SourceSpell,
		Spell:    p.spell,
		Tier:     p.tier,
		Element:  p.spell.Element,
		Scale:    scale,
	}))
}

// chain strikes the primary then jumps to the nearest unhit hostile within
// reach, scaling damage by 70% per jump.
func (e *Encounter) chain(actor *Combatant, p castPlan) {
	limit := p.spell.HitCount()
	if limit < 2 {
		limit = chainTargets
	}
	hit := map[*Combatant]bool{p.target: true}
	cur := p.target
	last := cur.Pos
	e.spellHit(actor, cur, p, 1)
	for jump := 1; jump < limit; jump++ {
		var candidates []*Combatant
		for _, o := range e.Hostiles(actor) {
			if !hit[o] && o.Pos.Distance(last) <= chainReach {
				candidates = append(candidates, o)
			}
		}
		if len(candidates) == 0 {
			return
		}
		probe := &Combatant{Pos: last}
		cur = Nearest(probe, candidates)
		hit[cur] = true
		last = cur.Pos
		e.spellHit(actor, cur, p, math.Pow(chainScale, float64(jump)))
	}
}

func (e *Encounter) buff(t *Combatant, p castPlan) {
	if p.spell.Status == "" {
		return
	}
	def, ok := e.deps.Statuses.Get(p.spell.Status)
	if !ok {
		e.logf(CategorySystem, "unknown status %q", p.spell.Status)
		return
	}
	e.applyStatus(t, def, p.spell.StatusDuration, p.spell.Magnitude, p.spell.PerTick)
}
