package ai_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

func drone(owner string) *combat.Combatant {
	d := combat.NewCombatant("drone-1", "Drone", combat.RoleDrone, 10, 0)
	d.OwnerID = owner
	return d
}

func TestDrone_IgnoresEnemyOnlyReachableByAir(t *testing.T) {
	a := newArena(t, 6, 6)
	a.add(t, hero(), 5, 5)
	d := a.add(t, drone("player"), 0, 0)
	d.Traits.Flying = true
	a.add(t, foe("walled", 20), 4, 0)
	for i, p := range []grid.Pos{{X: 3, Y: 0}, {X: 5, Y: 0}, {X: 4, Y: 1}} {
		require.NoError(t, a.enc.Grid().PlaceObject(&grid.Object{ID: string(rune('a' + i)), Kind: grid.ObjectTerrain, Pos: p}))
	}
	a.add(t, foe("open", 20), 0, 5)

	in, _ := ai.DroneController{}.Decide(a.enc, d)
	require.Equal(t, combat.IntentMove, in.Kind)
	assert.Equal(t, grid.Pos{X: 0, Y: 3}, in.Cell)
}

func TestDrone_MovesThenAttacks(t *testing.T) {
	a := newArena(t, 6, 1)
	a.add(t, hero(), 5, 0)
	d := a.add(t, drone("player"), 0, 0)
	a.add(t, foe("goblin", 20), 3, 0)

	in, _ := ai.DroneController{}.Decide(a.enc, d)
	require.Equal(t, combat.Move(grid.Pos{X: 2, Y: 0}).Then(combat.Attack("goblin")), in)
}

func TestDrone_NoReachableTargetWaits(t *testing.T) {
	a := newArena(t, 6, 1)
	a.add(t, hero(), 5, 0)
	d := a.add(t, drone("player"), 0, 0)
	a.add(t, foe("goblin", 20), 3, 0)
	require.NoError(t, a.enc.Grid().PlaceObject(&grid.Object{ID: "rock", Kind: grid.ObjectTerrain, Pos: grid.Pos{X: 1, Y: 0}}))

	in, _ := ai.DroneController{}.Decide(a.enc, d)
	assert.Equal(t, combat.IntentWait, in.Kind)
}

func TestControllers_AutoplayRunsToVictory(t *testing.T) {
	a := newArena(t, 6, 6)
	a.add(t, hero(), 0, 0)
	a.add(t, foe("goblin", 20), 1, 0)

	s := combat.NewScheduler(a.enc)
	ally := ai.NewAllyController(nil)
	s.ControlRole(combat.RolePlayer, ally)
	s.ControlRole(combat.RoleAlly, ally)
	s.ControlRole(combat.RoleDrone, ai.DroneController{})
	s.ControlRole(combat.RoleEnemy, ai.NewEnemyController(nil, nil))

	outcome, err := s.Run(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, combat.OutcomeVictory, outcome)
}
