package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
	"github.com/cory-johannsen/skirmish/internal/game/status"
)

func TestEncounterQuery(t *testing.T) {
	a := newArena(t, 6, 6)
	p := a.add(t, hero(), 0, 0)
	a.add(t, foe("near", 20), 1, 0)
	a.add(t, foe("far", 20), 4, 4)
	def, _ := a.enc.Statuses().Get(status.Burn)
	require.NoError(t, p.Statuses.Apply(def, 2, 0, 1))
	q := ai.EncounterQuery{Enc: a.enc}

	info, ok := q.Combatant("player")
	require.True(t, ok)
	assert.Equal(t, "player", info.Role)
	assert.Equal(t, []string{"burn"}, info.Statuses)
	_, ok = q.Combatant("ghost")
	assert.False(t, ok)

	assert.Equal(t, 8, q.Distance("player", "far"))
	assert.Equal(t, -1, q.Distance("player", "ghost"))
	assert.Equal(t, 1, q.HostilesWithin("player", 1))
	assert.Equal(t, 2, q.HostilesWithin("player", 8))
	assert.Equal(t, 1, q.Round())
}

func TestBuildWorldState_SidesAndDead(t *testing.T) {
	a := newArena(t, 6, 6)
	a.add(t, hero(), 0, 0)
	g := a.add(t, foe("goblin", 20), 1, 0)
	dead := a.add(t, foe("corpse", 20), 3, 3)
	dead.HP = 0

	ws := ai.BuildWorldState(a.enc, g)
	require.Equal(t, "goblin", ws.Self.UID)
	assert.Equal(t, ai.SideEnemy, ws.Self.Side)
	assert.Len(t, ws.Combatants, 3)
	assert.Equal(t, grid.Pos{X: 1, Y: 0}, ws.Self.Pos)
	enemies := ws.EnemiesOf("goblin")
	require.Len(t, enemies, 1)
	assert.Equal(t, ai.SidePlayer, enemies[0].Side)
	for _, c := range ws.Combatants {
		if c.UID == "corpse" {
			assert.True(t, c.Dead)
		}
	}
}
