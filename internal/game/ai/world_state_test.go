package ai_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/ai"
	"github.com/cory-johannsen/skirmish/internal/game/grid"
)

func state(self string, cs ...*ai.CombatantState) *ai.WorldState {
	ws := &ai.WorldState{Combatants: cs}
	for _, c := range cs {
		if c.UID == self {
			ws.Self = c
		}
	}
	return ws
}

func TestWorldState_EnemiesOf_ReturnsOnlyOppositeSide(t *testing.T) {
	ws := state("n1",
		&ai.CombatantState{UID: "p1", Side: ai.SidePlayer, HP: 20},
		&ai.CombatantState{UID: "n1", Side: ai.SideEnemy, HP: 15},
		&ai.CombatantState{UID: "n2", Side: ai.SideEnemy, HP: 10},
	)
	enemies := ws.EnemiesOf("n1")
	if len(enemies) != 1 || enemies[0].UID != "p1" {
		t.Fatalf("expected 1 player enemy, got %v", enemies)
	}
}

func TestWorldState_EnemiesOf_ExcludesDead(t *testing.T) {
	ws := state("n1",
		&ai.CombatantState{UID: "n1", Side: ai.SideEnemy, HP: 5},
		&ai.CombatantState{UID: "p1", Side: ai.SidePlayer, HP: 0, Dead: true},
		&ai.CombatantState{UID: "p2", Side: ai.SidePlayer, HP: 20},
	)
	enemies := ws.EnemiesOf("n1")
	if len(enemies) != 1 || enemies[0].UID != "p2" {
		t.Fatalf("expected only living p2, got %v", enemies)
	}
}

func TestWorldState_NearestEnemy_ByDistance(t *testing.T) {
	ws := state("n1",
		&ai.CombatantState{UID: "n1", Side: ai.SideEnemy, Pos: grid.Pos{X: 5, Y: 5}},
		&ai.CombatantState{UID: "p1", Side: ai.SidePlayer, HP: 30, Pos: grid.Pos{X: 0, Y: 0}},
		&ai.CombatantState{UID: "d1", Side: ai.SidePlayer, HP: 10, Pos: grid.Pos{X: 5, Y: 3}},
	)
	nearest := ws.NearestEnemy("n1")
	if nearest == nil || nearest.UID != "d1" {
		t.Fatalf("expected d1 as nearest, got %v", nearest)
	}
}

func TestWorldState_WeakestEnemy_ReturnsLowestHP(t *testing.T) {
	ws := state("n1",
		&ai.CombatantState{UID: "n1", Side: ai.SideEnemy},
		&ai.CombatantState{UID: "p1", Side: ai.SidePlayer, HP: 30, MaxHP: 30},
		&ai.CombatantState{UID: "p2", Side: ai.SidePlayer, HP: 5, MaxHP: 30},
	)
	weakest := ws.WeakestEnemy("n1")
	if weakest == nil || weakest.UID != "p2" {
		t.Fatalf("expected p2 as weakest, got %v", weakest)
	}
}

func TestWorldState_ResolveTarget_Tokens(t *testing.T) {
	ws := state("n1",
		&ai.CombatantState{UID: "n1", Side: ai.SideEnemy},
		&ai.CombatantState{UID: "p1", Side: ai.SidePlayer, HP: 20, MaxHP: 20},
	)
	cases := map[string]string{
		"nearest_enemy": "p1",
		"weakest_enemy": "p1",
		"self":          "n1",
		"p1":            "p1",
	}
	for token, want := range cases {
		if got := ws.ResolveTarget(token); got != want {
			t.Fatalf("ResolveTarget(%q) = %q, want %q", token, got, want)
		}
	}
}

func TestWorldState_HasLivingEnemies_ReturnsTrueWhenPresent(t *testing.T) {
	ws := state("n1",
		&ai.CombatantState{UID: "n1", Side: ai.SideEnemy},
		&ai.CombatantState{UID: "p1", Side: ai.SidePlayer, HP: 20},
	)
	if !ws.HasLivingEnemies("n1") {
		t.Fatal("expected HasLivingEnemies=true")
	}
}

func TestProperty_WorldState_NearestEnemy_IsClosest(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		self := &ai.CombatantState{UID: "n1", Side: ai.SideEnemy, Pos: grid.Pos{
			X: rapid.IntRange(0, 9).Draw(rt, "sx"),
			Y: rapid.IntRange(0, 9).Draw(rt, "sy"),
		}}
		cs := []*ai.CombatantState{self}
		n := rapid.IntRange(0, 5).Draw(rt, "n")
		for i := 0; i < n; i++ {
			cs = append(cs, &ai.CombatantState{
				UID:  string(rune('a' + i)),
				Side: ai.SidePlayer,
				Dead: rapid.Bool().Draw(rt, "dead"),
				Pos: grid.Pos{
					X: rapid.IntRange(0, 9).Draw(rt, "x"),
					Y: rapid.IntRange(0, 9).Draw(rt, "y"),
				},
			})
		}
		ws := state("n1", cs...)
		nearest := ws.NearestEnemy("n1")
		enemies := ws.EnemiesOf("n1")
		if len(enemies) == 0 {
			if nearest != nil {
				rt.Fatal("expected nil nearest enemy when no opponents")
			}
			return
		}
		for _, e := range enemies {
			if self.Pos.Distance(e.Pos) < self.Pos.Distance(nearest.Pos) {
				rt.Fatalf("%s is closer than nearest %s", e.UID, nearest.UID)
			}
		}
	})
}
