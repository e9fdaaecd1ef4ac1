package npc

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// CurrencyDrop defines the range of gold a defeated enemy can drop.
type CurrencyDrop struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
	// Chance gates the drop; 0 means certain.
	Chance float64 `yaml:"chance"`
}

// ItemDrop defines a single item entry in a reward table with a drop chance.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// Drop is an unlock keyed by ID: a recipe, a seed or a quest objective.
type Drop struct {
	ID     string  `yaml:"id"`
	Chance float64 `yaml:"chance"`
}

// RewardTable defines every reward a defeated enemy can grant.
type RewardTable struct {
	Gold    *CurrencyDrop `yaml:"gold"`
	XP      int           `yaml:"xp"`
	Items   []ItemDrop    `yaml:"items"`
	Recipes []Drop        `yaml:"recipes"`
	Seeds   []Drop        `yaml:"seeds"`
	Quests  []Drop        `yaml:"quests"`
}

// Validate checks that the reward table satisfies its invariants.
//
// Precondition: rt must not be nil.
// Postcondition: Returns nil iff all currency, item and unlock constraints hold;
// an empty table is valid.
func (rt *RewardTable) Validate() error {
	if rt.Gold != nil {
		if rt.Gold.Min < 0 {
			return fmt.Errorf("reward table: gold min must be >= 0, got %d", rt.Gold.Min)
		}
		if rt.Gold.Min > rt.Gold.Max {
			return fmt.Errorf("reward table: gold min (%d) must be <= max (%d)", rt.Gold.Min, rt.Gold.Max)
		}
		if rt.Gold.Chance < 0 || rt.Gold.Chance > 1 {
			return fmt.Errorf("reward table: gold chance must be in [0, 1.0], got %f", rt.Gold.Chance)
		}
	}
	if rt.XP < 0 {
		return fmt.Errorf("reward table: xp must be >= 0, got %d", rt.XP)
	}
	for i, item := range rt.Items {
		if item.ItemID == "" {
			return fmt.Errorf("reward table: item[%d] must have a non-empty item id", i)
		}
		if item.Chance <= 0 || item.Chance > 1.0 {
			return fmt.Errorf("reward table: item[%d] chance must be in (0, 1.0], got %f", i, item.Chance)
		}
		if item.MinQty < 1 {
			return fmt.Errorf("reward table: item[%d] min_qty must be >= 1, got %d", i, item.MinQty)
		}
		if item.MinQty > item.MaxQty {
			return fmt.Errorf("reward table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty)
		}
	}
	unlocks := []struct {
		name  string
		drops []Drop
	}{{"recipe", rt.Recipes}, {"seed", rt.Seeds}, {"quest", rt.Quests}}
	for _, u := range unlocks {
		name := u.name
		for i, d := range u.drops {
			if d.ID == "" {
				return fmt.Errorf("reward table: %s[%d] must have a non-empty id", name, i)
			}
			if d.Chance <= 0 || d.Chance > 1.0 {
				return fmt.Errorf("reward table: %s[%d] chance must be in (0, 1.0], got %f", name, i, d.Chance)
			}
		}
	}
	return nil
}

// LootItem represents a single item instance in a reward result.
type LootItem struct {
	ItemDefID  string
	InstanceID string
	Quantity   int
}

// Rewards holds everything granted for one defeated enemy.
type Rewards struct {
	Gold    int
	XP      int
	Items   []LootItem
	Recipes []string
	Seeds   []string
	Quests  []string
}

// IsEmpty reports whether nothing was granted.
func (r Rewards) IsEmpty() bool {
	return r.Gold == 0 && r.XP == 0 && len(r.Items) == 0 &&
		len(r.Recipes) == 0 && len(r.Seeds) == 0 && len(r.Quests) == 0
}

// RollFunc decides whether a drop with the given chance is granted.
type RollFunc func(chance float64) bool

// GenerateRewards rolls every entry of rt. Each drop is gated by roll; amounts
// and quantities are drawn from src.
//
// Precondition: rt must have passed Validate(); roll and src must be non-nil.
// Postcondition: Gold is in [Gold.Min, Gold.Max] when granted; each item's
// Quantity is in [MinQty, MaxQty] and carries a fresh instance ID.
func GenerateRewards(rt RewardTable, roll RollFunc, src dice.Source) Rewards {
	var result Rewards

	if rt.Gold != nil && rt.Gold.Max > 0 {
		chance := rt.Gold.Chance
		if chance == 0 {
			chance = 1
		}
		if roll(chance) {
			result.Gold = rt.Gold.Min
			if spread := rt.Gold.Max - rt.Gold.Min; spread > 0 {
				result.Gold += src.Intn(spread + 1)
			}
		}
	}
	if rt.XP > 0 && roll(1) {
		result.XP = rt.XP
	}

	for _, item := range rt.Items {
		if !roll(item.Chance) {
			continue
		}
		qty := item.MinQty
		if spread := item.MaxQty - item.MinQty; spread > 0 {
			qty += src.Intn(spread + 1)
		}
		result.Items = append(result.Items, LootItem{
			ItemDefID:  item.ItemID,
			InstanceID: uuid.New().String(),
			Quantity:   qty,
		})
	}

	result.Recipes = rollDrops(rt.Recipes, roll)
	result.Seeds = rollDrops(rt.Seeds, roll)
	result.Quests = rollDrops(rt.Quests, roll)
	return result
}

func rollDrops(drops []Drop, roll RollFunc) []string {
	var out []string
	for _, d := range drops {
		if roll(d.Chance) {
			out = append(out, d.ID)
		}
	}
	return out
}
