package world

import "craftgrid.ai/internal/sim/catalogs"

// StackCap is the maximum for every inventory slot, vitals included.
const StackCap = 9

// Inventory is the player's item and vital store. Vitals start full,
// everything else empty. All mutation goes through Add/Spend so no slot can
// leave [0, StackCap].
type Inventory struct {
	Health int `json:"health"`
	Food   int `json:"food"`
	Drink  int `json:"drink"`
	Energy int `json:"energy"`

	Sapling int `json:"sapling"`
	Wood    int `json:"wood"`
	Stone   int `json:"stone"`
	Coal    int `json:"coal"`
	Iron    int `json:"iron"`
	Diamond int `json:"diamond"`

	WoodPickaxe  int `json:"wood_pickaxe"`
	StonePickaxe int `json:"stone_pickaxe"`
	IronPickaxe  int `json:"iron_pickaxe"`
	WoodSword    int `json:"wood_sword"`
	StoneSword   int `json:"stone_sword"`
	IronSword    int `json:"iron_sword"`
}

func NewInventory() Inventory {
	return Inventory{
		Health: StackCap,
		Food:   StackCap,
		Drink:  StackCap,
		Energy: StackCap,
	}
}

func (inv *Inventory) slot(item string) *int {
	switch item {
	case "health":
		return &inv.Health
	case "food":
		return &inv.Food
	case "drink":
		return &inv.Drink
	case "energy":
		return &inv.Energy
	case "sapling":
		return &inv.Sapling
	case "wood":
		return &inv.Wood
	case "stone":
		return &inv.Stone
	case "coal":
		return &inv.Coal
	case "iron":
		return &inv.Iron
	case "diamond":
		return &inv.Diamond
	case "wood_pickaxe":
		return &inv.WoodPickaxe
	case "stone_pickaxe":
		return &inv.StonePickaxe
	case "iron_pickaxe":
		return &inv.IronPickaxe
	case "wood_sword":
		return &inv.WoodSword
	case "stone_sword":
		return &inv.StoneSword
	case "iron_sword":
		return &inv.IronSword
	}
	return nil
}

// Count returns the held amount of the item; unknown items count zero.
func (inv *Inventory) Count(item string) int {
	if s := inv.slot(item); s != nil {
		return *s
	}
	return 0
}

// Add changes a slot by n (n may be negative), clamping to [0, StackCap].
func (inv *Inventory) Add(item string, n int) {
	s := inv.slot(item)
	if s == nil {
		return
	}
	v := *s + n
	if v < 0 {
		v = 0
	}
	if v > StackCap {
		v = StackCap
	}
	*s = v
}

// CanAfford reports whether every input is covered.
func (inv *Inventory) CanAfford(inputs []catalogs.ItemCount) bool {
	for _, in := range inputs {
		if inv.Count(in.Item) < in.Count {
			return false
		}
	}
	return true
}

// Spend atomically consumes the inputs: either all are decremented or the
// inventory is left untouched.
func (inv *Inventory) Spend(inputs []catalogs.ItemCount) bool {
	if !inv.CanAfford(inputs) {
		return false
	}
	for _, in := range inputs {
		*inv.slot(in.Item) -= in.Count
	}
	return true
}

// PickaxeTier returns the best pickaxe tier held: 0 none, 1 wood, 2 stone,
// 3 iron.
func (inv *Inventory) PickaxeTier() int {
	switch {
	case inv.IronPickaxe > 0:
		return 3
	case inv.StonePickaxe > 0:
		return 2
	case inv.WoodPickaxe > 0:
		return 1
	}
	return 0
}

// SwordTier returns the best sword tier held, same scale as PickaxeTier.
func (inv *Inventory) SwordTier() int {
	switch {
	case inv.IronSword > 0:
		return 3
	case inv.StoneSword > 0:
		return 2
	case inv.WoodSword > 0:
		return 1
	}
	return 0
}

// MeleeDamage is the player's attack damage by sword tier: 1/2/3/5.
func (inv *Inventory) MeleeDamage() int {
	switch inv.SwordTier() {
	case 3:
		return 5
	case 2:
		return 3
	case 1:
		return 2
	}
	return 1
}

func (inv *Inventory) Alive() bool {
	return inv.Health > 0
}
