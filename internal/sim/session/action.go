package session

import "craftgrid.ai/internal/sim/world"

// Action is one of the 17 discrete commands a controlled entity can issue
// per tick. The numeric order is part of the external contract (traces and
// RL action spaces index by it) and must not change.
type Action uint8

const (
	ActNoop Action = iota
	ActMoveLeft
	ActMoveRight
	ActMoveUp
	ActMoveDown
	ActDo
	ActSleep
	ActPlaceStone
	ActPlaceTable
	ActPlaceFurnace
	ActPlacePlant
	ActMakeWoodPickaxe
	ActMakeStonePickaxe
	ActMakeIronPickaxe
	ActMakeWoodSword
	ActMakeStoneSword
	ActMakeIronSword

	ActionCount
)

var actionNames = [ActionCount]string{
	"noop",
	"move_left",
	"move_right",
	"move_up",
	"move_down",
	"do",
	"sleep",
	"place_stone",
	"place_table",
	"place_furnace",
	"place_plant",
	"make_wood_pickaxe",
	"make_stone_pickaxe",
	"make_iron_pickaxe",
	"make_wood_sword",
	"make_stone_sword",
	"make_iron_sword",
}

func (a Action) String() string {
	if a < ActionCount {
		return actionNames[a]
	}
	return "invalid"
}

// Valid reports whether the action is a defined command.
func (a Action) Valid() bool {
	return a < ActionCount
}

// ParseAction resolves an action name to its index.
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return ActNoop, false
}

// ActionNames lists all actions in index order.
func ActionNames() []string {
	return append([]string(nil), actionNames[:]...)
}

// moveDelta returns the movement vector for a movement action.
func (a Action) moveDelta() (world.Point, bool) {
	switch a {
	case ActMoveLeft:
		return world.Point{X: -1}, true
	case ActMoveRight:
		return world.Point{X: 1}, true
	case ActMoveUp:
		return world.Point{Y: -1}, true
	case ActMoveDown:
		return world.Point{Y: 1}, true
	}
	return world.Point{}, false
}

// recipeID maps a crafting action to its recipe catalog id; empty for
// non-crafting actions. Recipe ids equal action names by convention.
func (a Action) recipeID() string {
	if a >= ActMakeWoodPickaxe && a <= ActMakeIronSword {
		return actionNames[a]
	}
	return ""
}

// placementID maps a placement action to its placement catalog id.
func (a Action) placementID() string {
	if a >= ActPlaceStone && a <= ActPlacePlant {
		return actionNames[a]
	}
	return ""
}
