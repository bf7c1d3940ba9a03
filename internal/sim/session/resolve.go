package session

import "craftgrid.ai/internal/sim/world"

// applyPlayerAction resolves the player's command for this tick. Any action
// other than noop and sleep wakes a sleeping player and still takes effect
// the same tick.
func (s *Session) applyPlayerAction(a Action) {
	p := s.player()

	if p.Sleeping && a != ActNoop && a != ActSleep {
		p.Sleeping = false
	}

	switch {
	case a == ActNoop:
		return

	case a == ActSleep:
		p.Sleeping = true

	case a == ActDo:
		s.resolveDo(p)

	default:
		if d, ok := a.moveDelta(); ok {
			s.resolveMove(p, d)
			return
		}
		if id := a.placementID(); id != "" {
			s.resolvePlace(p, id)
			return
		}
		if id := a.recipeID(); id != "" {
			s.resolveCraft(id)
			return
		}
	}
}

// resolveMove turns the player toward d, then steps if the target tile is
// walkable and unoccupied. A blocked move still changes facing. Stepping
// onto a deadly tile kills outright.
func (s *Session) resolveMove(p *world.Entity, d world.Point) {
	p.Facing = d
	target := p.Pos.Add(d)
	m := s.grid.At(target)
	if !s.rules.Walkable(m) || s.ents.At(target) != nil {
		return
	}
	s.ents.Move(p.ID, target)
	if s.rules.Deadly(m) {
		s.damagePlayer(s.inv.Health, m.String())
	}
}

// resolveDo interacts with the faced tile: attack the occupying entity if
// there is one, otherwise harvest the material.
func (s *Session) resolveDo(p *world.Entity) {
	target := p.Pos.Add(p.Facing)
	if e := s.ents.At(target); e != nil {
		s.interactEntity(e)
		return
	}
	s.harvest(target)
}

func (s *Session) interactEntity(e *world.Entity) {
	switch e.Kind {
	case world.KindCow, world.KindZombie, world.KindSkeleton:
		dmg := scaleDamage(s.inv.MeleeDamage(), s.cfg.Tuning.PlayerDamageMult)
		s.damageMob(e, dmg, true)
	case world.KindPlant:
		if e.Growth < plantRipeTicks {
			return
		}
		s.inv.Add("food", plantFoodYield)
		s.counters.Hunger = 0
		s.ach.Inc("eat_plant")
		e.Growth = 0
	}
}

// harvest applies the faced material's harvest rule: tool gate, then an
// optional chance roll, then yield and tile replacement. Drinking water is
// the one rule with a side effect beyond the inventory.
func (s *Session) harvest(target world.Point) {
	m := s.grid.At(target)
	rule := s.rules.Harvest(m)
	if rule == nil {
		return
	}
	if rule.ToolTier > 0 && s.inv.PickaxeTier() < rule.ToolTier {
		return
	}
	if rule.Chance > 0 && rule.Chance < 1 && !s.stream.Chance(rule.Chance) {
		return
	}

	s.inv.Add(rule.Item, rule.Count)
	if rule.Item == "drink" {
		s.counters.Thirst = 0
	}
	s.ach.Inc("collect_" + rule.Item)
	if rule.Leaves != m {
		s.grid.Set(target, rule.Leaves)
	}
}

// resolvePlace builds on the faced tile. Placements require a grass target
// with no occupying entity; the plant placement spawns an entity instead of
// rewriting the tile.
func (s *Session) resolvePlace(p *world.Entity, placementID string) {
	def, ok := s.cats.Recipes.Placements[placementID]
	if !ok {
		return
	}
	target := p.Pos.Add(p.Facing)
	if !s.grid.InBounds(target) || s.grid.At(target) != world.Grass || s.ents.At(target) != nil {
		return
	}
	if !s.inv.Spend(def.Inputs) {
		return
	}
	if def.Material == "" {
		s.ents.Add(&world.Entity{Kind: world.KindPlant, Pos: target, Health: 1})
	} else {
		s.grid.Set(target, world.Material(s.cats.Materials.Index[def.Material]))
	}
	s.ach.Inc(placementID)
}

// resolveCraft runs a recipe if every required station is on or adjacent to
// the player's tile. Inputs are spent atomically; the output lands in the
// inventory subject to the stack cap.
func (s *Session) resolveCraft(recipeID string) {
	def, ok := s.cats.Recipes.ByID[recipeID]
	if !ok {
		return
	}
	p := s.player()
	for _, station := range def.Stations {
		m := world.Material(s.cats.Materials.Index[station])
		if !s.grid.HasAdjacent(p.Pos, m) {
			return
		}
	}
	if !s.inv.Spend(def.Inputs) {
		return
	}
	s.inv.Add(def.Output, 1)
	s.ach.Inc(recipeID)
}

func scaleDamage(base int, mult float64) int {
	if mult == 1 || mult == 0 {
		return base
	}
	n := int(float64(base) * mult)
	if n < 1 {
		n = 1
	}
	return n
}
