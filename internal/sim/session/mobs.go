package session

import "craftgrid.ai/internal/sim/world"

// Mob behavior radii, in Manhattan distance.
const (
	zombieChaseRadius   = 8
	skeletonFleeRadius  = 3
	skeletonShootRadius = 5
	skeletonChaseRadius = 8
	despawnRadius       = 30
	spawnRingMin        = 15
	spawnRingMax        = 25
	cowRingMin          = 10
)

// stepMobs advances every cow, zombie and skeleton in ascending id order so
// tick outcomes never depend on map iteration.
func (s *Session) stepMobs() {
	for _, id := range s.ents.IDs(world.KindCow, world.KindZombie, world.KindSkeleton) {
		e := s.ents.Get(id)
		if e == nil {
			continue
		}
		switch e.Kind {
		case world.KindCow:
			s.stepCow(e)
		case world.KindZombie:
			s.stepZombie(e)
		case world.KindSkeleton:
			s.stepSkeleton(e)
		}
	}
}

func (s *Session) stepCow(e *world.Entity) {
	if s.stream.Chance(0.5) {
		s.wander(e)
	}
}

// stepZombie chases the player within its radius and bites when adjacent,
// with a fixed cooldown between bites. Sleeping players take a much harder
// hit.
func (s *Session) stepZombie(e *world.Entity) {
	p := s.player()
	dist := e.Pos.Dist(p.Pos)

	if dist == 1 {
		if e.Cooldown > 0 {
			e.Cooldown--
			return
		}
		dmg := zombieAttackDamage
		if p.Sleeping {
			dmg = zombieSleepingDamage
		}
		s.damagePlayer(scaleDamage(dmg, s.cfg.Tuning.ZombieDamageMult), "zombie")
		e.Cooldown = zombieAttackCooldown
		return
	}

	if dist <= zombieChaseRadius && s.stream.Chance(0.9) {
		s.moveToward(e, p.Pos)
		return
	}
	if s.stream.Chance(0.2) {
		s.wander(e)
	}
}

// stepSkeleton keeps its distance: it backs off when the player closes in,
// shoots when aligned at range, and otherwise drifts toward the player.
func (s *Session) stepSkeleton(e *world.Entity) {
	p := s.player()
	dist := e.Pos.Dist(p.Pos)

	if e.Reload > 0 {
		e.Reload--
	}

	switch {
	case dist <= skeletonFleeRadius:
		if s.stream.Chance(0.6) {
			s.moveAway(e, p.Pos)
		}
	case dist <= skeletonShootRadius && e.Reload == 0 && s.stream.Chance(0.5):
		if dir, ok := lineOfFire(e.Pos, p.Pos); ok {
			s.ents.Add(&world.Entity{Kind: world.KindArrow, Pos: e.Pos, Dir: dir})
			e.Reload = skeletonReloadTicks
		}
	case dist <= skeletonChaseRadius:
		if s.stream.Chance(0.3) {
			s.moveToward(e, p.Pos)
		}
	default:
		if s.stream.Chance(0.2) {
			s.wander(e)
		}
	}
}

// lineOfFire returns the firing direction when the shooter shares a row or
// column with the target.
func lineOfFire(from, to world.Point) (world.Point, bool) {
	switch {
	case from.X == to.X && to.Y < from.Y:
		return world.Point{Y: -1}, true
	case from.X == to.X && to.Y > from.Y:
		return world.Point{Y: 1}, true
	case from.Y == to.Y && to.X < from.X:
		return world.Point{X: -1}, true
	case from.Y == to.Y && to.X > from.X:
		return world.Point{X: 1}, true
	}
	return world.Point{}, false
}

// moveToward steps one tile toward the target, preferring the longer axis
// most of the time so chases look committed but not perfectly greedy.
func (s *Session) moveToward(e *world.Entity, target world.Point) {
	dx, dy := target.X-e.Pos.X, target.Y-e.Pos.Y
	horiz := world.Point{X: sign(dx)}
	vert := world.Point{Y: sign(dy)}

	first, second := horiz, vert
	if abs(dy) > abs(dx) {
		first, second = vert, first
	}
	if !s.stream.Chance(0.8) {
		first, second = second, first
	}
	if s.tryMobMove(e, first) {
		return
	}
	s.tryMobMove(e, second)
}

func (s *Session) moveAway(e *world.Entity, threat world.Point) {
	dx, dy := e.Pos.X-threat.X, e.Pos.Y-threat.Y
	if abs(dx) >= abs(dy) {
		if s.tryMobMove(e, world.Point{X: sign(dx)}) {
			return
		}
		s.tryMobMove(e, world.Point{Y: sign(dy)})
		return
	}
	if s.tryMobMove(e, world.Point{Y: sign(dy)}) {
		return
	}
	s.tryMobMove(e, world.Point{X: sign(dx)})
}

func (s *Session) wander(e *world.Entity) {
	s.tryMobMove(e, world.Directions[s.stream.Intn(4)])
}

// tryMobMove steps the mob by d if the target tile is walkable, safe, and
// unoccupied. Mobs never walk into the player's tile.
func (s *Session) tryMobMove(e *world.Entity, d world.Point) bool {
	if d == (world.Point{}) {
		return false
	}
	target := e.Pos.Add(d)
	m := s.grid.At(target)
	if !s.rules.Walkable(m) || s.rules.Deadly(m) || s.ents.At(target) != nil {
		return false
	}
	s.ents.Move(e.ID, target)
	return true
}

// stepArrows advances every arrow one tile. Arrows hit the first entity on
// their path, fly over water and lava, smash crafting stations back to
// path, and stop on any other solid tile.
func (s *Session) stepArrows() {
	for _, id := range s.ents.IDs(world.KindArrow) {
		e := s.ents.Get(id)
		if e == nil {
			continue
		}
		next := e.Pos.Add(e.Dir)
		if !s.grid.InBounds(next) {
			s.ents.Remove(id)
			continue
		}

		if p := s.player(); p.Pos == next {
			s.damagePlayer(scaleDamage(arrowDamage, s.cfg.Tuning.ArrowDamageMult), "arrow")
			s.ents.Remove(id)
			continue
		}
		if hit := s.ents.At(next); hit != nil {
			s.damageMob(hit, arrowDamage, false)
			s.ents.Remove(id)
			continue
		}

		m := s.grid.At(next)
		switch {
		case s.rules.Walkable(m) || m == world.Water || m == world.Lava:
			s.ents.Move(id, next)
		case m == world.Table || m == world.Furnace:
			s.grid.Set(next, world.Path)
			s.ents.Remove(id)
		default:
			s.ents.Remove(id)
		}
	}
}

// stepPlants grows every sapling one tick. Cows graze them and hostiles
// trample them; a plant taking damage does not grow that tick.
func (s *Session) stepPlants() {
	for _, id := range s.ents.IDs(world.KindPlant) {
		e := s.ents.Get(id)
		if e == nil {
			continue
		}
		damaged := false
		for _, d := range world.Directions {
			n := s.ents.At(e.Pos.Add(d))
			if n != nil && (n.Kind == world.KindCow || n.Kind == world.KindZombie || n.Kind == world.KindSkeleton) {
				e.Health--
				damaged = true
				break
			}
		}
		if e.Health <= 0 {
			s.ents.Remove(id)
			continue
		}
		if !damaged {
			e.Growth++
		}
	}
}

// stepSpawner runs the dynamic population control after the clock advance:
// zombies appear at night in a ring around the player, cows trickle in at
// any hour, and mobs that drift far away roll to despawn.
func (s *Session) stepSpawner() {
	t := s.cfg.Tuning

	if s.isNight() && s.ents.Count(world.KindZombie) < maxZombies && s.stream.Chance(t.ZombieSpawnRate*0.01) {
		if p, ok := s.spawnPoint(spawnRingMin, spawnRingMax); ok {
			s.ents.Add(&world.Entity{Kind: world.KindZombie, Pos: p, Health: t.ZombieHealth})
		}
	}
	if s.ents.Count(world.KindCow) < maxCows && s.stream.Chance(t.CowSpawnRate*0.1) {
		if p, ok := s.spawnPoint(cowRingMin, spawnRingMax); ok && s.grid.At(p) == world.Grass {
			s.ents.Add(&world.Entity{Kind: world.KindCow, Pos: p, Health: t.CowHealth})
		}
	}

	player := s.player()
	for _, id := range s.ents.IDs(world.KindZombie, world.KindCow) {
		e := s.ents.Get(id)
		if e == nil || e.Pos.Dist(player.Pos) <= despawnRadius {
			continue
		}
		rate := t.ZombieDespawnRate
		if e.Kind == world.KindCow {
			rate = t.CowDespawnRate
		}
		if s.stream.Chance(rate) {
			s.ents.Remove(id)
		}
	}
}

// spawnPoint draws one candidate tile in the distance ring around the
// player. A miss this tick is fine; the spawner retries every tick.
func (s *Session) spawnPoint(minDist, maxDist int) (world.Point, bool) {
	p := s.player().Pos
	dx := s.stream.Intn(2*maxDist+1) - maxDist
	dy := s.stream.Intn(2*maxDist+1) - maxDist
	c := p.Add(world.Point{X: dx, Y: dy})
	dist := c.Dist(p)
	if dist < minDist || dist > maxDist || !s.grid.InBounds(c) {
		return world.Point{}, false
	}
	m := s.grid.At(c)
	if !s.rules.Walkable(m) || s.rules.Deadly(m) || s.ents.At(c) != nil {
		return world.Point{}, false
	}
	return c, true
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
