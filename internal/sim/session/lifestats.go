package session

import "craftgrid.ai/internal/sim/world"

// Vital counter thresholds. Counters accumulate fractional pressure each
// tick and convert to whole inventory points when they cross a threshold.
const (
	fatigueDrainAt = 30
	fatigueRestAt  = -10
	regenHealAt    = 25
	regenStarveAt  = -15
)

// applyLifeStats advances hunger, thirst, fatigue and health regeneration
// by one tick. Sleeping halves metabolic pressure and accelerates healing;
// standing in sun-baked desert accelerates thirst. A player whose energy
// refills while asleep wakes up on their own.
func (s *Session) applyLifeStats() {
	t := s.cfg.Tuning
	p := s.player()

	rate := 1.0
	if p.Sleeping {
		rate = 0.5
	}

	if t.HungerEnabled {
		s.counters.Hunger += rate
		if s.counters.Hunger >= float64(t.HungerRate) {
			s.counters.Hunger = 0
			s.inv.Add("food", -1)
		}
	}

	if t.ThirstEnabled {
		s.counters.Thirst += rate
		if s.grid.At(p.Pos) == world.Sand && s.daylight > 0.7 {
			s.counters.Thirst += 0.5
		}
		if s.counters.Thirst >= float64(t.ThirstRate) {
			s.counters.Thirst = 0
			s.inv.Add("drink", -1)
		}
	}

	if t.FatigueEnabled {
		rested := false
		if p.Sleeping {
			s.counters.Fatigue--
		} else {
			s.counters.Fatigue++
		}
		if s.counters.Fatigue > fatigueDrainAt {
			s.counters.Fatigue = 0
			s.inv.Add("energy", -1)
		}
		if s.counters.Fatigue < fatigueRestAt {
			s.counters.Fatigue = 0
			s.inv.Add("energy", 1)
			rested = true
		}
		// Auto-wake at full energy; the achievement requires the sleep to
		// have restored something, so dozing at full energy earns nothing.
		if p.Sleeping && s.inv.Energy >= world.StackCap {
			p.Sleeping = false
			if rested {
				s.ach.Inc("wake_up")
			}
		}
	}

	if s.inv.Food > 0 && s.inv.Drink > 0 && s.inv.Energy > 0 {
		if p.Sleeping {
			s.counters.Regen += 2
		} else {
			s.counters.Regen++
		}
	} else {
		for _, v := range []int{s.inv.Food, s.inv.Drink, s.inv.Energy} {
			if v <= 0 {
				s.counters.Regen -= 0.5
			}
		}
	}
	if s.counters.Regen > regenHealAt {
		s.counters.Regen = 0
		s.inv.Add("health", 1)
	}
	if s.counters.Regen < regenStarveAt {
		s.counters.Regen = 0
		s.damagePlayer(1, "starvation")
	}
}
