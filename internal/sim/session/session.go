// Package session implements the simulation kernel: one Session owns a
// generated world, the entity registry, the player inventory, and the seeded
// random stream, and advances them one action per Step call. Resolution
// order within a tick is fixed (player, mobs by ascending id, arrows,
// plants, vitals, rewards, clock and spawning, termination) so identical
// seed and action sequences always produce identical states.
package session

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"craftgrid.ai/internal/sim/catalogs"
	"craftgrid.ai/internal/sim/rng"
	"craftgrid.ai/internal/sim/tuning"
	"craftgrid.ai/internal/sim/world"
	"craftgrid.ai/internal/sim/worldgen"
)

const (
	DefaultWorldSize = 64

	// Caps for the dynamic spawner; despawn rolls keep populations near
	// these only on pathological maps.
	maxZombies = 32
	maxCows    = 32

	zombieAttackDamage   = 2
	zombieSleepingDamage = 7
	zombieAttackCooldown = 5
	arrowDamage          = 2
	skeletonReloadTicks  = 4
	cowFoodYield         = 6
	plantRipeTicks       = 300
	plantFoodYield       = 4
)

// Config selects the episode to create.
type Config struct {
	Seed   uint64
	Width  int
	Height int

	Tuning tuning.Tuning

	// MaxGenAttempts bounds worldgen retries; zero uses the worldgen
	// default.
	MaxGenAttempts int
}

// LifeCounters accumulate fractional vital pressure between whole-point
// inventory changes. Part of the exported state so snapshots resume
// mid-cycle without vital drift.
type LifeCounters struct {
	Hunger  float64 `json:"hunger"`
	Thirst  float64 `json:"thirst"`
	Fatigue float64 `json:"fatigue"`
	Regen   float64 `json:"regen"`
}

// Session is a single episode of the simulation. Not safe for concurrent
// use; callers serialize access.
type Session struct {
	cfg   Config
	cats  *catalogs.Catalogs
	rules *world.Rules

	EpisodeID string

	grid   *world.Grid
	ents   *world.Registry
	inv    world.Inventory
	ach    world.Achievements
	stream *rng.Stream

	tick       int
	daylight   float64
	counters   LifeCounters
	lastDamage string

	worldSeed  uint64
	done       bool
	doneReason string
}

// New generates a world for the config and places the player on its safe
// spawn tile. Fails if the catalog data is inconsistent or no safe spawn
// exists within the retry budget.
func New(cfg Config, cats *catalogs.Catalogs) (*Session, error) {
	if cfg.Width == 0 {
		cfg.Width = DefaultWorldSize
	}
	if cfg.Height == 0 {
		cfg.Height = DefaultWorldSize
	}
	rules, err := world.CompileRules(cats)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s := &Session{
		cfg:       cfg,
		cats:      cats,
		rules:     rules,
		EpisodeID: uuid.NewString(),
	}
	if err := s.generate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) generate() error {
	t := s.cfg.Tuning
	res, err := worldgen.Generate(worldgen.Config{
		Seed:            s.cfg.Seed,
		Width:           s.cfg.Width,
		Height:          s.cfg.Height,
		TreeDensity:     t.TreeDensity,
		CoalDensity:     t.CoalDensity,
		IronDensity:     t.IronDensity,
		DiamondDensity:  t.DiamondDensity,
		CowDensity:      t.CowDensity,
		ZombieDensity:   t.ZombieDensity,
		SkeletonDensity: t.SkeletonDensity,
		MaxAttempts:     s.cfg.MaxGenAttempts,
	}, s.rules)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	s.grid = res.Grid
	s.worldSeed = res.Seed
	s.ents = world.NewRegistry()
	s.ents.Add(&world.Entity{Kind: world.KindPlayer, Pos: res.Spawn, Facing: world.Point{Y: 1}})
	for _, m := range res.Mobs {
		s.ents.Add(&world.Entity{Kind: m.Kind, Pos: m.Pos, Health: s.mobHealth(m.Kind)})
	}

	s.inv = world.NewInventory()
	for item, n := range t.StarterItems {
		s.inv.Add(item, n)
	}
	s.ach = make(world.Achievements)
	s.stream = rng.New(rng.Derive(res.Seed, 0x5e55))
	s.tick = 0
	s.counters = LifeCounters{}
	s.lastDamage = ""
	s.done = false
	s.doneReason = ""
	s.updateDaylight()
	return nil
}

// Reset rewinds the session to tick zero of a fresh episode with a new
// seed derived from the old one.
func (s *Session) Reset(seed uint64) error {
	s.cfg.Seed = seed
	s.EpisodeID = uuid.NewString()
	return s.generate()
}

func (s *Session) mobHealth(k world.Kind) int {
	switch k {
	case world.KindCow:
		return s.cfg.Tuning.CowHealth
	case world.KindZombie:
		return s.cfg.Tuning.ZombieHealth
	case world.KindSkeleton:
		return s.cfg.Tuning.SkeletonHealth
	}
	return 1
}

func (s *Session) player() *world.Entity {
	return s.ents.Player()
}

// Tick returns the number of completed steps this episode.
func (s *Session) Tick() int { return s.tick }

// Daylight returns the current light level in [0, 1].
func (s *Session) Daylight() float64 { return s.daylight }

// Seed returns the seed that actually generated the world.
func (s *Session) Seed() uint64 { return s.worldSeed }

// IsDone reports whether the episode has terminated.
func (s *Session) IsDone() bool { return s.done }

// DoneReason is empty until the episode terminates.
func (s *Session) DoneReason() string { return s.doneReason }

// Outcome is the per-step result handed back to the driver.
type Outcome struct {
	Tick       int      `json:"tick"`
	Reward     float64  `json:"reward"`
	Done       bool     `json:"done"`
	DoneReason string   `json:"done_reason,omitempty"`
	Unlocked   []string `json:"unlocked,omitempty"`
}

// Step advances the episode by one tick. Once the episode is done every
// further call returns ErrTerminated without touching state.
func (s *Session) Step(a Action) (Outcome, error) {
	if s.done {
		return Outcome{}, ErrTerminated
	}
	if !a.Valid() {
		return Outcome{}, ErrInvalidAction
	}

	prevAch := s.ach.Clone()

	s.applyPlayerAction(a)
	s.stepMobs()
	s.stepArrows()
	s.stepPlants()
	s.applyLifeStats()

	reward, unlocked := s.scoreAchievements(prevAch)

	s.tick++
	s.updateDaylight()
	s.stepSpawner()

	if !s.inv.Alive() {
		s.done = true
		s.doneReason = s.deathReason()
	} else if s.cfg.Tuning.MaxSteps > 0 && s.tick >= s.cfg.Tuning.MaxSteps {
		s.done = true
		s.doneReason = "max_steps"
	}

	return Outcome{
		Tick:       s.tick,
		Reward:     reward,
		Done:       s.done,
		DoneReason: s.doneReason,
		Unlocked:   unlocked,
	}, nil
}

func (s *Session) deathReason() string {
	if s.lastDamage == "" {
		return "death"
	}
	return "death:" + s.lastDamage
}

// scoreAchievements grants one reward point per achievement counter that
// grew this tick and lists counters that went from zero to positive.
func (s *Session) scoreAchievements(prev world.Achievements) (float64, []string) {
	var reward float64
	var unlocked []string
	for _, name := range s.cats.Achievements.Names {
		cur := s.ach[name]
		was := prev[name]
		if cur > was {
			reward++
			if was == 0 {
				unlocked = append(unlocked, name)
			}
		}
	}
	return reward, unlocked
}

// updateDaylight follows a smoothed cosine over the day cycle, phased so
// tick zero is full daylight and the midpoint of the cycle is darkest.
func (s *Session) updateDaylight() {
	if !s.cfg.Tuning.DayNightCycle {
		s.daylight = 1
		return
	}
	phase := float64(s.tick%s.cfg.Tuning.DayTicks) / float64(s.cfg.Tuning.DayTicks)
	s.daylight = 1 - math.Pow(math.Abs(math.Sin(math.Pi*phase)), 3)
}

func (s *Session) isNight() bool {
	return s.daylight < 0.5
}

// damagePlayer applies damage, wakes the player, and records the cause for
// the terminal done reason.
func (s *Session) damagePlayer(n int, cause string) {
	if n <= 0 {
		return
	}
	p := s.player()
	if p.Sleeping {
		p.Sleeping = false
	}
	s.inv.Add("health", -n)
	s.lastDamage = cause
}

// damageMob applies damage to a mob and removes it when dead, crediting
// the matching achievement when the player dealt the blow.
func (s *Session) damageMob(e *world.Entity, n int, byPlayer bool) {
	e.Health -= n
	if e.Health > 0 {
		return
	}
	kind := e.Kind
	s.ents.Remove(e.ID)
	if !byPlayer {
		return
	}
	switch kind {
	case world.KindCow:
		s.inv.Add("food", cowFoodYield)
		s.counters.Hunger = 0
		s.ach.Inc("eat_cow")
	case world.KindZombie:
		s.ach.Inc("defeat_zombie")
	case world.KindSkeleton:
		s.ach.Inc("defeat_skeleton")
	}
}
