// Package worldgen produces the initial tile grid and mob seeding from a
// seed value. Terrain comes from layered opensimplex fields thresholded
// into biomes; discrete placements (ore, trees, mobs) come from a stable
// per-tile coordinate hash so generation is seam-safe and fully
// reproducible. Exact terrain shape is non-normative; the guarantees are
// determinism and a safe player spawn.
package worldgen

import (
	"errors"
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"craftgrid.ai/internal/sim/rng"
	"craftgrid.ai/internal/sim/world"
)

// ErrGeneration is returned when no safe spawn tile exists after the
// bounded retry budget. Fatal at session creation.
var ErrGeneration = errors.New("worldgen: no safe spawn tile")

// Base placement probabilities, scaled by the density knobs.
const (
	baseTreeProb     = 0.2
	baseCoalProb     = 0.15
	baseIronProb     = 0.25
	baseDiamondProb  = 0.006
	baseCowProb      = 0.015
	baseZombieProb   = 0.007
	baseSkeletonProb = 0.05
)

// Per-field hash labels; keep stable so snapshots of a seed stay valid.
const (
	hashTerrain = 0x7465
	hashMobs    = 0x6d6f
)

// Config selects the world to generate.
type Config struct {
	Seed   uint64
	Width  int
	Height int

	TreeDensity     float64
	CoalDensity     float64
	IronDensity     float64
	DiamondDensity  float64
	CowDensity      float64
	ZombieDensity   float64
	SkeletonDensity float64

	// MaxAttempts bounds spawn-safety retries with derived seeds.
	// Zero means DefaultMaxAttempts.
	MaxAttempts int
}

const DefaultMaxAttempts = 10

// Mob is an initial mob placement.
type Mob struct {
	Kind world.Kind
	Pos  world.Point
}

// Result is a generated world: the grid, the safe player spawn, the initial
// mob seeding, and the seed that actually produced it (differs from
// Config.Seed only when spawn-safety retries kicked in).
type Result struct {
	Grid  *world.Grid
	Spawn world.Point
	Mobs  []Mob
	Seed  uint64
}

// Generate builds a world for the config. Deterministic: equal config and
// seed always yield an identical result.
func Generate(cfg Config, rules *world.Rules) (*Result, error) {
	if cfg.Width < 8 || cfg.Height < 8 {
		return nil, fmt.Errorf("worldgen: world size %dx%d too small (minimum 8x8)", cfg.Width, cfg.Height)
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	seed := cfg.Seed
	for i := 0; i < attempts; i++ {
		res := generateOnce(cfg, rules, seed)
		if res != nil {
			return res, nil
		}
		seed = rng.Derive(cfg.Seed, uint64(i+1))
	}
	return nil, fmt.Errorf("%w after %d attempts (seed %d)", ErrGeneration, attempts, cfg.Seed)
}

func generateOnce(cfg Config, rules *world.Rules, seed uint64) *Result {
	g := world.NewGrid(cfg.Width, cfg.Height)
	center := world.Point{X: cfg.Width / 2, Y: cfg.Height / 2}

	mountainN := opensimplex.NewNormalized(int64(seed))
	waterN := opensimplex.NewNormalized(int64(seed) + 1)
	forestN := opensimplex.NewNormalized(int64(seed) + 2)
	caveN := opensimplex.NewNormalized(int64(seed) + 3)
	lavaN := opensimplex.NewNormalized(int64(seed) + 4)
	sandN := opensimplex.NewNormalized(int64(seed) + 5)

	tunnels := make([]bool, cfg.Width*cfg.Height)

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			p := world.Point{X: x, Y: y}
			fx, fy := float64(x), float64(y)

			// Spawn basin: a sigmoid bump around the center keeps the
			// starting area open grassland.
			dx, dy := fx-float64(center.X), fy-float64(center.Y)
			start := 4 - math.Sqrt(dx*dx+dy*dy)
			start += 4 * (octaveNoise(mountainN, fx, fy, 2, 0.12, 0.5) - 0.5)
			start = 1 / (1 + math.Exp(-start))

			water := octaveNoise(waterN, fx, fy, 3, 0.04, 0.5) - 0.35*start
			mountain := octaveNoise(mountainN, fx, fy, 2, 0.06, 0.5) - 0.55*start - 0.15*water

			u := tileUniform(seed, hashTerrain, x, y)

			switch {
			case start > 0.5:
				g.Set(p, world.Grass)

			case mountain > 0.58:
				// Precedence: caves and tunnels carve first, then rare
				// ores, then lava, then plain stone.
				cave := octaveNoise(caveN, fx, fy, 2, 0.09, 0.5)
				tunnelH := octaveNoise(caveN, 2*fx, fy/4, 1, 0.08, 0.5)
				tunnelV := octaveNoise(caveN, fx/4, 2*fy, 1, 0.08, 0.5)
				switch {
				case mountain > 0.65 && cave > 0.68:
					g.Set(p, world.Path)
				case tunnelH > 0.8 || tunnelV > 0.8:
					g.Set(p, world.Path)
					tunnels[y*cfg.Width+x] = true
				case u < baseCoalProb*cfg.CoalDensity:
					g.Set(p, world.Coal)
				case cave > 0.45 && u < baseCoalProb+baseIronProb*cfg.IronDensity:
					g.Set(p, world.Iron)
				case mountain > 0.66 && u > 1-baseDiamondProb*cfg.DiamondDensity:
					g.Set(p, world.Diamond)
				case mountain > 0.7 && octaveNoise(lavaN, fx, fy, 2, 0.07, 0.5) > 0.72:
					g.Set(p, world.Lava)
				default:
					g.Set(p, world.Stone)
				}

			case water > 0.62:
				g.Set(p, world.Water)
			case water > 0.56:
				g.Set(p, world.Sand)
			case octaveNoise(sandN, fx, fy, 2, 0.05, 0.5) > 0.78:
				// Inland desert patches.
				g.Set(p, world.Sand)

			default:
				if octaveNoise(forestN, fx, fy, 2, 0.08, 0.5) > 0.5 && u < baseTreeProb*cfg.TreeDensity {
					g.Set(p, world.Tree)
				} else {
					g.Set(p, world.Grass)
				}
			}
		}
	}

	spawn, ok := FindSpawn(g, rules, center, 12)
	if !ok {
		return nil
	}

	var mobs []Mob
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			p := world.Point{X: x, Y: y}
			if p == spawn || !rules.Walkable(g.At(p)) || rules.Deadly(g.At(p)) {
				continue
			}
			dist := p.Dist(spawn)
			u := tileUniform(seed, hashMobs, x, y)
			switch {
			case g.At(p) == world.Grass && dist > 3 && u < baseCowProb*cfg.CowDensity:
				mobs = append(mobs, Mob{Kind: world.KindCow, Pos: p})
			case dist > 10 && u < baseCowProb+baseZombieProb*cfg.ZombieDensity:
				mobs = append(mobs, Mob{Kind: world.KindZombie, Pos: p})
			case g.At(p) == world.Path && tunnels[y*cfg.Width+x] && u < baseSkeletonProb*cfg.SkeletonDensity:
				mobs = append(mobs, Mob{Kind: world.KindSkeleton, Pos: p})
			}
		}
	}

	return &Result{Grid: g, Spawn: spawn, Mobs: mobs, Seed: seed}
}

// FindSpawn searches outward from center for a walkable, non-deadly tile.
// Scans ring by ring so the spawn lands as close to the center as possible.
func FindSpawn(g *world.Grid, rules *world.Rules, center world.Point, maxRadius int) (world.Point, bool) {
	for r := 0; r <= maxRadius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if absInt(dx) != r && absInt(dy) != r {
					continue
				}
				p := center.Add(world.Point{X: dx, Y: dy})
				if !g.InBounds(p) {
					continue
				}
				m := g.At(p)
				if rules.Walkable(m) && !rules.Deadly(m) {
					return p, true
				}
			}
		}
	}
	return world.Point{}, false
}

// octaveNoise sums octaves of simplex noise, normalized back to [0, 1].
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	var total, amplitude, maxValue float64
	amplitude = 1
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		freq *= 2
	}
	return total / maxValue
}

// tileUniform is a stable uniform draw in [0, 1) for one tile of one field.
func tileUniform(seed, label uint64, x, y int) float64 {
	return float64(rng.Hash2(seed^label, x, y)>>11) / float64(uint64(1)<<53)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
