package worldgen

import (
	"testing"

	"craftgrid.ai/internal/sim/catalogs"
	"craftgrid.ai/internal/sim/world"
)

func testConfig(seed uint64) Config {
	return Config{
		Seed:            seed,
		Width:           64,
		Height:          64,
		TreeDensity:     1,
		CoalDensity:     1,
		IronDensity:     1,
		DiamondDensity:  1,
		CowDensity:      1,
		ZombieDensity:   1,
		SkeletonDensity: 1,
	}
}

func loadRules(t *testing.T) *world.Rules {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	r, err := world.CompileRules(cats)
	if err != nil {
		t.Fatalf("compile rules: %v", err)
	}
	return r
}

func TestGenerate_Deterministic(t *testing.T) {
	rules := loadRules(t)
	a, err := Generate(testConfig(1337), rules)
	if err != nil {
		t.Fatalf("generate a: %v", err)
	}
	b, err := Generate(testConfig(1337), rules)
	if err != nil {
		t.Fatalf("generate b: %v", err)
	}

	if a.Seed != b.Seed || a.Spawn != b.Spawn {
		t.Fatalf("spawn/seed mismatch: %+v vs %+v", a, b)
	}
	for i := range a.Grid.Cells {
		if a.Grid.Cells[i] != b.Grid.Cells[i] {
			t.Fatalf("tile %d differs", i)
		}
	}
	if len(a.Mobs) != len(b.Mobs) {
		t.Fatalf("mob count differs: %d vs %d", len(a.Mobs), len(b.Mobs))
	}
	for i := range a.Mobs {
		if a.Mobs[i] != b.Mobs[i] {
			t.Fatalf("mob %d differs", i)
		}
	}
}

func TestGenerate_SeedsDiffer(t *testing.T) {
	rules := loadRules(t)
	a, err := Generate(testConfig(1), rules)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := Generate(testConfig(2), rules)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	same := 0
	for i := range a.Grid.Cells {
		if a.Grid.Cells[i] == b.Grid.Cells[i] {
			same++
		}
	}
	if same == len(a.Grid.Cells) {
		t.Fatal("different seeds produced identical worlds")
	}
}

func TestGenerate_SpawnSafe(t *testing.T) {
	rules := loadRules(t)
	for seed := uint64(0); seed < 20; seed++ {
		res, err := Generate(testConfig(seed), rules)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		m := res.Grid.At(res.Spawn)
		if !rules.Walkable(m) || rules.Deadly(m) {
			t.Fatalf("seed %d: spawn on %v", seed, m)
		}
		for _, mob := range res.Mobs {
			if mob.Pos == res.Spawn {
				t.Fatalf("seed %d: mob on spawn tile", seed)
			}
		}
	}
}

func TestGenerate_RejectsTinyWorld(t *testing.T) {
	rules := loadRules(t)
	cfg := testConfig(1)
	cfg.Width, cfg.Height = 4, 4
	if _, err := Generate(cfg, rules); err == nil {
		t.Fatal("4x4 world accepted")
	}
}

func TestFindSpawn_AllWaterFails(t *testing.T) {
	rules := loadRules(t)
	g := world.NewGrid(16, 16) // zero value is water everywhere
	if _, ok := FindSpawn(g, rules, world.Point{X: 8, Y: 8}, 8); ok {
		t.Fatal("found a spawn in open water")
	}

	g.Set(world.Point{X: 3, Y: 8}, world.Grass)
	p, ok := FindSpawn(g, rules, world.Point{X: 8, Y: 8}, 8)
	if !ok {
		t.Fatal("missed the only grass tile")
	}
	if p != (world.Point{X: 3, Y: 8}) {
		t.Fatalf("spawn at %v, want the grass tile", p)
	}
}

func TestFindSpawn_PrefersCenter(t *testing.T) {
	rules := loadRules(t)
	g := world.NewGrid(16, 16)
	center := world.Point{X: 8, Y: 8}
	g.Set(center, world.Grass)
	g.Set(world.Point{X: 2, Y: 2}, world.Grass)
	p, ok := FindSpawn(g, rules, center, 8)
	if !ok || p != center {
		t.Fatalf("spawn at %v, want center", p)
	}
}
