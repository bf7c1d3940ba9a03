package session

import (
	"testing"

	"craftgrid.ai/internal/sim/catalogs"
	"craftgrid.ai/internal/sim/tuning"
	"craftgrid.ai/internal/sim/world"
)

// Scenario tests restore handcrafted exports: a 9x9 grass clearing with the
// player at the center, then whatever tiles and entities the case needs.
// Dynamic spawning and the day cycle are switched off so only the behavior
// under test moves the state.

const scenarioSide = 9

func testCats(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return cats
}

func scenarioTuning() tuning.Tuning {
	tn := tuning.Defaults()
	tn.DayNightCycle = false
	tn.ZombieSpawnRate = 0
	tn.CowSpawnRate = 0
	tn.ZombieDespawnRate = 0
	tn.CowDespawnRate = 0
	return tn
}

func scenarioExport() Export {
	tiles := make([]uint8, scenarioSide*scenarioSide)
	for i := range tiles {
		tiles[i] = uint8(world.Grass)
	}
	return Export{
		Version:   ExportVersion,
		EpisodeID: "scenario",
		Seed:      1,
		WorldSeed: 1,
		Width:     scenarioSide,
		Height:    scenarioSide,
		RNGState:  42,
		Inventory: world.NewInventory(),
		Tiles:     tiles,
		NextID:    1,
		Ents: []EntityExport{
			{ID: 1, Kind: uint8(world.KindPlayer), Pos: world.Point{X: 4, Y: 4}, Health: 9, Facing: world.Point{Y: 1}},
		},
		Tuning: scenarioTuning(),
	}
}

func setTile(exp *Export, x, y int, m world.Material) {
	exp.Tiles[y*exp.Width+x] = uint8(m)
}

func addEnt(exp *Export, e EntityExport) {
	e.ID = exp.NextID + 1
	exp.NextID = e.ID
	exp.Ents = append(exp.Ents, e)
}

func restore(t *testing.T, exp Export) *Session {
	t.Helper()
	s, err := Restore(exp, testCats(t))
	if err != nil {
		t.Fatalf("restore scenario: %v", err)
	}
	return s
}

func step(t *testing.T, s *Session, a Action) Outcome {
	t.Helper()
	out, err := s.Step(a)
	if err != nil {
		t.Fatalf("step %v: %v", a, err)
	}
	return out
}

func TestMove_TurnsThenSteps(t *testing.T) {
	s := restore(t, scenarioExport())
	p := s.player()

	step(t, s, ActMoveRight)
	if p.Facing != (world.Point{X: 1}) {
		t.Fatalf("facing = %v, want right", p.Facing)
	}
	if p.Pos != (world.Point{X: 5, Y: 4}) {
		t.Fatalf("pos = %v, want (5,4)", p.Pos)
	}
}

func TestMove_BlockedStillTurns(t *testing.T) {
	exp := scenarioExport()
	setTile(&exp, 4, 3, world.Tree)
	s := restore(t, exp)
	p := s.player()

	step(t, s, ActMoveUp)
	if p.Pos != (world.Point{X: 4, Y: 4}) {
		t.Fatalf("walked into a tree: %v", p.Pos)
	}
	if p.Facing != (world.Point{Y: -1}) {
		t.Fatalf("blocked move did not turn: %v", p.Facing)
	}
}

func TestMove_BlockedByEntity(t *testing.T) {
	exp := scenarioExport()
	addEnt(&exp, EntityExport{Kind: uint8(world.KindCow), Pos: world.Point{X: 5, Y: 4}, Health: 3})
	s := restore(t, exp)

	step(t, s, ActMoveRight)
	if s.player().Pos != (world.Point{X: 4, Y: 4}) {
		t.Fatal("walked through a cow")
	}
}

func TestMove_LavaKills(t *testing.T) {
	exp := scenarioExport()
	setTile(&exp, 5, 4, world.Lava)
	s := restore(t, exp)

	out := step(t, s, ActMoveRight)
	if !out.Done || out.DoneReason != "death:lava" {
		t.Fatalf("outcome = %+v, want lava death", out)
	}
	if _, err := s.Step(ActNoop); err != ErrTerminated {
		t.Fatalf("step after death: %v, want ErrTerminated", err)
	}
}

func TestDo_ChopTree(t *testing.T) {
	exp := scenarioExport()
	setTile(&exp, 4, 5, world.Tree) // player faces down
	s := restore(t, exp)

	out := step(t, s, ActDo)
	if s.inv.Wood != 1 {
		t.Fatalf("wood = %d, want 1", s.inv.Wood)
	}
	if s.grid.At(world.Point{X: 4, Y: 5}) != world.Grass {
		t.Fatal("tree did not become grass")
	}
	if !s.ach.Unlocked("collect_wood") {
		t.Fatal("collect_wood not unlocked")
	}
	if out.Reward != 1 || len(out.Unlocked) != 1 || out.Unlocked[0] != "collect_wood" {
		t.Fatalf("outcome = %+v, want first-unlock reward", out)
	}
}

func TestDo_RepeatStillRewards(t *testing.T) {
	exp := scenarioExport()
	setTile(&exp, 4, 5, world.Tree)
	s := restore(t, exp)

	step(t, s, ActDo)
	s.grid.Set(world.Point{X: 4, Y: 5}, world.Tree)
	out := step(t, s, ActDo)
	if out.Reward != 1 {
		t.Fatalf("second chop reward = %v, want 1 (counter grew)", out.Reward)
	}
	if len(out.Unlocked) != 0 {
		t.Fatalf("second chop re-unlocked: %v", out.Unlocked)
	}
}

func TestDo_DrinkWater(t *testing.T) {
	exp := scenarioExport()
	setTile(&exp, 4, 5, world.Water)
	exp.Inventory.Drink = 3
	exp.Counters.Thirst = 15
	s := restore(t, exp)

	step(t, s, ActDo)
	if s.inv.Drink != 4 {
		t.Fatalf("drink = %d, want 4", s.inv.Drink)
	}
	if s.grid.At(world.Point{X: 4, Y: 5}) != world.Water {
		t.Fatal("water tile consumed")
	}
	// Drinking resets thirst pressure; one tick of decay remains.
	if s.counters.Thirst > 1.5 {
		t.Fatalf("thirst counter = %v, want reset", s.counters.Thirst)
	}
	if !s.ach.Unlocked("collect_drink") {
		t.Fatal("collect_drink not unlocked")
	}
}

func TestDo_StoneNeedsPickaxe(t *testing.T) {
	exp := scenarioExport()
	setTile(&exp, 4, 5, world.Stone)
	s := restore(t, exp)

	step(t, s, ActDo)
	if s.inv.Stone != 0 || s.grid.At(world.Point{X: 4, Y: 5}) != world.Stone {
		t.Fatal("mined stone bare-handed")
	}

	s.inv.Add("wood_pickaxe", 1)
	step(t, s, ActDo)
	if s.inv.Stone != 1 {
		t.Fatalf("stone = %d, want 1", s.inv.Stone)
	}
	if s.grid.At(world.Point{X: 4, Y: 5}) != world.Path {
		t.Fatal("stone did not leave path")
	}
}

func TestDo_DiamondNeedsIronPickaxe(t *testing.T) {
	exp := scenarioExport()
	setTile(&exp, 4, 5, world.Diamond)
	exp.Inventory.StonePickaxe = 1
	s := restore(t, exp)

	step(t, s, ActDo)
	if s.inv.Diamond != 0 {
		t.Fatal("mined diamond with stone pickaxe")
	}
	s.inv.Add("iron_pickaxe", 1)
	step(t, s, ActDo)
	if s.inv.Diamond != 1 {
		t.Fatalf("diamond = %d, want 1", s.inv.Diamond)
	}
}

func TestDo_GrassEventuallyYieldsSapling(t *testing.T) {
	s := restore(t, scenarioExport())
	for i := 0; i < 200; i++ {
		step(t, s, ActDo)
		if s.inv.Sapling > 0 {
			if !s.ach.Unlocked("collect_sapling") {
				t.Fatal("sapling collected without achievement")
			}
			return
		}
	}
	t.Fatal("no sapling in 200 tries (chance 0.1 each)")
}

func TestPlace_TableCostsTwoWood(t *testing.T) {
	exp := scenarioExport()
	exp.Inventory.Wood = 1
	s := restore(t, exp)

	step(t, s, ActPlaceTable)
	if s.grid.At(world.Point{X: 4, Y: 5}) != world.Grass || s.inv.Wood != 1 {
		t.Fatal("placed table with one wood")
	}

	s.inv.Add("wood", 1)
	step(t, s, ActPlaceTable)
	if s.grid.At(world.Point{X: 4, Y: 5}) != world.Table {
		t.Fatal("table not placed")
	}
	if s.inv.Wood != 0 {
		t.Fatalf("wood = %d after placing, want 0", s.inv.Wood)
	}
	if !s.ach.Unlocked("place_table") {
		t.Fatal("place_table not unlocked")
	}
}

func TestPlace_RequiresGrassTarget(t *testing.T) {
	exp := scenarioExport()
	setTile(&exp, 4, 5, world.Path)
	exp.Inventory.Stone = 1
	s := restore(t, exp)

	step(t, s, ActPlaceStone)
	if s.grid.At(world.Point{X: 4, Y: 5}) != world.Path || s.inv.Stone != 1 {
		t.Fatal("placed stone on path")
	}
}

func TestPlace_BlockedByEntity(t *testing.T) {
	exp := scenarioExport()
	exp.Inventory.Stone = 1
	addEnt(&exp, EntityExport{Kind: uint8(world.KindCow), Pos: world.Point{X: 4, Y: 5}, Health: 3})
	s := restore(t, exp)

	step(t, s, ActPlaceStone)
	if s.grid.At(world.Point{X: 4, Y: 5}) != world.Grass || s.inv.Stone != 1 {
		t.Fatal("placed stone into a cow")
	}
}

func TestPlace_PlantSpawnsEntity(t *testing.T) {
	exp := scenarioExport()
	exp.Inventory.Sapling = 1
	s := restore(t, exp)

	step(t, s, ActPlacePlant)
	e := s.ents.At(world.Point{X: 4, Y: 5})
	if e == nil || e.Kind != world.KindPlant {
		t.Fatal("no plant entity")
	}
	if s.grid.At(world.Point{X: 4, Y: 5}) != world.Grass {
		t.Fatal("planting rewrote the tile")
	}
	if s.inv.Sapling != 0 {
		t.Fatal("sapling not spent")
	}
	if !s.ach.Unlocked("place_plant") {
		t.Fatal("place_plant not unlocked")
	}
}

func TestCraft_WoodPickaxeNeedsTable(t *testing.T) {
	exp := scenarioExport()
	exp.Inventory.Wood = 1
	s := restore(t, exp)

	step(t, s, ActMakeWoodPickaxe)
	if s.inv.WoodPickaxe != 0 || s.inv.Wood != 1 {
		t.Fatal("crafted without a table")
	}

	s.grid.Set(world.Point{X: 5, Y: 4}, world.Table)
	step(t, s, ActMakeWoodPickaxe)
	if s.inv.WoodPickaxe != 1 || s.inv.Wood != 0 {
		t.Fatalf("craft failed: pickaxe=%d wood=%d", s.inv.WoodPickaxe, s.inv.Wood)
	}
	if !s.ach.Unlocked("make_wood_pickaxe") {
		t.Fatal("make_wood_pickaxe not unlocked")
	}
}

func TestCraft_IronSwordNeedsBothStations(t *testing.T) {
	exp := scenarioExport()
	setTile(&exp, 5, 4, world.Table)
	exp.Inventory.Wood = 1
	exp.Inventory.Coal = 1
	exp.Inventory.Iron = 1
	s := restore(t, exp)

	step(t, s, ActMakeIronSword)
	if s.inv.IronSword != 0 {
		t.Fatal("crafted iron sword without a furnace")
	}

	s.grid.Set(world.Point{X: 3, Y: 4}, world.Furnace)
	step(t, s, ActMakeIronSword)
	if s.inv.IronSword != 1 {
		t.Fatal("craft failed with both stations")
	}
	if s.inv.Wood != 0 || s.inv.Coal != 0 || s.inv.Iron != 0 {
		t.Fatalf("inputs not spent: wood=%d coal=%d iron=%d", s.inv.Wood, s.inv.Coal, s.inv.Iron)
	}
}

func TestCraft_AtomicOnMissingInput(t *testing.T) {
	exp := scenarioExport()
	setTile(&exp, 5, 4, world.Table)
	setTile(&exp, 3, 4, world.Furnace)
	exp.Inventory.Wood = 1
	exp.Inventory.Coal = 1 // no iron
	s := restore(t, exp)

	step(t, s, ActMakeIronPickaxe)
	if s.inv.Wood != 1 || s.inv.Coal != 1 {
		t.Fatal("partial craft consumed inputs")
	}
}

func TestAttack_CowYieldsFood(t *testing.T) {
	exp := scenarioExport()
	// Pen the cow so it cannot wander off.
	setTile(&exp, 5, 5, world.Water)
	setTile(&exp, 3, 5, world.Water)
	setTile(&exp, 4, 6, world.Water)
	addEnt(&exp, EntityExport{Kind: uint8(world.KindCow), Pos: world.Point{X: 4, Y: 5}, Health: 3})
	exp.Inventory.Food = 1
	s := restore(t, exp)

	for i := 0; i < 3; i++ {
		step(t, s, ActDo)
	}
	if s.ents.At(world.Point{X: 4, Y: 5}) != nil {
		t.Fatal("cow survived three bare-handed hits")
	}
	if s.inv.Food < 7 {
		t.Fatalf("food = %d, want at least 7 (+6 from the cow)", s.inv.Food)
	}
	if !s.ach.Unlocked("eat_cow") {
		t.Fatal("eat_cow not unlocked")
	}
}

func TestAttack_SwordSpeedsKill(t *testing.T) {
	exp := scenarioExport()
	setTile(&exp, 5, 5, world.Water)
	setTile(&exp, 3, 5, world.Water)
	setTile(&exp, 4, 6, world.Water)
	addEnt(&exp, EntityExport{Kind: uint8(world.KindZombie), Pos: world.Point{X: 4, Y: 5}, Health: 5})
	exp.Inventory.IronSword = 1
	s := restore(t, exp)

	step(t, s, ActDo) // 5 damage kills outright
	if s.ents.At(world.Point{X: 4, Y: 5}) != nil {
		t.Fatal("zombie survived an iron sword hit")
	}
	if !s.ach.Unlocked("defeat_zombie") {
		t.Fatal("defeat_zombie not unlocked")
	}
}

func TestZombie_BiteAndCooldown(t *testing.T) {
	exp := scenarioExport()
	addEnt(&exp, EntityExport{Kind: uint8(world.KindZombie), Pos: world.Point{X: 4, Y: 5}, Health: 5})
	s := restore(t, exp)

	step(t, s, ActNoop)
	if s.inv.Health != 7 {
		t.Fatalf("health = %d after bite, want 7", s.inv.Health)
	}
	// Cooldown holds the next bites off for five ticks.
	for i := 0; i < 5; i++ {
		step(t, s, ActNoop)
	}
	if s.inv.Health != 7 {
		t.Fatalf("health = %d during cooldown, want 7", s.inv.Health)
	}
	step(t, s, ActNoop)
	if s.inv.Health != 5 {
		t.Fatalf("health = %d after cooldown expired, want 5", s.inv.Health)
	}
}

func TestZombie_SleepingBiteHitsHard(t *testing.T) {
	exp := scenarioExport()
	addEnt(&exp, EntityExport{Kind: uint8(world.KindZombie), Pos: world.Point{X: 4, Y: 5}, Health: 5})
	s := restore(t, exp)

	step(t, s, ActSleep)
	if s.inv.Health != 2 {
		t.Fatalf("health = %d after sleeping bite, want 2", s.inv.Health)
	}
	if s.player().Sleeping {
		t.Fatal("damage did not wake the player")
	}
}

func TestSleep_AutoWakeRefillsEnergy(t *testing.T) {
	exp := scenarioExport()
	exp.Inventory.Energy = 8
	exp.Counters.Fatigue = -10
	s := restore(t, exp)

	step(t, s, ActSleep)
	if s.player().Sleeping {
		t.Fatal("still asleep at full energy")
	}
	if s.inv.Energy != 9 {
		t.Fatalf("energy = %d, want 9", s.inv.Energy)
	}
	if !s.ach.Unlocked("wake_up") {
		t.Fatal("wake_up not unlocked")
	}
}

func TestSleep_ActionWakes(t *testing.T) {
	exp := scenarioExport()
	exp.Inventory.Energy = 5
	s := restore(t, exp)

	step(t, s, ActSleep)
	if !s.player().Sleeping {
		t.Fatal("sleep did not stick")
	}
	step(t, s, ActMoveLeft)
	if s.player().Sleeping {
		t.Fatal("movement did not wake")
	}
	if s.player().Pos != (world.Point{X: 3, Y: 4}) {
		t.Fatal("waking action lost its effect")
	}
}

func TestSleep_FullEnergyAutoWakes(t *testing.T) {
	s := restore(t, scenarioExport())

	out := step(t, s, ActSleep)
	if s.player().Sleeping {
		t.Fatal("stayed asleep at full energy")
	}
	if s.ach.Unlocked("wake_up") {
		t.Fatal("wake_up granted without restoring any energy")
	}
	if out.Reward != 0 {
		t.Fatalf("reward = %v for dozing at full energy, want 0", out.Reward)
	}
}

func TestArrow_FliesAndHitsPlayer(t *testing.T) {
	exp := scenarioExport()
	addEnt(&exp, EntityExport{Kind: uint8(world.KindArrow), Pos: world.Point{X: 1, Y: 4}, Dir: world.Point{X: 1}})
	s := restore(t, exp)

	step(t, s, ActNoop) // arrow to (2,4)
	step(t, s, ActNoop) // arrow to (3,4)
	if s.inv.Health != 9 {
		t.Fatalf("health = %d mid-flight, want 9", s.inv.Health)
	}
	step(t, s, ActNoop) // next tile is the player
	if s.inv.Health != 7 {
		t.Fatalf("health = %d after arrow, want 7", s.inv.Health)
	}
	if len(s.ents.IDs(world.KindArrow)) != 0 {
		t.Fatal("arrow survived the hit")
	}
}

func TestArrow_SmashesTable(t *testing.T) {
	exp := scenarioExport()
	setTile(&exp, 2, 2, world.Table)
	addEnt(&exp, EntityExport{Kind: uint8(world.KindArrow), Pos: world.Point{X: 0, Y: 2}, Dir: world.Point{X: 1}})
	s := restore(t, exp)

	step(t, s, ActNoop) // arrow to (1,2)
	step(t, s, ActNoop) // arrow smashes the table
	if s.grid.At(world.Point{X: 2, Y: 2}) != world.Path {
		t.Fatal("table not smashed to path")
	}
	if len(s.ents.IDs(world.KindArrow)) != 0 {
		t.Fatal("arrow survived the impact")
	}
}

func TestArrow_StopsOnStone(t *testing.T) {
	exp := scenarioExport()
	setTile(&exp, 2, 2, world.Stone)
	addEnt(&exp, EntityExport{Kind: uint8(world.KindArrow), Pos: world.Point{X: 0, Y: 2}, Dir: world.Point{X: 1}})
	s := restore(t, exp)

	step(t, s, ActNoop)
	step(t, s, ActNoop)
	if s.grid.At(world.Point{X: 2, Y: 2}) != world.Stone {
		t.Fatal("stone destroyed by arrow")
	}
	if len(s.ents.IDs(world.KindArrow)) != 0 {
		t.Fatal("arrow survived hitting stone")
	}
}

func TestPlant_RipeEatable(t *testing.T) {
	exp := scenarioExport()
	addEnt(&exp, EntityExport{Kind: uint8(world.KindPlant), Pos: world.Point{X: 4, Y: 5}, Health: 1, Growth: plantRipeTicks})
	exp.Inventory.Food = 1
	s := restore(t, exp)

	step(t, s, ActDo)
	if s.inv.Food != 5 {
		t.Fatalf("food = %d, want 5 (+4 from the plant)", s.inv.Food)
	}
	if !s.ach.Unlocked("eat_plant") {
		t.Fatal("eat_plant not unlocked")
	}
	e := s.ents.At(world.Point{X: 4, Y: 5})
	if e == nil {
		t.Fatal("eating removed the plant")
	}
	if e.Growth >= plantRipeTicks {
		t.Fatal("plant still ripe after eating")
	}
}

func TestPlant_UnripeDoesNothing(t *testing.T) {
	exp := scenarioExport()
	addEnt(&exp, EntityExport{Kind: uint8(world.KindPlant), Pos: world.Point{X: 4, Y: 5}, Health: 1, Growth: 10})
	s := restore(t, exp)

	food := s.inv.Food
	step(t, s, ActDo)
	if s.inv.Food != food {
		t.Fatal("ate an unripe plant")
	}
}

func TestPlant_GrowsEachTick(t *testing.T) {
	exp := scenarioExport()
	addEnt(&exp, EntityExport{Kind: uint8(world.KindPlant), Pos: world.Point{X: 1, Y: 1}, Health: 1})
	s := restore(t, exp)

	for i := 0; i < 5; i++ {
		step(t, s, ActNoop)
	}
	ids := s.ents.IDs(world.KindPlant)
	if len(ids) != 1 {
		t.Fatal("plant vanished")
	}
	if g := s.ents.Get(ids[0]).Growth; g != 5 {
		t.Fatalf("growth = %d after 5 ticks, want 5", g)
	}
}

func TestPlant_TrampledByZombie(t *testing.T) {
	exp := scenarioExport()
	penPlantCorner(&exp, 1)
	addEnt(&exp, EntityExport{Kind: uint8(world.KindZombie), Pos: world.Point{X: 0, Y: 1}, Health: 5})
	s := restore(t, exp)

	step(t, s, ActNoop)
	if len(s.ents.IDs(world.KindPlant)) != 0 {
		t.Fatal("plant survived an adjacent zombie")
	}
}

// penPlantCorner places a plant at (1,1) with water around it so a mob at
// (0,1) stays put.
func penPlantCorner(exp *Export, plantHealth int) {
	addEnt(exp, EntityExport{Kind: uint8(world.KindPlant), Pos: world.Point{X: 1, Y: 1}, Health: plantHealth})
	setTile(exp, 0, 0, world.Water)
	setTile(exp, 1, 0, world.Water)
	setTile(exp, 2, 0, world.Water)
	setTile(exp, 2, 1, world.Water)
	setTile(exp, 0, 2, world.Water)
	setTile(exp, 1, 2, world.Water)
}

func TestPlant_GrazedByCow(t *testing.T) {
	exp := scenarioExport()
	penPlantCorner(&exp, 1)
	addEnt(&exp, EntityExport{Kind: uint8(world.KindCow), Pos: world.Point{X: 0, Y: 1}, Health: 3})
	s := restore(t, exp)

	step(t, s, ActNoop)
	if len(s.ents.IDs(world.KindPlant)) != 0 {
		t.Fatal("plant survived an adjacent cow")
	}
}

func TestPlant_NoGrowthWhileDamaged(t *testing.T) {
	exp := scenarioExport()
	penPlantCorner(&exp, 2)
	addEnt(&exp, EntityExport{Kind: uint8(world.KindCow), Pos: world.Point{X: 0, Y: 1}, Health: 3})
	s := restore(t, exp)

	step(t, s, ActNoop)
	ids := s.ents.IDs(world.KindPlant)
	if len(ids) != 1 {
		t.Fatal("plant should survive the first nibble")
	}
	e := s.ents.Get(ids[0])
	if e.Health != 1 {
		t.Fatalf("plant health = %d, want 1", e.Health)
	}
	if e.Growth != 0 {
		t.Fatalf("growth = %d on a damaged tick, want 0", e.Growth)
	}
}

func TestThirst_FasterInSunnyDesert(t *testing.T) {
	onSand := scenarioExport()
	setTile(&onSand, 4, 4, world.Sand)
	a := restore(t, onSand)

	b := restore(t, scenarioExport())

	for i := 0; i < 15; i++ {
		step(t, a, ActNoop)
		step(t, b, ActNoop)
	}
	if a.inv.Drink >= b.inv.Drink {
		t.Fatalf("desert drink=%d, grass drink=%d; desert should dehydrate faster", a.inv.Drink, b.inv.Drink)
	}
}

func TestVitals_HungerDecay(t *testing.T) {
	s := restore(t, scenarioExport())
	for i := 0; i < 25; i++ {
		step(t, s, ActNoop)
	}
	if s.inv.Food != 8 {
		t.Fatalf("food = %d after 25 ticks, want 8", s.inv.Food)
	}
}

func TestVitals_StarvationDeath(t *testing.T) {
	exp := scenarioExport()
	exp.Inventory.Food = 0
	exp.Inventory.Drink = 0
	exp.Inventory.Energy = 0
	exp.Inventory.Health = 1
	s := restore(t, exp)

	var done bool
	for i := 0; i < 30 && !done; i++ {
		out := step(t, s, ActNoop)
		done = out.Done
	}
	if !done {
		t.Fatal("no starvation death in 30 ticks")
	}
	if s.DoneReason() != "death:starvation" {
		t.Fatalf("done reason = %q", s.DoneReason())
	}
}

func TestStep_InvalidActionLeavesStateUntouched(t *testing.T) {
	s := restore(t, scenarioExport())
	before := s.Digest()
	if _, err := s.Step(Action(250)); err != ErrInvalidAction {
		t.Fatalf("err = %v, want ErrInvalidAction", err)
	}
	if s.Digest() != before {
		t.Fatal("invalid action mutated state")
	}
}
