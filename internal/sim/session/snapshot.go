package session

import (
	"fmt"
	"sort"

	"craftgrid.ai/internal/sim/catalogs"
	"craftgrid.ai/internal/sim/rng"
	"craftgrid.ai/internal/sim/tuning"
	"craftgrid.ai/internal/sim/world"
)

// ExportVersion tags the export layout. Bump it whenever a field changes
// meaning; restores reject unknown versions.
const ExportVersion = 1

// Export is the complete serializable state of a session. All collections
// are in deterministic order, so the export doubles as the digest input.
type Export struct {
	Version    int    `json:"version"`
	EpisodeID  string `json:"episode_id"`
	Seed       uint64 `json:"seed"`
	WorldSeed  uint64 `json:"world_seed"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Tick       int    `json:"tick"`
	Done       bool   `json:"done"`
	DoneReason string `json:"done_reason,omitempty"`
	LastDamage string `json:"last_damage,omitempty"`
	RNGState   uint64 `json:"rng_state"`

	Counters  LifeCounters    `json:"counters"`
	Inventory world.Inventory `json:"inventory"`

	Achievements []AchievementCount `json:"achievements"`

	Tiles  []uint8        `json:"tiles"`
	NextID world.ID       `json:"next_id"`
	Ents   []EntityExport `json:"entities"`

	Tuning tuning.Tuning `json:"tuning"`
}

type AchievementCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type EntityExport struct {
	ID       world.ID    `json:"id"`
	Kind     uint8       `json:"kind"`
	Pos      world.Point `json:"pos"`
	Health   int         `json:"health"`
	Facing   world.Point `json:"facing,omitempty"`
	Sleeping bool        `json:"sleeping,omitempty"`
	Cooldown int         `json:"cooldown,omitempty"`
	Reload   int         `json:"reload,omitempty"`
	Dir      world.Point `json:"dir,omitempty"`
	Growth   int         `json:"growth,omitempty"`
}

// Export captures the full session state for persistence or digesting.
func (s *Session) Export() Export {
	ach := make([]AchievementCount, 0, len(s.ach))
	for name, n := range s.ach {
		ach = append(ach, AchievementCount{Name: name, Count: n})
	}
	sort.Slice(ach, func(i, j int) bool { return ach[i].Name < ach[j].Name })

	tiles := make([]uint8, len(s.grid.Cells))
	for i, m := range s.grid.Cells {
		tiles[i] = uint8(m)
	}

	var ents []EntityExport
	for _, id := range s.ents.IDs() {
		e := s.ents.Get(id)
		ents = append(ents, EntityExport{
			ID: e.ID, Kind: uint8(e.Kind), Pos: e.Pos, Health: e.Health,
			Facing: e.Facing, Sleeping: e.Sleeping,
			Cooldown: e.Cooldown, Reload: e.Reload,
			Dir: e.Dir, Growth: e.Growth,
		})
	}

	return Export{
		Version:      ExportVersion,
		EpisodeID:    s.EpisodeID,
		Seed:         s.cfg.Seed,
		WorldSeed:    s.worldSeed,
		Width:        s.grid.W,
		Height:       s.grid.H,
		Tick:         s.tick,
		Done:         s.done,
		DoneReason:   s.doneReason,
		LastDamage:   s.lastDamage,
		RNGState:     s.stream.State(),
		Counters:     s.counters,
		Inventory:    s.inv,
		Achievements: ach,
		Tiles:        tiles,
		NextID:       s.ents.NextID(),
		Ents:         ents,
		Tuning:       s.cfg.Tuning,
	}
}

// Restore rebuilds a session from an export. The catalogs must be the same
// revision that produced the export; material indices are stored raw.
func Restore(exp Export, cats *catalogs.Catalogs) (*Session, error) {
	if exp.Version != ExportVersion {
		return nil, fmt.Errorf("session: unsupported snapshot version %d", exp.Version)
	}
	if len(exp.Tiles) != exp.Width*exp.Height {
		return nil, fmt.Errorf("session: snapshot has %d tiles for %dx%d world", len(exp.Tiles), exp.Width, exp.Height)
	}
	rules, err := world.CompileRules(cats)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	g := world.NewGrid(exp.Width, exp.Height)
	for i, v := range exp.Tiles {
		g.Cells[i] = world.Material(v)
	}

	ents := world.NewRegistry()
	havePlayer := false
	for _, ee := range exp.Ents {
		e := &world.Entity{
			ID: ee.ID, Kind: world.Kind(ee.Kind), Pos: ee.Pos, Health: ee.Health,
			Facing: ee.Facing, Sleeping: ee.Sleeping,
			Cooldown: ee.Cooldown, Reload: ee.Reload,
			Dir: ee.Dir, Growth: ee.Growth,
		}
		if e.Kind == world.KindPlayer {
			havePlayer = true
		}
		ents.Put(e)
	}
	if !havePlayer {
		return nil, fmt.Errorf("session: snapshot has no player entity")
	}
	ents.SetNextID(exp.NextID)

	s := &Session{
		cfg: Config{
			Seed:   exp.Seed,
			Width:  exp.Width,
			Height: exp.Height,
			Tuning: exp.Tuning,
		},
		cats:       cats,
		rules:      rules,
		EpisodeID:  exp.EpisodeID,
		grid:       g,
		ents:       ents,
		inv:        exp.Inventory,
		ach:        make(world.Achievements, len(exp.Achievements)),
		stream:     rng.Resume(exp.RNGState),
		tick:       exp.Tick,
		counters:   exp.Counters,
		lastDamage: exp.LastDamage,
		worldSeed:  exp.WorldSeed,
		done:       exp.Done,
		doneReason: exp.DoneReason,
	}
	for _, ac := range exp.Achievements {
		s.ach[ac.Name] = ac.Count
	}
	s.updateDaylight()
	return s, nil
}
