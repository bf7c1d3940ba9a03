package session

import "craftgrid.ai/internal/sim/world"

// PlayerView is the player's pose within a state view.
type PlayerView struct {
	Pos      world.Point `json:"pos"`
	Facing   world.Point `json:"facing"`
	Sleeping bool        `json:"sleeping"`
}

// EntityView is a visible non-player entity.
type EntityView struct {
	ID     world.ID    `json:"id"`
	Kind   string      `json:"kind"`
	Pos    world.Point `json:"pos"`
	Health int         `json:"health,omitempty"`
	Ripe   bool        `json:"ripe,omitempty"`
}

// GridView is a rectangular window of tiles, row-major from Origin. Tiles
// hold material palette indices; tiles outside the world read as water.
// Tiles is []int rather than []uint8 so it marshals as a JSON array, not
// a base64 string.
type GridView struct {
	Origin world.Point `json:"origin"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Tiles  []int       `json:"tiles"`
}

// State is the observer-facing episode state: the local view around the
// player plus inventory, achievement counters and episode bookkeeping.
type State struct {
	EpisodeID  string          `json:"episode_id"`
	Tick       int             `json:"tick"`
	Daylight   float64         `json:"daylight"`
	Done       bool            `json:"done"`
	DoneReason string          `json:"done_reason,omitempty"`
	Player     PlayerView      `json:"player"`
	Inventory  world.Inventory `json:"inventory"`
	Unlocked   []string        `json:"unlocked"`
	View       GridView        `json:"view"`
	Entities   []EntityView    `json:"entities"`
}

// State renders the current episode state with a square view of the
// configured radius centered on the player.
func (s *Session) State() State {
	p := s.player()
	r := s.cfg.Tuning.ViewRadius
	side := 2*r + 1
	origin := world.Point{X: p.Pos.X - r, Y: p.Pos.Y - r}

	tiles := make([]int, side*side)
	for dy := 0; dy < side; dy++ {
		for dx := 0; dx < side; dx++ {
			tiles[dy*side+dx] = int(s.grid.At(world.Point{X: origin.X + dx, Y: origin.Y + dy}))
		}
	}

	var ents []EntityView
	for _, id := range s.ents.IDs() {
		e := s.ents.Get(id)
		if e.Kind == world.KindPlayer {
			continue
		}
		if abs(e.Pos.X-p.Pos.X) > r || abs(e.Pos.Y-p.Pos.Y) > r {
			continue
		}
		ev := EntityView{ID: e.ID, Kind: e.Kind.String(), Pos: e.Pos, Health: e.Health}
		if e.Kind == world.KindPlant {
			ev.Ripe = e.Growth >= plantRipeTicks
		}
		ents = append(ents, ev)
	}

	return State{
		EpisodeID:  s.EpisodeID,
		Tick:       s.tick,
		Daylight:   s.daylight,
		Done:       s.done,
		DoneReason: s.doneReason,
		Player:     PlayerView{Pos: p.Pos, Facing: p.Facing, Sleeping: p.Sleeping},
		Inventory:  s.inv,
		Unlocked:   s.ach.UnlockedNames(),
		View:       GridView{Origin: origin, Width: side, Height: side, Tiles: tiles},
		Entities:   ents,
	}
}

// Achievements returns a copy of the full achievement counters.
func (s *Session) Achievements() world.Achievements {
	return s.ach.Clone()
}

// Inventory returns the current inventory by value.
func (s *Session) Inventory() world.Inventory {
	return s.inv
}
