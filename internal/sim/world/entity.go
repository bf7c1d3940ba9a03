package world

import "sort"

// ID is a stable entity identifier. Ids are assigned in creation order and
// never reused within an episode; mob resolution iterates ascending id to
// keep tick outcomes deterministic.
type ID uint32

type Kind uint8

const (
	KindPlayer Kind = iota
	KindCow
	KindZombie
	KindSkeleton
	KindArrow
	KindPlant
)

var kindNames = [...]string{"player", "cow", "zombie", "skeleton", "arrow", "plant"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Entity is a tagged variant: Kind selects which of the optional fields are
// meaningful. A flat struct keeps the registry copyable and the snapshot
// codec trivial; behavior stays in the resolver, not on the variants.
type Entity struct {
	ID   ID
	Kind Kind
	Pos  Point

	Health int

	// Player.
	Facing   Point
	Sleeping bool

	// Zombie attack cooldown / skeleton bow reload, in ticks.
	Cooldown int
	Reload   int

	// Arrow flight direction.
	Dir Point

	// Plant growth, ticks since planted.
	Growth int
}

// Registry owns all entities of one session. Tiles never reference
// entities; byPos is the only occupancy index and is updated on every move,
// so occupancy lookups are O(1) without back-references.
type Registry struct {
	byID   map[ID]*Entity
	byPos  map[Point]ID
	nextID ID

	PlayerID ID
}

func NewRegistry() *Registry {
	return &Registry{
		byID:  make(map[ID]*Entity),
		byPos: make(map[Point]ID),
	}
}

// Add inserts the entity, assigning its id. Arrows are excluded from the
// occupancy index: they overfly tiles and resolve collisions themselves.
func (r *Registry) Add(e *Entity) ID {
	r.nextID++
	e.ID = r.nextID
	r.byID[e.ID] = e
	if e.Kind == KindPlayer {
		r.PlayerID = e.ID
	}
	if e.Kind != KindArrow {
		r.byPos[e.Pos] = e.ID
	}
	return e.ID
}

// Put inserts an entity that already carries its id, used when restoring a
// snapshot. The caller restores the id counter with SetNextID afterwards.
func (r *Registry) Put(e *Entity) {
	r.byID[e.ID] = e
	if e.Kind == KindPlayer {
		r.PlayerID = e.ID
	}
	if e.Kind != KindArrow {
		r.byPos[e.Pos] = e.ID
	}
}

func (r *Registry) Remove(id ID) {
	e, ok := r.byID[id]
	if !ok {
		return
	}
	if e.Kind != KindArrow && r.byPos[e.Pos] == id {
		delete(r.byPos, e.Pos)
	}
	delete(r.byID, id)
}

func (r *Registry) Get(id ID) *Entity {
	return r.byID[id]
}

func (r *Registry) Player() *Entity {
	return r.byID[r.PlayerID]
}

// At returns the occupying entity at p, or nil. Arrows never occupy.
func (r *Registry) At(p Point) *Entity {
	id, ok := r.byPos[p]
	if !ok {
		return nil
	}
	return r.byID[id]
}

// Move relocates the entity, keeping the occupancy index consistent.
func (r *Registry) Move(id ID, to Point) {
	e, ok := r.byID[id]
	if !ok {
		return
	}
	if e.Kind != KindArrow {
		if r.byPos[e.Pos] == id {
			delete(r.byPos, e.Pos)
		}
		r.byPos[to] = id
	}
	e.Pos = to
}

// IDs returns all entity ids of the given kinds in ascending order. An
// empty kinds list selects everything.
func (r *Registry) IDs(kinds ...Kind) []ID {
	ids := make([]ID, 0, len(r.byID))
	for id, e := range r.byID {
		if len(kinds) == 0 {
			ids = append(ids, id)
			continue
		}
		for _, k := range kinds {
			if e.Kind == k {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Count returns how many entities of the kind exist.
func (r *Registry) Count(kind Kind) int {
	n := 0
	for _, e := range r.byID {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// NextID exposes the id counter for snapshots.
func (r *Registry) NextID() ID {
	return r.nextID
}

// SetNextID restores the id counter from a snapshot.
func (r *Registry) SetNextID(id ID) {
	r.nextID = id
}
