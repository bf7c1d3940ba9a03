package world

// Point is a tile coordinate. Y grows southward.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Dist is the Manhattan distance, the metric all mob behavior radii use.
func (p Point) Dist(q Point) int {
	return absInt(p.X-q.X) + absInt(p.Y-q.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Directions in resolution order: up, down, left, right.
var Directions = [4]Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Grid is the fixed-size tile map. Cells hold material indices only;
// entity occupancy lives in the registry's position index.
type Grid struct {
	W, H  int
	Cells []Material
}

func NewGrid(w, h int) *Grid {
	return &Grid{W: w, H: h, Cells: make([]Material, w*h)}
}

func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.W && p.Y >= 0 && p.Y < g.H
}

// At returns the material at p. Out-of-bounds reads return Water, which is
// never walkable, so boundary checks compose with walkability checks.
func (g *Grid) At(p Point) Material {
	if !g.InBounds(p) {
		return Water
	}
	return g.Cells[p.Y*g.W+p.X]
}

func (g *Grid) Set(p Point, m Material) {
	if !g.InBounds(p) {
		return
	}
	g.Cells[p.Y*g.W+p.X] = m
}

// HasAdjacent reports whether any of the four neighbors of p (or p itself)
// holds the material. Crafting stations count when stood next to.
func (g *Grid) HasAdjacent(p Point, m Material) bool {
	if g.At(p) == m {
		return true
	}
	for _, d := range Directions {
		if g.At(p.Add(d)) == m {
			return true
		}
	}
	return false
}
