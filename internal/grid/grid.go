// Package grid derives a walkable tile grid and its landmarks from a raster
// office map, and plans simplified paths across it.
package grid

// Class is the terrain class of a single tile.
//
// The zero value is Blocked; any positive class is walkable. Ordering
// encodes classification priority: when a tile matches several detection
// buckets, the highest class wins.
type Class int

const (
	// Blocked tiles are opaque scenery; sprites never enter them.
	Blocked Class = iota
	// Floor tiles are plain walkable ground.
	Floor
	// WorkStation tiles form desk clusters sprites sit at while working.
	WorkStation
	// Door tiles are walkable and additionally carry open/closed visuals.
	Door
	// Exit tiles are where sprites walk to before despawning.
	Exit
)

// String returns a short legend name for the class.
func (c Class) String() string {
	switch c {
	case Floor:
		return "floor"
	case WorkStation:
		return "work"
	case Door:
		return "door"
	case Exit:
		return "exit"
	default:
		return "blocked"
	}
}

// Walkable reports whether sprites may occupy tiles of this class.
func (c Class) Walkable() bool { return c > Blocked }

// Tile is a (row, col) cell coordinate on the grid.
type Tile struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Manhattan returns the Manhattan distance to other.
func (t Tile) Manhattan(other Tile) int {
	return abs(t.Row-other.Row) + abs(t.Col-other.Col)
}

// Grid is an immutable rows×cols field of tile classes.
//
// Build it once (ClassifyImage or FromClasses) and share it freely; nothing
// mutates a Grid after construction.
type Grid struct {
	rows, cols int
	tileSize   int
	classes    [][]Class
}

// FromClasses builds a Grid directly from a hand-authored class matrix.
//
// All rows must have equal length. Used by tests and by anything that wants
// to bypass raster classification.
func FromClasses(classes [][]Class, tileSize int) *Grid {
	rows := len(classes)
	cols := 0
	if rows > 0 {
		cols = len(classes[0])
	}
	copied := make([][]Class, rows)
	for r := range classes {
		row := make([]Class, cols)
		copy(row, classes[r])
		copied[r] = row
	}
	return &Grid{rows: rows, cols: cols, tileSize: tileSize, classes: copied}
}

// Rows returns the number of tile rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of tile columns.
func (g *Grid) Cols() int { return g.cols }

// TileSize returns the tile edge length in pixels.
func (g *Grid) TileSize() int { return g.tileSize }

// In reports whether t lies within the grid bounds.
func (g *Grid) In(t Tile) bool {
	return t.Row >= 0 && t.Row < g.rows && t.Col >= 0 && t.Col < g.cols
}

// ClassAt returns the class of t, or Blocked for out-of-bounds tiles.
func (g *Grid) ClassAt(t Tile) Class {
	if !g.In(t) {
		return Blocked
	}
	return g.classes[t.Row][t.Col]
}

// Walkable reports whether t is in bounds and walkable.
func (g *Grid) Walkable(t Tile) bool { return g.ClassAt(t).Walkable() }

// Center returns the pixel position of the tile's center.
func (g *Grid) Center(t Tile) (x, y float64) {
	ts := float64(g.tileSize)
	return float64(t.Col)*ts + ts/2, float64(t.Row)*ts + ts/2
}

// TileAt returns the tile containing the pixel position (x, y).
//
// Positions outside the map clamp to the nearest edge tile so that a sprite
// mid-recovery still resolves to a real tile.
func (g *Grid) TileAt(x, y float64) Tile {
	ts := float64(g.tileSize)
	t := Tile{Row: int(y / ts), Col: int(x / ts)}
	if t.Row < 0 {
		t.Row = 0
	}
	if t.Row >= g.rows {
		t.Row = g.rows - 1
	}
	if t.Col < 0 {
		t.Col = 0
	}
	if t.Col >= g.cols {
		t.Col = g.cols - 1
	}
	return t
}

// Classes returns a copy of the class matrix, for serialization.
func (g *Grid) Classes() [][]Class {
	out := make([][]Class, g.rows)
	for r := range g.classes {
		row := make([]Class, g.cols)
		copy(row, g.classes[r])
		out[r] = row
	}
	return out
}

// FirstWalkable returns the first walkable tile in row-major order.
//
// ok is false when the whole grid is blocked.
func (g *Grid) FirstWalkable() (t Tile, ok bool) {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.classes[r][c].Walkable() {
				return Tile{Row: r, Col: c}, true
			}
		}
	}
	return Tile{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
