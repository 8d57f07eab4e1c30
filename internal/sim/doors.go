package sim

import "github.com/ddx-510/opencode-pixel-office/internal/grid"

// DoorState is the output-only visual state of one door tile. It never
// affects walkability; door tiles are walkable by class.
type DoorState struct {
	Tile grid.Tile
	Open bool
}

// doorTracker derives an open/closed flag per door tile from sprite
// occupancy, refreshed after movement each tick.
type doorTracker struct {
	tiles []grid.Tile
	open  map[grid.Tile]bool
}

func newDoorTracker(doorTiles []grid.Tile) *doorTracker {
	tiles := make([]grid.Tile, len(doorTiles))
	copy(tiles, doorTiles)
	return &doorTracker{
		tiles: tiles,
		open:  make(map[grid.Tile]bool, len(tiles)),
	}
}

// update recomputes every door's flag: open while occupied, closed again
// once vacated.
func (d *doorTracker) update(occupied func(grid.Tile) bool) {
	for _, t := range d.tiles {
		d.open[t] = occupied(t)
	}
}

// states returns the door flags in landmark order.
func (d *doorTracker) states() []DoorState {
	out := make([]DoorState, len(d.tiles))
	for i, t := range d.tiles {
		out[i] = DoorState{Tile: t, Open: d.open[t]}
	}
	return out
}
