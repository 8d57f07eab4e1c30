package sim

import "github.com/ddx-510/opencode-pixel-office/internal/grid"

// SpriteSnapshot is the engine's per-sprite, per-tick output: everything
// the renderer needs to draw and animate one agent.
type SpriteSnapshot struct {
	ID     string
	X, Y   float64
	Tile   grid.Tile
	Facing Facing
	Kind   Kind
	Phase  Phase
	Status Status
	// DX/DY is the movement applied this tick, exposed so the animation
	// category (walking vs. standing frames) can be derived externally.
	DX, DY float64
}

// Snapshot is the full engine output for one tick.
type Snapshot struct {
	Tick    uint64
	Sprites []SpriteSnapshot
	Doors   []DoorState
}

// Snapshot captures the current sprite and door state in insertion order.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:    e.tick,
		Sprites: make([]SpriteSnapshot, 0, len(e.order)),
		Doors:   e.doors.states(),
	}
	for _, id := range e.order {
		s := e.sprites[id]
		if s.removed {
			continue
		}
		snap.Sprites = append(snap.Sprites, SpriteSnapshot{
			ID:     s.id,
			X:      s.x,
			Y:      s.y,
			Tile:   s.tile(e.grid),
			Facing: s.facing,
			Kind:   s.kind,
			Phase:  s.phase(),
			Status: s.status,
			DX:     s.lastDX,
			DY:     s.lastDY,
		})
	}
	return snap
}
