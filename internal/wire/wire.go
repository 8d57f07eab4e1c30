// Package wire defines the JSON records exchanged with the renderer and the
// roster producer: roster updates in, scene snapshots out.
package wire

import (
	"github.com/ddx-510/opencode-pixel-office/internal/grid"
	"github.com/ddx-510/opencode-pixel-office/internal/sim"
)

// Message is the envelope used on the scene stream socket.
type Message struct {
	// Type discriminates the payload ("scene" is the only server-pushed type).
	Type string `json:"type"`
	// Payload is the typed body for the message.
	Payload any `json:"payload"`
}

// MessageTypeScene tags per-tick scene snapshots on the stream.
const MessageTypeScene = "scene"

// RosterEntry is one agent in a roster update.
type RosterEntry struct {
	ID string `json:"id"`
	// Status is the activity category: idle|thinking|working|planning|error.
	Status string `json:"status"`
	// ShouldOccupyDesk tells the engine the agent belongs at a desk.
	ShouldOccupyDesk bool `json:"shouldOccupyDesk"`
	// SessionKey seeds the agent's stable home-tile assignment.
	SessionKey string `json:"sessionKey,omitempty"`
}

// RosterUpdate replaces the live roster. An empty Agents list is valid and
// walks every sprite out.
type RosterUpdate struct {
	Agents []RosterEntry `json:"agents"`
}

// ToSim converts roster entries to engine input.
func (r RosterUpdate) ToSim() []sim.RosterEntry {
	out := make([]sim.RosterEntry, 0, len(r.Agents))
	for _, a := range r.Agents {
		out = append(out, sim.RosterEntry{
			ID:               a.ID,
			Status:           sim.Status(a.Status),
			ShouldOccupyDesk: a.ShouldOccupyDesk,
			SessionKey:       a.SessionKey,
		})
	}
	return out
}

// SpriteSnapshot is the per-sprite scene record.
type SpriteSnapshot struct {
	ID     string    `json:"id"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Tile   grid.Tile `json:"tile"`
	Facing string    `json:"facing"`
	Kind   string    `json:"kind"`
	Phase  string    `json:"phase"`
	Status string    `json:"status"`
	DX     float64   `json:"dx"`
	DY     float64   `json:"dy"`
}

// DoorSnapshot is the visual state of one door tile.
type DoorSnapshot struct {
	Tile grid.Tile `json:"tile"`
	Open bool      `json:"open"`
}

// SceneSnapshot is the engine output for one tick.
type SceneSnapshot struct {
	Tick    uint64           `json:"tick"`
	Sprites []SpriteSnapshot `json:"sprites"`
	Doors   []DoorSnapshot   `json:"doors"`
}

// FromSim converts an engine snapshot to its wire form.
func FromSim(snap sim.Snapshot) SceneSnapshot {
	out := SceneSnapshot{
		Tick:    snap.Tick,
		Sprites: make([]SpriteSnapshot, 0, len(snap.Sprites)),
		Doors:   make([]DoorSnapshot, 0, len(snap.Doors)),
	}
	for _, s := range snap.Sprites {
		out.Sprites = append(out.Sprites, SpriteSnapshot{
			ID:     s.ID,
			X:      s.X,
			Y:      s.Y,
			Tile:   s.Tile,
			Facing: string(s.Facing),
			Kind:   string(s.Kind),
			Phase:  string(s.Phase),
			Status: string(s.Status),
			DX:     s.DX,
			DY:     s.DY,
		})
	}
	for _, d := range snap.Doors {
		out.Doors = append(out.Doors, DoorSnapshot{Tile: d.Tile, Open: d.Open})
	}
	return out
}

// MapInfo describes the classified grid and its landmarks for renderers.
type MapInfo struct {
	Rows     int            `json:"rows"`
	Cols     int            `json:"cols"`
	TileSize int            `json:"tileSize"`
	Classes  [][]grid.Class `json:"classes"`
	Marks    grid.Landmarks `json:"landmarks"`
}
