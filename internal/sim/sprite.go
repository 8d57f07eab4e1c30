package sim

import (
	"time"

	"github.com/ddx-510/opencode-pixel-office/internal/grid"
)

// Status is the roster-reported activity category of an agent.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusThinking Status = "thinking"
	StatusWorking  Status = "working"
	StatusPlanning Status = "planning"
	StatusError    Status = "error"
)

// speedFor maps agent status to walk speed in pixels per second.
// Busy agents hustle; idle and erroring agents shuffle.
func speedFor(s Status) float64 {
	switch s {
	case StatusWorking:
		return 88
	case StatusThinking:
		return 80
	case StatusPlanning:
		return 64
	case StatusError:
		return 36
	default:
		return 44
	}
}

// Kind is a sprite's desired behavior.
type Kind string

const (
	KindWork   Kind = "work"
	KindWander Kind = "wander"
	KindExit   Kind = "exit"
)

// Facing is the sprite's rendered direction.
type Facing string

const (
	FacingFront Facing = "front"
	FacingBack  Facing = "back"
	FacingLeft  Facing = "left"
	FacingRight Facing = "right"
)

// Phase is a sprite's lifecycle phase, exported so the renderer knows
// whether to keep drawing a sprite absent from the live roster.
type Phase string

const (
	PhaseActive  Phase = "active"
	PhaseExiting Phase = "exiting"
	PhaseGoodbye Phase = "goodbye"
)

// RosterEntry is one agent in the per-tick external roster.
type RosterEntry struct {
	ID               string
	Status           Status
	ShouldOccupyDesk bool
	// SessionKey seeds the deterministic home-tile choice. Falls back to ID
	// when empty.
	SessionKey string
}

// sprite is the engine-owned simulation record for one agent id.
//
// Created on first roster observation, mutated only by Engine.Tick, and
// deleted once the exit sequence completes.
type sprite struct {
	id         string
	status     Status
	shouldDesk bool

	x, y float64
	home grid.Tile

	kind      Kind
	hasTarget bool
	target    grid.Tile
	path      []grid.Tile
	cursor    int

	facing         Facing
	lastDX, lastDY float64

	workLock   timer
	idlePause  timer
	wanderLeg  timer
	facingLock timer
	goodbye    timer
	lastMoved  time.Time

	exiting bool
	removed bool
}

// tile returns the tile currently containing the sprite.
func (s *sprite) tile(g *grid.Grid) grid.Tile {
	return g.TileAt(s.x, s.y)
}

// arrived reports whether the sprite has consumed its whole path.
func (s *sprite) arrived() bool { return len(s.path) == 0 }

// phase derives the lifecycle phase for output.
func (s *sprite) phase() Phase {
	switch {
	case s.goodbye.Armed():
		return PhaseGoodbye
	case s.exiting:
		return PhaseExiting
	default:
		return PhaseActive
	}
}
