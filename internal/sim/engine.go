// Package sim drives the per-agent sprite lifecycle over a classified tile
// grid: desk-seeking, wandering, idling, exiting and removal, advanced tick
// by tick with an elapsed-time delta.
//
// The Engine owns its sprite map exclusively and is not safe for concurrent
// use; the caller runs Upsert, Tick and Snapshot from a single goroutine
// (see internal/server for the production loop).
package sim

import (
	"hash/fnv"
	"math"
	"time"

	"github.com/ddx-510/opencode-pixel-office/internal/grid"
	"github.com/ddx-510/opencode-pixel-office/pkg/logger"
)

// Params are the engine's tuning knobs. Durations are wall-clock; pixel
// values scale with tile size only where noted.
type Params struct {
	// WorkLock suppresses desk re-election for a short time after a work
	// replan, preventing thrash between equally-near desks.
	WorkLock time.Duration
	// StallAfter is how long a desk-seeking sprite may stand still before
	// it is snapped to its work target.
	StallAfter time.Duration
	// IdlePause is the fixed stand-still period between wander legs.
	IdlePause time.Duration
	// WanderMin/WanderMax bound the randomized active-wander interval.
	WanderMin time.Duration
	WanderMax time.Duration
	// Goodbye is how long an exited sprite lingers at the exit before
	// removal.
	Goodbye time.Duration
	// FacingLock is the cooldown between facing changes.
	FacingLock time.Duration

	// StepCap bounds movement per tick in pixels, regardless of delta.
	StepCap float64
	// ArriveEpsilon is the waypoint-arrival distance in pixels.
	ArriveEpsilon float64
	// FacingThreshold is the minimum dominant-axis movement per tick, in
	// pixels, before facing updates.
	FacingThreshold float64

	// WanderTries bounds rejection sampling for a non-work wander tile.
	WanderTries int
	// ExitRadius is the Chebyshev search radius around an exit landmark for
	// a walkable exit target.
	ExitRadius int
}

// DefaultParams returns the production tuning.
func DefaultParams() Params {
	return Params{
		WorkLock:        2 * time.Second,
		StallAfter:      1500 * time.Millisecond,
		IdlePause:       2500 * time.Millisecond,
		WanderMin:       4 * time.Second,
		WanderMax:       9 * time.Second,
		Goodbye:         1400 * time.Millisecond,
		FacingLock:      180 * time.Millisecond,
		StepCap:         16,
		ArriveEpsilon:   0.75,
		FacingThreshold: 0.35,
		WanderTries:     12,
		ExitRadius:      2,
	}
}

// Engine is the sprite lifecycle engine: one mutable simulation record per
// known agent id, advanced by Tick.
type Engine struct {
	grid  *grid.Grid
	marks *grid.Landmarks
	clock Clock
	rng   Rand
	p     Params

	sprites map[string]*sprite
	order   []string // insertion order, for deterministic iteration
	doors   *doorTracker

	defaultHome grid.Tile
	tick        uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects the time source.
func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

// WithRand injects the random source.
func WithRand(r Rand) Option { return func(e *Engine) { e.rng = r } }

// WithParams overrides the default tuning.
func WithParams(p Params) Option { return func(e *Engine) { e.p = p } }

// New creates an engine over an immutable grid and landmark set.
func New(g *grid.Grid, marks *grid.Landmarks, opts ...Option) *Engine {
	e := &Engine{
		grid:    g,
		marks:   marks,
		clock:   RealClock{},
		rng:     NewRand(time.Now().UnixNano()),
		p:       DefaultParams(),
		sprites: make(map[string]*sprite),
		doors:   newDoorTracker(marks.DoorTiles),
	}
	if home, ok := g.FirstWalkable(); ok {
		e.defaultHome = home
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Grid returns the engine's grid.
func (e *Engine) Grid() *grid.Grid { return e.grid }

// Landmarks returns the engine's landmark set.
func (e *Engine) Landmarks() *grid.Landmarks { return e.marks }

// Upsert diffs the external roster against the known sprite set.
//
// New ids spawn a sprite at its home tile. Known ids refresh status and the
// desk signal; an id that reappears mid-exit cancels the exit and resumes
// normal behavior from where it stands. Ids missing from the roster begin
// the exit sequence — never an immediate delete. An empty roster is valid
// and walks everybody out.
func (e *Engine) Upsert(roster []RosterEntry) {
	now := e.clock.Now()
	present := make(map[string]bool, len(roster))
	for _, entry := range roster {
		if entry.ID == "" {
			continue
		}
		present[entry.ID] = true
		s, ok := e.sprites[entry.ID]
		if !ok {
			e.spawn(entry, now)
			continue
		}
		s.status = entry.Status
		s.shouldDesk = entry.ShouldOccupyDesk
		if s.exiting && !s.removed {
			e.cancelExit(s, now)
		}
	}
	for _, id := range e.order {
		s := e.sprites[id]
		if !present[id] && !s.exiting && !s.removed {
			e.beginExit(s, now)
		}
	}
}

// spawn creates a sprite at its deterministically assigned home tile.
func (e *Engine) spawn(entry RosterEntry, now time.Time) {
	home := e.homeTile(entry)
	s := &sprite{
		id:         entry.ID,
		status:     entry.Status,
		shouldDesk: entry.ShouldOccupyDesk,
		home:       home,
		facing:     FacingFront,
		lastMoved:  now,
	}
	s.x, s.y = e.grid.Center(home)
	e.sprites[entry.ID] = s
	e.order = append(e.order, entry.ID)
	logger.Debugf("sim: spawned %s at (%d,%d)", s.id, home.Row, home.Col)
}

// homeTile hashes the agent's session key onto a work center, falling back
// to any work tile, falling back to the default tile. Stable for the
// sprite's lifetime.
func (e *Engine) homeTile(entry RosterEntry) grid.Tile {
	key := entry.SessionKey
	if key == "" {
		key = entry.ID
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	n := int(h.Sum32())
	if n < 0 {
		n = -n
	}
	switch {
	case len(e.marks.WorkCenters) > 0:
		return e.marks.WorkCenters[n%len(e.marks.WorkCenters)]
	case len(e.marks.WorkTiles) > 0:
		return e.marks.WorkTiles[n%len(e.marks.WorkTiles)]
	default:
		return e.defaultHome
	}
}

// Tick advances every sprite by delta and refreshes door state.
//
// Movement is frame-rate independent: a tick with twice the delta moves
// sprites roughly twice as far (up to the per-tick step cap).
func (e *Engine) Tick(delta time.Duration) {
	now := e.clock.Now()
	for _, id := range e.order {
		s := e.sprites[id]
		if s.removed {
			continue
		}
		s.lastDX, s.lastDY = 0, 0
		if s.exiting {
			e.tickExit(s, now, delta)
		} else {
			e.tickActive(s, now, delta)
		}
	}
	e.doors.update(e.occupiedDoor)
	e.reap()
	e.tick++
}

// reap drops sprites whose exit sequence completed.
func (e *Engine) reap() {
	kept := e.order[:0]
	for _, id := range e.order {
		if s := e.sprites[id]; s.removed {
			delete(e.sprites, id)
			logger.Debugf("sim: removed %s", id)
			continue
		}
		kept = append(kept, id)
	}
	e.order = kept
}

// tickActive runs one tick of the work/wander state machine.
func (e *Engine) tickActive(s *sprite, now time.Time, delta time.Duration) {
	if s.shouldDesk {
		e.tickWork(s, now, delta)
	} else {
		e.tickWander(s, now, delta)
	}
}

func (e *Engine) tickWork(s *sprite, now time.Time, delta time.Duration) {
	s.idlePause.Clear()
	s.wanderLeg.Clear()

	switch {
	case !s.hasTarget,
		s.kind != KindWork && !s.workLock.Active(now),
		s.kind == KindWork && s.arrived() && !s.workLock.Active(now):
		e.replanWork(s, now)
	}
	e.step(s, now, delta)

	// Stall recovery: a desk-bound sprite that stopped making progress gets
	// snapped to its target instead of standing in a hallway forever.
	if s.kind == KindWork && s.hasTarget && now.Sub(s.lastMoved) > e.p.StallAfter {
		tx, ty := e.grid.Center(s.target)
		if s.x != tx || s.y != ty {
			logger.Debugf("sim: %s stalled, snapping to (%d,%d)", s.id, s.target.Row, s.target.Col)
		}
		e.teleport(s, s.target)
		s.lastMoved = now
	}
}

func (e *Engine) tickWander(s *sprite, now time.Time, delta time.Duration) {
	if s.idlePause.Active(now) {
		return
	}
	switch {
	case !s.hasTarget || s.kind != KindWander && !s.workLock.Active(now):
		e.replanWander(s, now)
	case s.kind == KindWander && s.wanderLeg.Expired(now):
		e.replanWander(s, now)
	case s.kind == KindWander && s.arrived():
		// Leg finished: stand for a fixed pause before the next stroll.
		s.idlePause.Arm(now, e.p.IdlePause)
		s.hasTarget = false
		return
	}
	e.step(s, now, delta)
}

// replanWork retargets the sprite at the best desk and rebuilds its path.
func (e *Engine) replanWork(s *sprite, now time.Time) {
	target, ok := e.desiredDesk(s)
	if !ok {
		target = e.defaultHome
	}
	e.setCourse(s, KindWork, target)
	s.workLock.Arm(now, e.p.WorkLock)
	if len(s.path) == 0 && s.tile(e.grid) != target {
		// Unreachable desk: teleport rather than stall indefinitely.
		logger.Debugf("sim: %s has no path to desk (%d,%d), teleporting", s.id, target.Row, target.Col)
		e.teleport(s, target)
		s.lastMoved = now
	}
}

// replanWander picks a random walkable tile and rebuilds the path.
func (e *Engine) replanWander(s *sprite, now time.Time) {
	target, ok := e.wanderTile(s)
	if !ok {
		s.idlePause.Arm(now, e.p.IdlePause)
		s.hasTarget = false
		return
	}
	e.setCourse(s, KindWander, target)
	span := e.p.WanderMax - e.p.WanderMin
	dur := e.p.WanderMin
	if span > 0 {
		dur += time.Duration(e.rng.Float64() * float64(span))
	}
	s.wanderLeg.Arm(now, dur)
}

// desiredDesk is the nearest currently-unoccupied work center, falling back
// to the globally nearest center when all are taken.
func (e *Engine) desiredDesk(s *sprite) (grid.Tile, bool) {
	if len(e.marks.WorkCenters) == 0 {
		return grid.Tile{}, false
	}
	from := s.tile(e.grid)
	occupied := e.occupiedTiles(s)

	best, bestFree := grid.Tile{}, false
	bestDist := math.MaxInt
	freeDist := math.MaxInt
	var bestFreeTile grid.Tile
	for _, c := range e.marks.WorkCenters {
		d := from.Manhattan(c)
		if d < bestDist {
			best, bestDist = c, d
		}
		if !occupied[c] && d < freeDist {
			bestFreeTile, freeDist = c, d
			bestFree = true
		}
	}
	if bestFree {
		return bestFreeTile, true
	}
	return best, true
}

// occupiedTiles is the set of tiles held by every other tracked sprite.
func (e *Engine) occupiedTiles(self *sprite) map[grid.Tile]bool {
	occ := make(map[grid.Tile]bool, len(e.sprites))
	for _, id := range e.order {
		other := e.sprites[id]
		if other == self || other.removed {
			continue
		}
		occ[other.tile(e.grid)] = true
	}
	return occ
}

// wanderTile rejection-samples a random walkable non-work tile, then any
// walkable tile, bounded attempts each.
func (e *Engine) wanderTile(s *sprite) (grid.Tile, bool) {
	rows, cols := e.grid.Rows(), e.grid.Cols()
	if rows == 0 || cols == 0 {
		return grid.Tile{}, false
	}
	for i := 0; i < e.p.WanderTries; i++ {
		t := grid.Tile{Row: e.rng.Intn(rows), Col: e.rng.Intn(cols)}
		if e.grid.Walkable(t) && e.grid.ClassAt(t) != grid.WorkStation {
			return t, true
		}
	}
	for i := 0; i < e.p.WanderTries; i++ {
		t := grid.Tile{Row: e.rng.Intn(rows), Col: e.rng.Intn(cols)}
		if e.grid.Walkable(t) {
			return t, true
		}
	}
	return grid.Tile{}, false
}

// setCourse plans, simplifies and installs a path toward target.
func (e *Engine) setCourse(s *sprite, kind Kind, target grid.Tile) {
	s.kind = kind
	s.target = target
	s.hasTarget = true
	raw := grid.FindPath(e.grid, s.tile(e.grid), target)
	s.path = grid.SimplifyPath(raw)
	if len(s.path) > 1 {
		s.cursor = 1
	} else {
		s.cursor = 0
	}
}

// teleport snaps the sprite onto target's center and clears its path.
func (e *Engine) teleport(s *sprite, target grid.Tile) {
	s.x, s.y = e.grid.Center(target)
	s.path = nil
	s.cursor = 0
}

// step integrates movement along the path. The tick's distance budget
// carries across waypoints so a large delta turns corners instead of
// stopping on them.
func (e *Engine) step(s *sprite, now time.Time, delta time.Duration) {
	if s.cursor >= len(s.path) {
		s.path = nil
		return
	}
	budget := speedFor(s.status) * delta.Seconds()
	if budget > e.p.StepCap {
		budget = e.p.StepCap
	}
	for s.cursor < len(s.path) {
		wx, wy := e.grid.Center(s.path[s.cursor])
		dx, dy := wx-s.x, wy-s.y
		dist := math.Hypot(dx, dy)

		if dist > e.p.ArriveEpsilon && budget > 0 {
			stepLen := budget
			if stepLen > dist {
				stepLen = dist
			}
			mx, my := dx/dist*stepLen, dy/dist*stepLen
			s.x += mx
			s.y += my
			s.lastDX += mx
			s.lastDY += my
			s.lastMoved = now
			e.updateFacing(s, now, mx, my)
			budget -= stepLen
			dist -= stepLen
		}
		if dist > e.p.ArriveEpsilon {
			return
		}
		// Land exactly on the waypoint so resting positions are tile centers.
		s.x, s.y = wx, wy
		s.cursor++
		if s.cursor >= len(s.path) {
			s.path = nil
		}
	}
}

// updateFacing turns the sprite toward its dominant movement axis, with a
// short lock to stop sub-pixel flip-flopping.
func (e *Engine) updateFacing(s *sprite, now time.Time, mx, my float64) {
	if s.facingLock.Active(now) {
		return
	}
	ax, ay := math.Abs(mx), math.Abs(my)
	var next Facing
	switch {
	case ax >= ay && ax >= e.p.FacingThreshold:
		if mx > 0 {
			next = FacingRight
		} else {
			next = FacingLeft
		}
	case ay > ax && ay >= e.p.FacingThreshold:
		if my > 0 {
			next = FacingFront
		} else {
			next = FacingBack
		}
	default:
		return
	}
	if next != s.facing {
		s.facing = next
		s.facingLock.Arm(now, e.p.FacingLock)
	}
}

// beginExit routes the sprite to the nearest walkable tile by an exit.
func (e *Engine) beginExit(s *sprite, now time.Time) {
	s.exiting = true
	s.kind = KindExit
	s.goodbye.Clear()
	s.idlePause.Clear()
	s.wanderLeg.Clear()
	s.workLock.Clear()

	target := e.exitTarget(s.tile(e.grid))
	e.setCourse(s, KindExit, target)
	if len(s.path) == 0 && s.tile(e.grid) != target {
		e.teleport(s, target)
	}
	logger.Debugf("sim: %s exiting via (%d,%d)", s.id, target.Row, target.Col)
}

// cancelExit resumes normal behavior for an id that reappeared mid-exit.
// Continuity wins over ceremony: the sprite keeps its position and home and
// simply replans on the next tick.
func (e *Engine) cancelExit(s *sprite, now time.Time) {
	s.exiting = false
	s.goodbye.Clear()
	s.path = nil
	s.cursor = 0
	s.hasTarget = false
	s.kind = ""
	s.lastMoved = now
	logger.Debugf("sim: %s reappeared, exit cancelled", s.id)
}

// exitTarget finds the nearest walkable tile within ExitRadius of the
// nearest exit landmark, scanned in a deterministic ring order. With no
// exit landmarks the sprite exits in place.
func (e *Engine) exitTarget(from grid.Tile) grid.Tile {
	if len(e.marks.ExitTiles) == 0 {
		return from
	}
	exit := e.marks.ExitTiles[0]
	bestDist := from.Manhattan(exit)
	for _, t := range e.marks.ExitTiles[1:] {
		if d := from.Manhattan(t); d < bestDist {
			exit, bestDist = t, d
		}
	}
	for radius := 0; radius <= e.p.ExitRadius; radius++ {
		for dr := -radius; dr <= radius; dr++ {
			for dc := -radius; dc <= radius; dc++ {
				if max(abs(dr), abs(dc)) != radius {
					continue
				}
				t := grid.Tile{Row: exit.Row + dr, Col: exit.Col + dc}
				if e.grid.Walkable(t) {
					return t
				}
			}
		}
	}
	return exit
}

// tickExit walks the sprite out, lingers for the goodbye period, then marks
// it for removal.
func (e *Engine) tickExit(s *sprite, now time.Time, delta time.Duration) {
	if !s.arrived() {
		e.step(s, now, delta)
		return
	}
	if !s.goodbye.Armed() {
		s.goodbye.Arm(now, e.p.Goodbye)
		return
	}
	if s.goodbye.Expired(now) {
		s.removed = true
	}
}

// occupiedDoor reports whether any tracked sprite currently stands on t.
func (e *Engine) occupiedDoor(t grid.Tile) bool {
	for _, id := range e.order {
		s := e.sprites[id]
		if s.removed {
			continue
		}
		if s.tile(e.grid) == t {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
