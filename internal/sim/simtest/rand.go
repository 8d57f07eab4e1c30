package simtest

import "github.com/ddx-510/opencode-pixel-office/internal/sim"

// ScriptedRand cycles through queued values (zero values when never fed).
// Wander target selection draws Intn pairs (row, col); wander leg durations
// draw Float64.
type ScriptedRand struct {
	Ints   []int
	Floats []float64

	intIdx   int
	floatIdx int
}

var _ sim.Rand = (*ScriptedRand)(nil)

// Intn implements sim.Rand. Scripted values are taken modulo n to stay in
// range.
func (r *ScriptedRand) Intn(n int) int {
	if n <= 0 {
		panic("simtest: Intn with non-positive n")
	}
	if len(r.Ints) == 0 {
		return 0
	}
	v := r.Ints[r.intIdx%len(r.Ints)]
	r.intIdx++
	return abs(v) % n
}

// Float64 implements sim.Rand.
func (r *ScriptedRand) Float64() float64 {
	if len(r.Floats) == 0 {
		return 0
	}
	v := r.Floats[r.floatIdx%len(r.Floats)]
	r.floatIdx++
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
