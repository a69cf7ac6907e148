package timetable

import (
	"math"
	"math/rand"
)

type moveKind int

const (
	moveChangeTime moveKind = iota
	moveSwap
	moveChangeRoom
)

// CancelFunc is polled once per iteration; returning true stops the loop
// after finishing whatever transition is already in flight (spec §5's
// cooperative cancellation — never mid-move).
type CancelFunc func() bool

// AnnealResult is the optimizer's outcome: the best vector seen across the
// whole run, not necessarily the vector the loop ended on.
type AnnealResult struct {
	Best       []Assignment
	BestHard   int
	BestScore  float64
	Iterations int
	Cancelled  bool
}

// Anneal runs the simulated-annealing optimizer (spec §4.3) starting from
// state's current vector, normally the greedy initializer's output. rng must
// be seeded by the caller; two runs with the same inputs and seed must
// produce identical results (property #4). maxIterationsOverride, if > 0 and
// smaller than params.MaxIterations, further bounds the loop — the driver
// uses it to translate a wall-clock budget into an iteration ceiling.
func Anneal(state *State, idx Indexes, params AnnealingParams, rng *rand.Rand, maxIterationsOverride int, cancel CancelFunc) AnnealResult {
	best := state.Vector()
	bestHard := state.HardCount()
	bestScore := state.Score()

	maxIter := params.MaxIterations
	if maxIterationsOverride > 0 && maxIterationsOverride < maxIter {
		maxIter = maxIterationsOverride
	}

	temperature := params.InitialTemperature
	iterations := 0
	cancelled := false

	for iterations < maxIter && temperature >= params.MinTemperature {
		if cancel != nil && cancel() {
			cancelled = true
			break
		}
		if state.Len() < 1 {
			break
		}

		attemptMove(state, idx, rng, temperature)

		if state.Score() > bestScore {
			best = state.Vector()
			bestHard = state.HardCount()
			bestScore = state.Score()
		}

		temperature *= params.CoolingRate
		iterations++
	}

	return AnnealResult{
		Best:       best,
		BestHard:   bestHard,
		BestScore:  bestScore,
		Iterations: iterations,
		Cancelled:  cancelled,
	}
}

// attemptMove draws one of the three neighborhood moves by the spec's fixed
// probabilities (0.5/0.3/0.2) and applies the Metropolis test to it.
func attemptMove(state *State, idx Indexes, rng *rand.Rand, temperature float64) {
	switch pickMove(rng) {
	case moveChangeTime:
		tryChangeTime(state, idx, rng, temperature)
	case moveSwap:
		trySwap(state, idx, rng, temperature)
	default:
		tryChangeRoom(state, idx, rng, temperature)
	}
}

func pickMove(rng *rand.Rand) moveKind {
	r := rng.Float64()
	switch {
	case r < 0.5:
		return moveChangeTime
	case r < 0.8:
		return moveSwap
	default:
		return moveChangeRoom
	}
}

// tryChangeTime replaces one task's day and start minute with a uniformly
// random valid grid slot, keeping its room.
func tryChangeTime(state *State, idx Indexes, rng *rand.Rand, temperature float64) {
	if state.Len() == 0 {
		return
	}
	i := rng.Intn(state.Len())
	old := state.At(i)
	course := idx.CoursesByID[old.CourseID]
	cfg := state.eval.cfg

	starts := CandidateStarts(cfg.WorkingHoursStart, cfg.WorkingHoursEnd, course.DurationMinutes)
	if len(starts) == 0 {
		return
	}
	day := allDays[rng.Intn(len(allDays))]
	start := starts[rng.Intn(len(starts))]

	candidate := old
	candidate.Day = day
	candidate.StartMinute = start
	candidate.EndMinute = start + course.DurationMinutes

	applyMetropolis(state, i, candidate, rng, temperature)
}

// trySwap exchanges the day/start of two distinct tasks; each keeps its own
// room and its own course's duration, so end minutes are recomputed.
func trySwap(state *State, idx Indexes, rng *rand.Rand, temperature float64) {
	n := state.Len()
	if n < 2 {
		return
	}
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}

	oldI := state.At(i)
	oldJ := state.At(j)
	courseI := idx.CoursesByID[oldI.CourseID]
	courseJ := idx.CoursesByID[oldJ.CourseID]

	candI := oldI
	candI.Day = oldJ.Day
	candI.StartMinute = oldJ.StartMinute
	candI.EndMinute = oldJ.StartMinute + courseI.DurationMinutes

	candJ := oldJ
	candJ.Day = oldI.Day
	candJ.StartMinute = oldI.StartMinute
	candJ.EndMinute = oldI.StartMinute + courseJ.DurationMinutes

	// A swap that would run either task past the end of working hours is
	// skipped, so both tasks stay on their CandidateStarts grid.
	cfg := state.eval.cfg
	if candI.EndMinute > cfg.WorkingHoursEnd || candJ.EndMinute > cfg.WorkingHoursEnd {
		return
	}

	// The pair's combined delta can only be known by applying the first half
	// and taking a second delta against the now-updated buckets; if rejected
	// both halves are unwound before returning, so the move is atomic as
	// observed from outside this function.
	_, scoreDeltaI := state.TryDelta(i, candI)
	state.Apply(i, candI)
	_, scoreDeltaJ := state.TryDelta(j, candJ)

	deltaE := -(scoreDeltaI + scoreDeltaJ)
	if accept(deltaE, temperature, rng) {
		state.Apply(j, candJ)
		return
	}
	state.Apply(i, oldI)
}

// tryChangeRoom replaces one task's room with a uniformly random room that
// satisfies its course's required type and its group's capacity, falling
// back to any room if none qualifies (the resulting violation is left for
// the evaluator to report, matching the greedy initializer's fallback).
func tryChangeRoom(state *State, idx Indexes, rng *rand.Rand, temperature float64) {
	if state.Len() == 0 {
		return
	}
	i := rng.Intn(state.Len())
	old := state.At(i)
	course := idx.CoursesByID[old.CourseID]
	group := idx.GroupsByID[old.GroupID]

	candidates := roomsSatisfying(idx.RoomsSorted, course, group)
	if len(candidates) == 0 {
		candidates = idx.RoomsSorted
	}
	if len(candidates) == 0 {
		return
	}
	room := candidates[rng.Intn(len(candidates))]

	candidate := old
	candidate.RoomID = room.ID
	applyMetropolis(state, i, candidate, rng, temperature)
}

func roomsSatisfying(rooms []Room, course Course, group StudentGroup) []Room {
	var out []Room
	for _, r := range rooms {
		if course.RequiredRoomType != "" && course.RequiredRoomType != r.RoomType {
			continue
		}
		if r.Capacity < group.Size {
			continue
		}
		out = append(out, r)
	}
	return out
}

// applyMetropolis computes the candidate's score delta, runs the acceptance
// test, and commits the replacement only if accepted.
func applyMetropolis(state *State, i int, candidate Assignment, rng *rand.Rand, temperature float64) {
	_, deltaScore := state.TryDelta(i, candidate)
	deltaE := -deltaScore // score(current) - score(candidate)
	if accept(deltaE, temperature, rng) {
		state.Apply(i, candidate)
	}
}

// accept implements the Metropolis criterion: unconditional accept when the
// candidate is no worse, else accept with probability exp(-deltaE/T).
func accept(deltaE, temperature float64, rng *rand.Rand) bool {
	if deltaE <= 0 {
		return true
	}
	if temperature <= 0 {
		return false
	}
	return rng.Float64() < math.Exp(-deltaE/temperature)
}
