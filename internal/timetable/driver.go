package timetable

import (
	"math/rand"
	"time"
)

// SolveRequest is the core's entry point: a snapshot plus run parameters.
// TimeLimitSeconds defaults to 300 when zero; Seed seeds the annealing PRNG
// and must be supplied by the caller for deterministic runs (property #4).
type SolveRequest struct {
	Snapshot         Snapshot
	TimeLimitSeconds int
	Seed             int64
	Cancel           CancelFunc
}

// Result is the driver's packaged output (spec §4.5/§6).
type Result struct {
	Assignments       []Assignment
	HardViolationCount int
	FitnessScore      float64
	SolveTimeSeconds  float64
	Violations        []Violation
	Cancelled         bool
	Iterations        int
}

const defaultTimeLimitSeconds = 300

// Solve runs the full pipeline: validate the snapshot, build indexes, greedy
// initialize, anneal, and package the result. The only errors returned are
// InputMissing/InputInvalid/Internal (spec §7); Infeasible and Cancelled are
// not returned as errors — they are reflected in the populated Result.
func Solve(req SolveRequest) (Result, error) {
	start := time.Now()

	if err := validateSnapshot(req.Snapshot); err != nil {
		return Result{}, err
	}

	idx := BuildIndexes(req.Snapshot)
	eval := NewEvaluator(idx, req.Snapshot.Constraints, req.Snapshot.RoomHistory)
	tasks := BuildSessionTasks(req.Snapshot.Courses)

	state := Greedy(eval, tasks)

	timeLimit := req.TimeLimitSeconds
	if timeLimit <= 0 {
		timeLimit = defaultTimeLimitSeconds
	}
	params := req.Snapshot.Constraints.Annealing
	iterationBudget := int(float64(timeLimit) * params.IterationRate)

	deadline := start.Add(time.Duration(timeLimit) * time.Second)
	cancel := func() bool {
		if req.Cancel != nil && req.Cancel() {
			return true
		}
		return time.Now().After(deadline)
	}

	rng := rand.New(rand.NewSource(req.Seed))
	annealResult := Anneal(state, idx, params, rng, iterationBudget, cancel)

	final := NewState(eval, annealResult.Best)
	violations := final.Violations()

	return Result{
		Assignments:        final.Vector(),
		HardViolationCount: final.HardCount(),
		FitnessScore:       final.Score(),
		SolveTimeSeconds:   time.Since(start).Seconds(),
		Violations:         violations,
		Cancelled:          annealResult.Cancelled,
		Iterations:         annealResult.Iterations,
	}, nil
}
